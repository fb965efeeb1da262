package main

import (
	"context"
	"fmt"
	"os"

	"m68kmem/emu"
)

var version = "devel"

func main() {
	cli := parseArgs(os.Args[1:])
	if cli.mode == versionMode {
		fmt.Println("m68kmem", version)
		return
	}

	cfg, err := emu.LoadConfigOrDefault(cli.Config)
	checkf(err, "failed to load configuration")

	sess, err := emu.NewSession(context.Background(), cfg)
	checkf(err, "failed to create memory")

	switch cli.mode {
	case infoMode:
		printInfos(os.Stdout, sess)
	case peekMode:
		checkf(peekMain(os.Stdout, sess.Bus, cli.Peek), "peek failed")
	case dumpMode:
		checkf(dumpMain(sess, cli.Dump), "dump failed")
	}
}
