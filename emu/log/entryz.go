package log

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level logrus.Level

const (
	ErrorLevel = Level(logrus.ErrorLevel)
	WarnLevel  = Level(logrus.WarnLevel)
	InfoLevel  = Level(logrus.InfoLevel)
	DebugLevel = Level(logrus.DebugLevel)
)

const maxZFields = 16

// EntryZ is a log entry built field by field, meant to be used as a chain:
//
//	log.ModMem.DebugZ("page allocated").Hex32("addr", addr).End()
//
// A nil *EntryZ is returned when the module/level is disabled, every method
// is then a no-op so that disabled logs cost almost nothing.
type EntryZ struct {
	lvl   Level
	msg   string
	mod   Module
	zfbuf [maxZFields]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.zfidx = 0
	return e
}

func (z *EntryZ) add() *ZField {
	if z.zfidx == maxZFields {
		return nil
	}
	f := &z.zfbuf[z.zfidx]
	z.zfidx++
	return f
}

func (z *EntryZ) uint(typ FieldType, key string, v uint64) *EntryZ {
	if z != nil {
		if f := z.add(); f != nil {
			*f = ZField{Type: typ, Key: key, Integer: v}
		}
	}
	return z
}

func (z *EntryZ) Hex32(key string, v uint32) *EntryZ { return z.uint(FieldTypeHex32, key, uint64(v)) }
func (z *EntryZ) Uint(key string, v uint64) *EntryZ  { return z.uint(FieldTypeUint, key, v) }
func (z *EntryZ) Int(key string, v int) *EntryZ      { return z.uint(FieldTypeInt, key, uint64(v)) }

func (z *EntryZ) String(key, v string) *EntryZ {
	if z != nil {
		if f := z.add(); f != nil {
			*f = ZField{Type: FieldTypeString, Key: key, String: v}
		}
	}
	return z
}

func (z *EntryZ) Bool(key string, v bool) *EntryZ {
	if z != nil {
		if f := z.add(); f != nil {
			*f = ZField{Type: FieldTypeBool, Key: key, Boolean: v}
		}
	}
	return z
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	if z != nil {
		if f := z.add(); f != nil {
			*f = ZField{Type: FieldTypeError, Key: key, Error: err}
		}
	}
	return z
}

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	if z != nil {
		if f := z.add(); f != nil {
			*f = ZField{Type: FieldTypeDuration, Key: key, Duration: d}
		}
	}
	return z
}

func (z *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	if z != nil {
		if f := z.add(); f != nil {
			*f = ZField{Type: FieldTypeStringer, Key: key, Interface: s}
		}
	}
	return z
}

// End emits the entry and releases it. The entry must not be used afterwards.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	fields := make(logrus.Fields, z.zfidx+1)
	fields["_mod"] = z.mod.String()
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}
	entry := logrus.StandardLogger().WithFields(fields)

	lvl, msg := z.lvl, z.msg
	z.zfbuf = [maxZFields]ZField{}
	entryPool.Put(z)

	switch lvl {
	case DebugLevel:
		entry.Debug(msg)
	case InfoLevel:
		entry.Info(msg)
	case WarnLevel:
		entry.Warn(msg)
	case ErrorLevel:
		entry.Error(msg)
	}
}
