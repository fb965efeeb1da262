package mem

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-faster/jx"
)

var ErrBadSnapshot = errors.New("bad memory snapshot")

// WriteSnapshot writes the allocated pages of m to w as a JSON document:
//
//	{"size":N,"page_size":4096,"pages":[{"index":I,"data":"<base64>"},...]}
//
// Pages never written are omitted.
func (m *PagedMem) WriteSnapshot(w io.Writer) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.Obj(func(e *jx.Encoder) {
		e.Field("size", func(e *jx.Encoder) { e.UInt32(m.size) })
		e.Field("page_size", func(e *jx.Encoder) { e.Int(PageSize) })
		e.Field("pages", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for idx, p := range m.pages {
					if p == nil {
						continue
					}
					e.Obj(func(e *jx.Encoder) {
						e.Field("index", func(e *jx.Encoder) { e.Int(idx) })
						e.Field("data", func(e *jx.Encoder) { e.Base64(p[:]) })
					})
				}
			})
		})
	})

	_, err := e.WriteTo(w)
	return err
}

// ReadSnapshot creates a PagedMem from a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*PagedMem, error) {
	type rawPage struct {
		index int
		data  []byte
	}

	var (
		size     uint32
		pageSize = -1
		pages    []rawPage
	)

	d := jx.Decode(r, 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "size":
			size, err = d.UInt32()
		case "page_size":
			pageSize, err = d.Int()
		case "pages":
			err = d.Arr(func(d *jx.Decoder) error {
				rp := rawPage{index: -1}
				err := d.Obj(func(d *jx.Decoder, key string) error {
					var err error
					switch key {
					case "index":
						rp.index, err = d.Int()
					case "data":
						rp.data, err = d.Base64()
					default:
						err = d.Skip()
					}
					return err
				})
				pages = append(pages, rp)
				return err
			})
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}

	if pageSize != PageSize {
		return nil, fmt.Errorf("%w: page size %d, want %d", ErrBadSnapshot, pageSize, PageSize)
	}
	m, err := NewPagedMem(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	for _, rp := range pages {
		if rp.index < 0 || rp.index >= len(m.pages) {
			return nil, fmt.Errorf("%w: page index %d out of range", ErrBadSnapshot, rp.index)
		}
		if len(rp.data) != PageSize {
			return nil, fmt.Errorf("%w: page %d holds %d bytes", ErrBadSnapshot, rp.index, len(rp.data))
		}
		if m.pages[rp.index] != nil {
			return nil, fmt.Errorf("%w: duplicate page %d", ErrBadSnapshot, rp.index)
		}
		p := new(page)
		copy(p[:], rp.data)
		m.pages[rp.index] = p
		m.count++
	}
	return m, nil
}
