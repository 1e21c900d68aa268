package dmc

import (
	"io"

	"github.com/joshua-okoh/dmc/internal/arith"
	"github.com/joshua-okoh/dmc/internal/bitio"
	"github.com/joshua-okoh/dmc/internal/graph"
)

// decoder consumes encoded bits into an ambiguity buffer, deciding a
// source bit once the buffer's represented range lies entirely on one
// side of the current split point, then mirrors the encoder's
// normalize/clone/update/advance sequence exactly.
type decoder struct {
	g   *graph.Graph
	b   arith.Bounds
	out *bitio.Writer
	t1  uint64
	t2  uint64

	// buf holds encoded bits not yet resolved, most-recently-appended
	// last. Its length never exceeds arith.N (spec.md 3 DecoderBuffer).
	buf []int
}

func newDecoder(w io.Writer, cfg Config) *decoder {
	return &decoder{
		g:   graph.New(cfg.graphModel()),
		b:   arith.NewBounds(),
		out: bitio.NewWriter(w),
		t1:  cfg.T1,
		t2:  cfg.T2,
	}
}

// decodeAll feeds every bit of every byte read from r (LSB-first) into the
// decoder, draining the ambiguity buffer as bits resolve.
func (d *decoder) decodeAll(r io.Reader) error {
	in := bitio.NewReader(r)
	for {
		bit, err := in.ReadBit()
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return d.out.Flush()
		}
		if err != nil {
			return err
		}
		if err := d.feed(bit); err != nil {
			return err
		}
	}
}

// feed appends one encoded bit to the ambiguity buffer and drains every
// source bit it now determines (spec.md 4.5).
func (d *decoder) feed(e int) error {
	d.buf = append(d.buf, e)
	for {
		decided, bit, err := d.tryDecide()
		if err != nil {
			return err
		}
		if !decided {
			return nil
		}
		if err := d.out.WriteBit(bit); err != nil {
			return err
		}
	}
}

// tryDecide interprets the buffered bits as the high-order bits of an
// N-bit integer with unknown low bits, compares the resulting [min, max]
// range against the split point, and — if the range lies entirely on one
// side — commits that decision: normalizes bounds (popping the buffer's
// front for every shared top bit), clones, updates the count, and
// advances state.
func (d *decoder) tryDecide() (decided bool, bit int, err error) {
	k := len(d.buf)
	var val uint32
	for _, b := range d.buf {
		val = (val << 1) | uint32(b)
	}
	shift := uint(arith.N - k)
	min := val << shift
	max := min | ((uint32(1) << shift) - 1)

	mp := arith.SplitPoint(d.b, d.g.Current())

	switch {
	case min >= mp:
		bit = 1
		d.b.ApplyBit(1, mp)
	case max < mp:
		bit = 0
		d.b.ApplyBit(0, mp)
	default:
		return false, 0, nil
	}

	d.b.Normalize(func(int) {
		if len(d.buf) > 0 {
			d.buf = d.buf[1:]
		}
	})

	d.g.Clone(bit, d.t1, d.t2)
	d.g.Update(bit)
	return true, bit, nil
}

func (d *decoder) stats() Stats {
	return Stats{CloningCount: d.g.CloningCount(), StateCount: d.g.StateCount()}
}
