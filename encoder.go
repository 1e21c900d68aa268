package dmc

import (
	"io"

	"github.com/joshua-okoh/dmc/internal/arith"
	"github.com/joshua-okoh/dmc/internal/bitio"
	"github.com/joshua-okoh/dmc/internal/graph"
)

// encoder drives source bits through the arithmetic coder and the Markov
// chain, emitting normalized bits to the output sink as the bounds
// narrow. It owns its Graph exclusively for the run's duration.
type encoder struct {
	g   *graph.Graph
	b   arith.Bounds
	out *bitio.Writer
	t1  uint64
	t2  uint64
}

func newEncoder(w io.Writer, cfg Config) *encoder {
	return &encoder{
		g:   graph.New(cfg.graphModel()),
		b:   arith.NewBounds(),
		out: bitio.NewWriter(w),
		t1:  cfg.T1,
		t2:  cfg.T2,
	}
}

// encodeAll decomposes every byte from r LSB-first and encodes each bit in
// turn.
func (e *encoder) encodeAll(r io.Reader) error {
	in := bitio.NewReader(r)
	for {
		bit, err := in.ReadBit()
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := e.encodeBit(bit); err != nil {
			return err
		}
	}
}

// encodeBit performs one step of spec.md 4.4: compute the split point,
// narrow the bounds, normalize (emitting any now-determined bits), clone,
// update the transition count, and advance along the post-clone edge.
func (e *encoder) encodeBit(bit int) error {
	mp := arith.SplitPoint(e.b, e.g.Current())
	e.b.ApplyBit(bit, mp)

	var emitErr error
	e.b.Normalize(func(out int) {
		if emitErr == nil {
			emitErr = e.out.WriteBit(out)
		}
	})
	if emitErr != nil {
		return emitErr
	}

	e.g.Clone(bit, e.t1, e.t2)
	e.g.Update(bit)
	return nil
}

// finish implements EncodeFinish from spec.md 4.4: seven dummy bits that
// each guarantee at least one bit of normalization progress, followed by
// the remaining prefix of the final split point down to its single
// surviving most-significant bit. Together with the output accumulator
// this leaves the stream ending on a byte boundary.
func (e *encoder) finish() error {
	for i := 0; i < 7; i++ {
		mp := arith.SplitPoint(e.b, e.g.Current())
		var dummy int
		if (e.b.Lower & arith.MSBit()) == (mp & arith.MSBit()) {
			dummy = 0
		} else {
			dummy = 1
		}
		if err := e.encodeBit(dummy); err != nil {
			return err
		}
	}

	mp := arith.SplitPoint(e.b, e.g.Current())
	for mp != arith.MSBit() {
		out := int(mp >> (arith.N - 1))
		if err := e.out.WriteBit(out); err != nil {
			return err
		}
		mp = (mp << 1) & arith.MSMask()
	}
	return e.out.Flush()
}

func (e *encoder) stats() Stats {
	return Stats{CloningCount: e.g.CloningCount(), StateCount: e.g.StateCount()}
}
