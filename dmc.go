// Package dmc implements Dynamic Markov Compression: a lossless bit-level
// compressor/decompressor pairing a finite-precision binary arithmetic
// coder with an adaptively-grown Markov chain of transition states.
//
// Basic usage for encoding:
//
//	stats, err := dmc.Compress(w, r, dmc.DefaultConfig())
//
// Basic usage for decoding:
//
//	stats, err := dmc.Decompress(w, r, dmc.DefaultConfig())
package dmc

import (
	"io"

	"github.com/joshua-okoh/dmc/internal/graph"
)

// Model selects the initial Markov chain topology.
type Model int

const (
	// ModelBraid is the default 8x256 mesh topology (spec.md 4.1).
	ModelBraid Model = iota
	// ModelByte is the depth-7 binary tree topology (spec.md 4.1).
	ModelByte
)

// defaultThreshold is the default value for both cloning thresholds.
const defaultThreshold = 16

// Config holds the settings fixed once before processing begins: which
// initial topology to seed the Markov chain with, and the two cloning
// thresholds that gate state-splitting.
type Config struct {
	// Model selects the initial topology. Any unrecognized value falls
	// back to ModelBraid, matching the CLI's silent-fallback behavior.
	Model Model

	// T1 is the value an edge's observed transition count must exceed
	// before its target state becomes eligible for cloning. Zero falls
	// back to 16.
	T1 uint64

	// T2 is the value the "other" count (the target state's total minus
	// the observed transition count) must also exceed before cloning.
	// Zero falls back to 16.
	T2 uint64
}

// DefaultConfig returns the braid topology with both cloning thresholds
// set to 16.
func DefaultConfig() Config {
	return Config{Model: ModelBraid, T1: defaultThreshold, T2: defaultThreshold}
}

// normalize applies the CLI-parity fallback rules from spec.md 6/9: a
// zero threshold reverts to the default, and any topology value other than
// ModelByte is treated as ModelBraid.
func (c Config) normalize() Config {
	out := c
	if out.T1 == 0 {
		out.T1 = defaultThreshold
	}
	if out.T2 == 0 {
		out.T2 = defaultThreshold
	}
	if out.Model != ModelByte {
		out.Model = ModelBraid
	}
	return out
}

func (c Config) graphModel() graph.Model {
	if c.Model == ModelByte {
		return graph.ModelByte
	}
	return graph.ModelBraid
}

// Stats reports the final counters of a completed encode or decode run,
// matching the CLI's "<cloning_count>\t<state_count>\n" summary line
// (spec.md 6).
type Stats struct {
	CloningCount uint64
	StateCount   int
}

// Compress reads source bytes from r, DMC-encodes them, and writes the
// encoded bit stream to w. It returns the final model counters.
func Compress(w io.Writer, r io.Reader, cfg Config) (Stats, error) {
	enc := newEncoder(w, cfg.normalize())
	if err := enc.encodeAll(r); err != nil {
		return Stats{}, err
	}
	if err := enc.finish(); err != nil {
		return Stats{}, err
	}
	return enc.stats(), nil
}

// Decompress reads an encoded bit stream from r, DMC-decodes it, and
// writes the recovered bytes to w. The stream carries no length, so the
// decoder keeps decoding the encoder's termination bits and padding: the
// original bytes are followed by trailing "ghost" bytes, and their number
// is not limited to one (an empty input decodes to 8 bytes with the
// default config). Callers needing exact byte-length recovery must track
// the original length out of band.
func Decompress(w io.Writer, r io.Reader, cfg Config) (Stats, error) {
	dec := newDecoder(w, cfg.normalize())
	if err := dec.decodeAll(r); err != nil {
		return Stats{}, err
	}
	return dec.stats(), nil
}
