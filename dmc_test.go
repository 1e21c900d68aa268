package dmc

import (
	"bytes"
	"testing"
)

// roundTrip encodes src, decodes the result, and returns the first len(src)
// decoded bytes, matching spec.md 8's round-trip law (the decoder emits
// trailing bytes of terminator artifacts since it has no length header to
// stop on).
func roundTrip(t *testing.T, src []byte, cfg Config) ([]byte, Stats, Stats) {
	t.Helper()

	var encoded bytes.Buffer
	encStats, err := Compress(&encoded, bytes.NewReader(src), cfg)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	var decoded bytes.Buffer
	decStats, err := Decompress(&decoded, bytes.NewReader(encoded.Bytes()), cfg)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}

	out := decoded.Bytes()
	if len(out) < len(src) {
		t.Fatalf("decoded only %d bytes, want at least %d", len(out), len(src))
	}
	return out[:len(src)], encStats, decStats
}

func TestEmptyInput(t *testing.T) {
	cfg := DefaultConfig()
	var encoded bytes.Buffer
	stats, err := Compress(&encoded, bytes.NewReader(nil), cfg)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if stats.CloningCount != 0 {
		t.Errorf("cloning count = %d, want 0", stats.CloningCount)
	}
	if stats.StateCount != 2048 {
		t.Errorf("state count = %d, want 2048", stats.StateCount)
	}

	var decoded bytes.Buffer
	if _, err := Decompress(&decoded, bytes.NewReader(encoded.Bytes()), cfg); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if decoded.Len() != 0 {
		t.Errorf("decoded %d bytes from an empty input's terminator, want 0", decoded.Len())
	}
}

func TestSingleZeroByte(t *testing.T) {
	out, _, _ := roundTrip(t, []byte{0x00}, DefaultConfig())
	if !bytes.Equal(out, []byte{0x00}) {
		t.Fatalf("got %x, want 00", out)
	}
}

func Test32ZeroBytes(t *testing.T) {
	src := bytes.Repeat([]byte{0x00}, 32)
	out, encStats, decStats := roundTrip(t, src, DefaultConfig())
	if !bytes.Equal(out, src) {
		t.Fatalf("round trip mismatch for 32 zero bytes")
	}
	if encStats.CloningCount != 0 {
		t.Errorf("encoder cloning count = %d, want 0 (no successor's total exceeds the edge count by more than T2)", encStats.CloningCount)
	}
	if decStats.CloningCount != encStats.CloningCount {
		t.Errorf("encoder/decoder cloning counts differ: %d vs %d", encStats.CloningCount, decStats.CloningCount)
	}
}

func Test4096FFBytes(t *testing.T) {
	src := bytes.Repeat([]byte{0xFF}, 4096)
	out, encStats, decStats := roundTrip(t, src, DefaultConfig())
	if !bytes.Equal(out, src) {
		t.Fatalf("round trip mismatch for 4096 0xFF bytes")
	}
	if encStats.CloningCount == 0 {
		t.Errorf("expected cloning to occur on highly repetitive 0xFF input")
	}
	if encStats.CloningCount != decStats.CloningCount {
		t.Errorf("encoder/decoder cloning counts differ: %d vs %d", encStats.CloningCount, decStats.CloningCount)
	}
	if encStats.StateCount != decStats.StateCount {
		t.Errorf("encoder/decoder state counts differ: %d vs %d", encStats.StateCount, decStats.StateCount)
	}
}

func TestByteModelAAAAAAAA(t *testing.T) {
	cfg := Config{Model: ModelByte, T1: 16, T2: 16}
	src := []byte("AAAAAAAA")
	out, encStats, decStats := roundTrip(t, src, cfg)
	if !bytes.Equal(out, src) {
		t.Fatalf("got %q, want %q", out, src)
	}
	if encStats.StateCount < 255 {
		t.Errorf("byte model state count = %d, want >= 255", encStats.StateCount)
	}
	if encStats.StateCount != decStats.StateCount {
		t.Errorf("encoder/decoder state counts differ: %d vs %d", encStats.StateCount, decStats.StateCount)
	}
}

func TestAlternatingAggressiveCloning(t *testing.T) {
	cfg := Config{Model: ModelByte, T1: 4, T2: 4}
	src := make([]byte, 0, 2048)
	for i := 0; i < 1024; i++ {
		src = append(src, 0x00, 0xFF)
	}
	out, encStats, decStats := roundTrip(t, src, cfg)
	if !bytes.Equal(out, src) {
		t.Fatalf("round trip mismatch under aggressive cloning")
	}
	if encStats.StateCount != decStats.StateCount {
		t.Fatalf("encoder/decoder state counts diverged: %d vs %d", encStats.StateCount, decStats.StateCount)
	}
	if encStats.CloningCount != decStats.CloningCount {
		t.Fatalf("encoder/decoder cloning counts diverged: %d vs %d", encStats.CloningCount, decStats.CloningCount)
	}
}

func TestDeterministicEncoding(t *testing.T) {
	src := []byte("the quick brown fox jumps over the lazy dog")
	cfg := DefaultConfig()

	var a, b bytes.Buffer
	if _, err := Compress(&a, bytes.NewReader(src), cfg); err != nil {
		t.Fatalf("Compress a: %v", err)
	}
	if _, err := Compress(&b, bytes.NewReader(src), cfg); err != nil {
		t.Fatalf("Compress b: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("two encode runs on identical input produced different output")
	}
}

func TestRoundTripVariousConfigs(t *testing.T) {
	src := []byte("0123456789ABCDEFabcdefghijklmnopqrstuvwxyz")
	configs := []Config{
		DefaultConfig(),
		{Model: ModelByte, T1: 16, T2: 16},
		{Model: ModelBraid, T1: 1, T2: 1},
		{Model: ModelByte, T1: 0, T2: 0}, // falls back to 16/16
	}
	for i, cfg := range configs {
		out, _, _ := roundTrip(t, src, cfg)
		if !bytes.Equal(out, src) {
			t.Errorf("config %d: round trip mismatch: got %q, want %q", i, out, src)
		}
	}
}

func TestUnknownModelFallsBackToBraid(t *testing.T) {
	cfg := Config{Model: Model(99), T1: 16, T2: 16}
	if got := cfg.normalize().Model; got != ModelBraid {
		t.Fatalf("unrecognized model normalized to %v, want ModelBraid", got)
	}
}

func TestZeroThresholdsFallBackToDefaults(t *testing.T) {
	cfg := Config{Model: ModelBraid}
	n := cfg.normalize()
	if n.T1 != defaultThreshold || n.T2 != defaultThreshold {
		t.Fatalf("zero thresholds normalized to (%d, %d), want (%d, %d)", n.T1, n.T2, defaultThreshold, defaultThreshold)
	}
}
