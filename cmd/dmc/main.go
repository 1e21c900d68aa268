// Command dmc compresses and decompresses files with Dynamic Markov
// Compression.
//
// Usage:
//
//	dmc -e [-m braid|byte] [-A threshold1] [-B threshold2] <input>
//	dmc -d [-m braid|byte] [-A threshold1] [-B threshold2] <input>
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joshua-okoh/dmc"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "dmc: %v\n", err)
		os.Exit(-1)
	}
}

// runMode tracks whether the run encodes or decodes. -e and -d are
// mutually exclusive; whichever was given last on the command line wins
// (spec.md 6).
type runMode int

const (
	modeEncode runMode = iota
	modeDecode
)

// modeFlag is a flag.Value that sets a shared runMode whenever it is
// toggled on, letting -e and -d share one "last flag wins" target.
type modeFlag struct {
	target *runMode
	value  runMode
}

func (f *modeFlag) String() string { return "false" }

func (f *modeFlag) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if b {
		*f.target = f.value
	}
	return nil
}

func (f *modeFlag) IsBoolFlag() bool { return true }

func run(args []string) error {
	fs := flag.NewFlagSet("dmc", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	mode := modeEncode
	fs.Var(&modeFlag{target: &mode, value: modeEncode}, "e", "encode mode")
	fs.Var(&modeFlag{target: &mode, value: modeDecode}, "d", "decode mode")
	model := fs.String("m", "braid", "initial model: braid or byte")
	t1 := fs.Uint64("A", 0, "cloning threshold 1 (0 uses the default of 16)")
	t2 := fs.Uint64("B", 0, "cloning threshold 2 (0 uses the default of 16)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: dmc (-e|-d) [-m braid|byte] [-A n] [-B n] <input>")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("missing input file")
	}
	input := fs.Arg(0)

	cfg := dmc.DefaultConfig()
	if *model == "byte" {
		cfg.Model = dmc.ModelByte
	} else {
		cfg.Model = dmc.ModelBraid
	}
	if *t1 > 0 && *t2 > 0 {
		cfg.T1 = *t1
		cfg.T2 = *t2
	}

	in, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", input, err)
	}
	defer in.Close()
	reader := bufio.NewReader(in)

	var outPath string
	if mode == modeEncode {
		outPath = input + ".dmc"
	} else {
		outPath = input + ".raw"
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", outPath, err)
	}
	defer out.Close()
	writer := bufio.NewWriter(out)

	var stats dmc.Stats
	if mode == modeEncode {
		stats, err = dmc.Compress(writer, reader, cfg)
	} else {
		stats, err = dmc.Decompress(writer, reader, cfg)
	}
	if err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	fmt.Printf("%d\t%d\n", stats.CloningCount, stats.StateCount)
	return nil
}
