// Command irre-dis disassembles an IRRE object file or raw instruction
// stream into a listing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"irre/disasm"
	"irre/objfile"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("irre-dis: ")

	out := flag.String("o", "", "output file path (default: standard output)")
	annotated := flag.Bool("annotated", false, "emit address and hex-byte columns, plus a header and data dump")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: irre-dis [-o output] [-annotated] <input>")
	}
	inputPath := flag.Arg(0)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("%v", errors.Wrap(err, "reading input"))
	}

	opts := disasm.Basic
	if *annotated {
		opts = disasm.Annotated
	}

	var listing string
	if f, ferr := objfile.FromBinary(data); ferr == nil {
		listing, err = disasm.DisassembleObjectFile(f, opts)
	} else if len(data)%4 == 0 {
		var lines []string
		lines, err = disasm.DisassembleBytes(data, 0, opts)
		for _, line := range lines {
			listing += line + "\n"
		}
	} else {
		fmt.Fprintf(os.Stderr, "%s: not an object file and length %d is not a multiple of 4\n", inputPath, len(data))
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", inputPath, err)
		os.Exit(1)
	}

	if *out == "" {
		fmt.Print(listing)
		return
	}
	if err := os.WriteFile(*out, []byte(listing), 0o644); err != nil {
		log.Fatalf("%v", errors.Wrap(err, "writing listing"))
	}
}
