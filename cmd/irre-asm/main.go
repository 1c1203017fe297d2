// Command irre-asm assembles a single IRRE source file into an object
// file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"

	"irre/asm"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("irre-asm: ")

	out := flag.String("o", "", "output object file path (default: input path with .o extension)")
	verbose := flag.Bool("v", false, "dump the assembled object file's structure to stderr")
	flag.Parse()

	var inputPath string
	var source []byte
	var err error
	switch flag.NArg() {
	case 0:
		inputPath = "<stdin>"
		source, err = io.ReadAll(os.Stdin)
	case 1:
		inputPath = flag.Arg(0)
		source, err = os.ReadFile(inputPath)
	default:
		log.Fatalf("usage: irre-asm [-o output] [input.asm]")
	}
	if err != nil {
		log.Fatalf("%v", errors.Wrap(err, "reading source"))
	}

	obj, err := asm.Assemble(string(source))
	if err != nil {
		if ae, ok := err.(*asm.AssemblyError); ok && ae.Loc.Line > 0 {
			fmt.Fprintf(os.Stderr, "%s:%d:%d: %s: %s\n", inputPath, ae.Loc.Line, ae.Loc.Column, ae.Kind, ae.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", inputPath, err)
		}
		os.Exit(1)
	}

	if *verbose {
		pp.Fprintf(os.Stderr, "assembled object file: %v\n", obj)
	}

	outputPath := *out
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}
	if err := os.WriteFile(outputPath, obj.ToBinary(), 0o644); err != nil {
		log.Fatalf("%v", errors.Wrap(err, "writing object file"))
	}
}

func defaultOutputPath(inputPath string) string {
	for i := len(inputPath) - 1; i >= 0 && inputPath[i] != '/'; i-- {
		if inputPath[i] == '.' {
			return inputPath[:i] + ".o"
		}
	}
	return inputPath + ".o"
}
