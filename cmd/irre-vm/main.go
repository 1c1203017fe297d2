// Command irre-vm loads and executes an IRRE object file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"irre/disasm"
	"irre/objfile"
	"irre/vm"
)

const (
	deviceConsole = 0
	deviceNull    = 1
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("irre-vm: ")

	memSize := flag.Int("mem", 0, "memory size in bytes (default: 1 MiB)")
	maxInstructions := flag.Int("max", 1_000_000, "maximum instructions to execute")
	trace := flag.String("trace", "none", "tracing level: none, basic, semantic")
	interactive := flag.Bool("interactive", false, "drop into a step-debugger REPL instead of running to completion")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: irre-vm [flags] <program.o>")
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("%v", errors.Wrap(err, "reading object file"))
	}
	obj, err := objfile.FromBinary(data)
	if err != nil {
		log.Fatalf("%v", errors.Wrap(err, "parsing object file"))
	}

	machine := vm.New(*memSize)
	console := vm.NewConsoleDevice()
	machine.Devices.Register(deviceConsole, console)
	machine.Devices.Register(deviceNull, vm.NullDevice{})

	if err := machine.LoadProgram(obj); err != nil {
		log.Fatalf("%v", errors.Wrap(err, "loading program"))
	}

	if *trace != "none" {
		machine.AddObserver(&traceObserver{semantic: *trace == "semantic"})
	}

	if *interactive {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			oldState, err := term.MakeRaw(int(os.Stdout.Fd()))
			if err != nil {
				log.Fatalf("%v", errors.Wrap(err, "entering raw mode"))
			}
			defer term.Restore(int(os.Stdout.Fd()), oldState)
		}
		runInteractive(machine)
	} else {
		machine.Run(*maxInstructions)
	}

	os.Stdout.Write(console.Output())

	if machine.State != vm.Halted {
		if machine.LastError != nil {
			fmt.Fprintf(os.Stderr, "irre-vm: %v\n", machine.LastError)
		}
		os.Exit(1)
	}
}

type traceObserver struct {
	vm.BaseObserver
	semantic bool
}

func (t *traceObserver) PreExecute(ctx vm.ExecutionContext) {
	if !ctx.HasInst {
		return
	}
	line := disasm.Line(ctx.PC, ctx.Instruction.Encode(), disasm.Options{ShowAddress: true})
	if t.semantic {
		fmt.Fprintf(os.Stderr, "%s\t; %s\n", line, vm.DescribeExecution(ctx.Instruction))
		return
	}
	fmt.Fprintln(os.Stderr, line)
}

func (t *traceObserver) OnError(ctx vm.ExecutionContext, err *vm.RuntimeError) {
	fmt.Fprintf(os.Stderr, "error at pc=0x%08x: %v\n", ctx.PC, err)
}

// runInteractive drives a minimal step-debugger REPL: step, run, regs,
// and quit commands over the machine, printing a pp-formatted register
// dump on request.
func runInteractive(machine *vm.VM) {
	rl, err := readline.New("(irre) ")
	if err != nil {
		log.Fatalf("%v", errors.Wrap(err, "starting interactive console"))
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		switch strings.TrimSpace(line) {
		case "step", "s":
			if !machine.Step() {
				fmt.Println("vm is not running")
			}
		case "run", "r":
			n := machine.Run(1_000_000)
			fmt.Printf("ran %d steps, state=%s\n", n, machine.State)
		case "regs":
			pp.Println(machine.Registers.Snapshot())
		case "quit", "q":
			return
		case "":
			// ignore blank lines
		default:
			fmt.Println("commands: step, run, regs, quit")
		}
		if machine.State != vm.Running {
			fmt.Printf("vm state: %s\n", machine.State)
		}
	}
}
