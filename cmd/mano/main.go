// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/ezrec/mano/io"
	"github.com/ezrec/mano/machine"
)

// Exit codes.
const (
	EXIT_HALTED  = 0 // Program ran to HLT.
	EXIT_FAILED  = 1 // Setup, assembly or runtime error.
	EXIT_STOPPED = 2 // Stopped before HLT.
)

type options struct {
	source  string
	input   string
	output  string
	verbose bool
	trace   bool
	limit   int
	dump    bool
	step    bool
}

func main() {
	var opts options

	flag.StringVar(&opts.input, "i", "", "Tape input ('-' for stdin)")
	flag.StringVar(&opts.output, "o", "-", "Tape output")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose mode")
	flag.BoolVar(&opts.trace, "t", false, "Trace micro-operations")
	flag.IntVar(&opts.limit, "n", 1_000_000, "Tick limit (0 for no limit)")
	flag.BoolVar(&opts.dump, "dump", false, "Dump symbols and final state")
	flag.BoolVar(&opts.step, "step", false, "Wait for a key before each instruction")

	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix(os.Args[0] + ": ")

	if flag.NArg() != 1 {
		log.Fatalf("expected one source file, got %v", flag.Args())
	}
	opts.source = flag.Arg(0)

	if opts.step && opts.input == "-" {
		log.Fatalf("-step reads stdin, it cannot be the tape input")
	}

	os.Exit(run(&opts))
}

// run assembles and executes the source program. Every resource it opens
// is released before it returns the exit code.
func run(opts *options) (code int) {
	mach := machine.NewMachine()

	inf, err := os.Open(opts.source)
	if err != nil {
		log.Printf("%v: %v", opts.source, err)
		return EXIT_FAILED
	}
	loaded, err := mach.LoadSource(inf)
	inf.Close()
	if err != nil {
		log.Printf("%v: %v", opts.source, err)
		return EXIT_FAILED
	}

	assembled := mach.Assemble()
	printLog(os.Stderr, opts.verbose, loaded, assembled)
	if assembled.HasErrors() {
		return EXIT_FAILED
	}

	if opts.dump {
		pp.Fprintln(os.Stderr, mach.Symbols())
	}

	tape := &io.Tape{}
	defer tape.Close()

	switch opts.input {
	case "":
	case "-":
		tape.Input = os.Stdin
	default:
		inf, err := os.Open(opts.input)
		if err != nil {
			log.Printf("%v: %v", opts.input, err)
			return EXIT_FAILED
		}
		defer inf.Close()
		tape.Input = inf
	}

	switch opts.output {
	case "":
	case "-":
		tape.Output = os.Stdout
	default:
		ouf, err := os.Create(opts.output)
		if err != nil {
			log.Printf("%v: %v", opts.output, err)
			return EXIT_FAILED
		}
		defer ouf.Close()
		tape.Output = ouf
	}

	if opts.step {
		err = enterRawTerm()
		if err != nil {
			log.Printf("-step: %v", err)
			return EXIT_FAILED
		}
		defer exitRawTerm()
	}

	code = EXIT_STOPPED

	ticks := 0
	for !mach.Halted() {
		if opts.limit > 0 && ticks == opts.limit {
			log.Printf("tick limit %d reached", opts.limit)
			break
		}

		if opts.step && mach.Cpu.Registers.SC.Get() == 0 {
			printStep(os.Stderr, mach)
			if !waitKey() {
				break
			}
		}

		steplog := mach.Tick(opts.trace)
		printLog(os.Stderr, opts.verbose, steplog)
		if steplog.HasErrors() {
			code = EXIT_FAILED
		}
		ticks++

		err = tape.Service(mach)
		if err != nil {
			log.Print(err)
			return EXIT_FAILED
		}
	}

	// Deliver the last output character.
	err = tape.Service(mach)
	if err != nil {
		log.Print(err)
		return EXIT_FAILED
	}

	if opts.dump {
		state := mach.State()
		pp.Fprintln(os.Stderr, registerMap(&state.Registers))
	}

	if mach.Halted() && code != EXIT_FAILED {
		code = EXIT_HALTED
	}

	return
}
