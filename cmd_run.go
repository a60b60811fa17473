package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"turtle/compiler"
	"turtle/lexer"
	"turtle/parser"
	"turtle/vm"
)

// runCmd compiles a source file and executes it on the reference vm package,
// reporting the pen path it drew. Grounded on the teacher's cmd_run.go/
// cmd_run_compiled.go pair.
type runCmd struct {
	strict bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and execute a turtle program" }
func (*runCmd) Usage() string {
	return `run <file>:
  Compile a turtle source file and execute it on the reference VM,
  printing the path it draws. Read statements consume whitespace-
  separated integers from standard input.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.strict, "strict", false, "make a parameter or local shadowing a global an error and widen statement-call Pop to P+1")
}

func (cmd *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 no input file given")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read %s: %v\n", args[0], err)
		return subcommands.ExitFailure
	}

	tokens, err := lexer.New(string(data)).Scan()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	prog, err := parser.Make(tokens).ParseProgram()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	tr := compiler.NewTranslator(compiler.Options{Strict: cmd.strict})
	if err := tr.TranslateProgram(prog); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	input, err := scanInputInts(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	machine := vm.New(input)
	if err := machine.Run(tr.Instructions()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	for _, p := range machine.Segments() {
		fmt.Printf("%d %d\n", p.X, p.Y)
	}
	return subcommands.ExitSuccess
}

// scanInputInts reads whitespace-separated integers to feed the VM's
// Read statements; a program that never reads input never touches it.
func scanInputInts(f *os.File) ([]int64, error) {
	var values []int64
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		var v int64
		if _, err := fmt.Sscanf(scanner.Text(), "%d", &v); err != nil {
			return nil, fmt.Errorf("💥 malformed input value %q: %w", scanner.Text(), err)
		}
		values = append(values, v)
	}
	return values, scanner.Err()
}
