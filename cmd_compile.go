package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"turtle/compiler"
	"turtle/lexer"
	"turtle/parser"
)

// compileCmd implements spec.md §6's CLI contract: lex, parse, and
// translate one or more turtle source files, writing disassembly
// (default) or binary (-s) to stdout or the -o path.
type compileCmd struct {
	binary bool
	output string
	debug  bool
	strict bool
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "Compile turtle source to disassembly or bytecode" }
func (*compileCmd) Usage() string {
	return `compile [-s] [-o path] [-d] <file...>:
  Lex, parse, and translate one or more turtle source files, writing
  disassembly (default) or binary (-s) output to stdout or the -o path.
`
}

func (cmd *compileCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.binary, "s", false, "emit binary (one 16-bit word per line) instead of disassembly")
	f.StringVar(&cmd.output, "o", "", "write output to this path instead of stdout")
	f.BoolVar(&cmd.debug, "d", false, "include instruction indices in disassembly even when writing to a file")
	f.BoolVar(&cmd.strict, "strict", false, "make a parameter or local shadowing a global an error and widen statement-call Pop to P+1")
}

func (cmd *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "💥 no input files given")
		return subcommands.ExitUsageError
	}

	var out io.Writer = os.Stdout
	toStdout := true
	if cmd.output != "" {
		file, err := os.Create(cmd.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 failed to open output file: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		out = file
		toStdout = false
	}

	// One Translator per file (see SPEC_FULL.md's multi-file redesign
	// note): each source file is an independent program, with its output
	// appended to the same sink in argument order.
	for _, path := range args {
		if err := cmd.compileFile(path, out, toStdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func (cmd *compileCmd) compileFile(path string, out io.Writer, toStdout bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("💥 failed to read %s: %w", path, err)
	}

	tokens, err := lexer.New(string(data)).Scan()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	prog, err := parser.Make(tokens).ParseProgram()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	tr := compiler.NewTranslator(compiler.Options{Strict: cmd.strict})
	if err := tr.TranslateProgram(prog); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	ins := tr.Instructions()
	if cmd.binary {
		// Per the pinned disassembly/binary index asymmetry: binary
		// output only carries indices when writing to stdout.
		return ins.EncodeBinary(out, toStdout)
	}
	return ins.Disassemble(out, toStdout || cmd.debug)
}
