package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"turtle/compiler"
	"turtle/lexer"
	"turtle/parser"
	"turtle/token"
	"turtle/vm"
)

// replCmd is an interactive session that accumulates source across lines,
// compiling and running the buffered program once its braces balance.
// Grounded on the teacher's cmd_repl_compiled.go buffering loop, rebuilt on
// chzyer/readline instead of a bare bufio.Scanner for line editing/history.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive turtle session" }
func (*replCmd) Usage() string {
	return `repl:
  Read turtle statements interactively, compiling and running the
  buffered program once its braces balance. "exit" quits.
`
}

func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start readline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Println("turtle repl — type a program, \"exit\" to quit")
	runREPL(rl, os.Stdout)
	return subcommands.ExitSuccess
}

func runREPL(rl *readline.Instance, out io.Writer) {
	var buffer strings.Builder

	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return
		}
		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		tokens, err := lexer.New(source).Scan()
		if err != nil {
			fmt.Fprintln(out, err)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		prog, err := parser.Make(tokens).ParseProgram()
		if err != nil {
			if isEOFSyntaxError(err, tokens) {
				continue
			}
			fmt.Fprintln(out, err)
			buffer.Reset()
			continue
		}

		tr := compiler.NewTranslator(compiler.Options{})
		if err := tr.TranslateProgram(prog); err != nil {
			fmt.Fprintln(out, err)
			buffer.Reset()
			continue
		}

		machine := vm.New(nil)
		if err := machine.Run(tr.Instructions()); err != nil {
			fmt.Fprintln(out, err)
			buffer.Reset()
			continue
		}

		for _, p := range machine.Segments() {
			fmt.Fprintf(out, "%d %d\n", p.X, p.Y)
		}
		buffer.Reset()
	}
}

// isInputReady reports whether tokens form a balanced, plausibly complete
// program: non-positive brace balance and a last non-EOF token that doesn't
// obviously expect a continuation (an operator, an opening brace/paren, or
// a keyword that introduces a clause).
func isInputReady(tokens []token.Token) bool {
	braceBalance := 0
	for _, tok := range tokens {
		switch tok.Type {
		case token.LBRACE:
			braceBalance++
		case token.RBRACE:
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.Type {
	case token.ASSIGN, token.PLUS, token.MINUS, token.STAR,
		token.EQ, token.NEQ, token.LT, token.GT, token.LEQ, token.GEQ,
		token.COMMA, token.LPAREN, token.LBRACE,
		token.IF, token.ELSE, token.WHILE, token.FUN, token.RETURN, token.VAR:
		return false
	}
	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Type != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// isEOFSyntaxError reports whether a parse error's position lands on the
// final EOF token, in which case the user most likely hasn't finished
// typing yet rather than having written something malformed.
func isEOFSyntaxError(err error, tokens []token.Token) bool {
	syntaxErr, ok := err.(parser.SyntaxError)
	if !ok || len(tokens) == 0 {
		return false
	}
	eof := tokens[len(tokens)-1]
	return syntaxErr.Line == eof.Line && syntaxErr.Column == eof.Column
}
