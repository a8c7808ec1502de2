package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"minic"

	"github.com/sanity-io/litter"
)

func main() {
	repl(os.Stdin, os.Stdout)
}

// session keeps the source text accepted so far. Each entry is compiled
// together with it from scratch, so nothing but text survives between runs.
type session struct {
	accepted strings.Builder
	last     *minic.Result
	// warnings already reported for the accepted text
	warned int
}

func repl(in io.Reader, out io.Writer) {
	var s session
	reader := bufio.NewReader(in)
	var buff strings.Builder
	depth := 0
	for {
		if depth == 0 {
			fmt.Fprint(out, "> ")
		} else {
			fmt.Fprint(out, ". ")
		}
		text, err := reader.ReadString('\n')
		if text == "" && err != nil {
			return
		}
		text = strings.TrimRight(text, "\r\n")
		if depth == 0 && strings.HasPrefix(text, ":") {
			s.command(out, text)
			continue
		}
		depth += strings.Count(text, "{") - strings.Count(text, "}")
		buff.WriteString(text)
		buff.WriteString("\n")
		if depth > 0 {
			continue
		}
		if depth < 0 {
			fmt.Fprintln(out, "error: extra closing brace")
		} else {
			s.eval(out, buff.String())
		}
		depth = 0
		buff.Reset()
	}
}

func (s *session) eval(out io.Writer, entry string) {
	source := s.accepted.String() + entry
	res, err := minic.Compile("<repl>", []byte(source))
	// Declarations are analyzed in order, so the accepted text's warnings
	// come first.
	if len(res.Warnings) > s.warned {
		for _, w := range res.Warnings[s.warned:] {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
	}
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	eval := minic.NewEvaluator(res.Symbols)
	if err := eval.Run(res.Instructions); err != nil {
		fmt.Fprintf(out, "runtime error: %s\n", err)
		return
	}
	s.accepted.WriteString(entry)
	s.last = res
	s.warned = len(res.Warnings)
	for _, b := range eval.Variables() {
		fmt.Fprintf(out, "%s = %s\n", b.Symbol.Name, b.Value)
	}
}

func (s *session) command(out io.Writer, cmd string) {
	switch strings.TrimSpace(cmd) {
	case ":ast":
		if s.last != nil {
			fmt.Fprintln(out, litter.Sdump(s.last.Program))
		}
	case ":ir":
		if s.last != nil {
			fmt.Fprint(out, minic.FormatInstructions(s.last.Instructions))
		}
	case ":reset":
		s.accepted.Reset()
		s.last = nil
		s.warned = 0
	default:
		fmt.Fprintf(out, "unknown command %s (try :ast, :ir, :reset)\n", cmd)
	}
}
