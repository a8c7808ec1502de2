package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepl(t *testing.T) {
	in := strings.NewReader("int x = 1;\nint y = x + 1;\n:ir\n:reset\nint x = true;\n:bogus\n")
	var out bytes.Buffer
	repl(in, &out)
	assert.Equal(t, "> x = 1\n"+
		"> x = 1\ny = 2\n"+
		"> declare x\nt1 = 1\nx = t1\ndeclare y\nt2 = 1\nt3 = x + t2\ny = t3\n"+
		"> "+
		"> semantic analysis failed:\n  - cannot assign bool to int variable 'x'\n"+
		"> unknown command :bogus (try :ast, :ir, :reset)\n"+
		"> ", out.String())
}

func TestReplRejectedEntryIsDropped(t *testing.T) {
	in := strings.NewReader("int x = 1;\nint y = z;\nint z = x;\n")
	var out bytes.Buffer
	repl(in, &out)
	assert.Contains(t, out.String(), "undefined variable 'z'")
	assert.Contains(t, out.String(), "x = 1\nz = 1\n")
	assert.NotContains(t, out.String(), "y = ")
}

func TestReplBlocks(t *testing.T) {
	in := strings.NewReader("function int f() {\nreturn 1;\n}\nint a;\nint b = a;\n}\n")
	var out bytes.Buffer
	repl(in, &out)
	assert.Contains(t, out.String(), "> . . > ")
	assert.Contains(t, out.String(), "warning: variable 'a' used uninitialized\n")
	assert.Contains(t, out.String(), "a = 0\nb = 0\n")
	assert.Contains(t, out.String(), "error: extra closing brace\n")
}

func TestReplAST(t *testing.T) {
	in := strings.NewReader(":ast\nbool b = true;\n:ast\n")
	var out bytes.Buffer
	repl(in, &out)
	assert.True(t, strings.HasPrefix(out.String(), "> > b = true\n"))
	assert.Contains(t, out.String(), "minic.BooleanLiteral")
}

func TestReplReportsWarningsOnce(t *testing.T) {
	in := strings.NewReader("int x;\nint y = x;\nint z = 1;\nint w = y;\n:reset\nint x;\nint y = x;\n")
	var out bytes.Buffer
	repl(in, &out)
	assert.Equal(t, 2, strings.Count(out.String(), "warning: variable 'x' used uninitialized"))
	assert.Equal(t, 0, strings.Count(out.String(), "warning: variable 'y'"))
}
