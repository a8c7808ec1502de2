package minic

import (
	"fmt"
	"strings"
)

type Error struct {
	pos Pos
	msg string
}

func NewError(pos Pos, format string, args ...interface{}) Error {
	return Error{
		pos: pos,
		msg: fmt.Sprintf(format, args...),
	}
}

func (e Error) Error() string {
	if e.pos.IsZero() {
		return e.msg
	}
	return fmt.Sprintf("%s: error: %s", e.pos, e.msg)
}

// Stage names the pass that rejected a compilation unit.
type Stage string

const (
	StageParse    Stage = "syntax"
	StageSemantic Stage = "semantic"
)

// CompileError carries every diagnostic of the pass that stopped the pipeline.
type CompileError struct {
	Stage    Stage
	Messages []string
}

func (e *CompileError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%s analysis failed", e.Stage)
	}
	return fmt.Sprintf("%s analysis failed:\n  - %s", e.Stage, strings.Join(e.Messages, "\n  - "))
}
