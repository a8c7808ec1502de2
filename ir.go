package minic

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	OpDeclare = "declare"
	OpCopy    = "="
	// ErrorOperand stands in for a value the generator could not lower.
	ErrorOperand = "ERROR"
)

// Instruction is one three-address instruction. Empty fields are absent; the
// present fields decide which of the four textual shapes it renders as.
type Instruction struct {
	Op       string
	Result   string
	Operand1 string
	Operand2 string
}

func (i Instruction) String() string {
	switch {
	case i.Op == OpDeclare:
		return "declare " + i.Result
	case i.Operand2 != "":
		return fmt.Sprintf("%s = %s %s %s", i.Result, i.Operand1, i.Op, i.Operand2)
	case i.Operand1 != "":
		return fmt.Sprintf("%s = %s", i.Result, i.Operand1)
	}
	return i.Op
}

// WriteInstructions writes one instruction per line.
func WriteInstructions(w io.Writer, instrs []Instruction) error {
	for _, instr := range instrs {
		if _, err := fmt.Fprintln(w, instr); err != nil {
			return err
		}
	}
	return nil
}

func FormatInstructions(instrs []Instruction) string {
	var b strings.Builder
	_ = WriteInstructions(&b, instrs)
	return b.String()
}

// Generator lowers top-level variable declarations and expression statements
// to three-address code. It never fails: nodes it cannot lower become an
// explicit ERROR operand and emission continues.
type Generator struct {
	program      *Program
	symbols      *SymbolTable
	instructions []Instruction
	temps        int
	// variables are never handed out as temporaries
	variables map[string]struct{}
}

func NewGenerator(program *Program, symbols *SymbolTable) *Generator {
	g := &Generator{
		program:      program,
		symbols:      symbols,
		instructions: []Instruction{},
		variables:    make(map[string]struct{}),
	}
	if symbols != nil {
		for _, sym := range symbols.Symbols() {
			g.variables[sym.Name] = struct{}{}
		}
	}
	if program != nil {
		for _, decl := range program.Declarations {
			if v, ok := decl.(*VariableDeclaration); ok {
				g.variables[v.Identifier] = struct{}{}
			}
		}
	}
	return g
}

func (g *Generator) Generate() []Instruction {
	if g.program == nil {
		return g.instructions
	}
	for _, decl := range g.program.Declarations {
		switch d := decl.(type) {
		case *VariableDeclaration:
			g.emit(Instruction{Op: OpDeclare, Result: d.Identifier})
			if d.Initializer != nil {
				value := g.lowerExpr(d.Initializer)
				g.emitCopy(d.Identifier, value)
			}
		case *ExpressionStatement:
			g.lowerExpr(d.Expression)
		}
	}
	return g.instructions
}

// NewTemp issues the next temporary name: t1, t2, ... Numbers whose name
// belongs to a program variable are skipped.
func (g *Generator) NewTemp() string {
	for {
		g.temps++
		name := fmt.Sprintf("t%d", g.temps)
		if _, taken := g.variables[name]; !taken {
			return name
		}
	}
}

// lowerExpr returns the name holding the value of expr.
func (g *Generator) lowerExpr(expr Expr) string {
	switch ex := expr.(type) {
	case *IntegerLiteral:
		return g.lowerLiteral(strconv.FormatInt(ex.Value, 10))
	case *FloatLiteral:
		return g.lowerLiteral(FormatFloat(ex.Value))
	case *StringLiteral:
		return g.lowerLiteral(`"` + ex.Value + `"`)
	case *BooleanLiteral:
		return g.lowerLiteral(strconv.FormatBool(ex.Value))
	case *Identifier:
		return ex.Name
	case *AssignmentExpression:
		return g.lowerAssignment(ex)
	case *BinaryOperation:
		left := g.lowerExpr(ex.Left)
		right := g.lowerExpr(ex.Right)
		result := g.NewTemp()
		g.emit(Instruction{Op: ex.Operator, Result: result, Operand1: left, Operand2: right})
		return result
	}
	return g.lowerError()
}

func (g *Generator) lowerLiteral(text string) string {
	temp := g.NewTemp()
	g.emitCopy(temp, text)
	return temp
}

func (g *Generator) lowerAssignment(as *AssignmentExpression) string {
	id, ok := as.Left.(*Identifier)
	if !ok {
		return g.lowerError()
	}
	switch as.Operator {
	case "=":
		value := g.lowerExpr(as.Right)
		g.emitCopy(id.Name, value)
		return id.Name
	case "+=", "-=", "*=":
		value := g.lowerExpr(as.Right)
		result := g.NewTemp()
		g.emit(Instruction{Op: strings.TrimSuffix(as.Operator, "="), Result: result, Operand1: id.Name, Operand2: value})
		g.emitCopy(id.Name, result)
		return id.Name
	}
	return g.lowerError()
}

func (g *Generator) lowerError() string {
	temp := g.NewTemp()
	g.emitCopy(temp, ErrorOperand)
	return temp
}

func (g *Generator) emitCopy(result, operand string) {
	g.emit(Instruction{Op: OpCopy, Result: result, Operand1: operand})
}

func (g *Generator) emit(instr Instruction) {
	g.instructions = append(g.instructions, instr)
}

// FormatFloat renders v in its shortest decimal form, keeping a fractional
// part so the text still reads as a float: 2.0, 3.14.
func FormatFloat(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
