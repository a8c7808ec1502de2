package minic

import "fmt"

// Analyzer type-checks the top-level variable declarations and expression
// statements of a program against one flat symbol table. Function bodies and
// control-flow statements are parsed but not visited.
type Analyzer struct {
	program  *Program
	symbols  *SymbolTable
	errors   []string
	warnings []string
}

func NewAnalyzer(program *Program) *Analyzer {
	return &Analyzer{
		program:  program,
		symbols:  NewSymbolTable(),
		errors:   []string{},
		warnings: []string{},
	}
}

// Analyze reports success when no error was recorded. Warnings never fail it.
func (a *Analyzer) Analyze() (bool, []string, []string) {
	if a.program != nil {
		for _, decl := range a.program.Declarations {
			switch d := decl.(type) {
			case *VariableDeclaration:
				a.analyzeVariableDeclaration(d)
			case *ExpressionStatement:
				a.analyzeExpr(d.Expression)
			}
		}
	}
	return len(a.errors) == 0, a.errors, a.warnings
}

func (a *Analyzer) Symbols() *SymbolTable {
	return a.symbols
}

func (a *Analyzer) analyzeVariableDeclaration(v *VariableDeclaration) {
	typ, ok := TypeFromSpec(v.TypeSpec)
	if !ok {
		a.errorf("invalid type '%s' for '%s'", v.TypeSpec, v.Identifier)
		return
	}
	if !a.symbols.Declare(v.Identifier, typ, v.Pos.Line) {
		a.errorf("variable '%s' is already declared", v.Identifier)
		return
	}
	if v.Initializer == nil {
		return
	}
	initType := a.analyzeExpr(v.Initializer)
	if initType == ERROR_TYPE {
		return
	}
	if !Compatible(typ, initType) {
		a.errorf("cannot assign %s to %s variable '%s'", initType, typ, v.Identifier)
		return
	}
	a.symbols.Assign(v.Identifier)
}

func (a *Analyzer) analyzeExpr(expr Expr) DataType {
	switch ex := expr.(type) {
	case *IntegerLiteral:
		return INT_TYPE
	case *FloatLiteral:
		return FLOAT_TYPE
	case *StringLiteral:
		return STRING_TYPE
	case *BooleanLiteral:
		return BOOL_TYPE
	case *Identifier:
		sym := a.symbols.Lookup(ex.Name)
		if sym == nil {
			a.errorf("undefined variable '%s'", ex.Name)
			return ERROR_TYPE
		}
		if !sym.Initialized {
			a.warnf("variable '%s' used uninitialized", ex.Name)
		}
		return sym.DataType
	case *AssignmentExpression:
		return a.analyzeAssignment(ex)
	case *BinaryOperation:
		return a.analyzeBinaryOperation(ex)
	}
	a.errorf("unknown expression kind: %T", expr)
	return ERROR_TYPE
}

func (a *Analyzer) analyzeAssignment(as *AssignmentExpression) DataType {
	id, ok := as.Left.(*Identifier)
	if !ok {
		a.errorf("left side of an assignment must be an identifier")
		return ERROR_TYPE
	}
	sym := a.symbols.Lookup(id.Name)
	if sym == nil {
		a.errorf("undefined variable '%s'", id.Name)
		return ERROR_TYPE
	}
	rightType := a.analyzeExpr(as.Right)
	if rightType == ERROR_TYPE {
		return ERROR_TYPE
	}
	switch as.Operator {
	case "=":
		if !Compatible(sym.DataType, rightType) {
			a.errorf("cannot assign %s to %s variable '%s'", rightType, sym.DataType, id.Name)
			return ERROR_TYPE
		}
	case "+=", "-=", "*=":
		if !IsNumeric(sym.DataType) || !IsNumeric(rightType) {
			a.errorf("invalid types for operator '%s': %s and %s", as.Operator, sym.DataType, rightType)
			return ERROR_TYPE
		}
	default:
		a.errorf("unknown operator: %s", as.Operator)
		return ERROR_TYPE
	}
	a.symbols.Assign(id.Name)
	return sym.DataType
}

func (a *Analyzer) analyzeBinaryOperation(b *BinaryOperation) DataType {
	left := a.analyzeExpr(b.Left)
	right := a.analyzeExpr(b.Right)
	if left == ERROR_TYPE || right == ERROR_TYPE {
		return ERROR_TYPE
	}
	switch b.Operator {
	case "+", "-", "*", "/":
		if b.Operator == "+" && (left == STRING_TYPE || right == STRING_TYPE) {
			return STRING_TYPE
		}
		if !IsNumeric(left) || !IsNumeric(right) {
			a.errorf("invalid types for operator '%s': %s and %s", b.Operator, left, right)
			return ERROR_TYPE
		}
		if left == FLOAT_TYPE || right == FLOAT_TYPE {
			return FLOAT_TYPE
		}
		return INT_TYPE
	case "==", "!=", "<", ">", "<=", ">=":
		if !Compatible(left, right) {
			a.errorf("cannot compare %s and %s", left, right)
			return ERROR_TYPE
		}
		return BOOL_TYPE
	}
	a.errorf("unknown operator: %s", b.Operator)
	return ERROR_TYPE
}

func (a *Analyzer) errorf(format string, args ...interface{}) {
	a.errors = append(a.errors, fmt.Sprintf(format, args...))
}

func (a *Analyzer) warnf(format string, args ...interface{}) {
	a.warnings = append(a.warnings, fmt.Sprintf(format, args...))
}
