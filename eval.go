package minic

import (
	"fmt"
	"strconv"
	"strings"
)

// Evaluator executes three-address code over a flat environment.
type Evaluator struct {
	symbols *SymbolTable
	env     map[string]EvalObject
}

func NewEvaluator(symbols *SymbolTable) *Evaluator {
	if symbols == nil {
		symbols = NewSymbolTable()
	}
	return &Evaluator{
		symbols: symbols,
		env:     make(map[string]EvalObject),
	}
}

type EvalObject interface {
	evalObject()
	String() string
}

type IntObject struct {
	Value int64
}

type FloatObject struct {
	Value float64
}

type StringObject struct {
	Value string
}

type BoolObject struct {
	Value bool
}

func (i *IntObject) evalObject()    {}
func (f *FloatObject) evalObject()  {}
func (s *StringObject) evalObject() {}
func (b *BoolObject) evalObject()   {}

func (i *IntObject) String() string {
	return strconv.FormatInt(i.Value, 10)
}

func (f *FloatObject) String() string {
	return FormatFloat(f.Value)
}

func (s *StringObject) String() string {
	return strconv.Quote(s.Value)
}

func (b *BoolObject) String() string {
	return strconv.FormatBool(b.Value)
}

// Run executes instrs in order and stops at the first failing instruction.
func (e *Evaluator) Run(instrs []Instruction) error {
	for i, instr := range instrs {
		if err := e.exec(instr); err != nil {
			return fmt.Errorf("instruction %d (%s): %w", i+1, instr, err)
		}
	}
	return nil
}

func (e *Evaluator) Value(name string) (EvalObject, bool) {
	v, ok := e.env[name]
	return v, ok
}

// Binding pairs a declared variable with its current value.
type Binding struct {
	Symbol *Symbol
	Value  EvalObject
}

// Variables lists the declared variables that hold a value, in declaration order.
func (e *Evaluator) Variables() []Binding {
	var out []Binding
	for _, sym := range e.symbols.Symbols() {
		if v, ok := e.env[sym.Name]; ok {
			out = append(out, Binding{Symbol: sym, Value: v})
		}
	}
	return out
}

func (e *Evaluator) exec(instr Instruction) error {
	switch {
	case instr.Op == OpDeclare:
		sym := e.symbols.Lookup(instr.Result)
		if sym == nil {
			return fmt.Errorf("undeclared variable %s", instr.Result)
		}
		zero, err := zeroValue(sym.DataType)
		if err != nil {
			return err
		}
		e.env[instr.Result] = zero
	case instr.Operand2 != "":
		left, err := e.operand(instr.Operand1)
		if err != nil {
			return err
		}
		right, err := e.operand(instr.Operand2)
		if err != nil {
			return err
		}
		res, err := evaluateBinary(instr.Op, left, right)
		if err != nil {
			return err
		}
		e.env[instr.Result] = res
	case instr.Operand1 != "":
		v, err := e.operand(instr.Operand1)
		if err != nil {
			return err
		}
		if sym := e.symbols.Lookup(instr.Result); sym != nil {
			v = convertTo(v, sym.DataType)
		}
		e.env[instr.Result] = v
	default:
		return fmt.Errorf("operation %s is not implemented", instr.Op)
	}
	return nil
}

// operand resolves literal text or a name.
func (e *Evaluator) operand(text string) (EvalObject, error) {
	if v, ok := e.env[text]; ok {
		return v, nil
	}
	if v, ok := ParseLiteral(text); ok {
		return v, nil
	}
	if text == ErrorOperand {
		return nil, fmt.Errorf("%s operand", ErrorOperand)
	}
	return nil, fmt.Errorf("unknown name %s", text)
}

// ParseLiteral reads the literal forms the generator emits.
func ParseLiteral(text string) (EvalObject, bool) {
	switch {
	case text == "true" || text == "false":
		return &BoolObject{Value: text == "true"}, true
	case len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`):
		return &StringObject{Value: text[1 : len(text)-1]}, true
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return &IntObject{Value: v}, true
	}
	if strings.ContainsAny(text, "0123456789") {
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			return &FloatObject{Value: v}, true
		}
	}
	return nil, false
}

func zeroValue(t DataType) (EvalObject, error) {
	switch t {
	case INT_TYPE:
		return &IntObject{}, nil
	case FLOAT_TYPE:
		return &FloatObject{}, nil
	case STRING_TYPE:
		return &StringObject{}, nil
	case BOOL_TYPE:
		return &BoolObject{}, nil
	}
	return nil, fmt.Errorf("no storage for type %s", t)
}

// convertTo applies the int/float interchange allowed on assignment.
func convertTo(v EvalObject, t DataType) EvalObject {
	switch obj := v.(type) {
	case *IntObject:
		if t == FLOAT_TYPE {
			return &FloatObject{Value: float64(obj.Value)}
		}
	case *FloatObject:
		if t == INT_TYPE {
			return &IntObject{Value: int64(obj.Value)}
		}
	}
	return v
}

func evaluateBinary(op string, left, right EvalObject) (EvalObject, error) {
	if op == "+" {
		ls, lok := left.(*StringObject)
		rs, rok := right.(*StringObject)
		if lok || rok {
			return &StringObject{Value: rawString(left, ls) + rawString(right, rs)}, nil
		}
	}
	if li, ok := left.(*IntObject); ok {
		if ri, ok := right.(*IntObject); ok {
			return evaluateInts(op, li.Value, ri.Value)
		}
	}
	if lb, ok := left.(*BoolObject); ok {
		if rb, ok := right.(*BoolObject); ok {
			if res, ok := compareOrdered(op, compareBools(lb.Value, rb.Value)); ok {
				return res, nil
			}
			return nil, fmt.Errorf("operator %s is not implemented for bool", op)
		}
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if lok && rok {
		return evaluateFloats(op, lf, rf)
	}
	switch op {
	case "==":
		return &BoolObject{Value: left.String() == right.String()}, nil
	case "!=":
		return &BoolObject{Value: left.String() != right.String()}, nil
	}
	if ls, ok := left.(*StringObject); ok {
		if rs, ok := right.(*StringObject); ok {
			if res, ok := compareOrdered(op, strings.Compare(ls.Value, rs.Value)); ok {
				return res, nil
			}
		}
	}
	return nil, fmt.Errorf("operator %s is not implemented for %T and %T", op, left, right)
}

func rawString(v EvalObject, s *StringObject) string {
	if s != nil {
		return s.Value
	}
	return v.String()
}

func asFloat(v EvalObject) (float64, bool) {
	switch obj := v.(type) {
	case *IntObject:
		return float64(obj.Value), true
	case *FloatObject:
		return obj.Value, true
	}
	return 0, false
}

func evaluateInts(op string, l, r int64) (EvalObject, error) {
	switch op {
	case "+":
		return &IntObject{Value: l + r}, nil
	case "-":
		return &IntObject{Value: l - r}, nil
	case "*":
		return &IntObject{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, fmt.Errorf("integer division by zero")
		}
		return &IntObject{Value: l / r}, nil
	}
	if res, ok := compareOrdered(op, compareNumbers(float64(l), float64(r))); ok {
		return res, nil
	}
	return nil, fmt.Errorf("operator %s is not implemented for int", op)
}

func evaluateFloats(op string, l, r float64) (EvalObject, error) {
	switch op {
	case "+":
		return &FloatObject{Value: l + r}, nil
	case "-":
		return &FloatObject{Value: l - r}, nil
	case "*":
		return &FloatObject{Value: l * r}, nil
	case "/":
		return &FloatObject{Value: l / r}, nil
	}
	if res, ok := compareOrdered(op, compareNumbers(l, r)); ok {
		return res, nil
	}
	return nil, fmt.Errorf("operator %s is not implemented for float", op)
}

func compareNumbers(l, r float64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

// compareBools orders false before true.
func compareBools(l, r bool) int {
	switch {
	case l == r:
		return 0
	case r:
		return -1
	}
	return 1
}

func compareOrdered(op string, c int) (EvalObject, bool) {
	var v bool
	switch op {
	case "==":
		v = c == 0
	case "!=":
		v = c != 0
	case "<":
		v = c < 0
	case ">":
		v = c > 0
	case "<=":
		v = c <= 0
	case ">=":
		v = c >= 0
	default:
		return nil, false
	}
	return &BoolObject{Value: v}, true
}
