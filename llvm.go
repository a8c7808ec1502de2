package minic

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// EmitLLVM translates three-address code into an LLVM module with a single
// i32 @main(). Variables live in allocas, temporaries are SSA values.
func EmitLLVM(instrs []Instruction, symbols *SymbolTable) (*ir.Module, error) {
	if symbols == nil {
		symbols = NewSymbolTable()
	}
	m := ir.NewModule()
	fn := m.NewFunc("main", types.I32)
	b := &llvmBuilder{
		module:  m,
		entry:   fn.NewBlock("entry"),
		symbols: symbols,
		vars:    make(map[string]*ir.InstAlloca),
		temps:   make(map[string]value.Value),
	}
	for i, instr := range instrs {
		if err := b.emit(instr); err != nil {
			return nil, fmt.Errorf("instruction %d (%s): %w", i+1, instr, err)
		}
	}
	b.entry.NewRet(constant.NewInt(types.I32, 0))
	return m, nil
}

type llvmBuilder struct {
	module  *ir.Module
	entry   *ir.Block
	symbols *SymbolTable
	vars    map[string]*ir.InstAlloca
	temps   map[string]value.Value
	strs    int
}

func llvmType(t DataType) (types.Type, error) {
	switch t {
	case INT_TYPE:
		return types.I64, nil
	case FLOAT_TYPE:
		return types.Double, nil
	case BOOL_TYPE:
		return types.I1, nil
	case STRING_TYPE:
		return types.I8Ptr, nil
	}
	return nil, fmt.Errorf("type %s has no LLVM representation", t)
}

func (b *llvmBuilder) emit(instr Instruction) error {
	switch {
	case instr.Op == OpDeclare:
		sym := b.symbols.Lookup(instr.Result)
		if sym == nil {
			return fmt.Errorf("undeclared variable %s", instr.Result)
		}
		typ, err := llvmType(sym.DataType)
		if err != nil {
			return err
		}
		alloca := b.entry.NewAlloca(typ)
		alloca.SetName(instr.Result)
		b.entry.NewStore(constant.NewZeroInitializer(typ), alloca)
		b.vars[instr.Result] = alloca
	case instr.Operand2 != "":
		left, err := b.value(instr.Operand1)
		if err != nil {
			return err
		}
		right, err := b.value(instr.Operand2)
		if err != nil {
			return err
		}
		res, err := b.binary(instr.Op, left, right)
		if err != nil {
			return err
		}
		b.temps[instr.Result] = res
	case instr.Operand1 != "":
		v, err := b.value(instr.Operand1)
		if err != nil {
			return err
		}
		alloca, ok := b.vars[instr.Result]
		if !ok {
			b.temps[instr.Result] = v
			return nil
		}
		v, err = b.convert(v, alloca.ElemType)
		if err != nil {
			return err
		}
		b.entry.NewStore(v, alloca)
	default:
		return fmt.Errorf("operation %s is not supported", instr.Op)
	}
	return nil
}

func (b *llvmBuilder) value(text string) (value.Value, error) {
	if v, ok := b.temps[text]; ok {
		return v, nil
	}
	if alloca, ok := b.vars[text]; ok {
		return b.entry.NewLoad(alloca.ElemType, alloca), nil
	}
	lit, ok := ParseLiteral(text)
	if !ok {
		return nil, fmt.Errorf("unknown operand %s", text)
	}
	switch l := lit.(type) {
	case *IntObject:
		return constant.NewInt(types.I64, l.Value), nil
	case *FloatObject:
		return constant.NewFloat(types.Double, l.Value), nil
	case *BoolObject:
		return constant.NewBool(l.Value), nil
	case *StringObject:
		return b.stringConstant(l.Value), nil
	}
	return nil, fmt.Errorf("unsupported literal %s", text)
}

func (b *llvmBuilder) stringConstant(s string) constant.Constant {
	data := constant.NewCharArrayFromString(s + "\x00")
	g := b.module.NewGlobalDef(fmt.Sprintf(".str.%d", b.strs), data)
	g.Linkage = enum.LinkagePrivate
	g.Immutable = true
	b.strs++
	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(data.Typ, g, zero, zero)
}

func (b *llvmBuilder) convert(v value.Value, to types.Type) (value.Value, error) {
	from := v.Type()
	switch {
	case from.Equal(to):
		return v, nil
	case from.Equal(types.I64) && to.Equal(types.Double):
		return b.entry.NewSIToFP(v, types.Double), nil
	case from.Equal(types.Double) && to.Equal(types.I64):
		return b.entry.NewFPToSI(v, types.I64), nil
	}
	return nil, fmt.Errorf("cannot convert %s to %s", from, to)
}

var intPredicates = map[string]enum.IPred{
	"==": enum.IPredEQ,
	"!=": enum.IPredNE,
	"<":  enum.IPredSLT,
	">":  enum.IPredSGT,
	"<=": enum.IPredSLE,
	">=": enum.IPredSGE,
}

// i1 compares unsigned so that false < true.
var boolPredicates = map[string]enum.IPred{
	"==": enum.IPredEQ,
	"!=": enum.IPredNE,
	"<":  enum.IPredULT,
	">":  enum.IPredUGT,
	"<=": enum.IPredULE,
	">=": enum.IPredUGE,
}

var floatPredicates = map[string]enum.FPred{
	"==": enum.FPredOEQ,
	"!=": enum.FPredONE,
	"<":  enum.FPredOLT,
	">":  enum.FPredOGT,
	"<=": enum.FPredOLE,
	">=": enum.FPredOGE,
}

func (b *llvmBuilder) binary(op string, left, right value.Value) (value.Value, error) {
	lt, rt := left.Type(), right.Type()
	if lt.Equal(types.I8Ptr) || rt.Equal(types.I8Ptr) {
		return nil, fmt.Errorf("operator %s on strings is not supported by the LLVM backend", op)
	}
	if lt.Equal(types.Double) || rt.Equal(types.Double) {
		var err error
		if left, err = b.convert(left, types.Double); err != nil {
			return nil, err
		}
		if right, err = b.convert(right, types.Double); err != nil {
			return nil, err
		}
		return b.floatBinary(op, left, right)
	}
	if !lt.Equal(rt) {
		return nil, fmt.Errorf("operator %s on %s and %s is not supported", op, lt, rt)
	}
	if lt.Equal(types.I1) {
		if pred, ok := boolPredicates[op]; ok {
			return b.entry.NewICmp(pred, left, right), nil
		}
		return nil, fmt.Errorf("operator %s on bool is not supported", op)
	}
	switch op {
	case "+":
		return b.entry.NewAdd(left, right), nil
	case "-":
		return b.entry.NewSub(left, right), nil
	case "*":
		return b.entry.NewMul(left, right), nil
	case "/":
		return b.entry.NewSDiv(left, right), nil
	}
	if pred, ok := intPredicates[op]; ok {
		return b.entry.NewICmp(pred, left, right), nil
	}
	return nil, fmt.Errorf("unknown operator %s", op)
}

func (b *llvmBuilder) floatBinary(op string, left, right value.Value) (value.Value, error) {
	switch op {
	case "+":
		return b.entry.NewFAdd(left, right), nil
	case "-":
		return b.entry.NewFSub(left, right), nil
	case "*":
		return b.entry.NewFMul(left, right), nil
	case "/":
		return b.entry.NewFDiv(left, right), nil
	}
	if pred, ok := floatPredicates[op]; ok {
		return b.entry.NewFCmp(pred, left, right), nil
	}
	return nil, fmt.Errorf("unknown operator %s", op)
}
