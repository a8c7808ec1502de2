package minic

import "fmt"

type DataType int

const (
	ERROR_TYPE DataType = iota
	INT_TYPE
	FLOAT_TYPE
	STRING_TYPE
	BOOL_TYPE
	VOID_TYPE
)

func (t DataType) String() string {
	switch t {
	case INT_TYPE:
		return "int"
	case FLOAT_TYPE:
		return "float"
	case STRING_TYPE:
		return "str"
	case BOOL_TYPE:
		return "bool"
	case VOID_TYPE:
		return "void"
	case ERROR_TYPE:
		return "error"
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// TypeFromSpec maps a declaration's type keyword to its data type.
func TypeFromSpec(spec string) (DataType, bool) {
	switch spec {
	case "int":
		return INT_TYPE, true
	case "float":
		return FLOAT_TYPE, true
	case "str":
		return STRING_TYPE, true
	case "bool":
		return BOOL_TYPE, true
	}
	return ERROR_TYPE, false
}

// Compatible reports whether a value of one type may stand in for the other.
// The relation is symmetric: identity, plus int and float in either order.
func Compatible(t1, t2 DataType) bool {
	if t1 == t2 {
		return true
	}
	return IsNumeric(t1) && IsNumeric(t2)
}

func IsNumeric(t DataType) bool {
	return t == INT_TYPE || t == FLOAT_TYPE
}

type Symbol struct {
	Name        string
	DataType    DataType
	Initialized bool
	// DeclLine is 0 when the declaration position is unknown.
	DeclLine uint
}

// SymbolTable is the single program-wide scope.
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols: map[string]*Symbol{},
	}
}

// Declare inserts name unless it is already present.
func (s *SymbolTable) Declare(name string, typ DataType, line uint) bool {
	if _, ok := s.symbols[name]; ok {
		return false
	}
	s.symbols[name] = &Symbol{
		Name:     name,
		DataType: typ,
		DeclLine: line,
	}
	s.order = append(s.order, name)
	return true
}

func (s *SymbolTable) Lookup(name string) *Symbol {
	return s.symbols[name]
}

// Assign marks name as initialized.
func (s *SymbolTable) Assign(name string) bool {
	sym, ok := s.symbols[name]
	if !ok {
		return false
	}
	sym.Initialized = true
	return true
}

// Symbols lists the table in declaration order.
func (s *SymbolTable) Symbols() []*Symbol {
	syms := make([]*Symbol, 0, len(s.order))
	for _, name := range s.order {
		syms = append(syms, s.symbols[name])
	}
	return syms
}

func (s *SymbolTable) Len() int {
	return len(s.order)
}
