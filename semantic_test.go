package minic_test

import (
	"testing"

	"minic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, program *minic.Program) (*minic.Analyzer, bool, []string, []string) {
	t.Helper()
	a := minic.NewAnalyzer(program)
	ok, errs, warnings := a.Analyze()
	return a, ok, errs, warnings
}

type analyzeTest struct {
	source   string
	errors   []string
	warnings []string
}

var analyzeTests = []analyzeTest{
	{"int x = 5;", []string{}, []string{}},
	{"int x = 5; float y = x + 2.5; str s = \"a\" + \"b\";", []string{}, []string{}},
	{"float f = 1; int i = 2.5;", []string{}, []string{}},
	{"str s = \"n = \" + 1;", []string{}, []string{}},
	{"bool b = 1 < 2.5; bool c = b == true;", []string{}, []string{}},
	{"int x = true;", []string{"cannot assign bool to int variable 'x'"}, []string{}},
	{"bool b = 1 + 2.5;", []string{"cannot assign float to bool variable 'b'"}, []string{}},
	{"int x; int x;", []string{"variable 'x' is already declared"}, []string{}},
	{"int x = y;", []string{"undefined variable 'y'"}, []string{}},
	{"int x = y + z;", []string{"undefined variable 'y'", "undefined variable 'z'"}, []string{}},
	{"int x; int y = x;", []string{}, []string{"variable 'x' used uninitialized"}},
	{"bool b = 1 < \"a\";", []string{"cannot compare int and str"}, []string{}},
	{"bool b = true + 1;", []string{"invalid types for operator '+': bool and int"}, []string{}},
	{"int x = \"a\" * 2;", []string{"invalid types for operator '*': str and int"}, []string{}},
	{"int x = (1 + y) * 2;", []string{"undefined variable 'y'"}, []string{}},
	{"function int f() { return q; } int x = 1;", []string{}, []string{}},
}

func TestAnalyze(t *testing.T) {
	for _, test := range analyzeTests {
		t.Logf("running test '%s'", test.source)
		_, ok, errs, warnings := analyze(t, parseSource(t, test.source))
		assert.Equal(t, len(test.errors) == 0, ok)
		assert.Equal(t, test.errors, errs)
		assert.Equal(t, test.warnings, warnings)
	}
}

func TestAnalyzeDuplicateKeepsFirstType(t *testing.T) {
	a, ok, _, _ := analyze(t, parseSource(t, "int x = 1; float x = 2.0;"))
	assert.False(t, ok)
	sym := a.Symbols().Lookup("x")
	require.NotNil(t, sym)
	assert.Equal(t, minic.INT_TYPE, sym.DataType)
	assert.Equal(t, 1, a.Symbols().Len())
}

func TestAnalyzeMarksInitialized(t *testing.T) {
	a, ok, _, _ := analyze(t, parseSource(t, "int x; int y = 3; bool b = y == \"s\";"))
	assert.False(t, ok)
	assert.False(t, a.Symbols().Lookup("x").Initialized)
	assert.True(t, a.Symbols().Lookup("y").Initialized)
	assert.False(t, a.Symbols().Lookup("b").Initialized)
}

func declare(typ, name string) *minic.VariableDeclaration {
	return &minic.VariableDeclaration{TypeSpec: typ, Identifier: name}
}

func exprStmt(e minic.Expr) *minic.ExpressionStatement {
	return &minic.ExpressionStatement{Expression: e}
}

func assign(left minic.Expr, op string, right minic.Expr) *minic.AssignmentExpression {
	return &minic.AssignmentExpression{Left: left, Operator: op, Right: right}
}

type analyzeTreeTest struct {
	name     string
	decls    []minic.Stmt
	errors   []string
	warnings []string
}

var analyzeTreeTests = []analyzeTreeTest{
	{
		"assignment initializes",
		[]minic.Stmt{declare("int", "x"), exprStmt(assign(ident("x"), "=", lit(5))), declare("int", "y"), exprStmt(assign(ident("y"), "=", ident("x")))},
		[]string{},
		[]string{},
	},
	{
		"compound assignment",
		[]minic.Stmt{declare("float", "f"), exprStmt(assign(ident("f"), "+=", lit(5)))},
		[]string{},
		[]string{},
	},
	{
		"assignment type mismatch",
		[]minic.Stmt{declare("int", "x"), exprStmt(assign(ident("x"), "=", &minic.StringLiteral{Value: "s"}))},
		[]string{"cannot assign str to int variable 'x'"},
		[]string{},
	},
	{
		"compound assignment on string",
		[]minic.Stmt{declare("str", "s"), exprStmt(assign(ident("s"), "+=", lit(1)))},
		[]string{"invalid types for operator '+=': str and int"},
		[]string{},
	},
	{
		"assignment to undefined variable",
		[]minic.Stmt{exprStmt(assign(ident("z"), "=", lit(1)))},
		[]string{"undefined variable 'z'"},
		[]string{},
	},
	{
		"assignment to a literal",
		[]minic.Stmt{exprStmt(assign(lit(1), "=", lit(2)))},
		[]string{"left side of an assignment must be an identifier"},
		[]string{},
	},
	{
		"unknown assignment operator",
		[]minic.Stmt{declare("int", "x"), exprStmt(assign(ident("x"), "/=", lit(2)))},
		[]string{"unknown operator: /="},
		[]string{},
	},
	{
		"unknown binary operator",
		[]minic.Stmt{exprStmt(binop(lit(1), "%", lit(2)))},
		[]string{"unknown operator: %"},
		[]string{},
	},
	{
		"invalid type keyword",
		[]minic.Stmt{declare("void", "v")},
		[]string{"invalid type 'void' for 'v'"},
		[]string{},
	},
	{
		"missing expression",
		[]minic.Stmt{exprStmt(nil)},
		[]string{"unknown expression kind: <nil>"},
		[]string{},
	},
}

func TestAnalyzeTrees(t *testing.T) {
	for _, test := range analyzeTreeTests {
		t.Logf("running test '%s'", test.name)
		_, ok, errs, warnings := analyze(t, &minic.Program{Declarations: test.decls})
		assert.Equal(t, len(test.errors) == 0, ok)
		assert.Equal(t, test.errors, errs)
		assert.Equal(t, test.warnings, warnings)
	}
}

func TestAnalyzeNilProgram(t *testing.T) {
	_, ok, errs, warnings := analyze(t, nil)
	assert.True(t, ok)
	assert.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestAnalyzeIsRepeatable(t *testing.T) {
	program := parseSource(t, "int x; int y = x + 1; str s = 1;")
	_, ok1, errs1, warnings1 := analyze(t, program)
	_, ok2, errs2, warnings2 := analyze(t, program)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, errs1, errs2)
	assert.Equal(t, warnings1, warnings2)
}

func TestCompatible(t *testing.T) {
	types := []minic.DataType{minic.INT_TYPE, minic.FLOAT_TYPE, minic.STRING_TYPE, minic.BOOL_TYPE}
	for _, t1 := range types {
		for _, t2 := range types {
			expected := t1 == t2 || (minic.IsNumeric(t1) && minic.IsNumeric(t2))
			assert.Equal(t, expected, minic.Compatible(t1, t2), "%s and %s", t1, t2)
			assert.Equal(t, minic.Compatible(t1, t2), minic.Compatible(t2, t1))
		}
	}
	assert.True(t, minic.Compatible(minic.INT_TYPE, minic.FLOAT_TYPE))
	assert.False(t, minic.Compatible(minic.STRING_TYPE, minic.BOOL_TYPE))
	assert.False(t, minic.IsNumeric(minic.BOOL_TYPE))
}

func TestTypeFromSpec(t *testing.T) {
	for spec, expected := range map[string]minic.DataType{
		"int":   minic.INT_TYPE,
		"float": minic.FLOAT_TYPE,
		"str":   minic.STRING_TYPE,
		"bool":  minic.BOOL_TYPE,
	} {
		typ, ok := minic.TypeFromSpec(spec)
		assert.True(t, ok)
		assert.Equal(t, expected, typ)
		assert.Equal(t, spec, typ.String())
	}
	_, ok := minic.TypeFromSpec("string")
	assert.False(t, ok)
}

func TestSymbolTable(t *testing.T) {
	st := minic.NewSymbolTable()
	assert.True(t, st.Declare("b", minic.BOOL_TYPE, 2))
	assert.True(t, st.Declare("a", minic.INT_TYPE, 1))
	assert.False(t, st.Declare("b", minic.FLOAT_TYPE, 3))
	assert.Equal(t, 2, st.Len())

	assert.Nil(t, st.Lookup("c"))
	assert.False(t, st.Assign("c"))
	assert.True(t, st.Assign("a"))

	syms := st.Symbols()
	require.Len(t, syms, 2)
	assert.Equal(t, &minic.Symbol{Name: "b", DataType: minic.BOOL_TYPE, DeclLine: 2}, syms[0])
	assert.Equal(t, &minic.Symbol{Name: "a", DataType: minic.INT_TYPE, Initialized: true, DeclLine: 1}, syms[1])
}

func TestSymbolDeclarationLine(t *testing.T) {
	res, err := minic.Compile("a.mc", []byte("int a;\nfloat b = 1;"))
	require.NoError(t, err)
	assert.Equal(t, uint(1), res.Symbols.Lookup("a").DeclLine)
	assert.Equal(t, uint(2), res.Symbols.Lookup("b").DeclLine)
}
