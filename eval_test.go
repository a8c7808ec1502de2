package minic_test

import (
	"reflect"
	"strings"
	"testing"

	"minic"
)

func runSource(t *testing.T, source string) *minic.Evaluator {
	t.Helper()
	res, err := minic.Compile("<test>", []byte(source))
	if err != nil {
		t.Fatal(err)
	}
	ev := minic.NewEvaluator(res.Symbols)
	if err := ev.Run(res.Instructions); err != nil {
		t.Fatal(err)
	}
	return ev
}

type evalTest struct {
	source string
	name   string
	result minic.EvalObject
}

var evalTests = []evalTest{
	{"int x = 2 + 3 * 4;", "x", &minic.IntObject{Value: 14}},
	{"int x = (2 + 3) * 4;", "x", &minic.IntObject{Value: 20}},
	{"int x = 7 / 2;", "x", &minic.IntObject{Value: 3}},
	{"int x = -4 - 1;", "x", &minic.IntObject{Value: -5}},
	{"int x;", "x", &minic.IntObject{Value: 0}},
	{"int x; int y = x + 1;", "y", &minic.IntObject{Value: 1}},
	{"int x = 2.9;", "x", &minic.IntObject{Value: 2}},
	{"float f = 3;", "f", &minic.FloatObject{Value: 3}},
	{"float f = 10.0 / 4;", "f", &minic.FloatObject{Value: 2.5}},
	{"int x = 14; float f = x / 2;", "f", &minic.FloatObject{Value: 7}},
	{`str s = "a" + "b";`, "s", &minic.StringObject{Value: "ab"}},
	{`str s = "n=" + 1;`, "s", &minic.StringObject{Value: "n=1"}},
	{`str s;`, "s", &minic.StringObject{Value: ""}},
	{"bool b = 1 < 2.5;", "b", &minic.BoolObject{Value: true}},
	{"bool b = 3 >= 4;", "b", &minic.BoolObject{Value: false}},
	{"bool b = 2 != 2.0;", "b", &minic.BoolObject{Value: false}},
	{`bool b = "a" == "a";`, "b", &minic.BoolObject{Value: true}},
	{`bool b = "a" < "b";`, "b", &minic.BoolObject{Value: true}},
	{"bool b = true == false;", "b", &minic.BoolObject{Value: false}},
	{"bool a = true; bool b = a < false;", "b", &minic.BoolObject{Value: false}},
	{"bool b = false < true;", "b", &minic.BoolObject{Value: true}},
	{"bool b = true >= false;", "b", &minic.BoolObject{Value: true}},
	{"bool b = true <= false;", "b", &minic.BoolObject{Value: false}},
	{"bool b = false > false;", "b", &minic.BoolObject{Value: false}},
	{"int t2 = 10; int y = 1 + 2;", "t2", &minic.IntObject{Value: 10}},
	{"int t2 = 10; int y = 1 + 2;", "y", &minic.IntObject{Value: 3}},
}

func TestEvalPrograms(t *testing.T) {
	for _, test := range evalTests {
		t.Logf("testing %s", test.source)
		ev := runSource(t, test.source)
		res, ok := ev.Value(test.name)
		if !ok {
			t.Fatalf("variable %s has no value", test.name)
		}
		if !reflect.DeepEqual(res, test.result) {
			t.Fatalf("expected result %#v, but got %#v", test.result, res)
		}
	}
}

func TestEvalCompoundAssignment(t *testing.T) {
	program := &minic.Program{Declarations: []minic.Stmt{
		&minic.VariableDeclaration{TypeSpec: "int", Identifier: "a", Initializer: lit(10)},
		exprStmt(assign(ident("a"), "+=", lit(5))),
		exprStmt(assign(ident("a"), "*=", lit(2))),
		exprStmt(assign(ident("a"), "-=", lit(1))),
	}}
	symbols, _, err := minic.CheckProgram(program)
	if err != nil {
		t.Fatal(err)
	}
	ev := minic.NewEvaluator(symbols)
	if err := ev.Run(minic.NewGenerator(program, symbols).Generate()); err != nil {
		t.Fatal(err)
	}
	res, _ := ev.Value("a")
	if !reflect.DeepEqual(res, &minic.IntObject{Value: 29}) {
		t.Fatalf("expected %#v, but got %#v", &minic.IntObject{Value: 29}, res)
	}
}

func TestEvalVariables(t *testing.T) {
	ev := runSource(t, `int x = 1; float f = 2; str s = "hi"; bool b = x < f;`)
	vars := ev.Variables()
	got := []string{}
	for _, v := range vars {
		got = append(got, v.Symbol.Name+" "+v.Symbol.DataType.String()+" = "+v.Value.String())
	}
	expected := []string{"x int = 1", "f float = 2.0", `s str = "hi"`, "b bool = true"}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %#v, but got %#v", expected, got)
	}
}

type evalErrorTest struct {
	instrs  []minic.Instruction
	message string
}

var evalErrorTests = []evalErrorTest{
	{
		[]minic.Instruction{{Op: minic.OpCopy, Result: "t1", Operand1: minic.ErrorOperand}},
		"instruction 1 (t1 = ERROR): ERROR operand",
	},
	{
		[]minic.Instruction{{Op: minic.OpCopy, Result: "t1", Operand1: "q"}},
		"instruction 1 (t1 = q): unknown name q",
	},
	{
		[]minic.Instruction{{Op: minic.OpDeclare, Result: "x"}},
		"instruction 1 (declare x): undeclared variable x",
	},
	{
		[]minic.Instruction{{Op: "jump"}},
		"instruction 1 (jump): operation jump is not implemented",
	},
	{
		[]minic.Instruction{
			{Op: minic.OpCopy, Result: "t1", Operand1: "1"},
			{Op: minic.OpCopy, Result: "t2", Operand1: "0"},
			{Op: "/", Result: "t3", Operand1: "t1", Operand2: "t2"},
		},
		"instruction 3 (t3 = t1 / t2): integer division by zero",
	},
	{
		[]minic.Instruction{{Op: "-", Result: "t1", Operand1: "true", Operand2: `"s"`}},
		"operator - is not implemented",
	},
}

func TestEvalErrors(t *testing.T) {
	for _, test := range evalErrorTests {
		ev := minic.NewEvaluator(nil)
		err := ev.Run(test.instrs)
		if err == nil {
			t.Fatalf("expected error %q, but got none", test.message)
		}
		if !strings.Contains(err.Error(), test.message) {
			t.Fatalf("expected error %q, but got %q", test.message, err)
		}
	}
}

func TestParseLiteral(t *testing.T) {
	literals := map[string]minic.EvalObject{
		"42":    &minic.IntObject{Value: 42},
		"-3":    &minic.IntObject{Value: -3},
		"2.0":   &minic.FloatObject{Value: 2},
		`"x y"`: &minic.StringObject{Value: "x y"},
		`""`:    &minic.StringObject{Value: ""},
		"true":  &minic.BoolObject{Value: true},
		"false": &minic.BoolObject{Value: false},
	}
	for text, expected := range literals {
		res, ok := minic.ParseLiteral(text)
		if !ok || !reflect.DeepEqual(res, expected) {
			t.Fatalf("expected %#v for %s, but got %#v", expected, text, res)
		}
	}
	for _, text := range []string{"x", "t1", "ERROR", `"`} {
		if res, ok := minic.ParseLiteral(text); ok {
			t.Fatalf("expected %s not to be a literal, but got %#v", text, res)
		}
	}
}
