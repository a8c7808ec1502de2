package minic

import (
	"encoding/json"
	"fmt"
	"io"
)

type jsonToken struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// WriteTokensJSON writes tokens as an array of {"type", "value"} objects.
func WriteTokensJSON(w io.Writer, tokens []Token) error {
	out := make([]jsonToken, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, jsonToken{Type: t.Kind.String(), Value: t.Lexeme})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func ReadTokensJSON(r io.Reader) ([]Token, error) {
	var in []jsonToken
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decoding tokens: %w", err)
	}
	tokens := make([]Token, 0, len(in))
	for i, t := range in {
		kind, ok := ParseTokenKind(t.Type)
		if !ok {
			return nil, fmt.Errorf("token %d: unknown token type %q", i, t.Type)
		}
		tokens = append(tokens, Token{Kind: kind, Lexeme: t.Value})
	}
	return tokens, nil
}

// WriteProgramJSON writes the tree with one {"type": NodeName, ...} object
// per node.
func WriteProgramJSON(w io.Writer, program *Program) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(toJSON(program))
}

func toJSON(node Node) interface{} {
	switch n := node.(type) {
	case *Program:
		return map[string]interface{}{
			"type":         "Program",
			"declarations": stmtsToJSON(n.Declarations),
		}
	case *VariableDeclaration:
		m := map[string]interface{}{
			"type":        "VariableDeclaration",
			"typeSpec":    n.TypeSpec,
			"identifier":  n.Identifier,
			"initializer": exprToJSON(n.Initializer),
		}
		if n.Pos.Line != 0 {
			m["line"] = n.Pos.Line
		}
		return m
	case *FunctionDeclaration:
		params := make([]interface{}, 0, len(n.Parameters))
		for _, p := range n.Parameters {
			params = append(params, map[string]interface{}{
				"type":       "Parameter",
				"typeSpec":   p.TypeSpec,
				"identifier": p.Identifier,
			})
		}
		var body interface{}
		if n.Body != nil {
			body = toJSON(n.Body)
		}
		return map[string]interface{}{
			"type":       "FunctionDeclaration",
			"returnType": n.ReturnType,
			"identifier": n.Identifier,
			"parameters": params,
			"body":       body,
		}
	case *CompoundStatement:
		return map[string]interface{}{
			"type":       "CompoundStatement",
			"statements": stmtsToJSON(n.Statements),
		}
	case *IfStatement:
		return map[string]interface{}{
			"type":          "IfStatement",
			"condition":     exprToJSON(n.Condition),
			"thenStatement": stmtToJSON(n.ThenStatement),
			"elseStatement": stmtToJSON(n.ElseStatement),
		}
	case *WhileStatement:
		return map[string]interface{}{
			"type":      "WhileStatement",
			"condition": exprToJSON(n.Condition),
			"body":      stmtToJSON(n.Body),
		}
	case *ForStatement:
		var init interface{}
		if n.Initialization != nil {
			init = toJSON(n.Initialization)
		}
		return map[string]interface{}{
			"type":           "ForStatement",
			"initialization": init,
			"condition":      exprToJSON(n.Condition),
			"increment":      exprToJSON(n.Increment),
			"body":           stmtToJSON(n.Body),
		}
	case *ReturnStatement:
		return map[string]interface{}{
			"type":       "ReturnStatement",
			"expression": exprToJSON(n.Expression),
		}
	case *ExpressionStatement:
		return map[string]interface{}{
			"type":       "ExpressionStatement",
			"expression": exprToJSON(n.Expression),
		}
	case *BinaryOperation:
		return map[string]interface{}{
			"type":     "BinaryOperation",
			"left":     exprToJSON(n.Left),
			"operator": n.Operator,
			"right":    exprToJSON(n.Right),
		}
	case *AssignmentExpression:
		return map[string]interface{}{
			"type":     "AssignmentExpression",
			"left":     exprToJSON(n.Left),
			"operator": n.Operator,
			"right":    exprToJSON(n.Right),
		}
	case *Identifier:
		return map[string]interface{}{"type": "Identifier", "name": n.Name}
	case *IntegerLiteral:
		return map[string]interface{}{"type": "IntegerLiteral", "value": n.Value}
	case *FloatLiteral:
		return map[string]interface{}{"type": "FloatLiteral", "value": n.Value}
	case *StringLiteral:
		return map[string]interface{}{"type": "StringLiteral", "value": n.Value}
	case *BooleanLiteral:
		return map[string]interface{}{"type": "BooleanLiteral", "value": n.Value}
	}
	return nil
}

func stmtsToJSON(stmts []Stmt) []interface{} {
	out := make([]interface{}, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, stmtToJSON(s))
	}
	return out
}

func stmtToJSON(s Stmt) interface{} {
	if s == nil {
		return nil
	}
	return toJSON(s)
}

func exprToJSON(e Expr) interface{} {
	if e == nil {
		return nil
	}
	return toJSON(e)
}

// jsonNode is a decoded node whose fields are decoded lazily by kind.
type jsonNode map[string]json.RawMessage

func ReadProgramJSON(r io.Reader) (*Program, error) {
	var root jsonNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding tree: %w", err)
	}
	node, err := root.decode()
	if err != nil {
		return nil, err
	}
	program, ok := node.(*Program)
	if !ok {
		return nil, fmt.Errorf("root node is %T, not a Program", node)
	}
	return program, nil
}

func (n jsonNode) decode() (Node, error) {
	var typ string
	if err := n.field("type", &typ); err != nil {
		return nil, err
	}
	switch typ {
	case "Program":
		decls, err := n.stmts("declarations")
		if err != nil {
			return nil, err
		}
		return &Program{Declarations: decls}, nil
	case "VariableDeclaration":
		v := &VariableDeclaration{}
		if err := n.fields(map[string]interface{}{"typeSpec": &v.TypeSpec, "identifier": &v.Identifier}); err != nil {
			return nil, err
		}
		if err := n.optionalField("line", &v.Pos.Line); err != nil {
			return nil, err
		}
		init, err := n.expr("initializer")
		if err != nil {
			return nil, err
		}
		v.Initializer = init
		return v, nil
	case "FunctionDeclaration":
		f := &FunctionDeclaration{}
		if err := n.fields(map[string]interface{}{"returnType": &f.ReturnType, "identifier": &f.Identifier}); err != nil {
			return nil, err
		}
		var params []Parameter
		if err := n.optionalField("parameters", &params); err != nil {
			return nil, err
		}
		f.Parameters = params
		body, err := n.stmt("body")
		if err != nil {
			return nil, err
		}
		if body != nil {
			block, ok := body.(*CompoundStatement)
			if !ok {
				return nil, fmt.Errorf("function body is %T, not a CompoundStatement", body)
			}
			f.Body = block
		}
		return f, nil
	case "CompoundStatement":
		stmts, err := n.stmts("statements")
		if err != nil {
			return nil, err
		}
		return &CompoundStatement{Statements: stmts}, nil
	case "IfStatement":
		s := &IfStatement{}
		var err error
		if s.Condition, err = n.expr("condition"); err != nil {
			return nil, err
		}
		if s.ThenStatement, err = n.stmt("thenStatement"); err != nil {
			return nil, err
		}
		if s.ElseStatement, err = n.stmt("elseStatement"); err != nil {
			return nil, err
		}
		return s, nil
	case "WhileStatement":
		s := &WhileStatement{}
		var err error
		if s.Condition, err = n.expr("condition"); err != nil {
			return nil, err
		}
		if s.Body, err = n.stmt("body"); err != nil {
			return nil, err
		}
		return s, nil
	case "ForStatement":
		s := &ForStatement{}
		var err error
		if s.Initialization, err = n.child("initialization"); err != nil {
			return nil, err
		}
		if s.Condition, err = n.expr("condition"); err != nil {
			return nil, err
		}
		if s.Increment, err = n.expr("increment"); err != nil {
			return nil, err
		}
		if s.Body, err = n.stmt("body"); err != nil {
			return nil, err
		}
		return s, nil
	case "ReturnStatement":
		e, err := n.expr("expression")
		if err != nil {
			return nil, err
		}
		return &ReturnStatement{Expression: e}, nil
	case "ExpressionStatement":
		e, err := n.expr("expression")
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Expression: e}, nil
	case "BinaryOperation", "AssignmentExpression":
		var op string
		if err := n.field("operator", &op); err != nil {
			return nil, err
		}
		left, err := n.expr("left")
		if err != nil {
			return nil, err
		}
		right, err := n.expr("right")
		if err != nil {
			return nil, err
		}
		if typ == "BinaryOperation" {
			return &BinaryOperation{Left: left, Operator: op, Right: right}, nil
		}
		return &AssignmentExpression{Left: left, Operator: op, Right: right}, nil
	case "Identifier":
		id := &Identifier{}
		return id, n.field("name", &id.Name)
	case "IntegerLiteral":
		l := &IntegerLiteral{}
		return l, n.field("value", &l.Value)
	case "FloatLiteral":
		l := &FloatLiteral{}
		return l, n.field("value", &l.Value)
	case "StringLiteral":
		l := &StringLiteral{}
		return l, n.field("value", &l.Value)
	case "BooleanLiteral":
		l := &BooleanLiteral{}
		return l, n.field("value", &l.Value)
	}
	return nil, fmt.Errorf("unknown node type %q", typ)
}

func (n jsonNode) field(name string, dst interface{}) error {
	raw, ok := n[name]
	if !ok {
		return fmt.Errorf("missing field %q", name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	return nil
}

func (n jsonNode) fields(dsts map[string]interface{}) error {
	for name, dst := range dsts {
		if err := n.field(name, dst); err != nil {
			return err
		}
	}
	return nil
}

func (n jsonNode) optionalField(name string, dst interface{}) error {
	if raw, ok := n[name]; !ok || string(raw) == "null" {
		return nil
	}
	return n.field(name, dst)
}

// child decodes a nested node; a missing or null child is nil.
func (n jsonNode) child(name string) (Node, error) {
	raw, ok := n[name]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	var child jsonNode
	if err := json.Unmarshal(raw, &child); err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	return child.decode()
}

func (n jsonNode) expr(name string) (Expr, error) {
	node, err := n.child(name)
	if err != nil || node == nil {
		return nil, err
	}
	e, ok := node.(Expr)
	if !ok {
		return nil, fmt.Errorf("field %q: %T is not an expression", name, node)
	}
	return e, nil
}

func (n jsonNode) stmt(name string) (Stmt, error) {
	node, err := n.child(name)
	if err != nil || node == nil {
		return nil, err
	}
	s, ok := node.(Stmt)
	if !ok {
		return nil, fmt.Errorf("field %q: %T is not a statement", name, node)
	}
	return s, nil
}

func (n jsonNode) stmts(name string) ([]Stmt, error) {
	var raws []jsonNode
	if err := n.field(name, &raws); err != nil {
		return nil, err
	}
	stmts := make([]Stmt, 0, len(raws))
	for i, raw := range raws {
		node, err := raw.decode()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		s, ok := node.(Stmt)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: %T is not a statement", name, i, node)
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}
