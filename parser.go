package minic

import (
	"strconv"

	"github.com/cznic/mathutil"
)

// Parser is a recursive-descent parser with one token of lookahead. It never
// resynchronises: the first production that fails aborts the whole parse.
type Parser struct {
	tokens []Token
	index  int
	errors []string
}

func NewParser(tokens []Token) *Parser {
	toks := make([]Token, len(tokens), len(tokens)+1)
	copy(toks, tokens)
	if len(toks) == 0 || toks[len(toks)-1].Kind != EOF {
		eof := Token{Kind: EOF}
		if len(toks) > 0 {
			eof.Pos = toks[len(toks)-1].Pos
		}
		toks = append(toks, eof)
	}
	return &Parser{
		tokens: toks,
		index:  0,
	}
}

// Parse builds the program. ok is false when any diagnostic was recorded or
// input remains after the last declaration.
func (p *Parser) Parse() (ok bool, program *Program, message string) {
	program = p.program()
	if program == nil {
		return false, nil, "failed to parse program"
	}
	if len(p.errors) > 0 {
		return false, nil, "errors found during syntax analysis"
	}
	// program stops at the first EOF; anything after an embedded one is
	// still unparsed input.
	if p.index < len(p.tokens)-1 {
		t := p.tokens[p.index+1]
		p.errorf(t.Pos, "unexpected token at end of input: %s", t)
		return false, nil, "errors found during syntax analysis"
	}
	return true, program, "syntax analysis succeeded"
}

// Errors returns the diagnostics in the order they were recorded.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) program() *Program {
	decls := make([]Stmt, 0)
	for p.next().Kind != EOF {
		decl := p.declaration()
		if decl == nil {
			return nil
		}
		decls = append(decls, decl)
	}
	return &Program{
		Declarations: decls,
	}
}

func (p *Parser) declaration() Decl {
	switch t := p.next(); {
	case t.Kind.IsTypeKeyword():
		if decl := p.variableDeclaration(); decl != nil {
			return decl
		}
		p.errorf(t.Pos, "failed to parse variable declaration")
	case t.Kind == FUNCTION:
		if decl := p.functionDeclaration(); decl != nil {
			return decl
		}
		p.errorf(t.Pos, "failed to parse function declaration")
	default:
		p.errorf(t.Pos, "unexpected token: %s", t)
	}
	return nil
}

func (p *Parser) variableDeclaration() *VariableDeclaration {
	typeSpec := p.advance()
	id, ok := p.match(IDENTIFIER, "identifier after variable type")
	if !ok {
		return nil
	}
	var initializer Expr
	if p.next().Kind == ASSIGN {
		p.advance()
		initializer = p.equalityExpression()
		if initializer == nil {
			p.errorf(id.Pos, "failed to parse initializer of '%s'", id.Lexeme)
			return nil
		}
	}
	if _, ok := p.match(SEMICOLON, "';' at end of variable declaration"); !ok {
		return nil
	}
	return &VariableDeclaration{
		Pos:         id.Pos,
		TypeSpec:    typeSpec.Lexeme,
		Identifier:  id.Lexeme,
		Initializer: initializer,
	}
}

func (p *Parser) functionDeclaration() *FunctionDeclaration {
	p.advance()
	returnType := p.next()
	if !returnType.Kind.IsTypeKeyword() {
		p.errorf(returnType.Pos, "expected return type of function, but got %s", returnType)
		return nil
	}
	p.advance()
	id, ok := p.match(IDENTIFIER, "function name")
	if !ok {
		return nil
	}
	if _, ok := p.match(LPAREN, "'(' after function name"); !ok {
		return nil
	}
	params := make([]Parameter, 0)
	for p.next().Kind.IsTypeKeyword() {
		typeSpec := p.advance()
		name, ok := p.match(IDENTIFIER, "parameter name")
		if !ok {
			return nil
		}
		params = append(params, Parameter{
			TypeSpec:   typeSpec.Lexeme,
			Identifier: name.Lexeme,
		})
		if p.next().Kind == RPAREN {
			break
		}
		if _, ok := p.match(COMMA, "',' or ')' after parameter"); !ok {
			return nil
		}
		if t := p.next(); !t.Kind.IsTypeKeyword() {
			p.errorf(t.Pos, "expected parameter type after ',', but got %s", t)
			return nil
		}
	}
	if _, ok := p.match(RPAREN, "')' after function parameters"); !ok {
		return nil
	}
	body := p.compoundStatement()
	if body == nil {
		return nil
	}
	return &FunctionDeclaration{
		ReturnType: returnType.Lexeme,
		Identifier: id.Lexeme,
		Parameters: params,
		Body:       body,
	}
}

func (p *Parser) compoundStatement() *CompoundStatement {
	if _, ok := p.match(LBRACE, "'{' at start of block"); !ok {
		return nil
	}
	stmts := make([]Stmt, 0)
	for p.next().Kind != RBRACE && p.next().Kind != EOF {
		if p.next().Kind == SEMICOLON {
			p.advance()
			continue
		}
		t := p.next()
		stmt := p.statement()
		if stmt == nil {
			p.errorf(t.Pos, "failed to parse statement in block")
			return nil
		}
		stmts = append(stmts, stmt)
	}
	if _, ok := p.match(RBRACE, "'}' at end of block"); !ok {
		return nil
	}
	return &CompoundStatement{
		Statements: stmts,
	}
}

// statement returns a nil interface, never a typed nil, on failure.
func (p *Parser) statement() Stmt {
	switch t := p.next(); {
	case t.Kind.IsTypeKeyword():
		if s := p.variableDeclaration(); s != nil {
			return s
		}
	case t.Kind == FUNCTION:
		if s := p.functionDeclaration(); s != nil {
			return s
		}
	case t.Kind == IF:
		if s := p.ifStatement(); s != nil {
			return s
		}
	case t.Kind == WHILE:
		if s := p.whileStatement(); s != nil {
			return s
		}
	case t.Kind == FOR:
		if s := p.forStatement(); s != nil {
			return s
		}
	case t.Kind == RETURN:
		if s := p.returnStatement(); s != nil {
			return s
		}
	default:
		if s := p.expressionStatement(); s != nil {
			return s
		}
	}
	return nil
}

func (p *Parser) ifStatement() *IfStatement {
	p.advance()
	cond := p.parenthesizedCondition("if")
	if cond == nil {
		return nil
	}
	then := p.compoundStatement()
	if then == nil {
		return nil
	}
	stmt := &IfStatement{
		Condition:     cond,
		ThenStatement: then,
	}
	if p.next().Kind == ELSE {
		p.advance()
		els := p.compoundStatement()
		if els == nil {
			return nil
		}
		stmt.ElseStatement = els
	}
	return stmt
}

func (p *Parser) whileStatement() *WhileStatement {
	p.advance()
	cond := p.parenthesizedCondition("while")
	if cond == nil {
		return nil
	}
	body := p.compoundStatement()
	if body == nil {
		return nil
	}
	return &WhileStatement{
		Condition: cond,
		Body:      body,
	}
}

func (p *Parser) parenthesizedCondition(keyword string) Expr {
	if _, ok := p.match(LPAREN, "'(' after '"+keyword+"'"); !ok {
		return nil
	}
	t := p.next()
	cond := p.equalityExpression()
	if cond == nil {
		p.errorf(t.Pos, "failed to parse condition of '%s'", keyword)
		return nil
	}
	if _, ok := p.match(RPAREN, "')' after condition of '"+keyword+"'"); !ok {
		return nil
	}
	return cond
}

func (p *Parser) forStatement() *ForStatement {
	p.advance()
	if _, ok := p.match(LPAREN, "'(' after 'for'"); !ok {
		return nil
	}
	stmt := &ForStatement{}
	switch t := p.next(); {
	case t.Kind.IsTypeKeyword():
		decl := p.variableDeclaration()
		if decl == nil {
			return nil
		}
		stmt.Initialization = decl
	case t.Kind == IDENTIFIER:
		init := p.assignmentExpression()
		if init == nil {
			return nil
		}
		stmt.Initialization = init
		if _, ok := p.match(SEMICOLON, "';' after initialization of 'for'"); !ok {
			return nil
		}
	default:
		if _, ok := p.match(SEMICOLON, "initialization or ';' in 'for'"); !ok {
			return nil
		}
	}
	if p.next().Kind != SEMICOLON {
		t := p.next()
		stmt.Condition = p.equalityExpression()
		if stmt.Condition == nil {
			p.errorf(t.Pos, "failed to parse condition of 'for'")
			return nil
		}
	}
	if _, ok := p.match(SEMICOLON, "';' after condition of 'for'"); !ok {
		return nil
	}
	if p.next().Kind != RPAREN {
		incr := p.assignmentExpression()
		if incr == nil {
			return nil
		}
		stmt.Increment = incr
	}
	if _, ok := p.match(RPAREN, "')' after increment of 'for'"); !ok {
		return nil
	}
	body := p.compoundStatement()
	if body == nil {
		return nil
	}
	stmt.Body = body
	return stmt
}

func (p *Parser) returnStatement() *ReturnStatement {
	p.advance()
	stmt := &ReturnStatement{}
	if p.next().Kind != SEMICOLON {
		t := p.next()
		stmt.Expression = p.equalityExpression()
		if stmt.Expression == nil {
			p.errorf(t.Pos, "failed to parse return value")
			return nil
		}
	}
	if _, ok := p.match(SEMICOLON, "';' after return statement"); !ok {
		return nil
	}
	return stmt
}

func (p *Parser) expressionStatement() *ExpressionStatement {
	t := p.next()
	expr := p.assignmentExpression()
	if expr == nil {
		p.errorf(t.Pos, "failed to parse expression statement")
		return nil
	}
	if _, ok := p.match(SEMICOLON, "';' at end of expression statement"); !ok {
		return nil
	}
	return &ExpressionStatement{
		Expression: expr,
	}
}

func (p *Parser) assignmentExpression() *AssignmentExpression {
	id, ok := p.match(IDENTIFIER, "identifier on the left of an assignment")
	if !ok {
		return nil
	}
	op := p.next()
	switch op.Kind {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, MULTIPLY_ASSIGN:
		p.advance()
	default:
		p.errorf(op.Pos, "expected assignment operator after identifier, but got %s", op)
		return nil
	}
	right := p.equalityExpression()
	if right == nil {
		p.errorf(op.Pos, "failed to parse right side of assignment to '%s'", id.Lexeme)
		return nil
	}
	return &AssignmentExpression{
		Left:     &Identifier{Name: id.Lexeme},
		Operator: op.Lexeme,
		Right:    right,
	}
}

func (p *Parser) equalityExpression() Expr {
	return p.binaryLevel(p.additiveExpression, EQUALS, NOT_EQUALS, LESS_THAN, GREATER_THAN, LESS_EQUAL_THAN, GREATER_EQUAL_THAN)
}

func (p *Parser) additiveExpression() Expr {
	return p.binaryLevel(p.multiplicativeExpression, PLUS, MINUS)
}

func (p *Parser) multiplicativeExpression() Expr {
	return p.binaryLevel(p.unaryExpression, MULTIPLY, DIVIDE)
}

// binaryLevel parses one left-associative precedence level whose operands
// come from the next tighter level.
func (p *Parser) binaryLevel(operand func() Expr, ops ...TokenKind) Expr {
	left := operand()
	if left == nil {
		return nil
	}
	for isOneOf(p.next().Kind, ops) {
		op := p.advance()
		right := operand()
		if right == nil {
			return nil
		}
		left = &BinaryOperation{
			Left:     left,
			Operator: op.Lexeme,
			Right:    right,
		}
	}
	return left
}

func isOneOf(k TokenKind, kinds []TokenKind) bool {
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// unaryExpression rewrites -x as 0 - x.
func (p *Parser) unaryExpression() Expr {
	if p.next().Kind == MINUS {
		op := p.advance()
		operand := p.unaryExpression()
		if operand == nil {
			return nil
		}
		return &BinaryOperation{
			Left:     &IntegerLiteral{Value: 0},
			Operator: op.Lexeme,
			Right:    operand,
		}
	}
	return p.primaryExpression()
}

func (p *Parser) primaryExpression() Expr {
	switch t := p.next(); t.Kind {
	case LPAREN:
		p.advance()
		inner := p.equalityExpression()
		if inner == nil {
			return nil
		}
		if _, ok := p.match(RPAREN, "')'"); !ok {
			return nil
		}
		return inner
	case IDENTIFIER:
		p.advance()
		return &Identifier{Name: t.Lexeme}
	case INTEGER:
		p.advance()
		v, err := strconv.ParseInt(t.Lexeme, 10, 64)
		if err != nil {
			p.errorf(t.Pos, "invalid integer literal %s", t.Lexeme)
			return nil
		}
		return &IntegerLiteral{Value: v}
	case FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			p.errorf(t.Pos, "invalid float literal %s", t.Lexeme)
			return nil
		}
		return &FloatLiteral{Value: v}
	case STRING:
		p.advance()
		return &StringLiteral{Value: unquote(t.Lexeme)}
	case TRUE, FALSE:
		p.advance()
		return &BooleanLiteral{Value: t.Kind == TRUE}
	}
	p.errorf(p.next().Pos, "unexpected token: %s", p.next())
	return nil
}

func unquote(lexeme string) string {
	if len(lexeme) >= 2 && lexeme[0] == '"' && lexeme[len(lexeme)-1] == '"' {
		return lexeme[1 : len(lexeme)-1]
	}
	return lexeme
}

func (p *Parser) next() Token {
	return p.tokens[mathutil.Clamp(p.index, 0, len(p.tokens)-1)]
}

func (p *Parser) advance() Token {
	t := p.next()
	if p.index < len(p.tokens)-1 {
		p.index++
	}
	return t
}

func (p *Parser) match(k TokenKind, what string) (Token, bool) {
	t := p.next()
	if t.Kind != k {
		p.errorf(t.Pos, "expected %s, but got %s", what, t)
		return Token{Kind: k}, false
	}
	p.advance()
	return t, true
}

func (p *Parser) errorf(pos Pos, format string, args ...interface{}) {
	p.errors = append(p.errors, NewError(pos, format, args...).Error())
}
