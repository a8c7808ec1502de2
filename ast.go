package minic

type Node interface {
	node()
}

// Program is the root of a compilation unit. The parser only places
// declarations here; expression statements are accepted by the later passes
// for trees assembled by hand or loaded from a snapshot.
type Program struct {
	Declarations []Stmt
}

type Stmt interface {
	Node
	stmt()
}

// Decl is the subset of statements allowed at the top level of a program.
type Decl interface {
	Stmt
	decl()
}

type VariableDeclaration struct {
	Pos         Pos
	TypeSpec    string
	Identifier  string
	Initializer Expr
}

type FunctionDeclaration struct {
	ReturnType string
	Identifier string
	Parameters []Parameter
	Body       *CompoundStatement
}

type Parameter struct {
	TypeSpec   string
	Identifier string
}

type CompoundStatement struct {
	Statements []Stmt
}

type IfStatement struct {
	Condition     Expr
	ThenStatement Stmt
	ElseStatement Stmt
}

type WhileStatement struct {
	Condition Expr
	Body      Stmt
}

// ForStatement.Initialization is either a *VariableDeclaration or an
// *AssignmentExpression.
type ForStatement struct {
	Initialization Node
	Condition      Expr
	Increment      Expr
	Body           Stmt
}

type ReturnStatement struct {
	Expression Expr
}

type ExpressionStatement struct {
	Expression Expr
}

func (p *Program) node()             {}
func (v *VariableDeclaration) node() {}
func (f *FunctionDeclaration) node() {}
func (c *CompoundStatement) node()   {}
func (i *IfStatement) node()         {}
func (w *WhileStatement) node()      {}
func (f *ForStatement) node()        {}
func (r *ReturnStatement) node()     {}
func (e *ExpressionStatement) node() {}

func (v *VariableDeclaration) stmt() {}
func (f *FunctionDeclaration) stmt() {}
func (c *CompoundStatement) stmt()   {}
func (i *IfStatement) stmt()         {}
func (w *WhileStatement) stmt()      {}
func (f *ForStatement) stmt()        {}
func (r *ReturnStatement) stmt()     {}
func (e *ExpressionStatement) stmt() {}

func (v *VariableDeclaration) decl() {}
func (f *FunctionDeclaration) decl() {}

type Expr interface {
	Node
	expr()
}

type BinaryOperation struct {
	Left     Expr
	Operator string
	Right    Expr
}

type AssignmentExpression struct {
	Left     Expr
	Operator string
	Right    Expr
}

type Identifier struct {
	Name string
}

type IntegerLiteral struct {
	Value int64
}

type FloatLiteral struct {
	Value float64
}

// StringLiteral.Value holds the text between the quotes.
type StringLiteral struct {
	Value string
}

type BooleanLiteral struct {
	Value bool
}

func (b *BinaryOperation) node()      {}
func (a *AssignmentExpression) node() {}
func (i *Identifier) node()           {}
func (l *IntegerLiteral) node()       {}
func (l *FloatLiteral) node()         {}
func (l *StringLiteral) node()        {}
func (l *BooleanLiteral) node()       {}

func (b *BinaryOperation) expr()      {}
func (a *AssignmentExpression) expr() {}
func (i *Identifier) expr()           {}
func (l *IntegerLiteral) expr()       {}
func (l *FloatLiteral) expr()         {}
func (l *StringLiteral) expr()        {}
func (l *BooleanLiteral) expr()       {}
