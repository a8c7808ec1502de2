package minic

// Result holds everything a compilation produced. On failure the fields of
// the passes that ran are still filled in.
type Result struct {
	Tokens       []Token
	Program      *Program
	Symbols      *SymbolTable
	Warnings     []string
	Instructions []Instruction
}

// Compile runs tokenizer, parser, analyzer and generator over one source
// file. Every pass is constructed fresh, so calls never observe each other.
func Compile(filename string, source []byte) (*Result, error) {
	return CompileTokens(Tokenize(filename, source))
}

func CompileTokens(tokens []Token) (*Result, error) {
	res := &Result{Tokens: tokens}
	program, err := ParseTokens(tokens)
	if err != nil {
		return res, err
	}
	res.Program = program
	symbols, warnings, err := CheckProgram(program)
	res.Symbols = symbols
	res.Warnings = warnings
	if err != nil {
		return res, err
	}
	res.Instructions = NewGenerator(program, symbols).Generate()
	return res, nil
}

func ParseTokens(tokens []Token) (*Program, error) {
	p := NewParser(tokens)
	ok, program, message := p.Parse()
	if !ok {
		msgs := p.Errors()
		if len(msgs) == 0 {
			msgs = []string{message}
		}
		return nil, &CompileError{Stage: StageParse, Messages: msgs}
	}
	return program, nil
}

// CheckProgram analyzes program and returns the populated symbol table and
// the warnings; semantic errors are returned as a *CompileError.
func CheckProgram(program *Program) (*SymbolTable, []string, error) {
	a := NewAnalyzer(program)
	ok, errs, warnings := a.Analyze()
	if !ok {
		return a.Symbols(), warnings, &CompileError{Stage: StageSemantic, Messages: errs}
	}
	return a.Symbols(), warnings, nil
}
