package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"minic"

	"github.com/sanity-io/litter"
	cli "github.com/urfave/cli/v2"
)

var (
	cfg    = minic.DefaultConfig()
	diag   = log.New(os.Stderr, "", 0)
	stdout io.Writer = os.Stdout
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "artifact path (defaults to the configured file name)",
	}
	return &cli.App{
		Name:  "minicc",
		Usage: "tokenize, parse, check and lower minic programs to three-address code",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "properties file with artifact names and options",
			},
			&cli.BoolFlag{
				Name:  "dump-ast",
				Usage: "print the parsed tree",
			},
			&cli.BoolFlag{
				Name:  "Werror",
				Usage: "treat semantic warnings as errors",
			},
		},
		Before: func(c *cli.Context) error {
			if path := c.String("config"); path != "" {
				loaded, err := minic.LoadConfig(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if c.IsSet("dump-ast") {
				cfg.DumpAST = c.Bool("dump-ast")
			}
			if c.IsSet("Werror") {
				cfg.WarningsFatal = c.Bool("Werror")
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "tokens",
				Usage:     "tokenize a source file into a JSON token snapshot",
				ArgsUsage: "<source>",
				Flags:     []cli.Flag{outputFlag},
				Action:    runTokens,
			},
			{
				Name:      "parse",
				Usage:     "parse a token snapshot into a JSON tree snapshot",
				ArgsUsage: "[tokens.json]",
				Flags:     []cli.Flag{outputFlag},
				Action:    runParse,
			},
			{
				Name:      "check",
				Usage:     "run semantic analysis over a tree snapshot",
				ArgsUsage: "[ast.json]",
				Action:    runCheck,
			},
			{
				Name:      "ir",
				Usage:     "lower a checked tree snapshot to three-address code",
				ArgsUsage: "[ast.json]",
				Flags:     []cli.Flag{outputFlag},
				Action:    runIR,
			},
			{
				Name:      "build",
				Usage:     "run every stage over a source file and write all artifacts",
				ArgsUsage: "<source>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "llvm", Usage: "also write LLVM IR"},
				},
				Action: runBuild,
			},
			{
				Name:      "run",
				Usage:     "compile a source file, execute its three-address code and print the variables",
				ArgsUsage: "<source>",
				Action:    runRun,
			},
		},
	}
}

func runTokens(c *cli.Context) error {
	filename, source, err := readSource(c)
	if err != nil {
		return err
	}
	tokens := minic.Tokenize(filename, source)
	for _, t := range tokens {
		if t.Kind == minic.INVALIDTOKEN {
			diag.Printf("%s: warning: invalid token %q", t.Pos, t.Lexeme)
		}
	}
	return writeArtifact(output(c, cfg.TokensFile), func(w io.Writer) error {
		return minic.WriteTokensJSON(w, tokens)
	})
}

func runParse(c *cli.Context) error {
	f, err := os.Open(input(c, cfg.TokensFile))
	if err != nil {
		return err
	}
	defer f.Close()
	tokens, err := minic.ReadTokensJSON(f)
	if err != nil {
		return err
	}
	program, err := minic.ParseTokens(tokens)
	if err != nil {
		return reportFailure(err)
	}
	dumpAST(program)
	return writeArtifact(output(c, cfg.ASTFile), func(w io.Writer) error {
		return minic.WriteProgramJSON(w, program)
	})
}

func runCheck(c *cli.Context) error {
	program, err := readProgram(c)
	if err != nil {
		return err
	}
	if _, err := check(program); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "semantic analysis completed")
	return nil
}

func runIR(c *cli.Context) error {
	program, err := readProgram(c)
	if err != nil {
		return err
	}
	symbols, err := check(program)
	if err != nil {
		return err
	}
	instrs := minic.NewGenerator(program, symbols).Generate()
	return writeArtifact(output(c, cfg.IRFile), func(w io.Writer) error {
		return minic.WriteInstructions(w, instrs)
	})
}

func runBuild(c *cli.Context) error {
	res, err := compile(c)
	if err != nil {
		return err
	}
	if err := writeArtifact(cfg.TokensFile, func(w io.Writer) error {
		return minic.WriteTokensJSON(w, res.Tokens)
	}); err != nil {
		return err
	}
	if err := writeArtifact(cfg.ASTFile, func(w io.Writer) error {
		return minic.WriteProgramJSON(w, res.Program)
	}); err != nil {
		return err
	}
	if err := writeArtifact(cfg.IRFile, func(w io.Writer) error {
		return minic.WriteInstructions(w, res.Instructions)
	}); err != nil {
		return err
	}
	if !c.Bool("llvm") && !cfg.EmitLLVM {
		return nil
	}
	module, err := minic.EmitLLVM(res.Instructions, res.Symbols)
	if err != nil {
		return cli.Exit(fmt.Sprintf("llvm: %s", err), 1)
	}
	return writeArtifact(cfg.LLVMFile, func(w io.Writer) error {
		_, err := io.WriteString(w, module.String())
		return err
	})
}

func runRun(c *cli.Context) error {
	res, err := compile(c)
	if err != nil {
		return err
	}
	eval := minic.NewEvaluator(res.Symbols)
	if err := eval.Run(res.Instructions); err != nil {
		return cli.Exit(fmt.Sprintf("runtime error: %s", err), 1)
	}
	for _, b := range eval.Variables() {
		fmt.Fprintf(stdout, "%s %s = %s\n", b.Symbol.DataType, b.Symbol.Name, b.Value)
	}
	return nil
}

func compile(c *cli.Context) (*minic.Result, error) {
	filename, source, err := readSource(c)
	if err != nil {
		return nil, err
	}
	res, err := minic.Compile(filename, source)
	if res.Program != nil {
		dumpAST(res.Program)
	}
	printWarnings(res.Warnings)
	if err != nil {
		return nil, reportFailure(err)
	}
	if cfg.WarningsFatal && len(res.Warnings) > 0 {
		return nil, cli.Exit("warnings treated as errors", 1)
	}
	return res, nil
}

// check analyzes program, printing every diagnostic.
func check(program *minic.Program) (*minic.SymbolTable, error) {
	symbols, warnings, err := minic.CheckProgram(program)
	printWarnings(warnings)
	if err != nil {
		return nil, reportFailure(err)
	}
	if cfg.WarningsFatal && len(warnings) > 0 {
		return nil, cli.Exit("warnings treated as errors", 1)
	}
	return symbols, nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		diag.Printf("warning: %s", w)
	}
}

func reportFailure(err error) error {
	var cerr *minic.CompileError
	if !errors.As(err, &cerr) {
		return err
	}
	for _, msg := range cerr.Messages {
		diag.Printf("%s error: %s", cerr.Stage, msg)
	}
	return cli.Exit(fmt.Sprintf("%s analysis failed with %d error(s)", cerr.Stage, len(cerr.Messages)), 1)
}

func dumpAST(program *minic.Program) {
	if cfg.DumpAST {
		fmt.Fprintln(stdout, litter.Sdump(program))
	}
}

func readSource(c *cli.Context) (string, []byte, error) {
	filename := c.Args().First()
	if filename == "" {
		return "", nil, cli.Exit("no input file", 2)
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return "", nil, err
	}
	return filename, source, nil
}

func readProgram(c *cli.Context) (*minic.Program, error) {
	f, err := os.Open(input(c, cfg.ASTFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return minic.ReadProgramJSON(f)
}

func input(c *cli.Context, fallback string) string {
	if arg := c.Args().First(); arg != "" {
		return arg
	}
	return fallback
}

func output(c *cli.Context, fallback string) string {
	if path := strings.TrimSpace(c.String("output")); path != "" {
		return path
	}
	return fallback
}

func writeArtifact(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
