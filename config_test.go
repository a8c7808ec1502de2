package minic_test

import (
	"os"
	"path/filepath"
	"testing"

	"minic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, minic.Config{
		TokensFile: "lexer.json",
		ASTFile:    "ast.json",
		IRFile:     "intermediate_code.txt",
		LLVMFile:   "intermediate_code.ll",
	}, minic.DefaultConfig())
}

func TestParseConfig(t *testing.T) {
	cfg, err := minic.ParseConfig("# artifacts\nir.file = out.tac\nllvm.emit = true\nwarnings.fatal = true\n")
	require.NoError(t, err)
	assert.Equal(t, "out.tac", cfg.IRFile)
	assert.True(t, cfg.EmitLLVM)
	assert.True(t, cfg.WarningsFatal)
	assert.False(t, cfg.DumpAST)
	assert.Equal(t, "lexer.json", cfg.TokensFile)
}

func TestParseConfigCircularReference(t *testing.T) {
	_, err := minic.ParseConfig("ir.file = ${ir.file}\n")
	assert.Error(t, err)
}

func TestParseConfigExpandsReferences(t *testing.T) {
	cfg, err := minic.ParseConfig("out = build\nir.file = ${out}/code.tac\n")
	require.NoError(t, err)
	assert.Equal(t, "build/code.tac", cfg.IRFile)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minic.properties")
	require.NoError(t, os.WriteFile(path, []byte("ast.file = tree.json\ntokens.file = toks.json\n"), 0o644))

	cfg, err := minic.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tree.json", cfg.ASTFile)
	assert.Equal(t, "toks.json", cfg.TokensFile)
	assert.Equal(t, "intermediate_code.ll", cfg.LLVMFile)

	_, err = minic.LoadConfig(filepath.Join(t.TempDir(), "missing.properties"))
	assert.Error(t, err)
}
