package minic

import (
	"fmt"

	"github.com/magiconair/properties"
)

// Config controls where the staged commands read and write their artifacts.
type Config struct {
	TokensFile    string `properties:"tokens.file,default=lexer.json"`
	ASTFile       string `properties:"ast.file,default=ast.json"`
	IRFile        string `properties:"ir.file,default=intermediate_code.txt"`
	LLVMFile      string `properties:"llvm.file,default=intermediate_code.ll"`
	EmitLLVM      bool   `properties:"llvm.emit,default=false"`
	WarningsFatal bool   `properties:"warnings.fatal,default=false"`
	DumpAST       bool   `properties:"dump.ast,default=false"`
}

func DefaultConfig() Config {
	cfg, err := decodeConfig(properties.NewProperties())
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig reads a .properties file. Keys it does not set keep their defaults.
func LoadConfig(path string) (Config, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	return decodeConfig(p)
}

func ParseConfig(text string) (Config, error) {
	p, err := properties.LoadString(text)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return decodeConfig(p)
}

func decodeConfig(p *properties.Properties) (Config, error) {
	var cfg Config
	if err := p.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
