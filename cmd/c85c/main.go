package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mayan-101/c85c/pkg/compiler"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: c85c <input_file.c85>")
		os.Exit(1)
	}
	inputPath := os.Args[1]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}
	src := string(data)

	tokens, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	prog, err := compiler.Parse(tokens, src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	syms := compiler.NewSymbolTable()
	lines, err := compiler.Generate(prog, syms)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".asm"
	out := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(outputPath, []byte(out), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write error:", err)
		os.Exit(1)
	}

	fmt.Printf("Compilation successful, output written to %s\n", outputPath)
}
