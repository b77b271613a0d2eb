package compiler_test

import (
	"testing"

	"github.com/Mayan-101/c85c/pkg/compiler"
)

func BenchmarkCompile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := compiler.Compile(sampleSource); err != nil {
			b.Fatalf("Compile failed: %v", err)
		}
	}
}

func BenchmarkLex(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := compiler.Lex(sampleSource); err != nil {
			b.Fatalf("Lex failed: %v", err)
		}
	}
}
