package parse_test

import (
	"testing"

	"github.com/coregx/rex/parse"
)

func BenchmarkParse_Email(b *testing.B) {
	pattern := `([a-zA-Z0-9._%+-]+)@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,4})`
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := parse.Parse(pattern); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_CatastrophicPattern(b *testing.B) {
	pattern := `a?a?a?a?a?a?a?a?a?a?a?a?a?a?a?a?a?a?aaaaaaaaaaaaaaaaaa`
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := parse.Parse(pattern); err != nil {
			b.Fatal(err)
		}
	}
}
