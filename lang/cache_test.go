package lang

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/ardnew/tzlang/pkg"
)

func TestParseString_Cached(t *testing.T) {
	ClearCache()

	source := "let x = 1\nx + 2"

	first, err := ParseString(t.Context(), source)
	if err != nil {
		t.Fatal(err)
	}

	second, err := ParseString(t.Context(), source)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Error("identical source parsed twice")
	}

	other, err := ParseString(t.Context(), source+"\n")
	if err != nil {
		t.Fatal(err)
	}

	if other == first {
		t.Error("different sources share a tree")
	}

	ClearCache()

	third, err := ParseString(t.Context(), source)
	if err != nil {
		t.Fatal(err)
	}

	if third == first {
		t.Error("ClearCache kept the cached tree")
	}
}

func TestParseString_CachesErrors(t *testing.T) {
	ClearCache()

	_, err1 := ParseString(t.Context(), "let = 1")
	_, err2 := ParseString(t.Context(), "let = 1")

	if !errors.Is(err1, pkg.ErrSyntax) || err1 != err2 {
		t.Errorf("errors = %v, %v; want the same syntax error", err1, err2)
	}
}

func TestParseString_Concurrent(t *testing.T) {
	ClearCache()

	const n = 16

	results := make(chan any, n)

	for range n {
		go func() {
			prog, err := ParseString(t.Context(), "let a = (b) => { b * 2 }\na(3)")
			if err != nil {
				results <- err

				return
			}

			results <- prog
		}()
	}

	first := <-results
	for range n - 1 {
		if got := <-results; got != first {
			t.Fatalf("concurrent parses returned %v and %v", first, got)
		}
	}
}

func TestParseReader(t *testing.T) {
	prog, err := ParseReader(t.Context(), strings.NewReader("1\n2\n3"))
	if err != nil {
		t.Fatal(err)
	}

	if len(prog.Statements) != 3 {
		t.Errorf("got %d statements, want 3", len(prog.Statements))
	}

	_, err = ParseReader(t.Context(), iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, pkg.ErrReadInput) {
		t.Errorf("error = %v, want read input error", err)
	}
}

func BenchmarkParseString(b *testing.B) {
	var sb strings.Builder
	for i := range 200 {
		sb.WriteString("let v")
		sb.WriteString(strings.Repeat("x", i%7+1))
		sb.WriteString(" = (a, b) => { if (a < b) { a * 2 + b } else { b - a / 3 } }\n")
	}

	source := sb.String()

	b.Run("cached", func(b *testing.B) {
		ClearCache()

		for b.Loop() {
			if _, err := ParseString(b.Context(), source); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("uncached", func(b *testing.B) {
		for b.Loop() {
			ClearCache()

			if _, err := ParseString(b.Context(), source); err != nil {
				b.Fatal(err)
			}
		}
	})
}
