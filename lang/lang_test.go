package lang

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/ardnew/tzlang/lang/runtime"
	"github.com/ardnew/tzlang/log"
	"github.com/ardnew/tzlang/pkg"
)

func TestInterpreter_PersistentGlobals(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		source string
		want   runtime.Value
	}{
		{"let x = 2", runtime.Float(2)},
		{"let double = (n) => { n * 2 }", nil},
		{"x = double(x)", runtime.Float(4)},
		{"x + 1", runtime.Float(5)},
	}

	for _, step := range steps {
		got, err := in.Run(t.Context(), step.source)
		if err != nil {
			t.Fatalf("Run(%q): %v", step.source, err)
		}

		if step.want != nil && got != step.want {
			t.Errorf("Run(%q) = %v, want %v", step.source, got, step.want)
		}
	}

	if _, err := in.Env().Lookup("double"); err != nil {
		t.Errorf("double not kept in globals: %v", err)
	}
}

func TestInterpreter_ErrorKeepsSession(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := in.Run(t.Context(), "let a = 1"); err != nil {
		t.Fatal(err)
	}

	if _, err := in.Run(t.Context(), "a = missing"); !errors.Is(err, pkg.ErrUndefinedVariable) {
		t.Fatalf("error = %v, want undefined variable", err)
	}

	got, err := in.Run(t.Context(), "a")
	if err != nil || got != runtime.Float(1) {
		t.Errorf("a = %v, %v after failed statement", got, err)
	}
}

func TestInterpreter_Options(t *testing.T) {
	var out, logs bytes.Buffer

	logger := log.Make(&logs, log.WithLevel(log.LevelTrace), log.WithFormat(log.FormatJSON))

	in, err := New(
		WithOutput(&out),
		WithGlobals(map[string]runtime.Value{"greeting": runtime.String("hello")}),
		WithLogger(logger),
		WithMaxDepth(10),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := in.Run(t.Context(), "print(greeting + ' world')"); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "hello world\n" {
		t.Errorf("output = %q", got)
	}

	if !bytes.Contains(logs.Bytes(), []byte(`"msg":"call"`)) {
		t.Errorf("no call trace in logs:\n%s", logs.String())
	}

	_, err = in.Run(t.Context(), "let f = () => { f() }\nf()")
	if !errors.Is(err, pkg.ErrMaxDepthExceeded) {
		t.Errorf("error = %v, want max depth exceeded", err)
	}
}

func TestInterpreter_SyntaxErrorLeavesGlobals(t *testing.T) {
	in, _ := New()

	if _, err := in.Run(t.Context(), "let y = 1\nlet = 2"); !errors.Is(err, pkg.ErrSyntax) {
		t.Fatalf("error = %v, want syntax error", err)
	}

	if _, err := in.Env().Lookup("y"); !errors.Is(err, pkg.ErrUndefinedVariable) {
		t.Error("a program with a syntax error must not run at all")
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Run(ctx, "for (true) {}")
	if !errors.Is(err, pkg.ErrInterrupted) {
		t.Errorf("error = %v, want interrupted", err)
	}
}

func TestRun_CollidingGlobal(t *testing.T) {
	_, err := Run(t.Context(), "1", WithGlobals(map[string]runtime.Value{"null": runtime.Float(0)}))
	if !errors.Is(err, pkg.ErrAlreadyDefined) {
		t.Errorf("error = %v, want already defined", err)
	}
}

func ExampleRun() {
	v, err := Run(context.Background(), `
let fib = (n) => {
  let r = n
  if (n > 1) { r = fib(n - 1) + fib(n - 2) }
  r
}
print('fib(10) =', fib(10))
fib(20) / 5
`, WithOutput(os.Stdout))
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(runtime.Display(v))
	// Output:
	// fib(10) = 55
	// 1353
}
