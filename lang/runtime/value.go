package runtime

import (
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/tzlang/lang/ast"
)

// Kind tags each runtime value type.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindFloat
	KindString
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native function"
	default:
		return "unknown"
	}
}

// Value is implemented by every runtime value. The set of implementations
// is closed. Values are immutable.
type Value interface {
	Kind() Kind
	String() string

	value()
}

// Null is the absence of a value.
type Null struct{}

// Boolean is true or false.
type Boolean bool

// Float is the only numeric type.
type Float float64

// String is a sequence of characters.
type String string

// Function is a closure: a function expression together with the
// environment it was created in.
type Function struct {
	Body   *ast.BlockStatement
	Env    *Environment
	Params []*ast.Identifier
}

// NativeFunction is a function implemented by the host. Fn receives the
// evaluated arguments.
type NativeFunction struct {
	Fn   func(args []Value) (Value, error)
	Name string
}

func (Null) Kind() Kind            { return KindNull }
func (Boolean) Kind() Kind         { return KindBoolean }
func (Float) Kind() Kind           { return KindFloat }
func (String) Kind() Kind          { return KindString }
func (*Function) Kind() Kind       { return KindFunction }
func (*NativeFunction) Kind() Kind { return KindNativeFunction }

func (Null) value()            {}
func (Boolean) value()         {}
func (Float) value()           {}
func (String) value()          {}
func (*Function) value()       {}
func (*NativeFunction) value() {}

func (Null) String() string { return "null" }

func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

// String formats f in the shortest form that parses back to the same value.
func (f Float) String() string {
	switch x := float64(f); {
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case math.IsNaN(x):
		return "NaN"
	default:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
}

func (s String) String() string { return string(s) }

func (f *Function) String() string {
	return "<fn(" + strings.Join(f.ParamNames(), ", ") + ")>"
}

func (n *NativeFunction) String() string { return "<native " + n.Name + ">" }

// ParamNames returns the names of the function's parameters in order.
func (f *Function) ParamNames() []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}

	return names
}

// Display returns the form of v shown to users, as printed by the print
// native and by hosts reporting a program's result.
func Display(v Value) string {
	if v == nil {
		return Null{}.String()
	}

	return v.String()
}
