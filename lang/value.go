package lang

import (
	"io"
	"log/slog"
	"reflect"

	"github.com/alecthomas/repr"

	"github.com/ardnew/tzlang/lang/runtime"
	"github.com/ardnew/tzlang/pkg"
)

// ErrUnsupportedValue reports a host value with no tz equivalent.
var ErrUnsupportedValue = pkg.ErrType.Sub("unsupported host value")

// FromNative converts a Go value to a tz value. Numbers of every Go numeric
// type become floats.
func FromNative(x any) (runtime.Value, error) {
	if x == nil {
		return runtime.Null{}, nil
	}

	switch x := x.(type) {
	case runtime.Value:
		return x, nil
	case bool:
		return runtime.Boolean(x), nil
	case string:
		return runtime.String(x), nil
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return runtime.Float(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return runtime.Float(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return runtime.Float(rv.Float()), nil
	}

	return nil, ErrUnsupportedValue.With(slog.String("type", rv.Type().String()))
}

// ToNative converts a tz value to the closest Go value. Functions have no Go
// equivalent and are returned as their display string.
func ToNative(v runtime.Value) any {
	switch v := v.(type) {
	case nil, runtime.Null:
		return nil
	case runtime.Boolean:
		return bool(v)
	case runtime.Float:
		return float64(v)
	case runtime.String:
		return string(v)
	}

	return runtime.Display(v)
}

// Inspection describes a value for debugging.
type Inspection struct {
	Value  any
	Kind   string
	Params []string
}

// Inspect returns a description of v. Closures are described by their
// parameters rather than their environment, which may refer back to v.
func Inspect(v runtime.Value) Inspection {
	if v == nil {
		v = runtime.Null{}
	}

	in := Inspection{Kind: v.Kind().String(), Value: ToNative(v)}

	if fn, ok := v.(*runtime.Function); ok {
		in.Params = fn.ParamNames()
	}

	return in
}

// WriteInspection writes the description of v as a Go value.
func WriteInspection(w io.Writer, v runtime.Value) error {
	_, err := io.WriteString(w,
		repr.String(Inspect(v), repr.Indent("  "), repr.OmitEmpty(true))+"\n")

	return err
}
