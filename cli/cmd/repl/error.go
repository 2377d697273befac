package repl

import "github.com/ardnew/tzlang/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds  = pkg.NewError("history index out of range")
	ErrEditDeclined = pkg.NewError("edit declined")
	ErrPreload      = pkg.NewError("preload failed")
)
