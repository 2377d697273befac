// Package lang runs tz programs.
//
// tz is a small dynamically typed language with lexically scoped closures.
// Source goes through three stages, each in its own package:
//
//   - [github.com/ardnew/tzlang/lang/lexer] splits text into tokens,
//   - [github.com/ardnew/tzlang/lang/parser] builds an
//     [github.com/ardnew/tzlang/lang/ast] tree by precedence climbing,
//   - [github.com/ardnew/tzlang/lang/runtime] walks the tree.
//
// This package ties the stages together behind [Interpreter], caches parse
// trees by source hash, renders syntax trees as JSON, YAML, Go values or tz
// source, and formats errors with the line they point at.
//
// # Example
//
//	let fib = (n) => {
//	  let r = n
//	  if (n > 1) { r = fib(n - 1) + fib(n - 2) }
//	  r
//	}
//	print(fib(10))
//
// # Values
//
// There are six kinds of value: null, booleans, 64-bit floats, strings,
// closures and host functions. Arithmetic and comparison operate on floats
// only; + also joins two strings. The operators ==, &, &&, | and || are
// parsed but have no runtime meaning for any operand types.
//
// # Scoping
//
// A program's top-level declarations live in the interpreter's global
// environment and persist across calls to [Interpreter.Run]. Blocks, if
// branches, loop iterations and calls each evaluate in a fresh child scope.
// The constants null, true and false cannot be reassigned.
package lang
