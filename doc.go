// Package molt implements a small dynamic scripting language: a
// hand-written lexer, a recursive-descent parser that stops at the first
// syntax error, and a tree-walking interpreter over the resulting AST.
//
// The entry point is Run, which lexes, parses and evaluates a single
// source text against a caller-supplied global environment:
//
//	globals := molt.NewGlobalEnv()
//	value, err := molt.Run("main.molt", source, globals)
//
// Passing the same globals to successive Run calls keeps top-level
// variable and function definitions alive across calls, the same way a
// REPL driver or the "run" built-in re-enters the pipeline without
// resetting global state.
package molt
