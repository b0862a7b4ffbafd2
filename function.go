package molt

// Function is a user-defined procedure: a body node plus the scope it
// closed over at definition time.
type Function struct {
	Name            string // "" for an anonymous literal
	ArgNames        []string
	Body            Node
	ShouldAutoReturn bool
	// Captured is the symbol table the function literal was evaluated
	// in; a call's own symbol table chains to this, not to the caller's,
	// giving lexical (not dynamic) closures.
	Captured *SymbolTable
}

func (f *Function) displayName() string {
	if f.Name != "" {
		return f.Name
	}
	return "<anonymous>"
}

// BuiltinFn is the Go implementation behind a Builtin value. args is bound
// positionally by name, already arity-checked by the caller.
type BuiltinFn func(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome

// Builtin is a host-provided procedure pre-bound in the global scope.
type Builtin struct {
	Name     string
	ArgNames []string
	Fn       BuiltinFn
}
