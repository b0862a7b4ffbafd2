package molt

// NewGlobalEnv builds a fresh global scope seeded with the three
// constants and the built-ins table. The built-ins table itself is
// immutable once built; only the SymbolTable returned here is mutated as
// the caller's top-level script defines variables and functions.
func NewGlobalEnv() *SymbolTable {
	globals := NewSymbolTable(nil)
	globals.Set("Null", Null)
	globals.Set("True", True)
	globals.Set("False", False)
	for name, b := range NewBuiltins() {
		globals.Set(name, BuiltinValue(b))
	}
	return globals
}

// Run lexes, parses and evaluates source against the given global scope.
// Passing the same globals across successive calls (as a REPL driver or
// the run built-in does) keeps top-level definitions alive between them.
func Run(filename, source string, globals *SymbolTable) (Value, error) {
	in := NewInterpreter()
	return in.runSource(filename, source, globals)
}

func (in *Interpreter) runSource(filename, source string, globals *SymbolTable) (Value, error) {
	tokens, err := Tokenize(filename, source)
	if err != nil {
		return Value{}, err
	}
	block, err := Parse(filename, tokens)
	if err != nil {
		return Value{}, err
	}

	moduleCtx := NewContext("<module>", block.Span_, globals)
	outcome := in.Eval(block, moduleCtx)
	if outcome.IsError() {
		return Value{}, outcome.Err()
	}
	return outcome.Value(), nil
}
