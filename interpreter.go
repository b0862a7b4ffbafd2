package molt

import (
	"bufio"
	"io"
	"os"

	"github.com/juju/errors"
)

// Interpreter walks an AST and produces Outcomes. frames is the explicit
// call-stack vector used only to build a RuntimeError's traceback; it is
// independent of SymbolTable.parent, which carries lexical scoping.
type Interpreter struct {
	frames []FrameInfo
	Stdout io.Writer
	Stdin  *bufio.Reader
}

func NewInterpreter() *Interpreter {
	return &Interpreter{
		Stdout: os.Stdout,
		Stdin:  bufio.NewReader(os.Stdin),
	}
}

func (in *Interpreter) pushFrame(displayName string, span Span) {
	in.frames = append(in.frames, FrameInfo{DisplayName: displayName, Span: span})
}

func (in *Interpreter) popFrame() {
	in.frames = in.frames[:len(in.frames)-1]
}

func (in *Interpreter) snapshotFrames() []FrameInfo {
	cp := make([]FrameInfo, len(in.frames))
	copy(cp, in.frames)
	return cp
}

// wrapRuntimeErr attaches the current call stack to a *RuntimeError that
// was raised without one (e.g. from applyBinary/applyUnary in value.go,
// which have no access to the interpreter's frame vector).
func (in *Interpreter) wrapRuntimeErr(err error) Outcome {
	if re, ok := err.(*RuntimeError); ok {
		return ErrorOutcome(re.WithFrames(in.snapshotFrames()))
	}
	return ErrorOutcome(err)
}

// Eval dispatches on the AST node's dynamic type with a Go type switch,
// replacing the original's visit_<NodeName> dynamic dispatch by method
// name.
func (in *Interpreter) Eval(node Node, ctx *Context) Outcome {
	switch n := node.(type) {
	case *NumberLit:
		return ValueOutcome(n.Value.WithPos(n.Span_, ctx))
	case *StringLit:
		return ValueOutcome(StringValue(n.Value).WithPos(n.Span_, ctx))
	case *ListLit:
		return in.evalListLit(n, ctx)
	case *VarRead:
		return in.evalVarRead(n, ctx)
	case *VarAssign:
		return in.evalVarAssign(n, ctx)
	case *BinaryOp:
		return in.evalBinaryOp(n, ctx)
	case *UnaryOp:
		return in.evalUnaryOp(n, ctx)
	case *IfExpr:
		return in.evalIfExpr(n, ctx)
	case *ForExpr:
		return in.evalForExpr(n, ctx)
	case *WhileExpr:
		return in.evalWhileExpr(n, ctx)
	case *FuncDef:
		return in.evalFuncDef(n, ctx)
	case *Call:
		return in.evalCall(n, ctx)
	case *ReturnStmt:
		return in.evalReturn(n, ctx)
	case *ContinueStmt:
		return ContinueOutcome()
	case *BreakStmt:
		return BreakOutcome()
	case *Block:
		return in.evalBlock(n, ctx)
	default:
		return ErrorOutcome(errors.Errorf("unhandled node type %T", node))
	}
}

func (in *Interpreter) evalBlock(n *Block, ctx *Context) Outcome {
	var last Value
	for _, stmt := range n.Statements {
		o := in.Eval(stmt, ctx)
		if o.ShouldUnwind() {
			return o
		}
		last = o.Value()
	}
	return ValueOutcome(last)
}

func (in *Interpreter) evalListLit(n *ListLit, ctx *Context) Outcome {
	elems := make([]Value, len(n.Elements))
	for i, e := range n.Elements {
		o := in.Eval(e, ctx)
		if o.ShouldUnwind() {
			return o
		}
		elems[i] = o.Value()
	}
	return ValueOutcome(ListValue(NewList(elems)).WithPos(n.Span_, ctx))
}

func (in *Interpreter) evalVarRead(n *VarRead, ctx *Context) Outcome {
	v, ok := ctx.Symbols.Get(n.Name)
	if !ok {
		return in.wrapRuntimeErr(NewRuntimeError(n.Span_, nil, errors.Errorf("'%s' is not defined", n.Name)))
	}
	return ValueOutcome(v.WithPos(n.Span_, ctx))
}

func (in *Interpreter) evalVarAssign(n *VarAssign, ctx *Context) Outcome {
	o := in.Eval(n.Value, ctx)
	if o.ShouldUnwind() {
		return o
	}
	v := o.Value()
	ctx.Symbols.Set(n.Name, v)
	return ValueOutcome(v)
}

func (in *Interpreter) evalBinaryOp(n *BinaryOp, ctx *Context) Outcome {
	lo := in.Eval(n.Left, ctx)
	if lo.ShouldUnwind() {
		return lo
	}
	ro := in.Eval(n.Right, ctx)
	if ro.ShouldUnwind() {
		return ro
	}
	v, err := applyBinary(lo.Value(), n.Op, n.OpKeyword, ro.Value(), n.Span_)
	if err != nil {
		return in.wrapRuntimeErr(err)
	}
	return ValueOutcome(v.WithPos(n.Span_, ctx))
}

func (in *Interpreter) evalUnaryOp(n *UnaryOp, ctx *Context) Outcome {
	oo := in.Eval(n.Operand, ctx)
	if oo.ShouldUnwind() {
		return oo
	}
	v, err := applyUnary(n.Op, n.OpKeyword, oo.Value(), n.Span_)
	if err != nil {
		return in.wrapRuntimeErr(err)
	}
	return ValueOutcome(v.WithPos(n.Span_, ctx))
}

func (in *Interpreter) evalIfExpr(n *IfExpr, ctx *Context) Outcome {
	for _, c := range n.Cases {
		co := in.Eval(c.Cond, ctx)
		if co.ShouldUnwind() {
			return co
		}
		if co.Value().IsTrue() {
			bo := in.Eval(c.Body, ctx)
			if bo.ShouldUnwind() {
				return bo
			}
			if c.ReturnsNull {
				return ValueOutcome(Null)
			}
			return ValueOutcome(bo.Value())
		}
	}
	if n.ElseCase != nil {
		bo := in.Eval(n.ElseCase.Body, ctx)
		if bo.ShouldUnwind() {
			return bo
		}
		if n.ElseCase.ReturnsNull {
			return ValueOutcome(Null)
		}
		return ValueOutcome(bo.Value())
	}
	return ValueOutcome(Null)
}

func (in *Interpreter) evalForExpr(n *ForExpr, ctx *Context) Outcome {
	so := in.Eval(n.StartVal, ctx)
	if so.ShouldUnwind() {
		return so
	}
	eo := in.Eval(n.EndVal, ctx)
	if eo.ShouldUnwind() {
		return eo
	}
	step := IntNumber(1)
	if n.Step != nil {
		sto := in.Eval(n.Step, ctx)
		if sto.ShouldUnwind() {
			return sto
		}
		step = sto.Value().Number()
	}

	start := so.Value().Number()
	endN := eo.Value().Number()

	var collected []Value
	i := start
	cond := func() bool {
		if step.AsFloat() >= 0 {
			return i.AsFloat() < endN.AsFloat()
		}
		return i.AsFloat() > endN.AsFloat()
	}
	for cond() {
		ctx.Symbols.Set(n.VarName, NumberValue(i))
		bo := in.Eval(n.Body, ctx)
		if bo.IsError() || bo.IsReturn() {
			return bo
		}
		if bo.IsBreak() {
			break
		}
		if !bo.IsContinue() && !n.ReturnsNull {
			collected = append(collected, bo.Value())
		}
		i = numericBinary(TokPlus, i, step)
	}
	if n.ReturnsNull {
		return ValueOutcome(Null)
	}
	return ValueOutcome(ListValue(NewList(collected)).WithPos(n.Span_, ctx))
}

func (in *Interpreter) evalWhileExpr(n *WhileExpr, ctx *Context) Outcome {
	var collected []Value
	for {
		co := in.Eval(n.Cond, ctx)
		if co.ShouldUnwind() {
			return co
		}
		if !co.Value().IsTrue() {
			break
		}
		bo := in.Eval(n.Body, ctx)
		if bo.IsError() || bo.IsReturn() {
			return bo
		}
		if bo.IsBreak() {
			break
		}
		if !bo.IsContinue() && !n.ReturnsNull {
			collected = append(collected, bo.Value())
		}
	}
	if n.ReturnsNull {
		return ValueOutcome(Null)
	}
	return ValueOutcome(ListValue(NewList(collected)).WithPos(n.Span_, ctx))
}

func (in *Interpreter) evalFuncDef(n *FuncDef, ctx *Context) Outcome {
	fn := &Function{
		Name:             n.Name,
		ArgNames:         n.ArgNames,
		Body:             n.Body,
		ShouldAutoReturn: !n.ReturnsNull,
		Captured:         ctx.Symbols,
	}
	v := FunctionValue(fn).WithPos(n.Span_, ctx)
	if n.Name != "" {
		ctx.Symbols.Set(n.Name, v)
	}
	return ValueOutcome(v)
}

func (in *Interpreter) evalCall(n *Call, ctx *Context) Outcome {
	co := in.Eval(n.Callee, ctx)
	if co.ShouldUnwind() {
		return co
	}
	callee := co.Value()
	if !callee.IsCallable() {
		return in.wrapRuntimeErr(NewRuntimeError(n.Span_, nil, errors.New("value is not callable")))
	}

	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		ao := in.Eval(a, ctx)
		if ao.ShouldUnwind() {
			return ao
		}
		args[i] = ao.Value()
	}

	if callee.Kind == KindBuiltin {
		return in.callBuiltin(callee.Builtin(), args, ctx, n.Span_)
	}
	return in.callFunction(callee.Function(), args, n.Span_)
}

func (in *Interpreter) bindArgs(argNames []string, args []Value, span Span) (map[string]Value, error) {
	if len(args) > len(argNames) {
		return nil, NewRuntimeError(span, nil, errors.Errorf("too many arguments passed (expected %d, got %d)", len(argNames), len(args)))
	}
	if len(args) < len(argNames) {
		return nil, NewRuntimeError(span, nil, errors.Errorf("too few arguments passed (expected %d, got %d)", len(argNames), len(args)))
	}
	bound := make(map[string]Value, len(argNames))
	for i, name := range argNames {
		bound[name] = args[i]
	}
	return bound, nil
}

func (in *Interpreter) callFunction(fn *Function, args []Value, callSpan Span) Outcome {
	bound, err := in.bindArgs(fn.ArgNames, args, callSpan)
	if err != nil {
		return in.wrapRuntimeErr(err)
	}

	callSymbols := NewSymbolTable(fn.Captured)
	for name, v := range bound {
		callSymbols.Set(name, v)
	}
	callCtx := NewContext(fn.displayName(), callSpan, callSymbols)

	in.pushFrame(fn.displayName(), callSpan)
	defer in.popFrame()

	logger.Debugf("call %s", fn.displayName())
	bo := in.Eval(fn.Body, callCtx)
	if bo.IsError() {
		return bo
	}
	if fn.ShouldAutoReturn {
		logger.Debugf("return from %s: %s", fn.displayName(), bo.Value().String())
		return ValueOutcome(bo.Value())
	}
	if bo.IsReturn() {
		logger.Debugf("return from %s: %s", fn.displayName(), bo.Value().String())
		return ValueOutcome(bo.Value())
	}
	logger.Debugf("return from %s: null", fn.displayName())
	return ValueOutcome(Null)
}

func (in *Interpreter) callBuiltin(b *Builtin, args []Value, ctx *Context, callSpan Span) Outcome {
	bound, err := in.bindArgs(b.ArgNames, args, callSpan)
	if err != nil {
		return in.wrapRuntimeErr(err)
	}

	in.pushFrame("<built-in function "+b.Name+">", callSpan)
	defer in.popFrame()

	logger.Debugf("call <built-in function %s>", b.Name)
	o := b.Fn(in, ctx, bound, callSpan)
	if o.IsError() {
		return in.wrapRuntimeErr(o.Err())
	}
	logger.Debugf("return from <built-in function %s>: %s", b.Name, o.Value().String())
	return o
}

func (in *Interpreter) evalReturn(n *ReturnStmt, ctx *Context) Outcome {
	if n.Value == nil {
		return ReturnOutcome(Null)
	}
	o := in.Eval(n.Value, ctx)
	if o.ShouldUnwind() {
		return o
	}
	return ReturnOutcome(o.Value())
}
