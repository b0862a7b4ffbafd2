package molt

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// NewBuiltins builds the fixed table of host-provided procedures
// pre-bound in the global scope. A new table is built on each call to
// NewGlobalEnv rather than populated via reflection over execute_<name>
// methods.
func NewBuiltins() map[string]*Builtin {
	table := map[string]*Builtin{}
	add := func(name string, argNames []string, fn BuiltinFn) {
		table[name] = &Builtin{Name: name, ArgNames: argNames, Fn: fn}
	}

	add("print", []string{"value"}, biPrint)
	add("print_ret", []string{"value"}, biPrintRet)
	add("input", nil, biInput)
	add("input_int", nil, biInputInt)
	clear := &Builtin{Name: "clear", ArgNames: nil, Fn: biClear}
	table["clear"] = clear
	table["cls"] = clear // cls is a true alias, not a separate built-in
	add("is_num", []string{"value"}, biIsNum)
	add("is_str", []string{"value"}, biIsStr)
	add("is_list", []string{"value"}, biIsList)
	add("is_function", []string{"value"}, biIsFunction)
	add("append", []string{"list", "value"}, biAppend)
	add("pop", []string{"list", "index"}, biPop)
	add("extend", []string{"listA", "listB"}, biExtend)
	add("len", []string{"list"}, biLen)
	add("insert", []string{"list", "index", "value"}, biInsert)
	add("replace_index", []string{"list", "index", "value"}, biReplaceIndex)
	add("run", []string{"filename"}, biRun)

	return table
}

func biPrint(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	fmt.Fprintln(in.Stdout, args["value"].String())
	return ValueOutcome(Null)
}

func biPrintRet(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	return ValueOutcome(StringValue(args["value"].String()))
}

func biInput(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	line, err := in.Stdin.ReadString('\n')
	if err != nil && line == "" {
		return ErrorOutcome(NewRuntimeError(span, nil, errors.Annotate(err, "reading from stdin")))
	}
	return ValueOutcome(StringValue(strings.TrimRight(line, "\r\n")))
}

func biInputInt(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	for {
		line, err := in.Stdin.ReadString('\n')
		if err != nil && line == "" {
			return ErrorOutcome(NewRuntimeError(span, nil, errors.Annotate(err, "reading from stdin")))
		}
		line = strings.TrimSpace(line)
		n, convErr := strconv.ParseInt(line, 10, 64)
		if convErr == nil {
			return ValueOutcome(NumberValue(IntNumber(n)))
		}
		fmt.Fprintln(in.Stdout, "Input must be an integer. Try again!")
	}
}

func biClear(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = os.Stdout
	_ = cmd.Run()
	return ValueOutcome(Null)
}

func biIsNum(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	return ValueOutcome(boolNumber(args["value"].Kind == KindNumber))
}

func biIsStr(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	return ValueOutcome(boolNumber(args["value"].Kind == KindString))
}

func biIsList(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	return ValueOutcome(boolNumber(args["value"].Kind == KindList))
}

func biIsFunction(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	v := args["value"]
	return ValueOutcome(boolNumber(v.Kind == KindFunction || v.Kind == KindBuiltin))
}

func requireList(v Value, span Span, argName string) (*List, error) {
	if v.Kind != KindList {
		return nil, NewRuntimeError(span, nil, errors.Errorf("argument '%s' must be a list", argName))
	}
	return v.List(), nil
}

func requireIndex(v Value, span Span, length int) (int, error) {
	if v.Kind != KindNumber || v.Number().IsFloat {
		return 0, NewRuntimeError(span, nil, errors.New("index must be an integer"))
	}
	idx := int(v.Number().I)
	if idx < 0 || idx >= length {
		return 0, NewRuntimeError(span, nil, errors.New("index out of range"))
	}
	return idx, nil
}

func biAppend(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	l, err := requireList(args["list"], span, "list")
	if err != nil {
		return ErrorOutcome(err)
	}
	l.Elements = append(l.Elements, args["value"])
	return ValueOutcome(Null)
}

func biPop(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	l, err := requireList(args["list"], span, "list")
	if err != nil {
		return ErrorOutcome(err)
	}
	idx, err := requireIndex(args["index"], span, len(l.Elements))
	if err != nil {
		return ErrorOutcome(err)
	}
	removed := l.Elements[idx]
	l.Elements = append(l.Elements[:idx], l.Elements[idx+1:]...)
	return ValueOutcome(removed)
}

func biExtend(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	a, err := requireList(args["listA"], span, "listA")
	if err != nil {
		return ErrorOutcome(err)
	}
	b, err := requireList(args["listB"], span, "listB")
	if err != nil {
		return ErrorOutcome(err)
	}
	a.Elements = append(a.Elements, b.Elements...)
	return ValueOutcome(Null)
}

func biLen(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	l, err := requireList(args["list"], span, "list")
	if err != nil {
		return ErrorOutcome(err)
	}
	return ValueOutcome(NumberValue(IntNumber(int64(len(l.Elements)))))
}

func biInsert(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	l, err := requireList(args["list"], span, "list")
	if err != nil {
		return ErrorOutcome(err)
	}
	idxVal := args["index"]
	if idxVal.Kind != KindNumber || idxVal.Number().IsFloat {
		return ErrorOutcome(NewRuntimeError(span, nil, errors.New("index must be an integer")))
	}
	idx := int(idxVal.Number().I)
	if idx < 0 || idx > len(l.Elements) {
		return ErrorOutcome(NewRuntimeError(span, nil, errors.New("index out of range")))
	}
	l.Elements = append(l.Elements, Value{})
	copy(l.Elements[idx+1:], l.Elements[idx:])
	l.Elements[idx] = args["value"]
	return ValueOutcome(Null)
}

func biReplaceIndex(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	l, err := requireList(args["list"], span, "list")
	if err != nil {
		return ErrorOutcome(err)
	}
	idx, err := requireIndex(args["index"], span, len(l.Elements))
	if err != nil {
		return ErrorOutcome(err)
	}
	l.Elements = append(l.Elements[:idx], l.Elements[idx+1:]...)
	l.Elements = append(l.Elements, Value{})
	copy(l.Elements[idx+1:], l.Elements[idx:])
	l.Elements[idx] = args["value"]
	return ValueOutcome(Null)
}

func biRun(in *Interpreter, ctx *Context, args map[string]Value, span Span) Outcome {
	v := args["filename"]
	if v.Kind != KindString {
		return ErrorOutcome(NewRuntimeError(span, nil, errors.New("argument 'filename' must be a string")))
	}
	content, err := os.ReadFile(v.Text())
	if err != nil {
		return ErrorOutcome(NewRuntimeError(span, nil, errors.Annotatef(err, "failed to load script %q", v.Text())))
	}

	globals := ctx.Symbols.Root()
	logger.Debugf("run: re-entering pipeline for %s against root scope", v.Text())
	_, runErr := in.runSource(v.Text(), string(content), globals)
	if runErr != nil {
		return ErrorOutcome(NewRuntimeError(span, nil, errors.Annotatef(runErr, "failed to finish executing script %q", v.Text())))
	}
	return ValueOutcome(Null)
}
