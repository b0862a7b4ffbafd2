package molt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinLenIsNumIsStrIsListIsFunction(t *testing.T) {
	_, out := evalSource(t, `print(len([1, 2, 3]))
print(is_num(1))
print(is_str("x"))
print(is_list([]))
print(is_function(print))`)
	assert.Equal(t, "3\n1\n1\n1\n1\n", out.String())
}

func TestBuiltinPopInsertReplaceIndex(t *testing.T) {
	_, out := evalSource(t, `var a = [1, 2, 3]
pop(a, 1)
print(a)
insert(a, 1, 99)
print(a)
replace_index(a, 0, 7)
print(a)`)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{"[1, 3]", "[1, 99, 3]", "[7, 99, 3]"}, lines)
}

func TestBuiltinExtend(t *testing.T) {
	_, out := evalSource(t, `var a = [1]
var b = [2, 3]
extend(a, b)
print(a)`)
	assert.Equal(t, "[1, 2, 3]\n", out.String())
}

func TestBuiltinPrintRetReturnsStringWithoutPrinting(t *testing.T) {
	v, out := evalSource(t, `print_ret(42)`)
	assert.Equal(t, "", out.String())
	assert.Equal(t, KindString, v.Kind)
	assert.Equal(t, "42", v.Text())
}

func TestBuiltinClsIsAliasOfClear(t *testing.T) {
	globals := NewGlobalEnv()
	clsVal, ok := globals.Get("cls")
	require.True(t, ok)
	clearVal, ok := globals.Get("clear")
	require.True(t, ok)
	assert.Same(t, clearVal.Builtin(), clsVal.Builtin())
}

func TestBuiltinPopOutOfRangeIsRuntimeError(t *testing.T) {
	globals := NewGlobalEnv()
	in := NewInterpreter()
	var out bytes.Buffer
	in.Stdout = &out
	_, err := in.runSource("<test>", "var a = [1]\npop(a, 5)", globals)
	require.Error(t, err)
}

func TestBuiltinFunctionDisplayFormatting(t *testing.T) {
	_, out := evalSource(t, `def f() -> 1
print(f)
print(print)`)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, "<function f>", lines[0])
	assert.Equal(t, "<built-in function print>", lines[1])
}
