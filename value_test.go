package molt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberArithmeticPreservesIntWhenPossible(t *testing.T) {
	v, err := applyBinary(NumberValue(IntNumber(2)), TokPlus, "", NumberValue(IntNumber(3)), Span{})
	require.NoError(t, err)
	assert.False(t, v.Number().IsFloat)
	assert.Equal(t, int64(5), v.Number().I)
}

func TestPowerOfNonNegativeIntsStaysInt(t *testing.T) {
	v, err := applyBinary(NumberValue(IntNumber(2)), TokPower, "", NumberValue(IntNumber(10)), Span{})
	require.NoError(t, err)
	assert.False(t, v.Number().IsFloat)
	assert.Equal(t, int64(1024), v.Number().I)
}

func TestPowerOfNegativeExponentUsesMathPow(t *testing.T) {
	v, err := applyBinary(NumberValue(IntNumber(2)), TokPower, "", NumberValue(IntNumber(-1)), Span{})
	require.NoError(t, err)
	assert.True(t, v.Number().IsFloat)
	assert.InDelta(t, 0.5, v.Number().F, 1e-9)
}

func TestPowerOfFractionalExponentUsesMathPow(t *testing.T) {
	v, err := applyBinary(NumberValue(IntNumber(4)), TokPower, "", NumberValue(FloatNumber(0.5)), Span{})
	require.NoError(t, err)
	assert.True(t, v.Number().IsFloat)
	assert.InDelta(t, 2.0, v.Number().F, 1e-9)

	v, err = applyBinary(NumberValue(IntNumber(2)), TokPower, "", NumberValue(FloatNumber(2.5)), Span{})
	require.NoError(t, err)
	assert.InDelta(t, 5.656854249492381, v.Number().F, 1e-9)
}

func TestDivisionAlwaysYieldsFloat(t *testing.T) {
	v, err := applyBinary(NumberValue(IntNumber(4)), TokDiv, "", NumberValue(IntNumber(2)), Span{})
	require.NoError(t, err)
	assert.True(t, v.Number().IsFloat)
	assert.Equal(t, 2.0, v.Number().F)
}

func TestDivisionByZeroErrors(t *testing.T) {
	_, err := applyBinary(NumberValue(IntNumber(1)), TokDiv, "", NumberValue(IntNumber(0)), Span{})
	require.Error(t, err)
	var rtErr *RuntimeError
	require.ErrorAs(t, err, &rtErr)
}

func TestStringConcat(t *testing.T) {
	v, err := applyBinary(StringValue("foo"), TokPlus, "", StringValue("bar"), Span{})
	require.NoError(t, err)
	assert.Equal(t, "foobar", v.Text())
}

func TestStringRepeat(t *testing.T) {
	v, err := applyBinary(StringValue("ab"), TokMul, "", NumberValue(IntNumber(3)), Span{})
	require.NoError(t, err)
	assert.Equal(t, "ababab", v.Text())
}

func TestListAppendOperatorReturnsNewList(t *testing.T) {
	orig := NewList([]Value{NumberValue(IntNumber(1))})
	v, err := applyBinary(ListValue(orig), TokPlus, "", NumberValue(IntNumber(2)), Span{})
	require.NoError(t, err)
	assert.Len(t, orig.Elements, 1) // original untouched by the '+' operator
	assert.Len(t, v.List().Elements, 2)
}

func TestListIndexOperator(t *testing.T) {
	l := NewList([]Value{NumberValue(IntNumber(10)), NumberValue(IntNumber(20))})
	v, err := applyBinary(ListValue(l), TokDiv, "", NumberValue(IntNumber(1)), Span{})
	require.NoError(t, err)
	assert.Equal(t, int64(20), v.Number().I)
}

func TestListIndexOutOfRangeErrors(t *testing.T) {
	l := NewList([]Value{NumberValue(IntNumber(10))})
	_, err := applyBinary(ListValue(l), TokDiv, "", NumberValue(IntNumber(5)), Span{})
	require.Error(t, err)
}

func TestListCopyIsShallow(t *testing.T) {
	a := NewList([]Value{NumberValue(IntNumber(1)), NumberValue(IntNumber(2))})
	b := a.Copy()
	a.Elements[0] = NumberValue(IntNumber(99))
	// copy() wraps the same backing array, so an in-place element write
	// through one handle is visible through the other.
	assert.Equal(t, int64(99), b.Elements[0].Number().I)
}

func TestIllegalOperationError(t *testing.T) {
	_, err := applyBinary(StringValue("x"), TokMinus, "", StringValue("y"), Span{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal operation")
}

func TestTruthiness(t *testing.T) {
	assert.True(t, NumberValue(IntNumber(1)).IsTrue())
	assert.False(t, NumberValue(IntNumber(0)).IsTrue())
	assert.True(t, StringValue("x").IsTrue())
	assert.False(t, StringValue("").IsTrue())
	assert.False(t, ListValue(NewList(nil)).IsTrue())
	assert.True(t, ListValue(NewList([]Value{Null})).IsTrue())
}

func TestLogicalAndOr(t *testing.T) {
	v, err := applyBinary(NumberValue(IntNumber(1)), TokKeyword, "and", NumberValue(IntNumber(0)), Span{})
	require.NoError(t, err)
	assert.True(t, v.Number().IsZero())

	v, err = applyBinary(NumberValue(IntNumber(0)), TokKeyword, "or", NumberValue(IntNumber(1)), Span{})
	require.NoError(t, err)
	assert.False(t, v.Number().IsZero())
}

func TestUnaryNot(t *testing.T) {
	v, err := applyUnary(TokKeyword, "not", NumberValue(IntNumber(0)), Span{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Number().I)
}

func TestValueStringFormatsListsWithQuotedStrings(t *testing.T) {
	l := NewList([]Value{StringValue("a"), NumberValue(IntNumber(1))})
	s := ListValue(l).String()
	assert.Equal(t, `["a", 1]`, s)
}
