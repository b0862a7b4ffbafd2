package molt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindsOf(tokens []Token) []TokenKind {
	kinds := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		kinds[i] = t.Kind
	}
	return kinds
}

func TestTokenizeArithmetic(t *testing.T) {
	tokens, err := Tokenize("<test>", "2 + 3 * 4")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokInt, TokPlus, TokInt, TokMul, TokInt, TokEof}, kindsOf(tokens))
}

func TestTokenizeNumberForms(t *testing.T) {
	tokens, err := Tokenize("<test>", "3 3.5 9.")
	require.NoError(t, err)
	require.Len(t, tokens, 4) // 3 numbers + Eof
	assert.Equal(t, TokInt, tokens[0].Kind)
	assert.Equal(t, IntNumber(3), tokens[0].Value)
	assert.Equal(t, TokFloat, tokens[1].Kind)
	assert.Equal(t, TokFloat, tokens[2].Kind)
}

func TestTokenizeKeywordsVsIdentifiers(t *testing.T) {
	tokens, err := Tokenize("<test>", "if x then")
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	assert.True(t, tokens[0].Is(TokKeyword, "if"))
	assert.Equal(t, TokIdentifier, tokens[1].Kind)
	assert.True(t, tokens[2].Is(TokKeyword, "then"))
}

func TestTokenizeIdentifierWithUnderscoreContinuation(t *testing.T) {
	tokens, err := Tokenize("<test>", "my_var_1")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TokIdentifier, tokens[0].Kind)
	assert.Equal(t, "my_var_1", tokens[0].Value)
}

func TestTokenizeLeadingUnderscoreIsNotAnIdentifierStart(t *testing.T) {
	_, err := Tokenize("<test>", "_foo")
	require.Error(t, err)
}

func TestTokenizeStringEscapes(t *testing.T) {
	tokens, err := Tokenize("<test>", `"a\nb\tc\\d"`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\tc\\d", tokens[0].Value)
}

func TestTokenizeUnterminatedStringIsAnError(t *testing.T) {
	_, err := Tokenize("<test>", `"unterminated`)
	require.Error(t, err)
	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
}

func TestTokenizeBangRequiresEquals(t *testing.T) {
	_, err := Tokenize("<test>", "!x")
	require.Error(t, err)
}

func TestTokenizeIllegalChar(t *testing.T) {
	_, err := Tokenize("<test>", "@")
	require.Error(t, err)
}

func TestTokenizeComment(t *testing.T) {
	tokens, err := Tokenize("<test>", "1 # a comment\n2")
	require.NoError(t, err)
	assert.Equal(t, []TokenKind{TokInt, TokNewline, TokInt, TokEof}, kindsOf(tokens))
}

func TestTokenizeArrowVsMinus(t *testing.T) {
	tokens, err := Tokenize("<test>", "a -> b - c")
	require.NoError(t, err)
	assert.Equal(t, TokArrow, tokens[1].Kind)
	assert.Equal(t, TokMinus, tokens[3].Kind)
}

func TestTokenizeDoubledComparisons(t *testing.T) {
	tokens, err := Tokenize("<test>", "a == b != c <= d >= e < f > g")
	require.NoError(t, err)
	kinds := kindsOf(tokens)
	assert.Contains(t, kinds, TokEqEq)
	assert.Contains(t, kinds, TokNotEq)
	assert.Contains(t, kinds, TokLte)
	assert.Contains(t, kinds, TokGte)
	assert.Contains(t, kinds, TokLt)
	assert.Contains(t, kinds, TokGt)
}
