package molt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/kylelemons/godebug/pretty"
)

func TestTokenSpansMatchExpectedStructure(t *testing.T) {
	tokens, err := Tokenize("<test>", "12")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	want := []Token{
		{Kind: TokInt, Value: IntNumber(12)},
		{Kind: TokEof},
	}

	// Spans carry the full source text and are exercised elsewhere;
	// here we only care about kind/value, so ignore them in the diff.
	if diff := cmp.Diff(want, tokens, cmpopts.IgnoreFields(Token{}, "Span")); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}

func TestPrettyDiffOnParserMismatch(t *testing.T) {
	block := parse(t, "1 + 2")
	bin, ok := block.Statements[0].(*BinaryOp)
	if !ok {
		t.Fatalf("expected *BinaryOp, got %T\n%s", block.Statements[0], pretty.Sprint(block))
	}
	if bin.Op != TokPlus {
		t.Errorf("unexpected operator node:\n%s", pretty.Sprint(bin))
	}
}
