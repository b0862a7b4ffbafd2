package molt

import (
	"github.com/juju/errors"
)

// Parser is a recursive-descent parser with a single lookahead token.
// idx tracks how many tokens have been consumed. The parser does not
// backtrack: each choice is made from the current token, and the first
// syntax error met ends the parse and is returned as is.
type Parser struct {
	filename string
	tokens   []Token
	idx      int
}

func NewParser(filename string, tokens []Token) *Parser {
	return &Parser{filename: filename, tokens: tokens}
}

// Parse runs the full grammar over the token stream and requires the
// result to be followed immediately by Eof.
func Parse(filename string, tokens []Token) (*Block, error) {
	p := NewParser(filename, tokens)
	block, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if p.current().Kind != TokEof {
		return nil, p.errorf("expected '+', '-', '*', '/' or EOF")
	}
	return block, nil
}

func (p *Parser) current() Token {
	if p.idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.idx]
}

func (p *Parser) peekAt(offset int) Token {
	i := p.idx + offset
	if i < 0 || i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() Token {
	t := p.current()
	if p.idx < len(p.tokens)-1 {
		p.idx++
	}
	return t
}

func (p *Parser) at(kind TokenKind) bool {
	return p.current().Kind == kind
}

func (p *Parser) atKeyword(word string) bool {
	return p.current().Is(TokKeyword, word)
}

func (p *Parser) errorf(format string, args ...any) error {
	return NewSyntaxError(p.current().Span, errors.Errorf(format, args...), p.idx)
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	if !p.at(kind) {
		return Token{}, p.errorf("expected %s", what)
	}
	return p.advance(), nil
}

func (p *Parser) expectKeyword(word string) error {
	if !p.atKeyword(word) {
		return p.errorf("expected '%s'", word)
	}
	p.advance()
	return nil
}

func (p *Parser) skipNewlines() int {
	n := 0
	for p.at(TokNewline) {
		p.advance()
		n++
	}
	return n
}

// parseStatements implements: Newline* statement (Newline+ statement)* Newline*
func (p *Parser) parseStatements() (*Block, error) {
	start := p.current().Span
	p.skipNewlines()

	var stmts []Node
	first, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmts = append(stmts, first)

	for {
		newlines := p.skipNewlines()
		if newlines == 0 {
			break
		}
		if !p.statementStarts() {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	end := p.peekAt(-1).Span
	return &Block{Statements: stmts, Span_: join(start, end)}, nil
}

// statementStarts reports whether the current token can begin a
// statement, used to decide whether parseStatements' loop should keep
// consuming after a run of newlines.
func (p *Parser) statementStarts() bool {
	switch p.current().Kind {
	case TokEof, TokRSquare, TokRParen:
		return false
	}
	if p.atKeyword("end") || p.atKeyword("elif") || p.atKeyword("else") {
		return false
	}
	return true
}

// parseStatement implements: 'return' expr? | 'continue' | 'break' | expr
func (p *Parser) parseStatement() (Node, error) {
	start := p.current().Span

	if p.atKeyword("return") {
		p.advance()
		if !p.statementStarts() || p.at(TokNewline) {
			return &ReturnStmt{Span_: start}, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Value: expr, Span_: join(start, expr.NodeSpan())}, nil
	}
	if p.atKeyword("continue") {
		p.advance()
		return &ContinueStmt{Span_: start}, nil
	}
	if p.atKeyword("break") {
		p.advance()
		return &BreakStmt{Span_: start}, nil
	}
	return p.parseExpr()
}

// parseBlockOrStatement implements the recurring "(Newline statements
// 'end' | statement)" body shape used by if/for/while: a newline selects
// the multi-line block form (returnsNull is true), anything else a single
// statement.
func (p *Parser) parseBlockOrStatement() (body Node, returnsNull bool, err error) {
	if p.at(TokNewline) {
		p.advance()
		p.skipNewlines()
		block, err := p.parseStatements()
		if err != nil {
			return nil, false, err
		}
		if err := p.expectKeyword("end"); err != nil {
			return nil, false, err
		}
		return block, true, nil
	}
	stmt, err := p.parseStatement()
	if err != nil {
		return nil, false, err
	}
	return stmt, false, nil
}

// atom := Int | Float | String | Identifier | '(' expr ')' | list_expr |
//         if_expr | for_expr | while_expr | func_def
func (p *Parser) parseAtom() (Node, error) {
	tok := p.current()

	switch {
	case tok.Kind == TokInt || tok.Kind == TokFloat:
		p.advance()
		return &NumberLit{Value: NumberValue(tok.Value.(Number)), Span_: tok.Span}, nil

	case tok.Kind == TokString:
		p.advance()
		return &StringLit{Value: tok.Value.(string), Span_: tok.Span}, nil

	case tok.Kind == TokIdentifier:
		p.advance()
		name := tok.Value.(string)
		if p.at(TokEq) {
			p.advance()
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			return &VarAssign{Name: name, Value: val, Span_: join(tok.Span, val.NodeSpan())}, nil
		}
		return &VarRead{Name: name, Span_: tok.Span}, nil

	case tok.Kind == TokLParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(TokRParen, "')'")
		if err != nil {
			return nil, err
		}
		return wrapSpan(expr, join(tok.Span, end.Span)), nil

	case tok.Kind == TokLSquare:
		return p.parseListExpr()

	case tok.Is(TokKeyword, "if"):
		return p.parseIfExpr()

	case tok.Is(TokKeyword, "for"):
		return p.parseForExpr()

	case tok.Is(TokKeyword, "while"):
		return p.parseWhileExpr()

	case tok.Is(TokKeyword, "def"):
		return p.parseFuncDef()

	case tok.Is(TokKeyword, "var"):
		p.advance()
		nameTok, err := p.expect(TokIdentifier, "identifier")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokEq, "'='"); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &VarAssign{Name: nameTok.Value.(string), Value: val, Span_: join(tok.Span, val.NodeSpan())}, nil
	}

	return nil, p.errorf("expected int, float, identifier, '+', '-', '(', '[' or a keyword")
}

// wrapSpan returns n with its span widened to cover outer, used for a
// parenthesised expression whose own span should include the parens.
func wrapSpan(n Node, outer Span) Node {
	switch v := n.(type) {
	case *NumberLit:
		v.Span_ = outer
		return v
	case *StringLit:
		v.Span_ = outer
		return v
	case *ListLit:
		v.Span_ = outer
		return v
	case *VarRead:
		v.Span_ = outer
		return v
	case *VarAssign:
		v.Span_ = outer
		return v
	case *BinaryOp:
		v.Span_ = outer
		return v
	case *UnaryOp:
		v.Span_ = outer
		return v
	case *IfExpr:
		v.Span_ = outer
		return v
	case *ForExpr:
		v.Span_ = outer
		return v
	case *WhileExpr:
		v.Span_ = outer
		return v
	case *FuncDef:
		v.Span_ = outer
		return v
	case *Call:
		v.Span_ = outer
		return v
	default:
		return n
	}
}

func (p *Parser) parseListExpr() (Node, error) {
	start := p.current().Span
	p.advance() // '['

	var elems []Node
	if !p.at(TokRSquare) {
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, first)
		for p.at(TokComma) {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
	}
	end, err := p.expect(TokRSquare, "']'")
	if err != nil {
		return nil, err
	}
	return &ListLit{Elements: elems, Span_: join(start, end.Span)}, nil
}

// parseIfExpr implements if_expr with its elif/else chain.
func (p *Parser) parseIfExpr() (Node, error) {
	start := p.current().Span
	p.advance() // 'if'

	// caseBody parses an if/elif body; a multi-line one ends at 'end' or at the 'elif'/'else' that follows.
	caseBody := func() (Node, bool, error) {
		if !p.at(TokNewline) {
			return p.parseBlockOrStatement()
		}
		p.skipNewlines()
		block, err := p.parseStatements()
		if err == nil && !p.atKeyword("elif") && !p.atKeyword("else") {
			err = p.expectKeyword("end")
		}
		if err != nil {
			return nil, false, err
		}
		return block, true, nil
	}

	var cases []IfCase
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	body, returnsNull, err := caseBody()
	if err != nil {
		return nil, err
	}
	cases = append(cases, IfCase{Cond: cond, Body: body, ReturnsNull: returnsNull})

	var elseCase *IfCase
	end := p.peekAt(-1).Span

	for p.atKeyword("elif") {
		p.advance()
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("then"); err != nil {
			return nil, err
		}
		b, rn, err := caseBody()
		if err != nil {
			return nil, err
		}
		cases = append(cases, IfCase{Cond: c, Body: b, ReturnsNull: rn})
		end = p.peekAt(-1).Span
	}

	if p.atKeyword("else") {
		p.advance()
		b, rn, err := p.parseBlockOrStatement()
		if err != nil {
			return nil, err
		}
		elseCase = &IfCase{Body: b, ReturnsNull: rn}
		end = p.peekAt(-1).Span
	}

	// A multi-line if needs a closing 'end'; the body parser of whichever
	// branch was the final one in a multi-line shape already consumed it,
	// so nothing further is required here.
	return &IfExpr{Cases: cases, ElseCase: elseCase, Span_: join(start, end)}, nil
}

// parseForExpr implements: 'for' Identifier 'in' expr 'to' expr
// ('step' expr)? 'then' (Newline statements 'end' | expr)
func (p *Parser) parseForExpr() (Node, error) {
	start := p.current().Span
	p.advance() // 'for'

	nameTok, err := p.expect(TokIdentifier, "identifier")
	if err != nil {
		return nil, err
	}
	name := nameTok.Value.(string)

	if err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	startVal, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("to"); err != nil {
		return nil, err
	}
	endVal, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var step Node
	if p.atKeyword("step") {
		p.advance()
		step, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	var body Node
	rn := false
	if p.at(TokNewline) {
		body, rn, err = p.parseBlockOrStatement()
	} else {
		body, err = p.parseExpr()
	}
	if err != nil {
		return nil, err
	}
	return &ForExpr{VarName: name, StartVal: startVal, EndVal: endVal, Step: step, Body: body, ReturnsNull: rn, Span_: join(start, p.peekAt(-1).Span)}, nil
}

func (p *Parser) parseWhileExpr() (Node, error) {
	start := p.current().Span
	p.advance() // 'while'

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	body, rn, err := p.parseBlockOrStatement()
	if err != nil {
		return nil, err
	}
	return &WhileExpr{Cond: cond, Body: body, ReturnsNull: rn, Span_: join(start, p.peekAt(-1).Span)}, nil
}

func (p *Parser) parseFuncDef() (Node, error) {
	start := p.current().Span
	p.advance() // 'def'

	name := ""
	if p.at(TokIdentifier) {
		name = p.advance().Value.(string)
	}

	if _, err := p.expect(TokLParen, "'('"); err != nil {
		return nil, err
	}
	var argNames []string
	if p.at(TokIdentifier) {
		argNames = append(argNames, p.advance().Value.(string))
		for p.at(TokComma) {
			p.advance()
			tok, err := p.expect(TokIdentifier, "identifier")
			if err != nil {
				return nil, err
			}
			argNames = append(argNames, tok.Value.(string))
		}
	}
	if _, err := p.expect(TokRParen, "')'"); err != nil {
		return nil, err
	}

	if p.at(TokArrow) {
		p.advance()
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &FuncDef{Name: name, ArgNames: argNames, Body: body, ReturnsNull: false, Span_: join(start, body.NodeSpan())}, nil
	}

	if _, err := p.expect(TokNewline, "'->' or newline"); err != nil {
		return nil, err
	}
	p.skipNewlines()
	block, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("end"); err != nil {
		return nil, err
	}
	return &FuncDef{Name: name, ArgNames: argNames, Body: block, ReturnsNull: true, Span_: join(start, p.peekAt(-1).Span)}, nil
}

// parseCall implements: call := atom ('(' (expr (',' expr)*)? ')')?
func (p *Parser) parseCall() (Node, error) {
	callee, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.at(TokLParen) {
		p.advance()
		var args []Node
		if !p.at(TokRParen) {
			first, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, first)
			for p.at(TokComma) {
				p.advance()
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
			}
		}
		end, err := p.expect(TokRParen, "')'")
		if err != nil {
			return nil, err
		}
		callee = &Call{Callee: callee, Args: args, Span_: join(callee.NodeSpan(), end.Span)}
	}
	return callee, nil
}
