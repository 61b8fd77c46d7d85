package calc

import (
	"io"
	"strings"
)

// Expression     = Addition
// Addition       = Multiplication { ('+' | '-') Multiplication }
// Multiplication = Exponentiation { ('*' | '/') Exponentiation }
// Exponentiation = Factorial [ '^' Exponentiation ]
// Factorial      = Basic [ '!' ]
// Basic          = int | float | const | func Basic | '(' Expression ')' | '-' Factorial

// Expr is a parsed expression.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// parser holds the state of a single parse.
type parser struct {
	scan *lexer
	// tok is the current token, the only lookahead the grammar uses.
	tok lexToken
	// prev is the kind of the token before tok.
	prev tokenKind
}

// advance discards the current token and scans the next one.
func (p *parser) advance() error {
	tok, err := p.scan.next()
	if err != nil {
		return err
	}
	p.prev = p.tok.kind
	p.tok = tok
	return nil
}

// error creates an error of the given kind at the current token.
func (p *parser) error(kind error) error {
	return &Error{Kind: kind, Col: p.tok.pos, Text: p.tok.text}
}

// unexpected creates an error for a token that cannot follow a complete
// subexpression. Tokens that are invalid anywhere get their own errors;
// otherwise the error kind is want.
func (p *parser) unexpected(want error) error {
	switch p.tok.kind {
	case tokenIllegal:
		return p.error(ErrIllegalCharacter)
	case tokenRange:
		return p.error(ErrNumberRange)
	case tokenBang:
		// Only one ! may follow a term.
		return p.error(ErrChainedOperators)
	default:
		return p.error(want)
	}
}

// Parse parses an expression. The entire input must be a single expression.
func Parse(src io.RuneScanner) (*Expr, error) {
	p := parser{scan: lex(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokenEOF {
		return nil, p.unexpected(ErrUnexpectedToken)
	}
	return &Expr{n: n}, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

func (p *parser) expression() (*node, error) {
	return p.addition()
}

func (p *parser) addition() (*node, error) {
	n, err := p.multiplication()
	if err != nil {
		return nil, err
	}
	for {
		var k nodeKind
		switch p.tok.kind {
		case tokenPlus:
			k = nodeAdd
		case tokenMinus:
			k = nodeSub
		default:
			return n, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.multiplication()
		if err != nil {
			return nil, err
		}
		n = &node{kind: k, left: n, right: rhs}
	}
}

func (p *parser) multiplication() (*node, error) {
	n, err := p.exponentiation()
	if err != nil {
		return nil, err
	}
	for {
		var k nodeKind
		switch p.tok.kind {
		case tokenStar:
			k = nodeMul
		case tokenSlash:
			k = nodeDiv
		default:
			return n, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.exponentiation()
		if err != nil {
			return nil, err
		}
		n = &node{kind: k, left: n, right: rhs}
	}
}

// exponentiation recurses on its right operand so that ^ is
// right-associative: 2^3^2 is 2^(3^2).
func (p *parser) exponentiation() (*node, error) {
	n, err := p.factorial()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokenCaret {
		return n, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	rhs, err := p.exponentiation()
	if err != nil {
		return nil, err
	}
	return &node{kind: nodePow, left: n, right: rhs}, nil
}

func (p *parser) factorial() (*node, error) {
	n, err := p.basic()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokenBang {
		return n, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &node{kind: nodeFact, left: n}, nil
}

// basic parses a term: a literal, a constant, a function application, a
// parenthesized expression, or a negation.
func (p *parser) basic() (*node, error) {
	var n *node
	switch tok := p.tok; tok.kind {
	case tokenInt:
		n = &node{kind: nodeInt, n: tok.n}
	case tokenFloat:
		n = &node{kind: nodeFloat, f: tok.f}
	case tokenConst:
		n = &node{kind: nodeConst, c: tok.c}
	case tokenFunc:
		// sin x and sin(x) are both applications.
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.basic()
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeFunc, fn: tok.fn, left: arg}, nil
	case tokenOpen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokenClose {
			return nil, p.unexpected(ErrExpectedClosingParenthesis)
		}
		n = inner
	case tokenMinus:
		// Unary minus binds tighter than any binary operator but looser
		// than !, so -3! is -(3!) and -2^2 is (-2)^2.
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.factorial()
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeNeg, left: arg}, nil
	case tokenIllegal:
		return nil, p.error(ErrIllegalCharacter)
	case tokenRange:
		return nil, p.error(ErrNumberRange)
	case tokenEOF, tokenClose:
		return nil, p.error(ErrExpectedExpression)
	case tokenPlus, tokenStar, tokenSlash, tokenCaret, tokenBang:
		if p.prev.binary() || p.prev == tokenMinus {
			return nil, p.error(ErrChainedOperators)
		}
		return nil, p.error(ErrExpectedExpression)
	default:
		panic("calc: unknown token: " + tok.String())
	}
	// Consume the leaf or the close parenthesis.
	if err := p.advance(); err != nil {
		return nil, err
	}
	return n, nil
}

// String creates the fully parenthesized form of the parsed expression.
func (e *Expr) String() string {
	return e.n.String()
}

// Depth returns the height of the expression's tree.
func (e *Expr) Depth() int {
	return e.n.depth()
}
