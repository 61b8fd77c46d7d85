package calc

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	kind tokenKind
	text string
	// n is the value of an integer token.
	n uint64
	// f is the value of a float token.
	f float64
	// c and fn are the table entries of constant and function tokens.
	c   constant
	fn  function
	pos int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenIllegal is a rune or identifier that has no meaning.
	tokenIllegal
	// tokenRange is an integer literal too large to represent.
	tokenRange
	tokenInt
	tokenFloat
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenBang
	tokenCaret
	tokenOpen
	tokenClose
	// tokenConst is a name from the constant table.
	tokenConst
	// tokenFunc is a name from the function table.
	tokenFunc
)

var tokenNames = [...]string{
	tokenNone:    "None",
	tokenEOF:     "EOF",
	tokenIllegal: "Illegal",
	tokenRange:   "Range",
	tokenInt:     "Int",
	tokenFloat:   "Float",
	tokenPlus:    "Plus",
	tokenMinus:   "Minus",
	tokenStar:    "Star",
	tokenSlash:   "Slash",
	tokenBang:    "Bang",
	tokenCaret:   "Caret",
	tokenOpen:    "Open",
	tokenClose:   "Close",
	tokenConst:   "Const",
	tokenFunc:    "Func",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// binary reports whether the token is an operator that needs a left operand.
func (k tokenKind) binary() bool {
	switch k {
	case tokenPlus, tokenStar, tokenSlash, tokenCaret, tokenBang:
		return true
	}
	return false
}

// Operators contains the runes which are single-character tokens.
const Operators = "+-*/!^()"

var opkinds = [...]tokenKind{
	tokenPlus, tokenMinus, tokenStar, tokenSlash, tokenBang, tokenCaret, tokenOpen, tokenClose,
}

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// rune is the 1-based column of the next rune to read.
	rune int
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// peek returns the next rune without consuming it. At the end of the input,
// the result is -1.
func (l *lexer) peek() rune {
	r, err := l.readRune()
	if err != nil {
		return -1
	}
	l.unreadRune()
	return r
}

// next scans the next token from the input. Once the input is exhausted,
// every call returns an EOF token. Invalid input is reported through
// tokenIllegal and tokenRange; the error result is only for failures of the
// underlying reader.
func (l *lexer) next() (lexToken, error) {
	if l.eof {
		return lexToken{kind: tokenEOF, pos: l.rune}, nil
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			tok.pos++
			continue
		case '0' <= r && r <= '9':
			l.unreadRune()
			if err := l.scanNum(&tok); err != nil {
				return tok, err
			}
			return tok, nil
		case r == '.':
			if p := l.peek(); p < '0' || p > '9' {
				tok.kind = tokenIllegal
				tok.text = "."
				return tok, nil
			}
			l.buf.WriteByte('.')
			if err := l.scanDigits(); err != nil {
				return tok, err
			}
			l.float(&tok)
			return tok, nil
		case unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			if c, ok := constants[tok.text]; ok {
				tok.kind = tokenConst
				tok.c = c
				return tok, nil
			}
			if fn, ok := functions[tok.text]; ok {
				tok.kind = tokenFunc
				tok.fn = fn
				return tok, nil
			}
			tok.kind = tokenIllegal
			return tok, nil
		default:
			tok.text = string(r)
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.kind = opkinds[k]
				return tok, nil
			}
			tok.kind = tokenIllegal
			return tok, nil
		}
	}
}

// scanNum scans an integer or a float with digits on both sides of the point.
func (l *lexer) scanNum(tok *lexToken) error {
	var v uint64
	over := false
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r < '0' || r > '9' {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		d := uint64(r - '0')
		if v > (math.MaxUint64-d)/10 {
			over = true
		}
		v = v*10 + d
	}
	if l.peek() == '.' {
		l.readRune()
		l.buf.WriteByte('.')
		if p := l.peek(); p < '0' || p > '9' {
			// A point must be followed by a digit.
			tok.kind = tokenIllegal
			tok.text = l.buf.String()
			return nil
		}
		if err := l.scanDigits(); err != nil {
			return err
		}
		l.float(tok)
		return nil
	}
	tok.text = l.buf.String()
	if over {
		tok.kind = tokenRange
		return nil
	}
	tok.kind = tokenInt
	tok.n = v
	return nil
}

// scanDigits appends a run of decimal digits to the buffer.
func (l *lexer) scanDigits() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if r < '0' || r > '9' {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

// float finishes a float token from the buffered text.
func (l *lexer) float(tok *lexToken) {
	tok.text = l.buf.String()
	f, err := strconv.ParseFloat(tok.text, 64)
	if err != nil {
		// The text is always digits and one point, so the only possible
		// error is range, for which f is already ±Inf.
		var ne *strconv.NumError
		if !errors.As(err, &ne) || !errors.Is(ne.Err, strconv.ErrRange) {
			panic("calc: invalid float literal " + strconv.Quote(tok.text))
		}
	}
	tok.kind = tokenFloat
	tok.f = f
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		if !unicode.IsLetter(r) {
			l.unreadRune()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

// Token is a lexical unit of an expression, exported for inspection.
type Token struct {
	// Kind names the token class, e.g. "Int", "Plus", or "Illegal".
	Kind string
	// Text is the source text of the token. It is empty for EOF.
	Text string
	// Col is the 1-based column of the first rune of the token.
	Col int
}

// Tokens scans src and returns its tokens up to and including EOF.
func Tokens(src string) ([]Token, error) {
	l := lex(strings.NewReader(src))
	var r []Token
	for {
		tok, err := l.next()
		if err != nil {
			return r, err
		}
		r = append(r, Token{Kind: tok.kind.String(), Text: tok.text, Col: tok.pos})
		if tok.kind == tokenEOF {
			return r, nil
		}
	}
}
