package lambda

import (
	"unicode"
)

// Parse parses s into an expression. The entire input, ignoring surrounding
// whitespace, must form exactly one expression.
//
// On failure the returned error is a [*ParseError] describing the first
// syntax error and its 0-based position in s.
func Parse(s string) (Expr, error) {
	p := &parser{
		input:  []rune(s),
		source: s,
	}

	return p.parse()
}

// MustParse is like [Parse] but panics if s cannot be parsed. It simplifies
// the construction of known-good expressions in tests and examples.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return e
}

// parser holds the parser state.
type parser struct {
	input  []rune
	pos    int
	source string
}

func (p *parser) parse() (Expr, error) {
	p.skipWhitespace()

	e, err := p.parseLambda()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()

	if !p.eof() {
		return nil, p.unexpected()
	}

	return e, nil
}

// parseLambda parses: ('\' | 'λ') Name '.' Lambda | Application.
func (p *parser) parseLambda() (Expr, error) {
	p.skipWhitespace()

	if !isLambda(p.peek()) {
		return p.parseApplication()
	}

	p.advance()
	p.skipWhitespace()

	param, err := p.parseName()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()

	if !p.expect('.') {
		return nil, p.errorf("expected '.' after lambda parameter")
	}

	body, err := p.parseLambda()
	if err != nil {
		return nil, err
	}

	return Abs{Param: param, Body: body}, nil
}

// parseApplication parses: Atom Atom*.
// The sequence ends at ')', '.', or end of input; anything else must begin
// an atom.
func (p *parser) parseApplication() (Expr, error) {
	p.skipWhitespace()

	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		p.skipWhitespace()

		if p.eof() || p.peek() == ')' || p.peek() == '.' {
			return e, nil
		}

		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}

		e = App{Fun: e, Arg: arg}
	}
}

// parseAtom parses: '(' Expr ')' | Name.
func (p *parser) parseAtom() (Expr, error) {
	p.skipWhitespace()

	switch ch := p.peek(); {
	case ch == '(':
		p.advance()

		e, err := p.parseLambda()
		if err != nil {
			return nil, err
		}

		p.skipWhitespace()

		if !p.expect(')') {
			return nil, p.errorf("expected ')'")
		}

		return e, nil

	case isNameStart(ch):
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}

		return Var{Name: name}, nil

	default:
		return nil, p.unexpected()
	}
}

// parseName parses an identifier token.
func (p *parser) parseName() (string, error) {
	if !isNameStart(p.peek()) {
		return "", p.errorf("expected variable name")
	}

	start := p.pos

	for !p.eof() && isNameContinue(p.peek()) {
		p.advance()
	}

	return string(p.input[start:p.pos]), nil
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	return p.input[p.pos]
}

func (p *parser) advance() {
	if !p.eof() {
		p.pos++
	}
}

func (p *parser) expect(ch rune) bool {
	if p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) errorf(msg string) *ParseError {
	return &ParseError{
		Msg:    msg,
		Pos:    p.pos,
		Char:   p.peek(),
		Source: p.source,
	}
}

func (p *parser) unexpected() *ParseError {
	if p.eof() {
		return p.errorf("unexpected end of input")
	}

	return p.errorf("unexpected character '" + string(p.peek()) + "'")
}

// Character classification

func isLambda(r rune) bool {
	return r == '\\' || r == 'λ'
}

// 'λ' is a letter but always introduces an abstraction, never a name.
func isNameStart(r rune) bool {
	return (unicode.IsLetter(r) && r != 'λ') || r == '_'
}

func isNameContinue(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}
