// Package formula evaluates salary formulas such as "Basic * 0.4 + DA".
//
// The grammar is pure arithmetic over decimal numbers and a fixed set of
// named variables:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = [ "+" | "-" ] unary | primary
//	primary = number | variable | "(" expr ")"
//
// There is no assignment, no function call, no member access and no loop, so
// an expression can only ever produce a number or an error.
package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxLength = 512
	maxDepth  = 32
)

var (
	ErrEmpty            = errors.New("formula is empty")
	ErrTooLong          = errors.New("formula is too long")
	ErrTooDeep          = errors.New("formula is nested too deeply")
	ErrSyntax           = errors.New("formula syntax error")
	ErrUnknownVariable  = errors.New("unknown formula variable")
	ErrDivisionByZero   = errors.New("division by zero in formula")
	ErrUnexpectedSymbol = errors.New("unexpected symbol in formula")
)

// Evaluate parses and evaluates expr. Variable names are matched
// case-insensitively against vars; any identifier that is not a key of vars
// is rejected.
func Evaluate(expr string, vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(expr) == "" {
		return decimal.Zero, ErrEmpty
	}
	if len(expr) > maxLength {
		return decimal.Zero, ErrTooLong
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return decimal.Zero, err
	}

	lookup := make(map[string]decimal.Decimal, len(vars))
	for k, v := range vars {
		lookup[strings.ToLower(k)] = v
	}

	p := &parser{tokens: tokens, vars: lookup}
	result, err := p.parseExpr(0)
	if err != nil {
		return decimal.Zero, err
	}
	if !p.done() {
		return decimal.Zero, fmt.Errorf("%w: unexpected %q at position %d", ErrSyntax, p.peek().text, p.peek().pos)
	}
	return result, nil
}

type parser struct {
	tokens []token
	pos    int
	vars   map[string]decimal.Decimal
}

func (p *parser) done() bool {
	return p.peek().kind == tokenEOF
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr(depth int) (decimal.Decimal, error) {
	if depth > maxDepth {
		return decimal.Zero, ErrTooDeep
	}

	left, err := p.parseTerm(depth)
	if err != nil {
		return decimal.Zero, err
	}

	for {
		t := p.peek()
		if t.kind != tokenOperator || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()

		right, err := p.parseTerm(depth)
		if err != nil {
			return decimal.Zero, err
		}
		if t.text == "+" {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (p *parser) parseTerm(depth int) (decimal.Decimal, error) {
	left, err := p.parseUnary(depth)
	if err != nil {
		return decimal.Zero, err
	}

	for {
		t := p.peek()
		if t.kind != tokenOperator || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()

		right, err := p.parseUnary(depth)
		if err != nil {
			return decimal.Zero, err
		}
		if t.text == "*" {
			left = left.Mul(right)
			continue
		}
		if right.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		left = left.Div(right)
	}
}

func (p *parser) parseUnary(depth int) (decimal.Decimal, error) {
	if depth > maxDepth {
		return decimal.Zero, ErrTooDeep
	}

	t := p.peek()
	if t.kind == tokenOperator && (t.text == "+" || t.text == "-") {
		p.next()
		v, err := p.parseUnary(depth + 1)
		if err != nil {
			return decimal.Zero, err
		}
		if t.text == "-" {
			return v.Neg(), nil
		}
		return v, nil
	}
	return p.parsePrimary(depth)
}

func (p *parser) parsePrimary(depth int) (decimal.Decimal, error) {
	t := p.next()
	switch t.kind {
	case tokenNumber:
		v, err := decimal.NewFromString(t.text)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: invalid number %q", ErrSyntax, t.text)
		}
		return v, nil
	case tokenIdent:
		v, ok := p.vars[strings.ToLower(t.text)]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownVariable, t.text)
		}
		return v, nil
	case tokenLParen:
		v, err := p.parseExpr(depth + 1)
		if err != nil {
			return decimal.Zero, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return decimal.Zero, fmt.Errorf("%w: missing closing parenthesis at position %d", ErrSyntax, closing.pos)
		}
		return v, nil
	case tokenEOF:
		return decimal.Zero, fmt.Errorf("%w: unexpected end of formula", ErrSyntax)
	default:
		return decimal.Zero, fmt.Errorf("%w: unexpected %q at position %d", ErrSyntax, t.text, t.pos)
	}
}
