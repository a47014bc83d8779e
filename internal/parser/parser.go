// Package parser reads the textual syntax of goals, types and trait
// references.
//
// Names are resolved while parsing: a name bound by an enclosing exists,
// forall or clause binder becomes a bound variable, a scalar name becomes a
// scalar and anything else is a nominal type. The parser does not know the
// program, so unknown nominal types are reported later by validation.
package parser

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/ChayimFriedman2/chalk/internal/lexer"
	"github.com/ChayimFriedman2/chalk/internal/token"
	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// ErrSyntax marks input that does not follow the grammar.
var ErrSyntax = errors.New("syntax error")

// Param is a named generic parameter: T for a type, 'a for a lifetime.
type Param struct {
	Name string
	Kind ts.Kind
}

func (p Param) String() string {
	if ts.IsLifetime(p.Kind) {
		return "'" + p.Name
	}
	return p.Name
}

// Kinds returns the kinds of params, in order.
func Kinds(params []Param) []ts.Kind {
	out := make([]ts.Kind, len(params))
	for i, p := range params {
		out[i] = p.Kind
	}
	return out
}

type Parser struct {
	l      *lexer.Lexer
	errors []error

	curToken  token.Token
	peekToken token.Token

	// scope holds the enclosing binders, innermost last.
	scope [][]Param
}

func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the syntax errors found so far.
func (p *Parser) Errors() []error {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.errorAt(p.peekToken, "expected %s, got %s", describe(t), p.peekToken)
}

func (p *Parser) errorAt(tok token.Token, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, errors.Wrapf(ErrSyntax, "%d:%d: %s", tok.Line, tok.Column, msg))
}

// finish checks that the whole input was consumed and returns the first
// error.
func (p *Parser) finish() error {
	if len(p.errors) == 0 && !p.peekTokenIs(token.EOF) {
		p.peekError(token.EOF)
	}
	if len(p.errors) > 0 {
		return p.errors[0]
	}
	return nil
}

func describe(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.LIFETIME:
		return "lifetime"
	case token.EOF:
		return "end of input"
	}
	return fmt.Sprintf("%q", string(t))
}

func (p *Parser) pushBinder(params []Param) {
	p.scope = append(p.scope, params)
}

func (p *Parser) popBinder() {
	p.scope = p.scope[:len(p.scope)-1]
}

// lookup resolves name against the enclosing binders, innermost first.
func (p *Parser) lookup(name string) (ts.BoundVar, ts.Kind, bool) {
	for d := 0; d < len(p.scope); d++ {
		binder := p.scope[len(p.scope)-1-d]
		for i, prm := range binder {
			if prm.Name == name {
				return ts.BoundVar{Debruijn: d, Index: i}, prm.Kind, true
			}
		}
	}
	return ts.BoundVar{}, nil, false
}

// parseParamList parses <T, 'a>. curToken is the opening <; on return it is
// the closing >.
func (p *Parser) parseParamList() ([]Param, bool) {
	params := []Param{}
	if p.peekTokenIs(token.GT) {
		p.nextToken()
		return params, true
	}
	seen := make(map[string]bool)
	for {
		p.nextToken()
		prm, ok := p.parseParam()
		if !ok {
			return nil, false
		}
		if seen[prm.Name] {
			p.errorAt(p.curToken, "parameter %s declared twice", prm)
			return nil, false
		}
		seen[prm.Name] = true
		params = append(params, prm)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.GT) {
			return nil, false
		}
		return params, true
	}
}

func (p *Parser) parseParam() (Param, bool) {
	switch p.curToken.Type {
	case token.IDENT:
		return Param{Name: p.curToken.Literal.(string), Kind: ts.Star}, true
	case token.LIFETIME:
		name := p.curToken.Literal.(string)
		if name == "static" {
			p.errorAt(p.curToken, "'static cannot be declared as a parameter")
			return Param{}, false
		}
		return Param{Name: name, Kind: ts.LifetimeKind}, true
	}
	p.errorAt(p.curToken, "expected parameter name, got %s", p.curToken)
	return Param{}, false
}
