package parser

import (
	"github.com/ChayimFriedman2/chalk/internal/token"
)

// Attribute is a declaration marker such as auto or lang(sized).
type Attribute struct {
	Name string
	Arg  string
}

func (a Attribute) String() string {
	if a.Arg == "" {
		return a.Name
	}
	return a.Name + "(" + a.Arg + ")"
}

// ParseAttribute parses name, name(arg), or either wrapped in #[...].
func ParseAttribute(input string) (Attribute, error) {
	p := New(input)
	wrapped := p.curTokenIs(token.HASH)
	if wrapped {
		if !p.expectPeek(token.LBRACKET) {
			return Attribute{}, p.finish()
		}
		p.nextToken()
	}
	if !p.curTokenIs(token.IDENT) {
		p.errorAt(p.curToken, "expected attribute name, got %s", p.curToken)
		return Attribute{}, p.finish()
	}
	attr := Attribute{Name: p.curToken.Literal.(string)}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return Attribute{}, p.finish()
		}
		attr.Arg = p.curToken.Literal.(string)
		if !p.expectPeek(token.RPAREN) {
			return Attribute{}, p.finish()
		}
	}
	if wrapped && !p.expectPeek(token.RBRACKET) {
		return Attribute{}, p.finish()
	}
	if err := p.finish(); err != nil {
		return Attribute{}, err
	}
	return attr, nil
}

// ParseParams parses generic parameter names such as "T" and "'a".
func ParseParams(names []string) ([]Param, error) {
	params := make([]Param, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		p := New(name)
		prm, ok := p.parseParam()
		if !ok {
			return nil, p.finish()
		}
		if seen[prm.Name] {
			p.errorAt(p.curToken, "parameter %s declared twice", prm)
			return nil, p.finish()
		}
		seen[prm.Name] = true
		if err := p.finish(); err != nil {
			return nil, err
		}
		params = append(params, prm)
	}
	return params, nil
}
