package parser

import (
	"github.com/ChayimFriedman2/chalk/internal/config"
	"github.com/ChayimFriedman2/chalk/internal/logic"
	"github.com/ChayimFriedman2/chalk/internal/token"
	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// ParseType parses a type whose free names are params.
func ParseType(input string, params []Param) (ts.Ty, error) {
	p := New(input)
	p.pushBinder(params)
	ty := p.parseType()
	if err := p.finish(); err != nil {
		return nil, err
	}
	return ty, nil
}

// ParseTraitRef parses Self: Trait<args> whose free names are params.
func ParseTraitRef(input string, params []Param) (logic.TraitRef, error) {
	p := New(input)
	p.pushBinder(params)
	self := p.parseType()
	if self == nil {
		return logic.TraitRef{}, p.finish()
	}
	if !p.expectPeek(token.COLON) {
		return logic.TraitRef{}, p.finish()
	}
	ref, _ := p.parseTraitBound(self)
	if err := p.finish(); err != nil {
		return logic.TraitRef{}, err
	}
	return ref, nil
}

// parseTerm parses a type or a lifetime.
func (p *Parser) parseTerm() ts.Term {
	if p.curTokenIs(token.LIFETIME) {
		lt := p.parseLifetime()
		if lt == nil {
			return nil
		}
		return lt
	}
	ty := p.parseType()
	if ty == nil {
		return nil
	}
	return ty
}

func (p *Parser) parseLifetime() ts.Lifetime {
	name := p.curToken.Literal.(string)
	if name == "static" {
		return ts.Static
	}
	v, k, ok := p.lookup(name)
	if !ok {
		p.errorAt(p.curToken, "unknown lifetime '%s", name)
		return nil
	}
	if !ts.IsLifetime(k) {
		p.errorAt(p.curToken, "%s is a type, not a lifetime", name)
		return nil
	}
	return ts.LBound{Var: v}
}

// parseType parses (), (A,), (A, B), [T], a scalar, a bound name or
// Name<args>. curToken is the first token; on return it is the last token
// of the type.
func (p *Parser) parseType() ts.Ty {
	switch p.curToken.Type {
	case token.LPAREN:
		return p.parseTupleType()
	case token.LBRACKET:
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return ts.Slice(elem)
	case token.IDENT:
		return p.parseNamedType()
	}
	p.errorAt(p.curToken, "expected type, got %s", p.curToken)
	return nil
}

func (p *Parser) parseTupleType() ts.Ty {
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return ts.Unit
	}
	p.nextToken()
	first := p.parseType()
	if first == nil {
		return nil
	}
	// (T) is T
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return first
	}
	if !p.expectPeek(token.COMMA) {
		return nil
	}

	elems := []ts.Ty{first}
	for !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		elems = append(elems, elem)
		if !p.peekTokenIs(token.RPAREN) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}
	p.nextToken()
	return ts.Tuple(elems...)
}

func (p *Parser) parseNamedType() ts.Ty {
	nameTok := p.curToken
	name := nameTok.Literal.(string)

	if v, k, ok := p.lookup(name); ok {
		if ts.IsLifetime(k) {
			p.errorAt(nameTok, "'%s is a lifetime, not a type", name)
			return nil
		}
		if p.peekTokenIs(token.LT) {
			p.errorAt(p.peekToken, "type parameter %s takes no arguments", name)
			return nil
		}
		return ts.TBound{Var: v}
	}

	if config.IsScalar(name) {
		if p.peekTokenIs(token.LT) {
			p.errorAt(p.peekToken, "scalar %s takes no arguments", name)
			return nil
		}
		return ts.Scalar(name)
	}

	var args []ts.Term
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		var ok bool
		if args, ok = p.parseTermList(); !ok {
			return nil
		}
	}
	return ts.App(name, args...)
}

// parseTermList parses <A, 'b, ...>. curToken is the opening <; on return
// it is the closing >.
func (p *Parser) parseTermList() ([]ts.Term, bool) {
	var terms []ts.Term
	if p.peekTokenIs(token.GT) {
		p.nextToken()
		return terms, true
	}
	for {
		p.nextToken()
		t := p.parseTerm()
		if t == nil {
			return nil, false
		}
		terms = append(terms, t)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.GT) {
			return nil, false
		}
		return terms, true
	}
}

// parseTraitBound parses Trait<args> after "self:". curToken is the colon.
func (p *Parser) parseTraitBound(self ts.Ty) (logic.TraitRef, bool) {
	if !p.expectPeek(token.IDENT) {
		return logic.TraitRef{}, false
	}
	trait := p.curToken.Literal.(string)
	var params []ts.Term
	if p.peekTokenIs(token.LT) {
		p.nextToken()
		var ok bool
		if params, ok = p.parseTermList(); !ok {
			return logic.TraitRef{}, false
		}
	}
	return logic.NewTraitRef(trait, self, params...), true
}
