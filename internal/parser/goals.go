package parser

import (
	"github.com/ChayimFriedman2/chalk/internal/logic"
	"github.com/ChayimFriedman2/chalk/internal/token"
	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

// ParseGoal parses a closed goal.
//
//	goal  := conj (';' conj)*
//	conj  := unary (',' unary)*
//	unary := exists<P> { goal } | forall<P> { goal } | not { goal }
//	       | if (clause (';' clause)*) { goal } | { goal } | ( goal ) | leaf
//	leaf  := WellFormed(type) | Implemented(type: Trait<args>)
//	       | type: Trait<args> | term = term
func ParseGoal(input string) (logic.Goal, error) {
	p := New(input)
	g := p.parseGoal()
	if err := p.finish(); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseGoalIn parses a goal under one binder declaring params, as the
// where-clauses of an impl are.
func ParseGoalIn(input string, params []Param) (logic.Goal, error) {
	p := New(input)
	p.pushBinder(params)
	g := p.parseGoal()
	if err := p.finish(); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *Parser) parseGoal() logic.Goal {
	first := p.parseConjunction()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(token.SEMICOLON) {
		return first
	}
	alts := []logic.Goal{first}
	for p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		p.nextToken()
		g := p.parseConjunction()
		if g == nil {
			return nil
		}
		alts = append(alts, g)
	}
	return logic.Or(alts...)
}

func (p *Parser) parseConjunction() logic.Goal {
	goals, ok := p.parseUnaryList()
	if !ok {
		return nil
	}
	return logic.And(goals...)
}

// parseUnaryList parses unary goals separated by commas.
func (p *Parser) parseUnaryList() ([]logic.Goal, bool) {
	var goals []logic.Goal
	for {
		g := p.parseUnary()
		if g == nil {
			return nil, false
		}
		goals = append(goals, g)
		if !p.peekTokenIs(token.COMMA) {
			return goals, true
		}
		p.nextToken()
		p.nextToken()
	}
}

func (p *Parser) parseUnary() logic.Goal {
	switch p.curToken.Type {
	case token.EXISTS:
		return p.parseQuantified(logic.Exists)
	case token.FORALL:
		return p.parseQuantified(logic.ForAll)
	case token.IF:
		return p.parseImplies()
	case token.NOT:
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		g := p.parseBlock()
		if g == nil {
			return nil
		}
		return logic.NotGoal{Goal: g}
	case token.LBRACE:
		return p.parseBlock()
	case token.LPAREN:
		if startsGoal(p.peekToken.Type) {
			return p.parseParenthesized()
		}
	}
	return p.parseLeaf()
}

// startsGoal reports whether t can only begin a goal, never a type. Any
// other token after '(' starts a tuple type.
func startsGoal(t token.TokenType) bool {
	switch t {
	case token.EXISTS, token.FORALL, token.IF, token.NOT, token.LBRACE:
		return true
	}
	return false
}

// parseParenthesized parses ( goal ). curToken is the opening paren.
func (p *Parser) parseParenthesized() logic.Goal {
	p.nextToken()
	g := p.parseGoal()
	if g == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return g
}

// parseBlock parses { goal }. curToken is the opening brace.
func (p *Parser) parseBlock() logic.Goal {
	p.nextToken()
	g := p.parseGoal()
	if g == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return g
}

func (p *Parser) parseQuantified(kind logic.QuantifierKind) logic.Goal {
	if !p.expectPeek(token.LT) {
		return nil
	}
	params, ok := p.parseParamList()
	if !ok {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.pushBinder(params)
	g := p.parseBlock()
	p.popBinder()
	if g == nil {
		return nil
	}
	return logic.QuantifiedGoal{Kind: kind, Binders: Kinds(params), Goal: g}
}

// parseImplies parses if (H1; H2) { goal }. Hypotheses without conditions
// may also be separated by commas.
func (p *Parser) parseImplies() logic.Goal {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	var hyps []logic.ProgramClause
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			p.nextToken()
			c, ok := p.parseClause()
			if !ok {
				return nil
			}
			hyps = append(hyps, c)
			if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
			break
		}
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	g := p.parseBlock()
	if g == nil {
		return nil
	}
	return logic.Implies(hyps, g)
}

// parseClause parses [forall<P> {] head [:- cond, ...] [}]. A clause
// always opens a binder, possibly an empty one.
func (p *Parser) parseClause() (logic.ProgramClause, bool) {
	if !p.curTokenIs(token.FORALL) {
		p.pushBinder([]Param{})
		c, ok := p.parseClauseBody()
		p.popBinder()
		return c, ok
	}

	if !p.expectPeek(token.LT) {
		return logic.ProgramClause{}, false
	}
	params, ok := p.parseParamList()
	if !ok || !p.expectPeek(token.LBRACE) {
		return logic.ProgramClause{}, false
	}
	p.nextToken()
	p.pushBinder(params)
	c, ok := p.parseClauseBody()
	p.popBinder()
	if !ok || !p.expectPeek(token.RBRACE) {
		return logic.ProgramClause{}, false
	}
	c.Binders = Kinds(params)
	return c, true
}

func (p *Parser) parseClauseBody() (logic.ProgramClause, bool) {
	head := p.parseDomainGoal()
	if head == nil {
		return logic.ProgramClause{}, false
	}
	c := logic.ProgramClause{Head: head}
	if p.peekTokenIs(token.IMPLIED_BY) {
		p.nextToken()
		p.nextToken()
		conds, ok := p.parseUnaryList()
		if !ok {
			return logic.ProgramClause{}, false
		}
		c.Conditions = conds
	}
	return c, true
}

// parseDomainGoal parses WellFormed(T), Implemented(T: Trait) or T: Trait.
func (p *Parser) parseDomainGoal() logic.DomainGoal {
	switch p.curToken.Type {
	case token.WELLFORMED:
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		p.nextToken()
		ty := p.parseType()
		if ty == nil || !p.expectPeek(token.RPAREN) {
			return nil
		}
		return logic.WellFormed{Ty: ty}
	case token.IMPLEMENTED:
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		p.nextToken()
		d := p.parseImplemented()
		if d == nil || !p.expectPeek(token.RPAREN) {
			return nil
		}
		return d
	}
	return p.parseImplemented()
}

func (p *Parser) parseImplemented() logic.DomainGoal {
	self := p.parseType()
	if self == nil || !p.expectPeek(token.COLON) {
		return nil
	}
	ref, ok := p.parseTraitBound(self)
	if !ok {
		return nil
	}
	return logic.Implemented{Ref: ref}
}

// parseLeaf parses a domain goal or an equality.
func (p *Parser) parseLeaf() logic.Goal {
	if p.curTokenIs(token.WELLFORMED) || p.curTokenIs(token.IMPLEMENTED) {
		d := p.parseDomainGoal()
		if d == nil {
			return nil
		}
		return logic.Holds(d)
	}

	start := p.curToken
	lhs := p.parseTerm()
	if lhs == nil {
		return nil
	}
	switch {
	case p.peekTokenIs(token.ASSIGN):
		p.nextToken()
		p.nextToken()
		rhs := p.parseTerm()
		if rhs == nil {
			return nil
		}
		if !lhs.Kind().Equal(rhs.Kind()) {
			p.errorAt(start, "cannot equate %s with %s", lhs, rhs)
			return nil
		}
		return logic.EqGoal{A: lhs, B: rhs}
	case p.peekTokenIs(token.COLON):
		self, ok := lhs.(ts.Ty)
		if !ok {
			p.errorAt(start, "a lifetime cannot implement a trait")
			return nil
		}
		p.nextToken()
		ref, ok := p.parseTraitBound(self)
		if !ok {
			return nil
		}
		return logic.Holds(logic.Implemented{Ref: ref})
	}
	p.errorAt(p.peekToken, "expected \":\" or \"=\", got %s", p.peekToken)
	return nil
}
