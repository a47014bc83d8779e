package token

import "fmt"

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string      // source text of the token
	Literal interface{} // identifier or lifetime name, without the leading quote
	Line    int
	Column  int
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Lexeme)
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers
	IDENT    TokenType = "IDENT"    // T, u8, Vec, Copy
	LIFETIME TokenType = "LIFETIME" // 'a, 'static

	// Operators
	ASSIGN     TokenType = "="
	BANG       TokenType = "!"
	COLON      TokenType = ":"
	IMPLIED_BY TokenType = ":-"
	HASH       TokenType = "#"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	LT        TokenType = "<"
	GT        TokenType = ">"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"

	// Keywords
	EXISTS      TokenType = "EXISTS"
	FORALL      TokenType = "FORALL"
	IF          TokenType = "IF"
	NOT         TokenType = "NOT"
	WELLFORMED  TokenType = "WELLFORMED"
	IMPLEMENTED TokenType = "IMPLEMENTED"
)

var keywords = map[string]TokenType{
	"exists":      EXISTS,
	"forall":      FORALL,
	"if":          IF,
	"not":         NOT,
	"WellFormed":  WELLFORMED,
	"Implemented": IMPLEMENTED,
}

// LookupIdent returns the keyword type of ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
