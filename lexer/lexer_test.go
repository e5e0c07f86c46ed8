package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	l := New(input)
	err := l.Lex()
	assert.NoError(t, err)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return toks
}

func types(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestLexComparisonOperators(t *testing.T) {
	toks := lexAll(t, "index >= 20130101")
	assert.Equal(t, []TokenType{TokenIdent, TokenGE, TokenInt, TokenEOF}, types(toks))
}

func TestLexBooleanAndParens(t *testing.T) {
	toks := lexAll(t, "(index >= t1 & index <= t2) | string == \"bar\"")
	assert.Equal(t, []TokenType{
		TokenLParen, TokenIdent, TokenGE, TokenIdent, TokenAmp,
		TokenIdent, TokenLE, TokenIdent, TokenRParen, TokenPipe,
		TokenIdent, TokenEQ, TokenString, TokenEOF,
	}, types(toks))
}

func TestLexUnaryAndSingleEquals(t *testing.T) {
	toks := lexAll(t, "~(A = 1)")
	assert.Equal(t, []TokenType{
		TokenTilde, TokenLParen, TokenIdent, TokenAssign, TokenInt, TokenRParen, TokenEOF,
	}, types(toks))
}

func TestLexFloatsAndNegatives(t *testing.T) {
	toks := lexAll(t, "A == -1.5")
	assert.Equal(t, []TokenType{TokenIdent, TokenEQ, TokenMinus, TokenFloat, TokenEOF}, types(toks))
	assert.Equal(t, "1.5", toks[3].Value)
}

func TestLexListAndIn(t *testing.T) {
	toks := lexAll(t, "A in [1,2,3]")
	assert.Equal(t, []TokenType{
		TokenIdent, TokenIn, TokenLBracket, TokenInt, TokenComma, TokenInt,
		TokenComma, TokenInt, TokenRBracket, TokenEOF,
	}, types(toks))
}

func TestLexAttributeAndSubscript(t *testing.T) {
	toks := lexAll(t, "df.index[3]")
	assert.Equal(t, []TokenType{
		TokenIdent, TokenDot, TokenIdent, TokenLBracket, TokenInt, TokenRBracket, TokenEOF,
	}, types(toks))
}

func TestLexSingleQuotedString(t *testing.T) {
	toks := lexAll(t, "ts >= '2012-02-01'")
	assert.Equal(t, TokenString, toks[2].Type)
	assert.Equal(t, "2012-02-01", toks[2].Value)
}

func TestLexUnterminatedString(t *testing.T) {
	l := New(`a == "bar`)
	err := l.Lex()
	assert.Error(t, err)
}

func TestLexUnexpectedCharacter(t *testing.T) {
	l := New("a == @b")
	err := l.Lex()
	assert.Error(t, err)
}
