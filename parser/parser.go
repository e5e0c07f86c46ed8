// Package parser implements the recursive-descent parser that turns the
// compiler's single-line infix boolean expression text into the raw
// ast.Node tree. Operator precedence, lowest to highest binding: "|",
// "&", the comparison operators, unary "~", then primaries (parens,
// literals, names, attribute access, subscripts).
package parser

import (
	"fmt"
	"strconv"

	"github.com/wbrown/tablexpr/ast"
	"github.com/wbrown/tablexpr/lexer"
)

// Parser parses a token stream into a raw ast.Node.
type Parser struct {
	lex *lexer.Lexer
}

// New creates a Parser over the given lexer, which must not have been
// consumed yet.
func New(l *lexer.Lexer) *Parser {
	return &Parser{lex: l}
}

// Parse lexes and parses a single infix expression in one call.
func Parse(input string) (ast.Node, error) {
	l := lexer.New(input)
	if err := l.Lex(); err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}
	p := New(l)
	node, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.lex.PeekToken(); tok.Type != lexer.TokenEOF {
		return nil, fmt.Errorf("unexpected trailing token %s", tok)
	}
	return node, nil
}

// ParseExpr parses a full boolean expression: the "|" precedence level.
func (p *Parser) ParseExpr() (ast.Node, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.lex.PeekToken().Type == lexer.TokenPipe {
		p.lex.NextToken()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BoolExpr{Op: ast.Or, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.lex.PeekToken().Type == lexer.TokenAmp {
		p.lex.NextToken()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BoolExpr{Op: ast.And, Left: left, Right: right}
	}
	return left, nil
}

var compareOps = map[lexer.TokenType]ast.CompareOp{
	lexer.TokenEQ:     ast.Eq,
	lexer.TokenNE:     ast.Ne,
	lexer.TokenLT:     ast.Lt,
	lexer.TokenLE:     ast.Le,
	lexer.TokenGT:     ast.Gt,
	lexer.TokenGE:     ast.Ge,
	lexer.TokenIn:     ast.In,
	lexer.TokenAssign: ast.Assign,
}

func (p *Parser) parseComparison() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if op, ok := compareOps[p.lex.PeekToken().Type]; ok {
		p.lex.NextToken()
		var right ast.Node
		if op == ast.In {
			right, err = p.parseList()
		} else {
			right, err = p.parseUnary()
		}
		if err != nil {
			return nil, err
		}
		return &ast.Compare{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	tok := p.lex.PeekToken()
	switch tok.Type {
	case lexer.TokenTilde:
		p.lex.NextToken()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.Invert, Operand: operand}, nil
	case lexer.TokenMinus:
		p.lex.NextToken()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.Neg, Operand: operand}, nil
	case lexer.TokenPlus:
		p.lex.NextToken()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: ast.Pos, Operand: operand}, nil
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.lex.PeekToken().Type {
		case lexer.TokenDot:
			p.lex.NextToken()
			attrTok := p.lex.NextToken()
			if attrTok.Type != lexer.TokenIdent {
				return nil, fmt.Errorf("expected identifier after '.' at %d:%d", attrTok.Line, attrTok.Col)
			}
			node = &ast.Attribute{Base: node, Attr: attrTok.Value}
		case lexer.TokenLBracket:
			p.lex.NextToken()
			idx, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			close := p.lex.NextToken()
			if close.Type != lexer.TokenRBracket {
				return nil, fmt.Errorf("expected ']' at %d:%d", close.Line, close.Col)
			}
			node = &ast.Subscript{Base: node, Index: idx}
		default:
			return node, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.lex.NextToken()
	switch tok.Type {
	case lexer.TokenLParen:
		inner, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		close := p.lex.NextToken()
		if close.Type != lexer.TokenRParen {
			return nil, fmt.Errorf("expected ')' at %d:%d", close.Line, close.Col)
		}
		return inner, nil
	case lexer.TokenLBracket:
		return p.parseListBody(tok)
	case lexer.TokenIdent:
		return &ast.Name{Value: tok.Value}, nil
	case lexer.TokenString:
		return &ast.Literal{Value: tok.Value}, nil
	case lexer.TokenInt:
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q at %d:%d: %w", tok.Value, tok.Line, tok.Col, err)
		}
		return &ast.Literal{Value: v}, nil
	case lexer.TokenFloat:
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q at %d:%d: %w", tok.Value, tok.Line, tok.Col, err)
		}
		return &ast.Literal{Value: v}, nil
	case lexer.TokenEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unexpected token %s", tok)
	}
}

// parseList parses the RHS of "in": a bracketed literal list.
func (p *Parser) parseList() (ast.Node, error) {
	tok := p.lex.NextToken()
	if tok.Type != lexer.TokenLBracket {
		return nil, fmt.Errorf("expected '[' after 'in' at %d:%d", tok.Line, tok.Col)
	}
	return p.parseListBody(tok)
}

func (p *Parser) parseListBody(open lexer.Token) (ast.Node, error) {
	list := &ast.List{}
	if p.lex.PeekToken().Type == lexer.TokenRBracket {
		p.lex.NextToken()
		return list, nil
	}
	for {
		elem, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		list.Elements = append(list.Elements, elem)

		tok := p.lex.NextToken()
		switch tok.Type {
		case lexer.TokenComma:
			continue
		case lexer.TokenRBracket:
			return list, nil
		default:
			return nil, fmt.Errorf("expected ',' or ']' at %d:%d", tok.Line, tok.Col)
		}
	}
}
