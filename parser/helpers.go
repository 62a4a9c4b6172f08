package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blossomtext/blossom/ast"
)

// Atom parsers shared across item parsers.

// parseSequence parses a SEQUENCE token into an ast.Sequence.
func (p *Parser) parseSequence() (ast.Sequence, error) {
	tok := p.peek()
	if tok.Type != SEQUENCE {
		return ast.Sequence{}, p.errorAtToken(tok, []string{"sequence (YYYY-M-D[/ORD])"},
			"expected sequence, got %s %q", tok.Type, tok.String(p.source))
	}
	p.advance()

	seq, err := ast.ParseSequence(tok.String(p.source))
	if err != nil {
		return ast.Sequence{}, p.errorAtToken(tok, nil, "%v", err)
	}
	return seq, nil
}

// parseAccount parses a WORD token as an account path, resolving aliases
// and enforcing the active naming convention.
func (p *Parser) parseAccount() (ast.Account, error) {
	tok := p.peek()
	if tok.Type != WORD {
		return "", p.errorAtToken(tok, []string{"account"},
			"expected account, got %s %q", tok.Type, tok.String(p.source))
	}
	p.advance()

	text := tok.String(p.source)
	if aliased, ok := p.aliases[text]; ok {
		return aliased, nil
	}

	account, err := ast.ParseAccount(text, p.convention)
	if err != nil {
		return "", p.errorAtToken(tok, nil, "%v", err)
	}
	return account, nil
}

// parseCommoditySymbol parses a commodity symbol. Digit-led symbols such as
// "9984" lex as numbers, so both token kinds are acceptable here.
func (p *Parser) parseCommoditySymbol() (ast.Commodity, error) {
	tok := p.peek()
	if tok.Type != WORD && tok.Type != NUMBER {
		return "", p.errorAtToken(tok, []string{"commodity symbol"},
			"expected commodity symbol, got %s %q", tok.Type, tok.String(p.source))
	}
	p.advance()

	text := tok.String(p.source)
	if !ast.ValidCommodity(text) {
		return "", p.errorAtToken(tok, nil, "invalid commodity symbol %q", text)
	}
	return ast.Commodity(text), nil
}

// parseDecimal parses a NUMBER token into an exact decimal.
func (p *Parser) parseDecimal() (decimal.Decimal, error) {
	tok := p.peek()
	if tok.Type != NUMBER {
		return decimal.Zero, p.errorAtToken(tok, []string{"number"},
			"expected number, got %s %q", tok.Type, tok.String(p.source))
	}
	p.advance()

	d, err := decimal.NewFromString(tok.String(p.source))
	if err != nil {
		return decimal.Zero, p.errorAtToken(tok, nil, "invalid number %q", tok.String(p.source))
	}
	return d, nil
}

// parseInt parses a NUMBER token as a plain integer.
func (p *Parser) parseInt() (int, error) {
	tok := p.peek()
	if tok.Type != NUMBER {
		return 0, p.errorAtToken(tok, []string{"integer"},
			"expected integer, got %s %q", tok.Type, tok.String(p.source))
	}
	p.advance()

	n, err := strconv.Atoi(tok.String(p.source))
	if err != nil {
		return 0, p.errorAtToken(tok, nil, "invalid integer %q", tok.String(p.source))
	}
	return n, nil
}

// parseValue parses AMOUNT SYMBOL.
func (p *Parser) parseValue() (ast.Value, error) {
	amount, err := p.parseDecimal()
	if err != nil {
		return ast.Value{}, err
	}
	symbol, err := p.parseCommoditySymbol()
	if err != nil {
		return ast.Value{}, err
	}
	return ast.NewValue(amount, symbol), nil
}

// parseString parses a STRING token and unquotes it.
func (p *Parser) parseString() (string, error) {
	tok := p.peek()
	if tok.Type != STRING {
		return "", p.errorAtToken(tok, []string{"quoted string"},
			"expected quoted string, got %s %q", tok.Type, tok.String(p.source))
	}
	p.advance()

	return unquote(tok.String(p.source)), nil
}

// parseKeyword consumes a WORD with the given text.
func (p *Parser) parseKeyword(keyword string) error {
	tok := p.peek()
	if tok.Type != WORD || tok.String(p.source) != keyword {
		return p.errorAtToken(tok, []string{keyword},
			"expected %q, got %s %q", keyword, tok.Type, tok.String(p.source))
	}
	p.advance()
	return nil
}

// collectTags consumes trailing TAG tokens on the current line.
func (p *Parser) collectTags() []string {
	var tags []string
	for p.check(TAG) {
		tok := p.advance()
		tags = append(tags, strings.TrimPrefix(tok.String(p.source), "#"))
	}
	return tags
}

// restOfLine reads all tokens until end of line and returns them as text.
// prevEnd is the end offset of the previously consumed token so literal
// spacing between tokens is reconstructed.
func (p *Parser) restOfLine(prevEnd int) string {
	var buf strings.Builder
	lastEnd := prevEnd

	for !p.isAtEnd() {
		tok := p.peek()
		if tok.Type == NEWLINE || tok.Type == COMMENT {
			break
		}
		p.advance()

		if gap := tok.Start - lastEnd; gap > 0 {
			buf.Write(p.source[lastEnd:tok.Start])
		}
		buf.WriteString(tok.String(p.source))
		lastEnd = tok.End
	}

	return strings.TrimSpace(buf.String())
}

// unquote removes surrounding quotes from a string literal.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err == nil {
			return unquoted
		}
		return s[1 : len(s)-1]
	}
	return s
}

// Token navigation.

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return Token{Type: ILLEGAL}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

// errorAtToken builds the fatal parse error for the given token.
func (p *Parser) errorAtToken(tok Token, expected []string, format string, args ...interface{}) error {
	return newErrorf(p.position(tok), expected, format, args...)
}
