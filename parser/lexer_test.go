package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func scanTypes(input string) []TokenType {
	lexer := NewLexer([]byte(input), "test")
	tokens := lexer.ScanAll()

	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	return types
}

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "at symbol",
			input: "@",
			want:  []TokenType{AT, EOF},
		},
		{
			name:  "tilde",
			input: "~",
			want:  []TokenType{TILDE, EOF},
		},
		{
			name:  "pipe",
			input: "|",
			want:  []TokenType{PIPE, EOF},
		},
		{
			name:  "word",
			input: "journal",
			want:  []TokenType{WORD, EOF},
		},
		{
			name:  "account path",
			input: "Asset:Broker:Cash",
			want:  []TokenType{WORD, EOF},
		},
		{
			name:  "account with sub-label",
			input: "Asset:Trading/nk225",
			want:  []TokenType{WORD, EOF},
		},
		{
			name:  "number",
			input: "3.40",
			want:  []TokenType{NUMBER, EOF},
		},
		{
			name:  "negative number",
			input: "-7260",
			want:  []TokenType{NUMBER, EOF},
		},
		{
			name:  "sequence",
			input: "2024-03-05",
			want:  []TokenType{SEQUENCE, EOF},
		},
		{
			name:  "sequence with ordinal",
			input: "2024-03-05/2",
			want:  []TokenType{SEQUENCE, EOF},
		},
		{
			name:  "tag",
			input: "#consulting",
			want:  []TokenType{TAG, EOF},
		},
		{
			name:  "string",
			input: `"Nikkei 225 mini"`,
			want:  []TokenType{STRING, EOF},
		},
		{
			name:  "comment",
			input: "; a remark",
			want:  []TokenType{COMMENT, EOF},
		},
		{
			name:  "directive",
			input: ".indent",
			want:  []TokenType{DIRECTIVE, EOF},
		},
		{
			name:  "newline separates lines",
			input: "journal\naccount",
			want:  []TokenType{WORD, NEWLINE, WORD, EOF},
		},
		{
			name:  "crlf is one newline",
			input: "journal\r\naccount",
			want:  []TokenType{WORD, NEWLINE, WORD, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanTypes(tt.input))
		})
	}
}

func TestLexerDigitLedSymbols(t *testing.T) {
	// Digit-led commodity symbols lex as numbers or extend into words; the
	// parser accepts either where a symbol is expected.
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			name:  "bare digit symbol",
			input: "9984",
			want:  []TokenType{NUMBER, EOF},
		},
		{
			name:  "digit symbol with exchange suffix",
			input: "9984.T",
			want:  []TokenType{WORD, EOF},
		},
		{
			name:  "priced quantity",
			input: "400 9984 @ 7260 JPY",
			want:  []TokenType{NUMBER, NUMBER, AT, NUMBER, WORD, EOF},
		},
		{
			name:  "date-like free text degrades to word",
			input: "2024-03-05th",
			want:  []TokenType{WORD, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanTypes(tt.input))
		})
	}
}

func TestLexerPostingLine(t *testing.T) {
	types := scanTypes("  Asset:Broker:Cash 3.40 USD ~ Equity:Opening")
	assert.Equal(t, []TokenType{WORD, NUMBER, WORD, TILDE, WORD, EOF}, types)
}

func TestLexerDescriptionLine(t *testing.T) {
	types := scanTypes("2024-03-05 Acme Corp | March invoice #consulting")
	assert.Equal(t, []TokenType{SEQUENCE, WORD, WORD, PIPE, WORD, WORD, TAG, EOF}, types)
}

func TestLexerColumns(t *testing.T) {
	lexer := NewLexer([]byte("journal X\n  commodity USD\n"), "test")
	tokens := lexer.ScanAll()

	assert.Equal(t, 1, tokens[0].Column) // journal
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 3, tokens[3].Column) // commodity, indented two spaces
	assert.Equal(t, 2, tokens[3].Line)
}

func TestLexerZeroCopy(t *testing.T) {
	source := []byte("account Asset:Cash")
	lexer := NewLexer(source, "test")
	tokens := lexer.ScanAll()

	assert.Equal(t, "account", tokens[0].String(source))
	assert.Equal(t, "Asset:Cash", tokens[1].String(source))
	assert.Equal(t, 8, tokens[1].Start)
	assert.Equal(t, 18, tokens[1].End)
}

func TestLexerUnterminatedString(t *testing.T) {
	types := scanTypes(`"no closing quote`)
	assert.Equal(t, []TokenType{ILLEGAL, EOF}, types)
}

func TestLexerNarrativePunctuation(t *testing.T) {
	// Arbitrary narrative punctuation folds into word tokens.
	types := scanTypes("Lunch (w/ client), 50% deductible?")
	assert.Equal(t, []TokenType{WORD, WORD, WORD, WORD, WORD, EOF}, types)
}
