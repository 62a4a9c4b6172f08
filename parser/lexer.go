package parser

// Lexer implements a zero-copy lexer for blossom journal files.
//
// The zero-copy approach:
// - Tokens store byte offsets, not string values
// - Column positions are preserved so the parser can enforce layout
// - NEWLINE tokens delimit physical lines; indentation is derived from the
//   column of a line's first token

// Lexer tokenizes journal source code.
type Lexer struct {
	source   []byte
	filename string
	pos      int // Current byte position
	line     int // Current line (1-indexed)
	column   int // Current column (1-indexed)
	tokens   []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source []byte, filename string) *Lexer {
	// Roughly one token per six bytes of journal text; pre-allocating keeps
	// slice growth off the hot path for large files.
	estimatedTokens := len(source)/6 + 64

	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
		tokens:   make([]Token, 0, estimatedTokens),
	}
}

// ScanAll lexes the entire source and returns all tokens. This is a
// single-pass scanner with no backtracking.
func (l *Lexer) ScanAll() []Token {
	for l.pos < len(l.source) {
		l.skipSpaces()

		if l.pos >= len(l.source) {
			break
		}

		tok := l.scanToken()
		l.tokens = append(l.tokens, tok)
	}

	l.tokens = append(l.tokens, Token{
		Type:   EOF,
		Start:  l.pos,
		End:    l.pos,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens
}

// scanToken scans the next token from the current position.
func (l *Lexer) scanToken() Token {
	start := l.pos
	startLine := l.line
	startCol := l.column

	ch := l.advance()

	switch {
	case ch == '\n':
		return Token{NEWLINE, start, l.pos, startLine, startCol}

	case ch == '\r':
		// Treat CRLF as a single newline token.
		if l.peek() == '\n' {
			l.advance()
		}
		return Token{NEWLINE, start, l.pos, startLine, startCol}

	case ch == ';':
		return l.scanComment(start, startLine, startCol)

	case ch == '"':
		return l.scanString(start, startLine, startCol)

	case ch == '#':
		return l.scanTag(start, startLine, startCol)

	case ch == '@':
		return Token{AT, start, l.pos, startLine, startCol}

	case ch == '~':
		return Token{TILDE, start, l.pos, startLine, startCol}

	case ch == '|':
		return Token{PIPE, start, l.pos, startLine, startCol}

	case ch == '.' && isLower(l.peek()):
		return l.scanDirective(start, startLine, startCol)

	case ch >= '0' && ch <= '9':
		if l.isSequencePattern(start) {
			return l.scanSequence(start, startLine, startCol)
		}
		return l.scanNumber(start, startLine, startCol)

	case ch == '-' && isDigit(l.peek()):
		return l.scanNumber(start, startLine, startCol)

	case isWordByte(ch):
		return l.scanWord(start, startLine, startCol)

	default:
		return Token{ILLEGAL, start, l.pos, startLine, startCol}
	}
}

// isSequencePattern checks whether the position starts a sequence key:
// four digits followed by a dash and another digit.
func (l *Lexer) isSequencePattern(start int) bool {
	if start+5 > len(l.source) {
		return false
	}
	src := l.source[start:]
	return isDigit(src[0]) && isDigit(src[1]) && isDigit(src[2]) && isDigit(src[3]) &&
		src[4] == '-' && start+5 < len(l.source) && isDigit(src[5])
}

// scanSequence scans YYYY-M-D with an optional /ORD suffix. Exact component
// validation happens in the parser via ast.ParseSequence.
func (l *Lexer) scanSequence(start, line, col int) Token {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if !isDigit(ch) && ch != '-' && ch != '/' {
			break
		}
		l.advance()
	}

	// Free text like "2024-03-05th" degrades to a plain word.
	if l.pos < len(l.source) && isWordByte(l.source[l.pos]) {
		return l.continueWord(start, line, col)
	}

	return Token{SEQUENCE, start, l.pos, line, col}
}

// scanNumber scans [-]?[0-9]+(\.[0-9]+)?. Digit-led commodity symbols such
// as "9984.T" extend into a word token.
func (l *Lexer) scanNumber(start, line, col int) Token {
	for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
		l.advance()
	}

	if l.pos+1 < len(l.source) && l.source[l.pos] == '.' && isDigit(l.source[l.pos+1]) {
		l.advance()
		for l.pos < len(l.source) && isDigit(l.source[l.pos]) {
			l.advance()
		}
	}

	if l.pos < len(l.source) && isWordByte(l.source[l.pos]) {
		return l.continueWord(start, line, col)
	}

	return Token{NUMBER, start, l.pos, line, col}
}

// scanWord scans a run of word bytes: account paths, commodity symbols,
// keywords and narrative text atoms all lex as words; the parser decides
// what each one means from context.
func (l *Lexer) scanWord(start, line, col int) Token {
	return l.continueWord(start, line, col)
}

func (l *Lexer) continueWord(start, line, col int) Token {
	for l.pos < len(l.source) && isWordByte(l.source[l.pos]) {
		l.advance()
	}
	return Token{WORD, start, l.pos, line, col}
}

// scanDirective scans a dot-directive: .indent, .region, .endregion.
func (l *Lexer) scanDirective(start, line, col int) Token {
	for l.pos < len(l.source) && isLower(l.source[l.pos]) {
		l.advance()
	}
	return Token{DIRECTIVE, start, l.pos, line, col}
}

// scanComment scans from ; to end of line, excluding the newline.
func (l *Lexer) scanComment(start, line, col int) Token {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.advance()
	}
	return Token{COMMENT, start, l.pos, line, col}
}

// scanString scans a quoted string on a single line.
func (l *Lexer) scanString(start, line, col int) Token {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '"' {
			l.advance()
			return Token{STRING, start, l.pos, line, col}
		}
		if ch == '\n' {
			break
		}
		if ch == '\\' && l.pos+1 < len(l.source) {
			l.advance()
		}
		l.advance()
	}
	// Unterminated string; the parser reports it at this position.
	return Token{ILLEGAL, start, l.pos, line, col}
}

// scanTag scans #[A-Za-z0-9_-]+.
func (l *Lexer) scanTag(start, line, col int) Token {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if !isAlnum(ch) && ch != '_' && ch != '-' {
			break
		}
		l.advance()
	}
	return Token{TAG, start, l.pos, line, col}
}

// skipSpaces skips spaces and tabs but never newlines; the parser needs
// NEWLINE tokens to recognize line boundaries.
func (l *Lexer) skipSpaces() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch != ' ' && ch != '\t' {
			break
		}
		l.column++
		l.pos++
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// isWordByte reports whether ch can appear inside a word token. Words are
// delimited by whitespace and the structural characters of the grammar;
// everything else (including narrative punctuation) is word material.
func isWordByte(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', ';', '"', '#', '@', '~', '|':
		return false
	}
	return ch > ' ' || ch >= 0x80
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLower(ch byte) bool {
	return ch >= 'a' && ch <= 'z'
}

func isAlnum(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || isDigit(ch)
}
