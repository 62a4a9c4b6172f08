// Package parser implements the grammar engine for blossom journal files.
//
// The grammar is layout-sensitive: declaration and transactional items start
// at column 1, and their sub-items sit exactly one indent level deeper. The
// indent unit defaults to two spaces and can be rebound by a leading
// ".indent N" directive. An account-naming convention declared in the
// journal header changes what the account grammar accepts for the rest of
// the file.
//
// Layout state (indent unit, active convention, aliases) is parser-local:
// independent files can be parsed concurrently without shared mutable
// state. The engine emits raw elements only and never consults account or
// commodity declaration maps.
//
// Failure is fatal and unrecoverable: the parser abandons at the first
// error and reports the furthest source position reached plus the
// productions still viable there. No partial element stream is produced.
package parser

import (
	"context"
	"fmt"

	"github.com/blossomtext/blossom/ast"
	"github.com/blossomtext/blossom/telemetry"
)

// topLevelProductions are the items viable at column 1.
var topLevelProductions = []string{
	".indent", ".region", ".endregion",
	"journal", "account", "commodity", "prices", "import", "alias",
	"dated item", "comment",
}

// Parser turns a token stream into an ordered raw element stream.
type Parser struct {
	source   []byte
	filename string
	tokens   []Token
	pos      int

	// Layout state, local to this parse.
	unit         int  // indent unit width in spaces
	indentLocked bool // true once any indentation-relative content was seen
	convention   ast.Convention
	aliases      map[string]ast.Account
}

// defaultIndentUnit is the indent width used when no .indent directive
// appears.
const defaultIndentUnit = 2

// ParseBytes parses a journal from a byte slice.
func ParseBytes(ctx context.Context, data []byte) (*ast.File, error) {
	return ParseBytesWithFilename(ctx, "", data)
}

// ParseString parses a journal from a string.
func ParseString(ctx context.Context, input string) (*ast.File, error) {
	return ParseBytesWithFilename(ctx, "", []byte(input))
}

// ParseBytesWithFilename parses a journal, attaching the filename to every
// source position for diagnostics.
func ParseBytesWithFilename(ctx context.Context, filename string, data []byte) (*ast.File, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("parse %s (%d bytes)", filename, len(data)))
	defer timer.End()

	lexer := NewLexer(data, filename)
	p := &Parser{
		source:   data,
		filename: filename,
		tokens:   lexer.ScanAll(),
		unit:     defaultIndentUnit,
		aliases:  make(map[string]ast.Account),
	}

	return p.parseFile()
}

// parseFile is the top-level production: a sequence of items introduced at
// column 1, separated by any number of blank lines.
func (p *Parser) parseFile() (*ast.File, error) {
	file := &ast.File{}

	for !p.isAtEnd() {
		tok := p.peek()

		switch tok.Type {
		case NEWLINE:
			p.advance()
			continue
		case COMMENT:
			file.Elements = append(file.Elements, &ast.Comment{
				Pos:  p.position(tok),
				Text: tok.String(p.source),
			})
			p.advance()
			continue
		case ILLEGAL:
			return nil, p.errorAtToken(tok, nil, "unexpected character %q", tok.String(p.source))
		}

		if tok.Column != 1 {
			return nil, p.errorAtToken(tok, topLevelProductions, "unexpected indentation")
		}

		var err error
		switch tok.Type {
		case DIRECTIVE:
			err = p.parseDotDirective(file)
		case SEQUENCE:
			err = p.parseDatedItem(file)
		case WORD:
			switch tok.String(p.source) {
			case "journal":
				err = p.parseHeader(file)
			case "account":
				err = p.parseAccountDecl(file)
			case "commodity":
				err = p.parseCommodityDecl(file)
			case "prices":
				err = p.parsePricesBlock(file)
			case "import":
				err = p.parseImport(file)
			case "alias":
				err = p.parseAlias(file)
			default:
				return nil, p.errorAtToken(tok, topLevelProductions, "unknown item %q", tok.String(p.source))
			}
		default:
			return nil, p.errorAtToken(tok, topLevelProductions, "unexpected %s", tok.Type)
		}

		if err != nil {
			return nil, err
		}
	}

	return file, nil
}

// parseDotDirective handles .indent, .region and .endregion.
func (p *Parser) parseDotDirective(file *ast.File) error {
	tok := p.advance()

	switch tok.String(p.source) {
	case ".indent":
		if p.indentLocked {
			return p.errorAtToken(tok, nil, ".indent must precede any indented content")
		}
		width, err := p.parseInt()
		if err != nil {
			return err
		}
		if width < 1 || width > 16 {
			return p.errorAtToken(tok, nil, "indent width %d out of range (1-16)", width)
		}
		p.unit = width
		return p.endOfLine()

	case ".region", ".endregion":
		rest := p.restOfLine(tok.End)
		text := tok.String(p.source)
		if rest != "" {
			text += " " + rest
		}
		file.Elements = append(file.Elements, &ast.Comment{
			Pos:  p.position(tok),
			Text: text,
		})
		return p.endOfLine()

	default:
		return p.errorAtToken(tok, []string{".indent", ".region", ".endregion"},
			"unknown directive %q", tok.String(p.source))
	}
}

// subItems iterates the indented lines belonging to the current item,
// calling parse once per sub-item line. The block ends at a blank line, a
// column-1 token, or EOF; any other indentation width is a parse error.
func (p *Parser) subItems(parse func() error) error {
	for !p.isAtEnd() {
		tok := p.peek()

		if tok.Type == NEWLINE {
			// Blank line ends the item.
			break
		}

		if tok.Type == COMMENT {
			p.advance()
			if p.check(NEWLINE) {
				p.advance()
			}
			continue
		}

		if tok.Column == 1 {
			break
		}

		want := p.unit + 1
		if tok.Column != want {
			return p.errorAtToken(tok, nil,
				"bad indentation: sub-items must start at column %d (indent unit %d)", want, p.unit)
		}
		p.indentLocked = true

		if err := parse(); err != nil {
			return err
		}
	}

	return nil
}

// endOfLine consumes a trailing comment and the line's newline. EOF is an
// acceptable line ending.
func (p *Parser) endOfLine() error {
	if p.check(COMMENT) {
		p.advance()
	}
	if p.check(NEWLINE) {
		p.advance()
		return nil
	}
	if p.isAtEnd() {
		return nil
	}
	tok := p.peek()
	return p.errorAtToken(tok, []string{"end of line"}, "unexpected %s %q", tok.Type, tok.String(p.source))
}

// position converts a token to a source position.
func (p *Parser) position(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Offset:   tok.Start,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
