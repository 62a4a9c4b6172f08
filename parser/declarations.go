package parser

import (
	"github.com/shopspring/decimal"

	"github.com/blossomtext/blossom/ast"
)

// Declaration parsers. Each declaration form is a keyword line followed by
// zero or more sub-item lines one indent level deeper, each matching a
// form-specific whitelist of sub-keys; an unrecognized sub-key is a parse
// error.

var headerSubKeys = []string{"commodity", "note", "convention"}

// parseHeader parses the journal declaration:
//
//	journal NAME
//	  commodity SYM
//	  note "..."
//	  convention f5|f7
func (p *Parser) parseHeader(file *ast.File) error {
	tok := p.advance() // journal

	header := &ast.Header{
		Pos:  p.position(tok),
		Name: p.restOfLine(tok.End),
	}

	if file.Header() != nil {
		return p.errorAtToken(tok, nil, "duplicate journal header")
	}

	if err := p.endOfLine(); err != nil {
		return err
	}

	err := p.subItems(func() error {
		keyTok := p.peek()
		if keyTok.Type != WORD {
			return p.errorAtToken(keyTok, headerSubKeys, "expected journal sub-key")
		}

		switch keyTok.String(p.source) {
		case "commodity":
			p.advance()
			symbol, err := p.parseCommoditySymbol()
			if err != nil {
				return err
			}
			header.Commodity = symbol

		case "note":
			p.advance()
			note, err := p.parseString()
			if err != nil {
				return err
			}
			header.Note = note

		case "convention":
			p.advance()
			nameTok := p.peek()
			if nameTok.Type != WORD {
				return p.errorAtToken(nameTok, []string{"f5", "f7"}, "expected convention name")
			}
			p.advance()
			convention, err := ast.ParseConvention(nameTok.String(p.source))
			if err != nil {
				return p.errorAtToken(nameTok, []string{"f5", "f7"}, "%v", err)
			}
			header.Convention = convention
			// The convention constrains every account path from here on.
			p.convention = convention

		default:
			return p.errorAtToken(keyTok, headerSubKeys,
				"unknown journal sub-key %q", keyTok.String(p.source))
		}

		return p.endOfLine()
	})
	if err != nil {
		return err
	}

	file.Elements = append(file.Elements, header)
	return nil
}

var accountSubKeys = []string{"commodity", "note", "valuation", "propagate"}

// parseAccountDecl parses:
//
//	account ACCOUNT
//	  commodity SYM
//	  note "..."
//	  valuation historical|latest
//	  propagate
func (p *Parser) parseAccountDecl(file *ast.File) error {
	tok := p.advance() // account

	account, err := p.parseAccount()
	if err != nil {
		return err
	}

	decl := &ast.AccountDecl{
		Pos:     p.position(tok),
		Account: account,
	}

	if err := p.endOfLine(); err != nil {
		return err
	}

	err = p.subItems(func() error {
		keyTok := p.peek()
		if keyTok.Type != WORD {
			return p.errorAtToken(keyTok, accountSubKeys, "expected account sub-key")
		}

		switch keyTok.String(p.source) {
		case "commodity":
			p.advance()
			symbol, err := p.parseCommoditySymbol()
			if err != nil {
				return err
			}
			decl.Commodity = symbol

		case "note":
			p.advance()
			note, err := p.parseString()
			if err != nil {
				return err
			}
			decl.Note = note

		case "valuation":
			p.advance()
			modeTok := p.peek()
			if modeTok.Type != WORD {
				return p.errorAtToken(modeTok, []string{"historical", "latest"}, "expected valuation mode")
			}
			p.advance()
			switch modeTok.String(p.source) {
			case "historical":
				decl.Valuation = ast.ValuationHistorical
			case "latest":
				decl.Valuation = ast.ValuationLatest
			default:
				return p.errorAtToken(modeTok, []string{"historical", "latest"},
					"unknown valuation mode %q", modeTok.String(p.source))
			}

		case "propagate":
			p.advance()
			decl.Propagate = true

		default:
			return p.errorAtToken(keyTok, accountSubKeys,
				"unknown account sub-key %q", keyTok.String(p.source))
		}

		return p.endOfLine()
	})
	if err != nil {
		return err
	}

	file.Elements = append(file.Elements, decl)
	return nil
}

var commoditySubKeys = []string{
	"name", "measure", "dp", "underlying", "class", "multiplier", "mtm", "externalid",
}

// parseCommodityDecl parses:
//
//	commodity SYM
//	  name "..."
//	  measure SYM
//	  dp N
//	  underlying SYM
//	  class WORD
//	  multiplier N
//	  mtm
//	  externalid KEY "VALUE"
func (p *Parser) parseCommodityDecl(file *ast.File) error {
	tok := p.advance() // commodity

	symbol, err := p.parseCommoditySymbol()
	if err != nil {
		return err
	}

	decl := &ast.CommodityDecl{
		Pos:        p.position(tok),
		Symbol:     symbol,
		DP:         -1,
		Multiplier: decimal.NewFromInt(1),
	}

	if err := p.endOfLine(); err != nil {
		return err
	}

	err = p.subItems(func() error {
		keyTok := p.peek()
		if keyTok.Type != WORD {
			return p.errorAtToken(keyTok, commoditySubKeys, "expected commodity sub-key")
		}

		switch keyTok.String(p.source) {
		case "name":
			p.advance()
			name, err := p.parseString()
			if err != nil {
				return err
			}
			decl.Name = name

		case "measure":
			p.advance()
			measure, err := p.parseCommoditySymbol()
			if err != nil {
				return err
			}
			decl.Measure = measure

		case "dp":
			p.advance()
			dp, err := p.parseInt()
			if err != nil {
				return err
			}
			if dp < 0 {
				return p.errorAtToken(keyTok, nil, "dp must be non-negative")
			}
			decl.DP = dp

		case "underlying":
			p.advance()
			underlying, err := p.parseCommoditySymbol()
			if err != nil {
				return err
			}
			decl.Underlying = underlying

		case "class":
			p.advance()
			classTok := p.peek()
			if classTok.Type != WORD {
				return p.errorAtToken(classTok, []string{"class name"}, "expected class name")
			}
			p.advance()
			decl.Class = classTok.String(p.source)

		case "multiplier":
			p.advance()
			multiplier, err := p.parseDecimal()
			if err != nil {
				return err
			}
			if !multiplier.IsPositive() {
				return p.errorAtToken(keyTok, nil, "multiplier must be positive")
			}
			decl.Multiplier = multiplier

		case "mtm":
			p.advance()
			decl.MTM = true

		case "externalid":
			p.advance()
			idKeyTok := p.peek()
			if idKeyTok.Type != WORD {
				return p.errorAtToken(idKeyTok, []string{"identifier key"}, "expected identifier key")
			}
			p.advance()
			var idValue string
			if p.check(STRING) {
				value, err := p.parseString()
				if err != nil {
					return err
				}
				idValue = value
			} else {
				idValue = p.restOfLine(idKeyTok.End)
				if idValue == "" {
					return p.errorAtToken(p.peek(), []string{"identifier value"}, "expected identifier value")
				}
			}
			if decl.ExternalIDs == nil {
				decl.ExternalIDs = make(map[string]string)
			}
			decl.ExternalIDs[idKeyTok.String(p.source)] = idValue

		default:
			return p.errorAtToken(keyTok, commoditySubKeys,
				"unknown commodity sub-key %q", keyTok.String(p.source))
		}

		return p.endOfLine()
	})
	if err != nil {
		return err
	}

	file.Elements = append(file.Elements, decl)
	return nil
}

// parsePricesBlock parses a price table:
//
//	prices SYM QUOTE
//	  SEQUENCE RATE
//	  ...
//
// Each row becomes a Price element denominated in the quote commodity.
func (p *Parser) parsePricesBlock(file *ast.File) error {
	p.advance() // prices

	base, err := p.parseCommoditySymbol()
	if err != nil {
		return err
	}
	quote, err := p.parseCommoditySymbol()
	if err != nil {
		return err
	}

	if err := p.endOfLine(); err != nil {
		return err
	}

	return p.subItems(func() error {
		rowTok := p.peek()
		seq, err := p.parseSequence()
		if err != nil {
			return err
		}
		rate, err := p.parseDecimal()
		if err != nil {
			return err
		}

		file.Elements = append(file.Elements, &ast.Price{
			Pos:       p.position(rowTok),
			Seq:       seq,
			Commodity: base,
			Value:     ast.NewValue(rate, quote),
		})

		return p.endOfLine()
	})
}

// parseImport parses: import "path"
func (p *Parser) parseImport(file *ast.File) error {
	tok := p.advance() // import

	path, err := p.parseString()
	if err != nil {
		return err
	}
	if path == "" {
		return p.errorAtToken(tok, nil, "import path must not be empty")
	}

	file.Imports = append(file.Imports, &ast.Import{
		Pos:  p.position(tok),
		Path: path,
	})

	return p.endOfLine()
}

// parseAlias parses: alias SHORT ACCOUNT
//
// Aliases are parser-local shorthand: later posting lines may use SHORT in
// place of the full account path.
func (p *Parser) parseAlias(file *ast.File) error {
	p.advance() // alias

	shortTok := p.peek()
	if shortTok.Type != WORD {
		return p.errorAtToken(shortTok, []string{"alias name"}, "expected alias name")
	}
	p.advance()
	short := shortTok.String(p.source)

	account, err := p.parseAccount()
	if err != nil {
		return err
	}

	if _, exists := p.aliases[short]; exists {
		return p.errorAtToken(shortTok, nil, "duplicate alias %q", short)
	}
	p.aliases[short] = account

	return p.endOfLine()
}
