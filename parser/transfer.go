package parser

import (
	"strings"

	"github.com/blossomtext/blossom/ast"
)

// parseDatedItem parses any item introduced by a sequence key: assertions,
// inline prices, splits, the composite dividend and trade forms, and the
// general transfer form.
func (p *Parser) parseDatedItem(file *ast.File) error {
	tok := p.peek()
	seq, err := p.parseSequence()
	if err != nil {
		return err
	}
	pos := p.position(tok)

	flagged := false
	if p.check(WORD) && p.peek().String(p.source) == "!" {
		p.advance()
		flagged = true
	}

	if p.check(WORD) {
		switch p.peek().String(p.source) {
		case "assert":
			if flagged {
				return p.errorAtToken(tok, nil, "assertions cannot be flagged")
			}
			return p.parseAssertion(file, pos, seq)
		case "price":
			if flagged {
				return p.errorAtToken(tok, nil, "prices cannot be flagged")
			}
			return p.parsePriceItem(file, pos, seq)
		case "split":
			if flagged {
				return p.errorAtToken(tok, nil, "splits cannot be flagged")
			}
			return p.parseSplit(file, pos, seq)
		case "dividend":
			return p.parseDividend(file, pos, seq, flagged)
		case "trade":
			return p.parseTrade(file, pos, seq, flagged)
		}
	}

	return p.parseTransfer(file, pos, seq, flagged)
}

// parseAssertion parses: SEQ assert ACCOUNT AMOUNT SYM
func (p *Parser) parseAssertion(file *ast.File, pos ast.Position, seq ast.Sequence) error {
	p.advance() // assert

	account, err := p.parseAccount()
	if err != nil {
		return err
	}
	value, err := p.parseValue()
	if err != nil {
		return err
	}

	file.Elements = append(file.Elements, &ast.Assertion{
		Pos:     pos,
		Seq:     seq,
		Account: account,
		Value:   value,
	})

	return p.endOfLine()
}

// parsePriceItem parses: SEQ price SYM AMOUNT QUOTE
func (p *Parser) parsePriceItem(file *ast.File, pos ast.Position, seq ast.Sequence) error {
	p.advance() // price

	commodity, err := p.parseCommoditySymbol()
	if err != nil {
		return err
	}
	value, err := p.parseValue()
	if err != nil {
		return err
	}

	file.Elements = append(file.Elements, &ast.Price{
		Pos:       pos,
		Seq:       seq,
		Commodity: commodity,
		Value:     value,
	})

	return p.endOfLine()
}

// parseSplit parses: SEQ split SYM NEW OLD
//
// The ratio is stored as NEW/OLD.
func (p *Parser) parseSplit(file *ast.File, pos ast.Position, seq ast.Sequence) error {
	tok := p.advance() // split

	commodity, err := p.parseCommoditySymbol()
	if err != nil {
		return err
	}
	newUnits, err := p.parseDecimal()
	if err != nil {
		return err
	}
	oldUnits, err := p.parseDecimal()
	if err != nil {
		return err
	}
	if !newUnits.IsPositive() || !oldUnits.IsPositive() {
		return p.errorAtToken(tok, nil, "split ratio components must be positive")
	}

	file.Elements = append(file.Elements, &ast.Split{
		Pos:       pos,
		Seq:       seq,
		Commodity: commodity,
		Ratio:     newUnits.Div(oldUnits),
	})

	return p.endOfLine()
}

var dividendSubKeys = []string{"account", "income"}

// parseDividend parses the composite dividend form:
//
//	SEQ dividend SYM AMOUNT QUOTE [#tags]
//	  account ACCOUNT
//	  income ACCOUNT
func (p *Parser) parseDividend(file *ast.File, pos ast.Position, seq ast.Sequence, flagged bool) error {
	headTok := p.advance() // dividend

	commodity, err := p.parseCommoditySymbol()
	if err != nil {
		return err
	}
	received, err := p.parseValue()
	if err != nil {
		return err
	}

	dividend := &ast.Dividend{
		Pos:       pos,
		Seq:       seq,
		Flagged:   flagged,
		Commodity: commodity,
		Received:  received,
		Tags:      p.collectTags(),
	}

	if err := p.endOfLine(); err != nil {
		return err
	}

	err = p.subItems(func() error {
		keyTok := p.peek()
		if keyTok.Type != WORD {
			return p.errorAtToken(keyTok, dividendSubKeys, "expected dividend sub-key")
		}

		switch keyTok.String(p.source) {
		case "account":
			p.advance()
			account, err := p.parseAccount()
			if err != nil {
				return err
			}
			dividend.Account = account

		case "income":
			p.advance()
			income, err := p.parseAccount()
			if err != nil {
				return err
			}
			dividend.Income = income

		default:
			return p.errorAtToken(keyTok, dividendSubKeys,
				"unknown dividend sub-key %q", keyTok.String(p.source))
		}

		return p.endOfLine()
	})
	if err != nil {
		return err
	}

	if dividend.Account == "" {
		return p.errorAtToken(headTok, nil, "dividend requires an account sub-item")
	}

	file.Elements = append(file.Elements, dividend)
	return nil
}

var tradeSubKeys = []string{"account", "settlement", "commission"}

// parseTrade parses the composite trade form:
//
//	SEQ trade QTY SYM @ PRICE [QUOTE] [#tags]
//	  account ACCOUNT
//	  settlement ACCOUNT
//	  commission ACCOUNT AMOUNT QUOTE
//
// Without a quote commodity the price is denominated in the commodity's
// declared measure; resolution happens in the ledger.
func (p *Parser) parseTrade(file *ast.File, pos ast.Position, seq ast.Sequence, flagged bool) error {
	headTok := p.advance() // trade

	qty, err := p.parseDecimal()
	if err != nil {
		return err
	}
	commodity, err := p.parseCommoditySymbol()
	if err != nil {
		return err
	}
	if !p.check(AT) {
		return p.errorAtToken(p.peek(), []string{"@"}, "expected price marker")
	}
	p.advance()
	price, err := p.parseDecimal()
	if err != nil {
		return err
	}

	trade := &ast.Trade{
		Pos:       pos,
		Seq:       seq,
		Flagged:   flagged,
		Qty:       qty,
		Commodity: commodity,
		Price:     price,
	}

	if p.check(WORD) || p.check(NUMBER) {
		priceIn, err := p.parseCommoditySymbol()
		if err != nil {
			return err
		}
		trade.PriceIn = priceIn
	}
	trade.Tags = p.collectTags()

	if err := p.endOfLine(); err != nil {
		return err
	}

	err = p.subItems(func() error {
		keyTok := p.peek()
		if keyTok.Type != WORD {
			return p.errorAtToken(keyTok, tradeSubKeys, "expected trade sub-key")
		}

		switch keyTok.String(p.source) {
		case "account":
			p.advance()
			account, err := p.parseAccount()
			if err != nil {
				return err
			}
			trade.Account = account

		case "settlement":
			p.advance()
			settlement, err := p.parseAccount()
			if err != nil {
				return err
			}
			trade.Settlement = settlement

		case "commission":
			p.advance()
			expense, err := p.parseAccount()
			if err != nil {
				return err
			}
			commission, err := p.parseValue()
			if err != nil {
				return err
			}
			trade.Expense = expense
			trade.Commission = &commission

		default:
			return p.errorAtToken(keyTok, tradeSubKeys,
				"unknown trade sub-key %q", keyTok.String(p.source))
		}

		return p.endOfLine()
	})
	if err != nil {
		return err
	}

	if trade.Account == "" {
		return p.errorAtToken(headTok, nil, "trade requires an account sub-item")
	}
	if trade.Settlement == "" {
		return p.errorAtToken(headTok, nil, "trade requires a settlement sub-item")
	}

	file.Elements = append(file.Elements, trade)
	return nil
}

// parseTransfer parses the general transactional form: a description line
// followed by posting sub-items.
func (p *Parser) parseTransfer(file *ast.File, pos ast.Position, seq ast.Sequence, flagged bool) error {
	transfer := &ast.Transfer{
		Pos:     pos,
		Seq:     seq,
		Flagged: flagged,
	}

	p.parseDescription(transfer)

	if err := p.endOfLine(); err != nil {
		return err
	}

	err := p.subItems(func() error {
		posting, err := p.parsePosting()
		if err != nil {
			return err
		}
		transfer.Postings = append(transfer.Postings, posting)
		return p.endOfLine()
	})
	if err != nil {
		return err
	}

	if len(transfer.Postings) == 0 {
		return newErrorf(pos, nil, "transfer has no postings")
	}

	file.Elements = append(file.Elements, transfer)
	return nil
}

// parseDescription reads the rest of the description line. A pipe separates
// the payee from the narrative; without one the whole text is the narrative.
// Hash tags anywhere on the line are collected as tags.
func (p *Parser) parseDescription(transfer *ast.Transfer) {
	var payee, narrative strings.Builder
	current := &narrative
	sawPipe := false
	lastEnd := p.previous().End

	for !p.isAtEnd() {
		tok := p.peek()
		if tok.Type == NEWLINE || tok.Type == COMMENT {
			break
		}
		p.advance()

		switch tok.Type {
		case PIPE:
			if !sawPipe {
				// Text before the first pipe was the payee, not the narrative.
				payee.WriteString(narrative.String())
				narrative.Reset()
				sawPipe = true
			}
			lastEnd = tok.End

		case TAG:
			transfer.Tags = append(transfer.Tags, strings.TrimPrefix(tok.String(p.source), "#"))
			lastEnd = tok.End

		default:
			if gap := tok.Start - lastEnd; gap > 0 && current.Len() > 0 {
				current.Write(p.source[lastEnd:tok.Start])
			}
			current.WriteString(tok.String(p.source))
			lastEnd = tok.End
		}
	}

	transfer.Payee = strings.TrimSpace(payee.String())
	transfer.Narrative = strings.TrimSpace(narrative.String())
}

// sideWords maps the posting side suffixes to their variant constructors.
var sideWords = map[string]struct {
	side    ast.Side
	closing bool
}{
	"dr":  {ast.Debit, false},
	"cr":  {ast.Credit, false},
	"cdr": {ast.Debit, true},
	"ccr": {ast.Credit, true},
}

// parsePosting parses one posting leg:
//
//	ACCOUNT                               blank leg
//	ACCOUNT AMOUNT SYM                    explicit value
//	ACCOUNT AMOUNT SYM dr|cr|cdr|ccr      ledger side (c-prefix closes)
//	ACCOUNT QTY SYM @ PRICE [QUOTE]       priced or measured quantity
//	ACCOUNT VALUE ~ [ACCOUNT]             contra against self or another account
//
// The contra marker requires a value: a blank leg is the entry's default
// contra, which a tilde would contradict.
func (p *Parser) parsePosting() (*ast.RawPosting, error) {
	tok := p.peek()
	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	posting := &ast.RawPosting{
		Pos:     p.position(tok),
		Account: account,
		Value:   ast.Unvalued{},
		Contra:  ast.ContraNone{},
	}

	if p.check(NUMBER) {
		value, err := p.parsePostingValue()
		if err != nil {
			return nil, err
		}
		posting.Value = value
	}

	if p.check(TILDE) {
		if _, unvalued := posting.Value.(ast.Unvalued); unvalued {
			return nil, p.errorAtToken(p.peek(), nil, "contra marker requires a value")
		}
		p.advance()
		if p.check(WORD) {
			contra, err := p.parseAccount()
			if err != nil {
				return nil, err
			}
			posting.Contra = ast.ContraAccount{Account: contra}
		} else {
			posting.Contra = ast.ContraSelf{}
		}
	}

	return posting, nil
}

// parsePostingValue parses the value clause of a posting, starting at its
// leading number.
func (p *Parser) parsePostingValue() (ast.Variant, error) {
	amount, err := p.parseDecimal()
	if err != nil {
		return nil, err
	}
	symbol, err := p.parseCommoditySymbol()
	if err != nil {
		return nil, err
	}

	if p.check(AT) {
		p.advance()
		price, err := p.parseDecimal()
		if err != nil {
			return nil, err
		}
		if p.check(WORD) || p.check(NUMBER) {
			quote, err := p.parseCommoditySymbol()
			if err != nil {
				return nil, err
			}
			return ast.Priced{
				Qty:       amount,
				Commodity: symbol,
				Price:     ast.NewValue(price, quote),
			}, nil
		}
		return ast.Measured{
			Qty:       amount,
			Commodity: symbol,
			Price:     price,
		}, nil
	}

	if p.check(WORD) {
		if sw, ok := sideWords[p.peek().String(p.source)]; ok {
			p.advance()
			value := ast.NewValue(amount, symbol)
			if sw.closing {
				return ast.Closing{Side: sw.side, Value: value}, nil
			}
			return ast.CreditDebit{Side: sw.side, Value: value}, nil
		}
	}

	return ast.Explicit{Value: ast.NewValue(amount, symbol)}, nil
}
