package ast

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Commodity identifies a currency, security or other tradable instrument by
// its symbol. There is no implicit conversion between commodities; equality
// is exact string match.
type Commodity string

// Placeholder is the internal commodity used when an amount has no
// resolvable denomination: a measure-priced leg whose commodity declares no
// measure, or an inferred amount with neither an account commodity nor a
// journal default. It never appears in source text.
const Placeholder Commodity = "?"

var commodityRegex = regexp.MustCompile(`^[A-Za-z0-9.][A-Za-z0-9.:\-()_]*$`)

// ValidCommodity reports whether s is a well-formed commodity symbol.
func ValidCommodity(s string) bool {
	return commodityRegex.MatchString(s)
}

// Account is a colon-delimited hierarchical account path, optionally with a
// trailing "/sub-label". Identity is the full path string; the hierarchy is
// not exploded into a tree at this layer.
//
// Example accounts:
//
//	Asset:Broker:Cash
//	Income:Salary
//	Asset:Trading/AAPL
type Account string

// Convention names a top-level account hierarchy scheme. Once declared in
// the journal header it constrains the first segment of every later account
// path and forbids single-segment paths.
type Convention int

const (
	// NoConvention accepts any hierarchy, including single-segment paths.
	NoConvention Convention = iota

	// ConventionF5 is the classic five-root scheme.
	ConventionF5

	// ConventionF7 adds trading and memorandum roots to the five.
	ConventionF7
)

var f5Stubs = []string{"Assets", "Liabilities", "Equity", "Income", "Expenses"}

var f7Stubs = []string{"Asset", "Liability", "Equity", "Income", "Expense", "Trading", "Memorandum"}

// ParseConvention maps the header sub-key value to a Convention.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(s) {
	case "f5":
		return ConventionF5, nil
	case "f7":
		return ConventionF7, nil
	default:
		return NoConvention, fmt.Errorf("unknown convention %q (expected f5 or f7)", s)
	}
}

// Stubs returns the fixed set of first segments the convention allows.
func (c Convention) Stubs() []string {
	switch c {
	case ConventionF5:
		return f5Stubs
	case ConventionF7:
		return f7Stubs
	default:
		return nil
	}
}

func (c Convention) String() string {
	switch c {
	case ConventionF5:
		return "f5"
	case ConventionF7:
		return "f7"
	default:
		return "none"
	}
}

var accountSegmentRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9\[\]]*$`)

// ParseAccount validates s as an account path under the given convention.
func ParseAccount(s string, convention Convention) (Account, error) {
	path := s
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		sub := s[idx+1:]
		if sub == "" {
			return "", fmt.Errorf("account %q has an empty sub-label", s)
		}
		path = s[:idx]
	}

	segments := strings.Split(path, ":")
	for _, seg := range segments {
		if !accountSegmentRegex.MatchString(seg) {
			return "", fmt.Errorf("invalid account segment %q in %q", seg, s)
		}
	}

	if stubs := convention.Stubs(); stubs != nil {
		if len(segments) < 2 {
			return "", fmt.Errorf("account %q must have at least two segments under convention %s", s, convention)
		}
		found := false
		for _, stub := range stubs {
			if segments[0] == stub {
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("account %q must start with one of %s under convention %s",
				s, strings.Join(stubs, ", "), convention)
		}
	}

	return Account(s), nil
}

// SubLabel returns the trailing "/sub-label" portion, or "" if none.
func (a Account) SubLabel() string {
	if idx := strings.IndexByte(string(a), '/'); idx >= 0 {
		return string(a)[idx+1:]
	}
	return ""
}

// Root returns the first segment of the account path.
func (a Account) Root() string {
	path := string(a)
	if idx := strings.IndexByte(path, '/'); idx >= 0 {
		path = path[:idx]
	}
	if idx := strings.IndexByte(path, ':'); idx >= 0 {
		return path[:idx]
	}
	return path
}

// Value is an exact-decimal amount denominated in a commodity.
type Value struct {
	Amount    decimal.Decimal
	Commodity Commodity
}

// NewValue builds a Value from an amount and commodity.
func NewValue(amount decimal.Decimal, commodity Commodity) Value {
	return Value{Amount: amount, Commodity: commodity}
}

// Neg returns the value with its amount negated.
func (v Value) Neg() Value {
	return Value{Amount: v.Amount.Neg(), Commodity: v.Commodity}
}

// IsZero reports whether the amount is exactly zero.
func (v Value) IsZero() bool {
	return v.Amount.IsZero()
}

func (v Value) String() string {
	return v.Amount.String() + " " + string(v.Commodity)
}
