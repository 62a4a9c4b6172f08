// Large Journal Generator
//
// Generates a large journal file for performance testing and profiling. The
// output mixes the item forms the parser and balancing engine handle:
// transfers, trades, dividends, price tables and splits.
//
// Usage:
//
//	go run main.go > large.blossom
//	go run main.go 20000000 > large.blossom  # Target size in bytes
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"
)

const defaultTargetSize = 10 * 1024 * 1024 // 10MB

var (
	expenseAccounts = []string{
		"Expense:Food:Groceries",
		"Expense:Food:Restaurant",
		"Expense:Housing:Rent",
		"Expense:Housing:Utilities",
		"Expense:Transport:Fuel",
		"Expense:Transport:Transit",
		"Expense:Shopping:Clothing",
		"Expense:Shopping:Electronics",
		"Expense:Healthcare:Medical",
		"Expense:Commission",
	}

	cashAccounts = []string{
		"Asset:Bank:Checking",
		"Asset:Bank:Savings",
		"Asset:Broker:Cash",
	}

	payees = []string{
		"Whole Foods", "Safeway", "Costco",
		"Shell", "Chevron", "BART",
		"Landlord", "PG&E", "Comcast",
		"Amazon", "Target", "Best Buy",
		"Employer Inc", "Fidelity", "Vanguard",
	}

	narratives = []string{
		"grocery shopping", "fuel purchase", "rent payment",
		"salary deposit", "utility bill", "online purchase",
		"restaurant dinner", "coffee", "monthly subscription",
		"medical appointment", "insurance premium",
	}

	tags = []string{
		"personal", "business", "vacation", "deductible",
		"reimbursable", "investment",
	}

	stocks = []string{"AAPL", "MSFT", "GOOGL", "VTI", "9984"}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	written := emit(header())

	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := 0

	for written < targetSize {
		switch rand.Intn(10) {
		case 0, 1, 2, 3, 4: // 50% simple transfers
			written += emit(transfer(day))
		case 5, 6: // 20% tagged transfers with payees
			written += emit(taggedTransfer(day))
		case 7: // 10% trades
			written += emit(trade(day))
		case 8: // 10% dividends
			written += emit(dividend(day))
		case 9: // 10% price rows
			written += emit(prices(day))
		}
		entries++

		if entries%5 == 0 {
			day = day.AddDate(0, 0, 1)
		}
	}

	fmt.Fprintf(os.Stderr, "generated %d items, %d bytes\n", entries, written)
}

func emit(s string) int {
	fmt.Print(s)
	return len(s)
}

func header() string {
	out := "journal Generated performance fixture\n  commodity USD\n  convention f7\n\n"
	for _, account := range expenseAccounts {
		out += fmt.Sprintf("account %s\n", account)
	}
	for _, account := range cashAccounts {
		out += fmt.Sprintf("account %s\n  commodity USD\n", account)
	}
	out += "account Asset:Broker:Positions\naccount Income:Dividends\naccount Income:Salary\n\n"
	for _, stock := range stocks {
		out += fmt.Sprintf("commodity %s\n  measure USD\n", stock)
	}
	return out + "\n"
}

func seq(day time.Time) string {
	return day.Format("2006-01-02")
}

func amount() string {
	return fmt.Sprintf("%d.%02d", rand.Intn(500)+1, rand.Intn(100))
}

func transfer(day time.Time) string {
	return fmt.Sprintf("%s %s\n  %s %s USD\n  %s\n\n",
		seq(day),
		narratives[rand.Intn(len(narratives))],
		expenseAccounts[rand.Intn(len(expenseAccounts))],
		amount(),
		cashAccounts[rand.Intn(len(cashAccounts))],
	)
}

func taggedTransfer(day time.Time) string {
	return fmt.Sprintf("%s %s | %s #%s\n  %s %s USD\n  %s\n\n",
		seq(day),
		payees[rand.Intn(len(payees))],
		narratives[rand.Intn(len(narratives))],
		tags[rand.Intn(len(tags))],
		expenseAccounts[rand.Intn(len(expenseAccounts))],
		amount(),
		cashAccounts[rand.Intn(len(cashAccounts))],
	)
}

func trade(day time.Time) string {
	return fmt.Sprintf("%s trade %d %s @ %d.%02d USD\n  account Asset:Broker:Positions\n  settlement Asset:Broker:Cash\n  commission Expense:Commission %d USD\n\n",
		seq(day),
		rand.Intn(100)+1,
		stocks[rand.Intn(len(stocks))],
		rand.Intn(400)+50, rand.Intn(100),
		rand.Intn(10)+1,
	)
}

func dividend(day time.Time) string {
	return fmt.Sprintf("%s dividend %s %d.%02d USD\n  account Asset:Broker:Cash\n  income Income:Dividends\n\n",
		seq(day),
		stocks[rand.Intn(len(stocks))],
		rand.Intn(500)+1, rand.Intn(100),
	)
}

func prices(day time.Time) string {
	out := fmt.Sprintf("prices %s USD\n", stocks[rand.Intn(len(stocks))])
	for i := 0; i < 3; i++ {
		out += fmt.Sprintf("  %s %d.%02d\n", seq(day.AddDate(0, 0, i)), rand.Intn(400)+50, rand.Intn(100))
	}
	return out + "\n"
}
