package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/catalog"
)

// ParseResult holds the output of parsing a single CSV file.
type ParseResult struct {
	Transactions []Transaction
	ParseErrors  int
	Err          error
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// columns maps header names to field indexes; -1 means absent.
type columns struct {
	date, year, month, day, hour, minute int
	category, amount                     int
}

func mapColumns(header []string) (columns, error) {
	c := columns{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			c.date = i
		case "year":
			c.year = i
		case "month":
			c.month = i
		case "day":
			c.day = i
		case "hour":
			c.hour = i
		case "minute":
			c.minute = i
		case "category", "expense":
			c.category = i
		case "amount":
			c.amount = i
		}
	}
	switch {
	case c.category < 0:
		return c, errors.New("missing Category column")
	case c.amount < 0:
		return c, errors.New("missing Amount column")
	case c.date < 0 && (c.year < 0 || c.month < 0 || c.day < 0):
		return c, errors.New("missing Date (or Year, Month, Day) columns")
	}
	return c, nil
}

// ParseFile reads a transaction CSV. Rows that fail to parse or name an
// expense outside the catalog are counted in ParseErrors and skipped.
//
// Accepted headers: Category (or Expense), Amount, and either Date or
// Year, Month, Day with optional Hour and Minute.
func ParseFile(path string, cat *catalog.Catalog) ParseResult {
	f, err := os.Open(path) //nolint:gosec // path is supplied by the local user
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	return Parse(f, cat)
}

// Parse reads transactions from CSV text.
func Parse(r io.Reader, cat *catalog.Catalog) ParseResult {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ParseResult{}
		}
		return ParseResult{Err: fmt.Errorf("reading header: %w", err)}
	}
	cols, err := mapColumns(header)
	if err != nil {
		return ParseResult{Err: err}
	}

	var result ParseResult
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.ParseErrors++
			continue
		}

		t, ok := parseRecord(rec, cols, cat)
		if !ok {
			result.ParseErrors++
			continue
		}
		t.Line = line
		result.Transactions = append(result.Transactions, t)
	}
	return result
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseRecord(rec []string, cols columns, cat *catalog.Catalog) (Transaction, bool) {
	entry, ok := cat.Lookup(field(rec, cols.category))
	if !ok {
		return Transaction{}, false
	}
	amount, err := decimal.NewFromString(field(rec, cols.amount))
	if err != nil || amount.IsNegative() {
		return Transaction{}, false
	}
	date, ok := parseDate(rec, cols)
	if !ok {
		return Transaction{}, false
	}
	return Transaction{Date: date, Category: entry.Name, Amount: amount}, true
}

func parseDate(rec []string, cols columns) (time.Time, bool) {
	if cols.date >= 0 {
		s := field(rec, cols.date)
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	parts := [5]int{}
	for i, idx := range []int{cols.year, cols.month, cols.day, cols.hour, cols.minute} {
		if idx < 0 {
			continue
		}
		n, err := strconv.Atoi(field(rec, idx))
		if err != nil {
			return time.Time{}, false
		}
		parts[i] = n
	}
	if parts[1] < 1 || parts[1] > 12 || parts[2] < 1 || parts[2] > 31 {
		return time.Time{}, false
	}
	return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], 0, 0, time.Local), true
}
