package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/budgetwise/internal/budget"
	"github.com/theirongolddev/budgetwise/internal/catalog"
)

// ErrNoTransactions is returned when a month has nothing to advise on.
var ErrNoTransactions = errors.New("no transactions")

// Period selects the pivot granularity.
type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// ParsePeriod accepts "monthly" or "yearly".
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case Monthly, Yearly:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period %q (want monthly or yearly)", s)
}

// CategoryTotal is one expense's spend within a period.
type CategoryTotal struct {
	Total     decimal.Decimal
	Frequency int
}

// Row is one period of a pivot report.
type Row struct {
	Key            string // "2024-03" or "2024"
	Year           int
	Month          time.Month // zero for yearly rows
	Categories     map[string]CategoryTotal
	TotalExpenses  decimal.Decimal
	TotalFrequency int
	Income         decimal.Decimal
}

// Savings is income minus total expenses.
func (r Row) Savings() decimal.Decimal {
	return r.Income.Sub(r.TotalExpenses)
}

// Report is a pivot of transactions by period and expense.
type Report struct {
	Period     Period
	Categories []string // sorted expense names that appear in any row
	Rows       []Row    // oldest first
}

// Pivot groups transactions by period and expense. Amounts are rounded to
// whole units. Yearly rows carry twelve months of income.
func Pivot(txs []Transaction, period Period, monthlyIncome decimal.Decimal) Report {
	income := monthlyIncome
	if period == Yearly {
		income = monthlyIncome.Mul(decimal.NewFromInt(12))
	}

	rows := make(map[string]*Row)
	seen := make(map[string]struct{})

	for _, t := range txs {
		key := t.Date.Format("2006-01")
		if period == Yearly {
			key = t.Date.Format("2006")
		}
		row, ok := rows[key]
		if !ok {
			row = &Row{
				Key:        key,
				Year:       t.Date.Year(),
				Categories: make(map[string]CategoryTotal),
				Income:     income,
			}
			if period == Monthly {
				row.Month = t.Date.Month()
			}
			rows[key] = row
		}

		ct := row.Categories[t.Category]
		ct.Total = ct.Total.Add(t.Amount)
		ct.Frequency++
		row.Categories[t.Category] = ct
		row.TotalExpenses = row.TotalExpenses.Add(t.Amount)
		row.TotalFrequency++
		seen[t.Category] = struct{}{}
	}

	report := Report{Period: period}
	for name := range seen {
		report.Categories = append(report.Categories, name)
	}
	slices.Sort(report.Categories)

	for _, row := range rows {
		for name, ct := range row.Categories {
			ct.Total = ct.Total.Round(0)
			row.Categories[name] = ct
		}
		row.TotalExpenses = row.TotalExpenses.Round(0)
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].Key < report.Rows[j].Key
	})

	return report
}

// WriteCSV writes the report as one row per period with a frequency and
// total column per expense, followed by TotalExpenses, TotalFrequency and
// Income.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"Year"}
	if r.Period == Monthly {
		header = append(header, "Month")
	}
	for _, name := range r.Categories {
		header = append(header, name+"_frequency", name+"_totalamount")
	}
	header = append(header, "TotalExpenses", "TotalFrequency", "Income")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range r.Rows {
		rec := []string{strconv.Itoa(row.Year)}
		if r.Period == Monthly {
			rec = append(rec, strconv.Itoa(int(row.Month)))
		}
		for _, name := range r.Categories {
			ct := row.Categories[name]
			rec = append(rec, strconv.Itoa(ct.Frequency), ct.Total.StringFixed(0))
		}
		rec = append(rec,
			row.TotalExpenses.StringFixed(0),
			strconv.Itoa(row.TotalFrequency),
			row.Income.String(),
		)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// MonthInput builds a complete budget input from one month of ledger
// transactions: each catalog expense gets its monthly total, or zero.
func (s *Store) MonthInput(month time.Time, income decimal.Decimal, cat *catalog.Catalog) (budget.Input, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	txs, err := s.Transactions(from, from.AddDate(0, 1, 0))
	if err != nil {
		return budget.Input{}, fmt.Errorf("loading transactions: %w", err)
	}
	if len(txs) == 0 {
		return budget.Input{}, fmt.Errorf("%w for %s", ErrNoTransactions, from.Format("2006-01"))
	}
	months := MonthlyInputs(txs, income, cat)
	if len(months) == 0 {
		return budget.Input{}, fmt.Errorf("%w for %s", ErrNoTransactions, from.Format("2006-01"))
	}
	return budget.Validate(months[0].Input, cat)
}

// MonthBudget is one calendar month of transactions as a budget input.
type MonthBudget struct {
	Month time.Time // first day of the month
	Input budget.Input
}

// MonthlyInputs groups transactions by calendar month into complete budget
// inputs, oldest first. Transactions for expenses outside cat are ignored.
func MonthlyInputs(txs []Transaction, income decimal.Decimal, cat *catalog.Catalog) []MonthBudget {
	byMonth := make(map[time.Time]*MonthBudget)
	var out []*MonthBudget
	for _, t := range txs {
		entry, ok := cat.Lookup(t.Category)
		if !ok {
			continue
		}
		key := time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.Local)
		mb, ok := byMonth[key]
		if !ok {
			mb = &MonthBudget{
				Month: key,
				Input: budget.Input{Income: income, Amounts: make(map[string]decimal.Decimal, cat.Size())},
			}
			for _, name := range cat.Names() {
				mb.Input.Amounts[name] = decimal.Zero
			}
			byMonth[key] = mb
			out = append(out, mb)
		}
		mb.Input.Amounts[entry.Name] = mb.Input.Amounts[entry.Name].Add(t.Amount)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	months := make([]MonthBudget, len(out))
	for i, mb := range out {
		months[i] = *mb
	}
	return months
}
