package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

var ErrUnknownFormat = errors.New("no matching CSV format: expected date, description and amount columns")

// delimiters are tried in order until one yields a known header.
var delimiters = []rune{',', ';'}

// Parser reads spending CSV exports. It detects the encoding, the delimiter
// and which supported layout is used by looking for a header row.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Result is the outcome of parsing one file.
type Result struct {
	Profile string
	Charset enc.Charset
	Rows    []transaction.CreateParams
}

func (p *Parser) Parse(r io.Reader) (*Result, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, delim := range delimiters {
		rows, err := readRows(data, delim)
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		profile, h, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		params, err := parseRows(profile, h, rows[headerIdx+1:], headerIdx)
		if err != nil {
			return nil, err
		}

		return &Result{Profile: profile.Name, Charset: charset, Rows: params}, nil
	}

	return nil, ErrUnknownFormat
}

func readRows(data []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// detectProfile scans rows for a header that matches a known profile and
// returns it with the header's row index.
func detectProfile(rows [][]string) (*Profile, header, int) {
	for rowIdx, row := range rows {
		h := newHeader(row)

		for i := range profiles {
			if h.matches(&profiles[i]) {
				return &profiles[i], h, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// parseRows turns data rows into create params. headerRowNum is the 0-based
// index of the header row, used for 1-based line numbers in errors.
func parseRows(p *Profile, h header, rows [][]string, headerRowNum int) ([]transaction.CreateParams, error) {
	dateIdx := h.find(p.DateCols)
	descIdx := h.find(p.DescCols)
	catIdx := h.find(p.CategoryCol)

	var txs []transaction.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(cellValue(row, dateIdx), p.DateLayouts)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, ok, err := rowAmount(p, h, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if !ok {
			continue
		}

		category, err := transaction.ParseCategory(cellValue(row, catIdx))
		if err != nil {
			category = transaction.CategoryOther
		}

		txs = append(txs, transaction.CreateParams{
			Amount:      amount,
			Category:    category,
			Description: desc,
			Date:        date,
		})
	}

	return txs, nil
}

// parseDate returns false for empty cells or unparseable values such as
// footer rows.
func parseDate(s string, layouts []string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// rowAmount returns the spending amount of a row. ok is false for rows that
// carry no spending, such as incoming money on a statement.
func rowAmount(p *Profile, h header, row []string) (decimal.Decimal, bool, error) {
	switch p.AmountMode {
	case amountSplit:
		return splitAmount(p, cellValue(row, h.find(p.DebitCols)))
	default:
		return singleAmount(p, cellValue(row, h.find(p.AmountCols)))
	}
}

func singleAmount(p *Profile, s string) (decimal.Decimal, bool, error) {
	if s == "" {
		return decimal.Decimal{}, false, nil
	}

	d, err := parseAmount(s, p.DecimalComma)
	if err != nil {
		if p.Statement {
			return decimal.Decimal{}, false, nil
		}

		return decimal.Decimal{}, false, fmt.Errorf("amount %q: %w", s, transaction.ErrInvalidAmount)
	}

	if p.Statement {
		if !d.IsNegative() {
			return decimal.Decimal{}, false, nil
		}

		return d.Neg(), true, nil
	}

	if !d.IsPositive() {
		return decimal.Decimal{}, false, fmt.Errorf("amount %q: %w", s, transaction.ErrInvalidAmount)
	}

	return d, true, nil
}

func splitAmount(p *Profile, debit string) (decimal.Decimal, bool, error) {
	if debit == "" {
		return decimal.Decimal{}, false, nil
	}

	d, err := parseAmount(debit, p.DecimalComma)
	if err != nil || d.IsZero() {
		return decimal.Decimal{}, false, nil
	}

	return d.Abs(), true, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
