package importer

import "strings"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one amount column.
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of a supported CSV export. Column
// names are matched case-insensitively; each field lists its accepted
// aliases.
type Profile struct {
	Name        string
	DateCols    []string
	DescCols    []string
	CategoryCol []string
	AmountMode  amountMode
	AmountCols  []string
	DebitCols   []string
	CreditCols  []string
	DateLayouts []string
	// DecimalComma marks European amounts such as "1.234,56".
	DecimalComma bool
	// Statement marks bank statements, where spending is negative (or in the
	// debit column) and incoming money is skipped.
	Statement bool
}

func (p *Profile) required() [][]string {
	cols := [][]string{p.DateCols, p.DescCols}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCols)
	case amountSplit:
		cols = append(cols, p.DebitCols, p.CreditCols)
	}

	return cols
}

// profiles is tried in order; more specific layouts come first.
var profiles = []Profile{
	{
		Name:        "tally",
		DateCols:    []string{"date", "transaction_date"},
		DescCols:    []string{"description", "desc", "merchant"},
		CategoryCol: []string{"category"},
		AmountMode:  amountSingle,
		AmountCols:  []string{"amount"},
		DateLayouts: []string{"2006-01-02", "01/02/2006", "1/2/2006"},
	},
	{
		Name:         "cgd-cartao",
		DateCols:     []string{"Data"},
		DescCols:     []string{"Descrição"},
		AmountMode:   amountSplit,
		DebitCols:    []string{"Débito"},
		CreditCols:   []string{"Crédito"},
		DateLayouts:  []string{"02-01-2006"},
		DecimalComma: true,
		Statement:    true,
	},
	{
		Name:         "cgd-extrato",
		DateCols:     []string{"Data mov."},
		DescCols:     []string{"Descrição"},
		AmountMode:   amountSingle,
		AmountCols:   []string{"Movimento"},
		DateLayouts:  []string{"02-01-2006"},
		DecimalComma: true,
		Statement:    true,
	},
	{
		Name:         "cgd-conta",
		DateCols:     []string{"Data mov."},
		DescCols:     []string{"Descrição"},
		AmountMode:   amountSingle,
		AmountCols:   []string{"Montante"},
		DateLayouts:  []string{"02-01-2006"},
		DecimalComma: true,
		Statement:    true,
	},
}

// header maps lower-cased column names to their index in the row.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))

	for i, cell := range row {
		name := strings.ToLower(strings.TrimSpace(cell))
		if _, dup := h[name]; name != "" && !dup {
			h[name] = i
		}
	}

	return h
}

// find returns the index of the first alias present, or -1.
func (h header) find(aliases []string) int {
	for _, a := range aliases {
		if i, ok := h[strings.ToLower(a)]; ok {
			return i
		}
	}

	return -1
}

func (h header) matches(p *Profile) bool {
	for _, aliases := range p.required() {
		if h.find(aliases) < 0 {
			return false
		}
	}

	return true
}
