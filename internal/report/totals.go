package report

import "github.com/shopspring/decimal"

// TotalLabel is written in the first prefix cell of the totals row.
const TotalLabel = "TOTAL"

// Totals aggregates the derived figures of every data row.
type Totals struct {
	Amount            float64
	Difference        float64
	AverageOther      float64
	DifferencePercent float64
}

// Aggregate sums the rows. When the backend supplied an unfiltered total
// percentage it wins; otherwise the percentage is derived from the sums with the
// same zero guard as the per-row rule.
func Aggregate(rows []DataRow, percentHint *float64) Totals {
	amount := decimal.Zero
	difference := decimal.Zero
	averageOther := decimal.Zero

	for _, r := range rows {
		amount = amount.Add(decimal.NewFromFloat(r.Derived.Amount))
		difference = difference.Add(decimal.NewFromFloat(r.Derived.Difference))
		averageOther = averageOther.Add(decimal.NewFromFloat(r.Derived.AverageOther))
	}

	t := Totals{
		Amount:       amount.InexactFloat64(),
		Difference:   difference.InexactFloat64(),
		AverageOther: averageOther.InexactFloat64(),
	}
	if percentHint != nil {
		t.DifferencePercent = finite(*percentHint)
	} else {
		t.DifferencePercent = percentOf(t.Difference, t.AverageOther)
	}
	return t
}

// TotalsRow renders the totals at the same column indices as the per-record
// derived fields. The returned merge spans the label across the prefix, or is
// nil when the prefix is a single column.
func TotalsRow(t Totals, layout *Layout, row int) ([]any, *MergeRange) {
	cells := blankRow(layout.TotalColumns)
	cells[0] = TotalLabel

	set := func(f Field, v float64) {
		if i, ok := layout.Index(f); ok {
			cells[i] = v
		}
	}
	set(FieldAmount, t.Amount)
	set(FieldDifference, t.Difference)
	set(FieldDifferencePercent, t.DifferencePercent)

	if layout.PrefixWidth < 2 {
		return cells, nil
	}
	return cells, &MergeRange{StartRow: row, StartCol: 0, EndRow: row, EndCol: layout.PrefixWidth - 1}
}
