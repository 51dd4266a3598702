package report

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_SumsMatchRows(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, n := range []int{0, 1, 2, 17, 200} {
		t.Run(fmt.Sprintf("%d records", n), func(t *testing.T) {
			rows := make([]DataRow, 0, n)
			var wantAmount, wantDiff, wantAvg float64
			for i := 0; i < n; i++ {
				rec := randomRecord(rng)
				d := ComputeDerived(rec)
				rows = append(rows, DataRow{Derived: d})
				wantAmount += d.Amount
				wantDiff += d.Difference
				wantAvg += d.AverageOther
			}

			got := Aggregate(rows, nil)

			assert.InDelta(t, wantAmount, got.Amount, 1e-6)
			assert.InDelta(t, wantDiff, got.Difference, 1e-6)
			assert.InDelta(t, wantAvg, got.AverageOther, 1e-6)
			if wantAvg == 0 {
				assert.Equal(t, 0.0, got.DifferencePercent)
			} else {
				assert.InDelta(t, wantDiff/wantAvg*100, got.DifferencePercent, 1e-6)
			}
		})
	}
}

func TestAggregate_PercentHintWins(t *testing.T) {
	rows := []DataRow{{Derived: Derived{Amount: 10, Difference: 5, AverageOther: 5}}}
	hint := -3.25

	got := Aggregate(rows, &hint)

	assert.Equal(t, 10.0, got.Amount)
	assert.Equal(t, -3.25, got.DifferencePercent)
}

func TestAggregate_ExactDecimalSums(t *testing.T) {
	rows := []DataRow{
		{Derived: Derived{Amount: 0.1}},
		{Derived: Derived{Amount: 0.2}},
	}

	got := Aggregate(rows, nil)

	assert.Equal(t, 0.3, got.Amount)
}

func TestTotalsRow(t *testing.T) {
	v, _ := LookupVariant(KindComparison)
	layout, err := PlanLayout(v.Title, v.Schema, keySetOf("A", "B"))
	require.NoError(t, err)

	cells, merge := TotalsRow(Totals{Amount: 150, Difference: -20, DifferencePercent: -12.5}, layout, 9)

	require.Len(t, cells, layout.TotalColumns)
	assert.Equal(t, TotalLabel, cells[0])
	amount, _ := layout.Index(FieldAmount)
	diff, _ := layout.Index(FieldDifference)
	pct, _ := layout.Index(FieldDifferencePercent)
	assert.Equal(t, 150.0, cells[amount])
	assert.Equal(t, -20.0, cells[diff])
	assert.Equal(t, -12.5, cells[pct])

	require.NotNil(t, merge)
	assert.Equal(t, MergeRange{StartRow: 9, StartCol: 0, EndRow: 9, EndCol: layout.PrefixWidth - 1}, *merge)
}

func TestTotalsRow_SummaryHasNoDifferenceColumns(t *testing.T) {
	v, _ := LookupVariant(KindSummary)
	layout, err := PlanLayout(v.Title, v.Schema, keySetOf("QA"))
	require.NoError(t, err)

	cells, _ := TotalsRow(Totals{Amount: 42, Difference: 9, DifferencePercent: 3}, layout, 4)

	amount, _ := layout.Index(FieldAmount)
	assert.Equal(t, 42.0, cells[amount])
	for i, c := range cells {
		if i == 0 || i == amount {
			continue
		}
		assert.Equal(t, "", c, "cell %d", i)
	}
}

func randomRecord(rng *rand.Rand) SourceRecord {
	rec := SourceRecord{RequestedQty: float64(rng.Intn(50))}
	suppliers := rng.Intn(4)
	selected := rng.Intn(suppliers + 1)
	for i := 0; i < suppliers; i++ {
		rec.Suppliers = append(rec.Suppliers, Entry{
			Key:      fmt.Sprintf("S%d", rng.Intn(6)),
			Value:    float64(rng.Intn(10000)) / 100,
			Selected: i == selected,
		})
	}
	for i := 0; i < rng.Intn(3); i++ {
		rec.Departments = append(rec.Departments, Entry{
			Key:   fmt.Sprintf("D%d", rng.Intn(5)),
			Value: float64(rng.Intn(20)),
		})
	}
	return rec
}
