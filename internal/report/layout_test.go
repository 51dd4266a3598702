package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keySetOf(keys ...string) *KeySet {
	set := NewKeySet()
	for _, k := range keys {
		set.Add(k)
	}
	return set
}

func TestPlanLayout_ComparisonExactPositions(t *testing.T) {
	v, ok := LookupVariant(KindComparison)
	require.True(t, ok)

	l, err := PlanLayout("GROUP A", v.Schema, keySetOf("S1", "S2"))
	require.NoError(t, err)

	assert.Equal(t, 15, l.TotalColumns)
	assert.Equal(t, 7, l.PrefixWidth)
	assert.Equal(t, 7, l.DynamicStart)
	assert.Equal(t, 2, l.DynamicWidth)
	assert.Equal(t, 9, l.SuffixStart)

	expectIndex := map[Field]int{
		FieldSequence:          0,
		FieldDescriptionEN:     1,
		FieldDescriptionVN:     2,
		FieldOldCode:           3,
		FieldNewCode:           4,
		FieldUnit:              5,
		FieldTotalQty:          6,
		FieldSelectedName:      9,
		FieldSelectedPrice:     10,
		FieldAmount:            11,
		FieldDifference:        12,
		FieldDifferencePercent: 13,
		FieldRemark:            14,
	}
	for f, want := range expectIndex {
		got, ok := l.Index(f)
		require.True(t, ok, "field %s", f)
		assert.Equal(t, want, got, "field %s", f)
	}
	_, ok = l.Index(FieldRequestedQty)
	assert.False(t, ok)

	assert.Equal(t, "GROUP A", l.Header[TitleRow][0])
	assert.Equal(t, []string{
		"No", "Item description", "", "Old SAP code", "New SAP code", "Unit", "Qty",
		"Supplier prices", "", "Selected supplier", "", "", "Difference", "", "Remark",
	}, l.Header[SectionRow])
	assert.Equal(t, []string{
		"", "EN", "VN", "", "", "", "",
		"S1", "S2", "Name", "Price", "Amount", "Amount", "%", "",
	}, l.Header[DetailRow])

	assert.Equal(t, []MergeRange{
		{StartRow: 0, StartCol: 0, EndRow: 0, EndCol: 14},
		{StartRow: 1, StartCol: 0, EndRow: 2, EndCol: 0},
		{StartRow: 1, StartCol: 1, EndRow: 1, EndCol: 2},
		{StartRow: 1, StartCol: 3, EndRow: 2, EndCol: 3},
		{StartRow: 1, StartCol: 4, EndRow: 2, EndCol: 4},
		{StartRow: 1, StartCol: 5, EndRow: 2, EndCol: 5},
		{StartRow: 1, StartCol: 6, EndRow: 2, EndCol: 6},
		{StartRow: 1, StartCol: 7, EndRow: 1, EndCol: 8},
		{StartRow: 1, StartCol: 9, EndRow: 1, EndCol: 11},
		{StartRow: 1, StartCol: 12, EndRow: 1, EndCol: 13},
		{StartRow: 1, StartCol: 14, EndRow: 2, EndCol: 14},
	}, l.Merges)

	i, ok := l.DynamicIndexOf("S2")
	assert.True(t, ok)
	assert.Equal(t, 8, i)
	_, ok = l.DynamicIndexOf("S3")
	assert.False(t, ok)
}

func TestPlanLayout_WidthMatchesColumnsForEveryVariant(t *testing.T) {
	for _, v := range Variants() {
		for _, n := range []int{0, 1, 2, 7, 25} {
			t.Run(fmt.Sprintf("%s/%d keys", v.Kind, n), func(t *testing.T) {
				keys := NewKeySet()
				for i := 0; i < n; i++ {
					keys.Add(fmt.Sprintf("K%02d", i))
				}

				l, err := PlanLayout(v.Title, v.Schema, keys)
				require.NoError(t, err)

				assert.Equal(t, v.Schema.PrefixWidth()+n+v.Schema.SuffixWidth(), l.TotalColumns)
				assert.Len(t, l.Columns, l.TotalColumns)
				for r := 0; r < HeaderRows; r++ {
					assert.Len(t, l.Header[r], l.TotalColumns)
				}

				for _, m := range l.Merges {
					assert.GreaterOrEqual(t, m.StartCol, 0)
					assert.Less(t, m.EndCol, l.TotalColumns)
					assert.LessOrEqual(t, m.StartCol, m.EndCol)
					assert.Less(t, m.EndRow, HeaderRows)
				}
				assertDisjoint(t, l.Merges)

				for f, idx := range l.index {
					assert.Less(t, idx, l.TotalColumns, "field %s", f)
					assert.Equal(t, f, l.Columns[idx].Field)
				}
			})
		}
	}
}

func TestPlanLayout_EmptyDynamicBlock(t *testing.T) {
	v, _ := LookupVariant(KindMonthlyRequisition)

	l, err := PlanLayout(v.Title, v.Schema, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, l.DynamicWidth)
	assert.Equal(t, l.DynamicStart, l.SuffixStart)
	assert.Equal(t, v.Schema.PrefixWidth()+v.Schema.SuffixWidth(), l.TotalColumns)
	assert.Empty(t, l.Keys())

	total, ok := l.Index(FieldTotalQty)
	require.True(t, ok)
	assert.Equal(t, v.Schema.PrefixWidth(), total)
}

func TestPlanLayout_SingleDynamicColumnHasNoMerge(t *testing.T) {
	v, _ := LookupVariant(KindSummary)

	l, err := PlanLayout(v.Title, v.Schema, keySetOf("Only"))
	require.NoError(t, err)

	for _, m := range l.Merges {
		if m.StartRow == SectionRow && m.StartCol == l.DynamicStart {
			t.Fatalf("unexpected merge over single dynamic column: %+v", m)
		}
	}
	assert.Equal(t, v.Schema.DynamicGroup, l.Header[SectionRow][l.DynamicStart])
	assert.Equal(t, "Only", l.Header[DetailRow][l.DynamicStart])
}

func TestSchema_Validate(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{
			name:   "empty prefix",
			schema: Schema{Suffix: []Column{{Field: FieldRemark}}},
		},
		{
			name: "duplicate field across prefix and suffix",
			schema: Schema{
				Prefix: []Column{{Field: FieldSequence}},
				Suffix: []Column{{Field: FieldSequence}},
			},
		},
		{
			name: "group split by another column",
			schema: Schema{Prefix: []Column{
				{Field: FieldDescriptionEN, Group: "Desc"},
				{Field: FieldUnit},
				{Field: FieldDescriptionVN, Group: "Desc"},
			}},
		},
		{
			name:   "reserved field",
			schema: Schema{Prefix: []Column{{Field: fieldDynamic}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			assert.ErrorIs(t, err, ErrInvalidSchema)

			_, err = PlanLayout("x", tt.schema, nil)
			assert.ErrorIs(t, err, ErrInvalidSchema)
		})
	}
}

func assertDisjoint(t *testing.T, merges []MergeRange) {
	t.Helper()
	for i := range merges {
		for j := i + 1; j < len(merges); j++ {
			assert.False(t, merges[i].Overlaps(merges[j]), "merges overlap: %+v %+v", merges[i], merges[j])
		}
	}
}
