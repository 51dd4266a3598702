package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_EmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "nil payload", raw: ""},
		{name: "whitespace", raw: "  \n\t"},
		{name: "json null", raw: "null"},
		{name: "empty array", raw: "[]"},
		{name: "wrapped empty array", raw: `{"data": []}`},
		{name: "object without records", raw: `{"page": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Normalize([]byte(tt.raw))

			require.NoError(t, err)
			require.NotNil(t, ds)
			assert.True(t, ds.Empty())
			assert.NotNil(t, ds.Records)
		})
	}
}

func TestNormalize_InvalidJSON(t *testing.T) {
	ds, err := Normalize([]byte(`[{"unit": "pcs"`))

	assert.ErrorIs(t, err, ErrInvalidDataset)
	assert.Nil(t, ds)
}

func TestNormalize_ComparisonRecord(t *testing.T) {
	raw := `[{
		"itemDescriptionEN": " Gloves ",
		"itemDescriptionVN": "Găng tay",
		"oldSAPCode": "OLD-1",
		"newSAPCode": "NEW-1",
		"unit": "pair",
		"remark": "urgent",
		"requestQty": "12.5",
		"suppliers": [
			{"supplierName": "Acme", "price": 10, "isSelected": true},
			{"supplierName": "Globex", "price": "12"}
		]
	}]`

	ds, err := Normalize([]byte(raw))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	rec := ds.Records[0]
	assert.Equal(t, "Gloves", rec.DescriptionEN)
	assert.Equal(t, "Găng tay", rec.DescriptionVN)
	assert.Equal(t, "OLD-1", rec.OldCode)
	assert.Equal(t, "NEW-1", rec.NewCode)
	assert.Equal(t, "pair", rec.Unit)
	assert.Equal(t, "urgent", rec.Remark)
	assert.Equal(t, 12.5, rec.RequestedQty)
	assert.Equal(t, []Entry{
		{Key: "Acme", Value: 10, Selected: true},
		{Key: "Globex", Value: 12},
	}, rec.Suppliers)
	assert.NotNil(t, rec.Departments)
	assert.Empty(t, rec.Departments)
	assert.Nil(t, ds.TotalPercentHint)
}

func TestNormalize_AliasesAndWrappedPayload(t *testing.T) {
	raw := `{
		"totalDifferencePercentage": -4.5,
		"content": [{
			"englishName": "Tape",
			"hanaSAPCode": "H-9",
			"remarkComparison": "checked",
			"supplierComparisonList": [{"name": "Initech", "unitPrice": 3, "selected": true}],
			"departmentRequestQty": {"Warehouse": 4, "Assembly": {"buy": 6}}
		}]
	}`

	ds, err := Normalize([]byte(raw))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	rec := ds.Records[0]
	assert.Equal(t, "Tape", rec.DescriptionEN)
	assert.Equal(t, "H-9", rec.NewCode)
	assert.Equal(t, "checked", rec.Remark)
	assert.Equal(t, []Entry{{Key: "Initech", Value: 3, Selected: true}}, rec.Suppliers)
	assert.Equal(t, []Entry{{Key: "Warehouse", Value: 4}, {Key: "Assembly", Value: 6}}, rec.Departments)

	require.NotNil(t, ds.TotalPercentHint)
	assert.Equal(t, -4.5, *ds.TotalPercentHint)
}

func TestNormalize_SupplierMapKeepsSelection(t *testing.T) {
	raw := `[{
		"requestQty": 2,
		"suppliers": {
			"Acme": {"price": 10, "isSelected": true},
			"g-01": {"supplierName": "Globex", "price": 20},
			"Initech": 15
		}
	}]`

	ds, err := Normalize([]byte(raw))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	assert.Equal(t, []Entry{
		{Key: "Acme", Value: 10, Selected: true},
		{Key: "Globex", Value: 20},
		{Key: "Initech", Value: 15},
	}, ds.Records[0].Suppliers)

	d := ComputeDerived(ds.Records[0])
	require.NotNil(t, d.Selected)
	assert.Equal(t, "Acme", d.Selected.Key)
	assert.Equal(t, 20.0, d.Amount)
}

func TestNormalize_TotalPercentHint(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{name: "number", raw: `{"data": [], "totalDifferencePercentage": 12.5}`, want: ptr(12.5)},
		{name: "numeric string", raw: `{"data": [], "totalDifferencePercentage": " -3.25 "}`, want: ptr(-3.25)},
		{name: "not a number", raw: `{"data": [], "totalDifferencePercentage": "N/A"}`},
		{name: "empty string", raw: `{"data": [], "totalDifferencePercentage": ""}`},
		{name: "boolean", raw: `{"data": [], "totalDifferencePercentage": true}`},
		{name: "null", raw: `{"data": [], "totalDifferencePercentage": null}`},
		{name: "absent", raw: `{"data": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Normalize([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ds.TotalPercentHint)
		})
	}
}

func ptr(f float64) *float64 { return &f }

func TestNormalize_ToleratesNullsAndJunk(t *testing.T) {
	raw := `[
		null,
		"not a record",
		{"itemDescriptionEN": null, "suppliers": null, "departmentRequisitions": [
			{"departmentName": "QA", "qty": "NaN"},
			{"departmentName": "Ops", "qty": "abc"},
			7
		]}
	]`

	ds, err := Normalize([]byte(raw))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	rec := ds.Records[0]
	assert.Equal(t, "", rec.DescriptionEN)
	assert.NotNil(t, rec.Suppliers)
	assert.Empty(t, rec.Suppliers)
	assert.Equal(t, []Entry{{Key: "QA", Value: 0}, {Key: "Ops", Value: 0}}, rec.Departments)
}

func TestSourceRecord_NestedNeverNil(t *testing.T) {
	var rec SourceRecord

	assert.NotNil(t, rec.Nested(SourceSuppliers))
	assert.NotNil(t, rec.Nested(SourceDepartments))
	assert.Equal(t, "suppliers", SourceSuppliers.String())
	assert.Equal(t, "departments", SourceDepartments.String())
}
