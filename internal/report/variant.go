package report

import "sort"

// Kind identifies a report builder.
type Kind string

const (
	KindComparison         Kind = "comparison"
	KindMonthlyComparison  Kind = "monthly-comparison"
	KindMonthlyRequisition Kind = "monthly-requisition"
	KindSummary            Kind = "summary"
)

// Variant is one export builder: its title, column schema and the nested
// collection its dynamic columns come from.
type Variant struct {
	Kind   Kind
	Title  string
	Sheet  string
	Source Source
	Schema Schema
	// Timestamped variants append the export time to the file name.
	Timestamped bool
}

var itemPrefix = []Column{
	{Field: FieldSequence, Label: "No", Width: 6},
	{Field: FieldDescriptionEN, Label: "EN", Group: "Item description", Width: 32},
	{Field: FieldDescriptionVN, Label: "VN", Group: "Item description", Width: 32},
	{Field: FieldOldCode, Label: "Old SAP code", Width: 14},
	{Field: FieldNewCode, Label: "New SAP code", Width: 14},
	{Field: FieldUnit, Label: "Unit", Width: 8},
}

func prefixWith(extra ...Column) []Column {
	out := make([]Column, 0, len(itemPrefix)+len(extra))
	out = append(out, itemPrefix...)
	return append(out, extra...)
}

var comparisonSuffix = []Column{
	{Field: FieldSelectedName, Label: "Name", Group: "Selected supplier", Width: 24},
	{Field: FieldSelectedPrice, Label: "Price", Group: "Selected supplier", Width: 14},
	{Field: FieldAmount, Label: "Amount", Group: "Selected supplier", Width: 16},
	{Field: FieldDifference, Label: "Amount", Group: "Difference", Width: 16},
	{Field: FieldDifferencePercent, Label: "%", Group: "Difference", Width: 10},
	{Field: FieldRemark, Label: "Remark", Width: 24},
}

var variants = map[Kind]Variant{
	KindComparison: {
		Kind:   KindComparison,
		Title:  "SUPPLIER PRICE COMPARISON",
		Sheet:  "Comparison",
		Source: SourceSuppliers,
		Schema: Schema{
			Prefix:       prefixWith(Column{Field: FieldTotalQty, Label: "Qty", Width: 10}),
			Suffix:       comparisonSuffix,
			DynamicGroup: "Supplier prices",
			DynamicWidth: 14,
		},
	},
	KindMonthlyComparison: {
		Kind:   KindMonthlyComparison,
		Title:  "MONTHLY SUPPLIER PRICE COMPARISON",
		Sheet:  "Monthly comparison",
		Source: SourceSuppliers,
		Schema: Schema{
			Prefix:       prefixWith(Column{Field: FieldTotalQty, Label: "Qty", Width: 10}),
			Suffix:       comparisonSuffix,
			DynamicGroup: "Supplier prices",
			DynamicWidth: 14,
		},
		Timestamped: true,
	},
	KindMonthlyRequisition: {
		Kind:   KindMonthlyRequisition,
		Title:  "MONTHLY REQUISITION",
		Sheet:  "Monthly requisition",
		Source: SourceDepartments,
		Schema: Schema{
			Prefix: itemPrefix,
			Suffix: append([]Column{
				{Field: FieldTotalQty, Label: "Total qty", Width: 10},
			}, comparisonSuffix...),
			DynamicGroup: "Department request qty",
			DynamicWidth: 12,
		},
		Timestamped: true,
	},
	KindSummary: {
		Kind:   KindSummary,
		Title:  "REQUISITION SUMMARY",
		Sheet:  "Summary",
		Source: SourceDepartments,
		Schema: Schema{
			Prefix: itemPrefix,
			Suffix: []Column{
				{Field: FieldTotalQty, Label: "Total qty", Width: 10},
				{Field: FieldSelectedName, Label: "Supplier", Width: 24},
				{Field: FieldSelectedPrice, Label: "Unit price", Width: 14},
				{Field: FieldAmount, Label: "Amount", Width: 16},
				{Field: FieldRemark, Label: "Remark", Width: 24},
			},
			DynamicGroup: "Department request qty",
			DynamicWidth: 12,
		},
		Timestamped: true,
	},
}

// LookupVariant returns the builder registered for kind.
func LookupVariant(kind Kind) (Variant, bool) {
	v, ok := variants[kind]
	return v, ok
}

// Variants returns every registered builder ordered by kind.
func Variants() []Variant {
	out := make([]Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
