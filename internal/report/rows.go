package report

import "strings"

// Derived holds the computed comparison figures of one record. Every number is
// finite; a record without a selected supplier has all of them at zero.
type Derived struct {
	Selected          *Entry
	Quantity          float64
	Amount            float64
	AverageOther      float64
	Difference        float64
	DifferencePercent float64
}

// DataRow is one materialized record.
type DataRow struct {
	Cells   []any
	Derived Derived
}

// ComputeDerived applies the selection and comparison rules to one record.
func ComputeDerived(rec SourceRecord) Derived {
	d := Derived{Quantity: recordQuantity(rec)}

	suppliers := rec.Nested(SourceSuppliers)
	selectedAt := -1
	for i := range suppliers {
		if suppliers[i].Selected {
			selectedAt = i
			break
		}
	}
	if selectedAt < 0 {
		return d
	}

	selected := suppliers[selectedAt]
	d.Selected = &selected
	d.Amount = finite(selected.Value * d.Quantity)

	var sum float64
	others := 0
	for i, e := range suppliers {
		if i == selectedAt {
			continue
		}
		sum += e.Value * d.Quantity
		others++
	}
	if others > 0 {
		d.AverageOther = finite(sum / float64(others))
	}

	d.Difference = finite(d.Amount - d.AverageOther)
	d.DifferencePercent = percentOf(d.Difference, d.AverageOther)
	return d
}

// recordQuantity sums department quantities, falling back to the requested quantity.
func recordQuantity(rec SourceRecord) float64 {
	depts := rec.Nested(SourceDepartments)
	if len(depts) == 0 {
		return finite(rec.RequestedQty)
	}
	var total float64
	for _, e := range depts {
		total += e.Value
	}
	return finite(total)
}

// percentOf returns diff/base*100, or 0 when base is zero.
func percentOf(diff, base float64) float64 {
	if base == 0 {
		return 0
	}
	return finite(diff / base * 100)
}

// MaterializeRow produces the output cells for one record. seq is the 1-based
// sequence number. Cells never hold nil.
func MaterializeRow(seq int, rec SourceRecord, layout *Layout, src Source) DataRow {
	d := ComputeDerived(rec)
	cells := blankRow(layout.TotalColumns)

	set := func(f Field, v any) {
		if i, ok := layout.Index(f); ok {
			cells[i] = v
		}
	}

	set(FieldSequence, seq)
	set(FieldDescriptionEN, rec.DescriptionEN)
	set(FieldDescriptionVN, rec.DescriptionVN)
	set(FieldOldCode, rec.OldCode)
	set(FieldNewCode, rec.NewCode)
	set(FieldUnit, rec.Unit)
	set(FieldRequestedQty, rec.RequestedQty)
	set(FieldTotalQty, d.Quantity)
	set(FieldRemark, rec.Remark)

	for _, e := range rec.Nested(src) {
		key := strings.TrimSpace(e.Key)
		if key == "" {
			continue
		}
		i, ok := layout.DynamicIndexOf(key)
		if !ok || cells[i] != "" {
			continue
		}
		cells[i] = e.Value
	}

	if d.Selected != nil {
		set(FieldSelectedName, d.Selected.Key)
		set(FieldSelectedPrice, d.Selected.Value)
		set(FieldAmount, d.Amount)
		set(FieldDifference, d.Difference)
		set(FieldDifferencePercent, d.DifferencePercent)
	}

	return DataRow{Cells: cells, Derived: d}
}
