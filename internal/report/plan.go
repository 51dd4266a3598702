package report

import "fmt"

const defaultColumnWidth = 12

// PlanOptions customizes a single export.
type PlanOptions struct {
	// Title overrides the variant title when set.
	Title     string
	Roles     []SignatureRole
	RoleWidth int
}

// WorkbookPlan is the fully assembled sheet handed to the serializer. Rows is
// dense: Bands.TotalRows() rows of Layout.TotalColumns cells, none nil.
type WorkbookPlan struct {
	Kind         Kind
	SheetName    string
	Layout       *Layout
	Bands        Bands
	Data         []DataRow
	Totals       Totals
	Signatures   SignatureBlock
	Rows         [][]any
	Merges       []MergeRange
	ColumnWidths []float64
}

// StyleOf returns the style class of a sheet row.
func (p *WorkbookPlan) StyleOf(row int) StyleClass {
	return p.Bands.StyleOf(row)
}

// Cell returns the planned value at row, col.
func (p *WorkbookPlan) Cell(row, col int) any {
	return p.Rows[row][col]
}

// BuildPlan runs discovery, layout, row materialization, aggregation and
// signature placement for one dataset snapshot.
func BuildPlan(v Variant, ds *Dataset, opts PlanOptions) (*WorkbookPlan, error) {
	if ds == nil {
		ds = &Dataset{}
	}
	title := opts.Title
	if title == "" {
		title = v.Title
	}
	roles := opts.Roles
	if roles == nil {
		roles = DefaultSignatureRoles()
	}
	width := opts.RoleWidth
	if width <= 0 {
		width = DefaultRoleWidth
	}

	keys := DiscoverKeys(ds.Records, v.Source)
	layout, err := PlanLayout(title, v.Schema, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to plan layout for %s: %w", v.Kind, err)
	}

	bands := NewBands(len(ds.Records))
	plan := &WorkbookPlan{
		Kind:      v.Kind,
		SheetName: sheetName(v),
		Layout:    layout,
		Bands:     bands,
		Data:      make([]DataRow, 0, len(ds.Records)),
		Rows:      make([][]any, bands.TotalRows()),
	}

	for r := range plan.Rows {
		plan.Rows[r] = blankRow(layout.TotalColumns)
	}
	for r := 0; r < HeaderRows; r++ {
		for c, label := range layout.Header[r] {
			plan.Rows[r][c] = label
		}
	}
	plan.Merges = append(plan.Merges, layout.Merges...)

	for i, rec := range ds.Records {
		row := MaterializeRow(i+1, rec, layout, v.Source)
		plan.Data = append(plan.Data, row)
		plan.Rows[bands.DataStart()+i] = row.Cells
	}

	plan.Totals = Aggregate(plan.Data, ds.TotalPercentHint)
	totals, merge := TotalsRow(plan.Totals, layout, bands.TotalsRow())
	plan.Rows[bands.TotalsRow()] = totals
	if merge != nil {
		plan.Merges = append(plan.Merges, *merge)
	}

	plan.Signatures = PlanSignatures(layout.TotalColumns, roles, width)
	titles, names, merges := plan.Signatures.Rows(layout.TotalColumns, bands.SignatureTitleRow(), bands.SignatureNameRow())
	plan.Rows[bands.SignatureTitleRow()] = titles
	plan.Rows[bands.SignatureNameRow()] = names
	plan.Merges = append(plan.Merges, merges...)

	plan.ColumnWidths = make([]float64, layout.TotalColumns)
	for i, c := range layout.Columns {
		plan.ColumnWidths[i] = c.Width
		if plan.ColumnWidths[i] <= 0 {
			plan.ColumnWidths[i] = defaultColumnWidth
		}
	}

	return plan, nil
}

// sheetName trims the variant's sheet name to the 31 characters xlsx allows.
func sheetName(v Variant) string {
	name := v.Sheet
	if name == "" {
		name = string(v.Kind)
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
