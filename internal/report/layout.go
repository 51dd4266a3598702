package report

import "fmt"

// Header row indices.
const (
	TitleRow   = 0
	SectionRow = 1
	DetailRow  = 2
	HeaderRows = 3
)

// MergeRange is an inclusive, zero-based rectangle of cells rendered as one.
type MergeRange struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Overlaps reports whether the two ranges share any cell.
func (m MergeRange) Overlaps(o MergeRange) bool {
	return m.StartRow <= o.EndRow && o.StartRow <= m.EndRow &&
		m.StartCol <= o.EndCol && o.StartCol <= m.EndCol
}

// Layout is the resolved column plan of one export.
type Layout struct {
	Title        string
	TotalColumns int
	PrefixWidth  int
	DynamicStart int
	DynamicWidth int
	SuffixStart  int

	// Columns has exactly TotalColumns entries; dynamic columns carry their key as Label.
	Columns []Column
	// Header holds the title, section and detail rows, each TotalColumns wide.
	Header [HeaderRows][]string
	Merges []MergeRange

	keys  *KeySet
	index map[Field]int
}

// Index returns the column index of a fixed field.
func (l *Layout) Index(f Field) (int, bool) {
	i, ok := l.index[f]
	return i, ok
}

// DynamicIndexOf returns the column index carrying the dynamic key.
func (l *Layout) DynamicIndexOf(key string) (int, bool) {
	i, ok := l.keys.Index(key)
	if !ok {
		return -1, false
	}
	return l.DynamicColumn(i), true
}

// Keys returns the dynamic keys in column order.
func (l *Layout) Keys() []string {
	return l.keys.Keys()
}

// DynamicColumn returns the column index of the i-th dynamic key.
func (l *Layout) DynamicColumn(i int) int {
	return l.DynamicStart + i
}

// PlanLayout resolves the schema against the discovered keys.
func PlanLayout(title string, schema Schema, keys *KeySet) (*Layout, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if keys == nil {
		keys = NewKeySet()
	}

	l := &Layout{
		Title:        title,
		PrefixWidth:  schema.PrefixWidth(),
		DynamicStart: schema.PrefixWidth(),
		DynamicWidth: keys.Len(),
		keys:         keys,
		index:        make(map[Field]int),
	}
	l.SuffixStart = l.DynamicStart + l.DynamicWidth
	l.TotalColumns = l.SuffixStart + schema.SuffixWidth()

	l.Columns = make([]Column, 0, l.TotalColumns)
	l.Columns = append(l.Columns, schema.Prefix...)
	for _, key := range keys.Keys() {
		l.Columns = append(l.Columns, Column{
			Field: fieldDynamic,
			Label: key,
			Group: schema.DynamicGroup,
			Width: schema.DynamicWidth,
		})
	}
	l.Columns = append(l.Columns, schema.Suffix...)

	if len(l.Columns) != l.TotalColumns {
		return nil, fmt.Errorf("%w: resolved %d columns, expected %d", ErrInvalidSchema, len(l.Columns), l.TotalColumns)
	}

	for i, c := range l.Columns {
		if c.Field != fieldDynamic {
			l.index[c.Field] = i
		}
	}

	for r := range l.Header {
		l.Header[r] = make([]string, l.TotalColumns)
	}
	l.Header[TitleRow][0] = title
	if l.TotalColumns > 1 {
		l.Merges = append(l.Merges, MergeRange{StartRow: TitleRow, StartCol: 0, EndRow: TitleRow, EndCol: l.TotalColumns - 1})
	}

	l.planHeaderSegments(0, l.DynamicStart)
	l.planDynamicBlock(schema.DynamicGroup)
	l.planHeaderSegments(l.SuffixStart, l.TotalColumns)

	return l, nil
}

// planHeaderSegments lays out fixed columns in [from, to).
func (l *Layout) planHeaderSegments(from, to int) {
	for c := from; c < to; {
		col := l.Columns[c]
		if col.Group == "" {
			l.Header[SectionRow][c] = col.Label
			l.Merges = append(l.Merges, MergeRange{StartRow: SectionRow, StartCol: c, EndRow: DetailRow, EndCol: c})
			c++
			continue
		}

		end := c
		for end+1 < to && l.Columns[end+1].Group == col.Group {
			end++
		}
		l.Header[SectionRow][c] = col.Group
		if end > c {
			l.Merges = append(l.Merges, MergeRange{StartRow: SectionRow, StartCol: c, EndRow: SectionRow, EndCol: end})
		}
		for i := c; i <= end; i++ {
			l.Header[DetailRow][i] = l.Columns[i].Label
		}
		c = end + 1
	}
}

// planDynamicBlock writes one section label over the whole block and one
// detail label per key, in discovery order.
func (l *Layout) planDynamicBlock(group string) {
	if l.DynamicWidth == 0 {
		return
	}
	l.Header[SectionRow][l.DynamicStart] = group
	if l.DynamicWidth > 1 {
		l.Merges = append(l.Merges, MergeRange{
			StartRow: SectionRow,
			StartCol: l.DynamicStart,
			EndRow:   SectionRow,
			EndCol:   l.SuffixStart - 1,
		})
	}
	for i := 0; i < l.DynamicWidth; i++ {
		c := l.DynamicColumn(i)
		l.Header[DetailRow][c] = l.Columns[c].Label
	}
}
