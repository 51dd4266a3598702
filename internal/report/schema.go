package report

import "fmt"

// Field identifies a fixed output column.
type Field string

const (
	FieldSequence          Field = "seq"
	FieldDescriptionEN     Field = "description_en"
	FieldDescriptionVN     Field = "description_vn"
	FieldOldCode           Field = "old_code"
	FieldNewCode           Field = "new_code"
	FieldUnit              Field = "unit"
	FieldRequestedQty      Field = "requested_qty"
	FieldTotalQty          Field = "total_qty"
	FieldSelectedName      Field = "selected_name"
	FieldSelectedPrice     Field = "selected_price"
	FieldAmount            Field = "amount"
	FieldDifference        Field = "difference"
	FieldDifferencePercent Field = "difference_percent"
	FieldRemark            Field = "remark"

	// fieldDynamic marks columns synthesized from the KeySet.
	fieldDynamic Field = "dynamic"
)

// Column is one fixed column. Adjacent columns sharing a non-empty Group are
// rendered under a single section label with their own detail labels beneath;
// ungrouped columns span both header rows.
type Column struct {
	Field Field
	Label string
	Group string
	Width float64
}

// Schema is the fixed prefix and suffix around the dynamic column block.
type Schema struct {
	Prefix       []Column
	Suffix       []Column
	DynamicGroup string
	DynamicWidth float64
}

// PrefixWidth returns the number of fixed columns before the dynamic block.
func (s Schema) PrefixWidth() int { return len(s.Prefix) }

// SuffixWidth returns the number of fixed columns after the dynamic block.
func (s Schema) SuffixWidth() int { return len(s.Suffix) }

// Validate rejects schemas whose column indices could drift: duplicate fields,
// groups split by another column, or an empty prefix (the totals label lives there).
func (s Schema) Validate() error {
	if len(s.Prefix) == 0 {
		return fmt.Errorf("%w: prefix must not be empty", ErrInvalidSchema)
	}

	seen := make(map[Field]bool)
	for _, part := range [][]Column{s.Prefix, s.Suffix} {
		closed := make(map[string]bool)
		prev := ""
		for _, c := range part {
			if c.Field == "" || c.Field == fieldDynamic {
				return fmt.Errorf("%w: column %q has a reserved or empty field", ErrInvalidSchema, c.Label)
			}
			if seen[c.Field] {
				return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, c.Field)
			}
			seen[c.Field] = true

			if c.Group != prev {
				if prev != "" {
					closed[prev] = true
				}
				if c.Group != "" && closed[c.Group] {
					return fmt.Errorf("%w: group %q is not contiguous", ErrInvalidSchema, c.Group)
				}
			}
			prev = c.Group
		}
	}
	return nil
}
