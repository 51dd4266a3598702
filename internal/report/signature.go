package report

// DefaultRoleWidth is the number of columns each sign-off role spans.
const DefaultRoleWidth = 3

// SignatureRole is one sign-off slot under the totals row.
type SignatureRole struct {
	Title string `mapstructure:"title" json:"title"`
	Name  string `mapstructure:"name" json:"name"`
}

// DefaultSignatureRoles is the sign-off order used when none is configured.
func DefaultSignatureRoles() []SignatureRole {
	return []SignatureRole{
		{Title: "Request by"},
		{Title: "Team lead"},
		{Title: "Manager"},
		{Title: "Approver"},
	}
}

// Span is a placed block: Slot is the block's position in the input order,
// Start and End are inclusive column indices.
type Span struct {
	Slot  int
	Start int
	End   int
}

// Distribute spreads count blocks of the given width evenly across total
// columns. Blocks that would run past the last column are dropped; the result
// never contains overlapping spans.
func Distribute(total, count, width int) []Span {
	if total <= 0 || count <= 0 || width <= 0 {
		return nil
	}

	step := floorDiv(total-count*width, count+1)
	if step < 0 {
		step = 0
	}

	spans := make([]Span, 0, count)
	for i := 0; i < count; i++ {
		start := step*(i+1) + width*i
		end := start + width - 1
		if end >= total {
			continue
		}
		spans = append(spans, Span{Slot: i, Start: start, End: end})
	}
	return spans
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// PlacedRole is a role that fit on the sheet.
type PlacedRole struct {
	Role  SignatureRole
	Start int
	End   int
}

// SignatureBlock is the planned sign-off footer.
type SignatureBlock struct {
	Roles []PlacedRole
	Width int
}

// PlanSignatures places the roles across totalColumns. Roles that do not fit
// are left out.
func PlanSignatures(totalColumns int, roles []SignatureRole, width int) SignatureBlock {
	block := SignatureBlock{Width: width}
	for _, s := range Distribute(totalColumns, len(roles), width) {
		block.Roles = append(block.Roles, PlacedRole{Role: roles[s.Slot], Start: s.Start, End: s.End})
	}
	return block
}

// Rows renders the title and name rows plus their merges, given the sheet row
// indices the bands assigned to them.
func (b SignatureBlock) Rows(totalColumns, titleRow, nameRow int) (titles, names []any, merges []MergeRange) {
	titles = blankRow(totalColumns)
	names = blankRow(totalColumns)
	for _, p := range b.Roles {
		titles[p.Start] = p.Role.Title
		names[p.Start] = p.Role.Name
		if p.End > p.Start {
			merges = append(merges,
				MergeRange{StartRow: titleRow, StartCol: p.Start, EndRow: titleRow, EndCol: p.End},
				MergeRange{StartRow: nameRow, StartCol: p.Start, EndRow: nameRow, EndCol: p.End},
			)
		}
	}
	return titles, names, merges
}

func blankRow(n int) []any {
	row := make([]any, n)
	for i := range row {
		row[i] = ""
	}
	return row
}
