package report

// Spacing between the totals row and the signature rows.
const (
	signatureTitleOffset = 2
	signatureNameOffset  = 5
)

// StyleClass is the presentation class of a sheet row.
type StyleClass int

const (
	StyleDefault StyleClass = iota
	StyleTitle
	StyleHeader
	StyleData
	StyleTotal
	StyleSignatureTitle
	StyleSignatureName
)

func (s StyleClass) String() string {
	switch s {
	case StyleTitle:
		return "title"
	case StyleHeader:
		return "header"
	case StyleData:
		return "data"
	case StyleTotal:
		return "total"
	case StyleSignatureTitle:
		return "signature-title"
	case StyleSignatureName:
		return "signature-name"
	default:
		return "default"
	}
}

// Bands names the row ranges of a sheet. It is computed once from the data row
// count and shared by the plan assembler, the style assigner and the serializer.
type Bands struct {
	DataRows int
}

// NewBands creates the bands for a sheet with n data rows.
func NewBands(n int) Bands {
	if n < 0 {
		n = 0
	}
	return Bands{DataRows: n}
}

func (b Bands) TitleRow() int          { return TitleRow }
func (b Bands) HeaderStart() int       { return SectionRow }
func (b Bands) HeaderEnd() int         { return DetailRow }
func (b Bands) DataStart() int         { return HeaderRows }
func (b Bands) DataEnd() int           { return HeaderRows + b.DataRows }
func (b Bands) TotalsRow() int         { return b.DataEnd() }
func (b Bands) SignatureTitleRow() int { return b.TotalsRow() + signatureTitleOffset }
func (b Bands) SignatureNameRow() int  { return b.TotalsRow() + signatureNameOffset }

// TotalRows is the number of rows in the sheet, up to and including the names row.
func (b Bands) TotalRows() int { return b.SignatureNameRow() + 1 }

// StyleOf maps a row index to its style class.
func (b Bands) StyleOf(row int) StyleClass {
	switch {
	case row == b.TitleRow():
		return StyleTitle
	case row >= b.HeaderStart() && row <= b.HeaderEnd():
		return StyleHeader
	case row >= b.DataStart() && row < b.DataEnd():
		return StyleData
	case row == b.TotalsRow():
		return StyleTotal
	case row == b.SignatureTitleRow():
		return StyleSignatureTitle
	case row == b.SignatureNameRow():
		return StyleSignatureName
	default:
		return StyleDefault
	}
}
