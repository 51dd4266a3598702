package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Serializer turns a plan into a binary workbook.
type Serializer interface {
	Serialize(plan *WorkbookPlan) ([]byte, error)
}

// ExcelWriter serializes plans to xlsx with excelize
type ExcelWriter struct {
	fontFamily string
	logger     *zap.Logger
}

// NewExcelWriter creates a new ExcelWriter. An empty fontFamily keeps the
// excelize default.
func NewExcelWriter(fontFamily string, logger *zap.Logger) *ExcelWriter {
	return &ExcelWriter{
		fontFamily: fontFamily,
		logger:     logger,
	}
}

const (
	numberFormat  = "#,##0.00"
	percentFormat = `0.00"%"`
)

// styleSet holds one excelize style per class plus a numeric variant where numbers appear.
type styleSet struct {
	text    map[StyleClass]int
	number  map[StyleClass]int
	percent map[StyleClass]int
}

// Serialize renders the plan into xlsx bytes. Nothing is written to disk.
func (w *ExcelWriter) Serialize(plan *WorkbookPlan) ([]byte, error) {
	if plan == nil || len(plan.Rows) == 0 || plan.Layout == nil {
		return nil, ErrEmptyPlan
	}

	w.logger.Debug("Serializing workbook plan",
		zap.String("kind", string(plan.Kind)),
		zap.Int("rows", len(plan.Rows)),
		zap.Int("columns", plan.Layout.TotalColumns),
		zap.Int("merges", len(plan.Merges)))

	file := excelize.NewFile()
	defer file.Close()

	sheet := plan.SheetName
	if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to set sheet name: %w", err)
	}

	styles, err := w.createStyles(file)
	if err != nil {
		return nil, err
	}

	if err := w.writeColumnWidths(file, sheet, plan.ColumnWidths); err != nil {
		return nil, err
	}

	percentCol := -1
	if i, ok := plan.Layout.Index(FieldDifferencePercent); ok {
		percentCol = i
	}

	for r, row := range plan.Rows {
		class := plan.StyleOf(r)
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell at row %d col %d: %w", r, c, err)
			}

			if s, ok := value.(string); ok {
				value = sanitizeCell(s)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}

			if class == StyleDefault {
				continue
			}
			style := styles.text[class]
			if _, numeric := value.(float64); numeric {
				if c == percentCol {
					style = styles.percent[class]
				} else {
					style = styles.number[class]
				}
			}
			if err := file.SetCellStyle(sheet, cell, cell, style); err != nil {
				return nil, fmt.Errorf("failed to style cell %s: %w", cell, err)
			}
		}
	}

	for _, m := range plan.Merges {
		topLeft, err := excelize.CoordinatesToCellName(m.StartCol+1, m.StartRow+1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve merge start: %w", err)
		}
		bottomRight, err := excelize.CoordinatesToCellName(m.EndCol+1, m.EndRow+1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve merge end: %w", err)
		}
		if err := file.MergeCell(sheet, topLeft, bottomRight); err != nil {
			return nil, fmt.Errorf("failed to merge %s:%s: %w", topLeft, bottomRight, err)
		}
	}

	if err := file.SetRowHeight(sheet, plan.Bands.TitleRow()+1, 28); err != nil {
		w.logger.Warn("Failed to set title row height", zap.Error(err))
	}

	topLeft, _ := excelize.CoordinatesToCellName(1, plan.Bands.DataStart()+1)
	if err := file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      plan.Bands.DataStart(),
		TopLeftCell: topLeft,
		ActivePane:  "bottomLeft",
	}); err != nil {
		w.logger.Warn("Failed to freeze header panes", zap.Error(err))
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	w.logger.Info("Workbook serialized",
		zap.String("kind", string(plan.Kind)),
		zap.Int("data_rows", plan.Bands.DataRows),
		zap.Int("bytes", buf.Len()))

	return buf.Bytes(), nil
}

func (w *ExcelWriter) writeColumnWidths(file *excelize.File, sheet string, widths []float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to resolve column %d: %w", i, err)
		}
		if err := file.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}
	return nil
}

func (w *ExcelWriter) createStyles(file *excelize.File) (*styleSet, error) {
	set := &styleSet{
		text:    make(map[StyleClass]int),
		number:  make(map[StyleClass]int),
		percent: make(map[StyleClass]int),
	}

	base := map[StyleClass]excelize.Style{
		StyleTitle: {
			Font:      w.font(true, 16),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		StyleHeader: {
			Font:      w.font(true, 11),
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thinBorders(),
		},
		StyleData: {
			Font:      w.font(false, 10),
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
			Border:    thinBorders(),
		},
		StyleTotal: {
			Font:      w.font(true, 11),
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFF2CC"}, Pattern: 1},
			Alignment: &excelize.Alignment{Vertical: "center"},
			Border:    thinBorders(),
		},
		StyleSignatureTitle: {
			Font:      w.font(true, 11),
			Alignment: &excelize.Alignment{Horizontal: "center"},
		},
		StyleSignatureName: {
			Font:      w.font(false, 11),
			Alignment: &excelize.Alignment{Horizontal: "center"},
		},
	}

	for class, style := range base {
		style := style
		id, err := file.NewStyle(&style)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s style: %w", class, err)
		}
		set.text[class] = id

		numFmt := numberFormat
		style.CustomNumFmt = &numFmt
		if style.Alignment != nil {
			aligned := *style.Alignment
			aligned.Horizontal = "right"
			style.Alignment = &aligned
		}
		if id, err = file.NewStyle(&style); err != nil {
			return nil, fmt.Errorf("failed to create %s number style: %w", class, err)
		}
		set.number[class] = id

		pctFmt := percentFormat
		style.CustomNumFmt = &pctFmt
		if id, err = file.NewStyle(&style); err != nil {
			return nil, fmt.Errorf("failed to create %s percent style: %w", class, err)
		}
		set.percent[class] = id
	}

	return set, nil
}

func (w *ExcelWriter) font(bold bool, size float64) *excelize.Font {
	return &excelize.Font{Bold: bold, Size: size, Family: w.fontFamily}
}

// sanitizeCell keeps user text from being read as a formula.
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
