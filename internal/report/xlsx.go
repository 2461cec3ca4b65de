package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	Filename    = "attendance.xlsx"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ContentDisposition — заголовок для отдачи отчёта как вложения
func ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%s", Filename)
}

// Encoder сериализует документ в конкретный формат
type Encoder interface {
	Encode(doc *Document, w io.Writer) error
}

// XLSXEncoder пишет документ в формате Office Open XML через excelize
type XLSXEncoder struct{}

func (XLSXEncoder) Encode(doc *Document, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.SheetName
	if sheet == "" {
		sheet = SheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	styles := make(map[Style]int)
	styleID := func(s Style) (int, error) {
		if id, ok := styles[s]; ok {
			return id, nil
		}
		id, err := f.NewStyle(toExcelizeStyle(s))
		if err != nil {
			return 0, fmt.Errorf("create style: %w", err)
		}
		styles[s] = id
		return id, nil
	}

	for i, row := range doc.Rows {
		for j, c := range row.Cells {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}

			if c.Value != "" {
				if err := f.SetCellStr(sheet, cell, c.Value); err != nil {
					return fmt.Errorf("set cell %s: %w", cell, err)
				}
			}

			if c.Style.IsZero() {
				continue
			}
			id, err := styleID(c.Style)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
				return fmt.Errorf("style cell %s: %w", cell, err)
			}
		}
	}

	for _, m := range doc.Merges {
		from, err := excelize.CoordinatesToCellName(m.FromCol, m.Row)
		if err != nil {
			return err
		}
		to, err := excelize.CoordinatesToCellName(m.ToCol, m.Row)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet, from, to); err != nil {
			return fmt.Errorf("merge %s:%s: %w", from, to, err)
		}
	}

	for i, col := range doc.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return fmt.Errorf("set width of column %s: %w", name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func toExcelizeStyle(s Style) *excelize.Style {
	style := &excelize.Style{
		Font: &excelize.Font{
			Bold:  s.Bold,
			Size:  s.FontSize,
			Color: s.FontColor,
		},
	}

	if s.FillColor != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{s.FillColor}, Pattern: 1}
	}

	if s.Border {
		style.Border = []excelize.Border{
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
		}
	}

	if s.HAlign != "" || s.VAlign != "" {
		style.Alignment = &excelize.Alignment{Horizontal: s.HAlign, Vertical: s.VAlign}
	}

	return style
}
