package report

import (
	"time"
	"unicode/utf8"

	"qr-attendance/internal/models"

	"github.com/shopspring/decimal"
)

const (
	DefaultTitle = "Attendance Report"
	SheetName    = "Attendance"

	dateLayout  = "02-01-2006"
	clockLayout = "03:04:05 PM"
	totalLabel  = "TOTAL"

	emptyCellWidth = 10
	widthPadding   = 5
)

var Headers = []string{"Employee ID", "Name", "Date", "Clock In", "Clock Out", "Total Hours"}

var (
	titleStyle  = Style{Bold: true, FontSize: 20, HAlign: "center", VAlign: "center"}
	headerStyle = Style{
		Bold:      true,
		FontColor: "#FFFFFF",
		FillColor: "#27AE60",
		Border:    true,
		HAlign:    "center",
	}
	totalStyle = Style{Bold: true, HAlign: "center"}
)

// Layout описывает параметры раскладки отчёта
type Layout struct {
	Title    string
	Location *time.Location // в этом поясе выводится время прихода/ухода
}

// Build превращает записи в документ: строка заголовка, шапка, по строке на запись
// в исходном порядке и строка итога. Функция чистая, ничего не сортирует.
func (l Layout) Build(records []*models.AttendanceRecord) *Document {
	title := l.Title
	if title == "" {
		title = DefaultTitle
	}
	loc := l.Location
	if loc == nil {
		loc = time.Local
	}

	width := len(Headers)
	doc := &Document{
		SheetName: SheetName,
		Columns:   make([]Column, width),
	}

	doc.Rows = append(doc.Rows, Row{})
	doc.Rows = append(doc.Rows, Row{Cells: []Cell{{Value: title, Style: titleStyle}}})
	doc.Merges = append(doc.Merges, Merge{Row: len(doc.Rows), FromCol: 1, ToCol: width})
	doc.Rows = append(doc.Rows, Row{})

	header := Row{Cells: make([]Cell, width)}
	for i, h := range Headers {
		header.Cells[i] = Cell{Value: h, Style: headerStyle}
	}
	doc.Rows = append(doc.Rows, header)

	total := decimal.Zero
	for _, r := range records {
		hours := ""
		if worked, ok := r.WorkedHours(); ok {
			total = total.Add(worked)
			hours = worked.StringFixed(2)
		}

		doc.Rows = append(doc.Rows, Row{Cells: []Cell{
			{Value: r.EmployeeID},
			{Value: r.EmployeeName},
			{Value: FormatDate(r.Date)},
			{Value: formatClock(r.ClockInTime, loc)},
			{Value: formatClock(r.ClockOutTime, loc)},
			{Value: hours},
		}})
	}

	totalRow := Row{Cells: make([]Cell, width)}
	for i := range totalRow.Cells {
		totalRow.Cells[i].Style = totalStyle
	}
	totalRow.Cells[width-2].Value = totalLabel
	totalRow.Cells[width-1].Value = total.StringFixed(2)
	doc.Rows = append(doc.Rows, totalRow)

	doc.autoSizeColumns()
	return doc
}

// autoSizeColumns: ширина колонки = самое длинное значение + отступ.
// Пустая ячейка считается шириной emptyCellWidth, объединённая — значением главной ячейки.
func (d *Document) autoSizeColumns() {
	for col := 1; col <= len(d.Columns); col++ {
		longest := 0
		for row := 1; row <= len(d.Rows); row++ {
			value, merged := d.mergedValue(row, col)
			if !merged {
				cells := d.Rows[row-1].Cells
				if col-1 < len(cells) {
					value = cells[col-1].Value
				}
			}

			n := emptyCellWidth
			if value != "" {
				n = utf8.RuneCountInString(value)
			}
			if n > longest {
				longest = n
			}
		}
		d.Columns[col-1].Width = float64(longest + widthPadding)
	}
}

// FormatDate выводит дату как DD-MM-YYYY. Принимает YYYY-MM-DD или RFC 3339;
// нераспознанное значение возвращается как есть.
func FormatDate(date string) string {
	if t, err := time.Parse(models.DateLayout, date); err == nil {
		return t.Format(dateLayout)
	}
	if t, err := time.Parse(time.RFC3339Nano, date); err == nil {
		return t.Format(dateLayout)
	}
	return date
}

func formatClock(get func() (time.Time, bool), loc *time.Location) string {
	t, ok := get()
	if !ok {
		return ""
	}
	return t.In(loc).Format(clockLayout)
}
