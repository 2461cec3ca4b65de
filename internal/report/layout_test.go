package report

import (
	"testing"
	"time"

	"qr-attendance/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) *string { return &s }

func record(id uint, employeeID, name, date string, in, out *string) *models.AttendanceRecord {
	return &models.AttendanceRecord{
		ID:           id,
		EmployeeID:   employeeID,
		EmployeeName: name,
		Date:         date,
		ClockInTS:    in,
		ClockOutTS:   out,
	}
}

func values(row Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Value
	}
	return out
}

func TestBuildLayout(t *testing.T) {
	records := []*models.AttendanceRecord{
		record(2, "E2", "Bob", "2024-01-01", ts("2024-01-01T09:30:00.000Z"), nil),
		record(1, "E1", "Alice", "2024-01-01", ts("2024-01-01T09:00:00.000Z"), ts("2024-01-01T17:00:00.000Z")),
	}

	doc := Layout{Title: "Farm Attendance", Location: time.UTC}.Build(records)

	require.Len(t, doc.Rows, 7)
	assert.Empty(t, doc.Rows[0].Cells)
	assert.Equal(t, "Farm Attendance", doc.Rows[1].Cells[0].Value)
	assert.Equal(t, titleStyle, doc.Rows[1].Cells[0].Style)
	assert.Equal(t, []Merge{{Row: 2, FromCol: 1, ToCol: 6}}, doc.Merges)
	assert.Empty(t, doc.Rows[2].Cells)

	assert.Equal(t, Headers, values(doc.Rows[3]))
	for _, c := range doc.Rows[3].Cells {
		assert.Equal(t, headerStyle, c.Style)
	}

	// порядок строк — как у входа
	assert.Equal(t, []string{"E2", "Bob", "01-01-2024", "09:30:00 AM", "", ""}, values(doc.Rows[4]))
	assert.Equal(t, []string{"E1", "Alice", "01-01-2024", "09:00:00 AM", "05:00:00 PM", "8.00"}, values(doc.Rows[5]))

	assert.Equal(t, []string{"", "", "", "", "TOTAL", "8.00"}, values(doc.Rows[6]))
	for _, c := range doc.Rows[6].Cells {
		assert.Equal(t, totalStyle, c.Style)
	}
}

func TestBuildDefaultsTitle(t *testing.T) {
	doc := Layout{}.Build(nil)
	assert.Equal(t, DefaultTitle, doc.Rows[1].Cells[0].Value)
	assert.Equal(t, []string{"", "", "", "", "TOTAL", "0.00"}, values(doc.Rows[len(doc.Rows)-1]))
}

func TestBuildRoundsTotalOnce(t *testing.T) {
	// 18 секунд = 0.005 ч: каждая строка 0.01, а сумма 0.015 -> 0.02, а не 0.03
	var records []*models.AttendanceRecord
	for i := 0; i < 3; i++ {
		records = append(records, record(uint(i+1), "E", "N", "2024-01-01",
			ts("2024-01-01T09:00:00.000Z"), ts("2024-01-01T09:00:18.000Z")))
	}

	doc := Layout{Location: time.UTC}.Build(records)

	for _, row := range doc.Rows[4:7] {
		assert.Equal(t, "0.01", row.Cells[5].Value)
	}
	assert.Equal(t, "0.02", doc.Rows[7].Cells[5].Value)
}

func TestBuildKeepsNegativeDuration(t *testing.T) {
	records := []*models.AttendanceRecord{
		record(1, "E1", "Alice", "2024-01-01", ts("2024-01-01T17:00:00.000Z"), ts("2024-01-01T09:00:00.000Z")),
	}

	doc := Layout{Location: time.UTC}.Build(records)
	assert.Equal(t, "-8.00", doc.Rows[4].Cells[5].Value)
	assert.Equal(t, "-8.00", doc.Rows[5].Cells[5].Value)
}

func TestBuildRendersClockInLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	records := []*models.AttendanceRecord{
		record(1, "E1", "Alice", "2024-01-01", ts("2024-01-01T14:05:09.000Z"), nil),
	}

	doc := Layout{Location: loc}.Build(records)
	assert.Equal(t, "09:05:09 AM", doc.Rows[4].Cells[3].Value)
}

func TestAutoSizeColumns(t *testing.T) {
	records := []*models.AttendanceRecord{
		record(1, "E1", "Alice", "2024-01-01", ts("2024-01-01T09:00:00.000Z"), ts("2024-01-01T17:00:00.000Z")),
	}

	doc := Layout{Title: "T", Location: time.UTC}.Build(records)

	// A: "Employee ID"; B: пустые ячейки (10) длиннее "Alice"; C: "01-01-2024"/пустые;
	// D,E: "09:00:00 AM"; F: "Total Hours"
	want := []float64{16, 15, 15, 16, 16, 16}
	for i, col := range doc.Columns {
		assert.Equal(t, want[i], col.Width, "column %d", i+1)
	}

	long := Layout{Title: "Rombola Family Farms Attendance Report", Location: time.UTC}.Build(records)
	for i, col := range long.Columns {
		assert.Equal(t, float64(len("Rombola Family Farms Attendance Report")+5), col.Width, "column %d", i+1)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05-03-2024", FormatDate("2024-03-05"))
	assert.Equal(t, "05-03-2024", FormatDate("2024-03-05T10:00:00Z"))
	assert.Equal(t, "garbage", FormatDate("garbage"))
}
