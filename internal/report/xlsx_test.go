package report

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"qr-attendance/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGeneratorWritesWorkbook(t *testing.T) {
	records := []*models.AttendanceRecord{
		record(1, "E1", "Alice", "2024-01-01", ts("2024-01-01T09:00:00.000Z"), ts("2024-01-01T17:00:00.000Z")),
		record(2, "E2", "Bob", "2024-01-01", ts("2024-01-01T10:00:00.000Z"), ts("2024-01-01T12:30:00.000Z")),
	}

	var buf bytes.Buffer
	gen := NewGenerator("Attendance", time.UTC, nil)
	require.NoError(t, gen.Generate(records, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "Attendance", rows[1][0])
	assert.Equal(t, Headers, rows[3])
	assert.Equal(t, []string{"E1", "Alice", "01-01-2024", "09:00:00 AM", "05:00:00 PM", "8.00"}, rows[4])
	assert.Equal(t, []string{"E2", "Bob", "01-01-2024", "10:00:00 AM", "12:30:00 PM", "2.50"}, rows[5])
	assert.Equal(t, []string{"", "", "", "", "TOTAL", "10.50"}, rows[6])

	merges, err := f.GetMergeCells(SheetName)
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "A2", merges[0].GetStartAxis())
	assert.Equal(t, "F2", merges[0].GetEndAxis())

	width, err := f.GetColWidth(SheetName, "A")
	require.NoError(t, err)
	assert.Equal(t, float64(16), width)

	styleID, err := f.GetCellStyle(SheetName, "A4")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.Len(t, style.Border, 4)

	titleID, err := f.GetCellStyle(SheetName, "A2")
	require.NoError(t, err)
	title, err := f.GetStyle(titleID)
	require.NoError(t, err)
	assert.Equal(t, float64(20), title.Font.Size)
}

type failingEncoder struct{}

func (failingEncoder) Encode(*Document, io.Writer) error {
	return errors.New("boom")
}

func TestGeneratorEncodeFailureWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	gen := NewGenerator("", time.UTC, failingEncoder{})

	err := gen.Generate(nil, &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestGeneratorPropagatesWriteFailure(t *testing.T) {
	gen := NewGenerator("", time.UTC, nil)
	assert.Error(t, gen.Generate(nil, failingWriter{}))
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, "attachment; filename=attendance.xlsx", ContentDisposition())
}
