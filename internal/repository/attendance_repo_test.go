package repository

import (
	"testing"

	"qr-attendance/internal/models"
	"qr-attendance/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) *GormAttendanceRepository {
	t.Helper()
	repo, err := NewGormAttendanceRepository(testsupport.NewSQLite(t))
	require.NoError(t, err)
	return repo
}

func strPtr(s string) *string { return &s }

func seed(t *testing.T, repo *GormAttendanceRepository, employeeID, date string) *models.AttendanceRecord {
	t.Helper()
	record := &models.AttendanceRecord{
		EmployeeID:   employeeID,
		EmployeeName: "Name " + employeeID,
		Date:         date,
		ClockInTS:    strPtr(date + "T09:00:00.000Z"),
	}
	require.NoError(t, repo.Create(record))
	return record
}

func TestCreateAndGetByEmployeeAndDate(t *testing.T) {
	repo := newTestRepo(t)
	created := seed(t, repo, "E1", "2024-01-01")
	assert.NotZero(t, created.ID)

	got, err := repo.GetByEmployeeAndDate("E1", "2024-01-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Name E1", got.EmployeeName)
	assert.Nil(t, got.ClockOutTS)

	missing, err := repo.GetByEmployeeAndDate("E1", "2024-01-02")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateRejectsSecondRecordForSameDay(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, "E1", "2024-01-01")

	err := repo.Create(&models.AttendanceRecord{EmployeeID: "E1", Date: "2024-01-01", ClockInTS: strPtr("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestSetClockOut(t *testing.T) {
	repo := newTestRepo(t)
	record := seed(t, repo, "E1", "2024-01-01")

	require.NoError(t, repo.SetClockOut(record.ID, "2024-01-01T17:00:00.000Z"))

	got, err := repo.GetByID(record.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ClockOutTS)
	assert.Equal(t, "2024-01-01T17:00:00.000Z", *got.ClockOutTS)

	assert.ErrorIs(t, repo.SetClockOut(999, "2024-01-01T17:00:00.000Z"), gorm.ErrRecordNotFound)
}

func TestGetByDateOrdersByIDDesc(t *testing.T) {
	repo := newTestRepo(t)
	first := seed(t, repo, "E1", "2024-01-01")
	second := seed(t, repo, "E2", "2024-01-01")
	third := seed(t, repo, "E3", "2024-01-01")
	seed(t, repo, "E4", "2024-01-02")

	records, err := repo.GetByDate("2024-01-01")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []uint{third.ID, second.ID, first.ID}, []uint{records[0].ID, records[1].ID, records[2].ID})
}

func TestGetStatsByDate(t *testing.T) {
	repo := newTestRepo(t)
	a := seed(t, repo, "E1", "2024-01-01")
	seed(t, repo, "E2", "2024-01-01")
	seed(t, repo, "E3", "2024-01-02")
	require.NoError(t, repo.SetClockOut(a.ID, "2024-01-01T17:00:00.000Z"))

	stats, err := repo.GetStatsByDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, models.DailyStats{InCount: 2, OutCount: 1}, stats)

	empty, err := repo.GetStatsByDate("2023-12-31")
	require.NoError(t, err)
	assert.Equal(t, models.DailyStats{}, empty)
}

func TestGetInRange(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, "E1", "2024-01-01")
	seed(t, repo, "E1", "2024-01-02")
	seed(t, repo, "E1", "2024-01-03")
	seed(t, repo, "E1", "2024-01-10")

	tests := []struct {
		name     string
		from, to string
		dates    []string
	}{
		{"inclusive bounds", "2024-01-02", "2024-01-03", []string{"2024-01-02", "2024-01-03"}},
		{"single day", "2024-01-10", "2024-01-10", []string{"2024-01-10"}},
		{"open from", "", "2024-01-02", []string{"2024-01-01", "2024-01-02"}},
		{"open to", "2024-01-03", "", []string{"2024-01-03", "2024-01-10"}},
		{"all", "", "", []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-10"}},
		{"empty window", "2024-01-04", "2024-01-09", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := repo.GetInRange(tt.from, tt.to)
			require.NoError(t, err)

			var dates []string
			for _, r := range records {
				dates = append(dates, r.Date)
			}
			assert.Equal(t, tt.dates, dates)
		})
	}
}

func TestDeleteByID(t *testing.T) {
	repo := newTestRepo(t)
	record := seed(t, repo, "E1", "2024-01-01")

	deleted, err := repo.DeleteByID(record.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByID(record.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteLatestNeverReusesID(t *testing.T) {
	repo := newTestRepo(t)

	id, err := repo.DeleteLatest()
	require.NoError(t, err)
	assert.Zero(t, id)

	seed(t, repo, "E1", "2024-01-01")
	second := seed(t, repo, "E2", "2024-01-01")

	id, err = repo.DeleteLatest()
	require.NoError(t, err)
	assert.Equal(t, second.ID, id)

	third := seed(t, repo, "E3", "2024-01-01")
	assert.Greater(t, third.ID, second.ID)
}

func TestWithTransactionRollsBack(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.WithTransaction(func(tx AttendanceRepository) error {
		require.NoError(t, tx.Create(&models.AttendanceRecord{EmployeeID: "E1", Date: "2024-01-01", ClockInTS: strPtr("x")}))
		return gorm.ErrInvalidData
	})
	require.ErrorIs(t, err, gorm.ErrInvalidData)

	got, err := repo.GetByEmployeeAndDate("E1", "2024-01-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}
