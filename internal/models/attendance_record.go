package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout — ключ партиции: календарная дата записи
	DateLayout = "2006-01-02"
	// TimestampLayout — ISO-8601 в UTC с миллисекундами
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

var millisPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

type AttendanceRecord struct {
	ID           uint    `gorm:"primarykey;autoIncrement" json:"id"`
	EmployeeID   string  `gorm:"column:employee_id;not null;uniqueIndex:idx_attendance_employee_date" json:"employee_id"`
	EmployeeName string  `gorm:"column:employee_name" json:"employee_name"`
	Date         string  `gorm:"column:date;not null;uniqueIndex:idx_attendance_employee_date;index" json:"date"`
	ClockInTS    *string `gorm:"column:clock_in_ts" json:"clock_in_ts"`
	ClockOutTS   *string `gorm:"column:clock_out_ts" json:"clock_out_ts"`
}

func (AttendanceRecord) TableName() string {
	return "attendance"
}

// DailyStats — сколько человек пришло и ушло за день
type DailyStats struct {
	InCount  int64 `json:"inCount"`
	OutCount int64 `json:"outCount"`
}

// FormatTimestamp переводит момент времени в формат хранения
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp разбирает сохранённый момент времени
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func (r *AttendanceRecord) HasClockedIn() bool {
	return r.ClockInTS != nil && *r.ClockInTS != ""
}

func (r *AttendanceRecord) HasClockedOut() bool {
	return r.ClockOutTS != nil && *r.ClockOutTS != ""
}

// ClockInTime возвращает время прихода, если оно есть и корректно
func (r *AttendanceRecord) ClockInTime() (time.Time, bool) {
	if !r.HasClockedIn() {
		return time.Time{}, false
	}
	t, err := ParseTimestamp(*r.ClockInTS)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ClockOutTime возвращает время ухода, если оно есть и корректно
func (r *AttendanceRecord) ClockOutTime() (time.Time, bool) {
	if !r.HasClockedOut() {
		return time.Time{}, false
	}
	t, err := ParseTimestamp(*r.ClockOutTS)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WorkedHours вычисляет отработанные часы без округления.
// Второе значение false, если цикл не завершён. Отрицательная длительность не отсекается.
func (r *AttendanceRecord) WorkedHours() (decimal.Decimal, bool) {
	in, ok := r.ClockInTime()
	if !ok {
		return decimal.Zero, false
	}
	out, ok := r.ClockOutTime()
	if !ok {
		return decimal.Zero, false
	}

	millis := decimal.NewFromInt(out.Sub(in).Milliseconds())
	return millis.Div(millisPerHour), true
}

// State возвращает состояние записи в цикле прихода/ухода
func (r *AttendanceRecord) State() RecordState {
	if r == nil || !r.HasClockedIn() {
		return StateNone
	}
	if r.HasClockedOut() {
		return StateOut
	}
	return StateIn
}
