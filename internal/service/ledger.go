package service

import (
	"errors"
	"time"

	"qr-attendance/internal/models"
	"qr-attendance/internal/observability"
	"qr-attendance/internal/repository"
	"qr-attendance/pkg/clock"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	MsgClockInSuccessful  = "Clock In successful"
	MsgClockOutSuccessful = "Clock Out successful"
)

// Ledger ведёт журнал прихода/ухода: один цикл на сотрудника в календарный день
type Ledger struct {
	repo   repository.AttendanceRepository
	clock  clock.Clock
	locks  *keyLock
	logger *logrus.Logger
}

func NewLedger(repo repository.AttendanceRepository, clk clock.Clock) *Ledger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.GetLevel())

	return &Ledger{
		repo:   repo,
		clock:  clk,
		locks:  newKeyLock(),
		logger: logger,
	}
}

// Today возвращает сегодняшнюю дату по часам журнала
func (l *Ledger) Today() string {
	return l.clock.Now().Format(models.DateLayout)
}

// Location — часовой пояс, в котором журнал считает дни
func (l *Ledger) Location() *time.Location {
	return l.clock.Now().Location()
}

// RecordScan применяет скан QR-кода. Нарушение правил цикла возвращается как *DomainError.
func (l *Ledger) RecordScan(payload string, scanType models.ScanType) (string, error) {
	employeeID, employeeName, err := ParseScanPayload(payload)
	if err != nil {
		l.logger.WithField("payload", payload).Warn("Rejected malformed scan payload")
		observability.RecordScan(string(scanType), observability.OutcomeRejected)
		return "", err
	}

	if !scanType.Valid() {
		l.logger.WithField("type", scanType).Warn("Rejected unknown scan type")
		observability.RecordScan(string(scanType), observability.OutcomeRejected)
		return "", ErrInvalidScanType
	}

	now := l.clock.Now()
	date := now.Format(models.DateLayout)
	ts := models.FormatTimestamp(now)

	fields := logrus.Fields{
		"employee_id": employeeID,
		"date":        date,
		"type":        scanType,
	}
	l.logger.WithFields(fields).Info("Processing scan")

	unlock := l.locks.Lock(employeeID + payloadDelimiter + date)
	defer unlock()

	var message string
	err = l.repo.WithTransaction(func(repo repository.AttendanceRepository) error {
		record, err := repo.GetByEmployeeAndDate(employeeID, date)
		if err != nil {
			return err
		}

		switch scanType {
		case models.ScanIn:
			message, err = clockIn(repo, record, employeeID, employeeName, date, ts)
		case models.ScanOut:
			message, err = clockOut(repo, record, ts)
		}
		return err
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = ErrAlreadyClockedIn
	}

	switch {
	case err == nil:
		l.logger.WithFields(fields).Info(message)
		observability.RecordScan(string(scanType), observability.OutcomeAccepted)
		return message, nil
	case IsDomainError(err):
		l.logger.WithFields(fields).WithError(err).Warn("Scan rejected")
		observability.RecordScan(string(scanType), observability.OutcomeRejected)
		return "", err
	default:
		l.logger.WithFields(fields).WithError(err).Error("Failed to record scan")
		observability.RecordScan(string(scanType), observability.OutcomeFailed)
		return "", err
	}
}

func clockIn(repo repository.AttendanceRepository, existing *models.AttendanceRecord, employeeID, employeeName, date, ts string) (string, error) {
	// и IN, и OUT уже содержат время прихода: второго цикла за день нет
	if existing != nil {
		return "", ErrAlreadyClockedIn
	}

	record := &models.AttendanceRecord{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Date:         date,
		ClockInTS:    &ts,
	}
	if err := repo.Create(record); err != nil {
		return "", err
	}

	return MsgClockInSuccessful, nil
}

func clockOut(repo repository.AttendanceRepository, existing *models.AttendanceRecord, ts string) (string, error) {
	if existing == nil {
		return "", ErrClockInNotFound
	}
	if existing.HasClockedOut() {
		return "", ErrAlreadyClockedOut
	}

	if err := repo.SetClockOut(existing.ID, ts); err != nil {
		return "", err
	}

	return MsgClockOutSuccessful, nil
}

// RecordsForDate возвращает записи за дату, новые первыми
func (l *Ledger) RecordsForDate(date string) ([]*models.AttendanceRecord, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	l.logger.WithField("date", date).Debug("Getting records for date")
	return l.repo.GetByDate(date)
}

// DailyStats считает приходы и уходы за дату
func (l *Ledger) DailyStats(date string) (models.DailyStats, error) {
	if err := validateDate(date); err != nil {
		return models.DailyStats{}, err
	}

	l.logger.WithField("date", date).Debug("Getting daily stats")
	return l.repo.GetStatsByDate(date)
}

// RecordsInRange возвращает записи с датой в [from, to] включительно.
// Пустая граница открывает интервал, перепутанные границы меняются местами.
func (l *Ledger) RecordsInRange(from, to string) ([]*models.AttendanceRecord, error) {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if err := validateDate(d); err != nil {
			return nil, err
		}
	}

	// даты одинаковой ширины сравниваются как строки
	if from != "" && to != "" && from > to {
		from, to = to, from
	}

	l.logger.WithFields(logrus.Fields{
		"from": from,
		"to":   to,
	}).Debug("Getting records in range")

	return l.repo.GetInRange(from, to)
}

// DeleteRecord удаляет запись по id; отсутствие записи не ошибка
func (l *Ledger) DeleteRecord(id uint) error {
	deleted, err := l.repo.DeleteByID(id)
	if err != nil {
		l.logger.WithError(err).WithField("id", id).Error("Failed to delete record")
		return err
	}

	if deleted {
		observability.RecordDeletion("delete")
	}
	return nil
}

// UndoLast удаляет последнюю созданную запись во всём журнале.
// Откат не привязан ни к сотруднику, ни к дню.
func (l *Ledger) UndoLast() error {
	id, err := l.repo.DeleteLatest()
	if err != nil {
		l.logger.WithError(err).Error("Failed to undo last record")
		return err
	}

	if id != 0 {
		l.logger.WithField("id", id).Info("Last record undone")
		observability.RecordDeletion("undo")
	}
	return nil
}

func validateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
