package repository

import (
	"errors"

	"qr-attendance/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	// WithTransaction выполняет fn в одной транзакции; repo внутри fn привязан к ней
	WithTransaction(fn func(repo AttendanceRepository) error) error
	Create(record *models.AttendanceRecord) error
	SetClockOut(id uint, clockOutTS string) error
	GetByID(id uint) (*models.AttendanceRecord, error)
	GetByEmployeeAndDate(employeeID, date string) (*models.AttendanceRecord, error)
	GetByDate(date string) ([]*models.AttendanceRecord, error)
	GetStatsByDate(date string) (models.DailyStats, error)
	GetInRange(from, to string) ([]*models.AttendanceRecord, error)
	DeleteByID(id uint) (bool, error)
	DeleteLatest() (uint, error)
}

type GormAttendanceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAttendanceRepository(db *gorm.DB) (*GormAttendanceRepository, error) {
	logger := newLogger()

	// Автомиграция
	if err := db.AutoMigrate(&models.AttendanceRecord{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate attendance table")
		return nil, err
	}

	logger.Info("Attendance repository initialized")

	return &GormAttendanceRepository{
		db:     db,
		logger: logger,
	}, nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.GetLevel())
	return logger
}

func (r *GormAttendanceRepository) WithTransaction(fn func(repo AttendanceRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormAttendanceRepository{db: tx, logger: r.logger})
	})
}

func (r *GormAttendanceRepository) Create(record *models.AttendanceRecord) error {
	r.logger.WithFields(logrus.Fields{
		"employee_id": record.EmployeeID,
		"date":        record.Date,
	}).Info("Creating attendance record")

	result := r.db.Create(record)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create attendance record")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":          record.ID,
		"employee_id": record.EmployeeID,
	}).Info("Attendance record created successfully")

	return nil
}

func (r *GormAttendanceRepository) SetClockOut(id uint, clockOutTS string) error {
	r.logger.WithFields(logrus.Fields{
		"id":           id,
		"clock_out_ts": clockOutTS,
	}).Info("Setting clock out")

	result := r.db.Model(&models.AttendanceRecord{}).
		Where("id = ?", id).
		Update("clock_out_ts", clockOutTS)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to set clock out")
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Attendance record not found for clock out")
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *GormAttendanceRepository) GetByID(id uint) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	result := r.db.First(&record, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Attendance record not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get attendance record by ID")
		return nil, result.Error
	}

	return &record, nil
}

func (r *GormAttendanceRepository) GetByEmployeeAndDate(employeeID, date string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	result := r.db.Where("employee_id = ? AND date = ?", employeeID, date).First(&record)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithFields(logrus.Fields{
			"employee_id": employeeID,
			"date":        date,
		}).Debug("Attendance record not found for employee/date")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get attendance record by employee and date")
		return nil, result.Error
	}

	return &record, nil
}

func (r *GormAttendanceRepository) GetByDate(date string) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord

	result := r.db.Where("date = ?", date).Order("id DESC").Find(&records)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get attendance records by date")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"date":  date,
		"count": len(records),
	}).Debug("Retrieved attendance records by date")

	return records, nil
}

func (r *GormAttendanceRepository) GetStatsByDate(date string) (models.DailyStats, error) {
	var stats models.DailyStats

	result := r.db.Model(&models.AttendanceRecord{}).
		Select("COUNT(clock_in_ts) AS in_count, COUNT(clock_out_ts) AS out_count").
		Where("date = ?", date).
		Scan(&stats)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get attendance stats")
		return models.DailyStats{}, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"date":      date,
		"in_count":  stats.InCount,
		"out_count": stats.OutCount,
	}).Debug("Retrieved attendance stats")

	return stats, nil
}

// GetInRange возвращает записи с from <= date <= to по возрастанию id.
// Пустая граница не ограничивает выборку с этой стороны.
func (r *GormAttendanceRepository) GetInRange(from, to string) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord

	query := r.db.Model(&models.AttendanceRecord{})
	if from != "" {
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		query = query.Where("date <= ?", to)
	}

	result := query.Order("id ASC").Find(&records)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get attendance records in range")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"from":  from,
		"to":    to,
		"count": len(records),
	}).Debug("Retrieved attendance records in range")

	return records, nil
}

// DeleteByID удаляет запись; false, если такой не было
func (r *GormAttendanceRepository) DeleteByID(id uint) (bool, error) {
	r.logger.WithField("id", id).Info("Deleting attendance record by ID")

	result := r.db.Delete(&models.AttendanceRecord{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete attendance record")
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Debug("Attendance record not found for deletion")
		return false, nil
	}

	r.logger.WithField("id", id).Info("Attendance record deleted successfully")
	return true, nil
}

// DeleteLatest удаляет запись с наибольшим id. Возвращает 0, если таблица пуста.
func (r *GormAttendanceRepository) DeleteLatest() (uint, error) {
	var deletedID uint

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var latest models.AttendanceRecord
		result := tx.Order("id DESC").Limit(1).Find(&latest)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Delete(&models.AttendanceRecord{}, latest.ID).Error; err != nil {
			return err
		}
		deletedID = latest.ID
		return nil
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to delete latest attendance record")
		return 0, err
	}

	if deletedID == 0 {
		r.logger.Debug("No attendance records to undo")
		return 0, nil
	}

	r.logger.WithField("id", deletedID).Info("Latest attendance record deleted")
	return deletedID, nil
}
