package httptransport

import (
	"strconv"
	"strings"

	"qr-attendance/internal/models"
	"qr-attendance/internal/report"
	"qr-attendance/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type ScanRequest struct {
	QR   string `json:"qr" validate:"required"`
	Type string `json:"type" validate:"required,oneof=IN OUT"`
}

type DateQuery struct {
	Date string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

type ExportQuery struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// POST /login
func (s *Server) login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	if err := s.validate.Struct(req); err != nil || !s.auth.CheckPassword(req.Password) {
		s.logger.WithField("ip", c.IP()).Warn("Rejected login attempt")
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	return c.SendStatus(fiber.StatusOK)
}

// POST /scan
// Отказы по правилам журнала приходят со статусом 200 и полем error
func (s *Server) scan(c *fiber.Ctx) error {
	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	req.Type = string(models.ParseScanType(req.Type))

	if err := s.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	message, err := s.ledger.RecordScan(req.QR, models.ScanType(req.Type))
	if err != nil {
		if service.IsDomainError(err) {
			return c.JSON(fiber.Map{"error": err.Error()})
		}
		return err
	}

	return c.JSON(fiber.Map{"ok": message})
}

// GET /today
func (s *Server) today(c *fiber.Ctx) error {
	records, err := s.ledger.RecordsForDate(s.ledger.Today())
	if err != nil {
		return err
	}
	return c.JSON(nonNil(records))
}

// GET /stats/today
func (s *Server) statsToday(c *fiber.Ctx) error {
	stats, err := s.ledger.DailyStats(s.ledger.Today())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// GET /records?date=YYYY-MM-DD
func (s *Server) recordsForDate(c *fiber.Ctx) error {
	date, err := s.dateParam(c)
	if err != nil {
		return err
	}

	records, err := s.ledger.RecordsForDate(date)
	if err != nil {
		return domainAsBadRequest(err)
	}
	return c.JSON(nonNil(records))
}

// GET /stats?date=YYYY-MM-DD
func (s *Server) statsForDate(c *fiber.Ctx) error {
	date, err := s.dateParam(c)
	if err != nil {
		return err
	}

	stats, err := s.ledger.DailyStats(date)
	if err != nil {
		return domainAsBadRequest(err)
	}
	return c.JSON(stats)
}

// DELETE /attendance/:id
func (s *Server) deleteRecord(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := s.ledger.DeleteRecord(uint(id)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// POST /undo
func (s *Server) undo(c *fiber.Ctx) error {
	if err := s.ledger.UndoLast(); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// GET /export?from=&to=
func (s *Server) export(c *fiber.Ctx) error {
	var q ExportQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	if err := s.validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	records, err := s.ledger.RecordsInRange(q.From, q.To)
	if err != nil {
		return domainAsBadRequest(err)
	}

	data, err := s.reports.Bytes(records)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"from":    q.From,
		"to":      q.To,
		"records": len(records),
	}).Info("Report exported")

	c.Set(fiber.HeaderContentType, report.ContentType)
	c.Set(fiber.HeaderContentDisposition, report.ContentDisposition())
	return c.Send(data)
}

func (s *Server) dateParam(c *fiber.Ctx) (string, error) {
	var q DateQuery
	if err := c.QueryParser(&q); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	if err := s.validate.Struct(q); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	date := strings.TrimSpace(q.Date)
	if date == "" {
		date = s.ledger.Today()
	}
	return date, nil
}

func domainAsBadRequest(err error) error {
	if service.IsDomainError(err) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

func nonNil(records []*models.AttendanceRecord) []*models.AttendanceRecord {
	if records == nil {
		return []*models.AttendanceRecord{}
	}
	return records
}
