package httptransport

import (
	"context"
	"errors"
	"time"

	"qr-attendance/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Ledger — операции журнала, которые нужны HTTP-слою
type Ledger interface {
	RecordScan(payload string, scanType models.ScanType) (string, error)
	Today() string
	RecordsForDate(date string) ([]*models.AttendanceRecord, error)
	DailyStats(date string) (models.DailyStats, error)
	RecordsInRange(from, to string) ([]*models.AttendanceRecord, error)
	DeleteRecord(id uint) error
	UndoLast() error
}

type ReportGenerator interface {
	Bytes(records []*models.AttendanceRecord) ([]byte, error)
}

type PasswordChecker interface {
	CheckPassword(password string) bool
}

type Server struct {
	app      *fiber.App
	ledger   Ledger
	reports  ReportGenerator
	auth     PasswordChecker
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewServer(ledger Ledger, reports ReportGenerator, auth PasswordChecker, staticDir string) *Server {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.GetLevel())

	s := &Server{
		ledger:   ledger,
		reports:  reports,
		auth:     auth,
		validate: validator.New(),
		logger:   logger,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
	})

	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)

	s.registerRoutes(staticDir)
	return s
}

func (s *Server) registerRoutes(staticDir string) {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.app.Post("/login", s.login)
	s.app.Post("/scan", s.scan)
	s.app.Get("/today", s.today)
	s.app.Get("/stats/today", s.statsToday)
	s.app.Get("/records", s.recordsForDate)
	s.app.Get("/stats", s.statsForDate)
	s.app.Delete("/attendance/:id", s.deleteRecord)
	s.app.Post("/undo", s.undo)
	s.app.Get("/export", s.export)

	if staticDir != "" {
		s.app.Static("/", staticDir)
	}
}

// App отдаёт fiber-приложение (используется в тестах через app.Test)
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.WithField("addr", addr).Info("HTTP server listening")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.Locals("reqid", id)

	start := time.Now()
	err := c.Next()
	if err != nil {
		// ErrorHandler выставит статус; вызываем его здесь, чтобы залогировать итоговый код
		if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"request_id": id,
		"method":     c.Method(),
		"path":       c.OriginalURL(),
		"status":     c.Response().StatusCode(),
		"duration":   time.Since(start).String(),
	}).Info("Request handled")

	return nil
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		s.logger.WithError(err).WithField("path", c.OriginalURL()).Error("Request failed")
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
