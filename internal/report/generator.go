package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"qr-attendance/internal/models"
	"qr-attendance/internal/observability"

	"github.com/sirupsen/logrus"
)

type Generator struct {
	layout  Layout
	encoder Encoder
	logger  *logrus.Logger
}

func NewGenerator(title string, loc *time.Location, encoder Encoder) *Generator {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.GetLevel())

	if encoder == nil {
		encoder = XLSXEncoder{}
	}

	return &Generator{
		layout:  Layout{Title: title, Location: loc},
		encoder: encoder,
		logger:  logger,
	}
}

// Generate строит отчёт и пишет его в w. Документ целиком собирается в памяти,
// поэтому при ошибке кодирования в w не попадает ни одного байта.
func (g *Generator) Generate(records []*models.AttendanceRecord, w io.Writer) error {
	g.logger.WithField("records", len(records)).Info("Generating attendance report")

	data, err := g.Bytes(records)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		g.logger.WithError(err).Error("Failed to write attendance report")
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// Bytes возвращает готовый файл отчёта
func (g *Generator) Bytes(records []*models.AttendanceRecord) ([]byte, error) {
	doc := g.layout.Build(records)

	var buf bytes.Buffer
	if err := g.encoder.Encode(doc, &buf); err != nil {
		g.logger.WithError(err).Error("Failed to encode attendance report")
		return nil, fmt.Errorf("encode report: %w", err)
	}

	observability.RecordReport(len(records))
	g.logger.WithFields(logrus.Fields{
		"records": len(records),
		"bytes":   buf.Len(),
	}).Info("Attendance report generated")

	return buf.Bytes(), nil
}
