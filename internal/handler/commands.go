package handler

import (
	"fmt"
	"strconv"
	"strings"

	"qr-attendance/internal/models"
	"qr-attendance/internal/report"
	"qr-attendance/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := strings.TrimSpace(message.CommandArguments())
	chatID := message.Chat.ID

	switch command {
	case "start", "help":
		h.sendHelpMessage(chatID)
	case "in":
		h.scan(chatID, args, models.ScanIn)
	case "out":
		h.scan(chatID, args, models.ScanOut)
	case "today":
		h.showToday(chatID)
	case "stats":
		h.showStats(chatID, args)
	case "delete":
		h.deleteRecord(chatID, args)
	case "undo":
		h.askUndo(chatID)
	case "export":
		h.export(chatID, args)
	default:
		h.reply(chatID, "❓ Неизвестная команда. Используйте /help.")
	}
}

func (h *Handler) sendHelpMessage(chatID int64) {
	h.reply(chatID, `📋 Команды журнала посещаемости:

/in ID|Имя — отметить приход
/out ID|Имя — отметить уход
/today — отметки за сегодня
/stats [ГГГГ-ММ-ДД] — сколько пришло и ушло
/delete ID — удалить запись
/undo — удалить последнюю запись
/export [с] [по] — отчёт Excel за период`)
}

func (h *Handler) scan(chatID int64, payload string, scanType models.ScanType) {
	message, err := h.ledger.RecordScan(payload, scanType)
	if err != nil {
		if service.IsDomainError(err) {
			h.reply(chatID, "❌ "+err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to record scan from telegram")
		h.reply(chatID, "❌ Ошибка записи, попробуйте позже.")
		return
	}

	h.reply(chatID, "✅ "+message)
}

func (h *Handler) showToday(chatID int64) {
	records, err := h.ledger.RecordsForDate(h.ledger.Today())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get today's records")
		h.reply(chatID, "❌ Не удалось получить отметки.")
		return
	}

	h.reply(chatID, h.formatRecordList(records))
}

func (h *Handler) showStats(chatID int64, args string) {
	date := args
	if date == "" {
		date = h.ledger.Today()
	}

	stats, err := h.ledger.DailyStats(date)
	if err != nil {
		if service.IsDomainError(err) {
			h.reply(chatID, "❌ Дата должна быть в формате ГГГГ-ММ-ДД")
			return
		}
		h.logger.WithError(err).Error("Failed to get daily stats")
		h.reply(chatID, "❌ Не удалось получить статистику.")
		return
	}

	h.reply(chatID, fmt.Sprintf("📊 %s\n\n🟢 Пришли: %d\n✅ Ушли: %d",
		report.FormatDate(date), stats.InCount, stats.OutCount))
}

func (h *Handler) deleteRecord(chatID int64, args string) {
	id, err := strconv.ParseUint(args, 10, 64)
	if err != nil || id == 0 {
		h.reply(chatID, "❌ Укажите номер записи: /delete 12")
		return
	}

	if err := h.ledger.DeleteRecord(uint(id)); err != nil {
		h.logger.WithError(err).WithField("id", id).Error("Failed to delete record")
		h.reply(chatID, "❌ Не удалось удалить запись.")
		return
	}

	h.reply(chatID, fmt.Sprintf("🗑 Запись #%d удалена.", id))
}

func (h *Handler) askUndo(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "↩️ Удалить последнюю созданную запись?")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Да", callbackConfirmUndo),
			tgbotapi.NewInlineKeyboardButtonData("❌ Нет", callbackCancelUndo),
		),
	)
	h.send(msg)
}

func (h *Handler) confirmUndo(chatID int64) {
	if err := h.ledger.UndoLast(); err != nil {
		h.logger.WithError(err).Error("Failed to undo last record")
		h.reply(chatID, "❌ Не удалось отменить последнюю запись.")
		return
	}

	h.reply(chatID, "↩️ Последняя запись удалена.")
}

func (h *Handler) export(chatID int64, args string) {
	var from, to string
	parts := strings.Fields(args)
	if len(parts) > 0 {
		from = parts[0]
	}
	if len(parts) > 1 {
		to = parts[1]
	}

	records, err := h.ledger.RecordsInRange(from, to)
	if err != nil {
		if service.IsDomainError(err) {
			h.reply(chatID, "❌ Даты должны быть в формате ГГГГ-ММ-ДД")
			return
		}
		h.logger.WithError(err).Error("Failed to get records for export")
		h.reply(chatID, "❌ Не удалось выгрузить отчёт.")
		return
	}

	data, err := h.reports.Bytes(records)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build report")
		h.reply(chatID, "❌ Не удалось сформировать отчёт.")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"from":    from,
		"to":      to,
		"records": len(records),
	}).Info("Report sent to telegram")

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: report.Filename, Bytes: data})
	doc.Caption = fmt.Sprintf("📎 Записей: %d", len(records))
	h.send(doc)
}

// formatRecordList форматирует список отметок
func (h *Handler) formatRecordList(records []*models.AttendanceRecord) string {
	if len(records) == 0 {
		return "📭 Сегодня отметок пока нет"
	}

	loc := h.ledger.Location()

	var result strings.Builder
	result.WriteString("📋 Отметки за сегодня:\n\n")

	for _, r := range records {
		in := "—"
		if t, ok := r.ClockInTime(); ok {
			in = t.In(loc).Format("15:04")
		}

		statusEmoji := "🟢"
		out := "на работе"
		if t, ok := r.ClockOutTime(); ok {
			statusEmoji = "✅"
			out = t.In(loc).Format("15:04")
		}

		fmt.Fprintf(&result, "#%d %s %s (%s) %s → %s", r.ID, statusEmoji, r.EmployeeName, r.EmployeeID, in, out)
		if hours, ok := r.WorkedHours(); ok {
			fmt.Fprintf(&result, " · %s ч", hours.StringFixed(2))
		}
		result.WriteString("\n")
	}

	return result.String()
}
