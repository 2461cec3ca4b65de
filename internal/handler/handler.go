package handler

import (
	"time"

	"qr-attendance/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender — часть tgbotapi.BotAPI, которой пользуется обработчик
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Ledger interface {
	RecordScan(payload string, scanType models.ScanType) (string, error)
	Today() string
	Location() *time.Location
	RecordsForDate(date string) ([]*models.AttendanceRecord, error)
	DailyStats(date string) (models.DailyStats, error)
	RecordsInRange(from, to string) ([]*models.AttendanceRecord, error)
	DeleteRecord(id uint) error
	UndoLast() error
}

type ReportGenerator interface {
	Bytes(records []*models.AttendanceRecord) ([]byte, error)
}

const (
	callbackConfirmUndo = "confirm_undo"
	callbackCancelUndo  = "cancel_undo"
)

type Handler struct {
	bot         Sender
	ledger      Ledger
	reports     ReportGenerator
	adminChatID int64
	logger      *logrus.Logger
}

func NewHandler(bot Sender, ledger Ledger, reports ReportGenerator, adminChatID int64) *Handler {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.GetLevel())

	return &Handler{
		bot:         bot,
		ledger:      ledger,
		reports:     reports,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

// HandleUpdates обрабатывает обновления, пока канал не закрыт
func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		// Обработка callback query (для inline кнопок)
		if update.CallbackQuery != nil {
			h.handleCallbackQuery(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Message.Chat == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	if !h.authorized(chatID) {
		return
	}

	// Убираем клавиатуру
	editMsg := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup())
	h.send(editMsg)

	switch callback.Data {
	case callbackConfirmUndo:
		h.confirmUndo(chatID)
	case callbackCancelUndo:
		h.reply(chatID, "❌ Отмена последней отметки отменена.")
	}

	// Отвечаем на callback (убираем "часики" у кнопки)
	if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		h.logger.WithError(err).Error("Failed to answer callback query")
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	chatID := message.Chat.ID

	fields := logrus.Fields{"chat_id": chatID}
	if message.From != nil {
		fields["user"] = message.From.UserName
	}
	h.logger.WithFields(fields).Info(message.Text)

	if !h.authorized(chatID) {
		h.logger.WithField("chat_id", chatID).Warn("Rejected message from unknown chat")
		h.reply(chatID, "⛔ Нет доступа.")
		return
	}

	if message.IsCommand() {
		h.handleCommand(message)
		return
	}

	h.reply(chatID, "Используйте /help, чтобы увидеть список команд.")
}

func (h *Handler) authorized(chatID int64) bool {
	return h.adminChatID != 0 && chatID == h.adminChatID
}

func (h *Handler) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.WithError(err).Error("Failed to send telegram message")
	}
}
