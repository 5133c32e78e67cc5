package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/EugenyBaz/ChekhovAgent/internal/botconfig_parser"
	"github.com/EugenyBaz/ChekhovAgent/internal/logger"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Assistant - обработка диалога
type Assistant interface {
	Start(userID int64) string
	Reply(ctx context.Context, userID int64, text string) string
}

// Handler связывает сообщения Telegram с ассистентом
type Handler struct {
	assistant Assistant
	texts     *botconfig_parser.Holder
}

func NewHandler(a Assistant, texts *botconfig_parser.Holder) *Handler {
	return &Handler{assistant: a, texts: texts}
}

// New создает клиента Telegram с обработчиками /start и текста
func New(token string, h *Handler, opts ...tgbot.Option) (*tgbot.Bot, error) {
	opts = append([]tgbot.Option{tgbot.WithDefaultHandler(h.messageHandler)}, opts...)

	b, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, err
	}
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "start", tgbot.MatchTypeCommand, h.startHandler)

	return b, nil
}

func (h *Handler) startHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	sendMessage(ctx, b, update.Message.Chat.ID, h.Start(userID(update.Message)))
}

func (h *Handler) messageHandler(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	answer := h.Text(ctx, userID(update.Message), update.Message.Text)
	if answer != "" {
		sendMessage(ctx, b, update.Message.Chat.ID, answer)
	}
}

// Start - ответ на /start
func (h *Handler) Start(userID int64) string {
	logger.Event("Пользователь", userID, "начал диалог")
	return h.assistant.Start(userID)
}

// Text - ответ на произвольное сообщение. Паника внутри хода не роняет бота:
// пользователь получает извинение, подробности пишутся в лог.
func (h *Handler) Text(ctx context.Context, userID int64, text string) (answer string) {
	texts := h.texts.Current()

	text = strings.TrimSpace(text)
	if text == "" {
		return texts.ErrorMessages.NotText
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warning(fmt.Sprintf("Ошибка при обработке сообщения пользователя %d: %v\n%s", userID, r, debug.Stack()))
			answer = texts.ErrorMessages.Processing
		}
	}()

	logger.Info("User", userID, "query:", text)
	return h.assistant.Reply(ctx, userID, text)
}

func userID(msg *models.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}

func sendMessage(ctx context.Context, b *tgbot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		logger.Warning("Error while send message", chatID, err)
	}
}
