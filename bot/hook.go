package bot

import (
	"context"
	"net/http"

	"github.com/EugenyBaz/ChekhovAgent/internal/assistant"
	"github.com/EugenyBaz/ChekhovAgent/internal/config"
	"github.com/EugenyBaz/ChekhovAgent/internal/logger"

	"github.com/gin-gonic/gin"
	tgbot "github.com/go-telegram/bot"
)

// Catalog - сводка справочников для проверки данных
type Catalog interface {
	Catalog(ctx context.Context) assistant.Catalog
}

// Dialogs - число активных диалогов
type Dialogs interface {
	Len() int
}

// InitRoutes регистрирует служебные обработчики
func InitRoutes(app *gin.Engine, catalog Catalog, dialogs Dialogs) {
	app.GET("/healthz", func(c *gin.Context) {
		cnf := c.MustGet("cnf").(*config.Conf)

		mode := "polling"
		if cnf.WebhookURL() != "" {
			mode = "webhook"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"mode":     mode,
			"mock_llm": cnf.LLM.UseMock,
			"dialogs":  dialogs.Len(),
		})
	})

	app.GET("/catalog", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.Catalog(c.Request.Context()))
	})
}

// InitHooks - прием обновлений через webhook, если задан внешний адрес
func InitHooks(ctx context.Context, app *gin.Engine, cnf *config.Conf, b *tgbot.Bot) error {
	url := cnf.WebhookURL()
	if url == "" {
		return nil
	}

	logger.Info("Init receiving endpoint...")
	app.POST(cnf.Telegram.WebhookPath, gin.WrapH(b.WebhookHandler()))

	logger.Info("Setup webhook on Telegram:", url)
	_, err := b.SetWebhook(ctx, &tgbot.SetWebhookParams{
		URL:         url,
		SecretToken: cnf.Telegram.WebhookSecret,
	})
	return err
}

func DestroyHooks(ctx context.Context, cnf *config.Conf, b *tgbot.Bot) {
	if cnf.WebhookURL() == "" {
		return
	}

	logger.Info("Destroy webhook on Telegram...")
	if _, err := b.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{}); err != nil {
		logger.Warning("Error while delete webhook:", err)
	}
}
