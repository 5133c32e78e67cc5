package config

import (
	"time"

	"github.com/gin-gonic/gin"
)

type (
	// configuration contains the application settings
	Conf struct {
		Server   Server   `yaml:"server"`
		Telegram Telegram `yaml:"telegram"`
		LLM      LLM      `yaml:"llm"`
		Sheets   Sheets   `yaml:"sheets"`
		Dialog   Dialog   `yaml:"dialog"`

		BotConfig  string `yaml:"bot_config"`
		RunInDebug bool   `yaml:"-"`
	}

	Server struct {
		// внешний адрес сервера, если задан - бот работает через webhook
		Host   string `yaml:"host"`
		Listen string `yaml:"listen"`
	}

	Telegram struct {
		Token       string `yaml:"token"`
		WebhookPath string `yaml:"webhook_path"`
		// секрет для заголовка X-Telegram-Bot-Api-Secret-Token
		WebhookSecret string `yaml:"webhook_secret"`
	}

	LLM struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
		// отвечать шаблоном без обращения к модели
		UseMock bool `yaml:"use_mock"`
	}

	Sheets struct {
		Credentials   string `yaml:"credentials"`
		SpreadsheetID string `yaml:"spreadsheet_id"`
		ClubsSheet    string `yaml:"clubs_sheet"`
	}

	Dialog struct {
		// время жизни состояния неактивного пользователя
		TTL time.Duration `yaml:"ttl"`
		// ограничение памяти под состояния, Мб (0 - без ограничения)
		MaxSizeMB int `yaml:"max_size_mb"`
	}
)

// WebhookURL - полный адрес webhook или пустая строка для long polling
func (c *Conf) WebhookURL() string {
	if c.Server.Host == "" {
		return ""
	}
	return c.Server.Host + c.Telegram.WebhookPath
}

func Inject(key string, cnf *Conf) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(key, cnf)
	}
}
