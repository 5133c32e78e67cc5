package config

import (
	"os"
	"strconv"
	"time"

	"github.com/EugenyBaz/ChekhovAgent/internal/logger"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

const (
	DEEPSEEK_BASE_URL = "https://api.deepseek.com"
	DEEPSEEK_MODEL    = "deepseek-chat"
	CLUBS_SHEET       = "all_departments"
	WEBHOOK_PATH      = "/telegram/webhook"
)

func GetConfig(configPath string, cnf *Conf) {
	logger.Debug("Loading configuration")

	if err := Load(configPath, cnf); err != nil {
		logger.Crit("Error while reading config!", err)
	}
}

// Load читает yaml файл настроек, подставляет секреты из окружения
// и значения по умолчанию. Отсутствие файла не ошибка - все можно задать через env.
func Load(configPath string, cnf *Conf) error {
	input, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(input, cnf); err != nil {
			return errors.Wrap(err, "decode config")
		}
	case os.IsNotExist(err):
		logger.Info("Файл настроек не найден, используются переменные окружения:", configPath)
	default:
		return errors.Wrap(err, "read config")
	}

	if err := applyEnv(cnf); err != nil {
		return err
	}
	setDefaults(cnf)

	return nil
}

func applyEnv(cnf *Conf) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("TELEGRAM_BOT_TOKEN", &cnf.Telegram.Token)
	setString("DEEPSEEK_API_KEY", &cnf.LLM.APIKey)
	setString("DEEPSEEK_BASE_URL", &cnf.LLM.BaseURL)
	setString("GOOGLE_SERVICE_ACCOUNT_JSON", &cnf.Sheets.Credentials)
	setString("GOOGLE_SHEETS_SPREADSHEET_ID", &cnf.Sheets.SpreadsheetID)

	if v, ok := os.LookupEnv("USE_MOCK_LLM"); ok && v != "" {
		useMock, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "USE_MOCK_LLM=%q", v)
		}
		cnf.LLM.UseMock = useMock
	}

	return nil
}

func setDefaults(cnf *Conf) {
	if cnf.Server.Listen == "" {
		cnf.Server.Listen = ":8080"
	}
	if cnf.Telegram.WebhookPath == "" {
		cnf.Telegram.WebhookPath = WEBHOOK_PATH
	}
	if cnf.LLM.BaseURL == "" {
		cnf.LLM.BaseURL = DEEPSEEK_BASE_URL
	}
	if cnf.LLM.Model == "" {
		cnf.LLM.Model = DEEPSEEK_MODEL
	}
	if cnf.LLM.Timeout <= 0 {
		cnf.LLM.Timeout = 30 * time.Second
	}
	if cnf.Sheets.ClubsSheet == "" {
		cnf.Sheets.ClubsSheet = CLUBS_SHEET
	}
	if cnf.Dialog.TTL <= 0 {
		cnf.Dialog.TTL = 24 * time.Hour
	}
}

// Validate - проверка обязательных настроек перед запуском
func (c *Conf) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("не задан токен бота (telegram.token / TELEGRAM_BOT_TOKEN)")
	}
	if c.Sheets.SpreadsheetID == "" {
		return errors.New("не задан идентификатор таблицы (sheets.spreadsheet_id / GOOGLE_SHEETS_SPREADSHEET_ID)")
	}
	if c.Sheets.Credentials == "" {
		return errors.New("не задан файл сервисного аккаунта (sheets.credentials / GOOGLE_SERVICE_ACCOUNT_JSON)")
	}
	if !c.LLM.UseMock && c.LLM.APIKey == "" {
		return errors.New("не задан ключ модели (llm.api_key / DEEPSEEK_API_KEY)")
	}
	return nil
}
