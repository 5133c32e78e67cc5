package botconfig_parser

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/EugenyBaz/ChekhovAgent/internal/logger"

	"github.com/goccy/go-yaml"
)

// Holder хранит текущие тексты и подменяет их при изменении файла
type Holder struct {
	lock  sync.RWMutex
	texts Texts
}

// InitTexts загружает тексты, при ошибке в файле приложение не запускается.
// Если файла нет, используются тексты по умолчанию.
func InitTexts(pathCnf string) *Holder {
	if _, err := os.Stat(pathCnf); os.IsNotExist(err) {
		logger.Warning("Файл текстов бота не найден, используются тексты по умолчанию:", pathCnf)
		return NewHolder(Default())
	}

	texts, err := loadTexts(pathCnf)
	if err != nil {
		logger.Crit(err)
	}
	return NewHolder(texts)
}

func NewHolder(texts Texts) *Holder {
	return &Holder{texts: texts}
}

// Current - копия текущих текстов
func (h *Holder) Current() Texts {
	h.lock.RLock()
	defer h.lock.RUnlock()

	t := h.texts
	t.Rules = append([]string(nil), h.texts.Rules...)
	t.KeywordStems = append([]string(nil), h.texts.KeywordStems...)
	t.FallbackCities = append([]string(nil), h.texts.FallbackCities...)
	return t
}

// UpdateTexts перечитывает файл. При ошибке остаются прежние тексты.
func (h *Holder) UpdateTexts(pathCnf string) error {
	texts, err := loadTexts(pathCnf)
	if err != nil {
		return err
	}

	h.lock.Lock()
	h.texts = texts
	h.lock.Unlock()

	logger.Info("Тексты бота обновлены")
	return nil
}

func loadTexts(pathCnf string) (Texts, error) {
	input, err := os.ReadFile(pathCnf)
	if err != nil {
		return Texts{}, err
	}

	dec := yaml.NewDecoder(bytes.NewBuffer(input), yaml.ReferenceDirs(path.Dir(pathCnf)), yaml.RecursiveDir(true))
	texts := Texts{}
	if err := dec.Decode(&texts); err != nil {
		return Texts{}, err
	}

	if err := texts.check(); err != nil {
		return Texts{}, err
	}
	setDefaults(&texts)

	return texts, nil
}

func (t *Texts) check() error {
	for i, stem := range t.KeywordStems {
		if stem == "" {
			return fmt.Errorf("пустое ключевое слово: keyword_stems[%d]", i)
		}
	}
	for i, rule := range t.Rules {
		if rule == "" {
			return fmt.Errorf("пустое правило: rules[%d]", i)
		}
	}
	return nil
}
