package botconfig_parser

import "sort"

// Texts - тексты бота и правила для модели из bot.yml
type Texts struct {
	GreetingMessage string `yaml:"greeting_message"`

	// сообщения об ошибках
	ErrorMessages ErrorMessages `yaml:"error_messages"`

	// роль модели
	SystemPrompt string `yaml:"system_prompt"`
	// правила ответа, добавляются в конец запроса
	Rules []string `yaml:"rules"`

	// основы слов, по которым вопрос считается вопросом о тренировках
	KeywordStems []string `yaml:"keyword_stems"`
	// города кроме Ташкента, которые называются в общем ответе
	FallbackCities []string `yaml:"fallback_cities"`
	// подпись для отсутствующих данных
	NoData string `yaml:"no_data"`
}

type ErrorMessages struct {
	// Извините, произошла ошибка при обработке вашего запроса
	Processing string `yaml:"processing"`
	// Не удалось сформировать ответ
	Generation string `yaml:"generation"`
	// Отправьте текстовое сообщение
	NotText string `yaml:"not_text"`
}

func defaultRules() []string {
	return []string{
		"Используй только данные из раздела с данными, ничего не придумывай.",
		"Если нужных данных нет, честно скажи об этом и предложи уточнить вопрос.",
		"Не здоровайся повторно, приветствие уже было.",
		"Отвечай коротко: 5-6 предложений.",
		"Не выдумывай адреса, телефоны, цены и расписание.",
	}
}

// настроить значения по умолчанию для незаполненных полей
func setDefaults(t *Texts) {
	if t.GreetingMessage == "" {
		t.GreetingMessage = "Привет! 👋 Я Малика, ваш помощник по фитнес-клубам Chekhov Sport Club.\n" +
			"Напишите район, город или название конкретного клуба, и я помогу подобрать абонемент."
	}
	if t.ErrorMessages.Processing == "" {
		t.ErrorMessages.Processing = "Извините, произошла ошибка при обработке вашего запроса. Попробуйте позже."
	}
	if t.ErrorMessages.Generation == "" {
		t.ErrorMessages.Generation = "Ошибка при формировании ответа. Попробуйте позже."
	}
	if t.ErrorMessages.NotText == "" {
		t.ErrorMessages.NotText = "Пожалуйста, напишите вопрос текстом."
	}
	if t.SystemPrompt == "" {
		t.SystemPrompt = "Ты Малика, вежливый консультант сети фитнес-клубов Chekhov Sport Club в Узбекистане. " +
			"Отвечай на русском языке."
	}
	if len(t.Rules) == 0 {
		t.Rules = defaultRules()
	}
	if len(t.KeywordStems) == 0 {
		t.KeywordStems = []string{"тренировк", "занятия"}
	}
	if len(t.FallbackCities) == 0 {
		t.FallbackCities = []string{"Самарканд", "Бухара"}
	}
	sort.Strings(t.FallbackCities)
	if t.NoData == "" {
		t.NoData = "нет данных"
	}
}

// Default - тексты без файла настроек
func Default() Texts {
	t := Texts{}
	setDefaults(&t)
	return t
}
