package database

// этапы диалога, сейчас назначается только NEED_CLUB
const (
	NEED_CLUB = "NEED_CLUB"
	NEED_TIME = "NEED_TIME"
	PRICING   = "PRICING"
	CLOSING   = "CLOSING"
)

// роли реплик в истории диалога
const (
	ROLE_USER      = "user"
	ROLE_ASSISTANT = "assistant"
)

// HISTORY_LIMIT - сколько последних реплик хранится в истории
const HISTORY_LIMIT = 6
