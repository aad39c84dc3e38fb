package model

// ================ Config ================
type ConversationConfig struct {
	TTL             string `envconfig:"CONVERSATION_TTL" default:"15m"`
	HistoryMaxTurns int    `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"10"`
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"64"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0"`
}

type ExtractorModelConfig struct {
	Model       string  `envconfig:"EXTRACTOR_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"EXTRACTOR_MAX_TOKENS" default:"512"`
	Temperature float32 `envconfig:"EXTRACTOR_TEMPERATURE" default:"0"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
}

type MailConfig struct {
	SMTPHost    string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort    int    `envconfig:"SMTP_PORT" default:"465"`
	Address     string `envconfig:"EMAIL_ADDRESS"`
	AppPassword string `envconfig:"EMAIL_APP_PASSWORD"`
}

type DirectoryConfig struct {
	Table string `envconfig:"DIRECTORY_TABLE" default:"contacts"`
}

type KnowledgeSourceConfig struct {
	BaseURL        string `envconfig:"WIKIPEDIA_BASE_URL" default:"https://en.wikipedia.org/w/api.php"`
	MaxResults     int    `envconfig:"WIKIPEDIA_MAX_RESULTS" default:"2"`
	TimeoutSeconds int    `envconfig:"WIKIPEDIA_TIMEOUT_SECONDS" default:"10"`
}
