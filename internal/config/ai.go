package config

import "os"

// AIModels defines which chat-completion models to use for different tasks
type AIModels struct {
	// Questions is for survey question generation (quality over speed)
	Questions string `json:"questions"`

	// Chat is for the interactive chat-survey flow (needs to be fast)
	Chat string `json:"chat"`

	// Summary is for post-chat answer analysis
	Summary string `json:"summary"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string   `json:"-"` // Never serialize
	BaseURL   string   `json:"baseUrl"`
	Models    AIModels `json:"models"`
	TimeoutMS int      `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Models: AIModels{
			Questions: getEnvOrDefault("OPENAI_MODEL_QUESTIONS", "gpt-4o"),
			Chat:      getEnvOrDefault("OPENAI_MODEL_CHAT", "gpt-3.5-turbo"),
			Summary:   getEnvOrDefault("OPENAI_MODEL_SUMMARY", "gpt-3.5-turbo"),
		},
		TimeoutMS: 10000,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ChatCompletionsEndpoint returns the chat completions URL
func (c *AIConfig) ChatCompletionsEndpoint() string {
	return c.BaseURL + "/chat/completions"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
