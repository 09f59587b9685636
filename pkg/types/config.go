package types

import "time"

// AIProvider names a bullet-generation backend.
type AIProvider string

const (
	ProviderNone   AIProvider = "none"
	ProviderNvidia AIProvider = "nvidia"
	ProviderOpenAI AIProvider = "openai"
	ProviderGemini AIProvider = "gemini"
)

// HTTPConfig holds shared HTTP settings used by clients that make network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds settings for the optional LLM bullet generator.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the backend: nvidia, openai, gemini or none.
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "deepseek-ai/deepseek-v3.2").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retries on 429 and 5xx responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// CallTimeout bounds one bullet-generation call including retries (default 2m).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout"`

	// SystemPrompt replaces the default planner system prompt.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
}

// DeckConfig holds settings for one generated deck.
type DeckConfig struct {
	// Title, Author, Institute and Date fill the Beamer title page.
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author" yaml:"author"`
	Institute string `json:"institute" yaml:"institute"`
	Date      string `json:"date" yaml:"date"`

	// MaxSlides is the global frame budget, title frame included (default 20).
	MaxSlides int `json:"max_slides" yaml:"max_slides"`

	// FigureRoot is the directory figure paths are resolved against.
	FigureRoot string `json:"figure_root" yaml:"figure_root"`

	// BulletBound is the maximum bullet length in characters (default 200).
	BulletBound int `json:"bullet_bound" yaml:"bullet_bound"`

	// TitleMaxWords caps frame titles (default 6).
	TitleMaxWords int `json:"title_max_words" yaml:"title_max_words"`

	// Theme is the Beamer theme (default Madrid).
	Theme string `json:"theme" yaml:"theme"`
}

// CompileConfig holds settings for PDF compilation of the generated deck.
type CompileConfig struct {
	// Engine is the LaTeX binary (default pdflatex).
	Engine string `json:"engine" yaml:"engine"`

	// Runtime selects where the engine runs: local, docker, podman or auto.
	Runtime string `json:"runtime" yaml:"runtime"`

	// Image is the container image used when Runtime is not local.
	Image string `json:"image" yaml:"image"`

	// Passes is the number of engine runs (default 2).
	Passes int `json:"passes" yaml:"passes"`
}

// HistoryConfig holds settings for the run history database.
type HistoryConfig struct {
	// Dir contains history.db.
	Dir string `json:"dir" yaml:"dir"`

	// Disabled turns off run recording.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// AppConfig groups every configuration section.
type AppConfig struct {
	AI      AIConfig      `json:"ai" yaml:"ai"`
	Deck    DeckConfig    `json:"deck" yaml:"deck"`
	Compile CompileConfig `json:"compile" yaml:"compile"`
	History HistoryConfig `json:"history" yaml:"history"`

	// RulesFile points at a YAML rule table replacing the built-in keywords.
	RulesFile string `json:"rules" yaml:"rules"`
}
