package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where answerdesk stores its own data
	DSN string
	// Driver is the database driver (sqlite)
	Driver string
	// Version is the current version of server
	Version string
	// JWTSecret signs and verifies webhook tenant tokens
	JWTSecret string

	// Provider configuration. Priority is the explicit failover order.
	LLMPriority     string // ANSWERDESK_LLM_PRIORITY (default: "deepseek,openai")
	DeepSeekAPIKey  string // ANSWERDESK_DEEPSEEK_API_KEY
	DeepSeekBaseURL string // ANSWERDESK_DEEPSEEK_BASE_URL (default: https://api.deepseek.com)
	DeepSeekModel   string // ANSWERDESK_DEEPSEEK_MODEL (default: deepseek-chat)
	OpenAIAPIKey    string // ANSWERDESK_OPENAI_API_KEY
	OpenAIBaseURL   string // ANSWERDESK_OPENAI_BASE_URL (default: https://api.openai.com/v1)
	OpenAIModel     string // ANSWERDESK_OPENAI_MODEL (default: gpt-4o-mini)
	OllamaBaseURL   string // ANSWERDESK_OLLAMA_BASE_URL (default: http://localhost:11434/v1)
	OllamaModel     string // ANSWERDESK_OLLAMA_MODEL (default: qwen2.5:3b)

	// Pipeline configuration.
	ContextWindowSize  int           // recent turns kept verbatim per conversation (default: 20)
	ContextIdleTTL     time.Duration // idle time before a conversation context is evicted (default: 2h)
	KnowledgeStaleTTL  time.Duration // knowledge snapshot age that triggers a refresh (default: 5m)
	RateLimitPerMinute int           // per-tenant inbound message budget (default: 60)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from ANSWERDESK_* environment variables.
func (p *Profile) FromEnv() {
	p.JWTSecret = os.Getenv("ANSWERDESK_JWT_SECRET")

	p.LLMPriority = getEnvOrDefault("ANSWERDESK_LLM_PRIORITY", "deepseek,openai")
	p.DeepSeekAPIKey = os.Getenv("ANSWERDESK_DEEPSEEK_API_KEY")
	p.DeepSeekBaseURL = getEnvOrDefault("ANSWERDESK_DEEPSEEK_BASE_URL", "https://api.deepseek.com")
	p.DeepSeekModel = getEnvOrDefault("ANSWERDESK_DEEPSEEK_MODEL", "deepseek-chat")
	p.OpenAIAPIKey = os.Getenv("ANSWERDESK_OPENAI_API_KEY")
	p.OpenAIBaseURL = getEnvOrDefault("ANSWERDESK_OPENAI_BASE_URL", "https://api.openai.com/v1")
	p.OpenAIModel = getEnvOrDefault("ANSWERDESK_OPENAI_MODEL", "gpt-4o-mini")
	p.OllamaBaseURL = getEnvOrDefault("ANSWERDESK_OLLAMA_BASE_URL", "http://localhost:11434/v1")
	p.OllamaModel = getEnvOrDefault("ANSWERDESK_OLLAMA_MODEL", "qwen2.5:3b")
}

// PriorityList returns the configured provider failover order.
func (p *Profile) PriorityList() []string {
	parts := strings.Split(p.LLMPriority, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/answerdesk"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("answerdesk_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.Mode == "prod" && p.JWTSecret == "" {
		return errors.New("jwt secret is required in prod mode")
	}

	if p.ContextWindowSize <= 0 {
		p.ContextWindowSize = 20
	}
	if p.ContextIdleTTL <= 0 {
		p.ContextIdleTTL = 2 * time.Hour
	}
	if p.KnowledgeStaleTTL <= 0 {
		p.KnowledgeStaleTTL = 5 * time.Minute
	}
	if p.RateLimitPerMinute <= 0 {
		p.RateLimitPerMinute = 60
	}

	return nil
}
