package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// ProviderOpenAI talks to any OpenAI-compatible chat completion endpoint.
	ProviderOpenAI = "openai"
	// ProviderOllama talks to a local Ollama server through its OpenAI-compatible API.
	ProviderOllama = "ollama"

	defaultCategorizerBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	defaultCategorizerModel   = "gemini-2.5-flash"
	defaultOllamaModel        = "llama3.2"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	JWTTTL      time.Duration
	SwaggerHost string
	ResetDB     bool

	// Category suggestion backend
	CategorizerProvider string
	CategorizerAPIKey   string
	CategorizerBaseURL  string
	CategorizerModel    string
	CategorizerTimeout  time.Duration
	OllamaURL           string
	SuggestionCacheTTL  time.Duration

	// Transaction events
	AMQPURL      string
	AMQPExchange string

	RateLimitRPS float64
	CORSOrigins  []string

	LogLevel  string
	LogPretty bool
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	provider := strings.ToLower(getEnv("CATEGORIZER_PROVIDER", ProviderOpenAI))
	model := defaultCategorizerModel
	if provider == ProviderOllama {
		model = defaultOllamaModel
	}

	return &Config{
		ServerPort:  getEnv("PORT", "5000"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/clarity?charset=utf8mb4&parseTime=True&loc=UTC"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		JWTTTL:      getEnvDuration("JWT_TTL", 7*24*time.Hour),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		ResetDB:     getEnvBool("RESET_DB", false),

		CategorizerProvider: provider,
		CategorizerAPIKey:   firstEnv("CATEGORIZER_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"),
		CategorizerBaseURL:  getEnv("CATEGORIZER_BASE_URL", defaultCategorizerBaseURL),
		CategorizerModel:    getEnv("CATEGORIZER_MODEL", model),
		CategorizerTimeout:  getEnvDuration("CATEGORIZER_TIMEOUT", 10*time.Second),
		OllamaURL:           strings.TrimRight(os.Getenv("OLLAMA_URL"), "/"),
		SuggestionCacheTTL:  getEnvDuration("SUGGESTION_CACHE_TTL", 24*time.Hour),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "clarity"),

		RateLimitRPS: getEnvFloat("RATE_LIMIT_RPS", 10),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),
	}
}

// CategorizerConfigured reports whether a categorization backend can be built.
// A missing credential is a supported configuration: suggestions fall back to Other.
func (c *Config) CategorizerConfigured() bool {
	switch c.CategorizerProvider {
	case ProviderOllama:
		return c.OllamaURL != ""
	default:
		return c.CategorizerAPIKey != ""
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.ServerPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.ServerPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.MySQLDSN == "" {
		problems = append(problems, "MYSQL_DSN cannot be empty")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		problems = append(problems, "JWT_SECRET cannot be empty")
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid JWT_TTL %v: must be positive", c.JWTTTL))
	}

	switch c.CategorizerProvider {
	case ProviderOpenAI, ProviderOllama:
	default:
		problems = append(problems, fmt.Sprintf("invalid categorizer provider '%s': must be one of [%s %s]",
			c.CategorizerProvider, ProviderOpenAI, ProviderOllama))
	}
	if c.CategorizerTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid CATEGORIZER_TIMEOUT %v: must be positive", c.CategorizerTimeout))
	}
	if c.CategorizerProvider == ProviderOpenAI && c.CategorizerBaseURL != "" {
		if _, err := url.ParseRequestURI(c.CategorizerBaseURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid CATEGORIZER_BASE_URL '%s': %v", c.CategorizerBaseURL, err))
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateLimitRPS <= 0 {
		problems = append(problems, fmt.Sprintf("invalid RATE_LIMIT_RPS %v: must be positive", c.RateLimitRPS))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
