package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents application configuration
type Config struct {
	// Mail transport configuration
	Mail MailConfig

	// OpenAI configuration (interpreter, generator, images)
	OpenAI OpenAIConfig

	// Shopify publishing configuration
	Shopify ShopifyConfig

	// Storage configuration
	Storage StorageConfig

	// Prompts configuration (loaded from YAML)
	Prompts *PromptsConfig

	// How often the inbox is polled
	PollInterval time.Duration

	// Debug mode
	Debug bool
}

// MailConfig contains SMTP/IMAP configuration
type MailConfig struct {
	SMTPHost string
	SMTPPort int
	IMAPHost string
	IMAPPort int
	Username string
	Password string

	// From is the sender address for all outbound mail
	From string
	// Operator receives failure notifications
	Operator string
	// Reviewer receives content previews
	Reviewer string
}

// OpenAIConfig contains language/image model configuration
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
}

// ShopifyConfig contains publishing platform configuration
type ShopifyConfig struct {
	ShopDomain  string
	AccessToken string
	BlogID      string
	APIVersion  string
}

// StorageConfig contains persistence configuration
type StorageConfig struct {
	SnapshotPath string
	ArchivePath  string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	smtpPort := 465
	if val := os.Getenv("SMTP_PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			smtpPort = parsed
		}
	}

	imapPort := 993
	if val := os.Getenv("IMAP_PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			imapPort = parsed
		}
	}

	pollInterval := 30 * time.Second
	if val := os.Getenv("POLL_INTERVAL_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			pollInterval = time.Duration(parsed) * time.Second
		}
	}

	snapshotPath := os.Getenv("SNAPSHOT_PATH")
	if snapshotPath == "" {
		snapshotPath = "storage.json"
	}

	archivePath := os.Getenv("ARCHIVE_DB_PATH")
	if archivePath == "" {
		homeDir, _ := os.UserHomeDir()
		archivePath = filepath.Join(homeDir, ".beastblogger", "revisions.db")
	}

	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "beastblogger@beastputty.com"
	}

	operator := os.Getenv("ADMIN_EMAIL")
	if operator == "" {
		operator = "jackson@beastputty.com"
	}

	apiVersion := os.Getenv("SHOPIFY_API_VERSION")
	if apiVersion == "" {
		apiVersion = "2024-01"
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4"
	}

	// Load prompts from YAML
	promptsConfig, _ := LoadPromptsConfig(os.Getenv("PROMPTS_CONFIG_PATH"))

	return &Config{
		Mail: MailConfig{
			SMTPHost: getenvDefault("SMTP_HOST", "smtp.zoho.com"),
			SMTPPort: smtpPort,
			IMAPHost: getenvDefault("IMAP_HOST", "imap.zoho.com"),
			IMAPPort: imapPort,
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASS"),
			From:     from,
			Operator: operator,
			Reviewer: os.Getenv("REVIEWER_EMAIL"),
		},
		OpenAI: OpenAIConfig{
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			BaseURL:    os.Getenv("OPENAI_BASE_URL"),
			Model:      model,
			ImageModel: os.Getenv("OPENAI_IMAGE_MODEL"),
		},
		Shopify: ShopifyConfig{
			ShopDomain:  os.Getenv("SHOPIFY_SHOP_DOMAIN"),
			AccessToken: os.Getenv("SHOPIFY_ACCESS_TOKEN"),
			BlogID:      os.Getenv("SHOPIFY_BLOG_ID"),
			APIVersion:  apiVersion,
		},
		Storage: StorageConfig{
			SnapshotPath: snapshotPath,
			ArchivePath:  archivePath,
		},
		Prompts:      promptsConfig,
		PollInterval: pollInterval,
		Debug:        os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Mail.Username == "" || c.Mail.Password == "" {
		return &ConfigError{Field: "EMAIL_USER/EMAIL_PASS", Message: "required"}
	}
	if c.OpenAI.APIKey == "" {
		return &ConfigError{Field: "OPENAI_API_KEY", Message: "required"}
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
