package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	RawMailDir string
	OutputDir  string

	JotformAPIBaseURL   string
	JotformAPIKey       string
	JotformFormID       string
	JotformRateLimitRPS int
	JotformTimeoutMs    int

	InvoiceVatRate string

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	FormListenerProvider     string
	FormListenerLabel        string
	FormListenerIntervalSec  int
	FormListenerFetchMax     int
	FormListenerProcessBatch int
	FormListenerAutoExport   bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		RawMailDir: getEnv("MAIL_RAW_DIR", filepath.Join(cwd, "data", "raw")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		JotformAPIBaseURL:   getEnv("JOTFORM_API_BASE_URL", "https://api.jotform.com"),
		JotformAPIKey:       getEnv("JOTFORM_API_KEY", ""),
		JotformFormID:       getEnv("JOTFORM_FORM_ID", ""),
		JotformRateLimitRPS: getEnvInt("JOTFORM_RATE_LIMIT_RPS", 5),
		JotformTimeoutMs:    getEnvInt("JOTFORM_TIMEOUT_MS", 30000),

		InvoiceVatRate: getEnv("INVOICE_VAT_RATE", "0.19"),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		FormListenerProvider:     getEnv("FORM_LISTENER_PROVIDER", "imap"),
		FormListenerLabel:        getEnv("FORM_LISTENER_LABEL", "INBOX"),
		FormListenerIntervalSec:  getEnvInt("FORM_LISTENER_INTERVAL_SEC", 60),
		FormListenerFetchMax:     getEnvInt("FORM_LISTENER_FETCH_MAX", 20),
		FormListenerProcessBatch: getEnvInt("FORM_LISTENER_PROCESS_BATCH", 20),
		FormListenerAutoExport:   getEnvBool("FORM_LISTENER_AUTO_EXPORT", true),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
