package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"prokat/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Telegram TelegramConfig `yaml:"telegram"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Backup   BackupConfig   `yaml:"backup"`
	Logging  LoggingConfig  `yaml:"logging"`
	API      APIConfig      `yaml:"api"`
	Google   GoogleConfig   `yaml:"google"`
	Bot      BotConfig      `yaml:"bot"`
	Rental   RentalConfig   `yaml:"rental"`
	Exports  ExportConfig   `yaml:"exports"`
}

type BotConfig struct {
	RateLimitMessages int     `yaml:"rate_limit_messages"`
	RateLimitWindow   int     `yaml:"rate_limit_window"`
	UpdateTimeout     int     `yaml:"update_timeout"`
	Blacklist         []int64 `yaml:"blacklist"`
}

// RoleConfig ключ роли и ее подпись на кнопке
type RoleConfig struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

type PeriodConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type RentalConfig struct {
	InventoryTypes    []string     `yaml:"inventory_types"`
	Roles             []RoleConfig `yaml:"roles"`
	InventoryStatuses []string     `yaml:"inventory_statuses"`
	RentalStatuses    []string     `yaml:"rental_statuses"`
	NoSizeSentinel    string       `yaml:"no_size_sentinel"`
	// ReuseClients включает поиск клиента по телефону вместо новой записи
	ReuseClients  bool         `yaml:"reuse_clients"`
	FinancePeriod PeriodConfig `yaml:"finance_period"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled bool `yaml:"enabled"`
	// Schedule cron-выражение, например "0 3 * * *"
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type GoogleConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	SheetName       string `yaml:"sheet_name"`
}

func Load(configPath string) (*Config, error) {
	// .env необязателен
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Google.Enabled && (c.Google.CredentialsFile == "" || c.Google.SpreadsheetID == "") {
		return errors.New("google credentials_file and spreadsheet_id are required when google is enabled")
	}

	return c.Rental.Validate()
}

func (r *RentalConfig) Validate() error {
	if len(r.InventoryTypes) == 0 {
		return errors.New("rental.inventory_types must not be empty")
	}

	seen := make(map[string]bool)
	for _, t := range r.InventoryTypes {
		if strings.TrimSpace(t) == "" {
			return errors.New("rental.inventory_types contains an empty label")
		}
		if seen[t] {
			return fmt.Errorf("duplicate inventory type: %s", t)
		}
		seen[t] = true
	}

	keys := make(map[string]bool)
	labels := make(map[string]bool)
	for _, role := range r.Roles {
		if role.Key != models.RoleSeller && role.Key != models.RoleBuyer {
			return fmt.Errorf("unknown role key: %q", role.Key)
		}
		if role.Label == "" {
			return fmt.Errorf("role %q has empty label", role.Key)
		}
		if keys[role.Key] || labels[role.Label] {
			return fmt.Errorf("duplicate role: %s", role.Key)
		}
		keys[role.Key] = true
		labels[role.Label] = true
	}

	// rentals carry no status column; active/completed is derived from end_time
	statuses := make(map[string]bool)
	for _, st := range r.RentalStatuses {
		if st != models.RentalStatusActive && st != models.RentalStatusCompleted {
			return fmt.Errorf("unknown rental status: %q", st)
		}
		if statuses[st] {
			return fmt.Errorf("duplicate rental status: %s", st)
		}
		statuses[st] = true
	}

	if _, _, err := r.FinanceRange(time.Now()); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	// auth enabled by default when API is enabled
	if !c.API.Auth.Enabled {
		c.API.Auth.Enabled = true
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}

	if c.Backup.Schedule == "" {
		c.Backup.Schedule = "0 3 * * *"
	}
	if c.Backup.RetentionDays == 0 {
		c.Backup.RetentionDays = 7
	}
	if c.Backup.StoragePath == "" {
		c.Backup.StoragePath = "backups"
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if c.Google.SheetName == "" {
		c.Google.SheetName = "Rentals"
	}

	// Bot defaults
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
	if c.Bot.UpdateTimeout == 0 {
		c.Bot.UpdateTimeout = 60
	}

	c.Rental.applyDefaults()
}

func (r *RentalConfig) applyDefaults() {
	if len(r.InventoryTypes) == 0 {
		r.InventoryTypes = []string{"Велосипед", "Самокат", "Лыжи"}
	}
	if len(r.Roles) == 0 {
		r.Roles = []RoleConfig{
			{Key: models.RoleSeller, Label: "Продавец"},
			{Key: models.RoleBuyer, Label: "Покупатель"},
		}
	}
	if len(r.InventoryStatuses) == 0 {
		r.InventoryStatuses = models.DefaultInventoryStatuses
	}
	if len(r.RentalStatuses) == 0 {
		r.RentalStatuses = models.DefaultRentalStatuses
	}
	if r.NoSizeSentinel == "" {
		r.NoSizeSentinel = models.NoSizeSentinel
	}
}

// IsInventoryType reports whether label is one of the configured types.
func (r *RentalConfig) IsInventoryType(label string) bool {
	for _, t := range r.InventoryTypes {
		if t == label {
			return true
		}
	}
	return false
}

// RoleByLabel maps a button label back to the role key.
func (r *RentalConfig) RoleByLabel(label string) (string, bool) {
	for _, role := range r.Roles {
		if role.Label == label {
			return role.Key, true
		}
	}
	return "", false
}

func (r *RentalConfig) RoleLabel(key string) string {
	for _, role := range r.Roles {
		if role.Key == key {
			return role.Label
		}
	}
	return key
}

func (r *RentalConfig) RoleLabels() []string {
	labels := make([]string, 0, len(r.Roles))
	for _, role := range r.Roles {
		labels = append(labels, role.Label)
	}
	return labels
}

// FinanceRange возвращает период финансового отчета.
// Без настроек это текущий календарный год.
func (r *RentalConfig) FinanceRange(now time.Time) (time.Time, time.Time, error) {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)

	if r.FinancePeriod.Start != "" {
		t, err := time.Parse(models.DateLayout, r.FinancePeriod.Start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid finance_period.start: %w", err)
		}
		start = t
	}
	if r.FinancePeriod.End != "" {
		t, err := time.Parse(models.DateLayout, r.FinancePeriod.End)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid finance_period.end: %w", err)
		}
		end = t
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("finance_period.end is before start")
	}
	return start, end, nil
}

// ValidateInventory проверяет стартовый инвентарь из inventory.yaml.
// Пустой статус становится available.
func (r *RentalConfig) ValidateInventory(items []models.InventoryItem) error {
	for i := range items {
		item := &items[i]
		if !r.IsInventoryType(item.Type) {
			return fmt.Errorf("item %d: unknown inventory type %q", i, item.Type)
		}
		if strings.TrimSpace(item.Brand) == "" {
			return fmt.Errorf("item %d: brand is required", i)
		}
		if item.PricePerHour < 0 {
			return fmt.Errorf("item %d: negative price_per_hour", i)
		}
		if item.Size == r.NoSizeSentinel {
			item.Size = ""
		}
		if item.Status == "" {
			item.Status = models.StatusAvailable
		}
		if !contains(r.InventoryStatuses, item.Status) {
			return fmt.Errorf("item %d: unknown status %q", i, item.Status)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
