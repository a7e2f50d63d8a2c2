// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Caches   CachesConfig   `mapstructure:"caches"`
	Ranking  RankingConfig  `mapstructure:"ranking"`
	APIs     APIsConfig     `mapstructure:"apis"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CachesConfig holds the TTL for each cache tier, in seconds.
type CachesConfig struct {
	ResultTTL     int `mapstructure:"result_ttl"`
	PopularityTTL int `mapstructure:"popularity_ttl"`
	SemanticTTL   int `mapstructure:"semantic_ttl"`
}

// RankingConfig holds orchestrator tuning knobs.
type RankingConfig struct {
	PoolSize       int `mapstructure:"pool_size"`
	CandidateLimit int `mapstructure:"candidate_limit"`
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		Enabled     bool   `mapstructure:"enabled"`
		BaseURL     string `mapstructure:"base_url"`
		APIKey      string `mapstructure:"api_key"`
		Timeout     int    `mapstructure:"timeout"` // milliseconds
		MaxRetries  int    `mapstructure:"max_retries"`
		MaxInFlight int    `mapstructure:"max_in_flight"`
	} `mapstructure:"genai"`
}

// MetricsConfig holds settings for the metrics/pprof HTTP listener.
type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
