// Package config handles configuration loading and management
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the pipeline configuration loaded from environment variables.
type Config struct {
	SnapshotPath   string
	ArtifactPath   string
	TemplatePath   string
	SourcesPath    string
	LockFile       string
	RepoDir        string
	Remote         string
	Branch         string
	CommitMessage  string
	CollectTimeout time.Duration
	PushTimeout    time.Duration

	ClickhouseHost       string
	ClickhouseNativePort int
	ClickhouseUsername   string
	ClickhousePassword   string
	ClickhouseDatabase   string
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		SnapshotPath:       getEnv("PULSEBOARD_SNAPSHOT", "dashboard-metrics.json"),
		ArtifactPath:       getEnv("PULSEBOARD_ARTIFACT", "html/index.html"),
		TemplatePath:       getEnv("PULSEBOARD_TEMPLATE", "html/dashboard-template.html"),
		SourcesPath:        getEnv("PULSEBOARD_SOURCES", "sources.yaml"),
		LockFile:           getEnv("PULSEBOARD_LOCK_FILE", ".pulseboard.lock"),
		RepoDir:            getEnv("PULSEBOARD_REPO_DIR", "."),
		Remote:             getEnv("PULSEBOARD_REMOTE", "origin"),
		Branch:             getEnv("PULSEBOARD_BRANCH", "main"),
		CommitMessage:      getEnv("PULSEBOARD_COMMIT_MESSAGE", "Automatic dashboard update"),
		ClickhouseHost:     getEnv("CLICKHOUSE_HOST", "localhost"),
		ClickhouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickhousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),
		ClickhouseDatabase: getEnv("CLICKHOUSE_DATABASE", "default"),
	}

	// Parse numeric values
	collectTimeout, err := strconv.Atoi(getEnv("PULSEBOARD_COLLECT_TIMEOUT", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid PULSEBOARD_COLLECT_TIMEOUT: %w", err)
	}
	cfg.CollectTimeout = time.Duration(collectTimeout) * time.Second

	pushTimeout, err := strconv.Atoi(getEnv("PULSEBOARD_PUSH_TIMEOUT", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid PULSEBOARD_PUSH_TIMEOUT: %w", err)
	}
	cfg.PushTimeout = time.Duration(pushTimeout) * time.Second

	nativePort, err := strconv.Atoi(getEnv("CLICKHOUSE_NATIVE_PORT", "9000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLICKHOUSE_NATIVE_PORT: %w", err)
	}
	cfg.ClickhouseNativePort = nativePort

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) String() string {
	passwordDisplay := "(not set)"
	if c.ClickhousePassword != "" {
		passwordDisplay = "********"
	}

	return fmt.Sprintf(`Current Configuration:
======================
Snapshot File:          %s
Artifact File:          %s
Template File:          %s
Sources File:           %s
Repository Dir:         %s
Remote / Branch:        %s / %s
Commit Message:         %s
Collect Timeout:        %s
Push Timeout:           %s
ClickHouse Host:        %s
ClickHouse Native Port: %d
ClickHouse Username:    %s
ClickHouse Password:    %s`,
		c.SnapshotPath,
		c.ArtifactPath,
		c.TemplatePath,
		c.SourcesPath,
		c.RepoDir,
		c.Remote,
		c.Branch,
		c.CommitMessage,
		c.CollectTimeout,
		c.PushTimeout,
		c.ClickhouseHost,
		c.ClickhouseNativePort,
		c.ClickhouseUsername,
		passwordDisplay,
	)
}
