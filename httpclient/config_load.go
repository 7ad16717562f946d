// httpclient/config_load.go
package httpclient

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by LoadConfigFromEnv.
const EnvPrefix = "APISESSION_"

var configFileExtensions = []string{".yaml", ".yml", ".json"}

// LoadConfigFromFile loads client configuration from a YAML or JSON file and fills
// unset fields with defaults. Durations are written as Go duration strings ("30s").
func LoadConfigFromFile(path string) (*ClientConfig, error) {
	cleanPath, err := validateFilePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("could not read file: %w", err)
	}

	var config ClientConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not parse configuration file %s: %w", path, err)
	}

	SetDefaultValuesClientConfig(&config)
	return &config, nil
}

// LoadConfigFromEnv loads client configuration from APISESSION_* environment variables.
// Variables that are not set fall back to the defaults.
func LoadConfigFromEnv() (*ClientConfig, error) {
	config := &ClientConfig{
		BaseURL:            getEnvOrDefault("BASE_URL", ""),
		RefreshEndpoint:    getEnvOrDefault("REFRESH_ENDPOINT", ""),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", ""),
		LogOutputFormat:    getEnvOrDefault("LOG_OUTPUT_FORMAT", ""),
		LogExportPath:      getEnvOrDefault("LOG_EXPORT_PATH", ""),
		CredentialStore:    getEnvOrDefault("CREDENTIAL_STORE", ""),
		CredentialFilePath: getEnvOrDefault("CREDENTIAL_FILE_PATH", ""),
		InitialCredential:  getEnvOrDefault("ACCESS_TOKEN", ""),
		RedisAddr:          getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword:      getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisKeyPrefix:     getEnvOrDefault("REDIS_KEY_PREFIX", ""),
	}

	var err error
	if config.ExportLogs, err = getEnvAsBool("EXPORT_LOGS", false); err != nil {
		return nil, err
	}
	if config.HideSensitiveData, err = getEnvAsBool("HIDE_SENSITIVE_DATA", false); err != nil {
		return nil, err
	}
	if config.MaxConcurrentRequests, err = getEnvAsInt("MAX_CONCURRENT_REQUESTS", 0); err != nil {
		return nil, err
	}
	if config.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.CustomTimeout, err = getEnvAsDuration("CUSTOM_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if config.RefreshTimeout, err = getEnvAsDuration("REFRESH_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if config.RedisTokenTTL, err = getEnvAsDuration("REDIS_TOKEN_TTL", 0); err != nil {
		return nil, err
	}

	if _, set := os.LookupEnv(EnvPrefix + "COOKIE_JAR_ENABLED"); set {
		enabled, err := getEnvAsBool("COOKIE_JAR_ENABLED", true)
		if err != nil {
			return nil, err
		}
		config.CookieJarEnabled = &enabled
	}

	// name1=value1;name2=value2
	if raw := getEnvOrDefault("CUSTOM_COOKIES", ""); raw != "" {
		config.CustomCookies = map[string]string{}
		for _, pair := range strings.Split(raw, ";") {
			parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
			if len(parts) == 2 && parts[0] != "" {
				config.CustomCookies[parts[0]] = parts[1]
			}
		}
	}

	SetDefaultValuesClientConfig(config)
	return config, nil
}

func validateFilePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("configuration file path is empty")
	}
	if strings.Contains(filepath.ToSlash(path), "../") {
		return "", fmt.Errorf("invalid path, path traversal patterns detected: %s", path)
	}

	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	for _, allowed := range configFileExtensions {
		if ext == allowed {
			return cleanPath, nil
		}
	}
	return "", fmt.Errorf("invalid file extension for configuration file: %s, expected one of %v", path, configFileExtensions)
}

func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(EnvPrefix + key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	raw, exists := os.LookupEnv(EnvPrefix + key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid boolean in %s%s: %w", EnvPrefix, key, err)
	}
	return v, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(EnvPrefix + key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer in %s%s: %w", EnvPrefix, key, err)
	}
	return v, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(EnvPrefix + key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s%s: %w", EnvPrefix, key, err)
	}
	return v, nil
}
