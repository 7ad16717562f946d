// httpclient/config_validation.go
package httpclient

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/deploymenttheory/go-api-session-client/credentialstore"
	"github.com/deploymenttheory/go-api-session-client/logger"
)

func validateClientConfig(config ClientConfig, populateDefaults bool) error {
	if populateDefaults {
		SetDefaultValuesClientConfig(&config)
	}

	if config.BaseURL == "" {
		return errors.New("base URL is required")
	}
	u, err := url.Parse(config.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base URL must be absolute, got %q", config.BaseURL)
	}

	if config.MaxConcurrentRequests < 1 {
		return errors.New("maximum concurrent requests cannot be less than 1")
	}

	if config.CustomTimeout < 0 {
		return errors.New("timeout cannot be less than 0 seconds")
	}

	if config.RefreshTimeout < 0 {
		return errors.New("refresh timeout cannot be less than 0 seconds")
	}

	if config.LogOutputFormat != logger.LogOutputJSON && config.LogOutputFormat != logger.LogOutputPretty {
		return fmt.Errorf("log output format must be %q or %q, got %q", logger.LogOutputJSON, logger.LogOutputPretty, config.LogOutputFormat)
	}

	if len(config.CustomCookies) > 0 && !config.cookieJarEnabled() {
		return errors.New("custom cookies require the cookie jar to be enabled")
	}

	if config.Store != nil {
		return nil
	}

	switch config.CredentialStore {
	case credentialstore.KindMemory:
	case credentialstore.KindFile:
		if config.CredentialFilePath == "" {
			return errors.New("file credential store requires credential_file_path")
		}
	case credentialstore.KindRedis:
		if config.RedisAddr == "" {
			return errors.New("redis credential store requires redis_addr")
		}
		if config.RedisTokenTTL < 0 {
			return errors.New("redis token TTL cannot be negative")
		}
	default:
		return fmt.Errorf("unknown credential store %q", config.CredentialStore)
	}

	return nil
}
