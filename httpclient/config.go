// httpclient/config.go
package httpclient

import (
	"net/http"
	"time"

	"github.com/deploymenttheory/go-api-session-client/credentialstore"
	"github.com/deploymenttheory/go-api-session-client/dispatcher"
	"github.com/deploymenttheory/go-api-session-client/logger"
	"github.com/deploymenttheory/go-api-session-client/refreshgroup"
)

const (
	DefaultLogLevelString        = "LogLevelInfo"
	DefaultLogOutputFormatString = logger.LogOutputPretty
	DefaultLogConsoleSeparator   = "\t"
	DefaultRefreshEndpoint       = "/refresh"
	DefaultMaxConcurrentRequests = 10
	DefaultCustomTimeout         = 30 * time.Second
	DefaultRefreshTimeout        = 15 * time.Second
	DefaultCredentialStore       = credentialstore.KindMemory
	DefaultRedisKeyPrefix        = "apisession"
)

// ClientConfig holds everything BuildClient needs.
// The serialisable fields can be loaded with LoadConfigFromFile or LoadConfigFromEnv;
// the collaborator fields at the bottom are set in code.
type ClientConfig struct {
	// API
	BaseURL         string `json:"base_url" yaml:"base_url"`
	RefreshEndpoint string `json:"refresh_endpoint" yaml:"refresh_endpoint"`

	// Log
	LogLevel            string `json:"log_level" yaml:"log_level"`
	LogOutputFormat     string `json:"log_output_format" yaml:"log_output_format"` // "json" or "pretty"
	LogConsoleSeparator string `json:"log_console_separator" yaml:"log_console_separator"`
	ExportLogs          bool   `json:"export_logs" yaml:"export_logs"`
	LogExportPath       string `json:"log_export_path" yaml:"log_export_path"`
	HideSensitiveData   bool   `json:"hide_sensitive_data" yaml:"hide_sensitive_data"`

	// Cookies
	CookieJarEnabled *bool             `json:"cookie_jar_enabled" yaml:"cookie_jar_enabled"` // nil means enabled
	CustomCookies    map[string]string `json:"custom_cookies" yaml:"custom_cookies"`

	// Misc
	MaxConcurrentRequests int           `json:"max_concurrent_requests" yaml:"max_concurrent_requests"`
	CustomTimeout         time.Duration `json:"custom_timeout" yaml:"custom_timeout"`
	RefreshTimeout        time.Duration `json:"refresh_timeout" yaml:"refresh_timeout"`

	// Credential store
	CredentialStore    string        `json:"credential_store" yaml:"credential_store"` // memory, file or redis
	CredentialFilePath string        `json:"credential_file_path" yaml:"credential_file_path"`
	InitialCredential  string        `json:"-" yaml:"-"`
	RedisAddr          string        `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword      string        `json:"-" yaml:"redis_password"`
	RedisDB            int           `json:"redis_db" yaml:"redis_db"`
	RedisKeyPrefix     string        `json:"redis_key_prefix" yaml:"redis_key_prefix"`
	RedisTokenTTL      time.Duration `json:"redis_token_ttl" yaml:"redis_token_ttl"`

	// Collaborators. Nil values are built from the fields above.
	Transport           dispatcher.Transport  `json:"-" yaml:"-"`
	Store               credentialstore.Store `json:"-" yaml:"-"`
	Logger              logger.Logger         `json:"-" yaml:"-"`
	RefreshGroup        *refreshgroup.Group   `json:"-" yaml:"-"`
	OnSessionTerminated func()                `json:"-" yaml:"-"`
}

// cookieJarEnabled reports the effective cookie jar setting.
func (c ClientConfig) cookieJarEnabled() bool {
	return c.CookieJarEnabled == nil || *c.CookieJarEnabled
}

// SetDefaultValuesClientConfig fills every unset field with its default.
func SetDefaultValuesClientConfig(config *ClientConfig) {
	setDefaultString(&config.RefreshEndpoint, DefaultRefreshEndpoint)
	setDefaultString(&config.LogLevel, DefaultLogLevelString)
	setDefaultString(&config.LogOutputFormat, DefaultLogOutputFormatString)
	setDefaultString(&config.LogConsoleSeparator, DefaultLogConsoleSeparator)
	setDefaultInt(&config.MaxConcurrentRequests, DefaultMaxConcurrentRequests)
	setDefaultDuration(&config.CustomTimeout, DefaultCustomTimeout)
	setDefaultDuration(&config.RefreshTimeout, DefaultRefreshTimeout)
	setDefaultString(&config.CredentialStore, DefaultCredentialStore)
	setDefaultString(&config.RedisKeyPrefix, DefaultRedisKeyPrefix)
}

func setDefaultString(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func setDefaultInt(field *int, value int) {
	if *field == 0 {
		*field = value
	}
}

func setDefaultDuration(field *time.Duration, value time.Duration) {
	if *field == 0 {
		*field = value
	}
}

// httpClientFor returns the *http.Client behind a transport, if there is one.
func httpClientFor(t dispatcher.Transport) *http.Client {
	hc, _ := t.(*http.Client)
	return hc
}
