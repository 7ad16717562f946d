// httpclient/client.go

/* Package httpclient is the entry point of the session client. A Client sends requests
with the current bearer credential and, when the API answers 401, refreshes the credential
once for every concurrent caller before replaying their requests. A 403, or a failed
refresh, ends the session: the credential store is cleared and the teardown callback runs. */
package httpclient

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/deploymenttheory/go-api-session-client/authenticationhandler"
	"github.com/deploymenttheory/go-api-session-client/concurrency"
	"github.com/deploymenttheory/go-api-session-client/cookiejar"
	"github.com/deploymenttheory/go-api-session-client/credentialstore"
	"github.com/deploymenttheory/go-api-session-client/dispatcher"
	"github.com/deploymenttheory/go-api-session-client/logger"
	"github.com/deploymenttheory/go-api-session-client/refreshgroup"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client keeps an authenticated session against one API.
type Client struct {
	config     ClientConfig
	http       *http.Client
	dispatcher *dispatcher.Dispatcher
	refresher  *authenticationhandler.Refresher
	refresh    *refreshgroup.Group
	store      credentialstore.Store

	Logger      logger.Logger
	Concurrency *concurrency.ConcurrencyHandler

	onTerminated func()
	terminations atomic.Int64
}

// BuildClient creates a new Client from config. When populateDefaultValues is true unset
// fields are filled with their defaults before validation.
func BuildClient(config ClientConfig, populateDefaultValues bool) (*Client, error) {
	if populateDefaultValues {
		SetDefaultValuesClientConfig(&config)
	}

	if err := validateClientConfig(config, false); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	//region Logging
	log := config.Logger
	if log == nil {
		parsedLogLevel := logger.ParseLogLevelFromString(config.LogLevel)
		exportPath := ""
		if config.ExportLogs {
			exportPath = config.LogExportPath
		}
		log = logger.BuildLogger(parsedLogLevel, config.LogOutputFormat, config.LogConsoleSeparator, exportPath)
		log.SetLevel(parsedLogLevel)
	}
	//endregion

	//region HTTP
	log.Info("initializing new http client", zap.String("base_url", config.BaseURL), zap.String("credential_store", config.CredentialStore))

	transport := config.Transport
	httpClient := httpClientFor(transport)
	if transport == nil {
		httpClient = &http.Client{Timeout: config.CustomTimeout}
		transport = httpClient
	}

	// The jar is only attached to clients built here or passed in as *http.Client.
	if httpClient != nil && httpClient.Jar == nil {
		if err := cookiejar.SetupCookieJar(httpClient, config.cookieJarEnabled(), log); err != nil {
			return nil, err
		}
	}
	if httpClient != nil {
		if err := cookiejar.ApplyCustomCookies(httpClient, config.BaseURL, config.CustomCookies, log); err != nil {
			log.Error("Failed to apply custom cookies", zap.Error(err))
			return nil, err
		}
	}
	//endregion

	//region Credential store
	store := config.Store
	if store == nil {
		var err error
		store, err = buildCredentialStore(config, log)
		if err != nil {
			log.Error("Failed to create credential store", zap.String("kind", config.CredentialStore), zap.Error(err))
			return nil, err
		}
	}
	//endregion

	//region Concurrency
	concurrencyHandler := concurrency.NewConcurrencyHandler(config.MaxConcurrentRequests, log, &concurrency.ConcurrencyMetrics{})
	//endregion

	group := config.RefreshGroup
	if group == nil {
		group = &refreshgroup.Group{}
	}

	client := &Client{
		config: config,
		http:   httpClient,
		dispatcher: dispatcher.New(dispatcher.Config{
			Transport:         transport,
			BaseURL:           config.BaseURL,
			Logger:            log,
			Concurrency:       concurrencyHandler,
			HideSensitiveData: config.HideSensitiveData,
		}),
		refresher:    authenticationhandler.NewRefresher(transport, config.BaseURL, config.RefreshEndpoint, log, config.HideSensitiveData),
		refresh:      group,
		store:        store,
		Logger:       log,
		Concurrency:  concurrencyHandler,
		onTerminated: config.OnSessionTerminated,
	}

	log.Debug("New API client initialized",
		zap.String("Refresh URL", client.refresher.URL()),
		zap.String("Log Level", config.LogLevel),
		zap.String("Log Encoding Format", config.LogOutputFormat),
		zap.Bool("Cookie Jar Enabled", config.cookieJarEnabled()),
		zap.Bool("Hide Sensitive Data In Logs", config.HideSensitiveData),
		zap.Int("Max Concurrent Requests", config.MaxConcurrentRequests),
		zap.Duration("Custom Timeout", config.CustomTimeout),
		zap.Duration("Refresh Timeout", config.RefreshTimeout),
	)

	return client, nil
}

func buildCredentialStore(config ClientConfig, log logger.Logger) (credentialstore.Store, error) {
	var store credentialstore.Store

	switch config.CredentialStore {
	case credentialstore.KindFile:
		fs, err := credentialstore.NewFileStore(config.CredentialFilePath)
		if err != nil {
			return nil, err
		}
		store = fs
	case credentialstore.KindRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		store = credentialstore.NewRedisStore(rdb, credentialstore.RedisStoreConfig{
			KeyPrefix: config.RedisKeyPrefix,
			TTL:       config.RedisTokenTTL,
		}, log)
	default:
		return credentialstore.NewMemoryStore(config.InitialCredential), nil
	}

	if config.InitialCredential != "" {
		if err := store.Set(config.InitialCredential); err != nil {
			return nil, fmt.Errorf("failed to seed credential store: %w", err)
		}
	}
	return store, nil
}

// Store returns the credential store the client reads and writes.
func (c *Client) Store() credentialstore.Store {
	return c.store
}

// HTTPClient returns the underlying *http.Client, or nil when a custom Transport was supplied.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// SessionTerminations reports how many times the session was torn down.
func (c *Client) SessionTerminations() int64 {
	return c.terminations.Load()
}

// Close flushes buffered log entries.
func (c *Client) Close() error {
	return logger.Sync(c.Logger)
}
