// httpclient/client_test.go
package httpclient

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/deploymenttheory/go-api-session-client/credentialstore"
	"github.com/deploymenttheory/go-api-session-client/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClient_Defaults(t *testing.T) {
	client, err := BuildClient(ClientConfig{
		BaseURL: "https://api.example.com",
		Logger:  logger.NewNopLogger(),
	}, true)
	require.NoError(t, err)

	require.NotNil(t, client.HTTPClient())
	assert.NotNil(t, client.HTTPClient().Jar)
	assert.Equal(t, DefaultCustomTimeout, client.HTTPClient().Timeout)
	assert.Equal(t, DefaultMaxConcurrentRequests, client.Concurrency.Limit())
	assert.IsType(t, &credentialstore.MemoryStore{}, client.Store())
	assert.Equal(t, "https://api.example.com/refresh", client.refresher.URL())
	assert.NoError(t, client.Close())
}

func TestBuildClient_InvalidConfig(t *testing.T) {
	_, err := BuildClient(ClientConfig{Logger: logger.NewNopLogger()}, true)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestBuildClient_CookieJarDisabled(t *testing.T) {
	disabled := false
	client, err := BuildClient(ClientConfig{
		BaseURL:          "https://api.example.com",
		CookieJarEnabled: &disabled,
		Logger:           logger.NewNopLogger(),
	}, true)
	require.NoError(t, err)
	assert.Nil(t, client.HTTPClient().Jar)
}

func TestBuildClient_CustomTransport(t *testing.T) {
	custom := &http.Client{}
	client, err := BuildClient(ClientConfig{
		BaseURL:   "https://api.example.com",
		Transport: custom,
		Logger:    logger.NewNopLogger(),
	}, true)
	require.NoError(t, err)

	assert.Same(t, custom, client.HTTPClient())
	assert.NotNil(t, custom.Jar, "a jar is attached to a caller supplied *http.Client")
}

func TestBuildClient_FileStoreSurvivesRestart(t *testing.T) {
	api := newFakeAPI(t, "B", "B")
	path := filepath.Join(t.TempDir(), "session", "token.json")

	build := func(seed string) *Client {
		client, err := BuildClient(ClientConfig{
			BaseURL:            api.server.URL,
			CredentialStore:    credentialstore.KindFile,
			CredentialFilePath: path,
			InitialCredential:  seed,
			Logger:             logger.NewNopLogger(),
		}, true)
		require.NoError(t, err)
		return client
	}

	first := build("A")
	resp := first.Authenticate(context.Background(), "/widgets", nil)
	require.NotNil(t, resp)
	resp.Body.Close()
	assert.Equal(t, int32(1), api.refreshCalls.Load())

	second := build("")
	token, ok := second.Store().Get()
	require.True(t, ok)
	assert.Equal(t, "B", token)

	resp = second.Authenticate(context.Background(), "/widgets", nil)
	require.NotNil(t, resp)
	resp.Body.Close()
	assert.Equal(t, int32(1), api.refreshCalls.Load(), "persisted token is reused without a refresh")
}

func TestBuildClient_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	api := newFakeAPI(t, "B", "B")

	client, err := BuildClient(ClientConfig{
		BaseURL:           api.server.URL,
		CredentialStore:   credentialstore.KindRedis,
		RedisAddr:         mr.Addr(),
		RedisKeyPrefix:    "svc",
		InitialCredential: "A",
		Logger:            logger.NewNopLogger(),
	}, true)
	require.NoError(t, err)

	seeded, err := mr.Get("svc:access_token")
	require.NoError(t, err)
	assert.Equal(t, "A", seeded)

	resp := client.Authenticate(context.Background(), "/widgets", nil)
	require.NotNil(t, resp)
	resp.Body.Close()

	refreshed, err := mr.Get("svc:access_token")
	require.NoError(t, err)
	assert.Equal(t, "B", refreshed)
}
