// status/status_test.go
package status

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want Classification
	}{
		{http.StatusOK, Success},
		{http.StatusCreated, Success},
		{http.StatusNotFound, Success},
		{http.StatusInternalServerError, Success},
		{http.StatusUnauthorized, Unauthorized},
		{http.StatusForbidden, Forbidden},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatusCode(tt.code))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, TransportError, Classify(nil, errors.New("dial tcp: no such host")))
	assert.Equal(t, TransportError, Classify(nil, nil))
	assert.Equal(t, TransportError, Classify(&http.Response{StatusCode: 200}, errors.New("late failure")))
	assert.Equal(t, Unauthorized, Classify(&http.Response{StatusCode: 401}, nil))
}

func TestClassificationString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "unauthorized", Unauthorized.String())
	assert.Equal(t, "forbidden", Forbidden.String())
	assert.Equal(t, "transport_error", TransportError.String())
	assert.Equal(t, "unknown", Classification(99).String())
}

func TestIsSuccessStatusCode(t *testing.T) {
	assert.True(t, IsSuccessStatusCode(200))
	assert.True(t, IsSuccessStatusCode(204))
	assert.False(t, IsSuccessStatusCode(302))
	assert.False(t, IsSuccessStatusCode(401))
}

func TestIsRedirectStatusCode(t *testing.T) {
	assert.True(t, IsRedirectStatusCode(http.StatusFound))
	assert.False(t, IsRedirectStatusCode(http.StatusOK))
}
