package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlegoff/charlcd/apimodel"
	"github.com/tlegoff/charlcd/internal/srv/config"
	"github.com/tlegoff/charlcd/internal/srv/event"
)

func newTestApi(t *testing.T) *Api {
	t.Helper()

	cfg := &config.ServerConfig{
		ConfigDir: t.TempDir(),
		ServerParam: &config.ServerParam{
			ApiParam: config.ApiParam{
				Enabled: true,
				SslPort: 13667,
				ApiKey:  "sesame",
			},
		},
	}
	return NewApi(cfg)
}

func doRequest(a *Api, method, path, apiKey string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		r.Header.Set("x-api-key", apiKey)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apimodel.ErrorMessage {
	t.Helper()

	var msg apimodel.ErrorMessage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&msg))
	return msg
}

func TestApiKeyRequired(t *testing.T) {
	a := newTestApi(t)

	w := doRequest(a, "GET", "/api/is_alive", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decodeError(t, w).ErrMessage)

	w = doRequest(a, "GET", "/api/is_alive", "wrong")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIsAlive(t *testing.T) {
	a := newTestApi(t)

	w := doRequest(a, "GET", "/api/is_alive", "sesame")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ok", decodeError(t, w).ErrMessage)
}

func TestUnknownRoute(t *testing.T) {
	a := newTestApi(t)

	w := doRequest(a, "GET", "/api/no_such_thing", "sesame")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	a := newTestApi(t)

	w := doRequest(a, "POST", "/api/is_alive", "sesame")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// serveEvents plays the role of the main loop for one request.
func serveEvents(a *Api, handle func(data interface{}) error) {
	go func() {
		ev := <-a.EventChannel()
		ev.Result <- handle(ev.Data)
	}()
}

func TestStatusEndpoint(t *testing.T) {
	a := newTestApi(t)

	serveEvents(a, func(data interface{}) error {
		statusData, ok := data.(*event.ApiEventStatusData)
		if !ok {
			t.Errorf("unexpected event data %T", data)
			return nil
		}
		statusData.Status = &apimodel.ServerStatus{
			Version:         "1.0.0",
			ProtocolVersion: "0.3",
			Width:           20,
			Height:          4,
			ClientCount:     2,
		}
		return nil
	})

	w := doRequest(a, "GET", "/api/status", "sesame")
	require.Equal(t, http.StatusOK, w.Code)

	var status apimodel.ServerStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, "1.0.0", status.Version)
	assert.Equal(t, 2, status.ClientCount)
}

func TestOutputEndpoint(t *testing.T) {
	a := newTestApi(t)

	var got int
	serveEvents(a, func(data interface{}) error {
		got = data.(event.ApiEventOutputData).State
		return nil
	})

	w := doRequest(a, "POST", "/api/output/0x2a", "sesame")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 42, got)

	w = doRequest(a, "POST", "/api/output/naan", "sesame")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServerMsgEndpoint(t *testing.T) {
	a := newTestApi(t)

	var gotText string
	var gotFrames int
	serveEvents(a, func(data interface{}) error {
		msg := data.(event.ApiEventServerMsgData)
		gotText, gotFrames = msg.Text, msg.Frames
		return nil
	})

	w := doRequest(a, "POST", "/api/server_msg/Rotate/8", "sesame")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Rotate", gotText)
	assert.Equal(t, 8, gotFrames)
}
