package telemetry

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDiscordReporter_Report(t *testing.T) {
	received := make(chan webhookPayload, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload webhookPayload
		require.NoError(t, json.Unmarshal(raw, &payload))
		received <- payload

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	reporter := NewDiscordReporter(srv.URL, zap.NewNop())
	reporter.Report("handler error", map[string]string{
		"chat_id": "42",
		"error":   strings.Repeat("x", 1500),
	})

	select {
	case payload := <-received:
		require.Len(t, payload.Embeds, 1)
		e := payload.Embeds[0]
		assert.Equal(t, "handler error", e.Description)
		assert.Equal(t, 0xff0000, e.Color)

		values := make(map[string]string, len(e.Fields))
		for _, f := range e.Fields {
			values[f.Name] = f.Value
		}
		assert.Equal(t, "42", values["chat_id"])
		assert.Len(t, values["error"], 1000)
		assert.NotEmpty(t, values["Timestamp"])

	case <-time.After(5 * time.Second):
		t.Fatal("report never reached the webhook")
	}
}

func TestNoopReporter(t *testing.T) {
	assert.NotPanics(t, func() {
		NoopReporter{}.Report("anything", map[string]string{"k": "v"})
	})
}
