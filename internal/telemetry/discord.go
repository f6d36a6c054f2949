package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Reporter is a fire-and-forget error sink. Implementations must never block
// the caller or surface their own failures.
type Reporter interface {
	Report(message string, details map[string]string)
}

// DiscordReporter posts error embeds to a Discord webhook.
type DiscordReporter struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

// NewDiscordReporter creates a DiscordReporter for the given webhook URL.
func NewDiscordReporter(webhookURL string, logger *zap.Logger) *DiscordReporter {
	return &DiscordReporter{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Color       int     `json:"color"`
	Fields      []field `json:"fields"`
}

type field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Report sends the error embed in the background. Delivery failures are
// logged and dropped.
func (r *DiscordReporter) Report(message string, details map[string]string) {
	fields := []field{
		{Name: "Timestamp", Value: time.Now().UTC().Format(time.RFC3339)},
	}
	for name, value := range details {
		if len(value) > 1000 {
			value = value[:1000]
		}
		fields = append(fields, field{Name: name, Value: value})
	}

	payload := webhookPayload{
		Embeds: []embed{{
			Title:       "🚨 Error Report",
			Description: message,
			Color:       0xff0000,
			Fields:      fields,
		}},
	}

	go func() {
		raw, err := json.Marshal(payload)
		if err != nil {
			r.logger.Warn("failed to marshal error report", zap.Error(err))
			return
		}

		resp, err := r.client.Post(r.webhookURL, "application/json", bytes.NewReader(raw))
		if err != nil {
			r.logger.Warn("failed to send error report", zap.Error(err))
			return
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 300 {
			r.logger.Warn("error report rejected",
				zap.String("status", fmt.Sprintf("%d", resp.StatusCode)),
			)
		}
	}()
}

// NoopReporter discards every report. Used when no webhook is configured.
type NoopReporter struct{}

func (NoopReporter) Report(string, map[string]string) {}
