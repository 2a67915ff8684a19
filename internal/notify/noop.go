package notify

import (
	"context"
	"log/slog"
)

// NoOpNotifier implements Notifier by logging discarded alerts. It is used
// when no webhook backend is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards alerts with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// SendAlert logs and discards a single alert.
func (n *NoOpNotifier) SendAlert(_ context.Context, alert *AlertPayload) error {
	n.log.Debug("notification discarded (no backend configured)",
		"search", alert.SearchName,
		"buyer", alert.BuyerID,
		"listings", len(alert.Listings),
	)
	return nil
}

// SendDigest logs and discards a digest of alerts.
func (n *NoOpNotifier) SendDigest(_ context.Context, searchName string, alerts []AlertPayload) error {
	n.log.Debug("digest notification discarded (no backend configured)",
		"search", searchName,
		"count", len(alerts),
	)
	return nil
}
