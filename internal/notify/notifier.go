// Package notify defines the notification interface and implementations
// for alert delivery.
package notify

import (
	"context"
)

// ListingSummary is the subset of listing data included in a notification.
type ListingSummary struct {
	Title      string
	Address    string
	City       string
	Price      float64
	Bedrooms   *int
	Bathrooms  *float64
	PhotoURL   string
	MatchScore int
}

// AlertPayload contains the data needed to send one new-match notification.
type AlertPayload struct {
	SearchName string
	BuyerID    string
	Listings   []ListingSummary
}

// Notifier defines the interface for sending saved-search alert notifications.
type Notifier interface {
	SendAlert(ctx context.Context, alert *AlertPayload) error
	SendDigest(ctx context.Context, searchName string, alerts []AlertPayload) error
}
