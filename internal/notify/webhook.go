package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const (
	colorGreen  = 0x2ECC71 // match score 90+
	colorYellow = 0xF1C40F // match score 70-89
	colorBlue   = 0x3498DB // everything else

	// Webhook receivers cap embeds per message.
	maxEmbedsPerMessage = 10
)

// WebhookNotifier implements Notifier via a Discord-compatible webhook.
// A token bucket limiter keeps bursts of alerts under the receiver's
// rate limit.
type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
	limiter    *rate.Limiter
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(webhookURL string, opts ...WebhookOption) *WebhookNotifier {
	w := &WebhookNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(1), 5),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *WebhookNotifier) {
		w.client = c
	}
}

// WithRateLimit sets the sustained send rate and burst size.
func WithRateLimit(perSecond float64, burst int) WebhookOption {
	return func(w *WebhookNotifier) {
		w.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// webhookPayload is the webhook JSON structure.
type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

type embed struct {
	Title       string       `json:"title"`
	Color       int          `json:"color"`
	Description string       `json:"description,omitempty"`
	Fields      []embedField `json:"fields,omitempty"`
	Thumbnail   *thumbnail   `json:"thumbnail,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type thumbnail struct {
	URL string `json:"url"`
}

// SendAlert sends one alert as a single webhook message, one embed per listing.
func (w *WebhookNotifier) SendAlert(ctx context.Context, alert *AlertPayload) error {
	embeds := buildEmbeds(alert.SearchName, alert.Listings)
	return w.post(ctx, webhookPayload{Embeds: embeds})
}

// SendDigest collapses several alerts for a search into one summary message.
func (w *WebhookNotifier) SendDigest(
	ctx context.Context,
	searchName string,
	alerts []AlertPayload,
) error {
	var listings []ListingSummary
	for _, a := range alerts {
		listings = append(listings, a.Listings...)
	}

	embeds := buildEmbeds(searchName, listings)
	return w.post(ctx, webhookPayload{Embeds: embeds})
}

func buildEmbeds(searchName string, listings []ListingSummary) []embed {
	limit := min(len(listings), maxEmbedsPerMessage-1)

	embeds := make([]embed, 0, limit+1)
	for i := range limit {
		embeds = append(embeds, buildEmbed(searchName, &listings[i]))
	}

	if len(listings) > limit {
		embeds = append(embeds, embed{
			Title:       fmt.Sprintf("... and %d more new matches for %s", len(listings)-limit, searchName),
			Color:       colorYellow,
			Description: "Open the app for the full list.",
		})
	}

	return embeds
}

func buildEmbed(searchName string, l *ListingSummary) embed {
	e := embed{
		Title: fmt.Sprintf("New match for %s: %s", searchName, l.Title),
		Color: scoreColor(l.MatchScore),
		Fields: []embedField{
			{Name: "Price", Value: fmt.Sprintf("$%.0f", l.Price), Inline: true},
			{Name: "City", Value: l.City, Inline: true},
			{Name: "Match", Value: fmt.Sprintf("%d/100", l.MatchScore), Inline: true},
		},
	}

	if l.Bedrooms != nil {
		e.Fields = append(e.Fields, embedField{
			Name: "Beds", Value: fmt.Sprintf("%d", *l.Bedrooms), Inline: true,
		})
	}
	if l.Bathrooms != nil {
		e.Fields = append(e.Fields, embedField{
			Name: "Baths", Value: fmt.Sprintf("%g", *l.Bathrooms), Inline: true,
		})
	}
	if l.Address != "" {
		e.Description = l.Address
	}
	if l.PhotoURL != "" {
		e.Thumbnail = &thumbnail{URL: l.PhotoURL}
	}

	return e
}

func scoreColor(score int) int {
	switch {
	case score >= 90:
		return colorGreen
	case score >= 70:
		return colorYellow
	default:
		return colorBlue
	}
}

func (w *WebhookNotifier) post(ctx context.Context, payload webhookPayload) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for webhook rate limiter: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		w.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("webhook rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("webhook returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
