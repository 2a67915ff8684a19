package client

import (
	"context"
	"strconv"

	domain "github.com/homescout/homescout/pkg/types"
)

// ListSearchAlerts returns a search's alert history, newest first.
func (c *Client) ListSearchAlerts(ctx context.Context, searchID string, limit int) ([]domain.Alert, error) {
	path := "/api/v1/searches/" + searchID + "/alerts"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var alerts []domain.Alert
	if err := c.get(ctx, path, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// ListPendingAlerts returns alerts whose notifications have not gone out yet.
func (c *Client) ListPendingAlerts(ctx context.Context) ([]domain.Alert, error) {
	var alerts []domain.Alert
	if err := c.get(ctx, "/api/v1/alerts/pending", &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// MarkAlertRead marks one alert as notified.
func (c *Client) MarkAlertRead(ctx context.Context, id string) error {
	return c.post(ctx, "/api/v1/alerts/"+id+"/read", nil, nil)
}

// MarkAlertsRead marks a batch of alerts as notified.
func (c *Client) MarkAlertsRead(ctx context.Context, ids []string) error {
	body := map[string][]string{"ids": ids}
	return c.post(ctx, "/api/v1/alerts/read", body, nil)
}
