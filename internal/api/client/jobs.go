package client

import (
	"context"

	domain "github.com/homescout/homescout/pkg/types"
)

// ListJobs returns the most recent run for each distinct scheduler job.
func (c *Client) ListJobs(ctx context.Context) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	if err := c.get(ctx, "/api/v1/jobs", &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetJobHistory returns the run history for a specific scheduler job.
func (c *Client) GetJobHistory(ctx context.Context, jobName string) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	if err := c.get(ctx, "/api/v1/jobs/"+jobName, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
