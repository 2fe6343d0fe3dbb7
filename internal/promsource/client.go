// Package promsource queries the Prometheus HTTP API for currently firing
// alerts.
package promsource

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"go.uber.org/zap"
)

// FiringSet is the set of alert names the backend currently reports as
// firing. It is built fresh on every query and never persisted.
type FiringSet map[string]struct{}

// Contains reports whether name is in the set.
func (fs FiringSet) Contains(name string) bool {
	_, ok := fs[name]
	return ok
}

// Client fetches firing alerts from one Prometheus instance. A single call
// issues a single query: there is no internal retry, the load balancer's
// own check cadence is the retry mechanism.
type Client struct {
	api     promv1.API
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a Client for the Prometheus instance at baseURL.
// timeout bounds every query so a slow backend cannot hang the health
// endpoint.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	apiClient, err := api.NewClient(api.Config{Address: baseURL})
	if err != nil {
		return nil, fmt.Errorf("invalid prometheus URL %s: %w", baseURL, err)
	}
	return &Client{
		api:     promv1.NewAPI(apiClient),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// FiringAlerts returns the names of alerts currently in the firing state.
// Pending alerts do not count: the watch-list is matched against conditions
// that have actually fired. Any failure is classified (see Kind) and logged
// with its subtype so a connection refusal, a non-success response, and a
// malformed payload stay distinguishable in the logs.
func (c *Client) FiringAlerts(ctx context.Context) (FiringSet, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.api.Alerts(ctx)
	if err != nil {
		kind := Kind(err)
		c.logger.Error("prometheus alert query failed",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("prometheus alert query (%s): %w", kind, err)
	}

	firing := make(FiringSet)
	for _, alert := range result.Alerts {
		if alert.State != promv1.AlertStateFiring {
			continue
		}
		name, ok := alert.Labels[model.AlertNameLabel]
		if !ok {
			// Defensive: an ALERTS entry without an alertname label
			// cannot match any watch-list entry anyway.
			continue
		}
		firing[string(name)] = struct{}{}
	}
	return firing, nil
}
