package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// maxArtifactBytes bounds a single artifact download
const maxArtifactBytes = 512 << 20

// ArtifactClient is an HTTP client for downloading model artifacts
type ArtifactClient struct {
	httpClient *http.Client
	maxRetries uint64
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

// NewArtifactClient creates a new artifact client. Failed downloads are retried
// up to maxRetries times with exponential backoff.
func NewArtifactClient(timeout time.Duration, maxRetries int, logger *zap.Logger) *ArtifactClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArtifactClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: uint64(maxRetries),
		logger:     logger,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Fetch downloads the artifact at url. Client errors (4xx) are not retried.
func (c *ArtifactClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	attempt := 0

	operation := func() error {
		attempt++
		data, err := c.fetchOnce(ctx, url)
		if err != nil {
			return err
		}
		body = data
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("Artifact download failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *ArtifactClient) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("artifact source returned status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > maxArtifactBytes {
		return nil, backoff.Permanent(fmt.Errorf("artifact exceeds %d bytes", maxArtifactBytes))
	}
	return data, nil
}
