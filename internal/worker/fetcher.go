package worker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ArtifactFetcher downloads submitted artifact bytes. One attempt per call:
// retries are the bus's job, via redelivery.
type ArtifactFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type httpFetcher struct {
	client *http.Client
	logger zerolog.Logger
}

func NewHTTPFetcher(timeout time.Duration, logger zerolog.Logger) ArtifactFetcher {
	return &httpFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("artifact fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact body: %w", err)
	}

	f.logger.Debug().
		Str("url", url).
		Int("size", len(data)).
		Msg("Fetched artifact")

	return data, nil
}
