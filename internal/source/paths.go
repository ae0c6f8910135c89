package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"condameta/internal/domain"
)

// PathsIndex answers file-path to artifact ownership queries.
type PathsIndex interface {
	FindArtifacts(ctx context.Context, path string) ([]string, error)
}

// HTTPPathsIndex queries the conda-forge-paths service
// (find_artifacts.json?path=...).
type HTTPPathsIndex struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

func NewHTTPPathsIndex(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPPathsIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPPathsIndex{
		endpoint: endpoint,
		client:   httpClient(timeout),
		logger:   logger.Named("paths_index"),
	}
}

type pathsResponse struct {
	OK    bool    `json:"ok"`
	Rows  [][]any `json:"rows"`
	Error string  `json:"error"`
}

// FindArtifacts returns the artifact names shipping the given path. Multiple
// owners are a legitimate case and are returned as-is.
func (p *HTTPPathsIndex) FindArtifacts(ctx context.Context, path string) ([]string, error) {
	const op = "paths find_artifacts"

	query := url.Values{"path": {path}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, domain.E(domain.CodeInternal, op, "", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, op, "", fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.E(domain.CodeUnavailable, op,
			fmt.Sprintf("status %d", resp.StatusCode), domain.ErrSourceUnavailable)
	}

	var decoded pathsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, domain.E(domain.CodeMalformed, op, "", fmt.Errorf("%w: %w", domain.ErrSourceMalformed, err))
	}
	if !decoded.OK {
		p.logger.Debug("paths service reported failure", zap.String("path", path), zap.String("error", decoded.Error))
		return nil, domain.E(domain.CodeUnavailable, op, decoded.Error, domain.ErrSourceUnavailable)
	}

	artifacts := make([]string, 0, len(decoded.Rows))
	for _, row := range decoded.Rows {
		if len(row) == 0 {
			continue
		}
		name, ok := row[0].(string)
		if !ok {
			return nil, domain.E(domain.CodeMalformed, op, "non-string artifact name", domain.ErrSourceMalformed)
		}
		artifacts = append(artifacts, name)
	}
	return artifacts, nil
}
