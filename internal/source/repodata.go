package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"condameta/internal/domain"
)

// RepodataClient fetches the package index for one channel/platform pair.
type RepodataClient interface {
	Fetch(ctx context.Context, channel, platform string) ([]PackageRecord, error)
}

// HTTPRepodataClient reads repodata.json from an anaconda.org-style channel
// mirror.
type HTTPRepodataClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPRepodataClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPRepodataClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPRepodataClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient(timeout),
		logger:  logger.Named("repodata"),
	}
}

type rawRepodata struct {
	Packages      map[string]rawPackage `json:"packages"`
	CondaPackages map[string]rawPackage `json:"packages.conda"`
}

type rawPackage struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Build       string   `json:"build"`
	BuildNumber int      `json:"build_number"`
	Depends     []string `json:"depends"`
	Subdir      string   `json:"subdir"`
}

// Fetch downloads and decodes repodata for channel/platform. A 404 means the
// channel or platform does not exist, reported as ErrNotFound so tools can
// distinguish it from an outage.
func (c *HTTPRepodataClient) Fetch(ctx context.Context, channel, platform string) ([]PackageRecord, error) {
	const op = "repodata fetch"

	target := fmt.Sprintf("%s/%s/%s/repodata.json", c.baseURL, channel, platform)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, domain.E(domain.CodeInternal, op, "", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, op, "", fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.E(domain.CodeNotFound, op,
			fmt.Sprintf("%s/%s", channel, platform), domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, domain.E(domain.CodeUnavailable, op,
			fmt.Sprintf("status %d", resp.StatusCode), domain.ErrSourceUnavailable)
	}

	var decoded rawRepodata
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, domain.E(domain.CodeMalformed, op, "", fmt.Errorf("%w: %w", domain.ErrSourceMalformed, err))
	}

	records := make([]PackageRecord, 0, len(decoded.Packages)+len(decoded.CondaPackages))
	records = appendRecords(records, decoded.Packages, c.baseURL, channel, platform)
	records = appendRecords(records, decoded.CondaPackages, c.baseURL, channel, platform)
	// Repodata maps iterate in random order; fix the adapter order so every
	// downstream answer is deterministic for a given snapshot.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].URL < records[j].URL
	})
	c.logger.Debug("repodata fetched",
		zap.String("channel", channel),
		zap.String("platform", platform),
		zap.Int("records", len(records)))
	return records, nil
}

func appendRecords(dst []PackageRecord, pkgs map[string]rawPackage, base, channel, platform string) []PackageRecord {
	for filename, pkg := range pkgs {
		subdir := pkg.Subdir
		if subdir == "" {
			subdir = platform
		}
		dst = append(dst, PackageRecord{
			Name:        pkg.Name,
			Version:     pkg.Version,
			Build:       pkg.Build,
			BuildNumber: pkg.BuildNumber,
			Depends:     pkg.Depends,
			Subdir:      subdir,
			URL:         fmt.Sprintf("%s/%s/%s/%s", base, channel, subdir, filename),
		})
	}
	return dst
}
