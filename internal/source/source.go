// Package source contains the narrow, read-only adapters to external conda
// metadata: the repodata index, the file-ownership paths service, name
// mapping tables, package info archives, and CLI help capture. Adapters do
// all network and process I/O for the tool layer; failures are classified
// into the domain sentinel errors so resolution engines never see raw
// transport errors.
package source

import (
	"net/http"
	"time"
)

// PackageRecord is the normalized repodata entry shared by search and
// repoquery. Field names follow the repodata wire format.
type PackageRecord struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Build       string   `json:"build"`
	BuildNumber int      `json:"build_number"`
	Depends     []string `json:"depends"`
	Subdir      string   `json:"subdir"`
	URL         string   `json:"url"`
}

// MappingTable resolves import and PyPI names against the snapshot store.
// Lookups return domain.ErrNotFound for absent keys.
type MappingTable interface {
	PackagesForImport(importName string) ([]string, error)
	CondaNamesForPyPI(normalizedName string) ([]string, error)
}

const defaultHTTPTimeout = 10 * time.Second

func httpClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}
