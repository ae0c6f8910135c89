package source

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"condameta/internal/domain"
)

// InfoArchive reads the info/ members of a conda package archive.
type InfoArchive interface {
	// ReadInfo returns member name -> content for every info/ file in the
	// package at url.
	ReadInfo(ctx context.Context, url string) (map[string]string, error)
}

// Package bodies are bounded before decoding; info members are text files a
// few KB each, so anything past this is suspect.
const maxArchiveBytes = 256 << 20

// HTTPInfoArchive downloads package archives and extracts their info/
// members. Both the legacy .tar.bz2 container and the .conda container (a
// zip holding an inner zstd tarball per member class) are supported.
type HTTPInfoArchive struct {
	client *http.Client
	logger *zap.Logger
}

func NewHTTPInfoArchive(timeout time.Duration, logger *zap.Logger) *HTTPInfoArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPInfoArchive{
		client: httpClient(timeout),
		logger: logger.Named("info_archive"),
	}
}

func (a *HTTPInfoArchive) ReadInfo(ctx context.Context, url string) (map[string]string, error) {
	const op = "info archive read"

	switch {
	case strings.HasSuffix(url, ".conda"), strings.HasSuffix(url, ".tar.bz2"):
	default:
		return nil, domain.E(domain.CodeInvalidArgument, op, "url must end in .conda or .tar.bz2", nil)
	}

	body, err := a.download(ctx, url)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(url, ".conda") {
		return readCondaInfo(body)
	}
	return readTarBz2Info(body)
}

func (a *HTTPInfoArchive) download(ctx context.Context, url string) ([]byte, error) {
	const op = "info archive download"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.E(domain.CodeInternal, op, "", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, op, "", fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.E(domain.CodeNotFound, op, url, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, domain.E(domain.CodeUnavailable, op,
			fmt.Sprintf("status %d", resp.StatusCode), domain.ErrSourceUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveBytes+1))
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, op, "", fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err))
	}
	if len(body) > maxArchiveBytes {
		return nil, domain.E(domain.CodeMalformed, op, "archive exceeds size bound", domain.ErrSourceMalformed)
	}
	return body, nil
}

// readCondaInfo extracts info/ members from a .conda container: the outer
// zip carries an info-*.tar.zst entry holding the metadata tarball.
func readCondaInfo(body []byte) (map[string]string, error) {
	const op = "conda archive decode"

	reader, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, domain.E(domain.CodeMalformed, op, "", fmt.Errorf("%w: %w", domain.ErrSourceMalformed, err))
	}

	for _, entry := range reader.File {
		if !strings.HasPrefix(entry.Name, "info-") || !strings.HasSuffix(entry.Name, ".tar.zst") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, domain.E(domain.CodeMalformed, op, entry.Name, fmt.Errorf("%w: %w", domain.ErrSourceMalformed, err))
		}
		defer rc.Close()

		zr, err := zstd.NewReader(rc)
		if err != nil {
			return nil, domain.E(domain.CodeMalformed, op, entry.Name, fmt.Errorf("%w: %w", domain.ErrSourceMalformed, err))
		}
		defer zr.Close()

		return collectInfoMembers(tar.NewReader(zr))
	}
	return nil, domain.E(domain.CodeMalformed, op, "no info tarball in archive", domain.ErrSourceMalformed)
}

// readTarBz2Info scans a legacy .tar.bz2 package for its info/ members.
func readTarBz2Info(body []byte) (map[string]string, error) {
	return collectInfoMembers(tar.NewReader(bzip2.NewReader(bytes.NewReader(body))))
}

func collectInfoMembers(tr *tar.Reader) (map[string]string, error) {
	const op = "info members"

	members := make(map[string]string)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.E(domain.CodeMalformed, op, "", fmt.Errorf("%w: %w", domain.ErrSourceMalformed, err))
		}
		if header.Typeflag != tar.TypeReg || !strings.HasPrefix(header.Name, "info/") {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			// One unreadable member degrades that member only, matching the
			// partial-data contract.
			members[header.Name] = fmt.Sprintf("error while extracting: %v", err)
			continue
		}
		members[header.Name] = string(content)
	}
	return members, nil
}
