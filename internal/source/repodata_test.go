package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"condameta/internal/domain"
)

const repodataFixture = `{
	"packages": {
		"numpy-1.24.0-py311_0.tar.bz2": {
			"name": "numpy", "version": "1.24.0", "build": "py311_0",
			"build_number": 0, "depends": ["python >=3.11"], "subdir": "linux-64"
		}
	},
	"packages.conda": {
		"numpy-2.0.0-py312_0.conda": {
			"name": "numpy", "version": "2.0.0", "build": "py312_0",
			"build_number": 0, "depends": ["python >=3.12"], "subdir": "linux-64"
		},
		"libblas-3.9.0-h5e5b867_0.conda": {
			"name": "libblas", "version": "3.9.0", "build": "h5e5b867_0",
			"build_number": 0, "depends": [], "subdir": "linux-64"
		}
	}
}`

func TestHTTPRepodataClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/conda-forge/linux-64/repodata.json", r.URL.Path)
		w.Write([]byte(repodataFixture))
	}))
	defer server.Close()

	client := NewHTTPRepodataClient(server.URL, 0, nil)
	records, err := client.Fetch(context.Background(), "conda-forge", "linux-64")
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Records are sorted by name then URL, independent of map order.
	require.Equal(t, "libblas", records[0].Name)
	require.Equal(t, "numpy", records[1].Name)
	require.Equal(t, "numpy", records[2].Name)

	require.Equal(t, server.URL+"/conda-forge/linux-64/libblas-3.9.0-h5e5b867_0.conda", records[0].URL)
	require.Equal(t, []string{"python >=3.11"}, records[1].Depends)
}

func TestHTTPRepodataClient_UnknownChannelIs404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewHTTPRepodataClient(server.URL, 0, nil).Fetch(context.Background(), "nope", "linux-64")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHTTPRepodataClient_ServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewHTTPRepodataClient(server.URL, 0, nil).Fetch(context.Background(), "conda-forge", "linux-64")
	require.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestHTTPRepodataClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"packages": 7}`))
	}))
	defer server.Close()

	_, err := NewHTTPRepodataClient(server.URL, 0, nil).Fetch(context.Background(), "conda-forge", "linux-64")
	require.ErrorIs(t, err, domain.ErrSourceMalformed)
}
