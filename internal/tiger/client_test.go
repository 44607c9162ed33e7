package tiger

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NREL/bamcensus/internal/geoid"
)

// zipShapefile packs a shapefile and its sidecars into ZIP bytes.
func zipShapefile(t *testing.T, shpPath string) []byte {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(tmpFile)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	base := strings.TrimSuffix(shpPath, ".shp")
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		data, readErr := os.ReadFile(base + ext)
		if readErr != nil {
			continue
		}
		fw, createErr := w.Create(filepath.Base(base) + ext)
		require.NoError(t, createErr)
		_, writeErr := fw.Write(data)
		require.NoError(t, writeErr)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	return data
}

func TestClient_FetchGeometries(t *testing.T) {
	t.Parallel()

	shpPath := writeCountyShapefile(t, "GEOID", []string{"08213", "08215", "48201"})
	zipContent := zipShapefile(t, shpPath)

	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Path)
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(zipContent)
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithCacheDir(t.TempDir()),
	)

	// the national county file covers both, one download expected
	result := c.FetchGeometries(context.Background(), 2020, []geoid.Geoid{
		geoid.County{State: 8, County: 213},
		geoid.County{State: 48, County: 201},
	})

	assert.Empty(t, result.Errors)
	require.Len(t, result.Rows, 2)
	require.Len(t, requests, 1)
	assert.Equal(t, "/TIGER2020/COUNTY/tl_2020_us_county.zip", requests[0])

	got := make(map[geoid.Geoid]bool)
	for _, row := range result.Rows {
		got[row.Geoid] = true
		assert.NotNil(t, row.Geometry)
	}
	// the unrequested county is filtered out
	assert.True(t, got[geoid.County{State: 8, County: 213}])
	assert.True(t, got[geoid.County{State: 48, County: 201}])
	assert.False(t, got[geoid.County{State: 8, County: 215}])
}

func TestClient_FetchGeometries_DownloadFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithCacheDir(t.TempDir()),
	)

	result := c.FetchGeometries(context.Background(), 2020, []geoid.Geoid{
		geoid.County{State: 8, County: 213},
	})

	assert.Empty(t, result.Rows)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "status 404")
}

func TestClient_FetchGeometries_BadYear(t *testing.T) {
	t.Parallel()

	c := NewClient(WithCacheDir(t.TempDir()))
	result := c.FetchGeometries(context.Background(), 2005, []geoid.Geoid{
		geoid.County{State: 8, County: 213},
	})

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "unsupported year")
}

func TestClient_Download_CacheHit(t *testing.T) {
	t.Parallel()

	shpPath := writeCountyShapefile(t, "GEOID", []string{"08213"})
	zipContent := zipShapefile(t, shpPath)

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write(zipContent)
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	c := NewClient(
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithCacheDir(cacheDir),
	)

	geoids := []geoid.Geoid{geoid.County{State: 8, County: 213}}

	result := c.FetchGeometries(context.Background(), 2020, geoids)
	require.Empty(t, result.Errors)
	assert.Equal(t, 1, calls)

	// second fetch reuses the cached zip
	result = c.FetchGeometries(context.Background(), 2020, geoids)
	require.Empty(t, result.Errors)
	assert.Equal(t, 1, calls)
}
