package tiger

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/NREL/bamcensus/internal/retry"
)

// download fetches a TIGER/Line ZIP into the cache directory and extracts
// it, returning the path to the extracted .shp file. A ZIP already present
// with content is reused rather than re-downloaded.
func (c *client) download(ctx context.Context, uri string) (string, error) {
	log := c.log.With(zap.String("uri", uri))

	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return "", eris.Wrap(err, "tiger: create cache dir")
	}

	parts := strings.Split(uri, "/")
	zipName := parts[len(parts)-1]
	zipPath := filepath.Join(c.cacheDir, zipName)

	if info, err := os.Stat(zipPath); err == nil && info.Size() > 0 {
		log.Debug("zip already cached, skipping download", zap.String("path", zipPath))
	} else {
		log.Info("downloading TIGER/Line file")
		err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
			return c.downloadFile(ctx, uri, zipPath)
		})
		if err != nil {
			return "", eris.Wrap(err, "tiger: download")
		}
	}

	extractDir := filepath.Join(c.cacheDir, strings.TrimSuffix(zipName, ".zip"))
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "tiger: create extract dir")
	}
	if err := extractZIP(zipPath, extractDir); err != nil {
		return "", eris.Wrap(err, "tiger: extract zip")
	}

	shpPath, err := findFileByExt(extractDir, ".shp")
	if err != nil {
		return "", eris.Wrap(err, "tiger: find .shp file")
	}
	return shpPath, nil
}

// downloadFile streams a URL to a local file.
func (c *client) downloadFile(ctx context.Context, url, dest string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("download returned status %d", resp.StatusCode)
		if retry.RetryableStatus(resp.StatusCode) {
			return retry.MarkTransient(statusErr, resp.StatusCode)
		}
		return statusErr
	}

	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, resp.Body); err != nil {
		return eris.Wrap(err, "write file")
	}
	return nil
}

// extractZIP extracts a ZIP archive to the destination directory, flattening
// entry paths.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(f.Name))

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}
	return nil
}

// findFileByExt finds the first file with the given extension in a directory.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file found in %s", ext, dir)
}

// defaultHTTPClient allows ten minutes per file, block shapefiles run large.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Minute}
}
