package notebook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	errs "github.com/alexjbarnes/noted/internal/errors"
)

const (
	// maxMediaSize caps a downloaded media file.
	maxMediaSize = 50 << 20

	defaultDownloadTimeout = 10 * time.Second
)

// DownloadMedia fetches rawURL into the media directory of the notes
// folder and returns the markdown image link to insert. The download is
// bounded by DownloadTimeout and blocks the controller loop.
func (c *Controller) DownloadMedia(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: unsupported url %q", errs.ErrDownloadFailed, rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, interval(c.settings.DownloadTimeout, defaultDownloadTimeout))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrDownloadFailed, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %s", errs.ErrDownloadFailed, u.Host, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrDownloadFailed, err)
	}

	if len(data) > maxMediaSize {
		return "", fmt.Errorf("%w: file larger than %d bytes", errs.ErrDownloadFailed, maxMediaSize)
	}

	fileName := mediaFileName(u, resp.Header.Get("Content-Type"), data)

	if err := c.folder.WriteFile(path.Join(mediaDir, fileName), data); err != nil {
		return "", err
	}

	c.logger.Info("media downloaded",
		slog.String("url", u.String()),
		slog.String("file", fileName),
		slog.Int("bytes", len(data)),
	)

	alt := strings.TrimSuffix(fileName, path.Ext(fileName))

	return fmt.Sprintf("![%s](%s/%s)", alt, mediaDir, fileName), nil
}

// mediaFileName derives a stable file name from the url path and a
// content hash. The extension comes from the url or the content type.
func mediaFileName(u *url.URL, contentType string, data []byte) string {
	base := path.Base(u.Path)
	ext := strings.ToLower(path.Ext(base))
	stem := strings.TrimSuffix(base, path.Ext(base))

	if ext == "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			if exts, _ := mime.ExtensionsByType(mt); len(exts) > 0 {
				ext = exts[0]
			}
		}
	}

	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, stem)

	if stem == "" || stem == "-" || stem == "." {
		stem = "media"
	}

	sum := sha256.Sum256(data)

	return stem + "-" + hex.EncodeToString(sum[:4]) + ext
}
