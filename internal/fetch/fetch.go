// Package fetch retrieves one-off scan sources: local files, URLs, or
// standard input. Library chapters never pass through here; this path
// exists for scanning arbitrary documents outside the library.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// MaxSourceBytes caps how much of any source is read, preventing a
// runaway document from exhausting memory.
const MaxSourceBytes = 50 * 1024 * 1024

// requestTimeout bounds the full HTTP exchange for URL sources.
const requestTimeout = 30 * time.Second

// httpClient is shared across fetches; safe for concurrent use.
var httpClient = &http.Client{Timeout: requestTimeout}

// limitedReadCloser enforces MaxSourceBytes on an underlying reader.
type limitedReadCloser struct {
	io.ReadCloser
	n      int64
	source string
}

func (l *limitedReadCloser) Read(p []byte) (int, error) {
	if l.n <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.n {
		p = p[:l.n]
	}
	n, err := l.ReadCloser.Read(p)
	l.n -= int64(n)
	return n, err
}

// Open returns a reader over the named source:
//   - "-" reads standard input
//   - "http://" and "https://" sources are fetched over HTTP
//   - anything else is a local file path
//
// The caller owns closing the returned reader.
func Open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		return &limitedReadCloser{ReadCloser: io.NopCloser(os.Stdin), n: MaxSourceBytes, source: "stdin"}, nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return openURL(ctx, source)
	default:
		return openFile(source)
	}
}

func openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "hilite/0.1")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request for %q failed: %s", url, resp.Status)
	}

	return &limitedReadCloser{ReadCloser: resp.Body, n: MaxSourceBytes, source: url}, nil
}

func openFile(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if info.Size() > MaxSourceBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes)", path, info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	return f, nil
}
