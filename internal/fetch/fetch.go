package fetch

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const defaultUserAgent = "presetutils (+https://github.com/rvkinc/presetutils)"

type Config struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:   20 * time.Second,
		UserAgent: defaultUserAgent,
	}
}

// Fetcher retrieves a remote document in one GET. It is the only network
// access the tools need: data files and statistics calls alike are treated
// as plain file downloads.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

type HTTP struct {
	config *Config
	client *http.Client
}

func NewHTTP(c *Config) *HTTP {
	if c == nil {
		c = DefaultConfig()
	}

	return &HTTP{
		config: c,
		client: &http.Client{Timeout: c.Timeout},
	}
}

// StatusError is returned when the server answers with anything but 200.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("get %s: %s", e.URL, e.Status)
}

// Get reads the whole body of rawURL, transparently decoding gzip when the
// server advertises it.
func (h *HTTP) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed url %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("malformed url %q: unsupported scheme %q", rawURL, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "create request for %s", rawURL)
	}

	req.Header.Set("Accept-Encoding", "gzip")
	ua := h.config.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "gzip body of %s", rawURL)
		}
		defer zr.Close()
		body = zr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrapf(err, "read body of %s", rawURL)
	}

	return data, nil
}
