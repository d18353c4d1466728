// Package httpcache contains http utils to deal with remote price services.
package httpcache

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// DiskCache implements a simple disk cache for HTTP responses.
//
// Keys include the current day, so the cached entries expire every day.
type DiskCache struct {
	Base http.RoundTripper
	Dir  string           // defaults to os.TempDir()
	Now  func() time.Time // defaults to time.Now
}

func (c *DiskCache) dir() string {
	if c.Dir == "" {
		return os.TempDir()
	}
	return c.Dir
}

func (c *DiskCache) today() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().Format(time.DateOnly)
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *DiskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	key := fmt.Sprintf("%s %s %s", c.today(), req.Method, req.URL.String())
	key = fmt.Sprintf("dca-%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		log.Debug().Str("host", req.URL.Host).Str("path", req.URL.Path).Msg("cache hit")
		return cachedResp, nil
	}

	base := c.Base
	if base == nil {
		base = http.DefaultTransport
	}
	start := time.Now()
	resp, err = base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("method", req.Method).
		Str("host", req.URL.Host).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("http request")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	if err := c.put(key, resp); err != nil {
		log.Warn().Err(err).Msg("cache write err (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *DiskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(c.dir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *DiskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(c.dir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(file, content, 0644)
}

// Daily returns an http.Client that uses a disk cache where entries expire daily.
func Daily() *http.Client {
	client := new(http.Client)
	client.Transport = &DiskCache{Base: http.DefaultTransport}
	client.Timeout = 30 * time.Second
	return client
}

// GetJSON performs an HTTP GET request to the given address and unmarshals the
// JSON response body into the provided data structure.
func GetJSON(ctx context.Context, client *http.Client, addr string, data interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Host: resp.Request.URL.Host, Path: resp.Request.URL.Path, Status: resp.Status, Code: resp.StatusCode}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// StatusError is a non 200 answer to GetJSON.
type StatusError struct {
	Host, Path, Status string
	Code               int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot http GET %v%v: %v", e.Host, e.Path, e.Status)
}
