package httpcache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"close": 12.5}`))
	}))
	defer srv.Close()

	day := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	client := &http.Client{Transport: &DiskCache{
		Base: http.DefaultTransport,
		Dir:  t.TempDir(),
		Now:  func() time.Time { return day },
	}}

	for range 2 {
		var got struct{ Close float64 }
		require.NoError(t, GetJSON(context.Background(), client, srv.URL+"/price", &got))
		assert.Equal(t, 12.5, got.Close)
	}
	assert.Equal(t, int32(1), hits.Load(), "second call is served from disk")

	day = day.AddDate(0, 0, 1)
	var got struct{ Close float64 }
	require.NoError(t, GetJSON(context.Background(), client, srv.URL+"/price", &got))
	assert.Equal(t, int32(2), hits.Load(), "cache expires the next day")

	// errors are never cached.
	for range 2 {
		err := GetJSON(context.Background(), client, srv.URL+"/missing", &got)
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.Code)
	}
	assert.Equal(t, int32(4), hits.Load())
}
