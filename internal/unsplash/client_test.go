package unsplash_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"spring/internal/model"
	"spring/internal/unsplash"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const randomResponse = `{
  "id": "Dwu85P9SOIk",
  "created_at": "2016-05-03T11:00:28-04:00",
  "width": 2448,
  "height": 3264,
  "color": "#6E633A",
  "urls": {
    "raw": "https://images.unsplash.com/photo-1417325384643-aac51acc9e5d",
    "full": "https://images.unsplash.com/photo-1417325384643-aac51acc9e5d?q=75&fm=jpg",
    "regular": "https://images.unsplash.com/photo-1417325384643-aac51acc9e5d?q=75&fm=jpg&w=1080&fit=max",
    "small": "https://images.unsplash.com/photo-1417325384643-aac51acc9e5d?q=75&fm=jpg&w=400&fit=max",
    "thumb": "https://images.unsplash.com/photo-1417325384643-aac51acc9e5d?q=75&fm=jpg&w=200&fit=max"
  },
  "links": {
    "self": "https://api.unsplash.com/photos/Dwu85P9SOIk",
    "html": "https://unsplash.com/photos/Dwu85P9SOIk",
    "download": "https://unsplash.com/photos/Dwu85P9SOIk/download",
    "download_location": "%s/photos/Dwu85P9SOIk/download?ixid=abc"
  },
  "user": {
    "id": "QPxL2MGqfrw",
    "username": "exampleuser",
    "name": "Joe Example",
    "links": {
      "self": "https://api.unsplash.com/users/exampleuser",
      "html": "https://unsplash.com/@exampleuser"
    }
  }
}`

func newUpstream(t *testing.T, h http.HandlerFunc) (*httptest.Server, *unsplash.Client) {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	hc := &http.Client{Timeout: time.Second}
	return server, unsplash.NewClient(server.URL, "test-key", hc)
}

func TestClient_RandomSearch(t *testing.T) {
	var server *httptest.Server
	server, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/photos/random", r.URL.Path)
		assert.Equal(t, "mountains", r.URL.Query().Get("query"))
		assert.Empty(t, r.URL.Query().Get("collections"))
		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "v1", r.Header.Get("Accept-Version"))
		_, err := w.Write([]byte(fmt.Sprintf(randomResponse, server.URL)))
		require.Nil(t, err)
	})

	p, ref, err := c.Random(context.Background(), model.SelectionCriterion{Kind: model.KindSearch, Value: "mountains"})
	require.NoError(t, err)

	assert.Equal(t, "Dwu85P9SOIk", p.ID)
	assert.Equal(t, "#6E633A", p.Color)
	assert.Equal(t, "Joe Example", p.User.Name)
	assert.Equal(t, "https://unsplash.com/@exampleuser", p.User.Links.HTML)
	assert.Equal(t, "https://images.unsplash.com/photo-1417325384643-aac51acc9e5d", p.Urls.Raw)
	assert.Equal(t, unsplash.TrackingRef(server.URL+"/photos/Dwu85P9SOIk/download?ixid=abc"), ref)
}

func TestClient_RandomCollection(t *testing.T) {
	var server *httptest.Server
	server, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "317099", r.URL.Query().Get("collections"))
		assert.Empty(t, r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(fmt.Sprintf(randomResponse, server.URL)))
	})

	_, _, err := c.Random(context.Background(), model.SelectionCriterion{Kind: model.KindCollection, Value: "317099"})
	assert.NoError(t, err)
}

func TestClient_RandomUnsupportedKind(t *testing.T) {
	var calls atomic.Int32
	_, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	for _, k := range []model.Kind{model.KindTopic, model.KindUser} {
		_, _, err := c.Random(context.Background(), model.SelectionCriterion{Kind: k, Value: "nature"})
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.ErrUpstream))
		assert.Contains(t, err.Error(), "unsupported kind")
	}
	assert.Zero(t, calls.Load())
}

func TestClient_RandomErrorPayload(t *testing.T) {
	_, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":["Rate Limit Exceeded","Try again later"]}`))
	})

	_, _, err := c.Random(context.Background(), model.SelectionCriterion{Kind: model.KindSearch, Value: "x"})
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.ErrUpstream))
	assert.Equal(t, "Rate Limit Exceeded / Try again later", err.Error())
}

func TestClient_RandomUnparseableError(t *testing.T) {
	_, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	})

	_, _, err := c.Random(context.Background(), model.SelectionCriterion{Kind: model.KindSearch, Value: "x"})
	require.Error(t, err)
	assert.Equal(t, "upstream responded 502: bad gateway", err.Error())
}

func TestClient_RandomTransportError(t *testing.T) {
	server, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, _, err := c.Random(context.Background(), model.SelectionCriterion{Kind: model.KindSearch, Value: "x"})
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.ErrUpstream))
	assert.Contains(t, err.Error(), "Unable to retrieve an API response")
}

func TestClient_RandomMissingDownloadLocation(t *testing.T) {
	_, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x","urls":{"raw":"u"},"user":{"name":"n","links":{"html":"h"}}}`))
	})

	_, _, err := c.Random(context.Background(), model.SelectionCriterion{Kind: model.KindSearch, Value: "x"})
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.ErrMalformedRecord))
}

func TestClient_BreakerOpensOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	_, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"errors":["Rate Limit Exceeded"]}`))
	})

	sc := model.SelectionCriterion{Kind: model.KindSearch, Value: "x"}
	for range 5 {
		_, _, err := c.Random(context.Background(), sc)
		require.Error(t, err)
	}

	_, _, err := c.Random(context.Background(), sc)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.ErrUpstream))
	assert.Contains(t, err.Error(), "Upstream temporarily unavailable")
	assert.Equal(t, int32(5), calls.Load())
}

func TestClient_BreakerIgnoresCallerCancellation(t *testing.T) {
	var calls atomic.Int32
	var server *httptest.Server
	server, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-time.After(50 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		_, _ = fmt.Fprintf(w, randomResponse, server.URL)
	})

	sc := model.SelectionCriterion{Kind: model.KindSearch, Value: "x"}
	for range 6 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, _, err := c.Random(ctx, sc)
		cancel()
		require.Error(t, err)
		assert.True(t, model.IsKind(err, model.ErrUpstream))
		assert.NotContains(t, err.Error(), "temporarily unavailable")
	}

	_, ref, err := c.Random(context.Background(), sc)
	require.NoError(t, err)
	assert.NotEmpty(t, ref)
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestClient_BreakerCountsUpstreamTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	c := unsplash.NewClient(server.URL, "test-key", &http.Client{Timeout: 10 * time.Millisecond})

	sc := model.SelectionCriterion{Kind: model.KindSearch, Value: "x"}
	for range 5 {
		_, _, err := c.Random(context.Background(), sc)
		require.Error(t, err)
	}

	_, _, err := c.Random(context.Background(), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upstream temporarily unavailable")
}

func TestClient_BreakerIgnoresNotFound(t *testing.T) {
	var calls atomic.Int32
	_, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":["Couldn't find Collection"]}`))
	})

	sc := model.SelectionCriterion{Kind: model.KindCollection, Value: "missing"}
	for range 7 {
		_, _, err := c.Random(context.Background(), sc)
		require.Error(t, err)
		assert.Equal(t, "Couldn't find Collection", err.Error())
	}
	assert.Equal(t, int32(7), calls.Load())
}

func TestClient_TrackDownload(t *testing.T) {
	var hits atomic.Int32
	server, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/photos/abc/download", r.URL.Path)
		assert.Equal(t, "xyz", r.URL.Query().Get("ixid"))
		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"url":"https://images.unsplash.com/photo"}`))
	})

	err := c.TrackDownload(context.Background(), unsplash.TrackingRef(server.URL+"/photos/abc/download?ixid=xyz"))
	assert.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_TrackDownloadFailure(t *testing.T) {
	server, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.TrackDownload(context.Background(), unsplash.TrackingRef(server.URL+"/photos/abc/download"))
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.ErrTracking))
}

func TestClient_TrackDownloadRefusesForeignHost(t *testing.T) {
	var hits atomic.Int32
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer foreign.Close()

	_, c := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {})

	err := c.TrackDownload(context.Background(), unsplash.TrackingRef(foreign.URL+"/steal"))
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.ErrTracking))
	assert.Zero(t, hits.Load())
}
