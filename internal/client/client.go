// Package client is the widget's view of the EdgeProxy.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"spring/internal/model"

	"github.com/go-faster/errors"
)

type PhotoClient interface {
	Random(ctx context.Context, sc model.SelectionCriterion) (model.Photo, error)
}

// NewClient targets the proxy at baseURL. cacheTTL is advertised to
// intermediaries on every request.
func NewClient(baseURL string, cacheTTL time.Duration, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL:  baseURL,
		cacheTTL: cacheTTL,
		hc:       hc,
	}
}

type Client struct {
	baseURL  string
	cacheTTL time.Duration
	hc       *http.Client
}

func (c *Client) Random(ctx context.Context, sc model.SelectionCriterion) (model.Photo, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return model.Photo{}, errors.Wrap(err, "parse proxy url")
	}
	q := u.Query()
	q.Set("key", string(sc.Kind))
	q.Set("value", sc.Value)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Photo{}, errors.Wrap(err, "new request")
	}
	req.Header.Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.cacheTTL.Seconds())))

	res, err := c.hc.Do(req)
	if err != nil {
		return model.Photo{}, errors.Wrap(err, "request proxy")
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return model.Photo{}, errors.Wrap(err, "read proxy response")
	}

	p, env, err := model.DecodePhotoBytes(b)
	if err != nil {
		return model.Photo{}, errors.Wrapf(err, "decode proxy response (status %d)", res.StatusCode)
	}
	if env != nil {
		return model.Photo{}, model.Upstream(env.Message, env.Status)
	}
	if res.StatusCode != http.StatusOK {
		return model.Photo{}, errors.Errorf("proxy responded %d", res.StatusCode)
	}
	if p.URL == "" {
		return model.Photo{}, errors.New("proxy returned a photo without a url")
	}

	return p, nil
}
