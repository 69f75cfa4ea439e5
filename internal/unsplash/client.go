package unsplash

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spring/internal/logging"
	"spring/internal/model"

	"github.com/go-faster/errors"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "https://api.unsplash.com"
	apiVersion     = "v1"
	maxBodyBytes   = 1 << 20
)

var tracer = otel.Tracer("spring/internal/unsplash")

// Client talks to the Unsplash API. The access key is attached to every
// request here and nowhere else.
type Client struct {
	BaseURL   string
	AccessKey string
	HC        *http.Client

	cb *gobreaker.CircuitBreaker[Photo]
}

func NewClient(baseURL, accessKey string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		AccessKey: accessKey,
		HC:        hc,
		cb: gobreaker.NewCircuitBreaker[Photo](gobreaker.Settings{
			Name:        "unsplash",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: countsAsSuccess,
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			},
		}),
	}
}

// Random fetches one random photo matching sc along with its tracking ref.
func (c *Client) Random(ctx context.Context, sc model.SelectionCriterion) (Photo, TrackingRef, error) {
	q := url.Values{}
	switch sc.Kind {
	case model.KindCollection:
		q.Set("collections", sc.Value)
	case model.KindSearch:
		q.Set("query", sc.Value)
	default:
		return Photo{}, "", model.Upstream(fmt.Sprintf("unsupported kind %q", sc.Kind), 0)
	}

	ctx, span := tracer.Start(ctx, "unsplash.Random", trace.WithAttributes(
		attribute.String("selection.kind", string(sc.Kind)),
	))
	defer span.End()

	p, err := c.cb.Execute(func() (Photo, error) {
		p, err := c.random(ctx, q)
		if err != nil && ctx.Err() != nil {
			return Photo{}, callerGone{err}
		}
		return p, err
	})
	if err != nil {
		var gone callerGone
		if errors.As(err, &gone) {
			err = gone.err
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = model.UpstreamCause("Upstream temporarily unavailable", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Photo{}, "", err
	}

	if p.Links.DownloadLocation == "" {
		err := model.Malformed("upstream record has no download location")
		span.SetStatus(codes.Error, err.Error())
		return Photo{}, "", err
	}

	return p, TrackingRef(p.Links.DownloadLocation), nil
}

func (c *Client) random(ctx context.Context, q url.Values) (Photo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/photos/random?"+q.Encode(), nil)
	if err != nil {
		return Photo{}, model.UpstreamCause("Unable to build upstream request", err)
	}
	c.setHeaders(req)

	resp, err := c.HC.Do(req)
	if err != nil {
		return Photo{}, model.UpstreamCause("Unable to retrieve an API response", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Photo{}, model.UpstreamCause("Unable to read the API response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Photo{}, responseError(resp.StatusCode, body)
	}

	var p Photo
	if err := json.Unmarshal(body, &p); err != nil {
		return Photo{}, model.Malformed("upstream returned an undecodable photo record")
	}

	return p, nil
}

// TrackDownload notifies the provider that the photo behind ref was shown.
func (c *Client) TrackDownload(ctx context.Context, ref TrackingRef) error {
	ctx, span := tracer.Start(ctx, "unsplash.TrackDownload")
	defer span.End()

	err := c.trackDownload(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) trackDownload(ctx context.Context, ref TrackingRef) error {
	u, err := url.Parse(string(ref))
	if err != nil {
		return model.Tracking("invalid download location", err)
	}

	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return model.Tracking("invalid base url", err)
	}

	// Never hand the access key to a host other than the API itself.
	if u.Host != base.Host {
		return model.Tracking(fmt.Sprintf("download location host %q does not match %q", u.Host, base.Host), nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Tracking("unable to build tracking request", err)
	}
	c.setHeaders(req)

	resp, err := c.HC.Do(req)
	if err != nil {
		return model.Tracking("tracking request failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Tracking(fmt.Sprintf("tracking responded %d", resp.StatusCode), nil)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept-Version", apiVersion)
	req.Header.Set("Authorization", "Client-ID "+c.AccessKey)
}

// responseError turns a non-2xx response into an UpstreamError, preferring
// the provider's own error list.
func responseError(status int, body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && len(er.Errors) > 0 {
		return model.Upstream(strings.Join(er.Errors, " / "), status)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		text = http.StatusText(status)
	}
	return model.Upstream(fmt.Sprintf("upstream responded %d: %s", status, text), status)
}

// callerGone marks a failure caused by the caller's context ending, not by
// the upstream.
type callerGone struct {
	err error
}

func (e callerGone) Error() string { return e.err.Error() }

func (e callerGone) Unwrap() error { return e.err }

// countsAsSuccess keeps caller mistakes, such as an unknown collection or a
// client hanging up, from tripping the breaker. Rate limiting, 5xx, transport
// failures and UPSTREAM_TIMEOUT count.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}

	var gone callerGone
	if errors.As(err, &gone) {
		return true
	}

	var e *model.Error
	if !errors.As(err, &e) {
		return false
	}

	switch {
	case e.Kind == model.ErrMalformedRecord:
		return true
	case e.StatusCode == http.StatusForbidden, e.StatusCode == http.StatusTooManyRequests:
		return false
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return true
	default:
		return false
	}
}
