package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"spring/internal/cache"
	"spring/internal/client"
	"spring/internal/config"
	"spring/internal/handler"
	"spring/internal/logging"
	"spring/internal/model"
	"spring/internal/photo"
	"spring/internal/relay"
	"spring/internal/server"
	"spring/internal/service"
	"spring/internal/store"
	"spring/internal/tracking"
	"spring/internal/unsplash"

	"github.com/go-faster/errors"
	"github.com/goccy/go-json"
)

const shutdownTimeout = 15 * time.Second

func initLogging(cfg config.Config) {
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

// Serve runs the EdgeProxy until ctx is cancelled or SIGINT/SIGTERM arrives.
// Pending download pings are drained after the listener stops.
func Serve(ctx context.Context, cfg config.Config) error {
	initLogging(cfg)
	if err := cfg.RequireAccessKey(); err != nil {
		return err
	}

	upstream := unsplash.NewClient(cfg.UpstreamURL, cfg.AccessKey, &http.Client{Timeout: cfg.UpstreamTimeout})
	dispatcher := tracking.New(upstream, tracking.Options{
		Workers: cfg.Tracking.Workers,
		Queue:   cfg.Tracking.Queue,
		Timeout: cfg.Tracking.Timeout,
	})
	srv := server.New(cfg, handler.New(upstream, dispatcher))

	err := listen(ctx, cfg.Addr(), srv, "proxy")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if derr := dispatcher.Close(shutdownCtx); derr != nil {
		logging.Warn().Err(derr).Msg("tracking queue not drained")
	}

	return err
}

// Relay runs the verbatim relay deployment shape.
func Relay(ctx context.Context, cfg config.Config) error {
	initLogging(cfg)
	if err := cfg.RequireAccessKey(); err != nil {
		return err
	}

	h, err := relay.New(cfg)
	if err != nil {
		return err
	}

	return listen(ctx, cfg.Addr(), h, "relay")
}

func listen(ctx context.Context, addr string, h http.Handler, name string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hs := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msgf("%s started", name)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return errors.Wrapf(err, "%s listen", name)
	case <-ctx.Done():
		logging.Info().Msgf("%s shutting down", name)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

type FetchOptions struct {
	Key    string
	Value  string
	Width  int
	Height int
}

type fetchResult struct {
	Photo       model.Photo `json:"photo"`
	Resized     string      `json:"resized,omitempty"`
	Attribution string      `json:"attribution"`
}

// Fetch behaves like a widget page load: cache first, then the proxy at
// PUBLIC_PROXY_URL. The result is printed to out as JSON.
func Fetch(ctx context.Context, cfg config.Config, opts FetchOptions, out io.Writer) error {
	initLogging(cfg)

	s, err := store.Open(cfg.CacheStoreDir())
	if err != nil {
		return err
	}
	defer s.Close()

	var cacheOpts []cache.Option
	if cfg.CachePerCriterion {
		cacheOpts = append(cacheOpts, cache.PerCriterion())
	}

	svc := service.NewService(
		cache.New(s, cacheOpts...),
		client.NewClient(cfg.ProxyURL, cfg.TTL(), &http.Client{Timeout: cfg.UpstreamTimeout}),
		cfg.TTL(),
	)

	p, err := svc.Photo(ctx, opts.Key, opts.Value)
	if err != nil {
		return err
	}

	res := fetchResult{
		Photo:       p,
		Attribution: photo.Attribution(p),
	}
	if opts.Width > 0 && opts.Height > 0 {
		res.Resized = photo.AddResizeParams(p.URL, opts.Width, opts.Height)
	}

	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal result")
	}

	_, err = fmt.Fprintln(out, string(b))
	return err
}
