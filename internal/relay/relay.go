// Package relay forwards requests verbatim to the Unsplash API, injecting the
// access key server side and overriding the caching and CORS headers.
package relay

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"spring/internal/config"
	"spring/internal/logging"
	"spring/internal/middleware"
	"spring/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	rscors "github.com/rs/cors"
)

const apiVersion = "v1"

var allowedHeaders = []string{
	"accept-version",
	"cache-control",
	"access-control-allow-headers",
	"authorization",
	"x-requested-with",
}

func New(cfg config.Config) (http.Handler, error) {
	target, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse upstream url")
	}

	accessKey := cfg.AccessKey
	cacheControl := cfg.CacheControl()

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = target.Host
			pr.Out.Header.Set("Accept-Version", apiVersion)
			pr.Out.Header.Set("Authorization", "Client-ID "+accessKey)
		},
		ModifyResponse: func(resp *http.Response) error {
			for k := range resp.Header {
				if strings.HasPrefix(strings.ToLower(k), "access-control-") {
					resp.Header.Del(k)
				}
			}
			resp.Header.Set("Cache-Control", cacheControl)
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.Ctx(r.Context()).Error().Err(err).Msg("relay failed")
			writeError(w, model.UpstreamCause("Unable to retrieve an API response", err))
		},
	}

	cors := rscors.New(rscors.Options{
		AllowedOrigins:       []string{cfg.RelayAllowedOrigin},
		AllowedMethods:       []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:       allowedHeaders,
		OptionsSuccessStatus: http.StatusOK,
	})

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(cors.Handler)
	r.Use(answerOptions)
	r.Handle("/*", rp)

	return r, nil
}

// answerOptions replies to every OPTIONS request locally. rs/cors only
// short-circuits real preflights; anything else must not carry the key upstream.
func answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, err error) {
	env := model.ErrorEnvelope{Message: model.PublicMessage(err), Status: http.StatusInternalServerError}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	env.Encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status)
	_, _ = w.Write(e.Bytes())
}
