package server

import (
	"net/http"

	"spring/internal/logging"
	"spring/internal/model"

	"github.com/go-faster/jx"
)

// Every failure is reported with the same status; only the message varies.
const errorStatus = http.StatusInternalServerError

func writePhoto(w http.ResponseWriter, p model.Photo) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	p.Encode(e)

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(e.Bytes())
}

// writeError renders err as an ErrorEnvelope. Only the message reaches the
// client; the full chain is logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logging.Ctx(r.Context()).Warn().
		Err(err).
		Str("kind", string(model.KindOf(err))).
		Msg("request failed")

	env := model.ErrorEnvelope{Message: model.PublicMessage(err), Status: errorStatus}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	env.Encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorStatus)
	_, _ = w.Write(e.Bytes())
}
