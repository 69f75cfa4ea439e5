package handler

import (
	"context"

	"spring/internal/model"
	"spring/internal/photo"
	"spring/internal/unsplash"
)

type Randomizer interface {
	Random(ctx context.Context, sc model.SelectionCriterion) (unsplash.Photo, unsplash.TrackingRef, error)
}

type Dispatcher interface {
	Dispatch(ref unsplash.TrackingRef)
}

type Handler struct {
	upstream Randomizer
	tracking Dispatcher
}

func New(upstream Randomizer, tracking Dispatcher) Handler {
	return Handler{upstream: upstream, tracking: tracking}
}

// GetPhoto validates the widget's key/value, fetches a random photo and
// schedules the download ping. Only collection and search reach the upstream.
func (h Handler) GetPhoto(ctx context.Context, key, value string) (model.Photo, error) {
	sc, err := model.NewSelectionCriterion(key, value)
	if err != nil {
		return model.Photo{}, err
	}

	if err := sc.CheckSupported(); err != nil {
		return model.Photo{}, err
	}

	rec, ref, err := h.upstream.Random(ctx, sc)
	if err != nil {
		return model.Photo{}, err
	}

	p, err := photo.Normalize(rec)
	if err != nil {
		return model.Photo{}, err
	}

	h.tracking.Dispatch(ref)

	return p, nil
}
