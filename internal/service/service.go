// Package service is the widget side of the pipeline: serve from the local
// cache while it is fresh, otherwise ask the proxy and remember the answer.
package service

import (
	"context"
	"time"

	"spring/internal/client"
	"spring/internal/logging"
	"spring/internal/model"
)

type Cache interface {
	Read(sc model.SelectionCriterion) (model.Photo, bool)
	ReadStale(sc model.SelectionCriterion) (model.Photo, bool)
	Write(sc model.SelectionCriterion, p model.Photo, ttl time.Duration) error
}

func NewService(cache Cache, client client.PhotoClient, ttl time.Duration) *Service {
	return &Service{
		cache:  cache,
		client: client,
		ttl:    ttl,
	}
}

type Service struct {
	cache  Cache
	client client.PhotoClient
	ttl    time.Duration
}

// Photo returns the photo to display for key/value. When the proxy fails, a
// previously cached photo is preferred over showing nothing.
func (svc *Service) Photo(ctx context.Context, key, value string) (model.Photo, error) {
	sc, err := model.NewSelectionCriterion(key, value)
	if err != nil {
		return model.Photo{}, err
	}
	if err := sc.CheckSupported(); err != nil {
		return model.Photo{}, err
	}

	if p, ok := svc.cache.Read(sc); ok {
		return p, nil
	}

	p, err := svc.client.Random(ctx, sc)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Str("key", key).
			Str("value", value).
			Msg("fetch photo")

		if stale, ok := svc.cache.ReadStale(sc); ok {
			return stale, nil
		}
		return model.Photo{}, err
	}

	if err := svc.cache.Write(sc, p, svc.ttl); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("cache photo")
	}

	return p, nil
}
