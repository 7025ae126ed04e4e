package es

import (
	"context"
	"log/slog"
)

func (s *Store) Healthy(ctx context.Context) bool {
	ok, err := s.client.Ping().IsSuccess(ctx)
	if err != nil {
		slog.Warn("Elasticsearch health check failed", "error", err)
		return false
	}
	return ok
}
