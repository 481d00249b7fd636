package repository

import (
	"github.com/linkmatch/apitrack/domain/entity"
	"github.com/linkmatch/apitrack/domain/repository"
)

// NoOpStatsPublisher is a metrics publisher that discards everything.
// Used when no publishing backend is configured.
type NoOpStatsPublisher struct{}

// NewNoOpStatsPublisher creates a new no-op stats publisher
func NewNoOpStatsPublisher() repository.StatsPublisherRepository {
	return &NoOpStatsPublisher{}
}

// PublishStats does nothing
func (n *NoOpStatsPublisher) PublishStats(_ *entity.Report, _ string) error {
	return nil
}

// Close does nothing
func (n *NoOpStatsPublisher) Close() error {
	return nil
}
