// Package catalog keeps the approved-vendor list in memory. The list is
// fetched on demand and never synced in the background.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"lokai/models"

	"go.uber.org/zap"
)

var ErrFetchFailed = errors.New("vendor catalog fetch failed")

// Source is the vendor store as the cache sees it.
type Source interface {
	GetApproved(ctx context.Context) ([]models.VendorRecord, error)
}

// Snapshot is one immutable view of the catalog.
type Snapshot struct {
	Vendors   []models.VendorRecord `json:"vendors"`
	Version   uint64                `json:"version"`
	FetchedAt time.Time             `json:"fetchedAt"`
}

type Cache struct {
	source Source
	logger *zap.Logger

	mu        sync.RWMutex
	vendors   []models.VendorRecord
	version   uint64
	fetchedAt time.Time
}

func NewCache(source Source, logger *zap.Logger) *Cache {
	return &Cache{
		source:  source,
		logger:  logger.With(zap.String("component", "catalog")),
		vendors: []models.VendorRecord{},
	}
}

// FetchApproved issues one fetch against the store. On failure the previous
// list is returned together with an error wrapping ErrFetchFailed, so callers
// can keep rendering it and surface a notice.
func (c *Cache) FetchApproved(ctx context.Context) ([]models.VendorRecord, error) {
	rows, err := c.source.GetApproved(ctx)
	if err != nil {
		c.logger.Warn("catalog fetch failed, keeping previous list", zap.Error(err))
		return c.Snapshot().Vendors, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	approved := make([]models.VendorRecord, 0, len(rows))
	for _, v := range rows {
		if v.IsApproved() {
			approved = append(approved, v)
		}
	}

	c.mu.Lock()
	c.vendors = approved
	c.version++
	c.fetchedAt = time.Now()
	version := c.version
	c.mu.Unlock()

	c.logger.Debug("catalog fetched", zap.Int("vendors", len(approved)), zap.Uint64("version", version))
	return models.CloneVendors(approved), nil
}

// Refresh re-issues the fetch and discards the list. It only renews the
// last good list; sessions still read the store on every load.
func (c *Cache) Refresh(ctx context.Context) error {
	_, err := c.FetchApproved(ctx)
	return err
}

// Snapshot returns a copy of the last good list.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Vendors:   models.CloneVendors(c.vendors),
		Version:   c.version,
		FetchedAt: c.fetchedAt,
	}
}
