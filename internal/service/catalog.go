package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"special-requests/internal/cache"
	"special-requests/internal/models"
	"special-requests/internal/repository"
)

const masterItemsKey = "master-items"

// Catalog serves master items for autocomplete, cached when a cache is set.
type Catalog struct {
	rows  repository.RowStore
	cache cache.JSON
	log   zerolog.Logger
}

func NewCatalog(rows repository.RowStore, c cache.JSON, log zerolog.Logger) *Catalog {
	return &Catalog{rows: rows, cache: c, log: log}
}

func (c *Catalog) Items(ctx context.Context) ([]models.MasterItem, error) {
	var items []models.MasterItem
	if c.cache != nil {
		hit, err := c.cache.GetJSON(ctx, masterItemsKey, &items)
		if err != nil {
			c.log.Warn().Err(err).Msg("master item cache read")
		} else if hit {
			return items, nil
		}
	}
	items, err := c.rows.FetchMasterItems(ctx)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, masterItemsKey, items); err != nil {
			c.log.Warn().Err(err).Msg("master item cache write")
		}
	}
	return items, nil
}

// Search returns up to limit items whose description contains q, ignoring
// case. An empty q matches nothing.
func (c *Catalog) Search(ctx context.Context, q string, limit int) ([]models.MasterItem, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" || limit <= 0 {
		return []models.MasterItem{}, nil
	}
	items, err := c.Items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.MasterItem, 0, limit)
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Description), q) {
			out = append(out, it)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
