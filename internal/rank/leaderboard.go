package rank

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/arcadehub/api/internal/cache"
	"github.com/arcadehub/api/internal/scoring"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page is one leaderboard page with pagination metadata. Out-of-range
// pages return empty Data, not an error.
type Page struct {
	Data            []scoring.Entry `json:"data"`
	Page            int             `json:"page"`
	Limit           int             `json:"limit"`
	TotalCount      int             `json:"totalCount"`
	TotalPages      int             `json:"totalPages"`
	HasNextPage     bool            `json:"hasNextPage"`
	HasPreviousPage bool            `json:"hasPreviousPage"`
}

// Leaderboard serves globally ranked, paginated scores. The whole result
// set is sorted before slicing so pages stay consistent with each other.
type Leaderboard struct {
	lister   ScoreLister
	registry StrategyResolver
	cache    *cache.RedisCache
	cacheTTL time.Duration
	maxLimit int
}

func NewLeaderboard(lister ScoreLister, registry StrategyResolver, redisCache *cache.RedisCache, cacheTTL time.Duration, maxLimit int) *Leaderboard {
	if maxLimit <= 0 {
		maxLimit = maxPageSize
	}
	return &Leaderboard{
		lister:   lister,
		registry: registry,
		cache:    redisCache,
		cacheTTL: cacheTTL,
		maxLimit: maxLimit,
	}
}

// List returns one page of the leaderboard for a game, best first under
// that game's sort order.
func (l *Leaderboard) List(ctx context.Context, gameID string, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > l.maxLimit {
		limit = defaultPageSize
	}

	binding, err := l.registry.ByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	key := cache.LeaderboardKey(gameID, page, limit)
	if l.cache != nil {
		if raw, err := l.cache.Get(ctx, key); err == nil {
			var cached Page
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	entries, err := l.lister.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].GameName = binding.Game.Name
		entries[i].CoverURL = binding.Game.CoverURL
	}

	binding.Strategy.Sort(entries)

	result := paginate(entries, page, limit)

	if l.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := l.cache.Set(ctx, key, raw, l.cacheTTL); err != nil {
				log.Printf("Warning: failed to cache leaderboard page %s: %v", key, err)
			}
		}
	}
	return result, nil
}

func paginate(entries []scoring.Entry, page, limit int) *Page {
	total := len(entries)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := make([]scoring.Entry, end-start)
	copy(data, entries[start:end])

	return &Page{
		Data:            data,
		Page:            page,
		Limit:           limit,
		TotalCount:      total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1 && total > 0,
	}
}
