package scoring

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/arcadehub/api/internal/model"
	"gorm.io/gorm"
)

// Binding pairs a catalog game with the strategy for its scoring logic.
type Binding struct {
	Game     model.Game
	Strategy Strategy
}

// Registry is the single dispatch point from a game (by id or slug) to its
// scoring strategy. It is built lazily from the games catalog and cached;
// Refresh rebuilds it after catalog changes instead of the cache living
// stale for the process lifetime.
type Registry struct {
	db         *gorm.DB
	strategies map[string]Strategy

	mu     sync.RWMutex
	byID   map[string]Binding
	bySlug map[string]Binding
	built  bool
}

func NewRegistry(db *gorm.DB, strategies ...Strategy) *Registry {
	byLogic := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		byLogic[s.Logic()] = s
	}
	return &Registry{db: db, strategies: byLogic}
}

// Refresh rebuilds the bindings from the games catalog. Games with no
// scoring logic are skipped (they have no server-validated scores); an
// unknown logic is a configuration problem and logged.
func (r *Registry) Refresh(ctx context.Context) error {
	var games []model.Game
	if err := r.db.WithContext(ctx).Find(&games).Error; err != nil {
		return fmt.Errorf("load games catalog: %w", err)
	}

	byID := make(map[string]Binding)
	bySlug := make(map[string]Binding)
	for _, game := range games {
		if game.ScoringLogic == "" {
			continue
		}
		strategy, ok := r.strategies[game.ScoringLogic]
		if !ok {
			log.Printf("Warning: game %q declares unknown scoring logic %q", game.Slug, game.ScoringLogic)
			continue
		}
		binding := Binding{Game: game, Strategy: strategy}
		byID[game.ID] = binding
		bySlug[game.Slug] = binding
	}

	r.mu.Lock()
	r.byID = byID
	r.bySlug = bySlug
	r.built = true
	r.mu.Unlock()

	log.Printf("Strategy registry built with %d scored games", len(byID))
	return nil
}

func (r *Registry) ensure(ctx context.Context) error {
	r.mu.RLock()
	built := r.built
	r.mu.RUnlock()
	if built {
		return nil
	}
	return r.Refresh(ctx)
}

// ByGameID resolves a binding by the persisted game id.
func (r *Registry) ByGameID(ctx context.Context, gameID string) (Binding, error) {
	if err := r.ensure(ctx); err != nil {
		return Binding{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	binding, ok := r.byID[gameID]
	if !ok {
		return Binding{}, fmt.Errorf("%w: id %s", ErrInvalidGame, gameID)
	}
	return binding, nil
}

// BySlug resolves a binding by the game slug.
func (r *Registry) BySlug(ctx context.Context, slug string) (Binding, error) {
	if err := r.ensure(ctx); err != nil {
		return Binding{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	binding, ok := r.bySlug[slug]
	if !ok {
		return Binding{}, fmt.Errorf("%w: slug %s", ErrInvalidGame, slug)
	}
	return binding, nil
}
