package predictor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yourusername/owl-tennis/internal/models"
)

// Catalog resolves model identifiers to predictors. Built-in models are
// fixed at construction; custom models can be registered and removed at
// runtime but can never shadow a built-in.
type Catalog struct {
	mu      sync.RWMutex
	builtin map[string]Predictor
	custom  map[string]Predictor
}

// NewCatalog creates a catalog seeded with the given built-in predictors.
func NewCatalog(builtin ...Predictor) *Catalog {
	c := &Catalog{
		builtin: make(map[string]Predictor, len(builtin)),
		custom:  make(map[string]Predictor),
	}
	for _, p := range builtin {
		c.builtin[p.ModelID()] = p
	}
	return c
}

// Register adds a custom predictor to the catalog.
func (c *Catalog) Register(p Predictor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := p.ModelID()
	if _, ok := c.builtin[id]; ok {
		return fmt.Errorf("model %q is built-in and cannot be replaced", id)
	}
	if _, ok := c.custom[id]; ok {
		return fmt.Errorf("model %q already registered: %w", id, models.ErrDuplicateKey)
	}
	c.custom[id] = p
	return nil
}

// Unregister removes a custom predictor. Built-in models cannot be removed.
func (c *Catalog) Unregister(modelID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.builtin[modelID]; ok {
		return fmt.Errorf("model %q is built-in and cannot be removed", modelID)
	}
	if _, ok := c.custom[modelID]; !ok {
		return fmt.Errorf("model %q: %w", modelID, models.ErrUnknownModel)
	}
	delete(c.custom, modelID)
	return nil
}

// Get resolves a model identifier to its predictor.
func (c *Catalog) Get(modelID string) (Predictor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if p, ok := c.builtin[modelID]; ok {
		return p, nil
	}
	if p, ok := c.custom[modelID]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("model %q: %w", modelID, models.ErrUnknownModel)
}

// ModelIDs returns all known model identifiers, sorted.
func (c *Catalog) ModelIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.builtin)+len(c.custom))
	for id := range c.builtin {
		ids = append(ids, id)
	}
	for id := range c.custom {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
