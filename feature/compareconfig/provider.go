package compareconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"replay-scheduler/core/replay"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrUnboundAction is returned for an action without a parent plan.
var ErrUnboundAction = errors.New("action item is not bound to a plan")

// entry is one cached config.
type entry struct {
	config *replay.ComparisonConfig
	built  time.Time
}

// Provider resolves comparison configs from the database and caches them
// per app and operation.
type Provider struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]*entry
	sf      singleflight.Group
}

// NewProvider creates a provider. A zero ttl disables caching.
func NewProvider(db *gorm.DB, ttl time.Duration) *Provider {
	return &Provider{
		db:      db,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// LoadConfig returns the config for the action's app. The app-wide record is
// the base; a record naming the action's operation replaces every field it
// sets. An app without records gets an empty config.
//
// The returned config is shared between callers and must not be mutated.
func (p *Provider) LoadConfig(ctx context.Context, action *replay.ActionItem) (*replay.ComparisonConfig, error) {
	if action == nil || action.Parent == nil {
		return nil, ErrUnboundAction
	}
	appID := action.Parent.AppID
	key := cacheKey(appID, action.OperationName)

	if cfg, ok := p.cached(key); ok {
		return cfg, nil
	}

	result, err, _ := p.sf.Do(key, func() (any, error) {
		if cfg, ok := p.cached(key); ok {
			return cfg, nil
		}

		cfg, err := p.load(ctx, appID, action.OperationName)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.entries[key] = &entry{config: cfg, built: p.now()}
		p.mu.Unlock()
		return cfg, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*replay.ComparisonConfig), nil
}

// Invalidate drops every cached config of an app.
func (p *Provider) Invalidate(appID string) {
	prefix := cacheKey(appID, "")
	p.mu.Lock()
	defer p.mu.Unlock()
	for key := range p.entries {
		if strings.HasPrefix(key, prefix) {
			delete(p.entries, key)
		}
	}
}

func (p *Provider) cached(key string) (*replay.ComparisonConfig, bool) {
	if p.ttl <= 0 {
		return nil, false
	}
	p.mu.RLock()
	e, ok := p.entries[key]
	p.mu.RUnlock()
	if !ok || p.now().Sub(e.built) > p.ttl {
		return nil, false
	}
	return e.config, true
}

func (p *Provider) load(ctx context.Context, appID, operation string) (*replay.ComparisonConfig, error) {
	var records []replay.ConfigRecord
	err := p.db.WithContext(ctx).
		Where("app_id = ? AND (operation_name = ? OR operation_name = ?)", appID, "", operation).
		Order("operation_name").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query compare config of app %s: %w", appID, err)
	}

	cfg := &replay.ComparisonConfig{}
	for _, record := range records {
		merge(cfg, record.ToConfig())
	}
	return cfg, nil
}

// merge copies every field set in override onto cfg.
func merge(cfg, override *replay.ComparisonConfig) {
	if override.IgnoreCategories != nil {
		cfg.IgnoreCategories = override.IgnoreCategories
	}
	if override.IgnoreKeys != nil {
		cfg.IgnoreKeys = override.IgnoreKeys
	}
	if override.Inclusions != nil {
		cfg.Inclusions = override.Inclusions
	}
	if override.Exclusions != nil {
		cfg.Exclusions = override.Exclusions
	}
	if override.ListSort != nil {
		cfg.ListSort = override.ListSort
	}
	if override.Reference != nil {
		cfg.Reference = override.Reference
	}
	if override.Decompress != nil {
		cfg.Decompress = override.Decompress
	}
}

func cacheKey(appID, operation string) string {
	return appID + "\x00" + operation
}
