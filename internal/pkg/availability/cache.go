// Package availability answers "is this reseller package still purchasable"
// with a short-lived in-memory cache in front of the reseller API, so a burst
// of checkout validations does not hammer the upstream.
package availability

import (
	"context"
	"log"
	"sync"
	"time"
)

const defaultTTL = time.Hour

// Validator is the upstream check the cache sits in front of.
type Validator interface {
	ValidatePackageID(ctx context.Context, packageID string) (bool, error)
}

type cacheEntry struct {
	valid   bool
	expires time.Time
}

// Service caches validation verdicts per package ID. Safe for concurrent use.
type Service struct {
	validator Validator
	ttl       time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry

	// now is swappable for tests.
	now func() time.Time
}

// NewService builds a cache with the default 1 hour TTL.
func NewService(validator Validator) *Service {
	return &Service{
		validator: validator,
		ttl:       defaultTTL,
		entries:   map[string]cacheEntry{},
		now:       time.Now,
	}
}

// IsPackageValid reports whether the package can currently be purchased.
// Upstream errors fail open: blocking every checkout because the reseller API
// hiccuped costs more than the rare order against a just-retired package,
// which the fulfillment step rejects anyway.
func (s *Service) IsPackageValid(ctx context.Context, packageID string) bool {
	now := s.now()

	s.mu.Lock()
	if entry, ok := s.entries[packageID]; ok && now.Before(entry.expires) {
		s.mu.Unlock()
		return entry.valid
	}
	s.mu.Unlock()

	valid, err := s.validator.ValidatePackageID(ctx, packageID)
	if err != nil {
		log.Printf("availability: validation of %q failed, assuming available: %v", packageID, err)
		return true
	}

	s.mu.Lock()
	s.entries[packageID] = cacheEntry{valid: valid, expires: now.Add(s.ttl)}
	s.mu.Unlock()

	return valid
}

// BatchValidate checks many package IDs concurrently and returns a verdict per
// ID. Duplicate IDs are checked once.
func (s *Service) BatchValidate(ctx context.Context, packageIDs []string) map[string]bool {
	results := make(map[string]bool, len(packageIDs))
	seen := make(map[string]struct{}, len(packageIDs))

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, id := range packageIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			valid := s.IsPackageValid(ctx, id)
			mu.Lock()
			results[id] = valid
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return results
}

// ClearCache drops every cached verdict.
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.entries = map[string]cacheEntry{}
	s.mu.Unlock()
}

// Stats describes the current cache contents.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// CacheStats returns a snapshot of the cached package IDs.
func (s *Service) CacheStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	return Stats{Size: len(s.entries), Keys: keys}
}
