// Package keyregistry holds the ordered set of configured keys
// (component B): it materializes each configured descriptor into a live
// provider.Key, enforces that exactly one is marked active, and
// preserves configured order for the canary mapper to reconcile against.
package keyregistry

import (
	"github.com/cloudfoundry-incubator/credhub-core/berrors"
	"github.com/cloudfoundry-incubator/credhub-core/provider"
)

// Registry is the materialized, validated view of a configuration's key
// list. It's immutable after construction.
type Registry struct {
	keys      []*provider.Key
	activeIdx int
}

// New materializes descriptors into Keys via p, in configured order, and
// fails with a NoActiveKey error unless exactly one descriptor is
// marked active.
func New(p provider.Provider, descriptors []provider.KeyDescriptor) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, berrors.NoActiveKeyf("no keys configured")
	}

	keys := make([]*provider.Key, len(descriptors))
	activeIdx := -1
	activeCount := 0
	for i, d := range descriptors {
		if d.Active {
			activeCount++
			activeIdx = i
		}
		key, err := p.NewKey(d)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}

	if activeCount != 1 {
		return nil, berrors.NoActiveKeyf("configuration has %d active keys, must have exactly 1", activeCount)
	}

	return &Registry{keys: keys, activeIdx: activeIdx}, nil
}

// Keys returns the configured keys in configured order.
func (r *Registry) Keys() []*provider.Key {
	out := make([]*provider.Key, len(r.keys))
	copy(out, r.keys)
	return out
}

// ActiveKey returns the one key marked active at construction time.
func (r *Registry) ActiveKey() *provider.Key {
	return r.keys[r.activeIdx]
}
