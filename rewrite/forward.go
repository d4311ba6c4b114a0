// Package rewrite implements forward management on top of a generic
// address-rewrite mapping table. The table itself (and the user directory
// consulted for base addresses) are injected collaborators; this package owns
// validation, ordering and idempotency semantics only.
package rewrite

import (
	"context"
	"sort"
)

// Store is the address-rewrite mapping table. Each add or remove of a single
// mapping entry is assumed atomic and externally serializable; this package
// adds no locking, retries or timeouts of its own.
type Store interface {
	// Mappings returns all mappings of every kind for one address.
	Mappings(ctx context.Context, address string) ([]Mapping, error)

	// AllMappings returns the mappings of every kind for all addresses.
	AllMappings(ctx context.Context) (map[string][]Mapping, error)

	// AddMapping inserts a mapping. Inserting an already-present mapping is a
	// successful no-op.
	AddMapping(ctx context.Context, address string, mapping Mapping) error

	// RemoveMapping deletes a mapping. Deleting an absent mapping is a
	// successful no-op.
	RemoveMapping(ctx context.Context, address string, mapping Mapping) error
}

// UserDirectory answers whether a mailbox address belongs to an existing
// user.
type UserDirectory interface {
	Exists(ctx context.Context, address string) (bool, error)
}

// ForwardService orchestrates validation, user-existence checks and store
// access for forward rules. A forward rule is derived state: it exists if and
// only if its base address has at least one forward-kind mapping.
type ForwardService struct {
	store Store
	users UserDirectory
}

func NewForwardService(store Store, users UserDirectory) *ForwardService {
	return &ForwardService{
		store: store,
		users: users,
	}
}

// ListForwards returns every base address that currently has at least one
// forward-kind mapping, deduplicated and sorted ascending. Addresses whose
// only mappings are of other kinds are excluded. An empty table yields an
// empty slice, never an error.
func (s *ForwardService) ListForwards(ctx context.Context) ([]string, error) {
	all, err := s.store.AllMappings(ctx)
	if err != nil {
		return nil, err
	}

	bases := make([]string, 0, len(all))
	for address, mappings := range all {
		if len(forwardValues(mappings)) > 0 {
			bases = append(bases, address)
		}
	}
	sort.Strings(bases)
	return bases, nil
}

// Forwards returns the destinations of the forward rule on rawBase, sorted
// ascending. External destinations are returned verbatim. Fails with a
// *ParseError for malformed input and ErrForwardNotFound when the address has
// no forward-kind mappings.
func (s *ForwardService) Forwards(ctx context.Context, rawBase string) ([]string, error) {
	base, err := ParseAddress(rawBase)
	if err != nil {
		return nil, err
	}

	mappings, err := s.store.Mappings(ctx, base.String())
	if err != nil {
		return nil, err
	}

	destinations := forwardValues(mappings)
	if len(destinations) == 0 {
		return nil, ErrForwardNotFound
	}
	sort.Strings(destinations)
	return destinations, nil
}

// AddForward adds rawDestination to the forward rule on rawBase, creating the
// rule if this is its first destination. The base address must correspond to
// an existing user; the destination may be external or the base itself.
// Adding an already-present destination is a successful no-op. No store write
// happens unless both addresses validate and the base user exists.
func (s *ForwardService) AddForward(ctx context.Context, rawBase, rawDestination string) error {
	if rawDestination == "" {
		return ErrDestinationMissing
	}

	base, err := ParseAddress(rawBase)
	if err != nil {
		return err
	}
	destination, err := ParseAddress(rawDestination)
	if err != nil {
		return err
	}

	exists, err := s.users.Exists(ctx, base.String())
	if err != nil {
		return err
	}
	if !exists {
		return ErrBaseUserNotFound
	}

	return s.store.AddMapping(ctx, base.String(), ForwardMapping(destination))
}

// RemoveForward removes rawDestination from the forward rule on rawBase.
// Removing a destination that is not a forward target succeeds silently;
// removing the last destination implicitly deletes the rule.
func (s *ForwardService) RemoveForward(ctx context.Context, rawBase, rawDestination string) error {
	if rawDestination == "" {
		return ErrDestinationMissing
	}

	base, err := ParseAddress(rawBase)
	if err != nil {
		return err
	}
	destination, err := ParseAddress(rawDestination)
	if err != nil {
		return err
	}

	return s.store.RemoveMapping(ctx, base.String(), ForwardMapping(destination))
}
