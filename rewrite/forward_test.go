package rewrite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice  = "alice@b.com"
	bob    = "bob@b.com"
	cedric = "cedric@b.com"
)

func newTestService() (*ForwardService, *MemoryStore) {
	store := NewMemoryStore()
	users := NewMemoryUserDirectory(alice, bob, cedric, "alice/@b.com")
	return NewForwardService(store, users), store
}

func TestListForwardsEmpty(t *testing.T) {
	svc, _ := newTestService()

	bases, err := svc.ListForwards(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bases)
}

func TestListForwardsSortedAndDeduplicated(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddForward(ctx, cedric, bob))
	require.NoError(t, svc.AddForward(ctx, alice, bob))
	require.NoError(t, svc.AddForward(ctx, alice, cedric))

	bases, err := svc.ListForwards(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{alice, cedric}, bases)
}

func TestListForwardsIgnoresOtherMappingKinds(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	require.NoError(t, store.AddMapping(ctx, "error@b.com", Mapping{Kind: KindError, Value: "disabled"}))
	require.NoError(t, store.AddMapping(ctx, "regex@b.com", Mapping{Kind: KindRegex, Value: `.*@b\.com`}))
	require.NoError(t, store.AddMapping(ctx, "alias", Mapping{Kind: KindDomainAlias, Value: "b.com"}))
	require.NoError(t, svc.AddForward(ctx, alice, bob))

	bases, err := svc.ListForwards(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{alice}, bases)
}

func TestForwardsSortedRegardlessOfInsertionOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddForward(ctx, alice, cedric))
	require.NoError(t, svc.AddForward(ctx, alice, bob))
	require.NoError(t, svc.AddForward(ctx, alice, "x@external.com"))

	destinations, err := svc.Forwards(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{bob, cedric, "x@external.com"}, destinations)
}

func TestForwardsIgnoresOtherMappingKinds(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	require.NoError(t, store.AddMapping(ctx, alice, Mapping{Kind: KindAlias, Value: bob}))
	require.NoError(t, store.AddMapping(ctx, alice, Mapping{Kind: KindError, Value: "disabled"}))

	_, err := svc.Forwards(ctx, alice)
	assert.ErrorIs(t, err, ErrForwardNotFound)
}

func TestForwardsNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Forwards(context.Background(), "unknown@domain.travel")
	assert.ErrorIs(t, err, ErrForwardNotFound)
}

func TestForwardsMalformedAddress(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Forwards(context.Background(), "not-an-address")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Position)
	assert.Equal(t, "Out of data at position 1 in 'not-an-address'", parseErr.Error())
}

func TestAddForwardIdempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddForward(ctx, alice, bob))
	require.NoError(t, svc.AddForward(ctx, alice, bob))

	destinations, err := svc.Forwards(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{bob}, destinations)
}

func TestAddForwardAllowsIdentity(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddForward(ctx, alice, alice))
	require.NoError(t, svc.AddForward(ctx, alice, cedric))

	destinations, err := svc.Forwards(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{alice, cedric}, destinations)
}

func TestAddForwardAllowsExternalDestination(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddForward(ctx, alice, "x@external.com"))

	destinations, err := svc.Forwards(ctx, alice)
	require.NoError(t, err)
	assert.Contains(t, destinations, "x@external.com")
}

func TestAddForwardSlashLocalPartRoundTrips(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddForward(ctx, bob, "alice/@b.com"))

	destinations, err := svc.Forwards(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice/@b.com"}, destinations)
}

func TestAddForwardRequiresExistingBaseUser(t *testing.T) {
	svc, _ := newTestService()

	err := svc.AddForward(context.Background(), "notfound@b.com", bob)
	assert.ErrorIs(t, err, ErrBaseUserNotFound)

	// No rule may exist after the rejected write.
	bases, listErr := svc.ListForwards(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, bases)
}

func TestAddForwardDestinationUserNotRequired(t *testing.T) {
	svc, _ := newTestService()

	// nobody@b.com has no user account but is a legal destination.
	assert.NoError(t, svc.AddForward(context.Background(), alice, "nobody@b.com"))
}

func TestAddForwardMalformedAddresses(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var parseErr *ParseError

	err := svc.AddForward(ctx, "not-an-address", bob)
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "not-an-address", parseErr.Text)

	err = svc.AddForward(ctx, alice, "not-an-address")
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "not-an-address", parseErr.Text)
}

func TestAddForwardMissingDestination(t *testing.T) {
	svc, _ := newTestService()

	// The missing parameter is detected before any validation: even a
	// malformed base does not produce a parse error here.
	err := svc.AddForward(context.Background(), "not-an-address", "")
	assert.ErrorIs(t, err, ErrDestinationMissing)
}

func TestRemoveForwardAbsentMappingIsNoOp(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddForward(ctx, alice, bob))
	require.NoError(t, svc.RemoveForward(ctx, alice, cedric))

	destinations, err := svc.Forwards(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{bob}, destinations)
}

func TestRemoveForwardOnEmptyStateSucceeds(t *testing.T) {
	svc, _ := newTestService()

	assert.NoError(t, svc.RemoveForward(context.Background(), alice, bob))
}

func TestRemoveLastDestinationDeletesRule(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.AddForward(ctx, alice, bob))
	require.NoError(t, svc.RemoveForward(ctx, alice, bob))

	bases, err := svc.ListForwards(ctx)
	require.NoError(t, err)
	assert.Empty(t, bases)

	_, err = svc.Forwards(ctx, alice)
	assert.ErrorIs(t, err, ErrForwardNotFound)
}

func TestRemoveForwardMissingDestination(t *testing.T) {
	svc, _ := newTestService()

	err := svc.RemoveForward(context.Background(), alice, "")
	assert.ErrorIs(t, err, ErrDestinationMissing)
}

func TestRemoveForwardMalformedAddresses(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	var parseErr *ParseError
	require.ErrorAs(t, svc.RemoveForward(ctx, "not-an-address", bob), &parseErr)
	require.ErrorAs(t, svc.RemoveForward(ctx, alice, "not-an-address"), &parseErr)
}

// failingStore returns the same error from every operation, standing in for
// an unavailable backing table.
type failingStore struct {
	err error
}

func (s *failingStore) Mappings(context.Context, string) ([]Mapping, error) {
	return nil, s.err
}

func (s *failingStore) AllMappings(context.Context) (map[string][]Mapping, error) {
	return nil, s.err
}

func (s *failingStore) AddMapping(context.Context, string, Mapping) error {
	return s.err
}

func (s *failingStore) RemoveMapping(context.Context, string, Mapping) error {
	return s.err
}

func TestStoreFailuresPropagateUnchanged(t *testing.T) {
	storeErr := errors.New("mapping table unavailable")
	svc := NewForwardService(&failingStore{err: storeErr}, NewMemoryUserDirectory(alice))
	ctx := context.Background()

	_, err := svc.ListForwards(ctx)
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.Forwards(ctx, alice)
	assert.ErrorIs(t, err, storeErr)

	assert.ErrorIs(t, svc.AddForward(ctx, alice, bob), storeErr)
	assert.ErrorIs(t, svc.RemoveForward(ctx, alice, bob), storeErr)
}

type failingUserDirectory struct {
	err error
}

func (d *failingUserDirectory) Exists(context.Context, string) (bool, error) {
	return false, d.err
}

func TestUserDirectoryFailurePropagatesUnchanged(t *testing.T) {
	dirErr := errors.New("directory unavailable")
	svc := NewForwardService(NewMemoryStore(), &failingUserDirectory{err: dirErr})

	err := svc.AddForward(context.Background(), alice, bob)
	assert.ErrorIs(t, err, dirErr)
	assert.NotErrorIs(t, err, ErrBaseUserNotFound)
}
