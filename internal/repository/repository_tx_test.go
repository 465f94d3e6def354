package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteRemovesJoinRows(t *testing.T) {
	fdb, db := newFakeDB()
	defer db.Close()
	fdb.seedListing(7, 1, 2, 3)
	fdb.seedListing(8, 2)

	repo := NewListingRepo(db)
	ctx := context.Background()
	require.NoError(t, repo.Delete(ctx, 7))

	n, err := repo.JoinCount(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, n, "join rows must go with the listing")

	// The other listing's rows survive.
	n, err = repo.JoinCount(ctx, 8)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.True(t, fdb.committed)
}

func TestDeleteReportsCommitFailure(t *testing.T) {
	fdb, db := newFakeDB()
	defer db.Close()
	fdb.seedListing(7, 1, 2, 3)
	fdb.commitErr = errors.New("connection lost")

	repo := NewListingRepo(db)
	ctx := context.Background()
	err := repo.Delete(ctx, 7)
	require.ErrorContains(t, err, "connection lost")

	// The failed commit applied nothing.
	n, err := repo.JoinCount(ctx, 7)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestDeleteAllClearsListingsAndJoins(t *testing.T) {
	fdb, db := newFakeDB()
	defer db.Close()
	fdb.seedListing(1, 10)
	fdb.seedListing(2, 11, 12)

	repo := NewListingRepo(db)
	require.NoError(t, repo.DeleteAll(context.Background()))

	fdb.mu.Lock()
	defer fdb.mu.Unlock()
	assert.Empty(t, fdb.listings)
	assert.Empty(t, fdb.joins)
	assert.True(t, fdb.committed)
}

func TestDeleteAllRollsBackWhenAStatementFails(t *testing.T) {
	fdb, db := newFakeDB()
	defer db.Close()
	fdb.seedListing(1, 10)
	fdb.execErr["DELETE FROM listings"] = errors.New("deadlock detected")

	repo := NewListingRepo(db)
	err := repo.DeleteAll(context.Background())
	require.ErrorContains(t, err, "deadlock detected")

	fdb.mu.Lock()
	defer fdb.mu.Unlock()
	assert.True(t, fdb.rolledBack)
	assert.False(t, fdb.committed)
	assert.Len(t, fdb.listings, 1, "a half-done wipe must not stick")
	assert.Len(t, fdb.joins, 1)
}

func TestDeleteAllReportsCommitFailure(t *testing.T) {
	fdb, db := newFakeDB()
	defer db.Close()
	fdb.seedListing(1, 10)
	fdb.commitErr = errors.New("connection lost")

	repo := NewListingRepo(db)
	err := repo.DeleteAll(context.Background())
	require.ErrorContains(t, err, "connection lost")

	fdb.mu.Lock()
	defer fdb.mu.Unlock()
	assert.Len(t, fdb.listings, 1)
}

func TestReplaceReportsCommitFailure(t *testing.T) {
	fdb, db := newFakeDB()
	defer db.Close()
	fdb.commitErr = errors.New("connection lost")

	repo := NewTokenRepo(db)
	err := repo.Replace(context.Background(), 1, "abc123", time.Now().Add(time.Hour))
	require.ErrorContains(t, err, "connection lost")
}
