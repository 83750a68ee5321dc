package refreshtokens

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_UpsertReplacesSameDevice(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, r.Upsert(ctx, "u1", "A", "first", exp))
	first, err := r.FindByUserAndDevice(ctx, "u1", "A")
	require.NoError(t, err)

	require.NoError(t, r.Upsert(ctx, "u1", "A", "second", exp.Add(time.Hour)))

	got, err := r.FindByUserAndDevice(ctx, "u1", "A")
	require.NoError(t, err)
	assert.Equal(t, "second", got.Token)
	assert.True(t, got.ExpiresAt.Equal(exp.Add(time.Hour)))
	assert.True(t, got.CreatedAt.Equal(first.CreatedAt), "created_at survives the update")
	assert.Equal(t, 1, r.CountForUser("u1"))
}

func TestMemoryRepository_DeviceIsolation(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, r.Upsert(ctx, "u1", "A", "tA", exp))
	require.NoError(t, r.Upsert(ctx, "u1", "B", "tB", exp))
	assert.Equal(t, 2, r.CountForUser("u1"))

	require.NoError(t, r.DeleteByUserAndDevice(ctx, "u1", "A"))
	_, err := r.FindByUserAndDevice(ctx, "u1", "A")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	b, err := r.FindByUserAndDevice(ctx, "u1", "B")
	require.NoError(t, err)
	assert.Equal(t, "tB", b.Token)

	require.NoError(t, r.DeleteByToken(ctx, "tB"))
	require.NoError(t, r.DeleteByToken(ctx, "missing"))
	assert.Equal(t, 0, r.CountForUser("u1"))
}

func TestMemoryRepository_ConcurrentUpsertKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Upsert(ctx, "u1", "A", "tok", exp)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.CountForUser("u1"))
}
