package verificationtokens

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	exp := time.Now().Add(24 * time.Hour)

	require.NoError(t, r.Create(ctx, &models.VerificationToken{Token: "t1", UserID: "u1", ExpiresAt: exp}))
	require.NoError(t, r.Create(ctx, &models.VerificationToken{Token: "t2", UserID: "u1", ExpiresAt: exp}))
	require.NoError(t, r.Create(ctx, &models.VerificationToken{Token: "t3", UserID: "u2", ExpiresAt: exp}))
	assert.ErrorIs(t, r.Create(ctx, &models.VerificationToken{Token: "t1", UserID: "u9"}), common.ErrAlreadyExists)

	got, err := r.FindByToken(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, r.DeleteAllForUser(ctx, "u1"))

	_, err = r.FindByToken(ctx, "t1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.FindByToken(ctx, "t2")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	other, err := r.FindByToken(ctx, "t3")
	require.NoError(t, err)
	assert.Equal(t, "u2", other.UserID)
}
