package services

import (
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantAllowsOnlyOriginalIdentity(t *testing.T) {
	grants := NewGrantService(testDB(t), 30*time.Minute)
	commentID := uuid.NewString()

	require.NoError(t, grants.Grant(commentID, "alice"))

	assert.True(t, grants.CanDelete(commentID, "alice", false))
	assert.False(t, grants.CanDelete(commentID, "mallory", false))
	assert.False(t, grants.CanDelete(commentID, "", false))
	assert.False(t, grants.CanDelete(uuid.NewString(), "alice", false))
}

func TestGrantExpires(t *testing.T) {
	grants := NewGrantService(testDB(t), 30*time.Minute)
	now := time.Now()
	grants.now = func() time.Time { return now }

	commentID := uuid.NewString()
	require.NoError(t, grants.Grant(commentID, "alice"))
	assert.True(t, grants.CanDelete(commentID, "alice", false))

	now = now.Add(31 * time.Minute)
	assert.False(t, grants.CanDelete(commentID, "alice", false))

	// Admins bypass grants entirely, expired or not.
	assert.True(t, grants.CanDelete(commentID, "alice", true))
	assert.True(t, grants.CanDelete(commentID, "", true))
}

func TestGrantSweepExpired(t *testing.T) {
	gdb := testDB(t)
	grants := NewGrantService(gdb, 30*time.Minute)
	now := time.Now()
	grants.now = func() time.Time { return now }

	expired := uuid.NewString()
	fresh := uuid.NewString()
	require.NoError(t, grants.Grant(expired, "alice"))

	now = now.Add(31 * time.Minute)
	require.NoError(t, grants.Grant(fresh, "alice"))

	grants.SweepExpired()

	var remaining []models.DeletionGrant
	require.NoError(t, gdb.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh, remaining[0].CommentID)
}

func TestGrantRegrantReplaces(t *testing.T) {
	gdb := testDB(t)
	grants := NewGrantService(gdb, 30*time.Minute)

	commentID := uuid.NewString()
	require.NoError(t, grants.Grant(commentID, "alice"))
	require.NoError(t, grants.Grant(commentID, "bob"))

	var count int64
	gdb.Model(&models.DeletionGrant{}).Where("comment_id = ?", commentID).Count(&count)
	assert.Equal(t, int64(1), count)

	assert.False(t, grants.CanDelete(commentID, "alice", false))
	assert.True(t, grants.CanDelete(commentID, "bob", false))
}

func TestDeletableIDs(t *testing.T) {
	grants := NewGrantService(testDB(t), 30*time.Minute)

	mine := uuid.NewString()
	theirs := uuid.NewString()
	require.NoError(t, grants.Grant(mine, "alice"))
	require.NoError(t, grants.Grant(theirs, "bob"))

	ids := grants.DeletableIDs([]string{mine, theirs, uuid.NewString()}, "alice")
	assert.Equal(t, []string{mine}, ids)

	assert.Empty(t, grants.DeletableIDs([]string{mine}, ""))
	assert.Empty(t, grants.DeletableIDs(nil, "alice"))
}

func TestGrantRevoke(t *testing.T) {
	grants := NewGrantService(testDB(t), 30*time.Minute)

	commentID := uuid.NewString()
	require.NoError(t, grants.Grant(commentID, "alice"))
	grants.Revoke(commentID)

	assert.False(t, grants.CanDelete(commentID, "alice", false))
}
