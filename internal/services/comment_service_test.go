package services

import (
	"strings"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentValidation(t *testing.T) {
	gdb := testDB(t)
	comments := NewCommentService(gdb)
	post := createPost(t, gdb)

	cases := []struct {
		name       string
		authorName string
		content    string
		field      string
	}{
		{"author too short", "A", "perfectly fine content", "author_name"},
		{"author too long", strings.Repeat("a", 31), "perfectly fine content", "author_name"},
		{"content too short", "Ann", "hey", "content"},
		{"content too long", "Ann", strings.Repeat("x", 501), "content"},
		{"content only markup", "Ann", "<b></b><i></i>", "content"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := comments.Create(post.ID, nil, tc.authorName, tc.content)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.field, validation.Field)
		})
	}
}

func TestCreateCommentSanitizesMarkup(t *testing.T) {
	gdb := testDB(t)
	comments := NewCommentService(gdb)
	post := createPost(t, gdb)

	comment, err := comments.Create(post.ID, nil, "Ann", `Nice <script>alert("x")</script> post, thanks!`)
	require.NoError(t, err)
	assert.NotContains(t, comment.Content, "<script>")
	assert.Contains(t, comment.Content, "post, thanks!")
}

func TestCreateCommentTargetChecks(t *testing.T) {
	gdb := testDB(t)
	comments := NewCommentService(gdb)

	_, err := comments.Create(uuid.NewString(), nil, "Ann", "lovely writeup here")
	assert.ErrorIs(t, err, ErrPostNotFound)

	// Unpublished posts cannot be commented on.
	draft := createPost(t, gdb)
	require.NoError(t, gdb.Model(draft).Update("published", false).Error)
	_, err = comments.Create(draft.ID, nil, "Ann", "lovely writeup here")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreateReplyChecks(t *testing.T) {
	gdb := testDB(t)
	comments := NewCommentService(gdb)
	post := createPost(t, gdb)
	otherPost := createPost(t, gdb)

	root, err := comments.Create(post.ID, nil, "Ann", "root comment text")
	require.NoError(t, err)

	// Parent must exist.
	missing := uuid.NewString()
	_, err = comments.Create(post.ID, &missing, "Ben", "reply to nothing")
	assert.ErrorIs(t, err, ErrParentNotFound)

	// Parent must be on the same post.
	_, err = comments.Create(otherPost.ID, &root.ID, "Ben", "cross-post reply")
	assert.ErrorIs(t, err, ErrParentNotFound)

	// Parent must not be soft-deleted.
	require.NoError(t, comments.SoftDelete(root.ID))
	_, err = comments.Create(post.ID, &root.ID, "Ben", "reply to deleted")
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestReplyToReplyFlattens(t *testing.T) {
	gdb := testDB(t)
	comments := NewCommentService(gdb)
	post := createPost(t, gdb)

	root, err := comments.Create(post.ID, nil, "Ann", "root comment text")
	require.NoError(t, err)
	reply, err := comments.Create(post.ID, &root.ID, "Ben", "first level reply")
	require.NoError(t, err)

	deep, err := comments.Create(post.ID, &reply.ID, "Cem", "reply to the reply")
	require.NoError(t, err)
	require.NotNil(t, deep.ParentID)
	assert.Equal(t, root.ID, *deep.ParentID, "reply-to-reply attaches to the thread root")
}

func TestListForPostOrdering(t *testing.T) {
	gdb := testDB(t)
	comments := NewCommentService(gdb)
	post := createPost(t, gdb)

	base := time.Now().Add(-time.Hour)
	mkComment := func(parentID *string, author string, offset time.Duration) *models.Comment {
		comment := models.Comment{
			ID:         uuid.NewString(),
			PostID:     post.ID,
			ParentID:   parentID,
			AuthorName: author,
			Content:    "content from " + author,
			CreatedAt:  base.Add(offset),
		}
		require.NoError(t, gdb.Create(&comment).Error)
		return &comment
	}

	oldRoot := mkComment(nil, "old-root", 0)
	newRoot := mkComment(nil, "new-root", 10*time.Minute)
	// Replies arrive out of order relative to the roots.
	lateReply := mkComment(&oldRoot.ID, "late-reply", 30*time.Minute)
	earlyReply := mkComment(&oldRoot.ID, "early-reply", 5*time.Minute)

	thread, err := comments.ListForPost(post.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, thread.Comments, 2)
	assert.Equal(t, int64(2), thread.Total)

	// Roots newest-first: a reply's timestamp never moves its root.
	assert.Equal(t, newRoot.ID, thread.Comments[0].ID)
	assert.Equal(t, oldRoot.ID, thread.Comments[1].ID)

	// Replies oldest-first under their root.
	replies := thread.Comments[1].Replies
	require.Len(t, replies, 2)
	assert.Equal(t, earlyReply.ID, replies[0].ID)
	assert.Equal(t, lateReply.ID, replies[1].ID)

	assert.Empty(t, thread.Comments[0].Replies)
}

func TestListForPostPagination(t *testing.T) {
	gdb := testDB(t)
	comments := NewCommentService(gdb)
	post := createPost(t, gdb)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		comment := models.Comment{
			ID:         uuid.NewString(),
			PostID:     post.ID,
			AuthorName: "Ann",
			Content:    "some root comment",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, gdb.Create(&comment).Error)
	}

	thread, err := comments.ListForPost(post.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, thread.Comments, 2)
	assert.Equal(t, int64(5), thread.Total)
	assert.Equal(t, 3, thread.TotalPages)

	_, err = comments.ListForPost(uuid.NewString(), 1, 20)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestSoftDelete(t *testing.T) {
	gdb := testDB(t)
	comments := NewCommentService(gdb)
	post := createPost(t, gdb)

	root, err := comments.Create(post.ID, nil, "Ann", "root comment text")
	require.NoError(t, err)
	reply, err := comments.Create(post.ID, &root.ID, "Ben", "reply under root")
	require.NoError(t, err)

	require.NoError(t, comments.SoftDelete(root.ID))

	got, err := comments.Get(root.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted())
	assert.Equal(t, models.DeletedPlaceholder, got.Content)

	// Replies stay visible under the deleted parent, thread shape intact.
	thread, err := comments.ListForPost(post.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, thread.Comments, 1)
	require.Len(t, thread.Comments[0].Replies, 1)
	assert.Equal(t, reply.ID, thread.Comments[0].Replies[0].ID)

	// Deleting twice is a no-op.
	require.NoError(t, comments.SoftDelete(root.ID))

	assert.ErrorIs(t, comments.SoftDelete(uuid.NewString()), ErrCommentNotFound)
}

func TestCountForPosts(t *testing.T) {
	gdb := testDB(t)
	comments := NewCommentService(gdb)
	post := createPost(t, gdb)
	empty := createPost(t, gdb)

	_, err := comments.Create(post.ID, nil, "Ann", "root comment text")
	require.NoError(t, err)
	_, err = comments.Create(post.ID, nil, "Ben", "another root text")
	require.NoError(t, err)

	counts := comments.CountForPosts([]string{post.ID, empty.ID})
	assert.Equal(t, 2, counts[post.ID])
	assert.Equal(t, 0, counts[empty.ID])
}
