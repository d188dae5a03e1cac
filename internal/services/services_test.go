package services

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"inkwell/internal/db"
	"inkwell/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testDB opens an isolated in-memory sqlite database and runs the migrations.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// createPost inserts a published post for comment tests to hang off.
func createPost(t *testing.T, gdb *gorm.DB) *models.Post {
	t.Helper()

	category := models.Category{Name: "general-" + uuid.NewString()[:8]}
	require.NoError(t, gdb.Create(&category).Error)

	post := models.Post{
		ID:         uuid.NewString(),
		Slug:       "hello-world-" + uuid.NewString()[:8],
		Title:      "Hello World",
		Content:    "First post.",
		CategoryID: category.ID,
		Published:  true,
	}
	require.NoError(t, gdb.Create(&post).Error)
	return &post
}

// solveChallenge computes the answer to an issued question like "3 + 4 = ?".
func solveChallenge(t *testing.T, question string) int {
	t.Helper()

	fields := strings.Fields(question)
	require.GreaterOrEqual(t, len(fields), 3, "unexpected question format: %s", question)

	a, err := strconv.Atoi(fields[0])
	require.NoError(t, err)
	b, err := strconv.Atoi(fields[2])
	require.NoError(t, err)

	switch fields[1] {
	case "+":
		return a + b
	case "-":
		return a - b
	case "×":
		return a * b
	}
	t.Fatalf("unknown operator in question: %s", question)
	return 0
}
