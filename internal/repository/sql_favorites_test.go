package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func exerciseSQLFavorites(t *testing.T, repo *SQLFavoritesRepository) {
	t.Helper()
	ctx := context.Background()

	added, err := repo.Add(ctx, candidate(42, "Анна"))
	require.NoError(t, err)
	require.True(t, added)
	added, err = repo.Add(ctx, candidate(42, "Мария"))
	require.NoError(t, err)
	require.False(t, added)
	added, err = repo.Add(ctx, candidate(7, "Ольга"))
	require.NoError(t, err)
	require.True(t, added)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.EqualValues(t, 42, list[0].VKID)
	require.Equal(t, "Анна", list[0].FirstName)
	require.Equal(t, []string{"photo1_1"}, list[0].Photos)
	require.EqualValues(t, 7, list[1].VKID)
	require.NotEmpty(t, list[1].SavedAt)
}

func TestSQLiteFavoritesRepository(t *testing.T) {
	repo, err := NewSQLiteFavoritesRepository(filepath.Join(t.TempDir(), "favorites.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	exerciseSQLFavorites(t, repo)
}

func TestPostgresFavoritesRepository(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	repo, err := NewPostgresFavoritesRepository(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.db.Exec(`DROP TABLE favorites`)
		repo.Close()
	})

	exerciseSQLFavorites(t, repo)
}
