//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grouplib/library-api/internal/domain"
	"github.com/grouplib/library-api/internal/platform/postgres"
	"github.com/grouplib/library-api/internal/store"
	"github.com/grouplib/library-api/internal/testdb"
	"github.com/grouplib/library-api/internal/testutils"
)

func TestPostgresBookStore_Create(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	t.Run("creates and retrieves a book", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			bookStore := postgres.NewPostgresBookStore(tx, nil)

			book, err := domain.NewBook("Kubernetes in Action", domain.BookTypeComputer)
			require.NoError(t, err)

			require.NoError(t, bookStore.Create(ctx, book))

			got, err := bookStore.GetByID(ctx, book.ID)
			require.NoError(t, err)
			assert.Equal(t, book.Name, got.Name)
			assert.Equal(t, domain.BookTypeComputer, got.Type)
		})
	})

	t.Run("rejects an invalid book before touching the database", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			bookStore := postgres.NewPostgresBookStore(tx, nil)

			book := &domain.Book{ID: uuid.New(), Name: "", Type: domain.BookTypeComputer}
			err := bookStore.Create(ctx, book)
			assert.ErrorIs(t, err, domain.ErrEmptyBookName)
		})
	})
}

func TestPostgresBookStore_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		bookStore := postgres.NewPostgresBookStore(tx, nil)

		_, err := bookStore.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrBookNotFound)
	})
}

func TestPostgresBookStore_GetCategoryStatistics(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		bookStore := postgres.NewPostgresBookStore(tx, nil)

		before, err := bookStore.GetCategoryStatistics(ctx)
		require.NoError(t, err)
		baseline := make(map[domain.BookType]int64)
		for _, s := range before {
			baseline[s.Type] = s.Count
		}

		testutils.MustInsertBook(ctx, t, tx, "Clean Architecture", domain.BookTypeComputer)
		testutils.MustInsertBook(ctx, t, tx, "The Go Programming Language", domain.BookTypeComputer)
		testutils.MustInsertBook(ctx, t, tx, "A Brief History of Time", domain.BookTypeScience)

		after, err := bookStore.GetCategoryStatistics(ctx)
		require.NoError(t, err)

		counts := make(map[domain.BookType]int64)
		for _, s := range after {
			counts[s.Type] = s.Count
		}
		assert.Equal(t, baseline[domain.BookTypeComputer]+2, counts[domain.BookTypeComputer])
		assert.Equal(t, baseline[domain.BookTypeScience]+1, counts[domain.BookTypeScience])
	})
}

func TestPostgresBookStore_List(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		bookStore := postgres.NewPostgresBookStore(tx, nil)

		before, err := bookStore.List(ctx)
		require.NoError(t, err)

		testutils.MustInsertBook(ctx, t, tx, "Listed Book", domain.BookTypeHistory)

		after, err := bookStore.List(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+1)
	})
}
