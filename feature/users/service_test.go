package users

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB speaking the sqlite dialect.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	mock.MatchExpectationsInOrder(false)

	// The sqlite dialector probes the engine version on open.
	mock.ExpectQuery("select sqlite_version").
		WillReturnRows(sqlmock.NewRows([]string{"sqlite_version()"}).AddRow("3.45.0"))

	gormDB, err := gorm.Open(sqlite.Dialector{Conn: db}, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func strPtr(s string) *string { return &s }

func TestService_Lookup(t *testing.T) {
	t.Run("By Phone", func(t *testing.T) {
		db, mock := setupMockDB(t)
		svc := NewService(db, zap.NewNop())

		mock.ExpectQuery("SELECT .* FROM .users. WHERE").
			WithArgs("13800000000").
			WillReturnRows(sqlmock.NewRows([]string{"email", "phone", "qq"}).
				AddRow("a@example.com", "13800000000", "10001"))

		results, err := svc.Lookup(context.Background(), FieldPhone, "13800000000")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, strPtr("a@example.com"), results[0].Email)
		assert.Equal(t, strPtr("13800000000"), results[0].Phone)
	})

	t.Run("No Match", func(t *testing.T) {
		db, mock := setupMockDB(t)
		svc := NewService(db, zap.NewNop())

		mock.ExpectQuery("SELECT .* FROM .users. WHERE").
			WillReturnRows(sqlmock.NewRows([]string{"email", "phone", "qq"}))

		results, err := svc.Lookup(context.Background(), FieldEmail, "nobody@example.com")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Null Columns", func(t *testing.T) {
		db, mock := setupMockDB(t)
		svc := NewService(db, zap.NewNop())

		mock.ExpectQuery("SELECT .* FROM .users. WHERE").
			WillReturnRows(sqlmock.NewRows([]string{"email", "phone", "qq"}).
				AddRow(nil, nil, "10001"))

		results, err := svc.Lookup(context.Background(), FieldQQ, "10001")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Nil(t, results[0].Email)
		assert.Nil(t, results[0].Phone)
		assert.Equal(t, strPtr("10001"), results[0].QQ)
	})

	t.Run("Unknown Field", func(t *testing.T) {
		db, _ := setupMockDB(t)
		svc := NewService(db, zap.NewNop())

		_, err := svc.Lookup(context.Background(), Field("password"), "x")
		assert.Error(t, err)
	})
}

func TestService_Stats(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewService(db, zap.NewNop())

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT phone\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT qq\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT email\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalRecords: 10, UniquePhones: 8, UniqueQQs: 7, UniqueEmails: 9}, st)
}
