package services

import (
	"context"
	"net/url"
	"testing"

	"campdir/internal/access"
	"campdir/internal/models"
	"campdir/internal/query"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func TestBootcampCreateEnforcesQuota(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBootcampService(gdb)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "bootcamps" WHERE user_id = \$1`).
		WithArgs("pub-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := svc.Create(context.Background(), access.Identity{ID: "pub-1", Role: access.RolePublisher},
		&models.Bootcamp{Name: "Second Bootcamp", Description: "d", Photo: "no-photo.jpg"})

	var denied *access.DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, access.ReasonQuotaExceeded, denied.Reason)
	// No insert must have been issued after the denial.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBootcampCreateFirstBootcampAllowed(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBootcampService(gdb)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "bootcamps" WHERE user_id = \$1`).
		WithArgs("pub-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "bootcamps"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	bootcamp := &models.Bootcamp{Name: "Devworks", Description: "d", Photo: "no-photo.jpg"}
	err := svc.Create(context.Background(), access.Identity{ID: "pub-1", Role: access.RolePublisher}, bootcamp)

	require.NoError(t, err)
	assert.Equal(t, "pub-1", bootcamp.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBootcampCreateAdminBypassesQuota(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBootcampService(gdb)

	// Only the insert: an admin create never counts owned bootcamps.
	mock.ExpectExec(`INSERT INTO "bootcamps"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := svc.Create(context.Background(), access.Identity{ID: "root", Role: access.RoleAdmin},
		&models.Bootcamp{Name: "Third Bootcamp", Description: "d", Photo: "no-photo.jpg"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBootcampListCountsBeforeWindow(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBootcampService(gdb)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "bootcamps"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT \* FROM "bootcamps" ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(5, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	opts := query.Parse(url.Values{"page": {"2"}, "limit": {"5"}})
	result, err := svc.List(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, int64(12), result.Total)
	require.NotNil(t, result.Pagination.Next)
	assert.Equal(t, 3, result.Pagination.Next.Page)
	require.NotNil(t, result.Pagination.Prev)
	assert.Equal(t, 1, result.Pagination.Prev.Page)
	assert.NoError(t, mock.ExpectationsWereMet())
}
