package database

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/crewdesk-api/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	cases := map[string]string{
		"mysql":    "mysql",
		"postgres": "postgres",
		"sqlite":   "sqlite",
	}

	for driver, name := range cases {
		dialector, err := Dialector(&config.Config{DBDriver: driver, DBPath: ":memory:"})
		require.NoError(t, err, driver)
		assert.Equal(t, name, dialector.Name())
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestMigrateDatabase_SQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, MigrateDatabase(db))

	for _, table := range []string{"tenants", "users", "teammates", "tasks", "task_steps", "comments", "notifications"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestAddIndexes_Postgres(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	for i, idx := range indexes {
		existing := 0
		if i == 0 {
			existing = 1
		}
		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WithArgs(idx.table, idx.name).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(existing))
		if existing == 0 {
			mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX " + idx.name)).
				WillReturnResult(sqlmock.NewResult(0, 0))
		}
	}

	require.NoError(t, AddIndexes(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddIndexes_CheckFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).WillReturnError(assert.AnError)

	err = AddIndexes(db)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
