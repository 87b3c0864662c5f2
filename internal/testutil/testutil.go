package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rescatefresco/rescate-fresco/internal/models"
)

// TestDatabase arma una base SQLite en memoria con el esquema real.
type TestDatabase struct {
	DB *gorm.DB
}

func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Lot{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &TestDatabase{DB: db}
}

func (td *TestDatabase) Teardown(t *testing.T) {
	t.Helper()

	sqlDB, err := td.DB.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

func (td *TestDatabase) Clean(t *testing.T) {
	t.Helper()

	for _, table := range []string{"audit_logs", "lots", "users"} {
		if err := td.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// SetupTestRedis levanta un miniredis y un cliente apuntándole.
func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	return server, client
}
