// Package sqlitedb opens migrated in-memory SQLite stores for tests.
package sqlitedb

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"groupware-approval/internal/domain/member"
	"groupware-approval/internal/infrastructure/db"
)

// Open returns a fresh store. The pool is capped at one connection so every
// caller sees the same in-memory database and transactions serialize.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// SeedMembers inserts members with ids 1..len(names) and the given leave balance.
func SeedMembers(t testing.TB, gdb *gorm.DB, leave float64, names ...string) []*member.Member {
	t.Helper()
	out := make([]*member.Member, 0, len(names))
	for i, n := range names {
		m := &member.Member{ID: uint64(i + 1), Name: n, Rank: "staff", OrgUnit: "ops", LeaveRemaining: leave}
		if err := gdb.WithContext(context.Background()).Create(m).Error; err != nil {
			t.Fatalf("seed member %s: %v", n, err)
		}
		out = append(out, m)
	}
	return out
}
