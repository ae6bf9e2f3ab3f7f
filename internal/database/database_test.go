package database

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/xpanvictor/lecturenotes/internal/config"
	"gorm.io/gorm"
)

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer client.Close()

	if _, err := NewRedis(config.RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("expected error for unreachable redis")
	}
}

func TestMigrateDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	if err := MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	if !db.Migrator().HasTable("lectures") {
		t.Error("expected lectures table")
	}
}
