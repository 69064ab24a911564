package db

import (
	"context"
	"testing"

	"github.com/angelmondragon/uniforms-backend/pkg/config"
)

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected missing DSN to fail")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{DSN: "x", Driver: "oracle"}, nil)
	if err == nil {
		t.Fatal("expected unsupported driver to fail")
	}
}

func TestNewSQLitePingAndClose(t *testing.T) {
	client, err := New(context.Background(), config.DBConfig{
		DSN:          "file::memory:?cache=shared",
		Driver:       DriverSQLite,
		MaxOpenConns: 1,
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.DB() == nil {
		t.Fatal("expected gorm handle")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping after close to fail")
	}
}
