package db

import (
	"context"
	"errors"
	"testing"

	"github.com/shopworks/catalog-backend/pkg/config"
	"gorm.io/gorm"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: "sqlite",
	}, nil)
	if err != nil {
		t.Fatalf("failed to open sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for missing DSN")
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if err := client.Exec(ctx, "CREATE TABLE tx_items (id INTEGER PRIMARY KEY, name TEXT)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	sentinel := errors.New("abort")
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO tx_items (name) VALUES ('should-roll-back')").Error; err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	var count int64
	if err := client.Raw(ctx, "SELECT COUNT(*) FROM tx_items").Scan(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to remove rows, found %d", count)
	}
}
