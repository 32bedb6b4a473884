package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Persister {
	t.Helper()
	p, err := Open(filepath.Join(t.TempDir(), "db", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPersister_RoundTrip(t *testing.T) {
	p := openTest(t)
	ctx := context.Background()

	if _, found, err := p.Get(ctx, "wealthsense_user"); err != nil || found {
		t.Fatalf("expected missing key, got found=%v err=%v", found, err)
	}

	if err := p.PutAll(ctx, map[string][]byte{
		"wealthsense_user":     []byte(`{"name":"A"}`),
		"wealthsense_expenses": []byte(`[]`),
	}); err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	if err := p.PutAll(ctx, map[string][]byte{
		"wealthsense_user": []byte(`{"name":"B"}`),
	}); err != nil {
		t.Fatalf("PutAll overwrite: %v", err)
	}

	got, found, err := p.Get(ctx, "wealthsense_user")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if string(got) != `{"name":"B"}` {
		t.Errorf("got %s", got)
	}
	got, _, _ = p.Get(ctx, "wealthsense_expenses")
	if string(got) != `[]` {
		t.Errorf("untouched key changed: %s", got)
	}
}

func TestOpen_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	for i := 0; i < 2; i++ {
		p, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		p.Close()
	}
}

func TestPersister_CanceledContext(t *testing.T) {
	p := openTest(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.PutAll(ctx, map[string][]byte{"k": []byte("v")}); err == nil {
		t.Fatal("expected error with canceled context")
	}
	if _, found, _ := p.Get(context.Background(), "k"); found {
		t.Error("canceled write must not be visible")
	}
}

func TestMigrations_UpDownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")

	if _, _, ok, err := MigrationVersion(path); err != nil || ok {
		t.Fatalf("fresh db: ok=%v err=%v", ok, err)
	}
	if err := RunMigrations(path); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	v, dirty, ok, err := MigrationVersion(path)
	if err != nil || !ok || dirty || v != 1 {
		t.Fatalf("after up: v=%d dirty=%v ok=%v err=%v", v, dirty, ok, err)
	}
	if err := RollbackMigrations(path); err != nil {
		t.Fatalf("RollbackMigrations: %v", err)
	}
	if _, _, ok, err := MigrationVersion(path); err != nil || ok {
		t.Errorf("after down: ok=%v err=%v", ok, err)
	}
}
