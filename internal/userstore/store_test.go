package userstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Get(ctx, "viewedItems:u1")
	if err != nil {
		t.Fatalf("Get missing key returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("Get missing key = %q, want nil", got)
	}

	if err := s.Put(ctx, "viewedItems:u1", []byte(`[{"ramyunIdx":1}]`)); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := s.Put(ctx, "viewedItems:u2", []byte(`[]`)); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := s.Put(ctx, "viewedItems:u1", []byte(`[{"ramyunIdx":2}]`)); err != nil {
		t.Fatalf("Put overwrite returned error: %v", err)
	}

	got, err = s.Get(ctx, "viewedItems:u1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != `[{"ramyunIdx":2}]` {
		t.Fatalf("Get = %q, want overwritten value", got)
	}
	got, _ = s.Get(ctx, "viewedItems:u2")
	if string(got) != `[]` {
		t.Fatalf("Get u2 = %q, want []", got)
	}
}

func TestMemory_GetPut(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	m := NewMemory()
	v := []byte("abc")
	_ = m.Put(context.Background(), "k", v)
	v[0] = 'x'
	got, _ := m.Get(context.Background(), "k")
	if string(got) != "abc" {
		t.Fatalf("stored value = %q, want abc", got)
	}
}

func TestFile_GetPut(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "nested", "store.json"))
	if err != nil {
		t.Fatalf("NewFile returned error: %v", err)
	}
	exerciseStore(t, f)

	// A second handle on the same path sees the data.
	other, _ := NewFile(f.Path())
	got, err := other.Get(context.Background(), "viewedItems:u1")
	if err != nil || string(got) != `[{"ramyunIdx":2}]` {
		t.Fatalf("second handle Get = %q, %v", got, err)
	}
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile returned error: %v", err)
	}
	if _, err := f.Get(context.Background(), "k"); err == nil {
		t.Fatal("Get on corrupt document returned nil error")
	}
	if err := f.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Put on corrupt document returned error: %v", err)
	}
	got, err := f.Get(context.Background(), "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get after recovery = %q, %v", got, err)
	}
}

func TestFile_WatchReportsExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile returned error: %v", err)
	}
	writer, _ := NewFile(path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- f.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-changed:
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch returned error: %v", err)
			}
			return
		case <-tick.C:
			_ = writer.Put(context.Background(), "k", []byte(time.Now().String()))
		case <-deadline:
			t.Fatal("no change notification within 5s")
		}
	}
}

func TestSQLite_GetPut(t *testing.T) {
	s, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("NewSQLite returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestSQLite_QueryErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs("viewedItems:u1").
		WillReturnError(boom)
	mock.ExpectExec("INSERT INTO kv").
		WithArgs("viewedItems:u1", []byte("[]"), sqlmock.AnyArg()).
		WillReturnError(boom)

	s := newSQLite(db)
	if _, err := s.Get(context.Background(), "viewedItems:u1"); !errors.Is(err, boom) {
		t.Fatalf("Get error = %v, want wrapped %v", err, boom)
	}
	if err := s.Put(context.Background(), "viewedItems:u1", []byte("[]")); !errors.Is(err, boom) {
		t.Fatalf("Put error = %v, want wrapped %v", err, boom)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLite_MissingRowIsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM kv").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	got, err := newSQLite(db).Get(context.Background(), "nobody")
	if err != nil || got != nil {
		t.Fatalf("Get = %q, %v, want nil, nil", got, err)
	}
}

func TestSQLite_MigrateFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv").WillReturnError(errors.New("read-only"))
	if err := newSQLite(db).migrate(context.Background()); err == nil {
		t.Fatal("migrate returned nil error")
	}
}

func TestConnect_ParsesURLAndAddr(t *testing.T) {
	c, err := Connect("redis://:secret@cache.local:6380/2")
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	defer c.Close()
	if c.Options().Addr != "cache.local:6380" || c.Options().DB != 2 || c.Options().Password != "secret" {
		t.Fatalf("options = %+v", c.Options())
	}

	c2, err := Connect("localhost:6379")
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	defer c2.Close()
	if c2.Options().Addr != "localhost:6379" {
		t.Fatalf("Addr = %q", c2.Options().Addr)
	}

	if _, err := Connect(" "); err == nil {
		t.Fatal("Connect(blank) returned nil error")
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(context.Background(), Options{Backend: "", DataDir: dir})
	if err != nil {
		t.Fatalf("Open(file) returned error: %v", err)
	}
	if _, ok := s.(*File); !ok {
		t.Fatalf("Open(\"\") = %T, want *File", s)
	}

	s, err = Open(context.Background(), Options{Backend: "SQLite", DataDir: dir})
	if err != nil {
		t.Fatalf("Open(sqlite) returned error: %v", err)
	}
	_ = s.Close()
	if _, err := os.Stat(filepath.Join(dir, "store.db")); err != nil {
		t.Fatalf("sqlite file not created: %v", err)
	}

	if _, err := Open(context.Background(), Options{Backend: "etcd"}); err == nil {
		t.Fatal("Open(etcd) returned nil error")
	}
}
