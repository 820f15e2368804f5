package draft

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := backend.Get(ctx, "cv-maker-drafts"); !errors.Is(err, ErrNoBlob) {
		t.Fatalf("expected ErrNoBlob for missing key, got %v", err)
	}
	if err := backend.Put(ctx, "cv-maker-drafts", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := backend.Put(ctx, "cv-maker-drafts", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := backend.Get(ctx, "cv-maker-drafts")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("expected last write to win, got %s", got)
	}
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	exerciseBackend(t, backend)

	if got := filepath.Base(backend.path("a/b")); got != "a_b.json" {
		t.Fatalf("unexpected sanitised file name %q", got)
	}
}

func TestBoltBackend(t *testing.T) {
	backend, err := OpenBoltBackend(filepath.Join(t.TempDir(), "data", "drafts.bolt"))
	if err != nil {
		t.Fatalf("open bolt: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })
	exerciseBackend(t, backend)
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	backend := NewRedisBackend(NewRedisClient(mr.Addr(), "", 0))
	t.Cleanup(func() { _ = backend.Close() })

	if err := backend.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	exerciseBackend(t, backend)

	stored, err := mr.Get("cv-maker-drafts")
	if err != nil {
		t.Fatalf("raw get: %v", err)
	}
	if stored != "[]" {
		t.Fatalf("expected blob stored as a plain string, got %q", stored)
	}
}

type fakeRow struct {
	value []byte
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = append([]byte(nil), r.value...)
	return nil
}

type fakeQuerier struct {
	rows  map[string][]byte
	execs []string
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if len(args) == 2 {
		f.rows[args[0].(string)] = append([]byte(nil), args[1].([]byte)...)
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	value, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: value}
}

func TestPostgresBackend(t *testing.T) {
	querier := &fakeQuerier{rows: make(map[string][]byte)}
	backend := NewPostgresBackend(querier)
	if err := backend.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	exerciseBackend(t, backend)

	if len(querier.execs) != 3 || querier.execs[0] != createBlobTable {
		t.Fatalf("unexpected statements: %v", querier.execs)
	}
}
