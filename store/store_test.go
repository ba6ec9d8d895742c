package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"vidbrief/config"
)

func TestKVImplementations(t *testing.T) {
	dir := t.TempDir()
	fileKV, err := NewFileKV(filepath.Join(dir, "nested", "state.json"))
	if err != nil {
		t.Fatalf("NewFileKV error: %v", err)
	}

	impls := map[string]KV{
		"memory": NewMemory(),
		"file":   fileKV,
	}

	for name, kv := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			if err := kv.Set(ctx, "theme", []byte("dark")); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			if err := kv.Set(ctx, "recentVideos", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("Set error: %v", err)
			}

			got, err := kv.Get(ctx, "theme")
			if err != nil || string(got) != "dark" {
				t.Fatalf("Get = %q, %v; want dark", got, err)
			}

			if err := kv.Delete(ctx, "theme"); err != nil {
				t.Fatalf("Delete error: %v", err)
			}
			if _, err := kv.Get(ctx, "theme"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}

			got, err = kv.Get(ctx, "recentVideos")
			if err != nil || string(got) != `[{"id":"a"}]` {
				t.Fatalf("other key disturbed: %q, %v", got, err)
			}

			if err := kv.Close(); err != nil {
				t.Fatalf("Close error: %v", err)
			}
		})
	}
}

func TestFileKVPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	first, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("NewFileKV error: %v", err)
	}
	if err := first.Set(ctx, "theme", []byte("light")); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	second, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("NewFileKV error: %v", err)
	}
	got, err := second.Get(ctx, "theme")
	if err != nil || string(got) != "light" {
		t.Fatalf("Get = %q, %v; want light", got, err)
	}
}

func TestFileKVCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	kv, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("NewFileKV error: %v", err)
	}
	ctx := context.Background()

	if _, err := kv.Get(ctx, "theme"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}

	if err := kv.Set(ctx, "theme", []byte("dark")); err != nil {
		t.Fatalf("Set over corrupt file error: %v", err)
	}
	got, err := kv.Get(ctx, "theme")
	if err != nil || string(got) != "dark" {
		t.Fatalf("Get = %q, %v; want dark", got, err)
	}
}

func TestFileKVConcurrentWriters(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewFileKV error: %v", err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			if err := kv.Set(ctx, key, []byte(key)); err != nil {
				t.Errorf("Set(%s) error: %v", key, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		key := string(rune('a' + i))
		if _, err := kv.Get(ctx, key); err != nil {
			t.Errorf("Get(%s) error: %v", key, err)
		}
	}
}

func TestUpdateSerializesReadModifyWrite(t *testing.T) {
	fileKV, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewFileKV error: %v", err)
	}
	impls := map[string]KV{
		"memory": NewMemory(),
		"file":   fileKV,
	}

	for name, kv := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			increment := func(current []byte, found bool) ([]byte, error) {
				n := 0
				if found {
					n, _ = strconv.Atoi(string(current))
				}
				time.Sleep(time.Millisecond)
				return []byte(strconv.Itoa(n + 1)), nil
			}

			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := kv.Update(ctx, "counter", increment); err != nil {
						t.Errorf("Update error: %v", err)
					}
				}()
			}
			wg.Wait()

			got, err := kv.Get(ctx, "counter")
			if err != nil || string(got) != "10" {
				t.Fatalf("counter = %q, %v; want 10", got, err)
			}

			boom := errors.New("boom")
			err = kv.Update(ctx, "counter", func([]byte, bool) ([]byte, error) { return nil, boom })
			if !errors.Is(err, boom) {
				t.Fatalf("expected fn error, got %v", err)
			}
			if got, _ := kv.Get(ctx, "counter"); string(got) != "10" {
				t.Fatalf("failed update must not write, got %q", got)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	cfg := &config.Config{StateDir: t.TempDir(), Store: config.StoreConfig{Kind: "file"}}
	kv, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	fk, ok := kv.(*FileKV)
	if !ok {
		t.Fatalf("expected *FileKV, got %T", kv)
	}
	if fk.Path() != filepath.Join(cfg.StateDir, StateFileName) {
		t.Errorf("unexpected path %s", fk.Path())
	}

	cfg.Store.Kind = "etcd"
	if _, err := Open(cfg); err == nil {
		t.Errorf("expected error for unknown kind")
	}

	cfg.Store = config.StoreConfig{Kind: "redis", RedisAddr: "127.0.0.1:1"}
	if _, err := Open(cfg); err == nil {
		t.Errorf("expected connection error for unreachable redis")
	}
}
