package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config_pool.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var fired atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Watch(ctx, func() error {
			fired.Add(1)
			return nil
		})
	}()

	// Let the watch loop start before mutating the file.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"llm_key":"sk-new"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher never fired after a file write")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config_pool.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fired atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Watch(ctx, func() error {
			fired.Add(1)
			return nil
		})
	}()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("watcher fired %d times for an unrelated file, want 0", got)
	}

	cancel()
	<-done
}

func TestWatcher_CallbackErrorIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config_pool.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var fired atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Watch(ctx, func() error {
			fired.Add(1)
			return errors.New("malformed intermediate write")
		})
	}()

	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{broken`), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for fired.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher never fired")
		case <-time.After(50 * time.Millisecond):
		}
	}

	// A second write still reaches the callback after the earlier error.
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}
	deadline = time.After(3 * time.Second)
	for fired.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("watcher stopped after a callback error")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	<-done
}
