package reference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/signadot/cfgtree/format"
)

func write(t *testing.T, p, s string) {
	t.Helper()
	if err := os.WriteFile(p, []byte(s), 0o600); err != nil {
		t.Fatal(err)
	}
}

func notify[T any](c chan T, v T) {
	select {
	case c <- v:
	default:
	}
}

func drain[T any](c chan T) {
	for {
		select {
		case <-c:
		default:
			return
		}
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "server.yaml")
	write(t, p, "host: a\nport: 1\n")
	ref, err := Open[Server](p)
	if err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan struct{}, 10)
	errs := make(chan error, 10)
	w, err := NewWatcher(ref, p,
		WithDebounce(50*time.Millisecond),
		WithReloadHandler(func() { notify(reloaded, struct{}{}) }),
		WithErrorHandler(func(err error) { notify(errs, err) }))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	write(t, filepath.Join(dir, "other.yaml"), "host: ignored\n")
	write(t, p, "host: b\nport: 2\n")
	// a reload may observe the file truncated but not yet written
	timeout := time.After(5 * time.Second)
	for ref.Get().Host != "b" {
		select {
		case <-reloaded:
		case <-errs:
		case <-timeout:
			t.Fatal("timed out waiting for reload")
		}
	}
	if got := ref.Get(); got.Port != 2 {
		t.Errorf("got %+v", got)
	}
	// let trailing events of the write settle
	time.Sleep(200 * time.Millisecond)
	drain(reloaded)
	drain(errs)

	write(t, p, "port: 3\n")
	select {
	case err := <-errs:
		if ref.Get().Host != "b" {
			t.Errorf("failed reload changed the reference: %v", err)
		}
	case <-reloaded:
		t.Errorf("reload without required host succeeded")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}
}

func TestWatchFormat(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "server.conf")
	if _, err := NewWatcher(nil, p); !errors.Is(err, format.ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
	yp := filepath.Join(dir, "server.yaml")
	if _, err := NewWatcher(nil, yp, WithFormat(format.Format(99))); !errors.Is(err, format.ErrBadFormat) {
		t.Errorf("expected ErrBadFormat for an unknown format, got %v", err)
	}
	w, err := NewWatcher(nil, p, WithFormat(format.INIFormat))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("run returned %v", err)
	}
}
