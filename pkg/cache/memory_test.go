package cache

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore(0)
	if err != nil {
		t.Fatalf("NewMemoryStore error: %v", err)
	}
	defer s.Close()

	buf := []byte("value")
	if err := s.Set(ctx, "key", buf, 0); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'X'

	got, hit, err := s.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if string(got) != "value" {
		t.Errorf("Get = %q, want stored copy %q", got, "value")
	}

	got[0] = 'Y'
	again, _, _ := s.Get(ctx, "key")
	if string(again) != "value" {
		t.Errorf("mutating a returned slice changed the store: %q", again)
	}

	if err := s.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := s.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
}
