package localstore

import "testing"

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.Get("user"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := s.Put("user", `{"id":"u1"}`); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get("user")
	if err != nil || !ok {
		t.Fatalf("expected present key, got ok=%v err=%v", ok, err)
	}
	if v != `{"id":"u1"}` {
		t.Fatalf("unexpected value %q", v)
	}

	// Overwrite replaces the previous value.
	if err := s.Put("user", `{"id":"u2"}`); err != nil {
		t.Fatal(err)
	}
	v, _, _ = s.Get("user")
	if v != `{"id":"u2"}` {
		t.Fatalf("expected overwritten value, got %q", v)
	}

	if err := s.Delete("user"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("user"); ok {
		t.Fatal("expected key to be deleted")
	}

	// Deleting an absent key is a no-op.
	if err := s.Delete("user"); err != nil {
		t.Fatal(err)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("user", "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("selectedFiles", "b"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("selectedFiles"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get("user"); !ok {
		t.Fatal("deleting one key must not affect the other")
	}
}
