package cache

import (
	"path/filepath"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetSite(t *testing.T) {
	s := newTestStore(t)

	if _, ok, err := s.GetSite("S-1"); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	payload := []byte(`{"id":"S-1","name":"Prairie Ridge"}`)
	if err := s.PutSite("S-1", payload); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.GetSite("S-1")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if string(got) != string(payload) {
		t.Errorf("payload = %s", got)
	}

	// Overwrite replaces wholesale.
	updated := []byte(`{"id":"S-1","name":"Prairie Ridge II"}`)
	if err := s.PutSite("S-1", updated); err != nil {
		t.Fatal(err)
	}
	got, _, _ = s.GetSite("S-1")
	if string(got) != string(updated) {
		t.Errorf("payload after overwrite = %s", got)
	}
}

func TestInvalidateDropsBothSnapshots(t *testing.T) {
	s := newTestStore(t)

	if err := s.PutSite("S-1", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.PutDevices("S-1", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.PutSite("S-2", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}

	if err := s.Invalidate("S-1"); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := s.GetSite("S-1"); ok {
		t.Error("site snapshot should be gone")
	}
	if _, ok, _ := s.GetDevices("S-1"); ok {
		t.Error("device snapshot should be gone")
	}
	if _, ok, _ := s.GetSite("S-2"); !ok {
		t.Error("other sites must be untouched")
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	_ = s.PutSite("S-1", []byte(`{}`))
	_ = s.PutDevices("S-1", []byte(`[]`))
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.GetSite("S-1"); ok {
		t.Error("clear should drop everything")
	}
}
