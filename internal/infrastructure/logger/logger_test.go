package logger

import "testing"

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"email", "a@b.c", "password", "hunter22", "session_token", "xyz", "dangling"})
	want := []interface{}{"email", "a@b.c", "password", "[REDACTED]", "session_token", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("len: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kv[%d]: got=%v want=%v", i, got[i], want[i])
		}
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production", "test"} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		log.With("component", "test").Debug("hello", "k", "v")
	}
}
