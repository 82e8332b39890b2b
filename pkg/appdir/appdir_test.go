package appdir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureCreatesDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	want := filepath.Join(home, Name)
	if got := Dir(); got != want {
		t.Fatalf("Dir() = %q, want %q", got, want)
	}

	dir, err := Ensure()
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("expected %s to be a directory (err=%v)", dir, err)
	}

	// second call is a no-op
	if _, err := Ensure(); err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
}

func TestPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got := Path("rc5.db"); got != filepath.Join(home, Name, "rc5.db") {
		t.Errorf("relative name not resolved: %q", got)
	}
	abs := filepath.Join(home, "elsewhere.db")
	if got := Path(abs); got != abs {
		t.Errorf("absolute name changed: %q", got)
	}
}
