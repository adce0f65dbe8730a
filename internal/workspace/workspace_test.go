package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_WritesSource(t *testing.T) {
	ws, err := New("int main(void) { return 0; }\n")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { ws.Remove() })

	data, err := os.ReadFile(ws.SourcePath())
	if err != nil {
		t.Fatalf("reading source: %v", err)
	}
	if string(data) != "int main(void) { return 0; }\n" {
		t.Errorf("source = %q, want the submitted code", data)
	}
	if filepath.Base(ws.SourcePath()) != SourceFile {
		t.Errorf("source name = %q, want %q", filepath.Base(ws.SourcePath()), SourceFile)
	}
	if filepath.Dir(ws.BinaryPath()) != ws.Dir() {
		t.Errorf("binary path %q not inside workspace %q", ws.BinaryPath(), ws.Dir())
	}
}

func TestNew_DistinctDirs(t *testing.T) {
	a, err := New("a")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { a.Remove() })

	b, err := New("b")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { b.Remove() })

	if a.Dir() == b.Dir() {
		t.Errorf("two workspaces share the directory %q", a.Dir())
	}
}

func TestRemove_DeletesEverything(t *testing.T) {
	ws, err := New("code")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Simulate a produced binary so Remove has more than the source to delete
	if err := os.WriteFile(ws.BinaryPath(), []byte{0x7f, 'E', 'L', 'F'}, 0o700); err != nil {
		t.Fatalf("writing binary: %v", err)
	}

	if err := ws.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(ws.Dir()); !os.IsNotExist(err) {
		t.Errorf("workspace %q still exists after Remove", ws.Dir())
	}
}
