package cfat_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LordHerdier/cfat"
)

func TestImportTreeMirrorsHostLayout(t *testing.T) {
	hostRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(hostRoot, "sub"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hostRoot, "top.txt"), []byte("top"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hostRoot, "sub", "nested.txt"), []byte("nested contents"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	imgPath := filepath.Join(t.TempDir(), "image.cfat")
	fsys, err := cfat.Create(imgPath)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer fsys.Close()

	if err := fsys.ImportTree(os.DirFS(hostRoot), ".", "/"); err != nil {
		t.Fatalf("ImportTree: %v", err)
	}

	if _, err := fsys.Resolve("/top.txt"); err != nil {
		t.Errorf("Resolve(/top.txt): %v", err)
	}
	sub, err := fsys.Resolve("/sub")
	if err != nil {
		t.Fatalf("Resolve(/sub): %v", err)
	}
	if !sub.IsDir() {
		t.Errorf("/sub should be a directory")
	}

	buf := make([]byte, len("nested contents"))
	if _, err := fsys.ReadFile("/sub/nested.txt", buf, 0); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(buf) != "nested contents" {
		t.Errorf("ReadFile = %q, want %q", buf, "nested contents")
	}
}
