package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"packrat/internal/fileutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCopyFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")
	writeFile(t, src, "payload")

	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestDirSizeSumsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "12345")
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), "123")

	size, err := fileutil.DirSize(dir)
	if err != nil {
		t.Fatalf("DirSize: %v", err)
	}
	if size != 8 {
		t.Fatalf("expected 8 bytes, got %d", size)
	}
}

func TestCopyTreeCopiesEverythingAndReportsBytes(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(src, "game.exe"), "exe-bytes")
	writeFile(t, filepath.Join(src, "data", "assets.dat"), "assets")

	var reports []uint64
	err := fileutil.CopyTree(src, dst, func(copied uint64) {
		reports = append(reports, copied)
	})
	if err != nil {
		t.Fatalf("CopyTree: %v", err)
	}

	for _, rel := range []string{"game.exe", filepath.Join("data", "assets.dat")} {
		if _, err := os.Stat(filepath.Join(dst, rel)); err != nil {
			t.Fatalf("expected %s in destination: %v", rel, err)
		}
	}

	if len(reports) != 2 {
		t.Fatalf("expected 2 progress reports, got %d", len(reports))
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] < reports[i-1] {
			t.Fatalf("cumulative bytes regressed: %v", reports)
		}
	}
	if reports[len(reports)-1] != 15 {
		t.Fatalf("expected 15 total bytes, got %d", reports[len(reports)-1])
	}
}

func TestCopyTreeRejectsFileSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "file.txt")
	writeFile(t, src, "x")

	if err := fileutil.CopyTree(src, filepath.Join(dir, "out"), nil); err == nil {
		t.Fatal("expected error for non-directory source")
	}
}
