package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/otiai10/copy"
)

// SetUpFromGoldenDir populates a temp directory based on the given test name.
func SetUpFromGoldenDir(t *testing.T) string {
	return SetUpFromGoldenDirNamed(t, t.Name())
}

// SetUpFromGoldenDirNamed populates a temp directory based on the given golden dir name.
// Files are copied (not symlinked) as exports write inside the directory.
func SetUpFromGoldenDirNamed(t *testing.T, testname string) string {
	dir := t.TempDir()

	dirIn := filepath.Join("testdata", testname)
	dirOut := filepath.Join(dir, filepath.Base(testname))

	if err := copy.Copy(dirIn, dirOut); err != nil {
		t.Fatal(err)
	}

	return dirOut
}

// SetUpFromFiles populates a temp directory with the given files (relative path => content).
func SetUpFromFiles(t *testing.T, files map[string]string) string {
	dir := t.TempDir()

	for path, content := range files {
		fileOut := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(fileOut), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fileOut, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

// GoldenFile reads the content of the golden file of the current test.
func GoldenFile(t *testing.T) []byte {
	return GoldenFileNamed(t, t.Name()+".md")
}

// GoldenFileNamed reads the content of the given golden file.
func GoldenFileNamed(t *testing.T, filename string) []byte {
	path := filepath.Join("testdata", filename)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed reading golden file %s: %v", path, err)
	}
	return b
}
