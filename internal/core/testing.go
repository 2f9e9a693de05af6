package core

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/julien-sobczak/nt-export/internal/testutil"
	"github.com/julien-sobczak/nt-export/pkg/clock"
	"github.com/spf13/afero"
)

// Reset forces singletons to be recreated. Useful between unit tests.
func Reset() {
	configOnce.Reset()
	loggerOnce.Reset()
}

/* Fixtures */

// SetUpVaultFromFiles populates an in-memory vault with the given files (path => content).
func SetUpVaultFromFiles(t *testing.T, files map[string]string) *Vault {
	vault := NewVaultFs(afero.NewMemMapFs())
	for path, content := range files {
		if err := vault.Create(path, content); err != nil {
			t.Fatal(err)
		}
	}
	return vault
}

// SetUpVaultFromGoldenDir populates a temp directory from testdata/<test name> and uses it as the current vault.
func SetUpVaultFromGoldenDir(t *testing.T) *Vault {
	return SetUpVaultFromGoldenDirNamed(t, t.Name())
}

// SetUpVaultFromGoldenDirNamed populates a temp directory from the given golden dir and uses it as the current vault.
func SetUpVaultFromGoldenDirNamed(t *testing.T, testname string) *Vault {
	dirname := testutil.SetUpFromGoldenDirNamed(t, testname)

	Reset()
	// Force the application to consider the temporary directory as the home
	os.Setenv("NT_EXPORT_HOME", dirname)
	t.Cleanup(func() {
		os.Unsetenv("NT_EXPORT_HOME")
		Reset()
	})

	// Force debug level in tests to diagnose more easily
	CurrentLogger().SetVerboseLevel(VerboseDebug)
	CurrentLogger().Debugf("✨ Set up vault %q", dirname)

	return NewVault(dirname)
}

// CaptureLogs redirects the logger output until the end of the test.
func CaptureLogs(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	CurrentLogger().SetOutput(&buf)
	t.Cleanup(Reset)
	return &buf
}

/* Reproducible Tests */

// FreezeNow wraps the clock API to register the cleanup function at the end of the test.
func FreezeNow(t *testing.T) time.Time {
	now := clock.Freeze()
	t.Cleanup(clock.Unfreeze)
	return now.Now()
}

// FreezeAt wraps the clock API to register the cleanup function at the end of the test.
func FreezeAt(t *testing.T, point time.Time) time.Time {
	now := clock.FreezeAt(point)
	t.Cleanup(clock.Unfreeze)
	return now.Now()
}

/* Assertions */

// mustReadFile returns the content of a file or fails the test.
func mustReadFile(t *testing.T, vault *Vault, path string) string {
	content, err := vault.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	return content
}
