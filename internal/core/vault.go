package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/copy"
	"github.com/spf13/afero"
)

// Vault gives access to the files of a vault using virtual paths (relative, slash-separated).
// Absolute paths are always served by the OS file system.
type Vault struct {
	// OS directory of the vault (empty for in-memory vaults)
	Root string

	fs   afero.Fs
	osFs afero.Fs
}

// NewVault creates a vault backed by the OS directory.
func NewVault(root string) *Vault {
	return &Vault{
		Root: root,
		fs:   afero.NewBasePathFs(afero.NewOsFs(), root),
		osFs: afero.NewOsFs(),
	}
}

// NewVaultFs creates a vault backed by an arbitrary file system (ex: afero.NewMemMapFs()).
func NewVaultFs(fsys afero.Fs) *Vault {
	return &Vault{
		fs:   fsys,
		osFs: afero.NewOsFs(),
	}
}

// IsAlreadyExists returns if the error reports an existing file or folder.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, fs.ErrExist)
}

func (v *Vault) String() string {
	if v.Root == "" {
		return "in-memory vault"
	}
	return fmt.Sprintf("vault %q", v.Root)
}

// resolve returns the file system serving the path.
func (v *Vault) resolve(p string) (afero.Fs, string) {
	if filepath.IsAbs(p) {
		return v.osFs, filepath.Clean(p)
	}
	return v.fs, CleanPath(p)
}

// CleanPath normalizes a virtual path.
func CleanPath(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

// Read returns the content of a file.
func (v *Vault) Read(p string) (string, error) {
	fsys, name := v.resolve(p)
	content, err := afero.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", p, err)
	}
	return string(content), nil
}

// Exists returns if a file or folder exists.
func (v *Vault) Exists(p string) bool {
	fsys, name := v.resolve(p)
	ok, err := afero.Exists(fsys, name)
	return err == nil && ok
}

// IsDir returns if the path is an existing folder.
func (v *Vault) IsDir(p string) bool {
	fsys, name := v.resolve(p)
	ok, err := afero.IsDir(fsys, name)
	return err == nil && ok
}

// Create writes a new file. It fails with fs.ErrExist when the file is already present.
func (v *Vault) Create(p string, content string) error {
	if v.Exists(p) {
		return fmt.Errorf("file %q already exists: %w", p, fs.ErrExist)
	}
	return v.Write(p, content)
}

// Write writes a file, replacing any existing file.
func (v *Vault) Write(p string, content string) error {
	fsys, name := v.resolve(p)
	if err := fsys.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("failed to create parent folder of %q: %w", p, err)
	}
	if err := afero.WriteFile(fsys, name, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %q: %w", p, err)
	}
	return nil
}

// CreateFolder creates a folder and its parents. It fails with fs.ErrExist when the folder is already present.
func (v *Vault) CreateFolder(p string) error {
	if v.Exists(p) {
		return fmt.Errorf("folder %q already exists: %w", p, fs.ErrExist)
	}
	fsys, name := v.resolve(p)
	if err := fsys.MkdirAll(name, 0755); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", p, err)
	}
	return nil
}

// Copy copies a vault file to a destination (in the vault or an absolute path).
// It fails with fs.ErrExist when the destination is already present.
func (v *Vault) Copy(src, dst string) error {
	if v.Exists(dst) {
		return fmt.Errorf("file %q already exists: %w", dst, fs.ErrExist)
	}
	if v.Root != "" && filepath.IsAbs(dst) {
		// Fast path from OS file to OS file
		if err := copy.Copy(v.OsPath(src), dst); err != nil {
			return fmt.Errorf("failed to copy %q to %q: %w", src, dst, err)
		}
		return nil
	}

	srcFs, srcName := v.resolve(src)
	in, err := srcFs.Open(srcName)
	if err != nil {
		return fmt.Errorf("failed to copy %q: %w", src, err)
	}
	defer in.Close()

	dstFs, dstName := v.resolve(dst)
	if err := dstFs.MkdirAll(filepath.Dir(dstName), 0755); err != nil {
		return fmt.Errorf("failed to create parent folder of %q: %w", dst, err)
	}
	out, err := dstFs.Create(dstName)
	if err != nil {
		return fmt.Errorf("failed to copy %q to %q: %w", src, dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %q to %q: %w", src, dst, err)
	}
	return nil
}

// OsPath returns the OS path of a vault file (the path itself for in-memory vaults).
func (v *Vault) OsPath(p string) string {
	if filepath.IsAbs(p) || v.Root == "" {
		return p
	}
	return filepath.Join(v.Root, filepath.FromSlash(CleanPath(p)))
}

// Walk traverses the files present under a folder in lexical order.
// Hidden files and folders (ex: .nt-export, .obsidian) are ignored.
func (v *Vault) Walk(dir string, walkFn func(p string) error) error {
	dir = CleanPath(dir)
	return afero.Walk(v.fs, dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		p = CleanPath(p)
		if p != dir && strings.HasPrefix(path.Base(p), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		return walkFn(p)
	})
}

// List returns the files present under a folder in lexical order.
func (v *Vault) List(dir string) ([]string, error) {
	var results []string
	err := v.Walk(dir, func(p string) error {
		results = append(results, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(results)
	return results, nil
}
