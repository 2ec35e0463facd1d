// Package filesystem manages the folders an archive library keeps next to its
// database: one folder per file at <root>/<fond_no>/<file_no>, holding the
// item attachments copied into it.
package filesystem

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FondNoOf returns the fond number a series or file number starts with.
func FondNoOf(number string) string {
	fondNo, _, _ := strings.Cut(number, "-")
	return fondNo
}

// FileFolder returns the folder for a file inside a library root.
func FileFolder(root, fileNo string) string {
	return filepath.Join(root, FondNoOf(fileNo), fileNo)
}

// EnsureFileFolder creates the file's folder if it does not exist.
func EnsureFileFolder(root, fileNo string) (string, error) {
	dir := FileFolder(root, fileNo)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create folder for file %s: %w", fileNo, err)
	}
	return dir, nil
}

// RemoveFileFolder removes the file's folder when it exists and is empty. A
// folder still holding attachments is left alone and reported as not removed.
func RemoveFileFolder(root, fileNo string) (bool, error) {
	dir := FileFolder(root, fileNo)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(dir); err != nil {
		return false, err
	}
	return true, nil
}

// StoreAttachment copies src into the file's folder and returns the stored
// path and its SHA-256. An existing name gets a numeric suffix.
func StoreAttachment(root, fileNo, src string) (string, string, error) {
	dir, err := EnsureFileFolder(root, fileNo)
	if err != nil {
		return "", "", err
	}

	//nolint:gosec // G304: src is a path the user asked to attach
	in, err := os.Open(src)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = in.Close() }()

	dest := uniquePath(filepath.Join(dir, filepath.Base(src)))
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", "", err
	}

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, hasher), in); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		return "", "", err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dest)
		return "", "", err
	}

	return dest, hex.EncodeToString(hasher.Sum(nil)), nil
}

// RemoveAttachment deletes a stored attachment if it exists.
func RemoveAttachment(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return os.Remove(path)
}

// FileExists reports whether the given path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func uniquePath(path string) string {
	if !FileExists(path) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := base + "_" + strconv.Itoa(i) + ext
		if !FileExists(candidate) {
			return candidate
		}
	}
}
