package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLockThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("state:\n  driver: memory\n"), 0600); err != nil {
		t.Fatal(err)
	}

	hash, err := Lock(path)
	if err != nil {
		t.Fatalf("Lock() failed: %v", err)
	}
	if len(hash) != 64 {
		t.Fatalf("hash length = %d, want 64", len(hash))
	}

	manifest, err := LoadChecksums(dir)
	if err != nil {
		t.Fatalf("LoadChecksums() failed: %v", err)
	}
	if manifest.Hashes["config.yaml"] != hash {
		t.Fatalf("manifest hash = %q, want %q", manifest.Hashes["config.yaml"], hash)
	}

	if _, err := Load(path); err != nil {
		t.Fatalf("Load() of locked config failed: %v", err)
	}
}

func TestLoadRejectsTamperedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("state:\n  driver: memory\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Lock(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("state:\n  driver: bolt\n  path: ./x.db\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected verification error")
	}
	if !strings.Contains(err.Error(), "hash mismatch") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsUnlistedFileInLockedDir(t *testing.T) {
	dir := t.TempDir()
	locked := filepath.Join(dir, "config.yaml")
	other := filepath.Join(dir, "other.yaml")
	for _, p := range []string{locked, other} {
		if err := os.WriteFile(p, []byte("state:\n  driver: memory\n"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := Lock(locked); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(other); err == nil || !strings.Contains(err.Error(), "no hash") {
		t.Fatalf("expected missing hash error, got %v", err)
	}
}

func TestLoadChecksumsMissing(t *testing.T) {
	if _, err := LoadChecksums(t.TempDir()); err == nil {
		t.Fatal("expected error for missing .checksums")
	}
}

func TestVerifyFileHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte("abc"), 0600); err != nil {
		t.Fatal(err)
	}
	hash, err := ComputeBlake3Hash(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyFileHash(path, hash); err != nil {
		t.Fatalf("VerifyFileHash() = %v", err)
	}
	if err := VerifyFileHash(path, strings.Repeat("0", 64)); err == nil {
		t.Fatal("expected mismatch")
	}
}
