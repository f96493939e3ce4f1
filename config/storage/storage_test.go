package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestAtomicFileUpdate(t *testing.T) {
	t.Run("creates missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := AtomicFileUpdate(path, `{"a":1}`, false); err != nil {
			t.Fatalf("AtomicFileUpdate() error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(data) != `{"a":1}` {
			t.Errorf("content = %q", data)
		}
		info, _ := os.Stat(path)
		if info.Mode().Perm() != 0600 {
			t.Errorf("mode = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		writeFile(t, path, "{}")
		if err := AtomicFileUpdate(path, `{"b":2}`, false); err != nil {
			t.Fatalf("AtomicFileUpdate() error = %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("directory contains %v, want only config.json", names)
		}
	})

	t.Run("backup keeps previous content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		writeFile(t, path, `{"v":"old"}`)
		if err := AtomicFileUpdate(path, `{"v":"new"}`, true); err != nil {
			t.Fatalf("AtomicFileUpdate() error = %v", err)
		}

		backups, err := NewBackupManager(0).ListBackups(path)
		if err != nil {
			t.Fatalf("ListBackups() error = %v", err)
		}
		if len(backups) != 1 {
			t.Fatalf("len(backups) = %d, want 1", len(backups))
		}
		data, _ := os.ReadFile(backups[0])
		if string(data) != `{"v":"old"}` {
			t.Errorf("backup content = %q", data)
		}
	})
}

func TestBackupRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, "{}")

	for i := 0; i < DefaultBackupRetention+2; i++ {
		if err := AtomicFileUpdate(path, "{}", true); err != nil {
			t.Fatalf("AtomicFileUpdate() error = %v", err)
		}
	}

	backups, err := NewBackupManager(0).ListBackups(path)
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != DefaultBackupRetention {
		t.Errorf("len(backups) = %d, want %d", len(backups), DefaultBackupRetention)
	}
}

func TestRestoreFromLatestBackup(t *testing.T) {
	bm := NewBackupManager(5)

	t.Run("no backups", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		writeFile(t, path, "{}")
		if _, err := bm.RestoreFromLatestBackup(path); err == nil {
			t.Error("RestoreFromLatestBackup() should fail without backups")
		}
	})

	t.Run("restores newest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		writeFile(t, path, `"first"`)
		if _, err := bm.CreateBackup(path); err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}
		writeFile(t, path, `"second"`)
		if _, err := bm.CreateBackup(path); err != nil {
			t.Fatalf("CreateBackup() error = %v", err)
		}
		writeFile(t, path, `"broken`)

		restored, err := bm.RestoreFromLatestBackup(path)
		if err != nil {
			t.Fatalf("RestoreFromLatestBackup() error = %v", err)
		}
		if restored == "" {
			t.Error("RestoreFromLatestBackup() returned empty backup path")
		}
		data, _ := os.ReadFile(path)
		if string(data) != `"second"` {
			t.Errorf("restored content = %q, want %q", data, `"second"`)
		}
	})

	t.Run("rejects foreign backup path", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.json")
		other := filepath.Join(dir, "other.json")
		writeFile(t, other, "{}")
		if err := bm.RestoreFromBackup(path, other); err == nil {
			t.Error("RestoreFromBackup() should reject a path that is not a backup")
		}
	})
}
