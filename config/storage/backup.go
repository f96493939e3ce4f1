package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultBackupRetention is the number of settings backups kept next to the file
const DefaultBackupRetention = 3

// BackupManager keeps timestamped copies of a settings file
type BackupManager struct {
	// MaxBackups is the maximum number of backups to retain
	MaxBackups int
}

// NewBackupManager creates a BackupManager; non-positive limits use the default
func NewBackupManager(maxBackups int) *BackupManager {
	if maxBackups <= 0 {
		maxBackups = DefaultBackupRetention
	}
	return &BackupManager{MaxBackups: maxBackups}
}

func backupPattern(filePath string) string {
	return filePath + ".backup-*"
}

// CreateBackup copies filePath to filePath.backup-<timestamp>-<pid>
func (bm *BackupManager) CreateBackup(filePath string) (string, error) {
	// the fractional timestamp keeps names ordered even for writes within one second
	timestamp := time.Now().Format("20060102150405.000000000")
	backupPath := fmt.Sprintf("%s.backup-%s-%d", filePath, timestamp, os.Getpid())

	if err := copyFile(filePath, backupPath); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return backupPath, nil
}

// ListBackups returns the backups of filePath, oldest first
func (bm *BackupManager) ListBackups(filePath string) ([]string, error) {
	backupFiles, err := filepath.Glob(backupPattern(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	sort.Strings(backupFiles)
	return backupFiles, nil
}

// CleanupOldBackups removes all but the newest MaxBackups backups
func (bm *BackupManager) CleanupOldBackups(filePath string) error {
	backupFiles, err := bm.ListBackups(filePath)
	if err != nil {
		return err
	}

	numToRemove := len(backupFiles) - bm.MaxBackups
	if numToRemove <= 0 {
		return nil
	}

	for _, oldBackup := range backupFiles[:numToRemove] {
		if err := os.Remove(oldBackup); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", oldBackup, err)
		}
	}
	return nil
}

// RestoreFromBackup overwrites filePath with the given backup of it
func (bm *BackupManager) RestoreFromBackup(filePath string, backupPath string) error {
	match, err := filepath.Match(backupPattern(filePath), backupPath)
	if err != nil {
		return fmt.Errorf("invalid backup path: %w", err)
	}
	if !match {
		return fmt.Errorf("backup path %s is not a valid backup for %s", backupPath, filePath)
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if err := AtomicFileUpdate(filePath, string(data), false); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}
	return nil
}

// RestoreFromLatestBackup restores filePath from its newest backup
func (bm *BackupManager) RestoreFromLatestBackup(filePath string) (string, error) {
	backupFiles, err := bm.ListBackups(filePath)
	if err != nil {
		return "", err
	}
	if len(backupFiles) == 0 {
		return "", fmt.Errorf("no backup files found for %s", filePath)
	}

	latest := backupFiles[len(backupFiles)-1]
	return latest, bm.RestoreFromBackup(filePath, latest)
}

// copyFile copies src to dst, preserving the permission bits of src
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return dstFile.Sync()
}
