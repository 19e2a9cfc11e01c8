package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// sqliteSidecars are the files SQLite keeps next to a WAL-mode database.
var sqliteSidecars = []string{"-wal", "-shm"}

// DiskUsageBytes returns the bytes used on disk by the counter database (with
// its WAL sidecars) and any extra paths such as an on-disk search index.
// Directories are summed recursively; missing or empty paths count 0.
func DiskUsageBytes(databasePath string, extra ...string) (int64, error) {
	paths := append([]string(nil), extra...)
	if databasePath != "" {
		paths = append(paths, databasePath)
		for _, suffix := range sqliteSidecars {
			paths = append(paths, databasePath+suffix)
		}
	}
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		n, err := pathSize(p)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func pathSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}
	var total int64
	err = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		return nil
	})
	return total, err
}
