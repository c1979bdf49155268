package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// tempPattern names the scratch files created next to the record while it is
// being replaced. The watcher ignores them because it only follows the record.
const tempPattern = ".murmur-tmp-*"

// recordPerm is used when the record does not exist yet.
const recordPerm os.FileMode = 0644

// replaceRecord swaps the record at path for data. The bytes go to a scratch
// file in the same directory, which is flushed and renamed over the record,
// so a reader sees either the old collection or the new one.
// An existing record keeps its permission bits.
func replaceRecord(path string, data []byte) (err error) {
	dir := filepath.Dir(path)

	perm := recordPerm
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	scratch, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("create scratch record: %w", err)
	}
	name := scratch.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	if _, err = scratch.Write(data); err == nil {
		err = scratch.Sync()
	}
	if closeErr := scratch.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write scratch record: %w", err)
	}

	if err = os.Chmod(name, perm); err != nil {
		return fmt.Errorf("chmod scratch record: %w", err)
	}
	if err = os.Rename(name, path); err != nil {
		return fmt.Errorf("replace record %s: %w", path, err)
	}
	return syncDir(dir)
}

// syncDir flushes the directory entry of a rename. Windows cannot fsync a
// directory handle.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open record directory: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("sync record directory: %w", err)
	}
	return nil
}
