package store

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// readJSON decodes the record at path into out. found is false, and out
// untouched, when there is no record yet.
func readJSON(path string, out any) (found bool, err error) {
	raw, err := readFile(path)
	if raw == nil || err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// readFile returns the file contents, or nil without error when the file
// does not exist.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeJSON(path string, v any, perm fs.FileMode) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return writeFile(path, raw, perm)
}

// writeFile replaces path atomically: the bytes are synced to a sibling
// file created with perm, which is then renamed over path. Readers see the
// old record or the new one, never a partial write.
func writeFile(path string, data []byte, perm fs.FileMode) (err error) {
	dir, base := filepath.Split(path)
	staged, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(staged.Name())
		}
	}()

	if err = staged.Chmod(perm); err == nil {
		if _, err = staged.Write(data); err == nil {
			err = staged.Sync()
		}
	}
	if cerr := staged.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(staged.Name(), path)
}

// removeFile deletes path. Deleting a record that is not there succeeds.
func removeFile(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
