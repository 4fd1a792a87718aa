package statestore

import (
	"io/fs"
	"os"
	"path/filepath"
)

// StoreInfo describes one state database found by DiscoverStores.
type StoreInfo struct {
	Path string
	Root string // the .oaps directory containing it
}

const storeFileName = "state.db"

// DiscoverStores walks root looking for state databases under any
// .oaps directory (SUPPLEMENTED feature, grounded on beads.go's
// FindAllDatabases: that API walks the filesystem for every .beads
// directory holding a database rather than requiring the caller to
// already know every project location; DiscoverStores adapts the same
// idea to .oaps/state.db).
func DiscoverStores(root string) ([]StoreInfo, error) {
	var found []StoreInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == ".oaps" {
			dbPath := filepath.Join(path, storeFileName)
			if info, statErr := os.Stat(dbPath); statErr == nil && !info.IsDir() {
				found = append(found, StoreInfo{Path: dbPath, Root: path})
			}
			return nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
