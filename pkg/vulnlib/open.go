package vulnlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kvesta/vulnmgt/config"
)

const (
	mongoScheme    = "mongodb://"
	mongoSRVScheme = "mongodb+srv://"
	sqliteScheme   = "sqlite://"
)

// Open connects to the store named by s.URI.
// "sqlite://" with no path uses vulnmgt.db under the per-user data folder.
func Open(ctx context.Context, s config.StoreSettings) (Store, error) {
	uri := strings.TrimSpace(s.URI)

	switch {
	case strings.HasPrefix(uri, mongoScheme), strings.HasPrefix(uri, mongoSRVScheme):
		return OpenMongo(ctx, uri, s.HostDB, s.CVEDB)

	case strings.HasPrefix(uri, sqliteScheme):
		dbPath := strings.TrimPrefix(uri, sqliteScheme)
		if dbPath == "" {
			dir, err := dataDir()
			if err != nil {
				return nil, err
			}
			dbPath = filepath.Join(dir, "vulnmgt.db")
		}

		return OpenSQLite(dbPath)
	}

	return nil, fmt.Errorf("unsupported store uri %q, expected %s or %s", uri, mongoScheme, sqliteScheme)
}

func dataDir() (string, error) {
	dir, err := getHomeDir()
	if err != nil {
		return "", err
	}

	if runtime.GOOS == "windows" {
		return filepath.Join(dir, "vulnmgtdata"), nil
	}

	return filepath.Join(dir, ".vulnmgt"), nil
}

func getHomeDir() (string, error) {
	if runtime.GOOS == "windows" {
		dir, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return dir, nil
	}

	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return dir, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsExist(err) {
			return true
		}

		return false
	}
	return true
}

func mkFolder(path string) error {
	if !exists(path) {
		err := os.MkdirAll(path, os.FileMode(0755))
		if err != nil {
			return err
		}
	}
	return nil
}
