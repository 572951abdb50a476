// Package store persists the chat state as two independent JSON-array
// records on disk: the session collection and the search history. Reads and
// writes never surface errors to callers; failures are logged and the caller
// gets the best available state (an empty collection on a failed read, the
// previous on-disk state on a failed write).
package store

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// writeFileAtomic replaces path with data via a temp file and rename, so a
// crash mid-write never leaves a truncated record behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func ensureDir(dir string) string {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("failed to create data directory")
	}
	return dir
}

func dataPath(dir, name string) string {
	return filepath.Join(dir, name)
}
