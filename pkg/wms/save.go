package wms

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mohammed-shakir/ogc-client/pkg/ows"
)

// SaveTileToFile writes data to path. The bytes go to a temporary file in
// the same directory which is renamed over path only after a complete write
// and sync, so a failure never leaves a partial file behind. Every failure
// wraps ows.ErrIO.
func SaveTileToFile(data []byte, path string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ioErr("create", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	n, err := tmp.Write(data)
	if err != nil {
		return ioErr("write", path, err)
	}
	if n != len(data) {
		return ioErr("write", path, fmt.Errorf("short write: %d of %d bytes", n, len(data)))
	}
	if err = tmp.Sync(); err != nil {
		return ioErr("sync", path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return ioErr("chmod", path, err)
	}
	if err = tmp.Close(); err != nil {
		return ioErr("close", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return ioErr("rename", path, err)
	}
	return nil
}

func ioErr(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ows.ErrIO, op, path, err)
}
