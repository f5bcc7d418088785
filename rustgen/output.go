package rustgen

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/witffi/errors"
)

// Artifact file names, matching what a consuming crate includes as
// `mod ffi;` and what a C build includes directly.
const (
	RustFileName   = "ffi.rs"
	HeaderFileName = "ffi.h"
)

// WriteArtifacts renders both artifacts and writes them under dir.
// Each file lands via a temp file and rename, so a failed run never
// leaves a truncated artifact behind.
func (g *Generator) WriteArtifacts(dir string) error {
	outputs := []struct {
		name    string
		content string
	}{
		{RustFileName, g.Generate()},
		{HeaderFileName, g.GenerateHeader()},
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Write(dir, err)
	}
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := writeAtomic(path, []byte(out.content)); err != nil {
			return err
		}
		Logger().Info("wrote artifact",
			zap.String("path", path),
			zap.Int("bytes", len(out.content)))
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return errors.Write(path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Write(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Write(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Write(path, err)
	}
	return nil
}
