package results

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"courtiq/internal/model"
)

// ExportFilename is the fixed name of the downloadable result artifact.
const ExportFilename = "court-iq-results.json"

// ExportPath returns where the artifact lands under outDir.
func ExportPath(outDir string) string {
	if outDir == "" {
		outDir = "."
	}
	return filepath.Join(outDir, ExportFilename)
}

// ExportPathFor returns a per-video artifact path under outDir. It keeps the
// canonical fixed name when videoName is empty, otherwise prefixes it with
// the video's base name so batch runs do not overwrite each other.
func ExportPathFor(outDir, videoName string) string {
	if videoName == "" {
		return ExportPath(outDir)
	}
	stem := videoName
	if ext := filepath.Ext(stem); ext != "" {
		stem = stem[:len(stem)-len(ext)]
	}
	if outDir == "" {
		outDir = "."
	}
	return filepath.Join(outDir, stem+"-"+ExportFilename)
}

// Write encodes the projected result as pretty-printed JSON.
func Write(w io.Writer, res model.ProjectedResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// Save writes the artifact to path, creating parent directories as needed.
func Save(path string, res model.ProjectedResult) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
