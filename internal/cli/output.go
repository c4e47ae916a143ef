package cli

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mrpoffice-collab/Whispering-Art/pkg/errors"
	"github.com/mrpoffice-collab/Whispering-Art/pkg/pipeline"
)

// writeArtifacts writes every artifact of res and returns the paths in
// artifact order ("pdf" first, then pages).
//
// output may be empty (current directory), a directory, or a file name. A
// file name is honored only when there is exactly one artifact; otherwise
// it is treated as a directory.
func writeArtifacts(res *pipeline.Result, output string) ([]string, error) {
	names := slices.Sorted(maps.Keys(res.Artifacts))
	if len(names) == 0 {
		return nil, nil
	}

	dir, file := splitOutput(output, len(names))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, res.FileName(name))
		if file != "" {
			path = filepath.Join(dir, file)
		}
		if err := os.WriteFile(path, res.Artifacts[name], 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// splitOutput decides whether output names a directory or a single file.
func splitOutput(output string, artifacts int) (dir, file string) {
	if output == "" {
		return ".", ""
	}
	if strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(filepath.Separator)) {
		return filepath.Clean(output), ""
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return output, ""
	}
	if artifacts == 1 && filepath.Ext(output) != "" {
		return filepath.Dir(output), filepath.Base(output)
	}
	return output, ""
}
