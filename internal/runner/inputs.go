package runner

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/packconv/packconv/internal/batch"
)

// collectInputs expands the job's glob patterns into batch inputs, loading
// each file's payload. Pattern order is preserved in the result; a file
// matched by several patterns is loaded once. A pattern that matches nothing
// is an error: a job naming inputs that do not exist is misconfigured.
func collectInputs(fs afero.Fs, patterns []string) ([]batch.Input, error) {
	var inputs []batch.Input
	loaded := make(map[string]struct{})

	for _, pattern := range patterns {
		matches, err := afero.Glob(fs, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("input pattern %q matched no files", pattern)
		}

		for _, match := range matches {
			if _, ok := loaded[match]; ok {
				continue
			}
			loaded[match] = struct{}{}

			info, err := fs.Stat(match)
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", match, err)
			}
			if info.IsDir() {
				continue
			}

			payload, err := afero.ReadFile(fs, match)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", match, err)
			}

			inputs = append(inputs, batch.Input{
				Name:    filepath.Base(match),
				Payload: payload,
			})
		}
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("input patterns matched no files")
	}

	return inputs, nil
}
