package main

import (
	"fmt"
	"path/filepath"
	"strings"

	v1 "github.com/simularium/simconv/internal/export/v1"
	"github.com/simularium/simconv/internal/storage/memory"
)

// trajectoryName derives a trajectory name from an input path by dropping
// the directory and any known extensions.
func trajectoryName(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".gz", ".zst", ".json", memory.FileExtension} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// readInputs reads every input file, keyed by trajectory name.
func readInputs(paths []string) (map[string]*v1.Envelope, error) {
	inputs := make(map[string]*v1.Envelope, len(paths))
	for _, path := range paths {
		env, err := memory.ReadFile(path)
		if err != nil {
			return nil, err
		}
		name := trajectoryName(path)
		if _, dup := inputs[name]; dup {
			return nil, fmt.Errorf("two inputs share the trajectory name %q", name)
		}
		inputs[name] = env
	}
	return inputs, nil
}
