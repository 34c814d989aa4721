package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadWorldDir loads every CUE file in a directory, unifies them, and
// compiles the `world` struct they define.
func LoadWorldDir(dir string) (*WorldSpec, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("world directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("access world directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scan world directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	worldVal := value.LookupPath(cue.ParsePath("world"))
	if !worldVal.Exists() {
		return nil, fmt.Errorf("no `world` definition found in %s", dir)
	}

	return CompileWorld(worldVal)
}

// LoadWorldString compiles a world definition from CUE source text.
// Used by tests and tooling that do not want a directory on disk.
func LoadWorldString(src string) (*WorldSpec, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(src)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	worldVal := value.LookupPath(cue.ParsePath("world"))
	if !worldVal.Exists() {
		return nil, fmt.Errorf("no `world` definition found")
	}

	return CompileWorld(worldVal)
}

// findCUEFiles returns the .cue files directly inside dir, sorted.
func findCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".cue") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
