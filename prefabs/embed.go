package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// DiskDir is checked before the embedded files so specs and scripts can be
// edited without rebuilding.
var DiskDir = "prefabs"

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	data, err := ScriptsFS.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return data, nil
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	return strings.TrimPrefix(s, "prefabs/")
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}

	return "scripts/" + s
}

func diskPath(clean string) string {
	return filepath.Join(DiskDir, filepath.FromSlash(clean))
}
