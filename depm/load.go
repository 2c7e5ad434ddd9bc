package depm

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"golang.org/x/mod/semver"

	"chai/report"
)

// ModuleFileName is the name of a Glyph project's manifest, the way
// `chai-mod.toml` names the teacher's.
const ModuleFileName = "glyph-mod.toml"

// tomlProject mirrors the teacher's tomlModule: the on-disk encoding of a
// project manifest.
type tomlProject struct {
	Name             string `toml:"name"`
	GlyphVersion     string `toml:"glyph-version"`
	DefaultStrict    string `toml:"default-strictness"`
	PermitOverloads  bool   `toml:"permit-overloads"`
}

// LoadProject reads and validates a project manifest from the given
// directory, grounded on the teacher's depm.LoadModule. Unlike the
// teacher, a missing or malformed manifest is not always fatal to the
// caller: Glyph's test harness builds Projects directly without a
// manifest, so LoadProject is only used by the `cmd` CLI driver.
func LoadProject(dirAbsPath string) (*Project, error) {
	path := filepath.Join(dirAbsPath, ModuleFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read project manifest at %q: %w", path, err)
	}

	var tp tomlProject
	if err := toml.Unmarshal(data, &tp); err != nil {
		return nil, fmt.Errorf("malformed project manifest at %q: %w", path, err)
	}

	if tp.Name == "" {
		return nil, fmt.Errorf("project manifest %q is missing a `name`", path)
	}

	if tp.GlyphVersion != "" && !semver.IsValid("v"+tp.GlyphVersion) {
		return nil, fmt.Errorf("project manifest %q has invalid glyph-version %q", path, tp.GlyphVersion)
	}

	return &Project{
		Name:                   tp.Name,
		Version:                tp.GlyphVersion,
		DefaultStrictness:      parseStrictness(tp.DefaultStrict),
		PermitOverloadsDefault: tp.PermitOverloads,
	}, nil
}

func parseStrictness(s string) report.StrictnessLevel {
	switch s {
	case "ignore":
		return report.StrictnessIgnore
	case "false":
		return report.StrictnessFalse
	case "strict":
		return report.StrictnessStrict
	case "strong":
		return report.StrictnessStrong
	default:
		return report.StrictnessTrue
	}
}
