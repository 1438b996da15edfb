package stubs

import (
	"github.com/FrancescElies/typeshed/pkg/errors"
)

// Platform identifies an operating system stubtest runs on in CI.
type Platform string

// The fixed platform enum. Platforms outside this set are rejected.
const (
	PlatformLinux  Platform = "linux"
	PlatformDarwin Platform = "darwin"
	PlatformWin32  Platform = "win32"
)

// platformDependencyKeys maps each platform to the record key holding its
// system package list.
var platformDependencyKeys = map[Platform]string{
	PlatformLinux:  "apt_dependencies",
	PlatformDarwin: "brew_dependencies",
	PlatformWin32:  "choco_dependencies",
}

// StubtestSettings describes how automated compatibility testing is run for a
// single stub distribution.
//
// Don't construct instances directly; use [Collection.StubtestSettings].
type StubtestSettings struct {
	Skipped              bool       // stubtest is not run at all
	AptDependencies      []string   // system packages installed on linux runners
	BrewDependencies     []string   // system packages installed on darwin runners
	ChocoDependencies    []string   // system packages installed on win32 runners
	Extras               []string   // upstream extras enabled for the test install
	IgnoreMissingStub    bool       // tolerate upstream symbols without a stub
	Platforms            []Platform // platforms stubtest runs on, default {linux}
	StubtestRequirements []string   // extra requirements installed for the run
}

// SystemRequirementsFor returns the system package list for a platform.
//
// Passing a platform outside the fixed enum is a programming error and fails
// with UNKNOWN_PLATFORM; it is never a property of the underlying record.
func (s StubtestSettings) SystemRequirementsFor(platform Platform) ([]string, error) {
	switch platform {
	case PlatformLinux:
		return s.AptDependencies, nil
	case PlatformDarwin:
		return s.BrewDependencies, nil
	case PlatformWin32:
		return s.ChocoDependencies, nil
	}
	return nil, errors.New(errors.ErrCodePlatform, "unrecognized platform %q", platform)
}

// StubtestSettings returns the validated tool.stubtest block for a
// distribution. A record without the block yields the defaults. Memoized per
// distribution.
func (c *Collection) StubtestSettings(dist string) (StubtestSettings, error) {
	return c.stubtest.Do(dist, func() (StubtestSettings, error) {
		return c.loadStubtestSettings(dist)
	})
}

func (c *Collection) loadStubtestSettings(dist string) (StubtestSettings, error) {
	raw, err := c.rawMetadata(dist)
	if err != nil {
		return StubtestSettings{}, err
	}
	data := toolBlock(raw, "stubtest")

	settings := StubtestSettings{
		Platforms: []Platform{PlatformLinux},
	}

	if settings.Skipped, err = optionalBool(data, "skip", false, dist); err != nil {
		return StubtestSettings{}, err
	}
	if settings.IgnoreMissingStub, err = optionalBool(data, "ignore_missing_stub", false, dist); err != nil {
		return StubtestSettings{}, err
	}

	lists := []struct {
		key  string
		dest *[]string
	}{
		{"apt_dependencies", &settings.AptDependencies},
		{"brew_dependencies", &settings.BrewDependencies},
		{"choco_dependencies", &settings.ChocoDependencies},
		{"extras", &settings.Extras},
		{"stubtest_requirements", &settings.StubtestRequirements},
	}
	for _, l := range lists {
		v, ok := data[l.key]
		if !ok {
			continue
		}
		items, ok := stringList(v)
		if !ok {
			return StubtestSettings{}, schemaErr(dist, "field %q must be a list of strings", l.key)
		}
		*l.dest = items
	}

	if v, ok := data["platforms"]; ok {
		names, ok := stringList(v)
		if !ok {
			return StubtestSettings{}, schemaErr(dist, "field %q must be a list of strings", "platforms")
		}
		settings.Platforms = settings.Platforms[:0]
		for _, name := range names {
			p := Platform(name)
			if _, known := platformDependencyKeys[p]; !known {
				return StubtestSettings{}, schemaErr(dist, "unrecognized platform %q", name)
			}
			settings.Platforms = append(settings.Platforms, p)
		}
	}

	// A platform-specific dependency list is only meaningful if stubtest
	// actually runs on that platform.
	for platform, key := range platformDependencyKeys {
		if _, present := data[key]; present && !settings.runsOn(platform) {
			return StubtestSettings{}, schemaErr(dist,
				"stubtest does not run on %s, but %q is specified", platform, key)
		}
	}

	return settings, nil
}

func (s StubtestSettings) runsOn(platform Platform) bool {
	for _, p := range s.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// toolBlock extracts tool.<name> from a raw record as a generic table.
// Missing or malformed blocks yield an empty table; shape violations are
// reported by the metadata loader's tool validation instead.
func toolBlock(raw map[string]any, name string) map[string]any {
	tools, ok := raw["tool"].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	block, ok := tools[name].(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return block
}
