package stubs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/FrancescElies/typeshed/pkg/errors"
	"github.com/FrancescElies/typeshed/pkg/pypi"
)

// knownMetadataFields is the allowlist of top-level record fields. Any other
// key fails validation.
var knownMetadataFields = map[string]bool{
	"version":           true,
	"requires":          true,
	"extra_description": true,
	"stub_distribution": true,
	"obsolete_since":    true,
	"no_longer_updated": true,
	"upload":            true,
	"tool":              true,
}

// knownToolFields maps recognized tool names to their allowed setting keys.
var knownToolFields = map[string]map[string]bool{
	"stubtest": {
		"skip":                  true,
		"apt_dependencies":      true,
		"brew_dependencies":     true,
		"choco_dependencies":    true,
		"extras":                true,
		"ignore_missing_stub":   true,
		"platforms":             true,
		"stubtest_requirements": true,
	},
}

// Metadata is the validated record of a single stub distribution.
//
// Don't construct instances directly; use [Collection.Metadata]. The value is
// never mutated after construction.
type Metadata struct {
	Distribution     string           // internal collection identifier
	Version          string           // upstream version, may end in a ".*" wildcard
	Requires         []string         // raw requirement strings, declaration order
	ExtraDescription string           // optional free text for the published README
	StubDistribution string           // name under which the stubs are published
	ObsoleteSince    string           // upstream version that ships its own types, if any
	NoLongerUpdated  bool             // stubs are frozen and no longer maintained
	UploadedToPyPI   bool             // whether the distribution is published at all
	Stubtest         StubtestSettings // nested tool.stubtest settings
}

// IsObsolete reports whether the upstream package ships its own types.
func (m Metadata) IsObsolete() bool { return m.ObsoleteSince != "" }

// Metadata returns the validated record for a distribution.
//
// The record is validated in full on first access and memoized; repeat calls
// return the cached value without re-reading the file. Validation does no
// transformation beyond filling defaults (stub_distribution, upload): the
// requires entries in particular stay exactly as written.
func (c *Collection) Metadata(dist string) (Metadata, error) {
	return c.metadata.Do(dist, func() (Metadata, error) {
		return c.loadMetadata(dist)
	})
}

func (c *Collection) loadMetadata(dist string) (Metadata, error) {
	raw, err := c.rawMetadata(dist)
	if err != nil {
		return Metadata{}, err
	}

	if unknown := unknownKeys(raw, knownMetadataFields); len(unknown) > 0 {
		return Metadata{}, schemaErr(dist, "unexpected fields %s", strings.Join(unknown, ", "))
	}

	meta := Metadata{
		Distribution:     dist,
		StubDistribution: "types-" + dist,
		UploadedToPyPI:   true,
	}

	v, ok := raw["version"]
	if !ok {
		return Metadata{}, schemaErr(dist, "missing required field %q", "version")
	}
	version, ok := v.(string)
	if !ok {
		return Metadata{}, schemaErr(dist, "field %q must be a string, got %T", "version", v)
	}
	if _, err := pypi.ParseStubVersion(version); err != nil {
		return Metadata{}, schemaErr(dist, "invalid version %q: %v", version, err)
	}
	meta.Version = version

	if v, ok := raw["requires"]; ok {
		items, ok := v.([]any)
		if !ok {
			return Metadata{}, schemaErr(dist, "field %q must be a list, got %T", "requires", v)
		}
		for _, item := range items {
			req, ok := item.(string)
			if !ok {
				return Metadata{}, schemaErr(dist, "invalid requirement %v: not a string", item)
			}
			if strings.ContainsAny(req, " \t\n") {
				return Metadata{}, schemaErr(dist, "requirement %q must not contain whitespace", req)
			}
			if _, err := pypi.ParseRequirement(req); err != nil {
				return Metadata{}, schemaErr(dist, "invalid requirement %q: %v", req, err)
			}
			meta.Requires = append(meta.Requires, req)
		}
	}

	if meta.ExtraDescription, err = optionalString(raw, "extra_description", dist); err != nil {
		return Metadata{}, err
	}
	if meta.ObsoleteSince, err = optionalString(raw, "obsolete_since", dist); err != nil {
		return Metadata{}, err
	}

	if v, ok := raw["stub_distribution"]; ok {
		name, ok := v.(string)
		if !ok {
			return Metadata{}, schemaErr(dist, "field %q must be a string, got %T", "stub_distribution", v)
		}
		if err := errors.ValidateDistributionName(name); err != nil {
			return Metadata{}, schemaErr(dist, "invalid %q value %q", "stub_distribution", name)
		}
		meta.StubDistribution = name
	}

	if meta.NoLongerUpdated, err = optionalBool(raw, "no_longer_updated", false, dist); err != nil {
		return Metadata{}, err
	}
	if meta.UploadedToPyPI, err = optionalBool(raw, "upload", true, dist); err != nil {
		return Metadata{}, err
	}

	if err := validateToolBlock(raw, dist); err != nil {
		return Metadata{}, err
	}

	if meta.Stubtest, err = c.StubtestSettings(dist); err != nil {
		return Metadata{}, err
	}

	return meta, nil
}

// validateToolBlock checks that the tool table only references recognized
// tools and that each recognized tool's settings only use known keys.
// The stubtest loader does the per-field validation of its own block.
func validateToolBlock(raw map[string]any, dist string) error {
	v, ok := raw["tool"]
	if !ok {
		return nil
	}
	tools, ok := v.(map[string]any)
	if !ok {
		return schemaErr(dist, "field %q must be a table, got %T", "tool", v)
	}
	for name := range tools {
		if _, known := knownToolFields[name]; !known {
			return schemaErr(dist, "unrecognized tool %q", name)
		}
	}
	for name, allowed := range knownToolFields {
		settings, ok := tools[name]
		if !ok {
			continue
		}
		table, ok := settings.(map[string]any)
		if !ok {
			return schemaErr(dist, "tool.%s must be a table, got %T", name, settings)
		}
		if unknown := unknownKeys(table, allowed); len(unknown) > 0 {
			return schemaErr(dist, "unrecognized %s keys %s", name, strings.Join(unknown, ", "))
		}
	}
	return nil
}

// schemaErr builds a SCHEMA_VIOLATION error prefixed with the distribution.
func schemaErr(dist, format string, args ...any) error {
	return errors.New(errors.ErrCodeSchema, "metadata for %q: %s", dist, fmt.Sprintf(format, args...))
}

// unknownKeys returns the sorted keys of raw that are absent from allowed.
func unknownKeys(raw map[string]any, allowed map[string]bool) []string {
	var unknown []string
	for k := range raw {
		if !allowed[k] {
			unknown = append(unknown, fmt.Sprintf("%q", k))
		}
	}
	slices.Sort(unknown)
	return unknown
}

func optionalString(raw map[string]any, key, dist string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", schemaErr(dist, "field %q must be a string, got %T", key, v)
	}
	return s, nil
}

func optionalBool(raw map[string]any, key string, def bool, dist string) (bool, error) {
	v, ok := raw[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, schemaErr(dist, "field %q must be a boolean, got %T", key, v)
	}
	return b, nil
}

// stringList converts a decoded TOML value into a list of strings.
func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}
