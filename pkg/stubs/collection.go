// Package stubs validates and resolves per-package metadata for a curated
// collection of type-stub distributions.
//
// A collection is a directory with one subdirectory per stub distribution,
// each holding a METADATA.toml record. All derived views (typed metadata,
// stubtest settings, dependency classifications and closures, the published
// name mapping) are immutable values computed on first access and memoized on
// the Collection, so repeated queries never re-read or re-validate a record.
//
// A record either fully validates or its load fails with a SCHEMA_VIOLATION
// error naming the distribution and the offending field; there is no partial
// or best-effort metadata.
package stubs

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/FrancescElies/typeshed/pkg/errors"
	"github.com/FrancescElies/typeshed/pkg/memo"
)

// MetadataFile is the per-distribution record filename.
const MetadataFile = "METADATA.toml"

// Collection provides validated, memoized access to the stub distributions
// under a single root directory.
//
// A Collection is safe for concurrent use. Construct one per package set;
// caches are never invalidated, so a distribution renamed or removed on disk
// after first access keeps its stale derived views until the Collection is
// discarded.
type Collection struct {
	dir string

	metadata *memo.Map[string, Metadata]
	stubtest *memo.Map[string, StubtestSettings]
	deps     *memo.Map[string, PackageDependencies]
	closure  *memo.Map[string, PackageDependencies]
	mapping  memo.Once[map[string]string]
}

// Open returns a Collection rooted at dir (e.g. "stubs").
// No I/O happens until a distribution is queried.
func Open(dir string) *Collection {
	return &Collection{
		dir:      dir,
		metadata: memo.NewMap[string, Metadata](),
		stubtest: memo.NewMap[string, StubtestSettings](),
		deps:     memo.NewMap[string, PackageDependencies](),
		closure:  memo.NewMap[string, PackageDependencies](),
	}
}

// Dir returns the collection root directory.
func (c *Collection) Dir() string { return c.dir }

// Distributions returns the sorted identifiers of all known distributions,
// one per subdirectory of the collection root.
func (c *Collection) Distributions() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read collection root %s", c.dir)
	}
	dists := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dists = append(dists, e.Name())
		}
	}
	return dists, nil
}

// metadataPath returns the record path for a distribution.
func (c *Collection) metadataPath(dist string) string {
	return filepath.Join(c.dir, dist, MetadataFile)
}

// rawMetadata reads and decodes a distribution's record into a generic value
// tree. Validation and conversion into typed records is the callers' job;
// malformed TOML syntax is the decoder's own error, reported as PARSE_ERROR.
func (c *Collection) rawMetadata(dist string) (map[string]any, error) {
	path := c.metadataPath(dist)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no %s for %q", MetadataFile, dist)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid TOML in %s", path)
	}
	return raw, nil
}
