package stubs

import (
	"maps"
	"slices"
	"strings"

	"github.com/FrancescElies/typeshed/pkg/errors"
	"github.com/FrancescElies/typeshed/pkg/pypi"
)

// PackageDependencies splits a distribution's dependencies into the ones
// resolved inside the collection and the external rest.
type PackageDependencies struct {
	Typeshed []string // internal distribution identifiers
	External []string // canonical requirement strings for everything else
}

// DistributionMapping returns the lookup from published distribution name to
// internal identifier, built once per Collection by loading every record.
//
// Two distributions claiming the same published name fail with a
// SCHEMA_VIOLATION; the mapping is otherwise immutable until the Collection
// is discarded. Callers must not mutate the returned map.
func (c *Collection) DistributionMapping() (map[string]string, error) {
	return c.mapping.Do(func() (map[string]string, error) {
		dists, err := c.Distributions()
		if err != nil {
			return nil, err
		}
		mapping := make(map[string]string, len(dists))
		for _, dist := range dists {
			meta, err := c.Metadata(dist)
			if err != nil {
				return nil, err
			}
			if prev, taken := mapping[meta.StubDistribution]; taken {
				return nil, errors.New(errors.ErrCodeSchema,
					"distributions %q and %q both publish as %q", prev, dist, meta.StubDistribution)
			}
			mapping[meta.StubDistribution] = dist
		}
		return mapping, nil
	})
}

// Dependencies classifies the declared requirements of a distribution.
//
// Each requires entry is classified in declaration order: a requirement whose
// base name is a known published name maps to that distribution's internal
// identifier; anything else is kept as a canonical external requirement
// string. A stub removed from the collection therefore degrades to an
// external dependency instead of failing. Memoized per distribution.
func (c *Collection) Dependencies(dist string) (PackageDependencies, error) {
	return c.deps.Do(dist, func() (PackageDependencies, error) {
		meta, err := c.Metadata(dist)
		if err != nil {
			return PackageDependencies{}, err
		}
		mapping, err := c.DistributionMapping()
		if err != nil {
			return PackageDependencies{}, err
		}

		var deps PackageDependencies
		for _, raw := range meta.Requires {
			req, err := pypi.ParseRequirement(raw)
			if err != nil {
				return PackageDependencies{}, errors.Wrap(errors.ErrCodeSchema, err,
					"metadata for %q: requirement %q", dist, raw)
			}
			if internal, ok := mapping[req.Name]; ok {
				deps.Typeshed = append(deps.Typeshed, internal)
			} else {
				deps.External = append(deps.External, req.String())
			}
		}
		return deps, nil
	})
}

// RecursiveDependencies resolves the transitive dependency closure of a
// distribution: every internal and external dependency reachable through the
// chain of internal dependencies, deduplicated and sorted. Memoized per
// distribution.
//
// Internal dependency declarations are expected to be acyclic; a cycle fails
// with DEPENDENCY_CYCLE naming the offending chain rather than recursing
// without bound.
func (c *Collection) RecursiveDependencies(dist string) (PackageDependencies, error) {
	return c.resolveClosure(dist, []string{dist})
}

func (c *Collection) resolveClosure(dist string, ancestors []string) (PackageDependencies, error) {
	return c.closure.Do(dist, func() (PackageDependencies, error) {
		direct, err := c.Dependencies(dist)
		if err != nil {
			return PackageDependencies{}, err
		}

		internal := make(map[string]struct{}, len(direct.Typeshed))
		external := make(map[string]struct{}, len(direct.External))
		for _, pkg := range direct.Typeshed {
			internal[pkg] = struct{}{}
		}
		for _, req := range direct.External {
			external[req] = struct{}{}
		}

		for _, pkg := range direct.Typeshed {
			if slices.Contains(ancestors, pkg) {
				return PackageDependencies{}, errors.New(errors.ErrCodeCycle,
					"cyclic dependency: %s", strings.Join(append(slices.Clone(ancestors), pkg), " -> "))
			}
			sub, err := c.resolveClosure(pkg, append(slices.Clone(ancestors), pkg))
			if err != nil {
				return PackageDependencies{}, err
			}
			for _, p := range sub.Typeshed {
				internal[p] = struct{}{}
			}
			for _, r := range sub.External {
				external[r] = struct{}{}
			}
		}

		return PackageDependencies{
			Typeshed: slices.Sorted(maps.Keys(internal)),
			External: slices.Sorted(maps.Keys(external)),
		}, nil
	})
}
