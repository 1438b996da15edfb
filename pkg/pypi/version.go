package pypi

import (
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
)

// ParseVersion validates s as a PEP 440 version string.
func ParseVersion(s string) (pep440.Version, error) {
	return pep440.Parse(s)
}

// ParseStubVersion validates the version field of a metadata record.
// Stub versions may carry a trailing ".*" wildcard ("4.1.*" pins the stubs to
// any 4.1.x release of the upstream package); the wildcard is stripped before
// validation.
func ParseStubVersion(s string) (pep440.Version, error) {
	return pep440.Parse(strings.TrimSuffix(s, ".*"))
}
