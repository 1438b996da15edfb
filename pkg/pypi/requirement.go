// Package pypi parses the subset of PEP 508 requirement strings and PEP 440
// version strings that appear in METADATA.toml records.
//
// A Requirement round-trips through String() to a canonical form: extras and
// specifier clauses keep their declared order but lose any incidental
// whitespace, so two spellings of the same requirement compare equal after a
// parse/serialize cycle.
package pypi

import (
	"regexp"
	"strings"

	"github.com/FrancescElies/typeshed/pkg/errors"
)

// specifierClauseRegex matches a single version specifier clause,
// e.g. ">=2.28.0" or "!=1.4.*".
var specifierClauseRegex = regexp.MustCompile(`^(===|==|!=|<=|>=|~=|<|>)(.+)$`)

// Requirement is a parsed dependency declaration.
type Requirement struct {
	Name      string   // base package name, as written
	Extras    []string // optional feature names from the [extra,...] suffix
	Specifier string   // normalized version constraints, comma separated
	Marker    string   // environment marker after ';', verbatim
}

// ParseRequirement parses a PEP 508 requirement string.
//
// Supported shapes: "name", "name[extra1,extra2]", "name>=1.0,<2.0" and any
// combination, optionally followed by "; marker". URL requirements
// (name @ url) are not used in stub metadata and are rejected.
func ParseRequirement(raw string) (*Requirement, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, errors.New(errors.ErrCodeSchema, "empty requirement")
	}
	if strings.Contains(s, "@") {
		return nil, errors.New(errors.ErrCodeSchema, "URL requirement not supported: %q", raw)
	}

	req := &Requirement{}

	if i := strings.Index(s, ";"); i >= 0 {
		req.Marker = strings.TrimSpace(s[i+1:])
		if req.Marker == "" {
			return nil, errors.New(errors.ErrCodeSchema, "empty environment marker in %q", raw)
		}
		s = strings.TrimSpace(s[:i])
	}

	spec := ""
	if j := strings.Index(s, "["); j >= 0 {
		k := strings.Index(s, "]")
		if k < j {
			return nil, errors.New(errors.ErrCodeSchema, "unterminated extras in %q", raw)
		}
		extras, err := parseExtras(s[j+1:k], raw)
		if err != nil {
			return nil, err
		}
		req.Name = s[:j]
		req.Extras = extras
		spec = strings.TrimSpace(s[k+1:])
	} else if j := strings.IndexAny(s, "<>=!~"); j >= 0 {
		req.Name = s[:j]
		spec = s[j:]
	} else {
		req.Name = s
	}

	if err := errors.ValidateRequirementName(req.Name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSchema, err, "invalid requirement %q", raw)
	}

	if spec != "" {
		normalized, err := parseSpecifier(spec, raw)
		if err != nil {
			return nil, err
		}
		req.Specifier = normalized
	}

	return req, nil
}

// String returns the canonical form of the requirement.
func (r *Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	if len(r.Extras) > 0 {
		b.WriteString("[")
		b.WriteString(strings.Join(r.Extras, ","))
		b.WriteString("]")
	}
	b.WriteString(r.Specifier)
	if r.Marker != "" {
		b.WriteString("; ")
		b.WriteString(r.Marker)
	}
	return b.String()
}

func parseExtras(list, raw string) ([]string, error) {
	var extras []string
	for _, e := range strings.Split(list, ",") {
		e = strings.TrimSpace(e)
		if err := errors.ValidateRequirementName(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "invalid extra in %q", raw)
		}
		extras = append(extras, e)
	}
	return extras, nil
}

func parseSpecifier(spec, raw string) (string, error) {
	clauses := strings.Split(spec, ",")
	for i, clause := range clauses {
		clause = strings.TrimSpace(clause)
		m := specifierClauseRegex.FindStringSubmatch(clause)
		if m == nil {
			return "", errors.New(errors.ErrCodeSchema, "invalid version specifier %q in %q", clause, raw)
		}
		op, ver := m[1], m[2]
		// Arbitrary equality (===) accepts any version token; wildcard
		// suffixes are only meaningful for == and !=.
		if op != "===" {
			candidate := ver
			if op == "==" || op == "!=" {
				candidate = strings.TrimSuffix(candidate, ".*")
			}
			if _, err := ParseVersion(candidate); err != nil {
				return "", errors.Wrap(errors.ErrCodeSchema, err, "invalid version %q in %q", ver, raw)
			}
		}
		clauses[i] = op + ver
	}
	return strings.Join(clauses, ","), nil
}
