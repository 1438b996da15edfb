package errors

import "regexp"

// distributionNameRegex matches valid PyPI distribution name tokens (PEP 503):
// letters, digits, '.', '_' and '-', neither starting nor ending with a separator.
var distributionNameRegex = regexp.MustCompile(`(?i)^[a-z0-9]([a-z0-9._-]*[a-z0-9])?$`)

// ValidateDistributionName validates a published distribution name token.
func ValidateDistributionName(name string) error {
	if name == "" {
		return New(ErrCodeSchema, "distribution name cannot be empty")
	}

	if !distributionNameRegex.MatchString(name) {
		return New(ErrCodeSchema, "invalid distribution name: %q", name)
	}

	return nil
}

// requirementNameRegex matches valid Python package names (PEP 508).
var requirementNameRegex = regexp.MustCompile(`^([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])$`)

// ValidateRequirementName validates the base name of a requirement per PEP 508.
func ValidateRequirementName(name string) error {
	if name == "" {
		return New(ErrCodeSchema, "requirement name cannot be empty")
	}

	if !requirementNameRegex.MatchString(name) {
		return New(ErrCodeSchema, "invalid requirement name: %q", name)
	}

	return nil
}
