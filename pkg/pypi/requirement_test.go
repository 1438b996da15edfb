package pypi

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FrancescElies/typeshed/pkg/errors"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		raw  string
		want Requirement
	}{
		{
			raw:  "requests",
			want: Requirement{Name: "requests"},
		},
		{
			raw:  "types-docutils>=0.20",
			want: Requirement{Name: "types-docutils", Specifier: ">=0.20"},
		},
		{
			raw:  "cryptography>=35.0.0,<42",
			want: Requirement{Name: "cryptography", Specifier: ">=35.0.0,<42"},
		},
		{
			raw:  "urllib3==1.26.*",
			want: Requirement{Name: "urllib3", Specifier: "==1.26.*"},
		},
		{
			raw:  "foo[bar,baz]>=1.0",
			want: Requirement{Name: "foo", Extras: []string{"bar", "baz"}, Specifier: ">=1.0"},
		},
		{
			raw:  `foo>=1.0;python_version<"3.11"`,
			want: Requirement{Name: "foo", Specifier: ">=1.0", Marker: `python_version<"3.11"`},
		},
		{
			raw:  "foo~=2.1",
			want: Requirement{Name: "foo", Specifier: "~=2.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRequirement(tt.raw)
			if err != nil {
				t.Fatalf("ParseRequirement(%q) failed: %v", tt.raw, err)
			}
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("ParseRequirement(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestParseRequirement_Invalid(t *testing.T) {
	tests := []string{
		"",
		"-foo",
		"foo bar",
		"foo==",
		"foo>=not.a.version!",
		"foo[",
		"foo[]",
		"foo;",
		"foo @ https://example.com/foo.tar.gz",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseRequirement(raw)
			if err == nil {
				t.Fatalf("ParseRequirement(%q) succeeded, want error", raw)
			}
			if !errors.Is(err, errors.ErrCodeSchema) {
				t.Errorf("ParseRequirement(%q) code = %v, want %v", raw, errors.GetCode(err), errors.ErrCodeSchema)
			}
		})
	}
}

func TestRequirementString_RoundTrip(t *testing.T) {
	tests := []string{
		"requests",
		"types-docutils>=0.20",
		"foo[bar,baz]>=1.0,<2.0",
		"urllib3==1.26.*",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			req, err := ParseRequirement(raw)
			if err != nil {
				t.Fatalf("ParseRequirement(%q) failed: %v", raw, err)
			}
			if got := req.String(); got != raw {
				t.Errorf("String() = %q, want %q", got, raw)
			}
		})
	}
}

func TestRequirementString_Normalizes(t *testing.T) {
	// Incidental whitespace between clauses disappears in the canonical form.
	req, err := ParseRequirement("foo>=1.0, <2.0")
	if err != nil {
		t.Fatalf("ParseRequirement failed: %v", err)
	}
	if got := req.String(); got != "foo>=1.0,<2.0" {
		t.Errorf("String() = %q, want %q", got, "foo>=1.0,<2.0")
	}
}

func TestParseStubVersion(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"1.2.3", false},
		{"4.1.*", false},
		{"0.1.0.post1", false},
		{"", true},
		{"not a version", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			_, err := ParseStubVersion(tt.version)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseStubVersion(%q) error = %v, wantErr %v", tt.version, err, tt.wantErr)
			}
		})
	}
}
