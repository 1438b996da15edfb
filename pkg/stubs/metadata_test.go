package stubs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FrancescElies/typeshed/pkg/errors"
)

// writeStub creates root/dist/METADATA.toml with the given content.
func writeStub(t *testing.T, root, dist, content string) {
	t.Helper()
	dir := filepath.Join(root, dist)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMetadata_FullRecord(t *testing.T) {
	root := t.TempDir()
	writeStub(t, root, "caldav", `
version = "1.3.*"
requires = ["types-requests", "vobject>=0.9.6"]
extra_description = "Stubs for the caldav client library."
stub_distribution = "types-caldav"
obsolete_since = "2.0.0"
no_longer_updated = true
upload = false

[tool.stubtest]
skip = true
`)

	meta, err := Open(root).Metadata("caldav")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}

	want := Metadata{
		Distribution:     "caldav",
		Version:          "1.3.*",
		Requires:         []string{"types-requests", "vobject>=0.9.6"},
		ExtraDescription: "Stubs for the caldav client library.",
		StubDistribution: "types-caldav",
		ObsoleteSince:    "2.0.0",
		NoLongerUpdated:  true,
		UploadedToPyPI:   false,
		Stubtest: StubtestSettings{
			Skipped:   true,
			Platforms: []Platform{PlatformLinux},
		},
	}
	if diff := cmp.Diff(want, meta); diff != "" {
		t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
	}

	if !meta.IsObsolete() {
		t.Error("IsObsolete() = false, want true")
	}
}

func TestMetadata_Defaults(t *testing.T) {
	root := t.TempDir()
	writeStub(t, root, "six", `version = "1.16.0"`)

	meta, err := Open(root).Metadata("six")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}

	if meta.StubDistribution != "types-six" {
		t.Errorf("StubDistribution = %q, want %q", meta.StubDistribution, "types-six")
	}
	if !meta.UploadedToPyPI {
		t.Error("UploadedToPyPI = false, want true (default)")
	}
	if meta.NoLongerUpdated {
		t.Error("NoLongerUpdated = true, want false (default)")
	}
	if len(meta.Requires) != 0 {
		t.Errorf("Requires = %v, want empty", meta.Requires)
	}
	if meta.IsObsolete() {
		t.Error("IsObsolete() = true, want false")
	}
}

func TestMetadata_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeStub(t, root, "six", `version = "1.16.0"`)

	col := Open(root)
	first, err := col.Metadata("six")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}

	// Rewriting the record on disk must not be observed: the first load is
	// cached for the lifetime of the Collection.
	writeStub(t, root, "six", `version = "9.9.9"`)

	second, err := col.Metadata("six")
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeat load differs (-first +second):\n%s", diff)
	}
	if second.Version != "1.16.0" {
		t.Errorf("Version = %q, want cached %q", second.Version, "1.16.0")
	}
}

func TestMetadata_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown top-level field",
			content: "version = \"1.0\"\nrequirements = []\n",
		},
		{
			name:    "missing version",
			content: `requires = []`,
		},
		{
			name:    "version not a string",
			content: `version = 1.0`,
		},
		{
			name:    "version fails to parse",
			content: `version = "one point oh"`,
		},
		{
			name:    "requires not a list",
			content: "version = \"1.0\"\nrequires = \"types-six\"\n",
		},
		{
			name:    "requirement not a string",
			content: "version = \"1.0\"\nrequires = [1]\n",
		},
		{
			name:    "requirement contains whitespace",
			content: "version = \"1.0\"\nrequires = [\"types-six >=1.16\"]\n",
		},
		{
			name:    "requirement fails to parse",
			content: "version = \"1.0\"\nrequires = [\"types-six==\"]\n",
		},
		{
			name:    "extra_description not a string",
			content: "version = \"1.0\"\nextra_description = 3\n",
		},
		{
			name:    "obsolete_since not a string",
			content: "version = \"1.0\"\nobsolete_since = true\n",
		},
		{
			name:    "stub_distribution not a string",
			content: "version = \"1.0\"\nstub_distribution = 5\n",
		},
		{
			name:    "stub_distribution invalid token",
			content: "version = \"1.0\"\nstub_distribution = \"-types-six-\"\n",
		},
		{
			name:    "no_longer_updated not a bool",
			content: "version = \"1.0\"\nno_longer_updated = \"yes\"\n",
		},
		{
			name:    "upload not a bool",
			content: "version = \"1.0\"\nupload = \"yes\"\n",
		},
		{
			name:    "unrecognized tool",
			content: "version = \"1.0\"\n\n[tool.pytest]\naddopts = \"-q\"\n",
		},
		{
			name:    "unrecognized stubtest key",
			content: "version = \"1.0\"\n\n[tool.stubtest]\nskipped = true\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeStub(t, root, "pkg", tt.content)

			_, err := Open(root).Metadata("pkg")
			if err == nil {
				t.Fatal("Metadata succeeded, want schema violation")
			}
			if !errors.Is(err, errors.ErrCodeSchema) {
				t.Errorf("code = %v, want %v (err: %v)", errors.GetCode(err), errors.ErrCodeSchema, err)
			}
		})
	}
}

func TestMetadata_MissingRecord(t *testing.T) {
	_, err := Open(t.TempDir()).Metadata("ghost")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("code = %v, want %v (err: %v)", errors.GetCode(err), errors.ErrCodeNotFound, err)
	}
}

func TestMetadata_MalformedTOML(t *testing.T) {
	root := t.TempDir()
	writeStub(t, root, "pkg", `version = `)

	_, err := Open(root).Metadata("pkg")
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("code = %v, want %v (err: %v)", errors.GetCode(err), errors.ErrCodeParse, err)
	}
}

func TestDistributions(t *testing.T) {
	root := t.TempDir()
	writeStub(t, root, "b-pkg", `version = "1.0"`)
	writeStub(t, root, "a-pkg", `version = "1.0"`)
	// Stray files in the root are not distributions.
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	dists, err := Open(root).Distributions()
	if err != nil {
		t.Fatalf("Distributions failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a-pkg", "b-pkg"}, dists); diff != "" {
		t.Errorf("Distributions mismatch (-want +got):\n%s", diff)
	}
}
