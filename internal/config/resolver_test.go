package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolver_Value_PropertyWinsOverEnvironment(t *testing.T) {
	t.Setenv("DECANT_TEST_KEY", "from-env")

	r := NewResolver(map[string]string{"DECANT_TEST_KEY": "from-property"}, nil)

	if got := r.Value("DECANT_TEST_KEY"); got != "from-property" {
		t.Errorf("Value() = %q, want %q", got, "from-property")
	}
}

func TestResolver_Value_FallsBackToEnvironment(t *testing.T) {
	t.Setenv("DECANT_TEST_KEY", "from-env")

	r := NewResolver(nil, nil)

	if got := r.Value("DECANT_TEST_KEY"); got != "from-env" {
		t.Errorf("Value() = %q, want %q", got, "from-env")
	}
}

func TestResolver_Value_DefaultsToEmpty(t *testing.T) {
	if err := os.Unsetenv("DECANT_TEST_MISSING"); err != nil {
		t.Fatalf("Failed to unset env: %v", err)
	}

	r := NewResolver(nil, nil)

	if got := r.Value("DECANT_TEST_MISSING"); got != "" {
		t.Errorf("Value() = %q, want empty string", got)
	}
}

func TestResolver_Value_EmptyPropertyStaysEmpty(t *testing.T) {
	t.Setenv("DECANT_TEST_KEY", "from-env")

	// A property set to "" must shadow the environment variable
	r := NewResolver(map[string]string{"DECANT_TEST_KEY": ""}, nil)

	if got := r.Value("DECANT_TEST_KEY"); got != "" {
		t.Errorf("Value() = %q, want empty string", got)
	}
}

// The existence check is asymmetric on purpose: properties count when set
// to anything, environment variables only when non-empty.
func TestResolver_Has_Asymmetry(t *testing.T) {
	tests := []struct {
		name     string
		props    map[string]string
		envValue string
		setEnv   bool
		want     bool
	}{
		{
			name:  "property set to value",
			props: map[string]string{"signBuild": "true"},
			want:  true,
		},
		{
			name:  "property set to empty string",
			props: map[string]string{"signBuild": ""},
			want:  true,
		},
		{
			name:     "env set non-empty",
			envValue: "1",
			setEnv:   true,
			want:     true,
		},
		{
			name:     "env set but empty",
			envValue: "",
			setEnv:   true,
			want:     false,
		},
		{
			name: "neither set",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv("signBuild", tt.envValue)
			} else if err := os.Unsetenv("signBuild"); err != nil {
				t.Fatalf("Failed to unset env: %v", err)
			}

			r := NewResolver(tt.props, nil)

			if got := r.Has("signBuild"); got != tt.want {
				t.Errorf("Has(signBuild) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMask_SensitiveKeys(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"GITHUB_TOKEN", "ghp_abc123", "********"},
		{"signPasswordKotlin", "hunter2", "********"},
		{"signSecretRingFileKotlin", "ring-content", "********"},
		{"GITHUB_ACTOR", "octocat", "octocat"},
		{"testRepository", "build/repo", "build/repo"},
		{"GITHUB_TOKEN", "", ""},
	}

	for _, tt := range tests {
		if got := Mask(tt.key, tt.value); got != tt.want {
			t.Errorf("Mask(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}

func TestLoadProperties(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decant.properties")

	content := `# publish configuration
signBuild=true
testRepository = build/test-repo

! legacy comment style
GITHUB_ACTOR=octocat
empty=
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write properties file: %v", err)
	}

	props, err := LoadProperties(path)
	if err != nil {
		t.Fatalf("LoadProperties() error: %v", err)
	}

	want := map[string]string{
		"signBuild":      "true",
		"testRepository": "build/test-repo",
		"GITHUB_ACTOR":   "octocat",
		"empty":          "",
	}
	for k, v := range want {
		if props[k] != v {
			t.Errorf("props[%q] = %q, want %q", k, props[k], v)
		}
	}
	if len(props) != len(want) {
		t.Errorf("len(props) = %d, want %d", len(props), len(want))
	}
}

func TestLoadProperties_MissingFileIsEmpty(t *testing.T) {
	props, err := LoadProperties(filepath.Join(t.TempDir(), "nope.properties"))
	if err != nil {
		t.Fatalf("LoadProperties() error for missing file: %v", err)
	}
	if len(props) != 0 {
		t.Errorf("Expected empty map for missing file, got %v", props)
	}
}

func TestLoadProperties_InvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.properties")
	if err := os.WriteFile(path, []byte("no-equals-sign\n"), 0600); err != nil {
		t.Fatalf("Failed to write properties file: %v", err)
	}

	_, err := LoadProperties(path)
	if err == nil {
		t.Fatal("Expected error for line without '=', got nil")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("Error should name the line, got: %v", err)
	}
}

func TestMergeProperties_LaterWins(t *testing.T) {
	merged := MergeProperties(
		map[string]string{"a": "1", "b": "1"},
		map[string]string{"b": "2", "c": "2"},
	)

	if merged["a"] != "1" || merged["b"] != "2" || merged["c"] != "2" {
		t.Errorf("MergeProperties() = %v", merged)
	}
}
