package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initTestCLI struct {
	Verbose bool     `help:"Enable verbose output"`
	Output  string   `help:"Output file"`
	Count   int      `help:"Number of items"`
	Tags    []string `help:"Tags"`
	Secret  string   `help:"Hidden"                hidden:""`
}

func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initTestCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx := initContext(t, confPath, "--output=out.lc", "--count=5")

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				content, _ := os.ReadFile(confPath)
				if string(content) != "existing: true\n" {
					t.Errorf("existing file modified: %q", content)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("generated config is not YAML: %v\n%s", err, content)
			}

			if got["output"] != "out.lc" {
				t.Errorf("output = %v, want out.lc", got["output"])
			}

			if fmt.Sprint(got["count"]) != "5" {
				t.Errorf("count = %#v, want 5", got["count"])
			}

			if got["verbose"] != false {
				t.Errorf("verbose = %v, want false", got["verbose"])
			}

			for _, key := range []string{"help", "secret", "tags"} {
				if _, ok := got[key]; ok {
					t.Errorf("config should not contain %q", key)
				}
			}
		})
	}
}

func TestInitBuildConfigOrder(t *testing.T) {
	ctx := initContext(t, "unused", "--tags=a", "--tags=b", "--verbose")

	config := (&Init{}).buildConfig(ctx)

	var keys []string
	for _, item := range config {
		keys = append(keys, item.Key.(string))
	}

	want := []string{"verbose", "count", "tags"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys = %v, want %v", keys, want)

			break
		}
	}
}

func TestInitWithInvalidPath(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "missing", "config.yaml")

	err := (&Init{}).Run(initContext(t, confPath))
	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Init.Run() error = %v, want ErrWriteConfig wrapping ErrNotExist", err)
	}
}
