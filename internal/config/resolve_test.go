package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestResolveSheet_Precedence(t *testing.T) {
	cfg := &Config{SheetURL: "file-url", SheetName: "FileTab", TargetDomains: "file.com"}

	tests := []struct {
		name  string
		flags SheetFlags
		env   map[string]string
		want  SheetSettings
	}{
		{
			name: "config file only",
			want: SheetSettings{URL: "file-url", SheetName: "FileTab", TargetDomains: []string{"file.com"}},
		},
		{
			name: "env over file",
			env:  map[string]string{EnvSheetURL: "env-url", EnvTargetDomains: "a.com, b.com", EnvAssumeYes: "1"},
			want: SheetSettings{URL: "env-url", SheetName: "FileTab", TargetDomains: []string{"a.com", "b.com"}, AssumeYes: true},
		},
		{
			name:  "flags over env",
			flags: SheetFlags{URL: "flag-url", SheetName: "FlagTab", TargetDomains: "flag.com", AssumeYes: boolPtr(true)},
			env:   map[string]string{EnvSheetURL: "env-url", EnvSheetName: "EnvTab"},
			want:  SheetSettings{URL: "flag-url", SheetName: "FlagTab", TargetDomains: []string{"flag.com"}, AssumeYes: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSheet(tt.flags, envMap(tt.env), cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ResolveSheet mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func TestResolveSheet_AssumeYesPrecedence(t *testing.T) {
	tests := []struct {
		name string
		flag *bool
		env  string
		file bool
		want bool
	}{
		{name: "file only", file: true, want: true},
		{name: "env false overrides file", env: "0", file: true, want: false},
		{name: "unparseable env falls through to file", env: "maybe", file: true, want: true},
		{name: "flag false overrides env and file", flag: boolPtr(false), env: "1", file: true, want: false},
		{name: "flag true", flag: boolPtr(true), want: true},
		{name: "nothing set", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSheet(
				SheetFlags{URL: "u", AssumeYes: tt.flag},
				envMap(map[string]string{EnvAssumeYes: tt.env}),
				&Config{AssumeYes: tt.file},
			)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.AssumeYes != tt.want {
				t.Errorf("AssumeYes = %v, want %v", got.AssumeYes, tt.want)
			}
		})
	}
}

func TestResolveSheet_Defaults(t *testing.T) {
	got, err := ResolveSheet(SheetFlags{URL: "u"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := SheetSettings{URL: "u", SheetName: DefaultSheetName}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveSheet mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSheet_MissingURL(t *testing.T) {
	_, err := ResolveSheet(SheetFlags{}, envMap(map[string]string{EnvSheetURL: "   "}), &Config{})
	if !errors.Is(err, ErrMissingSheetURL) {
		t.Fatalf("expected ErrMissingSheetURL, got %v", err)
	}
}

func TestResolveLogFormat(t *testing.T) {
	cfg := &Config{LogFormat: "text"}
	if got := ResolveLogFormat("", nil, cfg); got != "text" {
		t.Errorf("file value: got %q", got)
	}
	if got := ResolveLogFormat("", envMap(map[string]string{EnvLogFormat: "json"}), cfg); got != "json" {
		t.Errorf("env value: got %q", got)
	}
	if got := ResolveLogFormat("human", envMap(map[string]string{EnvLogFormat: "json"}), cfg); got != "human" {
		t.Errorf("flag value: got %q", got)
	}
}

func TestEnvBool(t *testing.T) {
	for v, want := range map[string]bool{"1": true, "true": true, " TRUE ": true, "0": false, "": false, "yes": false} {
		if got := EnvBool(v); got != want {
			t.Errorf("EnvBool(%q) = %v, want %v", v, got, want)
		}
	}
}
