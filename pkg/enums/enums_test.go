package enums

import "testing"

func TestParseAppEnv(t *testing.T) {
	cases := map[string]AppEnv{
		"development": AppEnvDevelopment,
		" Dev ":       AppEnvDevelopment,
		"PROD":        AppEnvProduction,
		"production":  AppEnvProduction,
	}
	for input, want := range cases {
		got, err := ParseAppEnv(input)
		if err != nil {
			t.Fatalf("ParseAppEnv(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseAppEnv(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := ParseAppEnv("staging"); err == nil {
		t.Fatalf("expected error for unknown env")
	}
}

func TestParseLogFormat(t *testing.T) {
	if got, err := ParseLogFormat("console"); err != nil || got != LogFormatConsole {
		t.Fatalf("unexpected result %q %v", got, err)
	}
	if _, err := ParseLogFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := ParseLogFormat("JSON"); err == nil {
		t.Fatalf("expected log format matching to be case sensitive")
	}
}
