package main

import (
	"os"
	"path/filepath"
	"testing"
)

// resetFlags restores global flag state after each test.
func resetFlags(t *testing.T) {
	t.Helper()
	orig := struct{ url, key, fmt string }{flagURL, flagKey, flagFmt}
	t.Cleanup(func() {
		flagURL = orig.url
		flagKey = orig.key
		flagFmt = orig.fmt
	})
}

// unsetEnv temporarily unsets an environment variable and restores it on cleanup.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, exists := os.LookupEnv(key)
	os.Unsetenv(key)
	t.Cleanup(func() {
		if exists {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

// setEnv temporarily sets an environment variable and restores it on cleanup.
func setEnv(t *testing.T, key, val string) {
	t.Helper()
	prev, exists := os.LookupEnv(key)
	os.Setenv(key, val)
	t.Cleanup(func() {
		if exists {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

// TestResolveConfigEnvURL verifies that CORECRM_URL overrides the default URL.
func TestResolveConfigEnvURL(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "CORECRM_API_KEY")
	setEnv(t, "CORECRM_URL", "http://env-server:9090")

	// Point HOME at a temp dir so there's no config file to interfere.
	tmp := t.TempDir()
	setEnv(t, "HOME", tmp)

	flagURL = defaultServerURL
	flagKey = ""
	resolveConfig()

	if flagURL != "http://env-server:9090" {
		t.Errorf("flagURL = %q, want env value", flagURL)
	}
}

// TestResolveConfigFlagWins verifies an explicit flag beats env and file.
func TestResolveConfigFlagWins(t *testing.T) {
	resetFlags(t)
	setEnv(t, "CORECRM_URL", "http://env-server:9090")
	unsetEnv(t, "CORECRM_API_KEY")
	setEnv(t, "HOME", t.TempDir())

	flagURL = "http://flag-server:7070"
	flagKey = ""
	resolveConfig()

	if flagURL != "http://flag-server:7070" {
		t.Errorf("flagURL = %q, explicit flag should win", flagURL)
	}
}

// TestResolveConfigProfileFile verifies the active profile is read from
// ~/.corecrm/config.yaml when flags and env are unset.
func TestResolveConfigProfileFile(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "CORECRM_URL")
	unsetEnv(t, "CORECRM_API_KEY")

	tmp := t.TempDir()
	setEnv(t, "HOME", tmp)

	dir := filepath.Join(tmp, ".corecrm")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	cfg := `
profiles:
  default:
    url: http://file-server:8080
    api_key: file-key
  staging:
    url: http://staging:8081
    api_key: staging-key
active_profile: staging
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	flagURL = defaultServerURL
	flagKey = ""
	resolveConfig()

	if flagURL != "http://staging:8081" {
		t.Errorf("flagURL = %q, want active profile URL", flagURL)
	}
	if flagKey != "staging-key" {
		t.Errorf("flagKey = %q, want active profile key", flagKey)
	}
}

// TestWriteConfigRoundtrip verifies init writes a loadable profile file.
func TestWriteConfigRoundtrip(t *testing.T) {
	resetFlags(t)
	unsetEnv(t, "CORECRM_URL")
	unsetEnv(t, "CORECRM_API_KEY")

	tmp := t.TempDir()
	setEnv(t, "HOME", tmp)

	path, err := writeConfig("http://written:1234", "written-key")
	if err != nil {
		t.Fatalf("writeConfig: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	flagURL = defaultServerURL
	flagKey = ""
	resolveConfig()

	if flagURL != "http://written:1234" || flagKey != "written-key" {
		t.Errorf("resolved url=%q key=%q", flagURL, flagKey)
	}
}
