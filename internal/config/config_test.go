package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	if err != nil {
		t.Fatalf("missing config file must not be an error: %v", err)
	}
	if cfg.AWS.Region != "us-east-1" {
		t.Errorf("unexpected default region: %s", cfg.AWS.Region)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Debug.Addr != "" {
		t.Errorf("debug listener must be disabled by default: %q", cfg.Debug.Addr)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
aws:
  access_key_id: AKIAFILE
  secret_access_key: filesecret
  region: eu-west-1
  endpoint_url: http://localhost:9000
  use_path_style: true
logging:
  level: debug
  format: json
debug:
  addr: 127.0.0.1:9090
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AWS.AccessKeyID != "AKIAFILE" || cfg.AWS.SecretAccessKey != "filesecret" {
		t.Errorf("credentials not loaded: %+v", cfg.AWS)
	}
	if cfg.AWS.Region != "eu-west-1" {
		t.Errorf("unexpected region: %s", cfg.AWS.Region)
	}
	if cfg.AWS.EndpointURL != "http://localhost:9000" || !cfg.AWS.UsePathStyle {
		t.Errorf("endpoint settings not loaded: %+v", cfg.AWS)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging settings not loaded: %+v", cfg.Logging)
	}
	if cfg.Debug.Addr != "127.0.0.1:9090" {
		t.Errorf("debug addr not loaded: %q", cfg.Debug.Addr)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
aws:
  access_key_id: AKIAFILE
  secret_access_key: filesecret
  region: eu-west-1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAENV")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "envsecret")
	t.Setenv("AWS_REGION", "ap-southeast-2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AWS.AccessKeyID != "AKIAENV" {
		t.Errorf("env access key must win over file: %s", cfg.AWS.AccessKeyID)
	}
	if cfg.AWS.SecretAccessKey != "envsecret" {
		t.Errorf("env secret key must win over file: %s", cfg.AWS.SecretAccessKey)
	}
	if cfg.AWS.Region != "ap-southeast-2" {
		t.Errorf("env region must win over file: %s", cfg.AWS.Region)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("aws: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("malformed YAML must be an error")
	}
}
