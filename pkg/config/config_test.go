package config

import (
	"testing"

	"gopkg.in/yaml.v2"
)

func TestDefaultConfigIsValidYAML(t *testing.T) {
	var c Config
	if err := yaml.Unmarshal([]byte(defaultConfig), &c); err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	// Every option in the default file is commented out.
	if c.TmpDir != "" || c.AttachRetries != nil || c.AttachRetryInterval != nil {
		t.Fatalf("expected zero config from default file, got %+v", c)
	}
}

func TestConfigUnmarshal(t *testing.T) {
	in := "tmp-dir: /run/java\nattach-retries: 3\nattach-retry-interval: 2\n"
	var c Config
	if err := yaml.Unmarshal([]byte(in), &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c.TmpDir != "/run/java" {
		t.Errorf("expected tmp-dir /run/java, got %q", c.TmpDir)
	}
	if c.AttachRetries == nil || *c.AttachRetries != 3 {
		t.Errorf("expected attach-retries 3, got %v", c.AttachRetries)
	}
	if c.AttachRetryInterval == nil || *c.AttachRetryInterval != 2 {
		t.Errorf("expected attach-retry-interval 2, got %v", c.AttachRetryInterval)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	retries := 5
	orig := Config{TmpDir: "/alt/tmp", AttachRetries: &retries}
	out, err := yaml.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var back Config
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.TmpDir != orig.TmpDir {
		t.Errorf("expected tmp-dir %q, got %q", orig.TmpDir, back.TmpDir)
	}
	if back.AttachRetries == nil || *back.AttachRetries != retries {
		t.Errorf("expected attach-retries %d, got %v", retries, back.AttachRetries)
	}
	if back.AttachRetryInterval != nil {
		t.Errorf("expected attach-retry-interval to stay unset, got %v", back.AttachRetryInterval)
	}
}
