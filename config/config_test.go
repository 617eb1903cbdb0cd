package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, doc map[string]any) string {
	t.Helper()
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"mqtt": map[string]any{
			"enabled":  true,
			"broker":   "tcp://localhost:1883",
			"username": "user",
			"password": "pass",
		},
		"metrics": map[string]any{
			"sinks":           []map[string]any{{"type": "nop"}},
			"prometheus_port": ":9090",
		},
		"provider": map[string]any{
			"base_url": "http://provider:8080",
		},
		"audit": map[string]any{
			"backend": "sqlite",
			"path":    "stages.db",
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"mqtt.enabled", cfg.MQTT.Enabled, true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.client_id default", cfg.MQTT.ClientID, "scr-platform"},
		{"mqtt.topic_prefix default", cfg.MQTT.TopicPrefix, "scr/events"},
		{"metrics.sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, ":9090"},
		{"provider.base_url", cfg.Provider.BaseURL, "http://provider:8080"},
		{"provider.timeout default", cfg.Provider.TimeoutMS, 10000},
		{"audit.backend", cfg.Audit.Backend, "sqlite"},
		{"audit.path", cfg.Audit.Path, "stages.db"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadRejectsMissingProvider(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"audit": map[string]any{"backend": "jsonl", "path": "stages.log"},
	})
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing provider base url")
	}
}

func TestLoadRejectsUnknownAuditBackend(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"provider": map[string]any{"base_url": "http://provider:8080"},
		"audit":    map[string]any{"backend": "csv"},
	})
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown audit backend")
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
