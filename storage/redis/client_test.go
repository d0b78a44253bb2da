package redis

import (
	"testing"

	"MindBalance/config"
)

func TestKey(t *testing.T) {
	orig := config.Cfg.RedisPrefix
	t.Cleanup(func() { config.Cfg.RedisPrefix = orig })

	tests := []struct {
		prefix string
		parts  []string
		want   string
	}{
		{"mb", []string{"dashboard", "personal", "user001"}, "mb:dashboard:personal:user001"},
		{"mb", []string{"message", "", "msg1"}, "mb:message:msg1"},
		{"", []string{"lock"}, "mb:lock"},
		{"staging", nil, "staging"},
	}

	for _, tt := range tests {
		config.Cfg.RedisPrefix = tt.prefix
		if got := Key(tt.parts...); got != tt.want {
			t.Errorf("Key(%v) with prefix %q = %q, want %q", tt.parts, tt.prefix, got, tt.want)
		}
	}
}

func TestInit_DisabledIsNoop(t *testing.T) {
	orig := config.Cfg.RedisEnabled
	t.Cleanup(func() { config.Cfg.RedisEnabled = orig })

	config.Cfg.RedisEnabled = false
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Enabled() {
		t.Fatal("expected redis to stay disabled")
	}
}
