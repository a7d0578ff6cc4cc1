package redis

import (
	"testing"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/config"
)

func configWithURL(url string) config.RedisConfig {
	return config.RedisConfig{URL: url}
}

func TestBuildKeySkipsEmptyParts(t *testing.T) {
	c := &Client{}
	got := c.buildKey("idempotency", "", "assignments", "abc")
	want := "ad:idempotency:assignments:abc"
	if got != want {
		t.Fatalf("buildKey = %q, want %q", got, want)
	}
}

func TestIdempotencyKey(t *testing.T) {
	c := &Client{}
	got := c.IdempotencyKey("assignments", "key-1")
	if got != "ad:idempotency:assignments:key-1" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestOptionsFromConfigRequiresURL(t *testing.T) {
	if _, err := optionsFromConfig(configWithURL("")); err == nil {
		t.Fatal("expected error for missing url")
	}
	opts, err := optionsFromConfig(configWithURL("redis://localhost:6379/2"))
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Addr != "localhost:6379" {
		t.Fatalf("addr = %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("db = %d, want 2", opts.DB)
	}
}
