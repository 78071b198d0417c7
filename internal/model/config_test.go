package model

import (
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}
	if cfg.Display.PageSize != 10 {
		t.Errorf("expected default page size 10, got %d", cfg.Display.PageSize)
	}
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.Source.Timeout = 0 }},
		{"empty user agent", func(c *Config) { c.Source.UserAgent = "" }},
		{"zero page size", func(c *Config) { c.Display.PageSize = 0 }},
		{"negative page size option", func(c *Config) { c.Display.PageSizes = []int{5, -1} }},
		{"no workers", func(c *Config) { c.Concurrency.Workers = 0 }},
		{"unknown llm provider", func(c *Config) { c.LLM.Provider = "oracle" }},
		{"bad proxy", func(c *Config) { c.Source.HTTPProxy = "::not a url" }},
		{"cache without dir", func(c *Config) { c.Cache.Enabled = true; c.Cache.Dir = "" }},
		{"negative ttl", func(c *Config) { c.Cache.DiskTTL = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestIsViolent(t *testing.T) {
	for _, cause := range Causes {
		want := cause == CauseAssassination || cause == CauseExecution || cause == CauseBattle
		if got := IsViolent(cause); got != want {
			t.Errorf("IsViolent(%q) = %v, want %v", cause, got, want)
		}
	}
	if IsViolent("") {
		t.Error("empty cause should not be violent")
	}
}

func TestRecord_Set_IgnoresUnknownColumns(t *testing.T) {
	var r Record
	r.Set("Name", "Nero")
	r.Set("Reign", "54-68")
	r.Set("Dynasty", "Julio-Claudian")

	if r.Name != "Nero" || r.Dynasty != "Julio-Claudian" {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestFilterCriteria_Builders(t *testing.T) {
	var c FilterCriteria
	if !c.IsEmpty() {
		t.Fatal("zero criteria should be empty")
	}

	c2 := c.WithDynasty("Flavian").WithYearStart(-50)
	if c2.IsEmpty() || !c2.HasYearRange() {
		t.Errorf("expected constrained criteria, got %+v", c2)
	}
	if !c.IsEmpty() {
		t.Error("builders must not mutate the receiver")
	}
}
