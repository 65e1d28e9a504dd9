package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/academydays/hubby/internal/lang"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Source.Mode != SourceStatic {
		t.Errorf("expected default source mode %q, got %q", SourceStatic, cfg.Source.Mode)
	}
	if cfg.Language() != lang.French {
		t.Errorf("expected default language fr, got %q", cfg.Language())
	}
	if cfg.TypingDelay() != 400*time.Millisecond {
		t.Errorf("expected 400ms typing delay, got %v", cfg.TypingDelay())
	}
	if len(cfg.Days) != 3 {
		t.Errorf("expected 3 days, got %d", len(cfg.Days))
	}
	if len(cfg.Actions) != 5 {
		t.Errorf("expected 5 actions, got %d", len(cfg.Actions))
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.hubby.yml")

	original := DefaultConfig()
	original.Source.Mode = SourceSpreadsheet
	original.Source.SpreadsheetURL = "https://example.com/academy.xlsx"
	original.DefaultLanguage = "en"
	original.Server.Port = 9090
	original.TypingDelayMS = 250

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Source.Mode != original.Source.Mode {
		t.Errorf("source mode: got %q, want %q", loaded.Source.Mode, original.Source.Mode)
	}
	if loaded.Source.SpreadsheetURL != original.Source.SpreadsheetURL {
		t.Errorf("spreadsheet url: got %q, want %q", loaded.Source.SpreadsheetURL, original.Source.SpreadsheetURL)
	}
	if loaded.Language() != lang.English {
		t.Errorf("language: got %q, want en", loaded.Language())
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("port: got %d, want 9090", loaded.Server.Port)
	}
	if loaded.TypingDelayMS != 250 {
		t.Errorf("typing delay: got %d, want 250", loaded.TypingDelayMS)
	}
	if len(loaded.Actions) != len(original.Actions) {
		t.Fatalf("actions length: got %d, want %d", len(loaded.Actions), len(original.Actions))
	}
	for i, a := range loaded.Actions {
		if a.ID != original.Actions[i].ID {
			t.Errorf("action[%d]: got %q, want %q", i, a.ID, original.Actions[i].ID)
		}
	}
	prog, ok := loaded.Action("programme")
	if !ok {
		t.Fatal("programme action lost")
	}
	if len(prog.Keywords["fr"]) != 4 || prog.Keywords["fr"][1] != "planning" {
		t.Errorf("programme fr keywords = %v", prog.Keywords["fr"])
	}
	if loaded.Text(lang.English).Send != "Send" {
		t.Errorf("ui en send = %q", loaded.Text(lang.English).Send)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yml")
	content := "days:\n  - id: \"21\"\n    labels:\n      fr: 21 novembre\n      en: 21 November\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Days) != 1 || cfg.Days[0].ID != "21" {
		t.Errorf("days should be replaced, got %+v", cfg.Days)
	}
	if len(cfg.Actions) != len(DefaultActions) {
		t.Errorf("actions should default, got %d", len(cfg.Actions))
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Source.Mode != SourceStatic {
		t.Errorf("expected default source mode, got %q", cfg.Source.Mode)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("HUBBY_SOURCE__MODE", "spreadsheet")
	t.Setenv("HUBBY_DEFAULT_LANGUAGE", "en")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Source.Mode != SourceSpreadsheet {
		t.Errorf("env override failed: got %q, want %q", loaded.Source.Mode, SourceSpreadsheet)
	}
	if loaded.DefaultLanguage != "en" {
		t.Errorf("env override failed: got %q, want en", loaded.DefaultLanguage)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"invalid mode", func(c *Config) { c.Source.Mode = "ftp" }},
		{"spreadsheet without url", func(c *Config) { c.Source.Mode = SourceSpreadsheet }},
		{"static without path", func(c *Config) { c.Source.StaticPath = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"negative delay", func(c *Config) { c.TypingDelayMS = -1 }},
		{"bad language", func(c *Config) { c.DefaultLanguage = "de" }},
		{"missing ui", func(c *Config) { c.UI = map[string]UIText{"fr": {}} }},
		{"no days", func(c *Config) { c.Days = nil }},
		{"duplicate day", func(c *Config) { c.Days = []Day{{ID: "18"}, {ID: "18"}} }},
		{"no actions", func(c *Config) { c.Actions = nil }},
		{"empty action id", func(c *Config) { c.Actions = []Action{{}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLookups(t *testing.T) {
	cfg := DefaultConfig()
	if _, ok := cfg.Action("dresscode"); !ok {
		t.Error("dresscode action missing")
	}
	if _, ok := cfg.Action("nope"); ok {
		t.Error("unexpected action")
	}
	d, ok := cfg.Day("19")
	if !ok || d.Labels.Get(lang.English) != "19 November" {
		t.Errorf("day 19 = %+v", d)
	}
	ids := cfg.DayIDs()
	if len(ids) != 3 || ids[0] != "18" || ids[2] != "20" {
		t.Errorf("DayIDs = %v", ids)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}

func TestPopulationsFromTags(t *testing.T) {
	known := DefaultConfig().Populations
	got := populationsFromTags([]string{"cdv", "OPS"}, known)
	if len(got) != 2 {
		t.Fatalf("expected 2 populations, got %d", len(got))
	}
	if got[0].Label.Get(lang.French) != "Chefs de village" {
		t.Errorf("known label lost: %+v", got[0])
	}
	if got[1].Tag != "OPS" || got[1].Link != "/chat" {
		t.Errorf("new population = %+v", got[1])
	}
}
