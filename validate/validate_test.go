package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/planchis/game/engine"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func hasMessage(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestValidateConfig_ValidConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "classic.json", `{
		"name": "classic",
		"description": "Four players, seat 1 human",
		"active_players": [0, 1, 2, 3],
		"human_players": [0],
		"player_names": ["Ana", "", "", ""],
		"block_immune_landing": false
	}`)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, got errors: %v", result.Errors)
	}
	if result.File != "classic.json" {
		t.Errorf("Expected file classic.json, got %s", result.File)
	}
	for _, want := range []string{"✓ Name: classic", "✓ Mode: 4 players", "✓ Humans: 1 [Ana]", "✓ Smoke run:"} {
		if !hasMessage(result.Errors, want) {
			t.Errorf("Expected message %q in %v", want, result.Errors)
		}
	}
}

func TestValidateConfig_SeededDuel(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "duel.json", `{
		"name": "duel",
		"description": "Two humans",
		"active_players": [0, 2],
		"human_players": [0, 2],
		"seed": 42
	}`)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, got errors: %v", result.Errors)
	}
	if !hasMessage(result.Errors, "✓ Seed: 42") {
		t.Errorf("Expected seed info in %v", result.Errors)
	}
	if hasMessage(result.Errors, "Note:") {
		t.Errorf("Opposite seats should not produce a note: %v", result.Errors)
	}
}

func TestValidateConfig_AdjacentSeatsNote(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "neighbours.json", `{
		"name": "neighbours",
		"description": "Two seats side by side",
		"active_players": [0, 1],
		"human_players": []
	}`)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, got errors: %v", result.Errors)
	}
	if !hasMessage(result.Errors, "Note: two-player games usually seat") {
		t.Errorf("Expected a seating note in %v", result.Errors)
	}
}

func TestValidateConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "broken.json", `{ invalid json }`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected invalid result for malformed JSON")
	}
	if !hasMessage(result.Errors, "Invalid JSON") {
		t.Errorf("Expected 'Invalid JSON' error, got %v", result.Errors)
	}
}

func TestValidateConfig_UnknownField(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "typo.json", `{
		"name": "typo",
		"description": "misspelled field",
		"active_players": [0, 2],
		"humans": [0]
	}`)

	result := validateConfig(path)
	if result.Valid {
		t.Error("Expected unknown fields to be rejected")
	}
	if !hasMessage(result.Errors, "humans") {
		t.Errorf("Expected the unknown field to be named, got %v", result.Errors)
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if !hasMessage(result.Errors, "Failed to read file") {
		t.Errorf("Expected read error, got %v", result.Errors)
	}
}

func TestValidateConfig_SeatRules(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing description",
			content: `{"name": "x", "active_players": [0, 2], "human_players": []}`,
			want:    "description is required",
		},
		{
			name:    "single seat",
			content: `{"name": "x", "description": "d", "active_players": [0], "human_players": []}`,
			want:    "active_players",
		},
		{
			name:    "seat out of range",
			content: `{"name": "x", "description": "d", "active_players": [0, 4], "human_players": []}`,
			want:    "out of range",
		},
		{
			name:    "duplicate seat",
			content: `{"name": "x", "description": "d", "active_players": [1, 1, 3], "human_players": []}`,
			want:    "listed twice",
		},
		{
			name:    "inactive human",
			content: `{"name": "x", "description": "d", "active_players": [0, 2], "human_players": [1]}`,
			want:    "not active",
		},
	}

	dir := t.TempDir()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, dir, strings.Repeat("c", i+1)+".json", tt.content)
			result := validateConfig(path)
			if result.Valid {
				t.Fatal("Expected invalid result")
			}
			if !hasMessage(result.Errors, tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateSmokeRun(t *testing.T) {
	result := validateSmokeRun(engine.DefaultConfig())
	if !result.Valid {
		t.Fatalf("Expected smoke run to pass, got %v", result.Errors)
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "✓ Smoke run:") {
		t.Errorf("Expected a single smoke run line, got %v", result.Errors)
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "good.json", `{"name": "good", "description": "d", "active_players": [0, 2], "human_players": [0]}`)

	var out bytes.Buffer
	ok, err := validateDir(dir, &out)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("Expected all valid, report:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "✅ All configurations are valid!") {
		t.Errorf("Expected success summary, got:\n%s", out.String())
	}

	writeConfig(t, dir, "bad.json", `{"name": "bad"}`)
	out.Reset()
	ok, err = validateDir(dir, &out)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ok {
		t.Error("Expected a failing report")
	}
	if !strings.Contains(out.String(), "❌ INVALID") {
		t.Errorf("Expected an invalid entry, got:\n%s", out.String())
	}
}

func TestValidateDir_Empty(t *testing.T) {
	if _, err := validateDir(t.TempDir(), &bytes.Buffer{}); err == nil {
		t.Error("Expected error for a directory without presets")
	}
}

func TestValidateDir_ShippedPresets(t *testing.T) {
	if _, err := os.Stat("../configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	var out bytes.Buffer
	ok, err := validateDir("../configs", &out)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("Shipped presets should validate:\n%s", out.String())
	}
}
