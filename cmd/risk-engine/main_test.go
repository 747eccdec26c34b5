package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carebridge/riskengine/internal/config"
	"github.com/carebridge/riskengine/internal/domain/riskassessment"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:              "test",
		LogLevel:         "info",
		DBSchema:         "risk",
		EmergencyNumber:  "192",
		CrisisLineNumber: "188",
	}
}

// ---------------------------------------------------------------------------
// runAssess
// ---------------------------------------------------------------------------

func TestRunAssess_AcuteCoronarySyndrome(t *testing.T) {
	in := strings.NewReader(`{
		"userId": "user-1",
		"extractedSymptoms": [
			{"symptom": "dor_peito", "severity": "severe", "duration": "30min"},
			{"symptom": "falta_ar", "severity": "severe", "duration": "30min"}
		]
	}`)
	var out bytes.Buffer

	if err := runAssess(in, &out, newEngine(testConfig())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var a riskassessment.AdvancedRiskAssessment
	if err := json.Unmarshal(out.Bytes(), &a); err != nil {
		t.Fatalf("output is not an assessment: %v", err)
	}
	if a.UserID != "user-1" {
		t.Errorf("expected user-1, got %q", a.UserID)
	}
	if a.Composite == nil || !a.Composite.EmergencyEscalation {
		t.Error("expected emergency escalation")
	}
	if len(a.EmergencyAlerts) == 0 {
		t.Fatal("expected at least one alert")
	}
	found := false
	for _, n := range a.EmergencyAlerts[0].ContactNumbers {
		if n == "192" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected configured emergency number, got %v", a.EmergencyAlerts[0].ContactNumbers)
	}
	if !strings.Contains(out.String(), "\n  \"userId\"") {
		t.Error("expected indented output")
	}
}

func TestRunAssess_InvalidQuestionnaire(t *testing.T) {
	var out bytes.Buffer
	err := runAssess(strings.NewReader(`{"userId": ""}`), &out, newEngine(testConfig()))
	if !errors.Is(err, riskassessment.ErrInvalidQuestionnaire) {
		t.Fatalf("expected ErrInvalidQuestionnaire, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestRunAssess_MalformedJSON(t *testing.T) {
	var out bytes.Buffer
	err := runAssess(strings.NewReader(`{"userId":`), &out, newEngine(testConfig()))
	if err == nil || !strings.Contains(err.Error(), "decode questionnaire") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		cfg := testConfig()
		cfg.LogLevel = tt.level
		if got := newLogger(cfg).GetLevel(); got != tt.want {
			t.Errorf("level %q: got %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestSchemaFlag(t *testing.T) {
	cfg := testConfig()

	cmd := &cobra.Command{}
	cmd.Flags().String("schema", "", "")
	if got := schemaFlag(cmd, cfg); got != "risk" {
		t.Errorf("expected config schema, got %q", got)
	}

	if err := cmd.Flags().Set("schema", "risk_staging"); err != nil {
		t.Fatal(err)
	}
	if got := schemaFlag(cmd, cfg); got != "risk_staging" {
		t.Errorf("expected flag schema, got %q", got)
	}
}

func TestCommands(t *testing.T) {
	for _, cmd := range []*cobra.Command{serveCmd(), migrateCmd(), assessCmd()} {
		if cmd.Use == "" || cmd.Short == "" {
			t.Errorf("command %q missing usage", cmd.Use)
		}
	}

	names := map[string]bool{}
	for _, sub := range migrateCmd().Commands() {
		names[sub.Name()] = true
	}
	if !names["up"] || !names["status"] {
		t.Errorf("expected up and status subcommands, got %v", names)
	}

	if f := assessCmd().Flags().Lookup("file"); f == nil || f.Shorthand != "f" {
		t.Error("expected --file/-f flag")
	}
}
