// ABOUTME: Tests for the nutrition CLI commands.
// ABOUTME: Covers helpers, command wiring, and end-to-end runs against a temp data dir.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/settings"
	"github.com/harperreed/nutrition/internal/storage"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2024-05-01 12:30", false},
		{"2024-05-01T12:30", false},
		{"2024-05-01", false},
		{"2024-05-01T12:30:00Z", false},
		{"yesterday", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := parseTime(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestParseTimeIsLocal(t *testing.T) {
	got, err := parseTime("2024-05-01 12:30")
	if err != nil {
		t.Fatalf("parseTime failed: %v", err)
	}
	if got.Location() != time.Local || got.Hour() != 12 {
		t.Errorf("parseTime = %v, want 12:30 local", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a very long category name", 10); got != "a very ..." {
		t.Errorf("truncate = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight = %q", got)
	}
}

func TestBarCapsAtFull(t *testing.T) {
	if got := bar(0.5, 10); strings.Count(got, "█") != 5 {
		t.Errorf("bar(0.5) = %q", got)
	}
	if got := bar(3, 10); strings.Count(got, "█") != 10 || strings.Contains(got, "░") {
		t.Errorf("bar(3) = %q", got)
	}
	if got := bar(-1, 4); strings.Count(got, "░") != 4 {
		t.Errorf("bar(-1) = %q", got)
	}
}

func TestNewCategoriesDropsTakenNames(t *testing.T) {
	existing := []*models.Category{models.NewDefaultCategory("Lunch", "sun.max")}
	incoming := []*models.Category{
		models.NewDefaultCategory("lunch", "sun.max"),
		models.NewCategory("Brunch", "cup.and.saucer"),
	}
	got := newCategories(existing, incoming)
	if len(got) != 1 || got[0].Name != "Brunch" {
		t.Errorf("newCategories = %+v", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"category", "log", "today", "history", "weekly", "trend", "target",
		"validate", "reset", "reminders", "notifications", "export", "import",
		"migrate", "mcp", "serve", "config", "version", "install-skill",
	}
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, n := range want {
		if !names[n] {
			t.Errorf("Expected %s command to be registered", n)
		}
	}
}

func TestLogCmdSubcommandsAndFlags(t *testing.T) {
	if logFoodCmd.Parent() != logCmd || logWaterCmd.Parent() != logCmd {
		t.Fatal("log food and log water should be subcommands of log")
	}
	if logCmd.PersistentFlags().Lookup("at") == nil {
		t.Error("Expected --at flag on log")
	}
	f := logWaterCmd.Flags().Lookup("category")
	if f == nil || f.DefValue != "Drink" {
		t.Error("Expected --category flag defaulting to Drink")
	}
}

func TestCommandAliases(t *testing.T) {
	tests := map[string][]string{
		"category": categoryCmd.Aliases,
		"log":      logCmd.Aliases,
		"history":  historyCmd.Aliases,
		"serve":    serveCmd.Aliases,
	}
	wants := map[string]string{"category": "cat", "log": "add", "history": "ls", "serve": "run"}
	for name, aliases := range tests {
		found := false
		for _, a := range aliases {
			if a == wants[name] {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: expected alias %q in %v", name, wants[name], aliases)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := map[string]bool{"json": true, "yaml": true, "markdown": true}
	if len(exportCmd.ValidArgs) != len(want) {
		t.Fatalf("ValidArgs = %v", exportCmd.ValidArgs)
	}
	for _, a := range exportCmd.ValidArgs {
		if !want[a] {
			t.Errorf("unexpected ValidArg %q", a)
		}
	}
}

func TestSkipSetup(t *testing.T) {
	for _, n := range []string{"version", "help", "install-skill", "migrate", "config"} {
		if !skipSetup[n] {
			t.Errorf("%s should run without the tracker", n)
		}
	}
	if skipSetup["log"] {
		t.Error("log needs the tracker")
	}
}

// setupTestCLI points the CLI at a temp data dir and config dir.
func setupTestCLI(t *testing.T) string {
	t.Helper()

	dataDir := t.TempDir()
	t.Setenv("NUTRITION_DATA_DIR", dataDir)
	t.Setenv("NUTRITION_BACKEND", "sqlite")
	t.Setenv("NUTRITION_LOG_LEVEL", "error")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	logAt = ""
	logCategory = "Drink"
	exportOutput = ""
	exportSince = ""
	historyDate = ""
	weeklyWeeks = 1
	trendDays = 7
	remindFrequency = ""
	remindSummaryTime = ""
	remindEnable = false
	remindDisable = false

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	t.Cleanup(func() { _ = closeAll() })
	return dataDir
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return Execute()
}

func openRecords(t *testing.T, dataDir string) []*models.Consumption {
	t.Helper()
	db, err := storage.Open(storage.DBPath(dataDir))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	records, err := db.ListConsumptions(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ListConsumptions failed: %v", err)
	}
	return records
}

func openSettings(t *testing.T, dataDir string) *settings.Store {
	t.Helper()
	s, err := settings.Open(settings.DefaultDir(dataDir), nil)
	if err != nil {
		t.Fatalf("Failed to open settings: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLogFoodCmdWithDB(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "log", "food", "lunch", "650"); err != nil {
		t.Fatalf("log food failed: %v", err)
	}

	records := openRecords(t, dataDir)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Intake != models.Food(650) || records[0].CategoryName != "Lunch" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestLogWaterCmdDefaultsToDrink(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "log", "water", "0.5"); err != nil {
		t.Fatalf("log water failed: %v", err)
	}

	records := openRecords(t, dataDir)
	if len(records) != 1 || records[0].CategoryName != "Drink" || records[0].Intake != models.Water(0.5) {
		t.Errorf("records = %+v", records)
	}
}

func TestLogCmdWithTimestamp(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "log", "food", "snack", "180", "--at", "2024-05-01 16:30"); err != nil {
		t.Fatalf("log with --at failed: %v", err)
	}

	records := openRecords(t, dataDir)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	want := time.Date(2024, 5, 1, 16, 30, 0, 0, time.Local)
	if !records[0].ConsumedAt.Equal(want) {
		t.Errorf("ConsumedAt = %v, want %v", records[0].ConsumedAt, want)
	}
}

func TestLogCmdRejectsBadInput(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "log", "food", "lunch", "lots"); err == nil {
		t.Error("Expected error for non-numeric calories")
	}
	if err := run(t, "log", "food", "lunch", "--", "-5"); err == nil {
		t.Error("Expected error for negative calories")
	}
	if err := run(t, "log", "food", "elevenses", "100"); err == nil {
		t.Error("Expected error for unknown category")
	}
	for _, v := range []string{"NaN", "Inf", "-Inf"} {
		if err := run(t, "log", "water", "--", v); err == nil {
			t.Errorf("Expected error for water volume %s", v)
		}
	}
	if n := len(openRecords(t, dataDir)); n != 0 {
		t.Errorf("Expected no records, got %d", n)
	}
}

func TestCategoryCmds(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "category", "add", "Brunch"); err != nil {
		t.Fatalf("category add failed: %v", err)
	}
	if err := run(t, "category", "add", "brunch"); err == nil {
		t.Error("Expected duplicate name to fail")
	}
	if err := run(t, "category", "list"); err != nil {
		t.Errorf("category list failed: %v", err)
	}
	if err := run(t, "category", "delete", "Breakfast"); err == nil {
		t.Error("Expected deleting a default category to fail")
	}
	if err := run(t, "category", "delete", "Brunch"); err != nil {
		t.Errorf("category delete failed: %v", err)
	}
}

func TestCategoryDeleteInUse(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "category", "add", "Brunch"); err != nil {
		t.Fatalf("category add failed: %v", err)
	}
	if err := run(t, "log", "food", "brunch", "400"); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if err := run(t, "category", "delete", "Brunch"); err == nil {
		t.Error("Expected deleting an in-use category to fail")
	}
}

func TestTargetCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "target", "calories", "1800"); err != nil {
		t.Fatalf("target calories failed: %v", err)
	}
	if err := run(t, "target", "water", "2.5"); err != nil {
		t.Fatalf("target water failed: %v", err)
	}
	if err := run(t, "target", "water", "0"); err == nil {
		t.Error("Expected zero water target to fail")
	}
	if err := run(t, "target", "water", "NaN"); err == nil {
		t.Error("Expected NaN water target to fail")
	}
	if err := run(t, "target", "protein", "100"); err == nil {
		t.Error("Expected unknown target to fail")
	}

	targets, err := openSettings(t, dataDir).Targets()
	if err != nil {
		t.Fatalf("Targets failed: %v", err)
	}
	if targets != (models.Targets{Calories: 1800, Water: 2.5}) {
		t.Errorf("targets = %+v", targets)
	}
}

func TestRemindersCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "reminders", "--frequency", "high", "--summary-time", "21:30", "--disable"); err != nil {
		t.Fatalf("reminders failed: %v", err)
	}

	r, err := openSettings(t, dataDir).Reminders()
	if err != nil {
		t.Fatalf("Reminders failed: %v", err)
	}
	want := settings.Reminders{Enabled: false, Frequency: models.FrequencyHigh, SummaryTime: "21:30"}
	if r != want {
		t.Errorf("reminders = %+v, want %+v", r, want)
	}
}

func TestRemindersCmdRejectsBadFrequency(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "reminders", "--frequency", "hourly"); err == nil {
		t.Error("Expected unknown frequency to fail")
	}
}

func TestReadCmdsWithDB(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "log", "food", "dinner", "700"); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	for _, args := range [][]string{
		{"today"},
		{"history"},
		{"history", "--date", "2024-05-01"},
		{"weekly", "--weeks", "4"},
		{"trend", "--days", "14"},
		{"reset"},
		{"version"},
	} {
		if err := run(t, args...); err != nil {
			t.Errorf("%v failed: %v", args, err)
		}
	}
}

func TestHistoryCmdRejectsBadDate(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "history", "--date", "May 1"); err == nil {
		t.Error("Expected error for bad date")
	}
}

func TestValidateCmdDoesNotLog(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "validate", "--calories", "900"); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if n := len(openRecords(t, dataDir)); n != 0 {
		t.Errorf("validate logged %d records", n)
	}
}

func TestExportCmds(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "log", "water", "1"); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	for _, format := range []string{"json", "yaml", "markdown"} {
		if err := run(t, "export", format); err != nil {
			t.Errorf("export %s failed: %v", format, err)
		}
	}
	if err := run(t, "export", "invalid"); err == nil {
		t.Error("Expected error for invalid export format")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "category", "add", "Brunch"); err != nil {
		t.Fatalf("category add failed: %v", err)
	}
	if err := run(t, "log", "food", "brunch", "450"); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	backup := filepath.Join(t.TempDir(), "backup.json")
	if err := run(t, "export", "json", "-o", backup); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("backup not written: %v", err)
	}

	// Fresh data dir, same process.
	exportOutput = ""
	dst := t.TempDir()
	t.Setenv("NUTRITION_DATA_DIR", dst)
	if err := run(t, "import", backup); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	records := openRecords(t, dst)
	if len(records) != 1 || records[0].CategoryName != "Brunch" {
		t.Errorf("imported records = %+v", records)
	}
}

func TestMigrateCmdRejectsSameBackend(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "migrate", "--from", "sqlite", "--to", "sqlite"); err == nil {
		t.Error("Expected error when --from equals --to")
	}
	migrateFrom, migrateTo = "sqlite", "charm"
}

func TestConfigCmdSaves(t *testing.T) {
	setupTestCLI(t)
	configHTTPAddr = ""
	defer func() { configHTTPAddr = "" }()

	if err := run(t, "config", "--http-addr", "127.0.0.1:9999"); err != nil {
		t.Fatalf("config failed: %v", err)
	}

	path := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "nutrition", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), "127.0.0.1:9999") {
		t.Errorf("config = %s", data)
	}
}

func TestInstallSkillWritesFile(t *testing.T) {
	skillSkipConfirm = true
	defer func() { skillSkipConfirm = false }()

	dir := filepath.Join(t.TempDir(), "skills", "nutrition")
	if err := installSkill(dir); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	written, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
	if err != nil {
		t.Fatalf("skill not written: %v", err)
	}
	if !strings.Contains(string(written), "name: nutrition") {
		t.Error("skill file missing frontmatter name")
	}
}
