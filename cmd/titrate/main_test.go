package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"titrate/internal/config"
	"titrate/internal/dataentry"
	"titrate/internal/experiments"
	"titrate/internal/testsupport"
	"titrate/internal/titration"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	dataPath   string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TITRATE_STUDENT", "")

	configPath := filepath.Join(base, "titrate.toml")
	writeTestConfig(t, configPath, cfg)

	dataPath := filepath.Join(base, "run.tsv")
	testsupport.WriteSamples(t, dataPath, testsupport.WeakAcidVolume, testsupport.WeakAcidPH)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		dataPath:   dataPath,
		baseDir:    base,
	}
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, args, env.configPath, "")
}

func runCLI(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\n\n[experiment]\nname = %q\nstudent = %q\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Experiment.Name,
		cfg.Experiment.Student,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestAnalyzeFilePrintsTableAndSummary(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "analyze", env.dataPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "End point: 5.00 mL at pH 10.50 (slope 3.70)")
	requireContains(t, out, "Type: Strong Base + Weak Acid")
	requireContains(t, out, "Volume of NaOH (mL)")
	if strings.Count(out, "*") != 1 {
		t.Fatalf("expected one starred row:\n%s", out)
	}

	logContent, err := os.ReadFile(env.cfg.LogPath())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	requireContains(t, string(logContent), "analysis complete")
}

func TestAnalyzeReadsStdin(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"analyze", "-"}, env.configPath, "volume,pH\n0,1.5\n10,2.0\n20,3.0\n25,7.0\n30,11.0\n")
	if err != nil {
		t.Fatalf("analyze stdin: %v", err)
	}
	requireContains(t, out, "End point: 25.00 mL at pH 7.00 (slope 0.80)")
	requireContains(t, out, "Strong Acid + Strong Base")
}

func TestAnalyzeInsufficientData(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"analyze"}, env.configPath, "header\n5\t7\n")
	if !errors.Is(err, titration.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	requireContains(t, err.Error(), "stdin")
}

func TestAnalyzeJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "analyze", env.dataPath, "--json")
	if err != nil {
		t.Fatalf("analyze --json: %v", err)
	}
	var view analysisView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if view.Result.EqIndex != 4 || view.Result.EqVol != 5 || view.Stats.Points != 7 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.ExperimentID != "" {
		t.Fatal("expected no experiment id without --save")
	}
}

func TestHistoryLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "analyze", env.dataPath, "--save", "--name", "KHP-A", "--number", "Run 7")
	if err != nil {
		t.Fatalf("analyze --save: %v", err)
	}
	requireContains(t, out, "Saved experiment ")

	store := testsupport.MustOpenStore(t, env.cfg)
	records, err := store.List(t.Context(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Name != "KHP-A" || records[0].Student != "tester" {
		t.Fatalf("unexpected records: %+v", records)
	}
	rec := records[0]

	out, _, err = env.run(t, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, rec.ShortID())
	requireContains(t, out, "KHP-A")
	requireContains(t, out, "Run 7")

	out, _, err = env.run(t, "history", "show", rec.ShortID())
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "KHP-A (Run 7)")
	requireContains(t, out, "== End Point ==")

	out, _, err = env.run(t, "report", "--experiment", rec.ID)
	if err != nil {
		t.Fatalf("report --experiment: %v", err)
	}
	requireContains(t, out, "Strong Base + Weak Acid")

	out, _, err = env.run(t, "history", "delete", rec.ShortID())
	if err != nil {
		t.Fatalf("history delete: %v", err)
	}
	requireContains(t, out, "Deleted experiment")

	out, _, err = env.run(t, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "No saved experiments")

	_, _, err = env.run(t, "history", "show", rec.ID)
	if !errors.Is(err, experiments.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistoryListJSONEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "history", "list", "--json")
	if err != nil {
		t.Fatalf("history list --json: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("expected empty array, got %q", out)
	}
}

func TestExportYAMLAndJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "export", env.dataPath, "--format", "yaml")
	if err != nil {
		t.Fatalf("export yaml: %v", err)
	}
	var doc exportDocument
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	if doc.EndPoint.Volume != 5 || doc.EndPoint.Type != titration.TypeStrongBaseWeakAcid {
		t.Fatalf("unexpected end point: %+v", doc.EndPoint)
	}
	if len(doc.Samples) != 7 || len(doc.Intervals) != 6 || !doc.Intervals[4].EndPoint {
		t.Fatalf("unexpected export shape: %+v", doc)
	}
	if doc.Chart.LineColor != "#33b8ff" {
		t.Fatalf("expected chart config, got %+v", doc.Chart)
	}

	out, _, err = env.run(t, "export", env.dataPath)
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	requireContains(t, out, `"end_point": {`)

	if _, _, err := env.run(t, "export", env.dataPath, "--format", "csv"); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestReportRejectsFileAndExperiment(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := env.run(t, "report", env.dataPath, "--experiment", "abc"); err == nil {
		t.Fatal("expected error when both a file and --experiment are given")
	}
}

func TestSheetEditApplyAndSave(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "sheet", "open", env.dataPath)
	if err != nil {
		t.Fatalf("sheet open: %v", err)
	}
	requireContains(t, out, "Opened worksheet with 7 samples")

	out, _, err = env.run(t, "sheet", "set", "delta_ph", "2", "9")
	if err != nil {
		t.Fatalf("sheet set delta_ph: %v", err)
	}
	requireContains(t, out, "End point: 1.00 mL")
	requireContains(t, out, "Differences edited by hand")

	out, _, err = env.run(t, "sheet", "set", "ph", "1", "15")
	if err != nil {
		t.Fatalf("sheet set ph: %v", err)
	}
	requireContains(t, out, "End point: 5.00 mL")

	out, _, err = env.run(t, "sheet", "apply")
	if err == nil {
		t.Fatal("expected apply to be blocked")
	}
	requireContains(t, err.Error(), "apply blocked: 1 invalid cell")
	requireContains(t, out, "row 1 ph=15: must be between 0 and 14")

	if _, _, err := env.run(t, "sheet", "set", "ph", "1", "3"); err != nil {
		t.Fatalf("sheet set ph: %v", err)
	}

	appliedPath := filepath.Join(env.baseDir, "applied.tsv")
	out, _, err = env.run(t, "sheet", "apply", "--save", "--output", appliedPath)
	if err != nil {
		t.Fatalf("sheet apply: %v", err)
	}
	requireContains(t, out, "Worksheet values are valid")
	requireContains(t, out, "Saved experiment ")

	samples, err := dataentry.ReadFile(appliedPath)
	if err != nil {
		t.Fatalf("read applied data: %v", err)
	}
	if len(samples) != 7 || samples[0].PH != 3 {
		t.Fatalf("unexpected applied samples: %+v", samples)
	}

	out, _, err = env.run(t, "sheet", "show")
	if err != nil {
		t.Fatalf("sheet show: %v", err)
	}
	requireContains(t, out, "Edits: 3")

	if _, _, err := env.run(t, "sheet", "close"); err != nil {
		t.Fatalf("sheet close: %v", err)
	}
	_, _, err = env.run(t, "sheet", "show")
	if err == nil {
		t.Fatal("expected error after close")
	}
	requireContains(t, err.Error(), "sheet open")
}

func TestSheetSetValidatesArguments(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := env.run(t, "sheet", "open", env.dataPath); err != nil {
		t.Fatalf("sheet open: %v", err)
	}

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"delta row 1", []string{"delta_v", "1", "0.5"}, "valid rows 2-7"},
		{"row past end", []string{"volume", "8", "1"}, "valid rows 1-7"},
		{"unknown field", []string{"temperature", "1", "1"}, "unknown field"},
		{"bad row", []string{"ph", "x", "1"}, "not a number"},
		{"bad value", []string{"ph", "1", "abc"}, "not a finite number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := env.run(t, append([]string{"sheet", "set"}, tc.args...)...)
			if err == nil {
				t.Fatalf("expected error for %v", tc.args)
			}
			requireContains(t, err.Error(), tc.want)
		})
	}
}

func TestHistoryLoadOpensWorksheet(t *testing.T) {
	env := setupCLITestEnv(t)

	store := testsupport.MustOpenStore(t, env.cfg)
	rec := testsupport.SaveRun(t, store, env.cfg, "saved", testsupport.WeakAcidVolume, testsupport.WeakAcidPH)

	out, _, err := env.run(t, "history", "load", rec.ShortID())
	if err != nil {
		t.Fatalf("history load: %v", err)
	}
	requireContains(t, out, "from experiment "+rec.ID)

	out, _, err = env.run(t, "sheet", "show", "--json")
	if err != nil {
		t.Fatalf("sheet show --json: %v", err)
	}
	requireContains(t, out, `"name": "saved"`)
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = env.run(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := env.run(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target, "")
	if err != nil {
		t.Fatalf("validate sample config: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}
