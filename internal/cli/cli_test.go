package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/SiteTakeoff/internal/model"
	"github.com/piwi3910/SiteTakeoff/internal/project"
)

// execute runs the CLI with home as its settings directory and returns
// what the command wrote to stdout.
func execute(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr, logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--home", home, "--env-file", filepath.Join(home, ".env")}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func mustExecute(t *testing.T, home string, args ...string) string {
	t.Helper()
	out, err := execute(t, home, args...)
	if err != nil {
		t.Fatalf("%s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

func decodeResult(t *testing.T, out string) model.BomResult {
	t.Helper()
	var r model.BomResult
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("output is not a JSON result: %v\n%s", err, out)
	}
	return r
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	want := []string{"deck", "paving", "wall", "tier", "templates", "catalog", "config", "backup", "serve"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestDeckCommand_PrintsBOM(t *testing.T) {
	out := mustExecute(t, t.TempDir(), "deck", "width=4800", "length=3600")

	for _, want := range []string{"Deck takeoff", "Decking", "Framing", "17.28"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDeckCommand_JSON(t *testing.T) {
	out := mustExecute(t, t.TempDir(), "deck", "width=4800", "length=3600", "--json")

	r := decodeResult(t, out)
	if r.Calculator != model.CalculatorDeck || r.AreaM2 != 17.28 {
		t.Errorf("unexpected result: calculator %q area %v", r.Calculator, r.AreaM2)
	}
}

func TestCalcCommand_AwaitingInput(t *testing.T) {
	_, err := execute(t, t.TempDir(), "paving", "width=3000")
	if !errors.Is(err, errAwaitingInput) {
		t.Errorf("expected awaiting input error, got %v", err)
	}
}

func TestCalcCommand_BadArgument(t *testing.T) {
	if _, err := execute(t, t.TempDir(), "wall", "length"); err == nil {
		t.Error("expected error for an argument without '='")
	}
	if _, err := execute(t, t.TempDir(), "wall", "--plan", "wall.dxf"); err == nil {
		t.Error("expected wall to reject --plan")
	}
}

func TestCalcCommand_TierFlags(t *testing.T) {
	out := mustExecute(t, t.TempDir(), "wall", "length=3000", "height=600", "--skill", "diy", "--budget", "budget", "--json")

	r := decodeResult(t, out)
	if r.Tier.Tier.Skill != model.SkillDIY || r.Tier.Tier.Budget != model.BudgetLow {
		t.Errorf("expected DIY Budget tier, got %s", r.Tier.Tier)
	}
	if len(r.Locked) == 0 {
		t.Error("expected locked fields under DIY")
	}
}

func TestCalcCommand_ConfigFile(t *testing.T) {
	home := t.TempDir()
	file := filepath.Join(t.TempDir(), "wall.toml")
	data := "length = 3000\nheight = 600\nwall_type = \"solid-flat\"\nwaste_pct = 10\n"
	if err := os.WriteFile(file, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out := mustExecute(t, home, "wall", "-f", file, "--waste", "0", "--json")
	r := decodeResult(t, out)
	if r.AreaM2 != 1.8 {
		t.Errorf("expected area 1.8, got %v", r.AreaM2)
	}
	if r.WastePct != 0 {
		t.Errorf("expected --waste to override the file, got %v", r.WastePct)
	}

	settings, err := project.LoadAppConfig(filepath.Join(home, project.ConfigFile))
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if len(settings.RecentFiles) != 1 || filepath.Base(settings.RecentFiles[0]) != "wall.toml" {
		t.Errorf("expected the config file in recent files, got %v", settings.RecentFiles)
	}
}

func TestCalcCommand_SettingsDefaults(t *testing.T) {
	home := t.TempDir()
	settings := model.DefaultAppConfig()
	settings.DefaultWastePct = 5
	if err := project.SaveAppConfig(filepath.Join(home, project.ConfigFile), settings); err != nil {
		t.Fatal(err)
	}

	r := decodeResult(t, mustExecute(t, home, "paving", "width=3000", "length=3000", "--json"))
	if r.WastePct != 5 {
		t.Errorf("expected waste from settings, got %v", r.WastePct)
	}

	t.Setenv(project.EnvWastePct, "12.5")
	r = decodeResult(t, mustExecute(t, home, "paving", "width=3000", "length=3000", "--json"))
	if r.WastePct != 12.5 {
		t.Errorf("expected waste from the environment, got %v", r.WastePct)
	}
}

func TestCalcCommand_Exports(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"--pdf":    filepath.Join(dir, "reports", "deck.pdf"),
		"--xlsx":   filepath.Join(dir, "deck.xlsx"),
		"--dxf":    filepath.Join(dir, "deck.dxf"),
		"--labels": filepath.Join(dir, "labels.pdf"),
	}
	args := []string{"deck", "width=4800", "length=3600", "--title", "Garden deck", "--job", "No. 12"}
	for flag, p := range paths {
		args = append(args, flag, p)
	}

	out := mustExecute(t, t.TempDir(), args...)
	for flag, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s did not write %s: %v", flag, p, err)
		}
		if !strings.Contains(out, p) {
			t.Errorf("output does not list %s", p)
		}
	}
}

func TestCalcCommand_OutputDir(t *testing.T) {
	outDir := t.TempDir()
	t.Setenv(project.EnvOutputDir, outDir)

	mustExecute(t, t.TempDir(), "paving", "width=3000", "length=3000", "--xlsx", "patio.xlsx")
	if _, err := os.Stat(filepath.Join(outDir, "patio.xlsx")); err != nil {
		t.Errorf("expected the export under the output directory: %v", err)
	}
}

func TestCalcCommand_PlanFromDrawing(t *testing.T) {
	home := t.TempDir()
	plan := filepath.Join(t.TempDir(), "plan.dxf")
	mustExecute(t, home, "deck", "width=4800", "length=3600", "--dxf", plan)

	r := decodeResult(t, mustExecute(t, home, "paving", "--plan", plan, "--json"))
	if r.Geometry.Width != 4800 || r.Geometry.Length != 3600 {
		t.Errorf("expected a 4800 x 3600 plan, got %v x %v", r.Geometry.Width, r.Geometry.Length)
	}

	if _, err := execute(t, home, "paving", "--plan", filepath.Join(home, "missing.dxf")); err == nil {
		t.Error("expected error for a missing drawing")
	}
}

func TestTemplates_SaveRunDelete(t *testing.T) {
	home := t.TempDir()
	mustExecute(t, home, "deck", "width=4800", "length=3600", "--save-template", "garden", "--description", "back garden")

	list := mustExecute(t, home, "templates", "list")
	if !strings.Contains(list, "garden") || !strings.Contains(list, "back garden") {
		t.Errorf("template missing from list:\n%s", list)
	}
	if out := mustExecute(t, home, "templates", "list", "--calc", "wall"); !strings.Contains(out, "No templates") {
		t.Errorf("expected no wall templates, got:\n%s", out)
	}

	r := decodeResult(t, mustExecute(t, home, "templates", "run", "garden", "--json"))
	if r.AreaM2 != 17.28 {
		t.Errorf("expected the saved deck, got area %v", r.AreaM2)
	}
	r = decodeResult(t, mustExecute(t, home, "templates", "run", "garden", "width=6000", "--json"))
	if r.AreaM2 != 21.6 {
		t.Errorf("expected the override to apply, got area %v", r.AreaM2)
	}

	mustExecute(t, home, "templates", "delete", "garden")
	if _, err := execute(t, home, "templates", "run", "garden"); err == nil {
		t.Error("expected error running a deleted template")
	}
}

func TestTierCommand(t *testing.T) {
	home := t.TempDir()

	out := mustExecute(t, home, "tier", "--skill", "diy", "--budget", "budget")
	if !strings.Contains(out, "DIY Budget tier") || !strings.Contains(out, "Locked") {
		t.Errorf("unexpected tier output:\n%s", out)
	}

	var d model.TierDefaults
	if err := json.Unmarshal([]byte(mustExecute(t, home, "tier", "--json")), &d); err != nil {
		t.Fatalf("tier --json: %v", err)
	}
	if d.Tier.Skill != model.SkillPro || len(d.Locked) != 0 {
		t.Errorf("expected the unlocked Pro default, got %s with %v", d.Tier, d.Locked)
	}
}

func TestConfigCommands(t *testing.T) {
	home := t.TempDir()

	mustExecute(t, home, "config", "init")
	if _, err := os.Stat(filepath.Join(home, project.ConfigFile)); err != nil {
		t.Fatalf("config init did not write the settings file: %v", err)
	}
	if _, err := execute(t, home, "config", "init"); err == nil {
		t.Error("expected config init to refuse overwriting")
	}
	mustExecute(t, home, "config", "init", "--force")

	t.Setenv(project.EnvSkill, "diy")
	out := mustExecute(t, home, "config", "show")
	if !strings.Contains(out, "default_skill = \"DIY\"") {
		t.Errorf("expected the environment override in config show:\n%s", out)
	}

	if path := strings.TrimSpace(mustExecute(t, home, "config", "path")); path != filepath.Join(home, project.ConfigFile) {
		t.Errorf("unexpected config path %q", path)
	}
}

func TestCatalogCommands(t *testing.T) {
	home := t.TempDir()

	if out := mustExecute(t, home, "catalog", "list"); !strings.Contains(out, model.MaterialCement) {
		t.Errorf("catalog list missing cement:\n%s", out)
	}

	shared := filepath.Join(t.TempDir(), "cement.json")
	mustExecute(t, home, "catalog", "export-material", model.MaterialCement, shared)

	limestone := filepath.Join(t.TempDir(), "limestone.json")
	data := `{"key": "limestone_dust", "name": "Limestone dust", "density": 1500, "bag_kg": 25}`
	if err := os.WriteFile(limestone, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	mustExecute(t, home, "catalog", "import-material", limestone)

	catalog, err := project.LoadCatalog(filepath.Join(home, project.CatalogFile))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if catalog.FindMaterial("limestone_dust") == nil {
		t.Error("imported material missing from the catalog")
	}

	if _, err := execute(t, home, "catalog", "export-material", "unobtainium", shared); err == nil {
		t.Error("expected error exporting an unknown material")
	}
}

func TestBackupRoundTrip(t *testing.T) {
	home := t.TempDir()
	mustExecute(t, home, "wall", "length=3000", "height=600", "--save-template", "boundary")

	backup := filepath.Join(t.TempDir(), "backup.json")
	mustExecute(t, home, "backup", "export", backup)

	restored := t.TempDir()
	mustExecute(t, restored, "backup", "import", backup)

	if out := mustExecute(t, restored, "templates", "list"); !strings.Contains(out, "boundary") {
		t.Errorf("restored templates missing boundary:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(restored, project.CatalogFile)); err != nil {
		t.Errorf("catalog not restored: %v", err)
	}
}
