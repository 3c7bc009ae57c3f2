package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/stairgen/internal/mapfile"
	"github.com/Faultbox/stairgen/pkg/vmf"
)

const fixtureDir = "../../internal/stairs/testdata"

// isolate keeps tests away from any user config file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)
	return dir
}

func copyFixture(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixtureDir, "stairs.vmf"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	path := filepath.Join(dir, "stairs.vmf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--quiet"))
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate_InPlace(t *testing.T) {
	dir := isolate(t)
	path := copyFixture(t, dir)
	original, _ := os.ReadFile(path)

	out, err := execute(t, "generate", path, "--output", "json")
	if err != nil {
		t.Fatalf("generate error = %v\n%s", err, out)
	}

	var rep struct {
		Found   int `json:"found"`
		Results []struct {
			RampID int `json:"ramp_id"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, out)
	}
	if rep.Found != 1 || len(rep.Results) != 1 || rep.Results[0].RampID != 4 {
		t.Errorf("report = %+v", rep)
	}

	got, _ := os.ReadFile(path)
	want, _ := os.ReadFile(filepath.Join(fixtureDir, "stairs_expected.vmf"))
	if !bytes.Equal(got, want) {
		t.Errorf("rewritten map differs from expected output")
	}

	// the backup restores the original map
	restored := filepath.Join(dir, "restored.vmf")
	if err := mapfile.Restore(path+mapfile.BackupSuffix, restored); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if back, _ := os.ReadFile(restored); !bytes.Equal(back, original) {
		t.Error("backup does not hold the original map")
	}
}

func TestGenerate_OutputFile(t *testing.T) {
	dir := isolate(t)
	path := copyFixture(t, dir)
	original, _ := os.ReadFile(path)
	dest := filepath.Join(dir, "out", "ramps.vmf")

	if out, err := execute(t, "generate", path, "-o", dest, "--output", "text"); err != nil {
		t.Fatalf("generate error = %v\n%s", err, out)
	} else if !strings.Contains(out, "ramps generated: 1") {
		t.Errorf("text report = %q", out)
	}

	if got, _ := os.ReadFile(path); !bytes.Equal(got, original) {
		t.Error("input changed although -o was given")
	}
	if _, err := os.Stat(path + mapfile.BackupSuffix); !os.IsNotExist(err) {
		t.Errorf("unexpected backup: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

// writeBadTemplate moves the marker of the fixture template to its top face.
func writeBadTemplate(t *testing.T, dir string) string {
	t.Helper()
	path := copyFixture(t, dir)
	data, _ := os.ReadFile(path)
	doc, err := vmf.Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	sides := doc.Child("world").Children("solid")[1].Children("side")
	sides[0].SetString("material", "SIGNS/STAIRS_RED")
	sides[3].SetString("material", "TOOLS/TOOLSSKIP")
	if err := os.WriteFile(path, vmf.Marshal(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerate_AbortLeavesMap(t *testing.T) {
	dir := isolate(t)
	path := writeBadTemplate(t, dir)
	before, _ := os.ReadFile(path)

	out, err := execute(t, "generate", path, "--output", "json")
	if err == nil {
		t.Fatalf("generate should fail on a top-marked template\n%s", out)
	}
	if !strings.Contains(err.Error(), "nothing written") {
		t.Errorf("error = %v", err)
	}
	if got, _ := os.ReadFile(path); !bytes.Equal(got, before) {
		t.Error("map changed after aborted run")
	}
	if _, err := os.Stat(path + mapfile.BackupSuffix); !os.IsNotExist(err) {
		t.Errorf("unexpected backup: %v", err)
	}
}

func TestGenerate_ContinueStillFails(t *testing.T) {
	dir := isolate(t)
	path := writeBadTemplate(t, dir)

	out, err := execute(t, "generate", path, "--on-error", "continue", "--output", "table")
	if err == nil {
		t.Fatal("generate should report the bad template")
	}
	if !strings.Contains(out, "marker is on a top or bottom face") {
		t.Errorf("table output = %q", out)
	}
}

func TestTemplates(t *testing.T) {
	dir := isolate(t)
	path := copyFixture(t, dir)

	out, err := execute(t, "templates", path, "--output", "table")
	if err != nil {
		t.Fatalf("templates error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("table = %q", out)
	}
	if fields := strings.Fields(lines[1]); fields[0] != "3" || fields[1] != "east" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestDump_Query(t *testing.T) {
	dir := isolate(t)
	path := copyFixture(t, dir)

	out, err := execute(t, "dump", path, "--query", ".world.solid | length")
	if err != nil {
		t.Fatalf("dump error = %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Errorf("dump query = %q, want 2", out)
	}

	out, err = execute(t, "dump", path, "--normals", "--query", `.world.solid[1].side[3]["*normal"]`)
	if err != nil {
		t.Fatalf("dump error = %v", err)
	}
	if strings.TrimSpace(out) != `"1 0 0"` {
		t.Errorf("front normal = %q", out)
	}
}

func TestConfigInitShow(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "stairgen.yaml")

	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("config init should refuse to overwrite")
	}

	out, err := execute(t, "config", "show", "--config", path, "--marker", "SIGNS/CUSTOM")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(out, "marker: SIGNS/CUSTOM") || !strings.Contains(out, "step_length: 12") {
		t.Errorf("config show = %q", out)
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	dir := isolate(t)
	path := copyFixture(t, dir)

	if _, err := execute(t, "templates", path, "--output", "xml"); err == nil {
		t.Error("unknown output format should fail")
	}
}
