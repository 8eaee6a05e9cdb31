package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/samirrijal/butterflyguide/internal/adapters/memory"
	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/workflows"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BUTTERFLY_CLASSIFIER_SEED", "7")
	t.Setenv("BUTTERFLY_LOG_LEVEL", "error")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestIdentifyCommand_Table(t *testing.T) {
	out, err := runCLI(t, "identify", "orange", "black", "veins")
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if !strings.Contains(out, "Monarch") || !strings.Contains(out, "matched") {
		t.Errorf("expected a Monarch match, got:\n%s", out)
	}
}

func TestIdentifyCommand_JSON(t *testing.T) {
	out, err := runCLI(t, "--json", "identify", "--source", "voice", "shiny blue wings")
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	var resp struct {
		Identified     bool                  `json:"identified"`
		Identification domain.Identification `json:"identification"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !resp.Identified || resp.Identification.Species != domain.BlueMorpho {
		t.Errorf("expected Blue Morpho, got %+v", resp)
	}
	if resp.Identification.Source != domain.SourceVoice {
		t.Errorf("expected voice source, got %q", resp.Identification.Source)
	}
}

func TestIdentifyCommand_BadSource(t *testing.T) {
	if _, err := runCLI(t, "identify", "--source", "smoke", "orange"); err == nil {
		t.Fatal("expected an error for an unknown source")
	}
}

func TestSpeciesCommand(t *testing.T) {
	out, err := runCLI(t, "species")
	if err != nil {
		t.Fatalf("species: %v", err)
	}
	for _, name := range []string{"Monarch", "Blue Morpho", "Red Admiral", "painted-lady"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %q in:\n%s", name, out)
		}
	}
}

func TestMigrationCommand(t *testing.T) {
	out, err := runCLI(t, "migration", "monarch")
	if err != nil {
		t.Fatalf("migration: %v", err)
	}
	if !strings.Contains(out, "Mexico") || !strings.Contains(out, "Midwest USA") || !strings.Contains(strings.ToUpper(out), "TOTAL") {
		t.Errorf("unexpected timeline output:\n%s", out)
	}

	out, err = runCLI(t, "--json", "migration", "Monarch", "--month", "jun")
	if err != nil {
		t.Fatalf("migration --month: %v", err)
	}
	var wv domain.WaypointView
	if err := json.Unmarshal([]byte(out), &wv); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if wv.Place != "Midwest USA" || wv.Index != 2 {
		t.Errorf("expected Midwest USA at index 2, got %+v", wv)
	}
}

func TestMigrationCommand_Errors(t *testing.T) {
	if _, err := runCLI(t, "migration", "unicorn"); err == nil {
		t.Error("expected unknown species error")
	}
	if _, err := runCLI(t, "migration", "monarch", "--month", "dec"); err == nil {
		t.Error("expected missing month error")
	}
}

func TestImportNotes(t *testing.T) {
	csvData := "\ufefftext,source\n" +
		"orange and black veins,text\n" +
		"\"shiny, iridescent blue\",voice\n" +
		",text\n" +
		"yellow tail,smoke\n" +
		"a bold red admiral,\n"

	var n int
	classify := func(text string, source domain.InputSource) *domain.Identification {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		n++
		species := domain.Monarch
		switch {
		case strings.Contains(text, "blue"):
			species = domain.BlueMorpho
		case strings.Contains(text, "admiral"):
			species = domain.RedAdmiral
		}
		return &domain.Identification{ID: string(rune('a' + n)), Species: species, Source: source, Input: text}
	}

	repo := memory.NewIdentificationRepo(10)
	summary, err := importNotes(context.Background(), strings.NewReader(csvData), classify, repo)
	if err != nil {
		t.Fatalf("importNotes: %v", err)
	}
	if summary.Imported != 3 || summary.Skipped != 2 {
		t.Errorf("expected 3 imported and 2 skipped, got %+v", summary)
	}
	if summary.BySpecies[domain.BlueMorpho] != 1 || summary.BySpecies[domain.RedAdmiral] != 1 {
		t.Errorf("unexpected per-species counts %v", summary.BySpecies)
	}
	count, _ := repo.Count(context.Background())
	if count != 3 {
		t.Errorf("expected 3 stored identifications, got %d", count)
	}
}

func TestImportNotes_MissingTextColumn(t *testing.T) {
	_, err := importNotes(context.Background(), strings.NewReader("note\nhello\n"), nil, nil)
	if err == nil {
		t.Fatal("expected an error for a header without a text column")
	}
}

func TestSubmitInput(t *testing.T) {
	in, err := submitInput([]string{"orange", "veins"}, "Voice")
	if err != nil {
		t.Fatalf("submitInput: %v", err)
	}
	if in.Text != "orange veins" || in.Source != domain.SourceVoice {
		t.Errorf("unexpected input %+v", in)
	}

	in, err = submitInput([]string{"eyespot"}, "")
	if err != nil || in.Source != domain.SourceText {
		t.Errorf("expected default text source, got %+v, %v", in, err)
	}

	if _, err := submitInput([]string{"x"}, "upload"); err == nil {
		t.Error("expected upload source to be rejected")
	}
	if _, err := submitInput([]string{"x"}, "smoke"); err == nil {
		t.Error("expected unknown source to be rejected")
	}
}

func TestPrintSubmitResult(t *testing.T) {
	render := func(asJSON bool, res workflows.IdentificationResult) string {
		t.Helper()
		var out bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetOut(&out)
		if err := printSubmitResult(cmd, asJSON, res); err != nil {
			t.Fatalf("printSubmitResult: %v", err)
		}
		return out.String()
	}

	if out := render(false, workflows.IdentificationResult{}); !strings.Contains(out, "Nothing to identify.") {
		t.Errorf("expected empty message, got %q", out)
	}

	res := workflows.IdentificationResult{
		Identified:     true,
		Identification: &domain.Identification{ID: "id-1", Species: domain.Peacock, Outcome: domain.OutcomeMatched, Score: 2},
	}
	if out := render(false, res); !strings.Contains(out, "Recorded id-1 as Peacock") {
		t.Errorf("unexpected text output %q", out)
	}

	var decoded struct {
		Identified bool `json:"identified"`
	}
	if err := json.Unmarshal([]byte(render(true, workflows.IdentificationResult{})), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Identified {
		t.Error("expected identified=false for an empty description")
	}
}
