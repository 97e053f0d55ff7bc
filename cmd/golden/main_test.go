package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/golden/pkg/golden"
	"github.com/cognicore/golden/pkg/golden/classify"
	"github.com/cognicore/golden/pkg/golden/keywords"
)

const invoiceText = "INVOICE #2945\nBill To: PT Example Studio\nDue Date: 31 October 2024\n\nSubtotal: $2,200.00\nTax (11%): $242.00\nTotal Amount Due: $2,442.00\n\nPayment Terms: Bank transfer within 7 days."

// run executes the CLI with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.Reader = strings.NewReader(stdin)
	if err := app.Run(append([]string{"golden", "--quiet"}, args...)); err != nil {
		t.Fatalf("golden %v: %v\nstderr: %s", args, err, errOut.String())
	}
	return out.String()
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "golden.yaml")
	content := "persist:\n  driver: file\n  path: snapshots\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClassifyCommand(t *testing.T) {
	out := run(t, "", "--no-cache", "classify", "--text", invoiceText)
	var res classify.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if res.Type != classify.Invoice {
		t.Errorf("Expected invoice, got %s", res.Type)
	}
}

func TestAnalyzeFromStdin(t *testing.T) {
	out := run(t, invoiceText, "--no-cache", "analyze", "--only", "keywords,classification")
	var res golden.AnalysisResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(res.Keywords) == 0 || res.Classification == nil {
		t.Errorf("Expected keywords and classification, got %+v", res)
	}
	if res.Sections != nil || res.Patterns != nil {
		t.Error("Unselected parts should be null")
	}
}

func TestAnalyzeHTML(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	if err := os.WriteFile(page, []byte("<html><body><h1>Golden</h1><p>Golden spirals everywhere.</p></body></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := run(t, "", "--no-cache", "--html", "keywords", page)
	var kws []keywords.Keyword
	if err := json.Unmarshal([]byte(out), &kws); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	for _, k := range kws {
		if strings.Contains(k.Term, "<") || k.Term == "body" || k.Term == "html" {
			t.Errorf("Markup leaked into keywords: %q", k.Term)
		}
	}
}

func TestPatternsCommand(t *testing.T) {
	out := run(t, "", "--no-cache", "patterns", "--recursive", "--fractal", "--text", "golden ratio golden ratio golden spiral")
	var res patternsOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(res.RecursivePatterns) == 0 {
		t.Error("Expected recursive patterns")
	}
	if res.FractalDimension == nil {
		t.Error("Expected a fractal dimension")
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "docs.jsonl")
	lines := `{"id":"inv","text":"Invoice 123 total due $450.00"}` + "\n" + `{"id":"note","text":"Dear friend, thank you for the lovely visit."}` + "\n"
	if err := os.WriteFile(corpusPath, []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}

	out := run(t, "", "--no-cache", "batch", "--workers", "2", corpusPath)
	rows := strings.Split(strings.TrimSpace(out), "\n")
	if len(rows) != 2 {
		t.Fatalf("Expected 2 result lines, got %d:\n%s", len(rows), out)
	}
	var first batchResult
	if err := json.Unmarshal([]byte(rows[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first.DocID != "inv" || first.Classification == nil || first.Classification.Type != classify.Invoice {
		t.Errorf("Unexpected first result %+v", first)
	}
}

func TestCacheSnapshotsPersist(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	run(t, "", "--config", cfg, "analyze", "--text", invoiceText)
	if _, err := os.Stat(filepath.Join(dir, "snapshots", "classification.json")); err != nil {
		t.Fatalf("Expected a classification snapshot: %v", err)
	}

	out := run(t, "", "--config", cfg, "cache", "stats", "--json")
	var st golden.Stats
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if st.Caches["classification"].TotalEntries != 1 {
		t.Errorf("Expected the restored classification entry, got %+v", st.Caches["classification"])
	}

	table := run(t, "", "--config", cfg, "cache", "stats")
	if !strings.Contains(table, "classification") || !strings.Contains(table, "HIT RATE") {
		t.Errorf("Unexpected stats table:\n%s", table)
	}

	run(t, "", "--config", cfg, "cache", "clear")
	out = run(t, "", "--config", cfg, "cache", "stats", "--json")
	st = golden.Stats{}
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatal(err)
	}
	if st.Caches["classification"].TotalEntries != 0 {
		t.Error("cache clear should empty the snapshots")
	}
}

func TestUnknownPart(t *testing.T) {
	if _, err := parseSelection([]string{"sections,bogus"}); err == nil {
		t.Error("Expected an error for an unknown part")
	}
	sel, err := parseSelection(nil)
	if err != nil || sel != golden.All() {
		t.Errorf("Empty selection should select everything, got %+v, %v", sel, err)
	}
}
