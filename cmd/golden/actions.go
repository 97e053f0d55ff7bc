package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/golden/internal/corpus"
	"github.com/cognicore/golden/internal/htmltext"
	"github.com/cognicore/golden/pkg/golden"
	"github.com/cognicore/golden/pkg/golden/patterns"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func analyzeAction(c *cli.Context) error {
	sel, err := parseSelection(c.StringSlice("only"))
	if err != nil {
		return err
	}
	text, err := readInput(c)
	if err != nil {
		return err
	}
	engine, cleanup, logger, err := engineFor(c)
	if err != nil {
		return err
	}
	defer cleanup()

	res := engine.AnalyzePartial(c.Context, text, sel)
	logger.Info("analysis complete", "id", res.ID, "length", res.Input.Length, "cache_efficiency", res.Cache.Efficiency)
	return writeJSON(c.App.Writer, res)
}

func segmentAction(c *cli.Context) error {
	text, err := readInput(c)
	if err != nil {
		return err
	}
	engine, cleanup, _, err := engineFor(c)
	if err != nil {
		return err
	}
	defer cleanup()
	return writeJSON(c.App.Writer, engine.Sections(c.Context, text))
}

func keywordsAction(c *cli.Context) error {
	text, err := readInput(c)
	if err != nil {
		return err
	}
	engine, cleanup, _, err := engineFor(c)
	if err != nil {
		return err
	}
	defer cleanup()
	return writeJSON(c.App.Writer, engine.Keywords(c.Context, text, c.Int("limit")))
}

type patternsOutput struct {
	Patterns          []patterns.Match `json:"patterns"`
	RecursivePatterns []patterns.Match `json:"recursive_patterns,omitempty"`
	FractalDimension  *float64         `json:"fractal_dimension,omitempty"`
}

func patternsAction(c *cli.Context) error {
	text, err := readInput(c)
	if err != nil {
		return err
	}
	engine, cleanup, _, err := engineFor(c)
	if err != nil {
		return err
	}
	defer cleanup()

	out := patternsOutput{Patterns: engine.Patterns(c.Context, text)}
	if c.Bool("recursive") {
		out.RecursivePatterns = engine.RecursivePatterns(c.Context, text, c.Int("depth"))
	}
	if c.Bool("fractal") {
		d := engine.FractalDimension(c.Context, text)
		out.FractalDimension = &d
	}
	return writeJSON(c.App.Writer, out)
}

func classifyAction(c *cli.Context) error {
	text, err := readInput(c)
	if err != nil {
		return err
	}
	engine, cleanup, _, err := engineFor(c)
	if err != nil {
		return err
	}
	defer cleanup()
	return writeJSON(c.App.Writer, engine.Classify(c.Context, text))
}

type batchResult struct {
	DocID string `json:"doc_id"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	golden.AnalysisResult
}

func batchAction(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("batch needs exactly one corpus file")
	}
	engine, cleanup, logger, err := engineFor(c)
	if err != nil {
		return err
	}
	defer cleanup()

	docs, err := corpus.LoadFromJSONL(c.Args().First(), logger)
	if err != nil {
		return err
	}

	workers := c.Int("workers")
	if workers < 1 {
		workers = 1
	}
	results := make([]batchResult, len(docs))
	g, ctx := errgroup.WithContext(c.Context)
	g.SetLimit(workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text := doc.Content()
			if c.Bool("html") {
				text = htmltext.String(text)
			}
			results[i] = batchResult{
				DocID:          doc.ID,
				Title:          doc.Title,
				URL:            doc.URL,
				AnalysisResult: engine.Analyze(ctx, text),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetEscapeHTML(false)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	logger.Info("batch complete", "documents", len(docs), "workers", workers)
	return nil
}

func cacheStatsAction(c *cli.Context) error {
	engine, cleanup, _, err := engineFor(c)
	if err != nil {
		return err
	}
	defer cleanup()

	st := engine.Stats()
	if c.Bool("json") {
		return writeJSON(c.App.Writer, st)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "sections\t%d\n", st.Modules.MaxSections)
	fmt.Fprintf(w, "keywords\t%d (min length %d, %d stopwords)\n", st.Modules.MaxKeywords, st.Modules.MinWordLength, st.Modules.Stopwords)
	fmt.Fprintf(w, "patterns\t%d (depth %d, %d custom rules)\n", st.Modules.MaxPatterns, st.Modules.PatternDepth, st.Modules.CustomRules)
	fmt.Fprintf(w, "language detection\t%t\n", st.Modules.LanguageCheck)
	if !st.Modules.CacheEnabled {
		fmt.Fprintln(w, "caches\tdisabled")
		return w.Flush()
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "CACHE\tENTRIES\tHIT RATE\tAVG AGE\tAVG DECAY\tMEMORY")
	names := make([]string, 0, len(st.Caches))
	for name := range st.Caches {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cs := st.Caches[name]
		fmt.Fprintf(w, "%s\t%d/%d\t%.1f%%\t%s\t%.3f\t%s\n",
			name, cs.TotalEntries, cs.MaxEntries, cs.HitRate*100,
			cs.AverageAge.Round(time.Second), cs.AverageDecay, humanize.Bytes(uint64(cs.MemoryUsage)))
	}
	return w.Flush()
}

func cacheClearAction(c *cli.Context) error {
	engine, cleanup, logger, err := engineFor(c)
	if err != nil {
		return err
	}
	defer cleanup()

	engine.ClearCaches()
	logger.Info("caches cleared")
	return nil
}
