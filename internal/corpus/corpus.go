// Package corpus reads batches of documents for the CLI.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const maxLineBytes = 16 << 20

// Document is one line of a JSONL corpus. Body falls back to the "body"
// field for feeds that use it.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Text  string `json:"text"`
	Body  string `json:"body,omitempty"`
}

// Content returns the text to analyse.
func (d Document) Content() string {
	if d.Text != "" {
		return d.Text
	}
	return d.Body
}

// LoadFromJSONL loads documents from a JSONL file.
func LoadFromJSONL(path string, logger *slog.Logger) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	docs, err := Read(f, logger)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return docs, nil
}

// Read parses JSONL from r. Malformed lines and lines without text are
// skipped with a warning; documents without an ID get their line number.
func Read(r io.Reader, logger *slog.Logger) ([]Document, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var docs []Document
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}

		var doc Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			logger.Warn("skipping malformed JSON", "line", line, "err", err)
			continue
		}
		if strings.TrimSpace(doc.Content()) == "" {
			logger.Warn("skipping document without text", "line", line)
			continue
		}
		if doc.ID == "" {
			doc.ID = strconv.Itoa(line)
		}
		docs = append(docs, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid documents found")
	}
	return docs, nil
}
