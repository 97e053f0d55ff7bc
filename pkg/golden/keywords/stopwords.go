package keywords

import (
	"sort"
	"strings"
	"sync"
)

// builtinStopwords covers Italian and English function words.
var builtinStopwords = []string{
	// Italian
	"il", "la", "le", "lo", "gli", "un", "una", "uno", "di", "da", "del", "della", "dei", "delle",
	"con", "per", "su", "tra", "fra", "in", "a", "ad", "al", "alla", "allo", "ai", "alle", "agli",
	"che", "chi", "cui", "come", "quando", "dove", "mentre", "se", "ma", "però", "quindi", "così",
	"anche", "ancora", "sempre", "mai", "già", "più", "molto", "poco", "tanto", "tutto", "tutti",
	"essere", "avere", "fare", "dire", "andare", "venire", "volere", "potere", "dovere", "sapere",
	"sono", "sei", "è", "siamo", "siete", "ho", "hai", "ha", "abbiamo", "avete", "hanno",
	"faccio", "fai", "fa", "facciamo", "fate", "fanno", "dico", "dici", "dice", "diciamo", "dite", "dicono",
	"questo", "questa", "questi", "queste", "quello", "quella", "quelli", "quelle", "altro", "altri", "altre",

	// English
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"from", "about", "into", "through", "during", "before", "after", "above", "below", "up", "down",
	"out", "off", "over", "under", "again", "further", "then", "once", "here", "there", "when",
	"where", "why", "how", "all", "any", "both", "each", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than", "too", "very", "can", "will",
	"just", "should", "now", "i", "you", "he", "she", "it", "we", "they", "them", "their", "what",
	"which", "who", "whom", "this", "that", "these", "those", "am", "is", "are", "was", "were",
	"be", "been", "being", "have", "has", "had", "having", "do", "does", "did", "doing", "would",
	"could", "may", "might", "must", "shall", "get", "got", "getting", "give", "gave",
	"given", "giving", "go", "goes", "going", "went", "gone", "make", "makes", "made", "making",
}

// DefaultStopwords returns a copy of the built-in stopword list.
func DefaultStopwords() []string {
	out := make([]string, len(builtinStopwords))
	copy(out, builtinStopwords)
	return out
}

// Manager holds the stopword set consulted by the extractor.
// It is safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	stops map[string]struct{}
}

// NewManager creates a manager seeded with the given words (lower-cased).
func NewManager(initial []string) *Manager {
	stops := make(map[string]struct{}, len(initial))
	for _, w := range initial {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Manager{stops: stops}
}

// NewDefaultManager creates a manager seeded with the built-in list.
func NewDefaultManager() *Manager {
	return NewManager(builtinStopwords)
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	m.mu.RLock()
	_, ok := m.stops[token]
	m.mu.RUnlock()
	return ok
}

// Add adds words to the stoplist
func (m *Manager) Add(words ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			m.stops[w] = struct{}{}
		}
	}
}

// Remove removes a word from the stoplist
func (m *Manager) Remove(word string) {
	m.mu.Lock()
	delete(m.stops, strings.ToLower(word))
	m.mu.Unlock()
}

// All returns all stopwords, sorted.
func (m *Manager) All() []string {
	m.mu.RLock()
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	m.mu.RUnlock()
	sort.Strings(result)
	return result
}

// Len returns the number of stopwords.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stops)
}
