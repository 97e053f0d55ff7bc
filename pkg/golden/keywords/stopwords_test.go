package keywords

import "testing"

func TestManagerDefaults(t *testing.T) {
	m := NewDefaultManager()
	for _, w := range []string{"the", "della", "però", "making"} {
		if !m.IsStop(w) {
			t.Errorf("Expected %q to be a built-in stopword", w)
		}
	}
	if m.IsStop("golden") {
		t.Error("'golden' should not be a stopword")
	}
}

func TestManagerAddRemove(t *testing.T) {
	m := NewManager(nil)
	m.Add("Foo", "  ", "bar")
	if !m.IsStop("foo") || !m.IsStop("bar") {
		t.Error("Added words should be lower-cased stopwords")
	}
	if m.Len() != 2 {
		t.Errorf("Blank words should be ignored, got %d entries", m.Len())
	}
	m.Remove("FOO")
	if m.IsStop("foo") {
		t.Error("Removed word should no longer be a stopword")
	}
	if all := m.All(); len(all) != 1 || all[0] != "bar" {
		t.Errorf("All() = %v, want [bar]", all)
	}
}

func TestDefaultStopwordsIsCopy(t *testing.T) {
	list := DefaultStopwords()
	list[0] = "mutated"
	if NewDefaultManager().IsStop("mutated") {
		t.Error("DefaultStopwords should return a copy")
	}
}
