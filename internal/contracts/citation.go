package contracts

import (
	"encoding/json"
	"fmt"
)

// Citation is the provenance record attached to a claim or score
// contribution: an ordered list of URLs, or a restricted-access marker with a
// single URL when a source cannot be parsed programmatically.
//
// The no-uncited-claim invariant is enforced structurally: constructors are
// the only way to obtain a non-empty Citation, and normalizers drop claims
// whose citation is empty.
type Citation struct {
	urls       []string
	restricted bool
}

// Cite builds a citation from one or more URLs. Empty entries are skipped.
func Cite(urls ...string) Citation {
	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			kept = append(kept, u)
		}
	}
	return Citation{urls: kept}
}

// CiteRestricted marks a source as access-restricted, pointing the reader at
// the direct URL. This is a success outcome, not a failure.
func CiteRestricted(url string) Citation {
	return Citation{urls: []string{url}, restricted: true}
}

// Empty reports whether the citation supports nothing.
func (c Citation) Empty() bool {
	return len(c.urls) == 0
}

// Restricted reports whether this is the restricted-access variant.
func (c Citation) Restricted() bool {
	return c.restricted
}

// URLs returns a copy of the supporting URLs in order.
func (c Citation) URLs() []string {
	out := make([]string, len(c.urls))
	copy(out, c.urls)
	return out
}

// Merge unions two citations preserving first-seen order. A restricted flag on
// either side survives the merge.
func (c Citation) Merge(other Citation) Citation {
	seen := make(map[string]bool, len(c.urls))
	merged := make([]string, 0, len(c.urls)+len(other.urls))
	for _, u := range append(c.URLs(), other.urls...) {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		merged = append(merged, u)
	}
	return Citation{urls: merged, restricted: c.restricted || other.restricted}
}

// FactItem is a short textual claim plus its citation. Immutable once created.
type FactItem struct {
	Item     string
	Citation Citation
}

// MarshalJSON renders {"item": ..., "sources": [...]}.
func (f FactItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Item    string   `json:"item"`
		Sources []string `json:"sources"`
	}{
		Item:    f.Item,
		Sources: f.Citation.URLs(),
	})
}

// UnmarshalJSON rebuilds the fact item from its wire shape.
func (f *FactItem) UnmarshalJSON(data []byte) error {
	var aux struct {
		Item    string   `json:"item"`
		Sources []string `json:"sources"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.Item = aux.Item
	f.Citation = Cite(aux.Sources...)
	return nil
}

// FilingsRef points at the filings index for a ticker. The restricted variant
// serializes with the marker key the report contract requires.
type FilingsRef struct {
	URL        string
	Restricted bool
}

// MarshalJSON renders {"url": u} or {"restricted; visit link": u}.
func (f FilingsRef) MarshalJSON() ([]byte, error) {
	key := "url"
	if f.Restricted {
		key = "restricted; visit link"
	}
	return json.Marshal(map[string]string{key: f.URL})
}

// UnmarshalJSON accepts either variant.
func (f *FilingsRef) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if u, ok := m["url"]; ok {
		f.URL = u
		f.Restricted = false
		return nil
	}
	if u, ok := m["restricted; visit link"]; ok {
		f.URL = u
		f.Restricted = true
		return nil
	}
	return fmt.Errorf("filings reference has neither url nor restricted marker")
}

// SubScore is one sub-metric contribution to a module score. Every sub-metric
// contributing to a non-null score carries its sources.
type SubScore struct {
	Name    string   `json:"name"`
	Score   float64  `json:"score"`
	Weight  float64  `json:"weight"`
	Sources []string `json:"sources"`
}
