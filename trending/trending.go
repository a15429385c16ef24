// Package trending picks industry-specific trending topics for an account.
package trending

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eringen/marketdesk/model"
)

// DefaultCount is how many topics Topics returns.
const DefaultCount = 8

//go:embed topics.yaml
var defaultTable []byte

// Rule maps a keyword set to a bucket, with optional refinements tried in
// order once the rule matches.
type Rule struct {
	Name   string   `yaml:"name"`
	Match  []string `yaml:"match"`
	Refine []Rule   `yaml:"refine"`
	Bucket string   `yaml:"bucket"`
}

// Table is an ordered classification table plus the topics for each bucket.
type Table struct {
	Rules    []Rule              `yaml:"rules"`
	Fallback string              `yaml:"fallback"`
	Buckets  map[string][]string `yaml:"topics"`
}

// Parse decodes and validates a YAML table.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("trending: parse table: %w", err)
	}
	if _, ok := t.Buckets[t.Fallback]; !ok {
		return nil, fmt.Errorf("trending: fallback bucket %q has no topics", t.Fallback)
	}
	for _, r := range t.Rules {
		for _, b := range append([]Rule{r}, r.Refine...) {
			if _, ok := t.Buckets[b.Bucket]; !ok {
				return nil, fmt.Errorf("trending: bucket %q has no topics", b.Bucket)
			}
		}
	}
	return &t, nil
}

var builtin = mustParse(defaultTable)

func mustParse(data []byte) *Table {
	t, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the built-in table.
func Default() *Table {
	return builtin
}

// ContextText is the lower-cased text the classifier searches.
func ContextText(a model.Account) string {
	return strings.ToLower(strings.Join([]string{
		a.Industry, a.Description, a.Name, a.Products, a.Expertise,
	}, " "))
}

// Classify returns the bucket for text. The first matching rule wins.
func (t *Table) Classify(text string) string {
	for _, r := range t.Rules {
		if !containsAny(text, r.Match) {
			continue
		}
		for _, sub := range r.Refine {
			if containsAny(text, sub.Match) {
				return sub.Bucket
			}
		}
		return r.Bucket
	}
	return t.Fallback
}

// Bucket returns the static topic list for bucket, or the fallback list.
func (t *Table) Bucket(bucket string) []string {
	if topics, ok := t.Buckets[bucket]; ok {
		return topics
	}
	return t.Buckets[t.Fallback]
}

// Topics classifies the account and returns n shuffled topics from its bucket.
func (t *Table) Topics(a model.Account, n int) (string, []string) {
	bucket := t.Classify(ContextText(a))
	topics := append([]string(nil), t.Bucket(bucket)...)
	rand.Shuffle(len(topics), func(i, j int) {
		topics[i], topics[j] = topics[j], topics[i]
	})
	if n > 0 && n < len(topics) {
		topics = topics[:n]
	}
	return bucket, topics
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
