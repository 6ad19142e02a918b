package api

import (
	"iter"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Outputs accumulates the text each participant produced during one run,
// keyed by provider id in selection order. It is not safe for concurrent use:
// a single goroutine records chunks while it relays them.
type Outputs struct {
	texts *orderedmap.OrderedMap[string, *strings.Builder]
}

// NewOutputs creates an accumulation seeded with an empty entry for every id.
// Repeated ids share one entry.
func NewOutputs(ids ...string) *Outputs {
	o := &Outputs{texts: orderedmap.New[string, *strings.Builder]()}
	for _, id := range ids {
		o.entry(id)
	}
	return o
}

func (o *Outputs) entry(id string) *strings.Builder {
	if b, ok := o.texts.Get(id); ok {
		return b
	}
	b := &strings.Builder{}
	o.texts.Set(id, b)
	return b
}

// Append adds a fragment to the text recorded for id.
func (o *Outputs) Append(id, text string) {
	o.entry(id).WriteString(text)
}

// Get returns the text recorded for id.
func (o *Outputs) Get(id string) (string, bool) {
	if o == nil {
		return "", false
	}
	b, ok := o.texts.Get(id)
	if !ok {
		return "", false
	}
	return b.String(), true
}

// Len returns the number of distinct participants.
func (o *Outputs) Len() int {
	if o == nil {
		return 0
	}
	return o.texts.Len()
}

// All iterates over (id, text) pairs in selection order.
func (o *Outputs) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if o == nil {
			return
		}
		for pair := o.texts.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value.String()) {
				return
			}
		}
	}
}

// Texts returns the recorded texts in selection order.
func (o *Outputs) Texts() []string {
	texts := make([]string, 0, o.Len())
	for _, text := range o.All() {
		texts = append(texts, text)
	}
	return texts
}
