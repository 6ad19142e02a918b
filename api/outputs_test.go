package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputs(t *testing.T) {
	o := NewOutputs("slow", "fast", "slow")
	assert.Equal(t, 2, o.Len())

	o.Append("fast", "Hel")
	o.Append("slow", "A")
	o.Append("fast", "lo")

	fast, ok := o.Get("fast")
	assert.True(t, ok)
	assert.Equal(t, "Hello", fast)

	_, ok = o.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"A", "Hello"}, o.Texts(), "selection order, not arrival order")

	var ids []string
	for id := range o.All() {
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"slow", "fast"}, ids)
}

func TestOutputs_Nil(t *testing.T) {
	var o *Outputs
	assert.Zero(t, o.Len())
	assert.Empty(t, o.Texts())
	_, ok := o.Get("x")
	assert.False(t, ok)
}
