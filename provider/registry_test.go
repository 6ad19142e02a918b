package provider_test

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
	"testing"

	"github.com/casualjim/lynx/provider"
	"github.com/casualjim/lynx/provider/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Run("preserves registration order", func(t *testing.T) {
		reg, err := provider.NewRegistry(mock.New("gpt4"), mock.New("claude"), mock.New("local"))
		require.NoError(t, err)
		assert.Equal(t, 3, reg.Len())
		assert.Equal(t, []string{"gpt4", "claude", "local"}, reg.IDs())

		var ids []string
		for p := range reg.All() {
			ids = append(ids, p.ID())
		}
		assert.Equal(t, reg.IDs(), ids)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := provider.NewRegistry(mock.New("gpt4"), mock.New("gpt4"))
		assert.ErrorIs(t, err, provider.ErrDuplicateProvider)
	})

	t.Run("rejects empty ids", func(t *testing.T) {
		_, err := provider.NewRegistry(mock.New(" "))
		assert.ErrorIs(t, err, provider.ErrInvalidProvider)
	})

	t.Run("rejects nil providers", func(t *testing.T) {
		_, err := provider.NewRegistry(nil)
		assert.ErrorIs(t, err, provider.ErrInvalidProvider)
	})

	t.Run("empty registry", func(t *testing.T) {
		reg, err := provider.NewRegistry()
		require.NoError(t, err)
		assert.Equal(t, 0, reg.Len())
		_, found := reg.Get("gpt4")
		assert.False(t, found)
	})
}

func TestRegistry_Get(t *testing.T) {
	gpt4 := mock.New("gpt4")
	reg, err := provider.NewRegistry(gpt4)
	require.NoError(t, err)

	got, found := reg.Get("gpt4")
	require.True(t, found)
	assert.Same(t, gpt4, got)

	_, found = reg.Get("unknown")
	assert.False(t, found)
}

func TestRegistry_IDsIsACopy(t *testing.T) {
	reg, err := provider.NewRegistry(mock.New("a"), mock.New("b"))
	require.NoError(t, err)

	ids := reg.IDs()
	ids[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, reg.IDs())
}

func TestRegistry_NilSafe(t *testing.T) {
	var reg *provider.Registry
	assert.Equal(t, 0, reg.Len())
	assert.Nil(t, reg.IDs())
	_, found := reg.Get("a")
	assert.False(t, found)
	assert.Empty(t, slices.Collect(reg.All()))
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	reg, err := provider.NewRegistry(mock.New("a"), mock.New("b"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, found := reg.Get("a")
			assert.True(t, found)
		}()
	}
	wg.Wait()
}

func TestDescribe(t *testing.T) {
	assert.True(t, provider.Describe(mock.New("local", mock.Local(true))).IsLocal)
	assert.False(t, provider.Describe(plain{}).IsLocal)
}

func TestCollect(t *testing.T) {
	text, err := provider.Collect(context.Background(), mock.New("a", mock.Fragments("Hello", ", ", "world")), "Hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", text)

	text, err = provider.Collect(context.Background(), mock.New("b", mock.Fragments("x", "y"), mock.FailAfter(1, "down")), "Hi")
	assert.EqualError(t, err, "down")
	assert.Equal(t, "x", text)
}

type plain struct{}

func (plain) ID() string   { return "plain" }
func (plain) Name() string { return "Plain" }
func (plain) Stream(context.Context, string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("", errors.New("unused"))
	}
}
