package mock

import (
	"context"
	"testing"
	"time"

	"github.com/casualjim/lynx/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ctx context.Context, p *Provider) ([]string, error) {
	t.Helper()
	var got []string
	for fragment, err := range p.Stream(ctx, "Hi") {
		if err != nil {
			return got, err
		}
		got = append(got, fragment)
	}
	return got, nil
}

func TestNew_Defaults(t *testing.T) {
	p := New("gpt4", Name("GPT-4"))
	assert.Equal(t, "gpt4", p.ID())
	assert.Equal(t, "GPT-4", p.Name())
	assert.False(t, p.Metadata().IsLocal)

	got, err := collect(t, context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"This ", "is ", "response ", "from ", "GPT-4", ". "}, got)
}

func TestStream_Fragments(t *testing.T) {
	p := New("fast", Fragments("Start ", "Middle ", "End"), Delay(5*time.Millisecond), Local(true))
	assert.True(t, provider.Describe(p).IsLocal)

	start := time.Now()
	got, err := collect(t, context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Start ", "Middle ", "End"}, got)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestStream_IndependentCalls(t *testing.T) {
	p := New("fast", Fragments("a", "b"))

	first, err := collect(t, context.Background(), p)
	require.NoError(t, err)
	second, err := collect(t, context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStream_FailAfter(t *testing.T) {
	tests := []struct {
		name  string
		after int
		want  []string
	}{
		{name: "immediately", after: 0, want: nil},
		{name: "mid stream", after: 2, want: []string{"a", "b"}},
		{name: "after last fragment", after: 3, want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("flaky", Fragments("a", "b", "c"), FailAfter(tt.after, "backend exploded"))
			got, err := collect(t, context.Background(), p)
			require.EqualError(t, err, "backend exploded")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFailAfter_Negative(t *testing.T) {
	assert.Panics(t, func() {
		New("flaky", FailAfter(-1, "nope"))
	})
}

func TestStream_Hang(t *testing.T) {
	p := New("stuck", Fragments("a"), Hang(true))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := collect(t, ctx, p)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"a"}, got)
}

func TestStream_CancelDuringDelay(t *testing.T) {
	p := New("slow", Fragments("a", "b"), Delay(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	got, err := collect(t, ctx, p)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestStream_EarlyBreak(t *testing.T) {
	p := New("fast", Fragments("a", "b", "c"))

	var got []string
	for fragment, err := range p.Stream(context.Background(), "Hi") {
		require.NoError(t, err)
		got = append(got, fragment)
		if len(got) == 1 {
			break
		}
	}
	assert.Equal(t, []string{"a"}, got)
}
