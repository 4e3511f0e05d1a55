package cascade

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSegmentMatchers(t *testing.T) {
	tests := []struct {
		name    string
		matcher SegmentMatcher
		a, b    string
		want    bool
	}{
		{"exact equal", ExactSegment, "get", "get", true},
		{"exact different", ExactSegment, "get", "set", false},
		{"exact star is literal", ExactSegment, "*", "get", false},
		{"wildcard star left", WildcardSegment, "*", "get", true},
		{"wildcard star right", WildcardSegment, "get", "*", true},
		{"wildcard prefix", WildcardSegment, "so*", "some", true},
		{"wildcard suffix", WildcardSegment, "some", "*me", true},
		{"wildcard infix", WildcardSegment, "s*e", "some", true},
		{"wildcard whole segment only", WildcardSegment, "so*", "xsome", false},
		{"wildcard no star", WildcardSegment, "get", "set", false},
		{"wildcard question mark is literal", WildcardSegment, "a?c", "abc", false},
		{"wildcard star matches empty", WildcardSegment, "get*", "get", true},
		{"list left", ListOptionSegment, "{get,set}", "set", true},
		{"list right", ListOptionSegment, "get", "{get,set}", true},
		{"list miss", ListOptionSegment, "{get,set}", "put", false},
		{"list equality", ListOptionSegment, "put", "put", true},
		{"list not braced", ListOptionSegment, "get,set", "get", false},
		{"list empty option", ListOptionSegment, "{a,}", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.matcher(tt.a, tt.b))
		})
	}
}

func TestFilterSegmentCount(t *testing.T) {
	f := NewFilter(WildcardSegment, ListOptionSegment)

	assert.True(t, f.Match("some.event.name", "some.*.name"))
	assert.False(t, f.Match("some.event.name", "some.*"))
	assert.False(t, f.Match("some.event", "*.*.*"))
	assert.False(t, f.Match("a.b", "{a.b,c}"))
}

func TestFilterAdvanced(t *testing.T) {
	assert.False(t, NewFilter().Advanced())
	assert.False(t, NewFilter(nil).Advanced())
	assert.True(t, NewFilter(WildcardSegment).Advanced())
}

// invocations registers a counting handler on pattern, emits name and
// returns how often the handler ran.
func invocations(t *testing.T, em *Emitter, pattern, name string) int {
	t.Helper()
	count := 0
	l, err := em.On(pattern, func(_ context.Context, _ *Event, _ ...any) (any, error) {
		count++
		return nil, nil
	})
	require.NoError(t, err)
	defer l.Close()

	_, err = em.Emit(context.Background(), name)
	require.NoError(t, err)
	return count
}

func TestMatchingPatterns(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		event     string
		matched   []string
		unmatched []string
	}{
		{
			name:  "wildcards enabled",
			opts:  []Option{WithWildcards()},
			event: "some.event.name",
			matched: []string{
				"*.event.name", "some.*.name", "so*.*.name", "some.event.*", "some.event.name",
			},
			unmatched: []string{
				"some.event.that.does.not.match", "some.*.other.event", "some.*",
			},
		},
		{
			name:      "wildcards disabled",
			event:     "event.name.with.*things*.that.would.otherwise.be.*wildcards*.*",
			matched:   []string{"event.name.with.*things*.that.would.otherwise.be.*wildcards*.*"},
			unmatched: []string{"simple.event", "event.name.*.*.*.*.*.*.*.*", "event.name.*"},
		},
		{
			name:      "list options enabled",
			opts:      []Option{WithListOptions()},
			event:     "this.event.name",
			matched:   []string{"this.event.name", "{this,that,some}.event.name"},
			unmatched: []string{"that.event.name", "*.event.name", "this.*.name"},
		},
		{
			name:      "list options disabled",
			event:     "this.event.name",
			matched:   []string{"this.event.name"},
			unmatched: []string{"{this,that,some}.event.name", "that.event.name", "*.event.name", "this.*.name"},
		},
		{
			name:  "default lifecycles",
			opts:  []Option{WithDefaultLifecycles()},
			event: "event.name",
			matched: []string{
				"early:event.name", "before:event.name", "event.name", "after:event.name", "late:event.name",
			},
			unmatched: []string{"*.event.name", "before.event.name"},
		},
		{
			name:  "custom lifecycles",
			opts:  []Option{WithLifecycles("one", "two", "default", "three", "four")},
			event: "event.name",
			matched: []string{
				"one:event.name", "two:event.name", "event.name", "three:event.name", "four:event.name",
			},
			unmatched: []string{"*.event.name", "one.event.name"},
		},
		{
			name:  "wildcards and list options",
			opts:  []Option{WithWildcards(), WithListOptions()},
			event: "this.event.name",
			matched: []string{
				"this.event.name", "{this,that,some}.event.name", "*.event.name",
				"this.*.name", "*.{event,thing}.*", "*.*.*",
			},
			unmatched: []string{"that.event.name", "{this.event,that.event}.name"},
		},
		{
			name: "custom lifecycles with wildcards and list options",
			opts: []Option{
				WithWildcards(), WithListOptions(),
				WithLifecycles("one", "two", "default", "three", "four"),
			},
			event: "event.name",
			matched: []string{
				"one:event.name", "two:event.name", "event.name", "three:event.name", "four:event.name",
				"event.*", "*.name", "one:*.name", "three:event.{name,test}",
			},
			unmatched: []string{"*.event.name", "one.event.name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, pattern := range tt.matched {
				em := New(tt.opts...)
				assert.Equal(t, 1, invocations(t, em, pattern, tt.event), "pattern %q should match %q", pattern, tt.event)
			}
			for _, pattern := range tt.unmatched {
				em := New(tt.opts...)
				assert.Equal(t, 0, invocations(t, em, pattern, tt.event), "pattern %q should not match %q", pattern, tt.event)
			}
		})
	}
}

func TestWildcardScenario(t *testing.T) {
	em := New(WithWildcards())
	calls := 0
	_, err := em.On("data.*", func(_ context.Context, _ *Event, _ ...any) (any, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)

	_, err = em.Emit(context.Background(), "data.get")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = em.Emit(context.Background(), "other.get")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestListOptionScenario(t *testing.T) {
	em := New(WithListOptions())
	var seen []string
	_, err := em.On("{a,b,c}.event", func(_ context.Context, e *Event, _ ...any) (any, error) {
		seen = append(seen, e.Name)
		return nil, nil
	})
	require.NoError(t, err)

	_, err = em.Emit(context.Background(), "b.event")
	require.NoError(t, err)
	_, err = em.Emit(context.Background(), "d.event")
	require.NoError(t, err)

	assert.Equal(t, []string{"b.event"}, seen)
}

var segmentGen = rapid.StringMatching(`[a-c*{},]{0,4}`)

func TestFilterSegmentCountProperty(t *testing.T) {
	f := NewFilter(WildcardSegment, ListOptionSegment)
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.SliceOfN(segmentGen, 1, 6).Draw(t, "name")
		longer := len(name) + rapid.IntRange(1, 3).Draw(t, "extra")
		pattern := rapid.SliceOfN(segmentGen, longer, longer).Draw(t, "pattern")
		if rapid.Bool().Draw(t, "swap") {
			name, pattern = pattern, name
		}
		if f.Match(strings.Join(name, Separator), strings.Join(pattern, Separator)) {
			t.Fatalf("%q matched %q with a different segment count", name, pattern)
		}
	})
}

func TestSegmentMatcherSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := segmentGen.Draw(t, "a")
		b := segmentGen.Draw(t, "b")
		for _, m := range []SegmentMatcher{ExactSegment, WildcardSegment, ListOptionSegment} {
			if m(a, b) != m(b, a) {
				t.Fatalf("matcher not symmetric for %q, %q", a, b)
			}
		}
	})
}
