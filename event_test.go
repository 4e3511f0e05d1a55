package cascade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewEvent(t *testing.T) {
	e := newEvent("user.created")
	assert.Equal(t, "user.created", e.Name)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.False(t, e.DefaultPrevented())
}

func TestEventPreventDefault(t *testing.T) {
	e := newEvent("x")
	e.PreventDefault()
	e.PreventDefault()
	assert.True(t, e.DefaultPrevented())
}

func TestEventLifecycleReturnsCopy(t *testing.T) {
	e := newEvent("x")
	_, ok := e.Lifecycle("before")
	assert.False(t, ok)

	e.record("before", []any{1, 2})
	got, ok := e.Lifecycle("before")
	assert.True(t, ok)
	assert.Equal(t, []any{1, 2}, got)

	got[0] = "changed"
	again, _ := e.Lifecycle("before")
	assert.Equal(t, []any{1, 2}, again)
}

func TestEventRecordEmptyPhase(t *testing.T) {
	e := newEvent("x")
	e.record("before", []any{})
	got, ok := e.Lifecycle("before")
	assert.True(t, ok)
	assert.Empty(t, got)

	e.record("", []any{1})
	_, ok = e.Lifecycle("")
	assert.False(t, ok)
}

func TestOutcomeOf(t *testing.T) {
	cont := Continue("v")
	tests := []struct {
		name  string
		input any
		want  Outcome
	}{
		{"nil", nil, NoOpinion()},
		{"plain value", 42, Continue(42)},
		{"continue", Continue("v"), Continue("v")},
		{"continue nil", Continue(nil), Outcome{kind: outcomeContinue}},
		{"continue empty", ContinueEmpty(), ContinueEmpty()},
		{"return empty", ReturnEmpty(), ReturnEmpty()},
		{"no opinion", NoOpinion(), NoOpinion()},
		{"pointer", &cont, Continue("v")},
		{"nil pointer", (*Outcome)(nil), NoOpinion()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcomeOf(tt.input))
		})
	}
}

func TestResultValue(t *testing.T) {
	assert.Equal(t, "plain", resultValue("plain"))
	assert.Nil(t, resultValue(nil))
	assert.Equal(t, 5, resultValue(Continue(5)))
	assert.Nil(t, resultValue(ContinueEmpty()))
	assert.Nil(t, resultValue(ReturnEmpty()))
	assert.Nil(t, resultValue(NoOpinion()))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "continue", Continue(1).String())
	assert.Equal(t, "continue-empty", ContinueEmpty().String())
	assert.Equal(t, "return-empty", ReturnEmpty().String())
	assert.Equal(t, "no-opinion", NoOpinion().String())
}

func TestEventOutcomeHelpers(t *testing.T) {
	e := newEvent("x")
	assert.Equal(t, ContinueEmpty(), e.ContinueEmpty())
	assert.Equal(t, ReturnEmpty(), e.ReturnEmpty())
	assert.Nil(t, Continue(nil).Value())
	assert.Equal(t, "v", Continue("v").Value())
}
