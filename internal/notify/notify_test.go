package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestQueue_DrainAndCapacity(t *testing.T) {
	q := NewQueue(2)
	q.Notify(Success, "one")
	q.Notify(Success, "two")
	q.Notify(Error, "three")

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Message)
	assert.Equal(t, Error, got[1].Kind)
	assert.False(t, got[1].At.IsZero())

	assert.Empty(t, q.Drain())
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Multi{a, b, Nop{}}.Notify(Success, "hi")

	last, ok := a.Last()
	require.True(t, ok)
	assert.Equal(t, "hi", last.Message)
	assert.Len(t, b.All(), 1)
}

func TestLog_ErrorsAtWarn(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := Log{Logger: zap.New(core)}

	l.Notify(Error, "failed")
	l.Notify(Success, "ok")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, zap.DebugLevel, entries[1].Level)
}

func TestRecorder_Empty(t *testing.T) {
	_, ok := (&Recorder{}).Last()
	assert.False(t, ok)
}
