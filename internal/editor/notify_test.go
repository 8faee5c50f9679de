package editor

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	assert.Equal(t, Notice{}, r.Last())

	r.Notify(Notice{Level: LevelInfo, Message: "a"})
	r.Notify(Notice{Level: LevelError, Message: "b"})
	assert.Len(t, r.Notices(), 2)
	assert.Equal(t, "b", r.Last().Message)

	r.Reset()
	assert.Empty(t, r.Notices())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	n.Notify(Notice{Level: LevelError, Message: "Failed to save agent: boom"})
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "Failed to save agent: boom")

	buf.Reset()
	n.Notify(Notice{Level: LevelSuccess, Message: "Agent saved successfully"})
	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"level_hint":"success"`)
}

func TestNotifierFunc(t *testing.T) {
	var got Notice
	NotifierFunc(func(n Notice) { got = n }).Notify(Notice{Message: "x"})
	assert.Equal(t, "x", got.Message)
}
