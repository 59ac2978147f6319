package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/dto"
)

func drainFrame(t *testing.T, ch *Channel) dto.SessionFrame {
	t.Helper()
	select {
	case raw := <-ch.send:
		var frame dto.SessionFrame
		require.NoError(t, json.Unmarshal(raw, &frame))
		return frame
	case <-time.After(time.Second):
		t.Fatal("no frame queued")
		return dto.SessionFrame{}
	}
}

func TestChannelFrameEncoding(t *testing.T) {
	channel := NewChannel(nil)

	channel.Ready(dto.ReadyPayload{ConversationId: "abc"})
	channel.Token(constant.ChatResponseEvent, "tok")
	channel.End(constant.ChatResponseEvent, "full answer")
	channel.Error("something broke")

	frame := drainFrame(t, channel)
	assert.Equal(t, constant.SessionReadyEvent, frame.Event)
	var ready dto.ReadyPayload
	require.NoError(t, json.Unmarshal(frame.Data, &ready))
	assert.Equal(t, "abc", ready.ConversationId)

	frame = drainFrame(t, channel)
	assert.Equal(t, constant.ChatResponseEvent+" start", frame.Event)
	var token string
	require.NoError(t, json.Unmarshal(frame.Data, &token))
	assert.Equal(t, "tok", token)

	frame = drainFrame(t, channel)
	assert.Equal(t, constant.ChatResponseEvent+" end", frame.Event)

	frame = drainFrame(t, channel)
	assert.Equal(t, constant.SessionErrorEvent, frame.Event)
	var errPayload dto.ErrorPayload
	require.NoError(t, json.Unmarshal(frame.Data, &errPayload))
	assert.Equal(t, "something broke", errPayload.Message)
}

func TestChannelEmitAfterClose(t *testing.T) {
	channel := NewChannel(nil)

	channel.Close()
	channel.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NotPanics(t, func() {
			channel.Error("late")
		})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked after close")
	}
	assert.Empty(t, channel.send)
}
