package controllers

import (
	"encoding/base64"
	"testing"

	"github.com/goccy/go-json"
	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/miniclay/miniclay-server/pkg/speech"
	"github.com/stretchr/testify/assert"
)

type fakeWsConn struct {
	frames [][]byte
}

func (f *fakeWsConn) WriteMessage(_ int, data []byte) error {
	f.frames = append(f.frames, append([]byte(nil), data...))
	return nil
}

func (f *fakeWsConn) lastFrame(t *testing.T) map[string]interface{} {
	t.Helper()
	assert.NotEmpty(t, f.frames)
	out := map[string]interface{}{}
	assert.NoError(t, json.Unmarshal(f.frames[len(f.frames)-1], &out))
	return out
}

func newWsConn() (*wsConnection, *fakeWsConn) {
	fake := &fakeWsConn{}
	return &wsConnection{
		id:    "test-conn",
		conn:  fake,
		state: stateUnbound,
	}, fake
}

func joinMsg(sessionId string) []byte {
	raw, _ := json.Marshal(map[string]string{"type": "join-meeting", "sessionId": sessionId})
	return raw
}

func audioMsg(sessionId string, audio []byte) []byte {
	raw, _ := json.Marshal(map[string]string{
		"type":      "audio-data",
		"sessionId": sessionId,
		"audioData": base64.StdEncoding.EncodeToString(audio),
	})
	return raw
}

func TestWebsocket_JoinBindsConnection(t *testing.T) {
	env := setupMeetingApp(t)
	env.reg.Create("123456789", "", "jwt", "bot")

	c, fake := newWsConn()
	env.ws.dispatch(c, joinMsg("123456789"))

	assert.Equal(t, stateBound, c.state)
	assert.Equal(t, "123456789", c.sessionId)

	res := fake.lastFrame(t)
	assert.Equal(t, "joined", res["type"])
	assert.Equal(t, "123456789", res["sessionId"])

	// the bound session is flagged live
	rec, ok := env.reg.Get("123456789", config.MaxSessionIdleDuration)
	assert.True(t, ok)
	assert.True(t, rec.IsActive)
}

func TestWebsocket_JoinBindsOnlyOnce(t *testing.T) {
	env := setupMeetingApp(t)
	env.reg.Create("123456789", "", "jwt", "bot")
	env.reg.Create("987654321", "", "jwt", "bot")

	c, fake := newWsConn()
	env.ws.dispatch(c, joinMsg("123456789"))
	assert.Len(t, fake.frames, 1)

	// a second join on a bound connection is silently ignored
	env.ws.dispatch(c, joinMsg("987654321"))
	assert.Equal(t, "123456789", c.sessionId)
	assert.Len(t, fake.frames, 1)
}

func TestWebsocket_JoinUnknownSessionIgnored(t *testing.T) {
	env := setupMeetingApp(t)

	c, fake := newWsConn()
	env.ws.dispatch(c, joinMsg("000000000"))

	assert.Equal(t, stateUnbound, c.state)
	assert.Empty(t, c.sessionId)
	assert.Empty(t, fake.frames)
}

func TestWebsocket_AudioDroppedWhileUnbound(t *testing.T) {
	env := setupMeetingApp(t)
	env.reg.Create("123456789", "", "jwt", "bot")

	c, fake := newWsConn()
	env.ws.dispatch(c, audioMsg("123456789", []byte("clip")))

	assert.Empty(t, fake.frames)
	rec, _ := env.reg.Get("123456789", config.MaxSessionIdleDuration)
	assert.Empty(t, rec.ConversationHistory)
}

func TestWebsocket_AudioDroppedForMismatchedSession(t *testing.T) {
	env := setupMeetingApp(t)
	env.reg.Create("123456789", "", "jwt", "bot")
	env.reg.Create("987654321", "", "jwt", "bot")

	c, fake := newWsConn()
	env.ws.dispatch(c, joinMsg("123456789"))
	assert.Len(t, fake.frames, 1)

	env.ws.dispatch(c, audioMsg("987654321", []byte("clip")))
	assert.Len(t, fake.frames, 1)

	rec, _ := env.reg.Get("987654321", config.MaxSessionIdleDuration)
	assert.Empty(t, rec.ConversationHistory)
}

func TestWebsocket_AudioProcessed(t *testing.T) {
	env := setupApp(t,
		&fakeTranscriber{transcription: &speech.Transcription{Text: "what is the price"}},
		&fakeGenerator{reply: "forty dollars"},
		&fakeSynthesizer{audio: []byte("mp3-bytes")})
	env.reg.Create("123456789", "", "jwt", "bot")

	c, fake := newWsConn()
	env.ws.dispatch(c, joinMsg("123456789"))
	env.ws.dispatch(c, audioMsg("123456789", []byte("clip")))

	res := fake.lastFrame(t)
	assert.Equal(t, "response", res["type"])
	assert.Equal(t, "what is the price", res["transcript"])
	assert.Equal(t, "forty dollars", res["response"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("mp3-bytes")), res["audio"])

	rec, _ := env.reg.Get("123456789", config.MaxSessionIdleDuration)
	assert.Equal(t, []string{"what is the price"}, rec.ConversationHistory)
}

func TestWebsocket_AudioPipelineFailure(t *testing.T) {
	env := setupApp(t,
		&fakeTranscriber{err: speech.ErrTranscriptionTimeout},
		&fakeGenerator{reply: "unused"},
		&fakeSynthesizer{audio: []byte("unused")})
	env.reg.Create("123456789", "", "jwt", "bot")

	c, fake := newWsConn()
	env.ws.dispatch(c, joinMsg("123456789"))
	env.ws.dispatch(c, audioMsg("123456789", []byte("clip")))

	res := fake.lastFrame(t)
	assert.Equal(t, "error", res["type"])
	assert.NotEmpty(t, res["message"])
}

func TestWebsocket_InvalidBase64Audio(t *testing.T) {
	env := setupMeetingApp(t)
	env.reg.Create("123456789", "", "jwt", "bot")

	c, fake := newWsConn()
	env.ws.dispatch(c, joinMsg("123456789"))

	raw, _ := json.Marshal(map[string]string{
		"type":      "audio-data",
		"sessionId": "123456789",
		"audioData": "not base64!!!",
	})
	env.ws.dispatch(c, raw)

	res := fake.lastFrame(t)
	assert.Equal(t, "error", res["type"])
}

func TestWebsocket_MalformedMessage(t *testing.T) {
	env := setupMeetingApp(t)

	c, fake := newWsConn()
	env.ws.dispatch(c, []byte("{not json"))

	res := fake.lastFrame(t)
	assert.Equal(t, "error", res["type"])
	assert.Equal(t, stateUnbound, c.state)
}

func TestWebsocket_CloseMarksSessionInactive(t *testing.T) {
	env := setupMeetingApp(t)
	env.reg.Create("123456789", "", "jwt", "bot")

	c, _ := newWsConn()
	env.ws.dispatch(c, joinMsg("123456789"))

	rec, _ := env.reg.Get("123456789", config.MaxSessionIdleDuration)
	assert.True(t, rec.IsActive)

	env.ws.closed(c)

	// flagged inactive but not removed
	rec, ok := env.reg.Get("123456789", config.MaxSessionIdleDuration)
	assert.True(t, ok)
	assert.False(t, rec.IsActive)
}

func TestWebsocket_CloseWhileUnbound(t *testing.T) {
	env := setupMeetingApp(t)
	env.reg.Create("123456789", "", "jwt", "bot")

	c, _ := newWsConn()
	env.ws.closed(c)

	rec, ok := env.reg.Get("123456789", config.MaxSessionIdleDuration)
	assert.True(t, ok)
	assert.False(t, rec.IsActive)
}
