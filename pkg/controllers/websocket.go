package controllers

import (
	"context"
	"encoding/base64"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/miniclay/miniclay-server/pkg/models"
	"github.com/sirupsen/logrus"
)

// connState tags a streaming connection. A connection starts unbound,
// binds to exactly one session on a valid join and never unbinds while
// open.
type connState int

const (
	stateUnbound connState = iota
	stateBound
)

type inboundMessage struct {
	Type      string `json:"type"`
	SessionId string `json:"sessionId"`
	AudioData string `json:"audioData"`
}

// WebsocketController drives the persistent bidirectional channel. Each
// inbound audio-data message runs through the same pipeline as the
// request/response endpoint.
type WebsocketController struct {
	ctx           context.Context
	meetingModel  *models.MeetingModel
	pipelineModel *models.PipelineModel
	logger        *logrus.Entry
}

func NewWebsocketController(ctx context.Context, meetingModel *models.MeetingModel, pipelineModel *models.PipelineModel, logger *logrus.Logger) *WebsocketController {
	return &WebsocketController{
		ctx:           ctx,
		meetingModel:  meetingModel,
		pipelineModel: pipelineModel,
		logger:        logger.WithField("controller", "websocket"),
	}
}

// messageWriter is the outbound half of a streaming connection.
// *websocket.Conn satisfies it.
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// wsConnection is the per-connection state object.
type wsConnection struct {
	id        string
	conn      messageWriter
	state     connState
	sessionId string
}

// HandleWebSocket returns the upgraded connection handler.
func (wc *WebsocketController) HandleWebSocket() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		c := &wsConnection{
			id:    uuid.NewString(),
			conn:  conn,
			state: stateUnbound,
		}
		log := wc.logger.WithField("connId", c.id)
		log.Infoln("websocket client connected")

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			wc.dispatch(c, raw)
		}

		wc.closed(c)
		log.Infoln("websocket client disconnected")
	}
}

// closed marks the bound session inactive. The session record itself
// survives the connection.
func (wc *WebsocketController) closed(c *wsConnection) {
	if c.state == stateBound {
		wc.meetingModel.MarkActive(c.sessionId, false)
	}
}

// dispatch routes one inbound message by its type tag.
func (wc *WebsocketController) dispatch(c *wsConnection, raw []byte) {
	msg := new(inboundMessage)
	if err := json.Unmarshal(raw, msg); err != nil {
		wc.send(c, map[string]interface{}{"type": "error", "message": err.Error()})
		return
	}

	switch msg.Type {
	case "join-meeting":
		wc.handleJoin(c, msg)
	case "audio-data":
		wc.handleAudioData(c, msg)
	}
}

func (wc *WebsocketController) handleJoin(c *wsConnection, msg *inboundMessage) {
	if c.state != stateUnbound {
		return
	}
	if !wc.meetingModel.SessionExists(msg.SessionId) {
		return
	}

	c.state = stateBound
	c.sessionId = msg.SessionId
	wc.meetingModel.MarkActive(msg.SessionId, true)
	wc.send(c, map[string]interface{}{"type": "joined", "sessionId": msg.SessionId})
}

func (wc *WebsocketController) handleAudioData(c *wsConnection, msg *inboundMessage) {
	// audio for a session this connection is not bound to is dropped
	if c.state != stateBound || msg.SessionId != c.sessionId {
		return
	}
	if !wc.meetingModel.SessionExists(msg.SessionId) {
		return
	}

	audio, err := base64.StdEncoding.DecodeString(msg.AudioData)
	if err != nil {
		wc.send(c, map[string]interface{}{"type": "error", "message": err.Error()})
		return
	}

	result, err := wc.pipelineModel.ProcessUtterance(wc.ctx, c.sessionId, audio)
	if err != nil {
		wc.send(c, map[string]interface{}{"type": "error", "message": err.Error()})
		return
	}

	var audioReply *string
	if result.Audio != nil {
		enc := base64.StdEncoding.EncodeToString(result.Audio)
		audioReply = &enc
	}

	wc.send(c, map[string]interface{}{
		"type":       "response",
		"transcript": result.Transcript,
		"response":   result.Reply,
		"audio":      audioReply,
	})
}

func (wc *WebsocketController) send(c *wsConnection, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		wc.logger.WithError(err).Warnln("failed to write websocket message")
	}
}
