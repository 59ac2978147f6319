package websocket

import (
	"context"
	"encoding/json"
	"time"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/dto"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/pkg/serverutils"
	"ai-tutoring-be/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// SessionFactory builds a controller for one accepted socket.
type SessionFactory func(params session.Params, sink session.EventSink) *session.Controller

// SessionHandler upgrades websocket requests for both assistant
// namespaces and runs their read loops.
type SessionHandler struct {
	newSession SessionFactory
	logger     logger.ILogger
}

func NewSessionHandler(newSession SessionFactory, log logger.ILogger) *SessionHandler {
	return &SessionHandler{
		newSession: newSession,
		logger:     log,
	}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	ws := r.Group("/ws")
	ws.Get("/doc-chat", h.serveDocChat)
	ws.Get("/homework-help", h.serveHomeworkHelp)
}

func (h *SessionHandler) serveDocChat(c *fiber.Ctx) error {
	studentId, err := h.authenticate(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	documentId, err := uuid.Parse(c.Query("document_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing or invalid document_id"})
	}

	return h.upgrade(c, session.Params{
		StudentId:  studentId,
		Mode:       session.ModeDocChat,
		DocumentId: documentId,
	})
}

func (h *SessionHandler) serveHomeworkHelp(c *fiber.Ctx) error {
	studentId, err := h.authenticate(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	topic := c.Query("topic")
	if topic == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing topic"})
	}

	params := session.Params{
		StudentId: studentId,
		Mode:      session.ModeTutoring,
		Topic:     topic,
	}
	if raw := c.Query("conversation_id"); raw != "" {
		conversationId, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conversation_id"})
		}
		params.ConversationId = &conversationId
	}

	return h.upgrade(c, params)
}

// authenticate extracts the student identity from the handshake. Browsers
// can only pass the token as a query param; tooling uses the header.
func (h *SessionHandler) authenticate(c *fiber.Ctx) (string, error) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return "", serverutils.NewAuthorizationError("missing token")
	}

	claims, err := serverutils.ParseStudentToken(tokenStr)
	if err != nil {
		h.logger.Warn("SessionHandler", "invalid token in handshake", map[string]interface{}{
			"error": err.Error(),
		})
		return "", serverutils.NewAuthorizationError("invalid token")
	}

	studentId, ok := claims["student_id"].(string)
	if !ok || studentId == "" {
		return "", serverutils.NewAuthorizationError("token missing student_id")
	}
	return studentId, nil
}

func (h *SessionHandler) upgrade(c *fiber.Ctx, params session.Params) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("SessionHandler", "session started", map[string]interface{}{
			"student_id": params.StudentId,
			"mode":       string(params.Mode),
		})
		h.runSession(conn, params)
		h.logger.Info("SessionHandler", "session ended", map[string]interface{}{
			"student_id": params.StudentId,
			"mode":       string(params.Mode),
		})
	})(c)
}

// runSession wires the socket to a controller and blocks on the read
// loop. Frames dispatch synchronously, which serializes exchanges.
func (h *SessionHandler) runSession(conn *websocket.Conn, params session.Params) {
	channel := NewChannel(conn)
	go channel.WritePump()
	defer channel.Close()

	controller := h.newSession(params, channel)
	defer controller.Close()

	ctx := context.Background()
	if err := controller.Resolve(ctx); err != nil {
		// The error event is already queued; give the pump a moment to
		// flush before the deferred close tears the socket down.
		time.Sleep(100 * time.Millisecond)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("SessionHandler", "unexpected socket close", map[string]interface{}{
					"student_id": params.StudentId,
					"error":      err.Error(),
				})
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		h.dispatch(ctx, controller, channel, raw)
	}
}

func (h *SessionHandler) dispatch(ctx context.Context, controller *session.Controller, channel *Channel, raw []byte) {
	var frame dto.SessionFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		channel.Error("malformed frame")
		return
	}

	switch frame.Event {
	case constant.ChatMessageEvent:
		var question string
		if err := json.Unmarshal(frame.Data, &question); err != nil || question == "" {
			channel.Error("chat message requires a question")
			return
		}
		controller.HandleChat(ctx, question)
	case constant.GenerateSummaryEvent:
		controller.HandleGenerateSummary(ctx)
	default:
		channel.Error("unknown event")
	}
}
