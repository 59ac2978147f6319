package session

import (
	"context"
	"errors"
	"fmt"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/dto"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/pkg/serverutils"
	"ai-tutoring-be/internal/service"
	"ai-tutoring-be/pkg/chat/chain"
	"ai-tutoring-be/pkg/chat/memory"
	"ai-tutoring-be/pkg/llm"

	"github.com/google/uuid"
)

// Mode selects which assistant a session talks to.
type Mode string

const (
	ModeDocChat  Mode = "doc-chat"
	ModeTutoring Mode = "homework-help"
)

// State tracks one session's lifecycle. Transitions only move forward
// except ready <-> exchanging, which alternates per turn.
type State int

const (
	StateConnecting State = iota
	StateResolving
	StateReady
	StateExchanging
	StateClosed
)

// EventSink receives everything a session emits toward the client.
// Implemented by the websocket channel; faked in tests.
type EventSink interface {
	Ready(payload dto.ReadyPayload)
	Token(event string, token string)
	End(event string, final string)
	Error(message string)
}

// Params carries the validated handshake for one session.
type Params struct {
	StudentId      string
	Mode           Mode
	DocumentId     uuid.UUID  // doc-chat only
	Topic          string     // homework-help only
	ConversationId *uuid.UUID // optional resume
}

// Controller drives one client session. It is not safe for concurrent
// use: the websocket read loop dispatches one frame at a time, which
// serializes exchanges per session.
type Controller struct {
	params Params
	sink   EventSink

	conversations service.IConversationService
	transcripts   service.ITranscriptService
	documents     service.IDocumentService
	chains        ChainBuilder
	memoryWindow  int
	logger        logger.ILogger

	state        State
	conversation *entity.Conversation
	chatChain    chain.Chain
	summaryChain chain.Chain
}

func NewController(
	params Params,
	sink EventSink,
	conversations service.IConversationService,
	transcripts service.ITranscriptService,
	documents service.IDocumentService,
	chains ChainBuilder,
	memoryWindow int,
	log logger.ILogger,
) *Controller {
	return &Controller{
		params:        params,
		sink:          sink,
		conversations: conversations,
		transcripts:   transcripts,
		documents:     documents,
		chains:        chains,
		memoryWindow:  memoryWindow,
		logger:        log,
		state:         StateConnecting,
	}
}

func (c *Controller) State() State {
	return c.state
}

// Resolve binds the session to its conversation, rebuilds chain memory
// from the persisted transcript, and emits the ready event. The session
// accepts no chat frames until this has succeeded.
func (c *Controller) Resolve(ctx context.Context) error {
	if c.state != StateConnecting {
		return fmt.Errorf("resolve called in state %d", c.state)
	}
	c.state = StateResolving

	var err error
	switch c.params.Mode {
	case ModeDocChat:
		err = c.resolveDocChat(ctx)
	case ModeTutoring:
		err = c.resolveTutoring(ctx)
	default:
		err = fmt.Errorf("unknown session mode %q", c.params.Mode)
	}
	if err != nil {
		c.state = StateClosed
		c.sink.Error(publicMessage(err))
		return err
	}

	c.state = StateReady
	c.sink.Ready(dto.ReadyPayload{ConversationId: c.conversation.Id.String()})
	return nil
}

func (c *Controller) resolveDocChat(ctx context.Context) error {
	// Ownership check before anything touches the vector store.
	if _, err := c.documents.Get(ctx, c.params.StudentId, c.params.DocumentId); err != nil {
		return err
	}

	conversation, err := c.conversations.ResolveForDocument(ctx, c.params.StudentId, c.params.DocumentId)
	if err != nil {
		return err
	}
	c.conversation = conversation

	seed, err := c.recentWindow(ctx)
	if err != nil {
		return err
	}

	c.chatChain, c.summaryChain = c.chains.DocChains(c.params.StudentId, c.params.DocumentId, seed)
	return nil
}

func (c *Controller) resolveTutoring(ctx context.Context) error {
	conversation, err := c.conversations.ResolveForStudent(ctx, c.params.StudentId, c.params.ConversationId)
	if err != nil {
		return err
	}
	c.conversation = conversation

	seed, err := c.recentWindow(ctx)
	if err != nil {
		return err
	}

	c.chatChain = c.chains.TutorChain(c.params.Topic, seed)
	return nil
}

func (c *Controller) recentWindow(ctx context.Context) ([]llm.Message, error) {
	records, err := c.transcripts.GetRecent(ctx, c.conversation.Id, c.memoryWindow)
	if err != nil {
		return nil, err
	}
	return memory.Window(records), nil
}

// HandleChat runs one full exchange: stream tokens, emit the final
// answer, queue the transcript pair. A failed turn reports an error
// event and returns the session to ready; the socket stays open.
func (c *Controller) HandleChat(ctx context.Context, question string) {
	if c.state != StateReady {
		c.sink.Error("session is not ready for messages")
		return
	}
	c.state = StateExchanging
	defer func() { c.state = StateReady }()

	answer, err := c.chatChain.Answer(ctx, question, func(token string) {
		c.sink.Token(constant.ChatResponseEvent, token)
	})
	if err != nil {
		c.logger.Error("Session", "chat exchange failed", map[string]interface{}{
			"conversation_id": c.conversation.Id.String(),
			"error":           err.Error(),
		})
		c.sink.Error(publicMessage(err))
		return
	}

	c.sink.End(constant.ChatResponseEvent, answer)
	c.transcripts.RecordExchange(ctx, c.params.StudentId, c.conversation.Id, question, answer)
}

// HandleGenerateSummary streams a fresh document summary and persists it.
// Doc-chat sessions only; the summary is not part of the transcript.
func (c *Controller) HandleGenerateSummary(ctx context.Context) {
	if c.params.Mode != ModeDocChat {
		c.sink.Error("summary is only available for document sessions")
		return
	}
	if c.state != StateReady {
		c.sink.Error("session is not ready for messages")
		return
	}
	c.state = StateExchanging
	defer func() { c.state = StateReady }()

	summary, err := c.summaryChain.Answer(ctx, "", func(token string) {
		c.sink.Token(constant.SummaryEvent, token)
	})
	if err != nil {
		c.logger.Error("Session", "summary generation failed", map[string]interface{}{
			"document_id": c.params.DocumentId.String(),
			"error":       err.Error(),
		})
		c.sink.Error(publicMessage(err))
		return
	}

	c.sink.End(constant.SummaryEvent, summary)

	if _, err := c.documents.UpdateSummary(ctx, c.params.StudentId, &dto.UpdateDocumentSummaryRequest{
		Id:      c.params.DocumentId,
		Summary: summary,
	}); err != nil {
		// The client already has the streamed summary; losing the stored
		// copy is recoverable on the next generate.
		c.logger.Error("Session", "failed to store document summary", map[string]interface{}{
			"document_id": c.params.DocumentId.String(),
			"error":       err.Error(),
		})
	}
}

func (c *Controller) Close() {
	c.state = StateClosed
}

// publicMessage strips internals from errors before they reach a client.
func publicMessage(err error) string {
	var notFound *serverutils.NotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}
	var provider *chain.ExternalProviderError
	if errors.As(err, &provider) {
		return "the assistant is temporarily unavailable, please try again"
	}
	return "something went wrong, please try again"
}
