package session

import (
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/repository/unitofwork"
	"ai-tutoring-be/pkg/chat/chain"
	"ai-tutoring-be/pkg/chat/memory"
	"ai-tutoring-be/pkg/embedding"
	"ai-tutoring-be/pkg/llm"
	"ai-tutoring-be/pkg/rag/retriever"

	"github.com/google/uuid"
)

// ChainBuilder constructs the per-session chains. Sessions own their
// chains; nothing is shared between two sockets.
type ChainBuilder interface {
	DocChains(studentId string, documentId uuid.UUID, seed []llm.Message) (chat chain.Chain, summary chain.Chain)
	TutorChain(topic string, seed []llm.Message) chain.Chain
}

type chainFactory struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	llmProvider       llm.LLMProvider
	topK              int
	logger            logger.ILogger
}

func NewChainFactory(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	topK int,
	log logger.ILogger,
) ChainBuilder {
	return &chainFactory{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		topK:              topK,
		logger:            log,
	}
}

func (f *chainFactory) DocChains(studentId string, documentId uuid.UUID, seed []llm.Message) (chain.Chain, chain.Chain) {
	ret := retriever.New(f.uowFactory, f.embeddingProvider, studentId, documentId, f.topK)

	mem := memory.NewBuffer()
	mem.Seed(seed)

	// The condense step reuses the main provider; it is a short,
	// non-streamed completion.
	chatChain := chain.NewRetrievalChain(f.llmProvider, f.llmProvider, ret, mem, f.logger)
	summaryChain := chain.NewSummaryChain(f.llmProvider, ret)
	return chatChain, summaryChain
}

func (f *chainFactory) TutorChain(topic string, seed []llm.Message) chain.Chain {
	mem := memory.NewBufferWithPrefixes("Human", "Socrates")
	mem.Seed(seed)
	return chain.NewTutoringChain(f.llmProvider, topic, mem)
}
