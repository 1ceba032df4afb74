package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chatlytics-io/chatlytics-engine/pkg/apperrors"
	"github.com/chatlytics-io/chatlytics-engine/pkg/conversation"
	"github.com/chatlytics-io/chatlytics-engine/pkg/llm"
	"github.com/chatlytics-io/chatlytics-engine/pkg/models"
	"github.com/chatlytics-io/chatlytics-engine/pkg/prompts"
	sqlextract "github.com/chatlytics-io/chatlytics-engine/pkg/sql"
	"github.com/chatlytics-io/chatlytics-engine/pkg/warehouse"
)

// Display messages for the terminal states of a question cycle.
const (
	msgNoResults         = "Query executed successfully but returned no results"
	msgRepairedNoResults = "Fixed query executed but returned no results"
	msgRepairFailed      = "Query failed and could not be automatically fixed"
)

// AgentService answers natural-language questions by generating SQL,
// executing it against the warehouse, and attempting one automatic repair
// when execution fails.
type AgentService interface {
	// Ask runs one question-answering cycle for a session. It never returns
	// an LLM or SQL failure as an error; every such path terminates in the
	// outcome record. The only errors are invalid input.
	Ask(ctx context.Context, sessionID uuid.UUID, question string) (*models.AttemptOutcome, error)

	// History returns the session's conversation so far.
	History(sessionID uuid.UUID) []models.Message

	// ClearHistory resets the session: conversation and cached schema
	// context are both dropped.
	ClearHistory(sessionID uuid.UUID)
}

type agentService struct {
	store         *conversation.Store
	llmClient     llm.Client
	executor      warehouse.QueryExecutor
	schemaContext SchemaContextService
	tablePrefix   string
	repairBudget  int
	logger        *zap.Logger
}

// NewAgentService creates a new agent service. repairBudget is how many
// automatic fix attempts a failed query gets; only the first is ever used.
func NewAgentService(
	store *conversation.Store,
	llmClient llm.Client,
	executor warehouse.QueryExecutor,
	schemaContext SchemaContextService,
	tablePrefix string,
	repairBudget int,
	logger *zap.Logger,
) AgentService {
	return &agentService{
		store:         store,
		llmClient:     llmClient,
		executor:      executor,
		schemaContext: schemaContext,
		tablePrefix:   tablePrefix,
		repairBudget:  repairBudget,
		logger:        logger.Named("agent"),
	}
}

var _ AgentService = (*agentService)(nil)

func (s *agentService) Ask(ctx context.Context, sessionID uuid.UUID, question string) (*models.AttemptOutcome, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, apperrors.ErrEmptyQuestion
	}

	log := s.store.Get(sessionID)
	systemPrompt := prompts.BuildSystemPrompt(
		s.schemaContext.Describe(ctx, sessionID),
		s.executor.Dialect(),
		s.tablePrefix,
		time.Now(),
	)

	// DRAFTING: one blocking LLM call with the full history plus the new
	// question.
	messages := toLLMMessages(log.History())
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	response, err := s.llmClient.Complete(ctx, systemPrompt, messages)
	if err != nil {
		// LLM failures are never retried and never appended to history.
		s.logger.Warn("LLM call failed",
			zap.String("session_id", sessionID.String()),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return &models.AttemptOutcome{
			Success: false,
			Message: fmt.Sprintf("Error generating SQL: %v", err),
		}, nil
	}

	// The raw exchange is preserved regardless of classification so
	// follow-up questions keep their context.
	log.Append(models.ChatRoleUser, question)
	log.Append(models.ChatRoleAssistant, response)

	// EXTRACTING: SQL or plain explanatory answer.
	sqlQuery, isSQL := sqlextract.ExtractQuery(response)
	if !isSQL {
		return &models.AttemptOutcome{
			Success: false,
			Message: response,
		}, nil
	}

	// EXECUTING.
	result, execErr := s.executor.Query(ctx, sqlQuery)
	if execErr == nil {
		return &models.AttemptOutcome{
			Success: true,
			SQL:     &sqlQuery,
			Data:    result,
			Message: resultMessage(result, false),
		}, nil
	}

	if s.repairBudget < 1 {
		s.logger.Info("Query failed, repair disabled",
			zap.String("session_id", sessionID.String()),
			zap.Error(execErr))
		return &models.AttemptOutcome{
			Success: false,
			SQL:     &sqlQuery,
			Message: msgRepairFailed,
		}, nil
	}

	s.logger.Info("Query failed, attempting repair",
		zap.String("session_id", sessionID.String()),
		zap.Error(execErr))

	return s.repair(ctx, sessionID, systemPrompt, sqlQuery, question), nil
}

// repair runs the single correction cycle: one independent LLM call with the
// failed SQL and the original question, then one execution of whatever comes
// back. The exchange is not appended to the conversation. Regardless of the
// configured budget there is never a second cycle.
func (s *agentService) repair(ctx context.Context, sessionID uuid.UUID, systemPrompt, failedSQL, question string) *models.AttemptOutcome {
	repairPrompt := prompts.BuildRepairPrompt(failedSQL, question, s.executor.Dialect())

	response, err := s.llmClient.Complete(ctx, systemPrompt, []llm.Message{
		{Role: llm.RoleUser, Content: repairPrompt},
	})
	if err != nil {
		s.logger.Warn("Repair LLM call failed",
			zap.String("session_id", sessionID.String()),
			zap.Error(err))
		return &models.AttemptOutcome{
			Success: false,
			SQL:     &failedSQL,
			Message: msgRepairFailed,
			Retried: true,
		}
	}

	fixedSQL, isSQL := sqlextract.ExtractQuery(response)
	if !isSQL {
		// The model explained why it could not fix the query; surface that
		// explanation directly.
		return &models.AttemptOutcome{
			Success: false,
			SQL:     &failedSQL,
			Message: response,
			Retried: true,
		}
	}

	// RE-EXECUTING.
	result, execErr := s.executor.Query(ctx, fixedSQL)
	if execErr != nil {
		s.logger.Info("Repaired query also failed",
			zap.String("session_id", sessionID.String()),
			zap.Error(execErr))
		return &models.AttemptOutcome{
			Success: false,
			SQL:     &failedSQL,
			Message: msgRepairFailed,
			Retried: true,
		}
	}

	return &models.AttemptOutcome{
		Success: true,
		SQL:     &fixedSQL,
		Data:    result,
		Message: resultMessage(result, true),
		Retried: true,
	}
}

func (s *agentService) History(sessionID uuid.UUID) []models.Message {
	return s.store.Get(sessionID).History()
}

func (s *agentService) ClearHistory(sessionID uuid.UUID) {
	s.store.Get(sessionID).Clear()
	s.schemaContext.Invalidate(sessionID)
}

// resultMessage renders the human-readable summary of a successful
// execution, distinguishing rows found from a legitimate empty answer.
func resultMessage(result *warehouse.QueryResult, repaired bool) string {
	if result.RowCount() == 0 {
		if repaired {
			return msgRepairedNoResults
		}
		return msgNoResults
	}
	if repaired {
		return fmt.Sprintf("Found %d results (after automatic fix)", result.RowCount())
	}
	return fmt.Sprintf("Found %d results", result.RowCount())
}

func toLLMMessages(history []models.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == models.ChatRoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}
