// Package reconcile merges provider agents and conversations into local storage
// and serves the merged state back.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/code-100-precent/LingSync/internal/models"
	"github.com/code-100-precent/LingSync/pkg/elevenlabs"
	"github.com/code-100-precent/LingSync/pkg/logger"
	"github.com/code-100-precent/LingSync/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Remote is the provider fetch surface the engine depends on
type Remote interface {
	FetchAgents(ctx context.Context) ([]elevenlabs.Record, error)
	FetchConversations(ctx context.Context, q elevenlabs.ConversationQuery) ([]elevenlabs.Record, error)
}

// AgentsResult is the agents view. SyncedAt is set only when a sync ran.
type AgentsResult struct {
	Data     []models.ElevenLabsAgent `json:"data"`
	SyncedAt *string                  `json:"syncedAt"`
}

type ConversationsRequest struct {
	AgentID    string
	Pagination models.Pagination
	// Force requests a sync under policies that would otherwise skip it
	Force bool
}

type ConversationsResult struct {
	Page  int                             `json:"page"`
	Limit int                             `json:"limit"`
	Total int64                           `json:"total"`
	Data  []models.ElevenLabsConversation `json:"data"`
}

type Engine struct {
	db                 *gorm.DB
	remote             Remote
	activity           ActivityLogger
	metrics            *metrics.Metrics
	agentPolicy        Policy
	conversationPolicy Policy
	now                func() time.Time
}

type Option func(*Engine)

func WithActivityLogger(l ActivityLogger) Option {
	return func(e *Engine) { e.activity = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithAgentPolicy(p Policy) Option {
	return func(e *Engine) { e.agentPolicy = p }
}

func WithConversationPolicy(p Policy) Option {
	return func(e *Engine) { e.conversationPolicy = p }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine with the default policies: agents sync when empty or asked,
// conversations sync on every request.
func NewEngine(db *gorm.DB, remote Remote, opts ...Option) *Engine {
	e := &Engine{
		db:                 db,
		remote:             remote,
		activity:           NewDBActivityLogger(db),
		metrics:            metrics.NewMetrics(),
		agentPolicy:        SyncIfEmptyOrRequested,
		conversationPolicy: AlwaysSync,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SyncAgents optionally reconciles agents, then returns every non-deleted agent
func (e *Engine) SyncAgents(ctx context.Context, requested bool) (*AgentsResult, error) {
	db := e.db.WithContext(ctx)

	doSync, err := e.agentPolicy.ShouldSync(requested, func() (bool, error) {
		total, err := models.CountActiveAgents(db)
		return total == 0, err
	})
	if err != nil {
		return nil, fmt.Errorf("count agents: %w", err)
	}

	result := &AgentsResult{}
	if doSync {
		if err := e.syncAgents(ctx, db); err != nil {
			return nil, err
		}
		syncedAt := e.now().UTC().Format(elevenlabs.ISOLayout)
		result.SyncedAt = &syncedAt
	} else {
		e.metrics.RecordSync(elevenlabs.KindAgents, "skipped")
	}

	agents, err := models.ListAgents(db)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	result.Data = agents
	return result, nil
}

func (e *Engine) syncAgents(ctx context.Context, db *gorm.DB) error {
	start := time.Now()
	raws, err := e.remote.FetchAgents(ctx)
	e.metrics.ObserveRemoteFetch(elevenlabs.KindAgents, err, time.Since(start))
	if err != nil {
		e.metrics.RecordSync(elevenlabs.KindAgents, "error")
		return err
	}

	agents, dropped := elevenlabs.NormalizeAgents(raws)
	e.metrics.RecordDropped(elevenlabs.KindAgents, dropped)
	if err := models.UpsertAgents(db, agents); err != nil {
		e.metrics.RecordSync(elevenlabs.KindAgents, "error")
		return fmt.Errorf("upsert agents: %w", err)
	}
	e.metrics.RecordMerged(elevenlabs.KindAgents, len(agents))
	e.metrics.RecordSync(elevenlabs.KindAgents, "success")

	logger.Info("elevenlabs agents synced",
		zap.Int("fetched", len(raws)),
		zap.Int("merged", len(agents)),
		zap.Int("dropped", dropped))

	e.logActivity(ctx, fmt.Sprintf("Synced agents. count=%d", len(agents)))
	return nil
}

// SyncConversations reconciles conversations per policy, then returns one filtered page.
// Everything fetched is merged; the agent filter applies to the fetch and the read only.
func (e *Engine) SyncConversations(ctx context.Context, req ConversationsRequest) (*ConversationsResult, error) {
	db := e.db.WithContext(ctx)

	doSync, err := e.conversationPolicy.ShouldSync(req.Force, func() (bool, error) {
		total, err := models.CountActiveConversations(db)
		return total == 0, err
	})
	if err != nil {
		return nil, fmt.Errorf("count conversations: %w", err)
	}

	if doSync {
		if err := e.syncConversations(ctx, db, req.AgentID); err != nil {
			return nil, err
		}
	} else {
		e.metrics.RecordSync(elevenlabs.KindConversations, "skipped")
	}

	convs, total, err := models.ListConversations(db, models.ConversationFilter{AgentID: req.AgentID}, req.Pagination)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return &ConversationsResult{
		Page:  req.Pagination.Page,
		Limit: req.Pagination.Limit,
		Total: total,
		Data:  convs,
	}, nil
}

func (e *Engine) syncConversations(ctx context.Context, db *gorm.DB, agentID string) error {
	start := time.Now()
	raws, err := e.remote.FetchConversations(ctx, elevenlabs.ConversationQuery{AgentID: agentID})
	e.metrics.ObserveRemoteFetch(elevenlabs.KindConversations, err, time.Since(start))
	if err != nil {
		e.metrics.RecordSync(elevenlabs.KindConversations, "error")
		return err
	}

	convs, dropped := elevenlabs.NormalizeConversations(raws)
	e.metrics.RecordDropped(elevenlabs.KindConversations, dropped)
	if err := models.UpsertConversations(db, convs); err != nil {
		e.metrics.RecordSync(elevenlabs.KindConversations, "error")
		return fmt.Errorf("upsert conversations: %w", err)
	}
	e.metrics.RecordMerged(elevenlabs.KindConversations, len(convs))
	e.metrics.RecordSync(elevenlabs.KindConversations, "success")

	logger.Info("elevenlabs conversations synced",
		zap.String("agentId", agentID),
		zap.Int("fetched", len(raws)),
		zap.Int("merged", len(convs)),
		zap.Int("dropped", dropped))

	e.logActivity(ctx, fmt.Sprintf("Synced conversations. count=%d", len(convs)))
	return nil
}

// logActivity never fails the sync; errors are only logged
func (e *Engine) logActivity(ctx context.Context, description string) {
	if e.activity == nil {
		return
	}
	if err := e.activity.LogActivity(ctx, models.ActionSyncTriggered, description); err != nil {
		logger.Warn("failed to insert activity log", zap.String("description", description), zap.Error(err))
	}
}
