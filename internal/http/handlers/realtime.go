package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lunacare/lunacare-backend/internal/data/live"
	"github.com/lunacare/lunacare-backend/internal/data/repos"
	"github.com/lunacare/lunacare-backend/internal/domain"
	"github.com/lunacare/lunacare-backend/internal/http/response"
	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
	"github.com/lunacare/lunacare-backend/internal/requestdata"
)

// RealtimeHandler serves the SSE stream and manages per-connection live
// queries. Each subscribed collection pushes its full result set on every
// change, initial snapshot included.
type RealtimeHandler struct {
	log     *logger.Logger
	hub     *realtime.Hub
	queries *live.Queries

	mu      sync.Mutex
	clients map[uuid.UUID]*clientState // key: SessionID (UserToken.ID)
}

type clientState struct {
	client  *realtime.Client
	cancels map[string]live.CancelFunc
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub, queries *live.Queries) *RealtimeHandler {
	return &RealtimeHandler{
		log:     log.With("handler", "RealtimeHandler"),
		hub:     hub,
		queries: queries,
		clients: make(map[uuid.UUID]*clientState),
	}
}

func (h *RealtimeHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if rd.SessionID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session id"})
		return
	}

	h.mu.Lock()
	// One stream per session: a reconnect replaces the previous client.
	if existing, ok := h.clients[rd.SessionID]; ok {
		h.teardownLocked(existing)
		delete(h.clients, rd.SessionID)
	}
	client := h.hub.NewClient(rd.UserID)
	state := &clientState{client: client, cancels: make(map[string]live.CancelFunc)}
	h.clients[rd.SessionID] = state
	h.mu.Unlock()

	h.hub.AddChannel(client, realtime.ChannelFor(realtime.CollectionAuth, rd.UserID))

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.mu.Lock()
	if h.clients[rd.SessionID] == state {
		delete(h.clients, rd.SessionID)
	}
	h.teardownLocked(state)
	h.mu.Unlock()
}

// teardownLocked cancels the state's live queries and closes its client.
// Callers hold h.mu.
func (h *RealtimeHandler) teardownLocked(state *clientState) {
	for _, cancel := range state.cancels {
		cancel()
	}
	state.cancels = make(map[string]live.CancelFunc)
	h.hub.CloseClient(state.client)
}

func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil || rd.SessionID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req struct {
		Collection string `json:"collection"`
		Limit      int    `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Collection == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	state, exists := h.clients[rd.SessionID]
	if !exists {
		c.JSON(http.StatusConflict, gin.H{"error": "no active stream for this session"})
		return
	}
	if _, dup := state.cancels[req.Collection]; dup {
		c.JSON(http.StatusOK, gin.H{"message": "already subscribed", "collection": req.Collection})
		return
	}

	cancel, err := h.startLiveQuery(state.client, rd.UserID, req.Collection, req.Limit)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unknown_collection", err)
		return
	}
	state.cancels[req.Collection] = cancel
	c.JSON(http.StatusOK, gin.H{"message": "subscribed", "collection": req.Collection})
}

func (h *RealtimeHandler) Unsubscribe(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil || rd.SessionID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req struct {
		Collection string `json:"collection"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Collection == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	state, exists := h.clients[rd.SessionID]
	if !exists {
		c.JSON(http.StatusConflict, gin.H{"error": "no active stream for this session"})
		return
	}
	if cancel, ok := state.cancels[req.Collection]; ok {
		cancel()
		delete(state.cancels, req.Collection)
	}
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed", "collection": req.Collection})
}

// startLiveQuery wires a collection subscription to the client's outbound
// stream. Snapshots that cannot be buffered are dropped; the next change
// re-delivers a full result set anyway.
func (h *RealtimeHandler) startLiveQuery(client *realtime.Client, userID uuid.UUID, collection string, limit int) (live.CancelFunc, error) {
	channel := realtime.ChannelFor(collection, userID)
	push := func(data any) {
		select {
		case client.Outbound <- realtime.Message{Channel: channel, Event: realtime.EventSnapshot, Data: data}:
		default:
			h.log.Warn("snapshot dropped, slow client", "channel", channel)
		}
	}

	ctx := context.Background()
	switch collection {
	case realtime.CollectionCycles:
		if limit <= 0 {
			limit = repos.DefaultCycleListLimit
		}
		return h.queries.SubscribeCycles(ctx, userID, limit, func(records []*domain.CycleRecord) { push(records) }), nil
	case realtime.CollectionDailyHealth:
		if limit <= 0 {
			limit = repos.DefaultHealthWindowDays
		}
		return h.queries.SubscribeDailyHealth(ctx, userID, limit, func(records []*domain.DailyHealthRecord) { push(records) }), nil
	case realtime.CollectionAssessments:
		if limit <= 0 {
			limit = repos.DefaultAssessmentListLimit
		}
		return h.queries.SubscribeAssessments(ctx, userID, limit, func(records []*domain.AssessmentRecord) { push(records) }), nil
	case realtime.CollectionMedications:
		return h.queries.SubscribeMedications(ctx, userID, func(records []*domain.Medication) { push(records) }), nil
	case realtime.CollectionAppointments:
		return h.queries.SubscribeAppointments(ctx, userID, func(records []*domain.Appointment) { push(records) }), nil
	}
	return nil, fmt.Errorf("unknown collection %q", collection)
}
