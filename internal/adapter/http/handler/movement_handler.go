package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
)

// MovementRecorder is the write side of the ledger.
type MovementRecorder interface {
	RecordMovement(ctx context.Context, req domain.MovementRequest) (*domain.Movement, error)
	DeactivateMovement(ctx context.Context, movementID string) error
}

// MovementReader is the read side of the ledger.
type MovementReader interface {
	GetMovement(ctx context.Context, id string) (*domain.Movement, error)
	ListAccountMovements(ctx context.Context, accountID string, limit, offset int) ([]*domain.Movement, error)
	CustomerStatement(ctx context.Context, customerID string, from, to time.Time) ([]*domain.StatementLine, error)
}

// MovementHandler handles movement-related HTTP requests.
type MovementHandler struct {
	recorder MovementRecorder
	reader   MovementReader
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(recorder MovementRecorder, reader MovementReader) *MovementHandler {
	return &MovementHandler{recorder: recorder, reader: reader}
}

// Record records a deposit, withdrawal or transfer.
func (h *MovementHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordMovementRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movementReq, err := req.ToDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.recorder.RecordMovement(r.Context(), movementReq)
	if err != nil {
		writeDomainError(w, "failed to record movement", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// Get retrieves an active movement.
func (h *MovementHandler) Get(w http.ResponseWriter, r *http.Request) {
	movement, err := h.reader.GetMovement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get movement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}

// Deactivate soft-deletes a movement.
func (h *MovementHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.recorder.DeactivateMovement(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to deactivate movement", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByAccount lists an account's active movements, most recent first.
func (h *MovementHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	movements, err := h.reader.ListAccountMovements(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list movements", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListMovementsResponse{
		Movements: dto.MovementsFromDomain(movements),
	})
}

// CustomerStatement returns the active movements of a customer between the
// from and to query parameters.
func (h *MovementHandler) CustomerStatement(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	from, err := parseTimeQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid statement window", err.Error())
		return
	}
	to, err := parseTimeQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid statement window", err.Error())
		return
	}

	lines, err := h.reader.CustomerStatement(r.Context(), customerID, from, to)
	if err != nil {
		writeDomainError(w, "failed to build statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(customerID, from, to, lines))
}
