package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/lift-board/internal/middleware"
	"github.com/iliyamo/lift-board/internal/model"
	"github.com/iliyamo/lift-board/internal/service"
)

// BoardReader produces the shop floor board.
type BoardReader interface {
	GetBoard(ctx context.Context) (*model.BoardSnapshot, error)
}

// WorkerReader lists the technicians working an order.
type WorkerReader interface {
	ActiveWorkersForOrder(ctx context.Context, orderID string) ([]model.ActiveWorker, error)
}

// AssignmentMutator writes lift assignments.
type AssignmentMutator interface {
	UpsertAssignment(ctx context.Context, in service.UpsertInput) (*model.LiftAssignment, error)
	UpdateAssignment(ctx context.Context, id string, p model.AssignmentPatch) (*model.LiftAssignment, error)
	ClearAssignment(ctx context.Context, id string) (*model.LiftAssignment, error)
	SetPartsWait(ctx context.Context, id string, pw model.PartsWait) (*model.LiftAssignment, error)
}

// BoardHandler serves the lift board and its assignment mutations.  Role
// checks are done by middleware; handlers only parse input and map
// service errors to status codes.
type BoardHandler struct {
	Board       BoardReader
	Workers     WorkerReader
	Assignments AssignmentMutator
	Logger      *zap.Logger
}

// NewBoardHandler constructs a BoardHandler.  All services must be non-nil.
func NewBoardHandler(board BoardReader, workers WorkerReader, assignments AssignmentMutator, logger *zap.Logger) *BoardHandler {
	if board == nil || workers == nil || assignments == nil {
		panic("nil service passed to NewBoardHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardHandler{Board: board, Workers: workers, Assignments: assignments, Logger: logger}
}

// GetBoard handles GET /v1/board.
func (h *BoardHandler) GetBoard(c echo.Context) error {
	snap, err := h.Board.GetBoard(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// ListOrderWorkers handles GET /v1/repair-orders/:id/workers.
func (h *BoardHandler) ListOrderWorkers(c echo.Context) error {
	workers, err := h.Workers.ActiveWorkersForOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"repair_order_id": c.Param("id"), "active_workers": workers})
}

// UpsertAssignment handles PUT /v1/lift-assignments.  The body names the
// order and the lift; the order's existing row is reused when present.
func (h *BoardHandler) UpsertAssignment(c echo.Context) error {
	var body upsertRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	a, err := h.Assignments.UpsertAssignment(h.ctx(c), service.UpsertInput{
		OrderID:        body.RepairOrderID,
		LiftID:         body.LiftID,
		ScheduledStart: body.ScheduledStart.ptr(),
		ScheduledEnd:   body.ScheduledEnd.ptr(),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// UpdateAssignment handles PATCH /v1/lift-assignments/:id.
func (h *BoardHandler) UpdateAssignment(c echo.Context) error {
	var body patchRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	a, err := h.Assignments.UpdateAssignment(h.ctx(c), c.Param("id"), body.patch())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// ClearAssignment handles DELETE /v1/lift-assignments/:id/lift.  The
// assignment row survives with its lift and window emptied.
func (h *BoardHandler) ClearAssignment(c echo.Context) error {
	a, err := h.Assignments.ClearAssignment(h.ctx(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// SetPartsWait handles PATCH /v1/lift-assignments/:id/parts-wait.
func (h *BoardHandler) SetPartsWait(c echo.Context) error {
	var body partsWaitRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	a, err := h.Assignments.SetPartsWait(h.ctx(c), c.Param("id"), body.partsWait())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// ctx carries the caller's id into the service for event attribution.
func (h *BoardHandler) ctx(c echo.Context) context.Context {
	return service.WithActor(c.Request().Context(), middleware.UserID(c))
}

// fail maps service errors to HTTP.  Store details stay in the log.
func (h *BoardHandler) fail(c echo.Context, err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		h.Logger.Error("unexpected handler error", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	switch se.Kind {
	case service.KindInvalid:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": se.Public()})
	case service.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": se.Public()})
	}
	h.Logger.Error("board request failed", zap.String("path", c.Path()), zap.String("op", se.Op), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": se.Public()})
}
