package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/icook/tiny-flipper/contract/flipper"
	"github.com/icook/tiny-flipper/db"
	"github.com/icook/tiny-flipper/engine"
	"github.com/icook/tiny-flipper/identity"
)

const (
	callerKey    = "caller"
	callerErrKey = "caller_err"
)

type handlers struct {
	eng *engine.Engine
	log *slog.Logger
}

type deployRequest struct {
	InitValue *bool `json:"init_value"`
}

type contractResponse struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Value bool   `json:"value"`
}

type valueResponse struct {
	Value bool `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// resolveCaller reads the caller header. Read routes tolerate a missing
// caller and run as the zero account.
func resolveCaller(c *gin.Context) {
	raw := c.GetHeader(CallerHeader)
	if raw == "" {
		c.Set(callerKey, identity.AccountID{})
		c.Set(callerErrKey, errors.New(CallerHeader+" header is required"))
		return
	}
	caller, err := identity.ResolveAccount(raw)
	if err != nil {
		c.Set(callerErrKey, err)
		return
	}
	c.Set(callerKey, caller)
}

// rejectInvalidCaller lets a missing caller through but refuses one that was
// sent and could not be resolved.
func rejectInvalidCaller(c *gin.Context) {
	if _, ok := c.Get(callerKey); ok {
		return
	}
	if v, ok := c.Get(callerErrKey); ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: v.(error).Error()})
	}
}

func requireCaller(c *gin.Context) {
	if v, ok := c.Get(callerErrKey); ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: v.(error).Error()})
	}
}

// callerOf returns the resolved caller, or the zero account when the request
// carried none. Routes guard against unparseable callers before this runs.
func callerOf(c *gin.Context) identity.AccountID {
	v, ok := c.Get(callerKey)
	if !ok {
		return identity.AccountID{}
	}
	return v.(identity.AccountID)
}

func contractID(c *gin.Context) (identity.ContractID, bool) {
	id, err := identity.ParseContractID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid contract id"})
		return identity.ContractID{}, false
	}
	return id, true
}

func (h *handlers) deploy(c *gin.Context) {
	caller := callerOf(c)
	var req deployRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}
	id, err := h.eng.Deploy(c.Request.Context(), caller, req.InitValue)
	if err != nil {
		h.fail(c, err)
		return
	}
	snap, err := h.eng.Describe(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshotResponse(snap))
}

func (h *handlers) describe(c *gin.Context) {
	id, ok := contractID(c)
	if !ok {
		return
	}
	snap, err := h.eng.Describe(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotResponse(snap))
}

func (h *handlers) getVal(c *gin.Context) {
	id, ok := contractID(c)
	if !ok {
		return
	}
	value, err := h.eng.GetVal(c.Request.Context(), id, callerOf(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, valueResponse{Value: value})
}

func (h *handlers) flip(c *gin.Context) {
	id, ok := contractID(c)
	if !ok {
		return
	}
	caller := callerOf(c)
	value, err := h.eng.Flip(c.Request.Context(), id, caller)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, valueResponse{Value: value})
}

// fail maps engine errors onto HTTP statuses. Contract rejections are the
// caller's fault; anything unexpected is logged and hidden.
func (h *handlers) fail(c *gin.Context, err error) {
	var rejected flipper.Error
	switch {
	case errors.As(err, &rejected):
		c.JSON(http.StatusForbidden, errorResponse{Error: rejected.Error()})
	case errors.Is(err, db.ErrContractNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "contract not found"})
	default:
		h.log.ErrorContext(c.Request.Context(), "request failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func snapshotResponse(s engine.Snapshot) contractResponse {
	return contractResponse{
		ID:    s.ID.String(),
		Owner: s.Owner.String(),
		Value: s.Value,
	}
}
