package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
	"github.com/ledgerbook/debt-ledger/internal/core/ports"
)

// TransactionHandler handles HTTP requests for transactions.
type TransactionHandler struct {
	ledger ports.LedgerService
}

func NewTransactionHandler(ledger ports.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// List handles GET /v1/transactions.
//
// @Summary      List transactions, newest first
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Transaction
// @Failure      401  {object}  errorResponse
// @Router       /v1/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	txs, err := h.ledger.ListTransactions(c.Request().Context(), id.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txs)
}

// Create handles POST /v1/transactions.
//
// @Summary      Record a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.TransactionInsert  true  "Transaction"
// @Success      201   {object}  domain.Transaction
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var in domain.TransactionInsert
	if err := bind(c, &in); err != nil {
		return err
	}

	ctx := c.Request().Context()
	txID, err := h.ledger.CreateTransaction(ctx, id.ID, in)
	if err != nil {
		return err
	}
	tx, err := h.ledger.GetTransaction(ctx, id.ID, txID)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/v1/transactions/"+txID)
	return c.JSON(http.StatusCreated, tx)
}

// Get handles GET /v1/transactions/:id.
//
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction id"
// @Success      200  {object}  domain.Transaction
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	tx, err := h.ledger.GetTransaction(c.Request().Context(), id.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tx)
}

// Update handles PATCH /v1/transactions/:id.
//
// @Summary      Update a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Transaction id"
// @Param        body  body      domain.TransactionUpdate  true  "Fields to change"
// @Success      200   {object}  domain.Transaction
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/transactions/{id} [patch]
func (h *TransactionHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var in domain.TransactionUpdate
	if err := bind(c, &in); err != nil {
		return err
	}

	ctx := c.Request().Context()
	txID := c.Param("id")
	if err := h.ledger.UpdateTransaction(ctx, id.ID, txID, in); err != nil {
		return err
	}
	tx, err := h.ledger.GetTransaction(ctx, id.ID, txID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tx)
}

// Settle handles POST /v1/transactions/:id/settle.
//
// @Summary      Mark a transaction settled or unsettled
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Transaction id"
// @Param        body  body      settleRequest  true  "Settlement state"
// @Success      200   {object}  domain.Transaction
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/transactions/{id}/settle [post]
func (h *TransactionHandler) Settle(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req settleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	txID := c.Param("id")
	if err := h.ledger.SettleTransaction(ctx, id.ID, txID, *req.Settled); err != nil {
		return err
	}
	tx, err := h.ledger.GetTransaction(ctx, id.ID, txID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tx)
}

// Delete handles DELETE /v1/transactions/:id.
//
// @Summary      Delete a transaction
// @Tags         transactions
// @Security     BearerAuth
// @Param        id   path  string  true  "Transaction id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.ledger.DeleteTransaction(c.Request().Context(), id.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Summary handles GET /v1/summary. A store failure yields an empty view
// flagged degraded rather than an error.
//
// @Summary      Whole-ledger balance
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.Dashboard
// @Failure      401  {object}  errorResponse
// @Router       /v1/summary [get]
func (h *TransactionHandler) Summary(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.ledger.Dashboard(c.Request().Context(), id.ID))
}
