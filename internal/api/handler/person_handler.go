package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
	"github.com/ledgerbook/debt-ledger/internal/core/ports"
)

// PersonHandler handles HTTP requests for people and their per-person views.
type PersonHandler struct {
	ledger ports.LedgerService
}

func NewPersonHandler(ledger ports.LedgerService) *PersonHandler {
	return &PersonHandler{ledger: ledger}
}

// List handles GET /v1/people.
//
// @Summary      List people
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Person
// @Failure      401  {object}  errorResponse
// @Router       /v1/people [get]
func (h *PersonHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	people, err := h.ledger.ListPeople(c.Request().Context(), id.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, people)
}

// Create handles POST /v1/people.
//
// @Summary      Create a person
// @Tags         people
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.PersonInsert  true  "Person"
// @Success      201   {object}  domain.Person
// @Failure      422   {object}  errorResponse
// @Router       /v1/people [post]
func (h *PersonHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var in domain.PersonInsert
	if err := bind(c, &in); err != nil {
		return err
	}

	ctx := c.Request().Context()
	personID, err := h.ledger.CreatePerson(ctx, id.ID, in)
	if err != nil {
		return err
	}
	person, err := h.ledger.GetPerson(ctx, id.ID, personID)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/v1/people/"+personID)
	return c.JSON(http.StatusCreated, person)
}

// Get handles GET /v1/people/:id.
//
// @Summary      Get a person
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Person id"
// @Success      200  {object}  domain.Person
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/people/{id} [get]
func (h *PersonHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	person, err := h.ledger.GetPerson(c.Request().Context(), id.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, person)
}

// Update handles PATCH /v1/people/:id.
//
// @Summary      Update a person
// @Tags         people
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Person id"
// @Param        body  body      domain.PersonUpdate  true  "Fields to change"
// @Success      200   {object}  domain.Person
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/people/{id} [patch]
func (h *PersonHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var in domain.PersonUpdate
	if err := bind(c, &in); err != nil {
		return err
	}

	ctx := c.Request().Context()
	personID := c.Param("id")
	if err := h.ledger.UpdatePerson(ctx, id.ID, personID, in); err != nil {
		return err
	}
	person, err := h.ledger.GetPerson(ctx, id.ID, personID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, person)
}

// Delete handles DELETE /v1/people/:id. The person's transactions go first.
//
// @Summary      Delete a person and their transactions
// @Tags         people
// @Security     BearerAuth
// @Param        id   path  string  true  "Person id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/people/{id} [delete]
func (h *PersonHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.ledger.DeletePerson(c.Request().Context(), id.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Transactions handles GET /v1/people/:id/transactions.
//
// @Summary      List a person's transactions
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Person id"
// @Success      200  {array}   domain.Transaction
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/people/{id}/transactions [get]
func (h *PersonHandler) Transactions(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	txs, err := h.ledger.ListTransactionsForPerson(c.Request().Context(), id.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txs)
}

// Balance handles GET /v1/people/:id/balance.
//
// @Summary      Balance with one person
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Person id"
// @Success      200  {object}  ports.PersonBalance
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/people/{id}/balance [get]
func (h *PersonHandler) Balance(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	pb, err := h.ledger.PersonBalance(c.Request().Context(), id.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pb)
}
