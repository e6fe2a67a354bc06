package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/church-connect/admin-api/internal/core/domain"
	"github.com/church-connect/admin-api/internal/core/ports"
)

// AccountHandler handles HTTP requests for staff account management. All
// routes sit behind the admin-required middleware; the handler re-reads the
// injected caller and passes it to the service, which enforces the same
// requirement again before mutating anything.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Create registers a new staff account with a role.
//
// @Summary      Create a staff account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "New account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	summary, err := h.service.Create(c.Request().Context(), caller, ports.CreateAccountInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.ParseRole(req.Role),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAccountResponse(summary))
}

// List returns every staff account with its role. Accounts missing a role
// record show role "Unknown" — the reconciliation view.
//
// @Summary      List staff accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	summaries, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	out := make([]accountResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toAccountResponse(s))
	}
	return c.JSON(http.StatusOK, out)
}

// ChangePassword sets a new password on the target account.
//
// @Summary      Change an account's password
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Account ID"
// @Param        body  body      changePasswordRequest  true  "New password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /accounts/{id}/password [put]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	if err := h.service.ChangePassword(c.Request().Context(), caller, c.Param("id"), req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// Delete removes the target account and its role record. Deleting an account
// that is already gone succeeds; deleting yourself never does.
//
// @Summary      Delete a staff account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Account ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
