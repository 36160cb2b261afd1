package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/account-manager/internal/audit"
	"github.com/mrlokans/account-manager/internal/entities"
	"github.com/mrlokans/account-manager/internal/i18n"
	"github.com/mrlokans/account-manager/internal/services"
)

// StatusRequest is the body of PATCH /api/accounts/:id/status.
type StatusRequest struct {
	Status *bool `json:"status" binding:"required"`
}

type AccountsController struct {
	store        AccountStore
	validator    RecordValidator
	auditService *audit.Service
	localizer    *i18n.Localizer
}

func NewAccountsController(store AccountStore, validator RecordValidator, auditService *audit.Service, localizer *i18n.Localizer) *AccountsController {
	return &AccountsController{
		store:        store,
		validator:    validator,
		auditService: auditService,
		localizer:    newLocalizer(localizer),
	}
}

// List returns every account ordered by id.
// GET /api/accounts
func (ac *AccountsController) List(c *gin.Context) {
	accounts, err := ac.store.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list accounts", tr(c, ac.localizer, i18n.FetchAccountsFailed))
		return
	}
	if accounts == nil {
		accounts = []entities.Account{}
	}
	c.JSON(http.StatusOK, accounts)
}

// Create stores one account from a JSON body.
// POST /api/accounts
func (ac *AccountsController) Create(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		respondInvalidData(c, tr(c, ac.localizer, i18n.InvalidData), []services.FieldError{{Message: "malformed JSON body"}})
		return
	}

	input, err := ac.validator.Validate(body)
	if err != nil {
		var schemaErr *services.SchemaError
		if errors.As(err, &schemaErr) {
			respondInvalidData(c, tr(c, ac.localizer, i18n.InvalidData), schemaErr.Fields)
			return
		}
		respondInternalError(c, err, "validate account", tr(c, ac.localizer, i18n.CreateAccountFailed))
		return
	}

	account, err := ac.store.Create(c.Request.Context(), input)
	if ac.auditService != nil {
		ac.auditService.LogCreate(requestMeta(c), account, err)
	}
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		respondMessage(c, http.StatusConflict, tr(c, ac.localizer, i18n.UsernameTaken))
		return
	case err != nil:
		respondInternalError(c, err, "create account", tr(c, ac.localizer, i18n.CreateAccountFailed))
		return
	}

	c.JSON(http.StatusCreated, account)
}

// SetStatus activates or deactivates an account.
// PATCH /api/accounts/:id/status
func (ac *AccountsController) SetStatus(c *gin.Context) {
	id, ok := parseIDParam(c, ac.localizer, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidData(c, tr(c, ac.localizer, i18n.InvalidData), []services.FieldError{
			{Field: "status", Message: "expected boolean"},
		})
		return
	}

	account, err := ac.store.SetStatus(c.Request.Context(), id, *req.Status)
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		respondMessage(c, http.StatusNotFound, tr(c, ac.localizer, i18n.AccountNotFound))
		return
	case err != nil:
		respondInternalError(c, err, "update account status", tr(c, ac.localizer, i18n.UpdateAccountFailed))
		return
	}

	if ac.auditService != nil {
		ac.auditService.LogStatusChange(requestMeta(c), id, *req.Status)
	}
	c.JSON(http.StatusOK, account)
}

// Delete removes an account.
// DELETE /api/accounts/:id
func (ac *AccountsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, ac.localizer, "id")
	if !ok {
		return
	}

	deleted, err := ac.store.Delete(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "delete account", tr(c, ac.localizer, i18n.DeleteAccountFailed))
		return
	}
	if !deleted {
		respondMessage(c, http.StatusNotFound, tr(c, ac.localizer, i18n.AccountNotFound))
		return
	}

	if ac.auditService != nil {
		ac.auditService.LogDelete(requestMeta(c), id)
	}
	c.Status(http.StatusNoContent)
}

// Stats returns total, active and inactive counts.
// GET /api/accounts/stats
func (ac *AccountsController) Stats(c *gin.Context) {
	stats, err := ac.store.Stats(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "account stats", tr(c, ac.localizer, i18n.FetchStatsFailed))
		return
	}
	c.JSON(http.StatusOK, stats)
}
