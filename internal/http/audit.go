package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/account-manager/internal/audit"
	"github.com/mrlokans/account-manager/internal/entities"
	"github.com/mrlokans/account-manager/internal/i18n"
)

const (
	defaultAuditLimit = 25
	maxAuditLimit     = 100
)

type AuditController struct {
	auditService *audit.Service
	localizer    *i18n.Localizer
}

func NewAuditController(auditService *audit.Service, localizer *i18n.Localizer) *AuditController {
	return &AuditController{
		auditService: auditService,
		localizer:    newLocalizer(localizer),
	}
}

// GetAuditEvents returns paginated audit events, newest first.
// GET /api/audit?limit=&offset=&type=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit := queryInt(c, "limit", defaultAuditLimit)
	if limit < 1 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	offset := queryInt(c, "offset", 0)
	eventType := entities.AuditEventType(c.Query("type"))

	events, total, err := ac.auditService.GetEvents(c.Request.Context(), eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list audit events", tr(c, ac.localizer, i18n.FetchAuditFailed))
		return
	}
	if events == nil {
		events = []entities.AuditEvent{}
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}
