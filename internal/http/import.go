package http

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/account-manager/internal/audit"
	"github.com/mrlokans/account-manager/internal/entities"
	"github.com/mrlokans/account-manager/internal/i18n"
	"github.com/mrlokans/account-manager/internal/importers"
)

const (
	importFormField = "file"

	// multipartSlack covers boundaries and part headers on top of the file.
	multipartSlack = 64 << 10
)

// ImportResponse reports the outcome of a bulk import.
type ImportResponse struct {
	Imported     int                 `json:"imported"`
	Errors       int                 `json:"errors"`
	Accounts     []entities.Account  `json:"accounts"`
	ErrorDetails []ImportErrorDetail `json:"errorDetails"`
}

// ImportErrorDetail pairs a rejected input element with the reason.
type ImportErrorDetail struct {
	Account any    `json:"account"`
	Error   string `json:"error"`
}

type ImportController struct {
	importer     AccountImporter
	auditService *audit.Service
	localizer    *i18n.Localizer
}

func NewImportController(importer AccountImporter, auditService *audit.Service, localizer *i18n.Localizer) *ImportController {
	return &ImportController{
		importer:     importer,
		auditService: auditService,
		localizer:    newLocalizer(localizer),
	}
}

// Import creates accounts from an uploaded file.
// POST /api/accounts/import (multipart field "file")
func (ic *ImportController) Import(c *gin.Context) {
	limits := ic.importer.Limits()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limits.MaxBytes+multipartSlack)

	file, _, err := c.Request.FormFile(importFormField)
	if err != nil {
		if isBodyTooLarge(err) {
			ic.rejectUpload(c, tr(c, ic.localizer, i18n.ImportTooLarge, i18n.FormatSize(limits.MaxBytes)), err)
			return
		}
		respondMessage(c, http.StatusBadRequest, tr(c, ic.localizer, i18n.ImportNoFile))
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			ic.rejectUpload(c, tr(c, ic.localizer, i18n.ImportTooLarge, i18n.FormatSize(limits.MaxBytes)), err)
			return
		}
		respondInternalError(c, err, "read import upload", tr(c, ic.localizer, i18n.ImportFailed))
		return
	}

	outcome, err := ic.importer.Import(c.Request.Context(), raw)
	if err != nil {
		var importErr *importers.ImportError
		if errors.As(err, &importErr) {
			ic.rejectUpload(c, ic.uploadMessage(c, importErr, limits), err)
			return
		}
		ic.logImport(c, outcome, err)
		respondInternalError(c, err, "import accounts", tr(c, ic.localizer, i18n.ImportFailed))
		return
	}

	ic.logImport(c, outcome, nil)
	c.JSON(http.StatusOK, ic.response(c, outcome))
}

func (ic *ImportController) rejectUpload(c *gin.Context, message string, err error) {
	log.Printf("Import rejected [request %s]: %v", requestID(c), err)
	ic.logImport(c, entities.ImportOutcome{}, err)
	respondMessage(c, http.StatusBadRequest, message)
}

func (ic *ImportController) logImport(c *gin.Context, outcome entities.ImportOutcome, err error) {
	if ic.auditService == nil {
		return
	}
	ic.auditService.LogImport(requestMeta(c), "http", outcome.ImportedCount(), outcome.RejectedCount(), err)
}

func (ic *ImportController) uploadMessage(c *gin.Context, err *importers.ImportError, limits importers.Limits) string {
	switch err.Reason {
	case importers.ReasonTooLarge:
		return tr(c, ic.localizer, i18n.ImportTooLarge, i18n.FormatSize(limits.MaxBytes))
	case importers.ReasonNoArray:
		return tr(c, ic.localizer, i18n.ImportNoArray)
	case importers.ReasonNotArray:
		return tr(c, ic.localizer, i18n.ImportNotArray)
	case importers.ReasonTooMany:
		return tr(c, ic.localizer, i18n.ImportTooMany, strconv.Itoa(limits.MaxRecords))
	default:
		return tr(c, ic.localizer, i18n.ImportSyntax)
	}
}

func (ic *ImportController) response(c *gin.Context, outcome entities.ImportOutcome) ImportResponse {
	details := make([]ImportErrorDetail, 0, len(outcome.Rejected))
	for _, r := range outcome.Rejected {
		details = append(details, ImportErrorDetail{
			Account: r.Record,
			Error:   ic.rejectionMessage(c, r),
		})
	}

	accounts := outcome.Imported
	if accounts == nil {
		accounts = []entities.Account{}
	}

	return ImportResponse{
		Imported:     outcome.ImportedCount(),
		Errors:       outcome.RejectedCount(),
		Accounts:     accounts,
		ErrorDetails: details,
	}
}

// rejectionMessage localizes the fixed record-level messages. Schema and
// store error details pass through unchanged.
func (ic *ImportController) rejectionMessage(c *gin.Context, r entities.Rejection) string {
	switch r.Kind {
	case entities.RejectionDuplicateInFile:
		return tr(c, ic.localizer, i18n.ImportDuplicateFile)
	case entities.RejectionDuplicateInStore:
		return tr(c, ic.localizer, i18n.ImportDuplicateStore)
	case entities.RejectionStoreError:
		if r.Message == "" || r.Message == importers.MsgUnknownError {
			return tr(c, ic.localizer, i18n.ImportUnknownError)
		}
	}
	return r.Message
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
