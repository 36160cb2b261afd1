package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/account-manager/internal/database/audit"
	"github.com/mrlokans/account-manager/internal/entities"
)

// RequestMeta identifies the caller behind an audited action.
type RequestMeta struct {
	IPAddress string
	UserAgent string
	RequestID string
}

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Flush blocks until pending asynchronous writes have finished.
func (s *Service) Flush() {
	s.wg.Wait()
}

// LogImport records a bulk import run. source is "http" or "cli".
func (s *Service) LogImport(meta RequestMeta, source string, imported, rejected int, err error) {
	event := newEvent(meta, entities.AuditEventImport, "accounts_import")
	event.EntityType = "account"
	event.Description = fmt.Sprintf("Imported %d accounts, rejected %d (%s)", imported, rejected, source)

	metadata := map[string]any{
		"source":   source,
		"imported": imported,
		"rejected": rejected,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	switch {
	case err != nil:
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	case rejected > 0:
		event.Status = entities.AuditStatusPartial
	}

	s.LogAsync(event)
}

// LogCreate records a single account creation.
func (s *Service) LogCreate(meta RequestMeta, account *entities.Account, err error) {
	event := newEvent(meta, entities.AuditEventCreate, "account_create")
	event.EntityType = "account"

	if account != nil {
		event.EntityID = &account.ID
		event.Description = "Created account: " + account.Username
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogStatusChange records an account being activated or deactivated.
func (s *Service) LogStatusChange(meta RequestMeta, id uint, status bool) {
	action := "account_deactivate"
	if status {
		action = "account_activate"
	}

	event := newEvent(meta, entities.AuditEventStatus, action)
	event.EntityType = "account"
	event.EntityID = &id
	event.Description = fmt.Sprintf("Set account %d status to %t", id, status)

	s.LogAsync(event)
}

// LogDelete records an account deletion.
func (s *Service) LogDelete(meta RequestMeta, id uint) {
	event := newEvent(meta, entities.AuditEventDelete, "account_delete")
	event.EntityType = "account"
	event.EntityID = &id
	event.Description = fmt.Sprintf("Deleted account %d", id)

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events, optionally filtered by type.
func (s *Service) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func newEvent(meta RequestMeta, eventType entities.AuditEventType, action string) *entities.AuditEvent {
	return &entities.AuditEvent{
		EventType: eventType,
		Action:    action,
		IPAddress: meta.IPAddress,
		UserAgent: truncate(meta.UserAgent, 500),
		RequestID: meta.RequestID,
		Status:    entities.AuditStatusSuccess,
	}
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
