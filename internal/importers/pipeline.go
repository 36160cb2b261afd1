package importers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mrlokans/account-manager/internal/entities"
	"github.com/mrlokans/account-manager/internal/services"
)

// Default messages recorded for rejected uploads and records.
const (
	MsgNoArray          = "file must contain a JSON array"
	MsgNotArray         = "file must contain an array of accounts"
	MsgDuplicateInFile  = "duplicate username within file"
	MsgDuplicateInStore = "username already exists in database"
	MsgUnknownError     = "unknown error"
)

const (
	DefaultMaxBytes   int64 = 1 << 20
	DefaultMaxRecords       = 1000
)

// AccountCreator persists a single validated record. A username conflict
// must be reported as services.ErrUsernameTaken.
type AccountCreator interface {
	Create(ctx context.Context, input entities.NewAccount) (*entities.Account, error)
}

// UsernameChecker reports whether a username is already stored.
type UsernameChecker interface {
	Exists(ctx context.Context, username string) (bool, error)
}

// RecordValidator converts one parsed element into a creatable account.
type RecordValidator interface {
	Validate(raw any) (entities.NewAccount, error)
}

// Limits bounds a single import. Zero values select the defaults.
type Limits struct {
	MaxBytes   int64
	MaxRecords int
}

// Pipeline handles the bulk import workflow:
// size guard → extract array → parse literal → shape guards → validate,
// deduplicate and create each record in order.
//
// Records are processed one at a time. A failing record is reported in the
// outcome and never stops the records after it.
type Pipeline struct {
	store     AccountCreator
	validator RecordValidator
	limits    Limits
}

// NewPipeline creates a new import pipeline.
func NewPipeline(store AccountCreator, validator RecordValidator, limits Limits) *Pipeline {
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = DefaultMaxBytes
	}
	if limits.MaxRecords <= 0 {
		limits.MaxRecords = DefaultMaxRecords
	}
	return &Pipeline{
		store:     store,
		validator: validator,
		limits:    limits,
	}
}

// Limits returns the effective limits.
func (p *Pipeline) Limits() Limits {
	return p.limits
}

// Import parses raw and creates every acceptable record. A non-nil error is
// either an *ImportError (nothing was written) or the context error when the
// run was cancelled part way, in which case the outcome holds what was done.
func (p *Pipeline) Import(ctx context.Context, raw []byte) (entities.ImportOutcome, error) {
	records, err := p.Parse(raw)
	if err != nil {
		return entities.ImportOutcome{}, err
	}
	return p.process(ctx, p.store, records)
}

// Preview runs every guard and per-record check of Import without writing.
// Records whose username checker reports as stored are rejected as store
// duplicates; the accounts in the outcome have no ID.
func (p *Pipeline) Preview(ctx context.Context, raw []byte, checker UsernameChecker) (entities.ImportOutcome, error) {
	records, err := p.Parse(raw)
	if err != nil {
		return entities.ImportOutcome{}, err
	}
	return p.process(ctx, previewCreator{checker: checker}, records)
}

// Parse applies the request-level guards and returns the decoded elements.
func (p *Pipeline) Parse(raw []byte) ([]any, error) {
	if size := int64(len(raw)); size > p.limits.MaxBytes {
		return nil, payloadTooLarge(size, p.limits.MaxBytes)
	}

	candidate, ok := extractArray(raw)
	if !ok {
		return nil, malformed(ReasonNoArray, MsgNoArray, nil)
	}

	value, err := ParseLiteral(candidate)
	if err != nil {
		return nil, malformed(ReasonSyntax, "", err)
	}

	records, err := asRecords(value)
	if err != nil {
		return nil, err
	}
	if len(records) > p.limits.MaxRecords {
		return nil, tooManyRecords(len(records), p.limits.MaxRecords)
	}

	log.Printf("Parsed %d account records for import", len(records))
	return records, nil
}

func (p *Pipeline) process(ctx context.Context, store AccountCreator, records []any) (entities.ImportOutcome, error) {
	outcome := entities.ImportOutcome{
		Imported: []entities.Account{},
		Rejected: []entities.Rejection{},
	}
	seen := make(map[string]struct{}, len(records))

	reject := func(record any, kind entities.RejectionKind, msg string) {
		outcome.Rejected = append(outcome.Rejected, entities.Rejection{Record: record, Kind: kind, Message: msg})
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		input, err := p.validator.Validate(record)
		if err != nil {
			reject(record, entities.RejectionSchema, err.Error())
			continue
		}

		if _, dup := seen[input.Username]; dup {
			reject(record, entities.RejectionDuplicateInFile, MsgDuplicateInFile)
			continue
		}
		seen[input.Username] = struct{}{}

		account, err := store.Create(ctx, input)
		switch {
		case err == nil:
			outcome.Imported = append(outcome.Imported, *account)
		case errors.Is(err, services.ErrUsernameTaken):
			reject(record, entities.RejectionDuplicateInStore, MsgDuplicateInStore)
		default:
			msg := err.Error()
			if msg == "" {
				msg = MsgUnknownError
			}
			reject(record, entities.RejectionStoreError, msg)
		}
	}

	return outcome, nil
}

// asRecords is the top-level shape guard. extractArray only hands the parser
// bracketed text, so a non-array here means ParseLiteral broke its contract.
func asRecords(value any) ([]any, error) {
	records, ok := value.([]any)
	if !ok {
		return nil, malformed(ReasonNotArray, MsgNotArray, nil)
	}
	return records, nil
}

// extractArray returns the text from the first '[' through the last ']'.
// Invalid UTF-8 is replaced rather than rejected.
func extractArray(raw []byte) (string, bool) {
	text := strings.ToValidUTF8(string(raw), "\uFFFD")

	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// previewCreator answers Create from an existence check only.
type previewCreator struct {
	checker UsernameChecker
}

func (c previewCreator) Create(ctx context.Context, input entities.NewAccount) (*entities.Account, error) {
	exists, err := c.checker.Exists(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", services.ErrUsernameTaken, input.Username)
	}
	return &entities.Account{Username: input.Username, Password: input.Password, Status: true}, nil
}
