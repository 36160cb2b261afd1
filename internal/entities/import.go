package entities

// RejectionKind classifies why a record was not imported.
type RejectionKind string

const (
	RejectionSchema           RejectionKind = "schema"
	RejectionDuplicateInFile  RejectionKind = "duplicate_in_file"
	RejectionDuplicateInStore RejectionKind = "duplicate_in_store"
	RejectionStoreError       RejectionKind = "store_error"
)

// Rejection pairs an input element with the reason it was skipped.
// Record is the element exactly as parsed from the upload.
type Rejection struct {
	Record  any           `json:"account"`
	Kind    RejectionKind `json:"kind"`
	Message string        `json:"error"`
}

// ImportOutcome is the itemised result of one bulk import run.
// Both slices preserve input order.
type ImportOutcome struct {
	Imported []Account
	Rejected []Rejection
}

func (o ImportOutcome) ImportedCount() int {
	return len(o.Imported)
}

func (o ImportOutcome) RejectedCount() int {
	return len(o.Rejected)
}
