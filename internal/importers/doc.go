// Package importers implements bulk account import.
//
// # Flow
//
//	upload bytes → size guard → [ ... ] extraction → ParseLiteral → shape guards
//	            → for each element: validate → in-file dedup → AccountCreator.Create
//
// Upload-level problems (too large, no array, syntax error, more than the
// record limit) return an *ImportError before anything is written. Once the
// loop starts, every element ends up either in ImportOutcome.Imported or in
// ImportOutcome.Rejected with a RejectionKind and message.
//
// # Accepted format
//
// Uploads are JavaScript-style object literals rather than strict JSON:
//
//	[
//	  {username: 'alice', password: 'secret'},
//	  {"username": "bob", "password": "hunter2"},
//	]
//
// Text before the first '[' and after the last ']' is ignored, so a file like
// `const accounts = [...];` imports as well. See ParseLiteral for the grammar.
//
// # Usage
//
//	pipeline := importers.NewPipeline(accountService, services.NewRecordValidator(), importers.Limits{})
//	outcome, err := pipeline.Import(ctx, data)
//
//	var importErr *importers.ImportError
//	if errors.As(err, &importErr) {
//	    // importErr.Reason selects the user-facing message
//	}
package importers
