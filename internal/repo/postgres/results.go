package postgres

// Write-result shapes returned to API clients. The frontend was built against
// a document store and keys off matchedCount/deletedCount style fields, so the
// repos report writes in those terms.

type UpdateResult struct {
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedID    *string `json:"upsertedId,omitempty"`
}

type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}
