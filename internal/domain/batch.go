package domain

// BatchDeleteRequest is the JSON array sent to DELETE /movies/batch and
// DELETE /actors/batch.
type BatchDeleteRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// BatchDeleteResult reports how many of the requested rows were removed.
// Ids without a matching row are ignored.
type BatchDeleteResult struct {
	Message      string  `json:"message"`
	RequestedIDs []int64 `json:"requested_ids"`
	DeletedCount int64   `json:"deleted_count"`
}
