package model

import "time"

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
// The password cap is bcrypt's 72-byte input limit; anything longer would be
// rejected by the hasher instead of the validator.
type RegisterRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateItemRequest defines the payload for adding a reading-list entry.
type CreateItemRequest struct {
	Title    string       `json:"title" validate:"required,min=2,max=100"`
	Kind     ItemKind     `json:"kind" validate:"required,oneof=book article"`
	Status   ItemStatus   `json:"status" validate:"omitempty,oneof=planned reading done"`
	Priority ItemPriority `json:"priority" validate:"omitempty,oneof=low normal high"`
	Notes    string       `json:"notes" validate:"max=2500"`
	Tags     []string     `json:"tags" validate:"max=20,dive,min=2,max=50"`
}

// UpdateItemRequest is a partial update: every field is optional, nil means
// "leave unchanged". A nil Tags slice leaves the tag set untouched, an empty
// one removes all tags.
type UpdateItemRequest struct {
	Title    *string       `json:"title" validate:"omitempty,min=2,max=100"`
	Kind     *ItemKind     `json:"kind" validate:"omitempty,oneof=book article"`
	Status   *ItemStatus   `json:"status" validate:"omitempty,oneof=planned reading done"`
	Priority *ItemPriority `json:"priority" validate:"omitempty,oneof=low normal high"`
	Notes    *string       `json:"notes" validate:"omitempty,max=2500"`
	Tags     []string      `json:"tags" validate:"omitempty,max=20,dive,min=2,max=50"`
}

func (r *UpdateItemRequest) HasChanges() bool {
	return r.Title != nil || r.Kind != nil || r.Status != nil ||
		r.Priority != nil || r.Notes != nil || r.Tags != nil
}

// Sort columns accepted by the item listing.
const (
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByPriority  = "priority"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// ItemFilters carries the listing query: filtering, sorting and pagination.
// Zero values mean "no filter".
type ItemFilters struct {
	Status      ItemStatus
	Kind        ItemKind
	Priority    ItemPriority
	TitleSearch string
	TagNames    []string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      string
	SortOrder   string
	Limit       int
	Offset      int
}

// IsDefault reports whether the filters match the plain first-page listing,
// the only variant worth caching.
func (f ItemFilters) IsDefault() bool {
	return f.Status == "" && f.Kind == "" && f.Priority == "" &&
		f.TitleSearch == "" && len(f.TagNames) == 0 &&
		f.CreatedFrom == nil && f.CreatedTo == nil &&
		(f.SortBy == "" || f.SortBy == SortByCreatedAt) &&
		(f.SortOrder == "" || f.SortOrder == SortOrderDesc) &&
		f.Offset == 0 && (f.Limit == 0 || f.Limit == DefaultListLimit)
}

const DefaultListLimit = 20
