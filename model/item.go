package model

import "time"

type ItemKind string

const (
	KindBook    ItemKind = "book"
	KindArticle ItemKind = "article"
)

// Valid reports whether the value is a known kind. Body payloads are checked
// by the validator's oneof tag; this covers values arriving as query params.
func (k ItemKind) Valid() bool {
	switch k {
	case KindBook, KindArticle:
		return true
	}
	return false
}

type ItemStatus string

const (
	StatusPlanned ItemStatus = "planned"
	StatusReading ItemStatus = "reading"
	StatusDone    ItemStatus = "done"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusReading, StatusDone:
		return true
	}
	return false
}

type ItemPriority string

const (
	PriorityLow    ItemPriority = "low"
	PriorityNormal ItemPriority = "normal"
	PriorityHigh   ItemPriority = "high"
)

func (p ItemPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// Item is a single reading-list entry (a book or an article).
type Item struct {
	ID        int          `json:"id"`
	UserID    int          `json:"user_id"`
	Title     string       `json:"title"`
	Kind      ItemKind     `json:"kind"`
	Status    ItemStatus   `json:"status"`
	Priority  ItemPriority `json:"priority"`
	Notes     string       `json:"notes"`
	Tags      []string     `json:"tags"`
	IsDeleted bool         `json:"-"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type Tag struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
}

// ItemPatch carries the column changes of a partial update. Only non-nil
// fields are written; updated_at is always refreshed.
type ItemPatch struct {
	Title    *string
	Kind     *ItemKind
	Status   *ItemStatus
	Priority *ItemPriority
	Notes    *string
}

func (p *ItemPatch) IsEmpty() bool {
	return p.Title == nil && p.Kind == nil && p.Status == nil && p.Priority == nil && p.Notes == nil
}
