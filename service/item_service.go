package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reading-list-api/logger"
	"reading-list-api/model"
	"reading-list-api/repository"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrItemGone     = errors.New("item deleted")
	ErrNotOwner     = errors.New("item belongs to another user")
	ErrEmptyPatch   = errors.New("at least one field must be provided")
)

const listCacheTTL = 10 * time.Minute

// ItemService manages reading-list entries and their tags. Mutations that
// touch both the items table and the tag links run in a single transaction.
type ItemService struct {
	db    *sql.DB
	items repository.IItemRepository
	tags  repository.ITagRepository
	cache ICacheClient
}

func NewItemService(db *sql.DB, items repository.IItemRepository, tags repository.ITagRepository, cache ICacheClient) *ItemService {
	return &ItemService{
		db:    db,
		items: items,
		tags:  tags,
		cache: cache,
	}
}

// Create inserts the item and links its tags, creating tags the user does
// not have yet. The insert and the tag links commit together: a failed link
// must not leave a tagless item behind.
func (s *ItemService) Create(ctx context.Context, userID int, req *model.CreateItemRequest) (*model.Item, error) {
	item := &model.Item{
		UserID:   userID,
		Title:    req.Title,
		Kind:     req.Kind,
		Status:   req.Status,
		Priority: req.Priority,
		Notes:    req.Notes,
		Tags:     []string{},
	}
	if item.Status == "" {
		item.Status = model.StatusPlanned
	}
	if item.Priority == "" {
		item.Priority = model.PriorityNormal
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.items.CreateItem(tx, item); err != nil {
		return nil, err
	}

	if len(req.Tags) > 0 {
		tags, err := s.findOrCreateTags(tx, userID, dedupeTags(req.Tags))
		if err != nil {
			return nil, err
		}
		if err := s.tags.LinkTags(tx, item.ID, tagIDs(tags)); err != nil {
			return nil, err
		}
		item.Tags = tagNames(tags)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	s.invalidateListCache(userID)
	return item, nil
}

// Get returns a single item with tags. Soft-deleted items report ErrItemGone.
func (s *ItemService) Get(id int) (*model.Item, error) {
	item, err := s.items.GetItemByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.IsDeleted {
		return nil, ErrItemGone
	}
	return item, nil
}

// List returns the user's items matching the filters. The plain first-page
// listing is served through a cache-aside Redis entry; filtered listings
// always hit the database.
func (s *ItemService) List(userID int, filters model.ItemFilters) ([]*model.Item, error) {
	useCache := filters.IsDefault()
	cacheKey := fmt.Sprintf("items:%d", userID)
	ctx := context.Background()

	if useCache {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var items []*model.Item
			if err := json.Unmarshal([]byte(cached), &items); err == nil {
				return items, nil
			}
		}
	}

	items, err := s.items.ListItems(userID, filters)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Item{}
	}

	if useCache {
		if data, err := json.Marshal(items); err == nil {
			s.cache.Set(ctx, cacheKey, data, listCacheTTL)
		}
	}
	return items, nil
}

// Update applies a partial update. Only fields that differ from the stored
// row are written; a nil Tags slice leaves the tag links untouched. The field
// patch and the tag diff commit together.
func (s *ItemService) Update(ctx context.Context, userID, id int, req *model.UpdateItemRequest) (*model.Item, error) {
	if !req.HasChanges() {
		return nil, ErrEmptyPatch
	}

	item, err := s.items.GetItemByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrNotOwner
	}
	if item.IsDeleted {
		return nil, ErrItemGone
	}

	patch := buildPatch(item, req)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.items.UpdateItem(tx, id, patch); err != nil {
		return nil, err
	}

	if req.Tags != nil {
		if err := s.syncTags(tx, item, dedupeTags(req.Tags)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	s.invalidateListCache(userID)
	return s.items.GetItemByID(id)
}

// SoftDelete marks the item deleted and returns its final state.
func (s *ItemService) SoftDelete(userID, id int) (*model.Item, error) {
	item, err := s.items.GetItemByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrNotOwner
	}
	if item.IsDeleted {
		return nil, ErrItemGone
	}

	if err := s.items.SoftDeleteItem(id); err != nil {
		return nil, err
	}

	logger.Log.WithField("item_id", id).Info("Item soft deleted")
	s.invalidateListCache(userID)
	return item, nil
}

// findOrCreateTags splits the requested names into existing and new tags and
// creates the missing ones inside the caller's transaction.
func (s *ItemService) findOrCreateTags(tx *sql.Tx, userID int, names []string) ([]*model.Tag, error) {
	existing, err := s.tags.GetTagsByNames(userID, names)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(existing))
	for _, tag := range existing {
		known[tag.Name] = true
	}
	var missing []string
	for _, name := range names {
		if !known[name] {
			missing = append(missing, name)
		}
	}

	if len(missing) == 0 {
		return existing, nil
	}
	created, err := s.tags.CreateTags(tx, userID, missing)
	if err != nil {
		return nil, err
	}
	return append(existing, created...), nil
}

// syncTags diffs the item's current tag links against the requested names,
// unlinking removed tags and linking added ones.
func (s *ItemService) syncTags(tx *sql.Tx, item *model.Item, names []string) error {
	current, err := s.tags.GetTagsForItem(item.ID)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var toUnlink []int
	have := make(map[string]bool, len(current))
	for _, tag := range current {
		have[tag.Name] = true
		if !wanted[tag.Name] {
			toUnlink = append(toUnlink, tag.ID)
		}
	}
	var toAdd []string
	for _, name := range names {
		if !have[name] {
			toAdd = append(toAdd, name)
		}
	}

	if len(toUnlink) > 0 {
		if err := s.tags.UnlinkTags(tx, item.ID, toUnlink); err != nil {
			return err
		}
	}
	if len(toAdd) > 0 {
		tags, err := s.findOrCreateTags(tx, item.UserID, toAdd)
		if err != nil {
			return err
		}
		if err := s.tags.LinkTags(tx, item.ID, tagIDs(tags)); err != nil {
			return err
		}
	}
	return nil
}

func (s *ItemService) invalidateListCache(userID int) {
	s.cache.Del(context.Background(), fmt.Sprintf("items:%d", userID))
}

// buildPatch keeps only the requested fields that actually differ from the
// stored row, one explicit comparison per updatable attribute.
func buildPatch(item *model.Item, req *model.UpdateItemRequest) *model.ItemPatch {
	patch := &model.ItemPatch{}
	if req.Title != nil && *req.Title != item.Title {
		patch.Title = req.Title
	}
	if req.Kind != nil && *req.Kind != item.Kind {
		patch.Kind = req.Kind
	}
	if req.Status != nil && *req.Status != item.Status {
		patch.Status = req.Status
	}
	if req.Priority != nil && *req.Priority != item.Priority {
		patch.Priority = req.Priority
	}
	if req.Notes != nil && *req.Notes != item.Notes {
		patch.Notes = req.Notes
	}
	return patch
}

// dedupeTags removes duplicates preserving order.
func dedupeTags(names []string) []string {
	seen := make(map[string]bool, len(names))
	var unique []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}
	return unique
}

func tagIDs(tags []*model.Tag) []int {
	ids := make([]int, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

func tagNames(tags []*model.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}
