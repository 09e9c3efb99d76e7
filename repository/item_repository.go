package repository

import (
	"database/sql"
	"fmt"
	"reading-list-api/logger"
	"reading-list-api/model"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// IItemRepository defines the contract for reading-list item persistence.
// Create and update run inside a caller-owned transaction because they are
// always paired with tag-link statements.
type IItemRepository interface {
	CreateItem(tx *sql.Tx, item *model.Item) error
	GetItemByID(id int) (*model.Item, error)
	ListItems(userID int, filters model.ItemFilters) ([]*model.Item, error)
	UpdateItem(tx *sql.Tx, id int, patch *model.ItemPatch) error
	SoftDeleteItem(id int) error
}

type ItemRepository struct {
	DB *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

func (r *ItemRepository) CreateItem(tx *sql.Tx, item *model.Item) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": item.UserID,
		"title":   item.Title,
		"kind":    item.Kind,
	})
	log.Info("Executing query to create a new item")

	query := `INSERT INTO items (user_id, title, kind, status, priority, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query, item.UserID, item.Title, item.Kind, item.Status, item.Priority, item.Notes).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create item query")
		return err
	}
	return nil
}

// GetItemByID retrieves an item with its tag names, soft-deleted ones
// included. The service layer decides how a deleted item is reported.
func (r *ItemRepository) GetItemByID(id int) (*model.Item, error) {
	log := logger.Log.WithField("item_id", id)
	log.Info("Executing query to get item by ID")

	item := &model.Item{}
	query := `SELECT id, user_id, title, kind, status, priority, notes, is_deleted, created_at, updated_at
		FROM items WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(
		&item.ID, &item.UserID, &item.Title, &item.Kind, &item.Status,
		&item.Priority, &item.Notes, &item.IsDeleted, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get item by ID query")
		}
		return nil, err
	}

	tagsByItem, err := r.loadTags([]int{item.ID})
	if err != nil {
		log.WithError(err).Error("Failed to load tags for item")
		return nil, err
	}
	item.Tags = tagsByItem[item.ID]
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item, nil
}

// ListItems retrieves the user's non-deleted items matching the filters,
// with tags attached.
func (r *ItemRepository) ListItems(userID int, filters model.ItemFilters) ([]*model.Item, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to list items")

	conditions := []string{"user_id = $1", "is_deleted = FALSE"}
	args := []interface{}{userID}

	addArg := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filters.Status != "" {
		addArg("status = $%d", filters.Status)
	}
	if filters.Kind != "" {
		addArg("kind = $%d", filters.Kind)
	}
	if filters.Priority != "" {
		addArg("priority = $%d", filters.Priority)
	}
	if search := strings.TrimSpace(filters.TitleSearch); search != "" {
		addArg("title ILIKE $%d", "%"+search+"%")
	}
	if filters.CreatedFrom != nil {
		addArg("created_at >= $%d", *filters.CreatedFrom)
	}
	if filters.CreatedTo != nil {
		addArg("created_at <= $%d", *filters.CreatedTo)
	}
	if len(filters.TagNames) > 0 {
		addArg(`id IN (
			SELECT it.item_id FROM item_tags it
			JOIN tags t ON it.tag_id = t.id
			WHERE t.name = ANY($%d))`, pq.Array(filters.TagNames))
	}

	sortColumn, ok := map[string]string{
		"":                    "created_at",
		model.SortByCreatedAt: "created_at",
		model.SortByUpdatedAt: "updated_at",
		model.SortByPriority:  "priority",
	}[filters.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if filters.SortOrder == model.SortOrderAsc {
		direction = "ASC"
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = model.DefaultListLimit
	}
	args = append(args, limit, filters.Offset)

	query := fmt.Sprintf(`SELECT id, user_id, title, kind, status, priority, notes, is_deleted, created_at, updated_at
		FROM items
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		strings.Join(conditions, " AND "), sortColumn, direction, len(args)-1, len(args))

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list items query")
		return nil, err
	}
	defer rows.Close()

	var items []*model.Item
	var ids []int
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Kind, &item.Status,
			&item.Priority, &item.Notes, &item.IsDeleted, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			log.WithError(err).Error("Failed to scan item row")
			return nil, err
		}
		item.Tags = []string{}
		items = append(items, &item)
		ids = append(ids, item.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		tagsByItem, err := r.loadTags(ids)
		if err != nil {
			log.WithError(err).Error("Failed to load tags for items")
			return nil, err
		}
		for _, item := range items {
			if names, ok := tagsByItem[item.ID]; ok {
				item.Tags = names
			}
		}
	}
	return items, nil
}

// UpdateItem writes the non-nil patch fields. updated_at is refreshed even
// for a tag-only change, so the patch may be empty.
func (r *ItemRepository) UpdateItem(tx *sql.Tx, id int, patch *model.ItemPatch) error {
	log := logger.Log.WithField("item_id", id)
	log.Info("Executing query to update item")

	setParts := []string{"updated_at = now()"}
	args := []interface{}{}

	addSet := func(column string, value interface{}) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Kind != nil {
		addSet("kind", *patch.Kind)
	}
	if patch.Status != nil {
		addSet("status", *patch.Status)
	}
	if patch.Priority != nil {
		addSet("priority", *patch.Priority)
	}
	if patch.Notes != nil {
		addSet("notes", *patch.Notes)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE items SET %s WHERE id = $%d", strings.Join(setParts, ", "), len(args))

	if _, err := tx.Exec(query, args...); err != nil {
		log.WithError(err).Error("Failed to execute update item query")
		return err
	}
	return nil
}

func (r *ItemRepository) SoftDeleteItem(id int) error {
	log := logger.Log.WithField("item_id", id)
	log.Info("Executing query to soft delete item")

	query := `UPDATE items SET is_deleted = TRUE, updated_at = now() WHERE id = $1`
	if _, err := r.DB.Exec(query, id); err != nil {
		log.WithError(err).Error("Failed to execute soft delete item query")
		return err
	}
	return nil
}

func (r *ItemRepository) loadTags(itemIDs []int) (map[int][]string, error) {
	query := `SELECT it.item_id, t.name
		FROM item_tags it
		JOIN tags t ON it.tag_id = t.id
		WHERE it.item_id = ANY($1)
		ORDER BY t.name`
	rows, err := r.DB.Query(query, pq.Array(itemIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tagsByItem := make(map[int][]string)
	for rows.Next() {
		var itemID int
		var name string
		if err := rows.Scan(&itemID, &name); err != nil {
			return nil, err
		}
		tagsByItem[itemID] = append(tagsByItem[itemID], name)
	}
	return tagsByItem, rows.Err()
}
