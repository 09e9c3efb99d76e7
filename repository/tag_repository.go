package repository

import (
	"database/sql"
	"reading-list-api/logger"
	"reading-list-api/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ITagRepository defines the contract for tag bookkeeping. Tags are scoped
// per user and linked to items through the item_tags table. Mutations run
// inside a caller-owned transaction alongside the item write they belong to.
type ITagRepository interface {
	GetTagsByNames(userID int, names []string) ([]*model.Tag, error)
	GetTagsForItem(itemID int) ([]*model.Tag, error)
	CreateTags(tx *sql.Tx, userID int, names []string) ([]*model.Tag, error)
	LinkTags(tx *sql.Tx, itemID int, tagIDs []int) error
	UnlinkTags(tx *sql.Tx, itemID int, tagIDs []int) error
}

type TagRepository struct {
	DB *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{DB: db}
}

func (r *TagRepository) GetTagsByNames(userID int, names []string) ([]*model.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	query := `SELECT id, user_id, name FROM tags WHERE user_id = $1 AND name = ANY($2)`
	rows, err := r.DB.Query(query, userID, pq.Array(names))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute get tags by names query")
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

func (r *TagRepository) GetTagsForItem(itemID int) ([]*model.Tag, error) {
	query := `SELECT t.id, t.user_id, t.name
		FROM item_tags it
		JOIN tags t ON it.tag_id = t.id
		WHERE it.item_id = $1`
	rows, err := r.DB.Query(query, itemID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute get tags for item query")
		return nil, err
	}
	defer rows.Close()
	return scanTags(rows)
}

func (r *TagRepository) CreateTags(tx *sql.Tx, userID int, names []string) ([]*model.Tag, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"count":   len(names),
	})
	log.Info("Executing query to create tags")

	tags := make([]*model.Tag, 0, len(names))
	query := `INSERT INTO tags (user_id, name) VALUES ($1, $2) RETURNING id`
	for _, name := range names {
		tag := &model.Tag{UserID: userID, Name: name}
		if err := tx.QueryRow(query, userID, name).Scan(&tag.ID); err != nil {
			log.WithError(err).WithField("tag", name).Error("Failed to execute create tag query")
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *TagRepository) LinkTags(tx *sql.Tx, itemID int, tagIDs []int) error {
	query := `INSERT INTO item_tags (item_id, tag_id) VALUES ($1, $2)`
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(query, itemID, tagID); err != nil {
			logger.Log.WithError(err).WithFields(logrus.Fields{
				"item_id": itemID,
				"tag_id":  tagID,
			}).Error("Failed to execute link tag query")
			return err
		}
	}
	return nil
}

func (r *TagRepository) UnlinkTags(tx *sql.Tx, itemID int, tagIDs []int) error {
	if len(tagIDs) == 0 {
		return nil
	}
	query := `DELETE FROM item_tags WHERE item_id = $1 AND tag_id = ANY($2)`
	if _, err := tx.Exec(query, itemID, pq.Array(tagIDs)); err != nil {
		logger.Log.WithError(err).WithField("item_id", itemID).Error("Failed to execute unlink tags query")
		return err
	}
	return nil
}

func scanTags(rows *sql.Rows) ([]*model.Tag, error) {
	var tags []*model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}
