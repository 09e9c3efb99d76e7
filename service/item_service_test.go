package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"reading-list-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) CreateItem(tx *sql.Tx, item *model.Item) error {
	args := m.Called(tx, item)
	return args.Error(0)
}

func (m *mockItemRepo) GetItemByID(id int) (*model.Item, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *mockItemRepo) ListItems(userID int, filters model.ItemFilters) ([]*model.Item, error) {
	args := m.Called(userID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Item), args.Error(1)
}

func (m *mockItemRepo) UpdateItem(tx *sql.Tx, id int, patch *model.ItemPatch) error {
	args := m.Called(tx, id, patch)
	return args.Error(0)
}

func (m *mockItemRepo) SoftDeleteItem(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

type mockTagRepo struct{ mock.Mock }

func (m *mockTagRepo) GetTagsByNames(userID int, names []string) ([]*model.Tag, error) {
	args := m.Called(userID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Tag), args.Error(1)
}

func (m *mockTagRepo) GetTagsForItem(itemID int) ([]*model.Tag, error) {
	args := m.Called(itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Tag), args.Error(1)
}

func (m *mockTagRepo) CreateTags(tx *sql.Tx, userID int, names []string) ([]*model.Tag, error) {
	args := m.Called(tx, userID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Tag), args.Error(1)
}

func (m *mockTagRepo) LinkTags(tx *sql.Tx, itemID int, tagIDs []int) error {
	args := m.Called(tx, itemID, tagIDs)
	return args.Error(0)
}

func (m *mockTagRepo) UnlinkTags(tx *sql.Tx, itemID int, tagIDs []int) error {
	args := m.Called(tx, itemID, tagIDs)
	return args.Error(0)
}

// stubCache is an in-memory ICacheClient.
type stubCache struct {
	store   map[string]string
	deleted []string
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string]string)}
}

func (c *stubCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if value, ok := c.store[key]; ok {
		return redis.NewStringResult(value, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.store[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (c *stubCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(c.store, key)
		c.deleted = append(c.deleted, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type itemServiceFixture struct {
	service *ItemService
	dbMock  sqlmock.Sqlmock
	items   *mockItemRepo
	tags    *mockTagRepo
	cache   *stubCache
}

func newItemServiceFixture(t *testing.T) *itemServiceFixture {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	items := new(mockItemRepo)
	tags := new(mockTagRepo)
	cache := newStubCache()
	return &itemServiceFixture{
		service: NewItemService(db, items, tags, cache),
		dbMock:  dbMock,
		items:   items,
		tags:    tags,
		cache:   cache,
	}
}

func TestItemService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("with existing and new tags", func(t *testing.T) {
		f := newItemServiceFixture(t)

		f.dbMock.ExpectBegin()
		f.items.On("CreateItem", mock.Anything, mock.MatchedBy(func(item *model.Item) bool {
			return item.UserID == 7 && item.Title == "Clean Code" && item.Status == model.StatusPlanned
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Item).ID = 1
		}).Return(nil).Once()

		f.tags.On("GetTagsByNames", 7, []string{"go", "craft"}).
			Return([]*model.Tag{{ID: 10, UserID: 7, Name: "go"}}, nil).Once()
		f.tags.On("CreateTags", mock.Anything, 7, []string{"craft"}).
			Return([]*model.Tag{{ID: 11, UserID: 7, Name: "craft"}}, nil).Once()
		f.tags.On("LinkTags", mock.Anything, 1, []int{10, 11}).Return(nil).Once()
		f.dbMock.ExpectCommit()

		item, err := f.service.Create(ctx, 7, &model.CreateItemRequest{
			Title: "Clean Code",
			Kind:  model.KindBook,
			Tags:  []string{"go", "craft"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, item.ID)
		assert.Equal(t, model.StatusPlanned, item.Status)
		assert.Equal(t, model.PriorityNormal, item.Priority)
		assert.Equal(t, []string{"go", "craft"}, item.Tags)
		assert.Contains(t, f.cache.deleted, "items:7")

		f.items.AssertExpectations(t)
		f.tags.AssertExpectations(t)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("without tags", func(t *testing.T) {
		f := newItemServiceFixture(t)

		f.dbMock.ExpectBegin()
		f.items.On("CreateItem", mock.Anything, mock.AnythingOfType("*model.Item")).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Item).ID = 2
		}).Return(nil).Once()
		f.dbMock.ExpectCommit()

		item, err := f.service.Create(ctx, 7, &model.CreateItemRequest{
			Title: "Some Article",
			Kind:  model.KindArticle,
		})

		require.NoError(t, err)
		assert.Empty(t, item.Tags)
		f.tags.AssertNotCalled(t, "GetTagsByNames")
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("failed tag link rolls the insert back", func(t *testing.T) {
		f := newItemServiceFixture(t)
		linkErr := errors.New("item_tags insert failed")

		f.dbMock.ExpectBegin()
		f.items.On("CreateItem", mock.Anything, mock.AnythingOfType("*model.Item")).Run(func(args mock.Arguments) {
			args.Get(1).(*model.Item).ID = 3
		}).Return(nil).Once()
		f.tags.On("GetTagsByNames", 7, []string{"go"}).
			Return([]*model.Tag{{ID: 10, UserID: 7, Name: "go"}}, nil).Once()
		f.tags.On("LinkTags", mock.Anything, 3, []int{10}).Return(linkErr).Once()
		// No commit: the deferred rollback must undo the item insert.
		f.dbMock.ExpectRollback()

		_, err := f.service.Create(ctx, 7, &model.CreateItemRequest{
			Title: "Clean Code",
			Kind:  model.KindBook,
			Tags:  []string{"go"},
		})

		assert.ErrorIs(t, err, linkErr)
		assert.Empty(t, f.cache.deleted)
		f.items.AssertExpectations(t)
		f.tags.AssertExpectations(t)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})
}

func TestItemService_Get(t *testing.T) {
	f := newItemServiceFixture(t)

	t.Run("not found", func(t *testing.T) {
		f.items.On("GetItemByID", 404).Return(nil, sql.ErrNoRows).Once()

		_, err := f.service.Get(404)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("soft deleted", func(t *testing.T) {
		f.items.On("GetItemByID", 3).Return(&model.Item{ID: 3, IsDeleted: true}, nil).Once()

		_, err := f.service.Get(3)
		assert.ErrorIs(t, err, ErrItemGone)
	})

	t.Run("found", func(t *testing.T) {
		f.items.On("GetItemByID", 4).Return(&model.Item{ID: 4, Title: "SICP"}, nil).Once()

		item, err := f.service.Get(4)
		require.NoError(t, err)
		assert.Equal(t, "SICP", item.Title)
	})
}

func TestItemService_List(t *testing.T) {
	t.Run("default listing is cached", func(t *testing.T) {
		f := newItemServiceFixture(t)

		stored := []*model.Item{{ID: 1, UserID: 7, Title: "Clean Code", Tags: []string{"go"}}}
		f.items.On("ListItems", 7, model.ItemFilters{}).Return(stored, nil).Once()

		first, err := f.service.List(7, model.ItemFilters{})
		require.NoError(t, err)
		require.Len(t, first, 1)

		// Second call is served from the cache; the repository is hit once.
		second, err := f.service.List(7, model.ItemFilters{})
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, first[0].Title, second[0].Title)

		f.items.AssertExpectations(t)
	})

	t.Run("filtered listing bypasses the cache", func(t *testing.T) {
		f := newItemServiceFixture(t)

		filters := model.ItemFilters{Status: model.StatusReading}
		f.items.On("ListItems", 7, filters).Return([]*model.Item{}, nil).Twice()

		_, err := f.service.List(7, filters)
		require.NoError(t, err)
		_, err = f.service.List(7, filters)
		require.NoError(t, err)

		assert.Empty(t, f.cache.store)
		f.items.AssertExpectations(t)
	})
}

func TestItemService_Update(t *testing.T) {
	ctx := context.Background()

	stored := func() *model.Item {
		return &model.Item{
			ID:       1,
			UserID:   7,
			Title:    "Old Title",
			Kind:     model.KindBook,
			Status:   model.StatusPlanned,
			Priority: model.PriorityNormal,
			Tags:     []string{"go"},
		}
	}

	t.Run("empty patch", func(t *testing.T) {
		f := newItemServiceFixture(t)

		_, err := f.service.Update(ctx, 7, 1, &model.UpdateItemRequest{})
		assert.ErrorIs(t, err, ErrEmptyPatch)
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newItemServiceFixture(t)
		f.items.On("GetItemByID", 1).Return(stored(), nil).Once()

		title := "New Title"
		_, err := f.service.Update(ctx, 99, 1, &model.UpdateItemRequest{Title: &title})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("already deleted", func(t *testing.T) {
		f := newItemServiceFixture(t)
		gone := stored()
		gone.IsDeleted = true
		f.items.On("GetItemByID", 1).Return(gone, nil).Once()

		title := "New Title"
		_, err := f.service.Update(ctx, 7, 1, &model.UpdateItemRequest{Title: &title})
		assert.ErrorIs(t, err, ErrItemGone)
	})

	t.Run("changes title and diffs tags", func(t *testing.T) {
		f := newItemServiceFixture(t)

		title := "New Title"
		status := model.StatusPlanned // same as stored, must not enter the patch
		req := &model.UpdateItemRequest{
			Title:  &title,
			Status: &status,
			Tags:   []string{"go", "rust"},
		}

		f.items.On("GetItemByID", 1).Return(stored(), nil).Once()
		f.dbMock.ExpectBegin()
		f.items.On("UpdateItem", mock.Anything, 1, mock.MatchedBy(func(patch *model.ItemPatch) bool {
			return patch.Title != nil && *patch.Title == "New Title" &&
				patch.Status == nil && patch.Kind == nil && patch.Priority == nil && patch.Notes == nil
		})).Return(nil).Once()
		f.tags.On("GetTagsForItem", 1).Return([]*model.Tag{{ID: 10, UserID: 7, Name: "go"}}, nil).Once()
		f.tags.On("GetTagsByNames", 7, []string{"rust"}).Return([]*model.Tag{}, nil).Once()
		f.tags.On("CreateTags", mock.Anything, 7, []string{"rust"}).
			Return([]*model.Tag{{ID: 11, UserID: 7, Name: "rust"}}, nil).Once()
		f.tags.On("LinkTags", mock.Anything, 1, []int{11}).Return(nil).Once()
		f.dbMock.ExpectCommit()

		updated := stored()
		updated.Title = "New Title"
		updated.Tags = []string{"go", "rust"}
		f.items.On("GetItemByID", 1).Return(updated, nil).Once()

		item, err := f.service.Update(ctx, 7, 1, req)
		require.NoError(t, err)
		assert.Equal(t, "New Title", item.Title)
		assert.Equal(t, []string{"go", "rust"}, item.Tags)
		assert.Contains(t, f.cache.deleted, "items:7")

		f.items.AssertExpectations(t)
		f.tags.AssertExpectations(t)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("removing all tags", func(t *testing.T) {
		f := newItemServiceFixture(t)

		req := &model.UpdateItemRequest{Tags: []string{}}

		f.items.On("GetItemByID", 1).Return(stored(), nil).Once()
		f.dbMock.ExpectBegin()
		f.items.On("UpdateItem", mock.Anything, 1, mock.AnythingOfType("*model.ItemPatch")).Return(nil).Once()
		f.tags.On("GetTagsForItem", 1).Return([]*model.Tag{{ID: 10, UserID: 7, Name: "go"}}, nil).Once()
		f.tags.On("UnlinkTags", mock.Anything, 1, []int{10}).Return(nil).Once()
		f.dbMock.ExpectCommit()

		cleared := stored()
		cleared.Tags = []string{}
		f.items.On("GetItemByID", 1).Return(cleared, nil).Once()

		item, err := f.service.Update(ctx, 7, 1, req)
		require.NoError(t, err)
		assert.Empty(t, item.Tags)
		f.tags.AssertExpectations(t)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("failed tag sync rolls the patch back", func(t *testing.T) {
		f := newItemServiceFixture(t)
		syncErr := errors.New("item_tags delete failed")

		title := "New Title"
		req := &model.UpdateItemRequest{Title: &title, Tags: []string{}}

		f.items.On("GetItemByID", 1).Return(stored(), nil).Once()
		f.dbMock.ExpectBegin()
		f.items.On("UpdateItem", mock.Anything, 1, mock.AnythingOfType("*model.ItemPatch")).Return(nil).Once()
		f.tags.On("GetTagsForItem", 1).Return([]*model.Tag{{ID: 10, UserID: 7, Name: "go"}}, nil).Once()
		f.tags.On("UnlinkTags", mock.Anything, 1, []int{10}).Return(syncErr).Once()
		// No commit: the field patch and the tag diff land together or not
		// at all.
		f.dbMock.ExpectRollback()

		_, err := f.service.Update(ctx, 7, 1, req)
		assert.ErrorIs(t, err, syncErr)
		assert.Empty(t, f.cache.deleted)
		f.items.AssertExpectations(t)
		f.tags.AssertExpectations(t)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})
}

func TestItemService_SoftDelete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newItemServiceFixture(t)

		f.items.On("GetItemByID", 1).Return(&model.Item{ID: 1, UserID: 7, Title: "Clean Code"}, nil).Once()
		f.items.On("SoftDeleteItem", 1).Return(nil).Once()

		item, err := f.service.SoftDelete(7, 1)
		require.NoError(t, err)
		assert.Equal(t, "Clean Code", item.Title)
		assert.Contains(t, f.cache.deleted, "items:7")
		f.items.AssertExpectations(t)
	})

	t.Run("not the owner", func(t *testing.T) {
		f := newItemServiceFixture(t)
		f.items.On("GetItemByID", 1).Return(&model.Item{ID: 1, UserID: 7}, nil).Once()

		_, err := f.service.SoftDelete(99, 1)
		assert.ErrorIs(t, err, ErrNotOwner)
		f.items.AssertNotCalled(t, "SoftDeleteItem")
	})

	t.Run("already deleted", func(t *testing.T) {
		f := newItemServiceFixture(t)
		f.items.On("GetItemByID", 1).Return(&model.Item{ID: 1, UserID: 7, IsDeleted: true}, nil).Once()

		_, err := f.service.SoftDelete(7, 1)
		assert.ErrorIs(t, err, ErrItemGone)
	})

	t.Run("not found", func(t *testing.T) {
		f := newItemServiceFixture(t)
		f.items.On("GetItemByID", 404).Return(nil, sql.ErrNoRows).Once()

		_, err := f.service.SoftDelete(7, 404)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}
