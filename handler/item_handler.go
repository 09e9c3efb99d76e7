package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reading-list-api/common"
	"reading-list-api/logger"
	"reading-list-api/model"
	"reading-list-api/service"

	"github.com/sirupsen/logrus"
)

type ItemHandler struct {
	service *service.ItemService
}

func NewItemHandler(service *service.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// Create godoc
// @Summary      Add a reading-list item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body model.CreateItemRequest true "Item data"
// @Success      201  {object}  model.Item
// @Failure      401  {object}  common.AppError
// @Router       /items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	currentUser, ok := currentUserFrom(r)
	if !ok {
		return common.Unauthorized("Authentication required", nil)
	}

	var req model.CreateItemRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": currentUser.ID,
		"title":   req.Title,
	})
	log.Info("Create item request received")

	item, err := h.service.Create(r.Context(), currentUser.ID, &req)
	if err != nil {
		return common.Internal("Could not create item", err)
	}

	writeJSON(w, http.StatusCreated, item)
	return nil
}

// List godoc
// @Summary      List reading-list items
// @Description  Lists the current user's items with filtering, sorting and pagination
// @Tags         items
// @Produce      json
// @Param        status     query  string  false  "planned|reading|done"
// @Param        kind       query  string  false  "book|article"
// @Param        priority   query  string  false  "low|normal|high"
// @Param        title      query  string  false  "Substring title search"
// @Param        tags       query  string  false  "Comma-separated tag names"
// @Param        sort_by    query  string  false  "created_at|updated_at|priority"
// @Param        sort_order query  string  false  "asc|desc"
// @Param        limit      query  int     false  "Page size (default 20)"
// @Param        offset     query  int     false  "Page offset"
// @Success      200  {array}  model.Item
// @Router       /items [get]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	currentUser, ok := currentUserFrom(r)
	if !ok {
		return common.Unauthorized("Authentication required", nil)
	}

	filters, appErr := parseItemFilters(r)
	if appErr != nil {
		return appErr
	}

	items, err := h.service.List(currentUser.ID, filters)
	if err != nil {
		return common.Internal("Could not retrieve items", err)
	}

	writeJSON(w, http.StatusOK, items)
	return nil
}

// Get godoc
// @Summary      Get a reading-list item
// @Tags         items
// @Produce      json
// @Param        id  path  int  true  "Item ID"
// @Success      200  {object}  model.Item
// @Failure      404  {object}  common.AppError
// @Failure      410  {object}  common.AppError
// @Router       /items/{id} [get]
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := itemIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	item, err := h.service.Get(id)
	if err != nil {
		return mapItemError(err)
	}

	writeJSON(w, http.StatusOK, item)
	return nil
}

// Update godoc
// @Summary      Partially update a reading-list item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id      path  int                       true  "Item ID"
// @Param        request body  model.UpdateItemRequest  true  "Fields to change"
// @Success      200  {object}  model.Item
// @Failure      400  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Failure      410  {object}  common.AppError
// @Router       /items/{id} [patch]
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) *common.AppError {
	currentUser, ok := currentUserFrom(r)
	if !ok {
		return common.Unauthorized("Authentication required", nil)
	}

	id, appErr := itemIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	var req model.UpdateItemRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	item, err := h.service.Update(r.Context(), currentUser.ID, id, &req)
	if err != nil {
		return mapItemError(err)
	}

	writeJSON(w, http.StatusOK, item)
	return nil
}

// Delete godoc
// @Summary      Soft delete a reading-list item
// @Description  Marks the item deleted; it stays in storage but is no longer served
// @Tags         items
// @Produce      json
// @Param        id  path  int  true  "Item ID"
// @Success      200  {object}  model.Item
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Failure      410  {object}  common.AppError
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	currentUser, ok := currentUserFrom(r)
	if !ok {
		return common.Unauthorized("Authentication required", nil)
	}

	id, appErr := itemIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	item, err := h.service.SoftDelete(currentUser.ID, id)
	if err != nil {
		return mapItemError(err)
	}

	writeJSON(w, http.StatusOK, item)
	return nil
}

func mapItemError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		return common.NotFound("Item not found", nil)
	case errors.Is(err, service.ErrItemGone):
		return common.Gone("Item deleted", nil)
	case errors.Is(err, service.ErrNotOwner):
		return common.Forbidden("Item belongs to another user", nil)
	case errors.Is(err, service.ErrEmptyPatch):
		return common.BadRequest("At least one field must be provided", nil)
	default:
		return common.Internal("Could not process item", err)
	}
}

func itemIDFromPath(r *http.Request) (int, *common.AppError) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, common.BadRequest("Invalid item ID", err)
	}
	return id, nil
}

func parseItemFilters(r *http.Request) (model.ItemFilters, *common.AppError) {
	q := r.URL.Query()
	filters := model.ItemFilters{
		TitleSearch: q.Get("title"),
		SortBy:      q.Get("sort_by"),
		SortOrder:   q.Get("sort_order"),
	}

	// Enum filters end up as parameters against postgres enum columns; an
	// unknown value would fail there as a 500 instead of a 400.
	if raw := q.Get("status"); raw != "" {
		status := model.ItemStatus(raw)
		if !status.Valid() {
			return filters, common.BadRequest("Invalid status filter, expected planned|reading|done", nil)
		}
		filters.Status = status
	}
	if raw := q.Get("kind"); raw != "" {
		kind := model.ItemKind(raw)
		if !kind.Valid() {
			return filters, common.BadRequest("Invalid kind filter, expected book|article", nil)
		}
		filters.Kind = kind
	}
	if raw := q.Get("priority"); raw != "" {
		priority := model.ItemPriority(raw)
		if !priority.Valid() {
			return filters, common.BadRequest("Invalid priority filter, expected low|normal|high", nil)
		}
		filters.Priority = priority
	}

	if tags := q.Get("tags"); tags != "" {
		for _, name := range strings.Split(tags, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filters.TagNames = append(filters.TagNames, name)
			}
		}
	}

	if raw := q.Get("created_from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filters, common.BadRequest("Invalid created_from date, expected YYYY-MM-DD", err)
		}
		filters.CreatedFrom = &from
	}
	if raw := q.Get("created_to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filters, common.BadRequest("Invalid created_to date, expected YYYY-MM-DD", err)
		}
		// Include the whole end day.
		to = to.Add(24*time.Hour - time.Nanosecond)
		filters.CreatedTo = &to
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 100 {
			return filters, common.BadRequest("Invalid limit", err)
		}
		filters.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filters, common.BadRequest("Invalid offset", err)
		}
		filters.Offset = offset
	}

	return filters, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
