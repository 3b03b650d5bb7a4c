package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/scrapbid/marketplace/internal/model"
	"github.com/scrapbid/marketplace/internal/repository"
)

// ScrapHandler serves the scrap inventory endpoints.
type ScrapHandler struct {
	Scrap *repository.ScrapRepo
}

func NewScrapHandler(s *repository.ScrapRepo) *ScrapHandler {
	if s == nil {
		panic("nil repository passed to NewScrapHandler")
	}
	return &ScrapHandler{Scrap: s}
}

// ----- wire format -----
//
// The clients speak in nested category/status/location documents; storage
// is flat columns. These types translate at the boundary.

type scrapCategory struct {
	Type           string  `json:"type"`
	SubCategory    *string `json:"sub_category,omitempty"`
	Classification *string `json:"classification,omitempty"`
}

type scrapStatus struct {
	Type   string  `json:"type"`
	Reason *string `json:"reason,omitempty"`
}

type scrapLocation struct {
	Type             string  `json:"type"`
	Address          string  `json:"address"`
	WarehouseSection *string `json:"warehouse_section,omitempty"`
}

type scrapReq struct {
	Description string        `json:"description"`
	WeightKg    float64       `json:"weight_kg"`
	Category    scrapCategory `json:"category"`
	Status      scrapStatus   `json:"status"`
	Location    scrapLocation `json:"location"`
	SortedBy    *uint64       `json:"sorted_by"`
	Images      []string      `json:"images"`
}

type scrapView struct {
	ID          uint64        `json:"id"`
	Description string        `json:"description"`
	WeightKg    float64       `json:"weight_kg"`
	Category    scrapCategory `json:"category"`
	Status      scrapStatus   `json:"status"`
	Location    scrapLocation `json:"location"`
	ReceivedBy  uint64        `json:"received_by"`
	SortedBy    *uint64       `json:"sorted_by"`
	Images      []string      `json:"images"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

func viewScrap(s model.ScrapItem) scrapView {
	images := s.Images
	if images == nil {
		images = []string{}
	}
	return scrapView{
		ID:          s.ID,
		Description: s.Description,
		WeightKg:    s.WeightKg,
		Category: scrapCategory{
			Type:           s.CategoryType,
			SubCategory:    s.SubCategory,
			Classification: s.Classification,
		},
		Status: scrapStatus{Type: s.StatusType, Reason: s.StatusReason},
		Location: scrapLocation{
			Type:             s.LocationType,
			Address:          s.Address,
			WarehouseSection: s.WarehouseSection,
		},
		ReceivedBy: s.ReceivedBy,
		SortedBy:   s.SortedBy,
		Images:     images,
		CreatedAt:  s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:  s.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func viewScrapList(items []model.ScrapItem) []scrapView {
	out := make([]scrapView, 0, len(items))
	for _, s := range items {
		out = append(out, viewScrap(s))
	}
	return out
}

func (r scrapReq) validate() []string {
	var errs []string
	if strings.TrimSpace(r.Description) == "" {
		errs = append(errs, "description is required")
	}
	if r.WeightKg <= 0 {
		errs = append(errs, "weight_kg must be positive")
	}
	if !model.ValidCategoryType(r.Category.Type) {
		errs = append(errs, "category.type must be metal, plastic, electronic or other")
	}
	if r.Status.Type != "" && !model.ValidScrapStatus(r.Status.Type) {
		errs = append(errs, "status.type must be unprocessed, sorted, ready_for_auction or recycled")
	}
	if !model.ValidLocationType(r.Location.Type) {
		errs = append(errs, "location.type must be warehouse, recycling_center or auction_house")
	}
	if strings.TrimSpace(r.Location.Address) == "" {
		errs = append(errs, "location.address is required")
	}
	return errs
}

func (r scrapReq) toModel(receivedBy uint64) model.ScrapItem {
	statusType := r.Status.Type
	if statusType == "" {
		statusType = model.ScrapUnprocessed
	}
	return model.ScrapItem{
		Description:      strings.TrimSpace(r.Description),
		WeightKg:         r.WeightKg,
		CategoryType:     r.Category.Type,
		SubCategory:      r.Category.SubCategory,
		Classification:   r.Category.Classification,
		StatusType:       statusType,
		StatusReason:     r.Status.Reason,
		LocationType:     r.Location.Type,
		Address:          strings.TrimSpace(r.Location.Address),
		WarehouseSection: r.Location.WarehouseSection,
		ReceivedBy:       receivedBy,
		SortedBy:         r.SortedBy,
		Images:           r.Images,
	}
}

// Create registers a new scrap lot. The authenticated staff member is
// recorded as the receiver.
func (h *ScrapHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return message(c, http.StatusUnauthorized, "unauthorized")
	}
	var req scrapReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s := req.toModel(uid)
	if err := h.Scrap.Create(ctx, &s); err != nil {
		return message(c, http.StatusInternalServerError, "create scrap item failed")
	}
	return c.JSON(http.StatusCreated, viewScrap(s))
}

// List returns scrap items with pagination (?page&limit) and sorting
// (?field&order=asc|desc).
func (h *ScrapHandler) List(c echo.Context) error {
	q := repository.ScrapListQuery{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "limit", 10),
	}
	if field := c.QueryParam("field"); field != "" {
		if _, ok := repository.SortColumn(field); !ok {
			return validationErrors(c, []string{"field is not sortable"})
		}
		q.SortField = field
	}
	q.Desc = strings.EqualFold(c.QueryParam("order"), "desc")

	return h.list(c, q)
}

// Search filters scrap items by a case-insensitive description substring.
func (h *ScrapHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	if term == "" {
		return validationErrors(c, []string{"q is required"})
	}
	return h.list(c, repository.ScrapListQuery{
		Search:   term,
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "limit", 10),
	})
}

// ByStatus lists scrap items in one processing status.
func (h *ScrapHandler) ByStatus(c echo.Context) error {
	status := c.Param("status")
	if !model.ValidScrapStatus(status) {
		return validationErrors(c, []string{"unknown scrap status"})
	}
	return h.list(c, repository.ScrapListQuery{
		StatusType: status,
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "limit", 10),
	})
}

// ByCategory lists scrap items in one category.
func (h *ScrapHandler) ByCategory(c echo.Context) error {
	cat := c.Param("categoryType")
	if !model.ValidCategoryType(cat) {
		return validationErrors(c, []string{"unknown scrap category"})
	}
	return h.list(c, repository.ScrapListQuery{
		CategoryType: cat,
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "limit", 10),
	})
}

// ByLocation lists scrap items at one location type.
func (h *ScrapHandler) ByLocation(c echo.Context) error {
	loc := c.Param("locationType")
	if !model.ValidLocationType(loc) {
		return validationErrors(c, []string{"unknown location type"})
	}
	return h.list(c, repository.ScrapListQuery{
		LocationType: loc,
		Page:         queryInt(c, "page", 1),
		PageSize:     queryInt(c, "limit", 10),
	})
}

// Get returns one scrap item.
func (h *ScrapHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid scrap item id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Scrap.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScrapNotFound) {
			return message(c, http.StatusNotFound, "scrap item not found")
		}
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, viewScrap(s))
}

// Update rewrites a scrap item. The original receiver is preserved.
func (h *ScrapHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid scrap item id")
	}
	var req scrapReq
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "invalid body")
	}
	if errs := req.validate(); len(errs) > 0 {
		return validationErrors(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	current, err := h.Scrap.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScrapNotFound) {
			return message(c, http.StatusNotFound, "scrap item not found")
		}
		return message(c, http.StatusInternalServerError, "query failed")
	}

	s := req.toModel(current.ReceivedBy)
	s.ID = id
	if err := h.Scrap.Update(ctx, &s); err != nil {
		if errors.Is(err, repository.ErrScrapNotFound) {
			return message(c, http.StatusNotFound, "scrap item not found")
		}
		return message(c, http.StatusInternalServerError, "update scrap item failed")
	}
	return c.JSON(http.StatusOK, viewScrap(s))
}

// PatchStatus moves a scrap item to a new processing status.
func (h *ScrapHandler) PatchStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid scrap item id")
	}
	status := c.Param("status")
	if !model.ValidScrapStatus(status) {
		return validationErrors(c, []string{"unknown scrap status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Scrap.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrScrapNotFound) {
			return message(c, http.StatusNotFound, "scrap item not found")
		}
		return message(c, http.StatusInternalServerError, "update status failed")
	}
	return c.JSON(http.StatusOK, viewScrap(s))
}

// Delete removes a scrap item.
func (h *ScrapHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "invalid scrap item id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Scrap.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrScrapNotFound) {
			return message(c, http.StatusNotFound, "scrap item not found")
		}
		return message(c, http.StatusInternalServerError, "delete scrap item failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "scrap item deleted"})
}

// CountByStatus reports how many items sit in each processing status.
func (h *ScrapHandler) CountByStatus(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	counts, err := h.Scrap.CountByStatus(ctx)
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *ScrapHandler) list(c echo.Context, q repository.ScrapListQuery) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, total, err := h.Scrap.List(ctx, q)
	if err != nil {
		return message(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": viewScrapList(items),
		"total": total,
		"page":  q.Page,
		"limit": q.PageSize,
	})
}

func queryInt(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
