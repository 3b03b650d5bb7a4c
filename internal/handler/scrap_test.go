package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/scrapbid/marketplace/internal/model"
)

func validScrapReq() scrapReq {
	return scrapReq{
		Description: "mixed copper wiring",
		WeightKg:    12.5,
		Category:    scrapCategory{Type: model.CategoryMetal},
		Location:    scrapLocation{Type: model.LocationWarehouse, Address: "Dock 4"},
	}
}

func TestScrapReqValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*scrapReq)
		errs   int
	}{
		{"valid", func(r *scrapReq) {}, 0},
		{"blank description", func(r *scrapReq) { r.Description = "  " }, 1},
		{"zero weight", func(r *scrapReq) { r.WeightKg = 0 }, 1},
		{"bad category", func(r *scrapReq) { r.Category.Type = "wood" }, 1},
		{"bad status", func(r *scrapReq) { r.Status.Type = "lost" }, 1},
		{"empty status ok", func(r *scrapReq) { r.Status.Type = "" }, 0},
		{"bad location", func(r *scrapReq) { r.Location.Type = "ship" }, 1},
		{"blank address", func(r *scrapReq) { r.Location.Address = "" }, 1},
		{"everything wrong", func(r *scrapReq) { *r = scrapReq{} }, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validScrapReq()
			tc.mutate(&req)
			require.Len(t, req.validate(), tc.errs)
		})
	}
}

func TestScrapReqToModelDefaultsStatus(t *testing.T) {
	req := validScrapReq()
	req.Description = "  steel beams  "

	s := req.toModel(9)
	require.Equal(t, model.ScrapUnprocessed, s.StatusType)
	require.Equal(t, "steel beams", s.Description)
	require.Equal(t, uint64(9), s.ReceivedBy)

	req.Status.Type = model.ScrapSorted
	require.Equal(t, model.ScrapSorted, req.toModel(9).StatusType)
}

func TestViewScrap(t *testing.T) {
	section := "B2"
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	s := model.ScrapItem{
		ID:               3,
		Description:      "aluminium offcuts",
		WeightKg:         40,
		CategoryType:     model.CategoryMetal,
		StatusType:       model.ScrapReadyForAuction,
		LocationType:     model.LocationWarehouse,
		Address:          "Dock 4",
		WarehouseSection: &section,
		ReceivedBy:       2,
		CreatedAt:        created,
		UpdatedAt:        created,
	}

	v := viewScrap(s)
	require.Equal(t, model.CategoryMetal, v.Category.Type)
	require.Nil(t, v.Category.SubCategory)
	require.Equal(t, model.ScrapReadyForAuction, v.Status.Type)
	require.Equal(t, "Dock 4", v.Location.Address)
	require.Equal(t, &section, v.Location.WarehouseSection)
	require.Equal(t, "2025-03-14T09:30:00Z", v.CreatedAt)
	require.NotNil(t, v.Images)
	require.Empty(t, v.Images)
}

func TestQueryInt(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=abc&neg=-1", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	require.Equal(t, 3, queryInt(c, "page", 1))
	require.Equal(t, 10, queryInt(c, "limit", 10))
	require.Equal(t, 10, queryInt(c, "neg", 10))
	require.Equal(t, 1, queryInt(c, "missing", 1))
}

func TestScrapCreateValidation(t *testing.T) {
	e := echo.New()
	body := `{"description":"","weight_kg":0,"category":{"type":"wood"},"location":{"type":"ship","address":""}}`
	req := httptest.NewRequest(http.MethodPost, "/api/scrap", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))
	c.Set("role", model.RoleAuctionManager)

	h := &ScrapHandler{Scrap: nil}
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "errors")
}
