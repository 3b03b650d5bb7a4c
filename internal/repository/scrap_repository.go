package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/scrapbid/marketplace/internal/model"
)

// ErrScrapNotFound indicates that a scrap item was not located in the DB.
var ErrScrapNotFound = errors.New("scrap item not found")

// ScrapRepo manages persistence for scrap items.
type ScrapRepo struct {
	db *sql.DB
}

// NewScrapRepo constructs a ScrapRepo with the given DB handle.
func NewScrapRepo(db *sql.DB) *ScrapRepo {
	return &ScrapRepo{db: db}
}

const scrapColumns = `id, description, weight_kg, category_type, sub_category, classification,
	status_type, status_reason, location_type, address, warehouse_section,
	received_by, sorted_by, images, created_at, updated_at`

func scanScrap(row interface{ Scan(...any) error }) (model.ScrapItem, error) {
	var (
		s        model.ScrapItem
		sortedBy sql.NullInt64
		images   sql.NullString
	)
	err := row.Scan(&s.ID, &s.Description, &s.WeightKg, &s.CategoryType, &s.SubCategory,
		&s.Classification, &s.StatusType, &s.StatusReason, &s.LocationType, &s.Address,
		&s.WarehouseSection, &s.ReceivedBy, &sortedBy, &images, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.ScrapItem{}, err
	}
	if sortedBy.Valid {
		v := uint64(sortedBy.Int64)
		s.SortedBy = &v
	}
	s.Images = []string{}
	if images.Valid && images.String != "" {
		if err := json.Unmarshal([]byte(images.String), &s.Images); err != nil {
			return model.ScrapItem{}, err
		}
	}
	return s, nil
}

func imagesJSON(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	b, err := json.Marshal(images)
	return string(b), err
}

// Create inserts a scrap item and populates generated fields back onto the
// struct.
func (r *ScrapRepo) Create(ctx context.Context, s *model.ScrapItem) error {
	imgs, err := imagesJSON(s.Images)
	if err != nil {
		return err
	}
	const q = `INSERT INTO scrap_items
		(description, weight_kg, category_type, sub_category, classification,
		 status_type, status_reason, location_type, address, warehouse_section,
		 received_by, sorted_by, images)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.Description, s.WeightKg, s.CategoryType, s.SubCategory, s.Classification,
		s.StatusType, s.StatusReason, s.LocationType, s.Address, s.WarehouseSection,
		s.ReceivedBy, s.SortedBy, imgs)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	got, err := scanScrap(r.db.QueryRowContext(ctx,
		"SELECT "+scrapColumns+" FROM scrap_items WHERE id = ?", uint64(id)))
	if err != nil {
		return err
	}
	*s = got
	return nil
}

// GetByID retrieves a scrap item by its ID.  Returns ErrScrapNotFound when
// there is no matching row.
func (r *ScrapRepo) GetByID(ctx context.Context, id uint64) (model.ScrapItem, error) {
	s, err := scanScrap(r.db.QueryRowContext(ctx,
		"SELECT "+scrapColumns+" FROM scrap_items WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.ScrapItem{}, ErrScrapNotFound
	}
	return s, err
}

// Update rewrites a scrap item's mutable fields.
func (r *ScrapRepo) Update(ctx context.Context, s *model.ScrapItem) error {
	imgs, err := imagesJSON(s.Images)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE scrap_items SET description=?, weight_kg=?, category_type=?, sub_category=?,
		 classification=?, status_type=?, status_reason=?, location_type=?, address=?,
		 warehouse_section=?, sorted_by=?, images=? WHERE id=?`,
		s.Description, s.WeightKg, s.CategoryType, s.SubCategory, s.Classification,
		s.StatusType, s.StatusReason, s.LocationType, s.Address, s.WarehouseSection,
		s.SortedBy, imgs, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM scrap_items WHERE id=? LIMIT 1", s.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrScrapNotFound
			}
			return err
		}
	}
	got, err := scanScrap(r.db.QueryRowContext(ctx,
		"SELECT "+scrapColumns+" FROM scrap_items WHERE id = ?", s.ID))
	if err != nil {
		return err
	}
	*s = got
	return nil
}

// UpdateStatus patches only the status type of a scrap item.
func (r *ScrapRepo) UpdateStatus(ctx context.Context, id uint64, statusType string) (model.ScrapItem, error) {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE scrap_items SET status_type=? WHERE id=?", statusType, id); err != nil {
		return model.ScrapItem{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a scrap item.  Returns ErrScrapNotFound when no row
// matched.
func (r *ScrapRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM scrap_items WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScrapNotFound
	}
	return nil
}

// scrapSortColumns whitelists the fields accepted by the sort endpoint and
// maps them onto real columns.
var scrapSortColumns = map[string]string{
	"description": "description",
	"weight":      "weight_kg",
	"status":      "status_type",
	"category":    "category_type",
	"location":    "location_type",
	"created_at":  "created_at",
}

// SortColumn resolves an external sort field name to a column, reporting
// whether the field is allowed.
func SortColumn(field string) (string, bool) {
	col, ok := scrapSortColumns[field]
	return col, ok
}

// ScrapListQuery carries the optional predicates of the list endpoint.
// Page/PageSize paginate, SortField/Desc order; zero values mean defaults.
type ScrapListQuery struct {
	StatusType   string
	CategoryType string
	LocationType string
	Search       string
	SortField    string
	Desc         bool
	Page         int
	PageSize     int
}

// List returns scrap items matching the query plus the total row count for
// pagination headers.
func (r *ScrapRepo) List(ctx context.Context, q ScrapListQuery) ([]model.ScrapItem, int64, error) {
	where := []string{}
	args := []any{}
	if q.StatusType != "" {
		where = append(where, "status_type = ?")
		args = append(args, q.StatusType)
	}
	if q.CategoryType != "" {
		where = append(where, "category_type = ?")
		args = append(args, q.CategoryType)
	}
	if q.LocationType != "" {
		where = append(where, "location_type = ?")
		args = append(args, q.LocationType)
	}
	if q.Search != "" {
		where = append(where, "LOWER(description) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Search)+"%")
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM scrap_items WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "created_at"
	if q.SortField != "" {
		if col, ok := SortColumn(q.SortField); ok {
			order = col
		}
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = 10
	}

	sel := "SELECT " + scrapColumns + " FROM scrap_items WHERE " + cond +
		" ORDER BY " + order + " " + dir + " LIMIT ? OFFSET ?"
	args = append(args, size, (page-1)*size)
	rows, err := r.db.QueryContext(ctx, sel, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var result []model.ScrapItem
	for rows.Next() {
		s, err := scanScrap(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, s)
	}
	return result, total, rows.Err()
}

// StatusCount is one row of the count-by-status aggregate.
type StatusCount struct {
	StatusType string `json:"status_type"`
	Count      int64  `json:"count"`
}

// CountByStatus groups scrap items by processing status.
func (r *ScrapRepo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status_type, COUNT(*) FROM scrap_items GROUP BY status_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.StatusType, &sc.Count); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	return result, rows.Err()
}
