package model

import "time"

// Category, status and location enumerations for scrap items.  The values
// mirror the ENUM columns in the scrap_items table.
const (
	CategoryMetal      = "metal"
	CategoryPlastic    = "plastic"
	CategoryElectronic = "electronic"
	CategoryOther      = "other"

	ScrapUnprocessed     = "unprocessed"
	ScrapSorted          = "sorted"
	ScrapReadyForAuction = "ready_for_auction"
	ScrapRecycled        = "recycled"

	LocationWarehouse       = "warehouse"
	LocationRecyclingCenter = "recycling_center"
	LocationAuctionHouse    = "auction_house"
)

// ValidCategoryType reports whether t is a known scrap category.
func ValidCategoryType(t string) bool {
	switch t {
	case CategoryMetal, CategoryPlastic, CategoryElectronic, CategoryOther:
		return true
	}
	return false
}

// ValidScrapStatus reports whether t is a known scrap processing status.
func ValidScrapStatus(t string) bool {
	switch t {
	case ScrapUnprocessed, ScrapSorted, ScrapReadyForAuction, ScrapRecycled:
		return true
	}
	return false
}

// ValidLocationType reports whether t is a known location type.
func ValidLocationType(t string) bool {
	switch t {
	case LocationWarehouse, LocationRecyclingCenter, LocationAuctionHouse:
		return true
	}
	return false
}

// ScrapItem is a lot of recyclable material moving through receiving,
// sorting, auction and recycling.  The nested category/status/location
// documents of the wire format are flattened into columns; handlers
// reassemble them for JSON responses.
//
// Fields:
//  ID               – primary key identifier.
//  Description      – free-text description of the lot.
//  WeightKg         – weight in kilograms.
//  CategoryType     – one of the Category* constants.
//  SubCategory      – optional finer category (e.g. "copper").
//  Classification   – optional classification (e.g. "non-ferrous").
//  StatusType       – one of the Scrap* status constants.
//  StatusReason     – optional reason for the current status.
//  LocationType     – one of the Location* constants.
//  Address          – full address of the location.
//  WarehouseSection – optional section within a warehouse.
//  ReceivedBy       – user who received the lot.
//  SortedBy         – user who sorted the lot (nil until sorted).
//  Images           – image URLs, stored as a JSON array.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type ScrapItem struct {
	ID               uint64    // scrap_items.id
	Description      string    // scrap_items.description
	WeightKg         float64   // scrap_items.weight_kg
	CategoryType     string    // scrap_items.category_type
	SubCategory      *string   // scrap_items.sub_category (nullable)
	Classification   *string   // scrap_items.classification (nullable)
	StatusType       string    // scrap_items.status_type
	StatusReason     *string   // scrap_items.status_reason (nullable)
	LocationType     string    // scrap_items.location_type
	Address          string    // scrap_items.address
	WarehouseSection *string   // scrap_items.warehouse_section (nullable)
	ReceivedBy       uint64    // scrap_items.received_by
	SortedBy         *uint64   // scrap_items.sorted_by (nullable)
	Images           []string  // scrap_items.images (JSON array)
	CreatedAt        time.Time // scrap_items.created_at
	UpdatedAt        time.Time // scrap_items.updated_at
}
