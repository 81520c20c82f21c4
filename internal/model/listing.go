package model

import (
	"slices"
	"time"
)

// Listing statuses.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusSold      = "SOLD"
)

// Fuel types.
const (
	FuelPetrol   = "PETROL"
	FuelDiesel   = "DIESEL"
	FuelHybrid   = "HYBRID"
	FuelElectric = "ELECTRIC"
	FuelLPG      = "LPG"
)

// Transmissions.
const (
	TransmissionAutomatic = "AUTOMATIC"
	TransmissionManual    = "MANUAL"
)

// Body types.
const (
	BodySedan     = "SEDAN"
	BodySUV       = "SUV"
	BodyHatchback = "HATCHBACK"
	BodyCoupe     = "COUPE"
	BodyPickup    = "PICKUP"
	BodyVan       = "VAN"
	BodyWagon     = "WAGON"
)

// Conditions.
const (
	ConditionNew       = "NEW"
	ConditionUsed      = "USED"
	ConditionCertified = "CERTIFIED"
)

var (
	statuses      = []string{StatusDraft, StatusPublished, StatusSold}
	fuelTypes     = []string{FuelPetrol, FuelDiesel, FuelHybrid, FuelElectric, FuelLPG}
	transmissions = []string{TransmissionAutomatic, TransmissionManual}
	bodyTypes     = []string{BodySedan, BodySUV, BodyHatchback, BodyCoupe, BodyPickup, BodyVan, BodyWagon}
	conditions    = []string{ConditionNew, ConditionUsed, ConditionCertified}
)

// ValidStatus reports whether s is a listing status.
func ValidStatus(s string) bool {
	return slices.Contains(statuses, s)
}

// Listing is a single car-for-sale record.
type Listing struct {
	ID              string     `json:"id" db:"id"`
	Title           string     `json:"title" db:"title"`
	Make            string     `json:"make" db:"make"`
	Model           string     `json:"model" db:"model"`
	Year            int        `json:"year" db:"year"`
	Price           int64      `json:"price" db:"price"`
	PriceNegotiable bool       `json:"priceNegotiable" db:"price_negotiable"`
	Mileage         *int64     `json:"mileage" db:"mileage"`
	FuelType        string     `json:"fuelType" db:"fuel_type"`
	Transmission    string     `json:"transmission" db:"transmission"`
	BodyType        string     `json:"bodyType" db:"body_type"`
	Condition       string     `json:"condition" db:"condition"`
	Color           *string    `json:"color" db:"color"`
	City            string     `json:"city" db:"city"`
	Description     *string    `json:"description" db:"description"`
	ContactPhone    *string    `json:"contactPhone" db:"contact_phone"`
	ContactWhatsApp *string    `json:"contactWhatsApp" db:"contact_whatsapp"`
	Featured        bool       `json:"featured" db:"featured"`
	Status          string     `json:"status" db:"status"`
	Views           int64      `json:"views" db:"views"`
	PublishedAt     *time.Time `json:"publishedAt" db:"published_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
	OwnerID         int64      `json:"userId" db:"owner_id"`

	Images []Image `json:"images" db:"-"`
}

// PrimaryImage returns the listing's cover image, or nil if it has none.
func (l *Listing) PrimaryImage() *Image {
	for i := range l.Images {
		if l.Images[i].IsPrimary {
			return &l.Images[i]
		}
	}
	if len(l.Images) > 0 {
		return &l.Images[0]
	}
	return nil
}

// Image is one picture in a listing's gallery.
type Image struct {
	ID        string `json:"id" db:"id"`
	ListingID string `json:"carListingId" db:"listing_id"`
	URL       string `json:"url" db:"url"`
	IsPrimary bool   `json:"isPrimary" db:"is_primary"`
	Order     int    `json:"order" db:"sort_order"`
}

// ListingInput is the editable part of a listing, as submitted by an admin.
// Empty optional strings are stored as NULL.
type ListingInput struct {
	Title           string `json:"title"`
	Make            string `json:"make"`
	Model           string `json:"model"`
	Year            int    `json:"year"`
	Price           int64  `json:"price"`
	PriceNegotiable bool   `json:"priceNegotiable"`
	Mileage         *int64 `json:"mileage"`
	FuelType        string `json:"fuelType"`
	Transmission    string `json:"transmission"`
	BodyType        string `json:"bodyType"`
	Condition       string `json:"condition"`
	Color           string `json:"color"`
	City            string `json:"city"`
	Description     string `json:"description"`
	ContactPhone    string `json:"contactPhone"`
	ContactWhatsApp string `json:"contactWhatsApp"`
	Featured        bool   `json:"featured"`
	Status          string `json:"status"`
}

// ImageInput describes one gallery image in a create or update request.
// IsPrimary and Order are optional.
type ImageInput struct {
	URL       string `json:"url"`
	IsPrimary *bool  `json:"isPrimary,omitempty"`
	Order     *int   `json:"order,omitempty"`
}

// InputFromListing returns the editable fields of l, for prefilling forms.
func InputFromListing(l *Listing) ListingInput {
	return ListingInput{
		Title:           l.Title,
		Make:            l.Make,
		Model:           l.Model,
		Year:            l.Year,
		Price:           l.Price,
		PriceNegotiable: l.PriceNegotiable,
		Mileage:         l.Mileage,
		FuelType:        l.FuelType,
		Transmission:    l.Transmission,
		BodyType:        l.BodyType,
		Condition:       l.Condition,
		Color:           deref(l.Color),
		City:            l.City,
		Description:     deref(l.Description),
		ContactPhone:    deref(l.ContactPhone),
		ContactWhatsApp: deref(l.ContactWhatsApp),
		Featured:        l.Featured,
		Status:          l.Status,
	}
}

// PageSize is the fixed number of listings per page.
const PageSize = 12

// Criteria is the set of optional filters for listing queries. Nil pointers
// and empty strings mean "no constraint".
type Criteria struct {
	City     string
	Make     string
	MinPrice *int64
	MaxPrice *int64
	MinYear  *int
	MaxYear  *int
	Status   string
	Featured *bool
	Search   string
	Page     int
}

// Offset returns the number of rows skipped before the requested page.
func (c Criteria) Offset() int {
	return (c.PageNumber() - 1) * PageSize
}

// PageNumber returns the 1-based page, treating anything below 1 as 1.
func (c Criteria) PageNumber() int {
	if c.Page < 1 {
		return 1
	}
	return c.Page
}

// Page is one page of listings plus the totals needed for pagination.
type Page struct {
	Listings   []Listing `json:"cars"`
	Page       int       `json:"page"`
	PageSize   int       `json:"limit"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
}

// TotalPages returns ceil(total / PageSize); zero listings means zero pages.
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

// Stats summarizes the catalogue for the admin dashboard.
type Stats struct {
	Total      int   `json:"totalCars" db:"total"`
	Published  int   `json:"publishedCars" db:"published"`
	Drafts     int   `json:"draftCars" db:"drafts"`
	Sold       int   `json:"soldCars" db:"sold"`
	TotalViews int64 `json:"totalViews" db:"total_views"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
