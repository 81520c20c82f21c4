package model

import (
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Listing field bounds.
const (
	MinTitleLength = 5
	MinYear        = 1970
	MinPrice       = 1
)

// MaxYear returns the newest accepted model year: next year relative to now.
func MaxYear(now time.Time) int {
	return now.Year() + 1
}

// ValidateListing checks a listing payload and its images. It returns a
// *ValidationError naming every violated field, or nil.
func ValidateListing(in ListingInput, images []ImageInput, now time.Time) error {
	verr := &ValidationError{}

	if utf8.RuneCountInString(strings.TrimSpace(in.Title)) < MinTitleLength {
		verr.add("title", "must be at least %d characters", MinTitleLength)
	}
	if strings.TrimSpace(in.Make) == "" {
		verr.add("make", "required")
	}
	if strings.TrimSpace(in.Model) == "" {
		verr.add("model", "required")
	}
	if maxYear := MaxYear(now); in.Year < MinYear || in.Year > maxYear {
		verr.add("year", "must be between %d and %d", MinYear, maxYear)
	}
	if in.Price < MinPrice {
		verr.add("price", "must be at least %d", MinPrice)
	}
	if in.Mileage != nil && *in.Mileage < 0 {
		verr.add("mileage", "must not be negative")
	}
	checkEnum(verr, "fuelType", in.FuelType, fuelTypes)
	checkEnum(verr, "transmission", in.Transmission, transmissions)
	checkEnum(verr, "bodyType", in.BodyType, bodyTypes)
	checkEnum(verr, "condition", in.Condition, conditions)
	checkEnum(verr, "status", in.Status, statuses)
	if strings.TrimSpace(in.City) == "" {
		verr.add("city", "required")
	}

	for i, img := range images {
		if strings.TrimSpace(img.URL) == "" {
			verr.add("images["+strconv.Itoa(i)+"].url", "required")
		}
		if img.Order != nil && *img.Order < 0 {
			verr.add("images["+strconv.Itoa(i)+"].order", "must not be negative")
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func checkEnum(verr *ValidationError, field, value string, allowed []string) {
	if value == "" {
		verr.add(field, "required")
		return
	}
	if !slices.Contains(allowed, value) {
		verr.add(field, "must be one of %s", strings.Join(allowed, ", "))
	}
}
