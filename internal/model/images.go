package model

import "slices"

// NormalizeImages turns image descriptors into the stored gallery order.
//
// Images are ranked by their explicit order, falling back to their position
// in the slice, and then renumbered 0..n-1. The first image explicitly marked
// primary stays primary; without one, the first image in the result is.
// The returned images have no ID or ListingID.
func NormalizeImages(inputs []ImageInput) []Image {
	type ranked struct {
		in   ImageInput
		rank int
	}

	rs := make([]ranked, len(inputs))
	for i, in := range inputs {
		rank := i
		if in.Order != nil {
			rank = *in.Order
		}
		rs[i] = ranked{in: in, rank: rank}
	}
	slices.SortStableFunc(rs, func(a, b ranked) int { return a.rank - b.rank })

	images := make([]Image, len(rs))
	primary := -1
	for i, r := range rs {
		images[i] = Image{URL: r.in.URL, Order: i}
		if primary < 0 && r.in.IsPrimary != nil && *r.in.IsPrimary {
			primary = i
		}
	}
	if len(images) > 0 {
		if primary < 0 {
			primary = 0
		}
		images[primary].IsPrimary = true
	}
	return images
}
