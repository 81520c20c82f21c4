package model

import "testing"

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func primaries(images []Image) []int {
	var idx []int
	for i, img := range images {
		if img.IsPrimary {
			idx = append(idx, i)
		}
	}
	return idx
}

func TestNormalizeImagesDefaults(t *testing.T) {
	images := NormalizeImages([]ImageInput{{URL: "a"}, {URL: "b"}, {URL: "c"}})

	for i, img := range images {
		if img.Order != i {
			t.Errorf("image %d: expected order %d, got %d", i, i, img.Order)
		}
	}
	if p := primaries(images); len(p) != 1 || p[0] != 0 {
		t.Errorf("expected only index 0 primary, got %v", p)
	}
}

func TestNormalizeImagesExplicitPrimary(t *testing.T) {
	images := NormalizeImages([]ImageInput{
		{URL: "a"},
		{URL: "b", IsPrimary: boolPtr(true)},
		{URL: "c", IsPrimary: boolPtr(true)},
	})

	if p := primaries(images); len(p) != 1 || images[p[0]].URL != "b" {
		t.Errorf("expected only b primary, got %v", p)
	}
}

func TestNormalizeImagesExplicitOrder(t *testing.T) {
	images := NormalizeImages([]ImageInput{
		{URL: "a", Order: intPtr(10)},
		{URL: "b", Order: intPtr(0)},
		{URL: "c", Order: intPtr(5)},
	})

	got := []string{images[0].URL, images[1].URL, images[2].URL}
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
		if images[i].Order != i {
			t.Errorf("expected contiguous order, image %d has %d", i, images[i].Order)
		}
	}
	if !images[0].IsPrimary {
		t.Error("expected first image after ordering to be primary")
	}
}

func TestNormalizeImagesEmpty(t *testing.T) {
	if images := NormalizeImages(nil); len(images) != 0 {
		t.Errorf("expected no images, got %d", len(images))
	}
}
