package device

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultImageURL is used for types without a dedicated picture
const DefaultImageURL = "/images/default-tracker.jpg"

var imageByType = map[Type]string{
	TGPS:           "/images/gps-tracker.jpg",
	TEnvironmental: "/images/environmental-tracker.jpg",
	TIndustrial:    "/images/industrial-tracker.jpg",
	TDashboard:     "/images/dashboard-tracker.jpg",
}

var typeKeywords = []struct {
	t        Type
	keywords []string
}{
	{TEnvironmental, []string{"environment", "temp", "humid"}},
	{TIndustrial, []string{"production", "factory"}},
	{TDashboard, []string{"dashboard", "overview"}},
}

// Hydrate fills every absent field of a partial device with its default,
// it doesn't touch any storage
func Hydrate(p Partial, now time.Time) (d Device, err error) {
	if p.ID == "" || p.Content == "" {
		return d, ErrValidation
	}

	d = Device{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Type:        p.Type,
		ContentType: p.ContentType,
		Content:     p.Content,
		Status:      p.Status,
		LastUpdated: p.LastUpdated,
		Location:    p.Location,
		ImageURL:    p.ImageURL,
		AddedOn:     p.AddedOn,
	}

	if d.Name == "" {
		d.Name = NameFromID(d.ID)
	}

	if d.Description == "" {
		d.Description = "Tracking for " + d.Name
	}

	if d.Type == "" {
		d.Type = InferType(d.ID)
	}

	if d.ContentType == "" {
		d.ContentType = InferContentType(d.Content)
	}

	if d.Status == "" {
		d.Status = SActive
	}

	if d.ImageURL == "" {
		d.ImageURL = ImageURLForType(d.Type)
	}

	ts := Timestamp(now)

	if d.LastUpdated == "" {
		d.LastUpdated = ts
	}

	if d.AddedOn == "" {
		d.AddedOn = ts
	}

	return d, nil
}

// NameFromID turns "truck-17-north" into "Truck 17 North"
func NameFromID(id string) string {
	parts := strings.Split(id, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}

		r, size := utf8.DecodeRuneInString(p)
		parts[i] = strings.ToUpper(string(r)) + p[size:]
	}

	return strings.Join(parts, " ")
}

// InferType guesses the device type by keywords found in its id
func InferType(id string) Type {
	lid := strings.ToLower(id)
	for _, tk := range typeKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(lid, kw) {
				return tk.t
			}
		}
	}

	return TGPS
}

// ImageURLForType returns the default picture of a given type
func ImageURLForType(t Type) string {
	if u, ok := imageByType[t]; ok {
		return u
	}

	return DefaultImageURL
}
