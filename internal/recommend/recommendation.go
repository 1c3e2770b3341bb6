package recommend

// OriginSponsored marks the only records the widget accepts.
const OriginSponsored = "sponsored"

// PlaceholderThumbnail is shown when a record carries no thumbnail.
const PlaceholderThumbnail = "https://via.placeholder.com/300x200?text=No+Image"

// Recommendation is one sponsored-content record eligible for display.
// IDs are unique within a response batch and are the join key for in-place
// replacement.
type Recommendation struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Branding     string `json:"branding,omitempty" yaml:"branding"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" yaml:"thumbnail_url"`
	Destination  string `json:"destination" yaml:"destination"`
	Origin       string `json:"origin" yaml:"origin"`
}

func (r Recommendation) Sponsored() bool {
	return r.Origin == OriginSponsored
}

// Thumbnail returns the thumbnail URL or the placeholder.
func (r Recommendation) Thumbnail() string {
	if r.ThumbnailURL == "" {
		return PlaceholderThumbnail
	}
	return r.ThumbnailURL
}

// FilterSponsored keeps sponsored records in their original order.
func FilterSponsored(recs []Recommendation) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for _, rec := range recs {
		if rec.Sponsored() {
			out = append(out, rec)
		}
	}
	return out
}
