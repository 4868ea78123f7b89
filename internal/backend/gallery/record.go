package gallery

import (
	"github.com/jo-hoe/artcolor/internal/backend/collection"
	"github.com/jo-hoe/artcolor/internal/backend/palette"
)

// ImageRecord is one entry of the aggregated response.
type ImageRecord struct {
	ObjectID             int                  `json:"objectID"`
	PrimaryImage         string               `json:"primaryImage"`
	PrimaryImageSmall    string               `json:"primaryImageSmall"`
	DominantColor        []int                `json:"dominantColor"`
	DominantPrimaryColor palette.PrimaryColor `json:"dominantPrimaryColor"`
}

// NewImageRecord builds a record from object metadata with its color left unset.
func NewImageRecord(object *collection.Object) ImageRecord {
	return ImageRecord{
		ObjectID:          object.ObjectID,
		PrimaryImage:      object.PrimaryImage,
		PrimaryImageSmall: object.PrimaryImageSmall,
		DominantColor:     []int{},
	}
}

// SetDominantColor stores the color together with its classification.
func (r *ImageRecord) SetDominantColor(color palette.RGB) {
	r.DominantColor = color.Ints()
	r.DominantPrimaryColor = palette.Classify(color)
}

// HasDominantColor reports whether a color has been derived for the record.
func (r *ImageRecord) HasDominantColor() bool {
	return len(r.DominantColor) == 3
}

// colorSourceURL picks the image used for color extraction: the small rendition first,
// then the full one. An empty result means there is nothing to analyse.
func (r *ImageRecord) colorSourceURL() string {
	if r.PrimaryImageSmall != "" {
		return r.PrimaryImageSmall
	}
	return r.PrimaryImage
}
