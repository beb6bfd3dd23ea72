package types

// SlideKind distinguishes the cover slide from content slides
type SlideKind string

const (
	// SlideKindCover is the single title slide that opens every deck
	SlideKindCover SlideKind = "cover"
	// SlideKindContent is a regular titled slide with bullets
	SlideKindContent SlideKind = "content"
)

// SlideRecord is one slide of a generated deck.
// On the wire the kind is carried under the "type" key.
type SlideRecord struct {
	ID                int          `json:"id"`
	Title             string       `json:"title"`
	Bullets           []string     `json:"bullets"`
	Kind              SlideKind    `json:"type"`
	Visual            OptionalText `json:"visual,omitzero"`
	VisualDescription OptionalText `json:"visualDescription,omitzero"`
	Source            OptionalText `json:"source,omitzero"`
}

// HasVisual reports whether the slide carries a visual element
func (s SlideRecord) HasVisual() bool {
	return s.Visual.Present()
}

// SlideDeck is an ordered sequence of slides; index order is display order.
// A well-formed deck has exactly one cover slide and it comes first.
type SlideDeck []SlideRecord

// Cover returns the first slide if it is a cover slide.
func (d SlideDeck) Cover() (SlideRecord, bool) {
	if len(d) == 0 || d[0].Kind != SlideKindCover {
		return SlideRecord{}, false
	}
	return d[0], true
}

// ContentSlides returns every slide of kind content, in order.
func (d SlideDeck) ContentSlides() []SlideRecord {
	content := make([]SlideRecord, 0, len(d))
	for _, slide := range d {
		if slide.Kind == SlideKindContent {
			content = append(content, slide)
		}
	}
	return content
}

// VisualCoverage returns the fraction of content slides that carry a visual.
// A deck without content slides has coverage 0.
func (d SlideDeck) VisualCoverage() float64 {
	content := d.ContentSlides()
	if len(content) == 0 {
		return 0
	}
	withVisual := 0
	for _, slide := range content {
		if slide.HasVisual() {
			withVisual++
		}
	}
	return float64(withVisual) / float64(len(content))
}
