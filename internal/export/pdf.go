package export

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

// Landscape A4 content height (mm) filled with the theme background
const pdfPageFill = 180.0

// PDF renders one landscape page per slide
func PDF(deck types.SlideDeck, theme Theme) ([]byte, error) {
	if len(deck) == 0 {
		return nil, ErrEmptyDeck
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithTitle(deck[0].Title, true).
		WithDefaultFont(&props.Font{
			Family: fontfamily.Arial,
			Size:   12,
		}).
		Build()

	m := maroto.New(cfg)
	for i, slide := range deck {
		m.AddPages(pdfSlidePage(slide, i+1, theme))
	}

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return document.GetBytes(), nil
}

// pdfSlidePage lays out one slide. Rows carry the background colour and a
// filler row extends it to the bottom of the page.
func pdfSlidePage(slide types.SlideRecord, number int, theme Theme) core.Page {
	background := &props.Cell{BackgroundColor: rgb(theme.Background)}
	textColor := rgb(theme.Text)

	var rows []core.Row
	var used float64
	add := func(height float64, component core.Component) {
		rows = append(rows, row.New(height).Add(col.New(12).Add(component)).WithStyle(background))
		used += height
	}
	spacer := func(height float64) {
		rows = append(rows, row.New(height).WithStyle(background))
		used += height
	}

	if slide.Kind == types.SlideKindCover {
		spacer(50)
		add(24, text.New(slide.Title, props.Text{
			Size:  32,
			Style: fontstyle.Bold,
			Align: align.Center,
			Color: textColor,
		}))
		for _, bullet := range slide.Bullets {
			add(12, text.New(bullet, props.Text{
				Size:  16,
				Align: align.Center,
				Color: textColor,
			}))
		}
	} else {
		spacer(10)
		add(20, text.New(slide.Title, props.Text{
			Size:  26,
			Style: fontstyle.Bold,
			Left:  10,
			Color: textColor,
		}))
		for _, bullet := range slide.Bullets {
			add(11, text.New("• "+bullet, props.Text{
				Size:  15,
				Left:  14,
				Color: textColor,
			}))
		}
	}

	if visual, ok := slide.Visual.Get(); ok {
		spacer(4)
		for _, line := range visualLines(visual) {
			add(5, text.New(line, props.Text{
				Family: fontfamily.Courier,
				Size:   9,
				Left:   14,
				Color:  textColor,
			}))
		}
	}
	if description, ok := slide.VisualDescription.Get(); ok {
		add(8, text.New(description, props.Text{
			Size:  11,
			Style: fontstyle.Italic,
			Left:  14,
			Top:   2,
			Color: textColor,
		}))
	}
	if source, ok := slide.Source.Get(); ok {
		add(8, text.New("Source: "+source, props.Text{
			Size:  9,
			Left:  14,
			Top:   2,
			Color: rgb(theme.Muted),
		}))
	}

	if used < pdfPageFill-8 {
		spacer(pdfPageFill - 8 - used)
	}
	add(8, text.New(strconv.Itoa(number), props.Text{
		Size:  10,
		Align: align.Right,
		Right: 6,
		Color: rgb(theme.Muted),
	}))

	return page.New().Add(rows...)
}
