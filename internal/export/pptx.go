package export

import (
	"bytes"
	"fmt"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/jonathan/slide-deck-generator/internal/types"
)

// 16:9 slide geometry in EMU
const (
	emuPerInch = 914400

	pptxSlideWidth  = int64(10.0 * emuPerInch)
	pptxSlideHeight = int64(5.625 * emuPerInch)
	pptxLeft        = int64(0.5 * emuPerInch)
	pptxIndent      = int64(0.7 * emuPerInch)
	pptxBodyWidth   = int64(8.6 * emuPerInch)

	pptxFontTitle   = 28
	pptxFontCover   = 36
	pptxFontBullet  = 18
	pptxFontVisual  = 12
	pptxFontCaption = 12
	pptxFontSource  = 10
)

// inches converts a position in inches to EMU
func inches(v float64) int64 {
	return int64(v * emuPerInch)
}

// PPTX renders one slide per deck entry
func PPTX(deck types.SlideDeck, theme Theme) ([]byte, error) {
	if len(deck) == 0 {
		return nil, ErrEmptyDeck
	}

	p := ppt.New()
	p.GetDocumentProperties().Title = deck[0].Title
	p.GetDocumentProperties().Creator = "slide-agent"

	for i, record := range deck {
		slide := p.GetActiveSlide()
		if i > 0 {
			slide = p.CreateSlide()
		}
		addBackground(slide, theme)
		if record.Kind == types.SlideKindCover {
			addCoverContent(slide, record, theme)
		} else {
			addSlideContent(slide, record, theme)
		}
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create PPTX writer: %w", err)
	}

	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PPTX: %w", err)
	}
	return buf.Bytes(), nil
}

// addBackground covers the slide with the theme colour
func addBackground(slide *ppt.Slide, theme Theme) {
	bg := slide.CreateRichTextShape()
	bg.SetOffsetX(0).SetOffsetY(0)
	bg.SetWidth(pptxSlideWidth).SetHeight(pptxSlideHeight)
	bg.SetFill(ppt.NewFill().SetSolid(ppt.NewColor(argb(theme.Background))))
}

func addCoverContent(slide *ppt.Slide, record types.SlideRecord, theme Theme) {
	center := ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter)

	title := slide.CreateRichTextShape()
	title.SetOffsetX(pptxLeft).SetOffsetY(inches(1.4))
	title.SetWidth(inches(9.0)).SetHeight(inches(1.2))
	run := title.CreateTextRun(record.Title)
	run.GetFont().SetSize(pptxFontCover).SetBold(true).SetColor(ppt.NewColor(argb(theme.Text)))
	title.GetActiveParagraph().SetAlignment(center)

	subtitle := slide.CreateRichTextShape()
	subtitle.SetOffsetX(pptxLeft).SetOffsetY(inches(2.8))
	subtitle.SetWidth(inches(9.0)).SetHeight(inches(1.6))
	for i, bullet := range record.Bullets {
		if i > 0 {
			subtitle.CreateParagraph()
		}
		run := subtitle.CreateTextRun(bullet)
		run.GetFont().SetSize(pptxFontBullet).SetColor(ppt.NewColor(argb(theme.Text)))
		subtitle.GetActiveParagraph().SetAlignment(center)
	}
}

func addSlideContent(slide *ppt.Slide, record types.SlideRecord, theme Theme) {
	textColor := ppt.NewColor(argb(theme.Text))

	title := slide.CreateRichTextShape()
	title.SetOffsetX(pptxLeft).SetOffsetY(inches(0.3))
	title.SetWidth(inches(9.0)).SetHeight(inches(0.8))
	run := title.CreateTextRun(record.Title)
	run.GetFont().SetSize(pptxFontTitle).SetBold(true).SetColor(textColor)

	bullets := slide.CreateRichTextShape()
	bullets.SetOffsetX(pptxIndent).SetOffsetY(inches(1.2))
	bullets.SetWidth(pptxBodyWidth).SetHeight(inches(1.6))
	for i, bullet := range record.Bullets {
		if i > 0 {
			bullets.CreateParagraph()
		}
		run := bullets.CreateTextRun("• " + bullet)
		run.GetFont().SetSize(pptxFontBullet).SetColor(textColor)
	}

	if visual, ok := record.Visual.Get(); ok {
		shape := slide.CreateRichTextShape()
		shape.SetOffsetX(pptxIndent).SetOffsetY(inches(2.8))
		shape.SetWidth(pptxBodyWidth).SetHeight(inches(1.6))
		for i, line := range visualLines(visual) {
			if i > 0 {
				shape.CreateParagraph()
			}
			run := shape.CreateTextRun(line)
			run.GetFont().SetSize(pptxFontVisual).SetColor(textColor)
		}
	}

	if description, ok := record.VisualDescription.Get(); ok {
		shape := slide.CreateRichTextShape()
		shape.SetOffsetX(pptxIndent).SetOffsetY(inches(4.5))
		shape.SetWidth(pptxBodyWidth).SetHeight(inches(0.4))
		run := shape.CreateTextRun(description)
		run.GetFont().SetSize(pptxFontCaption).SetColor(textColor)
	}

	if source, ok := record.Source.Get(); ok {
		shape := slide.CreateRichTextShape()
		shape.SetOffsetX(pptxIndent).SetOffsetY(inches(5.0))
		shape.SetWidth(pptxBodyWidth).SetHeight(inches(0.35))
		run := shape.CreateTextRun("Source: " + source)
		run.GetFont().SetSize(pptxFontSource).SetColor(ppt.NewColor(argb(theme.Muted)))
	}
}
