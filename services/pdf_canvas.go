package services

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// TextStyle controls font and alignment for canvas text operations
type TextStyle struct {
	Size  float64
	Bold  bool
	Color string // "#rrggbb"; empty means black
	Align string // "L", "C", "R", "J"; empty means left
}

// Canvas is the rendering capability the document composer draws against:
// cursor-positioned text whose end position is reported back, box and line
// drawing, image embedding and explicit page breaks. The production backend
// wraps a PDF writer; tests substitute a recording fake.
type Canvas interface {
	PageWidth() float64
	PageHeight() float64
	PageCount() int
	AddPage()
	// Text draws a single line of text at (x, y) inside the given width and
	// returns the y position below the drawn line.
	Text(x, y, width float64, text string, style TextStyle) float64
	// TextFlow draws wrapped text starting at (x, y). The text may continue
	// onto following pages; the reported end position is wherever the flow
	// actually stopped, which is not predictable in advance for justified
	// paragraphs.
	TextFlow(x, y, width float64, text string, style TextStyle) float64
	// TextWidth measures a single line in the given style
	TextWidth(text string, style TextStyle) float64
	// Rect draws a rectangle; empty fill means stroke only
	Rect(x, y, w, h float64, fillColor, strokeColor string)
	Line(x1, y1, x2, y2 float64, color string)
	// Image embeds PNG bytes at (x, y) scaled to the given width
	Image(png []byte, x, y, w float64) error
}

const canvasLineFactor = 1.3

// PDFCanvas implements Canvas on top of a letter-size PDF document
type PDFCanvas struct {
	pdf      *fpdf.Fpdf
	imageSeq int
}

// NewPDFCanvas creates a letter-size, point-unit PDF canvas with the first
// page already added.
func NewPDFCanvas() *PDFCanvas {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(true, 50)
	pdf.AddPage()
	return &PDFCanvas{pdf: pdf}
}

func (p *PDFCanvas) PageWidth() float64 {
	w, _ := p.pdf.GetPageSize()
	return w
}

func (p *PDFCanvas) PageHeight() float64 {
	_, h := p.pdf.GetPageSize()
	return h
}

func (p *PDFCanvas) PageCount() int {
	return p.pdf.PageCount()
}

func (p *PDFCanvas) AddPage() {
	p.pdf.AddPage()
}

func (p *PDFCanvas) applyStyle(style TextStyle) float64 {
	size := style.Size
	if size == 0 {
		size = 10
	}
	fontStyle := ""
	if style.Bold {
		fontStyle = "B"
	}
	p.pdf.SetFont("Helvetica", fontStyle, size)
	r, g, b := parseHexColor(style.Color)
	p.pdf.SetTextColor(r, g, b)
	return size
}

func (p *PDFCanvas) Text(x, y, width float64, text string, style TextStyle) float64 {
	size := p.applyStyle(style)
	lineHeight := size * canvasLineFactor
	align := style.Align
	if align == "" {
		align = "L"
	}
	p.pdf.SetXY(x, y)
	p.pdf.CellFormat(width, lineHeight, text, "", 0, align, false, 0, "")
	return y + lineHeight
}

func (p *PDFCanvas) TextFlow(x, y, width float64, text string, style TextStyle) float64 {
	size := p.applyStyle(style)
	lineHeight := size * canvasLineFactor
	align := style.Align
	if align == "" {
		align = "J"
	}
	p.pdf.SetXY(x, y)
	// MultiCell wraps, justifies and page-breaks on its own; GetY afterwards
	// reports where the flow actually ended.
	p.pdf.MultiCell(width, lineHeight, text, "", align, false)
	return p.pdf.GetY()
}

func (p *PDFCanvas) TextWidth(text string, style TextStyle) float64 {
	p.applyStyle(style)
	return p.pdf.GetStringWidth(text)
}

func (p *PDFCanvas) Rect(x, y, w, h float64, fillColor, strokeColor string) {
	dr, dg, db := parseHexColor(strokeColor)
	p.pdf.SetDrawColor(dr, dg, db)
	styleStr := "D"
	if fillColor != "" {
		fr, fg, fb := parseHexColor(fillColor)
		p.pdf.SetFillColor(fr, fg, fb)
		styleStr = "FD"
	}
	p.pdf.Rect(x, y, w, h, styleStr)
}

func (p *PDFCanvas) Line(x1, y1, x2, y2 float64, color string) {
	r, g, b := parseHexColor(color)
	p.pdf.SetDrawColor(r, g, b)
	p.pdf.Line(x1, y1, x2, y2)
}

func (p *PDFCanvas) Image(png []byte, x, y, w float64) error {
	p.imageSeq++
	name := fmt.Sprintf("img%d", p.imageSeq)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if p.pdf.Err() {
		return fmt.Errorf("failed to register image: %s", p.pdf.Error())
	}
	p.pdf.ImageOptions(name, x, y, w, 0, false, opts, 0, "")
	if p.pdf.Err() {
		return fmt.Errorf("failed to draw image: %s", p.pdf.Error())
	}
	return nil
}

// WriteTo writes the finished PDF to w
func (p *PDFCanvas) WriteTo(w io.Writer) error {
	if err := p.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// parseHexColor converts "#rrggbb" to RGB components; anything unparsable is
// treated as black.
func parseHexColor(color string) (int, int, int) {
	if len(color) != 7 || color[0] != '#' {
		return 0, 0, 0
	}
	r, err1 := strconv.ParseInt(color[1:3], 16, 0)
	g, err2 := strconv.ParseInt(color[3:5], 16, 0)
	b, err3 := strconv.ParseInt(color[5:7], 16, 0)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0
	}
	return int(r), int(g), int(b)
}
