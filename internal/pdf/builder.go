package pdf

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

const (
	defaultFontSize = 10
	lineHeightRatio = 0.45
)

// Margins are the page margins in millimeters.
type Margins struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// Builder wraps gofpdf with the small layout vocabulary the invoice
// documents are written in.
type Builder struct {
	doc     *gofpdf.Fpdf
	tr      func(string) string
	margins Margins
}

func NewBuilder(margins Margins) *Builder {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margins.Left, margins.Top, margins.Right)
	doc.SetAutoPageBreak(true, margins.Bottom)
	doc.AddPage()
	doc.SetFont("Helvetica", "", defaultFontSize)

	return &Builder{
		doc: doc,
		// Core fonts are cp1252; the translator keeps umlauts and the
		// euro sign intact.
		tr:      doc.UnicodeTranslatorFromDescriptor(""),
		margins: margins,
	}
}

func (b *Builder) SetBold() {
	b.doc.SetFontStyle("B")
}

func (b *Builder) ResetText() {
	b.doc.SetFont("Helvetica", "", defaultFontSize)
	b.doc.SetTextColor(0, 0, 0)
}

func (b *Builder) SetColor(r, g, bl int) {
	b.doc.SetTextColor(r, g, bl)
}

func (b *Builder) AddSpace(mm float64) {
	b.doc.SetY(b.doc.GetY() + mm)
}

func (b *Builder) GetY() float64 {
	return b.doc.GetY()
}

// MoveTo advances to the given vertical position when the cursor is
// still above it.
func (b *Builder) MoveTo(y float64) {
	if b.doc.GetY() < y {
		b.doc.SetY(y)
	}
}

// AddText writes one line at the given size. align is "L", "C" or "R".
func (b *Builder) AddText(text string, size float64, align string) {
	if size <= 0 {
		size = defaultFontSize
	}
	if align == "" {
		align = "L"
	}
	b.doc.SetFontSize(size)
	b.doc.CellFormat(0, size*lineHeightRatio+2, b.tr(text), "", 1, align, false, 0, "")
	b.doc.SetFontSize(defaultFontSize)
}

// AddBlackHeader renders a full-width title bar, white on black.
func (b *Builder) AddBlackHeader(title string) {
	b.doc.SetFillColor(0, 0, 0)
	b.doc.SetTextColor(255, 255, 255)
	b.doc.SetFontSize(14)
	b.doc.CellFormat(0, 9, b.tr(title), "", 1, "C", true, 0, "")
	b.doc.SetFontSize(defaultFontSize)
	b.doc.SetTextColor(0, 0, 0)
}

// AddLeftRight renders two columns of lines, the left one left-aligned
// and the right one right-aligned. Missing lines on either side leave
// the row half empty.
func (b *Builder) AddLeftRight(left, right []string, size float64) {
	if size <= 0 {
		size = defaultFontSize
	}
	b.doc.SetFontSize(size)
	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}
	pageWidth, _ := b.doc.GetPageSize()
	width := pageWidth - b.margins.Left - b.margins.Right
	h := size*lineHeightRatio + 1.5

	for i := 0; i < rows; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		b.doc.CellFormat(width/2, h, b.tr(l), "", 0, "L", false, 0, "")
		b.doc.CellFormat(width/2, h, b.tr(r), "", 1, "R", false, 0, "")
	}
	b.doc.SetFontSize(defaultFontSize)
}

// Add2Cols renders a narrow label column next to a wide value column.
func (b *Builder) Add2Cols(labels, values []string, size, labelWidthPercent float64) {
	if size <= 0 {
		size = defaultFontSize
	}
	b.doc.SetFontSize(size)
	pageWidth, _ := b.doc.GetPageSize()
	width := pageWidth - b.margins.Left - b.margins.Right
	labelWidth := width * labelWidthPercent / 100
	h := size*lineHeightRatio + 1.5

	rows := len(labels)
	if len(values) > rows {
		rows = len(values)
	}
	for i := 0; i < rows; i++ {
		var l, v string
		if i < len(labels) {
			l = labels[i]
		}
		if i < len(values) {
			v = values[i]
		}
		b.doc.CellFormat(labelWidth, h, b.tr(l), "", 0, "L", false, 0, "")
		b.doc.CellFormat(width-labelWidth, h, b.tr(v), "", 1, "L", false, 0, "")
	}
	b.doc.SetFontSize(defaultFontSize)
}

// ColumnAlign maps a zero-based column index to "L", "C" or "R".
type ColumnAlign map[int]string

// AddTable renders a bordered table. head may be nil for a headless
// block such as free text.
func (b *Builder) AddTable(head []string, body [][]string, aligns ColumnAlign) {
	pageWidth, _ := b.doc.GetPageSize()
	width := pageWidth - b.margins.Left - b.margins.Right

	cols := len(head)
	for _, row := range body {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	colWidth := width / float64(cols)
	if cols >= 4 {
		// Wide description column, the rest share the remainder.
		colWidth = width / float64(cols+2)
	}
	firstWidth := width - colWidth*float64(cols-1)

	cellWidth := func(i int) float64 {
		if i == 0 {
			return firstWidth
		}
		return colWidth
	}
	align := func(i int) string {
		if a, ok := aligns[i]; ok {
			return a
		}
		return "L"
	}

	if head != nil {
		b.doc.SetFillColor(230, 230, 230)
		b.doc.SetFontStyle("B")
		for i, h := range head {
			last := i == len(head)-1
			ln := 0
			if last {
				ln = 1
			}
			b.doc.CellFormat(cellWidth(i), 7, b.tr(h), "1", ln, "C", true, 0, "")
		}
		b.doc.SetFontStyle("")
	}

	for _, row := range body {
		for i := 0; i < cols; i++ {
			var v string
			if i < len(row) {
				v = row[i]
			}
			last := i == cols-1
			ln := 0
			if last {
				ln = 1
			}
			b.doc.CellFormat(cellWidth(i), 6, b.tr(v), "1", ln, align(i), false, 0, "")
		}
	}
}

// AddTextBlock renders free text as borderless multi-line cells.
func (b *Builder) AddTextBlock(text string) {
	if text == "" {
		return
	}
	pageWidth, _ := b.doc.GetPageSize()
	width := pageWidth - b.margins.Left - b.margins.Right
	b.doc.MultiCell(width, 5, b.tr(text), "", "L", false)
}

func (b *Builder) AddLine() {
	b.AddSpace(2)
	y := b.doc.GetY()
	pageWidth, _ := b.doc.GetPageSize()
	b.doc.Line(b.margins.Left, y, pageWidth-b.margins.Right, y)
	b.AddSpace(2)
}

// Bytes finalizes the document.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveTo writes the document to dir under the given file name and
// returns the full path.
func (b *Builder) SaveTo(dir, fileName string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName)
	return path, b.doc.OutputFileAndClose(path)
}
