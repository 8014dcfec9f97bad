// Package schema renders relation-schema diagrams of a database.
package schema

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Default font settings of a new document.
const (
	DefaultFont     = "Helvetica"
	DefaultFontSize = 12
)

// EPS builds an Encapsulated PostScript document. Every call appends
// commands to a single buffer; Output returns the document so far.
type EPS struct {
	buf      strings.Builder
	font     string
	fontSize int
}

// NewEPS starts a document with the EPSF header line.
func NewEPS() *EPS {
	e := &EPS{font: DefaultFont, fontSize: DefaultFontSize}
	e.buf.WriteString("%!PS-Adobe-3.0 EPSF-3.0 \n")
	return e
}

// SetTitle, SetAuthor and SetDate write the matching DSC header comments.
func (e *EPS) SetTitle(v string)  { e.buf.WriteString("%%Title: " + v + "\n") }
func (e *EPS) SetAuthor(v string) { e.buf.WriteString("%%Creator: " + v + "\n") }
func (e *EPS) SetDate(v string)   { e.buf.WriteString("%%CreationDate: " + v + "\n") }

// SetOrientation writes the page comments and closes the header. "L"
// selects landscape; anything else is portrait.
func (e *EPS) SetOrientation(o string) {
	e.buf.WriteString("%%PageOrder: Ascend \n")
	if o == "L" {
		e.buf.WriteString("%%Orientation: Landscape\n")
	} else {
		e.buf.WriteString("%%Orientation: Portrait\n")
	}
	e.buf.WriteString("%%EndComments \n")
	e.buf.WriteString("%%Pages 1 \n")
	e.buf.WriteString("%%BoundingBox: 72 150 144 170 \n")
}

// SetFont selects and scales a font.
func (e *EPS) SetFont(name string, size int) {
	e.font = name
	e.fontSize = size
	e.buf.WriteString("/" + name + " findfont   % Get the basic font\n")
	e.buf.WriteString(strconv.Itoa(size) + " scalefont            % Scale the font to " + strconv.Itoa(size) + " points\n")
	e.buf.WriteString("setfont                 % Make it the current font\n")
}

// Font returns the current font name.
func (e *EPS) Font() string { return e.font }

// FontSize returns the current font size in points.
func (e *EPS) FontSize() int { return e.fontSize }

// Line strokes a segment from (x1, y1) to (x2, y2).
func (e *EPS) Line(x1, y1, x2, y2, width float64) {
	e.buf.WriteString(num(width) + " setlinewidth  \n")
	e.buf.WriteString(num(x1) + " " + num(y1) + " moveto \n")
	e.buf.WriteString(num(x2) + " " + num(y2) + " lineto \n")
	e.buf.WriteString("stroke \n")
}

// Rect strokes a w by h rectangle whose lower left corner is (x, y).
func (e *EPS) Rect(x, y, w, h, width float64) {
	e.buf.WriteString(num(width) + " setlinewidth  \n")
	e.buf.WriteString("newpath \n")
	e.buf.WriteString(num(x) + " " + num(y) + " moveto \n")
	e.buf.WriteString("0 " + num(h) + " rlineto \n")
	e.buf.WriteString(num(w) + " 0 rlineto \n")
	e.buf.WriteString("0 " + num(-h) + " rlineto \n")
	e.buf.WriteString("closepath \n")
	e.buf.WriteString("stroke \n")
}

// MoveTo sets the current point.
func (e *EPS) MoveTo(x, y float64) {
	e.buf.WriteString(num(x) + " " + num(y) + " moveto \n")
}

// Show draws text at the current point.
func (e *EPS) Show(text string) {
	e.buf.WriteString("(" + psEscaper.Replace(text) + ") show \n")
}

// ShowXY draws text at (x, y).
func (e *EPS) ShowXY(text string, x, y float64) {
	e.MoveTo(x, y)
	e.Show(text)
}

// End finishes the page.
func (e *EPS) End() { e.buf.WriteString("showpage \n") }

// Output returns the document.
func (e *EPS) Output() string { return e.buf.String() }

// WriteTo writes the document to w.
func (e *EPS) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.buf.String())
	return int64(n), err
}

// psEscaper protects PostScript string delimiters.
var psEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
