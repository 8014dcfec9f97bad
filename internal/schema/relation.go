package schema

import (
	"errors"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Output file conventions of relation schemas.
const (
	Extension = "eps"
	MIMEType  = "application/eps"
)

// ErrNoTables is returned when the database has nothing to draw.
var ErrNoTables = errors.New("database has no tables")

// Catalog is what the renderer needs from the database layer.
type Catalog interface {
	Tables(db string) ([]string, error)
	Describe(db, table string) ([]types.TableColumn, error)
	ForeignKeys(db, table string) ([]types.ForeignKey, error)
}

// Options control a relation schema.
type Options struct {
	Title              string
	Author             string
	Date               string
	Orientation        string // "L" for landscape, anything else portrait
	Font               string
	FontSize           int
	ShowKeysOnly       bool
	AllTablesSameWidth bool
	ShowTableDimension bool
}

// Page geometry in points.
const (
	pageShort = 595
	pageLong  = 842
	margin    = 36
	gap       = 36
	// charWidth approximates the advance of one cell as a fraction of the
	// font size.
	charWidth = 0.6
	padding   = 4
)

// tableBox is one table laid out on the page.
type tableBox struct {
	name    string
	title   string
	columns []string
	x, y    float64 // lower left corner of the whole box
	width   float64
	rowH    float64
}

func (b *tableBox) height() float64 { return b.rowH * float64(len(b.columns)+1) }

// columnY returns the bottom edge of column row i.
func (b *tableBox) columnY(i int) float64 {
	return b.y + b.height() - b.rowH*float64(i+2)
}

func (b *tableBox) columnIndex(name string) int {
	for i, c := range b.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// RelationSchema draws the tables of one database and the foreign keys
// between them.
type RelationSchema struct {
	cat  Catalog
	opts Options
	log  *zap.Logger
}

// NewRelationSchema returns a renderer reading from cat.
func NewRelationSchema(cat Catalog, opts Options, log *zap.Logger) *RelationSchema {
	if opts.Font == "" {
		opts.Font = DefaultFont
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RelationSchema{cat: cat, opts: opts, log: log}
}

// Render builds the diagram of db.
func (s *RelationSchema) Render(db string) (*EPS, error) {
	tables, err := s.cat.Tables(db)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTables, db)
	}

	boxes := make([]*tableBox, 0, len(tables))
	byName := make(map[string]*tableBox, len(tables))
	var fks []types.ForeignKey
	for _, t := range tables {
		cols, err := s.cat.Describe(db, t)
		if err != nil {
			return nil, fmt.Errorf("describe %s: %w", t, err)
		}
		keys, err := s.cat.ForeignKeys(db, t)
		if err != nil {
			return nil, fmt.Errorf("foreign keys of %s: %w", t, err)
		}
		fks = append(fks, keys...)
		b := s.box(t, cols, keys)
		boxes = append(boxes, b)
		byName[t] = b
	}
	s.layout(boxes)

	doc := NewEPS()
	title := s.opts.Title
	if title == "" {
		title = "Schema of the " + db + " database"
	}
	doc.SetTitle(title)
	doc.SetAuthor(s.opts.Author)
	doc.SetDate(s.opts.Date)
	doc.SetOrientation(s.opts.Orientation)
	doc.SetFont(s.opts.Font, s.opts.FontSize)

	for _, b := range boxes {
		s.drawBox(doc, b)
	}
	drawn := 0
	for _, fk := range fks {
		if s.drawRelation(doc, byName, fk) {
			drawn++
		}
	}
	doc.End()

	s.log.Debug("relation schema rendered",
		zap.String("database", db),
		zap.Int("tables", len(boxes)),
		zap.Int("relations", drawn))
	return doc, nil
}

// Write renders db and writes the document to w.
func (s *RelationSchema) Write(w io.Writer, db string) error {
	doc, err := s.Render(db)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}

func (s *RelationSchema) box(name string, cols []types.TableColumn, fks []types.ForeignKey) *tableBox {
	fkCols := make(map[string]bool, len(fks))
	for _, fk := range fks {
		fkCols[fk.Column] = true
	}
	b := &tableBox{name: name, rowH: float64(s.opts.FontSize) * 1.5}
	for _, c := range cols {
		if s.opts.ShowKeysOnly && c.Key == "" && !fkCols[c.Name] {
			continue
		}
		b.columns = append(b.columns, c.Name)
	}

	cells := 0
	for _, c := range b.columns {
		cells = max(cells, runewidth.StringWidth(c))
	}
	b.title = name
	if s.opts.ShowTableDimension {
		b.title = fmt.Sprintf("%s [%dx%d]", name, cells, len(b.columns))
	}
	cells = max(cells, runewidth.StringWidth(b.title))
	b.width = float64(cells)*charWidth*float64(s.opts.FontSize) + 2*padding
	return b
}

// layout places boxes on a grid, left to right and top to bottom.
func (s *RelationSchema) layout(boxes []*tableBox) {
	pageW, pageH := float64(pageShort), float64(pageLong)
	if s.opts.Orientation == "L" {
		pageW, pageH = pageH, pageW
	}

	if s.opts.AllTablesSameWidth {
		widest := 0.0
		for _, b := range boxes {
			widest = max(widest, b.width)
		}
		for _, b := range boxes {
			b.width = widest
		}
	}

	x, top := float64(margin), pageH-margin
	rowTallest := 0.0
	for _, b := range boxes {
		if x > margin && x+b.width > pageW-margin {
			x = margin
			top -= rowTallest + gap
			rowTallest = 0
		}
		b.x = x
		b.y = top - b.height()
		x += b.width + gap
		rowTallest = max(rowTallest, b.height())
	}
}

func (s *RelationSchema) drawBox(doc *EPS, b *tableBox) {
	textOff := float64(s.opts.FontSize) * 0.4
	titleY := b.y + b.height() - b.rowH
	doc.Rect(b.x, titleY, b.width, b.rowH, 1)
	doc.ShowXY(b.title, b.x+padding, titleY+textOff)
	for i, c := range b.columns {
		y := b.columnY(i)
		doc.Rect(b.x, y, b.width, b.rowH, 0.5)
		doc.ShowXY(c, b.x+padding, y+textOff)
	}
}

// drawRelation joins the foreign key column to the referenced column. It
// reports false when either end is not on the page.
func (s *RelationSchema) drawRelation(doc *EPS, boxes map[string]*tableBox, fk types.ForeignKey) bool {
	from, to := boxes[fk.Table], boxes[fk.RefTable]
	if from == nil || to == nil {
		return false
	}
	fi, ti := from.columnIndex(fk.Column), to.columnIndex(fk.RefColumn)
	if fi < 0 || ti < 0 {
		return false
	}
	fy := from.columnY(fi) + from.rowH/2
	ty := to.columnY(ti) + to.rowH/2

	fx, tx := from.x+from.width, to.x
	if to.x+to.width <= from.x {
		fx, tx = from.x, to.x+to.width
	} else if to.x < from.x+from.width {
		// Stacked boxes: join the left edges.
		fx, tx = from.x, to.x
	}
	doc.Line(fx, fy, tx, ty, 1)
	return true
}
