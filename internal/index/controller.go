// Package index implements index editing for a single table: loading an
// index, validating a changed definition and turning it into DDL.
package index

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/cellar/internal/dbi"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Validation errors.
var (
	ErrNoIndexParts      = errors.New("no index parts defined")
	ErrPrimaryName       = errors.New(`the name of the primary key must be "PRIMARY"`)
	ErrRenameToPrimary   = errors.New("can't rename index to PRIMARY")
	ErrMissingIndexName  = errors.New("missing index name")
	ErrUnsupportedChoice = errors.New("index type not supported")
	ErrUnsupportedPrefix = errors.New("index prefix lengths are not supported")
	ErrInvalidColumn     = errors.New("invalid index column")
	ErrUnknownColumn     = errors.New("no such column")
	ErrIndexExists       = errors.New("index already exists")
)

const primaryName = "PRIMARY"

// Catalog is the database access the controller needs.
type Catalog interface {
	Describe(db, table string) ([]types.TableColumn, error)
	Indexes(db, table string) ([]types.Index, error)
	Index(db, table, name string) (types.Index, error)
	ExecTx(db string, stmts ...string) error
}

// Controller edits the indexes of db.table.
type Controller struct {
	cat   Catalog
	db    string
	table string
	log   *zap.Logger
}

// NewController returns a controller for db.table. A nil logger disables
// logging.
func NewController(cat Catalog, db, table string, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{cat: cat, db: db, table: table, log: log}
}

// List returns the indexes of the table.
func (c *Controller) List() ([]types.Index, error) {
	return c.cat.Indexes(c.db, c.table)
}

// Load returns the index called name.
func (c *Controller) Load(name string) (types.Index, error) {
	return c.cat.Index(c.db, c.table, name)
}

// SQL validates idx as the replacement of the index called old (empty for
// a new index) and returns the statements that apply it. When idx is a
// primary key without a name it is named PRIMARY.
func (c *Controller) SQL(old string, idx *types.Index) ([]string, error) {
	switch idx.Choice {
	case types.ChoicePrimary:
		if idx.Name == "" {
			idx.Name = primaryName
		} else if idx.Name != primaryName {
			return nil, ErrPrimaryName
		}
	case types.ChoiceUnique, types.ChoiceIndex, types.ChoiceFulltext, types.ChoiceSpatial:
		if idx.Name == primaryName {
			return nil, ErrRenameToPrimary
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedChoice, idx.Choice)
	}
	if len(idx.Columns) == 0 {
		return nil, ErrNoIndexParts
	}
	if idx.Name == "" {
		return nil, ErrMissingIndexName
	}
	if idx.Choice != types.ChoiceUnique && idx.Choice != types.ChoiceIndex {
		return nil, fmt.Errorf("%w: %s on SQLite", ErrUnsupportedChoice, idx.Choice)
	}
	if old == primaryName {
		return nil, fmt.Errorf("%w: cannot drop PRIMARY on SQLite", ErrUnsupportedChoice)
	}
	if old != "" {
		if _, err := c.cat.Index(c.db, c.table, old); err != nil {
			return nil, err
		}
	}
	if err := c.checkColumns(idx.Columns); err != nil {
		return nil, err
	}
	if idx.Name != old {
		if _, err := c.cat.Index(c.db, c.table, idx.Name); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrIndexExists, idx.Name)
		}
	}

	var stmts []string
	if old != "" {
		stmts = append(stmts, dropSQL(old))
	}
	return append(stmts, createSQL(c.table, *idx)), nil
}

func (c *Controller) checkColumns(cols []types.IndexColumn) error {
	desc, err := c.cat.Describe(c.db, c.table)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(desc))
	for _, d := range desc {
		known[d.Name] = true
	}
	for _, col := range cols {
		if !known[col.Name] {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, col.Name)
		}
		if col.SubPart > 0 {
			return fmt.Errorf("%w: %s(%d)", ErrUnsupportedPrefix, col.Name, col.SubPart)
		}
	}
	return nil
}

func dropSQL(name string) string {
	return "DROP INDEX " + dbi.QuoteIdent(name) + ";"
}

func createSQL(table string, idx types.Index) string {
	cols := make([]string, len(idx.Columns))
	for i, col := range idx.Columns {
		cols[i] = dbi.QuoteIdent(col.Name)
	}
	kw := "CREATE INDEX "
	if idx.Choice == types.ChoiceUnique {
		kw = "CREATE UNIQUE INDEX "
	}
	return kw + dbi.QuoteIdent(idx.Name) + " ON " + dbi.QuoteIdent(table) + " (" + strings.Join(cols, ", ") + ");"
}

// Request is one submission of the index form.
type Request struct {
	OldName string
	Index   types.Index
	Preview bool // return the statements without running them
}

// Result is the outcome of a request.
type Result struct {
	Statements []string
	Executed   bool
	Message    string
}

// SQL joins the statements for display.
func (r Result) SQL() string { return strings.Join(r.Statements, "\n") }

// Action validates the request and, unless previewing, runs it.
func (c *Controller) Action(req Request) (Result, error) {
	idx := req.Index
	stmts, err := c.SQL(req.OldName, &idx)
	if err != nil {
		return Result{}, err
	}
	res := Result{Statements: stmts}
	if req.Preview {
		return res, nil
	}
	if err := c.exec(stmts); err != nil {
		return res, err
	}
	res.Executed = true
	res.Message = fmt.Sprintf("Table %s has been altered successfully.", c.table)
	c.log.Info("index saved",
		zap.String("database", c.db),
		zap.String("table", c.table),
		zap.String("index", idx.Name),
		zap.String("replaced", req.OldName))
	return res, nil
}

// Drop removes the index called name.
func (c *Controller) Drop(name string) (Result, error) {
	idx, err := c.Load(name)
	if err != nil {
		return Result{}, err
	}
	if idx.Choice == types.ChoicePrimary {
		return Result{}, fmt.Errorf("%w: cannot drop PRIMARY on SQLite", ErrUnsupportedChoice)
	}
	res := Result{Statements: []string{dropSQL(name)}}
	if err := c.exec(res.Statements); err != nil {
		return res, err
	}
	res.Executed = true
	res.Message = fmt.Sprintf("Index %s has been dropped.", name)
	c.log.Info("index dropped",
		zap.String("database", c.db),
		zap.String("table", c.table),
		zap.String("index", name))
	return res, nil
}

func (c *Controller) exec(stmts []string) error {
	if err := c.cat.ExecTx(c.db, stmts...); err != nil {
		return fmt.Errorf("alter %s: %w", c.table, err)
	}
	return nil
}
