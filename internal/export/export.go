package export

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/cellar/internal/dbi"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Kind is the scope of an export run.
type Kind string

const (
	KindDatabase Kind = "database"
	KindTable    Kind = "table"
	KindRaw      Kind = "raw"
)

// StructureOrData selects which parts of each table are exported.
type StructureOrData string

const (
	Structure        StructureOrData = "structure"
	Data             StructureOrData = "data"
	StructureAndData StructureOrData = "structure_and_data"
)

// ErrInvalidRequest is returned for requests Run cannot execute.
var ErrInvalidRequest = errors.New("invalid export request")

// Request describes one export run.
type Request struct {
	Kind            Kind
	DB              string
	Tables          []string // KindTable; for KindDatabase empty means every table
	Query           string   // KindRaw
	StructureOrData StructureOrData
	Aliases         types.Aliases
}

// Runner drives a plugin through an export.
type Runner struct {
	db  Querier
	log *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger for run start and finish records.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.log = l }
}

// NewRunner returns a Runner reading table lists from db.
func NewRunner(db Querier, opts ...RunnerOption) *Runner {
	r := &Runner{db: db, log: zap.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run exports req with p and returns the run ID. Any plugin error ends the
// run; output written before the failure is left to the caller.
func (r *Runner) Run(p Plugin, req Request) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate run id: %w", err)
	}
	log := r.log.With(
		zap.String("run_id", id.String()),
		zap.String("format", p.Name()),
		zap.String("kind", string(req.Kind)),
		zap.String("database", req.DB))
	log.Info("export started")

	if err := r.run(p, req); err != nil {
		log.Error("export failed", zap.Error(err))
		return id, err
	}
	log.Info("export finished")
	return id, nil
}

func (r *Runner) run(p Plugin, req Request) error {
	if req.StructureOrData == "" {
		req.StructureOrData = Data
	}
	withData := req.StructureOrData != Structure

	switch req.Kind {
	case KindRaw:
		if req.Query == "" {
			return fmt.Errorf("%w: raw export needs a query", ErrInvalidRequest)
		}
	case KindTable:
		if len(req.Tables) == 0 {
			return fmt.Errorf("%w: table export needs a table", ErrInvalidRequest)
		}
	case KindDatabase:
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidRequest, req.Kind)
	}

	if err := p.Header(); err != nil {
		return err
	}

	switch req.Kind {
	case KindRaw:
		var db *string
		if req.DB != "" {
			db = &req.DB
		}
		if err := p.RawQuery(db, req.Query); err != nil {
			return err
		}
	case KindTable:
		if withData {
			if err := r.tables(p, req, req.Tables); err != nil {
				return err
			}
		}
	case KindDatabase:
		alias := req.Aliases.Database(req.DB)
		if err := p.DBHeader(req.DB, alias); err != nil {
			return err
		}
		if err := p.DBCreate(req.DB, string(KindDatabase), alias); err != nil {
			return err
		}
		if withData {
			tables := req.Tables
			if len(tables) == 0 {
				var err error
				if tables, err = r.db.Tables(req.DB); err != nil {
					return fmt.Errorf("list tables: %w", err)
				}
			}
			if err := r.tables(p, req, tables); err != nil {
				return err
			}
		}
		if err := p.DBFooter(req.DB); err != nil {
			return err
		}
	}

	return p.Footer()
}

func (r *Runner) tables(p Plugin, req Request, tables []string) error {
	for _, t := range tables {
		query := "SELECT * FROM " + dbi.QuoteIdent(t)
		if err := p.Data(req.DB, t, query, req.Aliases); err != nil {
			return fmt.Errorf("export %s: %w", t, err)
		}
	}
	return nil
}
