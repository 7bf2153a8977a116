package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aworks-dev/bol-extractor/constants"
	"github.com/aworks-dev/bol-extractor/internal/bol"
	"github.com/aworks-dev/bol-extractor/internal/common"
)

// Run is one persisted pipeline run: summary counts plus the full dataset
// and diagnostics for later export.
type Run struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	Status        constants.RunStatus
	Pages         int
	Shipments     int
	LineItems     int
	Matched       int
	ShipmentOnly  int
	ReferenceOnly int
	Diagnostics   bol.Diagnostics
	Dataset       bol.CombinedDataset
}

// RunRepository is the behavior the server and CLI depend on.
type RunRepository interface {
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

type runRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRunRepository(db *sql.DB, logger *slog.Logger) RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &runRepository{db: db, logger: logger}
}

// NewRun builds a Run record from a finished pipeline invocation.
func NewRun(pages int, ds bol.CombinedDataset, diags bol.Diagnostics) Run {
	counts := ds.CountByMatch()
	lineItems := 0
	for _, rec := range ds.Records {
		if rec.Shipment != nil {
			lineItems += len(rec.Shipment.LineItems)
		}
	}
	status := constants.RunOK
	if diags.HasSeverity(bol.SeverityWarning) {
		status = constants.RunDegraded
	}
	return Run{
		ID:            uuid.New(),
		CreatedAt:     time.Now().UTC(),
		Status:        status,
		Pages:         pages,
		Shipments:     len(ds.Shipments()),
		LineItems:     lineItems,
		Matched:       counts[constants.MatchMatched],
		ShipmentOnly:  counts[constants.MatchShipmentOnly],
		ReferenceOnly: counts[constants.MatchReferenceOnly],
		Diagnostics:   diags,
		Dataset:       ds,
	}
}

func (r *runRepository) SaveRun(ctx context.Context, run Run) error {
	diagsJSON, err := json.Marshal(run.Diagnostics)
	if err != nil {
		return common.WrapError(err, "encoding diagnostics")
	}
	dsJSON, err := json.Marshal(run.Dataset)
	if err != nil {
		return common.WrapError(err, "encoding dataset")
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, status, pages, shipments, line_items,
			matched, shipment_only, reference_only, diagnostics, diagnostics_json, dataset_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.CreatedAt, string(run.Status), run.Pages, run.Shipments,
		run.LineItems, run.Matched, run.ShipmentOnly, run.ReferenceOnly,
		len(run.Diagnostics), string(diagsJSON), string(dsJSON),
	)
	if err != nil {
		return common.NewAppError("STORE_WRITE", "inserting run", err)
	}
	r.logger.Info("repository.run.saved", "run_id", run.ID.String(), "status", run.Status)
	return nil
}

func (r *runRepository) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, created_at, status, pages, shipments, line_items,
			matched, shipment_only, reference_only, diagnostics_json, dataset_json
		FROM runs WHERE id = ?`, id.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("STORE_READ", "run "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewAppError("STORE_READ", "querying run", err)
	}
	return run, nil
}

func (r *runRepository) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, status, pages, shipments, line_items,
			matched, shipment_only, reference_only, diagnostics_json, dataset_json
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, common.NewAppError("STORE_READ", "listing runs", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, common.NewAppError("STORE_READ", "scanning run", err)
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run       Run
		idStr     string
		statusStr string
		diagsJSON string
		dsJSON    string
	)
	if err := s.Scan(&idStr, &run.CreatedAt, &statusStr, &run.Pages, &run.Shipments,
		&run.LineItems, &run.Matched, &run.ShipmentOnly, &run.ReferenceOnly,
		&diagsJSON, &dsJSON); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	run.ID = id
	run.Status = constants.RunStatus(statusStr)
	if err := json.Unmarshal([]byte(diagsJSON), &run.Diagnostics); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(dsJSON), &run.Dataset); err != nil {
		return nil, err
	}
	return &run, nil
}
