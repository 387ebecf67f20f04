package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/internal/engine"
	"github.com/JaimeStill/quill/pkg/pagination"
	"github.com/JaimeStill/quill/pkg/query"
	"github.com/JaimeStill/quill/pkg/repository"
	"github.com/JaimeStill/quill/workflow"
)

type repo struct {
	db         *sql.DB
	exec       *engine.Executor
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a run repository implementing the System interface.
// Submitted requests execute on the provided engine executor.
func New(
	db *sql.DB,
	exec *engine.Executor,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		exec:       exec,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.exec.Catalog(), r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Workflow", "Status")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

// Submit validates the request, records a running row, executes the
// selected workflow, and settles the row with the execution outcome.
// Workflow failures are not submit errors: the run row records them.
func (r *repo) Submit(ctx context.Context, cmd SubmitCommand) (*Run, error) {
	req := cmd.Request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	plan, err := r.exec.Catalog().Select(req.ContentTypes)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	if req.AdditionalContext == nil {
		req.AdditionalContext = make(map[string]any)
	}
	req.AdditionalContext["run_id"] = id.String()

	requestJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	insertQ := `
		INSERT INTO runs(id, workflow, version, status, request, steps)
		VALUES ($1, $2, $3, $4, $5, '[]')
		RETURNING id, workflow, version, status, request, steps,
				  error, submitted_at, completed_at`

	insertArgs := []any{id, plan.Definition.Name, plan.Definition.Version, StatusRunning, requestJSON}

	run, err := repository.QueryOne(ctx, r.db, insertQ, insertArgs, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	result, err := r.exec.Execute(ctx, &req)
	if err != nil {
		return r.settle(ctx, run.ID, StatusFailed, nil, err.Error())
	}

	status := StatusSucceeded
	var failure string
	if !result.Success {
		status = StatusFailed
		failure = result.Error
	}

	settled, err := r.settle(ctx, run.ID, status, result.Steps, failure)
	if err != nil {
		return nil, err
	}

	r.logger.Info("run completed",
		"id", settled.ID,
		"workflow", settled.Workflow,
		"status", settled.Status,
	)
	return settled, nil
}

func (r *repo) settle(
	ctx context.Context,
	id uuid.UUID,
	status string,
	steps []workflow.StepResult,
	failure string,
) (*Run, error) {
	if steps == nil {
		steps = []workflow.StepResult{}
	}

	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return nil, fmt.Errorf("marshal steps: %w", err)
	}

	var errText *string
	if failure != "" {
		errText = &failure
	}

	settleQ := `
		UPDATE runs
		SET status = $1, steps = $2, error = $3, completed_at = NOW()
		WHERE id = $4
		RETURNING id, workflow, version, status, request, steps,
				  error, submitted_at, completed_at`

	run, err := repository.QueryOne(ctx, r.db, settleQ,
		[]any{status, stepsJSON, errText, id},
		scanRun,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM runs WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run deleted", "id", id)
	return nil
}
