package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"staffing_bridge/internal/domain"
	apperrors "staffing_bridge/pkg/errors"
	"staffing_bridge/pkg/logger"
)

type RequestRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error)
	Create(ctx context.Context, request *domain.Request) error
	// Claim performs the open -> claimed transition as a single conditional
	// update so the store arbitrates concurrent claims. claimed reports
	// whether this call won the row; on a lost race the returned request
	// carries the standing claimant.
	Claim(ctx context.Context, id uuid.UUID, operatorID, operatorName string, at time.Time) (request *domain.Request, claimed bool, err error)
	// Start moves a request to in_progress, backfilling the claim fields
	// when no claimant exists yet. Idempotent; never regresses state and
	// never clears an existing claimant.
	Start(ctx context.Context, id uuid.UUID, operatorID, operatorName string, at time.Time) (*domain.Request, error)
	SetNotificationRef(ctx context.Context, id uuid.UUID, channel, ts string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type requestRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewRequestRepository(db *pgxpool.Pool, log logger.Logger) RequestRepository {
	return &requestRepository{db: db, log: log}
}

const requestColumns = `
	id, organization, contact_name, contact_email, phone, location, timing,
	headcount, estimated_hours, notes, source, claim_status, claimed_by_id,
	claimed_name, claimed_at, slack_channel, slack_ts, created_at, updated_at
`

func (r *requestRepository) scanRequest(row pgx.Row) (*domain.Request, error) {
	request := &domain.Request{}
	err := row.Scan(
		&request.ID, &request.Organization, &request.ContactName, &request.ContactEmail,
		&request.Phone, &request.Location, &request.Timing, &request.Headcount,
		&request.EstimatedHours, &request.Notes, &request.Source, &request.ClaimStatus,
		&request.ClaimedByID, &request.ClaimedName, &request.ClaimedAt,
		&request.SlackChannel, &request.SlackTS, &request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	request, err := r.scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		r.log.Error("Failed to get request", "error", err, "request_id", id)
		return nil, apperrors.StoreError(err)
	}

	return request, nil
}

func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	query := `
		INSERT INTO requests (
			id, organization, contact_name, contact_email, phone, location, timing,
			headcount, estimated_hours, notes, source, claim_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		request.ID, request.Organization, request.ContactName, request.ContactEmail,
		request.Phone, request.Location, request.Timing, request.Headcount,
		request.EstimatedHours, request.Notes, request.Source, request.ClaimStatus,
	).Scan(&request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to create request", "error", err)
		return apperrors.StoreError(err)
	}

	return nil
}

func (r *requestRepository) Claim(ctx context.Context, id uuid.UUID, operatorID, operatorName string, at time.Time) (*domain.Request, bool, error) {
	query := `
		UPDATE requests
		SET claim_status = $2, claimed_by_id = $3, claimed_name = $4, claimed_at = $5, updated_at = now()
		WHERE id = $1 AND claim_status = $6
		RETURNING ` + requestColumns

	request, err := r.scanRequest(r.db.QueryRow(ctx, query,
		id, domain.ClaimStatusClaimed, operatorID, operatorName, at, domain.ClaimStatusOpen,
	))
	if err == nil {
		return request, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("Failed to claim request", "error", err, "request_id", id)
		return nil, false, apperrors.StoreError(err)
	}

	// Zero rows: either the request does not exist or someone else holds
	// the claim. Re-read to tell the two apart.
	request, err = r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return request, false, nil
}

func (r *requestRepository) Start(ctx context.Context, id uuid.UUID, operatorID, operatorName string, at time.Time) (*domain.Request, error) {
	query := `
		UPDATE requests
		SET claim_status = $2,
		    claimed_by_id = COALESCE(claimed_by_id, $3),
		    claimed_name = COALESCE(claimed_name, $4),
		    claimed_at = COALESCE(claimed_at, $5),
		    updated_at = now()
		WHERE id = $1 AND claim_status <> $2
		RETURNING ` + requestColumns

	request, err := r.scanRequest(r.db.QueryRow(ctx, query,
		id, domain.ClaimStatusInProgress, operatorID, operatorName, at,
	))
	if err == nil {
		return request, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("Failed to start request", "error", err, "request_id", id)
		return nil, apperrors.StoreError(err)
	}

	// Already in progress, or missing entirely.
	return r.GetByID(ctx, id)
}

func (r *requestRepository) SetNotificationRef(ctx context.Context, id uuid.UUID, channel, ts string) error {
	query := `UPDATE requests SET slack_channel = $2, slack_ts = $3, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, channel, ts)
	if err != nil {
		r.log.Error("Failed to set notification ref", "error", err, "request_id", id)
		return apperrors.StoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}

	return nil
}

func (r *requestRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	query := `SELECT claim_status, count(*) FROM requests GROUP BY claim_status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to count requests", "error", err)
		return nil, apperrors.StoreError(err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			r.log.Error("Failed to scan request count", "error", err)
			return nil, apperrors.StoreError(err)
		}
		counts[status] = count
	}

	return counts, nil
}
