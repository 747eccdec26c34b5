package riskassessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/riskengine/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func scanAssessment(row pgx.Row) (*AdvancedRiskAssessment, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		return nil, err
	}
	var a AdvancedRiskAssessment
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("decode assessment payload: %w", err)
	}
	return &a, nil
}

// Store writes the assessment and its alerts in one transaction.
func (r *repoPG) Store(ctx context.Context, a *AdvancedRiskAssessment) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode assessment payload: %w", err)
	}

	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		tag, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO risk_assessment (id, user_id, assessed_at, vocabulary_version,
				composite_level, composite_score, escalation_tier, escalation_level, payload)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (id) DO NOTHING`,
			a.AssessmentID, a.UserID, a.Timestamp, a.VocabularyVersion,
			a.Composite.RiskLevel, a.Composite.OverallScore, a.Composite.EscalationTier,
			a.EscalationProtocol.EscalationLevel, payload)
		if err != nil {
			return fmt.Errorf("insert risk assessment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		for i, alert := range a.EmergencyAlerts {
			_, err := r.conn(ctx).Exec(ctx, `
				INSERT INTO risk_assessment_alert (assessment_id, position, user_id, severity,
					domain, condition, time_to_action, automated)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				a.AssessmentID, i, a.UserID, alert.Severity,
				alert.Domain, alert.Condition, alert.TimeToAction, alert.Automated)
			if err != nil {
				return fmt.Errorf("insert alert %d: %w", i, err)
			}
		}
		return nil
	})
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*AdvancedRiskAssessment, error) {
	a, err := scanAssessment(r.conn(ctx).QueryRow(ctx, `SELECT payload FROM risk_assessment WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *repoPG) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*AdvancedRiskAssessment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM risk_assessment WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT payload FROM risk_assessment WHERE user_id = $1
		ORDER BY assessed_at DESC, id DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*AdvancedRiskAssessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Latest(ctx context.Context, userID string) (*AdvancedRiskAssessment, error) {
	a, err := scanAssessment(r.conn(ctx).QueryRow(ctx, `
		SELECT payload FROM risk_assessment WHERE user_id = $1
		ORDER BY assessed_at DESC, id DESC LIMIT 1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}
