package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// marshalReasons encodes eligibility reasons for the reasons_json column.
func marshalReasons(reasons []string) (string, error) {
	if reasons == nil {
		reasons = []string{}
	}
	data, err := json.Marshal(reasons)
	if err != nil {
		return "", fmt.Errorf("failed to marshal reasons: %w", err)
	}
	return string(data), nil
}

// scanSnapshotRow scans a session snapshot from a single sql.Row.
func scanSnapshotRow(row *sql.Row) (*models.SessionSnapshot, error) {
	var snap models.SessionSnapshot
	err := row.Scan(&snap.SessionID, &snap.ClientID, &snap.Phase, &snap.ProfileJSON, &snap.EligibleProductsJSON, &snap.LastProcessedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session snapshot: %w", err)
	}
	return &snap, nil
}

// scanEligibleRows scans eligible-product records from sql.Rows.
func scanEligibleRows(rows *sql.Rows) ([]models.EligibleProductRecord, error) {
	defer rows.Close()
	var records []models.EligibleProductRecord
	for rows.Next() {
		var rec models.EligibleProductRecord
		var reasonsJSON string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.ClientID, &rec.ProductID, &rec.Score, &rec.EstimatedGain, &reasonsJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan eligible product row: %w", err)
		}
		if err := json.Unmarshal([]byte(reasonsJSON), &rec.Reasons); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reasons: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate eligible product rows: %w", err)
	}
	return records, nil
}

// scanProductRows scans catalog entries from sql.Rows.
func scanProductRows(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()
	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.MinRate, &p.MaxRate, &p.MinAmount, &p.MaxAmount, &p.MinDurationMonths, &p.MaxDurationMonths, &p.Evaluator); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}
	return products, nil
}
