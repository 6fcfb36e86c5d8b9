package registry

import (
	"context"
	"database/sql"
	"fmt"

	"certificate-api/internal/presentation/models"
)

// PostgresRegistry reads certificate records straight from the registry
// tables. It never writes.
type PostgresRegistry struct {
	db *sql.DB
}

func NewPostgresRegistry(db *sql.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

const vaccinationColumns = `certificate_id, pre_enrollment_code, certificate, updated_at`

// Rows come back oldest first so a re-issued dose is read after the record
// it replaces.

func (r *PostgresRegistry) GetCertificate(ctx context.Context, mobile, certificateID string) ([]models.CertificateRecord, error) {
	query := `
		SELECT ` + vaccinationColumns + `
		FROM vaccination_certificates
		WHERE mobile = $1 AND certificate_id = $2
		ORDER BY updated_at, id
	`
	return r.query(ctx, "get certificate", query, mobile, certificateID)
}

func (r *PostgresRegistry) GetCertificateByPreEnrollmentCode(ctx context.Context, code string) ([]models.CertificateRecord, error) {
	query := `
		SELECT ` + vaccinationColumns + `
		FROM vaccination_certificates
		WHERE pre_enrollment_code = $1
		ORDER BY updated_at, id
	`
	return r.query(ctx, "get certificate by pre-enrollment code", query, code)
}

func (r *PostgresRegistry) GetTestCertificateByPreEnrollmentCode(ctx context.Context, code string) ([]models.CertificateRecord, error) {
	query := `
		SELECT ` + vaccinationColumns + `
		FROM test_certificates
		WHERE pre_enrollment_code = $1
		ORDER BY updated_at, id
	`
	return r.query(ctx, "get test certificate by pre-enrollment code", query, code)
}

func (r *PostgresRegistry) query(ctx context.Context, op, query string, args ...any) ([]models.CertificateRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	defer rows.Close()

	var records []models.CertificateRecord
	for rows.Next() {
		var record models.CertificateRecord
		if err := rows.Scan(&record.CertificateID, &record.PreEnrollmentCode, &record.Certificate, &record.UpdatedAt); err != nil {
			return nil, &Error{Op: op, Err: fmt.Errorf("scan: %w", err)}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return records, nil
}
