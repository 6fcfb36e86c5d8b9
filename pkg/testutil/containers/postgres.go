//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"certificate-api/internal/presentation/models"
	"certificate-api/migrations"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container with migrations applied.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("certificates_test"),
		postgres.WithUsername("registry"),
		postgres.WithPassword("registry_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	if err := pc.runMigrations(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// The container is shared through the Manager; Ryuk removes it when the
	// test process exits.
	return pc
}

// runMigrations executes all *.up.sql migrations from the embedded migrations.FS.
func (p *PostgresContainer) runMigrations(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if _, err := p.DB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
	}
	return nil
}

// TruncateAll clears the certificate tables between tests.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	for _, table := range []string{"vaccination_certificates", "test_certificates"} {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// InsertVaccinationCertificate stores record for the holder with the given mobile number.
func (p *PostgresContainer) InsertVaccinationCertificate(ctx context.Context, t testing.TB, mobile string, record models.CertificateRecord) {
	t.Helper()
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO vaccination_certificates (certificate_id, pre_enrollment_code, mobile, certificate, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, record.CertificateID, record.PreEnrollmentCode, mobile, record.Certificate, record.UpdatedAt)
	if err != nil {
		t.Fatalf("InsertVaccinationCertificate: %v", err)
	}
}

// InsertTestCertificate stores a test certificate record.
func (p *PostgresContainer) InsertTestCertificate(ctx context.Context, t testing.TB, record models.CertificateRecord) {
	t.Helper()
	_, err := p.DB.ExecContext(ctx, `
		INSERT INTO test_certificates (certificate_id, pre_enrollment_code, certificate, updated_at)
		VALUES ($1, $2, $3, $4)
	`, record.CertificateID, record.PreEnrollmentCode, record.Certificate, record.UpdatedAt)
	if err != nil {
		t.Fatalf("InsertTestCertificate: %v", err)
	}
}
