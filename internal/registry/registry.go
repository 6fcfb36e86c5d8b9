// Package registry resolves stored certificate records from the credential
// registry, over its HTTP search API or directly from its Postgres tables.
// Both adapters are read only.
package registry

import (
	"fmt"
)

// Entity schemas the registry stores certificates under.
const (
	SchemaVaccination = "VaccinationCertificate"
	SchemaTest        = "TestCertificate"
)

// Error is a registry failure with its retry classification.
type Error struct {
	Op        string
	Status    int
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("registry %s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("registry %s: status %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("registry %s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// retryableStatus reports whether a registry answer is worth another attempt.
func retryableStatus(status int) bool {
	return status == 429 || status >= 500
}
