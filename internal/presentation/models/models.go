package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// CertificateRecord is one issued credential snapshot as returned by the registry.
// Records are treated as immutable values; selection and aggregation only derive views.
type CertificateRecord struct {
	CertificateID     string    `json:"certificateId,omitempty"`
	PreEnrollmentCode string    `json:"preEnrollmentCode,omitempty"`
	Certificate       string    `json:"certificate"`
	UpdatedAt         time.Time `json:"osUpdatedAt"`
}

// Credential is the verifiable credential serialized in CertificateRecord.Certificate.
type Credential struct {
	Context           []string          `json:"@context,omitempty"`
	Type              []string          `json:"type,omitempty"`
	ID                string            `json:"id,omitempty"`
	Issuer            string            `json:"issuer,omitempty"`
	IssuanceDate      string            `json:"issuanceDate,omitempty"`
	NonTransferable   string            `json:"nonTransferable,omitempty"`
	CredentialSubject CredentialSubject `json:"credentialSubject"`
	Evidence          []Evidence        `json:"evidence"`
}

type CredentialSubject struct {
	Type        string     `json:"type,omitempty"`
	ID          string     `json:"id"`
	RefID       string     `json:"refId"`
	Name        string     `json:"name"`
	Gender      string     `json:"gender"`
	Age         FlexString `json:"age"`
	DOB         string     `json:"dob"`
	Nationality string     `json:"nationality,omitempty"`
	Address     Address    `json:"address"`
}

type Address struct {
	StreetAddress  string     `json:"streetAddress"`
	StreetAddress2 string     `json:"streetAddress2,omitempty"`
	District       string     `json:"district"`
	City           string     `json:"city,omitempty"`
	AddressRegion  string     `json:"addressRegion,omitempty"`
	AddressCountry string     `json:"addressCountry,omitempty"`
	PostalCode     FlexString `json:"postalCode,omitempty"`
}

type Facility struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

type Verifier struct {
	Name string `json:"name"`
}

// Evidence covers both vaccination and test events; the fields used depend on
// the certificate kind.
type Evidence struct {
	ID            string   `json:"id,omitempty"`
	InfoURL       string   `json:"infoUrl,omitempty"`
	FeedbackURL   string   `json:"feedbackUrl,omitempty"`
	CertificateID string   `json:"certificateId,omitempty"`
	Type          []string `json:"type,omitempty"`
	Facility      Facility `json:"facility"`
	Verifier      Verifier `json:"verifier"`

	// vaccination
	Batch          string    `json:"batch,omitempty"`
	Vaccine        string    `json:"vaccine,omitempty"`
	Manufacturer   string    `json:"manufacturer,omitempty"`
	Date           string    `json:"date,omitempty"`
	EffectiveStart string    `json:"effectiveStart,omitempty"`
	EffectiveUntil string    `json:"effectiveUntil,omitempty"`
	Dose           FlexCount `json:"dose,omitempty"`
	TotalDoses     FlexCount `json:"totalDoses,omitempty"`
	ICD11Code      string    `json:"icd11Code,omitempty"`
	Prophylaxis    string    `json:"prophylaxis,omitempty"`

	// test
	Disease                   string `json:"disease,omitempty"`
	TestType                  string `json:"testType,omitempty"`
	TestName                  string `json:"testName,omitempty"`
	SampleOrigin              string `json:"sampleOrigin,omitempty"`
	SampleCollectionTimestamp string `json:"sampleCollectionTimestamp,omitempty"`
	ResultTimestamp           string `json:"resultTimestamp,omitempty"`
	Result                    string `json:"result,omitempty"`
}

// ErrNoEvidence is returned when a credential carries no evidence entry.
var ErrNoEvidence = errors.New("credential has no evidence")

// ParseCredential decodes a serialized credential into a fresh value.
func ParseCredential(raw string) (*Credential, error) {
	var c Credential
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("decode credential: %w", err)
	}
	if len(c.Evidence) == 0 {
		return nil, ErrNoEvidence
	}
	return &c, nil
}

// PrimaryEvidence returns the first evidence entry, which is the one a
// certificate is issued for.
func (c *Credential) PrimaryEvidence() Evidence {
	return c.Evidence[0]
}

// FlexString accepts both JSON strings and numbers.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// FlexCount is a dose counter that accepts JSON numbers and numeric strings.
type FlexCount int

func (c *FlexCount) UnmarshalJSON(data []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*c = 0
		return nil
	}
	n, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return fmt.Errorf("invalid dose count %q: %w", s, err)
	}
	*c = FlexCount(n)
	return nil
}

func (c FlexCount) Int() int { return int(c) }
