package testutil

import (
	"encoding/json"
	"time"

	"certificate-api/internal/presentation/models"
)

// TestCodes provides fixed identifiers for tests.
var TestCodes = struct {
	PreEnrollment string
	CertificateID string
	Phone         string
}{
	PreEnrollment: "9876543210",
	CertificateID: "425581620",
	Phone:         "9800000001",
}

// CertificateBuilder provides a fluent interface for building vaccination
// certificate records.
type CertificateBuilder struct {
	credential models.Credential
	updatedAt  time.Time
	id         string
}

// NewCertificateBuilder creates a builder for a first-dose COVISHIELD certificate.
func NewCertificateBuilder() *CertificateBuilder {
	return &CertificateBuilder{
		id:        TestCodes.CertificateID,
		updatedAt: time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC),
		credential: models.Credential{
			Context: []string{"https://www.w3.org/2018/credentials/v1", "https://cowin.gov.in/credentials/vaccination/v1"},
			Type:    []string{"VerifiableCredential", "ProofOfVaccinationCredential"},
			Issuer:  "https://cowin.gov.in/",
			CredentialSubject: models.CredentialSubject{
				Type:        "Person",
				ID:          "did:in.gov.uidai.aadhaar:123456781234",
				RefID:       "12346",
				Name:        "Asha Rao",
				Gender:      "Female",
				Age:         "34",
				DOB:         "1987-02-11",
				Nationality: "Indian",
				Address: models.Address{
					StreetAddress: "12 MG Road",
					District:      "Bengaluru Urban",
					AddressRegion: "Karnataka",
				},
			},
			Evidence: []models.Evidence{{
				ID:             "https://cowin.gov.in/vaccine/" + TestCodes.CertificateID,
				CertificateID:  TestCodes.CertificateID,
				Type:           []string{"Vaccination"},
				Batch:          "4121Z005",
				Vaccine:        "COVISHIELD",
				Manufacturer:   "Serum Institute of India",
				Date:           "2021-05-01T05:18:40.000Z",
				EffectiveStart: "2021-05-01",
				EffectiveUntil: "2021-06-12",
				Dose:           1,
				TotalDoses:     2,
				ICD11Code:      "XM9QW8",
				Prophylaxis:    "COVID-19 vaccine, non-replicating viral vector",
				Verifier:       models.Verifier{Name: "Dr. Meera"},
				Facility: models.Facility{
					Name: "PHC Anekal",
					Address: models.Address{
						StreetAddress:  "Anekal Main Road",
						District:       "Bengaluru Urban",
						AddressRegion:  "Karnataka",
						AddressCountry: "IN",
					},
				},
			}},
		},
	}
}

func (b *CertificateBuilder) WithCertificateID(id string) *CertificateBuilder {
	b.id = id
	b.credential.Evidence[0].CertificateID = id
	return b
}

func (b *CertificateBuilder) WithDose(dose, total int) *CertificateBuilder {
	b.credential.Evidence[0].Dose = models.FlexCount(dose)
	b.credential.Evidence[0].TotalDoses = models.FlexCount(total)
	return b
}

func (b *CertificateBuilder) WithVaccine(name, batch, date string) *CertificateBuilder {
	b.credential.Evidence[0].Vaccine = name
	b.credential.Evidence[0].Batch = batch
	b.credential.Evidence[0].Date = date
	return b
}

func (b *CertificateBuilder) WithClassification(icd11Code, prophylaxis string) *CertificateBuilder {
	b.credential.Evidence[0].ICD11Code = icd11Code
	b.credential.Evidence[0].Prophylaxis = prophylaxis
	return b
}

func (b *CertificateBuilder) WithCountry(country string) *CertificateBuilder {
	b.credential.Evidence[0].Facility.Address.AddressCountry = country
	return b
}

func (b *CertificateBuilder) WithSubjectName(name string) *CertificateBuilder {
	b.credential.CredentialSubject.Name = name
	return b
}

func (b *CertificateBuilder) WithUpdatedAt(t time.Time) *CertificateBuilder {
	b.updatedAt = t
	return b
}

// WithEvidence replaces the evidence entry, for test certificates.
func (b *CertificateBuilder) WithEvidence(e models.Evidence) *CertificateBuilder {
	b.credential.Evidence = []models.Evidence{e}
	return b
}

// Credential returns a copy of the credential being built.
func (b *CertificateBuilder) Credential() models.Credential {
	c := b.credential
	c.Evidence = append([]models.Evidence(nil), b.credential.Evidence...)
	return c
}

// Build serializes the credential into a registry record.
func (b *CertificateBuilder) Build() models.CertificateRecord {
	raw, err := json.Marshal(b.credential)
	if err != nil {
		panic(err)
	}
	return models.CertificateRecord{
		CertificateID:     b.id,
		PreEnrollmentCode: TestCodes.PreEnrollment,
		Certificate:       string(raw),
		UpdatedAt:         b.updatedAt,
	}
}

// NewTestEvidence returns a completed RT-PCR result.
func NewTestEvidence() models.Evidence {
	return models.Evidence{
		CertificateID:             "TC-1001",
		Type:                      []string{"TestDetails"},
		Disease:                   "COVID-19",
		TestType:                  "RT-PCR",
		TestName:                  "Abbott RealTime SARS-CoV-2",
		SampleOrigin:              "Nasopharyngeal",
		SampleCollectionTimestamp: "2021-05-20T04:10:00.000Z",
		ResultTimestamp:           "2021-05-21T09:45:00.000Z",
		Result:                    "Negative",
		Verifier:                  models.Verifier{Name: "Lab Officer"},
		Facility: models.Facility{
			Name: "City Diagnostics",
			Address: models.Address{
				District:       "Pune",
				AddressCountry: "IND",
			},
		},
	}
}
