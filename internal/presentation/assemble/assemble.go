// Package assemble turns certificate records into the display-ready data the
// certificate templates are rendered from.
package assemble

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"certificate-api/internal/presentation/format"
	"certificate-api/internal/presentation/history"
	"certificate-api/internal/presentation/models"
)

// ErrNoRecords is returned when there is nothing to select from.
var ErrNoRecords = errors.New("no certificate records")

// Assembler builds template data. It never modifies the records it is given.
type Assembler struct {
	dates format.Dates
}

// New returns an assembler rendering dates with the given formatter.
func New(dates format.Dates) *Assembler {
	return &Assembler{dates: dates}
}

// LatestRecord returns the most recently updated record. Ties go to the record
// that appears first.
func LatestRecord(records []models.CertificateRecord) (models.CertificateRecord, error) {
	if len(records) == 0 {
		return models.CertificateRecord{}, ErrNoRecords
	}
	return lo.MaxBy(records, func(a, b models.CertificateRecord) bool {
		return a.UpdatedAt.After(b.UpdatedAt)
	}), nil
}

// SelectTestRecord picks the test certificate to present: records are sorted
// by update time descending, the order is reversed and the last element is
// taken. Equal timestamps keep their input order through the sort.
func SelectTestRecord(records []models.CertificateRecord) (models.CertificateRecord, error) {
	if len(records) == 0 {
		return models.CertificateRecord{}, ErrNoRecords
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b models.CertificateRecord) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	lo.Reverse(sorted)
	return sorted[len(sorted)-1], nil
}

// Vaccine builds the vaccination template data from the latest record. Dose
// flags come from that record alone; vaxEvents come from h.
func (a *Assembler) Vaccine(records []models.CertificateRecord, qrCode string, h models.DoseHistory) (models.VaccinePresentation, error) {
	current, err := LatestRecord(records)
	if err != nil {
		return models.VaccinePresentation{}, err
	}
	credential, err := models.ParseCredential(current.Certificate)
	if err != nil {
		return models.VaccinePresentation{}, fmt.Errorf("parse latest certificate: %w", err)
	}

	subject := credential.CredentialSubject
	evidence := credential.PrimaryEvidence()
	dose, total := evidence.Dose.Int(), evidence.TotalDoses.Int()

	return models.VaccinePresentation{
		Name:                 subject.Name,
		Age:                  subject.Age.String(),
		Gender:               subject.Gender,
		Identity:             format.FormatID(subject.ID),
		BeneficiaryID:        subject.RefID,
		RecipientAddress:     format.RecipientAddress(subject.Address),
		Vaccine:              evidence.Vaccine,
		VaccinationDate:      a.dates.Date(evidence.Date) + " (Batch no. " + evidence.Batch + " )",
		VaccineValidDays:     fmt.Sprintf("after %d days", format.ValidDays(evidence.EffectiveStart, evidence.EffectiveUntil)),
		VaccinatedBy:         evidence.Verifier.Name,
		VaccinatedAt:         format.FacilityAddress(evidence.Facility),
		QRCode:               qrCode,
		Dose:                 dose,
		TotalDoses:           total,
		IsFinalDose:          dose == total,
		IsBoosterDose:        dose > total,
		IsBoosterOrFinalDose: dose >= total,
		CurrentDoseText:      "(" + format.Ordinal(dose) + " Dose)",
		VaxEvents:            a.vaxEvents(h),
	}, nil
}

func (a *Assembler) vaxEvents(h models.DoseHistory) []models.VaxEvent {
	return lo.Map(h, func(d models.VaccinationDetail, _ int) models.VaxEvent {
		return models.VaxEvent{
			DoseType:     history.DoseType(d),
			VaxName:      d.Name,
			VaxBatch:     d.Batch,
			DateOfVax:    a.dates.Date(d.Date),
			CountryOfVax: d.VaccinatedCountry,
			Validity:     d.Validity,
			VaxType:      d.VaxType,
		}
	})
}

// Test builds the test certificate template data from one record.
func (a *Assembler) Test(record models.CertificateRecord, qrCode string) (models.TestPresentation, error) {
	credential, err := models.ParseCredential(record.Certificate)
	if err != nil {
		return models.TestPresentation{}, fmt.Errorf("parse test certificate: %w", err)
	}

	subject := credential.CredentialSubject
	evidence := credential.PrimaryEvidence()

	return models.TestPresentation{
		Name:             subject.Name,
		DOB:              a.dates.Date(subject.DOB),
		Gender:           subject.Gender,
		Identity:         format.FormatID(subject.ID),
		RecipientAddress: format.RecipientAddress(subject.Address),
		Disease:          evidence.Disease,
		TestType:         evidence.TestType,
		SampleDate:       a.dates.DateTime(evidence.SampleCollectionTimestamp),
		ResultDate:       a.dates.DateTime(evidence.ResultTimestamp),
		Result:           evidence.Result,
		QRCode:           qrCode,
		Country:          evidence.Facility.Address.AddressCountry,
	}, nil
}
