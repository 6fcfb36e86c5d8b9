// Package history reduces the certificate records of one subject to a single
// dose history, one entry per dose number, highest dose first.
package history

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"certificate-api/internal/presentation/models"
)

// VaxTypeNotAvailable is used when a record lacks either classification code.
const VaxTypeNotAvailable = "Not Available"

// Aggregate parses every record and keeps one detail per dose number. A later
// record in input order replaces an earlier one for the same dose. The result
// is ordered by dose number, descending.
func Aggregate(records []models.CertificateRecord) (models.DoseHistory, error) {
	byDose := make(map[int]models.VaccinationDetail, len(records))
	for i, record := range records {
		credential, err := models.ParseCredential(record.Certificate)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		detail := Detail(credential.PrimaryEvidence())
		byDose[detail.Dose] = detail
	}

	doses := slices.SortedFunc(maps.Keys(byDose), func(a, b int) int {
		return cmp.Compare(b, a)
	})
	out := make(models.DoseHistory, 0, len(doses))
	for _, dose := range doses {
		out = append(out, byDose[dose])
	}
	return out, nil
}

// Detail derives the per-dose view of a vaccination evidence entry.
func Detail(e models.Evidence) models.VaccinationDetail {
	return models.VaccinationDetail{
		Dose:              e.Dose.Int(),
		TotalDoses:        e.TotalDoses.Int(),
		Date:              e.Date,
		Name:              e.Vaccine,
		VaxType:           VaxType(e.ICD11Code, e.Prophylaxis),
		Batch:             e.Batch,
		VaccinatedCountry: e.Facility.Address.AddressCountry,
	}
}

// VaxType renders "{icd11Code}, {prophylaxis}" when both are present.
func VaxType(icd11Code, prophylaxis string) string {
	if icd11Code == "" || prophylaxis == "" {
		return VaxTypeNotAvailable
	}
	return icd11Code + ", " + prophylaxis
}

// DoseType labels a detail as a primary or booster dose. Booster doses are
// numbered from one past the primary course.
func DoseType(d models.VaccinationDetail) string {
	if d.Dose <= d.TotalDoses {
		return "Primary Dose " + strconv.Itoa(d.Dose)
	}
	return "Booster Dose " + strconv.Itoa(d.Dose-d.TotalDoses)
}
