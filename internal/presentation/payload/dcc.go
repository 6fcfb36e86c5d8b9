package payload

import (
	"strings"
	"unicode"

	"certificate-api/internal/presentation/models"
)

// DCC value set codes.
const (
	dccTargetCOVID19 = "840539006"
	dccVaccineCOVID  = "J07BX03"
	dccVaccineMRNA   = "1119349007"
	dccVaccineVector = "1119305005"
)

type dccProduct struct {
	match        string
	prophylaxis  string
	product      string
	manufacturer string
}

// dccProducts maps vaccine names, matched case-insensitively by substring, to
// DCC value set entries. The first match wins.
var dccProducts = []dccProduct{
	{"covishield", dccVaccineVector, "Covishield", "ORG-100001981"},
	{"covaxin", dccVaccineCOVID, "Covaxin", "Bharat-Biotech"},
	{"sputnik", dccVaccineVector, "Sputnik-V", "ORG-100023050"},
	{"astrazeneca", dccVaccineVector, "EU/1/21/1529", "ORG-100001699"},
	{"vaxzevria", dccVaccineVector, "EU/1/21/1529", "ORG-100001699"},
	{"pfizer", dccVaccineMRNA, "EU/1/20/1528", "ORG-100030215"},
	{"comirnaty", dccVaccineMRNA, "EU/1/20/1528", "ORG-100030215"},
	{"moderna", dccVaccineMRNA, "EU/1/20/1507", "ORG-100031184"},
	{"spikevax", dccVaccineMRNA, "EU/1/20/1507", "ORG-100031184"},
	{"janssen", dccVaccineVector, "EU/1/20/1525", "ORG-100001417"},
}

func lookupProduct(e models.Evidence) dccProduct {
	name := strings.ToLower(e.Vaccine)
	for _, p := range dccProducts {
		if strings.Contains(name, p.match) {
			return p
		}
	}
	return dccProduct{prophylaxis: dccVaccineCOVID, product: e.Vaccine, manufacturer: e.Manufacturer}
}

// DCCPayload maps a vaccination credential onto the DCC hcert claim.
func (b *Builder) DCCPayload(c *models.Credential) models.DCCPayload {
	e := c.PrimaryEvidence()
	p := lookupProduct(e)
	country := e.Facility.Address.AddressCountry

	certificateID := e.CertificateID
	if certificateID == "" {
		certificateID = c.CredentialSubject.RefID
	}

	return models.DCCPayload{
		Version: models.DCCVersion,
		Name:    dccName(c.CredentialSubject.Name),
		DOB:     c.CredentialSubject.DOB,
		Vaccinations: []models.DCCVaccination{{
			Target:        dccTargetCOVID19,
			Prophylaxis:   p.prophylaxis,
			Product:       p.product,
			Manufacturer:  p.manufacturer,
			DoseNumber:    e.Dose.Int(),
			TotalDoses:    e.TotalDoses.Int(),
			Date:          b.dates.DateISO(e.Date),
			Country:       country,
			Issuer:        b.cfg.DCC.PublicHealthAuthority,
			CertificateID: "URN:UVCI:01:" + country + ":" + certificateID,
		}},
	}
}

// dccName splits a full name into given names and a family name (the last
// word) and adds their ICAO 9303 machine-readable forms.
func dccName(full string) models.DCCName {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return models.DCCName{}
	}
	family := parts[len(parts)-1]
	given := strings.Join(parts[:len(parts)-1], " ")
	return models.DCCName{
		FamilyName:         family,
		FamilyNameStandard: icaoTransliterate(family),
		GivenName:          given,
		GivenNameStandard:  icaoTransliterate(given),
	}
}

// icaoTransliterate upper-cases Latin letters, turns separators into '<' and
// drops everything else. Results are capped at 80 characters.
func icaoTransliterate(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(s) {
		switch {
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '\'', r == '.':
			sb.WriteByte('<')
		}
		if sb.Len() == 80 {
			break
		}
	}
	return sb.String()
}
