package models

// Content types of produced artifacts.
const (
	ContentTypePNG  = "image/png"
	ContentTypePDF  = "application/pdf"
	ContentTypeJSON = "application/json"
)

// TemplateID selects the document template a renderer uses.
type TemplateID string

const (
	TemplateVaccine TemplateID = "vaccine"
	TemplateTest    TemplateID = "test"
)

// VaccinationDetail is the per-dose view derived from one record during
// dose history aggregation.
type VaccinationDetail struct {
	Dose              int
	TotalDoses        int
	Date              string
	Name              string
	VaxType           string
	Batch             string
	VaccinatedCountry string
	Validity          string
}

// DoseHistory holds one detail per dose number, highest dose first.
type DoseHistory []VaccinationDetail

// VaxEvent is one row of the dose history table on a vaccination certificate.
type VaxEvent struct {
	DoseType     string `json:"doseType"`
	VaxName      string `json:"vaxName"`
	VaxBatch     string `json:"vaxBatch"`
	DateOfVax    string `json:"dateOfVax"`
	CountryOfVax string `json:"countryOfVax"`
	Validity     string `json:"validity"`
	VaxType      string `json:"vaxType"`
}

// VaccinePresentation is the display-ready data for the vaccination template.
type VaccinePresentation struct {
	Name                 string     `json:"name"`
	Age                  string     `json:"age"`
	Gender               string     `json:"gender"`
	Identity             string     `json:"identity"`
	BeneficiaryID        string     `json:"beneficiaryId"`
	RecipientAddress     string     `json:"recipientAddress"`
	Vaccine              string     `json:"vaccine"`
	VaccinationDate      string     `json:"vaccinationDate"`
	VaccineValidDays     string     `json:"vaccineValidDays"`
	VaccinatedBy         string     `json:"vaccinatedBy"`
	VaccinatedAt         string     `json:"vaccinatedAt"`
	QRCode               string     `json:"qrCode"`
	Dose                 int        `json:"dose"`
	TotalDoses           int        `json:"totalDoses"`
	IsFinalDose          bool       `json:"isFinalDose"`
	IsBoosterDose        bool       `json:"isBoosterDose"`
	IsBoosterOrFinalDose bool       `json:"isBoosterOrFinalDose"`
	CurrentDoseText      string     `json:"currentDoseText"`
	VaxEvents            []VaxEvent `json:"vaxEvents"`
}

// TestPresentation is the display-ready data for the test template.
type TestPresentation struct {
	Name             string `json:"name"`
	DOB              string `json:"dob"`
	Gender           string `json:"gender"`
	Identity         string `json:"identity"`
	RecipientAddress string `json:"recipientAddress"`
	Disease          string `json:"disease"`
	TestType         string `json:"testType"`
	SampleDate       string `json:"sampleDate"`
	ResultDate       string `json:"resultDate"`
	Result           string `json:"result"`
	QRCode           string `json:"qrCode"`
	Country          string `json:"country"`
}
