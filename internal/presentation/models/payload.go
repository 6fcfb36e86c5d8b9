package models

import "encoding/json"

// DCCVersion is the EU Digital COVID Certificate schema version produced.
const DCCVersion = "1.3.0"

// DCCPayload is the EU DCC health certificate claim (hcert) for a vaccination.
type DCCPayload struct {
	Version      string           `json:"ver"`
	Name         DCCName          `json:"nam"`
	DOB          string           `json:"dob"`
	Vaccinations []DCCVaccination `json:"v"`
}

type DCCName struct {
	FamilyName         string `json:"fn,omitempty"`
	FamilyNameStandard string `json:"fnt"`
	GivenName          string `json:"gn,omitempty"`
	GivenNameStandard  string `json:"gnt,omitempty"`
}

type DCCVaccination struct {
	Target        string `json:"tg"`
	Prophylaxis   string `json:"vp"`
	Product       string `json:"mp"`
	Manufacturer  string `json:"ma"`
	DoseNumber    int    `json:"dn"`
	TotalDoses    int    `json:"sd"`
	Date          string `json:"dt"`
	Country       string `json:"co"`
	Issuer        string `json:"is"`
	CertificateID string `json:"ci"`
}

// DCCSignRequest is everything the DCC signer needs to build, sign and pack a CWT.
type DCCSignRequest struct {
	Payload       DCCPayload `json:"payload"`
	ExpiryMonths  int        `json:"expiryMonths"`
	CountryCode   string     `json:"countryCode"`
	PublicKeyP8   string     `json:"publicKeyP8"`
	PrivateKeyPEM string     `json:"privateKeyPem"`
}

// FHIRMeta is the issuing metadata handed to the FHIR converter.
type FHIRMeta struct {
	DiseaseCode           string `json:"diseaseCode"`
	PublicHealthAuthority string `json:"publicHealthAuthority"`
}

// SMART Health Card verifiable credential types.
var SHCTypes = []string{
	"https://smarthealth.cards#health-card",
	"https://smarthealth.cards#immunization",
	"https://smarthealth.cards#covid19",
}

// SHCFHIRVersion is the FHIR release SMART Health Card bundles conform to.
const SHCFHIRVersion = "4.0.1"

// SHCClaims is the JWS payload of a SMART Health Card.
type SHCClaims struct {
	Issuer    string        `json:"iss"`
	NotBefore int64         `json:"nbf"`
	Expires   int64         `json:"exp,omitempty"`
	VC        SHCCredential `json:"vc"`
}

type SHCCredential struct {
	Type              []string   `json:"type"`
	CredentialSubject SHCSubject `json:"credentialSubject"`
}

type SHCSubject struct {
	FHIRVersion string          `json:"fhirVersion"`
	FHIRBundle  json.RawMessage `json:"fhirBundle"`
}
