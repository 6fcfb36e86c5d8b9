package format

import "strings"

// DocumentKind identifies the identity document an identity URI refers to.
type DocumentKind int

const (
	DocumentUnknown DocumentKind = iota
	DocumentAadhaar
	DocumentDrivingLicense
	DocumentMNREGA
	DocumentPAN
	DocumentPassbook
	DocumentPassport
	DocumentPension
	DocumentVoterID
)

type idRule struct {
	kind    DocumentKind
	matches func(identity, number string) bool
	render  func(number string) string
}

// idRules is evaluated in order; the first match wins.
var idRules = []idRule{
	{
		kind: DocumentAadhaar,
		matches: func(identity, number string) bool {
			return strings.Contains(identity, "aadhaar") && len(number) >= 4
		},
		render: func(number string) string {
			return "Aadhaar # XXXX XXXX XXXX " + number[len(number)-4:]
		},
	},
	keyword(DocumentDrivingLicense, "Driving", "Driver’s License # "),
	keyword(DocumentMNREGA, "MNREGA", "MNREGA Job Card # "),
	keyword(DocumentPAN, "PAN", "PAN Card # "),
	keyword(DocumentPassbook, "Passbooks", "Passbook # "),
	keyword(DocumentPassport, "Passport", "Passport # "),
	keyword(DocumentPension, "Pension", "Pension Document # "),
	keyword(DocumentVoterID, "Voter", "Voter ID # "),
}

func keyword(kind DocumentKind, word, label string) idRule {
	return idRule{
		kind: kind,
		matches: func(identity, _ string) bool {
			return strings.Contains(identity, word)
		},
		render: func(number string) string {
			return label + number
		},
	}
}

// DocumentNumber returns the final colon-delimited segment of an identity URI.
func DocumentNumber(identity string) string {
	return identity[strings.LastIndex(identity, ":")+1:]
}

// ClassifyID reports which document kind an identity URI refers to.
func ClassifyID(identity string) DocumentKind {
	if rule, ok := matchRule(identity); ok {
		return rule.kind
	}
	return DocumentUnknown
}

// FormatID renders an identity URI as a labelled, masked document number.
// Unrecognised identities render as the bare document number.
func FormatID(identity string) string {
	number := DocumentNumber(identity)
	if rule, ok := matchRule(identity); ok {
		return rule.render(number)
	}
	return number
}

func matchRule(identity string) (idRule, bool) {
	number := DocumentNumber(identity)
	for _, rule := range idRules {
		if rule.matches(identity, number) {
			return rule, true
		}
	}
	return idRule{}, false
}
