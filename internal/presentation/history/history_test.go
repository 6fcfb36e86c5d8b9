package history

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"certificate-api/internal/presentation/models"
	"certificate-api/pkg/testutil"
)

type HistorySuite struct {
	suite.Suite
}

func TestHistorySuite(t *testing.T) {
	suite.Run(t, new(HistorySuite))
}

func doses(h models.DoseHistory) []int {
	out := make([]int, 0, len(h))
	for _, d := range h {
		out = append(out, d.Dose)
	}
	return out
}

func (s *HistorySuite) TestOrdersByDoseDescending() {
	s.Run("ascending input", func() {
		h, err := Aggregate([]models.CertificateRecord{
			testutil.NewCertificateBuilder().WithDose(1, 2).Build(),
			testutil.NewCertificateBuilder().WithDose(2, 2).Build(),
			testutil.NewCertificateBuilder().WithDose(3, 2).Build(),
		})
		s.Require().NoError(err)
		s.Equal([]int{3, 2, 1}, doses(h))
	})

	s.Run("shuffled input", func() {
		h, err := Aggregate([]models.CertificateRecord{
			testutil.NewCertificateBuilder().WithDose(2, 2).Build(),
			testutil.NewCertificateBuilder().WithDose(4, 2).Build(),
			testutil.NewCertificateBuilder().WithDose(1, 2).Build(),
			testutil.NewCertificateBuilder().WithDose(3, 2).Build(),
		})
		s.Require().NoError(err)
		s.Equal([]int{4, 3, 2, 1}, doses(h))
	})
}

func (s *HistorySuite) TestLastRecordWinsPerDose() {
	h, err := Aggregate([]models.CertificateRecord{
		testutil.NewCertificateBuilder().WithDose(1, 2).WithVaccine("COVISHIELD", "OLD-BATCH", "2021-05-01").Build(),
		testutil.NewCertificateBuilder().WithDose(2, 2).Build(),
		testutil.NewCertificateBuilder().WithDose(1, 2).WithVaccine("COVISHIELD", "REISSUED", "2021-05-02").Build(),
	})
	s.Require().NoError(err)
	s.Require().Len(h, 2)
	s.Equal(1, h[1].Dose)
	s.Equal("REISSUED", h[1].Batch)
	s.Equal("2021-05-02", h[1].Date)
}

func (s *HistorySuite) TestDetailFields() {
	h, err := Aggregate([]models.CertificateRecord{
		testutil.NewCertificateBuilder().WithDose(3, 2).WithCountry("IN").Build(),
	})
	s.Require().NoError(err)
	s.Require().Len(h, 1)

	d := h[0]
	s.Equal(3, d.Dose)
	s.Equal(2, d.TotalDoses)
	s.Equal("COVISHIELD", d.Name)
	s.Equal("4121Z005", d.Batch)
	s.Equal("IN", d.VaccinatedCountry)
	s.Equal("XM9QW8, COVID-19 vaccine, non-replicating viral vector", d.VaxType)
}

func (s *HistorySuite) TestVaxType() {
	s.Equal("XM9QW8, vaccine", VaxType("XM9QW8", "vaccine"))
	s.Equal(VaxTypeNotAvailable, VaxType("", "vaccine"))
	s.Equal(VaxTypeNotAvailable, VaxType("XM9QW8", ""))
}

func (s *HistorySuite) TestDoseType() {
	s.Equal("Primary Dose 1", DoseType(models.VaccinationDetail{Dose: 1, TotalDoses: 2}))
	s.Equal("Primary Dose 2", DoseType(models.VaccinationDetail{Dose: 2, TotalDoses: 2}))
	s.Equal("Booster Dose 1", DoseType(models.VaccinationDetail{Dose: 3, TotalDoses: 2}))
	s.Equal("Booster Dose 2", DoseType(models.VaccinationDetail{Dose: 3, TotalDoses: 1}))
}

func (s *HistorySuite) TestErrors() {
	s.Run("unparseable record", func() {
		_, err := Aggregate([]models.CertificateRecord{{Certificate: "{"}})
		s.Error(err)
	})

	s.Run("record without evidence", func() {
		_, err := Aggregate([]models.CertificateRecord{{Certificate: `{"evidence":[]}`}})
		s.ErrorIs(err, models.ErrNoEvidence)
	})

	s.Run("empty input", func() {
		h, err := Aggregate(nil)
		s.NoError(err)
		s.Empty(h)
	})
}
