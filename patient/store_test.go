package patient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_UnknownPatient(t *testing.T) {
	s := NewMemoryStore()
	assert.Empty(t, s.Context("P-404"))
	assert.Equal(t, "v0", s.DataVersion("P-404"))
}

func TestMemoryStore_ContextRendersProfile(t *testing.T) {
	s := NewMemoryStore()
	s.Update(Profile{
		PatientID:   "P-1",
		CKDStage:    4,
		EGFR:        22.4,
		LabValues:   map[string]string{"potassium": "5.1", "creatinine": "3.2"},
		Medications: []string{"losartan", "furosemide"},
	})

	ctx := s.Context("P-1")
	assert.Contains(t, ctx, "CKD stage 4")
	assert.Contains(t, ctx, "eGFR 22.4")
	assert.Contains(t, ctx, "creatinine=3.2 potassium=5.1")
	assert.Contains(t, ctx, "losartan, furosemide")
}

func TestMemoryStore_UpdateBumpsVersion(t *testing.T) {
	s := NewMemoryStore()
	s.Update(Profile{PatientID: "P-1", CKDStage: 3})
	v1 := s.DataVersion("P-1")
	s.Update(Profile{PatientID: "P-1", CKDStage: 4})
	v2 := s.DataVersion("P-1")

	assert.NotEqual(t, v1, v2)
	assert.Equal(t, "v0", s.DataVersion("P-2"), "other patients keep their version")
}
