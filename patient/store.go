package patient

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Profile is the clinical summary the generator grounds answers on.
type Profile struct {
	PatientID   string            `json:"patient_id"`
	Name        string            `json:"name"`
	CKDStage    int               `json:"ckd_stage"`
	EGFR        float64           `json:"egfr"`
	LabValues   map[string]string `json:"lab_values,omitempty"`
	Medications []string          `json:"medications,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Store provides patient context for generation and a monotonically changing
// version token per patient. Any profile update changes the token, which in
// turn changes every cache key derived from it.
type Store interface {
	Context(patientID string) string
	DataVersion(patientID string) string
	Update(profile Profile)
}

// MemoryStore is the in-process Store used by default.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	versions map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]Profile),
		versions: make(map[string]int64),
	}
}

// Context renders the stored profile as a plain-text clinical summary.
// Unknown patients yield an empty summary rather than an error.
func (s *MemoryStore) Context(patientID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[patientID]
	if !ok {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CKD stage %d, eGFR %.1f", p.CKDStage, p.EGFR)
	if len(p.LabValues) > 0 {
		sb.WriteString("\nLabs:")
		for _, name := range sortedKeys(p.LabValues) {
			fmt.Fprintf(&sb, " %s=%s", name, p.LabValues[name])
		}
	}
	if len(p.Medications) > 0 {
		fmt.Fprintf(&sb, "\nMedications: %s", strings.Join(p.Medications, ", "))
	}
	if p.Notes != "" {
		fmt.Fprintf(&sb, "\nNotes: %s", p.Notes)
	}
	return sb.String()
}

// DataVersion returns the patient's current version token. Patients with no
// stored profile share the zero token.
func (s *MemoryStore) DataVersion(patientID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("v%d", s.versions[patientID])
}

// Update replaces the profile and bumps the version token.
func (s *MemoryStore) Update(profile Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile.UpdatedAt = time.Now()
	s.profiles[profile.PatientID] = profile
	s.versions[profile.PatientID]++
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
