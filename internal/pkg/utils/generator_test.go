package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateImportJobName(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "import-patient-20250314-092653", GenerateImportJobName("patient", now))
}

func TestDeterministicResourceID(t *testing.T) {
	t.Run("same inputs yield same id", func(t *testing.T) {
		first := DeterministicResourceID("clinical-notes/visit.txt", "Condition", 10, 24)
		second := DeterministicResourceID("clinical-notes/visit.txt", "Condition", 10, 24)
		assert.Equal(t, first, second)
	})

	t.Run("different offsets yield different ids", func(t *testing.T) {
		first := DeterministicResourceID("clinical-notes/visit.txt", "Condition", 10, 24)
		second := DeterministicResourceID("clinical-notes/visit.txt", "Condition", 30, 44)
		assert.NotEqual(t, first, second)
	})

	t.Run("different source yields different ids", func(t *testing.T) {
		first := DeterministicResourceID("clinical-notes/a.txt", "Condition", 10, 24)
		second := DeterministicResourceID("clinical-notes/b.txt", "Condition", 10, 24)
		assert.NotEqual(t, first, second)
	})
}

func TestApproximateBirthDate(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1963-01-01", ApproximateBirthDate(62, now))
}
