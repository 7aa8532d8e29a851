package utils

import "time"

// FhirDateTime formats a timestamp as a FHIR instant in UTC (RFC3339 with Z).
func FhirDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// FhirDateTimeNow returns the current time as a FHIR instant.
func FhirDateTimeNow() string {
	return FhirDateTime(time.Now())
}

// ApproximateBirthDate derives a January 1st birth date from an age in years.
func ApproximateBirthDate(age int, now time.Time) string {
	birthYear := now.Year() - age
	return time.Date(birthYear, time.January, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
