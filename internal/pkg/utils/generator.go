package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// nlpResourceNamespace scopes deterministic resource ids to this pipeline.
var nlpResourceNamespace = uuid.MustParse("6fb9f8a2-6a1d-4e62-9f6e-0f4b8a2c7d91")

// GenerateImportJobName builds a unique, human-scannable import job name.
func GenerateImportJobName(resourceType string, now time.Time) string {
	return fmt.Sprintf("import-%s-%s", resourceType, now.UTC().Format("20060102-150405"))
}

// GenerateTranscriptionJobName builds a unique medical transcription job name.
func GenerateTranscriptionJobName(now time.Time) string {
	return fmt.Sprintf("medical-transcription-%s-%d", uuid.NewString()[:8], now.Unix())
}

// GenerateProcessingID returns a fresh processing id for an NLP run.
func GenerateProcessingID() string {
	return uuid.NewString()
}

// DeterministicResourceID derives a stable id for a resource extracted from a
// source document. Re-processing the same document yields the same id, so
// repeated uploads upsert instead of duplicating resources.
func DeterministicResourceID(sourceKey, category string, beginOffset, endOffset int) string {
	name := fmt.Sprintf("%s/%s/%d-%d", sourceKey, category, beginOffset, endOffset)
	return uuid.NewSHA1(nlpResourceNamespace, []byte(name)).String()
}
