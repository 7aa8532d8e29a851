package utils

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"healthlake-pipeline/internal/pkg/exceptions"
)

// ParseS3URI splits an s3://bucket/key URI or an S3 HTTPS URL into bucket and key.
// Transcription services report result locations in either form.
func ParseS3URI(uri string) (bucket, key string, err error) {
	switch {
	case strings.HasPrefix(uri, "s3://"):
		rest := strings.TrimPrefix(uri, "s3://")
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", "", exceptions.ErrInvalidS3URI(fmt.Errorf("missing bucket or key"), uri)
		}
		return parts[0], parts[1], nil

	case strings.HasPrefix(uri, "https://"):
		parsed, parseErr := url.Parse(uri)
		if parseErr != nil {
			return "", "", exceptions.ErrInvalidS3URI(parseErr, uri)
		}
		host := parsed.Host
		objectPath := strings.TrimPrefix(parsed.Path, "/")

		// Virtual-hosted style: bucket.s3.region.amazonaws.com/key
		if idx := strings.Index(host, ".s3."); idx > 0 {
			if objectPath == "" {
				return "", "", exceptions.ErrInvalidS3URI(fmt.Errorf("missing key"), uri)
			}
			return host[:idx], objectPath, nil
		}

		// Path style: s3.region.amazonaws.com/bucket/key
		parts := strings.SplitN(objectPath, "/", 2)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", "", exceptions.ErrInvalidS3URI(fmt.Errorf("missing bucket or key"), uri)
		}
		return parts[0], parts[1], nil

	default:
		return "", "", exceptions.ErrInvalidS3URI(fmt.Errorf("unsupported scheme"), uri)
	}
}

// FormatS3URI builds an s3://bucket/key URI.
func FormatS3URI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}

// ObjectBaseName returns the final path segment of an object key without its extension.
func ObjectBaseName(objectKey string) string {
	base := path.Base(objectKey)
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// ObjectExtension returns the lowercased extension of an object key without the dot.
func ObjectExtension(objectKey string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(objectKey), "."))
}
