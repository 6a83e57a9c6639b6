package config

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
)

var bucketName = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*[a-z0-9]$`)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	// Validate server configuration
	if c.Server.Addr == "" {
		return errors.New("server address cannot be empty")
	}
	if _, err := net.ResolveTCPAddr("tcp", c.Server.Addr); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server max_body_bytes must be positive")
	}

	if c.Auth.Enabled && c.Auth.Token == "" {
		return errors.New("auth token cannot be empty when auth is enabled")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %q", c.Log.Format)
	}

	if c.Audit.Enabled && c.Audit.Path == "" {
		return errors.New("audit path cannot be empty when audit is enabled")
	}

	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("invalid extraction policy: %w", err)
	}

	w := c.Workers
	if w.Files.Enabled {
		if w.Files.BasePath == "" {
			return errors.New("files base path cannot be empty when files is enabled")
		}
		if w.Files.MaxBytes <= 0 {
			return errors.New("files max_bytes must be positive")
		}
	}

	if w.Batch.Enabled {
		if w.Batch.MaxParallel <= 0 {
			return errors.New("batch max_parallel must be positive")
		}
		if w.Batch.MaxDocuments <= 0 {
			return errors.New("batch max_documents must be positive")
		}
		if w.Batch.Timeout < 0 {
			return errors.New("batch timeout cannot be negative")
		}
	}

	if w.Web.Enabled && w.Web.MaxBytes <= 0 {
		return errors.New("web max_bytes must be positive")
	}

	// Validate MinIO configuration
	if w.MinIO.Enabled {
		if w.MinIO.Endpoint == "" {
			return errors.New("minio endpoint cannot be empty when minio is enabled")
		}
		if w.MinIO.AccessKey == "" {
			return errors.New("minio access key cannot be empty when minio is enabled")
		}
		if w.MinIO.SecretKey == "" {
			return errors.New("minio secret key cannot be empty when minio is enabled")
		}
		if w.MinIO.DefaultBucket == "" {
			return errors.New("minio default bucket cannot be empty when minio is enabled")
		}
		if !isValidBucketName(w.MinIO.DefaultBucket) {
			return fmt.Errorf("invalid minio default bucket name: %s", w.MinIO.DefaultBucket)
		}
		for _, b := range w.MinIO.AllowedBuckets {
			if !isValidBucketName(b) {
				return fmt.Errorf("invalid minio allowed bucket name: %s", b)
			}
		}
	}

	return nil
}

// isValidBucketName checks if a bucket name is valid according to MinIO/S3 rules
func isValidBucketName(name string) bool {
	if name == "*" {
		return true
	}
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return bucketName.MatchString(name)
}
