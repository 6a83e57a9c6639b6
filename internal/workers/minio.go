package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/ericksa/lexanalyzer/internal/config"
	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultMaxKeys = 1000

// StoredObject is a fetched object body with its metadata.
type StoredObject struct {
	Data        []byte
	ContentType string
	Size        int64
}

// ObjectSummary describes one listed object.
type ObjectSummary struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag"`
	LastModified time.Time `json:"last_modified"`
}

// ObjectStore is the subset of S3 operations the worker needs.
type ObjectStore interface {
	Get(ctx context.Context, bucket, name string, maxBytes int64) (*StoredObject, error)
	List(ctx context.Context, bucket, prefix string, recursive bool, maxKeys int) ([]ObjectSummary, error)
}

// minioStore implements ObjectStore with minio-go.
type minioStore struct {
	client *minio.Client
}

func (s *minioStore) Get(ctx context.Context, bucket, name string, maxBytes int64) (*StoredObject, error) {
	object, err := s.client.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer object.Close()

	info, err := object.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	if maxBytes > 0 && info.Size > maxBytes {
		return nil, invalidf("object %s/%s exceeds %d bytes", bucket, name, maxBytes)
	}
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return &StoredObject{Data: data, ContentType: info.ContentType, Size: info.Size}, nil
}

func (s *minioStore) List(ctx context.Context, bucket, prefix string, recursive bool, maxKeys int) ([]ObjectSummary, error) {
	// Cancelling stops the listing goroutine when we return early.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := []ObjectSummary{}
	for object := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: recursive,
		MaxKeys:   maxKeys,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		objects = append(objects, ObjectSummary{
			Key:          object.Key,
			Size:         object.Size,
			ETag:         object.ETag,
			LastModified: object.LastModified,
		})
		if len(objects) >= maxKeys {
			break
		}
	}
	return objects, nil
}

// MinIOWorker analyzes contracts stored in S3-compatible buckets.
type MinIOWorker struct {
	store          ObjectStore
	analyzer       *lex.Analyzer
	bucket         string
	allowedBuckets []string
	maxBytes       int64
}

func NewMinIOWorker(cfg config.MinIOConfig, a *lex.Analyzer) (*MinIOWorker, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return NewMinIOWorkerWithStore(&minioStore{client: minioClient}, cfg, a), nil
}

// NewMinIOWorkerWithStore builds a worker over any ObjectStore.
func NewMinIOWorkerWithStore(store ObjectStore, cfg config.MinIOConfig, a *lex.Analyzer) *MinIOWorker {
	return &MinIOWorker{
		store:          store,
		analyzer:       a,
		bucket:         cfg.DefaultBucket,
		allowedBuckets: cfg.AllowedBuckets,
		maxBytes:       cfg.MaxBytes,
	}
}

func (w *MinIOWorker) GetTools() []ToolDef {
	return []ToolDef{
		{Name: "analyze_object", Description: "Analyze a contract stored in a MinIO/S3 bucket"},
		{Name: "list_objects", Description: "List objects in a bucket/prefix"},
	}
}

func (w *MinIOWorker) Execute(ctx context.Context, name string, input json.RawMessage) ([]byte, error) {
	switch shortName("minio", name) {
	case "analyze_object":
		return w.analyzeObject(ctx, input)
	case "list_objects":
		return w.listObjects(ctx, input)
	default:
		return nil, unknownTool(name)
	}
}

func (w *MinIOWorker) resolveBucket(bucket string) (string, error) {
	if bucket == "" {
		bucket = w.bucket
	}
	if bucket == "" {
		return "", invalidf("bucket is required")
	}
	if len(w.allowedBuckets) > 0 && !slices.Contains(w.allowedBuckets, "*") && !slices.Contains(w.allowedBuckets, bucket) {
		return "", invalidf("bucket %q is not allowed", bucket)
	}
	return bucket, nil
}

func (w *MinIOWorker) analyzeObject(ctx context.Context, input json.RawMessage) ([]byte, error) {
	var req struct {
		Bucket     string `json:"bucket,omitempty"`
		ObjectName string `json:"object_name"`
	}
	if err := decode(input, &req); err != nil {
		return nil, err
	}
	if req.ObjectName == "" {
		return nil, invalidf("object_name is required")
	}
	bucket, err := w.resolveBucket(req.Bucket)
	if err != nil {
		return nil, err
	}

	obj, err := w.store.Get(ctx, bucket, req.ObjectName, w.maxBytes)
	if err != nil {
		return nil, err
	}
	text, err := documentText(obj.Data, obj.ContentType, req.ObjectName)
	if err != nil {
		return nil, err
	}
	return analyzeDocument(w.analyzer, bucket+"/"+req.ObjectName, text)
}

// List objects in bucket/prefix
func (w *MinIOWorker) listObjects(ctx context.Context, input json.RawMessage) ([]byte, error) {
	var req struct {
		Bucket    string `json:"bucket,omitempty"`
		Prefix    string `json:"prefix,omitempty"`
		Recursive bool   `json:"recursive,omitempty"`
		MaxKeys   int    `json:"max_keys,omitempty"`
	}
	if err := decode(input, &req); err != nil {
		return nil, err
	}
	bucket, err := w.resolveBucket(req.Bucket)
	if err != nil {
		return nil, err
	}
	if req.MaxKeys <= 0 {
		req.MaxKeys = defaultMaxKeys
	}

	objects, err := w.store.List(ctx, bucket, req.Prefix, req.Recursive, req.MaxKeys)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]interface{}{
		"bucket":  bucket,
		"prefix":  req.Prefix,
		"objects": objects,
		"count":   len(objects),
	})
}
