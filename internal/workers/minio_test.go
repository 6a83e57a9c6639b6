package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/ericksa/lexanalyzer/internal/config"
	"github.com/ericksa/lexanalyzer/internal/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	objects map[string]map[string]StoredObject
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]map[string]StoredObject{}}
}

func (f *fakeStore) put(bucket, name, contentType, body string) {
	if f.objects[bucket] == nil {
		f.objects[bucket] = map[string]StoredObject{}
	}
	f.objects[bucket][name] = StoredObject{Data: []byte(body), ContentType: contentType, Size: int64(len(body))}
}

func (f *fakeStore) Get(_ context.Context, bucket, name string, maxBytes int64) (*StoredObject, error) {
	obj, ok := f.objects[bucket][name]
	if !ok {
		return nil, fmt.Errorf("object %s/%s not found", bucket, name)
	}
	if maxBytes > 0 && obj.Size > maxBytes {
		return nil, invalidf("object %s/%s exceeds %d bytes", bucket, name, maxBytes)
	}
	return &obj, nil
}

func (f *fakeStore) List(_ context.Context, bucket, prefix string, _ bool, maxKeys int) ([]ObjectSummary, error) {
	out := []ObjectSummary{}
	for name, obj := range f.objects[bucket] {
		if strings.HasPrefix(name, prefix) {
			out = append(out, ObjectSummary{Key: name, Size: obj.Size})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	if len(out) > maxKeys {
		out = out[:maxKeys]
	}
	return out, nil
}

func testMinIOConfig() config.MinIOConfig {
	return config.MinIOConfig{
		Enabled:        true,
		Endpoint:       "127.0.0.1:9000",
		AccessKey:      "minioadmin",
		SecretKey:      "minioadmin",
		DefaultBucket:  "contracts",
		AllowedBuckets: []string{"contracts", "archive"},
		MaxBytes:       1 << 20,
	}
}

func TestNewMinIOWorker(t *testing.T) {
	w, err := NewMinIOWorker(testMinIOConfig(), newAnalyzer())
	require.NoError(t, err)
	assert.Len(t, w.GetTools(), 2)
}

func TestMinIOAnalyzeObject(t *testing.T) {
	store := newFakeStore()
	store.put("contracts", "2024/lease.txt", "text/plain", leaseText)
	store.put("archive", "deed.html", "text/html", "<p>Deed of Sale for $9,000.00</p>")
	w := NewMinIOWorkerWithStore(store, testMinIOConfig(), newAnalyzer())

	out, err := w.Execute(context.Background(), "minio_analyze_object", args(t, map[string]string{"object_name": "2024/lease.txt"}))
	require.NoError(t, err)
	doc := decodeDocument(t, out)
	assert.Equal(t, "contracts/2024/lease.txt", doc.Source)
	assert.Equal(t, lex.Lease, doc.Result.ContractType)

	out, err = w.Execute(context.Background(), "analyze_object", args(t, map[string]string{"bucket": "archive", "object_name": "deed.html"}))
	require.NoError(t, err)
	doc = decodeDocument(t, out)
	assert.Equal(t, lex.DeedOfSale, doc.Result.ContractType)
	assert.Equal(t, []string{"$9000.00"}, doc.Result.ExtractedData.PaymentTerms.Money)

	_, err = w.Execute(context.Background(), "analyze_object", args(t, map[string]string{"object_name": "missing.txt"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestMinIOBucketRules(t *testing.T) {
	w := NewMinIOWorkerWithStore(newFakeStore(), testMinIOConfig(), newAnalyzer())

	_, err := w.Execute(context.Background(), "analyze_object", args(t, map[string]string{"bucket": "private", "object_name": "x.txt"}))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = w.Execute(context.Background(), "analyze_object", args(t, map[string]string{}))
	assert.ErrorIs(t, err, ErrInvalidInput)

	cfg := testMinIOConfig()
	cfg.DefaultBucket = ""
	_, err = NewMinIOWorkerWithStore(newFakeStore(), cfg, newAnalyzer()).
		Execute(context.Background(), "list_objects", args(t, map[string]string{}))
	assert.ErrorIs(t, err, ErrInvalidInput)

	cfg = testMinIOConfig()
	cfg.AllowedBuckets = []string{"*"}
	_, err = NewMinIOWorkerWithStore(newFakeStore(), cfg, newAnalyzer()).
		Execute(context.Background(), "list_objects", args(t, map[string]string{"bucket": "anything"}))
	assert.NoError(t, err)
}

func TestMinIOListObjects(t *testing.T) {
	store := newFakeStore()
	store.put("contracts", "2024/a.txt", "text/plain", "a")
	store.put("contracts", "2024/b.txt", "text/plain", "bb")
	store.put("contracts", "2023/c.txt", "text/plain", "ccc")
	w := NewMinIOWorkerWithStore(store, testMinIOConfig(), newAnalyzer())

	out, err := w.Execute(context.Background(), "list_objects", args(t, map[string]any{"prefix": "2024/", "max_keys": 1}))
	require.NoError(t, err)

	var resp struct {
		Bucket  string          `json:"bucket"`
		Objects []ObjectSummary `json:"objects"`
		Count   int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(out, &resp))
	assert.Equal(t, "contracts", resp.Bucket)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "2024/a.txt", resp.Objects[0].Key)
}
