package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/filestore"
	"github.com/koustreak/colmeta/internal/schema"
	"github.com/koustreak/colmeta/internal/typemeta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

// memStore keeps uploaded objects in memory.
type memStore struct {
	buckets map[string]bool
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newMemStore(buckets ...string) *memStore {
	s := &memStore{buckets: map[string]bool{}, objects: map[string][]byte{}, types: map[string]string{}}
	for _, b := range buckets {
		s.buckets[b] = true
	}
	return s
}

func (s *memStore) Ping(context.Context) error { return nil }
func (s *memStore) Close() error               { return nil }

func (s *memStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	return s.buckets[bucket], nil
}

func (s *memStore) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, contentType string) (*filestore.ObjectInfo, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
	if !s.buckets[bucket] {
		return nil, errs.Newf(errs.ErrKindNotFound, "bucket %q", bucket)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != size {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "short body: %d of %d", len(data), size)
	}
	s.objects[bucket+"/"+key] = data
	s.types[bucket+"/"+key] = contentType
	return &filestore.ObjectInfo{Bucket: bucket, Key: key, Size: size, ContentType: contentType, LastModified: time.Now()}, nil
}

func (s *memStore) StatObject(_ context.Context, bucket, key string) (*filestore.ObjectInfo, error) {
	data, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "object %q", key)
	}
	return &filestore.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func ordersMetadata(t *testing.T) *schema.TableMetadata {
	cols, err := typemeta.BuildColumns([]typemeta.CatalogColumn{
		{Name: "amount", TypeText: "NUMERIC(10, 2)"},
		{Name: "label", TypeText: "VARCHAR(50)"},
		{Name: "created_at", TypeText: "TIMESTAMP"},
	}, nil)
	require.NoError(t, err)
	return &schema.TableMetadata{Table: "orders", PrimaryKey: typemeta.KeyColumns{"id", "region"}, Columns: cols}
}

func TestExporter_JSON(t *testing.T) {
	store := newMemStore("metadata")
	exp := New(store, "metadata", FormatJSON, nil)

	info, err := exp.Export(context.Background(), ordersMetadata(t))
	require.NoError(t, err)
	assert.Equal(t, "orders/metadata.json", info.Key)
	assert.Equal(t, "application/json", store.types["metadata/orders/metadata.json"])

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(store.objects["metadata/orders/metadata.json"], &doc))
	assert.Equal(t, "orders", doc["table"])
	assert.Equal(t, []interface{}{"id", "region"}, doc["primary_key"])

	cols := doc["columns"].([]interface{})
	require.Len(t, cols, 3)
	amount := cols[0].(map[string]interface{})
	assert.Equal(t, "Numeric", amount["column_dtype"])
	assert.Equal(t, map[string]interface{}{"coltype": "NUMERIC", "precision": float64(10), "scale": float64(2)}, amount["column_precision"])
}

func TestExporter_YAML(t *testing.T) {
	store := newMemStore("metadata")
	exp := New(store, "metadata", FormatYAML, nil)

	info, err := exp.Export(context.Background(), ordersMetadata(t))
	require.NoError(t, err)
	assert.Equal(t, "orders/metadata.yaml", info.Key)

	var doc struct {
		Table   string   `yaml:"table"`
		Key     []string `yaml:"primary_key"`
		Columns []struct {
			Name  string `yaml:"column_name"`
			DType string `yaml:"column_dtype"`
			Human string `yaml:"human_readable_column_dtype"`
		} `yaml:"columns"`
	}
	require.NoError(t, yaml.Unmarshal(store.objects["metadata/orders/metadata.yaml"], &doc))
	assert.Equal(t, "orders", doc.Table)
	assert.Equal(t, []string{"id", "region"}, doc.Key)
	require.Len(t, doc.Columns, 3)
	assert.Equal(t, "Timestamp", doc.Columns[2].DType)
	assert.Equal(t, "Date", doc.Columns[2].Human)
}

func TestExporter_Overwrites(t *testing.T) {
	store := newMemStore("metadata")
	exp := New(store, "metadata", FormatJSON, nil)
	md := ordersMetadata(t)

	_, err := exp.Export(context.Background(), md)
	require.NoError(t, err)

	md.Columns = md.Columns[:1]
	_, err = exp.Export(context.Background(), md)
	require.NoError(t, err)

	stat, err := store.StatObject(context.Background(), "metadata", "orders/metadata.json")
	require.NoError(t, err)
	assert.Equal(t, int64(len(store.objects["metadata/orders/metadata.json"])), stat.Size)
	assert.Len(t, store.objects, 1)
}

func TestExporter_Errors(t *testing.T) {
	_, err := New(newMemStore("metadata"), "metadata", FormatJSON, nil).Export(context.Background(), nil)
	assert.True(t, errs.IsInvalidInput(err))

	_, err = New(newMemStore(), "metadata", FormatJSON, nil).Export(context.Background(), ordersMetadata(t))
	assert.True(t, errs.IsNotFound(err))

	store := newMemStore("metadata")
	store.putErr = errs.New(errs.ErrKindPermissionDenied, "access denied")
	_, err = New(store, "metadata", FormatJSON, nil).Export(context.Background(), ordersMetadata(t))
	assert.True(t, errs.IsPermissionDenied(err))
	assert.Contains(t, err.Error(), "export orders")
}

func TestExporter_EnsureBucket(t *testing.T) {
	assert.NoError(t, New(newMemStore("metadata"), "metadata", FormatJSON, nil).EnsureBucket(context.Background()))

	err := New(newMemStore(), "metadata", FormatJSON, nil).EnsureBucket(context.Background())
	assert.True(t, errs.IsNotFound(err))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	assert.Equal(t, "application/yaml", f.ContentType())

	_, err = ParseFormat("csv")
	assert.True(t, errs.IsInvalidInput(err))
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, Format("xml"), map[string]string{})
	assert.True(t, errs.IsInvalidInput(err))
}
