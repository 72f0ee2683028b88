package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/filestore"
	"github.com/koustreak/colmeta/internal/logger"
	"github.com/koustreak/colmeta/internal/schema"
)

// Exporter uploads TableMetadata documents to one bucket.
type Exporter struct {
	store  filestore.Store
	bucket string
	format Format
	log    *logger.Logger
}

// New creates an Exporter. A nil log discards output.
func New(store filestore.Store, bucket string, format Format, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Nop()
	}
	return &Exporter{store: store, bucket: bucket, format: format, log: log}
}

// Key is the object key a table's document is written to.
func (e *Exporter) Key(table string) string {
	return path.Join(table, "metadata."+e.format.Ext())
}

// EnsureBucket fails with errs.ErrKindNotFound when the target bucket is
// missing.
func (e *Exporter) EnsureBucket(ctx context.Context) error {
	ok, err := e.store.BucketExists(ctx, e.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Newf(errs.ErrKindNotFound, "bucket %q does not exist", e.bucket)
	}
	return nil
}

// Export encodes md and uploads it, replacing any earlier document for the
// same table.
func (e *Exporter) Export(ctx context.Context, md *schema.TableMetadata) (filestore.ObjectInfo, error) {
	if md == nil || md.Table == "" {
		return filestore.ObjectInfo{}, errs.New(errs.ErrKindInvalidInput, "table metadata is required")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, e.format, md); err != nil {
		return filestore.ObjectInfo{}, errs.Wrap(errs.ErrKindInvalidInput, fmt.Sprintf("encode %s metadata", md.Table), err)
	}

	key := e.Key(md.Table)
	size := int64(buf.Len())
	info, err := e.store.PutObject(ctx, e.bucket, key, &buf, size, e.format.ContentType())
	if err != nil {
		e.log.ErrorWith("export failed", err, map[string]interface{}{"table": md.Table, "bucket": e.bucket})
		return filestore.ObjectInfo{}, fmt.Errorf("export %s: %w", md.Table, err)
	}

	e.log.With().
		Str("table", md.Table).
		Str("bucket", e.bucket).
		Str("key", key).
		Int("columns", len(md.Columns)).
		Logger().
		Info("metadata exported")

	return *info, nil
}
