package gstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Daskott/raksha/engine/logger"
	"google.golang.org/api/option"
)

const UPLOAD_TIMEOUT = 50 * time.Second

var (
	ErrObjectNotExist = storage.ErrObjectNotExist

	logg = logger.NewLogger().Named("gstorage")
)

// Source is the local database being backed up.
type Source interface {
	Checkpoint() error
	Path() string
}

type objectStore interface {
	NewWriter(ctx context.Context, bucket, object string) io.WriteCloser
	NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error)
	Close() error
}

type GStorage struct {
	objects objectStore
	bucket  string
	prefix  string
}

func NewGStorage(ctx context.Context, credentialsFilePath, bucket, prefix string) (*GStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFilePath != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentialsFilePath))
	} else {
		client, err = storage.NewClient(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("NewGStorage: %v", err)
	}

	return &GStorage{objects: &gcsObjects{client}, bucket: bucket, prefix: prefix}, nil
}

// BackupStore flushes the store's write-ahead log and uploads the database file.
func (gs *GStorage) BackupStore(ctx context.Context, source Source) error {
	if err := source.Checkpoint(); err != nil {
		return fmt.Errorf("BackupStore: %v", err)
	}
	return gs.UploadFile(ctx, source.Path())
}

// UploadFile uploads the file at filePath to <prefix>/<file name>.
func (gs *GStorage) UploadFile(ctx context.Context, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("os.Open: %v", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, UPLOAD_TIMEOUT)
	defer cancel()

	object := gs.objectName(filepath.Base(filePath))
	wc := gs.objects.NewWriter(ctx, gs.bucket, object)
	if _, err = io.Copy(wc, f); err != nil {
		wc.Close()
		return fmt.Errorf("io.Copy: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %v", err)
	}

	logg.Infof("Blob %v uploaded to bucket %v", object, gs.bucket)
	return nil
}

// DownloadFile downloads <prefix>/<file name> to destFileName. It returns
// ErrObjectNotExist when there is no backup yet.
func (gs *GStorage) DownloadFile(ctx context.Context, destFileName string) error {
	ctx, cancel := context.WithTimeout(ctx, UPLOAD_TIMEOUT)
	defer cancel()

	object := gs.objectName(filepath.Base(destFileName))
	rc, err := gs.objects.NewReader(ctx, gs.bucket, object)
	if err == storage.ErrObjectNotExist {
		return err
	}
	if err != nil {
		return fmt.Errorf("Object(%q).NewReader: %v", object, err)
	}
	defer rc.Close()

	f, err := os.OpenFile(destFileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("os.OpenFile: %v", err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return fmt.Errorf("io.Copy: %v", err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("f.Close: %v", err)
	}

	logg.Infof("Blob %v downloaded to local file %v", object, destFileName)
	return nil
}

func (gs *GStorage) Close() error {
	return gs.objects.Close()
}

func (gs *GStorage) objectName(fileName string) string {
	if gs.prefix == "" {
		return fileName
	}
	return path.Join(gs.prefix, fileName)
}

type gcsObjects struct {
	client *storage.Client
}

func (g *gcsObjects) NewWriter(ctx context.Context, bucket, object string) io.WriteCloser {
	return g.client.Bucket(bucket).Object(object).NewWriter(ctx)
}

func (g *gcsObjects) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	return g.client.Bucket(bucket).Object(object).NewReader(ctx)
}

func (g *gcsObjects) Close() error {
	return g.client.Close()
}
