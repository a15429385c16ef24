package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBlobNotFound is returned by Open when no blob has the key.
var ErrBlobNotFound = errors.New("media: blob not found")

// BlobStore keeps uploaded and generated media. Put returns the public URL
// the blob is served at.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// PublicPrefix is the URL path blobs are served under.
const PublicPrefix = "/media/"

// cleanKey rejects keys that escape the store root.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.TrimSpace(key))[1:]
	if k == "" || k == "." || strings.HasPrefix(k, "..") {
		return "", fmt.Errorf("media: invalid key %q", key)
	}
	return k, nil
}

// FSStore writes blobs below a directory on local disk.
type FSStore struct {
	dir string
}

// NewFSStore creates dir if needed.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.dir, filepath.FromSlash(k))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	return PublicPrefix + k, nil
}

func (s *FSStore) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(filepath.Join(s.dir, filepath.FromSlash(k)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrBlobNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return f, contentTypeFor(k), nil
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// GridFSStore keeps blobs in a MongoDB GridFS bucket.
type GridFSStore struct {
	client *mongo.Client
	bucket *gridfs.Bucket
}

// NewGridFSStore connects to uri and opens the "media" bucket in database.
func NewGridFSStore(ctx context.Context, uri, database string) (*GridFSStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	bucket, err := gridfs.NewBucket(client.Database(database), options.GridFSBucket().SetName("media"))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &GridFSStore{client: client, bucket: bucket}, nil
}

func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Now().Add(30 * time.Second)
}

func (s *GridFSStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := s.bucket.SetWriteDeadline(deadline(ctx)); err != nil {
		return "", err
	}
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	if _, err := s.bucket.UploadFromStream(k, bytes.NewReader(data), opts); err != nil {
		return "", fmt.Errorf("gridfs upload %s: %w", k, err)
	}
	return PublicPrefix + k, nil
}

func (s *GridFSStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return nil, "", err
	}
	if err := s.bucket.SetReadDeadline(deadline(ctx)); err != nil {
		return nil, "", err
	}
	// Revision -1 is the most recent upload under the name.
	ds, err := s.bucket.OpenDownloadStreamByName(k, options.GridFSName().SetRevision(-1))
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, "", ErrBlobNotFound
	}
	if err != nil {
		return nil, "", err
	}
	ct := contentTypeFor(k)
	if f := ds.GetFile(); f != nil && f.Metadata != nil {
		if v, ok := f.Metadata.Lookup("contentType").StringValueOK(); ok && v != "" {
			ct = v
		}
	}
	return ds, ct, nil
}

// Close disconnects from MongoDB.
func (s *GridFSStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
