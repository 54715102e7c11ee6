package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/aslectra/backend/internal/errors"
)

const bucketName = "images"

// GridFSStore implements ImageStore on a MongoDB GridFS bucket.
// References are the hex ObjectIDs of the stored files.
type GridFSStore struct {
	db *mongo.Database
}

// NewGridFSStore creates a new GridFSStore
func NewGridFSStore(db *mongo.Database) *GridFSStore {
	return &GridFSStore{db: db}
}

func (s *GridFSStore) bucket() (*gridfs.Bucket, error) {
	return gridfs.NewBucket(s.db, options.GridFSBucket().SetName(bucketName))
}

func deadline(ctx context.Context) time.Time {
	d, _ := ctx.Deadline()
	return d
}

// Save streams r into the bucket under a random file name.
func (s *GridFSStore) Save(ctx context.Context, r io.Reader, contentType string) (string, error) {
	bucket, err := s.bucket()
	if err != nil {
		return "", err
	}
	if err := bucket.SetWriteDeadline(deadline(ctx)); err != nil {
		return "", err
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}})
	id, err := bucket.UploadFromStream(uuid.NewString(), r, opts)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return id.Hex(), nil
}

// Open returns a reader on the stored file. The caller closes it.
func (s *GridFSStore) Open(ctx context.Context, id string) (io.ReadCloser, FileInfo, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, FileInfo{}, apperrors.ErrImageNotFound
	}

	bucket, err := s.bucket()
	if err != nil {
		return nil, FileInfo{}, err
	}
	if err := bucket.SetReadDeadline(deadline(ctx)); err != nil {
		return nil, FileInfo{}, err
	}

	stream, err := bucket.OpenDownloadStream(objID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, FileInfo{}, apperrors.ErrImageNotFound
	}
	if err != nil {
		return nil, FileInfo{}, err
	}

	file := stream.GetFile()
	info := FileInfo{Size: file.Length, ContentType: "application/octet-stream"}
	if file.Metadata != nil {
		if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok {
			info.ContentType = ct
		}
	}
	return stream, info, nil
}

func (s *GridFSStore) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrImageNotFound
	}

	bucket, err := s.bucket()
	if err != nil {
		return err
	}
	err = bucket.DeleteContext(ctx, objID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil
	}
	return err
}
