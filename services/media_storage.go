package services

import (
	"context"
	"fmt"
	"io"

	"campusnest/errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StoredObject is what the media store hands back after an upload.
type StoredObject struct {
	URL      string
	PublicID string
}

// MediaStorage keeps review images outside the database.
type MediaStorage interface {
	Upload(ctx context.Context, src io.Reader, filename string) (StoredObject, error)
	Delete(ctx context.Context, publicID string) error
}

type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStorage(cld *cloudinary.Cloudinary, folder string) *CloudinaryStorage {
	return &CloudinaryStorage{cld: cld, folder: folder}
}

func (s *CloudinaryStorage) Upload(ctx context.Context, src io.Reader, filename string) (StoredObject, error) {
	resp, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:         s.folder,
		ResourceType:   "image",
		UniqueFilename: boolPtr(true),
	})
	if err != nil {
		return StoredObject{}, errors.NewAppError(errors.ErrCodeUpstream, "Image upload failed", err)
	}
	if resp.Error.Message != "" {
		return StoredObject{}, errors.NewAppError(errors.ErrCodeUpstream, "Image upload failed", fmt.Errorf("%s: %s", filename, resp.Error.Message))
	}
	return StoredObject{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	return err
}

func boolPtr(b bool) *bool { return &b }

// disabledStorage rejects uploads when no store is configured.
type disabledStorage struct{}

func (disabledStorage) Upload(context.Context, io.Reader, string) (StoredObject, error) {
	return StoredObject{}, errors.NewAppError(errors.ErrCodeUpstream, "Media uploads are not available", errors.ErrStorageDisabled)
}

func (disabledStorage) Delete(context.Context, string) error { return nil }
