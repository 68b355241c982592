package storage

import (
	"context"
	"io"

	"github.com/bwise1/love_map/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

const PhotoFolder = "love-map/places"

type Cloudinary struct {
	CLD *cloudinary.Cloudinary
}

// NewCloudinary returns nil without an error when Cloudinary is not
// configured, which disables photo uploads.
func NewCloudinary(cfg *config.Config) (*Cloudinary, error) {
	if cfg.CloudinaryCloudName == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, errors.Wrap(err, "initialize cloudinary")
	}
	return &Cloudinary{CLD: cld}, nil
}

// UploadImage uploads the image read from file under publicID and returns
// its https URL. Re-uploading the same publicID replaces the old image.
func (c *Cloudinary) UploadImage(ctx context.Context, file io.Reader, publicID string) (string, error) {
	overwrite := true
	resp, err := c.CLD.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:    PhotoFolder,
		PublicID:  publicID,
		Overwrite: &overwrite,
	})
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.SecureURL, nil
}
