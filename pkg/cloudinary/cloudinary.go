package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

var ErrNotConfigured = errors.New("cloudinary credentials are not configured")

// Client signs direct browser uploads and uploads catalog imagery.
type Client interface {
	SignUpload(folder string, at time.Time) (*UploadSignature, error)
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error)
}

// UploadSignature is everything a browser needs to upload straight to
// Cloudinary without seeing the API secret.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	CloudName string `json:"cloud_name"`
	APIKey    string `json:"api_key"`
	Folder    string `json:"folder"`
}

// Optimized image params for fast frontend loading
const (
	ImageWidth = 1600
	ThumbWidth = 400
)

// BuildOptimizedImageURL returns a Cloudinary URL with transformations for optimized delivery.
func BuildOptimizedImageURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = ImageWidth
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_limit/%s",
		cloudName, width, publicID)
}

const imageEager = "q_auto,f_auto,w_400,c_limit"

var eagerAsyncFalse = false

type clientImpl struct {
	cloudName string
	apiKey    string
	apiSecret string
	uploader  *uploader.API
}

// SignUpload signs the folder and POSIX timestamp of a direct upload.
func (c *clientImpl) SignUpload(folder string, at time.Time) (*UploadSignature, error) {
	if c.apiSecret == "" || c.apiSecret == "placeholder" {
		return nil, ErrNotConfigured
	}
	ts := at.Unix()
	params := url.Values{
		"folder":    []string{folder},
		"timestamp": []string{strconv.FormatInt(ts, 10)},
	}
	sig, err := api.SignParameters(params, c.apiSecret)
	if err != nil {
		return nil, fmt.Errorf("sign upload: %w", err)
	}
	return &UploadSignature{
		Signature: sig,
		Timestamp: ts,
		CloudName: c.cloudName,
		APIKey:    c.apiKey,
		Folder:    folder,
	}, nil
}

// UploadImage uploads an image with an eager thumbnail transformation.
func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error) {
	if c.uploader == nil {
		return "", "", ErrNotConfigured
	}
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", "", err
	}
	if result.Error.Message != "" {
		return "", "", fmt.Errorf("cloudinary: %s", result.Error.Message)
	}
	url = result.SecureURL
	if len(result.Eager) > 0 {
		thumbnailURL = result.Eager[0].SecureURL
	}
	if thumbnailURL == "" {
		thumbnailURL = BuildOptimizedImageURL(c.cloudName, result.PublicID, ThumbWidth)
	}
	return url, thumbnailURL, nil
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
// Missing credentials yield a client whose calls fail with ErrNotConfigured, so
// the server can start without media support.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	c := &clientImpl{cloudName: cloudName, apiKey: apiKey, apiSecret: apiSecret}
	if cloudName == "" || apiKey == "" || apiSecret == "" || apiSecret == "placeholder" {
		return c, nil
	}
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	c.uploader = up
	return c, nil
}
