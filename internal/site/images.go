package site

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	appconfig "github.com/harlowpress/author-site/internal/config"
	"github.com/harlowpress/author-site/internal/pkg/logger"
)

const (
	// thumbnailWidth is the max width for generated thumbnails
	thumbnailWidth = 480

	// jpegQuality for re-encoded thumbnails
	jpegQuality = 85
)

// ImageObject describes one stored image
type ImageObject struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

// ImageStore uploads and serves site images from S3-compatible object
// storage (S3 or Cloudflare R2 via a custom endpoint).
type ImageStore struct {
	client    *s3.Client
	bucket    string
	region    string
	cdnDomain string
	maxBytes  int64
}

// NewImageStore creates the object storage client from config. An
// Endpoint value switches the client to R2-style path addressing.
func NewImageStore(ctx context.Context, cfg appconfig.ImagesConfig) (*ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("images bucket not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ImageStore{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		cdnDomain: cfg.CDNDomain,
		maxBytes:  int64(cfg.MaxUploadMB) * 1024 * 1024,
	}, nil
}

// MaxBytes returns the configured upload size cap
func (is *ImageStore) MaxBytes() int64 {
	return is.maxBytes
}

// Upload stores an image and returns its object metadata. The key is
// a UUID plus an extension derived from the detected content type, so
// caller-supplied filenames never reach the bucket.
func (is *ImageStore) Upload(ctx context.Context, data []byte, originalName string) (*ImageObject, error) {
	if int64(len(data)) > is.maxBytes {
		return nil, fmt.Errorf("image exceeds %d byte limit", is.maxBytes)
	}

	contentType := detectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("unsupported content type %s", contentType)
	}

	key := uuid.New().String() + extensionFor(contentType)
	if _, err := is.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(is.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	}); err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}

	// Thumbnails are best effort. Wide source images get a scaled
	// copy under thumbs/ with the same key.
	if thumb, err := makeThumbnail(data, contentType); err == nil && thumb != nil {
		thumbKey := "thumbs/" + key
		if _, err := is.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(is.bucket),
			Key:          aws.String(thumbKey),
			Body:         bytes.NewReader(thumb),
			ContentType:  aws.String(contentType),
			CacheControl: aws.String("public, max-age=31536000, immutable"),
		}); err != nil {
			logger.Warn("Thumbnail upload failed", "key", thumbKey, "error", err.Error())
		}
	}

	logger.Info("Image uploaded", "key", key, "size", len(data), "original", originalName)

	return &ImageObject{
		Key:         key,
		URL:         is.PublicURL(key),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Fetch streams an object's bytes and content type
func (is *ImageStore) Fetch(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := is.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(is.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", err
	}
	contentType := "application/octet-stream"
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}

// Remove deletes an object and its thumbnail if present
func (is *ImageStore) Remove(ctx context.Context, key string) error {
	for _, k := range []string{key, "thumbs/" + key} {
		if _, err := is.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(is.bucket),
			Key:    aws.String(k),
		}); err != nil {
			if k == key {
				return fmt.Errorf("deleting image: %w", err)
			}
			logger.Warn("Thumbnail delete failed", "key", k, "error", err.Error())
		}
	}
	return nil
}

// List returns the stored images, skipping the thumbs/ prefix
func (is *ImageStore) List(ctx context.Context) ([]*ImageObject, error) {
	objects := []*ImageObject{}
	var token *string
	for {
		out, err := is.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(is.bucket),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("listing images: %w", err)
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasPrefix(key, "thumbs/") {
				continue
			}
			item := &ImageObject{
				Key:         key,
				URL:         is.PublicURL(key),
				ContentType: contentTypeFor(key),
			}
			if obj.Size != nil {
				item.Size = *obj.Size
			}
			if obj.LastModified != nil {
				item.LastModified = *obj.LastModified
			}
			objects = append(objects, item)
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		token = out.NextContinuationToken
	}
	return objects, nil
}

// PublicURL returns the externally reachable URL for a key
func (is *ImageStore) PublicURL(key string) string {
	if is.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", is.cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", is.bucket, is.region, key)
}

// makeThumbnail scales an image down to thumbnailWidth, preserving
// aspect ratio. Returns (nil, nil) when the source is already small
// enough or the format cannot be re-encoded (webp, gif animations).
func makeThumbnail(data []byte, contentType string) ([]byte, error) {
	if contentType == "image/webp" {
		return nil, nil
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	if width <= thumbnailWidth {
		return nil, nil
	}
	newHeight := int(float64(bounds.Dy()) * float64(thumbnailWidth) / float64(width))

	dst := image.NewRGBA(image.Rect(0, 0, thumbnailWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectContentType inspects magic bytes rather than trusting the
// uploaded filename
func detectContentType(data []byte) string {
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(data) >= 8 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return "image/png"
	}
	if len(data) >= 6 && data[0] == 'G' && data[1] == 'I' && data[2] == 'F' {
		return "image/gif"
	}
	if len(data) >= 12 && data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' &&
		data[8] == 'W' && data[9] == 'E' && data[10] == 'B' && data[11] == 'P' {
		return "image/webp"
	}
	return "application/octet-stream"
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".bin"
}

func contentTypeFor(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}
