package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"

	"uninews/internal/utils"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultUploadMaxMB = 5

// BlobStore uploads article images to an S3-compatible bucket. It is
// optional: with no endpoint configured, uploads fail with BadRequest and
// the rest of the service keeps working.
type BlobStore struct {
	client *minio.Client
	bucket string
	public string // base URL prepended to object names
	maxMB  int64
}

// NewBlobStoreFromEnv builds a store from BLOB_ENDPOINT, BLOB_ACCESS_KEY,
// BLOB_SECRET_KEY, BLOB_BUCKET, BLOB_PUBLIC_URL and UPLOAD_MAX_MB. Returns
// an unconfigured store when BLOB_ENDPOINT is empty.
func NewBlobStoreFromEnv() *BlobStore {
	store := &BlobStore{
		bucket: os.Getenv("BLOB_BUCKET"),
		public: strings.TrimRight(os.Getenv("BLOB_PUBLIC_URL"), "/"),
		maxMB:  int64(utils.StringToInt(os.Getenv("UPLOAD_MAX_MB"))),
	}
	if store.maxMB <= 0 {
		store.maxMB = defaultUploadMaxMB
	}

	endpoint := os.Getenv("BLOB_ENDPOINT")
	if endpoint == "" {
		return store
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("BLOB_ACCESS_KEY"), os.Getenv("BLOB_SECRET_KEY"), ""),
		Secure: os.Getenv("BLOB_USE_SSL") != "false",
	})
	if err != nil {
		log.Printf("blob store disabled: %v", err)
		return store
	}
	store.client = client
	return store
}

// Configured reports whether uploads can be performed.
func (b *BlobStore) Configured() bool {
	return b.client != nil && b.bucket != ""
}

// contentTypeExt maps the accepted image content types to file extensions.
var contentTypeExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadBase64 decodes a "data:<type>;base64,<payload>" URL, uploads the
// bytes under a random object name and returns the public URL.
func (b *BlobStore) UploadBase64(ctx context.Context, dataURL string) (string, error) {
	if !b.Configured() {
		return "", fmt.Errorf("%w: image upload is not configured", ErrBadRequest)
	}

	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", fmt.Errorf("%w: expected a data URL", ErrBadRequest)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", fmt.Errorf("%w: expected a base64 data URL", ErrBadRequest)
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	ext, ok := contentTypeExt[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", ErrBadRequest, contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 payload", ErrBadRequest)
	}
	if int64(len(data)) > b.maxMB*1024*1024 {
		return "", fmt.Errorf("%w: image exceeds %d MB", ErrBadRequest, b.maxMB)
	}

	name := uuid.NewString() + ext
	_, err = b.client.PutObject(ctx, b.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("blob upload: %w", err)
	}

	if b.public != "" {
		return b.public + "/" + name, nil
	}
	return fmt.Sprintf("https://%s/%s/%s", b.client.EndpointURL().Host, b.bucket, name), nil
}
