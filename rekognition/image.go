package rekognition

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/pkg/errors"
)

// maxImageBytes is the Rekognition limit for images passed as raw bytes.
// Larger images must be referenced through S3 instead.
const maxImageBytes = 5 * 1024 * 1024

// Image is an input picture for the detection operations. Build one with
// S3Image or BytesImage.
type Image struct {
	bucket  string
	key     string
	version string
	data    []byte
}

// S3Image references an object already stored in S3. The bucket must live
// in the same region as the Rekognition client; NewForBucket pins the
// client to the right region automatically.
func S3Image(bucket, key string) Image {
	return Image{bucket: bucket, key: key}
}

// BytesImage carries raw image bytes (JPEG or PNG) directly in the request.
// The service rejects payloads over 5 MiB; use S3Image for larger files.
func BytesImage(data []byte) Image {
	return Image{data: data}
}

// WithVersion pins an S3 image reference to a specific object version.
func (img Image) WithVersion(version string) Image {
	img.version = version
	return img
}

// toSDK validates the image and converts it to the SDK representation.
func (img Image) toSDK() (*types.Image, error) {
	switch {
	case len(img.data) > 0:
		if len(img.data) > maxImageBytes {
			return nil, errors.Wrap(ErrImageTooLarge,
				fmt.Sprintf("%d bytes exceeds the %d byte limit for inline images", len(img.data), maxImageBytes))
		}
		return &types.Image{Bytes: img.data}, nil

	case img.bucket != "" && img.key != "":
		s3Object := &types.S3Object{
			Bucket: aws.String(img.bucket),
			Name:   aws.String(img.key),
		}
		if img.version != "" {
			s3Object.Version = aws.String(img.version)
		}
		return &types.Image{S3Object: s3Object}, nil

	default:
		return nil, errors.Wrap(ErrInvalidImage, "image must carry bytes or reference an S3 object")
	}
}
