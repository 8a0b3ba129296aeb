// Package rekognition provides tests for single-image detection operations.
package rekognition

import (
	"bytes"
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecastroth/awskit/rekognition/internal/testutil"
)

// TestClient_DetectText_WithMock tests text detection with mocked responses.
func TestClient_DetectText_WithMock(t *testing.T) {
	t.Run("splits lines and words", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{
			DetectTextFunc: func(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
				return &rekognition.DetectTextOutput{
					TextDetections: []types.TextDetection{
						testutil.MakeTextDetection("INVOICE 42", types.TextTypesLine, 99.5, 0.125, 0.25, 0.5, 0.0625),
						testutil.MakeTextDetection("INVOICE", types.TextTypesWord, 99.5, 0.125, 0.25, 0.25, 0.0625),
						testutil.MakeTextDetection("42", types.TextTypesWord, 98.25, 0.375, 0.25, 0.125, 0.0625),
					},
				}, nil
			},
		}

		client := NewWithClient(mockClient)
		detections, err := client.DetectText(context.Background(), S3Image("scan-bucket", "pages/p1.png"))

		require.NoError(t, err)
		require.NotNil(t, detections)

		require.Len(t, detections.Lines, 1)
		assert.Equal(t, "INVOICE 42", detections.Lines[0].Text)
		assert.Equal(t, 99.5, detections.Lines[0].Confidence)
		assert.Equal(t, BoundingBox{Left: 0.125, Top: 0.25, Width: 0.5, Height: 0.0625}, detections.Lines[0].Box)

		require.Len(t, detections.Words, 2)
		assert.Equal(t, "INVOICE", detections.Words[0].Text)
		assert.Equal(t, "42", detections.Words[1].Text)
		assert.Equal(t, 98.25, detections.Words[1].Confidence)
	})

	t.Run("image without text yields empty slices", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{}

		client := NewWithClient(mockClient)
		detections, err := client.DetectText(context.Background(), S3Image("scan-bucket", "pages/blank.png"))

		require.NoError(t, err)
		assert.NotNil(t, detections.Lines)
		assert.NotNil(t, detections.Words)
		assert.Empty(t, detections.Lines)
		assert.Empty(t, detections.Words)
	})

	t.Run("sends the S3 reference with version", func(t *testing.T) {
		detectCalled := false
		mockClient := &testutil.MockRekognitionClient{
			DetectTextFunc: func(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
				detectCalled = true
				require.NotNil(t, params.Image)
				require.NotNil(t, params.Image.S3Object)
				assert.Equal(t, "scan-bucket", aws.ToString(params.Image.S3Object.Bucket))
				assert.Equal(t, "pages/p1.png", aws.ToString(params.Image.S3Object.Name))
				assert.Equal(t, "v7", aws.ToString(params.Image.S3Object.Version))
				return &rekognition.DetectTextOutput{}, nil
			},
		}

		client := NewWithClient(mockClient)
		img := S3Image("scan-bucket", "pages/p1.png").WithVersion("v7")
		_, err := client.DetectText(context.Background(), img)

		require.NoError(t, err)
		assert.True(t, detectCalled)
	})

	t.Run("sends inline bytes", func(t *testing.T) {
		payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
		mockClient := &testutil.MockRekognitionClient{
			DetectTextFunc: func(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
				assert.Equal(t, payload, params.Image.Bytes)
				return &rekognition.DetectTextOutput{}, nil
			},
		}

		client := NewWithClient(mockClient)
		_, err := client.DetectText(context.Background(), BytesImage(payload))

		require.NoError(t, err)
	})

	t.Run("rejects an empty image without calling the API", func(t *testing.T) {
		detectCalled := false
		mockClient := &testutil.MockRekognitionClient{
			DetectTextFunc: func(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
				detectCalled = true
				return &rekognition.DetectTextOutput{}, nil
			},
		}

		client := NewWithClient(mockClient)
		_, err := client.DetectText(context.Background(), Image{})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidImage)
		assert.False(t, detectCalled)
	})

	t.Run("rejects oversized inline bytes without calling the API", func(t *testing.T) {
		detectCalled := false
		mockClient := &testutil.MockRekognitionClient{
			DetectTextFunc: func(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
				detectCalled = true
				return &rekognition.DetectTextOutput{}, nil
			},
		}

		client := NewWithClient(mockClient)
		oversized := bytes.Repeat([]byte{0x01}, maxImageBytes+1)
		_, err := client.DetectText(context.Background(), BytesImage(oversized))

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrImageTooLarge)
		assert.False(t, detectCalled)
	})

	t.Run("classifies service failures", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{
			DetectTextFunc: func(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
				return nil, &types.InvalidImageFormatException{Message: aws.String("not an image")}
			},
		}

		client := NewWithClient(mockClient)
		_, err := client.DetectText(context.Background(), S3Image("scan-bucket", "pages/corrupt.bin"))

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidImage)
		assert.Contains(t, err.Error(), "not an image")
	})
}

// TestClient_DetectWords_WithMock tests the standardized word-level result.
func TestClient_DetectWords_WithMock(t *testing.T) {
	t.Run("returns only words", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{
			DetectTextFunc: func(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error) {
				return &rekognition.DetectTextOutput{
					TextDetections: []types.TextDetection{
						testutil.MakeTextDetection("TOTAL 12.50", types.TextTypesLine, 99.0, 0.1, 0.1, 0.8, 0.1),
						testutil.MakeTextDetection("TOTAL", types.TextTypesWord, 99.0, 0.1, 0.1, 0.4, 0.1),
						testutil.MakeTextDetection("12.50", types.TextTypesWord, 97.5, 0.55, 0.1, 0.35, 0.1),
					},
				}, nil
			},
		}

		client := NewWithClient(mockClient)
		words, err := client.DetectWords(context.Background(), S3Image("scan-bucket", "receipts/r1.jpg"))

		require.NoError(t, err)
		require.Len(t, words, 2)
		assert.Equal(t, "TOTAL", words[0].Text)
		assert.Equal(t, "12.50", words[1].Text)
		assert.Equal(t, 97.5, words[1].Confidence)
	})

	t.Run("image without text yields an empty non-nil slice", func(t *testing.T) {
		client := NewWithClient(&testutil.MockRekognitionClient{})

		words, err := client.DetectWords(context.Background(), S3Image("scan-bucket", "receipts/blank.jpg"))

		require.NoError(t, err)
		assert.NotNil(t, words)
		assert.Empty(t, words)
	})
}

// TestClient_DetectLabels_WithMock tests label detection and its options.
func TestClient_DetectLabels_WithMock(t *testing.T) {
	t.Run("applies the default cap and threshold", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{
			DetectLabelsFunc: func(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
				assert.Equal(t, int32(10), aws.ToInt32(params.MaxLabels))
				assert.Equal(t, float32(80), aws.ToFloat32(params.MinConfidence))
				return &rekognition.DetectLabelsOutput{}, nil
			},
		}

		client := NewWithClient(mockClient)
		_, err := client.DetectLabels(context.Background(), S3Image("photo-bucket", "cats/mia.jpg"))

		require.NoError(t, err)
	})

	t.Run("honors per-call overrides", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{
			DetectLabelsFunc: func(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
				assert.Equal(t, int32(25), aws.ToInt32(params.MaxLabels))
				assert.Equal(t, float32(55.5), aws.ToFloat32(params.MinConfidence))
				return &rekognition.DetectLabelsOutput{}, nil
			},
		}

		client := NewWithClient(mockClient)
		_, err := client.DetectLabels(context.Background(), S3Image("photo-bucket", "cats/mia.jpg"),
			WithMaxLabels(25),
			WithMinConfidence(55.5),
		)

		require.NoError(t, err)
	})

	t.Run("maps names, confidence, and parents", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{
			DetectLabelsFunc: func(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
				return &rekognition.DetectLabelsOutput{
					Labels: []types.Label{
						testutil.MakeLabel("Cat", 98.5, "Animal", "Pet"),
						testutil.MakeLabel("Whiskers", 85.25),
					},
				}, nil
			},
		}

		client := NewWithClient(mockClient)
		labels, err := client.DetectLabels(context.Background(), S3Image("photo-bucket", "cats/mia.jpg"))

		require.NoError(t, err)
		require.Len(t, labels, 2)
		assert.Equal(t, "Cat", labels[0].Name)
		assert.Equal(t, 98.5, labels[0].Confidence)
		assert.Equal(t, []string{"Animal", "Pet"}, labels[0].Parents)
		assert.Empty(t, labels[1].Parents)
	})

	t.Run("classifies access denied", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{
			DetectLabelsFunc: func(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
				return nil, &types.AccessDeniedException{Message: aws.String("no rekognition permission")}
			},
		}

		client := NewWithClient(mockClient)
		_, err := client.DetectLabels(context.Background(), S3Image("photo-bucket", "cats/mia.jpg"))

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

// TestClient_DetectFaces_WithMock tests face detection and attribute mapping.
func TestClient_DetectFaces_WithMock(t *testing.T) {
	t.Run("requests the full attribute set", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{
			DetectFacesFunc: func(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
				require.Len(t, params.Attributes, 1)
				assert.Equal(t, types.AttributeAll, params.Attributes[0])
				return &rekognition.DetectFacesOutput{}, nil
			},
		}

		client := NewWithClient(mockClient)
		faces, err := client.DetectFaces(context.Background(), S3Image("photo-bucket", "people/team.jpg"))

		require.NoError(t, err)
		assert.Empty(t, faces)
	})

	t.Run("maps the attribute subset", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{
			DetectFacesFunc: func(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
				return &rekognition.DetectFacesOutput{
					FaceDetails: []types.FaceDetail{
						testutil.MakeFaceDetail(99.9, 25, 35, types.EmotionNameHappy),
					},
				}, nil
			},
		}

		client := NewWithClient(mockClient)
		faces, err := client.DetectFaces(context.Background(), S3Image("photo-bucket", "people/team.jpg"))

		require.NoError(t, err)
		require.Len(t, faces, 1)

		face := faces[0]
		assert.InDelta(t, 99.9, face.Confidence, 1e-4)
		assert.Equal(t, AgeRange{Low: 25, High: 35}, face.AgeRange)
		require.Len(t, face.Emotions, 1)
		assert.Equal(t, "HAPPY", face.Emotions[0].Name)
		assert.InDelta(t, 0.1, face.Box.Left, 1e-6)
		assert.InDelta(t, 0.4, face.Box.Height, 1e-6)
	})

	t.Run("classifies throttling", func(t *testing.T) {
		mockClient := &testutil.MockRekognitionClient{
			DetectFacesFunc: func(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
				return nil, &types.ProvisionedThroughputExceededException{Message: aws.String("slow down")}
			},
		}

		client := NewWithClient(mockClient)
		_, err := client.DetectFaces(context.Background(), S3Image("photo-bucket", "people/team.jpg"))

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrThrottled)
	})
}
