// Package testutil provides test utilities and mocks for Rekognition
// operations. This package is internal and should only be used for testing
// within the rekognition module.
package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/ecastroth/awskit/rekognition/internal/rekapi"
)

// MockRekognitionClient is a mock implementation of the RekognitionAPI
// interface for testing. It allows customization of each operation through
// function fields.
type MockRekognitionClient struct {
	DetectTextFunc   func(context.Context, *rekognition.DetectTextInput, ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
	DetectLabelsFunc func(context.Context, *rekognition.DetectLabelsInput, ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
	DetectFacesFunc  func(context.Context, *rekognition.DetectFacesInput, ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// DetectText mocks the Rekognition DetectText operation.
func (m *MockRekognitionClient) DetectText(
	ctx context.Context,
	params *rekognition.DetectTextInput,
	optFns ...func(*rekognition.Options),
) (*rekognition.DetectTextOutput, error) {
	if m.DetectTextFunc != nil {
		return m.DetectTextFunc(ctx, params, optFns...)
	}
	return &rekognition.DetectTextOutput{}, nil
}

// DetectLabels mocks the Rekognition DetectLabels operation.
func (m *MockRekognitionClient) DetectLabels(
	ctx context.Context,
	params *rekognition.DetectLabelsInput,
	optFns ...func(*rekognition.Options),
) (*rekognition.DetectLabelsOutput, error) {
	if m.DetectLabelsFunc != nil {
		return m.DetectLabelsFunc(ctx, params, optFns...)
	}
	return &rekognition.DetectLabelsOutput{}, nil
}

// DetectFaces mocks the Rekognition DetectFaces operation.
func (m *MockRekognitionClient) DetectFaces(
	ctx context.Context,
	params *rekognition.DetectFacesInput,
	optFns ...func(*rekognition.Options),
) (*rekognition.DetectFacesOutput, error) {
	if m.DetectFacesFunc != nil {
		return m.DetectFacesFunc(ctx, params, optFns...)
	}
	return &rekognition.DetectFacesOutput{}, nil
}

// Verify the mock satisfies the interface it stands in for
var _ rekapi.RekognitionAPI = (*MockRekognitionClient)(nil)

// MakeTextDetection builds one SDK text detection with a bounding box.
func MakeTextDetection(
	text string,
	textType types.TextTypes,
	confidence float32,
	left, top, width, height float32,
) types.TextDetection {
	return types.TextDetection{
		DetectedText: aws.String(text),
		Type:         textType,
		Confidence:   aws.Float32(confidence),
		Geometry: &types.Geometry{
			BoundingBox: &types.BoundingBox{
				Left:   aws.Float32(left),
				Top:    aws.Float32(top),
				Width:  aws.Float32(width),
				Height: aws.Float32(height),
			},
		},
	}
}

// MakeLabel builds one SDK label with optional parent names.
func MakeLabel(name string, confidence float32, parents ...string) types.Label {
	label := types.Label{
		Name:       aws.String(name),
		Confidence: aws.Float32(confidence),
	}
	for _, parent := range parents {
		label.Parents = append(label.Parents, types.Parent{Name: aws.String(parent)})
	}
	return label
}

// MakeFaceDetail builds one SDK face detail with an age range and a single
// emotion.
func MakeFaceDetail(confidence float32, ageLow, ageHigh int32, emotion types.EmotionName) types.FaceDetail {
	return types.FaceDetail{
		Confidence: aws.Float32(confidence),
		BoundingBox: &types.BoundingBox{
			Left:   aws.Float32(0.1),
			Top:    aws.Float32(0.2),
			Width:  aws.Float32(0.3),
			Height: aws.Float32(0.4),
		},
		AgeRange: &types.AgeRange{
			Low:  aws.Int32(ageLow),
			High: aws.Int32(ageHigh),
		},
		Emotions: []types.Emotion{
			{Type: emotion, Confidence: aws.Float32(confidence)},
		},
	}
}
