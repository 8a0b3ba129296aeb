// Package rekapi defines the narrow Rekognition SDK interface used by this
// module.
package rekapi

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
)

// RekognitionAPI is the subset of the AWS SDK Rekognition client this module
// calls. Keeping it narrow allows function-field mocks in tests.
type RekognitionAPI interface {
	// DetectText finds text (lines and words) in an image
	DetectText(
		ctx context.Context,
		params *rekognition.DetectTextInput,
		optFns ...func(*rekognition.Options),
	) (*rekognition.DetectTextOutput, error)

	// DetectLabels finds objects and concepts in an image
	DetectLabels(
		ctx context.Context,
		params *rekognition.DetectLabelsInput,
		optFns ...func(*rekognition.Options),
	) (*rekognition.DetectLabelsOutput, error)

	// DetectFaces finds faces and their attributes in an image
	DetectFaces(
		ctx context.Context,
		params *rekognition.DetectFacesInput,
		optFns ...func(*rekognition.Options),
	) (*rekognition.DetectFacesOutput, error)
}

// Verify that the AWS Rekognition client implements our interface
var _ RekognitionAPI = (*rekognition.Client)(nil)
