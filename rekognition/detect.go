package rekognition

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// BoundingBox locates a detection inside the image. All values are ratios
// of the image dimensions in the range [0, 1].
type BoundingBox struct {
	// Left is the horizontal offset of the box's left edge
	Left float64

	// Top is the vertical offset of the box's top edge
	Top float64

	// Width is the box width
	Width float64

	// Height is the box height
	Height float64
}

// Word is a single WORD-level text detection.
type Word struct {
	// Text is the detected word
	Text string

	// Box locates the word in the image
	Box BoundingBox

	// Confidence is the detection confidence in percent
	Confidence float64
}

// Line is a single LINE-level text detection.
type Line struct {
	// Text is the detected line
	Text string

	// Box locates the line in the image
	Box BoundingBox

	// Confidence is the detection confidence in percent
	Confidence float64
}

// TextDetections groups the text found in one image by granularity. Both
// slices are empty, never nil, when the image contains no text.
type TextDetections struct {
	// Lines holds full-line detections in reading order
	Lines []Line

	// Words holds word-level detections
	Words []Word
}

// Label is a detected object or concept.
type Label struct {
	// Name identifies the label (e.g. "Car", "Text")
	Name string

	// Confidence is the detection confidence in percent
	Confidence float64

	// Parents names the ancestor labels in the label taxonomy
	Parents []string
}

// Emotion is a detected facial emotion.
type Emotion struct {
	// Name identifies the emotion (e.g. "HAPPY", "CALM")
	Name string

	// Confidence is the detection confidence in percent
	Confidence float64
}

// AgeRange is the estimated age interval for a detected face.
type AgeRange struct {
	Low  int
	High int
}

// Face is a detected face with its attribute subset.
type Face struct {
	// Box locates the face in the image
	Box BoundingBox

	// Confidence is the detection confidence in percent
	Confidence float64

	// AgeRange is the estimated age interval
	AgeRange AgeRange

	// Emotions holds the detected emotions with their confidence
	Emotions []Emotion
}

// DetectText finds text in an image and returns both line-level and
// word-level detections.
func (c *Client) DetectText(ctx context.Context, img Image, opts ...DetectOption) (*TextDetections, error) {
	sdkImage, err := img.toSDK()
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "detecting text",
			"source", img.source())
	}

	out, err := c.api.DetectText(ctx, &rekognition.DetectTextInput{
		Image: sdkImage,
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "text detection failed",
				"source", img.source(),
				"error", err)
		}
		return nil, classify(err, "failed to detect text")
	}

	detections := &TextDetections{
		Lines: make([]Line, 0),
		Words: make([]Word, 0),
	}
	for _, d := range out.TextDetections {
		switch d.Type {
		case types.TextTypesLine:
			detections.Lines = append(detections.Lines, Line{
				Text:       aws.ToString(d.DetectedText),
				Box:        fromSDKGeometry(d.Geometry),
				Confidence: float64(aws.ToFloat32(d.Confidence)),
			})
		case types.TextTypesWord:
			detections.Words = append(detections.Words, Word{
				Text:       aws.ToString(d.DetectedText),
				Box:        fromSDKGeometry(d.Geometry),
				Confidence: float64(aws.ToFloat32(d.Confidence)),
			})
		}
	}

	return detections, nil
}

// DetectWords finds text in an image and returns only the word-level
// detections. An image with no text yields an empty, non-nil slice.
func (c *Client) DetectWords(ctx context.Context, img Image, opts ...DetectOption) ([]Word, error) {
	detections, err := c.DetectText(ctx, img, opts...)
	if err != nil {
		return nil, err
	}
	return detections.Words, nil
}

// DetectLabels finds objects and concepts in an image. Labels come back
// ordered by descending confidence; WithMaxLabels and WithMinConfidence
// adjust the cap and threshold.
func (c *Client) DetectLabels(ctx context.Context, img Image, opts ...DetectOption) ([]Label, error) {
	config := c.resolveDetectOptions(opts)

	sdkImage, err := img.toSDK()
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "detecting labels",
			"source", img.source(),
			"max_labels", config.maxLabels,
			"min_confidence", config.minConfidence)
	}

	out, err := c.api.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         sdkImage,
		MaxLabels:     aws.Int32(config.maxLabels),
		MinConfidence: aws.Float32(config.minConfidence),
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "label detection failed",
				"source", img.source(),
				"error", err)
		}
		return nil, classify(err, "failed to detect labels")
	}

	labels := make([]Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		label := Label{
			Name:       aws.ToString(l.Name),
			Confidence: float64(aws.ToFloat32(l.Confidence)),
		}
		for _, parent := range l.Parents {
			label.Parents = append(label.Parents, aws.ToString(parent.Name))
		}
		labels = append(labels, label)
	}

	return labels, nil
}

// DetectFaces finds faces in an image. The full attribute set is requested
// so age range and emotions are populated.
func (c *Client) DetectFaces(ctx context.Context, img Image, opts ...DetectOption) ([]Face, error) {
	sdkImage, err := img.toSDK()
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "detecting faces",
			"source", img.source())
	}

	out, err := c.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      sdkImage,
		Attributes: []types.Attribute{types.AttributeAll},
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "face detection failed",
				"source", img.source(),
				"error", err)
		}
		return nil, classify(err, "failed to detect faces")
	}

	faces := make([]Face, 0, len(out.FaceDetails))
	for _, detail := range out.FaceDetails {
		face := Face{
			Box:        fromSDKBox(detail.BoundingBox),
			Confidence: float64(aws.ToFloat32(detail.Confidence)),
		}
		if detail.AgeRange != nil {
			face.AgeRange = AgeRange{
				Low:  int(aws.ToInt32(detail.AgeRange.Low)),
				High: int(aws.ToInt32(detail.AgeRange.High)),
			}
		}
		for _, emotion := range detail.Emotions {
			face.Emotions = append(face.Emotions, Emotion{
				Name:       string(emotion.Type),
				Confidence: float64(aws.ToFloat32(emotion.Confidence)),
			})
		}
		faces = append(faces, face)
	}

	return faces, nil
}

// source describes the image origin for log lines.
func (img Image) source() string {
	if len(img.data) > 0 {
		return fmt.Sprintf("%d inline bytes", len(img.data))
	}
	return img.bucket + "/" + img.key
}

// fromSDKGeometry extracts the bounding box from an SDK geometry, which may
// be absent.
func fromSDKGeometry(geometry *types.Geometry) BoundingBox {
	if geometry == nil {
		return BoundingBox{}
	}
	return fromSDKBox(geometry.BoundingBox)
}

// fromSDKBox converts an SDK bounding box to the package representation.
func fromSDKBox(box *types.BoundingBox) BoundingBox {
	if box == nil {
		return BoundingBox{}
	}
	return BoundingBox{
		Left:   float64(aws.ToFloat32(box.Left)),
		Top:    float64(aws.ToFloat32(box.Top)),
		Width:  float64(aws.ToFloat32(box.Width)),
		Height: float64(aws.ToFloat32(box.Height)),
	}
}
