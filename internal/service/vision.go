package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const (
	maxPantryLabels     = 10
	minLabelConfidence  = 50
	dataURIBase64Marker = ";base64,"
)

// RekognitionAPI is the subset of the Rekognition client used for tagging
type RekognitionAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionDetector tags pantry photos with AWS Rekognition
type RekognitionDetector struct {
	client RekognitionAPI
}

func NewRekognitionDetector(client RekognitionAPI) *RekognitionDetector {
	return &RekognitionDetector{client: client}
}

// DetectLabels returns label names in the order Rekognition ranks them
func (d *RekognitionDetector) DetectLabels(ctx context.Context, image []byte) ([]string, error) {
	out, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &rektypes.Image{Bytes: image},
		MaxLabels:     aws.Int32(maxPantryLabels),
		MinConfidence: aws.Float32(minLabelConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: detect labels: %v", ErrExternalService, err)
	}

	labels := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name != nil && *l.Name != "" {
			labels = append(labels, *l.Name)
		}
	}
	return labels, nil
}

// decodeImage accepts raw base64 or a data URI
func decodeImage(encoded string) ([]byte, string, error) {
	encoded = strings.TrimSpace(encoded)
	contentType := "image/jpeg"
	if strings.HasPrefix(encoded, "data:") {
		idx := strings.Index(encoded, dataURIBase64Marker)
		if idx < 0 {
			return nil, "", fmt.Errorf("%w: invalid data URI", ErrInvalidInput)
		}
		contentType = encoded[len("data:"):idx]
		encoded = encoded[idx+len(dataURIBase64Marker):]
	}
	if encoded == "" {
		return nil, "", fmt.Errorf("%w: empty image", ErrInvalidInput)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: image is not valid base64", ErrInvalidInput)
	}
	return data, contentType, nil
}

// rawBase64 strips a data URI prefix so the chef client can add its own
func rawBase64(encoded string) string {
	encoded = strings.TrimSpace(encoded)
	if idx := strings.Index(encoded, dataURIBase64Marker); strings.HasPrefix(encoded, "data:") && idx >= 0 {
		return encoded[idx+len(dataURIBase64Marker):]
	}
	return encoded
}
