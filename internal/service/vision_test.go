package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRekognition struct {
	input *rekognition.DetectLabelsInput
	out   *rekognition.DetectLabelsOutput
	err   error
}

func (f *fakeRekognition) DetectLabels(_ context.Context, in *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.input = in
	return f.out, f.err
}

func TestRekognitionDetector(t *testing.T) {
	fake := &fakeRekognition{out: &rekognition.DetectLabelsOutput{
		Labels: []rektypes.Label{
			{Name: aws.String("Tomato")},
			{Name: nil},
			{Name: aws.String("Vegetable")},
		},
	}}

	labels, err := NewRekognitionDetector(fake).DetectLabels(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Tomato", "Vegetable"}, labels)
	assert.Equal(t, []byte("img"), fake.input.Image.Bytes)
	assert.Equal(t, int32(maxPantryLabels), aws.ToInt32(fake.input.MaxLabels))
	assert.Equal(t, float32(minLabelConfidence), aws.ToFloat32(fake.input.MinConfidence))
}

func TestRekognitionDetectorError(t *testing.T) {
	_, err := NewRekognitionDetector(&fakeRekognition{err: errors.New("throttled")}).
		DetectLabels(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrExternalService)
}

func TestDecodeImage(t *testing.T) {
	data, ct, err := decodeImage("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "image/png", ct)

	data, ct, err = decodeImage("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "image/jpeg", ct)

	for _, bad := range []string{"", "data:image/png,aGVsbG8=", "not base64!"} {
		_, _, err := decodeImage(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}

	assert.Equal(t, "aGVsbG8=", rawBase64("data:image/png;base64,aGVsbG8="))
	assert.Equal(t, "aGVsbG8=", rawBase64("aGVsbG8="))
}
