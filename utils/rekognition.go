package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionModerator flags explicit or violent profile images.
type RekognitionModerator struct {
	client        *rekognition.Client
	minConfidence float32
}

func NewRekognitionModerator(cfg aws.Config) *RekognitionModerator {
	return &RekognitionModerator{client: rekognition.NewFromConfig(cfg), minConfidence: 80}
}

// Check returns the moderation labels found in the image; an empty slice
// means the image is acceptable.
func (r *RekognitionModerator) Check(ctx context.Context, image []byte) ([]string, error) {
	out, err := r.client.DetectModerationLabels(ctx, &rekognition.DetectModerationLabelsInput{
		Image:         &types.Image{Bytes: image},
		MinConfidence: aws.Float32(r.minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("moderation failed: %w", err)
	}
	labels := make([]string, 0, len(out.ModerationLabels))
	for _, l := range out.ModerationLabels {
		labels = append(labels, aws.ToString(l.Name))
	}
	return labels, nil
}
