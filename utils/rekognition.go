package utils

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rektypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

var rekClient *rekognition.Client

// InitRekognition prepares the label-detection client. Optional; photo
// analysis falls back to the AI resolver when unavailable.
func InitRekognition(ctx context.Context) error {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		return fmt.Errorf("AWS_REGION not set")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}
	rekClient = rekognition.NewFromConfig(cfg)
	return nil
}

func RekognitionConfigured() bool {
	return rekClient != nil
}

// DetectFoodLabels returns label names found in the image, best first.
func DetectFoodLabels(ctx context.Context, image []byte) ([]string, error) {
	if rekClient == nil {
		return nil, fmt.Errorf("rekognition not configured")
	}
	out, err := rekClient.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &rektypes.Image{Bytes: image},
		MaxLabels:     awsInt32(10),
		MinConfidence: awsFloat32(70),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}
	labels := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name != nil {
			labels = append(labels, *l.Name)
		}
	}
	return labels, nil
}

func awsInt32(v int32) *int32       { return &v }
func awsFloat32(v float32) *float32 { return &v }
