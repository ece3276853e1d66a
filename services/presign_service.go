package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Arbitrary-Inquiry/product-site/config"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presigned URLs outlive the redirect response only briefly; the 30-day
// access window is enforced at the route, not here.
const downloadURLExpiry = 15 * time.Minute

type PresignServiceAPI interface {
	PresignDownload(ctx context.Context, objectKey string) (string, error)
}

// PresignService signs time-limited GET URLs against the R2 bucket holding
// the installers. R2 speaks the S3 API, so this is a stock S3 presign
// client pointed at the account's R2 endpoint.
type PresignService struct {
	presigner *s3.PresignClient
	bucket    string
}

func NewPresignService(ctx context.Context, cfg *config.Config) (*PresignService, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	awsCfg.EndpointResolverWithOptions = sdkaws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (sdkaws.Endpoint, error) {
			return sdkaws.Endpoint{
				URL:               endpoint,
				SigningRegion:     "auto",
				HostnameImmutable: true,
			}, nil
		})

	client := s3.NewFromConfig(awsCfg)
	return &PresignService{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.R2Bucket,
	}, nil
}

func (s *PresignService) PresignDownload(ctx context.Context, objectKey string) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &objectKey,
	}

	presigned, err := s.presigner.PresignGetObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = downloadURLExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign get object: %w", err)
	}
	return presigned.URL, nil
}
