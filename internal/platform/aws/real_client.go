package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// RealClient implements Provider using the AWS APIs.
type RealClient struct {
	sagemaker SageMakerClient
	lambda    LambdaClient
	ec2       EC2Client
	efs       EFSClient
	sts       STSClient
}

// Options controls how the AWS configuration is loaded.
type Options struct {
	Region string
	// EndpointURL points every service at one endpoint, e.g. a local emulator.
	EndpointURL string
	// Static credentials replace the default chain when AccessKeyID is set.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithSageMakerClient replaces the SageMaker client (useful for testing).
func WithSageMakerClient(c SageMakerClient) ClientOption {
	return func(r *RealClient) { r.sagemaker = c }
}

// WithLambdaClient replaces the Lambda client (useful for testing).
func WithLambdaClient(c LambdaClient) ClientOption {
	return func(r *RealClient) { r.lambda = c }
}

// WithEC2Client replaces the EC2 client (useful for testing).
func WithEC2Client(c EC2Client) ClientOption {
	return func(r *RealClient) { r.ec2 = c }
}

// WithEFSClient replaces the EFS client (useful for testing).
func WithEFSClient(c EFSClient) ClientOption {
	return func(r *RealClient) { r.efs = c }
}

// WithSTSClient replaces the STS client (useful for testing).
func WithSTSClient(c STSClient) ClientOption {
	return func(r *RealClient) { r.sts = c }
}

// LoadConfig resolves the AWS configuration from the default chain,
// applying the region, endpoint and optional static credentials.
func LoadConfig(ctx context.Context, opts Options) (awssdk.Config, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken),
		))
	}
	if opts.EndpointURL != "" {
		loadOpts = append(loadOpts, awsconfig.WithBaseEndpoint(opts.EndpointURL))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewRealClient creates a client for every service the teardown uses.
func NewRealClient(cfg awssdk.Config, opts ...ClientOption) *RealClient {
	c := &RealClient{
		sagemaker: sagemaker.NewFromConfig(cfg),
		lambda:    lambda.NewFromConfig(cfg),
		ec2:       ec2.NewFromConfig(cfg),
		efs:       efs.NewFromConfig(cfg),
		sts:       sts.NewFromConfig(cfg),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallerIdentity returns the account ID of the active credentials.
func (c *RealClient) CallerIdentity(ctx context.Context) (string, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("unable to get AWS account ID: %w", err)
	}
	return awssdk.ToString(out.Account), nil
}
