package awsec2

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/airstackdev/airstack/internal/config"
)

// RealClient implements InfrastructureManager against the EC2 API.
type RealClient struct {
	client   *ec2.Client
	timeouts *config.Timeouts
}

// NewRealClient builds a client for the given region using the default AWS
// credential chain.
func NewRealClient(ctx context.Context, region string) (*RealClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &RealClient{
		client:   ec2.NewFromConfig(awsCfg),
		timeouts: config.LoadTimeouts(),
	}, nil
}

// Ensure interface compliance.
var _ InfrastructureManager = (*RealClient)(nil)
