package awsec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/chainguard-dev/clog"
)

// ImportKeyPair registers the public half of a locally generated key and
// returns the key pair ID.
func (c *RealClient) ImportKeyPair(ctx context.Context, name string, publicKey []byte) (string, error) {
	result, err := c.client.ImportKeyPair(ctx, &ec2.ImportKeyPairInput{
		KeyName:           aws.String(name),
		PublicKeyMaterial: publicKey,
		TagSpecifications: nameTagSpecification(
			types.ResourceTypeKeyPair, name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to import key pair: %w", err)
	}
	if result.KeyPairId == nil {
		return "", fmt.Errorf("key pair import returned a nil ID")
	}
	return *result.KeyPairId, nil
}

// DeleteKeyPair deletes the named key pair. An already-absent key pair is
// not an error.
func (c *RealClient) DeleteKeyPair(ctx context.Context, name string) error {
	_, err := c.client.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{
		KeyName: aws.String(name),
	})
	if err != nil {
		if IsNotFound(err) {
			clog.FromContext(ctx).Info("key pair already gone", "name", name)
			return nil
		}
		return fmt.Errorf("failed to delete key pair: %w", err)
	}
	return nil
}
