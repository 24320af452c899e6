package awsec2

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/chainguard-dev/clog"

	"github.com/airstackdev/airstack/internal/util/retry"
)

// CreateSecurityGroup creates a new security group and returns its ID.
func (c *RealClient) CreateSecurityGroup(ctx context.Context, name, description string) (string, error) {
	result, err := c.client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:   aws.String(name),
		Description: aws.String(description),
		TagSpecifications: nameTagSpecification(
			types.ResourceTypeSecurityGroup, name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create security group: %w", err)
	}
	if result.GroupId == nil {
		return "", fmt.Errorf("security group creation returned a nil ID")
	}
	return *result.GroupId, nil
}

// AuthorizeIngress opens a TCP port from the given CIDR.
func (c *RealClient) AuthorizeIngress(ctx context.Context, groupID, cidr string, port int32) error {
	_, err := c.client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId:    aws.String(groupID),
		IpProtocol: aws.String("tcp"),
		FromPort:   aws.Int32(port),
		ToPort:     aws.Int32(port),
		CidrIp:     aws.String(cidr),
	})
	if err != nil {
		if IsDuplicate(err) {
			// Rule already present from a previous run.
			return nil
		}
		return fmt.Errorf("failed to authorize ingress on port %d: %w", port, err)
	}
	return nil
}

// FindSecurityGroup returns the ID of the named group, or "" if absent.
func (c *RealClient) FindSecurityGroup(ctx context.Context, name string) (string, error) {
	result, err := c.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []types.Filter{
			{Name: aws.String("group-name"), Values: []string{name}},
		},
	})
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to describe security groups: %w", err)
	}
	if len(result.SecurityGroups) == 0 {
		return "", nil
	}
	return aws.ToString(result.SecurityGroups[0].GroupId), nil
}

// DeleteSecurityGroup deletes the named group. An already-absent group is not
// an error. Deletes are retried while a terminating instance still holds a
// reference to the group.
func (c *RealClient) DeleteSecurityGroup(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Delete)
	defer cancel()

	return retry.Do(ctx, func() error {
		groupID, err := c.FindSecurityGroup(ctx, name)
		if err != nil {
			return retry.Fatal(err)
		}
		if groupID == "" {
			clog.FromContext(ctx).Info("security group already gone", "name", name)
			return nil
		}
		_, err = c.client.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
			GroupId: aws.String(groupID),
		})
		if err != nil {
			if IsNotFound(err) {
				return nil
			}
			if isDependencyViolation(err) {
				return err
			}
			return retry.Fatal(fmt.Errorf("failed to delete security group: %w", err))
		}
		return nil
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
		// Terminating instances hold the group reference for a while.
		// Grow the delay gently and cap it so the Delete timeout is spent
		// on attempts rather than one long sleep.
		retry.WithMultiplier(1.5),
		retry.WithMaxDelay(10*time.Second))
}
