package awsec2

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/chainguard-dev/clog"

	"github.com/airstackdev/airstack/internal/util/retry"
)

// ubuntuOwnerID is Canonical's AWS account, the publisher of official
// Ubuntu images.
const ubuntuOwnerID = "099720109477"

// ubuntuNamePattern matches the current Ubuntu LTS server images.
const ubuntuNamePattern = "ubuntu/images/hvm-ssd-gp3/ubuntu-noble-24.04-amd64-server-*"

// LaunchInstance launches a new instance and returns its ID.
func (c *RealClient) LaunchInstance(ctx context.Context, opts LaunchOpts) (string, error) {
	var instanceID string
	err := retry.Do(ctx, func() error {
		result, err := c.client.RunInstances(ctx, &ec2.RunInstancesInput{
			ImageId:          aws.String(opts.AMI),
			InstanceType:     types.InstanceType(opts.InstanceType),
			MinCount:         aws.Int32(1),
			MaxCount:         aws.Int32(1),
			KeyName:          aws.String(opts.KeyPairName),
			SecurityGroupIds: []string{opts.SecurityGroupID},
			TagSpecifications: nameTagSpecification(
				types.ResourceTypeInstance, opts.Name),
		})
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Fatal(err)
			}
			return err
		}
		if len(result.Instances) == 0 || result.Instances[0].InstanceId == nil {
			return retry.Fatal(fmt.Errorf("launch returned no instance"))
		}
		instanceID = *result.Instances[0].InstanceId
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))

	if err != nil {
		return "", fmt.Errorf("failed to launch instance: %w", err)
	}
	return instanceID, nil
}

// TerminateInstance terminates the instance with the given ID.
// An already-absent instance is not an error.
func (c *RealClient) TerminateInstance(ctx context.Context, instanceID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Delete)
	defer cancel()

	_, err := c.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		if IsNotFound(err) {
			clog.FromContext(ctx).Info("instance already gone", "id", instanceID)
			return nil
		}
		return fmt.Errorf("failed to terminate instance: %w", err)
	}
	return nil
}

// FindInstanceByName returns the first non-terminated instance carrying the
// given Name tag, or nil if none matches.
func (c *RealClient) FindInstanceByName(ctx context.Context, name string) (*Instance, error) {
	result, err := c.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{Name: aws.String("tag:" + tagKeyName), Values: []string{name}},
			{Name: aws.String("instance-state-name"), Values: []string{
				StatePending, StateRunning, StateStopped, "stopping", "shutting-down",
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instances: %w", err)
	}
	for _, reservation := range result.Reservations {
		for _, inst := range reservation.Instances {
			return fromSDKInstance(inst), nil
		}
	}
	return nil, nil
}

// DescribeInstance returns the instance with the given ID, or nil if it does
// not exist.
func (c *RealClient) DescribeInstance(ctx context.Context, instanceID string) (*Instance, error) {
	result, err := c.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe instance: %w", err)
	}
	for _, reservation := range result.Reservations {
		for _, inst := range reservation.Instances {
			return fromSDKInstance(inst), nil
		}
	}
	return nil, nil
}

// WaitInstanceState polls every five seconds until the instance reaches the
// given state or the context deadline passes.
func (c *RealClient) WaitInstanceState(ctx context.Context, instanceID, state string) error {
	log := clog.FromContext(ctx).With("id", instanceID, "want", state)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for instance state %s: %w", state, ctx.Err())
		case <-ticker.C:
			inst, err := c.DescribeInstance(ctx, instanceID)
			if err != nil {
				return err
			}
			if inst == nil {
				// A terminated instance eventually stops being described.
				if state == StateTerminated {
					return nil
				}
				return fmt.Errorf("instance %s no longer exists", instanceID)
			}
			if inst.State == state {
				return nil
			}
			log.Debug("still waiting for instance state", "current", inst.State)
		}
	}
}

// ResolveImage returns the AMI to launch. A non-empty ami is returned
// as-is; otherwise the newest Ubuntu LTS image is looked up.
func (c *RealClient) ResolveImage(ctx context.Context, ami string) (string, error) {
	if ami != "" {
		return ami, nil
	}

	result, err := c.client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Owners: []string{ubuntuOwnerID},
		Filters: []types.Filter{
			{Name: aws.String("name"), Values: []string{ubuntuNamePattern}},
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to look up Ubuntu image: %w", err)
	}
	if len(result.Images) == 0 {
		return "", fmt.Errorf("no Ubuntu image matched %q", ubuntuNamePattern)
	}

	images := result.Images
	sort.Slice(images, func(i, j int) bool {
		return aws.ToString(images[i].CreationDate) > aws.ToString(images[j].CreationDate)
	})
	newest := images[0]
	if newest.ImageId == nil {
		return "", fmt.Errorf("image lookup returned a nil image ID")
	}
	clog.FromContext(ctx).Debug("resolved Ubuntu image", "ami", *newest.ImageId, "name", aws.ToString(newest.Name))
	return *newest.ImageId, nil
}

// fromSDKInstance converts the SDK instance into the package's model.
func fromSDKInstance(inst types.Instance) *Instance {
	out := &Instance{
		ID:       aws.ToString(inst.InstanceId),
		PublicIP: aws.ToString(inst.PublicIpAddress),
		Type:     string(inst.InstanceType),
	}
	if inst.State != nil {
		out.State = string(inst.State.Name)
	}
	for _, tag := range inst.Tags {
		if aws.ToString(tag.Key) == tagKeyName {
			out.Name = aws.ToString(tag.Value)
		}
	}
	return out
}
