package awsec2

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const (
	tagKeyName      = "Name"
	tagKeyManagedBy = "ManagedBy"

	tagValueManagedBy = "airstack"
)

// nameTagSpecification tags a resource with its fixed name plus the
// ManagedBy marker every airstack resource carries.
func nameTagSpecification(rt types.ResourceType, name string) []types.TagSpecification {
	return []types.TagSpecification{
		{
			ResourceType: rt,
			Tags: []types.Tag{
				{Key: aws.String(tagKeyName), Value: aws.String(name)},
				{Key: aws.String(tagKeyManagedBy), Value: aws.String(tagValueManagedBy)},
			},
		},
	}
}
