package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/efs"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// ListFunctions returns every Lambda function in the region.
func (c *RealClient) ListFunctions(ctx context.Context) ([]Function, error) {
	var functions []Function
	paginator := lambda.NewListFunctionsPaginator(c.lambda, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list lambda functions: %w", err)
		}
		for _, f := range page.Functions {
			functions = append(functions, Function{
				Name: awssdk.ToString(f.FunctionName),
				ARN:  awssdk.ToString(f.FunctionArn),
			})
		}
	}
	return functions, nil
}

// DeleteFunction deletes a Lambda function by name.
func (c *RealClient) DeleteFunction(ctx context.Context, name string) error {
	_, err := c.lambda.DeleteFunction(ctx, &lambda.DeleteFunctionInput{
		FunctionName: awssdk.String(name),
	})
	return err
}

// ListNetworkInterfaces returns every network interface in the region.
func (c *RealClient) ListNetworkInterfaces(ctx context.Context) ([]NetworkInterface, error) {
	var enis []NetworkInterface
	paginator := ec2.NewDescribeNetworkInterfacesPaginator(c.ec2, &ec2.DescribeNetworkInterfacesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe network interfaces: %w", err)
		}
		for _, eni := range page.NetworkInterfaces {
			groups := make([]SecurityGroup, 0, len(eni.Groups))
			for _, g := range eni.Groups {
				groups = append(groups, SecurityGroup{
					ID:   awssdk.ToString(g.GroupId),
					Name: awssdk.ToString(g.GroupName),
				})
			}
			enis = append(enis, NetworkInterface{
				ID:             awssdk.ToString(eni.NetworkInterfaceId),
				Status:         string(eni.Status),
				Description:    awssdk.ToString(eni.Description),
				SecurityGroups: groups,
			})
		}
	}
	return enis, nil
}

// DeleteNetworkInterface deletes a network interface by ID.
func (c *RealClient) DeleteNetworkInterface(ctx context.Context, id string) error {
	_, err := c.ec2.DeleteNetworkInterface(ctx, &ec2.DeleteNetworkInterfaceInput{
		NetworkInterfaceId: awssdk.String(id),
	})
	return err
}

// ListFileSystems returns every EFS file system in the region.
func (c *RealClient) ListFileSystems(ctx context.Context) ([]FileSystem, error) {
	var fileSystems []FileSystem
	paginator := efs.NewDescribeFileSystemsPaginator(c.efs, &efs.DescribeFileSystemsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe file systems: %w", err)
		}
		for _, fs := range page.FileSystems {
			tags := make(map[string]string, len(fs.Tags))
			for _, tag := range fs.Tags {
				tags[awssdk.ToString(tag.Key)] = awssdk.ToString(tag.Value)
			}
			fileSystems = append(fileSystems, FileSystem{
				ID:   awssdk.ToString(fs.FileSystemId),
				Name: awssdk.ToString(fs.Name),
				Tags: tags,
			})
		}
	}
	return fileSystems, nil
}

// ListMountTargets returns the mount target IDs of a file system.
func (c *RealClient) ListMountTargets(ctx context.Context, fileSystemID string) ([]string, error) {
	var ids []string
	input := &efs.DescribeMountTargetsInput{FileSystemId: awssdk.String(fileSystemID)}
	for {
		out, err := c.efs.DescribeMountTargets(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to describe mount targets of %s: %w", fileSystemID, err)
		}
		for _, mt := range out.MountTargets {
			ids = append(ids, awssdk.ToString(mt.MountTargetId))
		}
		if awssdk.ToString(out.NextMarker) == "" {
			return ids, nil
		}
		input.Marker = out.NextMarker
	}
}

// DeleteMountTarget deletes a single mount target.
func (c *RealClient) DeleteMountTarget(ctx context.Context, mountTargetID string) error {
	_, err := c.efs.DeleteMountTarget(ctx, &efs.DeleteMountTargetInput{
		MountTargetId: awssdk.String(mountTargetID),
	})
	return err
}

// DeleteFileSystem deletes a file system. It fails with FileSystemInUse
// while mount targets still exist.
func (c *RealClient) DeleteFileSystem(ctx context.Context, fileSystemID string) error {
	_, err := c.efs.DeleteFileSystem(ctx, &efs.DeleteFileSystemInput{
		FileSystemId: awssdk.String(fileSystemID),
	})
	return err
}
