package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
)

// ListDomains returns every domain in the region.
func (c *RealClient) ListDomains(ctx context.Context) ([]Domain, error) {
	var domains []Domain
	paginator := sagemaker.NewListDomainsPaginator(c.sagemaker, &sagemaker.ListDomainsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list domains: %w", err)
		}
		for _, d := range page.Domains {
			domains = append(domains, Domain{
				ID:     awssdk.ToString(d.DomainId),
				Name:   awssdk.ToString(d.DomainName),
				Status: string(d.Status),
			})
		}
	}
	return domains, nil
}

// DescribeDomain returns a single domain by ID.
func (c *RealClient) DescribeDomain(ctx context.Context, domainID string) (*Domain, error) {
	out, err := c.sagemaker.DescribeDomain(ctx, &sagemaker.DescribeDomainInput{
		DomainId: awssdk.String(domainID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe domain %s: %w", domainID, err)
	}
	return &Domain{
		ID:     domainID,
		Name:   awssdk.ToString(out.DomainName),
		Status: string(out.Status),
	}, nil
}

// DeleteDomain deletes the domain and its home EFS file system.
func (c *RealClient) DeleteDomain(ctx context.Context, domainID string) error {
	_, err := c.sagemaker.DeleteDomain(ctx, &sagemaker.DeleteDomainInput{
		DomainId: awssdk.String(domainID),
		RetentionPolicy: &types.RetentionPolicy{
			HomeEfsFileSystem: types.RetentionTypeDelete,
		},
	})
	return err
}

// ListApps returns every app of a domain, including ones already Deleted.
func (c *RealClient) ListApps(ctx context.Context, domainID string) ([]App, error) {
	var apps []App
	paginator := sagemaker.NewListAppsPaginator(c.sagemaker, &sagemaker.ListAppsInput{
		DomainIdEquals: awssdk.String(domainID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list apps of %s: %w", domainID, err)
		}
		for _, a := range page.Apps {
			apps = append(apps, App{
				DomainID:        domainID,
				Name:            awssdk.ToString(a.AppName),
				Type:            string(a.AppType),
				UserProfileName: awssdk.ToString(a.UserProfileName),
				SpaceName:       awssdk.ToString(a.SpaceName),
				Status:          string(a.Status),
			})
		}
	}
	return apps, nil
}

// DeleteApp deletes an app owned by either a user profile or a space.
func (c *RealClient) DeleteApp(ctx context.Context, app App) error {
	input := &sagemaker.DeleteAppInput{
		DomainId: awssdk.String(app.DomainID),
		AppName:  awssdk.String(app.Name),
		AppType:  types.AppType(app.Type),
	}
	if app.SpaceName != "" {
		input.SpaceName = awssdk.String(app.SpaceName)
	} else {
		input.UserProfileName = awssdk.String(app.UserProfileName)
	}
	_, err := c.sagemaker.DeleteApp(ctx, input)
	return err
}

// ListSpaces returns every space of a domain.
func (c *RealClient) ListSpaces(ctx context.Context, domainID string) ([]Space, error) {
	var spaces []Space
	paginator := sagemaker.NewListSpacesPaginator(c.sagemaker, &sagemaker.ListSpacesInput{
		DomainIdEquals: awssdk.String(domainID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list spaces of %s: %w", domainID, err)
		}
		for _, s := range page.Spaces {
			spaces = append(spaces, Space{
				DomainID: domainID,
				Name:     awssdk.ToString(s.SpaceName),
				Status:   string(s.Status),
			})
		}
	}
	return spaces, nil
}

// DeleteSpace deletes a space.
func (c *RealClient) DeleteSpace(ctx context.Context, space Space) error {
	_, err := c.sagemaker.DeleteSpace(ctx, &sagemaker.DeleteSpaceInput{
		DomainId:  awssdk.String(space.DomainID),
		SpaceName: awssdk.String(space.Name),
	})
	return err
}

// ListUserProfiles returns every user profile of a domain.
func (c *RealClient) ListUserProfiles(ctx context.Context, domainID string) ([]UserProfile, error) {
	var profiles []UserProfile
	paginator := sagemaker.NewListUserProfilesPaginator(c.sagemaker, &sagemaker.ListUserProfilesInput{
		DomainIdEquals: awssdk.String(domainID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list user profiles of %s: %w", domainID, err)
		}
		for _, p := range page.UserProfiles {
			profiles = append(profiles, UserProfile{
				DomainID: domainID,
				Name:     awssdk.ToString(p.UserProfileName),
				Status:   string(p.Status),
			})
		}
	}
	return profiles, nil
}

// DeleteUserProfile deletes a user profile.
func (c *RealClient) DeleteUserProfile(ctx context.Context, profile UserProfile) error {
	_, err := c.sagemaker.DeleteUserProfile(ctx, &sagemaker.DeleteUserProfileInput{
		DomainId:        awssdk.String(profile.DomainID),
		UserProfileName: awssdk.String(profile.Name),
	})
	return err
}
