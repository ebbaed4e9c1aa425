package aws

import "context"

// MockClient is a mock implementation of Provider.
type MockClient struct {
	ListDomainsFunc       func(ctx context.Context) ([]Domain, error)
	DescribeDomainFunc    func(ctx context.Context, domainID string) (*Domain, error)
	DeleteDomainFunc      func(ctx context.Context, domainID string) error
	ListAppsFunc          func(ctx context.Context, domainID string) ([]App, error)
	DeleteAppFunc         func(ctx context.Context, app App) error
	ListSpacesFunc        func(ctx context.Context, domainID string) ([]Space, error)
	DeleteSpaceFunc       func(ctx context.Context, space Space) error
	ListUserProfilesFunc  func(ctx context.Context, domainID string) ([]UserProfile, error)
	DeleteUserProfileFunc func(ctx context.Context, profile UserProfile) error

	// Lambda
	ListFunctionsFunc  func(ctx context.Context) ([]Function, error)
	DeleteFunctionFunc func(ctx context.Context, name string) error

	// EC2
	ListNetworkInterfacesFunc  func(ctx context.Context) ([]NetworkInterface, error)
	DeleteNetworkInterfaceFunc func(ctx context.Context, id string) error

	// EFS
	ListFileSystemsFunc   func(ctx context.Context) ([]FileSystem, error)
	ListMountTargetsFunc  func(ctx context.Context, fileSystemID string) ([]string, error)
	DeleteMountTargetFunc func(ctx context.Context, mountTargetID string) error
	DeleteFileSystemFunc  func(ctx context.Context, fileSystemID string) error

	CallerIdentityFunc func(ctx context.Context) (string, error)
}

// Ensure interface compliance
var _ Provider = (*MockClient)(nil)

// ListDomains mocks domain listing.
func (m *MockClient) ListDomains(ctx context.Context) ([]Domain, error) {
	if m.ListDomainsFunc != nil {
		return m.ListDomainsFunc(ctx)
	}
	return nil, nil
}

// DescribeDomain mocks domain lookup.
func (m *MockClient) DescribeDomain(ctx context.Context, domainID string) (*Domain, error) {
	if m.DescribeDomainFunc != nil {
		return m.DescribeDomainFunc(ctx, domainID)
	}
	return &Domain{ID: domainID, Name: "mock-domain", Status: StatusInService}, nil
}

// DeleteDomain mocks domain deletion.
func (m *MockClient) DeleteDomain(ctx context.Context, domainID string) error {
	if m.DeleteDomainFunc != nil {
		return m.DeleteDomainFunc(ctx, domainID)
	}
	return nil
}

// ListApps mocks app listing.
func (m *MockClient) ListApps(ctx context.Context, domainID string) ([]App, error) {
	if m.ListAppsFunc != nil {
		return m.ListAppsFunc(ctx, domainID)
	}
	return nil, nil
}

// DeleteApp mocks app deletion.
func (m *MockClient) DeleteApp(ctx context.Context, app App) error {
	if m.DeleteAppFunc != nil {
		return m.DeleteAppFunc(ctx, app)
	}
	return nil
}

// ListSpaces mocks space listing.
func (m *MockClient) ListSpaces(ctx context.Context, domainID string) ([]Space, error) {
	if m.ListSpacesFunc != nil {
		return m.ListSpacesFunc(ctx, domainID)
	}
	return nil, nil
}

// DeleteSpace mocks space deletion.
func (m *MockClient) DeleteSpace(ctx context.Context, space Space) error {
	if m.DeleteSpaceFunc != nil {
		return m.DeleteSpaceFunc(ctx, space)
	}
	return nil
}

// ListUserProfiles mocks user profile listing.
func (m *MockClient) ListUserProfiles(ctx context.Context, domainID string) ([]UserProfile, error) {
	if m.ListUserProfilesFunc != nil {
		return m.ListUserProfilesFunc(ctx, domainID)
	}
	return nil, nil
}

// DeleteUserProfile mocks user profile deletion.
func (m *MockClient) DeleteUserProfile(ctx context.Context, profile UserProfile) error {
	if m.DeleteUserProfileFunc != nil {
		return m.DeleteUserProfileFunc(ctx, profile)
	}
	return nil
}

// ListFunctions mocks Lambda function listing.
func (m *MockClient) ListFunctions(ctx context.Context) ([]Function, error) {
	if m.ListFunctionsFunc != nil {
		return m.ListFunctionsFunc(ctx)
	}
	return nil, nil
}

// DeleteFunction mocks Lambda function deletion.
func (m *MockClient) DeleteFunction(ctx context.Context, name string) error {
	if m.DeleteFunctionFunc != nil {
		return m.DeleteFunctionFunc(ctx, name)
	}
	return nil
}

// ListNetworkInterfaces mocks network interface listing.
func (m *MockClient) ListNetworkInterfaces(ctx context.Context) ([]NetworkInterface, error) {
	if m.ListNetworkInterfacesFunc != nil {
		return m.ListNetworkInterfacesFunc(ctx)
	}
	return nil, nil
}

// DeleteNetworkInterface mocks network interface deletion.
func (m *MockClient) DeleteNetworkInterface(ctx context.Context, id string) error {
	if m.DeleteNetworkInterfaceFunc != nil {
		return m.DeleteNetworkInterfaceFunc(ctx, id)
	}
	return nil
}

// ListFileSystems mocks EFS file system listing.
func (m *MockClient) ListFileSystems(ctx context.Context) ([]FileSystem, error) {
	if m.ListFileSystemsFunc != nil {
		return m.ListFileSystemsFunc(ctx)
	}
	return nil, nil
}

// ListMountTargets mocks mount target listing.
func (m *MockClient) ListMountTargets(ctx context.Context, fileSystemID string) ([]string, error) {
	if m.ListMountTargetsFunc != nil {
		return m.ListMountTargetsFunc(ctx, fileSystemID)
	}
	return nil, nil
}

// DeleteMountTarget mocks mount target deletion.
func (m *MockClient) DeleteMountTarget(ctx context.Context, mountTargetID string) error {
	if m.DeleteMountTargetFunc != nil {
		return m.DeleteMountTargetFunc(ctx, mountTargetID)
	}
	return nil
}

// DeleteFileSystem mocks EFS file system deletion.
func (m *MockClient) DeleteFileSystem(ctx context.Context, fileSystemID string) error {
	if m.DeleteFileSystemFunc != nil {
		return m.DeleteFileSystemFunc(ctx, fileSystemID)
	}
	return nil
}

// CallerIdentity mocks the STS account lookup.
func (m *MockClient) CallerIdentity(ctx context.Context) (string, error) {
	if m.CallerIdentityFunc != nil {
		return m.CallerIdentityFunc(ctx)
	}
	return "123456789012", nil
}
