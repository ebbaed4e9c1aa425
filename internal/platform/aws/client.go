package aws

import "context"

// SageMaker lifecycle statuses shared by apps, spaces and user profiles.
const (
	StatusInService    = "InService"
	StatusPending      = "Pending"
	StatusUpdating     = "Updating"
	StatusDeleting     = "Deleting"
	StatusDeleted      = "Deleted"
	StatusFailed       = "Failed"
	StatusDeleteFailed = "Delete_Failed"
	StatusUpdateFailed = "Update_Failed"
)

// Domain is a SageMaker Studio domain.
type Domain struct {
	ID     string
	Name   string
	Status string
}

// App is a running compute session owned by a user profile or a space.
// Exactly one of UserProfileName and SpaceName is set.
type App struct {
	DomainID        string
	Name            string
	Type            string
	UserProfileName string
	SpaceName       string
	Status          string
}

// Owner returns the name of the user profile or space that owns the app.
func (a App) Owner() string {
	if a.SpaceName != "" {
		return a.SpaceName
	}
	return a.UserProfileName
}

// Key identifies the app within its domain as owner/type/name.
func (a App) Key() string {
	return a.Owner() + "/" + a.Type + "/" + a.Name
}

// Space is a shared workspace inside a domain.
type Space struct {
	DomainID string
	Name     string
	Status   string
}

// UserProfile is a per-user scope inside a domain.
type UserProfile struct {
	DomainID string
	Name     string
	Status   string
}

// Function is a Lambda function.
type Function struct {
	Name string
	ARN  string
}

// SecurityGroup identifies a group attached to a network interface.
type SecurityGroup struct {
	ID   string
	Name string
}

// NetworkInterface is an EC2 elastic network interface.
type NetworkInterface struct {
	ID             string
	Status         string
	Description    string
	SecurityGroups []SecurityGroup
}

// FileSystem is an EFS file system with its tags flattened into a map.
type FileSystem struct {
	ID   string
	Name string
	Tags map[string]string
}

// DomainAPI covers the SageMaker calls made while resolving and tearing
// down a domain.
type DomainAPI interface {
	ListDomains(ctx context.Context) ([]Domain, error)
	DescribeDomain(ctx context.Context, domainID string) (*Domain, error)
	// DeleteDomain deletes the domain together with its home EFS volume.
	DeleteDomain(ctx context.Context, domainID string) error

	ListApps(ctx context.Context, domainID string) ([]App, error)
	DeleteApp(ctx context.Context, app App) error
	ListSpaces(ctx context.Context, domainID string) ([]Space, error)
	DeleteSpace(ctx context.Context, space Space) error
	ListUserProfiles(ctx context.Context, domainID string) ([]UserProfile, error)
	DeleteUserProfile(ctx context.Context, profile UserProfile) error
}

// AuxiliaryAPI covers resources that are correlated to a domain only by
// naming convention or tags.
type AuxiliaryAPI interface {
	ListFunctions(ctx context.Context) ([]Function, error)
	DeleteFunction(ctx context.Context, name string) error

	ListNetworkInterfaces(ctx context.Context) ([]NetworkInterface, error)
	DeleteNetworkInterface(ctx context.Context, id string) error

	ListFileSystems(ctx context.Context) ([]FileSystem, error)
	ListMountTargets(ctx context.Context, fileSystemID string) ([]string, error)
	DeleteMountTarget(ctx context.Context, mountTargetID string) error
	DeleteFileSystem(ctx context.Context, fileSystemID string) error
}

// Provider is everything the teardown needs from the cloud.
type Provider interface {
	DomainAPI
	AuxiliaryAPI

	// CallerIdentity returns the account ID of the active credentials.
	CallerIdentity(ctx context.Context) (string, error)
}
