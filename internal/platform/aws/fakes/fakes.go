// Package fakes provides an in-memory Provider whose resources move through
// the SageMaker lifecycle on their own, for exercising teardown logic
// without an AWS account.
package fakes

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/smithy-go"

	"github.com/imamik/sagesweep/internal/platform/aws"
)

// Kind names a resource collection for failure injection and counters.
type Kind string

// Resource kinds known to the fake.
const (
	KindDomain           Kind = "domain"
	KindApp              Kind = "app"
	KindSpace            Kind = "space"
	KindUserProfile      Kind = "user-profile"
	KindFunction         Kind = "lambda-function"
	KindNetworkInterface Kind = "network-interface"
	KindFileSystem       Kind = "efs-file-system"
	KindMountTarget      Kind = "efs-mount-target"
)

// lifecycle tracks a child resource that was asked to delete itself.
type lifecycle struct {
	status    string
	pollsLeft int
	stuck     bool
}

// observe advances a Deleting resource by one listing and reports whether
// it is gone.
func (l *lifecycle) observe() bool {
	if l.status != aws.StatusDeleting || l.stuck {
		return false
	}
	if l.pollsLeft > 0 {
		l.pollsLeft--
		return false
	}
	return true
}

type appEntry struct {
	app aws.App
	lifecycle
}

type spaceEntry struct {
	space aws.Space
	lifecycle
}

type profileEntry struct {
	profile aws.UserProfile
	lifecycle
}

type fileSystemEntry struct {
	fs           aws.FileSystem
	mountTargets []string
	inUse        int
}

// Provider is a stateful fake implementing aws.Provider.
// It is safe for concurrent use.
type Provider struct {
	mu sync.Mutex

	account       string
	deletingPolls int

	domains     []*aws.Domain
	apps        []*appEntry
	spaces      []*spaceEntry
	profiles    []*profileEntry
	functions   []aws.Function
	enis        []aws.NetworkInterface
	fileSystems []*fileSystemEntry

	deleteFailures map[string]error
	listFailures   map[Kind]error
	stuck          map[string]bool

	mutations []string
	listings  map[Kind]int
}

// Ensure interface compliance
var _ aws.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithDeletingPolls sets how many listings a child keeps reporting
// Deleting after its delete call before it is gone.
func WithDeletingPolls(n int) Option {
	return func(p *Provider) { p.deletingPolls = n }
}

// WithAccount sets the account returned by CallerIdentity.
func WithAccount(account string) Option {
	return func(p *Provider) { p.account = account }
}

// New creates an empty fake provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		account:        "123456789012",
		deleteFailures: make(map[string]error),
		listFailures:   make(map[Kind]error),
		stuck:          make(map[string]bool),
		listings:       make(map[Kind]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func key(kind Kind, id string) string {
	return string(kind) + ":" + id
}

func notFound(kind Kind, id string) error {
	return &smithy.GenericAPIError{Code: "ResourceNotFound", Message: fmt.Sprintf("%s %s does not exist", kind, id)}
}

func inUse(code string, kind Kind, id string) error {
	return &smithy.GenericAPIError{Code: code, Message: fmt.Sprintf("%s %s is in use", kind, id)}
}

// AddDomain registers a domain.
func (p *Provider) AddDomain(d aws.Domain) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if d.Status == "" {
		d.Status = aws.StatusInService
	}
	p.domains = append(p.domains, &d)
}

func (p *Provider) newLifecycle(kind Kind, id, status string) lifecycle {
	if status == "" {
		status = aws.StatusInService
	}
	return lifecycle{status: status, pollsLeft: p.deletingPolls, stuck: p.stuck[key(kind, id)]}
}

// AddApp registers an app. Its Key is used for failure injection.
func (p *Provider) AddApp(a aws.App) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.apps = append(p.apps, &appEntry{app: a, lifecycle: p.newLifecycle(KindApp, a.Key(), a.Status)})
}

// AddSpace registers a space.
func (p *Provider) AddSpace(s aws.Space) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spaces = append(p.spaces, &spaceEntry{space: s, lifecycle: p.newLifecycle(KindSpace, s.Name, s.Status)})
}

// AddUserProfile registers a user profile.
func (p *Provider) AddUserProfile(u aws.UserProfile) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles = append(p.profiles, &profileEntry{profile: u, lifecycle: p.newLifecycle(KindUserProfile, u.Name, u.Status)})
}

// AddFunction registers a Lambda function.
func (p *Provider) AddFunction(f aws.Function) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.functions = append(p.functions, f)
}

// AddNetworkInterface registers a network interface.
func (p *Provider) AddNetworkInterface(eni aws.NetworkInterface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enis = append(p.enis, eni)
}

// AddFileSystem registers an EFS file system with its mount targets.
func (p *Provider) AddFileSystem(fs aws.FileSystem, mountTargets ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fileSystems = append(p.fileSystems, &fileSystemEntry{fs: fs, mountTargets: mountTargets})
}

// FailDelete makes every delete of the identified resource return err.
// Apps are identified by aws.App.Key, other children by name.
func (p *Provider) FailDelete(kind Kind, id string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleteFailures[key(kind, id)] = err
}

// FailList makes every listing of kind return err.
func (p *Provider) FailList(kind Kind, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listFailures[kind] = err
}

// StickInDeleting keeps the identified child in Deleting forever once it
// gets there. Call it before adding the resource.
func (p *Provider) StickInDeleting(kind Kind, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stuck[key(kind, id)] = true
}

// HoldFileSystemInUse makes the next n DeleteFileSystem calls for id fail
// with FileSystemInUse even after its mount targets are gone.
func (p *Provider) HoldFileSystemInUse(id string, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.fileSystems {
		if e.fs.ID == id {
			e.inUse = n
		}
	}
}

// Mutations returns every successful or attempted mutating call, in order.
func (p *Provider) Mutations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.mutations...)
}

// MutationCount returns the number of mutating calls made.
func (p *Provider) MutationCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.mutations)
}

// Listings returns how many times kind was listed.
func (p *Provider) Listings(kind Kind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listings[kind]
}

// Remaining returns the IDs of resources of kind that still exist and are
// not Deleted, sorted.
func (p *Provider) Remaining(kind Kind) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ids []string
	switch kind {
	case KindDomain:
		for _, d := range p.domains {
			ids = append(ids, d.ID)
		}
	case KindApp:
		for _, e := range p.apps {
			if e.status != aws.StatusDeleted {
				ids = append(ids, e.app.Key())
			}
		}
	case KindSpace:
		for _, e := range p.spaces {
			ids = append(ids, e.space.Name)
		}
	case KindUserProfile:
		for _, e := range p.profiles {
			ids = append(ids, e.profile.Name)
		}
	case KindFunction:
		for _, f := range p.functions {
			ids = append(ids, f.Name)
		}
	case KindNetworkInterface:
		for _, eni := range p.enis {
			ids = append(ids, eni.ID)
		}
	case KindFileSystem:
		for _, e := range p.fileSystems {
			ids = append(ids, e.fs.ID)
		}
	case KindMountTarget:
		for _, e := range p.fileSystems {
			ids = append(ids, e.mountTargets...)
		}
	}
	sort.Strings(ids)
	return ids
}

// mutate records a mutating call and returns the injected failure, if any.
// Callers must hold p.mu.
func (p *Provider) mutate(kind Kind, id string) error {
	p.mutations = append(p.mutations, fmt.Sprintf("delete %s %s", kind, id))
	return p.deleteFailures[key(kind, id)]
}

// list counts a listing and returns the injected failure, if any.
// Callers must hold p.mu.
func (p *Provider) list(kind Kind) error {
	p.listings[kind]++
	return p.listFailures[kind]
}

// CallerIdentity returns the configured account.
func (p *Provider) CallerIdentity(_ context.Context) (string, error) {
	return p.account, nil
}

// ListDomains returns every registered domain.
func (p *Provider) ListDomains(_ context.Context) ([]aws.Domain, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.list(KindDomain); err != nil {
		return nil, err
	}
	domains := make([]aws.Domain, 0, len(p.domains))
	for _, d := range p.domains {
		domains = append(domains, *d)
	}
	return domains, nil
}

// DescribeDomain returns a registered domain or a ResourceNotFound error.
func (p *Provider) DescribeDomain(_ context.Context, domainID string) (*aws.Domain, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.domains {
		if d.ID == domainID {
			out := *d
			return &out, nil
		}
	}
	return nil, notFound(KindDomain, domainID)
}

// DeleteDomain moves the domain to Deleting. Like the real API, it refuses
// while apps, spaces or user profiles of the domain still exist.
func (p *Provider) DeleteDomain(_ context.Context, domainID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.mutate(KindDomain, domainID); err != nil {
		return err
	}
	var domain *aws.Domain
	for _, d := range p.domains {
		if d.ID == domainID {
			domain = d
		}
	}
	if domain == nil {
		return notFound(KindDomain, domainID)
	}
	for _, e := range p.apps {
		if e.app.DomainID == domainID && e.status != aws.StatusDeleted {
			return inUse("ResourceInUse", KindDomain, domainID)
		}
	}
	for _, e := range p.spaces {
		if e.space.DomainID == domainID {
			return inUse("ResourceInUse", KindDomain, domainID)
		}
	}
	for _, e := range p.profiles {
		if e.profile.DomainID == domainID {
			return inUse("ResourceInUse", KindDomain, domainID)
		}
	}
	domain.Status = aws.StatusDeleting
	return nil
}

// ListApps returns the apps of a domain, advancing any that are Deleting.
// Apps that finished deleting stay listed with status Deleted.
func (p *Provider) ListApps(_ context.Context, domainID string) ([]aws.App, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.list(KindApp); err != nil {
		return nil, err
	}
	var apps []aws.App
	for _, e := range p.apps {
		if e.app.DomainID != domainID {
			continue
		}
		if e.observe() {
			e.status = aws.StatusDeleted
		}
		a := e.app
		a.Status = e.status
		apps = append(apps, a)
	}
	return apps, nil
}

// DeleteApp moves an app to Deleting.
func (p *Provider) DeleteApp(_ context.Context, app aws.App) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.mutate(KindApp, app.Key()); err != nil {
		return err
	}
	for _, e := range p.apps {
		if e.app.DomainID == app.DomainID && e.app.Key() == app.Key() && e.status != aws.StatusDeleted {
			e.status = aws.StatusDeleting
			e.pollsLeft = p.deletingPolls
			return nil
		}
	}
	return notFound(KindApp, app.Key())
}

// ListSpaces returns the spaces of a domain, dropping finished deletions.
func (p *Provider) ListSpaces(_ context.Context, domainID string) ([]aws.Space, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.list(KindSpace); err != nil {
		return nil, err
	}
	var spaces []aws.Space
	kept := p.spaces[:0]
	for _, e := range p.spaces {
		if e.space.DomainID == domainID {
			if e.observe() {
				continue
			}
			s := e.space
			s.Status = e.status
			spaces = append(spaces, s)
		}
		kept = append(kept, e)
	}
	p.spaces = kept
	return spaces, nil
}

// DeleteSpace moves a space to Deleting. It refuses while the space still
// owns apps that are not Deleted.
func (p *Provider) DeleteSpace(_ context.Context, space aws.Space) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.mutate(KindSpace, space.Name); err != nil {
		return err
	}
	for _, e := range p.apps {
		if e.app.DomainID == space.DomainID && e.app.SpaceName == space.Name && e.status != aws.StatusDeleted {
			return inUse("ResourceInUse", KindSpace, space.Name)
		}
	}
	for _, e := range p.spaces {
		if e.space.DomainID == space.DomainID && e.space.Name == space.Name {
			e.status = aws.StatusDeleting
			e.pollsLeft = p.deletingPolls
			return nil
		}
	}
	return notFound(KindSpace, space.Name)
}

// ListUserProfiles returns the user profiles of a domain, dropping
// finished deletions.
func (p *Provider) ListUserProfiles(_ context.Context, domainID string) ([]aws.UserProfile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.list(KindUserProfile); err != nil {
		return nil, err
	}
	var profiles []aws.UserProfile
	kept := p.profiles[:0]
	for _, e := range p.profiles {
		if e.profile.DomainID == domainID {
			if e.observe() {
				continue
			}
			u := e.profile
			u.Status = e.status
			profiles = append(profiles, u)
		}
		kept = append(kept, e)
	}
	p.profiles = kept
	return profiles, nil
}

// DeleteUserProfile moves a user profile to Deleting. It refuses while the
// profile still owns apps that are not Deleted.
func (p *Provider) DeleteUserProfile(_ context.Context, profile aws.UserProfile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.mutate(KindUserProfile, profile.Name); err != nil {
		return err
	}
	for _, e := range p.apps {
		if e.app.DomainID == profile.DomainID && e.app.UserProfileName == profile.Name && e.status != aws.StatusDeleted {
			return inUse("ResourceInUse", KindUserProfile, profile.Name)
		}
	}
	for _, e := range p.profiles {
		if e.profile.DomainID == profile.DomainID && e.profile.Name == profile.Name {
			e.status = aws.StatusDeleting
			e.pollsLeft = p.deletingPolls
			return nil
		}
	}
	return notFound(KindUserProfile, profile.Name)
}

// ListFunctions returns every registered Lambda function.
func (p *Provider) ListFunctions(_ context.Context) ([]aws.Function, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.list(KindFunction); err != nil {
		return nil, err
	}
	return append([]aws.Function(nil), p.functions...), nil
}

// DeleteFunction removes a Lambda function.
func (p *Provider) DeleteFunction(_ context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.mutate(KindFunction, name); err != nil {
		return err
	}
	for i, f := range p.functions {
		if f.Name == name {
			p.functions = append(p.functions[:i], p.functions[i+1:]...)
			return nil
		}
	}
	return &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "function not found: " + name}
}

// ListNetworkInterfaces returns every registered network interface.
func (p *Provider) ListNetworkInterfaces(_ context.Context) ([]aws.NetworkInterface, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.list(KindNetworkInterface); err != nil {
		return nil, err
	}
	return append([]aws.NetworkInterface(nil), p.enis...), nil
}

// DeleteNetworkInterface removes a network interface.
func (p *Provider) DeleteNetworkInterface(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.mutate(KindNetworkInterface, id); err != nil {
		return err
	}
	for i, eni := range p.enis {
		if eni.ID == id {
			p.enis = append(p.enis[:i], p.enis[i+1:]...)
			return nil
		}
	}
	return &smithy.GenericAPIError{Code: "InvalidNetworkInterfaceID.NotFound", Message: "interface not found: " + id}
}

// ListFileSystems returns every registered EFS file system.
func (p *Provider) ListFileSystems(_ context.Context) ([]aws.FileSystem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.list(KindFileSystem); err != nil {
		return nil, err
	}
	fss := make([]aws.FileSystem, 0, len(p.fileSystems))
	for _, e := range p.fileSystems {
		fss = append(fss, e.fs)
	}
	return fss, nil
}

// ListMountTargets returns the mount targets of a file system.
func (p *Provider) ListMountTargets(_ context.Context, fileSystemID string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.list(KindMountTarget); err != nil {
		return nil, err
	}
	for _, e := range p.fileSystems {
		if e.fs.ID == fileSystemID {
			return append([]string(nil), e.mountTargets...), nil
		}
	}
	return nil, &smithy.GenericAPIError{Code: "FileSystemNotFound", Message: "file system not found: " + fileSystemID}
}

// DeleteMountTarget removes a mount target.
func (p *Provider) DeleteMountTarget(_ context.Context, mountTargetID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.mutate(KindMountTarget, mountTargetID); err != nil {
		return err
	}
	for _, e := range p.fileSystems {
		for i, mt := range e.mountTargets {
			if mt == mountTargetID {
				e.mountTargets = append(e.mountTargets[:i], e.mountTargets[i+1:]...)
				return nil
			}
		}
	}
	return &smithy.GenericAPIError{Code: "MountTargetNotFound", Message: "mount target not found: " + mountTargetID}
}

// DeleteFileSystem removes a file system. It fails with FileSystemInUse
// while mount targets remain or an in-use hold is active.
func (p *Provider) DeleteFileSystem(_ context.Context, fileSystemID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.mutate(KindFileSystem, fileSystemID); err != nil {
		return err
	}
	for i, e := range p.fileSystems {
		if e.fs.ID != fileSystemID {
			continue
		}
		if len(e.mountTargets) > 0 || e.inUse > 0 {
			if e.inUse > 0 {
				e.inUse--
			}
			return inUse("FileSystemInUse", KindFileSystem, fileSystemID)
		}
		p.fileSystems = append(p.fileSystems[:i], p.fileSystems[i+1:]...)
		return nil
	}
	return &smithy.GenericAPIError{Code: "FileSystemNotFound", Message: "file system not found: " + fileSystemID}
}
