package teardown_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/sagesweep/internal/config"
	"github.com/imamik/sagesweep/internal/platform/aws"
	"github.com/imamik/sagesweep/internal/platform/aws/fakes"
	"github.com/imamik/sagesweep/internal/teardown"
	"github.com/imamik/sagesweep/internal/util/retry"
)

func scenarioOptions(dryRun bool, rec *teardown.RecordingObserver) teardown.Options {
	opts := teardown.OptionsFromConfig(config.Default())
	opts.DryRun = dryRun
	opts.PollPolicy = retry.Policy{MaxAttempts: 5, InitialDelay: time.Millisecond, Multiplier: 1}
	opts.InUsePolicy = retry.Policy{MaxAttempts: 2, InitialDelay: time.Millisecond, Multiplier: 1}
	opts.Observer = rec
	return opts
}

var _ = Describe("Teardown scenarios", func() {
	var (
		ctx      context.Context
		provider *fakes.Provider
		rec      *teardown.RecordingObserver
	)

	BeforeEach(func() {
		ctx = context.Background()
		provider = fakes.New()
		rec = &teardown.RecordingObserver{}
	})

	Describe("resolving a project-id suffix", func() {
		It("selects only domains whose name ends with the suffix", func() {
			provider.AddDomain(aws.Domain{ID: "d-7", Name: "ds-team7"})
			provider.AddDomain(aws.Domain{ID: "d-9", Name: "ds-team9"})

			res, err := teardown.Resolve(ctx, provider, teardown.Selector{ProjectID: "team7"})

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Targets).To(HaveLen(1))
			Expect(res.Targets[0].Name).To(Equal("ds-team7"))
		})

		It("treats a selector matching nothing as a successful no-op", func() {
			provider.AddDomain(aws.Domain{ID: "d-9", Name: "ds-team9"})

			res, err := teardown.Resolve(ctx, provider, teardown.Selector{ProjectID: "team7"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Empty()).To(BeTrue())

			report := teardown.New(provider, scenarioOptions(false, rec)).Run(ctx, res)
			Expect(report.Outcome).To(Equal(teardown.OutcomeNothingToDo))
			Expect(provider.MutationCount()).To(BeZero())
		})
	})

	Describe("explicit domain IDs with one unresolvable", func() {
		It("tears down the resolvable domain and reports partial success", func() {
			provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})

			res, err := teardown.Resolve(ctx, provider, teardown.Selector{DomainIDs: teardown.ParseDomainIDs("d-001,d-002")})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Misses).To(HaveLen(1))

			report := teardown.New(provider, scenarioOptions(false, rec)).Run(ctx, res)

			Expect(report.Domain("d-001").Outcome).To(Equal(teardown.OutcomeSucceeded))
			Expect(report.Domain("d-002").Outcome).To(Equal(teardown.OutcomeSkipped))
			Expect(report.Outcome).To(Equal(teardown.OutcomePartial))
			Expect(rec.OfType(teardown.EventDomainSkipped)).To(HaveLen(1))
		})
	})

	Describe("dry run", func() {
		BeforeEach(func() {
			provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
			provider.AddApp(aws.App{DomainID: "d-001", Name: "default", Type: "JupyterServer", UserProfileName: "alice", Status: aws.StatusInService})
			provider.AddApp(aws.App{DomainID: "d-001", Name: "kg", Type: "KernelGateway", UserProfileName: "alice", Status: aws.StatusInService})
			provider.AddFileSystem(aws.FileSystem{ID: "fs-1", Tags: map[string]string{
				"ManagedByAmazonSageMakerResource": "arn:aws:sagemaker:us-east-1:123456789012:domain/d-001",
			}}, "fsmt-1")
		})

		It("lists exactly the apps and the tagged volume and mutates nothing", func() {
			d, err := provider.DescribeDomain(ctx, "d-001")
			Expect(err).NotTo(HaveOccurred())

			rep := teardown.New(provider, scenarioOptions(true, rec)).TeardownDomain(ctx, *d)

			var wouldDelete []string
			for _, e := range rec.OfType(teardown.EventResourceWouldDelete) {
				if e.Kind != teardown.KindDomain {
					wouldDelete = append(wouldDelete, e.Resource)
				}
			}
			Expect(wouldDelete).To(ConsistOf("alice/JupyterServer/default", "alice/KernelGateway/kg", "fs-1"))
			Expect(rep.IDs(teardown.KindApp)).To(HaveLen(2))
			Expect(rep.IDs(teardown.KindFileSystem)).To(Equal([]string{"fs-1"}))
			Expect(provider.MutationCount()).To(BeZero())
		})

		It("enumerates the same identifiers a live run acts on", func() {
			d, err := provider.DescribeDomain(ctx, "d-001")
			Expect(err).NotTo(HaveOccurred())

			dry := teardown.New(provider, scenarioOptions(true, rec)).TeardownDomain(ctx, *d)
			live := teardown.New(provider, scenarioOptions(false, rec)).TeardownDomain(ctx, *d)

			Expect(live.Resources).To(Equal(dry.Resources))
			Expect(live.Outcome).To(Equal(teardown.OutcomeSucceeded))
			Expect(provider.MutationCount()).To(BeNumerically(">", 0))
		})
	})

	Describe("partial failure independence", func() {
		It("deletes the other matched functions and still deletes the domain", func() {
			provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
			for _, name := range []string{"ds-team7-etl", "ds-team7-hook", "ds-team7-sync"} {
				provider.AddFunction(aws.Function{Name: name})
			}
			provider.FailDelete(fakes.KindFunction, "ds-team7-hook", errors.New("boom"))

			rep := teardown.New(provider, scenarioOptions(false, rec)).
				TeardownDomain(ctx, aws.Domain{ID: "d-001", Name: "ds-team7"})

			Expect(provider.Remaining(fakes.KindFunction)).To(Equal([]string{"ds-team7-hook"}))
			Expect(rep.Outcome).To(Equal(teardown.OutcomePartial))
			Expect(rep.DomainDeleted).To(BeTrue())
		})
	})

	Describe("bounded polling", func() {
		It("reaches Gone when children leave Deleting after N polls", func() {
			provider = fakes.New(fakes.WithDeletingPolls(3))
			provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
			provider.AddApp(aws.App{DomainID: "d-001", Name: "default", Type: "JupyterServer", UserProfileName: "alice"})
			provider.AddUserProfile(aws.UserProfile{DomainID: "d-001", Name: "alice"})

			rep := teardown.New(provider, scenarioOptions(false, rec)).
				TeardownDomain(ctx, aws.Domain{ID: "d-001", Name: "ds-team7"})

			Expect(rep.Outcome).To(Equal(teardown.OutcomeSucceeded))
			Expect(provider.Listings(fakes.KindApp)).To(Equal(5))
		})

		It("reports a bounded failure when a child never leaves Deleting", func() {
			provider.AddDomain(aws.Domain{ID: "d-001", Name: "ds-team7"})
			provider.StickInDeleting(fakes.KindUserProfile, "alice")
			provider.AddUserProfile(aws.UserProfile{DomainID: "d-001", Name: "alice", Status: aws.StatusDeleting})
			provider.AddDomain(aws.Domain{ID: "d-002", Name: "ds-team7b"})

			res := &teardown.Resolution{
				Selector: teardown.Selector{ProjectID: "team7"},
				Targets:  []aws.Domain{{ID: "d-001", Name: "ds-team7"}, {ID: "d-002", Name: "ds-team7b"}},
			}
			done := make(chan *teardown.Report, 1)
			go func() {
				defer GinkgoRecover()
				done <- teardown.New(provider, scenarioOptions(false, rec)).Run(ctx, res)
			}()

			var report *teardown.Report
			Eventually(done, 5*time.Second).Should(Receive(&report))
			Expect(report.Domain("d-001").Outcome).To(Equal(teardown.OutcomeFailed))
			Expect(report.Domain("d-001").Reason).To(ContainSubstring("gave up after 5 attempts"))
			Expect(report.Domain("d-002").Outcome).To(Equal(teardown.OutcomeSucceeded))
			Expect(report.Outcome).To(Equal(teardown.OutcomeFailed))
		})
	})
})
