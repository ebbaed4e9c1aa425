// Package teardown deletes SageMaker domains together with everything that
// hangs off them.
//
// A run has three stages:
//
//  1. Resolve turns a Selector (project-id suffix or explicit domain IDs)
//     into target domains. Unresolvable IDs are reported and skipped.
//  2. For each target, the child collections are drained in dependency
//     order (apps, then spaces, then user profiles). Each pass deletes what
//     can be deleted and waits for what is already deleting, bounded by a
//     retry.Policy.
//  3. Auxiliary resources correlated only by name or tag (Lambda functions,
//     network interfaces, EFS file systems) are swept through Handlers, then
//     the domain itself is deleted with a single, unretried call.
//
// Dry runs perform every listing and match but replace each mutating call
// with a "would delete" entry, so the Report of a dry run enumerates the
// same resources a live run would act on.
package teardown
