// Package aws wraps the AWS APIs a SageMaker domain teardown touches.
//
// # Architecture
//
//   - client.go: the [Provider] capability interface and resource types
//   - interfaces.go: narrow SDK client interfaces, so tests can swap them
//   - real_client.go: [RealClient], backed by aws-sdk-go-v2
//   - sagemaker.go: domains, apps, spaces and user profiles
//   - auxiliary.go: Lambda functions, network interfaces, EFS file systems
//   - errors.go: classification of API errors (not found, in use)
//   - mock_client.go: [MockClient] with overridable function fields
//
// Listing calls follow pagination to the end and return plain structs, so
// callers never see SDK pointer fields. Delete calls return the raw API
// error; use [IsNotFound] to treat an already-deleted resource as success.
package aws
