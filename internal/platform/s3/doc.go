// Package s3 uploads teardown reports to an S3 bucket.
//
// The client shares the AWS config of the teardown run, so the same region,
// credentials and endpoint override apply to the archive upload.
package s3
