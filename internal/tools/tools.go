// Package tools implements the MCP tool handlers for S3 operations.
//
// Each tool maps one invocation onto one backend call (create_bucket may
// issue up to three extra sub-configuration calls). Handlers never return a
// Go error to the dispatcher: every backend failure is flattened into the
// uniform error envelope by the wrap helper.
package tools

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/smithy-go"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/s3mcp/s3mcp/internal/metrics"
	"github.com/s3mcp/s3mcp/internal/storage"
	"github.com/s3mcp/s3mcp/internal/uid"
)

// Tool names. These are the stable identifiers of the dispatcher-facing
// contract; renaming one breaks clients.
const (
	ToolListBuckets          = "list_buckets"
	ToolCreateBucket         = "create_bucket"
	ToolListBucket           = "list_bucket"
	ToolGetObject            = "get_object"
	ToolPutObject            = "put_object"
	ToolUploadLocalFile      = "upload_local_file"
	ToolDownloadFileToLocal  = "download_file_to_local"
	ToolDeleteObject         = "delete_object"
	ToolGeneratePresignedURL = "generate_presigned_url"
	ToolPutBucketPolicy      = "put_bucket_policy"
	ToolGetBucketPolicy      = "get_bucket_policy"
	ToolDeleteBucketPolicy   = "delete_bucket_policy"
	ToolDeleteBucket         = "delete_bucket"
	ToolCopyObject           = "copy_object"
	ToolGetBucketLifecycle   = "get_bucket_lifecycle"
	ToolPutBucketLifecycle   = "put_bucket_lifecycle"
	ToolGetObjectTagging     = "get_object_tagging"
	ToolPutObjectTagging     = "put_object_tagging"
	ToolGetBucketCors        = "get_bucket_cors"
)

// defaultCreateRegion is the region create_bucket uses when the caller does
// not pass one. It is deliberately not us-east-1: that region is the
// location-constraint special case.
const defaultCreateRegion = "us-west-1"

// defaultPresignExpiry is the presigned URL lifetime in seconds when the
// caller does not pass expires_in.
const defaultPresignExpiry = 3600

// Tools holds the shared S3 client handle and implements every tool handler.
// All fields are read-only after New; concurrent invocations need no
// adapter-level synchronization.
type Tools struct {
	client     storage.S3API
	presign    storage.Presigner
	uploader   storage.Uploader
	downloader storage.Downloader
}

// New creates a Tools backed by the given S3 client bundle.
func New(c *storage.Client) *Tools {
	return &Tools{
		client:     c.S3,
		presign:    c.Presign,
		uploader:   c.Uploader,
		downloader: c.Downloader,
	}
}

// NewWithClients creates a Tools from individual interface values. This is
// primarily used for testing with mock clients.
func NewWithClients(client storage.S3API, presign storage.Presigner, uploader storage.Uploader, downloader storage.Downloader) *Tools {
	return &Tools{
		client:     client,
		presign:    presign,
		uploader:   uploader,
		downloader: downloader,
	}
}

// toolFunc is the internal handler shape: a success payload or an error.
// The wrap helper owns the translation to the wire envelope.
type toolFunc func(ctx context.Context, request mcp.CallToolRequest) (any, error)

// wrap converts a toolFunc into a dispatcher handler. It is the single
// place where backend errors become the {"error": ...} envelope, and where
// per-invocation logging and metrics are recorded.
func wrap(name string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := uid.New()
		start := time.Now()
		slog.Debug("tool invocation started", "tool", name, "invocation", id)

		payload, err := fn(ctx, request)

		status := "success"
		var result *mcp.CallToolResult
		if err != nil {
			status = "error"
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) {
				slog.Warn("backend call failed", "tool", name, "invocation", id, "code", apiErr.ErrorCode())
			}
			result = errorResult(err)
		} else {
			result = successResult(payload)
		}

		elapsed := time.Since(start)
		metrics.RecordInvocation(name, status, elapsed.Seconds())
		slog.Debug("tool invocation finished", "tool", name, "invocation", id, "status", status, "elapsed", elapsed)

		return result, nil
	}
}

// Add registers all tools on the MCP server.
func (t *Tools) Add(s *server.MCPServer) {
	s.AddTool(mcp.NewTool(ToolListBuckets,
		mcp.WithDescription("List all buckets"),
	), wrap(ToolListBuckets, t.ListBuckets))

	s.AddTool(mcp.NewTool(ToolCreateBucket,
		mcp.WithDescription("Create a new S3 bucket with optional security config"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket to create"), mcp.Required()),
		mcp.WithString("region", mcp.Description("The AWS region where the bucket will be created"), mcp.DefaultString(defaultCreateRegion)),
		mcp.WithObject("config", mcp.Description("Optional bucket configuration (blockPublicAccess, versioning, encryption)")),
	), wrap(ToolCreateBucket, t.CreateBucket))

	s.AddTool(mcp.NewTool(ToolListBucket,
		mcp.WithDescription("List objects in a bucket"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithString("key_prefix", mcp.Description("Optional prefix to filter the objects"), mcp.DefaultString("")),
	), wrap(ToolListBucket, t.ListBucket))

	s.AddTool(mcp.NewTool(ToolGetObject,
		mcp.WithDescription("Get an object from a bucket"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithString("key", mcp.Description("The key of the object to retrieve"), mcp.Required()),
	), wrap(ToolGetObject, t.GetObject))

	s.AddTool(mcp.NewTool(ToolPutObject,
		mcp.WithDescription("Put an object into a bucket"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithString("key", mcp.Description("The key for the object"), mcp.Required()),
		mcp.WithString("body", mcp.Description("The content of the object"), mcp.Required()),
	), wrap(ToolPutObject, t.PutObject))

	s.AddTool(mcp.NewTool(ToolUploadLocalFile,
		mcp.WithDescription("Upload a local file to a bucket"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithString("local_path", mcp.Description("The path to the local file"), mcp.Required()),
		mcp.WithString("key", mcp.Description("The key for the object in S3"), mcp.Required()),
	), wrap(ToolUploadLocalFile, t.UploadLocalFile))

	s.AddTool(mcp.NewTool(ToolDownloadFileToLocal,
		mcp.WithDescription("Download a file from a bucket to a local path"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithString("key", mcp.Description("The key of the object to download"), mcp.Required()),
		mcp.WithString("local_path", mcp.Description("The local path where the file will be saved"), mcp.Required()),
	), wrap(ToolDownloadFileToLocal, t.DownloadFileToLocal))

	s.AddTool(mcp.NewTool(ToolDeleteObject,
		mcp.WithDescription("Delete an object from a bucket"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithString("key", mcp.Description("The key of the object to delete"), mcp.Required()),
	), wrap(ToolDeleteObject, t.DeleteObject))

	s.AddTool(mcp.NewTool(ToolGeneratePresignedURL,
		mcp.WithDescription("Generate a presigned URL for accessing or uploading an object"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithString("key", mcp.Description("The key of the object"), mcp.Required()),
		mcp.WithNumber("expires_in", mcp.Description("The expiration time in seconds for the presigned URL"), mcp.DefaultNumber(defaultPresignExpiry)),
		mcp.WithString("http_method", mcp.Description("The HTTP method to use (GET or PUT)"), mcp.DefaultString("GET")),
	), wrap(ToolGeneratePresignedURL, t.GeneratePresignedURL))

	s.AddTool(mcp.NewTool(ToolPutBucketPolicy,
		mcp.WithDescription("Set or update a bucket policy"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithString("policy_json", mcp.Description("A valid JSON string representing the policy"), mcp.Required()),
	), wrap(ToolPutBucketPolicy, t.PutBucketPolicy))

	s.AddTool(mcp.NewTool(ToolGetBucketPolicy,
		mcp.WithDescription("Retrieve the current bucket policy"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
	), wrap(ToolGetBucketPolicy, t.GetBucketPolicy))

	s.AddTool(mcp.NewTool(ToolDeleteBucketPolicy,
		mcp.WithDescription("Delete the current bucket policy"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
	), wrap(ToolDeleteBucketPolicy, t.DeleteBucketPolicy))

	s.AddTool(mcp.NewTool(ToolDeleteBucket,
		mcp.WithDescription("Delete an empty S3 bucket"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket to delete"), mcp.Required()),
	), wrap(ToolDeleteBucket, t.DeleteBucket))

	s.AddTool(mcp.NewTool(ToolCopyObject,
		mcp.WithDescription("Copy an object from one location to another"),
		mcp.WithString("source_bucket", mcp.Description("Source bucket name"), mcp.Required()),
		mcp.WithString("source_key", mcp.Description("Source object key"), mcp.Required()),
		mcp.WithString("dest_bucket", mcp.Description("Destination bucket name"), mcp.Required()),
		mcp.WithString("dest_key", mcp.Description("Destination object key"), mcp.Required()),
	), wrap(ToolCopyObject, t.CopyObject))

	s.AddTool(mcp.NewTool(ToolGetBucketLifecycle,
		mcp.WithDescription("Get bucket lifecycle configuration"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
	), wrap(ToolGetBucketLifecycle, t.GetBucketLifecycle))

	s.AddTool(mcp.NewTool(ToolPutBucketLifecycle,
		mcp.WithDescription("Set bucket lifecycle configuration"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithArray("lifecycle_config", mcp.Description("Lifecycle configuration rules"), mcp.Required()),
	), wrap(ToolPutBucketLifecycle, t.PutBucketLifecycle))

	s.AddTool(mcp.NewTool(ToolGetObjectTagging,
		mcp.WithDescription("Get object tags"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithString("key", mcp.Description("The object key"), mcp.Required()),
	), wrap(ToolGetObjectTagging, t.GetObjectTagging))

	s.AddTool(mcp.NewTool(ToolPutObjectTagging,
		mcp.WithDescription("Set object tags"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
		mcp.WithString("key", mcp.Description("The object key"), mcp.Required()),
		mcp.WithArray("tags", mcp.Description("List of tag objects with Key and Value"), mcp.Required()),
	), wrap(ToolPutObjectTagging, t.PutObjectTagging))

	s.AddTool(mcp.NewTool(ToolGetBucketCors,
		mcp.WithDescription("Get bucket CORS configuration"),
		mcp.WithString("bucket_name", mcp.Description("The name of the bucket"), mcp.Required()),
	), wrap(ToolGetBucketCors, t.GetBucketCors))
}
