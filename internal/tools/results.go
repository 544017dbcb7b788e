package tools

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/mark3labs/mcp-go/mcp"
)

// Every tool returns exactly one of two envelope shapes: an
// operation-specific success payload or ErrorResult. get_object is the one
// exception — its success value is the raw object body, not a JSON mapping,
// signalled here by the RawText payload type.

// ErrorResult is the uniform failure envelope. The presence of the error
// field is the sole failure signal; there are no error codes or categories.
type ErrorResult struct {
	Error string `json:"error"`
}

// RawText marks a success payload that is emitted verbatim instead of being
// JSON-encoded.
type RawText string

// ListBucketsResult is the success payload of list_buckets.
type ListBucketsResult struct {
	Buckets []string `json:"buckets"`
}

// CreateBucketResult is the success payload of create_bucket.
type CreateBucketResult struct {
	Success bool   `json:"success"`
	Bucket  string `json:"bucket"`
}

// ObjectInfo describes one object in a list_bucket result.
type ObjectInfo struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
}

// ListBucketResult is the success payload of list_bucket.
type ListBucketResult struct {
	Bucket string       `json:"bucket"`
	Files  []ObjectInfo `json:"files"`
}

// SuccessResult is the success payload of tools that report nothing beyond
// completion (put_object, delete_object, delete_bucket, ...).
type SuccessResult struct {
	Success bool `json:"success"`
}

// PresignedURLResult is the success payload of generate_presigned_url.
type PresignedURLResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

// BucketPolicyResult is the success payload of get_bucket_policy. Policy is
// the raw policy JSON text as returned by the backend.
type BucketPolicyResult struct {
	Success bool   `json:"success"`
	Policy  string `json:"policy"`
}

// CopyObjectResult is the success payload of copy_object. CopyID is the
// backend-assigned content tag (ETag) of the copy result.
type CopyObjectResult struct {
	Success bool   `json:"success"`
	CopyID  string `json:"copy_id"`
}

// LifecycleResult is the success payload of get_bucket_lifecycle. Rules are
// the backend's rule records passed through unmodified.
type LifecycleResult struct {
	Rules []types.LifecycleRule `json:"rules"`
}

// Tag is one Key/Value pair of an object tag set. The capitalized JSON
// field names match the backend's tagging wire format.
type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// ObjectTaggingResult is the success payload of get_object_tagging.
type ObjectTaggingResult struct {
	Tags []Tag `json:"tags"`
}

// BucketCorsResult is the success payload of get_bucket_cors. Rules are the
// backend's CORS rule records passed through unmodified.
type BucketCorsResult struct {
	CorsRules []types.CORSRule `json:"cors_rules"`
}

// errorResult flattens any backend error into the error envelope. The
// message is the error's string form, verbatim — no classification.
func errorResult(err error) *mcp.CallToolResult {
	data, merr := json.Marshal(ErrorResult{Error: err.Error()})
	if merr != nil {
		// Marshaling a single string field cannot realistically fail;
		// fall back to a bare message rather than panic.
		return mcp.NewToolResultText(`{"error":"internal marshaling failure"}`)
	}
	return mcp.NewToolResultText(string(data))
}

// successResult encodes a success payload. RawText payloads are emitted
// as-is; everything else is JSON.
func successResult(payload any) *mcp.CallToolResult {
	if raw, ok := payload.(RawText); ok {
		return mcp.NewToolResultText(string(raw))
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(string(data))
}
