package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListBuckets implements the list_buckets tool.
func (t *Tools) ListBuckets(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	resp, err := t.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}

	buckets := make([]string, 0, len(resp.Buckets))
	for _, b := range resp.Buckets {
		buckets = append(buckets, aws.ToString(b.Name))
	}

	return ListBucketsResult{Buckets: buckets}, nil
}

// CreateBucket implements the create_bucket tool.
//
// us-east-1 is the backend's location-constraint special case: it has no
// explicit constraint value, so the configuration block is omitted entirely.
// When a config mapping is supplied, up to three sub-configuration calls are
// applied in fixed order: public-access block, versioning, encryption.
// There is no rollback — if a sub-call fails after the bucket was created,
// the bucket stays created and partially configured.
func (t *Tools) CreateBucket(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	region := mcp.ParseString(request, "region", defaultCreateRegion)

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}
	if region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	if _, err := t.client.CreateBucket(ctx, input); err != nil {
		return nil, err
	}

	if cfg, ok := mcp.ParseArgument(request, "config", nil).(map[string]any); ok {
		if err := t.applyBucketConfig(ctx, bucket, cfg); err != nil {
			return nil, err
		}
	}

	return CreateBucketResult{Success: true, Bucket: bucket}, nil
}

// applyBucketConfig applies the optional create_bucket sub-configuration in
// fixed order. Each sub-call is independent; an earlier success is not
// rolled back when a later call fails.
func (t *Tools) applyBucketConfig(ctx context.Context, bucket string, cfg map[string]any) error {
	if pab, ok := cfg["blockPublicAccess"].(map[string]any); ok && len(pab) > 0 {
		_, err := t.client.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
			Bucket: aws.String(bucket),
			PublicAccessBlockConfiguration: &types.PublicAccessBlockConfiguration{
				BlockPublicAcls:       boolField(pab, "BlockPublicAcls"),
				IgnorePublicAcls:      boolField(pab, "IgnorePublicAcls"),
				BlockPublicPolicy:     boolField(pab, "BlockPublicPolicy"),
				RestrictPublicBuckets: boolField(pab, "RestrictPublicBuckets"),
			},
		})
		if err != nil {
			return err
		}
	}

	if raw, ok := cfg["versioning"]; ok {
		status := types.BucketVersioningStatusSuspended
		if enabled, _ := raw.(bool); enabled {
			status = types.BucketVersioningStatusEnabled
		}
		_, err := t.client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
			Bucket: aws.String(bucket),
			VersioningConfiguration: &types.VersioningConfiguration{
				Status: status,
			},
		})
		if err != nil {
			return err
		}
	}

	if alg, ok := cfg["encryption"].(string); ok && alg != "" {
		_, err := t.client.PutBucketEncryption(ctx, &s3.PutBucketEncryptionInput{
			Bucket: aws.String(bucket),
			ServerSideEncryptionConfiguration: &types.ServerSideEncryptionConfiguration{
				Rules: []types.ServerSideEncryptionRule{
					{
						ApplyServerSideEncryptionByDefault: &types.ServerSideEncryptionByDefault{
							SSEAlgorithm: types.ServerSideEncryption(alg),
						},
					},
				},
			},
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// boolField reads an optional boolean from a loosely-typed mapping.
func boolField(m map[string]any, key string) *bool {
	if v, ok := m[key].(bool); ok {
		return aws.Bool(v)
	}
	return nil
}

// DeleteBucket implements the delete_bucket tool. The backend enforces the
// empty-bucket precondition; no pre-check is performed here.
func (t *Tools) DeleteBucket(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")

	_, err := t.client.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, err
	}

	return SuccessResult{Success: true}, nil
}

// PutBucketPolicy implements the put_bucket_policy tool. The policy JSON is
// passed through without schema validation; a malformed document surfaces as
// a backend error.
func (t *Tools) PutBucketPolicy(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	policy := mcp.ParseString(request, "policy_json", "")

	_, err := t.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(bucket),
		Policy: aws.String(policy),
	})
	if err != nil {
		return nil, err
	}

	return SuccessResult{Success: true}, nil
}

// GetBucketPolicy implements the get_bucket_policy tool.
func (t *Tools) GetBucketPolicy(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")

	resp, err := t.client.GetBucketPolicy(ctx, &s3.GetBucketPolicyInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, err
	}

	return BucketPolicyResult{Success: true, Policy: aws.ToString(resp.Policy)}, nil
}

// DeleteBucketPolicy implements the delete_bucket_policy tool.
func (t *Tools) DeleteBucketPolicy(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")

	_, err := t.client.DeleteBucketPolicy(ctx, &s3.DeleteBucketPolicyInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, err
	}

	return SuccessResult{Success: true}, nil
}

// GetBucketLifecycle implements the get_bucket_lifecycle tool. Rules are
// passed through unmodified; an absent configuration is a backend error,
// not an empty list.
func (t *Tools) GetBucketLifecycle(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")

	resp, err := t.client.GetBucketLifecycleConfiguration(ctx, &s3.GetBucketLifecycleConfigurationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, err
	}

	return LifecycleResult{Rules: resp.Rules}, nil
}

// PutBucketLifecycle implements the put_bucket_lifecycle tool. Each incoming
// rule is normalized to the fixed field set {ID, Status, Transitions,
// Expiration, NoncurrentVersionExpiration, NoncurrentVersionTransitions}
// before submission; missing optional fields pass through as null rather
// than being dropped.
func (t *Tools) PutBucketLifecycle(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")

	raw, ok := mcp.ParseArgument(request, "lifecycle_config", nil).([]any)
	if !ok {
		return nil, fmt.Errorf("lifecycle_config must be a list of rules")
	}

	rules, err := normalizeLifecycleRules(raw)
	if err != nil {
		return nil, err
	}

	_, err = t.client.PutBucketLifecycleConfiguration(ctx, &s3.PutBucketLifecycleConfigurationInput{
		Bucket: aws.String(bucket),
		LifecycleConfiguration: &types.BucketLifecycleConfiguration{
			Rules: rules,
		},
	})
	if err != nil {
		return nil, err
	}

	return SuccessResult{Success: true}, nil
}

// normalizeLifecycleRules re-shapes loosely-typed rule mappings to the fixed
// lifecycle field set and decodes them into backend rule records via a JSON
// round trip. Fields outside the fixed set are dropped.
func normalizeLifecycleRules(raw []any) ([]types.LifecycleRule, error) {
	normalized := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		rule, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("lifecycle rule must be a mapping")
		}
		normalized = append(normalized, map[string]any{
			"ID":                           rule["ID"],
			"Status":                       rule["Status"],
			"Transitions":                  rule["Transitions"],
			"Expiration":                   rule["Expiration"],
			"NoncurrentVersionExpiration":  rule["NoncurrentVersionExpiration"],
			"NoncurrentVersionTransitions": rule["NoncurrentVersionTransitions"],
		})
	}

	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("encoding lifecycle rules: %w", err)
	}
	var rules []types.LifecycleRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("decoding lifecycle rules: %w", err)
	}
	return rules, nil
}

// GetBucketCors implements the get_bucket_cors tool. Rules are passed
// through unmodified.
func (t *Tools) GetBucketCors(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")

	resp, err := t.client.GetBucketCors(ctx, &s3.GetBucketCorsInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, err
	}

	return BucketCorsResult{CorsRules: resp.CORSRules}, nil
}
