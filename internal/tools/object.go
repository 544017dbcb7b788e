package tools

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListBucket implements the list_bucket tool. An empty result set is
// reported as an empty file list, never null.
func (t *Tools) ListBucket(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	prefix := mcp.ParseString(request, "key_prefix", "")

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	resp, err := t.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, err
	}

	files := make([]ObjectInfo, 0, len(resp.Contents))
	for _, obj := range resp.Contents {
		info := ObjectInfo{
			Key:  aws.ToString(obj.Key),
			Size: aws.ToInt64(obj.Size),
		}
		if obj.LastModified != nil {
			info.LastModified = obj.LastModified.UTC().Format(time.RFC3339)
		}
		files = append(files, info)
	}

	return ListBucketResult{Bucket: bucket, Files: files}, nil
}

// GetObject implements the get_object tool. Unlike every other tool, the
// success payload is the raw object body, not a JSON document.
func (t *Tools) GetObject(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	key := mcp.ParseString(request, "key", "")

	resp, err := t.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading object body: %w", err)
	}

	return RawText(body), nil
}

// PutObject implements the put_object tool.
func (t *Tools) PutObject(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	key := mcp.ParseString(request, "key", "")
	body := mcp.ParseString(request, "body", "")

	_, err := t.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   strings.NewReader(body),
	})
	if err != nil {
		return nil, err
	}

	return SuccessResult{Success: true}, nil
}

// UploadLocalFile implements the upload_local_file tool. Multipart
// splitting for large files is handled by the transfer manager.
func (t *Tools) UploadLocalFile(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	localPath := mcp.ParseString(request, "local_path", "")
	key := mcp.ParseString(request, "key", "")

	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, err = t.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return nil, err
	}

	return SuccessResult{Success: true}, nil
}

// DownloadFileToLocal implements the download_file_to_local tool. The
// destination file is created (or truncated) before the transfer starts; a
// failed transfer can leave a partial file behind.
func (t *Tools) DownloadFileToLocal(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	key := mcp.ParseString(request, "key", "")
	localPath := mcp.ParseString(request, "local_path", "")

	f, err := os.Create(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, err = t.downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}

	return SuccessResult{Success: true}, nil
}

// DeleteObject implements the delete_object tool. Deleting a missing key
// succeeds: the backend delete is idempotent and no existence check is made.
func (t *Tools) DeleteObject(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	key := mcp.ParseString(request, "key", "")

	_, err := t.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}

	return SuccessResult{Success: true}, nil
}

// GeneratePresignedURL implements the generate_presigned_url tool. Any
// http_method other than GET (compared case-insensitively) presigns an
// upload.
func (t *Tools) GeneratePresignedURL(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	key := mcp.ParseString(request, "key", "")
	expires := mcp.ParseInt(request, "expires_in", defaultPresignExpiry)
	method := mcp.ParseString(request, "http_method", "GET")

	expiry := s3.WithPresignExpires(time.Duration(expires) * time.Second)

	var signedURL string
	if strings.EqualFold(method, "GET") {
		req, err := t.presign.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		}, expiry)
		if err != nil {
			return nil, err
		}
		signedURL = req.URL
	} else {
		req, err := t.presign.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		}, expiry)
		if err != nil {
			return nil, err
		}
		signedURL = req.URL
	}

	return PresignedURLResult{Success: true, URL: signedURL}, nil
}

// escapeCopySource builds the URL-encoded CopySource value. The key's "/"
// separators stay literal; every other segment character the backend would
// misread ("+", "#", "?", spaces) is percent-encoded.
func escapeCopySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		// PathEscape leaves "+" alone, but the backend decodes it as a space.
		segments[i] = strings.ReplaceAll(url.PathEscape(s), "+", "%2B")
	}
	return bucket + "/" + strings.Join(segments, "/")
}

// CopyObject implements the copy_object tool. copy_id is the entity tag of
// the new copy as reported by the backend.
func (t *Tools) CopyObject(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	srcBucket := mcp.ParseString(request, "source_bucket", "")
	srcKey := mcp.ParseString(request, "source_key", "")
	dstBucket := mcp.ParseString(request, "dest_bucket", "")
	dstKey := mcp.ParseString(request, "dest_key", "")

	resp, err := t.client.CopyObject(ctx, &s3.CopyObjectInput{
		CopySource: aws.String(escapeCopySource(srcBucket, srcKey)),
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return nil, err
	}

	var copyID string
	if resp.CopyObjectResult != nil {
		copyID = aws.ToString(resp.CopyObjectResult.ETag)
	}

	return CopyObjectResult{Success: true, CopyID: copyID}, nil
}

// GetObjectTagging implements the get_object_tagging tool. Backend tag
// records are re-shaped to plain {Key, Value} pairs.
func (t *Tools) GetObjectTagging(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	key := mcp.ParseString(request, "key", "")

	resp, err := t.client.GetObjectTagging(ctx, &s3.GetObjectTaggingInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}

	tags := make([]Tag, 0, len(resp.TagSet))
	for _, tag := range resp.TagSet {
		tags = append(tags, Tag{
			Key:   aws.ToString(tag.Key),
			Value: aws.ToString(tag.Value),
		})
	}

	return ObjectTaggingResult{Tags: tags}, nil
}

// PutObjectTagging implements the put_object_tagging tool. The full tag set
// is replaced; only the Key and Value fields of each entry are honored.
func (t *Tools) PutObjectTagging(ctx context.Context, request mcp.CallToolRequest) (any, error) {
	bucket := mcp.ParseString(request, "bucket_name", "")
	key := mcp.ParseString(request, "key", "")

	raw, ok := mcp.ParseArgument(request, "tags", nil).([]any)
	if !ok {
		return nil, fmt.Errorf("tags must be a list of {Key, Value} objects")
	}

	tagSet := make([]types.Tag, 0, len(raw))
	for _, r := range raw {
		entry, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("tag must be an object with Key and Value")
		}
		k, ok := entry["Key"].(string)
		if !ok {
			return nil, fmt.Errorf("tag entry missing Key")
		}
		v, ok := entry["Value"].(string)
		if !ok {
			return nil, fmt.Errorf("tag entry missing Value")
		}
		tagSet = append(tagSet, types.Tag{
			Key:   aws.String(k),
			Value: aws.String(v),
		})
	}

	_, err := t.client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket:  aws.String(bucket),
		Key:     aws.String(key),
		Tagging: &types.Tagging{TagSet: tagSet},
	})
	if err != nil {
		return nil, err
	}

	return SuccessResult{Success: true}, nil
}
