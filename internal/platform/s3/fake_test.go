package s3

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// fakeStore is an in-memory API implementation for tests. Buckets map to
// key/value object maps; error injection hooks let tests force failures.
type fakeStore struct {
	mu      sync.Mutex
	buckets map[string]map[string][]byte

	createErr error
	listErrs  []error // consumed one per ListObjectsV2 call
	putErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{buckets: map[string]map[string][]byte{}}
}

func apiError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

func (f *fakeStore) CreateBucket(_ context.Context, in *awss3.CreateBucketInput, _ ...func(*awss3.Options)) (*awss3.CreateBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	name := *in.Bucket
	if _, ok := f.buckets[name]; ok {
		return nil, &types.BucketAlreadyOwnedByYou{}
	}
	f.buckets[name] = map[string][]byte{}
	return &awss3.CreateBucketOutput{}, nil
}

func (f *fakeStore) HeadBucket(_ context.Context, in *awss3.HeadBucketInput, _ ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.buckets[*in.Bucket]; !ok {
		return nil, &types.NotFound{}
	}
	return &awss3.HeadBucketOutput{}, nil
}

func (f *fakeStore) ListObjectsV2(_ context.Context, in *awss3.ListObjectsV2Input, _ ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.listErrs) > 0 {
		err := f.listErrs[0]
		f.listErrs = f.listErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	bucket, ok := f.buckets[*in.Bucket]
	if !ok {
		return nil, &types.NoSuchBucket{}
	}

	prefix := ""
	if in.Prefix != nil {
		prefix = *in.Prefix
	}
	var keys []string
	for key := range bucket {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := &awss3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, key := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	return out, nil
}

func (f *fakeStore) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	bucket, ok := f.buckets[*in.Bucket]
	if !ok {
		return nil, &types.NoSuchBucket{}
	}
	var data []byte
	if in.Body != nil {
		var err error
		data, err = io.ReadAll(in.Body)
		if err != nil {
			return nil, err
		}
	}
	bucket[*in.Key] = data
	return &awss3.PutObjectOutput{}, nil
}

func (f *fakeStore) GetObject(_ context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket, ok := f.buckets[*in.Bucket]
	if !ok {
		return nil, &types.NoSuchBucket{}
	}
	data, ok := bucket[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeStore) DeleteObject(_ context.Context, in *awss3.DeleteObjectInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if bucket, ok := f.buckets[*in.Bucket]; ok {
		delete(bucket, *in.Key)
	}
	return &awss3.DeleteObjectOutput{}, nil
}

func (f *fakeStore) DeleteBucket(_ context.Context, in *awss3.DeleteBucketInput, _ ...func(*awss3.Options)) (*awss3.DeleteBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket, ok := f.buckets[*in.Bucket]
	if !ok {
		return nil, &types.NoSuchBucket{}
	}
	if len(bucket) > 0 {
		return nil, apiError("BucketNotEmpty", "bucket not empty")
	}
	delete(f.buckets, *in.Bucket)
	return &awss3.DeleteBucketOutput{}, nil
}
