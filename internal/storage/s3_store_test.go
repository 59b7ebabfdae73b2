package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Backend_Contract(t *testing.T) {
	runBackendContract(t, func(t *testing.T) Backend {
		return newS3Backend(newFakeS3(), "bucket", "profiles")
	})
}

func TestS3Backend_ObjectLayout(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := NewProvider(newS3Backend(fake, "bucket", "profiles")).ForProfile("p1")

	require.NoError(t, s.Set(ctx, KeyCart, "[]"))
	assert.Contains(t, fake.objects, "profiles/p1.json")

	require.NoError(t, s.Remove(ctx, KeyCart))
	assert.NotContains(t, fake.objects, "profiles/p1.json")
}

func TestS3Backend_CorruptObjectReadsEmpty(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	fake.objects["profiles/p1.json"] = []byte("garbage")

	_, ok, err := NewProvider(newS3Backend(fake, "bucket", "profiles")).ForProfile("p1").Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)
}
