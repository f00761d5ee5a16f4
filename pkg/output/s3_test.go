package output

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/disintegration/imaging"
)

// mockS3 records PutObject calls
type mockS3 struct {
	s3iface.S3API
	inputs   []*s3.PutObjectInput
	bodies   [][]byte
	deadline bool
	err      error
}

func (m *mockS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	_, m.deadline = ctx.Deadline()
	if m.err != nil {
		return nil, m.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	m.inputs = append(m.inputs, input)
	m.bodies = append(m.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestNewS3Publisher_NoBucket(t *testing.T) {
	if _, err := NewS3Publisher(S3Config{Region: "us-east-1"}, nil); !errors.Is(err, ErrNoBucket) {
		t.Errorf("Expected ErrNoBucket, got %v", err)
	}
}

func TestS3Publisher_PublishImage(t *testing.T) {
	mock := &mockS3{}
	publisher := NewS3PublisherWithClient(mock, S3Config{Bucket: "renders", Prefix: "daily", ACL: "public-read"}, nil)
	publisher.SetTimeout(time.Second)

	key, err := publisher.PublishImage(context.Background(), "random.png", testImage(4, 4), imaging.PNG)
	if err != nil {
		t.Fatalf("PublishImage failed: %v", err)
	}
	if key != "daily/random.png" {
		t.Errorf("Expected prefixed key, got %q", key)
	}
	if len(mock.inputs) != 1 {
		t.Fatalf("Expected 1 upload, got %d", len(mock.inputs))
	}

	input := mock.inputs[0]
	if aws.StringValue(input.Bucket) != "renders" || aws.StringValue(input.Key) != key {
		t.Errorf("Unexpected target %s/%s", aws.StringValue(input.Bucket), aws.StringValue(input.Key))
	}
	if aws.StringValue(input.ContentType) != "image/png" {
		t.Errorf("Expected image/png, got %s", aws.StringValue(input.ContentType))
	}
	if aws.StringValue(input.ACL) != "public-read" {
		t.Errorf("Expected public-read ACL, got %s", aws.StringValue(input.ACL))
	}
	if aws.Int64Value(input.ContentLength) != int64(len(mock.bodies[0])) {
		t.Errorf("Content length %d does not match body %d", aws.Int64Value(input.ContentLength), len(mock.bodies[0]))
	}
	if !mock.deadline {
		t.Error("Upload should run with a deadline")
	}
}

func TestS3Publisher_Error(t *testing.T) {
	mock := &mockS3{err: errors.New("access denied")}
	publisher := NewS3PublisherWithClient(mock, S3Config{Bucket: "renders"}, nil)

	err := publisher.Publish(context.Background(), "a.png", []byte{1, 2, 3}, "image/png")
	if err == nil {
		t.Fatal("Expected upload error")
	}
	if !errors.Is(err, mock.err) {
		t.Errorf("Expected wrapped client error, got %v", err)
	}
}
