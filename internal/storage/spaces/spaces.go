package spaces

import (
	"bytes"
	"context"
	"io"

	"github.com/DMarby/photo-strip/internal/storage"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Provider implements a digitalocean spaces (or other s3 compatible) storage
type Provider struct {
	spaces *s3.S3
	space  string
	prefix string
}

// New returns a new Provider instance, every key is stored below prefix
func New(space, endpoint, accessKey, secretKey, prefix string, forcePathStyle bool) (*Provider, error) {
	spacesSession, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String("us-east-1"), // Needs to be us-east-1 for Spaces, or it'll fail
		S3ForcePathStyle: aws.Bool(forcePathStyle),
	})
	if err != nil {
		return nil, err
	}

	spaces := s3.New(spacesSession)

	// Fail early on bad credentials or a missing space
	_, err = spaces.HeadBucket(&s3.HeadBucketInput{
		Bucket: aws.String(space),
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		spaces: spaces,
		space:  space,
		prefix: prefix,
	}, nil
}

func (p *Provider) objectKey(key string) (*string, error) {
	key, err := storage.CleanKey(key)
	if err != nil {
		return nil, err
	}
	return aws.String(p.prefix + key), nil
}

// Get returns the data stored under key
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	objectKey, err := p.objectKey(key)
	if err != nil {
		return nil, err
	}

	output, err := p.spaces.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &p.space,
		Key:    objectKey,
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}
	defer output.Body.Close()

	buf := new(bytes.Buffer)
	_, err = io.Copy(buf, output.Body)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Put uploads data under key
func (p *Provider) Put(ctx context.Context, key string, data []byte, contentType string) error {
	objectKey, err := p.objectKey(key)
	if err != nil {
		return err
	}

	_, err = p.spaces.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      &p.space,
		Key:         objectKey,
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}
