package store

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/spiffler33/quill/internal/model"
)

// S3Store implements Store over an S3-compatible bucket using conditional
// writes: the object ETag is the version token, carried back as If-Match
// (and If-None-Match: * for first creation). The audit message has no S3
// equivalent and is logged only.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(accessKeyID, accessKeySecret, baseEndpoint, bucket string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(baseEndpoint)
	})

	return &S3Store{client: client, bucket: bucket}, nil
}

func mapS3Error(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return ErrNotFound
		case "PreconditionFailed", "ConditionalRequestConflict":
			return ErrConflict
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return ErrUnauthorized
		}
	}
	return err
}

func (s *S3Store) Get(ctx context.Context, id model.ItemID) (string, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(id)),
	})
	if err != nil {
		err = mapS3Error(err)
		if err == ErrNotFound || err == ErrUnauthorized {
			return "", "", err
		}
		return "", "", &ReadError{Op: "get " + string(id), Err: err}
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", "", &ReadError{Op: "get " + string(id), Err: err}
	}

	return string(body), aws.ToString(out.ETag), nil
}

func (s *S3Store) Put(ctx context.Context, id model.ItemID, content, expectedToken, message string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(id)),
		Body:   strings.NewReader(content),
	}
	if expectedToken == "" {
		in.IfNoneMatch = aws.String("*")
	} else {
		in.IfMatch = aws.String(expectedToken)
	}

	out, err := s.client.PutObject(ctx, in)
	if err != nil {
		err = mapS3Error(err)
		if err == ErrConflict || err == ErrUnauthorized {
			return "", err
		}
		return "", &WriteError{Op: "put " + string(id), Err: err}
	}

	storeLogger.Debug().Str("id", string(id)).Str("message", message).Msg("Object written")
	return aws.ToString(out.ETag), nil
}

func (s *S3Store) Delete(ctx context.Context, id model.ItemID, expectedToken, message string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket:  aws.String(s.bucket),
		Key:     aws.String(string(id)),
		IfMatch: aws.String(expectedToken),
	})
	if err != nil {
		err = mapS3Error(err)
		if err == ErrConflict || err == ErrUnauthorized || err == ErrNotFound {
			return err
		}
		return &WriteError{Op: "delete " + string(id), Err: err}
	}

	storeLogger.Debug().Str("id", string(id)).Str("message", message).Msg("Object deleted")
	return nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]model.Entry, error) {
	var entries []model.Entry

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			err = mapS3Error(err)
			if err == ErrNotFound || err == ErrUnauthorized {
				return nil, err
			}
			return nil, &ReadError{Op: "list " + prefix, Err: err}
		}
		for _, obj := range page.Contents {
			entries = append(entries, model.Entry{
				ID:    model.ItemID(aws.ToString(obj.Key)),
				Token: aws.ToString(obj.ETag),
			})
		}
	}

	// An object store has no directories: an empty prefix and an absent one
	// are the same empty state.
	return entries, nil
}
