package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"docrag/src/infrastructure/log"
)

// MinioSource reads documents from a MinIO bucket instead of a local
// directory. Intended for deployments where the corpus is maintained by
// another system writing into object storage.
type MinioSource struct {
	client *minio.Client
	bucket string
}

// NewMinioSource connects to MinIO and ensures the corpus bucket exists.
func NewMinioSource(ctx context.Context, endpoint, accessKeyID, secretAccessKey, bucket string, useSSL bool) (*MinioSource, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioSource{
		client: client,
		bucket: bucket,
	}, nil
}

func (s *MinioSource) List(ctx context.Context) ([]Document, error) {
	now := time.Now().UTC()
	var docs []Document

	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", s.bucket, object.Err)
		}

		text, ok, err := s.readObject(ctx, object.Key)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Debug("skipping unsupported object", "bucket", s.bucket, "key", object.Key)
			continue
		}

		docs = append(docs, Document{
			Name:     object.Key,
			Text:     text,
			LoadedAt: now,
		})
	}

	return docs, nil
}

func (s *MinioSource) Put(ctx context.Context, name string, content []byte) error {
	if name == "" {
		return fmt.Errorf("document name is required")
	}

	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", name, err)
	}

	return nil
}

func (s *MinioSource) readObject(ctx context.Context, key string) (string, bool, error) {
	ext := strings.ToLower(filepath.Ext(key))
	if ext != ".txt" && ext != ".md" && ext != ".pdf" {
		return "", false, nil
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", false, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return "", false, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	if ext == ".pdf" {
		// The pdf library only works with file paths
		tmp, err := os.CreateTemp("", "docrag-*.pdf")
		if err != nil {
			return "", false, fmt.Errorf("failed to create temp file: %w", err)
		}
		defer os.Remove(tmp.Name())

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return "", false, fmt.Errorf("failed to write temp file: %w", err)
		}
		tmp.Close()

		text, err := extractPDFText(tmp.Name())
		if err != nil {
			return "", false, fmt.Errorf("failed to extract text from %s: %w", key, err)
		}
		return text, true, nil
	}

	return string(data), true, nil
}
