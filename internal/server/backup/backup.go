// Package backup snapshots the flat-file tables to an S3-compatible bucket
// and restores them, for disaster recovery of the data directory.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ceciliacavosi-unitn/CivicTrento/internal/filex"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/logging"
	sc "github.com/ceciliacavosi-unitn/CivicTrento/internal/server/config"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/civicdata"
	"github.com/ceciliacavosi-unitn/CivicTrento/internal/server/repositories/users"
)

// tableFiles are the files included in every snapshot.
var tableFiles = []string{users.TableFile, civicdata.TableFile}

// loadDefaultAWSConfig is a seam for testing client construction.
var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// objectStore is the subset of the S3 client the service needs.
type objectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Service uploads and downloads table snapshots.
type Service struct {
	config *sc.Config
	logger logging.Logger
	store  objectStore
}

func NewService(cfg *sc.Config, logger logging.Logger) *Service {
	return &Service{config: cfg, logger: logger}
}

// SnapshotKey builds a date-partitioned object prefix for one snapshot run.
func SnapshotKey() string {
	d := time.Now()
	return fmt.Sprintf("snapshots/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *Service) getStore(ctx context.Context) (objectStore, error) {
	if s.store != nil {
		return s.store, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser, s.config.S3RootPassword, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	s.store = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return s.store, nil
}

// Snapshot uploads users.txt and data.txt under a fresh prefix and returns
// it. Tables that do not exist yet are skipped.
func (s *Service) Snapshot(ctx context.Context) (string, error) {
	store, err := s.getStore(ctx)
	if err != nil {
		return "", err
	}

	prefix := SnapshotKey()
	for _, name := range tableFiles {
		path := filepath.Join(s.config.DataDir, name)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				s.logger.Warn(ctx, "table file missing, skipping", "file", name)
				continue
			}
			return "", fmt.Errorf("open %s: %w", name, err)
		}

		key := prefix + "/" + name
		_, err = store.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.config.S3Bucket),
			Key:    aws.String(key),
			Body:   f,
		})
		f.Close()
		if err != nil {
			return "", fmt.Errorf("upload %s: %w", key, err)
		}
		s.logger.Info(ctx, "table uploaded", "key", key)
	}
	return prefix, nil
}

// Restore downloads the snapshot under prefix and atomically replaces the
// local table files. Objects missing from the snapshot are skipped.
func (s *Service) Restore(ctx context.Context, prefix string) error {
	store, err := s.getStore(ctx)
	if err != nil {
		return err
	}

	if err := filex.EnsureDir(s.config.DataDir); err != nil {
		return fmt.Errorf("data dir: %w", err)
	}

	for _, name := range tableFiles {
		key := prefix + "/" + name
		out, err := store.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.config.S3Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			s.logger.Warn(ctx, "snapshot object not restored", "key", key, "error", err)
			continue
		}

		data, err := io.ReadAll(out.Body)
		out.Body.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		if err := filex.ReplaceAtomic(filepath.Join(s.config.DataDir, name), data); err != nil {
			return fmt.Errorf("replace %s: %w", name, err)
		}
		s.logger.Info(ctx, "table restored", "key", key)
	}
	return nil
}
