package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"praktikmaal_backend/internal/config"
	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/util"
	"praktikmaal_backend/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider is the generic object-storage seam.
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// LocalStorageProvider writes objects under a local directory.
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	_, err = io.Copy(out, reader)
	if err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	dst := filepath.Join(p.Config.LocalPath, filename)
	return os.Remove(dst)
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

// MinioStorageProvider stores objects in a MinIO bucket.
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	return "/" + p.Config.MinioBucket + "/" + filename
}

// StorageService mirrors attachment payloads to object storage so large
// files can be served directly instead of being decoded from the goals
// table on every download. The base64 column stays canonical; the mirror is
// best-effort. With storage type "inline" no mirror is kept.
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("MinIO unavailable, attachments stay inline", zap.Error(err))
		} else {
			provider = p
		}
	case util.StorageLocal:
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	case util.StorageInline, "":
		// canonical base64 copy only, no mirror
	}

	return &StorageService{Provider: provider}
}

func attachmentObjectKey(goalID, name string) string {
	return fmt.Sprintf("attachments/%s/%s", goalID, name)
}

// MirrorAttachment uploads the decoded payload. Failures are logged and
// swallowed; the inline copy in the store remains authoritative.
func (s *StorageService) MirrorAttachment(ctx context.Context, goalID string, a *model.Attachment) {
	if s == nil || s.Provider == nil || a == nil {
		return
	}
	raw, err := util.DecodeAttachment(a)
	if err != nil {
		logger.Log.Warn("attachment mirror skipped", zap.String("goal", goalID), zap.Error(err))
		return
	}
	key := attachmentObjectKey(goalID, a.Name)
	if _, err := s.Provider.Upload(ctx, key, bytes.NewReader(raw), int64(len(raw)), a.Type); err != nil {
		logger.Log.Warn("attachment mirror failed", zap.String("goal", goalID), zap.Error(err))
	}
}

// RemoveMirror drops the mirrored object, if any.
func (s *StorageService) RemoveMirror(ctx context.Context, goalID string, a *model.Attachment) {
	if s == nil || s.Provider == nil || a == nil {
		return
	}
	key := attachmentObjectKey(goalID, a.Name)
	if err := s.Provider.Delete(ctx, key); err != nil {
		logger.Log.Debug("attachment mirror delete failed", zap.String("goal", goalID), zap.Error(err))
	}
}
