// Package storage 封装MinIO对象存储
// 工资单、合同文档等文件统一走这里上传和签发下载链接
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store 对象存储客户端
type Store struct {
	client *minio.Client
	bucket string
}

// Options 存储配置
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// New 创建存储客户端并确保桶存在
func New(ctx context.Context, opts Options) (*Store, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &Store{client: client, bucket: opts.Bucket}, nil
}

// ObjectName 生成存储路径：<前缀>/<年/月/日>/<随机段><扩展名>
func ObjectName(prefix, fileName string) string {
	return fmt.Sprintf("%s/%s/%s%s", prefix, time.Now().Format("2006/01/02"),
		uuid.New().String()[:8], filepath.Ext(fileName))
}

// Upload 上传文件
func (s *Store) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	return nil
}

// PresignedGet 签发限时下载链接，附带下载文件名
func (s *Store) PresignedGet(ctx context.Context, objectName, fileName string, expiry time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))

	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, params)
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	return u.String(), nil
}

// Remove 删除文件
func (s *Store) Remove(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
