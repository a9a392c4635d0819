// Package storage 提供了与对象存储服务（如 MinIO）交互的功能。
package storage

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"org-synth-go/internal/config"
	"org-synth-go/pkg/log"
)

// MinioClient 是一个全局的 MinIO 客户端实例。
var MinioClient *minio.Client

// InitMinIO 初始化 MinIO 客户端并确保数据集归档桶存在。
func InitMinIO(cfg config.MinIOConfig) error {
	var err error

	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return err
	}
	log.Info("MinIO 客户端初始化成功")

	ctx := context.Background()
	exists, err := MinioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return err
	}
	if !exists {
		log.Infof("存储桶 '%s' 不存在，正在创建...", cfg.BucketName)
		if err := MinioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return err
		}
		log.Infof("存储桶 '%s' 创建成功", cfg.BucketName)
	} else {
		log.Infof("存储桶 '%s' 已存在", cfg.BucketName)
	}
	return nil
}

// UploadArtifact 将一个本地产物文件上传到归档桶的指定前缀下。
func UploadArtifact(ctx context.Context, bucketName, prefix, localPath string) error {
	objectName := prefix + "/" + filepath.Base(localPath)
	contentType := "application/octet-stream"
	switch {
	case strings.HasSuffix(localPath, ".jsonl"):
		contentType = "application/x-ndjson"
	case strings.HasSuffix(localPath, ".json"):
		contentType = "application/json"
	case strings.HasSuffix(localPath, ".csv"):
		contentType = "text/csv"
	}

	_, err := MinioClient.FPutObject(ctx, bucketName, objectName, localPath,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		log.Errorf("上传产物 %s 失败: %v", localPath, err)
		return err
	}
	return nil
}

// GetPresignedURL 为归档对象生成限时下载链接。
func GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	presignedURL, err := MinioClient.PresignedGetObject(context.Background(), bucketName, objectName, expiry, nil)
	if err != nil {
		log.Errorf("Error generating presigned URL: %s", err)
		return "", err
	}
	return presignedURL.String(), nil
}
