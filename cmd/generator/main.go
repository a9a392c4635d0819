// Package main 是数据集生成器的入口点。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"org-synth-go/internal/config"
	"org-synth-go/internal/pipeline"
	"org-synth-go/internal/repository"
	"org-synth-go/pkg/database"
	"org-synth-go/pkg/es"
	"org-synth-go/pkg/kafka"
	"org-synth-go/pkg/log"
	"org-synth-go/pkg/storage"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 初始化配置
	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "配置初始化失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 按需初始化下游输出端
	var runRepo repository.RunRepository
	var aclCache repository.ACLCache
	if cfg.Sinks.MySQL.Enabled {
		if err := database.InitMySQL(cfg.Sinks.MySQL.DSN); err != nil {
			log.Fatalf("MySQL 初始化失败: %v", err)
		}
		var err error
		runRepo, err = repository.NewRunRepository(database.DB)
		if err != nil {
			log.Fatalf("运行台账初始化失败: %v", err)
		}
	}
	if cfg.Sinks.Redis.Enabled {
		if err := database.InitRedis(cfg.Sinks.Redis.Addr, cfg.Sinks.Redis.Password, cfg.Sinks.Redis.DB); err != nil {
			log.Fatalf("Redis 初始化失败: %v", err)
		}
		aclCache = repository.NewACLCache(database.RDB)
	}
	if cfg.Sinks.MinIO.Enabled {
		if err := storage.InitMinIO(cfg.Sinks.MinIO); err != nil {
			log.Fatalf("MinIO 初始化失败: %v", err)
		}
	}
	if cfg.Sinks.Elasticsearch.Enabled {
		if err := es.InitES(cfg.Sinks.Elasticsearch); err != nil {
			log.Fatalf("es 初始化失败: %v", err)
		}
	}
	if cfg.Sinks.Kafka.Enabled {
		kafka.InitProducer(cfg.Sinks.Kafka)
		defer kafka.Close()
	}

	// 4. 记录运行台账
	var run *repository.DatasetRun
	if runRepo != nil {
		run = repository.NewRun(cfg.Organization.CompanyName, cfg.Seed, cfg.Output.Dir)
		if err := runRepo.CreateRun(run); err != nil {
			log.Fatalf("创建运行记录失败: %v", err)
		}
		log.Infof("运行 %s 已登记", run.RunID)
	}

	// 5. 执行生成流水线
	res, err := pipeline.NewProcessor(&cfg).Run()
	if err != nil {
		if runRepo != nil && run != nil {
			if ferr := runRepo.FailRun(run.RunID, err.Error()); ferr != nil {
				log.Errorf("标记运行失败时出错: %v", ferr)
			}
		}
		log.Fatalf("数据集生成失败: %v", err)
	}

	// 6. 推送产物到下游
	ctx := context.Background()
	if cfg.Sinks.Elasticsearch.Enabled {
		if _, err := es.IndexDocuments(ctx, cfg.Sinks.Elasticsearch.IndexName, res.Documents); err != nil {
			log.Errorf("索引文档失败: %v", err)
		}
	}
	if cfg.Sinks.Kafka.Enabled {
		if err := kafka.PublishUserEvents(ctx, res.UserEvents); err != nil {
			log.Errorf("发布用户事件失败: %v", err)
		}
	}
	if aclCache != nil {
		if err := aclCache.StoreACLs(ctx, res.ACLs); err != nil {
			log.Errorf("写入权限缓存失败: %v", err)
		} else {
			log.Infof("已缓存 %d 条权限记录", len(res.ACLs))
		}
	}
	if cfg.Sinks.MinIO.Enabled {
		prefix := "latest"
		if run != nil {
			prefix = run.RunID
		}
		if err := archiveArtifacts(ctx, cfg, prefix); err != nil {
			log.Errorf("归档产物失败: %v", err)
		}
	}

	// 7. 完成运行台账
	if runRepo != nil && run != nil {
		counts := repository.RunCounts{
			People:   len(res.People),
			Docs:     len(res.Documents),
			Threads:  len(res.Threads),
			Messages: len(res.Messages),
			Edges:    len(res.Edges),
			Events:   len(res.UserEvents),
		}
		if err := runRepo.CompleteRun(run.RunID, counts); err != nil {
			log.Errorf("标记运行完成时出错: %v", err)
		}
	}

	log.Infow("生成器运行结束", "output_dir", cfg.Output.Dir)
}

// archiveArtifacts 将输出目录下的全部产物文件上传到归档桶。
func archiveArtifacts(ctx context.Context, cfg config.Config, prefix string) error {
	entries, err := os.ReadDir(cfg.Output.Dir)
	if err != nil {
		return err
	}
	uploaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		localPath := filepath.Join(cfg.Output.Dir, entry.Name())
		if err := storage.UploadArtifact(ctx, cfg.Sinks.MinIO.BucketName, prefix, localPath); err != nil {
			return err
		}
		uploaded++
	}
	log.Infof("已归档 %d 个产物文件到 '%s/%s'", uploaded, cfg.Sinks.MinIO.BucketName, prefix)
	return nil
}
