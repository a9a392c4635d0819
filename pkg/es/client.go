// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"org-synth-go/internal/config"
	"org-synth-go/internal/model"
	"org-synth-go/internal/output"
	"org-synth-go/pkg/log"
)

var ESClient *elasticsearch.Client

// InitES 初始化 Elasticsearch 客户端并确保文档索引存在。
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName)
}

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它
func createIndexIfNotExists(indexName string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("检查索引 '%s' 是否存在时收到意外的状态码: %d", indexName, res.StatusCode)
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	// 合成文档的检索结构：正文全文检索，标签、团队和密级走精确过滤
	mapping := `{
		"mappings": {
			"properties": {
				"doc_id": { "type": "keyword" },
				"title": { "type": "text" },
				"content": { "type": "text" },
				"team": { "type": "keyword" },
				"author_person_id": { "type": "keyword" },
				"tags": { "type": "keyword" },
				"created_at": { "type": "date" },
				"status": { "type": "keyword" },
				"visibility": { "type": "keyword" },
				"language": { "type": "keyword" },
				"confidentiality": { "type": "keyword" }
			}
		}
	}`

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", indexName)
	return nil
}

// IndexDocument 将单篇合成文档索引到 Elasticsearch。
func IndexDocument(ctx context.Context, indexName string, doc *model.Document) error {
	docBytes, err := output.EncodeRecord(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: doc.DocID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("索引文档到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index document")
	}
	return nil
}

// IndexDocuments 逐篇索引一批文档，返回成功条数。
func IndexDocuments(ctx context.Context, indexName string, docs []*model.Document) (int, error) {
	indexed := 0
	for _, doc := range docs {
		if err := IndexDocument(ctx, indexName, doc); err != nil {
			return indexed, fmt.Errorf("索引文档 %s 失败: %w", doc.DocID, err)
		}
		indexed++
	}
	log.Infof("已索引 %d 篇文档到 '%s'", indexed, indexName)
	return indexed, nil
}
