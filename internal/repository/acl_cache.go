package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"org-synth-go/internal/model"
)

// ErrACLNotFound 表示缓存中不存在该资源的权限记录。
var ErrACLNotFound = errors.New("acl not found")

// ACLCache 接口定义了权限记录的缓存操作，供下游服务快速鉴权。
type ACLCache interface {
	StoreACLs(ctx context.Context, acls []*model.ACL) error
	GetACL(ctx context.Context, resourceType, resourceID string) (*CachedACL, error)
	IsAllowed(ctx context.Context, resourceType, resourceID, personID, team string) (bool, error)
	Clear(ctx context.Context) error
}

// CachedACL 是权限记录在缓存中的存储形态。
type CachedACL struct {
	ResourceType   string   `json:"resource_type"`
	ResourceID     string   `json:"resource_id"`
	AllowPersonIDs []string `json:"allow_person_ids"`
	AllowTeams     []string `json:"allow_teams"`
	DenyPersonIDs  []string `json:"deny_person_ids"`
	ACLWarning     bool     `json:"acl_warning"`
}

// aclCache 是 ACLCache 接口的 Redis 实现。
type aclCache struct {
	client *redis.Client
}

// NewACLCache 创建一个新的 ACLCache 实例。
func NewACLCache(client *redis.Client) ACLCache {
	return &aclCache{client: client}
}

// aclKey 生成权限记录的缓存键。
func aclKey(resourceType, resourceID string) string {
	return fmt.Sprintf("acl:%s:%s", resourceType, resourceID)
}

// StoreACLs 将权限记录批量写入缓存。同一资源后写的记录覆盖先写的，
// 与生成顺序一致：异常场景的收紧记录排在常规记录之后。
func (c *aclCache) StoreACLs(ctx context.Context, acls []*model.ACL) error {
	pipe := c.client.Pipeline()
	for _, acl := range acls {
		cached := CachedACL{
			ResourceType:   acl.ResourceType,
			ResourceID:     acl.ResourceID,
			AllowPersonIDs: acl.AllowPersonIDs,
			AllowTeams:     acl.AllowTeams,
			DenyPersonIDs:  acl.DenyPersonIDs,
			ACLWarning:     acl.ACLWarning,
		}
		raw, err := json.Marshal(cached)
		if err != nil {
			return fmt.Errorf("序列化权限记录 %s 失败: %w", acl.ResourceID, err)
		}
		pipe.Set(ctx, aclKey(acl.ResourceType, acl.ResourceID), raw, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetACL 按资源类型和标识读取权限记录。
func (c *aclCache) GetACL(ctx context.Context, resourceType, resourceID string) (*CachedACL, error) {
	raw, err := c.client.Get(ctx, aclKey(resourceType, resourceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrACLNotFound
		}
		return nil, err
	}
	var cached CachedACL
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("解析权限记录 %s 失败: %w", resourceID, err)
	}
	return &cached, nil
}

// IsAllowed 判断人员能否访问资源。拒绝名单优先，
// 其次看人员白名单，最后看团队白名单。
func (c *aclCache) IsAllowed(ctx context.Context, resourceType, resourceID, personID, team string) (bool, error) {
	cached, err := c.GetACL(ctx, resourceType, resourceID)
	if err != nil {
		return false, err
	}

	for _, denied := range cached.DenyPersonIDs {
		if denied == personID {
			return false, nil
		}
	}
	for _, allowed := range cached.AllowPersonIDs {
		if allowed == personID {
			return true, nil
		}
	}
	for _, allowedTeam := range cached.AllowTeams {
		if allowedTeam == team {
			return true, nil
		}
	}
	return false, nil
}

// Clear 清空全部权限缓存键。
func (c *aclCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "acl:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
