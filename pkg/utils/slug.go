package utils

import (
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
)

var node atomic.Pointer[snowflake.Node]

func init() {
	n, _ := snowflake.NewNode(1)
	node.Store(n)
}

// SetSlugNode 设置 slug 后缀使用的 snowflake 节点号（0-1023），多副本部署时每个进程需不同
func SetSlugNode(id int64) error {
	n, err := snowflake.NewNode(id)
	if err != nil {
		return fmt.Errorf("invalid slug node id %d: %w", id, err)
	}
	node.Store(n)
	return nil
}

// GenerateSlug 由标题生成 URL 安全的 slug，并追加单调递增的后缀保证唯一
func GenerateSlug(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "article"
	}
	return base + "-" + node.Load().Generate().Base36()
}
