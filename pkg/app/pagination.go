package app

import (
	"github.com/haierkeys/fast-note-pad/pkg/convert"

	"github.com/gin-gonic/gin"
)

// 列表分页上限
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// pageParam 读取 query 或表单中的整数参数
func pageParam(c *gin.Context, key string) int {
	if s, ok := c.GetQuery(key); ok {
		return convert.IntOr(s, 0)
	}
	return convert.IntOr(c.PostForm(key), 0)
}

// GetPage 当前页码，从 1 开始
func GetPage(c *gin.Context) int {
	if page := pageParam(c, "page"); page > 0 {
		return page
	}
	return 1
}

// GetPageSize 每页数量，限制在 (0, MaxPageSize]
func GetPageSize(c *gin.Context) int {
	size := pageParam(c, "pageSize")
	switch {
	case size <= 0:
		return DefaultPageSize
	case size > MaxPageSize:
		return MaxPageSize
	}
	return size
}

// NewPager 根据请求参数生成分页信息
func NewPager(c *gin.Context, totalRows int) *Pager {
	return &Pager{
		Page:      GetPage(c),
		PageSize:  GetPageSize(c),
		TotalRows: totalRows,
	}
}

// Paginate slices list to the requested page. Out-of-range pages return an empty slice.
// Paginate 按请求分页截取切片
func Paginate[T any](c *gin.Context, list []T) []T {
	pageSize := GetPageSize(c)
	// 先按页数比较，避免超大页码相乘溢出
	skip := GetPage(c) - 1
	if skip >= (len(list)+pageSize-1)/pageSize {
		return []T{}
	}
	offset := skip * pageSize
	end := offset + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
