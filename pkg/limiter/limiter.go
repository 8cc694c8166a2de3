// Package limiter 基于令牌桶的请求限流
package limiter

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face 限流器接口
type Face interface {
	Key(c *gin.Context) string
	GetBucket(key string) (*ratelimit.Bucket, bool)
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule 令牌桶规则
type BucketRule struct {
	// Key 规则键，格式为 "METHOD /path"
	Key          string
	FillInterval time.Duration
	Capacity     int64
	Quantum      int64
}

// MethodLimiter limits by request method and route path; routes without a rule pass freely.
// MethodLimiter 按请求方法与路由路径限流，未配置规则的路由不受限
type MethodLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*ratelimit.Bucket
}

// NewMethodLimiter 创建 MethodLimiter
func NewMethodLimiter() *MethodLimiter {
	return &MethodLimiter{buckets: make(map[string]*ratelimit.Bucket)}
}

// RuleKey 拼接规则键
func RuleKey(method, path string) string {
	return method + " " + path
}

func (l *MethodLimiter) Key(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return RuleKey(c.Request.Method, path)
}

func (l *MethodLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.buckets[key]
	return b, ok
}

// AddBuckets 添加规则，已存在的键不会被覆盖
func (l *MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rule := range rules {
		if _, ok := l.buckets[rule.Key]; ok {
			continue
		}
		quantum := rule.Quantum
		if quantum <= 0 {
			quantum = 1
		}
		l.buckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, quantum)
	}
	return l
}
