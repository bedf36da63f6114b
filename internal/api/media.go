package api

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/internal/api/middleware"
)

const (
	profilePlaceholder = "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400&h=400&fit=crop&crop=face"
	projectPlaceholder = "https://images.unsplash.com/photo-1556742049-0cfed4f6a45d?w=640&h=360&fit=crop&seed="
)

// URLSigner 为对象存储中的 key 生成可访问的链接。
type URLSigner interface {
	SignURL(ctx context.Context, objectKey string) (string, error)
}

// MediaResolver 把库中保存的媒体值转换为浏览器可用的绝对地址。
type MediaResolver struct {
	signer  URLSigner
	baseURL string
}

// NewMediaResolver 构造 MediaResolver。signer 为 nil 时不生成签名链接；baseURL 为空时使用请求的 host。
func NewMediaResolver(signer URLSigner, baseURL string) *MediaResolver {
	return &MediaResolver{signer: signer, baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// Resolve 返回 value 对应的绝对地址，value 为空时返回空串。
func (m *MediaResolver) Resolve(c *gin.Context, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return value
	}

	if m != nil && m.signer != nil {
		signed, err := m.signer.SignURL(c.Request.Context(), value)
		if err == nil {
			return signed
		}
		middleware.LoggerFromContext(c).Warn("sign media url failed, falling back to base url",
			"object_key", value, "error", err)
	}

	return m.base(c) + "/" + strings.TrimLeft(value, "/")
}

// ResolvePtr 与 Resolve 相同，但空值返回 nil。
func (m *MediaResolver) ResolvePtr(c *gin.Context, value string) *string {
	resolved := m.Resolve(c, value)
	if resolved == "" {
		return nil
	}
	return &resolved
}

func (m *MediaResolver) base(c *gin.Context) string {
	if m != nil && m.baseURL != "" {
		return m.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/media"
}
