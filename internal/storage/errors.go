package storage

import (
	"errors"
	"strings"

	"github.com/minio/minio-go/v7"
)

// errorCode 提取 S3 错误码（小写）；非 S3 响应返回空串。
func errorCode(err error) string {
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return strings.ToLower(strings.TrimSpace(minioErr.Code))
	}
	return ""
}

// 有的网关只返回纯文本错误，按消息兜底匹配。
func messageContains(err error, needles ...string) bool {
	lower := strings.ToLower(err.Error())
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// IsNoSuchKey 判断媒体对象是否不存在。
func IsNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	switch errorCode(err) {
	case "nosuchkey", "notfound":
		return true
	case "":
		return messageContains(err, "nosuchkey", "specified key does not exist")
	}
	return false
}

// IsNoSuchBucket 判断媒体 Bucket 是否不存在。
func IsNoSuchBucket(err error) bool {
	if err == nil {
		return false
	}
	switch errorCode(err) {
	case "nosuchbucket":
		return true
	case "":
		return messageContains(err, "nosuchbucket", "specified bucket does not exist")
	}
	return false
}

// IsAccessDenied 判断凭据是否无权访问对象。
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	switch errorCode(err) {
	case "accessdenied", "invalidaccesskeyid", "signaturedoesnotmatch":
		return true
	case "":
		return messageContains(err, "access denied")
	}
	return false
}
