package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestIsNoSuchKey(t *testing.T) {
	assert.False(t, IsNoSuchKey(nil))
	assert.True(t, IsNoSuchKey(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, IsNoSuchKey(fmt.Errorf("stat: %w", minio.ErrorResponse{Code: "NotFound"})))
	assert.True(t, IsNoSuchKey(errors.New("The specified key does not exist.")))
	assert.False(t, IsNoSuchKey(minio.ErrorResponse{Code: "AccessDenied", Message: "not found anywhere"}))
	assert.False(t, IsNoSuchKey(errors.New("access denied")))
}

func TestIsNoSuchBucket(t *testing.T) {
	assert.False(t, IsNoSuchBucket(nil))
	assert.True(t, IsNoSuchBucket(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.True(t, IsNoSuchBucket(errors.New("The specified bucket does not exist")))
	assert.False(t, IsNoSuchBucket(minio.ErrorResponse{Code: "NoSuchKey"}))
}

func TestIsAccessDenied(t *testing.T) {
	assert.False(t, IsAccessDenied(nil))
	assert.True(t, IsAccessDenied(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.True(t, IsAccessDenied(fmt.Errorf("stat: %w", minio.ErrorResponse{Code: "SignatureDoesNotMatch"})))
	assert.True(t, IsAccessDenied(errors.New("Access Denied.")))
	assert.False(t, IsAccessDenied(minio.ErrorResponse{Code: "NoSuchKey"}))
}
