package common

import (
	"errors"
	"net/http"
)

var (
	ErrConfiguration = errors.New("缺少平台链接配置")
	ErrFetchTimeout  = errors.New("抓取超时")
	ErrFetchFailure  = errors.New("抓取失败")
	ErrParse         = errors.New("解析失败")
	ErrEmptyResponse = errors.New("返回内容为空")
	ErrNotFound      = errors.New("不存在")
	ErrBadRequest    = errors.New("参数错误")
)

// ErrnoFromError 错误转换成返回给前端的 errno
func ErrnoFromError(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConfiguration) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrFetchTimeout) {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, ErrFetchFailure) || errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrParse) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
