package app

import (
	"CodingTracker/common"

	"github.com/gin-gonic/gin"
)

func setError(c *gin.Context, errno int, errmsg string) {
	c.Set("errno", errno)
	c.Set("errmsg", errmsg)
}

// setErr 按错误类型给出 errno
func setErr(c *gin.Context, err error) {
	setError(c, common.ErrnoFromError(err), err.Error())
}

func setMap(c *gin.Context, mp map[string]interface{}) {
	for k, v := range mp {
		c.Set(k, v)
	}
}
