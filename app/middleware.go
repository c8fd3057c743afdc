package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//中间件

//c中没有返回码, 默认为200, 错误放在 errno 里
func jsonResponse(c *gin.Context) {
	c.Next()
	statusCode := c.Writer.Status()
	if statusCode == 404 {
		c.JSON(404, gin.H{"errmsg": "Not Found"})
	} else if _, exist := c.Get("noPack"); !exist {
		if _, ok := c.Get("errno"); !ok {
			c.Set("errno", 0)
		}
		c.JSON(200, c.Keys)
	}
}

// requestLogger 每个请求一行日志
func requestLogger(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		if errno, ok := c.Get("errno"); ok && errno != 0 {
			fields["errno"] = errno
			log.WithFields(fields).Warn(c.GetString("errmsg"))
			return
		}
		log.WithFields(fields).Debug("请求完成")
	}
}
