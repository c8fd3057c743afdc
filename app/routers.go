package app

import (
	"CodingTracker/model"
	"CodingTracker/tracker"
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type userCreator interface {
	CreateUser(ctx context.Context, u *model.User) error
}

//路由
func InitRouters(tk *tracker.Tracker, users userCreator, log *logrus.Entry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s := &trackerService{tk: tk, usr: users, log: log.WithField("component", "app")}
	g := r.Group("/api")
	g.Use(requestLogger(s.log), jsonResponse)
	{
		g.GET("ping", ping)

		//同步
		g.POST("refreshAll", s.refreshAll)
		g.POST("refreshUser", s.refreshUser)
		g.POST("refreshCatalog", s.refreshCatalog)
		g.POST("backfillProblems", s.backfillProblems)
		g.GET("refreshStatus", s.refreshStatus)
		g.GET("lastRefreshTime", s.lastRefreshTime)

		//统计
		g.GET("getStats", s.getStats)
		g.GET("getStateHistory", s.getStateHistory)
		g.GET("getUserTries", s.getUserTries)
		g.GET("getTryCounts", s.getTryCounts)
		g.GET("getAcCounts", s.getAcCounts)
		g.GET("getCFUserInfo", s.getCFUserInfo)
		g.GET("getPlatforms", s.getPlatforms)

		//用户
		g.POST("addUser", s.addUser)
	}
	return r
}
