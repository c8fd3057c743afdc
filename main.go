package main

import (
	"CodingTracker/app"
	"CodingTracker/common"
	"CodingTracker/crawler"
	"CodingTracker/dao"
	"CodingTracker/extoj"
	"CodingTracker/tracker"
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := flag.String("config", "config.json", "配置文件路径")
	flag.Parse()

	cfg, err := common.LoadConfig(*cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("读取配置失败")
	}
	if err := common.Init(cfg); err != nil {
		logrus.WithError(err).Fatal("配置错误")
	}
	log := logrus.NewEntry(common.NewLogger(common.LogCfg))

	store, stats, err := dao.Init(cfg)
	if err != nil {
		log.WithError(err).Fatal("数据库初始化失败")
	}
	log.WithField("storage", common.Storage).Info("数据库初始化完成")

	links, err := crawler.LoadLinks(common.Sync.LinksFile)
	if err != nil {
		//没有链接配置时所有平台都会被跳过, 服务照常启动
		log.WithError(err).Error("读取平台链接配置失败")
		links = crawler.NewLinks()
	}
	log.WithField("platforms", links.Platforms()).Info("平台链接配置已加载")
	luoguTags, err := crawler.LoadLuoguTags(common.Sync.LuoguTagsFile)
	if err != nil {
		log.WithError(err).Warn("读取洛谷标签失败, 洛谷题目将没有标签")
	}

	adapters := extoj.NewAdapters(extoj.Options{
		Deps: crawler.Deps{
			Fetcher:     crawler.NewHTTPFetcher(common.Sync, log),
			Links:       links,
			Log:         log,
			DetailLimit: common.Sync.DetailLimit,
		},
		Problems:      store,
		LuoguTags:     luoguTags,
		LuoguMaxPages: common.Sync.LuoguMaxPages,
	})
	tk := tracker.New(store, stats, adapters, tracker.Config{
		PoolSize:    common.Sync.PoolSize,
		TaskTimeout: common.Sync.TaskTimeout,
	}, log)
	tk.StartDailySnapshot(time.Minute)

	srv := &http.Server{
		Addr:    common.Address,
		Handler: app.InitRouters(tk, store, log),
	}
	go func() {
		log.WithField("address", common.Address).Info("服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("服务启动失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("正在关闭服务")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("服务关闭失败")
	}
	tk.Close()
	log.Info("服务已退出")
}
