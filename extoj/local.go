package extoj

import (
	"CodingTracker/crawler"
	"CodingTracker/dao"
)

//这几个平台没有可用的在线题库接口, 全部题目取本地已知的

type LuoguAdapter struct {
	baseAdapter
}

func NewLuoguAdapter(c *crawler.Luogu, links *crawler.Links, problems dao.ProblemStore) *LuoguAdapter {
	return &LuoguAdapter{baseAdapter{crawler: c, links: links, problems: problems}}
}

type HDUAdapter struct {
	baseAdapter
}

func NewHDUAdapter(c *crawler.HDU, links *crawler.Links, problems dao.ProblemStore) *HDUAdapter {
	return &HDUAdapter{baseAdapter{crawler: c, links: links, problems: problems}}
}

type POJAdapter struct {
	baseAdapter
}

func NewPOJAdapter(c *crawler.POJ, links *crawler.Links, problems dao.ProblemStore) *POJAdapter {
	return &POJAdapter{baseAdapter{crawler: c, links: links, problems: problems}}
}
