package crawler

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"
)

// Links 各平台的链接配置, 启动时加载一次
type Links struct {
	mu sync.RWMutex
	m  map[model.Platform]model.OJLink
}

func NewLinks(links ...model.OJLink) *Links {
	l := &Links{m: make(map[model.Platform]model.OJLink)}
	for _, link := range links {
		l.Set(link)
	}
	return l
}

// LoadLinks 读取 yaml, key 是平台名或别名;
// 环境变量 CT_<PLATFORM>_COOKIE 会覆盖 auth_token
func LoadLinks(path string) (*Links, error) {
	x, err := common.GetContent(path)
	if err != nil {
		return nil, err
	}
	if x == "" {
		return nil, fmt.Errorf("链接配置 %s 不存在或为空: %w", path, common.ErrConfiguration)
	}
	return ParseLinks([]byte(x))
}

func ParseLinks(data []byte) (*Links, error) {
	raw := make(map[string]model.OJLink)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	l := NewLinks()
	for name, link := range raw {
		p := model.PlatformFromName(name)
		if p == model.UNKNOWN {
			return nil, fmt.Errorf("未知平台 %s: %w", name, common.ErrConfiguration)
		}
		link.Platform = p
		if v, ok := os.LookupEnv("CT_" + string(p) + "_COOKIE"); ok {
			link.AuthToken = v
		}
		l.Set(link)
	}
	return l, nil
}

func (l *Links) Set(link model.OJLink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[link.Platform] = link
}

// Get 缺少配置时返回 ErrConfiguration
func (l *Links) Get(p model.Platform) (*model.OJLink, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	link, ok := l.m[p]
	if !ok || strings.TrimSpace(link.UserInfoURL) == "" {
		return nil, fmt.Errorf("%s: %w", p, common.ErrConfiguration)
	}
	return &link, nil
}

func (l *Links) Platforms() []model.Platform {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ret := make([]model.Platform, 0, len(l.m))
	for p := range l.m {
		ret = append(ret, p)
	}
	return ret
}
