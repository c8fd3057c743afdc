package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type H = map[string]interface{}

// SyncConfig 同步相关的配置
type SyncConfig struct {
	PoolSize      int           //同时抓取的任务数
	TaskTimeout   time.Duration //单个(平台,用户)任务的超时
	FetchTimes    int           //单次请求的最多尝试次数
	FetchTimeout  time.Duration //单次尝试的超时
	FetchBackoff  time.Duration //两次尝试之间的等待
	FetchQPS      float64       //每秒最多请求数, 0 表示不限
	LuoguMaxPages int
	DetailLimit   int //一次抓取最多补多少个题目详情
	LinksFile     string
	LuoguTagsFile string
}

func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		PoolSize:      runtime.NumCPU(),
		TaskTimeout:   30 * time.Second,
		FetchTimes:    5,
		FetchTimeout:  8 * time.Second,
		FetchBackoff:  300 * time.Millisecond,
		FetchQPS:      0,
		LuoguMaxPages: 200,
		DetailLimit:   100,
		LinksFile:     "oj_links.yaml",
		LuoguTagsFile: "luogu-tags.json",
	}
}

var (
	Address = ":9999"
	Storage = "mysql"
	Sync    = DefaultSyncConfig()
	LogCfg  = H{"level": "info", "format": "json"}
)

//环境变量覆盖配置中的敏感信息, key 为 "段.字段"
var envOverrides = map[string]string{
	"CT_MYSQL_PASSWORD":    "mysql.password",
	"CT_POSTGRES_PASSWORD": "postgres.password",
	"CT_REDIS_PASSWORD":    "redis.password",
}

// LoadConfig 先加载 .env 再读取 json 配置
func LoadConfig(path string) (H, error) {
	_ = godotenv.Load()
	x, err := GetContent(path)
	if err != nil {
		return nil, err
	}
	if x == "" {
		return nil, fmt.Errorf("配置文件 %s 不存在或为空", path)
	}
	cfg := make(H)
	if err := json.Unmarshal([]byte(x), &cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg H) {
	for env, target := range envOverrides {
		value, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		parts := strings.SplitN(target, ".", 2)
		section, key := parts[0], parts[1]
		sub, ok := cfg[section].(H)
		if !ok {
			sub = make(H)
			cfg[section] = sub
		}
		sub[key] = value
	}
}

func Init(cfg H) error {
	if addr, ok := cfg["address"]; ok {
		var ok1 bool
		if Address, ok1 = addr.(string); !ok1 {
			return errors.New("监听地址加载错误")
		}
	}
	if s, ok := cfg["storage"]; ok {
		var ok1 bool
		if Storage, ok1 = s.(string); !ok1 {
			return errors.New("storage 配置错误")
		}
	}
	if l, ok := cfg["log"]; ok {
		lc, ok1 := l.(H)
		if !ok1 {
			return errors.New("日志配置错误")
		}
		for k, v := range lc {
			LogCfg[k] = v
		}
	}
	if t, ok := cfg["tracker"]; ok {
		tc, ok1 := t.(H)
		if !ok1 {
			return errors.New("同步配置错误")
		}
		sc, err := parseSyncConfig(tc)
		if err != nil {
			return err
		}
		Sync = sc
	}
	return nil
}

func parseSyncConfig(tc H) (SyncConfig, error) {
	sc := DefaultSyncConfig()
	var err error
	if sc.PoolSize, err = intOf(tc, "pool_size", sc.PoolSize); err != nil {
		return sc, err
	}
	if sc.PoolSize <= 0 {
		sc.PoolSize = runtime.NumCPU()
	}
	var secs int
	if secs, err = intOf(tc, "task_timeout_seconds", int(sc.TaskTimeout/time.Second)); err != nil {
		return sc, err
	}
	sc.TaskTimeout = time.Duration(secs) * time.Second
	if sc.FetchTimes, err = intOf(tc, "fetch_times", sc.FetchTimes); err != nil {
		return sc, err
	}
	if secs, err = intOf(tc, "fetch_timeout_seconds", int(sc.FetchTimeout/time.Second)); err != nil {
		return sc, err
	}
	sc.FetchTimeout = time.Duration(secs) * time.Second
	var ms int
	if ms, err = intOf(tc, "fetch_backoff_ms", int(sc.FetchBackoff/time.Millisecond)); err != nil {
		return sc, err
	}
	sc.FetchBackoff = time.Duration(ms) * time.Millisecond
	if v, ok := tc["fetch_qps"]; ok {
		f, ok1 := v.(float64)
		if !ok1 {
			return sc, errors.New("fetch_qps 必须是数字")
		}
		sc.FetchQPS = f
	}
	if sc.LuoguMaxPages, err = intOf(tc, "luogu_max_pages", sc.LuoguMaxPages); err != nil {
		return sc, err
	}
	if sc.DetailLimit, err = intOf(tc, "detail_limit", sc.DetailLimit); err != nil {
		return sc, err
	}
	if v, ok := tc["links_file"].(string); ok && v != "" {
		sc.LinksFile = v
	}
	if v, ok := tc["luogu_tags_file"].(string); ok && v != "" {
		sc.LuoguTagsFile = v
	}
	return sc, nil
}

//json 里的数字都是 float64
func intOf(m H, key string, def int) (int, error) {
	v, ok := m[key]
	if !ok {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok {
		return def, fmt.Errorf("%s 必须是数字", key)
	}
	return int(f), nil
}
