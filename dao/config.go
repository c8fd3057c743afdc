package dao

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/go-xorm/xorm"
	_ "github.com/lib/pq"
	"xorm.io/core"
)

type H = map[string]interface{}

//连接 mysql 或 postgres
func connect(cfg H) (*xorm.Engine, error) {
	switch common.Storage {
	case "mysql":
		mysql, ok := cfg["mysql"].(H)
		if !ok {
			return nil, errors.New("读取mysql配置失败")
		}
		dataSourceName := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			str(mysql, "name"), str(mysql, "password"), str(mysql, "host"), str(mysql, "database"))
		return openEngine("mysql", dataSourceName)
	case "postgres":
		pg, ok := cfg["postgres"].(H)
		if !ok {
			return nil, errors.New("读取postgres配置失败")
		}
		sslmode := str(pg, "sslmode")
		if sslmode == "" {
			sslmode = "disable"
		}
		dataSourceName := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			str(pg, "host"), str(pg, "port"), str(pg, "name"), str(pg, "password"), str(pg, "database"), sslmode)
		return openEngine("postgres", dataSourceName)
	}
	return nil, fmt.Errorf("不支持的存储类型 %s", common.Storage)
}

func openEngine(driver, dataSourceName string) (*xorm.Engine, error) {
	engine, err := xorm.NewEngine(driver, dataSourceName)
	if err != nil {
		return nil, err
	}
	if err = engine.Ping(); err != nil {
		return nil, err
	}
	return engine, nil
}

func connectRedis(cfg H) (*redis.Client, error) {
	rds, ok := cfg["redis"].(H)
	if !ok {
		return nil, errors.New("读取redis配置失败")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     str(rds, "addr"),     //"localhost:6379"
		Password: str(rds, "password"), // no password set
		DB:       0,                    // use default DB
	})
	if err := rdb.Ping(context.TODO()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

func str(m H, key string) string {
	s, _ := m[key].(string)
	return s
}

// collationFixes mysql 默认的排序规则不区分大小写, 标签名要按二进制比较, 否则 "dp" 和 "DP" 会撞上唯一索引
func collationFixes(driver string) []string {
	if driver != "mysql" {
		return nil
	}
	return []string{
		"ALTER TABLE `tag` MODIFY `name` VARCHAR(128) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
	}
}

// 表同步
func syncTables(engine *xorm.Engine) error {
	tables := []interface{}{
		new(model.User),
		new(model.UserOJ),
		new(model.Problem),
		new(model.Tag),
		new(model.ProblemTag),
		new(model.Attempt),
		new(model.SystemState),
		new(model.CFUserInfo),
	}
	for _, t := range tables {
		if err := engine.Sync2(t); err != nil {
			return err
		}
	}
	for _, q := range collationFixes(engine.DriverName()) {
		if _, err := engine.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Init 按配置打开主库和统计用的 redis; storage 为 memory 且没有配置 redis 时统计也放内存
func Init(cfg H) (Store, StatsStore, error) {
	var store Store
	if common.Storage == "memory" {
		mem := NewMemoryStore()
		store = mem
		if _, ok := cfg["redis"]; !ok {
			return store, mem, nil
		}
	} else {
		engine, err := connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		xs, err := NewXormStore(engine)
		if err != nil {
			return nil, nil, err
		}
		store = xs
	}
	rdb, err := connectRedis(cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, NewRedisStats(rdb, ""), nil
}

// XormStore 基于 xorm 的 Store
type XormStore struct {
	engine *xorm.Engine
}

func NewXormStore(engine *xorm.Engine) (*XormStore, error) {
	engine.SetMapper(core.GonicMapper{})
	if err := syncTables(engine); err != nil {
		return nil, err
	}
	return &XormStore{engine: engine}, nil
}
