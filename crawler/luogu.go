package crawler

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type luoguRecord struct {
	Problem struct {
		PID   string `json:"pid"`
		Title string `json:"title"`
	} `json:"problem"`
	SubmitTime int64        `json:"submitTime"`
	Status     *json.Number `json:"status"`
}

type luoguRecordPage struct {
	CurrentData struct {
		Records struct {
			Result []luoguRecord `json:"result"`
		} `json:"records"`
	} `json:"currentData"`
}

type luoguContext struct {
	Data struct {
		Problem struct {
			Title string `json:"title"`
			Tags  []int  `json:"tags"`
		} `json:"problem"`
	} `json:"data"`
}

type Luogu struct {
	base
	tags     map[int]string
	maxPages int
}

// NewLuogu tags 为洛谷标签 id 到名字的映射
func NewLuogu(d Deps, tags map[int]string, maxPages int) *Luogu {
	if tags == nil {
		tags = map[int]string{}
	}
	if maxPages <= 0 {
		maxPages = 200
	}
	return &Luogu{base: newBase(model.LUOGU, d), tags: tags, maxPages: maxPages}
}

// LoadLuoguTags 读取 luogu-tags.json: {"tags":[{"id":1,"name":"模拟"}]}
func LoadLuoguTags(path string) (map[int]string, error) {
	x, err := common.GetContent(path)
	if err != nil {
		return nil, err
	}
	ret := make(map[int]string)
	if x == "" {
		return ret, nil
	}
	var meta struct {
		Tags []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"tags"`
	}
	if err := json.Unmarshal([]byte(x), &meta); err != nil {
		return nil, fmt.Errorf("%w: 洛谷标签 %v", common.ErrParse, err)
	}
	for _, t := range meta.Tags {
		ret[t.ID] = t.Name
	}
	return ret, nil
}

func (l *Luogu) cookies(link *model.OJLink) map[string]string {
	return ParseCookies(link.AuthToken)
}

func (l *Luogu) page(ctx context.Context, link *model.OJLink, uid string, page int) ([]luoguRecord, error) {
	resp, err := l.fetcher.Fetch(ctx, Request{
		URL:     fmt.Sprintf(link.UserInfoURL, uid, page),
		Mode:    ModeText,
		Cookies: l.cookies(link),
	})
	if err != nil {
		return nil, err
	}
	var data luoguRecordPage
	if err := json.Unmarshal([]byte(resp.Body), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	return data.CurrentData.Records.Result, nil
}

//没有 status 字段时按通过处理, 链接模板只列出通过的记录
func luoguResult(r luoguRecord) model.ResultKind {
	if r.Status == nil {
		return model.AC
	}
	return luoguVerdicts.Map(r.Status.String())
}

func (l *Luogu) FetchUserAttempts(ctx context.Context, user *model.User) ([]model.Attempt, error) {
	link, err := l.link()
	if err != nil {
		return nil, err
	}
	records := make([]luoguRecord, 0)
	for _, uid := range l.handles(user) {
		for page := 1; page <= l.maxPages; page++ {
			list, err := l.page(ctx, link, uid, page)
			if err != nil {
				l.skip("page", err, logrus.Fields{"user": user.Username, "uid": uid, "page": page})
				break
			}
			if len(list) == 0 {
				break
			}
			records = append(records, list...)
		}
	}
	if len(records) == 0 {
		return []model.Attempt{}, nil
	}

	pids := make([]string, 0, len(records))
	for _, r := range records {
		pids = append(pids, strings.TrimSpace(r.Problem.PID))
	}
	known := l.known(ctx, uniquePIDs(pids))
	seen := make(map[string]*model.Problem)
	attempts := make([]model.Attempt, 0, len(records))
	for _, r := range records {
		pid := strings.TrimSpace(r.Problem.PID)
		if pid == "" {
			continue
		}
		result := luoguResult(r)
		if result == model.INQ {
			continue
		}
		prob, ok := seen[pid]
		if !ok {
			prob = l.sighting(known[pid], pid, r.Problem.Title, l.problemURL(link, pid))
			seen[pid] = prob
		}
		attempts = append(attempts, model.Attempt{
			UserID:      user.ID,
			ProblemID:   prob.ID,
			Platform:    l.platform,
			PID:         pid,
			Result:      result,
			AttemptTime: time.Unix(r.SubmitTime, 0),
			Problem:     prob,
		})
	}
	l.log.WithFields(logrus.Fields{"user": user.Username, "count": len(attempts)}).Info("洛谷尝试记录抓取完成")
	return attempts, nil
}

func (l *Luogu) problemURL(link *model.OJLink, pid string) string {
	if link.ProblemURL == "" {
		return ""
	}
	return fmt.Sprintf(link.ProblemURL, pid)
}

// FetchProblem 标题和标签优先取页面里 lentille-context 的 json
func (l *Luogu) FetchProblem(ctx context.Context, pid string) (*model.Problem, error) {
	link, err := l.link()
	if err != nil {
		return nil, err
	}
	url := l.problemURL(link, pid)
	if url == "" {
		return nil, fmt.Errorf("洛谷题目链接: %w", common.ErrConfiguration)
	}
	resp, err := l.fetcher.Fetch(ctx, Request{URL: url, Mode: ModeDocument, Cookies: l.cookies(link)})
	if err != nil {
		return nil, err
	}
	doc := resp.Doc
	p := &model.Problem{Platform: l.platform, PID: pid, Type: model.PROGRAMMING, URL: url}

	if raw := strings.TrimSpace(doc.Find("script#lentille-context").First().Text()); raw != "" {
		var lc luoguContext
		if err := json.Unmarshal([]byte(raw), &lc); err != nil {
			l.log.WithError(err).WithField("pid", pid).Warn("lentille-context 解析失败")
		} else {
			p.Name = lc.Data.Problem.Title
			p.Tags = make([]string, 0, len(lc.Data.Problem.Tags))
			for _, id := range lc.Data.Problem.Tags {
				if name, ok := l.tags[id]; ok {
					p.Tags = append(p.Tags, name)
				} else {
					l.log.WithField("tag_id", id).Debug("未知的洛谷标签")
				}
			}
			p.TagsObserved = true
		}
	}
	if p.Name == "" {
		p.Name = strings.TrimSpace(doc.Find(".ttitle").First().Text())
	}
	if p.Name == "" {
		p.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if p.Name == "" {
		return nil, fmt.Errorf("洛谷题目 %s 没有标题: %w", pid, common.ErrParse)
	}
	if old := l.known(ctx, []string{pid})[pid]; old != nil {
		p.ID = old.ID
	}
	return p, nil
}

// FetchAllProblems 已入库的直接复用, 其余逐个抓取
func (l *Luogu) FetchAllProblems(ctx context.Context, r Range) ([]model.Problem, error) {
	if _, err := l.link(); err != nil {
		return nil, err
	}
	ret, err := l.backfill(ctx, r.expand("P%d"), l.FetchProblem)
	l.log.WithFields(logrus.Fields{"count": len(ret), "start": r.Start, "end": r.End}).Info("洛谷题目抓取完成")
	return ret, err
}
