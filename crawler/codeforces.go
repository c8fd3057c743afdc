package crawler

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var cfPIDPattern = regexp.MustCompile(`^(\d+)([A-Za-z][A-Za-z0-9]*)$`)

type cfProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Points    *float64 `json:"points"`
	Tags      []string `json:"tags"`
}

type cfSubmission struct {
	ID                  int64     `json:"id"`
	CreationTimeSeconds int64     `json:"creationTimeSeconds"`
	Problem             cfProblem `json:"problem"`
	Verdict             string    `json:"verdict"`
}

type cfUser struct {
	Handle                  string `json:"handle"`
	Rating                  int    `json:"rating"`
	MaxRating               int    `json:"maxRating"`
	Rank                    string `json:"rank"`
	MaxRank                 string `json:"maxRank"`
	Avatar                  string `json:"avatar"`
	TitlePhoto              string `json:"titlePhoto"`
	RegistrationTimeSeconds int64  `json:"registrationTimeSeconds"`
	LastOnlineTimeSeconds   int64  `json:"lastOnlineTimeSeconds"`
}

//codeforces api 的外层
type cfEnvelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type Codeforces struct {
	base
}

func NewCodeforces(d Deps) *Codeforces {
	return &Codeforces{base: newBase(model.CODEFORCES, d)}
}

func (c *Codeforces) call(ctx context.Context, url string, out interface{}) error {
	resp, err := c.fetcher.Fetch(ctx, Request{URL: url, Mode: ModeText})
	if err != nil {
		return err
	}
	var env cfEnvelope
	if err := json.Unmarshal([]byte(resp.Body), &env); err != nil {
		return fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	if env.Status != "OK" {
		return fmt.Errorf("%w: codeforces 返回 %s %s", common.ErrFetchFailure, env.Status, env.Comment)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	return nil
}

func cfPID(p cfProblem) string {
	if p.ContestID == 0 {
		return p.Index
	}
	return strconv.Itoa(p.ContestID) + p.Index
}

func (c *Codeforces) problemURL(link *model.OJLink, p cfProblem) string {
	if link.ProblemURL == "" {
		return ""
	}
	return fmt.Sprintf(link.ProblemURL, p.ContestID, p.Index)
}

func (c *Codeforces) toProblem(link *model.OJLink, old *model.Problem, p cfProblem) *model.Problem {
	ret := c.sighting(old, cfPID(p), p.Name, c.problemURL(link, p))
	if p.Type != "" {
		ret.Type = p.Type
	}
	if p.Points != nil {
		pts := *p.Points
		ret.Points = &pts
	}
	ret.Tags = append([]string{}, p.Tags...)
	ret.TagsObserved = true
	return ret
}

func (c *Codeforces) FetchUserAttempts(ctx context.Context, user *model.User) ([]model.Attempt, error) {
	link, err := c.link()
	if err != nil {
		return nil, err
	}
	subs := make([]cfSubmission, 0)
	for _, handle := range c.handles(user) {
		var list []cfSubmission
		if err := c.call(ctx, fmt.Sprintf(link.UserInfoURL, handle), &list); err != nil {
			c.skip("handle", err, logrus.Fields{"user": user.Username, "handle": handle})
			continue
		}
		subs = append(subs, list...)
	}
	if len(subs) == 0 {
		return []model.Attempt{}, nil
	}

	pids := make([]string, len(subs))
	for i, s := range subs {
		pids[i] = cfPID(s.Problem)
	}
	known := c.known(ctx, uniquePIDs(pids))
	seen := make(map[string]*model.Problem)
	attempts := make([]model.Attempt, 0, len(subs))
	for _, s := range subs {
		result := codeforcesVerdicts.Map(s.Verdict)
		if s.Verdict == "" || result == model.INQ {
			//还在评测中, 等出结果后再记录
			continue
		}
		pid := cfPID(s.Problem)
		prob, ok := seen[pid]
		if !ok {
			prob = c.toProblem(link, known[pid], s.Problem)
			seen[pid] = prob
		}
		attempts = append(attempts, model.Attempt{
			UserID:      user.ID,
			ProblemID:   prob.ID,
			Platform:    c.platform,
			PID:         pid,
			Result:      result,
			AttemptTime: time.Unix(s.CreationTimeSeconds, 0),
			Problem:     prob,
		})
	}
	c.log.WithFields(logrus.Fields{"user": user.Username, "count": len(attempts)}).Info("codeforces 尝试记录抓取完成")
	return attempts, nil
}

//全部题目
func (c *Codeforces) catalog(ctx context.Context, link *model.OJLink) ([]cfProblem, error) {
	if link.CatalogURL == "" {
		return nil, fmt.Errorf("codeforces 题库链接: %w", common.ErrConfiguration)
	}
	var res struct {
		Problems []cfProblem `json:"problems"`
	}
	if err := c.call(ctx, link.CatalogURL, &res); err != nil {
		return nil, err
	}
	return res.Problems, nil
}

func (c *Codeforces) FetchProblem(ctx context.Context, pid string) (*model.Problem, error) {
	link, err := c.link()
	if err != nil {
		return nil, err
	}
	m := cfPIDPattern.FindStringSubmatch(pid)
	if m == nil {
		return nil, fmt.Errorf("codeforces 题号 %s: %w", pid, common.ErrParse)
	}
	problems, err := c.catalog(ctx, link)
	if err != nil {
		return nil, err
	}
	for _, p := range problems {
		if strconv.Itoa(p.ContestID) == m[1] && strings.EqualFold(p.Index, m[2]) {
			return c.toProblem(link, c.known(ctx, []string{pid})[pid], p), nil
		}
	}
	return nil, fmt.Errorf("codeforces 题目 %s: %w", pid, common.ErrNotFound)
}

// FetchAllProblems Range 按比赛编号过滤
func (c *Codeforces) FetchAllProblems(ctx context.Context, r Range) ([]model.Problem, error) {
	link, err := c.link()
	if err != nil {
		return nil, err
	}
	problems, err := c.catalog(ctx, link)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(r.PIDs))
	for _, pid := range r.PIDs {
		wanted[pid] = true
	}
	picked := make([]cfProblem, 0, len(problems))
	pids := make([]string, 0, len(problems))
	for _, p := range problems {
		pid := cfPID(p)
		switch {
		case len(wanted) > 0:
			if !wanted[pid] {
				continue
			}
		case !r.Empty():
			if p.ContestID < r.Start || p.ContestID > r.End {
				continue
			}
		}
		picked = append(picked, p)
		pids = append(pids, pid)
	}
	known := c.known(ctx, pids)
	ret := make([]model.Problem, 0, len(picked))
	for _, p := range picked {
		ret = append(ret, *c.toProblem(link, known[cfPID(p)], p))
	}
	return ret, nil
}

// FetchUserInfos 通过 user.info 获取 rating 等资料
func (c *Codeforces) FetchUserInfos(ctx context.Context, handles []string) ([]model.CFUserInfo, error) {
	link, err := c.link()
	if err != nil {
		return nil, err
	}
	if link.ProfileURL == "" {
		return nil, fmt.Errorf("codeforces 用户资料链接: %w", common.ErrConfiguration)
	}
	if len(handles) == 0 {
		return []model.CFUserInfo{}, nil
	}
	var users []cfUser
	//分号在查询串里必须转义, 否则会被当成非法分隔符丢掉
	q := url.QueryEscape(strings.Join(handles, ";"))
	if err := c.call(ctx, fmt.Sprintf(link.ProfileURL, q), &users); err != nil {
		return nil, err
	}
	ret := make([]model.CFUserInfo, 0, len(users))
	for _, u := range users {
		ret = append(ret, model.CFUserInfo{
			Handle:           u.Handle,
			Rating:           u.Rating,
			MaxRating:        u.MaxRating,
			Rank:             u.Rank,
			MaxRank:          u.MaxRank,
			Avatar:           u.Avatar,
			TitlePhoto:       u.TitlePhoto,
			RegistrationTime: time.Unix(u.RegistrationTimeSeconds, 0),
			LastOnlineTime:   time.Unix(u.LastOnlineTimeSeconds, 0),
		})
	}
	return ret, nil
}
