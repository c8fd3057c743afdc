package crawler

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

//HDU 和 POJ 都是 html 的提交状态表格, 这里是它们共用的部分

type statusRow struct {
	pid     string
	verdict string
	time    string
}

// cells 一行里所有 td 的文本
func cells(row *goquery.Selection) []string {
	tds := row.Find("td")
	ret := make([]string, 0, tds.Length())
	tds.Each(func(_ int, td *goquery.Selection) {
		ret = append(ret, strings.TrimSpace(td.Text()))
	})
	return ret
}

// titleOf 依次尝试选择器, 最后用 <title>
func titleOf(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(doc.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

type detailFunc func(ctx context.Context, pid string) (*model.Problem, error)

// detailBudget 详情页最多用掉任务剩余时间的一半, 保证已经抓到的尝试能按时返回
func detailBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := ctx.Deadline(); ok {
		return context.WithDeadline(ctx, time.Now().Add(time.Until(dl)/2))
	}
	return context.WithCancel(ctx)
}

// resolve 库里有名字的直接复用, 其余的抓详情页;
// 详情失败、超出预算或数量上限时只保留题号和链接, 名字留给下次同步或 Backfill 补上
func (b *base) resolve(ctx context.Context, link *model.OJLink, pids []string, detail detailFunc) map[string]*model.Problem {
	known := b.known(ctx, pids)
	dctx, cancel := detailBudget(ctx)
	defer cancel()
	ret := make(map[string]*model.Problem, len(pids))
	fetched, deferred := 0, 0
	for _, pid := range pids {
		url := ""
		if link.ProblemURL != "" {
			url = fmt.Sprintf(link.ProblemURL, pid)
		}
		old := known[pid]
		if old != nil && old.Name != "" {
			ret[pid] = b.sighting(old, pid, "", url)
			continue
		}
		if dctx.Err() != nil || (b.detailLimit > 0 && fetched >= b.detailLimit) {
			deferred++
			ret[pid] = b.sighting(old, pid, "", url)
			continue
		}
		fetched++
		p, err := detail(dctx, pid)
		if err != nil {
			b.skip("problem", err, logrus.Fields{"pid": pid})
			ret[pid] = b.sighting(old, pid, "", url)
			continue
		}
		if old != nil {
			p = b.sighting(old, pid, p.Name, p.URL)
		}
		ret[pid] = p
	}
	if deferred > 0 {
		b.log.WithFields(logrus.Fields{"fetched": fetched, "deferred": deferred}).Info("题目详情未抓完, 剩余的下次再补")
	}
	return ret
}

func (b *base) toAttempts(user *model.User, rows []statusRow, table VerdictTable, probs map[string]*model.Problem) []model.Attempt {
	attempts := make([]model.Attempt, 0, len(rows))
	for _, r := range rows {
		t, err := common.ParseCSTTime(r.time)
		if err != nil {
			b.skip("row", err, logrus.Fields{"user": user.Username, "pid": r.pid, "time": r.time})
			continue
		}
		result := table.Map(trimVerdict(r.verdict))
		if result == model.INQ {
			continue
		}
		prob := probs[r.pid]
		attempts = append(attempts, model.Attempt{
			UserID:      user.ID,
			ProblemID:   prob.ID,
			Platform:    b.platform,
			PID:         r.pid,
			Result:      result,
			AttemptTime: t,
			Problem:     prob,
		})
	}
	return attempts
}

// backfill 批量抓题目, 已入库的直接复用
func (b *base) backfill(ctx context.Context, pids []string, detail detailFunc) ([]model.Problem, error) {
	known := b.known(ctx, pids)
	ret := make([]model.Problem, 0, len(pids))
	for _, pid := range pids {
		if old, ok := known[pid]; ok {
			ret = append(ret, *old)
			continue
		}
		p, err := detail(ctx, pid)
		if err != nil {
			if ctx.Err() != nil {
				return ret, ctx.Err()
			}
			b.skip("problem", err, logrus.Fields{"pid": pid})
			continue
		}
		ret = append(ret, *p)
	}
	return ret, nil
}
