package crawler

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"context"
	"fmt"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

// POJ 状态页: Run ID | User | Problem | Result | Memory | Time | Language | Code Length | Submit Time
type POJ struct {
	base
}

func NewPOJ(d Deps) *POJ {
	return &POJ{base: newBase(model.POJ, d)}
}

func parsePOJStatus(doc *goquery.Document) []statusRow {
	rows := make([]statusRow, 0)
	doc.Find("table.a tr").Each(func(_ int, tr *goquery.Selection) {
		cols := cells(tr)
		if len(cols) < 9 || cols[2] == "" {
			return
		}
		if _, err := strconv.Atoi(cols[0]); err != nil {
			return
		}
		rows = append(rows, statusRow{pid: cols[2], verdict: cols[3], time: cols[8]})
	})
	return rows
}

func (p *POJ) FetchUserAttempts(ctx context.Context, user *model.User) ([]model.Attempt, error) {
	link, err := p.link()
	if err != nil {
		return nil, err
	}
	rows := make([]statusRow, 0)
	for _, handle := range p.handles(user) {
		resp, err := p.fetcher.Fetch(ctx, Request{URL: fmt.Sprintf(link.UserInfoURL, handle), Mode: ModeDocument})
		if err != nil {
			p.skip("handle", err, logrus.Fields{"user": user.Username, "handle": handle})
			continue
		}
		rows = append(rows, parsePOJStatus(resp.Doc)...)
	}
	if len(rows) == 0 {
		return []model.Attempt{}, nil
	}
	pids := make([]string, len(rows))
	for i, r := range rows {
		pids[i] = r.pid
	}
	probs := p.resolve(ctx, link, uniquePIDs(pids), p.FetchProblem)
	attempts := p.toAttempts(user, rows, pojVerdicts, probs)
	p.log.WithFields(logrus.Fields{"user": user.Username, "count": len(attempts)}).Info("poj 尝试记录抓取完成")
	return attempts, nil
}

func (p *POJ) FetchProblem(ctx context.Context, pid string) (*model.Problem, error) {
	link, err := p.link()
	if err != nil {
		return nil, err
	}
	if link.ProblemURL == "" {
		return nil, fmt.Errorf("poj 题目链接: %w", common.ErrConfiguration)
	}
	url := fmt.Sprintf(link.ProblemURL, pid)
	resp, err := p.fetcher.Fetch(ctx, Request{URL: url, Mode: ModeDocument})
	if err != nil {
		return nil, err
	}
	name := titleOf(resp.Doc, "div.ptt", "h1")
	if name == "" {
		return nil, fmt.Errorf("poj 题目 %s 没有标题: %w", pid, common.ErrParse)
	}
	return &model.Problem{Platform: p.platform, PID: pid, Name: name, Type: model.PROGRAMMING, URL: url}, nil
}

func (p *POJ) FetchAllProblems(ctx context.Context, r Range) ([]model.Problem, error) {
	if _, err := p.link(); err != nil {
		return nil, err
	}
	return p.backfill(ctx, r.expand("%d"), p.FetchProblem)
}
