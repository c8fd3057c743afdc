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

// HDU 状态页: Run ID | Submit Time | Judge Status | Pro.ID | Exe.Time | Exe.Memory | Code Len. | Language | Author
type HDU struct {
	base
}

func NewHDU(d Deps) *HDU {
	return &HDU{base: newBase(model.HDU, d)}
}

func parseHDUStatus(doc *goquery.Document) []statusRow {
	rows := make([]statusRow, 0)
	doc.Find("table.table_text tr").Each(func(_ int, tr *goquery.Selection) {
		cols := cells(tr)
		if len(cols) < 4 {
			return
		}
		//表头
		if _, err := strconv.Atoi(cols[0]); err != nil {
			return
		}
		rows = append(rows, statusRow{pid: cols[3], verdict: cols[2], time: cols[1]})
	})
	return rows
}

func (h *HDU) FetchUserAttempts(ctx context.Context, user *model.User) ([]model.Attempt, error) {
	link, err := h.link()
	if err != nil {
		return nil, err
	}
	rows := make([]statusRow, 0)
	for _, handle := range h.handles(user) {
		resp, err := h.fetcher.Fetch(ctx, Request{URL: fmt.Sprintf(link.UserInfoURL, handle), Mode: ModeDocument})
		if err != nil {
			h.skip("handle", err, logrus.Fields{"user": user.Username, "handle": handle})
			continue
		}
		rows = append(rows, parseHDUStatus(resp.Doc)...)
	}
	if len(rows) == 0 {
		return []model.Attempt{}, nil
	}
	pids := make([]string, len(rows))
	for i, r := range rows {
		pids[i] = r.pid
	}
	probs := h.resolve(ctx, link, uniquePIDs(pids), h.FetchProblem)
	attempts := h.toAttempts(user, rows, hduVerdicts, probs)
	h.log.WithFields(logrus.Fields{"user": user.Username, "count": len(attempts)}).Info("hdu 尝试记录抓取完成")
	return attempts, nil
}

func (h *HDU) FetchProblem(ctx context.Context, pid string) (*model.Problem, error) {
	link, err := h.link()
	if err != nil {
		return nil, err
	}
	if link.ProblemURL == "" {
		return nil, fmt.Errorf("hdu 题目链接: %w", common.ErrConfiguration)
	}
	url := fmt.Sprintf(link.ProblemURL, pid)
	resp, err := h.fetcher.Fetch(ctx, Request{URL: url, Mode: ModeDocument})
	if err != nil {
		return nil, err
	}
	name := titleOf(resp.Doc, ".panel_title", "h1")
	if name == "" {
		return nil, fmt.Errorf("hdu 题目 %s 没有标题: %w", pid, common.ErrParse)
	}
	return &model.Problem{Platform: h.platform, PID: pid, Name: name, Type: model.PROGRAMMING, URL: url}, nil
}

// FetchAllProblems 题号是数字, 按范围逐个抓
func (h *HDU) FetchAllProblems(ctx context.Context, r Range) ([]model.Problem, error) {
	if _, err := h.link(); err != nil {
		return nil, err
	}
	return h.backfill(ctx, r.expand("%d"), h.FetchProblem)
}
