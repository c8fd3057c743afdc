package app

import (
	"CodingTracker/common"
	"CodingTracker/model"
	"CodingTracker/tracker"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type trackerService struct {
	tk  *tracker.Tracker
	usr userCreator
	log *logrus.Entry
}

func ping(c *gin.Context) {
	c.Set("ping", "pong")
}

//异步全量同步, 正在同步时直接拒绝
func (s *trackerService) refreshAll(c *gin.Context) {
	if s.tk.TriggerFullRefresh() == tracker.Rejected {
		setError(c, 409, "正在同步, 请稍后再试")
		return
	}
	c.Set("msg", "已开始同步")
}

//同步单个用户, 同步完成后返回
func (s *trackerService) refreshUser(c *gin.Context) {
	form := new(userValidator)
	if err := c.ShouldBind(form); err != nil {
		setError(c, 400, err.Error())
		return
	}
	if ok, msg := form.isOk(); !ok {
		setError(c, 400, msg)
		return
	}
	var res *tracker.RefreshResult
	var err error
	if form.ID != 0 {
		res, err = s.tk.RefreshUser(c.Request.Context(), form.ID)
	} else {
		res, err = s.tk.RefreshUserByName(c.Request.Context(), form.Username)
	}
	if err != nil {
		setErr(c, err)
		return
	}
	c.Set("result", res)
}

func (s *trackerService) refreshCatalog(c *gin.Context) {
	res, err := s.tk.RefreshCatalog(c.Request.Context())
	if err != nil {
		setErr(c, err)
		return
	}
	c.Set("result", res)
}

func (s *trackerService) backfillProblems(c *gin.Context) {
	form := new(backfillValidator)
	if err := c.ShouldBind(form); err != nil {
		setError(c, 400, err.Error())
		return
	}
	if ok, msg := form.isOk(); !ok {
		setError(c, 400, msg)
		return
	}
	n, err := s.tk.Backfill(c.Request.Context(), form.platform, form.toRange())
	if err != nil {
		setErr(c, err)
		return
	}
	c.Set("count", n)
}

func (s *trackerService) refreshStatus(c *gin.Context) {
	setMap(c, common.H{
		"updating":    s.tk.Updating(),
		"last_result": s.tk.LastResult(),
	})
}

func (s *trackerService) lastRefreshTime(c *gin.Context) {
	t, err := s.tk.LastRefreshTime(c.Request.Context())
	if err != nil {
		setErr(c, err)
		return
	}
	c.Set("last_refresh_time", common.TimeToStr(t))
}

func (s *trackerService) getStats(c *gin.Context) {
	stats, err := s.tk.Stats(c.Request.Context())
	if err != nil {
		setErr(c, err)
		return
	}
	setMap(c, common.H{
		"user_count":        stats.UserCount,
		"sum_problem_count": stats.SumProblemCount,
		"sum_try_count":     stats.SumTryCount,
		"last_update_time":  common.TimeToStr(stats.LastUpdateTime),
	})
}

func (s *trackerService) getStateHistory(c *gin.Context) {
	limit := common.StrToInt(c.DefaultQuery("limit", "30"))
	states, err := s.tk.StateHistory(c.Request.Context(), limit)
	if err != nil {
		setErr(c, err)
		return
	}
	c.Set("states", states)
}

func (s *trackerService) getUserTries(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		setError(c, 400, "缺少 username")
		return
	}
	user, attempts, err := s.tk.UserAttempts(c.Request.Context(), username)
	if err != nil {
		setErr(c, err)
		return
	}
	setMap(c, common.H{
		"user":     user,
		"attempts": attempts,
		"count":    len(attempts),
	})
}

func (s *trackerService) countTries(c *gin.Context, onlyAC bool) {
	form := new(windowValidator)
	if err := c.ShouldBindQuery(form); err != nil {
		setError(c, 400, err.Error())
		return
	}
	if ok, msg := form.isOk(); !ok {
		setError(c, 400, msg)
		return
	}
	counts, err := s.tk.CountTries(c.Request.Context(), form.start, form.end, onlyAC)
	if err != nil {
		setErr(c, err)
		return
	}
	c.Set("counts", counts)
}

func (s *trackerService) getTryCounts(c *gin.Context) {
	s.countTries(c, false)
}

func (s *trackerService) getAcCounts(c *gin.Context) {
	s.countTries(c, true)
}

func (s *trackerService) getCFUserInfo(c *gin.Context) {
	handle := c.Query("handle")
	if handle == "" {
		setError(c, 400, "缺少 handle")
		return
	}
	info, err := s.tk.CFUserInfo(c.Request.Context(), handle)
	if err != nil {
		setErr(c, err)
		return
	}
	c.Set("info", info)
}

func (s *trackerService) getPlatforms(c *gin.Context) {
	ret := make([]common.H, 0)
	for _, a := range s.tk.Adapters() {
		_, err := a.LinkConfig()
		ret = append(ret, common.H{
			"platform":   a.Platform(),
			"names":      a.Platform().Names(),
			"configured": err == nil,
		})
	}
	c.Set("platforms", ret)
	c.Set("results", model.ResultKinds())
}

func (s *trackerService) addUser(c *gin.Context) {
	form := new(newUserValidator)
	if err := c.ShouldBindJSON(form); err != nil {
		setError(c, 400, err.Error())
		return
	}
	if ok, msg := form.isOk(); !ok {
		setError(c, 400, msg)
		return
	}
	u := form.toUser()
	if err := s.usr.CreateUser(c.Request.Context(), u); err != nil {
		setErr(c, err)
		return
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("新增用户")
	c.Set("user", u)
}
