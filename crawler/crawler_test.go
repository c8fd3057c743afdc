package crawler

import (
	"CodingTracker/common"
	"CodingTracker/dao"
	"CodingTracker/model"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t1 = time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 = time.Date(2023, 3, 2, 10, 0, 0, 0, time.UTC)
)

func testDeps(store *dao.MemoryStore, links ...model.OJLink) Deps {
	return Deps{
		Fetcher:  testFetcher(1),
		Links:    NewLinks(links...),
		Problems: store,
		Log:      common.DiscardLogger(),
	}
}

func userWith(p model.Platform, account string) *model.User {
	return &model.User{ID: 7, Username: "alice", Accounts: []model.UserOJ{{UserID: 7, Platform: p, AccountName: account}}}
}

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

const cfStatus = `{"status":"OK","result":[
 {"id":3,"creationTimeSeconds":%d,"problem":{"contestId":1700,"index":"B","name":"Palindrome","tags":[]},"verdict":"TESTING"},
 {"id":2,"creationTimeSeconds":%d,"problem":{"contestId":1700,"index":"A","name":"Optimal Path","type":"PROGRAMMING","points":500,"tags":["dp","greedy"]},"verdict":"WRONG_ANSWER"},
 {"id":1,"creationTimeSeconds":%d,"problem":{"contestId":1700,"index":"A","name":"Optimal Path","type":"PROGRAMMING","points":500,"tags":["dp","greedy"]},"verdict":"OK"}
]}`

func cfServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user.status":
			if r.URL.Query().Get("handle") != "alice_cf" {
				fmt.Fprint(w, `{"status":"FAILED","comment":"handle: User not found"}`)
				return
			}
			fmt.Fprintf(w, cfStatus, t2.Unix()+60, t2.Unix(), t1.Unix())
		case "/api/problemset.problems":
			fmt.Fprint(w, `{"status":"OK","result":{"problems":[
				{"contestId":1700,"index":"A","name":"Optimal Path","tags":["dp"]},
				{"contestId":1699,"index":"A","name":"Three Doors","tags":["math"]},
				{"contestId":1,"index":"A","name":"Theatre Square","tags":["math"]}]}}`)
		case "/api/user.info":
			assert.Equal(t, "handles=alice_cf%3Bbob_cf", r.URL.RawQuery)
			assert.Equal(t, "alice_cf;bob_cf", r.URL.Query().Get("handles"))
			fmt.Fprint(w, `{"status":"OK","result":[{"handle":"alice_cf","rating":1500,"rank":"specialist","registrationTimeSeconds":1600000000}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func cfLink(base string) model.OJLink {
	return model.OJLink{
		Platform:    model.CODEFORCES,
		UserInfoURL: base + "/api/user.status?handle=%s",
		ProfileURL:  base + "/api/user.info?handles=%s",
		ProblemURL:  base + "/problemset/problem/%d/%s",
		CatalogURL:  base + "/api/problemset.problems",
	}
}

func TestCodeforcesUserAttempts(t *testing.T) {
	srv := cfServer(t)
	cf := NewCodeforces(testDeps(dao.NewMemoryStore(), cfLink(srv.URL)))

	attempts, err := cf.FetchUserAttempts(context.Background(), userWith(model.CODEFORCES, "alice_cf, ghost"))
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	byResult := map[model.ResultKind]model.Attempt{}
	for _, a := range attempts {
		byResult[a.Result] = a
		assert.Equal(t, int64(7), a.UserID)
		assert.Equal(t, "1700A", a.PID)
		require.NotNil(t, a.Problem)
		assert.Equal(t, "Optimal Path", a.Problem.Name)
		assert.Equal(t, []string{"dp", "greedy"}, a.Problem.Tags)
		assert.True(t, a.Problem.TagsObserved)
		assert.Equal(t, srv.URL+"/problemset/problem/1700/A", a.Problem.URL)
	}
	assert.True(t, byResult[model.AC].AttemptTime.Equal(t1))
	assert.True(t, byResult[model.WA].AttemptTime.Equal(t2))
}

func TestCodeforcesReusesKnownProblem(t *testing.T) {
	srv := cfServer(t)
	store := dao.NewMemoryStore()
	require.NoError(t, store.UpsertProblem(context.Background(), &model.Problem{Platform: model.CODEFORCES, PID: "1700A", Name: "old"}))
	cf := NewCodeforces(testDeps(store, cfLink(srv.URL)))

	attempts, err := cf.FetchUserAttempts(context.Background(), userWith(model.CODEFORCES, "alice_cf"))
	require.NoError(t, err)
	require.NotEmpty(t, attempts)
	assert.NotZero(t, attempts[0].ProblemID)
	assert.Equal(t, "Optimal Path", attempts[0].Problem.Name)
}

func TestCodeforcesMissingLink(t *testing.T) {
	cf := NewCodeforces(testDeps(dao.NewMemoryStore()))
	_, err := cf.FetchUserAttempts(context.Background(), userWith(model.CODEFORCES, "alice_cf"))
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestCodeforcesCatalog(t *testing.T) {
	srv := cfServer(t)
	cf := NewCodeforces(testDeps(dao.NewMemoryStore(), cfLink(srv.URL)))
	ctx := context.Background()

	all, err := cf.FetchAllProblems(ctx, All)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := cf.FetchAllProblems(ctx, Range{Start: 1699, End: 1700})
	require.NoError(t, err)
	assert.Len(t, some, 2)

	picked, err := cf.FetchAllProblems(ctx, Range{PIDs: []string{"1A"}})
	require.NoError(t, err)
	require.Len(t, picked, 1)
	assert.Equal(t, "Theatre Square", picked[0].Name)

	p, err := cf.FetchProblem(ctx, "1699a")
	require.NoError(t, err)
	assert.Equal(t, "1699A", p.PID)
	assert.Equal(t, []string{"math"}, p.Tags)

	_, err = cf.FetchProblem(ctx, "9999Z")
	assert.True(t, errors.Is(err, common.ErrNotFound))
	_, err = cf.FetchProblem(ctx, "abc")
	assert.True(t, errors.Is(err, common.ErrParse))
}

func TestCodeforcesUserInfos(t *testing.T) {
	srv := cfServer(t)
	cf := NewCodeforces(testDeps(dao.NewMemoryStore(), cfLink(srv.URL)))
	infos, err := cf.FetchUserInfos(context.Background(), []string{"alice_cf", "bob_cf"})
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, 1500, infos[0].Rating)
	assert.Equal(t, "specialist", infos[0].Rank)
	assert.Equal(t, int64(1600000000), infos[0].RegistrationTime.Unix())
}

func TestLuoguPagination(t *testing.T) {
	var pages int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pages, 1)
		assert.Equal(t, "_uid=42", r.Header.Get("Cookie"))
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprintf(w, `{"currentData":{"records":{"result":[
				{"problem":{"pid":"P1001","title":"A+B Problem"},"submitTime":%d,"status":12},
				{"problem":{"pid":"P1002","title":"过河卒"},"submitTime":%d,"status":0}]}}}`, t1.Unix(), t1.Unix())
		case "2":
			fmt.Fprintf(w, `{"currentData":{"records":{"result":[
				{"problem":{"pid":"P1001","title":"A+B Problem"},"submitTime":%d}]}}}`, t2.Unix())
		default:
			fmt.Fprint(w, `{"currentData":{"records":{"result":[]}}}`)
		}
	}))
	defer srv.Close()

	link := model.OJLink{
		Platform:    model.LUOGU,
		UserInfoURL: srv.URL + "/record/list?user=%s&page=%d",
		ProblemURL:  "https://www.luogu.com.cn/problem/%s",
		AuthToken:   "_uid=42",
	}
	lg := NewLuogu(testDeps(dao.NewMemoryStore(), link), nil, 10)
	attempts, err := lg.FetchUserAttempts(context.Background(), userWith(model.LUOGU, "42"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&pages))

	//状态 0 还在评测, 跳过
	require.Len(t, attempts, 2)
	for _, a := range attempts {
		assert.Equal(t, "P1001", a.PID)
		assert.Equal(t, model.AC, a.Result)
		assert.Equal(t, "https://www.luogu.com.cn/problem/P1001", a.Problem.URL)
		assert.False(t, a.Problem.TagsObserved)
	}
}

func TestLuoguMaxPages(t *testing.T) {
	var pages int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pages, 1)
		fmt.Fprintf(w, `{"currentData":{"records":{"result":[{"problem":{"pid":"P%s"},"submitTime":1,"status":12}]}}}`, r.URL.Query().Get("page"))
	}))
	defer srv.Close()

	link := model.OJLink{Platform: model.LUOGU, UserInfoURL: srv.URL + "/record/list?user=%s&page=%d"}
	lg := NewLuogu(testDeps(dao.NewMemoryStore(), link), nil, 3)
	attempts, err := lg.FetchUserAttempts(context.Background(), userWith(model.LUOGU, "42"))
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&pages))
	assert.Len(t, attempts, 3)
}

func TestLuoguProblemTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>P1001 A+B Problem - 洛谷</title>
<script id="lentille-context" type="application/json">{"data":{"problem":{"title":"A+B Problem","tags":[1,5,999]}}}</script>
</head><body></body></html>`)
	}))
	defer srv.Close()

	link := model.OJLink{Platform: model.LUOGU, UserInfoURL: srv.URL + "/%s/%d", ProblemURL: srv.URL + "/problem/%s"}
	lg := NewLuogu(testDeps(dao.NewMemoryStore(), link), map[int]string{1: "模拟", 5: "数学"}, 10)
	p, err := lg.FetchProblem(context.Background(), "P1001")
	require.NoError(t, err)
	assert.Equal(t, "A+B Problem", p.Name)
	assert.Equal(t, []string{"模拟", "数学"}, p.Tags)
	assert.True(t, p.TagsObserved)

	got, err := lg.FetchAllProblems(context.Background(), Range{Start: 1001, End: 1002})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "P1002", got[1].PID)
}

func TestParseHDUStatus(t *testing.T) {
	d := doc(t, `<table class="table_text">
<tr><td>Run ID</td><td>Submit Time</td><td>Judge Status</td><td>Pro.ID</td><td>Exe.Time</td></tr>
<tr><td>3</td><td>2023-03-01 10:00:00</td><td>Runtime Error<br>(STACK_OVERFLOW)</td><td>1001</td><td>15MS</td></tr>
<tr><td>2</td><td>2023-03-01 09:00:00</td><td>Accepted</td><td>1000</td><td>0MS</td></tr>
</table>`)
	rows := parseHDUStatus(d)
	require.Len(t, rows, 2)
	assert.Equal(t, "1001", rows[0].pid)
	assert.Equal(t, model.RE, hduVerdicts.Map(trimVerdict(rows[0].verdict)))
	assert.Equal(t, "2023-03-01 09:00:00", rows[1].time)
}

func TestHDUUserAttempts(t *testing.T) {
	var details int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/status.php":
			fmt.Fprint(w, `<html><body><table class="table_text">
<tr><td>Run ID</td><td>Submit Time</td><td>Judge Status</td><td>Pro.ID</td></tr>
<tr><td>3</td><td>2023-03-01 10:00:00</td><td>Queuing</td><td>1000</td></tr>
<tr><td>2</td><td>2023-03-01 09:00:00</td><td>Accepted</td><td>1000</td></tr>
<tr><td>1</td><td>2023-03-01 08:00:00</td><td>Wrong Answer</td><td>1000</td></tr>
</table></body></html>`)
		case "/showproblem.php":
			atomic.AddInt32(&details, 1)
			fmt.Fprint(w, `<html><body><h1 style="color:#1A5CC8">A + B Problem</h1></body></html>`)
		}
	}))
	defer srv.Close()

	link := model.OJLink{Platform: model.HDU, UserInfoURL: srv.URL + "/status.php?user=%s", ProblemURL: srv.URL + "/showproblem.php?pid=%s"}
	h := NewHDU(testDeps(dao.NewMemoryStore(), link))
	attempts, err := h.FetchUserAttempts(context.Background(), userWith(model.HDU, "alice_hdu"))
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.EqualValues(t, 1, atomic.LoadInt32(&details))
	assert.Equal(t, model.AC, attempts[0].Result)
	//页面上的时间是北京时间
	assert.True(t, attempts[0].AttemptTime.Equal(time.Date(2023, 3, 1, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, "A + B Problem", attempts[0].Problem.Name)
	assert.Same(t, attempts[0].Problem, attempts[1].Problem)
}

func TestHDUDetailFailureKeepsAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/status.php" {
			fmt.Fprint(w, `<table class="table_text"><tr><td>2</td><td>2023-03-01 09:00:00</td><td>Accepted</td><td>1000</td></tr></table>`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	link := model.OJLink{Platform: model.HDU, UserInfoURL: srv.URL + "/status.php?user=%s", ProblemURL: srv.URL + "/showproblem.php?pid=%s"}
	h := NewHDU(testDeps(dao.NewMemoryStore(), link))
	attempts, err := h.FetchUserAttempts(context.Background(), userWith(model.HDU, "alice_hdu"))
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "1000", attempts[0].Problem.PID)
	assert.Empty(t, attempts[0].Problem.Name)
}

func TestHDUHungDetailKeepsAttempts(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/status.php" {
			fmt.Fprint(w, `<table class="table_text">
<tr><td>2</td><td>2023-03-01 09:00:00</td><td>Accepted</td><td>1000</td></tr>
<tr><td>1</td><td>2023-03-01 08:00:00</td><td>Wrong Answer</td><td>1001</td></tr>
</table>`)
			return
		}
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	link := model.OJLink{Platform: model.HDU, UserInfoURL: srv.URL + "/status.php?user=%s", ProblemURL: srv.URL + "/showproblem.php?pid=%s"}
	h := NewHDU(testDeps(dao.NewMemoryStore(), link))
	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()
	start := time.Now()
	attempts, err := h.FetchUserAttempts(ctx, userWith(model.HDU, "alice_hdu"))
	require.NoError(t, err)
	//详情页卡住也要在任务超时前返回
	assert.Less(t, time.Since(start), 400*time.Millisecond)
	require.Len(t, attempts, 2)
	for _, a := range attempts {
		assert.Empty(t, a.Problem.Name)
		assert.NotEmpty(t, a.Problem.URL)
	}
}

func TestHDUDetailLimit(t *testing.T) {
	var details int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/status.php" {
			fmt.Fprint(w, `<table class="table_text">
<tr><td>3</td><td>2023-03-01 10:00:00</td><td>Accepted</td><td>1002</td></tr>
<tr><td>2</td><td>2023-03-01 09:00:00</td><td>Accepted</td><td>1001</td></tr>
<tr><td>1</td><td>2023-03-01 08:00:00</td><td>Accepted</td><td>1000</td></tr>
</table>`)
			return
		}
		atomic.AddInt32(&details, 1)
		fmt.Fprintf(w, `<h1>Problem %s</h1>`, r.URL.Query().Get("pid"))
	}))
	defer srv.Close()

	store := dao.NewMemoryStore()
	ctx := context.Background()
	//库里有但没有名字的题目也会补详情
	require.NoError(t, store.UpsertProblem(ctx, &model.Problem{Platform: model.HDU, PID: "1002"}))
	link := model.OJLink{Platform: model.HDU, UserInfoURL: srv.URL + "/status.php?user=%s", ProblemURL: srv.URL + "/showproblem.php?pid=%s"}
	deps := testDeps(store, link)
	deps.DetailLimit = 2
	h := NewHDU(deps)

	attempts, err := h.FetchUserAttempts(ctx, userWith(model.HDU, "alice_hdu"))
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	assert.EqualValues(t, 2, atomic.LoadInt32(&details))
	named := 0
	for _, a := range attempts {
		if a.Problem.Name != "" {
			named++
		}
		if a.PID == "1002" {
			assert.NotZero(t, a.Problem.ID)
			assert.Equal(t, "Problem 1002", a.Problem.Name)
		}
	}
	assert.Equal(t, 2, named)
}

func TestParsePOJStatus(t *testing.T) {
	d := doc(t, `<table class="a">
<tr class="in"><td>Run ID</td><td>User</td><td>Problem</td><td>Result</td><td>Memory</td><td>Time</td><td>Language</td><td>Code Length</td><td>Submit Time</td></tr>
<tr><td>2</td><td>alice</td><td>1000</td><td>Accepted</td><td>100K</td><td>0MS</td><td>G++</td><td>200B</td><td>2023-03-01 09:00:00</td></tr>
<tr><td>1</td><td>alice</td><td>1001</td><td>Compile Error</td><td></td><td></td><td>G++</td><td>200B</td><td>2023-03-01 08:00:00</td></tr>
</table>`)
	rows := parsePOJStatus(d)
	require.Len(t, rows, 2)
	assert.Equal(t, statusRow{pid: "1000", verdict: "Accepted", time: "2023-03-01 09:00:00"}, rows[0])
	assert.Equal(t, model.CE, pojVerdicts.Map(rows[1].verdict))
}

func TestPOJBackfill(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "1001" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `<html><body><div class="ptt" lang="en-US">Problem %s</div></body></html>`, r.URL.Query().Get("id"))
	}))
	defer srv.Close()

	store := dao.NewMemoryStore()
	require.NoError(t, store.UpsertProblem(context.Background(), &model.Problem{Platform: model.POJ, PID: "1002", Name: "已入库"}))
	link := model.OJLink{Platform: model.POJ, UserInfoURL: srv.URL + "/status?user_id=%s", ProblemURL: srv.URL + "/problem?id=%s"}
	p := NewPOJ(testDeps(store, link))

	got, err := p.FetchAllProblems(context.Background(), Range{Start: 1000, End: 1002})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Problem 1000", got[0].Name)
	assert.Equal(t, "已入库", got[1].Name)
}

func TestLinks(t *testing.T) {
	t.Setenv("CT_LUOGU_COOKIE", "_uid=1")
	links, err := ParseLinks([]byte(`
cf:
  user_info_link: https://codeforces.com/api/user.status?handle=%s
luogu.org:
  user_info_link: https://www.luogu.com.cn/record/list?user=%s&page=%d
  auth_token: "_uid=0"
poj:
  problem_link: http://poj.org/problem?id=%s
`))
	require.NoError(t, err)
	cf, err := links.Get(model.CODEFORCES)
	require.NoError(t, err)
	assert.Equal(t, model.CODEFORCES, cf.Platform)
	lg, err := links.Get(model.LUOGU)
	require.NoError(t, err)
	assert.Equal(t, "_uid=1", lg.AuthToken)

	//没有 user_info_link 视为没有配置
	_, err = links.Get(model.POJ)
	assert.True(t, errors.Is(err, common.ErrConfiguration))
	_, err = links.Get(model.HDU)
	assert.True(t, errors.Is(err, common.ErrConfiguration))

	_, err = ParseLinks([]byte("nowhere:\n  user_info_link: x\n"))
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestVerdicts(t *testing.T) {
	assert.Equal(t, model.AC, codeforcesVerdicts.Map("OK"))
	assert.Equal(t, model.UNKNOWN_RESULT, codeforcesVerdicts.Map("SOMETHING_NEW"))
	assert.Equal(t, model.AC, luoguVerdicts.Map("12"))
	assert.Equal(t, "Runtime Error", trimVerdict(" Runtime Error(ACCESS_VIOLATION) "))
	assert.Equal(t, "Accepted", trimVerdict("Accepted"))
}

func TestRangeExpand(t *testing.T) {
	assert.Equal(t, []string{"P1", "P2", "P3"}, Range{Start: 1, End: 3}.expand("P%d"))
	assert.Equal(t, []string{"x"}, Range{Start: 1, End: 3, PIDs: []string{"x"}}.expand("P%d"))
	assert.True(t, Range{Start: 3, End: 1}.Empty())
	assert.Empty(t, Range{Start: 3, End: 1}.expand("%d"))
}
