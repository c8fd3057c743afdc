package model

import (
	"strings"
)

// Platform 外部OJ平台
type Platform string

const (
	CODEFORCES    Platform = "CODEFORCES"
	VIRTUAL_JUDGE Platform = "VIRTUAL_JUDGE"
	BEE_CROWD     Platform = "BEE_CROWD"
	HDU           Platform = "HDU"
	POJ           Platform = "POJ"
	LEETCODE      Platform = "LEETCODE"
	LUOGU         Platform = "LUOGU"
	ATCODER       Platform = "ATCODER"
	CODECHEF      Platform = "CODECHEF"
	TOPCODER      Platform = "TOPCODER"
	SPOJ          Platform = "SPOJ"
	HACKERRANK    Platform = "HACKERRANK"
	HACKEREARTH   Platform = "HACKEREARTH"
	CSES          Platform = "CSES"
	KATTIS        Platform = "KATTIS"
	GYM           Platform = "GYM"
	NOWCODER      Platform = "NOWCODER"
	UVA           Platform = "UVA"
	UNKNOWN       Platform = "UNKNOWN"
)

//每个平台的别名, 配置文件和账号绑定里都可能用到
var platformNames = []struct {
	p     Platform
	names []string
}{
	{CODEFORCES, []string{"codeforces", "cf", "codeforces.com"}},
	{VIRTUAL_JUDGE, []string{"vjudge", "vjudge.com"}},
	{BEE_CROWD, []string{"beecrowd", "uri", "beecrowd.com"}},
	{HDU, []string{"hdu", "hdu.ac.cn"}},
	{POJ, []string{"poj", "poj.org"}},
	{LEETCODE, []string{"leetcode", "leetcode.cn"}},
	{LUOGU, []string{"luogu", "luogu.org"}},
	{ATCODER, []string{"atcoder", "atcoder.jp"}},
	{CODECHEF, []string{"codechef", "codechef.com"}},
	{TOPCODER, []string{"topcoder", "topcoder.com"}},
	{SPOJ, []string{"spoj", "spoj.com"}},
	{HACKERRANK, []string{"hackerrank", "hackerrank.com"}},
	{HACKEREARTH, []string{"hackerearth", "hackerearth.com"}},
	{CSES, []string{"cses", "cses.fi"}},
	{KATTIS, []string{"kattis", "kattis.com"}},
	{GYM, []string{"gym", "codeforces.com/gym"}},
	{NOWCODER, []string{"nowcoder", "nowcoder.com"}},
	{UVA, []string{"uva", "uva.onlinejudge.org"}},
}

// PlatformFromName 别名或枚举名都可以, 匹配不到返回 UNKNOWN
func PlatformFromName(name string) Platform {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, item := range platformNames {
		if strings.ToLower(string(item.p)) == name {
			return item.p
		}
		for _, alias := range item.names {
			if alias == name {
				return item.p
			}
		}
	}
	return UNKNOWN
}

func (p Platform) Names() []string {
	for _, item := range platformNames {
		if item.p == p {
			return item.names
		}
	}
	return []string{"unknown"}
}

func (p Platform) String() string {
	return string(p)
}
