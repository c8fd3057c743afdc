package common

import (
	"strconv"
	"time"
)

const (
	TIME_FORMAT = "2006-01-02 15:04:05"
	DATE_FORMAT = "2006-01-02"
)

var (
	cstZone = time.FixedZone("CST", 8*3600)
)

//下面转换不进行错误处理

//字符串转换成整型
func StrToInt(s string) int {
	ret, _ := strconv.ParseInt(s, 10, 64)
	return int(ret)
}

//字符串转64位整型
func StrToInt64(s string) int64 {
	ret, _ := strconv.ParseInt(s, 10, 64)
	return ret
}

//字符串转64位无符号整型
func StrToUint64(s string) uint64 {
	ret, _ := strconv.ParseUint(s, 10, 64)
	return ret
}
func StrToBool(s string) bool {
	ret, _ := strconv.ParseBool(s)
	return ret
}
func StrToFloat64(s string) float64 {
	ret, _ := strconv.ParseFloat(s, 64)
	return ret
}

// ParseCSTTime 按北京时间解析, 国内OJ页面上的时间都是北京时间
func ParseCSTTime(s string) (time.Time, error) {
	return time.ParseInLocation(TIME_FORMAT, s, cstZone)
}

func TimeToStr(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(cstZone).Format(TIME_FORMAT)
}

// DateOf 北京时间下的日期
func DateOf(t time.Time) string {
	return t.In(cstZone).Format(DATE_FORMAT)
}
