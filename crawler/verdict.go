package crawler

import (
	"CodingTracker/model"
	"strings"
)

// VerdictTable 平台原始评测结果到统一结果的映射, 查不到时为 UNKNOWN
type VerdictTable map[string]model.ResultKind

func (t VerdictTable) Map(raw string) model.ResultKind {
	if r, ok := t[strings.TrimSpace(raw)]; ok {
		return r
	}
	return model.UNKNOWN_RESULT
}

var codeforcesVerdicts = VerdictTable{
	"OK":                        model.AC,
	"WRONG_ANSWER":              model.WA,
	"TIME_LIMIT_EXCEEDED":       model.TLE,
	"IDLENESS_LIMIT_EXCEEDED":   model.TLE,
	"MEMORY_LIMIT_EXCEEDED":     model.MLE,
	"RUNTIME_ERROR":             model.RE,
	"COMPILATION_ERROR":         model.CE,
	"PRESENTATION_ERROR":        model.PE,
	"SECURITY_VIOLATED":         model.RTL,
	"REJECTED":                  model.REJ,
	"SKIPPED":                   model.NOJ,
	"FAILED":                    model.SUBE,
	"CRASHED":                   model.SUBE,
	"INPUT_PREPARATION_CRASHED": model.SUBE,
	"TESTING":                   model.INQ,
	"SUBMITTED":                 model.INQ,
}

// 洛谷记录的 status 数字
var luoguVerdicts = VerdictTable{
	"0":  model.INQ,
	"1":  model.INQ,
	"2":  model.CE,
	"3":  model.OLE,
	"4":  model.MLE,
	"5":  model.TLE,
	"6":  model.WA,
	"7":  model.RE,
	"11": model.SUBE,
	"12": model.AC,
	"14": model.WA,
}

var hduVerdicts = VerdictTable{
	"Accepted":              model.AC,
	"Wrong Answer":          model.WA,
	"Presentation Error":    model.PE,
	"Time Limit Exceeded":   model.TLE,
	"Memory Limit Exceeded": model.MLE,
	"Output Limit Exceeded": model.OLE,
	"Runtime Error":         model.RE,
	"Compilation Error":     model.CE,
	"System Error":          model.SUBE,
	"Out Of Contest Time":   model.REJ,
	"Queuing":               model.INQ,
	"Compiling":             model.INQ,
	"Running":               model.INQ,
	"Restricted Function":   model.RTL,
	"Submit Error":          model.SUBE,
	"Judge Error":           model.SUBE,
	"Not Judged":            model.NOJ,
}

var pojVerdicts = VerdictTable{
	"Accepted":              model.AC,
	"Wrong Answer":          model.WA,
	"Presentation Error":    model.PE,
	"Time Limit Exceeded":   model.TLE,
	"Memory Limit Exceeded": model.MLE,
	"Output Limit Exceeded": model.OLE,
	"Runtime Error":         model.RE,
	"Compile Error":         model.CE,
	"System Error":          model.SUBE,
	"Waiting":               model.INQ,
	"Compiling":             model.INQ,
	"Running & Judging":     model.INQ,
	"Validator Error":       model.SUBE,
}

// trimVerdict 去掉 "Runtime Error(STACK_OVERFLOW)" 这类括号里的细节
func trimVerdict(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.Index(raw, "("); idx > 0 {
		return strings.TrimSpace(raw[:idx])
	}
	return raw
}
