package model

// ResultKind 统一后的评测结果
type ResultKind string

const (
	AC             ResultKind = "AC"      // Accepted
	WA             ResultKind = "WA"      // Wrong Answer
	TLE            ResultKind = "TLE"     // Time Limit Exceeded
	RE             ResultKind = "RE"      // Runtime Error
	CE             ResultKind = "CE"      // Compilation Error
	OLE            ResultKind = "OLE"     // Output Limit Exceeded
	MLE            ResultKind = "MLE"     // Memory Limit Exceeded
	PE             ResultKind = "PE"      // Presentation Error
	SUBE           ResultKind = "SUBE"    // Submission Error
	INQ            ResultKind = "INQ"     // In Queue
	NOJ            ResultKind = "NOJ"     // Not Judged
	RTL            ResultKind = "RTL"     // Restricted Function
	REJ            ResultKind = "REJ"     // Rejected
	UNKNOWN_RESULT ResultKind = "UNKNOWN"
)

var resultKinds = []ResultKind{AC, WA, TLE, RE, CE, OLE, MLE, PE, SUBE, INQ, NOJ, RTL, REJ, UNKNOWN_RESULT}

func ResultKinds() []ResultKind {
	ret := make([]ResultKind, len(resultKinds))
	copy(ret, resultKinds)
	return ret
}
