package model

// OJLink 平台的各类链接模板, 模板中的 %s/%d 用 fmt.Sprintf 替换
type OJLink struct {
	Platform    Platform `json:"platform" yaml:"-"`
	IndexLink   string   `json:"index_link" yaml:"index_link"`
	UserInfoURL string   `json:"user_info_link" yaml:"user_info_link"` //提交记录
	ProfileURL  string   `json:"profile_link" yaml:"profile_link"`     //用户资料, 目前只有 codeforces 用
	ProblemURL  string   `json:"problem_link" yaml:"problem_link"`
	CatalogURL  string   `json:"catalog_link" yaml:"catalog_link"` //全部题目
	AuthToken   string   `json:"-" yaml:"auth_token"`              //cookie 串, "k1=v1; k2=v2"
}
