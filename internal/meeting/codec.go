// Package meeting 维护队伍和聚会类型的编码↔显示名映射。
// 编码是稳定标识，显示名是人看的；写入时两者一起落库，
// 读历史行时以显示名为准、编码尽力反查（老数据可能对不上）。
package meeting

type entry struct {
	Code  string
	Label string
}

// 队伍编码表，闭集 6 个值。
var teams = []entry{
	{Code: "T1", Label: "1-team"},
	{Code: "T2", Label: "2-team"},
	{Code: "T3", Label: "3-team"},
	{Code: "T4", Label: "4-team"},
	{Code: "T5", Label: "5-team"},
	{Code: "S", Label: "S-team"},
}

// 聚会类型编码表，闭集 4 个值。
var meetingTypes = []entry{
	{Code: "ETC", Label: "Etc"},
	{Code: "TUE", Label: "Tuesday"},
	{Code: "THU", Label: "Thursday"},
	{Code: "SAT", Label: "Saturday"},
}

// UnspecifiedLabel 是历史行聚会类型为空时的统计桶。
const UnspecifiedLabel = "unspecified"

func labelOf(set []entry, code string) (string, bool) {
	for _, e := range set {
		if e.Code == code {
			return e.Label, true
		}
	}
	return "", false
}

// 反查走线性扫描就够了，表是固定的几条。
func codeOf(set []entry, label string) (string, bool) {
	for _, e := range set {
		if e.Label == label {
			return e.Code, true
		}
	}
	return "", false
}

// TeamLabel 返回队伍编码对应的显示名，编码无效时 ok=false，写入方必须拒绝。
func TeamLabel(code string) (string, bool) {
	return labelOf(teams, code)
}

// TeamCode 由显示名反查编码。查不到是正常结果（历史数据漂移），
// 聚合方降级为空编码而不是报错。
func TeamCode(label string) (string, bool) {
	return codeOf(teams, label)
}

func MeetingTypeLabel(code string) (string, bool) {
	return labelOf(meetingTypes, code)
}

func MeetingTypeCode(label string) (string, bool) {
	return codeOf(meetingTypes, label)
}

// TeamCodes 返回全部队伍编码，顺序固定。
func TeamCodes() []string {
	out := make([]string, 0, len(teams))
	for _, e := range teams {
		out = append(out, e.Code)
	}
	return out
}

// MeetingTypeCodes 返回全部聚会类型编码，顺序固定。
func MeetingTypeCodes() []string {
	out := make([]string, 0, len(meetingTypes))
	for _, e := range meetingTypes {
		out = append(out, e.Code)
	}
	return out
}
