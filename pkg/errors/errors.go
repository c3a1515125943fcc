package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 校验类错误，调用方可修复，不重试。
var (
	MissingField       = Definition{Code: "MISSING_FIELD", Message: "Required field missing"}
	InvalidDateFormat  = Definition{Code: "INVALID_DATE_FORMAT", Message: "Date must be a valid YYYY/MM/DD date"}
	InvalidMonthFormat = Definition{Code: "INVALID_MONTH_FORMAT", Message: "Month must be YYYY-MM"}
	InvalidTeamCode    = Definition{Code: "INVALID_TEAM_CODE", Message: "Unknown team code"}
	InvalidMeetingType = Definition{Code: "INVALID_MEETING_TYPE", Message: "Unknown meeting type code"}
)

// 基础设施类错误。
var (
	StoreUnavailable = Definition{Code: "STORE_UNAVAILABLE", Message: "Attendance store unavailable"}
)

// WithField 在错误详情里标出出问题的字段。
func (d Definition) WithField(field string) DetailedDefinition {
	return DetailedDefinition{
		Definition: d,
		Details:    map[string]interface{}{"field": field},
	}
}

// WithDetails 附加任意错误详情。
func (d Definition) WithDetails(details map[string]interface{}) DetailedDefinition {
	return DetailedDefinition{Definition: d, Details: details}
}

// WithCause 把底层错误挂在业务错误码下：响应层按码映射状态，
// 底层信息进 details 方便定位，errors.Is/As 仍能看到原错误。
func (d Definition) WithCause(err error) DetailedDefinition {
	return DetailedDefinition{
		Definition: d,
		Details:    map[string]interface{}{"cause": err.Error()},
		cause:      err,
	}
}

// DetailedDefinition 是带详情的 Definition，Error 行为保持一致。
type DetailedDefinition struct {
	Definition
	Details map[string]interface{}

	cause error
}

func (d DetailedDefinition) Unwrap() error {
	return d.cause
}

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	MissingField.Code:       MissingField,
	InvalidDateFormat.Code:  InvalidDateFormat,
	InvalidMonthFormat.Code: InvalidMonthFormat,
	InvalidTeamCode.Code:    InvalidTeamCode,
	InvalidMeetingType.Code: InvalidMeetingType,
	StoreUnavailable.Code:   StoreUnavailable,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
