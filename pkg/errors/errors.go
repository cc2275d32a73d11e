package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	DeviceIDInvalid = Definition{Code: "DEVICE_ID_INVALID", Message: "Device ID invalid"}
	Unauthorized    = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidProfile  = Definition{Code: "INVALID_PROFILE", Message: "Invalid profile identifier"}
)

// 每日卡牌模块错误。
var (
	DrawInProgress  = Definition{Code: "DRAW_IN_PROGRESS", Message: "A draw is already in progress"}
	RefreshDisabled = Definition{Code: "REFRESH_DISABLED", Message: "Force refresh is only available in development"}
)

// 角色模块错误。
var (
	CharacterUnknown = Definition{Code: "CHARACTER_UNKNOWN", Message: "Unknown oracle character"}
)

// 通用错误。
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please try again later"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	DeviceIDInvalid.Code:  DeviceIDInvalid,
	Unauthorized.Code:     Unauthorized,
	InvalidProfile.Code:   InvalidProfile,
	DrawInProgress.Code:   DrawInProgress,
	RefreshDisabled.Code:  RefreshDisabled,
	CharacterUnknown.Code: CharacterUnknown,
	TooManyRequests.Code:  TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
