package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	BadRequest      Code = 100001
	BadResponse     Code = 100002
	NotFound        Code = 100004
	Unauthenticated Code = 100005
	Internal        Code = 100007
	Unavailable     Code = 100008
	TooManyRequests Code = 100010
)
