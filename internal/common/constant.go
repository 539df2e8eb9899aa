package common

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "token"

// MaxUploadSize is the default upper bound for a single uploaded file (5 MiB).
const MaxUploadSize int64 = 5 << 20
