package accounts

import "time"

// userCacheTTL 用户缓存 TTL，配置缺省时兜底 5 分钟
func userCacheTTL(seconds int) time.Duration {
	if seconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(seconds) * time.Second
}
