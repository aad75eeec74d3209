package utils

import (
	"strings"
	"unicode"
)

// SanitizeLogMessage 过滤用户可控字符串中的控制字符，防止日志注入
func SanitizeLogMessage(msg string) string {
	var sb strings.Builder
	for _, r := range msg {
		if r == '\n' || r == '\t' {
			sb.WriteRune(r)
		} else if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// SanitizeLogUserName 截断并过滤用户名用于日志输出
func SanitizeLogUserName(userName string) string {
	if len(userName) > 30 {
		userName = userName[:30] + "..."
	}
	return SanitizeLogMessage(userName)
}
