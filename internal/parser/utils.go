package parser

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeKey 用于 sheet 名匹配的键：NFKC 归一化、小写、只保留字母和数字
func NormalizeKey(name string) string {
	name = norm.NFKC.String(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeColumnName 规范化列名：去除首尾空白，压缩内部空白为单个空格
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	return whitespaceRe.ReplaceAllString(name, " ")
}

// headerKey 表头宽松比较键：忽略大小写与全部空白
func headerKey(name string) string {
	name = norm.NFKC.String(name)
	return strings.ToLower(whitespaceRe.ReplaceAllString(name, ""))
}

// ContainsAny 检查字符串是否包含任意一个关键词
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
