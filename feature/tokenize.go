package feature

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMinTokenLength 是 token 的最小长度（rune 数），更短的 token 被丢弃。
const DefaultMinTokenLength = 3

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Tokenize 把文本转换为小写 token 序列：按非单词字符切分，丢弃长度小于 minLen 的 token。
// minLen <= 0 时使用 DefaultMinTokenLength。
func Tokenize(text string, minLen int) []string {
	if minLen <= 0 {
		minLen = DefaultMinTokenLength
	}
	parts := nonWord.Split(strings.ToLower(text), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if utf8.RuneCountInString(p) < minLen {
			continue
		}
		out = append(out, p)
	}
	return out
}

// termKey 规范化主题/标签 key，与 token 使用同一个命名空间。
func termKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
