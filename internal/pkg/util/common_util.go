package util

import (
	"strings"
	"unicode/utf8"
)

// NormalizeTags 去空白并转小写，丢弃空标签；保留重复项，由调用方决定是否累计
// 结果作为 tags 文档 ID，与只做小写的旧 ID 不同：" art" 与 "art" 归并为同一个 "art"
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Truncate 按字符截断，超出 n 时追加 "..."
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// Difference 返回 after 中不在 before 里的元素，保持 after 的顺序并去重
func Difference(after, before []string) []string {
	old := make(map[string]struct{}, len(before))
	for _, v := range before {
		old[v] = struct{}{}
	}
	var diff []string
	for _, v := range after {
		if _, ok := old[v]; ok {
			continue
		}
		old[v] = struct{}{}
		diff = append(diff, v)
	}
	return diff
}
