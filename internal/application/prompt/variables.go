// Package prompt 提供提示词模板的变量解析、内置模板目录与模板管理服务
package prompt

import (
	"regexp"
	"strings"
)

// MissingValue 未提供取值的占位符会被替换为该标记
const MissingValue = "[VARIABLE_NOT_PROVIDED]"

// placeholderPattern 匹配 {{name}}；name 不含 '}'
var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Resolve 单遍替换 body 中的所有 {{name}} 占位符。
// 命中 values 的替换为对应值，其余替换为 MissingValue；替换结果不会被再次扫描。
func Resolve(body string, values map[string]string) string {
	if body == "" {
		return body
	}
	return placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		raw := match[2 : len(match)-2]
		if v, ok := values[raw]; ok {
			return v
		}
		if v, ok := values[strings.TrimSpace(raw)]; ok {
			return v
		}
		return MissingValue
	})
}

// DetectVariables 按首次出现顺序返回去重后的变量名（已去除首尾空白）。
// 没有占位符时返回空切片而非 nil。
func DetectVariables(body string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(body, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// MissingVariables 返回 body 中未在 values 里提供的变量名
func MissingVariables(body string, values map[string]string) []string {
	var missing []string
	for _, name := range DetectVariables(body) {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
