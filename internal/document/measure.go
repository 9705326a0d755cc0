package document

import "strings"

// TextMeasurer 文本宽度度量接口，返回毫米
// 布局器只依赖这个接口，不依赖任何渲染后端，
// 测试里可以换成固定宽度实现来做确定性断言
type TextMeasurer interface {
	TextWidth(text string, size float64, style FontStyle) float64
}

// wrapText 贪心按词折行
// 单个超宽的词不做字符级拆分，独占一行
func wrapText(m TextMeasurer, text string, size float64, style FontStyle, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if m.TextWidth(candidate, size, style) > maxWidth {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}
	return append(lines, current)
}
