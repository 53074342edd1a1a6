package utils

import (
	"strings"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rivo/uniseg"
)

// MeasureFunc 返回一行文本的显示宽度（像素）
type MeasureFunc func(s string) float64

// FaceMeasure 使用字体测量文本宽度
func FaceMeasure(face text.Face) MeasureFunc {
	return func(s string) float64 {
		if s == "" || face == nil {
			return 0
		}
		width, _ := text.Measure(s, face, 0)
		return width
	}
}

// CellMeasure 按终端单元格宽度估算文本宽度（全角字符占两格）
// 没有字体度量时使用，例如测试或内置位图字体
func CellMeasure(cellWidth float64) MeasureFunc {
	return func(s string) float64 {
		return float64(uniseg.StringWidth(s)) * cellWidth
	}
}

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - face: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行）
//
// 换行规则:
//   - 文本中的 '\n' 总是换行
//   - 按 Unicode 断行规则在空格后、中日文字符之间断行
//   - 如果单词太长超过最大宽度，按字素强制断行
func WrapText(textStr string, face text.Face, maxWidth float64) []string {
	if face == nil {
		return strings.Split(textStr, "\n")
	}
	return WrapTextFunc(textStr, FaceMeasure(face), maxWidth)
}

// WrapTextFunc 与 WrapText 相同，使用自定义测量函数
func WrapTextFunc(textStr string, measure MeasureFunc, maxWidth float64) []string {
	wrapped := InsertBreaks(textStr, WrapBreaks(textStr, measure, maxWidth), len(textStr))
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = trimLineEnd(line)
	}
	return lines
}

// WrapBreaks 计算自动换行位置
//
// 返回需要在其前面插入换行的字节偏移（升序），不包含文本中原有的 '\n'。
// 逐字显示文本时先对完整文本计算一次换行位置，再用 InsertBreaks
// 生成每一帧的显示内容，这样已显示的文字不会因为后续文字出现而跳行。
func WrapBreaks(textStr string, measure MeasureFunc, maxWidth float64) []int {
	if textStr == "" || measure == nil || maxWidth <= 0 {
		return nil
	}

	var breaks []int
	lineStart, pos := 0, 0
	state := -1
	rest := textStr

	for len(rest) > 0 {
		var segment string
		var mustBreak bool
		segment, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)
		end := pos + len(segment)

		if pos > lineStart && measure(trimLineEnd(textStr[lineStart:end])) > maxWidth {
			breaks = append(breaks, pos)
			lineStart = pos
		}

		// 单个片段就超宽，按字素强制断行
		if measure(trimLineEnd(textStr[lineStart:end])) > maxWidth {
			breaks, lineStart = breakGraphemes(textStr, lineStart, end, measure, maxWidth, breaks)
		}

		if mustBreak {
			lineStart = end
		}
		pos = end
	}

	return breaks
}

// breakGraphemes 在 [start, end) 内按字素断行，返回新的断行列表和最后一行的起点
func breakGraphemes(textStr string, start, end int, measure MeasureFunc, maxWidth float64, breaks []int) ([]int, int) {
	lineStart, pos := start, start
	state := -1
	rest := textStr[start:end]

	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		next := pos + len(cluster)
		if pos > lineStart && measure(trimLineEnd(textStr[lineStart:next])) > maxWidth {
			breaks = append(breaks, pos)
			lineStart = pos
		}
		pos = next
	}

	return breaks, lineStart
}

// InsertBreaks 返回 textStr[:upTo] 并在 breaks 指定的位置插入换行
func InsertBreaks(textStr string, breaks []int, upTo int) string {
	if upTo > len(textStr) {
		upTo = len(textStr)
	}
	if len(breaks) == 0 {
		return textStr[:upTo]
	}

	var sb strings.Builder
	sb.Grow(upTo + len(breaks))
	prev := 0
	for _, b := range breaks {
		if b >= upTo {
			break
		}
		sb.WriteString(textStr[prev:b])
		sb.WriteByte('\n')
		prev = b
	}
	sb.WriteString(textStr[prev:upTo])
	return sb.String()
}

// Graphemes 将文本拆分为字素簇（用户感知的「字符」）
func Graphemes(textStr string) []string {
	var clusters []string
	state := -1
	rest := textStr
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		clusters = append(clusters, cluster)
	}
	return clusters
}

func trimLineEnd(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
