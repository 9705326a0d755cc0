package document

// FontStyle 字体样式，取值与fpdf的样式串一致
type FontStyle string

const (
	StyleNormal FontStyle = ""
	StyleBold   FontStyle = "B"
	StyleItalic FontStyle = "I"
)

// Color 语义化文本颜色，渲染器负责映射到具体RGB
type Color int

const (
	ColorPrimary   Color = iota // 标题和重点文本
	ColorSecondary              // 副标题和次要文本
	ColorTertiary               // 描述和正文
	ColorMuted                  // 日期、页码等弱化文本
)

// Align 水平对齐方式
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// OpKind 绘制指令类型
type OpKind int

const (
	OpText OpKind = iota
	OpRule
)

// DrawOp 一条定位好的绘制指令，布局器产出、渲染器消费
type DrawOp struct {
	Kind OpKind

	// 文本指令字段
	Text  string
	X     float64
	Y     float64
	Size  float64
	Style FontStyle
	Color Color
	Align Align

	// 分隔线指令字段：从(X, Y)到(X2, Y)的水平线
	X2        float64
	LineWidth float64
}

// Page 一页里按绘制顺序排列的指令
type Page struct {
	Ops []DrawOp
}

// Geometry 页面几何，单位毫米
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
}

// ContentWidth 去掉左右边距后的内容宽度
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// PagePlan 布局器和渲染器之间的契约：有序页面+每页有序指令
type PagePlan struct {
	Geometry Geometry
	Pages    []Page
}

// PageCount 总页数
func (p *PagePlan) PageCount() int {
	return len(p.Pages)
}
