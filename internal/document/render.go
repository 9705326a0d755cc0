package document

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// rendererFont 固定使用Helvetica核心字体，不依赖外部字体文件
const rendererFont = "Helvetica"

// 语义颜色到RGB的映射
var colorRGB = map[Color][3]int{
	ColorPrimary:   {0, 0, 0},
	ColorSecondary: {51, 51, 51},
	ColorTertiary:  {102, 102, 102},
	ColorMuted:     {153, 153, 153},
}

// Renderer 文档渲染器：逐条执行PagePlan里的绘制指令
// 不做任何布局决策，输出完全由PagePlan决定
type Renderer struct{}

// NewRenderer 创建渲染器
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render 把页面计划渲染成PDF字节流
// 绘制过程中的任何异常都作为整体渲染失败返回，不会产出残缺文档
func (r *Renderer) Render(plan PagePlan) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = fmt.Errorf("渲染过程发生异常: %v", p)
		}
	}()

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size: fpdf.SizeType{
			Wd: plan.Geometry.PageWidth,
			Ht: plan.Geometry.PageHeight,
		},
	})
	// 分页完全由布局器决定，关掉fpdf自身的自动分页
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(rendererFont, "", bodyFontSize)

	for _, page := range plan.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			switch op.Kind {
			case OpText:
				drawText(pdf, op)
			case OpRule:
				pdf.SetDrawColor(0, 0, 0)
				pdf.SetLineWidth(op.LineWidth)
				pdf.Line(op.X, op.Y, op.X2, op.Y)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("输出PDF失败: %w", err)
	}
	return buf.Bytes(), nil
}

func drawText(pdf *fpdf.Fpdf, op DrawOp) {
	pdf.SetFont(rendererFont, string(op.Style), op.Size)
	rgb := colorRGB[op.Color]
	pdf.SetTextColor(rgb[0], rgb[1], rgb[2])

	x := op.X
	switch op.Align {
	case AlignCenter:
		x -= pdf.GetStringWidth(op.Text) / 2
	case AlignRight:
		x -= pdf.GetStringWidth(op.Text)
	}
	pdf.Text(x, op.Y, op.Text)
}

// fpdfMeasurer 生产环境的文本度量实现，直接用fpdf的字体度量
// fpdf实例不是并发安全的，每次请求各自创建一个
type fpdfMeasurer struct {
	pdf *fpdf.Fpdf
}

// NewMeasurer 创建与渲染后端一致的文本度量器
func NewMeasurer() TextMeasurer {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont(rendererFont, "", bodyFontSize)
	return &fpdfMeasurer{pdf: pdf}
}

func (m *fpdfMeasurer) TextWidth(text string, size float64, style FontStyle) float64 {
	m.pdf.SetFont(rendererFont, string(style), size)
	return m.pdf.GetStringWidth(text)
}
