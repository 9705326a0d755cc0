package document

import (
	"fmt"
	"strings"

	"resume-builder-go/internal/constants"
	"resume-builder-go/internal/resume"
)

// 版式常量，沿用参考样式（字号为磅，间距为毫米）
const (
	nameFontSize    = 20.0
	titleFontSize   = 12.0
	headerFontSize  = 11.0
	bodyFontSize    = 10.0
	footerFontSize  = 9.0
	lineAdvance     = 4.0 // 正文行距
	nameAdvance     = 8.0 // 姓名行之后的间距
	titleAdvance    = 8.0 // 分区标题(6)+标题后留白(2)
	recordGap       = 8.0 // 同分区相邻记录之间
	lastRecordGap   = 4.0 // 分区最后一条记录之后
	sectionGap      = 4.0 // 分区结束后的额外留白
	bulletIndent    = 4.0 // 项目符号到文本的缩进
	bulletInset     = 5.0 // 整个项目符号块相对内容区的收窄
	headerRuleWidth = 0.3
	titleRuleWidth  = 0.5
	footerOffset    = 10.0 // 页脚距页底
)

// Engine 布局引擎：把规范化简历排成分页的绘制指令
// 纯函数式，只依赖页面几何和文本度量，不做任何I/O
type Engine struct {
	geom    Geometry
	measure TextMeasurer
}

// NewEngine 创建布局引擎
func NewEngine(geom Geometry, measure TextMeasurer) *Engine {
	return &Engine{geom: geom, measure: measure}
}

// Layout 单趟纵向排版，逐个绘制单元做分页检查
// 任何单元都不会跨页截断；分区标题在续页不重复
func (e *Engine) Layout(r resume.CanonicalResume) PagePlan {
	f := &flow{
		engine: e,
		plan:   PagePlan{Geometry: e.geom, Pages: []Page{{}}},
		y:      e.geom.Margin,
	}

	f.layoutHeader(r.Profile)

	// 分区顺序固定：摘要、经历、教育、项目、证书、成就、技能
	if r.Profile.Summary != "" {
		f.sectionTitle("SUMMARY")
		f.wrappedBody(r.Profile.Summary)
		f.y += recordGap
	}
	if len(r.Experiences) > 0 {
		f.sectionTitle("EXPERIENCE")
		for i, exp := range r.Experiences {
			f.experienceRecord(exp)
			f.recordSpacing(i, len(r.Experiences))
		}
		f.y += sectionGap
	}
	if len(r.Educations) > 0 {
		f.sectionTitle("EDUCATION")
		for i, edu := range r.Educations {
			f.educationRecord(edu)
			f.recordSpacing(i, len(r.Educations))
		}
		f.y += sectionGap
	}
	if len(r.Projects) > 0 {
		f.sectionTitle("PROJECTS")
		for i, proj := range r.Projects {
			f.projectRecord(proj)
			f.recordSpacing(i, len(r.Projects))
		}
		f.y += sectionGap
	}
	if len(r.Certifications) > 0 {
		f.sectionTitle("CERTIFICATIONS")
		for i, cert := range r.Certifications {
			f.recordHeader(cert.Title, "", cert.Year)
			f.subheading(cert.Issuer)
			f.bullets(cert.Description)
			f.recordSpacing(i, len(r.Certifications))
		}
		f.y += sectionGap
	}
	if len(r.Achievements) > 0 {
		f.sectionTitle("ACHIEVEMENTS")
		for i, ach := range r.Achievements {
			f.recordHeader(ach.Title, "", ach.Year)
			f.subheading(ach.Organization)
			f.bullets(ach.Description)
			f.recordSpacing(i, len(r.Achievements))
		}
		f.y += sectionGap
	}
	if len(r.SkillGroups) > 0 {
		f.sectionTitle("SKILLS")
		for i, group := range r.SkillGroups {
			f.skillGroup(group)
			if i < len(r.SkillGroups)-1 {
				f.y += lineAdvance
			}
		}
		f.y += recordGap
	}

	f.stampFooters()
	return f.plan
}

// flow 排版过程中的游标状态
type flow struct {
	engine *Engine
	plan   PagePlan
	y      float64
}

func (f *flow) geom() Geometry {
	return f.engine.geom
}

// ensureFits 分页检查：下一个绘制单元放不下就开新页
func (f *flow) ensureFits(unitHeight float64) {
	if f.y+unitHeight > f.geom().PageHeight-f.geom().Margin {
		f.plan.Pages = append(f.plan.Pages, Page{})
		f.y = f.geom().Margin
	}
}

func (f *flow) add(op DrawOp) {
	last := len(f.plan.Pages) - 1
	f.plan.Pages[last].Ops = append(f.plan.Pages[last].Ops, op)
}

func (f *flow) text(text string, x float64, size float64, style FontStyle, color Color, align Align) {
	f.add(DrawOp{
		Kind:  OpText,
		Text:  text,
		X:     x,
		Y:     f.y,
		Size:  size,
		Style: style,
		Color: color,
		Align: align,
	})
}

func (f *flow) rule(width float64, atY float64) {
	f.add(DrawOp{
		Kind:      OpRule,
		X:         f.geom().Margin,
		X2:        f.geom().PageWidth - f.geom().Margin,
		Y:         atY,
		LineWidth: width,
	})
}

// layoutHeader 头部块：居中姓名、联系方式行、社交链接行、分隔线
func (f *flow) layoutHeader(p resume.Profile) {
	center := f.geom().PageWidth / 2

	f.ensureFits(nameAdvance)
	f.text(p.Name, center, nameFontSize, StyleBold, ColorPrimary, AlignCenter)
	f.y += nameAdvance

	contactItems := joinNonEmpty(" | ", p.Location, p.Email, p.Phone)
	if contactItems != "" {
		f.text(contactItems, center, bodyFontSize, StyleNormal, ColorSecondary, AlignCenter)
	}
	f.y += lineAdvance

	var socialItems []string
	if p.LinkedinHandle != "" {
		socialItems = append(socialItems, "LinkedIn: linkedin.com/in/"+p.LinkedinHandle)
	}
	if p.GithubHandle != "" {
		socialItems = append(socialItems, "GitHub: github.com/"+p.GithubHandle)
	}
	if p.WebsiteURL != "" {
		socialItems = append(socialItems, p.WebsiteURL)
	}
	if len(socialItems) > 0 {
		f.text(strings.Join(socialItems, " | "), center, bodyFontSize, StyleNormal, ColorSecondary, AlignCenter)
		f.y += nameAdvance
	} else {
		f.y += lineAdvance
	}

	f.rule(headerRuleWidth, f.y)
	f.y += 6
}

// sectionTitle 分区标题：大写粗体加下划线，续页不重复
func (f *flow) sectionTitle(title string) {
	f.ensureFits(titleAdvance)
	f.text(strings.ToUpper(title), f.geom().Margin, titleFontSize, StyleBold, ColorPrimary, AlignLeft)
	f.rule(titleRuleWidth, f.y+2)
	f.y += titleAdvance
}

// recordHeader 记录头行：左侧粗体标识，右侧弱化的日期文本
func (f *flow) recordHeader(primary, secondary, dateText string) {
	f.ensureFits(lineAdvance)
	headline := joinNonEmpty(", ", primary, secondary)
	f.text(headline, f.geom().Margin, headerFontSize, StyleBold, ColorPrimary, AlignLeft)
	if dateText != "" {
		f.text(dateText, f.geom().PageWidth-f.geom().Margin, bodyFontSize, StyleNormal, ColorMuted, AlignRight)
	}
	f.y += lineAdvance
}

// subheading 可选的斜体副标题行
func (f *flow) subheading(text string) {
	if text == "" {
		return
	}
	f.ensureFits(lineAdvance)
	f.text(text, f.geom().Margin, bodyFontSize, StyleItalic, ColorSecondary, AlignLeft)
	f.y += lineAdvance
}

// wrappedBody 普通正文段落，折行后每行是一个分页单元
func (f *flow) wrappedBody(text string) {
	lines := wrapText(f.engine.measure, text, bodyFontSize, StyleNormal, f.geom().ContentWidth())
	for _, line := range lines {
		f.ensureFits(lineAdvance)
		f.text(line, f.geom().Margin, bodyFontSize, StyleNormal, ColorTertiary, AlignLeft)
		f.y += lineAdvance
	}
}

// bullets 描述文本先按换行拆成独立条目，每条折行后逐行排版
// 项目符号只画在条目的第一行
func (f *flow) bullets(description string) {
	if description == "" {
		return
	}
	wrapWidth := f.geom().ContentWidth() - bulletInset - bulletIndent
	for _, item := range strings.Split(description, "\n") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		lines := wrapText(f.engine.measure, item, bodyFontSize, StyleNormal, wrapWidth)
		for i, line := range lines {
			f.ensureFits(lineAdvance)
			if i == 0 {
				f.text("•", f.geom().Margin, bodyFontSize, StyleNormal, ColorTertiary, AlignLeft)
			}
			f.text(line, f.geom().Margin+bulletIndent, bodyFontSize, StyleNormal, ColorTertiary, AlignLeft)
			f.y += lineAdvance
		}
	}
}

// experienceRecord 工作经历：current=true 强制结束时间渲染为 Present
func (f *flow) experienceRecord(exp resume.Experience) {
	end := exp.EndDate
	if exp.Current {
		end = constants.PresentToken
	}
	f.recordHeader(exp.Position, exp.Company, dateRange(exp.StartDate, end))
	f.subheading(exp.Location)
	f.bullets(exp.Description)
}

func (f *flow) educationRecord(edu resume.Education) {
	sub := edu.Degree
	if edu.FieldOfStudy != "" {
		if sub != "" {
			sub += " in " + edu.FieldOfStudy
		} else {
			sub = edu.FieldOfStudy
		}
	}
	f.recordHeader(edu.Institution, "", dateRange(edu.StartDate, edu.EndDate))
	f.subheading(sub)
	f.bullets(edu.Description)
}

func (f *flow) projectRecord(proj resume.Project) {
	f.recordHeader(proj.Title, "", proj.Year)
	f.subheading(proj.Link)
	f.bullets(proj.Description)
	if proj.Technologies != "" {
		techText := "Technologies: " + proj.Technologies
		lines := wrapText(f.engine.measure, techText, bodyFontSize, StyleItalic, f.geom().ContentWidth())
		for _, line := range lines {
			f.ensureFits(lineAdvance)
			f.text(line, f.geom().Margin, bodyFontSize, StyleItalic, ColorSecondary, AlignLeft)
			f.y += lineAdvance
		}
	}
}

// skillGroup 粗体类别标签后接折行的技能列表
func (f *flow) skillGroup(group resume.SkillGroup) {
	label := group.Category + ": "
	labelWidth := f.engine.measure.TextWidth(label, bodyFontSize, StyleBold)
	listText := strings.Join(group.Skills, ", ")
	lines := wrapText(f.engine.measure, listText, bodyFontSize, StyleNormal, f.geom().ContentWidth()-labelWidth)

	f.ensureFits(lineAdvance)
	f.text(label, f.geom().Margin, bodyFontSize, StyleBold, ColorSecondary, AlignLeft)
	if len(lines) > 0 {
		f.text(lines[0], f.geom().Margin+labelWidth, bodyFontSize, StyleNormal, ColorTertiary, AlignLeft)
	}
	f.y += lineAdvance

	if len(lines) > 1 {
		for _, line := range lines[1:] {
			f.ensureFits(lineAdvance)
			f.text(line, f.geom().Margin+labelWidth, bodyFontSize, StyleNormal, ColorTertiary, AlignLeft)
			f.y += lineAdvance
		}
	}
}

// recordSpacing 记录之间8毫米，分区最后一条之后4毫米
func (f *flow) recordSpacing(index, total int) {
	if index < total-1 {
		f.y += recordGap
	} else {
		f.y += lastRecordGap
	}
}

// stampFooters 第二趟补页脚：总页数确定之后才能写 "Page i of N"
// 单页文档不加页脚
func (f *flow) stampFooters() {
	total := len(f.plan.Pages)
	if total <= 1 {
		return
	}
	for i := range f.plan.Pages {
		f.plan.Pages[i].Ops = append(f.plan.Pages[i].Ops, DrawOp{
			Kind:  OpText,
			Text:  pageFooterText(i+1, total),
			X:     f.geom().PageWidth - f.geom().Margin,
			Y:     f.geom().PageHeight - footerOffset,
			Size:  footerFontSize,
			Style: StyleNormal,
			Color: ColorMuted,
			Align: AlignRight,
		})
	}
}

func pageFooterText(page, total int) string {
	return fmt.Sprintf("Page %d of %d", page, total)
}

// dateRange 日期区间文本；结束时间缺失时保留分隔符、右侧留空
// 两端都为空则整个区间不渲染
func dateRange(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	return start + " – " + end
}

// joinNonEmpty 过滤空串后再拼接
func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
