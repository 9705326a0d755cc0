package document

import (
	"fmt"
	"strings"
	"testing"

	"resume-builder-go/internal/resume"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedMeasurer 确定性的文本度量：每个字符固定宽度
// 10pt下每字符2.5毫米，内容区180毫米约72字符一行
type fixedMeasurer struct{}

func (fixedMeasurer) TextWidth(text string, size float64, _ FontStyle) float64 {
	return float64(len([]rune(text))) * size * 0.25
}

func a4() Geometry {
	return Geometry{PageWidth: 210, PageHeight: 297, Margin: 15}
}

func newTestEngine() *Engine {
	return NewEngine(a4(), fixedMeasurer{})
}

// textOps 收集全部文本指令
func textOps(plan PagePlan) []DrawOp {
	var ops []DrawOp
	for _, page := range plan.Pages {
		for _, op := range page.Ops {
			if op.Kind == OpText {
				ops = append(ops, op)
			}
		}
	}
	return ops
}

func hasText(plan PagePlan, text string) bool {
	for _, op := range textOps(plan) {
		if op.Text == text {
			return true
		}
	}
	return false
}

func TestLayout_SingleExperienceScenario(t *testing.T) {
	r := resume.CanonicalResume{
		Profile: resume.Profile{Name: "Jane Doe", Email: "jane@x.com"},
		Experiences: []resume.Experience{
			{Company: "Acme", Position: "Engineer", StartDate: "2020", Current: true, Description: "Built things"},
		},
	}

	plan := newTestEngine().Layout(r)

	assert.Equal(t, 1, plan.PageCount(), "内容很少时应该恰好一页")
	assert.True(t, hasText(plan, "Jane Doe"))
	assert.True(t, hasText(plan, "EXPERIENCE"))
	assert.True(t, hasText(plan, "Built things"))

	var foundContact, foundDate bool
	for _, op := range textOps(plan) {
		if strings.Contains(op.Text, "jane@x.com") {
			foundContact = true
		}
		if strings.HasSuffix(op.Text, "Present") {
			foundDate = true
			assert.Equal(t, AlignRight, op.Align, "日期应右对齐")
		}
	}
	assert.True(t, foundContact, "联系方式行应包含邮箱")
	assert.True(t, foundDate, "current=true 的经历结束时间应渲染为 Present")

	// 空分区不应出现标题
	for _, heading := range []string{"EDUCATION", "PROJECTS", "CERTIFICATIONS", "ACHIEVEMENTS", "SKILLS", "SUMMARY"} {
		assert.False(t, hasText(plan, heading), "空分区 %s 不应有标题", heading)
	}
}

func TestLayout_CurrentOverridesStoredEndDate(t *testing.T) {
	r := resume.CanonicalResume{
		Profile: resume.Profile{Name: "X"},
		Experiences: []resume.Experience{
			{Company: "Acme", StartDate: "2020", EndDate: "2021", Current: true},
		},
	}
	plan := newTestEngine().Layout(r)

	assert.True(t, hasText(plan, "2020 – Present"))
	assert.False(t, hasText(plan, "2020 – 2021"), "存储的结束时间应被 Present 覆盖")
}

func TestLayout_MissingEndDateKeepsSeparator(t *testing.T) {
	r := resume.CanonicalResume{
		Profile: resume.Profile{Name: "X"},
		Experiences: []resume.Experience{
			{Company: "Acme", StartDate: "2020"},
		},
	}
	plan := newTestEngine().Layout(r)
	assert.True(t, hasText(plan, "2020 – "), "结束时间缺失时保留分隔符、右侧留空")
}

func TestLayout_ManyRecordsPaginateWithoutSplitting(t *testing.T) {
	const records = 40
	const linesPer = 5

	exps := make([]resume.Experience, 0, records)
	for i := 0; i < records; i++ {
		var descLines []string
		for j := 0; j < linesPer; j++ {
			descLines = append(descLines, fmt.Sprintf("Record %d line %d", i, j))
		}
		exps = append(exps, resume.Experience{
			Company:     fmt.Sprintf("Company %d", i),
			Position:    "Engineer",
			StartDate:   "2020",
			EndDate:     "2021",
			Description: strings.Join(descLines, "\n"),
		})
	}

	plan := newTestEngine().Layout(resume.CanonicalResume{
		Profile:     resume.Profile{Name: "Jane Doe"},
		Experiences: exps,
	})

	assert.Greater(t, plan.PageCount(), 1, "40条经历排不进一页")

	bulletGlyphs := 0
	bulletLines := 0
	for _, op := range textOps(plan) {
		if op.Text == "•" {
			bulletGlyphs++
		}
		if strings.HasPrefix(op.Text, "Record ") {
			bulletLines++
		}
	}
	assert.Equal(t, records*linesPer, bulletGlyphs, "每条描述行一个项目符号")
	assert.Equal(t, records*linesPer, bulletLines, "描述行总数应为40×5，且没有被拆分")
}

func TestLayout_NoUnitBelowBottomMargin(t *testing.T) {
	// 构造足以跨多页的内容
	exps := make([]resume.Experience, 0, 60)
	for i := 0; i < 60; i++ {
		exps = append(exps, resume.Experience{
			Company:     fmt.Sprintf("Company %d", i),
			Description: "alpha\nbeta\ngamma",
		})
	}
	geom := a4()
	plan := NewEngine(geom, fixedMeasurer{}).Layout(resume.CanonicalResume{
		Profile:     resume.Profile{Name: "X"},
		Experiences: exps,
	})
	require.Greater(t, plan.PageCount(), 1)

	bottom := geom.PageHeight - geom.Margin
	for pi, page := range plan.Pages {
		for _, op := range page.Ops {
			if op.Kind != OpText {
				continue
			}
			if op.Size == footerFontSize && strings.HasPrefix(op.Text, "Page ") {
				// 页脚故意盖在边距区
				continue
			}
			assert.LessOrEqual(t, op.Y, bottom, "第%d页的单元 %q 越过了下边距", pi+1, op.Text)
		}
	}
}

func TestLayout_FootersOnlyWhenMultiPage(t *testing.T) {
	single := newTestEngine().Layout(resume.CanonicalResume{
		Profile: resume.Profile{Name: "X"},
	})
	assert.Equal(t, 1, single.PageCount())
	for _, op := range textOps(single) {
		assert.False(t, strings.HasPrefix(op.Text, "Page "), "单页文档不应有页脚")
	}

	exps := make([]resume.Experience, 80)
	for i := range exps {
		exps[i] = resume.Experience{Company: fmt.Sprintf("C%d", i), Description: "one\ntwo\nthree"}
	}
	multi := newTestEngine().Layout(resume.CanonicalResume{
		Profile:     resume.Profile{Name: "X"},
		Experiences: exps,
	})
	require.Greater(t, multi.PageCount(), 1)

	total := multi.PageCount()
	for i, page := range multi.Pages {
		want := fmt.Sprintf("Page %d of %d", i+1, total)
		found := false
		for _, op := range page.Ops {
			if op.Text == want {
				found = true
			}
		}
		assert.True(t, found, "第%d页缺少页脚 %q", i+1, want)
	}
}

func TestLayout_SectionTitleNotRepeatedOnContinuation(t *testing.T) {
	exps := make([]resume.Experience, 80)
	for i := range exps {
		exps[i] = resume.Experience{Company: fmt.Sprintf("C%d", i), Description: "one\ntwo"}
	}
	plan := newTestEngine().Layout(resume.CanonicalResume{
		Profile:     resume.Profile{Name: "X"},
		Experiences: exps,
	})
	require.Greater(t, plan.PageCount(), 1)

	count := 0
	for _, op := range textOps(plan) {
		if op.Text == "EXPERIENCE" {
			count++
		}
	}
	assert.Equal(t, 1, count, "分区标题不应在续页重复")
}

func TestLayout_SkillsRenderedLast(t *testing.T) {
	plan := newTestEngine().Layout(resume.CanonicalResume{
		Profile:     resume.Profile{Name: "X", Summary: "A summary."},
		Experiences: []resume.Experience{{Company: "Acme"}},
		SkillGroups: []resume.SkillGroup{{Category: "Languages", Skills: []string{"Go", "Python"}}},
	})

	order := make([]string, 0, 3)
	for _, op := range textOps(plan) {
		switch op.Text {
		case "SUMMARY", "EXPERIENCE", "SKILLS":
			order = append(order, op.Text)
		}
	}
	assert.Equal(t, []string{"SUMMARY", "EXPERIENCE", "SKILLS"}, order)
	assert.True(t, hasText(plan, "Languages: "))
	assert.True(t, hasText(plan, "Go, Python"))
}

func TestLayout_SkillGroupWithoutSkills(t *testing.T) {
	var plan PagePlan
	require.NotPanics(t, func() {
		plan = newTestEngine().Layout(resume.CanonicalResume{
			Profile:     resume.Profile{Name: "X"},
			SkillGroups: []resume.SkillGroup{{Category: "Other"}},
		})
	})

	assert.True(t, hasText(plan, "SKILLS"))
	assert.True(t, hasText(plan, "Other: "), "空技能列表仍然输出类别标签")
}

func TestLayout_RecordWithEmptyDescription(t *testing.T) {
	plan := newTestEngine().Layout(resume.CanonicalResume{
		Profile: resume.Profile{Name: "X"},
		Certifications: []resume.Certification{
			{Title: "SA Pro", Issuer: "AWS", Year: "2023"},
		},
	})

	assert.True(t, hasText(plan, "SA Pro"))
	assert.True(t, hasText(plan, "AWS"))
	assert.True(t, hasText(plan, "2023"))
	for _, op := range textOps(plan) {
		assert.NotEqual(t, "•", op.Text, "空描述不应产生项目符号行")
	}
}

func TestWrapText(t *testing.T) {
	m := fixedMeasurer{}

	// 每字符2.5毫米，上限25毫米即10字符
	lines := wrapText(m, "aaa bbb ccc ddd", bodyFontSize, StyleNormal, 25)
	assert.Equal(t, []string{"aaa bbb", "ccc ddd"}, lines)

	// 超宽单词独占一行，不做字符拆分
	lines = wrapText(m, "short averyveryverylongword end", bodyFontSize, StyleNormal, 25)
	assert.Equal(t, []string{"short", "averyveryverylongword", "end"}, lines)

	assert.Nil(t, wrapText(m, "   ", bodyFontSize, StyleNormal, 25))
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "2020 – 2022", dateRange("2020", "2022"))
	assert.Equal(t, "2020 – ", dateRange("2020", ""))
	assert.Equal(t, "", dateRange("", ""))
}
