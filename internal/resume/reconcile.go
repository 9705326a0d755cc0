package resume

import (
	"strconv"
	"strings"

	"resume-builder-go/internal/constants"
)

// RawRecord 松散类型的分区记录，行存储和JSON文档存储都归一成这个形状
type RawRecord map[string]any

// RawProfile 档案读取结果，字段名与存储层一致
type RawProfile struct {
	FullName     string
	Email        string
	PhoneNumber  string
	LinkedinURL  string
	GithubURL    string
	PortfolioURL string
	Location     string
	Summary      string
}

// RawSectionBundle 一次渲染请求的全部分区原始数据
// 任何分区都允许缺失或为空
type RawSectionBundle struct {
	Profile        *RawProfile
	Skills         []RawRecord
	Experiences    []RawRecord
	Educations     []RawRecord
	Projects       []RawRecord
	Certifications []RawRecord
	Achievements   []RawRecord
}

// 字段别名表：历史版本的字段命名漂移统一在这里消化，
// 渲染代码不再出现逐字段的条件回退。
// 每个列表的第一个名字是规范名，保证规范化后的数据再过一遍映射结果不变。
var fieldAliases = map[string][]string{
	"startDate":   {"startDate", "startYear", "start_year"},
	"endDate":     {"endDate", "endYear", "end_year"},
	"title":       {"title", "name"},
	"year":        {"year", "date"},
	"description": {"description"},
}

// Reconcile 把各分区的原始记录合并成规范化简历模型
// 纯转换，永不报错：畸形记录直接丢弃，而不是向上传播
func Reconcile(bundle RawSectionBundle) CanonicalResume {
	out := CanonicalResume{
		Profile:        reconcileProfile(bundle.Profile),
		SkillGroups:    reconcileSkills(bundle.Skills),
		Experiences:    make([]Experience, 0, len(bundle.Experiences)),
		Educations:     make([]Education, 0, len(bundle.Educations)),
		Projects:       make([]Project, 0, len(bundle.Projects)),
		Certifications: make([]Certification, 0, len(bundle.Certifications)),
		Achievements:   make([]Achievement, 0, len(bundle.Achievements)),
	}

	for _, rec := range bundle.Experiences {
		exp := Experience{
			Company:     stringField(rec, "company"),
			Position:    stringField(rec, "position"),
			Location:    stringField(rec, "location"),
			StartDate:   aliasField(rec, "startDate"),
			EndDate:     aliasField(rec, "endDate"),
			Current:     boolField(rec, "current", "is_current", "isCurrent"),
			Description: aliasField(rec, "description"),
		}
		// 缺少识别字段的记录丢弃，避免渲染出 "– , –" 这种空行
		if exp.Company == "" {
			continue
		}
		out.Experiences = append(out.Experiences, exp)
	}

	for _, rec := range bundle.Educations {
		edu := Education{
			Institution:  stringField(rec, "institution"),
			Degree:       stringField(rec, "degree"),
			FieldOfStudy: stringField(rec, "fieldOfStudy", "field_of_study"),
			StartDate:    aliasField(rec, "startDate"),
			EndDate:      aliasField(rec, "endDate"),
			Description:  aliasField(rec, "description"),
		}
		if edu.Institution == "" {
			continue
		}
		out.Educations = append(out.Educations, edu)
	}

	for _, rec := range bundle.Projects {
		proj := Project{
			Title:        aliasField(rec, "title"),
			Link:         stringField(rec, "link"),
			Technologies: stringField(rec, "technologies"),
			Year:         aliasField(rec, "year"),
			Description:  aliasField(rec, "description"),
		}
		if proj.Title == "" {
			continue
		}
		out.Projects = append(out.Projects, proj)
	}

	for _, rec := range bundle.Certifications {
		cert := Certification{
			Title:       aliasField(rec, "title"),
			Issuer:      stringField(rec, "issuer"),
			Year:        aliasField(rec, "year"),
			Description: aliasField(rec, "description"),
		}
		if cert.Title == "" {
			continue
		}
		out.Certifications = append(out.Certifications, cert)
	}

	for _, rec := range bundle.Achievements {
		ach := Achievement{
			Title:        aliasField(rec, "title"),
			Organization: stringField(rec, "organization", "issuer"),
			Year:         aliasField(rec, "year"),
			Description:  aliasField(rec, "description"),
		}
		if ach.Title == "" {
			continue
		}
		out.Achievements = append(out.Achievements, ach)
	}

	return out
}

// reconcileProfile 填默认值并从URL里提取社交账号句柄
func reconcileProfile(p *RawProfile) Profile {
	out := Profile{Name: constants.FallbackName}
	if p == nil {
		return out
	}
	if strings.TrimSpace(p.FullName) != "" {
		out.Name = strings.TrimSpace(p.FullName)
	}
	out.Email = p.Email
	out.Phone = p.PhoneNumber
	out.LinkedinHandle = handleFromURL(p.LinkedinURL)
	out.GithubHandle = handleFromURL(p.GithubURL)
	out.WebsiteURL = p.PortfolioURL
	out.Location = p.Location
	out.Summary = p.Summary
	return out
}

// reconcileSkills 按出现顺序合并同名类别，技能列表取并接
func reconcileSkills(records []RawRecord) []SkillGroup {
	groups := make([]SkillGroup, 0, len(records))
	index := make(map[string]int, len(records))

	for _, rec := range records {
		category := stringField(rec, "category", "name")
		if category == "" {
			continue
		}
		skills := skillList(rec["skills"])

		if i, seen := index[category]; seen {
			groups[i].Skills = append(groups[i].Skills, skills...)
			continue
		}
		index[category] = len(groups)
		groups = append(groups, SkillGroup{Category: category, Skills: skills})
	}
	return groups
}

// skillList 把技能值规整为字符串列表；标量值按单元素列表处理
func skillList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, 0, len(val))
		for _, s := range val {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := coerceString(val); s != "" {
			return []string{s}
		}
		return []string{}
	}
}

// aliasField 经过别名表查找字段值，命中第一个非空的别名
func aliasField(rec RawRecord, canonical string) string {
	aliases, ok := fieldAliases[canonical]
	if !ok {
		aliases = []string{canonical}
	}
	for _, name := range aliases {
		if v, present := rec[name]; present {
			if s := coerceString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringField 依次尝试给定字段名，返回第一个非空值
func stringField(rec RawRecord, names ...string) string {
	for _, name := range names {
		if v, present := rec[name]; present {
			if s := coerceString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// boolField 布尔字段，容忍字符串形式的 "true"/"1"
func boolField(rec RawRecord, names ...string) bool {
	for _, name := range names {
		v, present := rec[name]
		if !present {
			continue
		}
		switch val := v.(type) {
		case bool:
			return val
		case string:
			b, err := strconv.ParseBool(val)
			return err == nil && b
		case float64:
			return val != 0
		case int:
			return val != 0
		}
	}
	return false
}

// coerceString 把JSON反序列化出的标量统一转成字符串
// 年份经常以数字形式存储，2020.0 要还原成 "2020"
func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// handleFromURL 从社交主页URL里取最后一段作为账号句柄
// 传入的已经是句柄时原样返回
func handleFromURL(url string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(url), "/")
	if trimmed == "" {
		return ""
	}
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
