package resume

// CanonicalResume 规范化后的简历模型，与存储形态无关
// 每次渲染请求都从各分区数据源重建，从不落库
type CanonicalResume struct {
	Profile        Profile         `json:"profile"`
	SkillGroups    []SkillGroup    `json:"skillGroups"`
	Experiences    []Experience    `json:"experiences"`
	Educations     []Education     `json:"educations"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Achievements   []Achievement   `json:"achievements"`
}

// Profile 档案头部信息，除姓名外都可为空
type Profile struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	LinkedinHandle string `json:"linkedinHandle"`
	GithubHandle   string `json:"githubHandle"`
	WebsiteURL     string `json:"websiteUrl"`
	Location       string `json:"location"`
	Summary        string `json:"summary"`
}

// SkillGroup 一个技能类别及其技能列表，类别在序列内唯一
type SkillGroup struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// Experience 工作经历，Company为必填识别字段
type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Education 教育经历，Institution为必填识别字段
type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Description  string `json:"description"`
}

// Project 项目经历，Title为必填识别字段（源数据里可能叫 name）
type Project struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	Technologies string `json:"technologies"`
	Year         string `json:"year"`
	Description  string `json:"description"`
}

// Certification 证书，Title为必填识别字段
type Certification struct {
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

// Achievement 个人成就，Title为必填识别字段
type Achievement struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Year         string `json:"year"`
	Description  string `json:"description"`
}
