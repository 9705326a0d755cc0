package constants

// 简历分区键，存储层和画布层共用
const (
	SectionEducation      = "education"
	SectionExperience     = "experience"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionAchievements   = "achievements"
	SectionSkills         = "skills"
	SectionPersonalInfo   = "personal_info"
)

// 文档输出相关
const (
	// PDFContentType 下载文档的Content-Type
	PDFContentType = "application/pdf"
	// PDFFilename 下载文档的默认文件名
	PDFFilename = "resume.pdf"
	// FallbackName 档案缺失姓名时的占位，保证文档首行始终有内容
	FallbackName = "John Doe"
	// PresentToken current=true 时渲染的结束时间字面量
	PresentToken = "Present"
)

// 事件类型
const (
	EventDocumentGenerated = "document.generated"
)
