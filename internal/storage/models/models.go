package models

import (
	"time"

	"gorm.io/datatypes"
)

// User 用户主表
type User struct {
	UserID       string    `gorm:"type:char(36);primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex:idx_users_email_unique;not null"`
	PhoneNumber  string    `gorm:"type:varchar(50)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// PersonalDetail 简历档案表（规范化行存储）
type PersonalDetail struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      string    `gorm:"type:char(36);not null;uniqueIndex:idx_pd_user_id_unique"`
	FullName    string    `gorm:"type:varchar(255)"`
	Email       string    `gorm:"type:varchar(255)"`
	PhoneNumber string    `gorm:"type:varchar(50)"`
	LinkedinURL string    `gorm:"type:varchar(255)"`
	GithubURL   string    `gorm:"type:varchar(255)"`
	PortfolioURL string   `gorm:"type:varchar(255)"`
	Location    string    `gorm:"type:varchar(255)"`
	Summary     string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt   time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (PersonalDetail) TableName() string {
	return "personal_details"
}

// ExperienceRow 工作经历表，规范化行是经历分区的主要写入路径
// SectionDocument 的 JSON 列只作为历史数据的只读来源，读取时两个来源都要取
type ExperienceRow struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      string    `gorm:"type:char(36);not null;index:idx_exp_user_id"`
	Company     string    `gorm:"type:varchar(255)"`
	Position    string    `gorm:"type:varchar(255)"`
	Location    string    `gorm:"type:varchar(255)"`
	StartYear   string    `gorm:"type:varchar(50)"`
	EndYear     string    `gorm:"type:varchar(50)"`
	IsCurrent   bool      `gorm:"type:tinyint(1);default:0"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ExperienceRow) TableName() string {
	return "experience"
}

// SectionDocument 分区文档表，每个用户一行，每个分区一个JSON列
// 对应旧版 user_data 表的结构化文档存储路径
type SectionDocument struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement"`
	UserID         string         `gorm:"type:char(36);not null;uniqueIndex:idx_sd_user_id_unique"`
	Education      datatypes.JSON `gorm:"type:json"`
	Experience     datatypes.JSON `gorm:"type:json"`
	Projects       datatypes.JSON `gorm:"type:json"`
	Certifications datatypes.JSON `gorm:"type:json"`
	Achievements   datatypes.JSON `gorm:"type:json"`
	CreatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (SectionDocument) TableName() string {
	return "section_documents"
}

// SkillSet 技能表，每个用户一行
// Categories 存有序数组 [{"category": "...", "skills": ["..."]}]，
// 不用对象做映射，保证类别顺序稳定
type SkillSet struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement"`
	UserID     string         `gorm:"type:char(36);not null;uniqueIndex:idx_ss_user_id_unique"`
	Categories datatypes.JSON `gorm:"type:json"`
	CreatedAt  time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt  time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (SkillSet) TableName() string {
	return "skill_sets"
}

// GeneratedDocument 文档生成记录表，归档到MinIO后落一行便于追溯
type GeneratedDocument struct {
	DocumentID  string    `gorm:"type:char(36);primaryKey"`
	UserID      string    `gorm:"type:char(36);not null;index:idx_gd_user_id"`
	ObjectKey   string    `gorm:"type:varchar(1024)"`
	PageCount   int       `gorm:"type:int"`
	SizeBytes   int64     `gorm:"type:bigint"`
	GeneratedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (GeneratedDocument) TableName() string {
	return "generated_documents"
}
