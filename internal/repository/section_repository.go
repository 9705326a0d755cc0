package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"resume-builder-go/internal/constants"
	"resume-builder-go/internal/resume"
	"resume-builder-go/internal/storage/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnknownSection 分区名不在支持列表里
var ErrUnknownSection = errors.New("未知的简历分区")

// sectionColumns 分区键到 section_documents JSON列的映射
var sectionColumns = map[string]string{
	constants.SectionEducation:      "education",
	constants.SectionExperience:     "experience",
	constants.SectionProjects:       "projects",
	constants.SectionCertifications: "certifications",
	constants.SectionAchievements:   "achievements",
}

// SectionSource 一种存储形态的分区读取能力
// 同一个分区可以有多个来源，读取结果按来源顺序拼接；
// 数据整合层不关心记录来自哪种形态
type SectionSource interface {
	Load(ctx context.Context, userID string) ([]resume.RawRecord, error)
}

// rowSource 规范化行存储，对应历史遗留的 experience 表
type rowSource struct {
	db *gorm.DB
}

func (s rowSource) Load(ctx context.Context, userID string) ([]resume.RawRecord, error) {
	var rows []models.ExperienceRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询工作经历失败: %w", err)
	}
	records := make([]resume.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, experienceRowRecord(row))
	}
	return records, nil
}

// blobSource 结构化文档存储，读 section_documents 的一个JSON列
type blobSource struct {
	db      *gorm.DB
	section string
}

func (s blobSource) Load(ctx context.Context, userID string) ([]resume.RawRecord, error) {
	var doc models.SectionDocument
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询分区文档失败: %w", err)
	}

	raw := sectionColumnValue(&doc, s.section)
	if len(raw) == 0 {
		return nil, nil
	}
	var records []resume.RawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("解析分区 %s 的JSON失败: %w", s.section, err)
	}
	return records, nil
}

// skillSource 技能表存储，Categories 列是有序的分类数组
type skillSource struct {
	db *gorm.DB
}

func (s skillSource) Load(ctx context.Context, userID string) ([]resume.RawRecord, error) {
	var set models.SkillSet
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询技能失败: %w", err)
	}
	if len(set.Categories) == 0 {
		return nil, nil
	}
	var records []resume.RawRecord
	if err := json.Unmarshal(set.Categories, &records); err != nil {
		return nil, fmt.Errorf("解析技能JSON失败: %w", err)
	}
	return records, nil
}

// SectionRepository 简历分区数据访问层
// 经历分区是双存储形态：历史数据在规范化行存储里，旧版JSON导入在
// 文档列里，读取时行在前、文档记录在后
type SectionRepository struct {
	db      *gorm.DB
	sources map[string][]SectionSource
}

// NewSectionRepository 创建分区仓库并装配各分区的数据来源
func NewSectionRepository(db *gorm.DB) *SectionRepository {
	return &SectionRepository{
		db: db,
		sources: map[string][]SectionSource{
			constants.SectionExperience: {
				rowSource{db: db},
				blobSource{db: db, section: constants.SectionExperience},
			},
			constants.SectionEducation:      {blobSource{db: db, section: constants.SectionEducation}},
			constants.SectionProjects:       {blobSource{db: db, section: constants.SectionProjects}},
			constants.SectionCertifications: {blobSource{db: db, section: constants.SectionCertifications}},
			constants.SectionAchievements:   {blobSource{db: db, section: constants.SectionAchievements}},
			constants.SectionSkills:         {skillSource{db: db}},
		},
	}
}

// GetProfile 读取个人档案；档案行缺失时退回用户表的注册信息
// 用户记录也不存在则视为用户已注销
func (r *SectionRepository) GetProfile(ctx context.Context, userID string) (*resume.RawProfile, error) {
	var detail models.PersonalDetail
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&detail).Error
	if err == nil {
		return profileFromDetail(&detail), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询个人档案失败: %w", err)
	}

	var user models.User
	err = r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, resume.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &resume.RawProfile{
		FullName:    user.Name,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
	}, nil
}

// LoadBundle 并发拉取全部分区，任一分区的存储错误整体失败
// 各任务写入bundle的不同字段，WaitGroup保证可见性，只有错误需要加锁
func (r *SectionRepository) LoadBundle(ctx context.Context, userID string) (resume.RawSectionBundle, error) {
	var (
		bundle   resume.RawSectionBundle
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	run := func(task func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := task(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	run(func() error {
		p, err := r.GetProfile(ctx, userID)
		bundle.Profile = p
		return err
	})
	run(func() error {
		records, err := r.LoadSection(ctx, userID, constants.SectionExperience)
		bundle.Experiences = records
		return err
	})
	run(func() error {
		records, err := r.LoadSection(ctx, userID, constants.SectionEducation)
		bundle.Educations = records
		return err
	})
	run(func() error {
		records, err := r.LoadSection(ctx, userID, constants.SectionProjects)
		bundle.Projects = records
		return err
	})
	run(func() error {
		records, err := r.LoadSection(ctx, userID, constants.SectionCertifications)
		bundle.Certifications = records
		return err
	})
	run(func() error {
		records, err := r.LoadSection(ctx, userID, constants.SectionAchievements)
		bundle.Achievements = records
		return err
	})
	run(func() error {
		records, err := r.LoadSection(ctx, userID, constants.SectionSkills)
		bundle.Skills = records
		return err
	})

	wg.Wait()
	if firstErr != nil {
		return resume.RawSectionBundle{}, firstErr
	}
	return bundle, nil
}

// LoadSection 依次走一个分区的全部数据来源并拼接结果
func (r *SectionRepository) LoadSection(ctx context.Context, userID, section string) ([]resume.RawRecord, error) {
	sources, ok := r.sources[section]
	if !ok {
		return nil, ErrUnknownSection
	}
	var records []resume.RawRecord
	for _, source := range sources {
		part, err := source.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		records = append(records, part...)
	}
	return records, nil
}

// UpsertProfile 写入个人档案，每个用户一行
func (r *SectionRepository) UpsertProfile(ctx context.Context, userID string, p resume.RawProfile) error {
	detail := models.PersonalDetail{
		UserID:       userID,
		FullName:     p.FullName,
		Email:        p.Email,
		PhoneNumber:  p.PhoneNumber,
		LinkedinURL:  p.LinkedinURL,
		GithubURL:    p.GithubURL,
		PortfolioURL: p.PortfolioURL,
		Location:     p.Location,
		Summary:      p.Summary,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"full_name", "email", "phone_number",
			"linkedin_url", "github_url", "portfolio_url",
			"location", "summary",
		}),
	}).Create(&detail).Error
	if err != nil {
		return fmt.Errorf("保存个人档案失败: %w", err)
	}
	return nil
}

// ReplaceExperiences 整体替换用户的工作经历行
// 写路径只走规范化行存储；JSON列里的历史导入保持只读
func (r *SectionRepository) ReplaceExperiences(ctx context.Context, userID string, rows []models.ExperienceRow) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.ExperienceRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].UserID = userID
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("保存工作经历失败: %w", err)
	}
	return nil
}

// SaveSectionRecords 把分区记录整体写入对应的JSON列
func (r *SectionRepository) SaveSectionRecords(ctx context.Context, userID, section string, records []resume.RawRecord) error {
	column, ok := sectionColumns[section]
	if !ok {
		return ErrUnknownSection
	}
	if records == nil {
		records = []resume.RawRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("序列化分区 %s 失败: %w", section, err)
	}

	doc := models.SectionDocument{UserID: userID}
	setSectionColumn(&doc, section, datatypes.JSON(payload))

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column: datatypes.JSON(payload),
		}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("保存分区 %s 失败: %w", section, err)
	}
	return nil
}

// SaveSkills 整体替换用户的技能分类，保持传入顺序
func (r *SectionRepository) SaveSkills(ctx context.Context, userID string, groups []resume.SkillGroup) error {
	if groups == nil {
		groups = []resume.SkillGroup{}
	}
	payload, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("序列化技能失败: %w", err)
	}

	set := models.SkillSet{UserID: userID, Categories: datatypes.JSON(payload)}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"categories": datatypes.JSON(payload),
		}),
	}).Create(&set).Error
	if err != nil {
		return fmt.Errorf("保存技能失败: %w", err)
	}
	return nil
}

// experienceRowRecord 行记录转成松散记录，沿用历史列名，
// 字段别名归一交给数据整合层
func experienceRowRecord(row models.ExperienceRow) resume.RawRecord {
	return resume.RawRecord{
		"company":     row.Company,
		"position":    row.Position,
		"location":    row.Location,
		"startYear":   row.StartYear,
		"endYear":     row.EndYear,
		"is_current":  row.IsCurrent,
		"description": row.Description,
	}
}

func profileFromDetail(d *models.PersonalDetail) *resume.RawProfile {
	return &resume.RawProfile{
		FullName:     d.FullName,
		Email:        d.Email,
		PhoneNumber:  d.PhoneNumber,
		LinkedinURL:  d.LinkedinURL,
		GithubURL:    d.GithubURL,
		PortfolioURL: d.PortfolioURL,
		Location:     d.Location,
		Summary:      d.Summary,
	}
}

func sectionColumnValue(doc *models.SectionDocument, section string) datatypes.JSON {
	switch section {
	case constants.SectionEducation:
		return doc.Education
	case constants.SectionExperience:
		return doc.Experience
	case constants.SectionProjects:
		return doc.Projects
	case constants.SectionCertifications:
		return doc.Certifications
	case constants.SectionAchievements:
		return doc.Achievements
	}
	return nil
}

func setSectionColumn(doc *models.SectionDocument, section string, value datatypes.JSON) {
	switch section {
	case constants.SectionEducation:
		doc.Education = value
	case constants.SectionExperience:
		doc.Experience = value
	case constants.SectionProjects:
		doc.Projects = value
	case constants.SectionCertifications:
		doc.Certifications = value
	case constants.SectionAchievements:
		doc.Achievements = value
	}
}
