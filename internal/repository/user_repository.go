package repository

import (
	"context"
	"errors"
	"fmt"

	"resume-builder-go/internal/storage/models"

	"github.com/gofrs/uuid/v5"
	"gorm.io/gorm"
)

// ErrEmailTaken 注册邮箱已被占用
var ErrEmailTaken = errors.New("邮箱已被注册")

// UserRepository 用户表访问层
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户，UserID为空时生成UUIDv7
// 邮箱唯一性冲突返回 ErrEmailTaken
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.UserID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("生成用户ID失败: %w", err)
		}
		user.UserID = id.String()
	}

	// 先查再插，唯一索引兜底并发窗口
	var existing models.User
	err := r.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("查询用户失败: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("创建用户失败: %w", err)
	}
	return nil
}

// FindByEmail 按邮箱查找，未找到返回 gorm.ErrRecordNotFound
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

// FindByID 按用户ID查找，未找到返回 gorm.ErrRecordNotFound
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}
