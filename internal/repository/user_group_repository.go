package repository

import (
	"github.com/haimq/examhub/internal/model"
	"gorm.io/gorm"
)

// GroupWithCount carries a group plus its member count for list views.
type GroupWithCount struct {
	model.UserGroup
	StudentCount int
}

type UserGroupRepository interface {
	Create(group *model.UserGroup) error
	FindByID(id uint) (*model.UserGroup, error)
	FindByName(name string) (*model.UserGroup, error)
	FindByIDWithMembers(id uint) (*model.UserGroup, error)
	FindByIDs(ids []uint) ([]model.UserGroup, error)
	FindAllWithStudentCount() ([]GroupWithCount, error)
	FindGroupIDsByStudent(userID uint) ([]uint, error)
	Update(group *model.UserGroup) error
	Delete(id uint) error
	AddStudent(group *model.UserGroup, student *model.User) error
	RemoveStudent(group *model.UserGroup, student *model.User) error
}

type userGroupRepository struct {
	db *gorm.DB
}

func NewUserGroupRepository(db *gorm.DB) UserGroupRepository {
	return &userGroupRepository{db: db}
}

func (r *userGroupRepository) Create(group *model.UserGroup) error {
	return r.db.Create(group).Error
}

func (r *userGroupRepository) FindByID(id uint) (*model.UserGroup, error) {
	var group model.UserGroup
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *userGroupRepository) FindByName(name string) (*model.UserGroup, error) {
	var group model.UserGroup
	if err := r.db.Where("name = ?", name).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *userGroupRepository) FindByIDWithMembers(id uint) (*model.UserGroup, error) {
	var group model.UserGroup
	err := r.db.Preload("Students").Preload("Exams").First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *userGroupRepository) FindByIDs(ids []uint) ([]model.UserGroup, error) {
	var groups []model.UserGroup
	if len(ids) == 0 {
		return groups, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&groups).Error
	return groups, err
}

func (r *userGroupRepository) FindAllWithStudentCount() ([]GroupWithCount, error) {
	var results []GroupWithCount
	err := r.db.Model(&model.UserGroup{}).
		Select("user_groups.*, (SELECT COUNT(*) FROM user_group_memberships WHERE user_group_memberships.user_group_id = user_groups.id) as student_count").
		Where("user_groups.deleted_at IS NULL").
		Order("user_groups.created_at DESC").
		Scan(&results).Error
	return results, err
}

func (r *userGroupRepository) FindGroupIDsByStudent(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Table("user_group_memberships").
		Where("user_id = ?", userID).
		Pluck("user_group_id", &ids).Error
	return ids, err
}

func (r *userGroupRepository) Update(group *model.UserGroup) error {
	return r.db.Save(group).Error
}

// Delete removes the group and its membership rows. Member accounts are
// untouched.
func (r *userGroupRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		group := model.UserGroup{ID: id}
		if err := tx.Model(&group).Association("Students").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&group).Association("Exams").Clear(); err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
}

func (r *userGroupRepository) AddStudent(group *model.UserGroup, student *model.User) error {
	return r.db.Model(group).Association("Students").Append(student)
}

func (r *userGroupRepository) RemoveStudent(group *model.UserGroup, student *model.User) error {
	return r.db.Model(group).Association("Students").Delete(student)
}
