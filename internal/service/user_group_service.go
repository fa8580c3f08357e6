package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/haimq/examhub/internal/dto"
	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type UserGroupService interface {
	ListGroups() ([]dto.GroupSummaryDTO, error)
	GetGroup(id uint) (*dto.GroupDetailDTO, error)
	CreateGroup(req dto.GroupSaveDTO) (*dto.GroupDetailDTO, error)
	UpdateGroup(id uint, req dto.GroupSaveDTO) (*dto.GroupDetailDTO, error)
	DeleteGroup(id uint) (string, error)
	AddStudent(groupID, studentID uint) (*dto.GroupDetailDTO, error)
	RemoveStudent(groupID, studentID uint) (*dto.GroupDetailDTO, error)
}

type userGroupService struct {
	groupRepo repository.UserGroupRepository
	userRepo  repository.UserRepository
}

func NewUserGroupService(groupRepo repository.UserGroupRepository, userRepo repository.UserRepository) UserGroupService {
	return &userGroupService{groupRepo: groupRepo, userRepo: userRepo}
}

func (s *userGroupService) ListGroups() ([]dto.GroupSummaryDTO, error) {
	groups, err := s.groupRepo.FindAllWithStudentCount()
	if err != nil {
		log.Error().Err(err).Msg("ListGroups: repository error")
		return nil, fmt.Errorf("error fetching groups: %w", err)
	}
	summaries := make([]dto.GroupSummaryDTO, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, dto.GroupSummaryDTO{
			ID:           g.ID,
			Name:         g.Name,
			Description:  g.Description,
			StudentCount: g.StudentCount,
			CreatedAt:    g.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *userGroupService) GetGroup(id uint) (*dto.GroupDetailDTO, error) {
	group, err := s.groupRepo.FindByIDWithMembers(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Group with ID %d not found", id)}
		}
		return nil, fmt.Errorf("error fetching group: %w", err)
	}
	return groupDetailDTO(group), nil
}

func (s *userGroupService) CreateGroup(req dto.GroupSaveDTO) (*dto.GroupDetailDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Message: "Group name is required."}
	}
	if _, err := s.groupRepo.FindByName(name); err == nil {
		return nil, &ConflictError{Message: fmt.Sprintf("A group named %q already exists.", name)}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking group name: %w", err)
	}

	group := model.UserGroup{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.groupRepo.Create(&group); err != nil {
		log.Error().Err(err).Str("name", name).Msg("CreateGroup: failed to persist group")
		return nil, fmt.Errorf("database error creating group: %w", err)
	}
	log.Info().Uint("groupID", group.ID).Str("name", name).Msg("Group created")
	return s.GetGroup(group.ID)
}

func (s *userGroupService) UpdateGroup(id uint, req dto.GroupSaveDTO) (*dto.GroupDetailDTO, error) {
	group, err := s.groupRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Group with ID %d not found", id)}
		}
		return nil, fmt.Errorf("error fetching group: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Message: "Group name is required."}
	}
	if name != group.Name {
		if _, err := s.groupRepo.FindByName(name); err == nil {
			return nil, &ConflictError{Message: fmt.Sprintf("A group named %q already exists.", name)}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("error checking group name: %w", err)
		}
	}

	group.Name = name
	group.Description = strings.TrimSpace(req.Description)
	if err := s.groupRepo.Update(group); err != nil {
		log.Error().Err(err).Uint("groupID", id).Msg("UpdateGroup: failed to update group")
		return nil, fmt.Errorf("database error updating group: %w", err)
	}
	return s.GetGroup(id)
}

// DeleteGroup removes the group and its memberships. Student accounts are
// never deleted with the group.
func (s *userGroupService) DeleteGroup(id uint) (string, error) {
	group, err := s.groupRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", &NotFoundError{Message: fmt.Sprintf("Group with ID %d not found", id)}
		}
		return "", fmt.Errorf("error fetching group: %w", err)
	}
	if err := s.groupRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("groupID", id).Msg("DeleteGroup: failed to delete group")
		return "", fmt.Errorf("database error deleting group: %w", err)
	}
	log.Info().Uint("groupID", id).Str("name", group.Name).Msg("Group deleted")
	return group.Name, nil
}

func (s *userGroupService) AddStudent(groupID, studentID uint) (*dto.GroupDetailDTO, error) {
	group, err := s.groupRepo.FindByIDWithMembers(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Group with ID %d not found", groupID)}
		}
		return nil, fmt.Errorf("error fetching group: %w", err)
	}
	student, err := s.userRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Student with ID %d not found", studentID)}
		}
		return nil, fmt.Errorf("error fetching student: %w", err)
	}
	if student.Role != model.RoleStudent {
		return nil, &ValidationError{Message: "Only student accounts can be added to groups."}
	}
	for _, member := range group.Students {
		if member.ID == student.ID {
			return nil, &ConflictError{Message: "Student is already a member of this group."}
		}
	}

	if err := s.groupRepo.AddStudent(group, student); err != nil {
		log.Error().Err(err).Uint("groupID", groupID).Uint("studentID", studentID).Msg("AddStudent: failed to add member")
		return nil, fmt.Errorf("database error adding student to group: %w", err)
	}
	return s.GetGroup(groupID)
}

func (s *userGroupService) RemoveStudent(groupID, studentID uint) (*dto.GroupDetailDTO, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Group with ID %d not found", groupID)}
		}
		return nil, fmt.Errorf("error fetching group: %w", err)
	}
	student, err := s.userRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Student with ID %d not found", studentID)}
		}
		return nil, fmt.Errorf("error fetching student: %w", err)
	}

	if err := s.groupRepo.RemoveStudent(group, student); err != nil {
		log.Error().Err(err).Uint("groupID", groupID).Uint("studentID", studentID).Msg("RemoveStudent: failed to remove member")
		return nil, fmt.Errorf("database error removing student from group: %w", err)
	}
	return s.GetGroup(groupID)
}

func groupDetailDTO(group *model.UserGroup) *dto.GroupDetailDTO {
	detail := dto.GroupDetailDTO{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		Students:    make([]dto.StudentRefDTO, 0, len(group.Students)),
		CreatedAt:   group.CreatedAt,
	}
	for _, s := range group.Students {
		detail.Students = append(detail.Students, dto.StudentRefDTO{ID: s.ID, Username: s.Username})
	}
	for _, e := range group.Exams {
		detail.Exams = append(detail.Exams, dto.ExamRefDTO{ID: e.ID, Name: e.Name})
	}
	return &detail
}
