package service

import (
	"strings"
	"time"

	"github.com/haimq/examhub/internal/model"
	"github.com/haimq/examhub/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository fakes for service tests.

type fakeExamRepo struct {
	exams  map[uint]*model.Exam
	nextID uint
}

func newFakeExamRepo(exams ...*model.Exam) *fakeExamRepo {
	r := &fakeExamRepo{exams: map[uint]*model.Exam{}, nextID: 1}
	for _, e := range exams {
		if e.ID == 0 {
			e.ID = r.nextID
		}
		if e.ID >= r.nextID {
			r.nextID = e.ID + 1
		}
		r.exams[e.ID] = e
	}
	return r
}

func (r *fakeExamRepo) Create(exam *model.Exam) error {
	exam.ID = r.nextID
	r.nextID++
	for i := range exam.Questions {
		exam.Questions[i].ID = r.nextID
		exam.Questions[i].ExamID = exam.ID
		r.nextID++
	}
	r.exams[exam.ID] = exam
	return nil
}

func (r *fakeExamRepo) FindByID(id uint) (*model.Exam, error) {
	exam, ok := r.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return exam, nil
}

func (r *fakeExamRepo) FindByIDWithDetails(id uint) (*model.Exam, error) {
	return r.FindByID(id)
}

func (r *fakeExamRepo) FindAllWithQuestionCount(search string, offset, limit int) ([]repository.ExamWithCount, int64, error) {
	var results []repository.ExamWithCount
	for _, e := range r.exams {
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Name), strings.ToLower(search)) &&
			!strings.Contains(strings.ToLower(e.Subject), strings.ToLower(search)) {
			continue
		}
		results = append(results, repository.ExamWithCount{Exam: *e, QuestionCount: len(e.Questions)})
	}
	return results, int64(len(results)), nil
}

func (r *fakeExamRepo) FindPublishedWithDetails() ([]model.Exam, error) {
	var exams []model.Exam
	for _, e := range r.exams {
		if e.Status == model.ExamStatusPublished {
			exams = append(exams, *e)
		}
	}
	return exams, nil
}

func (r *fakeExamRepo) Update(exam *model.Exam) error {
	r.exams[exam.ID] = exam
	return nil
}

func (r *fakeExamRepo) Delete(id uint) error {
	delete(r.exams, id)
	return nil
}

func (r *fakeExamRepo) ReplaceQuestions(examID uint, questions []model.Question) error {
	exam, ok := r.exams[examID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range questions {
		questions[i].ExamID = examID
	}
	exam.Questions = questions
	return nil
}

func (r *fakeExamRepo) ReplaceGroups(exam *model.Exam, groups []model.UserGroup) error {
	exam.AssignedGroups = groups
	r.exams[exam.ID] = exam
	return nil
}

func (r *fakeExamRepo) CountAll() (int64, error) {
	return int64(len(r.exams)), nil
}

func (r *fakeExamRepo) CountByStatus(status model.ExamStatus) (int64, error) {
	var count int64
	for _, e := range r.exams {
		if e.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeQuestionRepo struct {
	created []model.Question
}

func (r *fakeQuestionRepo) CreateBatch(questions []model.Question) error {
	r.created = append(r.created, questions...)
	return nil
}

func (r *fakeQuestionRepo) FindByExamID(examID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.created {
		if q.ExamID == examID {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeSubmissionRepo struct {
	subs   []model.ExamSubmission
	nextID uint
}

func (r *fakeSubmissionRepo) Create(submission *model.ExamSubmission) error {
	r.nextID++
	submission.ID = r.nextID
	r.subs = append(r.subs, *submission)
	return nil
}

func (r *fakeSubmissionRepo) FindByExamID(examID uint) ([]model.ExamSubmission, error) {
	var out []model.ExamSubmission
	for _, s := range r.subs {
		if s.ExamID == examID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) FindRecentByUser(userID uint, limit int) ([]model.ExamSubmission, error) {
	var out []model.ExamSubmission
	for i := len(r.subs) - 1; i >= 0 && len(out) < limit; i-- {
		if r.subs[i].UserID == userID {
			out = append(out, r.subs[i])
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) CountByUserAndExam(userID, examID uint) (int64, error) {
	var count int64
	for _, s := range r.subs {
		if s.UserID == userID && s.ExamID == examID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubmissionRepo) CountSince(since time.Time) (int64, error) {
	var count int64
	for _, s := range r.subs {
		if s.SubmittedAt.After(since) {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint]*model.User{}, nextID: 1}
	for _, u := range users {
		if u.ID == 0 {
			u.ID = r.nextID
		}
		if u.ID >= r.nextID {
			r.nextID = u.ID + 1
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll() ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) FindStudents() ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Role == model.RoleStudent {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) CountStudents() (int64, error) {
	var count int64
	for _, u := range r.users {
		if u.Role == model.RoleStudent {
			count++
		}
	}
	return count, nil
}

type fakeGroupRepo struct {
	groups      map[uint]*model.UserGroup
	memberships map[uint][]uint // group ID -> member user IDs
	nextID      uint
}

func newFakeGroupRepo(groups ...*model.UserGroup) *fakeGroupRepo {
	r := &fakeGroupRepo{groups: map[uint]*model.UserGroup{}, memberships: map[uint][]uint{}, nextID: 1}
	for _, g := range groups {
		if g.ID == 0 {
			g.ID = r.nextID
		}
		if g.ID >= r.nextID {
			r.nextID = g.ID + 1
		}
		r.groups[g.ID] = g
		for _, s := range g.Students {
			r.memberships[g.ID] = append(r.memberships[g.ID], s.ID)
		}
	}
	return r
}

func (r *fakeGroupRepo) Create(group *model.UserGroup) error {
	group.ID = r.nextID
	r.nextID++
	r.groups[group.ID] = group
	return nil
}

func (r *fakeGroupRepo) FindByID(id uint) (*model.UserGroup, error) {
	group, ok := r.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return group, nil
}

func (r *fakeGroupRepo) FindByName(name string) (*model.UserGroup, error) {
	for _, g := range r.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeGroupRepo) FindByIDWithMembers(id uint) (*model.UserGroup, error) {
	return r.FindByID(id)
}

func (r *fakeGroupRepo) FindByIDs(ids []uint) ([]model.UserGroup, error) {
	var out []model.UserGroup
	for _, id := range ids {
		if g, ok := r.groups[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) FindAllWithStudentCount() ([]repository.GroupWithCount, error) {
	var out []repository.GroupWithCount
	for _, g := range r.groups {
		out = append(out, repository.GroupWithCount{UserGroup: *g, StudentCount: len(g.Students)})
	}
	return out, nil
}

func (r *fakeGroupRepo) FindGroupIDsByStudent(userID uint) ([]uint, error) {
	var ids []uint
	for groupID, members := range r.memberships {
		for _, id := range members {
			if id == userID {
				ids = append(ids, groupID)
			}
		}
	}
	return ids, nil
}

func (r *fakeGroupRepo) Update(group *model.UserGroup) error {
	r.groups[group.ID] = group
	return nil
}

func (r *fakeGroupRepo) Delete(id uint) error {
	delete(r.groups, id)
	delete(r.memberships, id)
	return nil
}

func (r *fakeGroupRepo) AddStudent(group *model.UserGroup, student *model.User) error {
	group.Students = append(group.Students, *student)
	r.memberships[group.ID] = append(r.memberships[group.ID], student.ID)
	return nil
}

func (r *fakeGroupRepo) RemoveStudent(group *model.UserGroup, student *model.User) error {
	kept := group.Students[:0]
	for _, s := range group.Students {
		if s.ID != student.ID {
			kept = append(kept, s)
		}
	}
	group.Students = kept

	members := r.memberships[group.ID][:0]
	for _, id := range r.memberships[group.ID] {
		if id != student.ID {
			members = append(members, id)
		}
	}
	r.memberships[group.ID] = members
	return nil
}
