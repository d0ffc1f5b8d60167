package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/s-ko0401/training-system/internal/model"
)

// 测试用内存 Repository。
// 排序行为与真实 Repository 的 SQL 排序保持一致：
// 兄弟节点按 sort_order（缺省最后）+ 创建顺序。

var mockBaseTime = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.seq++
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	user.CreatedAt = mockBaseTime.Add(time.Duration(m.seq) * time.Second)
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CountStudentsByTrainingStatus(_ context.Context, status model.TrainingStatus) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.Role == model.RoleStudent && u.TrainingStatus == status {
			count++
		}
	}
	return count, nil
}

// ── 计划模板树共享存储 ──
//
// Plan/Section/Topic/Todo 四个 Mock 共享同一存储，
// GetTree 与级联删除才能跨层工作

type templateStore struct {
	plans    map[string]*model.Plan
	sections map[string]*model.PlanSection
	topics   map[string]*model.PlanTopic
	todos    map[string]*model.PlanTodo
	seq      int
}

func newTemplateStore() *templateStore {
	return &templateStore{
		plans:    make(map[string]*model.Plan),
		sections: make(map[string]*model.PlanSection),
		topics:   make(map[string]*model.PlanTopic),
		todos:    make(map[string]*model.PlanTodo),
	}
}

func (st *templateStore) nextCreatedAt() time.Time {
	st.seq++
	return mockBaseTime.Add(time.Duration(st.seq) * time.Second)
}

// sortSiblings 与 repository 的 siblingOrder 一致：
// sort_order 升序（缺省最后）→ 创建顺序
func sortSiblings[T any](items []T, sortOrder func(T) *int, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := sortOrder(items[i]), sortOrder(items[j])
		switch {
		case a == nil && b == nil:
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		}
		return createdAt(items[i]).Before(createdAt(items[j]))
	})
}

// ── Mock PlanRepository ──

type mockPlanRepo struct {
	store *templateStore
}

func (m *mockPlanRepo) Create(_ context.Context, plan *model.Plan) error {
	if plan.PlanID == "" {
		plan.PlanID = fmt.Sprintf("plan-%03d", m.store.seq+1)
	}
	plan.CreatedAt = m.store.nextCreatedAt()
	m.store.plans[plan.PlanID] = plan
	return nil
}

func (m *mockPlanRepo) GetByID(_ context.Context, id string) (*model.Plan, error) {
	if p, ok := m.store.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) GetTree(ctx context.Context, id string) (*model.Plan, error) {
	p, ok := m.store.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	tree := *p
	tree.Sections = nil
	for _, s := range m.store.sections {
		if s.PlanID != id {
			continue
		}
		section := *s
		section.Topics = nil
		for _, tp := range m.store.topics {
			if tp.SectionID != s.SectionID {
				continue
			}
			topic := *tp
			topic.Todos = nil
			for _, td := range m.store.todos {
				if td.TopicID == tp.TopicID {
					topic.Todos = append(topic.Todos, *td)
				}
			}
			sortSiblings(topic.Todos,
				func(t model.PlanTodo) *int { return t.SortOrder },
				func(t model.PlanTodo) time.Time { return t.CreatedAt })
			section.Topics = append(section.Topics, topic)
		}
		sortSiblings(section.Topics,
			func(t model.PlanTopic) *int { return t.SortOrder },
			func(t model.PlanTopic) time.Time { return t.CreatedAt })
		tree.Sections = append(tree.Sections, section)
	}
	sortSiblings(tree.Sections,
		func(s model.PlanSection) *int { return s.SortOrder },
		func(s model.PlanSection) time.Time { return s.CreatedAt })

	return &tree, nil
}

func (m *mockPlanRepo) List(_ context.Context) ([]model.Plan, error) {
	var result []model.Plan
	for _, p := range m.store.plans {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (m *mockPlanRepo) Update(_ context.Context, plan *model.Plan) error {
	m.store.plans[plan.PlanID] = plan
	return nil
}

func (m *mockPlanRepo) DeleteCascade(_ context.Context, id string) error {
	for sid, s := range m.store.sections {
		if s.PlanID != id {
			continue
		}
		for tid, tp := range m.store.topics {
			if tp.SectionID != sid {
				continue
			}
			for did, td := range m.store.todos {
				if td.TopicID == tid {
					delete(m.store.todos, did)
				}
			}
			delete(m.store.topics, tid)
		}
		delete(m.store.sections, sid)
	}
	delete(m.store.plans, id)
	return nil
}

// ── Mock SectionRepository ──

type mockSectionRepo struct {
	store *templateStore
}

func (m *mockSectionRepo) Create(_ context.Context, section *model.PlanSection) error {
	if section.SectionID == "" {
		section.SectionID = fmt.Sprintf("sec-%03d", m.store.seq+1)
	}
	section.CreatedAt = m.store.nextCreatedAt()
	m.store.sections[section.SectionID] = section
	return nil
}

func (m *mockSectionRepo) GetByID(_ context.Context, id string) (*model.PlanSection, error) {
	if s, ok := m.store.sections[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSectionRepo) ListByPlan(_ context.Context, planID string) ([]model.PlanSection, error) {
	var result []model.PlanSection
	for _, s := range m.store.sections {
		if s.PlanID == planID {
			result = append(result, *s)
		}
	}
	sortSiblings(result,
		func(s model.PlanSection) *int { return s.SortOrder },
		func(s model.PlanSection) time.Time { return s.CreatedAt })
	return result, nil
}

func (m *mockSectionRepo) Update(_ context.Context, section *model.PlanSection) error {
	m.store.sections[section.SectionID] = section
	return nil
}

func (m *mockSectionRepo) DeleteCascade(_ context.Context, id string) error {
	for tid, tp := range m.store.topics {
		if tp.SectionID != id {
			continue
		}
		for did, td := range m.store.todos {
			if td.TopicID == tid {
				delete(m.store.todos, did)
			}
		}
		delete(m.store.topics, tid)
	}
	delete(m.store.sections, id)
	return nil
}

// ── Mock TopicRepository ──

type mockTopicRepo struct {
	store *templateStore
}

func (m *mockTopicRepo) Create(_ context.Context, topic *model.PlanTopic) error {
	if topic.TopicID == "" {
		topic.TopicID = fmt.Sprintf("top-%03d", m.store.seq+1)
	}
	topic.CreatedAt = m.store.nextCreatedAt()
	m.store.topics[topic.TopicID] = topic
	return nil
}

func (m *mockTopicRepo) GetByID(_ context.Context, id string) (*model.PlanTopic, error) {
	if t, ok := m.store.topics[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTopicRepo) ListBySection(_ context.Context, sectionID string) ([]model.PlanTopic, error) {
	var result []model.PlanTopic
	for _, t := range m.store.topics {
		if t.SectionID == sectionID {
			result = append(result, *t)
		}
	}
	sortSiblings(result,
		func(t model.PlanTopic) *int { return t.SortOrder },
		func(t model.PlanTopic) time.Time { return t.CreatedAt })
	return result, nil
}

func (m *mockTopicRepo) Update(_ context.Context, topic *model.PlanTopic) error {
	m.store.topics[topic.TopicID] = topic
	return nil
}

func (m *mockTopicRepo) DeleteCascade(_ context.Context, id string) error {
	for did, td := range m.store.todos {
		if td.TopicID == id {
			delete(m.store.todos, did)
		}
	}
	delete(m.store.topics, id)
	return nil
}

// ── Mock TodoRepository ──

type mockTodoRepo struct {
	store *templateStore
}

func (m *mockTodoRepo) Create(_ context.Context, todo *model.PlanTodo) error {
	if todo.TodoID == "" {
		todo.TodoID = fmt.Sprintf("todo-%03d", m.store.seq+1)
	}
	todo.CreatedAt = m.store.nextCreatedAt()
	m.store.todos[todo.TodoID] = todo
	return nil
}

func (m *mockTodoRepo) GetByID(_ context.Context, id string) (*model.PlanTodo, error) {
	if t, ok := m.store.todos[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTodoRepo) ListByTopic(_ context.Context, topicID string) ([]model.PlanTodo, error) {
	var result []model.PlanTodo
	for _, t := range m.store.todos {
		if t.TopicID == topicID {
			result = append(result, *t)
		}
	}
	sortSiblings(result,
		func(t model.PlanTodo) *int { return t.SortOrder },
		func(t model.PlanTodo) time.Time { return t.CreatedAt })
	return result, nil
}

func (m *mockTodoRepo) Update(_ context.Context, todo *model.PlanTodo) error {
	m.store.todos[todo.TodoID] = todo
	return nil
}

func (m *mockTodoRepo) Delete(_ context.Context, id string) error {
	delete(m.store.todos, id)
	return nil
}

// ── 研修割当共享存储 ──

type trainingStore struct {
	plans map[string]*model.StudentTrainingPlan
	tasks map[string]*model.StudentTrainingTask
	seq   int
}

func newTrainingStore() *trainingStore {
	return &trainingStore{
		plans: make(map[string]*model.StudentTrainingPlan),
		tasks: make(map[string]*model.StudentTrainingTask),
	}
}

func (st *trainingStore) nextCreatedAt() time.Time {
	st.seq++
	return mockBaseTime.Add(time.Duration(st.seq) * time.Second)
}

// ── Mock TrainingPlanRepository ──

type mockTrainingPlanRepo struct {
	store *trainingStore
}

func (m *mockTrainingPlanRepo) Create(_ context.Context, plan *model.StudentTrainingPlan) error {
	if plan.TrainingPlanID == "" {
		plan.TrainingPlanID = fmt.Sprintf("tp-%03d", m.store.seq+1)
	}
	plan.CreatedAt = m.store.nextCreatedAt()
	m.store.plans[plan.TrainingPlanID] = plan
	return nil
}

func (m *mockTrainingPlanRepo) GetByID(_ context.Context, id string) (*model.StudentTrainingPlan, error) {
	if p, ok := m.store.plans[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrainingPlanRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.StudentTrainingPlan, error) {
	return m.GetByID(ctx, id)
}

func (m *mockTrainingPlanRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentTrainingPlan, error) {
	var result []model.StudentTrainingPlan
	for _, p := range m.store.plans {
		if p.StudentID == studentID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AssignedAt.Before(result[j].AssignedAt) })
	return result, nil
}

func (m *mockTrainingPlanRepo) Update(_ context.Context, plan *model.StudentTrainingPlan) error {
	m.store.plans[plan.TrainingPlanID] = plan
	return nil
}

func (m *mockTrainingPlanRepo) DeleteCascade(_ context.Context, id string) error {
	for tid, t := range m.store.tasks {
		if t.TrainingPlanID == id {
			delete(m.store.tasks, tid)
		}
	}
	delete(m.store.plans, id)
	return nil
}

// ── Mock TrainingTaskRepository ──

type mockTrainingTaskRepo struct {
	store *trainingStore
}

func (m *mockTrainingTaskRepo) CreateBatch(_ context.Context, tasks []model.StudentTrainingTask) error {
	for i := range tasks {
		if tasks[i].TaskID == "" {
			tasks[i].TaskID = fmt.Sprintf("task-%03d", m.store.seq+1)
		}
		tasks[i].CreatedAt = m.store.nextCreatedAt()
		t := tasks[i]
		m.store.tasks[t.TaskID] = &t
	}
	return nil
}

func (m *mockTrainingTaskRepo) GetByID(_ context.Context, id string) (*model.StudentTrainingTask, error) {
	if t, ok := m.store.tasks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTrainingTaskRepo) ListByPlan(_ context.Context, trainingPlanID string) ([]model.StudentTrainingTask, error) {
	var result []model.StudentTrainingTask
	for _, t := range m.store.tasks {
		if t.TrainingPlanID == trainingPlanID {
			result = append(result, *t)
		}
	}
	sortTasks(result)
	return result, nil
}

func (m *mockTrainingTaskRepo) ListByPlans(ctx context.Context, trainingPlanIDs []string) ([]model.StudentTrainingTask, error) {
	var result []model.StudentTrainingTask
	for _, id := range trainingPlanIDs {
		tasks, _ := m.ListByPlan(ctx, id)
		result = append(result, tasks...)
	}
	return result, nil
}

func (m *mockTrainingTaskRepo) Update(_ context.Context, task *model.StudentTrainingTask) error {
	m.store.tasks[task.TaskID] = task
	return nil
}
