package service

import (
	"math"
	"sort"

	"github.com/s-ko0401/training-system/internal/model"
)

// 进捗汇总为纯读取时计算，不落库缓存。
// 输入均为已加载的任务切片；分组保持输入顺序（稳定分区），
// 因此调用方需先经 sortTasks 排好展示顺序。

// unclassifiedSection 无大项目任务的归属桶
const unclassifiedSection = "未分類"

// TaskCompletion 计算完了率：round(100 * 完了数 / 总数)，空集合为 0
func TaskCompletion(tasks []model.StudentTrainingTask) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == model.TaskStatusDone {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(tasks)) * 100))
}

// SectionGroup 按大项目分组的任务集合
type SectionGroup struct {
	Name      string
	SortOrder *int
	Tasks     []model.StudentTrainingTask
}

// GroupBySection 按大项目名分区，保持首次出现顺序
// 无大项目的任务归入 未分類 桶
func GroupBySection(tasks []model.StudentTrainingTask) []SectionGroup {
	index := make(map[string]int)
	var groups []SectionGroup

	for _, t := range tasks {
		name := unclassifiedSection
		if t.SectionName != nil && *t.SectionName != "" {
			name = *t.SectionName
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, SectionGroup{Name: name, SortOrder: t.SectionSortOrder})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}

	return groups
}

// DayGroup 按研修日分组的任务集合（Day 0 为未排日程桶）
type DayGroup struct {
	Day   int
	Tasks []model.StudentTrainingTask
}

// GroupByDay 按 day_index 分区并按天升序排列
// day_index 未设定的任务落入第 0 天桶；天内保持输入顺序
func GroupByDay(tasks []model.StudentTrainingTask) []DayGroup {
	buckets := make(map[int][]model.StudentTrainingTask)
	for _, t := range tasks {
		day := 0
		if t.DayIndex != nil {
			day = *t.DayIndex
		}
		buckets[day] = append(buckets[day], t)
	}

	days := make([]int, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Ints(days)

	groups := make([]DayGroup, 0, len(days))
	for _, day := range days {
		groups = append(groups, DayGroup{Day: day, Tasks: buckets[day]})
	}
	return groups
}

// CrossPlanSections 跨割当计划的大项目汇总：
// 展平后的任务按大项目名分区，组间按 section_sort_order 升序（缺省最后），
// 同序时保持首次出现顺序
func CrossPlanSections(tasks []model.StudentTrainingTask) []SectionGroup {
	groups := GroupBySection(tasks)

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].SortOrder, groups[j].SortOrder
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	return groups
}

// sortTasks 任务展示顺序的内存排序（与 repository 的 taskOrder 一致）：
// 研修日（未排视为 0）→ 大项目序 → 小项目序 → 同日内次序 → 创建顺序
func sortTasks(tasks []model.StudentTrainingTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := &tasks[i], &tasks[j]

		if da, db := coalesceDay(a.DayIndex), coalesceDay(b.DayIndex); da != db {
			return da < db
		}
		if c := compareOrder(a.SectionSortOrder, b.SectionSortOrder); c != 0 {
			return c < 0
		}
		if c := compareOrder(a.TopicSortOrder, b.TopicSortOrder); c != 0 {
			return c < 0
		}
		if c := compareOrder(a.SortOrder, b.SortOrder); c != 0 {
			return c < 0
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func coalesceDay(day *int) int {
	if day == nil {
		return 0
	}
	return *day
}

// compareOrder 比较可缺省的排序值：缺省排最后
func compareOrder(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}
