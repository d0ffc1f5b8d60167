package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/s-ko0401/training-system/config"
	"github.com/s-ko0401/training-system/internal/model"
	"github.com/s-ko0401/training-system/internal/repository"
	"github.com/s-ko0401/training-system/pkg/businessday"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoPlans      = errors.New("该研修生暂无割当计划")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 进捗报告导出为 Excel (.xlsx)：每个割当计划一个 Sheet，任务按展示顺序排列
//   - 研修日程导出为 iCalendar (.ics)：有 day_index 的任务生成全天事件，
//     事件日期 = 研修开始日起第 N 个营业日（跳过周六日与祝日）
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportStudentProgress 导出研修生进捗报告为 Excel
	ExportStudentProgress(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
	// ExportStudentCalendar 导出研修生任务日程为 iCalendar
	ExportStudentCalendar(ctx context.Context, studentID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportStudentProgress — 导出进捗报告为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 每个割当计划一个 Sheet（Sheet 名 = 计划名，重名时追加序号）
//   - 表头: | 大項目 | 小項目 | TODO | 研修日 | ステータス | 進捗メモ | 完了日 |
//   - 末行：完了率汇总

func (s *exportService) ExportStudentProgress(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	student, plans, err := s.loadStudentPlans(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	usedNames := make(map[string]int)
	for pi := range plans {
		plan := &plans[pi]
		tasks, err := s.repo.TrainingTask.ListByPlan(ctx, plan.TrainingPlanID)
		if err != nil {
			s.logger.Error("列出研修任务失败", zap.String("training_plan_id", plan.TrainingPlanID), zap.Error(err))
			return nil, "", err
		}
		sortTasks(tasks)

		sheetName := sheetNameFor(plan.PlanName, usedNames)
		idx, err := f.NewSheet(sheetName)
		if err != nil {
			s.logger.Error("创建 Sheet 失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		if pi == 0 {
			f.SetActiveSheet(idx)
		}

		f.SetColWidth(sheetName, "A", "C", 24)
		f.SetColWidth(sheetName, "D", "E", 12)
		f.SetColWidth(sheetName, "F", "F", 32)
		f.SetColWidth(sheetName, "G", "G", 14)

		headers := []string{"大項目", "小項目", "TODO", "研修日", "ステータス", "進捗メモ", "完了日"}
		for i, h := range headers {
			f.SetCellValue(sheetName, cell(colName(i), 1), h)
		}
		f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

		row := 2
		for i := range tasks {
			t := &tasks[i]
			f.SetCellValue(sheetName, cell("A", row), derefOr(t.SectionName, unclassifiedSection))
			f.SetCellValue(sheetName, cell("B", row), derefOr(t.TopicName, "-"))
			f.SetCellValue(sheetName, cell("C", row), t.TodoName)
			if t.DayIndex != nil {
				f.SetCellValue(sheetName, cell("D", row), *t.DayIndex)
			} else {
				f.SetCellValue(sheetName, cell("D", row), "-")
			}
			f.SetCellValue(sheetName, cell("E", row), string(t.Status))
			f.SetCellValue(sheetName, cell("F", row), derefOr(t.ProgressNote, ""))
			if t.CompletedAt != nil {
				f.SetCellValue(sheetName, cell("G", row), t.CompletedAt.Format("2006-01-02"))
			}
			row++
		}

		// 完了率汇总行
		f.SetCellValue(sheetName, cell("A", row+1), "完了率")
		f.SetCellValue(sheetName, cell("B", row+1), fmt.Sprintf("%d%%", TaskCompletion(tasks)))
	}

	f.DeleteSheet("Sheet1")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("研修進捗_%s.xlsx", student.Name)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportStudentCalendar — 导出任务日程为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 事件日期推算：
//   - 基准日 = 研修生的研修开始日（未设定时回退到割当日）
//   - 第 N 研修日 = 基准日前一天起第 N 个营业日（基准日为营业日时第 1 日即基准日）
//   - day_index 未设定的任务不生成事件

func (s *exportService) ExportStudentCalendar(ctx context.Context, studentID string) (*bytes.Buffer, string, error) {
	student, plans, err := s.loadStudentPlans(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	holidays := businessday.NewHolidaySet(s.cfg.Training.Holidays)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(fmt.Sprintf("研修日程 — %s", student.Name))

	now := time.Now()
	for pi := range plans {
		plan := &plans[pi]
		tasks, err := s.repo.TrainingTask.ListByPlan(ctx, plan.TrainingPlanID)
		if err != nil {
			s.logger.Error("列出研修任务失败", zap.String("training_plan_id", plan.TrainingPlanID), zap.Error(err))
			return nil, "", err
		}

		base := plan.AssignedAt
		if student.TrainingStartDate != nil {
			base = *student.TrainingStartDate
		}
		// 前一天起步，让基准日本身能算作第 1 营业日
		base = base.AddDate(0, 0, -1)

		for i := range tasks {
			t := &tasks[i]
			if t.DayIndex == nil || *t.DayIndex <= 0 {
				continue
			}
			date, err := businessday.AddBusinessDays(base, *t.DayIndex, holidays)
			if err != nil {
				return nil, "", err
			}

			event := cal.AddEvent(t.TaskID)
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetAllDayStartAt(date)
			event.SetAllDayEndAt(date.AddDate(0, 0, 1))
			event.SetSummary(t.TodoName)
			event.SetDescription(fmt.Sprintf("%s / %s / %s",
				plan.PlanName,
				derefOr(t.SectionName, unclassifiedSection),
				derefOr(t.TopicName, "-")))
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("研修日程_%s.ics", student.Name)
	return buf, filename, nil
}

// ── 内部辅助方法 ──

func (s *exportService) loadStudentPlans(ctx context.Context, studentID string) (*model.User, []model.StudentTrainingPlan, error) {
	student, err := s.repo.User.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		s.logger.Error("查询研修生失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, nil, err
	}

	plans, err := s.repo.TrainingPlan.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("列出研修割当失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, nil, err
	}
	if len(plans) == 0 {
		return nil, nil, ErrExportNoPlans
	}
	return student, plans, nil
}

// sheetNameFor 计划名转 Sheet 名：超长截断、重名追加序号
func sheetNameFor(planName string, used map[string]int) string {
	name := planName
	if runes := []rune(name); len(runes) > 28 {
		name = string(runes[:28])
	}
	used[name]++
	if used[name] > 1 {
		name = fmt.Sprintf("%s(%d)", name, used[name])
	}
	return name
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
