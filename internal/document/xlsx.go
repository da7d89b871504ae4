package document

import (
	"context"
	"fmt"
	"time"

	"github.com/Y1fe1-Yang/resume-assistant-skill/internal/resume"
	"github.com/xuri/excelize/v2"
)

// Growth tracker sheet names
const (
	SheetOverview  = "Overview"
	SheetWeekly    = "Weekly Tasks"
	SheetMilestone = "Milestones"
	SheetResources = "Resources"
)

const (
	statusTodo         = "☐ 未完成"
	statusNotReached   = "☐ 未达成"
	currentMatchRating = "0/10"
	targetMatchRating  = "8/10"
	resourcePriority   = "高"
)

var (
	weeklyHeaders    = []interface{}{"周次", "阶段", "主任务", "具体行动项", "预计工时", "截止日期", "完成状态", "实际用时", "备注"}
	milestoneHeaders = []interface{}{"时间点", "里程碑", "检验标准", "达成状态", "实际日期"}
	resourceHeaders  = []interface{}{"阶段", "任务", "资源名称", "类型", "优先级"}

	weeklyInstructions = []string{
		"使用说明：",
		`1. 每天完成具体行动项后，在"完成状态"列改为 ✓ 已完成，并记录实际用时`,
		`2. 在"备注"列记录学习要点、遇到的问题、解决方案`,
		"3. 预计工时仅供参考，根据实际情况调整",
		"4. 建议每周日回顾本周进度，规划下周任务",
	}
)

// XLSXBuilder renders a growth plan into a tracking workbook.
type XLSXBuilder struct {
	// Now supplies the plan start date; time.Now when nil
	Now func() time.Time
}

// Build renders the Overview, Weekly Tasks, Milestones and Resources sheets.
func (b XLSXBuilder) Build(ctx context.Context, plan *resume.GrowthPlan) ([]byte, error) {
	if plan == nil {
		return nil, NewError(KindValidation, "xlsx tracker requires a growth plan", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	styles, err := buildTrackerStyles(file)
	if err != nil {
		return nil, NewError(KindInternal, "failed to create xlsx styles", err)
	}

	defaultSheet := file.GetSheetName(0)
	file.SetSheetName(defaultSheet, SheetOverview)
	for _, name := range []string{SheetWeekly, SheetMilestone, SheetResources} {
		if _, err := file.NewSheet(name); err != nil {
			return nil, NewError(KindInternal, fmt.Sprintf("failed to create sheet %s", name), err)
		}
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	writers := []func(*excelize.File, *trackerStyles, *resume.GrowthPlan) error{
		func(f *excelize.File, s *trackerStyles, p *resume.GrowthPlan) error {
			return writeOverview(f, s, p, now())
		},
		writeWeeklyTasks,
		writeMilestones,
		writeResources,
	}
	for _, write := range writers {
		if err := write(file, styles, plan); err != nil {
			return nil, NewError(KindInternal, "failed to write growth tracker", err)
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, NewError(KindInternal, "failed to encode xlsx", err)
	}
	return buf.Bytes(), nil
}

type trackerStyles struct {
	title     int
	label     int
	weekly    int
	milestone int
	resource  int
	phase     int
	task      int
	bordered  int
}

func buildTrackerStyles(file *excelize.File) (*trackerStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	header := func(fill string, white bool) *excelize.Style {
		font := &excelize.Font{Bold: true}
		if white {
			font.Color = "FFFFFF"
		}
		return &excelize.Style{
			Font:      font,
			Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
			Alignment: center,
			Border:    border,
		}
	}

	s := &trackerStyles{}
	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&s.label, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}},
		{&s.weekly, header("4472C4", true)},
		{&s.milestone, header("70AD47", true)},
		{&s.resource, header("FFC000", false)},
		{&s.phase, &excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1}, Border: border}},
		{&s.task, &excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{"E7E6E6"}, Pattern: 1}, Border: border}},
		{&s.bordered, &excelize.Style{Border: border}},
	}
	for _, def := range defs {
		id, err := file.NewStyle(def.style)
		if err != nil {
			return nil, err
		}
		*def.id = id
	}
	return s, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func setRow(file *excelize.File, sheet string, row int, values []interface{}, styleID int) error {
	if err := file.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
		return err
	}
	if styleID == 0 {
		return nil
	}
	return file.SetCellStyle(sheet, cellName(1, row), cellName(len(values), row), styleID)
}

func setWidths(file *excelize.File, sheet string, widths ...float64) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := file.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func writeOverview(file *excelize.File, styles *trackerStyles, plan *resume.GrowthPlan, start time.Time) error {
	sheet := SheetOverview

	if err := file.SetCellValue(sheet, "A1", "能力提升计划 - 总览"); err != nil {
		return err
	}
	if err := file.SetCellStyle(sheet, "A1", "A1", styles.title); err != nil {
		return err
	}
	if err := file.MergeCell(sheet, "A1", "E1"); err != nil {
		return err
	}

	rows := []struct {
		row   int
		label string
		value string
	}{
		{3, "目标职位", plan.TargetPosition},
		{4, "计划时长", fmt.Sprintf("%d 周", plan.Weeks())},
		{5, "开始日期", start.Format("2006-01-02")},
		{7, "当前匹配度", currentMatchRating},
		{8, "目标匹配度", targetMatchRating},
		{10, "阶段规划", ""},
	}
	for _, r := range rows {
		values := []interface{}{r.label}
		if r.value != "" {
			values = append(values, r.value)
		}
		if err := setRow(file, sheet, r.row, values, 0); err != nil {
			return err
		}
		if err := file.SetCellStyle(sheet, cellName(1, r.row), cellName(1, r.row), styles.label); err != nil {
			return err
		}
	}

	row := 11
	for i, phase := range plan.Phases {
		first, last := plan.PhaseWeeks(i)
		values := []interface{}{
			fmt.Sprintf("阶段%d", i+1),
			phase.Name(),
			fmt.Sprintf("第%d-%d周", first, last),
		}
		if err := setRow(file, sheet, row, values, 0); err != nil {
			return err
		}
		row++
	}

	return setWidths(file, sheet, 15, 40, 15)
}

func writeWeeklyTasks(file *excelize.File, styles *trackerStyles, plan *resume.GrowthPlan) error {
	sheet := SheetWeekly

	if err := setRow(file, sheet, 1, weeklyHeaders, styles.weekly); err != nil {
		return err
	}

	row := 2
	for i, item := range plan.Schedule() {
		if item.First && i > 0 {
			// blank line between tasks
			row++
		}

		phaseName, taskName := "", ""
		if item.First {
			phaseName, taskName = item.PhaseName, item.TaskName
		}
		values := []interface{}{
			fmt.Sprintf("第%d周", item.Week),
			phaseName,
			taskName,
			item.Action,
			item.Hours,
			item.Deadline,
			statusTodo,
			"",
			"",
		}
		if err := setRow(file, sheet, row, values, styles.bordered); err != nil {
			return err
		}
		if item.First {
			if err := file.SetCellStyle(sheet, cellName(2, row), cellName(2, row), styles.phase); err != nil {
				return err
			}
			if err := file.SetCellStyle(sheet, cellName(3, row), cellName(3, row), styles.task); err != nil {
				return err
			}
		}
		row++
	}

	row += 3
	for i, line := range weeklyInstructions {
		if err := file.SetCellValue(sheet, cellName(1, row), line); err != nil {
			return err
		}
		if i == 0 {
			if err := file.SetCellStyle(sheet, cellName(1, row), cellName(1, row), styles.label); err != nil {
				return err
			}
		}
		row++
	}

	return setWidths(file, sheet, 10, 18, 30, 45, 10, 12, 12, 10, 30)
}

func writeMilestones(file *excelize.File, styles *trackerStyles, plan *resume.GrowthPlan) error {
	sheet := SheetMilestone

	if err := setRow(file, sheet, 1, milestoneHeaders, styles.milestone); err != nil {
		return err
	}

	row := 2
	for i, phase := range plan.Phases {
		if phase.Milestone == "" {
			continue
		}
		_, week := plan.PhaseWeeks(i)
		values := []interface{}{
			fmt.Sprintf("第%d周", week),
			phase.Name(),
			phase.Milestone,
			statusNotReached,
			"",
		}
		if err := setRow(file, sheet, row, values, styles.bordered); err != nil {
			return err
		}
		row++
	}

	return setWidths(file, sheet, 12, 30, 50, 12, 15)
}

func writeResources(file *excelize.File, styles *trackerStyles, plan *resume.GrowthPlan) error {
	sheet := SheetResources

	if err := setRow(file, sheet, 1, resourceHeaders, styles.resource); err != nil {
		return err
	}

	row := 2
	for _, phase := range plan.Phases {
		for _, task := range phase.Tasks {
			for _, res := range task.Resources {
				values := []interface{}{
					phase.Name(),
					task.Label(),
					res,
					resume.ResourceType(res),
					resourcePriority,
				}
				if err := setRow(file, sheet, row, values, styles.bordered); err != nil {
					return err
				}
				row++
			}
		}
	}

	return setWidths(file, sheet, 20, 50, 50, 12, 10)
}
