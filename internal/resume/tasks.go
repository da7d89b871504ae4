package resume

import "strings"

// ActionItem is one week of work toward a task
type ActionItem struct {
	Action   string `json:"action"`
	Hours    string `json:"hours"`
	Deadline string `json:"deadline"`
}

// TaskCategory classifies a task by the keywords in its name
type TaskCategory string

const (
	CategoryLearning TaskCategory = "learning"
	CategoryProject  TaskCategory = "project"
	CategoryReading  TaskCategory = "reading"
	CategoryPractice TaskCategory = "practice"
	CategoryGeneric  TaskCategory = "generic"
)

// checked in order, the first category with a matching keyword wins
var categoryKeywords = []struct {
	category TaskCategory
	keywords []string
}{
	{CategoryLearning, []string{"学习", "掌握", "了解", "课程", "learn"}},
	{CategoryProject, []string{"项目", "开发", "实现", "构建", "project", "build"}},
	{CategoryReading, []string{"阅读", "研读", "文档", "书籍", "read", "book"}},
	{CategoryPractice, []string{"练习", "刷题", "题目", "practice", "exercise"}},
}

// Categorize returns the category of a task name
func Categorize(taskName string) TaskCategory {
	lower := strings.ToLower(taskName)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return CategoryGeneric
}

// BreakDownTask splits a task into weekly action items sized to the weeks available
func BreakDownTask(taskName string, weeks int) []ActionItem {
	switch Categorize(taskName) {
	case CategoryLearning:
		switch {
		case weeks >= 3:
			return []ActionItem{
				{"📚 理论学习：观看课程前1/3内容，做笔记（每天1-2小时）", "7-10h", "本周五"},
				{"💻 实践练习：完成配套练习题，搭建基础环境", "8-12h", "下周三"},
				{"🔧 项目实战：参照教程完成1个小项目，理解核心概念", "10-15h", "第3周日"},
			}
		case weeks == 2:
			return []ActionItem{
				{"📚 集中学习：完整观看课程视频，整理核心知识点", "10-15h", "本周日"},
				{"💻 实战练习：完成至少3个练习案例，建立肌肉记忆", "8-12h", "下周日"},
			}
		default:
			return []ActionItem{
				{"⚡ 快速上手：观看核心章节，完成基础练习", "10-15h", "本周日"},
			}
		}

	case CategoryProject:
		switch {
		case weeks >= 3:
			return []ActionItem{
				{"📋 需求分析与设计：确定功能范围，画出架构图和流程图", "4-6h", "本周三"},
				{"🏗️ 核心功能开发：实现主要业务逻辑（MVP版本）", "12-16h", "第2周日"},
				{"✨ 完善与优化：添加边界处理、错误提示、UI优化", "8-10h", "第3周五"},
				{"📝 文档与部署：编写README、测试文档，部署上线", "4-6h", "第3周日"},
			}
		case weeks == 2:
			return []ActionItem{
				{"📋 设计与搭建：确定技术栈，搭建项目框架", "6-8h", "本周五"},
				{"🏗️ 功能实现：完成核心功能开发和基础测试", "12-15h", "下周日"},
			}
		default:
			return []ActionItem{
				{"⚡ 快速搭建：参考现有项目，实现核心demo", "10-12h", "本周日"},
			}
		}

	case CategoryReading:
		if weeks >= 2 {
			return []ActionItem{
				{"📖 通读全书：每天30-60分钟，完成第一遍阅读", "8-10h", "第1周日"},
				{"✍️ 精读与笔记：重点章节做详细笔记，整理思维导图", "6-8h", "第2周日"},
			}
		}
		return []ActionItem{
			{"📖 重点阅读：聚焦核心章节，提炼关键知识点", "8-10h", "本周日"},
		}

	case CategoryPractice:
		return []ActionItem{
			{"🎯 基础题（Easy）：每天2-3题，熟悉基本概念", "5-7h", "本周日"},
			{"🎯 进阶题（Medium）：每天1-2题，提升解题能力", "6-8h", "下周日"},
		}
	}

	if weeks >= 2 {
		return []ActionItem{
			{"🚀 启动阶段：" + taskName + " - 准备工作和基础搭建", "6-8h", "本周日"},
			{"⚡ 执行阶段：" + taskName + " - 核心工作完成", "8-12h", "下周日"},
		}
	}
	return []ActionItem{
		{"⚡ " + taskName + " - 集中完成", "10-15h", "本周日"},
	}
}

// WeeklyItem is an action item scheduled into a plan week
type WeeklyItem struct {
	Week      int
	PhaseName string
	TaskName  string
	First     bool
	ActionItem
}

// Schedule lays the action items of every task onto plan weeks. Items that would
// fall past the end of their phase are dropped.
func (g *GrowthPlan) Schedule() []WeeklyItem {
	var items []WeeklyItem
	per := g.WeeksPerPhase()

	for i, phase := range g.Phases {
		start, end := g.PhaseWeeks(i)
		for _, task := range phase.Tasks {
			label := task.Label()
			if isBlank(label) {
				continue
			}
			for offset, action := range BreakDownTask(label, per) {
				week := start + offset
				if week > end {
					break
				}
				items = append(items, WeeklyItem{
					Week:       week,
					PhaseName:  phase.Name(),
					TaskName:   label,
					First:      offset == 0,
					ActionItem: action,
				})
			}
		}
	}
	return items
}
