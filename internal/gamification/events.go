package gamification

// EventType 通知事件类型，顺序和字段与前端约定一致
type EventType string

const (
	EventStepAdvanced    EventType = "step-advanced"
	EventProjectComplete EventType = "project-complete"
	EventGpAwarded       EventType = "gp-awarded"
)

// Event 推进操作产生的通知事件。引擎把事件作为有序列表返回，
// 由调用方决定怎么投递，不依赖任何全局订阅者
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// StepAdvancedData 步骤推进事件的负载
type StepAdvancedData struct {
	CompletedStepID   string      `json:"completedStepId"`
	NextStepID        string      `json:"newStepId,omitempty"`
	Feedback          string      `json:"feedback"`
	GpAwarded         int         `json:"gpAwarded"`
	Breakdown         GpBreakdown `json:"breakdown"`
	IsProjectComplete bool        `json:"isProjectComplete"`
}

// ProjectCompleteData 项目完成事件的负载
type ProjectCompleteData struct {
	Feedback        string    `json:"feedback"`
	TotalGpEarned   int       `json:"totalGpEarned"`
	CompletionBonus int       `json:"completionBonus"`
	PlantType       PlantType `json:"plantType"`
}

// GpAwardedData GP 入账事件的负载，数值反映完成奖励之后的最终状态
type GpAwardedData struct {
	Amount    int    `json:"amount"`
	Reason    string `json:"reason"`
	NewTotal  int    `json:"newTotal"`
	NewLevel  int    `json:"newLevel"`
	LeveledUp bool   `json:"leveledUp"`
}
