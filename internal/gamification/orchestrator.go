package gamification

// ProfileSnapshot 学习者档案的不可变快照
type ProfileSnapshot struct {
	TotalGp               int
	Level                 int
	CurrentStreak         int
	LongestStreak         int
	LastActiveDate        string // DateFormat 格式，空串表示从未活跃
	TotalSeeds            int
	CompletedProjectCount int
}

// ProjectSnapshot 项目的不可变快照
type ProjectSnapshot struct {
	ID               string
	Status           ProjectStatus
	GpEarned         int
	EstimatedMinutes int
	LearningIntent   string
}

// PlantSnapshot 花园植物的不可变快照，Exists 为 false 表示该项目还没有植物
type PlantSnapshot struct {
	Exists      bool
	PlantType   PlantType
	Domain      string
	GrowthStage GrowthStage
}

// Snapshot 一次推进操作需要的全部当前状态，由持久化层加载
type Snapshot struct {
	Profile ProfileSnapshot
	Project ProjectSnapshot
	Steps   []StepSnapshot
	Plant   PlantSnapshot
}

// AdvanceInput 推进操作的入参。Today 由调用方传入以保持计算可复现
type AdvanceInput struct {
	CompletedStepID string
	IsFirstAttempt  bool
	Feedback        string
	Today           string
}

// Outcome 推进操作计算出的下一个一致状态。调用方负责把它作为一个原子单元落库，
// 不允许出现部分写入可见的中间态
type Outcome struct {
	Profile ProfileSnapshot
	Project ProjectSnapshot
	Steps   []StepSnapshot
	Plant   PlantSnapshot

	PlantCreated      bool
	NextStepID        string
	IsProjectComplete bool

	GpAwarded       int // 本次步骤入账的 GP，含当日活跃奖励
	Breakdown       GpBreakdown
	CompletionBonus int // 项目完成奖励，未完成时为 0
	SeedsEarned     int
	Streak          StreakUpdate
	LeveledUp       bool

	Events []Event
}

// AdvanceStep 推进引擎的唯一入口：完成一个步骤，计算 GP、连续天数、等级、
// 植物生长和通知事件。纯计算，不触碰持久化。
// 后面的计算依赖前面的结果，顺序不能调换
func (e *Engine) AdvanceStep(snap Snapshot, in AdvanceInput) (*Outcome, error) {
	// 1. 步骤状态机推进
	stepResult, err := CompleteStep(snap.Steps, in.CompletedStepID)
	if err != nil {
		return nil, err
	}

	var completedStep StepSnapshot
	for _, s := range snap.Steps {
		if s.ID == in.CompletedStepID {
			completedStep = s
			break
		}
	}

	// 2. 步骤 GP，倍率用的是更新前的连续天数
	stepGp, breakdown := e.StepGp(completedStep.GpValue, snap.Profile.CurrentStreak, in.IsFirstAttempt)

	// 3. 连续天数更新，当天首次活跃追加固定奖励
	streak := UpdateStreak(snap.Profile.LastActiveDate, snap.Profile.CurrentStreak, snap.Profile.LongestStreak, in.Today)
	gpAwarded := stepGp
	if streak.IsNewDay {
		gpAwarded += e.rules.DailyActivityBonus
	}

	// 4. 档案总 GP 与等级
	newTotalGp := snap.Profile.TotalGp + gpAwarded
	newLevel := e.curve.LevelFromTotalGp(newTotalGp)

	// 5. 项目累计 GP
	projectGp := snap.Project.GpEarned + gpAwarded

	// 6. 花园植物副作用
	plantType := e.classifier.PlantType(snap.Project.EstimatedMinutes)
	domain := e.classifier.PlantDomain(snap.Project.LearningIntent)

	plant := snap.Plant
	plantCreated := false
	switch {
	case completedStep.OrderIndex == 0 && !plant.Exists:
		// 第一步完成，播种
		plant = PlantSnapshot{Exists: true, PlantType: plantType, Domain: domain, GrowthStage: StagePlanted}
		plantCreated = true
	case plant.Exists && !stepResult.IsProjectComplete:
		// 项目进行到一半，从 planted 进入 growing
		halfway := completedCount(stepResult.Steps) >= (len(stepResult.Steps)+1)/2
		if halfway && plant.GrowthStage == StagePlanted {
			plant.GrowthStage = StageGrowing
		}
	}

	// 7. 项目完成：发完成奖励并重算等级，植物直接开花
	completionBonus := 0
	project := snap.Project
	profile := snap.Profile
	if stepResult.IsProjectComplete {
		completionBonus = e.ProjectCompletionBonus(projectGp)
		newTotalGp += completionBonus
		newLevel = e.curve.LevelFromTotalGp(newTotalGp)
		projectGp += completionBonus

		project.Status = ProjectCompleted
		profile.CompletedProjectCount++

		if !plant.Exists {
			// 单步项目此前没有播种机会，直接以开花状态补种
			plant = PlantSnapshot{Exists: true, PlantType: plantType, Domain: domain, GrowthStage: StageBlooming}
			plantCreated = true
		} else if stageRank(StageBlooming) > stageRank(plant.GrowthStage) {
			plant.GrowthStage = StageBlooming
		}
	} else if project.Status == ProjectDraft {
		project.Status = ProjectActive
	}

	seedsEarned := e.SeedsFromGp(gpAwarded) + e.SeedsFromGp(completionBonus)
	leveledUp := newLevel > snap.Profile.Level

	profile.TotalGp = newTotalGp
	profile.Level = newLevel
	profile.CurrentStreak = streak.NewStreak
	profile.LongestStreak = streak.NewLongest
	profile.LastActiveDate = in.Today
	profile.TotalSeeds += seedsEarned
	project.GpEarned = projectGp

	// 8. 事件按固定顺序下发
	events := []Event{{
		Type: EventStepAdvanced,
		Data: StepAdvancedData{
			CompletedStepID:   in.CompletedStepID,
			NextStepID:        stepResult.NextStepID,
			Feedback:          in.Feedback,
			GpAwarded:         stepGp,
			Breakdown:         breakdown,
			IsProjectComplete: stepResult.IsProjectComplete,
		},
	}}
	if stepResult.IsProjectComplete {
		events = append(events, Event{
			Type: EventProjectComplete,
			Data: ProjectCompleteData{
				Feedback:        in.Feedback,
				TotalGpEarned:   projectGp,
				CompletionBonus: completionBonus,
				PlantType:       plant.PlantType,
			},
		})
	}
	events = append(events, Event{
		Type: EventGpAwarded,
		Data: GpAwardedData{
			Amount:    gpAwarded,
			Reason:    "Completed: " + completedStep.Title,
			NewTotal:  newTotalGp,
			NewLevel:  newLevel,
			LeveledUp: leveledUp,
		},
	})

	return &Outcome{
		Profile:           profile,
		Project:           project,
		Steps:             stepResult.Steps,
		Plant:             plant,
		PlantCreated:      plantCreated,
		NextStepID:        stepResult.NextStepID,
		IsProjectComplete: stepResult.IsProjectComplete,
		GpAwarded:         gpAwarded,
		Breakdown:         breakdown,
		CompletionBonus:   completionBonus,
		SeedsEarned:       seedsEarned,
		Streak:            streak,
		LeveledUp:         leveledUp,
		Events:            events,
	}, nil
}
