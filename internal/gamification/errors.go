package gamification

import "errors"

var (
	// ErrStepNotFound 步骤不属于传入的快照
	ErrStepNotFound = errors.New("step not found")
	// ErrStepNotCompletable 步骤当前不可完成（已完成或仍处于锁定状态）。
	// 这个错误保护"不重复发奖"不被并发调用打破，拿到它之后必须重新读取状态，
	// 直接重试是不安全的
	ErrStepNotCompletable = errors.New("step is not completable in its current state")
)
