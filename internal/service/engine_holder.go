package service

import (
	"sync/atomic"

	"go.uber.org/zap"

	"seedforge_backend/internal/config"
	"seedforge_backend/internal/gamification"
	"seedforge_backend/pkg/logger"
)

// EngineHolder 持有当前生效的奖励引擎，配置热更新时整体替换。
// 进行中的请求继续使用旧引擎算完，新请求拿到新规则
type EngineHolder struct {
	current atomic.Pointer[gamification.Engine]
}

func NewEngineHolder(engine *gamification.Engine) *EngineHolder {
	h := &EngineHolder{}
	h.current.Store(engine)
	return h
}

// Engine 返回当前引擎，调用方在单次请求内只取一次
func (h *EngineHolder) Engine() *gamification.Engine {
	return h.current.Load()
}

// Reload 用新配置重建引擎，规则非法时保留旧引擎继续服务
func (h *EngineHolder) Reload(cfg *config.Config) {
	engine, err := gamification.NewEngine(cfg.Gamification.EngineRules())
	if err != nil {
		logger.Log.Error("Engine rules reload rejected, keeping previous rules", zap.Error(err))
		return
	}
	h.current.Store(engine)
	logger.Log.Info("Engine rules reloaded")
}
