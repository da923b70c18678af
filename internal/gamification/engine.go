package gamification

// Engine 项目推进与奖励计算引擎。除 AdvanceStep 的返回值外不产生任何副作用，
// 持久化由调用方负责，因此可以被任意多个请求并发使用
type Engine struct {
	rules      Rules
	curve      *Curve
	classifier *Classifier
}

// NewEngine 校验规则表并构建引擎，规则非法时返回 ErrConfiguration
func NewEngine(rules Rules) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		rules:      rules,
		curve:      NewCurve(rules.LevelBands, rules.TitleBands),
		classifier: NewClassifier(rules),
	}, nil
}

// Rules 返回引擎当前使用的规则表
func (e *Engine) Rules() Rules {
	return e.rules
}

// Curve 返回等级曲线，供展示层换算称号和进度
func (e *Engine) Curve() *Curve {
	return e.curve
}

// Classifier 返回植物分类器
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}
