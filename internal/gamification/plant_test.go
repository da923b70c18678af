package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlantTypeByDuration(t *testing.T) {
	c := NewClassifier(DefaultRules())

	assert.Equal(t, PlantFlower, c.PlantType(15))
	assert.Equal(t, PlantFlower, c.PlantType(59))
	// 边界：60 分钟已经不算短项目
	assert.Equal(t, PlantBush, c.PlantType(60))
	assert.Equal(t, PlantBush, c.PlantType(180))
	assert.Equal(t, PlantTree, c.PlantType(181))
	assert.Equal(t, PlantTree, c.PlantType(600))
}

func TestPlantDomain(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tests := []struct {
		intent string
		want   string
	}{
		{"Learn Python programming", "coding"},
		{"Build a REACT app for my portfolio", "coding"},
		{"design a poster for the school fair", "design"},
		{"I want to write a short novel", "writing"},
		{"Study the history of jazz", "science"},
		{"Understand plant ecology in my backyard", "science"},
		{"Make a sourdough starter", "general"},
		{"", "general"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.PlantDomain(tt.intent), "intent %q", tt.intent)
	}
}

// 多个领域同时命中时，领域表靠前的优先
func TestPlantDomainPriority(t *testing.T) {
	c := NewClassifier(DefaultRules())

	// "web" 命中 coding，"design" 命中 design，coding 在表里排前面
	assert.Equal(t, "coding", c.PlantDomain("design a web page"))
}

// 关键词按单词前缀匹配，不会命中单词中间的片段
func TestPlantDomainTokenMatching(t *testing.T) {
	c := NewClassifier(DefaultRules())

	// "writ" 是 "writing" 的前缀
	assert.Equal(t, "writing", c.PlantDomain("improve my writing habits"))
	// "app" 出现在 "happy" 中间，不应命中
	assert.Equal(t, "general", c.PlantDomain("learn to be happy"))
}

func TestStageRankMonotonic(t *testing.T) {
	assert.Less(t, stageRank(StagePlanted), stageRank(StageGrowing))
	assert.Less(t, stageRank(StageGrowing), stageRank(StageBlooming))
}
