package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedforge_backend/internal/gamification"
)

const baseYaml = `
server:
  port: "8080"
  mode: debug
database:
  host: localhost
  port: 3306
  user: root
  password: root
  dbname: seedforge
  charset: utf8mb4
  parsetime: true
jwt:
  secret: test-secret
  expire_hours: 24
storage:
  type: minio
  minio_endpoint: localhost:9000
  minio_bucket: seedforge
redis:
  host: localhost
  port: 6379
  db: 0
gamification:
  level_bands:
    - { up_to_level: 5, gp_per_level: 100 }
    - { up_to_level: 0, gp_per_level: 200 }
  title_bands:
    - { up_to_level: 5, title: Seedling }
    - { up_to_level: 0, title: Keeper }
  streak_bonus_per_day: 0.005
  streak_bonus_cap: 0.4
  first_attempt_bonus: 20
  daily_activity_bonus: 10
  completion_bonus_rate: 0.2
  completion_bonus_min: 100
  completion_bonus_max: 300
  gp_per_seed: 5
  flower_max_minutes: 60
  bush_max_minutes: 180
  default_domain: general
  domains:
    - name: coding
      keywords: [code, python]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, baseYaml)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "seedforge", cfg.Database.DBName)
	assert.Equal(t, 20, cfg.Gamification.FirstAttemptBonus)

	rules := cfg.Gamification.EngineRules()
	require.NoError(t, rules.Validate())
	assert.Len(t, rules.LevelBands, 2)
	assert.Equal(t, gamification.LevelBand{UpToLevel: 5, GpPerLevel: 100}, rules.LevelBands[0])
	assert.Equal(t, "coding", rules.Domains[0].Domain)

	// 等级曲线能直接用这份规则构建引擎
	_, err = gamification.NewEngine(rules)
	assert.NoError(t, err)
}

// 规则表非法时启动必须失败，不能带着坏配置上线
func TestLoadConfigRejectsInvalidRules(t *testing.T) {
	viper.Reset()
	bad := baseYaml + "\n"
	bad = replaceLine(bad, "  gp_per_seed: 5", "  gp_per_seed: 0")
	dir := writeConfig(t, bad)

	_, err := LoadConfig(dir)
	assert.ErrorIs(t, err, gamification.ErrConfiguration)
}

func TestLoadConfigShortJWTSecretInRelease(t *testing.T) {
	viper.Reset()
	release := replaceLine(baseYaml, "  mode: debug", "  mode: release")
	dir := writeConfig(t, release)

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func replaceLine(content, before, after string) string {
	return strings.Replace(content, before, after, 1)
}
