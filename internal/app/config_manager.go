package app

import (
	"sync"

	"github.com/spf13/cast"
	"github.com/talkincode/motosync/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigManager caches sys_config rows for typed settings lookups.
type ConfigManager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]string
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	return &ConfigManager{
		db:    db,
		cache: make(map[string]string),
	}
}

// Reload refreshes the settings cache from the database.
func (m *ConfigManager) Reload() {
	var configs []domain.SysConfig
	if err := m.db.Find(&configs).Error; err != nil {
		zap.L().Error("failed to load sys_config", zap.Error(err))
		return
	}

	cache := make(map[string]string, len(configs))
	for _, cfg := range configs {
		cache[cfg.Type+"."+cfg.Name] = cfg.Value
	}

	m.mu.Lock()
	m.cache = cache
	m.mu.Unlock()
}

func (m *ConfigManager) get(category, name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache[category+"."+name]
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.get(category, name)
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.get(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.get(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.get(category, name))
}

// SetValue updates a setting and refreshes the cache entry.
func (m *ConfigManager) SetValue(category, name, value string) error {
	err := m.db.Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).
		Update("value", value).Error
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.cache[category+"."+name] = value
	m.mu.Unlock()
	return nil
}
