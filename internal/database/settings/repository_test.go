package settings

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/wooauto/internal/entities"
	"github.com/mrlokans/wooauto/internal/logging"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "settings.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logging.NewGormLogger(zaptest.NewLogger(t), logger.Warn),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Setting{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepository(db)
}

func TestRepository_SetSetting_New(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.SetSetting("language", "zh")
	require.NoError(t, err)

	setting, err := repo.GetSetting("language")
	require.NoError(t, err)
	assert.Equal(t, "language", setting.Key)
	assert.Equal(t, "zh", setting.Value)
}

func TestRepository_SetSetting_Update(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting("polling_interval", "60"))
	first, err := repo.GetSetting("polling_interval")
	require.NoError(t, err)

	require.NoError(t, repo.SetSetting("polling_interval", "30"))

	setting, err := repo.GetSetting("polling_interval")
	require.NoError(t, err)
	assert.Equal(t, "30", setting.Value)
	assert.Equal(t, first.ID, setting.ID, "update must not create a second row")

	all, err := repo.ListSettings()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_SetSetting_EmptyValue(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting("api_key", ""))

	setting, err := repo.GetSetting("api_key")
	require.NoError(t, err)
	assert.Equal(t, "", setting.Value)
}

func TestRepository_GetSetting_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	setting, err := repo.GetSetting("nonexistent")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, setting)
}

func TestRepository_SetSettings(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.SetSettings(map[string]string{
		"api_key":    "ck_123",
		"api_secret": "cs_456",
	})
	require.NoError(t, err)

	all, err := repo.ListSettings()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "api_key", all[0].Key)
	assert.Equal(t, "api_secret", all[1].Key)
}

func TestRepository_DeleteSetting(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting("language", "zh"))
	require.NoError(t, repo.DeleteSetting("language"))

	_, err := repo.GetSetting("language")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, repo.DeleteSetting("language"), "deleting a missing key is a no-op")
}

func TestRepository_ConcurrentWrites(t *testing.T) {
	repo := setupTestDB(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.SetSetting("language", "en"))
		}()
	}
	wg.Wait()

	all, err := repo.ListSettings()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
