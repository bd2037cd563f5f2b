package orm

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/abiosoft/lineprefix"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/pescuma/hlaipf/lib/consoles"
	"github.com/pescuma/hlaipf/lib/locator"
	"github.com/pescuma/hlaipf/lib/storages"
	"github.com/pescuma/hlaipf/lib/utils"
)

type gormCache struct {
	mutex   sync.Mutex
	db      *gorm.DB
	console consoles.Console
}

func NewGormCache(d gorm.Dialector, console consoles.Console) (storages.ResultCache, error) {
	db, err := gorm.Open(d, &gorm.Config{
		NamingStrategy: &NamingStrategy{},
		Logger:         newGormLogger(os.Stderr, console),
	})
	if err != nil {
		return nil, err
	}

	// sqlite only supports one writer, and each :memory: connection is a new database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&sqlLocateResult{})
	if err != nil {
		return nil, err
	}

	return &gormCache{
		db:      db,
		console: console,
	}, nil
}

// newGormLogger keeps gorm output away from stdout, where the report goes.
func newGormLogger(out io.Writer, console consoles.Console) logger.Interface {
	prefix := lineprefix.PrefixFunc(func() string {
		return console.Prepare("cache:")
	})

	return logger.New(
		log.New(lineprefix.New(lineprefix.Writer(out), prefix), "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

// NewSqliteCache opens the cache stored in file, creating its directory if
// needed. Use :memory: for a cache that lives only while the process runs.
func NewSqliteCache(file string, console consoles.Console) (storages.ResultCache, error) {
	if file == ":memory:" {
		return NewGormCache(WithSqliteInMemory(), console)
	}

	file, err := utils.PathAbs(file)
	if err != nil {
		return nil, err
	}

	err = createCacheDir(file, console)
	if err != nil {
		return nil, err
	}

	return NewGormCache(WithSqlite(file), console)
}

func createCacheDir(file string, console consoles.Console) error {
	path := filepath.Dir(file)

	if _, err := os.Stat(path); err != nil {
		console.Printf("Creating cache dir at %v\n", path)
		err = os.MkdirAll(path, 0o700)
		if err != nil {
			return errors.Wrapf(err, "error creating %v", path)
		}
	}

	return nil
}

func (s *gormCache) Get(key storages.CacheKey) (*locator.Result, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var rows []*sqlLocateResult
	err := s.db.Where(&sqlLocateResult{Key: cacheKey(key)}).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, false, errors.Wrapf(err, "error loading cached result for %v", key.RepositoryPath)
	}

	if len(rows) == 0 {
		return nil, false, nil
	}

	return rows[0].toResult(), true, nil
}

func (s *gormCache) Put(key storages.CacheKey, result *locator.Result) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	row := newSqlLocateResult(key, result)

	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
	if err != nil {
		return errors.Wrapf(err, "error writing cached result for %v", key.RepositoryPath)
	}

	return nil
}

func (s *gormCache) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func compositeKey(ids ...string) string {
	return strings.Join(ids, "\n")
}
