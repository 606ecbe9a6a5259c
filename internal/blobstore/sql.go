/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package blobstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nabbar/slamd/internal/errs"
)

// blobRecord is the single table a SQLStore needs: one row per key, the
// canonical job/optimizing-job/stat-tracker serialization opaque in Data.
type blobRecord struct {
	Key       string `gorm:"primaryKey"`
	Data      []byte
	UpdatedAt time.Time
}

// SQLStore is the relational alternate to the filesystem/S3 backends,
// owning one *gorm.DB collapsed to this package's narrow
// put/get/list/delete contract.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore opens dsn with the named driver ("postgres" or "sqlite") and
// migrates the blob table.
func NewSQLStore(driver, dsn string) (*SQLStore, errs.Error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, errs.CodeConfigInvalid.Errorf("unknown sql blob-store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, errs.CodeBlobIO.Error(err)
	}
	if err := db.AutoMigrate(&blobRecord{}); err != nil {
		return nil, errs.CodeBlobIO.Error(err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, data []byte) errs.Error {
	rec := blobRecord{Key: key, Data: data, UpdatedAt: time.Now()}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return errs.CodeBlobIO.Error(err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, errs.Error) {
	var rec blobRecord
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.CodeBlobNotFound.Errorf("key %q", key)
	}
	if err != nil {
		return nil, errs.CodeBlobIO.Error(err)
	}
	return rec.Data, nil
}

func (s *SQLStore) List(ctx context.Context, prefix string) ([]string, errs.Error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&blobRecord{}).
		Where("key LIKE ?", prefix+"%").
		Order("key").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, errs.CodeBlobIO.Error(err)
	}
	return keys, nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) errs.Error {
	res := s.db.WithContext(ctx).Delete(&blobRecord{}, "key = ?", key)
	if res.Error != nil {
		return errs.CodeBlobIO.Error(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.CodeBlobNotFound.Errorf("key %q", key)
	}
	return nil
}
