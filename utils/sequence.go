package utils

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"bitbucket.org/stepfield/shoes_backend/config"
	"github.com/bsm/redislock"
)

var seqMutex sync.Mutex

func GetTypeName[T any]() string {
	var v T
	return reflect.TypeOf(v).Name()
}

// GetSequence allocates the next human-facing sequential number for T
// (1-based, monotonic). The counter lives in redis seeded from the db
// max; the in-process mutex plus a best-effort redis lock serialize
// allocation, and a uniqueness probe guards against a stale counter.
func GetSequence[T any](ctx context.Context, column string) (int64, error) {
	seqMutex.Lock()
	defer seqMutex.Unlock()

	name := strings.ToLower(GetTypeName[T]())
	if locker := config.GetRedisLock(); locker != nil {
		lock, err := locker.Obtain(ctx, "seqlock:"+name, 5*time.Second, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
		})
		if err == nil {
			defer lock.Release(ctx)
		}
	}

	cacheKey := name + "_seq"
	db := config.GetDB()
	var model T

	for {
		seqNo, err := config.GetRedisCounter(ctx, cacheKey)
		if err != nil {
			return 0, err
		}
		// counter missing (fresh redis) or redis unavailable: seed from db
		if seqNo <= 1 {
			var dbSeq *int64
			if err := db.WithContext(ctx).Model(&model).Select("max(" + column + ")").Scan(&dbSeq).Error; err != nil {
				return 0, err
			}
			if dbSeq != nil {
				seqNo = *dbSeq
			} else {
				seqNo = 0
			}
			seqNo++
			if err := config.SetRedisObject(cacheKey, &seqNo, 0); err != nil {
				return 0, err
			}
		}
		err = ValidateUnique[T](ctx, column, seqNo, 0)
		if err == nil {
			return seqNo, nil
		}
		if !IsConflictError(err) {
			return 0, err
		}
	}
}
