package services

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// GetFromRedis decodes key into target and reports the generation stored
// under genKey. A missing generation counts as zero. found is false on a
// cache miss.
func GetFromRedis(ctx context.Context, rdb *redis.Client, genKey, key string, target interface{}) (gen int64, found bool, err error) {
	vals, err := rdb.MGet(ctx, genKey, key).Result()
	if err != nil {
		return 0, false, err
	}
	if gen, err = parseGeneration(vals[0]); err != nil {
		return 0, false, err
	}

	cachedData, ok := vals[1].(string)
	if !ok {
		return gen, false, nil
	}
	if err := json.Unmarshal([]byte(cachedData), target); err != nil {
		return gen, false, err
	}
	return gen, true, nil
}

// SetToRedis stores value under key only while genKey still holds gen.
// stored is false when a writer bumped the generation in between.
func SetToRedis(ctx context.Context, rdb *redis.Client, genKey, key string, gen int64, value interface{}, ttl time.Duration) (stored bool, err error) {
	dataJSON, err := json.Marshal(value)
	if err != nil {
		return false, err
	}

	err = rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !stderrors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, dataJSON, ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, genKey)
	if stderrors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

// BumpAndDelete advances every generation counter and drops keys in one
// transaction, so a reader holding an older generation cannot store.
func BumpAndDelete(ctx context.Context, rdb *redis.Client, genKeys []string, keys ...string) error {
	if len(genKeys) == 0 && len(keys) == 0 {
		return nil
	}
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range genKeys {
			pipe.Incr(ctx, k)
		}
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		return nil
	})
	return err
}

func DeleteFromRedis(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

func parseGeneration(v interface{}) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
