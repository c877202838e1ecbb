package infra

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// checkAndRecordScript executa poda, contagem e inserção condicional em uma
// única ida ao servidor, eliminando a corrida check-then-act de duas
// operações separadas.
//
// KEYS[1] = chave da janela
// ARGV[1] = now (epoch segundos), ARGV[2] = janela em segundos,
// ARGV[3] = limite, ARGV[4] = membro único da entrada
//
// O limite inferior da janela é inclusivo: só remove scores estritamente
// menores que now-window.
var checkAndRecordScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local window_start = now - window

redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", "(" .. window_start)
if redis.call("ZCARD", KEYS[1]) >= limit then
	return 0
end
redis.call("ZADD", KEYS[1], now, ARGV[4])
redis.call("EXPIRE", KEYS[1], window)
return 1
`)

// RedisWindowStore implementa domain.WindowStore sobre sorted sets.
type RedisWindowStore struct {
	rdb redis.Scripter
}

func NewRedisWindowStore(rdb redis.Scripter) *RedisWindowStore {
	return &RedisWindowStore{rdb: rdb}
}

// CheckAndRecord registra um membro único por requisição aceita. Usar o
// epoch como membro colapsaria requisições do mesmo segundo no ZSET e
// subcontaria a janela.
func (s *RedisWindowStore) CheckAndRecord(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (bool, error) {
	res, err := checkAndRecordScript.Run(ctx, s.rdb, []string{key},
		now.Unix(),
		int64(window/time.Second),
		limit,
		uuid.NewString(),
	).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}
