package configure

/*
	Each source path maps to the last position it was displayed at, so a
	restarted player resumes where it left off. The mapping lives in redis
	when redis_addr is configured (shared across instances) and in a
	process-local cache otherwise (simple setup).
*/
import (
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v7"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

type PositionsType struct {
	redisCli   *redis.Client
	localCache *cache.Cache
}

var Positions = &PositionsType{
	localCache: cache.New(cache.NoExpiration, 0),
}

var saveInLocal = true

func Init() {
	saveInLocal = len(Config.GetString("redis_addr")) == 0
	if saveInLocal {
		return
	}

	Positions.redisCli = redis.NewClient(&redis.Options{
		Addr:     Config.GetString("redis_addr"),
		Password: Config.GetString("redis_pwd"),
		DB:       0,
	})

	_, err := Positions.redisCli.Ping().Result()
	if err != nil {
		log.Panic("Redis: ", err)
	}

	log.Info("Redis connected")
}

func resumeKey(path string) string {
	return "playgo:resume:" + path
}

// Set records the last displayed position for a source path.
func (p *PositionsType) Set(path string, position int64) error {
	if !saveInLocal {
		return p.redisCli.Set(resumeKey(path), position, 0).Err()
	}

	p.localCache.SetDefault(resumeKey(path), position)
	return nil
}

// Get returns the stored position for a source path, zero when none has
// been recorded yet.
func (p *PositionsType) Get(path string) (int64, error) {
	if !saveInLocal {
		v, err := p.redisCli.Get(resumeKey(path)).Result()
		if err == redis.Nil {
			return 0, nil
		} else if err != nil {
			return 0, err
		}
		return strconv.ParseInt(v, 10, 64)
	}

	v, found := p.localCache.Get(resumeKey(path))
	if !found {
		return 0, nil
	}
	position, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("%s holds no position", path)
	}
	return position, nil
}

// Delete drops the stored position for a source path and reports whether
// one existed.
func (p *PositionsType) Delete(path string) bool {
	if !saveInLocal {
		return p.redisCli.Del(resumeKey(path)).Val() > 0
	}

	_, found := p.localCache.Get(resumeKey(path))
	if found {
		p.localCache.Delete(resumeKey(path))
	}
	return found
}
