package bandit

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeu5/rl-bandits/util"
)

// Recorder stores the result of a solver once a comparison completes
type Recorder interface {
	Record(context.Context, *Result) error
}

// RecordResults is a Reporter handing every result to the recorders
func RecordResults(recorders ...Recorder) Reporter {
	return func(ctx context.Context, _ Bandit, results []*Result) error {
		for _, r := range results {
			for _, rec := range recorders {
				if err := rec.Record(ctx, r); err != nil {
					return fmt.Errorf("recording %s: %w", r.Name, err)
				}
			}
		}
		return nil
	}
}

// FileRecorder writes every result as json to <dir>/<solver>.json
// and appends a summary line to <dir>/results.jsonl
type FileRecorder struct {
	dir string
}

var _ Recorder = &FileRecorder{}

func NewFileRecorder(dir string) *FileRecorder {
	return &FileRecorder{dir: dir}
}

type resultSummary struct {
	Name        string    `json:"name"`
	Steps       int       `json:"steps"`
	TotalReward float64   `json:"total_reward"`
	FinalRegret float64   `json:"final_regret"`
	Time        time.Time `json:"time"`
}

func (f *FileRecorder) Record(_ context.Context, r *Result) error {
	bs, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := util.WriteToFile(path.Join(f.dir, r.Name+".json"), string(bs)); err != nil {
		return err
	}
	summary, err := json.Marshal(&resultSummary{
		Name:        r.Name,
		Steps:       r.Steps,
		TotalReward: r.TotalReward,
		FinalRegret: r.FinalRegret,
		Time:        time.Now(),
	})
	if err != nil {
		return err
	}
	return util.AppendToFile(path.Join(f.dir, "results.jsonl"), string(summary))
}

// RedisRecorder publishes results to redis so that dashboards can follow experiments.
// The full result is stored at <prefix>:<solver> and the cumulative regret curve
// as a list at <prefix>:<solver>:regrets.
type RedisRecorder struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Recorder = &RedisRecorder{}

func NewRedisRecorder(addr, prefix string, ttl time.Duration) *RedisRecorder {
	return NewRedisRecorderWithClient(redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
	}), prefix, ttl)
}

func NewRedisRecorderWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisRecorder {
	if prefix == "" {
		prefix = "bandit"
	}
	return &RedisRecorder{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisRecorder) resultKey(name string) string {
	return r.prefix + ":" + name
}

func (r *RedisRecorder) regretsKey(name string) string {
	return r.prefix + ":" + name + ":regrets"
}

func (r *RedisRecorder) Record(ctx context.Context, res *Result) error {
	bs, err := json.Marshal(res)
	if err != nil {
		return err
	}
	regrets := make([]interface{}, len(res.Regrets))
	for i, v := range res.Regrets {
		regrets[i] = v
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.resultKey(res.Name), bs, r.ttl)
		pipe.Del(ctx, r.regretsKey(res.Name))
		if len(regrets) > 0 {
			pipe.RPush(ctx, r.regretsKey(res.Name), regrets...)
			if r.ttl > 0 {
				pipe.Expire(ctx, r.regretsKey(res.Name), r.ttl)
			}
		}
		return nil
	})
	return err
}

func (r *RedisRecorder) Close() error {
	return r.client.Close()
}
