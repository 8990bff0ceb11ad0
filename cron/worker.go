package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"evcharge/config"
	"evcharge/services/scheduler"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeNotificationSweep = "notifications:sweep"

// InitSweepWorker runs the periodic notification sweep through asynq: a
// scheduler enqueues the sweep task at the configured cadence and a worker
// executes it. Notification dedup lives in the store, so a sweep that
// overruns its interval or a second replica never double-sends.
func InitSweepWorker(sweeper *scheduler.Sweeper) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepDB,
	}

	interval := config.AppConfig.SweepIntervalMinutes
	if interval <= 0 {
		interval = 1
	}

	sched := asynq.NewScheduler(redisOpts, nil)
	if _, err := sched.Register(
		fmt.Sprintf("@every %dm", interval),
		asynq.NewTask(TypeNotificationSweep, nil),
	); err != nil {
		log.Fatalf("[SweepWorker] failed to register sweep schedule: %v", err)
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotificationSweep, handleSweepTask(sweeper))

	go monitorRedisConnection(redisOpts)

	go func() {
		log.Println("[SweepWorker] starting scheduler...")
		if err := sched.Run(); err != nil {
			log.Fatalf("[SweepWorker] scheduler failed: %v", err)
		}
	}()

	go func() {
		log.Println("[SweepWorker] starting worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleSweepTask(sweeper *scheduler.Sweeper) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		return sweeper.Sweep(ctx)
	}
}

// monitorRedisConnection pings Redis periodically to surface failures at
// runtime.
func monitorRedisConnection(opts asynq.RedisClientOpt) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx := context.Background()
	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SweepWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
