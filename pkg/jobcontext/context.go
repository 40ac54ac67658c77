package jobcontext

import (
	"context"
	"fmt"
	"time"
)

type KeyContext string

var (
	keyMeetingID    KeyContext = "meeting_id"
	keyBotID        KeyContext = "bot_id"
	keyWorkerID     KeyContext = "worker_id"
	keyAttempt      KeyContext = "attempt"
	keyJobStartTime KeyContext = "job_start_time"
)

// JobMetadata holds metadata for one transcript/analysis job execution.
type JobMetadata struct {
	MeetingID string
	BotID     string
	WorkerID  int
	Attempt   int
	StartTime time.Time
}

// JobBegin derives a per-job context with metadata and a timeout so a hung
// upstream call cannot pin a worker slot forever. Retry accounting lives in
// the trigger guard, not here.
func JobBegin(parentCtx context.Context, meetingID, botID string, workerID, attempt int) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, 2*time.Minute)

	ctx = context.WithValue(ctx, keyMeetingID, meetingID)
	ctx = context.WithValue(ctx, keyBotID, botID)
	ctx = context.WithValue(ctx, keyWorkerID, workerID)
	ctx = context.WithValue(ctx, keyAttempt, attempt)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// Run executes the job function with panic recovery. A panic inside a
// worker must not take down the reconciliation loop.
func Run(ctx context.Context, jobFunc func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before job execution: %w", ctx.Err())
	}

	return jobFunc(ctx)
}

// GetMeetingID extracts the meeting id from context
func GetMeetingID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(keyMeetingID).(string)
	return id, ok
}

// GetBotID extracts the bot id from context
func GetBotID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(keyBotID).(string)
	return id, ok
}

// GetWorkerID extracts the worker id from context
func GetWorkerID(ctx context.Context) int {
	workerID, ok := ctx.Value(keyWorkerID).(int)
	if !ok {
		return -1
	}
	return workerID
}

// GetAttempt extracts the attempt number from context
func GetAttempt(ctx context.Context) int {
	attempt, ok := ctx.Value(keyAttempt).(int)
	if !ok {
		return 0
	}
	return attempt
}

// GetJobStartTime extracts the job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	meetingID, _ := GetMeetingID(ctx)
	botID, _ := GetBotID(ctx)
	startTime, _ := GetJobStartTime(ctx)

	return &JobMetadata{
		MeetingID: meetingID,
		BotID:     botID,
		WorkerID:  GetWorkerID(ctx),
		Attempt:   GetAttempt(ctx),
		StartTime: startTime,
	}
}
