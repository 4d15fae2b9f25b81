package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

// PlanIDKey carries the plan id of the operation being timed, when there is one.
const PlanIDKey ctxKey = "plan_id"

// WithPlanID returns ctx tagged with id for Time's log line.
func WithPlanID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, PlanIDKey, id)
}

// Time logs the duration of an operation. Use as:
//
//	defer obs.Time(ctx, "solve")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	planID, _ := ctx.Value(PlanIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("plan_id=%s op=%s dur=%dms err=%v", planID, name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("plan_id=%s op=%s dur=%dms", planID, name, dur.Milliseconds())
	}
}
