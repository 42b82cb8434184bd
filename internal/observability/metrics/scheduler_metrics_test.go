package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifySweepError(t *testing.T) {
	assert.Equal(t, SweepErrorTypeDeadlineExceeded, ClassifySweepError(context.DeadlineExceeded))

	assert.Equal(t, SweepErrorTypeUniqueViolation, ClassifySweepError(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, SweepErrorTypeLockTimeout, ClassifySweepError(&pgconn.PgError{Code: "55P03"}))
	assert.Equal(t, SweepErrorTypeDB, ClassifySweepError(&pgconn.PgError{Code: "42703"}))

	assert.Equal(t, SweepErrorTypeBusinessRule, ClassifySweepError(errors.New("commission_ruleset_not_found")))
	assert.Equal(t, SweepErrorTypeUnknown, ClassifySweepError(nil))
}

func TestSchedulerSingleton(t *testing.T) {
	a := Scheduler()
	b := Scheduler()
	assert.Same(t, a, b)

	// Safe on the nil receiver so callers never guard.
	var m *SchedulerMetrics
	m.IncSweep("sales")
	m.IncSweepError(SweepErrorTypeDB)
	m.AddMembersSwept(3)
}
