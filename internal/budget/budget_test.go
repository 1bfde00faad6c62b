package budget_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tzcore/internal/budget"
)

func TestNew_FirstPlanIsActive(t *testing.T) {
	b := budget.New()
	p := b.Plan(0, budget.LastResult{})
	assert.Equal(t, budget.Active, p.Mode)
	assert.Equal(t, budget.MinimumActiveListeningDuration, p.Duration)
}

func TestPlan_RecentLocationKnown_StaysPassive(t *testing.T) {
	b := budget.New()
	last := budget.LastResult{Kind: budget.ResultLocationKnown, Timestamp: 0}
	p := b.Plan(budget.LocationKnownAgeThreshold-time.Second, last)
	assert.Equal(t, budget.Passive, p.Mode)
	assert.Equal(t, budget.MinimumPassiveListeningDuration, p.Duration)
}

func TestPlan_StaleLocationKnown_FallsBackToBudgetDecision(t *testing.T) {
	b := budget.New()
	last := budget.LastResult{Kind: budget.ResultLocationKnown, Timestamp: 0}
	p := b.Plan(budget.LocationKnownAgeThreshold+time.Second, last)
	assert.Equal(t, budget.Active, p.Mode)
}

func TestPlan_RecentLocationNotKnown_StaysPassive(t *testing.T) {
	b := budget.New()
	last := budget.LastResult{Kind: budget.ResultLocationNotKnown, Timestamp: 0}
	p := b.Plan(budget.LocationNotKnownAgeThreshold-time.Millisecond, last)
	assert.Equal(t, budget.Passive, p.Mode)
}

func TestPlan_StaleLocationNotKnown_FallsBackToBudgetDecision(t *testing.T) {
	b := budget.New()
	last := budget.LastResult{Kind: budget.ResultLocationNotKnown, Timestamp: 0}
	p := b.Plan(budget.LocationNotKnownAgeThreshold+time.Millisecond, last)
	assert.Equal(t, budget.Active, p.Mode)
}

func TestPlan_DepletedBudget_FallsBackToPassive(t *testing.T) {
	b := budget.New()
	// Drain the initial budget with one Active plan.
	first := b.Plan(0, budget.LastResult{})
	assert.Equal(t, budget.Active, first.Mode)

	second := b.Plan(first.Duration, budget.LastResult{})
	assert.Equal(t, budget.Passive, second.Mode)
	assert.Equal(t, budget.MinimumPassiveListeningDuration, second.Duration)
}

func TestPlan_ActiveDurationNeverBelowMinimum(t *testing.T) {
	b := budget.New()
	p := b.Plan(0, budget.LastResult{})
	require := assert.New(t)
	if p.Mode == budget.Active {
		require.GreaterOrEqual(int64(p.Duration), int64(budget.MinimumActiveListeningDuration))
	}
}

func TestPlan_ActiveDurationNeverExceedsMaximum(t *testing.T) {
	b := budget.New()
	b.Accrue(10 * budget.MaximumActiveListeningDuration * budget.PassiveToActiveRatio)
	p := b.Plan(0, budget.LastResult{})
	assert.Equal(t, budget.Active, p.Mode)
	assert.LessOrEqual(t, p.Duration, budget.MaximumActiveListeningDuration)
}

func TestAccrue_CapsAtMaxActiveListeningBudget(t *testing.T) {
	b := budget.New()
	b.Accrue(1000 * budget.MaximumActiveListeningDuration * budget.PassiveToActiveRatio)
	assert.Equal(t, budget.MaxActiveListeningBudget, b.Remaining())
}

func TestAccrue_ConvertsAtPassiveToActiveRatio(t *testing.T) {
	b := budget.New()
	before := b.Remaining()
	b.Accrue(budget.PassiveToActiveRatio * time.Millisecond)
	assert.Equal(t, before+time.Millisecond, b.Remaining())
}

func TestDeposit_RefundsUnusedActiveDuration(t *testing.T) {
	b := budget.New()
	p := b.Plan(0, budget.LastResult{})
	require := assert.New(t)
	require.Equal(budget.Active, p.Mode)
	afterPlan := b.Remaining()

	b.Deposit(p.Duration / 2)
	require.Equal(afterPlan+p.Duration/2, b.Remaining())
}

func TestDeposit_CapsAtMaxActiveListeningBudget(t *testing.T) {
	b := budget.New()
	b.Deposit(1000 * budget.MaxActiveListeningBudget)
	assert.Equal(t, budget.MaxActiveListeningBudget, b.Remaining())
}

func TestBudget_RemainingNeverNegative(t *testing.T) {
	b := budget.New()
	for i := 0; i < 5; i++ {
		p := b.Plan(0, budget.LastResult{})
		_ = p
		assert.GreaterOrEqual(t, int64(b.Remaining()), int64(0))
	}
}
