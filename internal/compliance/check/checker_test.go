package check_test

import (
	"context"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/check"
	"github.com/muhittincamdali/enterprise-security-framework/internal/compliance/standard"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingFactProvider 总是返回错误的事实源
type failingFactProvider struct{}

func (p *failingFactProvider) CheckFact(_ context.Context, _ string) (bool, error) {
	return false, errors.New("fact source unavailable")
}

func newTestChecker(facts check.FactProvider) check.Checker {
	clock := time2.NewMockClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	return check.NewChecker(facts, clock, "test-assessor")
}

func TestChecker_CheckGDPR(t *testing.T) {
	ctx := context.Background()
	checker := newTestChecker(check.NewStaticFactProvider(nil, true))

	status, err := checker.CheckGDPR(ctx)
	require.NoError(t, err)

	assert.Equal(t, standard.GDPR, status.Standard())
	assert.Equal(t, "test-assessor", status.AssessedBy)
	assert.Equal(t, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), status.CheckedAt)

	subChecks := status.SubChecks()
	assert.Len(t, subChecks, 25)
	for name, passed := range subChecks {
		assert.True(t, passed, name)
	}
}

func TestChecker_CheckGDPR_SelectiveFailure(t *testing.T) {
	ctx := context.Background()
	facts := check.NewStaticFactProvider(map[string]bool{
		check.FactGDPRConsentManagement: false,
		check.FactGDPRRightToErasure:    false,
	}, true)
	checker := newTestChecker(facts)

	status, err := checker.CheckGDPR(ctx)
	require.NoError(t, err)

	assert.False(t, status.ConsentManagementEnabled)
	assert.False(t, status.RightToErasureImplemented)
	assert.True(t, status.LawfulBasisDocumented)
}

func TestChecker_SubCheckCounts(t *testing.T) {
	ctx := context.Background()
	checker := newTestChecker(check.NewStaticFactProvider(nil, true))

	expected := map[standard.Standard]int{
		standard.GDPR:     25,
		standard.HIPAA:    12,
		standard.SOX:      8,
		standard.PCIDSS:   12,
		standard.ISO27001: 10,
	}

	for std, count := range expected {
		status, err := checker.Check(ctx, std)
		require.NoError(t, err, std)
		assert.Equal(t, std, status.Standard())
		assert.Len(t, status.SubChecks(), count, std)
	}
}

func TestChecker_CheckUnknownStandard(t *testing.T) {
	ctx := context.Background()
	checker := newTestChecker(check.NewStaticFactProvider(nil, true))

	_, err := checker.Check(ctx, standard.Standard("SOC2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, standard.ErrUnknownStandard)
}

func TestChecker_FactProviderFailure(t *testing.T) {
	ctx := context.Background()
	checker := newTestChecker(&failingFactProvider{})

	_, err := checker.CheckHIPAA(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, check.ErrValidationFailed)
}

func TestStaticFactProvider_Defaults(t *testing.T) {
	ctx := context.Background()

	facts := check.NewStaticFactProvider(map[string]bool{
		check.FactSOXAuditLogging: false,
	}, true)

	v, err := facts.CheckFact(ctx, check.FactSOXAuditLogging)
	require.NoError(t, err)
	assert.False(t, v)

	v, err = facts.CheckFact(ctx, "never.configured")
	require.NoError(t, err)
	assert.True(t, v)
}
