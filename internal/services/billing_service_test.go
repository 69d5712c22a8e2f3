package services

import (
	"testing"
	"time"

	"scholaris/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(totalCents int64, count int, frequency models.InstallmentFrequency) *models.InstallmentPlan {
	return &models.InstallmentPlan{
		ID:         uuid.New(),
		TenantID:   uuid.New(),
		StudentID:  uuid.New(),
		TotalCents: totalCents,
		Count:      count,
		Frequency:  frequency,
		StartDate:  time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		Status:     models.PlanActive,
	}
}

func TestGenerateInstallments_SumsExactly(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		count int
	}{
		{"even split", 90000, 3},
		{"remainder goes to last", 100000, 3},
		{"single installment", 55555, 1},
		{"remainder bigger than one", 1000, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := testPlan(tt.total, tt.count, models.FrequencyMonthly)
			installments := GenerateInstallments(plan)
			require.Len(t, installments, tt.count)

			var sum int64
			for i, inst := range installments {
				assert.Equal(t, i+1, inst.Sequence)
				assert.Equal(t, models.InstallmentDue, inst.Status)
				assert.Equal(t, plan.ID, inst.PlanID)
				sum += inst.AmountCents
			}
			assert.Equal(t, tt.total, sum)

			// All but the last carry the base amount.
			base := tt.total / int64(tt.count)
			for _, inst := range installments[:tt.count-1] {
				assert.Equal(t, base, inst.AmountCents)
			}
			assert.Equal(t, base+tt.total%int64(tt.count), installments[tt.count-1].AmountCents)
		})
	}
}

func TestGenerateInstallments_DueDates(t *testing.T) {
	start := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	weekly := GenerateInstallments(testPlan(30000, 3, models.FrequencyWeekly))
	assert.Equal(t, start, weekly[0].DueDate)
	assert.Equal(t, start.AddDate(0, 0, 7), weekly[1].DueDate)
	assert.Equal(t, start.AddDate(0, 0, 14), weekly[2].DueDate)

	biweekly := GenerateInstallments(testPlan(30000, 2, models.FrequencyBiweekly))
	assert.Equal(t, start.AddDate(0, 0, 14), biweekly[1].DueDate)

	// AddDate normalizes Jan 31 + 1 month to Mar 3 in a non-leap year; the
	// schedule follows Go's calendar arithmetic rather than clamping.
	monthly := GenerateInstallments(testPlan(30000, 2, models.FrequencyMonthly))
	assert.Equal(t, start.AddDate(0, 1, 0), monthly[1].DueDate)

	quarterly := GenerateInstallments(testPlan(30000, 2, models.FrequencyQuarterly))
	assert.Equal(t, start.AddDate(0, 3, 0), quarterly[1].DueDate)

	termly := GenerateInstallments(testPlan(30000, 2, models.FrequencyTermly))
	assert.Equal(t, start.AddDate(0, 4, 0), termly[1].DueDate)
}
