package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/timeutil"
)

func reminderOrderDueIn(days int, today time.Time) *models.ReminderOrder {
	return &models.ReminderOrder{
		OrderID:        1,
		InvoiceNumber:  "INV-000001",
		PONumber:       "ORD-000001",
		StoreID:        7,
		StoreName:      "Corner Market",
		StoreEmail:     "owner@cornermarket.example",
		PaymentDueDate: today.AddDate(0, 0, days),
		OpenBalance:    125.50,
	}
}

func TestClassify(t *testing.T) {
	svc := &ReminderService{EarlyDays: 5, OverdueStride: 2}
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, timeutil.Eastern)

	tests := []struct {
		name     string
		dueIn    int
		wantKind string
		wantOK   bool
		wantDays int
	}{
		{"early notice at exactly five days out", 5, "early", true, 0},
		{"too early", 6, "", false, 0},
		{"between early and due", 3, "", false, 0},
		{"due today", 0, "due", true, 0},
		{"one day overdue skipped by stride", -1, "", false, 0},
		{"two days overdue", -2, "overdue", true, 2},
		{"three days overdue skipped", -3, "", false, 0},
		{"four days overdue", -4, "overdue", true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, ok := svc.classify(reminderOrderDueIn(tt.dueIn, today), today)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantKind, line.kind)
				assert.Equal(t, tt.wantDays, line.days)
			}
		})
	}
}

func TestClassifyEarlyOnlyOnce(t *testing.T) {
	svc := &ReminderService{EarlyDays: 5, OverdueStride: 2}
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, timeutil.Eastern)

	o := reminderOrderDueIn(5, today)
	_, ok := svc.classify(o, today)
	require.True(t, ok)

	o.EarlyReminderSent = true
	_, ok = svc.classify(o, today)
	assert.False(t, ok)
}

func TestClassifyCustomStride(t *testing.T) {
	svc := &ReminderService{EarlyDays: 5, OverdueStride: 3}
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, timeutil.Eastern)

	_, ok := svc.classify(reminderOrderDueIn(-2, today), today)
	assert.False(t, ok)

	line, ok := svc.classify(reminderOrderDueIn(-3, today), today)
	require.True(t, ok)
	assert.Equal(t, "overdue", line.kind)
	assert.Equal(t, 3, line.days)
}

func TestBuildReminderMail(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, timeutil.Eastern)

	due := reminderOrderDueIn(0, today)
	overdue := reminderOrderDueIn(-4, today)
	overdue.OrderID = 2
	overdue.InvoiceNumber = "INV-000002"
	overdue.OpenBalance = 74.50

	msg := buildReminderMail("Corner Market", "owner@cornermarket.example", []reminderLine{
		{order: due, kind: "due"},
		{order: overdue, kind: "overdue", days: 4},
	})

	assert.Equal(t, "owner@cornermarket.example", msg.To)
	assert.Equal(t, "Overdue payment notice: $200.00 outstanding", msg.Subject)
	assert.Contains(t, msg.Text, "Dear Corner Market")
	assert.Contains(t, msg.Text, "INV-000001")
	assert.Contains(t, msg.Text, "due TODAY")
	assert.Contains(t, msg.Text, "INV-000002")
	assert.Contains(t, msg.Text, "4 days overdue")
	assert.Contains(t, msg.Text, "Total outstanding: $200.00")
}

func TestBuildReminderMailSubjectWithoutOverdue(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, timeutil.Eastern)
	early := reminderOrderDueIn(5, today)

	msg := buildReminderMail(early.StoreName, early.StoreEmail, []reminderLine{
		{order: early, kind: "early"},
	})

	assert.True(t, strings.HasPrefix(msg.Subject, "Payment reminder:"))
	assert.Contains(t, msg.Text, "due on 2026-03-15")
}
