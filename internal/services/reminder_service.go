package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"orderflow-backend/internal/mail"
	"orderflow-backend/internal/metrics"
	"orderflow-backend/internal/models"
	"orderflow-backend/internal/repositories"
	"orderflow-backend/internal/timeutil"
)

// ReminderService runs the daily payment-due batch job. Open orders are
// grouped per customer so each store gets at most one email per run.
type ReminderService struct {
	Reminders *repositories.ReminderRepository
	Mailer    mail.Mailer

	RunHour       int // hour of day (business timezone) the batch fires
	EarlyDays     int // days before due date for the once-only early notice
	OverdueStride int // overdue reminders repeat every N days

	stopChan chan struct{}
	wg       sync.WaitGroup
	lastRun  time.Time
	mu       sync.Mutex
}

func NewReminderService(reminders *repositories.ReminderRepository, mailer mail.Mailer, runHour, earlyDays, overdueStride int) *ReminderService {
	if earlyDays <= 0 {
		earlyDays = 5
	}
	if overdueStride <= 0 {
		overdueStride = 2
	}
	return &ReminderService{
		Reminders:     reminders,
		Mailer:        mailer,
		RunHour:       runHour,
		EarlyDays:     earlyDays,
		OverdueStride: overdueStride,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the scheduler loop. The loop wakes every few minutes and
// fires RunOnce the first time it sees RunHour on a day it has not run yet.
func (s *ReminderService) Start() {
	log.Println("[Reminders] Starting reminder scheduler...")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-s.stopChan:
				log.Println("[Reminders] Stopping reminder scheduler...")
				return
			}
		}
	}()
}

// Stop stops the scheduler loop.
func (s *ReminderService) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func (s *ReminderService) tick() {
	now := timeutil.Now()
	if now.Hour() != s.RunHour {
		return
	}

	s.mu.Lock()
	alreadyRan := timeutil.DaysBetween(s.lastRun, now) == 0 && !s.lastRun.IsZero()
	if !alreadyRan {
		s.lastRun = now
	}
	s.mu.Unlock()
	if alreadyRan {
		return
	}

	summary, err := s.RunOnce(context.Background())
	if err != nil {
		log.Printf("[Reminders] Batch run failed: %v", err)
		return
	}
	log.Printf("[Reminders] Batch done: %d customers, %d sent, %d failed",
		summary.Customers, summary.Sent, summary.Failed)
}

// reminderLine is one order classified for today's batch.
type reminderLine struct {
	order *models.ReminderOrder
	kind  string // early, due, overdue
	days  int    // days overdue, for overdue lines
}

// RunOnce executes one reminder batch: classify every open order against
// today, group by customer, send one email per customer, then advance the
// per-order reminder state. A failed send leaves that customer's order
// state untouched so the next run retries.
func (s *ReminderService) RunOnce(ctx context.Context) (*models.ReminderSummary, error) {
	candidates, err := s.Reminders.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminder candidates: %w", err)
	}

	today := timeutil.Now()
	byStore := make(map[int][]reminderLine)
	storeOrder := []int{}

	for _, o := range candidates {
		line, ok := s.classify(o, today)
		if !ok {
			continue
		}
		if _, seen := byStore[o.StoreID]; !seen {
			storeOrder = append(storeOrder, o.StoreID)
		}
		byStore[o.StoreID] = append(byStore[o.StoreID], line)
	}

	summary := &models.ReminderSummary{Customers: len(byStore)}

	for _, storeID := range storeOrder {
		lines := byStore[storeID]
		first := lines[0].order
		if first.StoreEmail == "" {
			log.Printf("[Reminders] Store %d (%s) has no email, skipping", storeID, first.StoreName)
			summary.Failed++
			continue
		}

		msg := buildReminderMail(first.StoreName, first.StoreEmail, lines)
		if err := s.Mailer.Send(msg); err != nil {
			log.Printf("[Reminders] Failed to send to %s: %v", first.StoreEmail, err)
			summary.Failed++
			continue
		}
		summary.Sent++
		metrics.RemindersSent.Inc()

		var earlyIDs, overdueIDs []int
		for _, l := range lines {
			switch l.kind {
			case "early":
				earlyIDs = append(earlyIDs, l.order.OrderID)
			case "overdue":
				overdueIDs = append(overdueIDs, l.order.OrderID)
			}
		}
		if err := s.Reminders.MarkEarlyReminderSent(ctx, earlyIDs); err != nil {
			log.Printf("[Reminders] Failed to mark early reminders for store %d: %v", storeID, err)
		}
		if err := s.Reminders.IncrementReminderNumber(ctx, overdueIDs); err != nil {
			log.Printf("[Reminders] Failed to advance reminder counters for store %d: %v", storeID, err)
		}
	}

	return summary, nil
}

// classify decides whether an order belongs in today's batch. Early notices
// go out exactly EarlyDays before the due date and only once. Due-day
// notices fire on the due date itself. Overdue notices repeat every
// OverdueStride days after the due date.
func (s *ReminderService) classify(o *models.ReminderOrder, today time.Time) (reminderLine, bool) {
	daysUntilDue := timeutil.DaysBetween(today, o.PaymentDueDate)

	switch {
	case daysUntilDue == s.EarlyDays:
		if o.EarlyReminderSent {
			return reminderLine{}, false
		}
		return reminderLine{order: o, kind: "early"}, true
	case daysUntilDue == 0:
		return reminderLine{order: o, kind: "due"}, true
	case daysUntilDue < 0:
		daysOverdue := -daysUntilDue
		if daysOverdue%s.OverdueStride != 0 {
			return reminderLine{}, false
		}
		return reminderLine{order: o, kind: "overdue", days: daysOverdue}, true
	}
	return reminderLine{}, false
}

func buildReminderMail(storeName, storeEmail string, lines []reminderLine) mail.Message {
	var total float64
	var overdue bool
	var b strings.Builder

	fmt.Fprintf(&b, "Dear %s,\n\n", storeName)
	b.WriteString("This is a friendly reminder about the following open invoices:\n\n")

	for _, l := range lines {
		o := l.order
		total += o.OpenBalance
		due := timeutil.FormatEastern(o.PaymentDueDate, timeutil.DateLayout)
		switch l.kind {
		case "early":
			fmt.Fprintf(&b, "  Invoice %s (PO %s): $%.2f due on %s\n",
				o.InvoiceNumber, o.PONumber, o.OpenBalance, due)
		case "due":
			fmt.Fprintf(&b, "  Invoice %s (PO %s): $%.2f due TODAY\n",
				o.InvoiceNumber, o.PONumber, o.OpenBalance)
		case "overdue":
			overdue = true
			fmt.Fprintf(&b, "  Invoice %s (PO %s): $%.2f was due %s (%d days overdue)\n",
				o.InvoiceNumber, o.PONumber, o.OpenBalance, due, l.days)
		}
	}

	fmt.Fprintf(&b, "\nTotal outstanding: $%.2f\n\n", total)
	b.WriteString("If you have already sent payment, please disregard this notice.\n\nThank you for your business.\n")

	subject := fmt.Sprintf("Payment reminder: $%.2f outstanding", total)
	if overdue {
		subject = fmt.Sprintf("Overdue payment notice: $%.2f outstanding", total)
	}

	return mail.Message{To: storeEmail, Subject: subject, Text: b.String()}
}
