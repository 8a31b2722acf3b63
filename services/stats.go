package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/shopspring/decimal"
)

// Revenue periods
const (
	PeriodThisMonth = "this_month"
	PeriodLastMonth = "last_month"
	PeriodThisYear  = "this_year"
)

// Transaction statuses shown in revenue reports
const (
	TransactionPaid    = "paid"
	TransactionPending = "pending"
)

// MaxUpcoming caps the appointments listed on the dashboard
const MaxUpcoming = 5

// DashboardStats summarizes a specialist's orders
type DashboardStats struct {
	RoleLabel       string         `json:"role_label"`
	StatusCounts    map[string]int `json:"status_counts"`
	TotalOrders     int            `json:"total_orders"`
	PendingActions  int            `json:"pending_actions"`
	ActiveJobs      int            `json:"active_jobs"`
	CompletedJobs   int            `json:"completed_jobs"`
	TotalEarnings   float64        `json:"total_earnings"`
	WeekEarnings    float64        `json:"week_earnings"`
	ActiveCustomers int            `json:"active_customers"`
	Upcoming        []models.Order `json:"-"`
}

// ScheduleDay lists the bookings of one calendar day
type ScheduleDay struct {
	Date    string         `json:"date"`
	Weekday string         `json:"weekday"`
	Booked  int            `json:"booked"`
	Orders  []models.Order `json:"-"`
}

// WeekSchedule is a Sunday-to-Saturday view of a specialist's bookings
type WeekSchedule struct {
	WeekStart   string        `json:"week_start"`
	WeekEnd     string        `json:"week_end"`
	TotalBooked int           `json:"total_booked"`
	Days        []ScheduleDay `json:"days"`
}

// Transaction is one order line in a revenue report
type Transaction struct {
	OrderID      string  `json:"order_id"`
	CustomerName string  `json:"customer_name"`
	ServiceType  string  `json:"service_type"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
}

// RevenueReport summarizes earnings over a period
type RevenueReport struct {
	Period         string        `json:"period"`
	From           string        `json:"from"`
	To             string        `json:"to"`
	Total          float64       `json:"total"`
	CompletedJobs  int           `json:"completed_jobs"`
	AveragePerJob  float64       `json:"average_per_job"`
	PendingPayment float64       `json:"pending_payment"`
	GrowthPercent  *float64      `json:"growth_percent"`
	Transactions   []Transaction `json:"transactions"`
}

// RoleLabel names the kind of work a role does
func RoleLabel(role string) string {
	if role == models.RoleFitter {
		return "installations"
	}
	return "consultations"
}

func scheduledDay(o models.Order, loc *time.Location) (time.Time, bool) {
	if o.ScheduledDate == "" {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(models.DateLayout, o.ScheduledDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the Sunday on or before t
func WeekStart(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func amountOf(o models.Order) decimal.Decimal {
	return decimal.NewFromFloat(o.Amount)
}

// BuildDashboardStats computes dashboard figures for orders as of now
func BuildDashboardStats(orders []models.Order, role string, now time.Time) DashboardStats {
	stats := DashboardStats{
		RoleLabel: RoleLabel(role),
		StatusCounts: map[string]int{
			models.StatusPending:    0,
			models.StatusAccepted:   0,
			models.StatusInProgress: 0,
			models.StatusCompleted:  0,
			models.StatusCancelled:  0,
		},
		TotalOrders: len(orders),
		Upcoming:    []models.Order{},
	}

	today := startOfDay(now)
	weekFrom := WeekStart(now)
	weekTo := weekFrom.AddDate(0, 0, 7)
	total := decimal.Zero
	week := decimal.Zero
	customers := make(map[string]struct{})

	for _, o := range orders {
		stats.StatusCounts[o.Status]++
		day, dated := scheduledDay(o, now.Location())

		switch o.Status {
		case models.StatusPending:
			stats.PendingActions++
		case models.StatusAccepted, models.StatusInProgress:
			stats.ActiveJobs++
			customers[o.CustomerID] = struct{}{}
		case models.StatusCompleted:
			stats.CompletedJobs++
			total = total.Add(amountOf(o))
			if dated && inRange(day, weekFrom, weekTo) {
				week = week.Add(amountOf(o))
			}
		}

		if !o.IsTerminal() && dated && !day.Before(today) {
			stats.Upcoming = append(stats.Upcoming, o)
		}
	}

	sort.SliceStable(stats.Upcoming, func(i, j int) bool {
		a, b := stats.Upcoming[i], stats.Upcoming[j]
		if a.ScheduledDate != b.ScheduledDate {
			return a.ScheduledDate < b.ScheduledDate
		}
		return a.ID < b.ID
	})
	if len(stats.Upcoming) > MaxUpcoming {
		stats.Upcoming = stats.Upcoming[:MaxUpcoming]
	}

	stats.TotalEarnings = total.InexactFloat64()
	stats.WeekEarnings = week.InexactFloat64()
	stats.ActiveCustomers = len(customers)
	return stats
}

// BuildWeekSchedule lays out non-cancelled orders over the week containing anchor
func BuildWeekSchedule(orders []models.Order, anchor time.Time) WeekSchedule {
	from := WeekStart(anchor)
	schedule := WeekSchedule{
		WeekStart: from.Format(models.DateLayout),
		WeekEnd:   from.AddDate(0, 0, 6).Format(models.DateLayout),
		Days:      make([]ScheduleDay, 7),
	}

	index := make(map[string]int, 7)
	for i := range schedule.Days {
		day := from.AddDate(0, 0, i)
		schedule.Days[i] = ScheduleDay{
			Date:    day.Format(models.DateLayout),
			Weekday: day.Weekday().String(),
			Orders:  []models.Order{},
		}
		index[schedule.Days[i].Date] = i
	}

	for _, o := range orders {
		if o.Status == models.StatusCancelled {
			continue
		}
		day, ok := scheduledDay(o, anchor.Location())
		if !ok {
			continue
		}
		idx, ok := index[day.Format(models.DateLayout)]
		if !ok {
			continue
		}
		schedule.Days[idx].Orders = append(schedule.Days[idx].Orders, o)
		schedule.Days[idx].Booked++
		schedule.TotalBooked++
	}

	return schedule
}

// PeriodRange returns the half-open interval [from, to) of a revenue period
func PeriodRange(period string, now time.Time) (time.Time, time.Time, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	switch period {
	case PeriodThisMonth:
		return monthStart, monthStart.AddDate(0, 1, 0), nil
	case PeriodLastMonth:
		return monthStart.AddDate(0, -1, 0), monthStart, nil
	case PeriodThisYear:
		yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return yearStart, yearStart.AddDate(1, 0, 0), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("invalid period %q", period)
}

// previousRange returns the period of the same length immediately before [from, to)
func previousRange(period string, from time.Time) (time.Time, time.Time) {
	if period == PeriodThisYear {
		return from.AddDate(-1, 0, 0), from
	}
	return from.AddDate(0, -1, 0), from
}

func completedTotal(orders []models.Order, from, to time.Time) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, o := range orders {
		if o.Status != models.StatusCompleted {
			continue
		}
		day, ok := scheduledDay(o, from.Location())
		if !ok || !inRange(day, from, to) {
			continue
		}
		total = total.Add(amountOf(o))
		count++
	}
	return total, count
}

// BuildRevenueReport computes earnings for period as of now
func BuildRevenueReport(orders []models.Order, period string, now time.Time) (*RevenueReport, error) {
	from, to, err := PeriodRange(period, now)
	if err != nil {
		return nil, err
	}

	total, completed := completedTotal(orders, from, to)
	pending := decimal.Zero
	transactions := []Transaction{}

	for _, o := range orders {
		day, ok := scheduledDay(o, now.Location())
		if !ok || !inRange(day, from, to) {
			continue
		}

		var status string
		switch o.Status {
		case models.StatusCompleted:
			status = TransactionPaid
		case models.StatusAccepted, models.StatusInProgress:
			status = TransactionPending
			pending = pending.Add(amountOf(o))
		default:
			continue
		}

		transactions = append(transactions, Transaction{
			OrderID:      o.ID,
			CustomerName: o.CustomerName,
			ServiceType:  o.ServiceType,
			Date:         o.ScheduledDate,
			Amount:       o.Amount,
			Status:       status,
		})
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		if transactions[i].Date != transactions[j].Date {
			return transactions[i].Date > transactions[j].Date
		}
		return transactions[i].OrderID < transactions[j].OrderID
	})

	report := &RevenueReport{
		Period:         period,
		From:           from.Format(models.DateLayout),
		To:             to.AddDate(0, 0, -1).Format(models.DateLayout),
		Total:          total.InexactFloat64(),
		CompletedJobs:  completed,
		PendingPayment: pending.InexactFloat64(),
		Transactions:   transactions,
	}

	if completed > 0 {
		report.AveragePerJob = total.Div(decimal.NewFromInt(int64(completed))).Round(2).InexactFloat64()
	}

	prevFrom, prevTo := previousRange(period, from)
	previous, _ := completedTotal(orders, prevFrom, prevTo)
	if !previous.IsZero() {
		growth := total.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
		report.GrowthPercent = &growth
	}

	return report, nil
}
