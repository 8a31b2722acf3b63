package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/curtainry-specialist-api/models"
	"github.com/kendall-kelly/curtainry-specialist-api/services"
)

// DashboardResponse is the dashboard summary plus the next appointments
type DashboardResponse struct {
	Stats    services.DashboardStats `json:"stats"`
	Upcoming []models.OrderView      `json:"upcoming"`
}

// ScheduleDayResponse is one schedule day with role-projected orders
type ScheduleDayResponse struct {
	services.ScheduleDay
	Orders []models.OrderView `json:"orders"`
}

// ScheduleResponse is a week of bookings
type ScheduleResponse struct {
	WeekStart   string                `json:"week_start"`
	WeekEnd     string                `json:"week_end"`
	TotalBooked int                   `json:"total_booked"`
	Days        []ScheduleDayResponse `json:"days"`
}

// listOwnOrders loads every order assigned to the caller, writing the error response on failure
func listOwnOrders(c *gin.Context, specialistID uint) ([]models.Order, bool) {
	orders, err := services.GetOrderRepository().List(c.Request.Context(), specialistID)
	if err != nil {
		writeOrderError(c, err)
		return nil, false
	}
	return orders, true
}

// GetDashboard handles GET /api/v1/dashboard
func GetDashboard(c *gin.Context) {
	specialistID, role, ok := currentSpecialist(c)
	if !ok {
		return
	}

	orders, ok := listOwnOrders(c, specialistID)
	if !ok {
		return
	}

	stats := services.BuildDashboardStats(orders, role, now())
	services.GetSessionMirror().Remember(c.Writer, c.Request, role, specialistID, "/dashboard")

	respondSuccess(c, http.StatusOK, DashboardResponse{
		Stats:    stats,
		Upcoming: models.ViewsFor(stats.Upcoming, role),
	})
}

// GetSchedule handles GET /api/v1/schedule?week=YYYY-MM-DD - the week containing the given day
func GetSchedule(c *gin.Context) {
	specialistID, role, ok := currentSpecialist(c)
	if !ok {
		return
	}

	anchor := now()
	if raw := c.Query("week"); raw != "" {
		parsed, err := time.ParseInLocation(models.DateLayout, raw, anchor.Location())
		if err != nil {
			respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid week", "week must be formatted as YYYY-MM-DD")
			return
		}
		anchor = parsed
	}

	orders, ok := listOwnOrders(c, specialistID)
	if !ok {
		return
	}

	schedule := services.BuildWeekSchedule(orders, anchor)
	resp := ScheduleResponse{
		WeekStart:   schedule.WeekStart,
		WeekEnd:     schedule.WeekEnd,
		TotalBooked: schedule.TotalBooked,
		Days:        make([]ScheduleDayResponse, 0, len(schedule.Days)),
	}
	for _, day := range schedule.Days {
		resp.Days = append(resp.Days, ScheduleDayResponse{
			ScheduleDay: day,
			Orders:      models.ViewsFor(day.Orders, role),
		})
	}

	services.GetSessionMirror().Remember(c.Writer, c.Request, role, specialistID, "/schedule")
	respondSuccess(c, http.StatusOK, resp)
}

// GetRevenue handles GET /api/v1/revenue?period=this_month|last_month|this_year
func GetRevenue(c *gin.Context) {
	specialistID, role, ok := currentSpecialist(c)
	if !ok {
		return
	}

	period := c.DefaultQuery("period", services.PeriodThisMonth)
	if _, _, err := services.PeriodRange(period, now()); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid period", err.Error())
		return
	}

	orders, ok := listOwnOrders(c, specialistID)
	if !ok {
		return
	}

	report, err := services.BuildRevenueReport(orders, period, now())
	if err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid period", err.Error())
		return
	}

	services.GetSessionMirror().Remember(c.Writer, c.Request, role, specialistID, "/revenue")
	respondSuccess(c, http.StatusOK, report)
}
