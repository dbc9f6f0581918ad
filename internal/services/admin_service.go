package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"essence/internal/models"
	"essence/internal/repositories"
)

// ErrInvalidOrderStatus is returned by UpdateOrderStatus for a status
// outside the accepted set.
var ErrInvalidOrderStatus = errors.New("invalid order status")

// TimeFilter selects the dashboard aggregation window.
type TimeFilter string

const (
	FilterToday TimeFilter = "today"
	FilterWeek  TimeFilter = "week"
	FilterMonth TimeFilter = "month"
	FilterAll   TimeFilter = "all"
)

// ProductSales accumulates quantity and revenue for one product
// across the order log.
type ProductSales struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// MonthRevenue is one bucket of the monthly revenue series.
type MonthRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// DashboardStats is everything the admin dashboard displays.
type DashboardStats struct {
	TotalOrders       int            `json:"totalOrders"`
	TotalRevenue      float64        `json:"totalRevenue"`
	TotalCustomers    int            `json:"totalCustomers"`
	AverageOrderValue float64        `json:"averageOrderValue"`
	TopProducts       []ProductSales `json:"topProducts"`
	RecentOrders      []models.Order `json:"recentOrders"`
	MonthlyRevenue    []MonthRevenue `json:"monthlyRevenue"`
}

var spanishMonths = [...]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// AdminService derives dashboard aggregates from the global order
// log.
type AdminService struct {
	orderLog repositories.OrderLogRepository
	now      func() time.Time
}

// NewAdminService creates an AdminService.
func NewAdminService(orderLog repositories.OrderLogRepository) *AdminService {
	return &AdminService{orderLog: orderLog, now: time.Now}
}

// Stats computes dashboard aggregates. The summary cards and top
// products honor the time window; recent orders and the monthly
// revenue series always read the full log, matching the storefront
// this replaces.
func (s *AdminService) Stats(filter TimeFilter) DashboardStats {
	allOrders := s.orderLog.Orders()
	windowed := s.filterByTime(allOrders, filter)

	stats := DashboardStats{
		TotalOrders: len(windowed),
	}

	customers := make(map[string]struct{})
	for _, order := range windowed {
		stats.TotalRevenue += order.Total
		customers[order.UserID] = struct{}{}
	}
	stats.TotalCustomers = len(customers)
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
	}

	stats.TopProducts = topProducts(windowed, 5)
	stats.RecentOrders = recentOrders(allOrders, 10)
	stats.MonthlyRevenue = monthlyRevenue(allOrders, 6)
	return stats
}

// filterByTime keeps orders created inside the window. Orders with
// an unparseable timestamp are excluded from every window except
// "all".
func (s *AdminService) filterByTime(orders []models.Order, filter TimeFilter) []models.Order {
	now := s.now()
	var cutoff time.Time
	switch filter {
	case FilterToday:
		cutoff = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case FilterWeek:
		cutoff = now.Add(-7 * 24 * time.Hour)
	case FilterMonth:
		cutoff = now.Add(-30 * 24 * time.Hour)
	default:
		return orders
	}

	filtered := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		created, err := time.Parse(time.RFC3339, order.CreatedAt)
		if err != nil {
			continue
		}
		if !created.Before(cutoff) {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// topProducts groups order line items by product id and returns the
// n best sellers by quantity, with accumulated revenue.
func topProducts(orders []models.Order, n int) []ProductSales {
	byProduct := make(map[string]*ProductSales)
	for _, order := range orders {
		for _, item := range order.Items {
			sales, ok := byProduct[item.Product.ID]
			if !ok {
				sales = &ProductSales{
					ProductID: item.Product.ID,
					Name:      item.Product.Name,
					Image:     item.Product.Image,
				}
				byProduct[item.Product.ID] = sales
			}
			sales.Quantity += item.Quantity
			sales.Revenue += item.Product.Price * float64(item.Quantity)
		}
	}

	top := make([]ProductSales, 0, len(byProduct))
	for _, sales := range byProduct {
		top = append(top, *sales)
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Quantity > top[j].Quantity })
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// recentOrders returns the n most recent orders by creation time.
// Timestamps are compared as instants, so differing zone offsets
// order correctly; unparseable timestamps sort last.
func recentOrders(orders []models.Order, n int) []models.Order {
	type dated struct {
		order models.Order
		at    time.Time
	}
	recent := make([]dated, 0, len(orders))
	for _, order := range orders {
		at, err := time.Parse(time.RFC3339, order.CreatedAt)
		if err != nil {
			at = time.Time{}
		}
		recent = append(recent, dated{order: order, at: at})
	}
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].at.After(recent[j].at)
	})
	if len(recent) > n {
		recent = recent[:n]
	}

	result := make([]models.Order, len(recent))
	for i, d := range recent {
		result[i] = d.order
	}
	return result
}

// monthlyRevenue groups orders by calendar year-month and returns the
// most recent n buckets with localized labels.
func monthlyRevenue(orders []models.Order, n int) []MonthRevenue {
	byMonth := make(map[string]float64)
	for _, order := range orders {
		created, err := time.Parse(time.RFC3339, order.CreatedAt)
		if err != nil {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", created.Year(), int(created.Month()))
		byMonth[key] += order.Total
	}

	keys := make([]string, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > n {
		keys = keys[len(keys)-n:]
	}

	series := make([]MonthRevenue, 0, len(keys))
	for _, key := range keys {
		var year, month int
		fmt.Sscanf(key, "%d-%d", &year, &month)
		series = append(series, MonthRevenue{
			Month:   fmt.Sprintf("%s %d", spanishMonths[month-1], year),
			Revenue: byMonth[key],
		})
	}
	return series
}

// UpdateOrderStatus sets the status of an order in the global log.
// It returns ErrInvalidOrderStatus for an unknown status and
// repositories.ErrOrderNotFound when the order is not in the log.
func (s *AdminService) UpdateOrderStatus(orderID, status string) error {
	if !models.ValidOrderStatuses[status] {
		return fmt.Errorf("%w: %s", ErrInvalidOrderStatus, status)
	}
	return s.orderLog.UpdateStatus(orderID, status)
}
