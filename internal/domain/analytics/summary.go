// internal/domain/analytics/summary.go
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/your-org/toyshop-storefront/internal/domain/order"
)

// SeriesDays is the length of the daily series
const SeriesDays = 7

// Summary is the dashboard's analytics view over a list of orders.
// Revenue figures leave out cancelled orders.
type Summary struct {
	TotalOrders    int                `json:"total_orders"`
	TotalRevenue   float64            `json:"total_revenue"`
	AverageRevenue float64            `json:"average_revenue"`
	ByStatus       []StatusData       `json:"by_status"`
	Daily          []TimeSeriesData   `json:"daily"`
	TopProducts    []ProductSalesData `json:"top_products"`
}

// StatusData is the order count and value for one status
type StatusData struct {
	Status order.OrderStatus `json:"status"`
	Count  int               `json:"count"`
	Value  float64           `json:"value"`
}

// TimeSeriesData is one day of the series
type TimeSeriesData struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// ProductSalesData aggregates the lines ordered for one product
type ProductSalesData struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	TotalSold   int     `json:"total_sold"`
	Revenue     float64 `json:"revenue"`
	OrderCount  int     `json:"order_count"`
}

const topProductsLimit = 5

// Summarize reduces orders into the dashboard figures. The daily series
// covers the SeriesDays days ending today (local time), oldest first.
func Summarize(orders []order.Order, now time.Time) Summary {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	seriesStart := midnight.AddDate(0, 0, -(SeriesDays - 1))

	summary := Summary{TotalOrders: len(orders)}

	daily := make([]TimeSeriesData, SeriesDays)
	dailyCents := make([]int64, SeriesDays)
	for i := range daily {
		daily[i].Date = seriesStart.AddDate(0, 0, i).Format("2006-01-02")
	}

	statusCount := make(map[order.OrderStatus]int)
	statusCents := make(map[order.OrderStatus]int64)
	products := make(map[string]*ProductSalesData)
	productCents := make(map[string]int64)

	var revenueCents int64
	revenueOrders := 0

	for i := range orders {
		o := &orders[i]
		cents := toCents(o.TotalAmount)

		statusCount[o.Status]++
		statusCents[o.Status] += cents

		counted := o.CountsTowardsRevenue()
		if counted {
			revenueCents += cents
			revenueOrders++
		}

		if idx := dayIndex(o.CreatedAt.In(now.Location()), seriesStart); idx >= 0 && idx < SeriesDays {
			daily[idx].Count++
			if counted {
				dailyCents[idx] += cents
			}
		}

		if !counted {
			continue
		}
		seen := make(map[string]bool, len(o.Items))
		for _, item := range o.Items {
			p, ok := products[item.ProductID]
			if !ok {
				p = &ProductSalesData{ProductID: item.ProductID, ProductName: item.Name}
				products[item.ProductID] = p
			}
			p.TotalSold += item.Quantity
			productCents[item.ProductID] += toCents(item.Price) * int64(item.Quantity)
			if !seen[item.ProductID] {
				p.OrderCount++
				seen[item.ProductID] = true
			}
		}
	}

	summary.TotalRevenue = fromCents(revenueCents)
	if revenueOrders > 0 {
		summary.AverageRevenue = fromCents(revenueCents / int64(revenueOrders))
	}

	for i := range daily {
		daily[i].Revenue = fromCents(dailyCents[i])
	}
	summary.Daily = daily

	summary.ByStatus = make([]StatusData, 0, len(order.Statuses))
	for _, s := range order.Statuses {
		summary.ByStatus = append(summary.ByStatus, StatusData{
			Status: s,
			Count:  statusCount[s],
			Value:  fromCents(statusCents[s]),
		})
	}

	summary.TopProducts = make([]ProductSalesData, 0, len(products))
	for id, p := range products {
		p.Revenue = fromCents(productCents[id])
		summary.TopProducts = append(summary.TopProducts, *p)
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		a, b := summary.TopProducts[i], summary.TopProducts[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.ProductID < b.ProductID
	})
	if len(summary.TopProducts) > topProductsLimit {
		summary.TopProducts = summary.TopProducts[:topProductsLimit]
	}

	return summary
}

// dayIndex returns the number of calendar days between start and t
func dayIndex(t, start time.Time) int {
	if t.Before(start) {
		return -1
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, start.Location())
	// Rounding absorbs 23h and 25h days around DST changes
	return int(math.Round(day.Sub(start).Hours() / 24))
}

func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}
