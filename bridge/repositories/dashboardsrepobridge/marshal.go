package dashboardsrepobridge

import (
	"time"

	"github.com/kingjawir/marketplace/core/repositories/dashboardsrepo"
)

func marshalRecent(os []dashboardsrepo.RecentOrder) []RecentOrder {
	out := make([]RecentOrder, len(os))
	for i, o := range os {
		out[i] = RecentOrder{
			ID:            o.OrderID,
			Customer:      o.CustomerName,
			CustomerEmail: o.CustomerEmail,
			Total:         o.TotalAmount,
			Status:        o.Status,
			CreatedAt:     o.CreatedAt,
		}
	}
	return out
}

func marshalTop(ps []dashboardsrepo.TopProduct) []TopProduct {
	out := make([]TopProduct, len(ps))
	for i, p := range ps {
		out[i] = TopProduct{ID: p.ProductID, Name: p.Name, Sales: p.Sold, Revenue: p.Revenue}
	}
	return out
}

func marshalAdmin(s dashboardsrepo.AdminStats) AdminStats {
	byStatus := s.OrdersByStatus
	if byStatus == nil {
		byStatus = map[string]int{}
	}
	return AdminStats{
		TotalUsers:     s.TotalUsers,
		TotalSellers:   s.TotalSellers,
		TotalProducts:  s.TotalProducts,
		TotalOrders:    s.TotalOrders,
		TotalRevenue:   s.TotalRevenue,
		RecentOrders:   marshalRecent(s.RecentOrders),
		TopProducts:    marshalTop(s.TopProducts),
		OrdersByStatus: byStatus,
	}
}

func marshalSeller(d dashboardsrepo.SellerDashboard) SellerDashboard {
	return SellerDashboard{
		Stats: SellerStats{
			TotalRevenue:    d.Stats.TotalRevenue,
			TotalOrders:     d.Stats.TotalOrders,
			TotalProducts:   d.Stats.TotalProducts,
			PendingOrders:   d.Stats.PendingOrders,
			CompletedOrders: d.Stats.CompletedOrders,
			CancelledOrders: d.Stats.CancelledOrders,
		},
		RecentOrders: marshalRecent(d.RecentOrders),
		TopProducts:  marshalTop(d.TopProducts),
	}
}

func marshalAnalytics(a dashboardsrepo.Analytics) Analytics {
	out := Analytics{
		Period:             a.Period,
		RevenueData:        make([]RevenuePoint, len(a.RevenueData)),
		OrderData:          make([]OrderPoint, len(a.OrderData)),
		ProductPerformance: marshalTop(a.ProductPerformance),
	}
	for i, p := range a.RevenueData {
		out.RevenueData[i] = RevenuePoint{Date: p.Day.Format(time.DateOnly), Revenue: p.Revenue}
	}
	for i, p := range a.OrderData {
		out.OrderData[i] = OrderPoint{Date: p.Day.Format(time.DateOnly), Orders: p.Orders}
	}
	return out
}
