package dashboardsrepobridge

import "time"

type RecentOrder struct {
	ID            string    `json:"id"`
	Customer      string    `json:"customer"`
	CustomerEmail string    `json:"customerEmail"`
	Total         int64     `json:"total"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type TopProduct struct {
	ID      *string `json:"id"`
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue int64   `json:"revenue"`
}

type AdminStats struct {
	TotalUsers     int            `json:"totalUsers"`
	TotalSellers   int            `json:"totalSellers"`
	TotalProducts  int            `json:"totalProducts"`
	TotalOrders    int            `json:"totalOrders"`
	TotalRevenue   int64          `json:"totalRevenue"`
	RecentOrders   []RecentOrder  `json:"recentOrders"`
	TopProducts    []TopProduct   `json:"topProducts"`
	OrdersByStatus map[string]int `json:"ordersByStatus"`
}

type SellerStats struct {
	TotalRevenue    int64 `json:"totalRevenue"`
	TotalOrders     int   `json:"totalOrders"`
	TotalProducts   int   `json:"totalProducts"`
	PendingOrders   int   `json:"pendingOrders"`
	CompletedOrders int   `json:"completedOrders"`
	CancelledOrders int   `json:"cancelledOrders"`
}

type SellerDashboard struct {
	Stats        SellerStats   `json:"stats"`
	RecentOrders []RecentOrder `json:"recentOrders"`
	TopProducts  []TopProduct  `json:"topProducts"`
}

type RevenuePoint struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

type OrderPoint struct {
	Date   string `json:"date"`
	Orders int    `json:"orders"`
}

type Analytics struct {
	Period             string         `json:"period"`
	RevenueData        []RevenuePoint `json:"revenueData"`
	OrderData          []OrderPoint   `json:"orderData"`
	ProductPerformance []TopProduct   `json:"productPerformance"`
}
