package dashboardsrepo

import "time"

type RecentOrder struct {
	OrderID       string    `db:"order_id"`
	Status        string    `db:"status"`
	TotalAmount   int64     `db:"total_amount"`
	CreatedAt     time.Time `db:"created_at"`
	CustomerName  string    `db:"customer_name"`
	CustomerEmail string    `db:"customer_email"`
}

// TopProduct is a product ranked by units sold. ProductID is nil for items
// whose product was deleted.
type TopProduct struct {
	ProductID *string `db:"product_id"`
	Name      string  `db:"name"`
	Sold      int     `db:"sold"`
	Revenue   int64   `db:"revenue"`
}

type AdminStats struct {
	TotalUsers     int
	TotalSellers   int
	TotalProducts  int
	TotalOrders    int
	TotalRevenue   int64
	RecentOrders   []RecentOrder
	TopProducts    []TopProduct
	OrdersByStatus map[string]int
}

type SellerStats struct {
	TotalRevenue    int64
	TotalOrders     int
	TotalProducts   int
	PendingOrders   int
	CompletedOrders int
	CancelledOrders int
}

type SellerDashboard struct {
	Stats        SellerStats
	RecentOrders []RecentOrder
	TopProducts  []TopProduct
}

// DailyPoint is one day of a seller's sales.
type DailyPoint struct {
	Day     time.Time `db:"day"`
	Revenue int64     `db:"revenue"`
	Orders  int       `db:"orders"`
}

type Analytics struct {
	Period             string
	RevenueData        []DailyPoint
	OrderData          []DailyPoint
	ProductPerformance []TopProduct
}

// Analytics periods and the number of days they cover.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

var periodDays = map[string]int{
	PeriodDay:   1,
	PeriodWeek:  7,
	PeriodMonth: 30,
}

// FillDays returns one point per day from start for n days, taking values
// from points and zero elsewhere.
func FillDays(start time.Time, n int, points []DailyPoint) []DailyPoint {
	start = truncateDay(start)
	byDay := make(map[time.Time]DailyPoint, len(points))
	for _, p := range points {
		byDay[truncateDay(p.Day)] = p
	}

	out := make([]DailyPoint, 0, n)
	for i := range n {
		day := start.AddDate(0, 0, i)
		p := byDay[day]
		p.Day = day
		out = append(out, p)
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
