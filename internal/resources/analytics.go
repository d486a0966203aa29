package resources

import (
	"context"
	"strconv"

	"github.com/fashioneshop/shopadmin/internal/client"
)

// DefaultPeriod is the report window in days when none is given.
const DefaultPeriod = 30

// Analytics reads dashboard reports.
type Analytics struct{ c *client.Client }

func (a *Analytics) Overview(ctx context.Context) (Overview, error) {
	return client.Get[Overview](ctx, a.c, "/analytics/overview")
}

// Sales reports revenue over the last period days; zero means DefaultPeriod.
func (a *Analytics) Sales(ctx context.Context, period int) (SalesReport, error) {
	return client.Get[SalesReport](ctx, a.c, "/analytics/sales?period="+periodOrDefault(period))
}

// Traffic reports page views over the last period days; zero means
// DefaultPeriod.
func (a *Analytics) Traffic(ctx context.Context, period int) (TrafficReport, error) {
	return client.Get[TrafficReport](ctx, a.c, "/analytics/traffic?period="+periodOrDefault(period))
}

func periodOrDefault(period int) string {
	if period == 0 {
		period = DefaultPeriod
	}
	return strconv.Itoa(period)
}
