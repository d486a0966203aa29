package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/fashioneshop/shopadmin/internal/cache"
	"github.com/fashioneshop/shopadmin/internal/resources"
)

// Dashboard shows the store overview with sales and traffic for a period.
type Dashboard struct {
	env    Env
	period int

	overview watched[resources.Overview]
	sales    watched[resources.SalesReport]
	traffic  watched[resources.TrafficReport]
}

// NewDashboard builds the dashboard for the last period days, 30 when
// period is 0.
func NewDashboard(env Env, period int) *Dashboard {
	env = env.withDefaults()
	if period <= 0 {
		period = resources.DefaultPeriod
	}
	d := &Dashboard{
		env:      env,
		period:   period,
		overview: watched[resources.Overview]{env: env},
		sales:    watched[resources.SalesReport]{env: env},
		traffic:  watched[resources.TrafficReport]{env: env},
	}
	p := "period=" + strconv.Itoa(period)
	d.overview.set(query[resources.Overview]{
		key:   cache.NewKey(resources.NameAnalytics, "overview"),
		fetch: env.API.Analytics.Overview,
	})
	d.sales.set(query[resources.SalesReport]{
		key: cache.NewKey(resources.NameAnalytics, "sales", p),
		fetch: func(ctx context.Context) (resources.SalesReport, error) {
			return env.API.Analytics.Sales(ctx, period)
		},
	})
	d.traffic.set(query[resources.TrafficReport]{
		key: cache.NewKey(resources.NameAnalytics, "traffic", p),
		fetch: func(ctx context.Context) (resources.TrafficReport, error) {
			return env.API.Analytics.Traffic(ctx, period)
		},
	})
	return d
}

// Load reads the three reports concurrently. The first failure is
// returned; the other reports still land in the cache.
func (d *Dashboard) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := d.overview.load(ctx)
		return err
	})
	g.Go(func() error {
		_, err := d.sales.load(ctx)
		return err
	})
	g.Go(func() error {
		_, err := d.traffic.load(ctx)
		return err
	})
	return g.Wait()
}

// Refresh refetches every report.
func (d *Dashboard) Refresh() {
	d.env.Cache.Invalidate(resources.NameAnalytics)
}

func (d *Dashboard) Render(w io.Writer) error {
	period := fmt.Sprintf("last %d days", d.period)
	sections := []func() error{
		func() error {
			return renderSnapshot(w, grid{title: "Dashboard", headers: []string{"Metric", "Value"}},
				d.overview.snapshot(), overviewRows)
		},
		func() error {
			return renderSnapshot(w, grid{title: "Recent Orders", empty: "No orders yet", headers: []string{"ID", "Customer", "Total", "Status"}},
				d.overview.snapshot(), func(o resources.Overview) [][]string {
					rows := make([][]string, 0, len(o.RecentOrders))
					for _, r := range o.RecentOrders {
						rows = append(rows, []string{ref(r.ID), r.CustomerName, money(r.Total), r.Status})
					}
					return rows
				})
		},
		func() error {
			return renderSnapshot(w, grid{title: "Low Stock", empty: "All products are well stocked", headers: []string{"ID", "Title", "Stock"}},
				d.overview.snapshot(), func(o resources.Overview) [][]string {
					rows := make([][]string, 0, len(o.LowStockProducts))
					for _, p := range o.LowStockProducts {
						rows = append(rows, []string{ref(p.ID), p.Title, num(p.Stock)})
					}
					return rows
				})
		},
		func() error {
			return renderSnapshot(w, grid{title: "Sales, " + period, headers: []string{"Metric", "Value"}},
				d.sales.snapshot(), func(s resources.SalesReport) [][]string {
					return [][]string{
						{"Orders", num(s.TotalOrders)},
						{"Revenue", money(s.TotalRevenue)},
						{"Average order", money(s.AverageOrderValue)},
					}
				})
		},
		func() error {
			return renderSnapshot(w, grid{title: "Top Pages, " + period, empty: "No page views recorded", headers: []string{"Path", "Views"}},
				d.traffic.snapshot(), func(t resources.TrafficReport) [][]string {
					rows := make([][]string, 0, len(t.TopPages))
					for _, p := range t.TopPages {
						rows = append(rows, []string{p.Path, num(p.Views)})
					}
					return rows
				})
		},
	}
	for _, section := range sections {
		if err := section(); err != nil {
			return err
		}
	}
	return nil
}

func overviewRows(o resources.Overview) [][]string {
	return [][]string{
		{"Orders Today", num(o.Today.OrdersToday)},
		{"Revenue Today", money(o.Today.RevenueToday)},
		{"This Week", fmt.Sprintf("%s (%s orders)", money(o.Week.RevenueWeek), num(o.Week.OrdersWeek))},
		{"Pending Orders", num(o.PendingOrders)},
		{"Products", num(o.TotalProducts)},
		{"Orders", num(o.TotalOrders)},
	}
}

// Close stops change notifications.
func (d *Dashboard) Close() {
	d.overview.close()
	d.sales.close()
	d.traffic.close()
}
