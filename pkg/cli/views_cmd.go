package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"inventory-hub/internal/domain"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation("id must be a positive integer, got %q", arg)
	}
	return id, nil
}

func newStatusCmd(get func() *backend) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe the health of every upstream service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := requireBackend(get)
			if err != nil {
				return err
			}
			status := b.views.ServicesStatus(cmd.Context())
			return render(cmd, status, writeTo(func(w io.Writer) {
				names := make([]string, 0, len(status))
				for name := range status {
					names = append(names, name)
				}
				sort.Strings(names)
				rows := make([][]string, 0, len(names))
				for _, name := range names {
					h := status[name]
					code := ""
					if h.Code != 0 {
						code = strconv.Itoa(h.Code)
					}
					rows = append(rows, []string{name, h.Status, code, h.Error})
				}
				printTable(w, []string{"service", "status", "code", "error"}, rows)
			}))
		},
	}
}

func newOrderCmd(get func() *backend) *cobra.Command {
	return &cobra.Command{
		Use:   "order <id>",
		Short: "Show an order with product details on each line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := requireBackend(get)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			order, err := b.views.FullOrder(cmd.Context(), id)
			if err != nil {
				return err
			}
			return render(cmd, order, writeTo(func(w io.Writer) {
				customer := ""
				if order.CustomerName != nil {
					customer = *order.CustomerName
				}
				printDetail(w, [][2]string{
					{"id", strconv.FormatInt(order.ID, 10)},
					{"number", order.Number},
					{"customer", customer},
					{"status", order.Status},
					{"total", formatMoney(order.Total)},
				})
				_, _ = fmt.Fprintln(w)
				rows := make([][]string, 0, len(order.Lines))
				for _, l := range order.Lines {
					name, stock := l.ProductName, "-"
					if l.ProductInfo != nil {
						name = l.ProductInfo.Name
						stock = strconv.Itoa(l.ProductInfo.CurrentStock)
					}
					rows = append(rows, []string{
						strconv.FormatInt(l.ProductID, 10), name,
						strconv.Itoa(l.Quantity), formatMoney(l.Subtotal), stock,
					})
				}
				printTable(w, []string{"product", "name", "qty", "subtotal", "stock"}, rows)
			}))
		},
	}
}

func newOrdersCmd(get func() *backend) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Order listings",
	}

	var limit int
	recent := &cobra.Command{
		Use:   "recent",
		Short: "List the newest orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := requireBackend(get)
			if err != nil {
				return err
			}
			page, err := b.views.RecentOrders(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return render(cmd, page, writeTo(func(w io.Writer) {
				rows := make([][]string, 0, len(page.Orders))
				for _, o := range page.Orders {
					rows = append(rows, []string{
						strconv.FormatInt(o.ID, 10), o.Number, o.OrderedAt, o.Status, formatMoney(o.Total),
					})
				}
				printTable(w, []string{"id", "number", "ordered_at", "status", "total"}, rows)
			}))
		},
	}
	recent.Flags().IntVar(&limit, "limit", 0, "number of orders (1-100, default 10)")
	cmd.AddCommand(recent)
	return cmd
}

func newProductCmd(get func() *backend) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show a product with its supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := requireBackend(get)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			product, err := b.views.FullProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			return render(cmd, product, writeTo(func(w io.Writer) {
				supplier := "-"
				if product.SupplierInfo != nil {
					supplier = fmt.Sprintf("%s (%s, %s)", product.SupplierInfo.Name, product.SupplierInfo.Email, product.SupplierInfo.Status)
				}
				printDetail(w, [][2]string{
					{"id", strconv.FormatInt(product.ID, 10)},
					{"name", product.Name},
					{"category", product.Category},
					{"price", formatMoney(product.Price)},
					{"stock", strconv.Itoa(product.Stock)},
					{"supplier", product.Supplier},
					{"supplier_info", supplier},
				})
			}))
		},
	}
}

func newProductsCmd(get func() *backend) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Product listings",
	}

	var threshold int
	lowStock := &cobra.Command{
		Use:   "low-stock",
		Short: "List products whose stock is below a threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := requireBackend(get)
			if err != nil {
				return err
			}
			report, err := b.views.LowStockProducts(cmd.Context(), threshold)
			if err != nil {
				return err
			}
			return render(cmd, report, writeTo(func(w io.Writer) {
				rows := make([][]string, 0, len(report.Products))
				for _, p := range report.Products {
					rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name, p.Category, strconv.Itoa(p.Stock), p.Supplier})
				}
				printTable(w, []string{"id", "name", "category", "stock", "supplier"}, rows)
				if report.Truncated {
					_, _ = fmt.Fprintf(w, "\n(partial: stopped after %d pages)\n", report.PagesFetched)
				}
			}))
		},
	}
	lowStock.Flags().IntVar(&threshold, "threshold", 0, "stock threshold (default 50)")
	cmd.AddCommand(lowStock)
	return cmd
}

func newSuppliersCmd(get func() *backend) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppliers",
		Short: "Supplier listings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "active",
		Short: "List active suppliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := requireBackend(get)
			if err != nil {
				return err
			}
			suppliers, err := b.views.ActiveSuppliers(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, suppliers, writeTo(func(w io.Writer) {
				rows := make([][]string, 0, len(suppliers))
				for _, s := range suppliers {
					rows = append(rows, []string{s.ID, s.Name, s.TaxID, s.Email, strconv.FormatFloat(s.Rating, 'f', 1, 64)})
				}
				printTable(w, []string{"id", "name", "ruc", "email", "rating"}, rows)
			}))
		},
	})
	return cmd
}

func newDashboardCmd(get func() *backend) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show headline counts across the services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := requireBackend(get)
			if err != nil {
				return err
			}
			s := b.views.DashboardSummary(cmd.Context())
			return render(cmd, s, writeTo(func(w io.Writer) {
				degraded := make(map[string]bool, len(s.Degraded))
				for _, m := range s.Degraded {
					degraded[m] = true
				}
				count := func(metric string, v int64) string {
					if degraded[metric] {
						return "unavailable"
					}
					return strconv.FormatInt(v, 10)
				}
				printDetail(w, [][2]string{
					{domain.MetricProducts, count(domain.MetricProducts, s.TotalProducts)},
					{domain.MetricOrders, count(domain.MetricOrders, s.TotalOrders)},
					{domain.MetricSuppliers, count(domain.MetricSuppliers, s.TotalSuppliers)},
					{domain.MetricCategories, count(domain.MetricCategories, s.TotalCategories)},
				})
			}))
		},
	}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
