package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/erp/internal/app"
	"github.com/vladislavdragonenkov/erp/internal/domain"
	"github.com/vladislavdragonenkov/erp/internal/service/session"
)

// scenario - параметры демонстрационной сессии.
type scenario struct {
	customerID   int64
	business     bool
	subscription bool
	shipments    int
	discount     string
	percentage   int
	threshold    int
	qty          int
	priority     []string
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	sc, err := parseScenario(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	cfg, warnings := app.ConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.WithField("component", "config").Warn(warning)
	}

	if err := run(context.Background(), cfg, sc, os.Stdout); err != nil {
		log.WithField("component", "order-session").WithError(err).Fatal("session failed")
	}
}

func parseScenario(args []string, errOut io.Writer) (scenario, error) {
	fs := flag.NewFlagSet("order-session", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var (
		sc       scenario
		priority string
	)
	fs.Int64Var(&sc.customerID, "customer", 1, "customer id")
	fs.BoolVar(&sc.business, "business", false, "business invoice")
	fs.BoolVar(&sc.subscription, "subscription", false, "create a subscription order")
	fs.IntVar(&sc.shipments, "shipments", 4, "number of subscription shipments")
	fs.StringVar(&sc.discount, "discount", string(domain.DiscountFlatRate), "discount kind: flat|bulk")
	fs.IntVar(&sc.percentage, "percentage", 20, "discount percentage 0..100")
	fs.IntVar(&sc.threshold, "threshold", 5, "bulk discount quantity threshold")
	fs.IntVar(&sc.qty, "qty", 1, "quantity of every catalog product")
	fs.StringVar(&priority, "priority", "", "comma-separated contact methods, e.g. \"email,carrier pigeon\"")
	if err := fs.Parse(args); err != nil {
		return scenario{}, err
	}

	for _, name := range strings.Split(priority, ",") {
		if name = strings.TrimSpace(name); name != "" {
			sc.priority = append(sc.priority, name)
		}
	}
	return sc, nil
}

// run проходит полный цикл: вход, заказ, позиции из каталога, финализация, выход.
func run(ctx context.Context, cfg app.Config, sc scenario, out io.Writer) (err error) {
	deps, err := app.NewDependencies(ctx, cfg, log.WithField("component", "order-session-cli"))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, deps.Close())
	}()

	sess, err := deps.Sessions.Login(cfg.Username, cfg.Password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	orderID, err := sess.CreateOrder(session.CreateOrderParams{
		CustomerID:         sc.customerID,
		IsBusiness:         sc.business,
		IsSubscription:     sc.subscription,
		Discount:           domain.DiscountKind(sc.discount),
		DiscountThreshold:  sc.threshold,
		DiscountPercentage: sc.percentage,
		Shipments:          sc.shipments,
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	products, err := sess.AllProducts()
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	for _, product := range products {
		if err := sess.SetOrderLine(orderID, product, sc.qty); err != nil {
			return fmt.Errorf("set line %s: %w", product.Name(), err)
		}
	}

	short, _, err := sess.OrderShortDesc(orderID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, short)

	sent, err := sess.FinaliseOrder(orderID, sc.priority)
	if err != nil {
		return fmt.Errorf("finalise order: %w", err)
	}
	if sent {
		_, _ = fmt.Fprintln(out, "invoice sent")
	} else {
		methods, _ := sess.KnownContactMethods()
		_, _ = fmt.Fprintf(out, "invoice not sent: no reachable channel among %s\n", strings.Join(methods, ", "))
	}

	long, _, err := sess.OrderLongDesc(orderID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(out, long)

	if err := sess.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
