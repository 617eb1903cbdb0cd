package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gridpool/scr/app"
	"github.com/gridpool/scr/config"
	"github.com/gridpool/scr/connectors/timeseries"
	"github.com/gridpool/scr/core/model"
	"github.com/gridpool/scr/core/pipeline"
	"github.com/gridpool/scr/infra/logger"
)

var tenderCmd = &cobra.Command{
	Use:   "tender",
	Short: "Run a sample tender through clearing, distribution and pooling",
	RunE:  runTender,
}

func init() {
	rootCmd.AddCommand(tenderCmd)
}

func runTender(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("tender-command")
	provider, err := timeseries.NewClient(cfg.Provider)
	if err != nil {
		return fmt.Errorf("series provider: %w", err)
	}
	svc := pipeline.New(app.NewRepos(), provider, pipeline.WithLogger(logg))

	amounts := model.SliceAmounts{100, 100, 100, 100, 100, 100}
	demand, err := model.NewDemand(uuid.NewString(), time.Now().AddDate(0, 0, 1), time.Now().Add(time.Hour), amounts, amounts)
	if err != nil {
		return err
	}
	if err := svc.AddDemand(ctx, demand); err != nil {
		return err
	}
	if err := svc.OpenTender(ctx, demand.ID); err != nil {
		return err
	}

	agg, err := model.NewBidder(uuid.NewString(), "sample-aggregator", model.Aggregator)
	if err != nil {
		return err
	}
	if err := svc.AddBidder(ctx, agg); err != nil {
		return err
	}
	units := []struct {
		name     string
		capPrice float64
		enPrice  float64
		capacity float64
	}{
		{"unit-a", 1, 10, 50},
		{"unit-b", 2, 12, 70},
	}
	for _, u := range units {
		tu, err := model.NewTechnicalUnit(uuid.NewString(), u.name, u.capPrice, u.enPrice, u.capacity)
		if err != nil {
			return err
		}
		if err := svc.AddTechnicalUnit(ctx, agg.ID, *tu); err != nil {
			return err
		}
	}

	var caps model.SliceAmounts
	for i := range caps {
		caps[i] = 120
	}
	bid := model.ProductBid{
		CapacityPrice:   model.SliceAmounts{1, 1, 1, 1, 1, 1},
		EnergyPrice:     model.SliceAmounts{10, 10, 10, 10, 10, 10},
		OfferedCapacity: caps,
	}
	offer, err := model.NewOffer(uuid.NewString(), "sample-offer", agg.ID, demand.ID, bid, bid)
	if err != nil {
		return err
	}
	if err := svc.MakeOffer(ctx, offer); err != nil {
		return err
	}

	selected, err := svc.StopTender(ctx, demand.ID)
	if err != nil {
		return err
	}
	if _, err := svc.PrepareDeployment(ctx, demand.ID); err != nil {
		return err
	}

	proposal := &model.Proposal{}
	for _, p := range model.Products() {
		slices := proposal.Product(p)
		for _, s := range model.Slices() {
			slices[s] = agg.TechnicalUnits
		}
	}
	dist, err := svc.Distribute(ctx, uuid.NewString(), offer.ID, proposal)
	if err != nil {
		return err
	}
	poolDist, poolPrep, err := svc.Pool(ctx, demand.ID)
	if err != nil {
		return err
	}

	for _, s := range model.Slices() {
		logg.Infof("slice %s: cleared %.2f, distributed %.2f, pooled %.2f (trimmed %.2f)",
			s,
			selected.Negative.Total(s),
			dist.Negative.Total(s),
			poolDist.Negative.Total(s),
			poolPrep.Negative.Total(s))
	}
	return nil
}
