package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/gridpool/scr/core/metrics"
	"github.com/gridpool/scr/infra/logger"
)

// InfluxSink writes pipeline events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordClearing writes a cleared slice as a point.
func (s *InfluxSink) RecordClearing(ev coremetrics.ClearingEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("tender_cleared").
		AddTag("demand_id", ev.DemandID).
		AddTag("product", ev.Product.String()).
		AddTag("slice", ev.Slice.String()).
		AddField("demanded", round3(ev.Demanded)).
		AddField("allocated", round3(ev.Allocated)).
		AddField("winners", ev.Winners).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDistribution writes a committed distribution slice.
func (s *InfluxSink) RecordDistribution(ev coremetrics.DistributionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("capacity_distributed").
		AddTag("distribution_id", ev.DistributionID).
		AddTag("offer_id", ev.OfferID).
		AddTag("product", ev.Product.String()).
		AddTag("slice", ev.Slice.String()).
		AddField("allocated", round3(ev.Allocated)).
		AddField("slots", ev.Slots).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordDelivery writes an evaluated delivery interval.
func (s *InfluxSink) RecordDelivery(ev coremetrics.DeliveryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("energy_delivered").
		AddTag("subject_id", ev.SubjectID).
		AddTag("product", ev.Product.String()).
		AddTag("slice", ev.Slice.String()).
		AddTag("interval", ev.Interval).
		AddField("deployed", round3(ev.Deployed)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSettlement writes a computed settlement.
func (s *InfluxSink) RecordSettlement(ev coremetrics.SettlementEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("settlement_computed").
		AddTag("subject_id", ev.SubjectID).
		AddTag("product", ev.Product.String()).
		AddTag("slice", ev.Slice.String()).
		AddTag("direction", ev.Direction.String()).
		AddField("capacity", round3(ev.Capacity)).
		AddField("energy", round3(ev.Energy)).
		AddField("total", round3(ev.Total)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
