package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridpool/scr/core/audit"
	"github.com/gridpool/scr/core/clearing"
	"github.com/gridpool/scr/core/delivery"
	"github.com/gridpool/scr/core/distribution"
	"github.com/gridpool/scr/core/events"
	"github.com/gridpool/scr/core/logger"
	"github.com/gridpool/scr/core/metrics"
	"github.com/gridpool/scr/core/model"
	"github.com/gridpool/scr/core/settlement"
	"github.com/gridpool/scr/core/store"
	"github.com/gridpool/scr/core/timeseries"
	"github.com/gridpool/scr/internal/eventbus"
)

// Service drives the tender pipeline from demand publication to unit
// accounting. Every operation validates its inputs and derives all
// artifacts before the first repository write, so a failed call leaves
// the stores untouched.
type Service struct {
	repos    Repos
	provider timeseries.Provider
	notifier events.Notifier
	bus      *eventbus.Bus[events.Event]
	auditor  audit.Store
	sink     metrics.MetricsSink
	log      logger.Logger
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithNotifier publishes stage events to an external broker.
func WithNotifier(n events.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithBus mirrors stage events onto an in-process bus.
func WithBus(b *eventbus.Bus[events.Event]) Option {
	return func(s *Service) { s.bus = b }
}

// WithAudit appends a stage record for every committed operation.
func WithAudit(a audit.Store) Option {
	return func(s *Service) { s.auditor = a }
}

// WithMetrics records stage observations on the given sink.
func WithMetrics(m metrics.MetricsSink) Option {
	return func(s *Service) { s.sink = m }
}

// WithLogger replaces the default nop logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces the wall clock, used by deadline checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(repos Repos, provider timeseries.Provider, opts ...Option) *Service {
	s := &Service{
		repos:    repos,
		provider: provider,
		sink:     &metrics.NopSink{},
		log:      &logger.NopLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ensureAbsent rejects an id that is already taken before any state is
// mutated, keeping multi-write operations all-or-nothing.
func ensureAbsent[T any](r store.Repository[T], id string) error {
	if _, err := r.Get(id); err == nil {
		return fmt.Errorf("%s: %w", id, store.ErrAlreadyExists)
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
	if s.notifier != nil {
		if err := s.notifier.Publish(ev); err != nil {
			s.log.Warnf("publishing %s: %v", ev.Name(), err)
		}
	}
}

func (s *Service) record(ctx context.Context, stage, entityID, demandID string, details map[string]any) {
	if s.auditor == nil {
		return
	}
	rec := audit.StageRecord{
		Timestamp: s.now().UTC(),
		Stage:     stage,
		EntityID:  entityID,
		DemandID:  demandID,
		Details:   details,
	}
	if err := s.auditor.Append(ctx, rec); err != nil {
		s.log.Warnf("auditing %s: %v", stage, err)
	}
}

// AddDemand registers a new demand. The tender is not yet open for
// offers; see OpenTender.
func (s *Service) AddDemand(ctx context.Context, d *model.Demand) error {
	if d == nil {
		return model.ValidationError{Reason: "demand is nil"}
	}
	if d.Status != model.TenderCreated {
		return model.ValidationError{Reason: "demand must be submitted in CREATED status"}
	}
	if err := s.repos.Demands.Add(d.ID, d); err != nil {
		return err
	}
	s.record(ctx, "demand", d.ID, d.ID, map[string]any{"deliveryPeriod": d.DeliveryPeriod})
	s.log.Infof("demand %s registered for %s", d.ID, d.DeliveryPeriod)
	return nil
}

// OpenTender moves a demand from CREATED to IN_PROGRESS and announces
// the start of the bidding window.
func (s *Service) OpenTender(ctx context.Context, demandID string) error {
	d, err := s.repos.Demands.Get(demandID)
	if err != nil {
		return err
	}
	if d.Status != model.TenderCreated {
		return model.ValidationError{Reason: fmt.Sprintf("tender %s is already started", demandID)}
	}
	d.Status = model.TenderInProgress
	if err := s.repos.Demands.Update(demandID, d); err != nil {
		return err
	}
	s.record(ctx, "tender_open", demandID, demandID, nil)
	s.publish(events.TenderStarted{DemandID: demandID})
	return nil
}

// AddBidder registers a market participant.
func (s *Service) AddBidder(ctx context.Context, b *model.Bidder) error {
	if b == nil {
		return model.ValidationError{Reason: "bidder is nil"}
	}
	if err := s.repos.Bidders.Add(b.ID, b); err != nil {
		return err
	}
	s.record(ctx, "bidder", b.ID, "", map[string]any{"type": b.Type.String()})
	return nil
}

// AddTechnicalUnit affiliates a unit with an existing bidder.
func (s *Service) AddTechnicalUnit(ctx context.Context, bidderID string, unit model.TechnicalUnit) error {
	b, err := s.repos.Bidders.Get(bidderID)
	if err != nil {
		return err
	}
	if b.Affiliated(unit.ID) {
		return model.ValidationError{Reason: fmt.Sprintf("unit %s is already affiliated with bidder %s", unit.ID, bidderID)}
	}
	b.Affiliate(unit)
	if err := s.repos.Bidders.Update(bidderID, b); err != nil {
		return err
	}
	s.record(ctx, "technical_unit", unit.ID, "", map[string]any{"bidder": bidderID})
	return nil
}

// MakeOffer submits an offer against an open tender. Offers are
// rejected once the tender is finished or its deadline has passed.
func (s *Service) MakeOffer(ctx context.Context, o *model.Offer) error {
	if o == nil {
		return model.ValidationError{Reason: "offer is nil"}
	}
	d, err := s.repos.Demands.Get(o.DemandID)
	if err != nil {
		return err
	}
	if d.Status != model.TenderInProgress {
		return model.ValidationError{Reason: fmt.Sprintf("tender %s is not open for offers", d.ID)}
	}
	if !d.Open(s.now()) {
		return model.ValidationError{Reason: fmt.Sprintf("tender %s deadline has passed", d.ID)}
	}
	if _, err := s.repos.Bidders.Get(o.BidderID); err != nil {
		return err
	}
	if err := s.repos.Offers.Add(o.ID, o); err != nil {
		return err
	}
	s.record(ctx, "offer", o.ID, o.DemandID, map[string]any{"bidder": o.BidderID})
	s.log.Debugf("offer %s submitted against %s", o.ID, o.DemandID)
	return nil
}

// StopTender closes the bidding window, clears the tender against all
// submitted offers and stores the winner list under the demand id.
func (s *Service) StopTender(ctx context.Context, demandID string) (*model.SelectedList, error) {
	d, err := s.repos.Demands.Get(demandID)
	if err != nil {
		return nil, err
	}
	switch d.Status {
	case model.TenderCreated:
		return nil, model.ValidationError{Reason: fmt.Sprintf("tender %s has not started", demandID)}
	case model.TenderFinished:
		return nil, model.ValidationError{Reason: fmt.Sprintf("tender %s is already finished", demandID)}
	}
	offers, err := s.repos.Offers.ByDemand(demandID)
	if err != nil {
		return nil, err
	}
	selected, err := clearing.ClearTender(d, offers)
	if err != nil {
		return nil, err
	}
	// The winner list commits before the status flips; repositories may
	// hand out live references, so the demand is only mutated once no
	// write can fail anymore.
	if err := s.repos.Selected.Add(demandID, selected); err != nil {
		return nil, err
	}
	d.Status = model.TenderFinished
	if err := s.repos.Demands.Update(demandID, d); err != nil {
		return nil, err
	}
	s.observeClearing(d, selected)
	s.record(ctx, "clearing", demandID, demandID, map[string]any{"offers": len(offers)})
	s.publish(events.TenderStopped{DemandID: demandID})
	s.publish(events.TenderResultsAnnounced{DemandID: demandID})
	s.log.Infof("tender %s cleared with %d offers", demandID, len(offers))
	return selected, nil
}

func (s *Service) observe(err error) {
	if err != nil {
		s.log.Warnf("recording metrics: %v", err)
	}
}

func (s *Service) observeClearing(d *model.Demand, selected *model.SelectedList) {
	for _, p := range model.Products() {
		winners := selected.Product(p)
		for _, slice := range model.Slices() {
			s.observe(s.sink.RecordClearing(metrics.ClearingEvent{
				DemandID:  d.ID,
				Product:   p,
				Slice:     slice,
				Demanded:  d.Required(p, slice),
				Allocated: winners.Total(slice),
				Winners:   len(winners[slice]),
				Time:      s.now(),
			}))
		}
	}
}

// PrepareDeployment re-sequences the cleared winners by energy price
// and stores the deployment order under the demand id.
func (s *Service) PrepareDeployment(ctx context.Context, demandID string) (*model.PreparatoryList, error) {
	selected, err := s.repos.Selected.Get(demandID)
	if err != nil {
		return nil, err
	}
	offers, err := s.repos.Offers.ByDemand(demandID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Offer, len(offers))
	for _, o := range offers {
		byID[o.ID] = o
	}
	prep, err := clearing.Sequence(selected, byID)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Preparatory.Add(demandID, prep); err != nil {
		return nil, err
	}
	s.record(ctx, "sequencing", demandID, demandID, nil)
	return prep, nil
}

// Distribute splits an aggregator's cleared capacity across the
// technical units proposed for each slice and product.
func (s *Service) Distribute(ctx context.Context, distributionID, offerID string, proposal *model.Proposal) (*model.Distribution, error) {
	if proposal == nil {
		return nil, model.ValidationError{Reason: "proposal is nil"}
	}
	o, err := s.repos.Offers.Get(offerID)
	if err != nil {
		return nil, err
	}
	b, err := s.repos.Bidders.Get(o.BidderID)
	if err != nil {
		return nil, err
	}
	prep, err := s.repos.Preparatory.Get(o.DemandID)
	if err != nil {
		return nil, err
	}
	dist, err := distribution.Distribute(distributionID, o, b, prep, proposal)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Distributions.Add(distributionID, dist); err != nil {
		return nil, err
	}
	s.observeDistribution(dist)
	s.record(ctx, "distribution", distributionID, o.DemandID, map[string]any{"offer": offerID})
	s.publish(events.DistributionCompleted{DistributionID: distributionID})
	return dist, nil
}

func (s *Service) observeDistribution(dist *model.Distribution) {
	for _, p := range model.Products() {
		slots := dist.Product(p)
		for _, slice := range model.Slices() {
			s.observe(s.sink.RecordDistribution(metrics.DistributionEvent{
				DistributionID: dist.ID,
				OfferID:        dist.OfferID,
				Product:        p,
				Slice:          slice,
				Allocated:      slots.Total(slice),
				Slots:          len(slots[slice]),
				Time:           s.now(),
			}))
		}
	}
}

// Pool merges all distributions of a demand into the buffered pool and
// the preparatory pool trimmed back to the cleared volume.
func (s *Service) Pool(ctx context.Context, demandID string) (*model.PoolDistribution, *model.PoolPreparatory, error) {
	prep, err := s.repos.Preparatory.Get(demandID)
	if err != nil {
		return nil, nil, err
	}
	dists, err := s.repos.Distributions.ByDemand(demandID)
	if err != nil {
		return nil, nil, err
	}
	if err := ensureAbsent(s.repos.PoolDist, demandID); err != nil {
		return nil, nil, err
	}
	if err := ensureAbsent(s.repos.PoolPrep, demandID); err != nil {
		return nil, nil, err
	}
	poolDist, poolPrep, err := distribution.Pool(demandID, dists, prep)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repos.PoolDist.Add(demandID, poolDist); err != nil {
		return nil, nil, err
	}
	if err := s.repos.PoolPrep.Add(demandID, poolPrep); err != nil {
		return nil, nil, err
	}
	s.record(ctx, "pooling", demandID, demandID, map[string]any{"distributions": len(dists)})
	return poolDist, poolPrep, nil
}

// RecordVerification applies pre-delivery test outcomes to the
// preparatory pool and stores the aggregate verdict.
func (s *Service) RecordVerification(ctx context.Context, verificationID, demandID string, results *delivery.VerificationResults) (*model.Verification, error) {
	if results == nil {
		return nil, model.ValidationError{Reason: "verification results are nil"}
	}
	poolPrep, err := s.repos.PoolPrep.Get(demandID)
	if err != nil {
		return nil, err
	}
	if err := ensureAbsent(s.repos.Verifications, verificationID); err != nil {
		return nil, err
	}
	verdict, err := delivery.ApplyVerification(poolPrep, results)
	if err != nil {
		return nil, err
	}
	v := &model.Verification{ID: verificationID, DemandID: demandID, Result: verdict}
	if err := s.repos.Verifications.Add(verificationID, v); err != nil {
		return nil, err
	}
	if err := s.repos.PoolPrep.Update(demandID, poolPrep); err != nil {
		return nil, err
	}
	s.record(ctx, "verification", verificationID, demandID, map[string]any{"result": verdict.String()})
	s.publish(events.TestCompleted{DemandID: demandID, Result: verdict})
	return v, nil
}

func seriesRecordID(ownerID, interval string, slice model.TimeSlice) string {
	return fmt.Sprintf("%s-%s_%s", ownerID, interval, slice.Key())
}

// Activate fetches the measured activation series for an offer, scores
// the delivered energy and stores the activation with its raw series.
func (s *Service) Activate(ctx context.Context, activationID, offerID string, product model.ProductType, interval string, slice model.TimeSlice) (*model.Activation, error) {
	if _, err := s.repos.Offers.Get(offerID); err != nil {
		return nil, err
	}
	series, err := s.provider.OfferSeries(ctx, offerID, interval, slice, product)
	if err != nil {
		return nil, fmt.Errorf("fetching activation series for offer %s: %w", offerID, err)
	}
	recordID := seriesRecordID(offerID, interval, slice)
	act, rec, err := delivery.EvaluateActivation(activationID, recordID, offerID, product, interval, slice, series)
	if err != nil {
		return nil, err
	}
	if err := ensureAbsent(s.repos.OfferSeries, recordID); err != nil {
		return nil, err
	}
	if err := s.repos.Activations.Add(activationID, act); err != nil {
		return nil, err
	}
	if err := s.repos.OfferSeries.Add(recordID, rec); err != nil {
		return nil, err
	}
	s.observe(s.sink.RecordDelivery(metrics.DeliveryEvent{
		SubjectID: offerID,
		Product:   product,
		Slice:     slice,
		Interval:  interval,
		Deployed:  act.DeployedTotal,
		Time:      s.now(),
	}))
	s.record(ctx, "activation", activationID, "", map[string]any{"offer": offerID, "slice": slice.String()})
	return act, nil
}

// Deploy fetches the measured series for a single technical unit and
// stores the deployment with its raw series.
func (s *Service) Deploy(ctx context.Context, deploymentID, unitID, demandID string, product model.ProductType, interval string, slice model.TimeSlice) (*model.Deployment, error) {
	if _, err := s.repos.PoolPrep.Get(demandID); err != nil {
		return nil, err
	}
	series, err := s.provider.UnitSeries(ctx, unitID, interval, slice)
	if err != nil {
		return nil, fmt.Errorf("fetching deployment series for unit %s: %w", unitID, err)
	}
	recordID := seriesRecordID(unitID, interval, slice)
	dep, rec, err := delivery.EvaluateDeployment(deploymentID, recordID, unitID, demandID, product, interval, slice, series)
	if err != nil {
		return nil, err
	}
	if err := ensureAbsent(s.repos.UnitSeries, recordID); err != nil {
		return nil, err
	}
	if err := s.repos.Deployments.Add(deploymentID, dep); err != nil {
		return nil, err
	}
	if err := s.repos.UnitSeries.Add(recordID, rec); err != nil {
		return nil, err
	}
	s.observe(s.sink.RecordDelivery(metrics.DeliveryEvent{
		SubjectID: unitID,
		Product:   product,
		Slice:     slice,
		Interval:  interval,
		Deployed:  dep.DeployedTotal,
		Time:      s.now(),
	}))
	s.record(ctx, "deployment", deploymentID, demandID, map[string]any{"unit": unitID, "slice": slice.String()})
	return dep, nil
}

// SettleOffer computes the remuneration owed for one stored activation.
func (s *Service) SettleOffer(ctx context.Context, remunerationID, activationID string) (*model.Remuneration, error) {
	act, err := s.repos.Activations.Get(activationID)
	if err != nil {
		return nil, err
	}
	o, err := s.repos.Offers.Get(act.OfferID)
	if err != nil {
		return nil, err
	}
	prep, err := s.repos.Preparatory.Get(o.DemandID)
	if err != nil {
		return nil, err
	}
	rec, err := s.repos.OfferSeries.Get(seriesRecordID(act.OfferID, act.Interval, act.Slice))
	if err != nil {
		return nil, err
	}
	series := &timeseries.OfferSeries{
		SetValue:         timeseries.Series(rec.SetValue),
		ActualValue:      timeseries.Series(rec.ActualValue),
		UpperLimit:       timeseries.Series(rec.UpperLimit),
		LowerLimit:       timeseries.Series(rec.LowerLimit),
		UnderFulfillment: timeseries.Series(rec.UnderFulfillment),
	}
	rem, err := settlement.SettleOffer(remunerationID, o, act, prep, series)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Remunerations.Add(remunerationID, rem); err != nil {
		return nil, err
	}
	s.observe(s.sink.RecordSettlement(metrics.SettlementEvent{
		SubjectID: act.OfferID,
		Product:   act.Product,
		Slice:     act.Slice,
		Capacity:  rem.Info.ProcuredCapacity,
		Energy:    rem.Info.DeployedEnergy,
		Total:     rem.Info.Total,
		Direction: rem.Info.Direction,
		Time:      s.now(),
	}))
	s.record(ctx, "remuneration", remunerationID, o.DemandID, map[string]any{"activation": activationID, "total": rem.Info.Total})
	return rem, nil
}

// SettleUnit computes the accounting entry for one stored deployment.
func (s *Service) SettleUnit(ctx context.Context, accountingID, deploymentID string) (*model.Accounting, error) {
	dep, err := s.repos.Deployments.Get(deploymentID)
	if err != nil {
		return nil, err
	}
	poolPrep, err := s.repos.PoolPrep.Get(dep.DemandID)
	if err != nil {
		return nil, err
	}
	rec, err := s.repos.UnitSeries.Get(seriesRecordID(dep.UnitID, dep.Interval, dep.Slice))
	if err != nil {
		return nil, err
	}
	series := &timeseries.UnitSeries{
		OfferSeries: timeseries.OfferSeries{
			SetValue:         timeseries.Series(rec.SetValue),
			ActualValue:      timeseries.Series(rec.ActualValue),
			UpperLimit:       timeseries.Series(rec.UpperLimit),
			LowerLimit:       timeseries.Series(rec.LowerLimit),
			UnderFulfillment: timeseries.Series(rec.UnderFulfillment),
		},
		AcceptanceValue:          timeseries.Series(rec.AcceptanceValue),
		AllocableAcceptanceValue: timeseries.Series(rec.AllocableAcceptanceValue),
		AcceptanceValueTU:        timeseries.Series(rec.AcceptanceValueTU),
		UnderFulfillmentTU:       timeseries.Series(rec.UnderFulfillmentTU),
		Proportion:               rec.Proportion,
	}
	acc, err := settlement.SettleUnit(accountingID, dep, poolPrep, series)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Accountings.Add(accountingID, acc); err != nil {
		return nil, err
	}
	s.observe(s.sink.RecordSettlement(metrics.SettlementEvent{
		SubjectID: dep.UnitID,
		Product:   dep.Product,
		Slice:     dep.Slice,
		Capacity:  acc.Info.ProcuredCapacity,
		Energy:    acc.Info.DeployedEnergy,
		Total:     acc.Info.Total,
		Direction: acc.Info.Direction,
		Time:      s.now(),
	}))
	s.record(ctx, "accounting", accountingID, dep.DemandID, map[string]any{"deployment": deploymentID, "total": acc.Info.Total})
	return acc, nil
}
