package pipeline

import (
	"github.com/gridpool/scr/core/model"
	"github.com/gridpool/scr/core/store"
)

// Repos bundles the repository each pipeline stage reads from and commits
// to. Every stage receives only explicit inputs plus these ports; there is
// no ambient registry.
type Repos struct {
	Demands       store.Repository[*model.Demand]
	Bidders       store.Repository[*model.Bidder]
	Offers        store.OfferRepository
	Selected      store.Repository[*model.SelectedList]
	Preparatory   store.Repository[*model.PreparatoryList]
	Distributions store.DistributionRepository
	PoolDist      store.Repository[*model.PoolDistribution]
	PoolPrep      store.Repository[*model.PoolPreparatory]
	Activations   store.Repository[*model.Activation]
	Deployments   store.Repository[*model.Deployment]
	OfferSeries   store.Repository[*model.OfferSeriesRecord]
	UnitSeries    store.Repository[*model.UnitSeriesRecord]
	Verifications store.Repository[*model.Verification]
	Remunerations store.Repository[*model.Remuneration]
	Accountings   store.Repository[*model.Accounting]
}
