package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/shared/strategy"
)

// ConsumptionMethod defines the order in which batches are drained
type ConsumptionMethod string

const (
	// ConsumptionMethodFIFO drains the oldest batches first
	ConsumptionMethodFIFO ConsumptionMethod = "FIFO"
	// ConsumptionMethodLIFO drains the newest batches first
	ConsumptionMethodLIFO ConsumptionMethod = "LIFO"
)

// IsValid checks if the consumption method is valid
func (m ConsumptionMethod) IsValid() bool {
	switch m {
	case ConsumptionMethodFIFO, ConsumptionMethodLIFO:
		return true
	}
	return false
}

// String returns the string representation
func (m ConsumptionMethod) String() string {
	return string(m)
}

// AllConsumptionMethods returns all valid consumption methods
func AllConsumptionMethods() []ConsumptionMethod {
	return []ConsumptionMethod{ConsumptionMethodFIFO, ConsumptionMethodLIFO}
}

// BatchConsumption describes how much one batch contributes to a consumption
type BatchConsumption struct {
	BatchID          uuid.UUID       // ID of the consumed batch
	ConsumedQuantity decimal.Decimal // Amount taken from this batch
	CostPrice        decimal.Decimal // Per-unit cost of this batch
	TotalCost        decimal.Decimal // ConsumedQuantity * CostPrice
	RemainingInBatch decimal.Decimal // Remaining quantity after the take
	Depleted         bool            // True if the batch is now empty
}

// ConsumptionResult is the complete plan for one consumption
type ConsumptionResult struct {
	Consumptions     []BatchConsumption // Per-batch takes, in drain order
	TotalConsumed    decimal.Decimal    // Sum of all takes
	TotalCost        decimal.Decimal    // Sum of all per-batch costs
	AverageCostPrice decimal.Decimal    // Weighted average cost per unit
	PrimaryBatchID   uuid.UUID          // First batch drained
}

// ConsumptionStrategy plans which batches to drain for an outgoing quantity
type ConsumptionStrategy interface {
	strategy.Strategy
	// Method returns the consumption method this strategy implements
	Method() ConsumptionMethod
	// SelectBatches plans the per-batch takes for the requested quantity.
	// It fails with INSUFFICIENT_STOCK when the batches cannot cover the
	// request; no partial plan is ever returned.
	SelectBatches(requested decimal.Decimal, batches []*StockBatch) (*ConsumptionResult, error)
}

// FIFOConsumptionStrategy drains batches oldest-first by creation time
type FIFOConsumptionStrategy struct {
	strategy.BaseStrategy
}

// NewFIFOConsumptionStrategy creates a new FIFO consumption strategy
func NewFIFOConsumptionStrategy() *FIFOConsumptionStrategy {
	return &FIFOConsumptionStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fifo_consumption",
			strategy.StrategyTypeBatch,
			"FIFO consumption - drains the oldest batches first by creation time",
		),
	}
}

// Method returns the consumption method
func (s *FIFOConsumptionStrategy) Method() ConsumptionMethod {
	return ConsumptionMethodFIFO
}

// SelectBatches plans a FIFO consumption
func (s *FIFOConsumptionStrategy) SelectBatches(requested decimal.Decimal, batches []*StockBatch) (*ConsumptionResult, error) {
	available, err := prepareBatches(requested, batches)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].CreatedAt.Before(available[j].CreatedAt)
	})

	return planConsumption(requested, available)
}

// LIFOConsumptionStrategy drains batches newest-first by creation time
type LIFOConsumptionStrategy struct {
	strategy.BaseStrategy
}

// NewLIFOConsumptionStrategy creates a new LIFO consumption strategy
func NewLIFOConsumptionStrategy() *LIFOConsumptionStrategy {
	return &LIFOConsumptionStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"lifo_consumption",
			strategy.StrategyTypeBatch,
			"LIFO consumption - drains the newest batches first by creation time",
		),
	}
}

// Method returns the consumption method
func (s *LIFOConsumptionStrategy) Method() ConsumptionMethod {
	return ConsumptionMethodLIFO
}

// SelectBatches plans a LIFO consumption
func (s *LIFOConsumptionStrategy) SelectBatches(requested decimal.Decimal, batches []*StockBatch) (*ConsumptionResult, error) {
	available, err := prepareBatches(requested, batches)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].CreatedAt.After(available[j].CreatedAt)
	})

	return planConsumption(requested, available)
}

// prepareBatches validates the request and pre-checks availability so no
// partial consumption is ever planned
func prepareBatches(requested decimal.Decimal, batches []*StockBatch) ([]*StockBatch, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Requested quantity must be positive")
	}

	available := filterAvailableBatches(batches)
	if ok, total := ValidateAvailability(available, requested); !ok {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			"Requested "+requested.String()+" but only "+total.String()+" available")
	}
	return available, nil
}

// planConsumption greedily takes from the front of the sorted batch list
func planConsumption(requested decimal.Decimal, sortedBatches []*StockBatch) (*ConsumptionResult, error) {
	consumptions := make([]BatchConsumption, 0)
	remaining := requested
	totalConsumed := decimal.Zero
	totalCost := decimal.Zero

	for _, batch := range sortedBatches {
		if remaining.IsZero() {
			break
		}

		take := decimal.Min(remaining, batch.RemainingQuantity)
		remainingInBatch := batch.RemainingQuantity.Sub(take)
		cost := take.Mul(batch.CostPrice)

		consumptions = append(consumptions, BatchConsumption{
			BatchID:          batch.ID,
			ConsumedQuantity: take,
			CostPrice:        batch.CostPrice,
			TotalCost:        cost,
			RemainingInBatch: remainingInBatch,
			Depleted:         remainingInBatch.IsZero(),
		})

		totalConsumed = totalConsumed.Add(take)
		totalCost = totalCost.Add(cost)
		remaining = remaining.Sub(take)
	}

	var averageCost decimal.Decimal
	if totalConsumed.GreaterThan(decimal.Zero) {
		averageCost = totalCost.Div(totalConsumed).Round(4)
	}

	result := &ConsumptionResult{
		Consumptions:     consumptions,
		TotalConsumed:    totalConsumed,
		TotalCost:        totalCost,
		AverageCostPrice: averageCost,
	}
	if len(consumptions) > 0 {
		result.PrimaryBatchID = consumptions[0].BatchID
	}
	return result, nil
}

// filterAvailableBatches returns batches that still hold consumable stock
func filterAvailableBatches(batches []*StockBatch) []*StockBatch {
	available := make([]*StockBatch, 0, len(batches))
	for _, batch := range batches {
		if batch.IsAvailable() {
			available = append(available, batch)
		}
	}
	return available
}

// ValidateAvailability checks whether the batches can cover the requested
// quantity and returns the total available
func ValidateAvailability(batches []*StockBatch, requested decimal.Decimal) (bool, decimal.Decimal) {
	total := decimal.Zero
	for _, batch := range batches {
		total = total.Add(batch.AvailableQuantity())
	}
	return total.GreaterThanOrEqual(requested), total
}

// ApplyConsumption executes a planned consumption against the batch
// entities. The plan and the batches must come from the same read.
func ApplyConsumption(batches []*StockBatch, result *ConsumptionResult) error {
	if result == nil {
		return shared.NewDomainError("INVALID_INPUT", "Consumption result cannot be nil")
	}

	byID := make(map[uuid.UUID]*StockBatch, len(batches))
	for _, batch := range batches {
		byID[batch.ID] = batch
	}

	for _, take := range result.Consumptions {
		batch, ok := byID[take.BatchID]
		if !ok {
			return shared.NewDomainError("NOT_FOUND", "Batch not found: "+take.BatchID.String())
		}
		if err := batch.Consume(take.ConsumedQuantity); err != nil {
			return err
		}
	}
	return nil
}

// ConsumptionStrategyFactory creates consumption strategies by method
type ConsumptionStrategyFactory struct{}

// NewConsumptionStrategyFactory creates a new factory
func NewConsumptionStrategyFactory() *ConsumptionStrategyFactory {
	return &ConsumptionStrategyFactory{}
}

// ForMethod returns the strategy implementing the given method
func (f *ConsumptionStrategyFactory) ForMethod(method ConsumptionMethod) (ConsumptionStrategy, error) {
	switch method {
	case ConsumptionMethodFIFO:
		return NewFIFOConsumptionStrategy(), nil
	case ConsumptionMethodLIFO:
		return NewLIFOConsumptionStrategy(), nil
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown consumption method: "+string(method))
	}
}

// Default returns the default strategy (FIFO)
func (f *ConsumptionStrategyFactory) Default() ConsumptionStrategy {
	return NewFIFOConsumptionStrategy()
}
