// Package strategy defines the pluggable-policy contract shared by domain
// engines, most notably the batch consumption order policies (FIFO, LIFO).
package strategy

// StrategyType groups strategies by the concern they decide.
type StrategyType string

const (
	// StrategyTypeBatch strategies decide the order batches are drawn down.
	StrategyTypeBatch StrategyType = "batch"
	// StrategyTypeAllocation strategies decide how stock is split across
	// destinations.
	StrategyTypeAllocation StrategyType = "allocation"
)

func (t StrategyType) String() string { return string(t) }

// IsValid reports whether t is a known strategy type.
func (t StrategyType) IsValid() bool {
	return t == StrategyTypeBatch || t == StrategyTypeAllocation
}

// Strategy identifies a named, typed policy. Concrete strategies extend this
// with their own decision method.
type Strategy interface {
	Name() string
	Type() StrategyType
	Description() string
}

// BaseStrategy implements the identity part of Strategy so concrete
// strategies only add their decision logic.
type BaseStrategy struct {
	name         string
	strategyType StrategyType
	description  string
}

func NewBaseStrategy(name string, strategyType StrategyType, description string) BaseStrategy {
	return BaseStrategy{
		name:         name,
		strategyType: strategyType,
		description:  description,
	}
}

func (s BaseStrategy) Name() string       { return s.name }
func (s BaseStrategy) Type() StrategyType { return s.strategyType }
func (s BaseStrategy) Description() string {
	return s.description
}
