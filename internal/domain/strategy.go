package domain

// Strategy identifies one of the five supported withdrawal strategies.
// The set is closed; dispatch happens through a single switch so the
// compiler keeps every call site exhaustive.
type Strategy string

const (
	StrategyFixedReal          Strategy = "fixed_real"
	StrategyVariablePercentage Strategy = "variable_percentage"
	StrategyGuardrails         Strategy = "guardrails"
	StrategyBucket             Strategy = "bucket"
	StrategyDynamicActuarial   Strategy = "dynamic_actuarial"
)

// AllStrategies returns the strategies in their canonical evaluation order.
// The ranker breaks score ties by this order, so it must stay stable.
func AllStrategies() []Strategy {
	return []Strategy{
		StrategyFixedReal,
		StrategyVariablePercentage,
		StrategyGuardrails,
		StrategyBucket,
		StrategyDynamicActuarial,
	}
}

// IsValid reports whether s names a known strategy.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyFixedReal, StrategyVariablePercentage, StrategyGuardrails,
		StrategyBucket, StrategyDynamicActuarial:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for reports.
func (s Strategy) DisplayName() string {
	switch s {
	case StrategyFixedReal:
		return "Fixed Real (4% Rule)"
	case StrategyVariablePercentage:
		return "Variable Percentage"
	case StrategyGuardrails:
		return "Guardrails"
	case StrategyBucket:
		return "Three-Bucket"
	case StrategyDynamicActuarial:
		return "Dynamic Actuarial"
	default:
		return string(s)
	}
}
