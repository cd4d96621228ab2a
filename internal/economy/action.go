package economy

import (
	"fmt"
	"slices"
	"time"
)

// ActionType is the kind of policy move a country declares.
type ActionType string

const (
	TariffIncrease             ActionType = "tariff_increase"
	TariffDecrease             ActionType = "tariff_decrease"
	TariffAdjustment           ActionType = "tariff_adjustment"
	ExportSubsidy              ActionType = "export_subsidy"
	ImportQuota                ActionType = "import_quota"
	Investment                 ActionType = "investment"
	CurrencyDevaluation        ActionType = "currency_devaluation"
	TechExportControl          ActionType = "tech_export_control"
	IndustrialSubsidy          ActionType = "industrial_subsidy"
	SupplyChainDiversification ActionType = "supply_chain_diversification"
	GreenTechInvestment        ActionType = "green_tech_investment"
	FriendShoring              ActionType = "friend_shoring"
	DataSovereignty            ActionType = "data_sovereignty"
	StatusQuo                  ActionType = "status_quo"
)

// ActionTypes lists every valid action type.
var ActionTypes = []ActionType{
	TariffIncrease, TariffDecrease, TariffAdjustment,
	ExportSubsidy, ImportQuota, Investment, CurrencyDevaluation,
	TechExportControl, IndustrialSubsidy, SupplyChainDiversification,
	GreenTechInvestment, FriendShoring, DataSovereignty, StatusQuo,
}

// ParseActionType converts a string into an ActionType.
func ParseActionType(s string) (ActionType, error) {
	t := ActionType(s)
	if !slices.Contains(ActionTypes, t) {
		return "", fmt.Errorf("unknown action type %q", s)
	}
	return t, nil
}

// IsTariff reports whether the action installs a tariff policy.
func (t ActionType) IsTariff() bool {
	return t == TariffIncrease || t == TariffDecrease || t == TariffAdjustment
}

// EconomicAction is a country's declared policy move for one step.
type EconomicAction struct {
	Country       string     `json:"country"`
	Type          ActionType `json:"action_type"`
	Target        string     `json:"target_country,omitempty"` // Empty means no target
	Sectors       []string   `json:"sectors"`
	Magnitude     float64    `json:"magnitude"` // Negative allowed for decreases
	Justification string     `json:"justification"`
	Timestamp     time.Time  `json:"timestamp"`
}

// HasTarget reports whether the action names a target country.
func (a EconomicAction) HasTarget() bool { return a.Target != "" }

// Clone returns a copy with its own sector slice.
func (a EconomicAction) Clone() EconomicAction {
	a.Sectors = slices.Clone(a.Sectors)
	return a
}

// StatusQuoAction is the universal safe fallback.
func StatusQuoAction(country, reason string) EconomicAction {
	return EconomicAction{
		Country:       country,
		Type:          StatusQuo,
		Sectors:       []string{},
		Justification: reason,
		Timestamp:     time.Now(),
	}
}
