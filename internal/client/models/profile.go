package models

type Profile struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// ProfileStats summarises the user's debts and income.
type ProfileStats struct {
	TotalDebt          float64 `json:"total_debt"`
	TotalIncome        float64 `json:"total_income"`
	DebtCount          int     `json:"debt_count"`
	IncomeSourcesCount int     `json:"income_sources_count"`
	DebtToIncomeRatio  float64 `json:"debt_to_income_ratio"`
}
