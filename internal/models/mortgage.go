package models

// MortgageInputs holds the mortgage calculator form values
type MortgageInputs struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermYears         int     `json:"term_years"`
}

// MortgageQuote is the result of amortizing a MortgageInputs
type MortgageQuote struct {
	Inputs         MortgageInputs    `json:"inputs"`
	MonthlyPayment float64           `json:"monthly_payment"`
	TotalPayment   float64           `json:"total_payment"`
	TotalInterest  float64           `json:"total_interest"`
	Schedule       []PaymentSchedule `json:"schedule,omitempty"`
}
