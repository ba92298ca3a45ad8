package models

// PaymentSchedule represents one monthly installment of an amortized mortgage
type PaymentSchedule struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}
