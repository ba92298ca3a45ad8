package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/Dan9191/pocket-property/internal/models"
	"github.com/Dan9191/pocket-property/internal/utils"
)

// ErrInvalidMortgageInput is returned for inputs that cannot be amortized
var ErrInvalidMortgageInput = errors.New("invalid mortgage input")

// maxTermYears bounds the schedule length
const maxTermYears = 100

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateMortgage(principal, annualRatePercent float64, termYears int) error {
	switch {
	case !isFinite(principal) || principal <= 0:
		return fmt.Errorf("%w: principal must be greater than 0", ErrInvalidMortgageInput)
	case !isFinite(annualRatePercent) || annualRatePercent < 0:
		return fmt.Errorf("%w: interest rate must be 0 or more", ErrInvalidMortgageInput)
	case termYears <= 0:
		return fmt.Errorf("%w: term must be at least 1 year", ErrInvalidMortgageInput)
	case termYears > maxTermYears:
		return fmt.Errorf("%w: term must be at most %d years", ErrInvalidMortgageInput, maxTermYears)
	}
	return nil
}

// MonthlyPayment computes the level monthly payment of a fixed-rate mortgage.
// A 0% rate degenerates to principal spread evenly over the term.
func MonthlyPayment(principal, annualRatePercent float64, termYears int) (float64, error) {
	if err := validateMortgage(principal, annualRatePercent, termYears); err != nil {
		return 0, err
	}
	n := float64(termYears * 12)
	if annualRatePercent == 0 {
		return principal / n, nil
	}
	// principal*r / (1 - (1+r)^-n), evaluated through log1p/expm1 so tiny
	// rates neither cancel to zero nor fall below the 0% payment
	r := annualRatePercent / 100 / 12
	k := n * math.Log1p(r)
	payment := principal * r / -math.Expm1(-k)
	if !isFinite(payment) {
		return 0, fmt.Errorf("%w: payment is out of range", ErrInvalidMortgageInput)
	}
	return payment, nil
}

// Quote amortizes the inputs into a payment summary and monthly schedule.
// Schedule amounts are rounded to cents; the final installment settles the
// remaining balance exactly.
func Quote(in models.MortgageInputs) (*models.MortgageQuote, error) {
	payment, err := MonthlyPayment(in.Principal, in.AnnualRatePercent, in.TermYears)
	if err != nil {
		return nil, err
	}

	months := in.TermYears * 12
	r := in.AnnualRatePercent / 100 / 12
	schedule := make([]models.PaymentSchedule, 0, months)
	balance := in.Principal
	var totalPaid float64
	for m := 1; m <= months; m++ {
		interest := balance * r
		principalPart := payment - interest
		if m == months {
			principalPart = balance
		}
		balance -= principalPart
		totalPaid += principalPart + interest
		if !isFinite(interest) || !isFinite(balance) || !isFinite(totalPaid) {
			return nil, fmt.Errorf("%w: schedule is out of range", ErrInvalidMortgageInput)
		}
		schedule = append(schedule, models.PaymentSchedule{
			Month:     m,
			Payment:   utils.RoundCents(principalPart + interest),
			Principal: utils.RoundCents(principalPart),
			Interest:  utils.RoundCents(interest),
			Balance:   utils.RoundCents(math.Max(balance, 0)),
		})
	}

	return &models.MortgageQuote{
		Inputs:         in,
		MonthlyPayment: payment,
		TotalPayment:   totalPaid,
		TotalInterest:  totalPaid - in.Principal,
		Schedule:       schedule,
	}, nil
}
