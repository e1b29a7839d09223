package projections

// Balance is a student's standing with the mess office.
// Balance is Paid minus Due; negative means money is owed.
type Balance struct {
	MealsTaken int
	Due        float64
	Paid       float64
	Balance    float64
}

// NewBalance prices meals taken at mealCost and nets off payments.
func NewBalance(mealsTaken int, paid, mealCost float64) Balance {
	due := float64(mealsTaken) * mealCost
	return Balance{
		MealsTaken: mealsTaken,
		Due:        due,
		Paid:       paid,
		Balance:    paid - due,
	}
}

// Outstanding returns the amount owed, or zero when the student is in credit.
func (b Balance) Outstanding() float64 {
	if b.Balance < 0 {
		return -b.Balance
	}
	return 0
}

// IsDefaulter reports whether the student owes money.
func (b Balance) IsDefaulter() bool {
	return b.Balance < 0
}
