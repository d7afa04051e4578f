package service

const (
	MaxTermYears      = 100 // longest term accepted by the host API
	MaxTermRangeYears = 50  // widest [min, max] range evaluated in one request
	MaxAlternatives   = 3   // alternatives returned next to the recommended term

	PreferenceMinimizeInterest = "minimize_interest"
	PreferenceMinimizePayment  = "minimize_payment"
	PreferenceBalanced         = "balanced"
)
