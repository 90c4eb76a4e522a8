package loadtest

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
	PercentageMultiplier    = 100
)

// Price range of generated items, in rupiah.
const (
	minPrice  = 5000
	priceStep = 500
	priceSpan = 60
)
