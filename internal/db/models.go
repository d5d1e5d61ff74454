package db

// SpotPrice is one hourly day-ahead clearing price. The key is
// "{YYYY-MM-DD}-{HH}" with the delivery hour zero-padded; re-ingesting the
// same key overwrites the stored row in place. created_at is assigned by
// the database on write.
type SpotPrice struct {
	Key       string
	Date      string // YYYY-MM-DD
	Hour      int    // 1..25, 25 only on the long clock-change day
	Price     float64
	Volume    float64
	CreatedBy string
}

// FuturesSettlement is one daily settlement row for a futures contract,
// keyed by "{YYYY-MM-DD}_{contract}". A zero settlement price means the
// contract did not trade that day and no row is created for it.
type FuturesSettlement struct {
	Key               string
	Date              string // YYYY-MM-DD
	Contract          string // vendor label, verbatim after trim, e.g. BASE_Y-26
	MaxPrice          float64
	MinPrice          float64
	SettlementPrice   float64
	TurnoverValue     float64
	Volume            float64
	ContractsCount    float64
	OpenInterest      float64
	TransactionsCount float64
}
