package market

import "time"

// Bar is one OHLCV sample for a fixed time interval.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Position is a read-only snapshot row from the external portfolio
// ledger. Units are signed: positive long, negative short. The sizing
// components only ever read these, they never mutate the ledger.
type Position struct {
	Instrument string
	Units      float64
	EntryPrice float64
}
