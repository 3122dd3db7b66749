package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionRecord struct {
	Date     time.Time       `json:"date"`
	Item     string          `json:"item"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// DateRange is inclusive on both ends. A range with Start after End matches nothing.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

type AggregatedPeriod struct {
	Period       Period          `json:"period"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalQty     int             `json:"total_qty"`
}

type TrendPoint struct {
	Period        Period          `json:"period"`
	Revenue       decimal.Decimal `json:"revenue"`
	MovingAverage decimal.Decimal `json:"moving_average"`
}

type RankedItem struct {
	Period   *Period `json:"period,omitempty"`
	Item     string  `json:"item"`
	TotalQty int     `json:"total_qty"`
}

type SalesMetrics struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	TotalQuantity     int             `json:"total_quantity"`
	Orders            int             `json:"orders"`
	NoData            bool            `json:"no_data"`
}
