/*
Package pricing holds the stateless quoting rules: supplier delivery lead
time and quantity discounts. Nothing here reads the ledger.

DELIVERY LEAD TIME:
  quantity <= 10         same day
  quantity 11..100       1 day
  quantity 101..1000     4 days
  quantity > 1000        7 days

LENIENT START DATE:
  Delivery estimates are advisory. An unparseable start date is replaced by
  today and a warning is logged; the estimate is still returned.

SEE ALSO:
  - discount.go: Quantity/category discount tiers
  - factory/catalog.go: JSON loading of the discount table
*/
package pricing

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/supply-ledger/ledger"
)

// =============================================================================
// DELIVERY
// =============================================================================

type leadTimeBand struct {
	maxQuantity int
	days        int
}

var leadTimeBands = []leadTimeBand{
	{maxQuantity: 10, days: 0},
	{maxQuantity: 100, days: 1},
	{maxQuantity: 1000, days: 4},
}

const bulkLeadDays = 7

// DeliveryLeadDays returns the supplier delay in days for an order size.
func DeliveryLeadDays(quantity int) int {
	for _, band := range leadTimeBands {
		if quantity <= band.maxQuantity {
			return band.days
		}
	}
	return bulkLeadDays
}

// Estimator computes delivery dates. The zero value uses the wall clock and
// the standard logrus logger.
type Estimator struct {
	Now    func() time.Time
	Logger logrus.FieldLogger
}

// DeliveryDate returns start + lead time as YYYY-MM-DD using a default
// Estimator.
func DeliveryDate(start string, quantity int) string {
	return Estimator{}.DeliveryDate(start, quantity)
}

func (e Estimator) DeliveryDate(start string, quantity int) string {
	return e.Estimate(start, quantity).String()
}

// Estimate parses start (date or timestamp) and adds the lead time. When
// start is invalid, today is used instead.
func (e Estimator) Estimate(start string, quantity int) ledger.Date {
	base, err := ledger.ParseDate(start)
	if err != nil {
		base = ledger.DateOf(e.now())
		e.logger().WithFields(logrus.Fields{
			"start":    start,
			"quantity": quantity,
		}).Warn("invalid delivery start date, using today")
	}
	return base.AddDays(DeliveryLeadDays(quantity))
}

func (e Estimator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Estimator) logger() logrus.FieldLogger {
	if e.Logger != nil {
		return e.Logger
	}
	return logrus.StandardLogger()
}
