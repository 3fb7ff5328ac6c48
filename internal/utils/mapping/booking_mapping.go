package mapping

import (
	"github.com/Rello/domus-sub002/internal/core/domain"
	"github.com/Rello/domus-sub002/internal/models"
)

// ToModelBooking converts a domain Booking to a model Booking
func ToModelBooking(d domain.Booking) models.Booking {
	return models.Booking{
		BookingID:               d.BookingID,
		UserID:                  d.UserID,
		AccountNumber:           d.AccountNumber,
		Date:                    d.Date,
		DeliveryDate:            d.DeliveryDate,
		Description:             d.Description,
		Amount:                  d.Amount,
		Year:                    d.Year,
		PropertyID:              d.PropertyID,
		UnitID:                  d.UnitID,
		DistributionKeyID:       d.DistributionKeyID,
		Status:                  models.BookingStatus(d.Status),
		PeriodFrom:              d.PeriodFrom,
		PeriodTo:                d.PeriodTo,
		SourcePropertyBookingID: d.SourcePropertyBookingID,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBooking converts a model Booking to a domain Booking
func ToDomainBooking(m models.Booking) domain.Booking {
	return domain.Booking{
		BookingID:               m.BookingID,
		UserID:                  m.UserID,
		AccountNumber:           m.AccountNumber,
		Date:                    m.Date,
		DeliveryDate:            m.DeliveryDate,
		Description:             m.Description,
		Amount:                  m.Amount,
		Year:                    m.Year,
		PropertyID:              m.PropertyID,
		UnitID:                  m.UnitID,
		DistributionKeyID:       m.DistributionKeyID,
		Status:                  domain.BookingStatus(m.Status),
		PeriodFrom:              m.PeriodFrom,
		PeriodTo:                m.PeriodTo,
		SourcePropertyBookingID: m.SourcePropertyBookingID,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBookingSlice converts a slice of model Bookings to domain Bookings
func ToDomainBookingSlice(ms []models.Booking) []domain.Booking {
	ds := make([]domain.Booking, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBooking(m)
	}
	return ds
}
