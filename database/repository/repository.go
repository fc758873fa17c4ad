package repository

import (
	bookingRepo "innkeep/database/repository/booking"
	guestRepo "innkeep/database/repository/guest"
	hotelRepo "innkeep/database/repository/hotel"
	invoiceRepo "innkeep/database/repository/invoice"
	paymentRepo "innkeep/database/repository/payment"
	ruleRepo "innkeep/database/repository/rule"
	unitRepo "innkeep/database/repository/unit"

	"gorm.io/gorm"
)

// Repositories bundles every repository built on one database handle.
type Repositories struct {
	Hotels   hotelRepo.HotelRepository
	Units    unitRepo.UnitRepository
	Guests   guestRepo.GuestRepository
	Bookings bookingRepo.BookingRepository
	Payments paymentRepo.PaymentRepository
	Invoices invoiceRepo.InvoiceRepository
	Rules    ruleRepo.RuleRepository
}

// New wires the GORM implementations.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Hotels:   hotelRepo.NewGormHotelRepo(db),
		Units:    unitRepo.NewGormUnitRepo(db),
		Guests:   guestRepo.NewGormGuestRepo(db),
		Bookings: bookingRepo.NewGormBookingRepo(db),
		Payments: paymentRepo.NewGormPaymentRepo(db),
		Invoices: invoiceRepo.NewGormInvoiceRepo(db),
		Rules:    ruleRepo.NewGormRuleRepo(db),
	}
}
