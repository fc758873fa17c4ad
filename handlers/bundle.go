package handlers

// HandlerBundle groups the endpoint handlers registered by the routes package.
type HandlerBundle struct {
	Hotels   *HotelHandler
	Units    *UnitHandler
	Guests   *GuestHandler
	Bookings *BookingHandler
	Payments *PaymentHandler
	Invoices *InvoiceHandler
	Rules    *RuleHandler
}
