package pay_booking

// Request модель запроса на оплату.
// Оплата симулируется: внешнего платежного шлюза нет.
type Request struct {
	BookingID int64
	StudentID int64 // ID плательщика (из X-User-ID)
}
