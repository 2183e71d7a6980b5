package checkout

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuote() cart.Quote {
	items := []cart.Line{
		{ProductKey: "a", UnitPrice: decimal.NewFromInt(10), Quantity: 2},
		{ProductKey: "b", UnitPrice: decimal.NewFromInt(5), Quantity: 1},
	}
	return cart.Quote{Items: items, TotalPrice: cart.ComputeTotal(items, nil)}
}

func TestFlowStartsOnShippingAddress(t *testing.T) {
	f := NewFlow("s1", testQuote())
	assert.Equal(t, TabShippingAddress, f.Active())
	assert.NotEqual(t, TabContactInfo, f.Active())
}

func TestCloseShippingAlwaysActivatesPayment(t *testing.T) {
	prior := []func(f *Flow){
		func(f *Flow) {},
		func(f *Flow) { f.Open(TabPaymentMethod) },
		func(f *Flow) { f.Open(TabShippingAddress) },
		func(f *Flow) { f.Close(TabPaymentMethod) },
	}
	for i, setup := range prior {
		f := NewFlow("s1", testQuote())
		setup(f)

		tr, err := f.Close(TabShippingAddress)
		require.NoError(t, err)
		assert.Equal(t, TabPaymentMethod, tr.Active, "case %d", i)
		assert.Equal(t, "PaymentMethod", tr.ScrollTo)
		assert.Equal(t, TabPaymentMethod, f.Active())
	}
}

func TestOpenAndClosePayment(t *testing.T) {
	f := NewFlow("s1", testQuote())

	tr, err := f.Open(TabPaymentMethod)
	require.NoError(t, err)
	assert.Equal(t, Transition{Active: TabPaymentMethod, ScrollTo: "PaymentMethod"}, tr)

	tr, err = f.Open(TabShippingAddress)
	require.NoError(t, err)
	assert.Equal(t, TabShippingAddress, tr.Active)
	assert.Equal(t, "ShippingAddress", tr.ScrollTo)

	f.Open(TabPaymentMethod)
	tr, err = f.Close(TabPaymentMethod)
	require.NoError(t, err)
	assert.Equal(t, TabPaymentMethod, tr.Active)
	assert.Empty(t, tr.ScrollTo)
}

func TestUnknownTab(t *testing.T) {
	f := NewFlow("s1", testQuote())
	_, err := f.Open(TabContactInfo)
	assert.ErrorIs(t, err, ErrUnknownTab)
	_, err = f.Close("Review")
	assert.ErrorIs(t, err, ErrUnknownTab)
	assert.Equal(t, TabShippingAddress, f.Active())
}

type fakeBackend struct {
	addresses  []backend.ShippingAddress
	orders     int
	orderTotal decimal.Decimal
	orderItems []backend.OrderItem
	orderErr   error
	addressErr error
}

func (f *fakeBackend) CreateOrder(_ context.Context, token string, items []backend.OrderItem, total decimal.Decimal) (*backend.Order, error) {
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.orders++
	f.orderItems = items
	f.orderTotal = total
	return &backend.Order{OrderID: "ord-1", TotalAmount: total}, nil
}

func (f *fakeBackend) ListShippingAddresses(context.Context, string) ([]backend.ShippingAddress, error) {
	return f.addresses, nil
}

func (f *fakeBackend) CreateShippingAddress(_ context.Context, _ string, addr backend.ShippingAddress) (*backend.ShippingAddress, error) {
	if f.addressErr != nil {
		return nil, f.addressErr
	}
	addr.ID = len(f.addresses) + 1
	f.addresses = append(f.addresses, addr)
	return &addr, nil
}

type fakePayments struct {
	reqs   []payment.Request
	result *payment.Result
}

func (f *fakePayments) Dispatch(_ context.Context, _ string, req payment.Request) (*payment.Result, error) {
	f.reqs = append(f.reqs, req)
	if f.result != nil {
		return f.result, nil
	}
	return &payment.Result{Success: true, Message: "Payment successful", Method: req.Method}, nil
}

func newService(b *fakeBackend, p *fakePayments) (*Service, *events.Recorder) {
	rec := &events.Recorder{}
	return NewService(b, p, rec, logger.NewNop()), rec
}

func TestAddressesPrefillFromCurrent(t *testing.T) {
	b := &fakeBackend{addresses: []backend.ShippingAddress{
		{ID: 1, City: "Mombasa", Country: "Kenya"},
		{ID: 2, City: "Nairobi", CurrentAddress: true},
	}}
	s, _ := newService(b, &fakePayments{})

	form, err := s.Addresses(context.Background(), "tok")
	require.NoError(t, err)
	assert.Len(t, form.Addresses, 2)
	assert.Equal(t, "Nairobi", form.Prefill.City)
	assert.Equal(t, "United States", form.Prefill.Country)
}

func TestSaveAddressAdvancesToPayment(t *testing.T) {
	b := &fakeBackend{}
	s, _ := newService(b, &fakePayments{})
	f := NewFlow("s1", testQuote())

	saved, tr, err := s.SaveAddress(context.Background(), "tok", f, backend.ShippingAddress{City: "Nairobi"})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.ID)
	assert.Equal(t, TabPaymentMethod, tr.Active)
	assert.Equal(t, "Nairobi", f.State().Address.City)
}

func TestSaveAddressFailureKeepsTab(t *testing.T) {
	b := &fakeBackend{addressErr: &backend.APIError{Status: 400}}
	s, _ := newService(b, &fakePayments{})
	f := NewFlow("s1", testQuote())

	_, tr, err := s.SaveAddress(context.Background(), "tok", f, backend.ShippingAddress{})
	require.Error(t, err)
	assert.Equal(t, TabShippingAddress, tr.Active)
}

func TestConfirmCreatesOrderAndPaysQuoteTotal(t *testing.T) {
	b := &fakeBackend{}
	p := &fakePayments{}
	s, rec := newService(b, p)
	f := NewFlow("s1", testQuote())

	res, err := s.Confirm(context.Background(), "tok", f, ConfirmRequest{Method: payment.MethodMobileMoney, Phone: "0712345678"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, 1, b.orders)
	assert.True(t, decimal.NewFromInt(25).Equal(b.orderTotal))
	require.Len(t, b.orderItems, 2)
	assert.Equal(t, "a", b.orderItems[0].ProductSlug)

	require.Len(t, p.reqs, 1)
	assert.True(t, decimal.NewFromInt(25).Equal(p.reqs[0].Amount))
	assert.NotEmpty(t, p.reqs[0].IdempotencyKey)
	assert.Len(t, rec.OfType(events.OrderCreated), 1)

	st := f.State()
	assert.True(t, st.Paid)
	assert.Equal(t, "ord-1", st.OrderID)

	_, err = s.Confirm(context.Background(), "tok", f, ConfirmRequest{Method: payment.MethodCreditCard})
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Len(t, p.reqs, 1)
}

func TestConfirmRetryReusesOrderAndKey(t *testing.T) {
	b := &fakeBackend{}
	p := &fakePayments{result: &payment.Result{Success: false, Message: "Payment failed: Card declined"}}
	s, _ := newService(b, p)
	f := NewFlow("s1", testQuote())

	res, err := s.Confirm(context.Background(), "tok", f, ConfirmRequest{Method: payment.MethodCreditCard})
	require.NoError(t, err)
	assert.False(t, res.Success)

	p.result = nil
	res, err = s.Confirm(context.Background(), "tok", f, ConfirmRequest{Method: payment.MethodPayPal})
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, 1, b.orders)
	require.Len(t, p.reqs, 2)
	assert.Equal(t, p.reqs[0].IdempotencyKey, p.reqs[1].IdempotencyKey)
}

func TestConfirmValidatesBeforeOrdering(t *testing.T) {
	b := &fakeBackend{}
	p := &fakePayments{}
	s, _ := newService(b, p)

	_, err := s.Confirm(context.Background(), "", NewFlow("s1", testQuote()), ConfirmRequest{Method: payment.MethodCreditCard})
	assert.ErrorIs(t, err, backend.ErrNoSession)

	_, err = s.Confirm(context.Background(), "tok", NewFlow("s1", testQuote()), ConfirmRequest{Method: payment.MethodMobileMoney, Phone: "0712"})
	assert.ErrorIs(t, err, payment.ErrInvalidPhone)

	_, err = s.Confirm(context.Background(), "tok", NewFlow("s1", cart.Quote{}), ConfirmRequest{Method: payment.MethodCreditCard})
	assert.ErrorIs(t, err, payment.ErrInvalidAmount)

	assert.Zero(t, b.orders)
	assert.Empty(t, p.reqs)
}

func TestConfirmOrderFailure(t *testing.T) {
	b := &fakeBackend{orderErr: &backend.TransportError{Op: "create order", Err: errors.New("down")}}
	p := &fakePayments{}
	s, _ := newService(b, p)

	_, err := s.Confirm(context.Background(), "tok", NewFlow("s1", testQuote()), ConfirmRequest{Method: payment.MethodCreditCard})
	require.Error(t, err)
	assert.Empty(t, p.reqs)
}
