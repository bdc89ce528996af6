package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/storage"
	"github.com/stepup/stepup-backend/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type recordingStore struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	failOn  int
}

func (s *recordingStore) Save(_ context.Context, folder string, img storage.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn > 0 && len(s.saved)+1 == s.failOn {
		return "", errors.New("disk full")
	}
	p := fmt.Sprintf("/uploads/%s/%d-%s", folder, len(s.saved), img.Name)
	s.saved = append(s.saved, p)
	return p, nil
}

func (s *recordingStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, path)
	return nil
}

func pngImage(name string) storage.Image {
	return storage.Image{Name: name, Reader: bytes.NewReader(pngHeader)}
}

func validRefundInput() RefundInput {
	return RefundInput{
		Reason:            "Wrong size/fit",
		Description:       "Too small",
		ContactPreference: model.ContactByEmail,
		ContactDetails:    "customer@example.com",
	}
}

type refundFixture struct {
	svc      RefundService
	repos    *testRepos
	store    *recordingStore
	mail     *mailer.MockMailer
	customer *model.User
	order    *model.Order
}

func setupRefundTest(t *testing.T) *refundFixture {
	r := setupRepos(t)
	store := &recordingStore{}
	mail := mailer.NewMockMailer()
	customer := createCustomer(t, r, "customer@example.com")

	return &refundFixture{
		svc:      NewRefundService(r.tm, r.refunds, r.orders, store, mail, 3),
		repos:    r,
		store:    store,
		mail:     mail,
		customer: customer,
		order:    createOrder(t, r, customer.ID, "Colombo", model.PaymentStatusPaid),
	}
}

func TestRefundService_CreateRefundRequest(t *testing.T) {
	f := setupRefundTest(t)
	ctx := context.Background()

	refund, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(), []storage.Image{pngImage("a.png")})
	require.NoError(t, err)
	assert.Equal(t, model.RefundStatusPending, refund.Status)
	assert.Equal(t, f.order.OrderNumber(), refund.OrderNumber)
	assert.Len(t, refund.Images, 1)

	order, err := f.repos.orders.FindByID(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusRefundRequested, order.Status)
	assert.Equal(t, 1000.0, order.TotalAmount)
}

func TestRefundService_CreateRefundRequest_OnePerOrder(t *testing.T) {
	f := setupRefundTest(t)
	ctx := context.Background()

	first, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(), nil)
	require.NoError(t, err)

	for _, decision := range []model.RefundStatus{"", model.RefundStatusRejected} {
		if decision != "" {
			_, err := f.svc.UpdateRefundStatus(ctx, first.ID, decision, "")
			require.NoError(t, err)
		}
		_, err = f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(), nil)
		assert.ErrorIs(t, err, ErrRefundAlreadyExists)
	}

	var count int64
	f.repos.db.Model(&model.Refund{}).Where("order_id = ?", f.order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRefundService_CreateRefundRequest_Rejections(t *testing.T) {
	f := setupRefundTest(t)
	ctx := context.Background()

	other := createCustomer(t, f.repos, "other@example.com")
	unpaid := createOrder(t, f.repos, f.customer.ID, "Kandy", model.PaymentStatusPending)

	tests := []struct {
		name    string
		userID  uint
		orderID uint
		input   RefundInput
		images  []storage.Image
		wantErr error
	}{
		{name: "missing order", userID: f.customer.ID, orderID: 9999, input: validRefundInput(), wantErr: ErrOrderNotFound},
		{name: "foreign order", userID: other.ID, orderID: f.order.ID, input: validRefundInput(), wantErr: ErrOrderNotFound},
		{name: "unpaid order", userID: f.customer.ID, orderID: unpaid.ID, input: validRefundInput(), wantErr: ErrRefundNotEligible},
		{
			name:    "missing reason",
			userID:  f.customer.ID,
			orderID: f.order.ID,
			input:   RefundInput{ContactPreference: model.ContactByPhone, ContactDetails: "0771234567"},
			wantErr: ErrValidation,
		},
		{
			name:    "too many images",
			userID:  f.customer.ID,
			orderID: f.order.ID,
			input:   validRefundInput(),
			images:  []storage.Image{pngImage("1.png"), pngImage("2.png"), pngImage("3.png"), pngImage("4.png")},
			wantErr: ErrTooManyImages,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refund, err := f.svc.CreateRefundRequest(ctx, tt.userID, tt.orderID, tt.input, tt.images)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, refund)
		})
	}
	assert.Empty(t, f.store.saved)

	t.Run("already refunded", func(t *testing.T) {
		refunded := createOrder(t, f.repos, f.customer.ID, "Galle", model.PaymentStatusPaid)
		refunded.Status = model.OrderStatusRefunded
		require.NoError(t, f.repos.orders.Update(ctx, refunded))

		_, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, refunded.ID, validRefundInput(), nil)
		assert.ErrorIs(t, err, ErrRefundNotEligible)
	})
}

func TestRefundService_CreateRefundRequest_RemovesImagesOnFailure(t *testing.T) {
	f := setupRefundTest(t)
	f.store.failOn = 2
	ctx := context.Background()

	_, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(),
		[]storage.Image{pngImage("1.png"), pngImage("2.png")})
	require.Error(t, err)
	assert.Equal(t, f.store.saved, f.store.deleted)

	var count int64
	f.repos.db.Model(&model.Refund{}).Count(&count)
	assert.Zero(t, count)
}

func TestRefundService_CreateRefundRequest_LocalStorage(t *testing.T) {
	f := setupRefundTest(t)
	dir := t.TempDir()
	svc := NewRefundService(f.repos.tm, f.repos.refunds, f.repos.orders, storage.NewLocalStorage(dir, "/uploads", 5<<20), nil, 3)
	ctx := context.Background()

	_, err := svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(),
		[]storage.Image{{Name: "notes.txt", Reader: strings.NewReader("hello")}})
	assert.ErrorIs(t, err, storage.ErrInvalidImageType)

	refund, err := svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(), []storage.Image{pngImage("shoe.png")})
	require.NoError(t, err)
	require.Len(t, refund.Images, 1)
	assert.True(t, strings.HasPrefix(refund.Images[0], "/uploads/refunds/"))

	_, err = os.Stat(filepath.Join(dir, "refunds", filepath.Base(refund.Images[0])))
	assert.NoError(t, err)
}

func TestRefundService_UpdateRefundStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("approve", func(t *testing.T) {
		f := setupRefundTest(t)
		refund, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(), nil)
		require.NoError(t, err)

		approved, err := f.svc.UpdateRefundStatus(ctx, refund.ID, model.RefundStatusApproved, "sorry about that")
		require.NoError(t, err)
		assert.Equal(t, model.RefundStatusApproved, approved.Status)
		assert.Equal(t, "sorry about that", approved.AdminNote)
		assert.NotNil(t, approved.ResolvedAt)

		order, err := f.repos.orders.FindByID(ctx, f.order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusRefunded, order.Status)
		assert.Equal(t, model.PaymentStatusRefunded, order.PaymentStatus)

		sent := f.mail.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "customer@example.com", sent[0].To)
		assert.Contains(t, sent[0].Subject, "approved")

		_, err = f.svc.UpdateRefundStatus(ctx, refund.ID, model.RefundStatusRejected, "")
		assert.ErrorIs(t, err, ErrRefundNotPending)
	})

	t.Run("admin note is escaped in html body", func(t *testing.T) {
		f := setupRefundTest(t)
		refund, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(), nil)
		require.NoError(t, err)

		_, err = f.svc.UpdateRefundStatus(ctx, refund.ID, model.RefundStatusApproved, `<a href="http://evil.example">claim</a> & more`)
		require.NoError(t, err)

		sent := f.mail.Sent()
		require.Len(t, sent, 1)
		assert.NotContains(t, sent[0].HTMLBody, "<a href")
		assert.Contains(t, sent[0].HTMLBody, "&lt;a href=&#34;http://evil.example&#34;&gt;claim&lt;/a&gt; &amp; more")
		assert.Contains(t, sent[0].TextBody, `Note from our team: <a href="http://evil.example">claim</a> & more`)
		assert.NotContains(t, sent[0].TextBody, "<p>")
		assert.NotContains(t, sent[0].TextBody, "<strong>")
	})

	t.Run("reject", func(t *testing.T) {
		f := setupRefundTest(t)
		input := validRefundInput()
		input.ContactPreference = model.ContactByPhone
		input.ContactDetails = "0771234567"
		refund, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, input, nil)
		require.NoError(t, err)

		rejected, err := f.svc.UpdateRefundStatus(ctx, refund.ID, model.RefundStatusRejected, "")
		require.NoError(t, err)
		assert.Equal(t, model.RefundStatusRejected, rejected.Status)

		order, err := f.repos.orders.FindByID(ctx, f.order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusDelivered, order.Status)
		assert.Equal(t, model.PaymentStatusPaid, order.PaymentStatus)
		assert.Empty(t, f.mail.Sent())
	})

	t.Run("invalid status", func(t *testing.T) {
		f := setupRefundTest(t)
		refund, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(), nil)
		require.NoError(t, err)

		_, err = f.svc.UpdateRefundStatus(ctx, refund.ID, model.RefundStatusPending, "")
		assert.ErrorIs(t, err, ErrInvalidRefundStatus)
		_, err = f.svc.UpdateRefundStatus(ctx, 9999, model.RefundStatusApproved, "")
		assert.ErrorIs(t, err, ErrRefundNotFound)
	})
}

func TestRefundService_MutationGuard(t *testing.T) {
	f := setupRefundTest(t)
	ctx := context.Background()

	refund, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(), []storage.Image{pngImage("a.png")})
	require.NoError(t, err)
	_, err = f.svc.UpdateRefundStatus(ctx, refund.ID, model.RefundStatusApproved, "")
	require.NoError(t, err)

	before, err := f.repos.refunds.FindByID(ctx, refund.ID)
	require.NoError(t, err)

	reason := "Changed my mind"
	_, err = f.svc.UpdateRefundRequest(ctx, f.customer.ID, refund.ID, RefundUpdateInput{Reason: &reason})
	assert.ErrorIs(t, err, ErrRefundNotPending)

	err = f.svc.DeleteRefundRequest(ctx, f.customer.ID, refund.ID)
	assert.ErrorIs(t, err, ErrRefundNotPending)

	after, err := f.repos.refunds.FindByID(ctx, refund.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Reason, after.Reason)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Images, after.Images)
	assert.Empty(t, f.store.deleted)
}

func TestRefundService_UpdateAndDeletePending(t *testing.T) {
	f := setupRefundTest(t)
	ctx := context.Background()
	other := createCustomer(t, f.repos, "other@example.com")

	refund, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(), []storage.Image{pngImage("a.png")})
	require.NoError(t, err)

	reason := "Defective product"
	_, err = f.svc.UpdateRefundRequest(ctx, other.ID, refund.ID, RefundUpdateInput{Reason: &reason})
	assert.ErrorIs(t, err, ErrRefundNotFound)

	updated, err := f.svc.UpdateRefundRequest(ctx, f.customer.ID, refund.ID, RefundUpdateInput{Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, reason, updated.Reason)

	empty := ""
	_, err = f.svc.UpdateRefundRequest(ctx, f.customer.ID, refund.ID, RefundUpdateInput{ContactDetails: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	mine, err := f.svc.ListUserRefunds(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	assert.ErrorIs(t, f.svc.DeleteRefundRequest(ctx, other.ID, refund.ID), ErrRefundNotFound)
	require.NoError(t, f.svc.DeleteRefundRequest(ctx, f.customer.ID, refund.ID))

	_, err = f.svc.GetRefund(ctx, f.customer.ID, refund.ID)
	assert.ErrorIs(t, err, ErrRefundNotFound)
	assert.Equal(t, refund.Images, f.store.deleted)

	order, err := f.repos.orders.FindByID(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, order.Status)
}

func TestRefundService_ListRefunds(t *testing.T) {
	f := setupRefundTest(t)
	ctx := context.Background()

	second := createOrder(t, f.repos, f.customer.ID, "Kandy", model.PaymentStatusPaid)
	first, err := f.svc.CreateRefundRequest(ctx, f.customer.ID, f.order.ID, validRefundInput(), nil)
	require.NoError(t, err)
	_, err = f.svc.CreateRefundRequest(ctx, f.customer.ID, second.ID, validRefundInput(), nil)
	require.NoError(t, err)
	_, err = f.svc.UpdateRefundStatus(ctx, first.ID, model.RefundStatusApproved, "")
	require.NoError(t, err)

	all, err := f.svc.ListRefunds(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.svc.ListRefunds(ctx, model.RefundStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	got, err := f.svc.GetRefundByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Order)
	assert.Equal(t, f.order.ID, got.Order.ID)
}
