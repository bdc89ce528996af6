package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/stepup/stepup-backend/internal/app/model"
	"github.com/stepup/stepup-backend/internal/app/repository"
	"github.com/stepup/stepup-backend/internal/storage"
	"github.com/stepup/stepup-backend/pkg/logger"
	"github.com/stepup/stepup-backend/pkg/mailer"
	"gorm.io/gorm"
)

const refundImageFolder = "refunds"

var (
	ErrRefundNotFound      = errors.New("refund request not found")
	ErrRefundAlreadyExists = errors.New("a refund request already exists for this order")
	ErrRefundNotEligible   = errors.New("order is not eligible for a refund")
	ErrRefundNotPending    = errors.New("refund request is no longer pending")
	ErrInvalidRefundStatus = errors.New("refund status must be approved or rejected")
	ErrTooManyImages       = errors.New("too many images")
)

type RefundInput struct {
	Reason            string
	Description       string
	ContactPreference model.ContactPreference
	ContactDetails    string
}

// RefundUpdateInput leaves nil fields unchanged.
type RefundUpdateInput struct {
	Reason            *string
	Description       *string
	ContactPreference *model.ContactPreference
	ContactDetails    *string
}

type RefundService interface {
	CreateRefundRequest(ctx context.Context, userID, orderID uint, input RefundInput, images []storage.Image) (*model.Refund, error)
	GetRefund(ctx context.Context, userID, refundID uint) (*model.Refund, error)
	ListUserRefunds(ctx context.Context, userID uint) ([]model.Refund, error)
	UpdateRefundRequest(ctx context.Context, userID, refundID uint, input RefundUpdateInput) (*model.Refund, error)
	DeleteRefundRequest(ctx context.Context, userID, refundID uint) error

	ListRefunds(ctx context.Context, status model.RefundStatus) ([]model.Refund, error)
	GetRefundByID(ctx context.Context, refundID uint) (*model.Refund, error)
	UpdateRefundStatus(ctx context.Context, refundID uint, status model.RefundStatus, adminNote string) (*model.Refund, error)
}

type refundService struct {
	tm         repository.TransactionManager
	refundRepo repository.RefundRepository
	orderRepo  repository.OrderRepository
	images     storage.ImageStore
	mail       mailer.Mailer
	maxImages  int
	now        func() time.Time
}

func NewRefundService(
	tm repository.TransactionManager,
	refundRepo repository.RefundRepository,
	orderRepo repository.OrderRepository,
	images storage.ImageStore,
	mail mailer.Mailer,
	maxImages int,
) RefundService {
	return &refundService{
		tm:         tm,
		refundRepo: refundRepo,
		orderRepo:  orderRepo,
		images:     images,
		mail:       mail,
		maxImages:  maxImages,
		now:        time.Now,
	}
}

func validateRefundInput(input RefundInput) error {
	if strings.TrimSpace(input.Reason) == "" {
		return newValidationError("reason", "reason is required")
	}
	if !input.ContactPreference.Valid() {
		return newValidationError("contactPreference", "contactPreference must be one of: email phone")
	}
	if strings.TrimSpace(input.ContactDetails) == "" {
		return newValidationError("contactDetails", "contactDetails is required")
	}
	return nil
}

// checkEligibility applies the order-side refund rules.
func checkEligibility(order *model.Order, userID uint) error {
	if order.UserID != userID {
		return ErrOrderNotFound
	}
	if order.Status == model.OrderStatusRefunded || order.PaymentStatus != model.PaymentStatusPaid {
		return ErrRefundNotEligible
	}
	return nil
}

func (s *refundService) CreateRefundRequest(ctx context.Context, userID, orderID uint, input RefundInput, images []storage.Image) (*model.Refund, error) {
	logger.Info("Creating refund request", map[string]interface{}{
		"user_id":     userID,
		"order_id":    orderID,
		"image_count": len(images),
	})

	if err := validateRefundInput(input); err != nil {
		return nil, err
	}
	if len(images) > s.maxImages {
		return nil, fmt.Errorf("%w: at most %d images are allowed", ErrTooManyImages, s.maxImages)
	}

	// reject before touching storage
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if err := checkEligibility(order, userID); err != nil {
		logger.Warn("Refund request rejected", map[string]interface{}{
			"order_id":       orderID,
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
			"error":          err.Error(),
		})
		return nil, err
	}
	exists, err := s.refundRepo.ExistsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRefundAlreadyExists
	}

	paths := make([]string, 0, len(images))
	for _, img := range images {
		p, err := s.images.Save(ctx, refundImageFolder, img)
		if err != nil {
			s.removeImages(ctx, paths)
			return nil, err
		}
		paths = append(paths, p)
	}

	refund := &model.Refund{
		OrderID:           orderID,
		UserID:            userID,
		OrderNumber:       order.OrderNumber(),
		Reason:            strings.TrimSpace(input.Reason),
		Description:       input.Description,
		Images:            paths,
		ContactPreference: input.ContactPreference,
		ContactDetails:    strings.TrimSpace(input.ContactDetails),
		Status:            model.RefundStatusPending,
	}

	err = s.tm.Execute(ctx, func(repos repository.TxRepositories) error {
		order, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := checkEligibility(order, userID); err != nil {
			return err
		}

		exists, err := repos.Refunds().ExistsForOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if exists {
			return ErrRefundAlreadyExists
		}

		if err := repos.Refunds().Create(ctx, refund); err != nil {
			if repository.IsDuplicateKey(err) {
				return ErrRefundAlreadyExists
			}
			return err
		}

		order.Status = model.OrderStatusRefundRequested
		return repos.Orders().Update(ctx, order)
	})
	if err != nil {
		s.removeImages(ctx, paths)
		logger.Warn("Refund request failed", map[string]interface{}{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return nil, err
	}

	logger.Info("Refund request created", map[string]interface{}{
		"refund_id": refund.ID,
		"order_id":  orderID,
		"user_id":   userID,
	})
	return s.refundRepo.FindByID(ctx, refund.ID)
}

// removeImages is best-effort; failures are only logged.
func (s *refundService) removeImages(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.images.Delete(context.WithoutCancel(ctx), p); err != nil {
			logger.Error("Failed to remove refund image", err, map[string]interface{}{
				"path": p,
			})
		}
	}
}

func (s *refundService) findOwned(ctx context.Context, userID, refundID uint) (*model.Refund, error) {
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	// other users' refunds are reported as missing
	if refund.UserID != userID {
		return nil, ErrRefundNotFound
	}
	return refund, nil
}

func (s *refundService) GetRefund(ctx context.Context, userID, refundID uint) (*model.Refund, error) {
	return s.findOwned(ctx, userID, refundID)
}

func (s *refundService) ListUserRefunds(ctx context.Context, userID uint) ([]model.Refund, error) {
	return s.refundRepo.FindByUserID(ctx, userID)
}

func (s *refundService) UpdateRefundRequest(ctx context.Context, userID, refundID uint, input RefundUpdateInput) (*model.Refund, error) {
	refund, err := s.findOwned(ctx, userID, refundID)
	if err != nil {
		return nil, err
	}
	if refund.Status != model.RefundStatusPending {
		return nil, ErrRefundNotPending
	}

	if input.Reason != nil {
		refund.Reason = strings.TrimSpace(*input.Reason)
	}
	if input.Description != nil {
		refund.Description = *input.Description
	}
	if input.ContactPreference != nil {
		refund.ContactPreference = *input.ContactPreference
	}
	if input.ContactDetails != nil {
		refund.ContactDetails = strings.TrimSpace(*input.ContactDetails)
	}
	if err := validateRefundInput(RefundInput{
		Reason:            refund.Reason,
		ContactPreference: refund.ContactPreference,
		ContactDetails:    refund.ContactDetails,
	}); err != nil {
		return nil, err
	}

	if err := s.refundRepo.Update(ctx, refund); err != nil {
		return nil, err
	}

	logger.Info("Refund request updated", map[string]interface{}{
		"refund_id": refund.ID,
		"user_id":   userID,
	})
	return refund, nil
}

func (s *refundService) DeleteRefundRequest(ctx context.Context, userID, refundID uint) error {
	refund, err := s.findOwned(ctx, userID, refundID)
	if err != nil {
		return err
	}
	if refund.Status != model.RefundStatusPending {
		return ErrRefundNotPending
	}

	err = s.tm.Execute(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Refunds().Delete(ctx, refund.ID); err != nil {
			return err
		}

		order, err := repos.Orders().FindByID(ctx, refund.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		order.Status = model.OrderStatusDelivered
		return repos.Orders().Update(ctx, order)
	})
	if err != nil {
		logger.Error("Failed to delete refund request", err, map[string]interface{}{
			"refund_id": refundID,
		})
		return err
	}

	s.removeImages(ctx, refund.Images)

	logger.Info("Refund request deleted", map[string]interface{}{
		"refund_id": refundID,
		"order_id":  refund.OrderID,
	})
	return nil
}

func (s *refundService) ListRefunds(ctx context.Context, status model.RefundStatus) ([]model.Refund, error) {
	return s.refundRepo.FindAll(ctx, status)
}

func (s *refundService) GetRefundByID(ctx context.Context, refundID uint) (*model.Refund, error) {
	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	return refund, nil
}

func (s *refundService) UpdateRefundStatus(ctx context.Context, refundID uint, status model.RefundStatus, adminNote string) (*model.Refund, error) {
	logger.Info("Updating refund status", map[string]interface{}{
		"refund_id": refundID,
		"status":    status,
	})

	if !status.Decision() {
		return nil, ErrInvalidRefundStatus
	}

	err := s.tm.Execute(ctx, func(repos repository.TxRepositories) error {
		refund, err := repos.Refunds().FindByID(ctx, refundID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRefundNotFound
			}
			return err
		}
		if refund.Status != model.RefundStatusPending {
			return ErrRefundNotPending
		}

		now := s.now()
		refund.Status = status
		refund.AdminNote = adminNote
		refund.ResolvedAt = &now
		if err := repos.Refunds().Update(ctx, refund); err != nil {
			return err
		}

		order, err := repos.Orders().FindByID(ctx, refund.OrderID)
		if err != nil {
			return err
		}
		if status == model.RefundStatusApproved {
			order.Status = model.OrderStatusRefunded
			order.PaymentStatus = model.PaymentStatusRefunded
		} else {
			order.Status = model.OrderStatusDelivered
		}
		return repos.Orders().Update(ctx, order)
	})
	if err != nil {
		logger.Warn("Refund status update failed", map[string]interface{}{
			"refund_id": refundID,
			"error":     err.Error(),
		})
		return nil, err
	}

	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, refund)

	logger.Info("Refund status updated", map[string]interface{}{
		"refund_id": refund.ID,
		"status":    refund.Status,
	})
	return refund, nil
}

func (s *refundService) notifyDecision(ctx context.Context, refund *model.Refund) {
	if s.mail == nil || refund.ContactPreference != model.ContactByEmail {
		return
	}

	subject := fmt.Sprintf("Your refund request for %s was %s", refund.OrderNumber, refund.Status)
	htmlBody := fmt.Sprintf(
		"<p>Hello,</p><p>Your refund request for order <strong>%s</strong> has been <strong>%s</strong>.</p>",
		html.EscapeString(refund.OrderNumber), refund.Status,
	)
	textBody := fmt.Sprintf("Hello,\n\nYour refund request for order %s has been %s.\n", refund.OrderNumber, refund.Status)
	if refund.AdminNote != "" {
		htmlBody += fmt.Sprintf("<p>Note from our team: %s</p>", html.EscapeString(refund.AdminNote))
		textBody += fmt.Sprintf("\nNote from our team: %s\n", refund.AdminNote)
	}

	if err := s.mail.Send(ctx, mailer.Message{
		To:       refund.ContactDetails,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}); err != nil {
		logger.Error("Failed to send refund decision email", err, map[string]interface{}{
			"refund_id": refund.ID,
		})
	}
}
