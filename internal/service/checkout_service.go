package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/monuchauhan/nios-elearning/internal/catalog"
	"github.com/monuchauhan/nios-elearning/internal/config"
	"github.com/monuchauhan/nios-elearning/internal/domain"
	"github.com/monuchauhan/nios-elearning/internal/observability"
	"github.com/monuchauhan/nios-elearning/internal/payment"
	"github.com/monuchauhan/nios-elearning/internal/pricing"
	"github.com/monuchauhan/nios-elearning/internal/repository"
	apperrors "github.com/monuchauhan/nios-elearning/pkg/util/errorutil"
)

const (
	modeDemo    = "demo"
	modeGateway = "gateway"
)

// CheckoutService runs the purchase flow: quote, order, verified completion.
type CheckoutService struct {
	course    catalog.Course
	prices    *pricing.Resolver
	users     repository.UserRepository
	purchases repository.PurchaseRepository
	intents   repository.IntentStore
	gateway   payment.Gateway
	verifier  *payment.Verifier
	keyID     string
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// CheckoutDependencies bundles collaborators for the checkout service.
// Gateway is nil when the service runs in demo mode.
type CheckoutDependencies struct {
	Catalog      *catalog.Catalog
	Pricing      *pricing.Resolver
	UserRepo     repository.UserRepository
	PurchaseRepo repository.PurchaseRepository
	Intents      repository.IntentStore
	Gateway      payment.Gateway
	Metrics      *observability.Metrics
	Logger       *zap.Logger
}

// NewCheckoutService builds the service. The payment configuration decides
// demo versus gateway mode once, here.
func NewCheckoutService(cfg config.PaymentConfig, deps CheckoutDependencies) *CheckoutService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prices := deps.Pricing
	if prices == nil {
		prices = pricing.NewResolver(deps.Catalog)
	}

	svc := &CheckoutService{
		course:    deps.Catalog.Course(),
		prices:    prices,
		users:     deps.UserRepo,
		purchases: deps.PurchaseRepo,
		intents:   deps.Intents,
		metrics:   deps.Metrics,
		logger:    logger,
	}
	if cfg.GatewayEnabled() && deps.Gateway != nil {
		svc.gateway = deps.Gateway
		svc.keyID = cfg.KeyID
		svc.verifier = payment.NewVerifier(cfg.KeySecret)
	} else {
		svc.verifier = payment.NewVerifier("")
	}
	return svc
}

// DemoMode reports whether orders are fabricated locally.
func (s *CheckoutService) DemoMode() bool {
	return s.gateway == nil
}

// PaymentSettings is what the client needs before checkout.
type PaymentSettings struct {
	KeyID       string
	Currency    string
	CoursePrice int64
	DemoMode    bool
}

func (s *CheckoutService) PaymentSettings() PaymentSettings {
	return PaymentSettings{
		KeyID:       s.keyID,
		Currency:    s.course.Currency,
		CoursePrice: s.course.Price,
		DemoMode:    s.DemoMode(),
	}
}

// Quote prices the course with code, rejecting unknown codes.
func (s *CheckoutService) Quote(code string) (pricing.Price, error) {
	return s.prices.Quote(s.course.Price, code)
}

// Buyer is the contact prefilled in the gateway checkout form.
type Buyer struct {
	Name   string
	Email  string
	Mobile string
}

// IssuedOrder describes an order the client can pay.
type IssuedOrder struct {
	OrderID    string
	Amount     int64
	Currency   string
	Discount   int64
	CouponCode *string
	Demo       bool
	CourseName string
	// set in gateway mode only
	KeyID string
	Buyer *Buyer
}

// CreateOrder opens an order for the caller. Unknown coupons are ignored.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID, couponCode string) (*IssuedOrder, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotPurchased(ctx, user); err != nil {
		return nil, err
	}

	price := s.prices.Resolve(s.course.Price, couponCode)
	issued := &IssuedOrder{
		Amount:     price.Final,
		Currency:   s.course.Currency,
		Discount:   price.Discount,
		CouponCode: price.CouponCode,
		CourseName: s.course.Title,
	}

	mode := modeDemo
	if s.gateway == nil {
		issued.OrderID = payment.NewDemoOrderID()
		issued.Demo = true
	} else {
		mode = modeGateway
		order, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
			Amount:   price.Final,
			Currency: s.course.Currency,
			Receipt:  payment.NewReceipt(),
			Notes: map[string]string{
				"userId":     user.ID,
				"courseId":   s.course.ID,
				"couponCode": deref(price.CouponCode),
			},
		})
		if err != nil {
			s.logger.Error("gateway order failed", zap.String("user_id", user.ID), zap.Error(err))
			return nil, apperrors.NewGatewayUnavailable(err)
		}
		issued.OrderID = order.ID
		issued.KeyID = s.keyID
		issued.Buyer = &Buyer{Name: user.Name, Email: user.Email, Mobile: user.Mobile}
	}

	intent := &domain.OrderIntent{
		OrderRef:   issued.OrderID,
		UserID:     user.ID,
		CourseID:   s.course.ID,
		Amount:     price.Final,
		Discount:   price.Discount,
		Currency:   s.course.Currency,
		CouponCode: price.CouponCode,
		Demo:       issued.Demo,
	}
	if err := s.intents.Save(ctx, intent); err != nil {
		s.logger.Warn("order intent not stored", zap.String("order_ref", issued.OrderID), zap.Error(err))
	}

	s.metrics.OrderIssued(mode)
	s.logger.Info("order issued",
		zap.String("user_id", user.ID),
		zap.String("order_ref", issued.OrderID),
		zap.Int64("amount", issued.Amount),
		zap.String("mode", mode))
	return issued, nil
}

// Completion is a client's claim that it paid for an order.
type Completion struct {
	UserID     string
	Callback   payment.Callback
	CouponCode string
	// client echoes of the order; checked, never trusted
	Amount   *int64
	Discount *int64
}

// CompletePurchase verifies the callback and records the purchase. Nothing
// is written unless verification passes, and a repeated completion fails
// with ALREADY_PURCHASED without touching the first record.
func (s *CheckoutService) CompletePurchase(ctx context.Context, in Completion) error {
	user, err := s.loadUser(ctx, in.UserID)
	if err != nil {
		return err
	}
	if err := s.ensureNotPurchased(ctx, user); err != nil {
		return err
	}

	if err := s.verifier.Verify(in.Callback); err != nil {
		s.metrics.SignatureRejected()
		s.logger.Warn("payment callback rejected",
			zap.String("user_id", user.ID),
			zap.String("order_ref", in.Callback.OrderRef),
			zap.String("kind", string(in.Callback.Kind)),
			zap.Error(err))
		if errors.Is(err, payment.ErrMissingFields) {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		return apperrors.NewSignatureInvalid(err)
	}

	price, err := s.settle(ctx, user.ID, in)
	if err != nil {
		return err
	}

	mode := modeGateway
	paymentID := in.Callback.PaymentRef
	if in.Callback.Kind == payment.CallbackDemo {
		mode = modeDemo
		paymentID = payment.NewDemoPaymentID()
	}

	purchase := &domain.Purchase{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		CourseID:   s.course.ID,
		PaymentID:  paymentID,
		Amount:     price.Final,
		CouponCode: price.CouponCode,
		Discount:   price.Discount,
	}
	if err := s.purchases.Record(ctx, purchase); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyPurchased):
			return apperrors.NewAlreadyPurchased(err)
		case errors.Is(err, domain.ErrUserNotFound):
			return apperrors.NewNotFound("user", nil)
		default:
			return apperrors.NewInternalError(fmt.Errorf("record purchase: %w", err))
		}
	}

	if ref := in.Callback.OrderRef; ref != "" {
		if err := s.intents.Delete(ctx, ref); err != nil {
			s.logger.Warn("order intent not cleared", zap.String("order_ref", ref), zap.Error(err))
		}
	}

	s.metrics.PurchaseRecorded(mode)
	s.logger.Info("purchase recorded",
		zap.String("user_id", user.ID),
		zap.String("purchase_id", purchase.ID),
		zap.String("order_ref", in.Callback.OrderRef),
		zap.Int64("amount", purchase.Amount),
		zap.String("mode", mode))
	return nil
}

// settle decides what the purchase costs. The stored intent wins; without
// one the price is recomputed from the submitted coupon.
func (s *CheckoutService) settle(ctx context.Context, userID string, in Completion) (pricing.Price, error) {
	price := s.prices.Resolve(s.course.Price, in.CouponCode)

	if ref := in.Callback.OrderRef; ref != "" {
		intent, err := s.intents.Get(ctx, ref)
		switch {
		case err == nil:
			if intent.UserID != userID || intent.CourseID != s.course.ID {
				return pricing.Price{}, apperrors.NewValidationError("order does not belong to this account", nil)
			}
			price = pricing.Price{
				Base:       s.course.Price,
				Discount:   intent.Discount,
				Final:      intent.Amount,
				CouponCode: intent.CouponCode,
			}
		case errors.Is(err, domain.ErrIntentNotFound):
		default:
			s.logger.Warn("order intent lookup failed, recomputing price", zap.String("order_ref", ref), zap.Error(err))
		}
	}

	if in.Amount != nil && *in.Amount != price.Final {
		return pricing.Price{}, apperrors.NewValidationError("amount does not match the order", map[string]any{"expected": price.Final})
	}
	if in.Discount != nil && *in.Discount != price.Discount {
		return pricing.Price{}, apperrors.NewValidationError("discount does not match the order", map[string]any{"expected": price.Discount})
	}
	return price, nil
}

func (s *CheckoutService) loadUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// ensureNotPurchased is the early exit; the purchases unique key is what
// actually prevents a second record.
func (s *CheckoutService) ensureNotPurchased(ctx context.Context, user *domain.User) error {
	if user.HasPurchased {
		return apperrors.NewAlreadyPurchased(domain.ErrAlreadyPurchased)
	}
	existing, err := s.purchases.FindByUserAndCourse(ctx, user.ID, s.course.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if existing != nil {
		return apperrors.NewAlreadyPurchased(domain.ErrAlreadyPurchased)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
