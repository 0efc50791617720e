package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/monuchauhan/nios-elearning/internal/api/dto"
	"github.com/monuchauhan/nios-elearning/internal/service"
)

// PaymentHandler exposes the checkout endpoints.
type PaymentHandler struct {
	checkout *service.CheckoutService
}

// NewPaymentHandler constructs handler.
func NewPaymentHandler(checkout *service.CheckoutService) *PaymentHandler {
	return &PaymentHandler{checkout: checkout}
}

// Config handles GET /api/payment/config.
func (h *PaymentHandler) Config(c *fiber.Ctx) error {
	s := h.checkout.PaymentSettings()
	return c.JSON(dto.PaymentConfigResponse{
		KeyID:       s.KeyID,
		Currency:    s.Currency,
		CoursePrice: s.CoursePrice,
		DemoMode:    s.DemoMode,
	})
}

// ValidateCoupon handles POST /api/payment/validate-coupon.
func (h *PaymentHandler) ValidateCoupon(c *fiber.Ctx) error {
	var req dto.ValidateCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	price, err := h.checkout.Quote(req.Code)
	if err != nil {
		return err
	}
	return c.JSON(dto.ValidateCouponResponse{
		Valid:      true,
		Code:       *price.CouponCode,
		Discount:   price.Discount,
		FinalPrice: price.Final,
		Message:    fmt.Sprintf("Coupon applied! You save ₹%d", price.Discount),
	})
}

// CreateOrder handles POST /api/payment/create-order.
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	id, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	order, err := h.checkout.CreateOrder(c.UserContext(), id, req.CouponCode)
	if err != nil {
		return err
	}

	resp := dto.CreateOrderResponse{
		OrderID:    order.OrderID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		Discount:   order.Discount,
		CouponCode: order.CouponCode,
		DemoMode:   order.Demo,
		CourseName: order.CourseName,
	}
	if order.Buyer != nil {
		resp.RazorpayKeyID = order.KeyID
		resp.UserEmail = order.Buyer.Email
		resp.UserName = order.Buyer.Name
		resp.UserMobile = order.Buyer.Mobile
	}
	return c.JSON(resp)
}

// Verify handles POST /api/payment/verify.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	id, err := requireUserID(c)
	if err != nil {
		return err
	}
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.checkout.CompletePurchase(c.UserContext(), service.Completion{
		UserID:     id,
		Callback:   req.Callback(),
		CouponCode: req.CouponCode,
		Amount:     req.Amount,
		Discount:   req.Discount,
	}); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "Payment successful! You now have full access to the course."})
}
