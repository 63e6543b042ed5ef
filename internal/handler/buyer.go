package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/save-n-serve/internal/auth"
	"github.com/iliyamo/save-n-serve/internal/middleware"
	"github.com/iliyamo/save-n-serve/internal/model"
	"github.com/iliyamo/save-n-serve/internal/repository"
)

// BuyerHandler bundles dependencies for the buyer endpoints.
type BuyerHandler struct {
	Buyers *repository.BuyerRepo
	Auth   *auth.Service
}

func NewBuyerHandler(buyers *repository.BuyerRepo, svc *auth.Service) *BuyerHandler {
	return &BuyerHandler{Buyers: buyers, Auth: svc}
}

// ----- DTOs -----

type buyerRegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	MobileNo string `json:"mobile_no"`
}

type buyerLoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type buyerUpdateReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	MobileNo string `json:"mobile_no"`
}

type buyerPart struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	MobileNo string `json:"mobile_no"`
}

type buyerLoginResp struct {
	Token string     `json:"token"`
	Buyer buyerPart  `json:"buyer"`
	Role  model.Role `json:"role"`
}

func buyerView(b *model.Buyer) buyerPart {
	return buyerPart{ID: b.ID, Name: b.Name, Email: b.Email, MobileNo: b.MobileNo}
}

// Register creates a buyer account with a hashed password.
func (h *BuyerHandler) Register(c echo.Context) error {
	var req buyerRegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}

	hash, err := h.Auth.HashPassword(req.Password)
	if err != nil {
		return authError(c, err)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	id, err := h.Buyers.Create(ctx, &model.Buyer{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		MobileNo:     req.MobileNo,
	})
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "buyer registered successfully",
		"id":      id,
	})
}

// Login verifies credentials and returns a signed token envelope.
func (h *BuyerHandler) Login(c echo.Context) error {
	var req buyerLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return authError(c, err)
	}
	b, err := h.Buyers.GetByID(ctx, sess.Account.ID)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, buyerLoginResp{
		Token: sess.Token,
		Buyer: buyerView(b),
		Role:  model.RoleBuyer,
	})
}

// ForgotPassword starts the reset flow for the given email.
func (h *BuyerHandler) ForgotPassword(c echo.Context) error {
	email := resetEmail(c)
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Auth.RequestPasswordReset(ctx, email); err != nil {
		return authError(c, err)
	}
	return forgotPasswordResponse(c)
}

// ResetPassword consumes a reset token and stores the new password.
func (h *BuyerHandler) ResetPassword(c echo.Context) error {
	token, newPassword := resetParams(c)
	if token == "" || newPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/new_password required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Auth.ResetPassword(ctx, token, newPassword); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated successfully"})
}

// Update changes the buyer's profile fields. The password and login email
// used as token subject are left alone; a blank field keeps its value.
func (h *BuyerHandler) Update(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok || p.UserID == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req buyerUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Buyers.GetByID(ctx, *p.UserID)
	if err != nil {
		return authError(c, err)
	}
	if req.Name != "" {
		b.Name = req.Name
	}
	if req.Email != "" {
		b.Email = req.Email
	}
	if req.MobileNo != "" {
		b.MobileNo = req.MobileNo
	}
	if err := h.Buyers.UpdateProfile(ctx, b); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
		"buyer":   buyerView(b),
	})
}

// Me returns the authenticated buyer's record.
func (h *BuyerHandler) Me(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok || p.UserID == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Buyers.GetByID(ctx, *p.UserID)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, buyerView(b))
}

// resetEmail reads the reset-request email from the JSON body or, for
// clients that send it as a query parameter, from the URL.
func resetEmail(c echo.Context) string {
	var req struct {
		Email string `json:"email"`
	}
	_ = c.Bind(&req)
	if req.Email == "" {
		req.Email = c.QueryParam("email")
	}
	return strings.TrimSpace(req.Email)
}

// resetParams reads the reset token and new password from the JSON body or
// query parameters.
func resetParams(c echo.Context) (token, newPassword string) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	_ = c.Bind(&req)
	if req.Token == "" {
		req.Token = c.QueryParam("token")
	}
	if req.NewPassword == "" {
		req.NewPassword = c.QueryParam("new_password")
	}
	return strings.TrimSpace(req.Token), req.NewPassword
}
